package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Inspect saved snapshots",
}

var snapshotListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved snapshot IDs",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		ids, err := rt.Store.List(cmd.Context())
		if err != nil {
			return err
		}
		for _, id := range ids {
			fmt.Fprintln(cmd.OutOrStdout(), id)
		}
		return nil
	},
}

var snapshotShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Print a saved snapshot as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		snap, err := rt.Engine.Load(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	},
}

var snapshotDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a saved snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		return rt.Store.Delete(cmd.Context(), args[0])
	},
}

func init() {
	snapshotCmd.AddCommand(snapshotListCmd, snapshotShowCmd, snapshotDeleteCmd)
	rootCmd.AddCommand(snapshotCmd)
}
