package main

import (
	"github.com/aretw0/arbor/internal/cli"
	"github.com/spf13/cobra"
)

var expandCmd = &cobra.Command{
	Use:   "expand [sample-file]",
	Short: "Expand the containers declared in a sample file",
	Long: `Reads a YAML or JSON sample file with a top-level "containers" list,
builds one fixture tree per container and prints it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		save, _ := cmd.Flags().GetBool("save")

		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		_, err = cli.RunExpand(cmd.Context(), rt, cli.ExpandOptions{
			File:   args[0],
			Format: format,
			Save:   save,
			Out:    cmd.OutOrStdout(),
		})
		return err
	},
}

func init() {
	rootCmd.AddCommand(expandCmd)
	expandCmd.Flags().StringP("format", "f", cli.FormatTree, "Output format: tree, json or mermaid")
	expandCmd.Flags().Bool("save", false, "Persist the snapshots to the configured store")
}
