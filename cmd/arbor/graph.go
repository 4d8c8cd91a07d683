package main

import (
	"fmt"

	"github.com/aretw0/arbor/internal/cli"
	"github.com/aretw0/arbor/internal/presentation/graph"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [sample-file | --id snapshot-id]",
	Short: "Export a fixture tree as a Mermaid diagram",
	Long:  `Outputs a Mermaid diagram (graph TD) of a freshly expanded sample file or of a saved snapshot.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, _ := cmd.Flags().GetString("id")
		if (id == "") == (len(args) == 0) {
			return fmt.Errorf("give either a sample file or --id")
		}

		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		if id != "" {
			snap, err := rt.Engine.Load(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(snap, nil))
			return nil
		}

		_, err = cli.RunExpand(cmd.Context(), rt, cli.ExpandOptions{
			File:   args[0],
			Format: cli.FormatMermaid,
			Out:    cmd.OutOrStdout(),
		})
		return err
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("id", "", "Saved snapshot ID to draw")
}
