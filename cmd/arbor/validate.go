package main

import (
	"fmt"

	"github.com/aretw0/arbor/internal/validator"
	"github.com/aretw0/arbor/pkg/sample"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [sample-file]",
	Short: "Check a sample file for consistency",
	Long:  `Decodes every container of a sample file and reports invalid types, duplicate names and ineffective settings.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, err := sample.Load(args[0])
		if err != nil {
			return err
		}
		if err := validator.ValidateSample(file); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Sample is valid! ✅")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
