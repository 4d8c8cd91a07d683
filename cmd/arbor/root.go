package main

import (
	"fmt"
	"os"

	"github.com/aretw0/arbor/internal/cli"
	"github.com/aretw0/arbor/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "arbor",
	Short: "Arbor expands container declarations into fixture trees",
	Long: `Arbor builds fixture generation trees from container declarations,
replaying sample values where given and synthesizing placeholders up to a decided size.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("config", "c", "arbor.yaml", "Configuration file (YAML or JSON)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level override: debug, info, warn, error")
	rootCmd.PersistentFlags().String("store", "", "Snapshot store override: memory, redis, bolt")
	rootCmd.PersistentFlags().Uint64("seed", 0, "Seed for reproducible size decisions")
}

// loadConfig reads the config file, then environment overrides, then flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	overrides := config.EnvOverrides(os.Environ())
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		overrides["log_level"] = level
	}
	if cmd.Flags().Changed("seed") {
		seed, _ := cmd.Flags().GetUint64("seed")
		overrides["seed"] = seed
	}
	if backend, _ := cmd.Flags().GetString("store"); backend != "" {
		store, _ := overrides["store"].(map[string]any)
		if store == nil {
			store = map[string]any{}
		}
		store["backend"] = backend
		overrides["store"] = store
	}

	if err := cfg.Apply(overrides); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newRuntime loads the configuration and wires a runtime from it.
func newRuntime(cmd *cobra.Command) (*cli.Runtime, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return cli.NewRuntime(cmd.Context(), cfg, os.Stderr)
}
