package main

import (
	"os"
	"strings"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/internal/cli"
	"github.com/aretw0/arbor/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Starts the Arbor engine in server mode, exposing a JSON API and Prometheus metrics over HTTP.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.HTTP.Addr = addr
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		rt, err := cli.NewRuntime(ctx, cfg, os.Stderr)
		if err != nil {
			return err
		}
		defer rt.Close()

		if quiet, _ := cmd.Flags().GetBool("quiet"); !quiet {
			tui.PrintBanner(cmd.OutOrStdout(), strings.TrimSpace(arbor.Version))
		}
		if err := cli.RunServe(ctx, rt, cfg.HTTP.Addr, cmd.OutOrStdout()); err != nil {
			return err
		}
		if sig := ctx.Signal(); sig != nil {
			rt.Logger.Info("Stopped by signal", "signal", sig.String())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("addr", "a", "", "Address to listen on (overrides http.addr)")
	serveCmd.Flags().BoolP("quiet", "q", false, "Skip the banner")
}
