// Command ecamctl drives a consumer espresso machine over BLE: it wraps
// the wire codec, connection state machine, and recipe engine in
// internal/{protocol,connection,transport,recipe,statistics} behind a
// small cobra.Command tree.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/barista-systems/ecamctl/internal/config"
	"github.com/barista-systems/ecamctl/internal/logging"
	"github.com/barista-systems/ecamctl/internal/metrics"
)

var cfg = config.Defaults()

// Build metadata, stamped via -ldflags at release time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:           "ecamctl",
	Short:         "Drive a consumer espresso machine over BLE",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.ApplyEnvOverrides(cmd, cfg); err != nil {
			return err
		}
		if err := config.Validate(cfg); err != nil {
			return err
		}
		logging.Set(logging.New(cfg.LogFormat, logging.ParseLevel(cfg.LogLevel), os.Stderr))

		if cfg.MetricsAddr != "" {
			metrics.InitBuildInfo(version, commit, date)
			metrics.StartHTTP(cfg.MetricsAddr)
		}
		return nil
	},
}

func init() {
	config.BindPersistentFlags(rootCmd, cfg)
	rootCmd.AddCommand(brewCmd, monitorCmd, listRecipesCmd, listCmd, pipeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
