// Package config holds the shared CLI configuration struct bound from
// cobra persistent flags, validated with struct tags, and overridable by
// ECAMCTL_* environment variables: flag wins over env, env wins over
// default, the same single struct threaded through every subcommand.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
)

// Config is the persistent flag set shared by every ecamctl subcommand.
type Config struct {
	DeviceName string `validate:"omitempty"`

	LogFormat string `validate:"oneof=text json"`
	LogLevel  string `validate:"oneof=debug info warn error"`

	MetricsAddr string `validate:"omitempty"`

	Trace bool
}

var validate = validator.New()

// Defaults returns a Config populated with ecamctl's baseline defaults,
// applied before any flag or environment override.
func Defaults() *Config {
	return &Config{
		LogFormat: "text",
		LogLevel:  "info",
	}
}

// BindPersistentFlags registers the shared persistent flags on cmd and
// binds them into cfg. Call once on the root command.
func BindPersistentFlags(cmd *cobra.Command, cfg *Config) {
	cmd.PersistentFlags().StringVar(&cfg.DeviceName, "device-name", cfg.DeviceName, "BLE device name to scan for and connect to")
	cmd.PersistentFlags().StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format: text|json")
	cmd.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug|info|warn|error")
	cmd.PersistentFlags().StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "Metrics HTTP listen address (e.g. :9100); empty disables")
	cmd.PersistentFlags().BoolVar(&cfg.Trace, "trace", cfg.Trace, "Print every decoded packet to stderr")
}

// ApplyEnvOverrides applies ECAMCTL_* environment variables to any flag
// the caller did not explicitly set on the command line: a flag the user
// typed always wins over its environment counterpart.
func ApplyEnvOverrides(cmd *cobra.Command, cfg *Config) error {
	set := func(name string) bool { return cmd.Flags().Changed(name) }
	get := func(k string) (string, bool) {
		v, ok := os.LookupEnv(k)
		return strings.TrimSpace(v), ok
	}

	if !set("device-name") {
		if v, ok := get("ECAMCTL_DEVICE_NAME"); ok && v != "" {
			cfg.DeviceName = v
		}
	}
	if !set("log-format") {
		if v, ok := get("ECAMCTL_LOG_FORMAT"); ok && v != "" {
			cfg.LogFormat = v
		}
	}
	if !set("log-level") {
		if v, ok := get("ECAMCTL_LOG_LEVEL"); ok && v != "" {
			cfg.LogLevel = v
		}
	}
	if !set("metrics-addr") {
		if v, ok := get("ECAMCTL_METRICS_ADDR"); ok {
			cfg.MetricsAddr = v
		}
	}
	if !set("trace") {
		if v, ok := get("ECAMCTL_TRACE"); ok && v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid ECAMCTL_TRACE: %w", err)
			}
			cfg.Trace = b
		}
	}
	return nil
}

// Validate checks cfg's struct tags with go-playground/validator and
// reformats any failures into a "configuration error: ..." message.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return fmt.Errorf("configuration error: %w", err)
		}
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fmt.Sprintf("%s: failed %q constraint (got %v)", fe.Field(), fe.Tag(), fe.Value()))
		}
		return fmt.Errorf("configuration error: %s", strings.Join(msgs, "; "))
	}
	return nil
}
