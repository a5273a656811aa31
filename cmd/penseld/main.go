// penseld drives the Pensel engine from a host process: against a real
// serial-attached device (serve) or fully in-memory with a simulated
// sensor source and a synthetic host (sim).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/holmestyler/pensel"
	"github.com/holmestyler/pensel/internal/config"
	"github.com/holmestyler/pensel/internal/logging"
)

var flags struct {
	ConfigPath string
	Verbose    bool
	Debug      bool
}

var rootCmd = &cobra.Command{
	Use:   "penseld",
	Short: "Pensel orientation-sensor engine host",
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the engine version",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Printf("penseld v%d.%d\n", pensel.VersionMajor, pensel.VersionMinor)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flags.ConfigPath, "config", "c", "", "Path to the YAML configuration file")
	rootCmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Debug-level logging")
	rootCmd.PersistentFlags().BoolVar(&flags.Debug, "debug", false, "Use the reporting fatal-handler variant on unrecoverable errors")
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}

// newLogger builds the process logger from the flags.
func newLogger() *logging.Logger {
	cfg := logging.DefaultConfig()
	if flags.Verbose {
		cfg.Level = logging.LevelDebug
	}
	logger := logging.NewLogger(cfg)
	logging.SetDefault(logger)
	return logger
}

// loadConfig reads the YAML config, falling back to defaults (and raising
// the critical flag on sys later) when the file is missing or malformed.
func loadConfig(log *logging.Logger) (config.DeviceConfig, bool) {
	if flags.ConfigPath == "" {
		return config.Default(), true
	}
	cfg, err := config.Load(flags.ConfigPath)
	if err != nil {
		log.Warn("config load failed, using defaults", "path", flags.ConfigPath, "error", err)
		return config.Default(), false
	}
	return cfg, true
}
