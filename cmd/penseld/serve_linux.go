//go:build linux

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/holmestyler/pensel"
	"github.com/holmestyler/pensel/internal/calibration"
	"github.com/holmestyler/pensel/internal/transport"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the engine against a real serial-attached device",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	log := newLogger()

	cfg, cfgOK := loadConfig(log)

	port, err := transport.OpenSerialPort(cfg.Serial.Path)
	if err != nil {
		return err
	}
	defer port.Close()

	params := pensel.DefaultParams(port)
	params.Config = cfg
	params.Calibration = calibration.NewFileStore(cfg.CalibrationPath)
	params.Logger = log.WithPort(cfg.Serial.Path)
	params.Debug = flags.Debug
	sys, err := pensel.NewSystem(params)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := sys.Start(ctx); err != nil {
		if flags.Debug {
			// Bring-up failures halt rather than exit, mirroring the
			// device's own fatal path: keep reporting until killed.
			sys.Fatal(pensel.GenError, err)
		}
		return err
	}
	defer sys.Stop()

	// Start clears the critical record, so the flag is raised afterwards.
	if !cfgOK {
		sys.Critical().Set(pensel.CriticalConfigLoad)
	}

	log.Info("serving", "device", cfg.Serial.Path, "baud", cfg.Serial.Baud)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	s := <-sig
	log.Info("shutting down", "signal", s.String())
	return nil
}
