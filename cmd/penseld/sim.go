package main

import (
	"context"
	"encoding/binary"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/holmestyler/pensel"
	"github.com/holmestyler/pensel/internal/calibration"
	"github.com/holmestyler/pensel/internal/logging"
	"github.com/holmestyler/pensel/internal/transport"
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Run the engine against a loopback port with a synthetic host",
	RunE:  runSim,
}

func init() {
	rootCmd.AddCommand(simCmd)
}

func runSim(cmd *cobra.Command, _ []string) error {
	log := newLogger()

	cfg, cfgOK := loadConfig(log)

	port := transport.NewLoopbackPort(0)

	params := pensel.DefaultParams(port)
	params.Config = cfg
	params.Calibration = calibration.NewDefaultStore()
	params.Logger = log
	params.Debug = flags.Debug
	sys, err := pensel.NewSystem(params)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := sys.Start(ctx); err != nil {
		return err
	}
	defer sys.Stop()

	// Start clears the critical record, so the flag is raised afterwards.
	if !cfgOK {
		sys.Critical().Set(pensel.CriticalConfigLoad)
	}

	// Synthetic host: a version request up front, then a timestamp poll
	// each second, decoding whatever comes back on the shared outbound
	// channel.
	go hostPoll(ctx, port, log)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	s := <-sig
	log.Info("shutting down", "signal", s.String())
	return nil
}

func hostPoll(ctx context.Context, port *transport.LoopbackPort, log *logging.Logger) {
	port.Feed([]byte{0xBE, 0xEF, 0x30, 0x00})

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	// A drain can catch a frame mid-write, so the remainder carries over
	// to the next pass.
	var buf []byte
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			port.Feed([]byte{0xBE, 0xEF, 0x31, 0x00})
		case <-time.After(100 * time.Millisecond):
		}

		buf = append(buf, port.DrainOutbound()...)
		for len(buf) >= 2 {
			retcode, length := buf[0], int(buf[1])
			if len(buf) < 2+length {
				break
			}
			payload := buf[2 : 2+length]
			switch {
			case retcode == 0 && length == 2:
				log.Info("device version", "major", payload[0], "minor", payload[1])
			case retcode == 0 && length == 4:
				log.Info("device timestamp", "ms", binary.LittleEndian.Uint32(payload))
			default:
				log.Info("frame", "retcode", retcode, "len", length)
			}
			buf = buf[2+length:]
		}
	}
}
