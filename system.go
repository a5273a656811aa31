// Package pensel wires the report protocol engine, the sensor sample
// pipeline, and their supporting services into a runnable system: the Go
// equivalent of the firmware's main() bring-up sequence in pensel_v1.c.
package pensel

import (
	"context"
	"fmt"
	"sync"

	"github.com/holmestyler/pensel/internal/buttons"
	"github.com/holmestyler/pensel/internal/config"
	"github.com/holmestyler/pensel/internal/filter"
	"github.com/holmestyler/pensel/internal/interfaces"
	"github.com/holmestyler/pensel/internal/loop"
	"github.com/holmestyler/pensel/internal/report"
	"github.com/holmestyler/pensel/internal/sensor"
	"github.com/holmestyler/pensel/internal/tick"
)

// Firmware version reported by report 0x30.
const (
	VersionMajor uint8 = 0
	VersionMinor uint8 = 1
)

// Params contains the collaborators and configuration a System is wired
// from. Port is required; everything else defaults.
type Params struct {
	// Port carries report frames in both directions.
	Port interfaces.Port

	// Source produces sensor packets. Defaults to a SimulatedSource at
	// the configured queue depths and default ODRs.
	Source sensor.Source

	// Calibration is consulted once at bring-up: load, validate, fall
	// back to defaults. Nil skips the calibration step entirely.
	Calibration interfaces.CalibrationStore

	// Buttons backs report 0x33. Defaults to a fresh Panel debounced by
	// the tick service.
	Buttons *buttons.Panel

	// Watchdog is pet from the tick service and the debug fatal handler.
	// Defaults to a StubWatchdog.
	Watchdog Watchdog

	// Observer collects operational counters. Defaults to recording into
	// a fresh Metrics.
	Observer Observer

	// Logger receives structured bring-up and fatal output. May be nil.
	Logger interfaces.Logger

	// Config supplies queue depths, initial streaming toggles, and the
	// sensor selector bytes applied at bring-up.
	Config config.DeviceConfig

	// Debug selects the reporting fatal-handler variant.
	Debug bool
}

// DefaultParams returns Params wired to port with the default
// configuration and a simulated sensor source.
func DefaultParams(port interfaces.Port) Params {
	return Params{
		Port:   port,
		Config: config.Default(),
	}
}

// System owns every component of a running engine. Construct with
// NewSystem, bring up with Start, and tear down with Stop.
type System struct {
	params Params

	metrics  *Metrics
	critical CriticalErrors
	fatal    *FatalHandler
	watchdog Watchdog

	source  sensor.Source
	filters *filter.Bank
	panel   *buttons.Panel
	tick    *tick.Service
	engine  *report.Engine
	loop    *loop.Loop

	cancel  context.CancelFunc
	done    chan struct{}
	started bool
	mu      sync.Mutex
}

// NewSystem wires a System from params. It does not start any goroutine;
// call Start.
func NewSystem(params Params) (*System, error) {
	if params.Port == nil {
		return nil, NewError("system.new", InvalidArgsError, "transport port required")
	}

	s := &System{params: params}

	s.watchdog = params.Watchdog
	if s.watchdog == nil {
		s.watchdog = &StubWatchdog{}
	}

	observer := params.Observer
	if observer == nil {
		s.metrics = NewMetrics()
		observer = NewMetricsObserver(s.metrics)
	}

	s.fatal = NewFatalHandler(params.Logger, s.watchdog, params.Debug)

	s.source = params.Source
	if s.source == nil {
		depths := params.Config.Queues
		if depths.AccelDepth == 0 {
			depths.AccelDepth = DefaultAccelQueueDepth
		}
		if depths.MagDepth == 0 {
			depths.MagDepth = DefaultMagQueueDepth
		}
		s.source = sensor.NewSimulatedSource(depths.AccelDepth, depths.MagDepth, 0, 0, params.Logger)
	}

	s.panel = params.Buttons
	if s.panel == nil {
		s.panel = buttons.NewPanel()
	}

	s.tick = tick.New(
		tick.WithDebounce(s.panel.Periodic),
		tick.WithWatchdogKick(s.watchdog.Pet),
	)

	s.filters = filter.NewBank()

	s.engine = report.NewEngine(report.Deps{
		Port:         params.Port,
		Source:       s.source,
		Observer:     observer,
		Buttons:      s.panel,
		VersionMajor: VersionMajor,
		VersionMinor: VersionMinor,
	})

	s.loop = loop.New(s.engine, s.source, s.filters, s.tick, params.Logger)
	s.loop.Observer = observer
	s.loop.Streaming.RawAccel = params.Config.Streaming.RawAccel
	s.loop.Streaming.FilteredAccel = params.Config.Streaming.FilteredAccel
	s.loop.Streaming.RawMag = params.Config.Streaming.RawMag
	s.loop.Streaming.FilteredMag = params.Config.Streaming.FilteredMag

	return s, nil
}

// Start runs the bring-up sequence and launches the tick, producer, and
// dispatch goroutines. The sequence mirrors the firmware's main(): clear
// critical errors, apply the sensor configuration, load and validate
// calibration (falling back to defaults), then enter the work loop.
func (s *System) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return NewError("system.start", BusyError, "already started")
	}

	s.critical.Clear()

	cfg := s.params.Config.Sensor
	if cfg != (config.SensorConfig{}) {
		err := s.source.Configure(sensor.Config{
			AccelODR:         cfg.AccelODR,
			AccelSensitivity: cfg.AccelSensitivity,
			MagODR:           cfg.MagODR,
			MagSensitivity:   cfg.MagSensitivity,
		})
		if err != nil {
			return WrapError("system.start", err)
		}
	}

	if cal := s.params.Calibration; cal != nil {
		if err := cal.LoadFromFlash(); err != nil {
			return WrapError("system.start", err)
		}
		if err := cal.CheckValidity(); err != nil {
			s.critical.Set(CriticalCalibrationInvalid)
			cal.LoadDefaults()
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})

	s.tick.Start(ctx)
	if sim, ok := s.source.(*sensor.SimulatedSource); ok {
		sim.Start(ctx)
	}

	go func() {
		defer close(s.done)
		s.loop.Run(ctx)
	}()

	s.started = true
	if log := s.params.Logger; log != nil {
		log.Infof("pensel v%d.%d up", VersionMajor, VersionMinor)
	}
	return nil
}

// Stop cancels every goroutine Start launched and waits for the dispatch
// loop to exit.
func (s *System) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	s.cancel()
	<-s.done
	s.tick.Stop()
	if sim, ok := s.source.(*sensor.SimulatedSource); ok {
		sim.Stop()
	}
	if s.metrics != nil {
		s.metrics.Stop()
	}
	s.started = false
}

// Step drives exactly one dispatch-loop iteration without Start's
// goroutines, for deterministic tests and single-stepped hosts.
func (s *System) Step() {
	s.loop.Step()
}

// Streaming returns the live stream toggles, for hosts that flip them at
// runtime.
func (s *System) Streaming() *loop.Streaming {
	return s.loop.Streaming
}

// Metrics returns the system's metrics, or nil when a custom Observer was
// supplied.
func (s *System) Metrics() *Metrics {
	return s.metrics
}

// Critical returns the critical-errors record.
func (s *System) Critical() *CriticalErrors {
	return &s.critical
}

// Buttons returns the debounced button/switch panel backing report 0x33.
func (s *System) Buttons() *buttons.Panel {
	return s.panel
}

// Fatal hands an unrecoverable bring-up failure to the fatal handler and
// never returns until released. check-and-halt helper in the spirit of
// the firmware's check_retval_fatal.
func (s *System) Fatal(code Code, err error) {
	s.fatal.Fatal(code, err)
}

// FatalHandler exposes the handler for supervisors that watch Halted().
func (s *System) FatalHandler() *FatalHandler {
	return s.fatal
}

// String describes the system briefly, mostly for log lines.
func (s *System) String() string {
	return fmt.Sprintf("pensel-system v%d.%d", VersionMajor, VersionMinor)
}
