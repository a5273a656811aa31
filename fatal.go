package pensel

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/holmestyler/pensel/internal/interfaces"
)

// CriticalFlag is one bit of the critical-errors record: conditions a host
// may want to know about that survived or preceded the current run.
type CriticalFlag uint32

const (
	// CriticalWatchdogReset records that the previous run ended with a
	// watchdog reset rather than a clean shutdown.
	CriticalWatchdogReset CriticalFlag = 1 << iota
	// CriticalConfigLoad records that the configuration file could not be
	// loaded and defaults were used instead.
	CriticalConfigLoad
	// CriticalCalibrationInvalid records that the calibration blob failed
	// its validity check and defaults were loaded.
	CriticalCalibrationInvalid
)

// CriticalErrors is the single-word bitfield of critical flags. Cleared at
// bring-up, set as conditions are detected, readable from any goroutine.
type CriticalErrors struct {
	bits atomic.Uint32
}

// Set raises flag.
func (c *CriticalErrors) Set(flag CriticalFlag) {
	for {
		old := c.bits.Load()
		if c.bits.CompareAndSwap(old, old|uint32(flag)) {
			return
		}
	}
}

// Has reports whether flag is raised.
func (c *CriticalErrors) Has(flag CriticalFlag) bool {
	return c.bits.Load()&uint32(flag) != 0
}

// Clear lowers every flag, as at the top of bring-up.
func (c *CriticalErrors) Clear() {
	c.bits.Store(0)
}

// Snapshot returns the raw bitfield.
func (c *CriticalErrors) Snapshot() uint32 {
	return c.bits.Load()
}

// Watchdog is the narrow contract the tick service and the fatal handler
// pet. Implementations outside tests are expected to reset the process (or
// the device) if Pet stops arriving.
type Watchdog interface {
	Pet()
}

// StubWatchdog counts pets and never bites. Used when no real watchdog is
// wired, and by tests asserting the petting cadence.
type StubWatchdog struct {
	pets atomic.Uint64
}

// Pet implements Watchdog.
func (w *StubWatchdog) Pet() { w.pets.Add(1) }

// Pets returns how many times the watchdog has been pet.
func (w *StubWatchdog) Pets() uint64 { return w.pets.Load() }

// FatalHandler is the unrecoverable-error sink: any non-Ok condition
// during bring-up lands here and never returns control to the caller. The
// debug variant periodically reports file/line/code on the configured
// logger and keeps petting the watchdog so the failure can be inspected;
// the release variant goes silent and stops petting, letting the watchdog
// reset the device.
type FatalHandler struct {
	log      interfaces.Logger
	watchdog Watchdog
	debug    bool
	interval time.Duration

	halted      chan struct{}
	release     chan struct{}
	haltOnce    sync.Once
	releaseOnce sync.Once
}

// NewFatalHandler constructs a handler. log and watchdog may be nil; debug
// selects the reporting variant.
func NewFatalHandler(log interfaces.Logger, watchdog Watchdog, debug bool) *FatalHandler {
	return &FatalHandler{
		log:      log,
		watchdog: watchdog,
		debug:    debug,
		interval: time.Second,
		halted:   make(chan struct{}),
		release:  make(chan struct{}),
	}
}

// Halted is closed the moment Fatal is entered, so supervising goroutines
// can observe the halt without joining the blocked caller.
func (h *FatalHandler) Halted() <-chan struct{} {
	return h.halted
}

// Release unblocks a caller spinning inside Fatal. Only hosts and tests
// call this; on a real device nothing does, and the halt lasts until the
// watchdog fires.
func (h *FatalHandler) Release() {
	h.releaseOnce.Do(func() { close(h.release) })
}

// Fatal records the failing call site and halts. It does not return until
// Release is called.
func (h *FatalHandler) Fatal(code Code, err error) {
	_, file, line, _ := runtime.Caller(1)

	h.haltOnce.Do(func() { close(h.halted) })

	if !h.debug {
		<-h.release
		return
	}

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	for {
		if h.log != nil {
			h.log.Errorf("fatal: %s:%d code=%s err=%v", file, line, code, err)
		}
		if h.watchdog != nil {
			h.watchdog.Pet()
		}
		select {
		case <-h.release:
			return
		case <-ticker.C:
		}
	}
}
