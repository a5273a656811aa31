// Package tick provides the 1ms cadence the report engine times out
// against and pensel_get_timestamp reports, plus the periodic
// debounce/watchdog/heartbeat maintenance the original ran from its tick ISR.
// The cadence and sub-counters follow the firmware's HAL_IncTick,
// reworked from a hardware ISR into a goroutine driven by a time.Ticker.
package tick

import (
	"context"
	"sync/atomic"
	"time"
)

const period = time.Millisecond

// Service drives the millisecond counter and its periodic maintenance
// hooks (debounce, watchdog, heartbeat) from a single goroutine.
type Service struct {
	ms atomic.Uint32

	subCount    uint8  // 0..9, mirrors HAL_IncTick's sub_count
	secondCount uint16 // 0..1000

	onDebounce func(nowMs uint32)
	onWatchdog func()
	onHeartbeat func(on bool)

	heartbeatOn bool

	cancel context.CancelFunc
}

// Option configures a Service at construction.
type Option func(*Service)

// WithDebounce registers the ~10ms periodic handler (button/switch
// debouncing in the original; the debouncing internals live with the
// registrant, this only fires the hook).
func WithDebounce(fn func(nowMs uint32)) Option {
	return func(s *Service) { s.onDebounce = fn }
}

// WithWatchdogKick registers the 5ms-within-the-debounce-window hook.
func WithWatchdogKick(fn func()) Option {
	return func(s *Service) { s.onWatchdog = fn }
}

// WithHeartbeat registers the 1s LED-toggle hook; on alternates true/false
// each call.
func WithHeartbeat(fn func(on bool)) Option {
	return func(s *Service) { s.onHeartbeat = fn }
}

// New constructs a Service with its millisecond counter at 0.
func New(opts ...Option) *Service {
	s := &Service{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start launches the ticker goroutine. Stop (or cancelling ctx) releases
// it.
func (s *Service) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	go func() {
		ticker := time.NewTicker(period)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.incTick()
			}
		}
	}()
}

// Stop releases the ticker goroutine.
func (s *Service) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
}

// NowMs returns the current millisecond counter. The counter is a single
// 32-bit word, read atomically.
func (s *Service) NowMs() uint32 { return s.ms.Load() }

func (s *Service) incTick() {
	now := s.ms.Add(1)

	if s.subCount >= 9 {
		s.subCount = 0
		if s.onDebounce != nil {
			s.onDebounce(now)
		}
	} else {
		s.subCount++
	}

	if s.subCount == 5 && s.onWatchdog != nil {
		s.onWatchdog()
	}

	if s.secondCount >= 1000 {
		s.secondCount = 0
		s.heartbeatOn = !s.heartbeatOn
		if s.onHeartbeat != nil {
			s.onHeartbeat(s.heartbeatOn)
		}
	} else {
		s.secondCount++
	}
}
