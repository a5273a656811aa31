// Package buttons tracks the three-position mechanical switch and the two
// push buttons report 0x33 exposes. The debounce algorithm itself is a
// narrow stand-in for the original firmware's button_periodic_handler /
// switch_periodic_handler pair: raw edges arrive asynchronously (EXTI
// interrupts on hardware, any goroutine here) and are only committed to
// the debounced state once they have held steady for debounceStableMs
// (30 ms), checked on the ~10ms periodic tick (internal/tick's debounce
// hook).
package buttons

import "sync"

// SwitchPos is the three-position switch state report 0x33 returns in its
// first byte.
type SwitchPos uint8

const (
	Switch0 SwitchPos = iota
	Switch1
	Switch2
)

// debounceStableMs is how long a raw input must hold a new value before
// the periodic handler commits it.
const debounceStableMs = 30

type input struct {
	raw       uint8
	debounced uint8
	changedMs uint32
	pending   bool
}

func (in *input) set(v uint8, nowMs uint32) {
	if in.raw == v {
		return
	}
	in.raw = v
	in.changedMs = nowMs
	in.pending = true
}

func (in *input) periodic(nowMs uint32) {
	if !in.pending {
		return
	}
	if nowMs-in.changedMs >= debounceStableMs {
		in.debounced = in.raw
		in.pending = false
	}
}

// Panel holds the debounced switch and button state. Raw setters may be
// called from any goroutine; Periodic is driven by the tick service's
// debounce hook on the tick goroutine.
type Panel struct {
	mu     sync.Mutex
	nowMs  uint32
	sw     input
	main   input
	aux    input
}

// NewPanel returns a Panel with everything released and the switch at
// position 0.
func NewPanel() *Panel {
	return &Panel{}
}

// SetRawSwitch records a raw switch edge.
func (p *Panel) SetRawSwitch(pos SwitchPos) {
	p.mu.Lock()
	p.sw.set(uint8(pos), p.nowMs)
	p.mu.Unlock()
}

// SetRawMainButton records a raw main-button edge.
func (p *Panel) SetRawMainButton(pressed bool) {
	p.mu.Lock()
	p.main.set(boolByte(pressed), p.nowMs)
	p.mu.Unlock()
}

// SetRawAuxButton records a raw aux-button edge.
func (p *Panel) SetRawAuxButton(pressed bool) {
	p.mu.Lock()
	p.aux.set(boolByte(pressed), p.nowMs)
	p.mu.Unlock()
}

// Periodic commits raw edges that have held steady for the debounce
// window. Wire it to tick.WithDebounce.
func (p *Panel) Periodic(nowMs uint32) {
	p.mu.Lock()
	p.nowMs = nowMs
	p.sw.periodic(nowMs)
	p.main.periodic(nowMs)
	p.aux.periodic(nowMs)
	p.mu.Unlock()
}

// SwitchState returns the debounced switch position and button states as
// the three bytes of report 0x33's response.
func (p *Panel) SwitchState() (sw, mainBtn, auxBtn uint8) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sw.debounced, p.main.debounced, p.aux.debounced
}

func boolByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
