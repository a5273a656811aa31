// Package report implements the binary report protocol engine: a framed
// request parser state machine, a sparse dispatch table, and a framed
// responder. The state machine and report IDs follow the firmware's
// reports.c.
package report

import (
	"time"

	"github.com/holmestyler/pensel/internal/interfaces"
	"github.com/holmestyler/pensel/internal/sensor"
)

// state is the parser phase.
type state uint8

const (
	ReadMagic0 state = iota
	ReadMagic1
	ReadId
	ReadLen
	ReadPayload
	Execute
)

// ButtonSource is the narrow peripheral contract report 0x33 relies on.
// Debouncing happens upstream; this only exposes the debounced state.
type ButtonSource interface {
	SwitchState() (sw, mainBtn, auxBtn uint8)
}

// Deps bundles the collaborators the engine dispatches reports against.
type Deps struct {
	Port         interfaces.Port
	Source       sensor.Source
	Observer     interfaces.Observer
	Buttons      ButtonSource // optional; nil reads back zeros
	VersionMajor uint8
	VersionMinor uint8
}

// Engine is the report protocol state machine. It is not safe for
// concurrent use: it is single-threaded foreground code, pumped once per
// main-loop iteration.
type Engine struct {
	deps Deps

	st           state
	startTime    uint32
	invalidChars uint16
	timeouts     uint16

	rptID        uint8
	inLen        uint8
	payloadIndex uint8
	readBuf      [maxPayloadLen]byte

	lastNowMs uint32
}

// NewEngine constructs an Engine wired to deps, starting in ReadMagic0.
func NewEngine(deps Deps) *Engine {
	if deps.Observer == nil {
		deps.Observer = noOpObserver{}
	}
	return &Engine{deps: deps, st: ReadMagic0}
}

// InvalidChars returns the saturating count of bytes rejected while
// scanning for the magic sequence.
func (e *Engine) InvalidChars() uint16 { return e.invalidChars }

// Timeouts returns the saturating count of parses abandoned by timeout.
func (e *Engine) Timeouts() uint16 { return e.timeouts }

// State returns the current parser phase, exposed for tests.
func (e *Engine) State() state { return e.st }

func satIncr(v *uint16) {
	if *v < 0xFFFF {
		*v++
	}
}

// checkTimeout resets the parser to ReadMagic0 if more than 100ms have
// elapsed since start_time. Uses unsigned subtraction so
// a wrapped nowMs still compares sanely, matching the source's tolerance
// of timestamp wrap.
func (e *Engine) checkTimeout(nowMs uint32) {
	if e.st == ReadMagic0 {
		return
	}
	if nowMs-e.startTime > reportTimeoutMs {
		satIncr(&e.timeouts)
		e.deps.Observer.ObserveTimeout()
		e.st = ReadMagic0
	}
}

const reportTimeoutMs = 100

// Pump consumes at most one byte from the port and advances the parser by
// at most one state transition. Callers must invoke Pump repeatedly (from
// the main loop).
func (e *Engine) Pump(nowMs uint32) {
	e.lastNowMs = nowMs

	if e.st == Execute {
		e.execute()
		e.st = ReadMagic0
		return
	}

	b, err := e.deps.Port.GetByte()
	haveByte := err == nil

	switch e.st {
	case ReadMagic0:
		if haveByte {
			if b == magic0 {
				e.startTime = nowMs
				e.st = ReadMagic1
			} else {
				satIncr(&e.invalidChars)
				e.deps.Observer.ObserveInvalidChar()
			}
		}
		return

	case ReadMagic1:
		if haveByte {
			if b == magic1 {
				e.st = ReadId
			} else {
				satIncr(&e.invalidChars)
				e.deps.Observer.ObserveInvalidChar()
			}
		}
		e.checkTimeout(nowMs)
		return

	case ReadId:
		if haveByte {
			e.rptID = b
			e.st = ReadLen
		}
		e.checkTimeout(nowMs)
		return

	case ReadLen:
		if haveByte {
			e.inLen = b
			e.payloadIndex = 0
			if e.inLen == 0 {
				e.st = Execute
			} else {
				e.st = ReadPayload
			}
		}
		e.checkTimeout(nowMs)
		return

	case ReadPayload:
		if haveByte {
			e.readBuf[e.payloadIndex] = b
			e.payloadIndex++
			if e.payloadIndex == e.inLen {
				e.st = Execute
				e.payloadIndex = 0
				return
			}
		}
		e.checkTimeout(nowMs)
		return

	case Execute:
		e.execute()
		e.st = ReadMagic0
		return
	}
}

// execute dispatches the staged request and writes the response frame to
// the port. Non-Ok retcodes are followed by a zero length, never a
// payload.
func (e *Engine) execute() {
	start := time.Now()

	out := getPayloadBuffer()
	defer putPayloadBuffer(out)

	handler, ok := dispatchTable[e.rptID]
	if !ok {
		handler = handleUnknownReport
	}

	code, out := handler(e, e.readBuf[:e.inLen], out)

	e.putByte(uint8(code))
	if code == Ok {
		e.putByte(uint8(len(out)))
		for _, b := range out {
			e.putByte(b)
		}
	} else {
		e.putByte(0)
	}
	e.deps.Observer.ObserveReport(uint64(time.Since(start).Nanoseconds()), code == Ok)
}

// putByte writes a byte to the port, counting (but not propagating)
// dropped-byte failures. The host times out and resyncs on magic bytes.
func (e *Engine) putByte(b byte) {
	if err := e.deps.Port.PutByte(b); err != nil {
		e.deps.Observer.ObserveDroppedByte()
	}
}

// EmitStream writes a server-initiated stream frame
// (<stream_id><len><payload>), sharing the outbound channel with
// responses. Callers must not interleave it mid-response.
func (e *Engine) EmitStream(streamID uint8, payload []byte) {
	e.putByte(streamID)
	e.putByte(uint8(len(payload)))
	for _, b := range payload {
		e.putByte(b)
	}
}

type noOpObserver struct{}

func (noOpObserver) ObserveTimeout()                 {}
func (noOpObserver) ObserveInvalidChar()              {}
func (noOpObserver) ObserveOverwrite(string, uint32)  {}
func (noOpObserver) ObserveDroppedByte()              {}
func (noOpObserver) ObserveReport(uint64, bool)       {}

var _ interfaces.Observer = noOpObserver{}
