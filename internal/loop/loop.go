// Package loop implements the main dispatch loop: a single-threaded,
// non-preemptive cycle that pumps the report engine, services the sensor
// source, filters and conditionally streams each axis, and performs
// cosmetic workloop-heartbeat maintenance. One goroutine drives the fixed
// step sequence against a context.Context for cancellation.
package loop

import (
	"context"

	"github.com/holmestyler/pensel/internal/filter"
	"github.com/holmestyler/pensel/internal/interfaces"
	"github.com/holmestyler/pensel/internal/report"
	"github.com/holmestyler/pensel/internal/sensor"
	"github.com/holmestyler/pensel/internal/tick"
)

// Streaming holds the four stream toggles, seeded from the device
// configuration by pensel.NewSystem; no report changes them. Exposed as
// plain bools: the loop
// is the sole reader and the sole writer runs on the same goroutine that
// owns the engine, so no atomics are needed.
type Streaming struct {
	RawAccel      bool
	FilteredAccel bool
	RawMag        bool
	FilteredMag   bool
}

// workloopHeartbeatPeriod mirrors pensel_v1.c's main-loop subcount==100000
// cosmetic LED_1 toggle — unrelated to the 1ms tick's own heartbeat (LED_0,
// internal/tick), which runs on wall-clock time rather than loop
// iterations.
const workloopHeartbeatPeriod = 100000

// Loop wires a report.Engine, a sensor.Source, and a filter.Bank together
// and drives them in the firmware main()'s order.
type Loop struct {
	Engine    *report.Engine
	Source    sensor.Source
	Filters   *filter.Bank
	StreamIDs report.StreamIDSet
	Streaming *Streaming
	Tick      *tick.Service
	Log       interfaces.Logger

	// Observer, when set, receives ring-buffer overwrite deltas observed
	// while draining the source. Nil disables the accounting.
	Observer interfaces.Observer

	// OnWorkloopHeartbeat fires every workloopHeartbeatPeriod iterations;
	// nil is fine (the toggle is purely cosmetic).
	OnWorkloopHeartbeat func(on bool)

	loopCount     uint32
	workHeartbeat bool

	lastAccelOverwrite uint32
	lastMagOverwrite   uint32
}

// New wires a Loop with the default stream ID assignment and all
// streaming toggles off, matching the original firmware's power-on state
// (a host must opt into each stream explicitly).
func New(engine *report.Engine, source sensor.Source, filters *filter.Bank, tickSvc *tick.Service, log interfaces.Logger) *Loop {
	return &Loop{
		Engine:    engine,
		Source:    source,
		Filters:   filters,
		StreamIDs: report.DefaultStreamIDs,
		Streaming: &Streaming{},
		Tick:      tickSvc,
		Log:       log,
	}
}

// Run drives the dispatch loop until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		l.Step()
	}
}

// Step executes exactly one iteration of the dispatch sequence. Exported
// so tests can drive the loop deterministically instead of racing a
// goroutine.
func (l *Loop) Step() {
	nowMs := uint32(0)
	if l.Tick != nil {
		nowMs = l.Tick.NowMs()
	}

	// 1. Pump report engine (consume at most one byte).
	l.Engine.Pump(nowMs)

	// 2. Service sensor source: drain hardware FIFO into ring buffers,
	// then account any overwrites the producers caused since last pass.
	l.Source.Run()
	l.observeOverwrites()

	// 3. Accel: pop, optionally stream raw, filter, optionally stream
	// filtered.
	if l.Source.AccelDataAvailable() {
		var pkt sensor.Packet
		if err := l.Source.AccelGetPacket(&pkt, false); err == nil {
			if l.Streaming != nil && l.Streaming.RawAccel {
				l.Engine.EmitStream(l.StreamIDs.RawAccel, encodePacket(pkt))
			}
			raw := filter.Cartesian{X: float32(pkt.X), Y: float32(pkt.Y), Z: float32(pkt.Z)}
			gravity, _ := l.Filters.PushAccel(raw)
			if l.Streaming != nil && l.Streaming.FilteredAccel {
				filtered := pkt
				filtered.X, filtered.Y, filtered.Z = truncate(gravity)
				l.Engine.EmitStream(l.StreamIDs.FilteredAccel, encodePacket(filtered))
			}
		}
	}

	// 4. Mag: same, with the north LPF.
	if l.Source.MagDataAvailable() {
		var pkt sensor.Packet
		if err := l.Source.MagGetPacket(&pkt, false); err == nil {
			if l.Streaming != nil && l.Streaming.RawMag {
				l.Engine.EmitStream(l.StreamIDs.RawMag, encodePacket(pkt))
			}
			raw := filter.Cartesian{X: float32(pkt.X), Y: float32(pkt.Y), Z: float32(pkt.Z)}
			north := l.Filters.PushMag(raw)
			if l.Streaming != nil && l.Streaming.FilteredMag {
				filtered := pkt
				filtered.X, filtered.Y, filtered.Z = truncate(north)
				l.Engine.EmitStream(l.StreamIDs.FilteredMag, encodePacket(filtered))
			}
		}
	}

	// 5. Cosmetic workloop-heartbeat maintenance.
	if l.loopCount >= workloopHeartbeatPeriod {
		l.loopCount = 0
		l.workHeartbeat = !l.workHeartbeat
		if l.OnWorkloopHeartbeat != nil {
			l.OnWorkloopHeartbeat(l.workHeartbeat)
		}
	} else {
		l.loopCount++
	}
}

// observeOverwrites forwards ring-buffer overwrite-count deltas (in bytes,
// matching the counters' granularity) to the Observer.
func (l *Loop) observeOverwrites() {
	if l.Observer == nil {
		return
	}
	if n := l.Source.AccelPacketOverwriteCount(); n != l.lastAccelOverwrite {
		l.Observer.ObserveOverwrite("accel", n-l.lastAccelOverwrite)
		l.lastAccelOverwrite = n
	}
	if n := l.Source.MagPacketOverwriteCount(); n != l.lastMagOverwrite {
		l.Observer.ObserveOverwrite("mag", n-l.lastMagOverwrite)
		l.lastMagOverwrite = n
	}
}

func truncate(c filter.Cartesian) (x, y, z int16) {
	return int16(c.X), int16(c.Y), int16(c.Z)
}

func encodePacket(pkt sensor.Packet) []byte {
	out := make([]byte, 0, 10)
	out = appendI16(out, pkt.X)
	out = appendI16(out, pkt.Y)
	out = appendI16(out, pkt.Z)
	out = appendU32(out, pkt.Seq)
	out = append(out, byte(pkt.RateHz), byte(pkt.RateHz>>8))
	return out
}

func appendI16(out []byte, v int16) []byte {
	return append(out, byte(v), byte(v>>8))
}

func appendU32(out []byte, v uint32) []byte {
	return append(out, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}
