package sensor

import (
	"context"
	"math"
	"sync/atomic"
	"time"

	"github.com/holmestyler/pensel/internal/constants"
	"github.com/holmestyler/pensel/internal/interfaces"
	"github.com/holmestyler/pensel/internal/ringqueue"
)

// SimulatedSource stands in for the LSM303DLHC ISR producers: two
// goroutines driven by time.Tickers at the configured ODR push synthetic
// packets into two ring buffers, playing the role the sensor DRDY
// interrupts play on hardware.
type SimulatedSource struct {
	accelQueue *ringqueue.Queue[Packet]
	magQueue   *ringqueue.Queue[Packet]

	accelHz int
	magHz   int

	accelSeq atomic.Uint32
	magSeq   atomic.Uint32

	accelHWOverwrite atomic.Uint32
	magHWOverwrite   atomic.Uint32

	log interfaces.Logger

	cfg Config

	cancel context.CancelFunc
}

// NewSimulatedSource constructs a source with the given queue depths and
// ODRs (defaults per internal/constants if zero).
func NewSimulatedSource(accelDepth, magDepth uint32, accelHz, magHz int, log interfaces.Logger) *SimulatedSource {
	if accelHz == 0 {
		accelHz = constants.DefaultAccelODRHz
	}
	if magHz == 0 {
		magHz = constants.DefaultMagODRHz
	}
	return &SimulatedSource{
		accelQueue: ringqueue.New[Packet](accelDepth),
		magQueue:   ringqueue.New[Packet](magDepth),
		accelHz:    accelHz,
		magHz:      magHz,
		log:        log,
	}
}

// Start launches the two producer goroutines. Stop must be called to
// release them.
func (s *SimulatedSource) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	go s.produce(ctx, s.accelHz, s.accelQueue, &s.accelSeq)
	go s.produce(ctx, s.magHz, s.magQueue, &s.magSeq)
}

// Stop cancels both producer goroutines.
func (s *SimulatedSource) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *SimulatedSource) produce(ctx context.Context, hz int, q *ringqueue.Queue[Packet], seq *atomic.Uint32) {
	period := time.Second / time.Duration(hz)
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n := seq.Add(1)
			pkt := syntheticPacket(n, uint16(hz))
			q.Push(&pkt)
		}
	}
}

// syntheticPacket produces a deterministic orbiting waveform so a demo/sim
// run has something visibly non-zero to stream.
func syntheticPacket(seq uint32, rateHz uint16) Packet {
	theta := float64(seq) * 0.05
	scale := float32(constants.NormalizedFullScale) / 4
	return Packet{
		X:      int16(scale * float32(math.Sin(theta))),
		Y:      int16(scale * float32(math.Cos(theta))),
		Z:      int16(scale / 2),
		Seq:    seq,
		RateHz: rateHz,
	}
}

// Configure records the requested ODR/sensitivity selection. The simulated
// source does not regenerate its waveform from these values (there is no
// real sensor to reconfigure); it exists to exercise report 0x20's contract
// end to end.
func (s *SimulatedSource) Configure(cfg Config) error {
	s.cfg = cfg
	return nil
}

// Temp returns a synthetic die temperature, gently oscillating so report
// 0x21 has something that visibly changes across calls.
func (s *SimulatedSource) Temp() (int16, error) {
	seq := s.accelSeq.Load()
	return int16(2500 + int32(20*math.Sin(float64(seq)*0.01))), nil
}

// Run is a no-op for the simulated source: the producer goroutines push
// directly into the ring buffers rather than staging in an intermediate
// hardware FIFO the loop would need to drain.
func (s *SimulatedSource) Run() {}

func (s *SimulatedSource) AccelDataAvailable() bool { return s.accelQueue.Len() > 0 }
func (s *SimulatedSource) MagDataAvailable() bool   { return s.magQueue.Len() > 0 }

func (s *SimulatedSource) AccelGetPacket(pkt *Packet, peek bool) error {
	return s.accelQueue.Pop(pkt, peek)
}

func (s *SimulatedSource) MagGetPacket(pkt *Packet, peek bool) error {
	return s.magQueue.Pop(pkt, peek)
}

func (s *SimulatedSource) AccelPacketOverwriteCount() uint32 { return s.accelQueue.OverwriteCount() }
func (s *SimulatedSource) MagPacketOverwriteCount() uint32   { return s.magQueue.OverwriteCount() }

func (s *SimulatedSource) AccelHardwareOverwriteCount() uint32 { return s.accelHWOverwrite.Load() }
func (s *SimulatedSource) MagHardwareOverwriteCount() uint32   { return s.magHWOverwrite.Load() }

var (
	_ Source     = (*SimulatedSource)(nil)
	_ TempSource = (*SimulatedSource)(nil)
)
