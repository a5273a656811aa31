package pensel

import (
	"sync/atomic"
	"time"
)

// LatencyBuckets defines the report round-trip latency histogram buckets
// in nanoseconds, from 1us to 1s.
var LatencyBuckets = []uint64{
	1_000,       // 1us
	10_000,      // 10us
	100_000,     // 100us
	1_000_000,   // 1ms
	10_000_000,  // 10ms
	100_000_000, // 100ms
	1_000_000_000, // 1s
}

const numLatencyBuckets = 7

// Metrics tracks the engine's observable operational counters: report
// timeouts, invalid frame bytes, ring-buffer overwrites
// (per queue, byte-granularity — see internal/ringqueue), and UART dropped
// packets, plus a report round-trip latency histogram.
type Metrics struct {
	Timeouts       atomic.Uint64
	InvalidChars   atomic.Uint64
	AccelOverwrite atomic.Uint64
	MagOverwrite   atomic.Uint64
	DroppedBytes   atomic.Uint64

	ReportCount atomic.Uint64
	ReportErrors atomic.Uint64

	TotalLatencyNs atomic.Uint64
	OpCount        atomic.Uint64
	LatencyBuckets [numLatencyBuckets]atomic.Uint64

	StartTime atomic.Int64
	StopTime  atomic.Int64
}

// NewMetrics creates a new metrics instance with StartTime stamped now.
func NewMetrics() *Metrics {
	m := &Metrics{}
	m.StartTime.Store(time.Now().UnixNano())
	return m
}

// RecordTimeout records a report-protocol parse timeout.
func (m *Metrics) RecordTimeout() {
	m.Timeouts.Add(1)
}

// RecordInvalidChar records a byte rejected during magic-number scanning.
func (m *Metrics) RecordInvalidChar() {
	m.InvalidChars.Add(1)
}

// RecordOverwrite records ring-buffer overwrite bytes for the named queue.
// queue is "accel" or "mag".
func (m *Metrics) RecordOverwrite(queue string, n uint32) {
	switch queue {
	case "accel":
		m.AccelOverwrite.Add(uint64(n))
	case "mag":
		m.MagOverwrite.Add(uint64(n))
	}
}

// RecordDroppedByte records a UART outbound byte that could not be sent.
func (m *Metrics) RecordDroppedByte() {
	m.DroppedBytes.Add(1)
}

// RecordReport records one report dispatch's round-trip latency.
func (m *Metrics) RecordReport(latencyNs uint64, success bool) {
	m.ReportCount.Add(1)
	if !success {
		m.ReportErrors.Add(1)
	}
	m.TotalLatencyNs.Add(latencyNs)
	m.OpCount.Add(1)
	for i, bucket := range LatencyBuckets {
		if latencyNs <= bucket {
			m.LatencyBuckets[i].Add(1)
		}
	}
}

// Stop marks the engine as stopped.
func (m *Metrics) Stop() {
	m.StopTime.Store(time.Now().UnixNano())
}

// MetricsSnapshot is a point-in-time read of Metrics.
type MetricsSnapshot struct {
	Timeouts       uint64
	InvalidChars   uint64
	AccelOverwrite uint64
	MagOverwrite   uint64
	DroppedBytes   uint64

	ReportCount  uint64
	ReportErrors uint64
	ErrorRate    float64

	AvgLatencyNs     uint64
	LatencyHistogram [numLatencyBuckets]uint64

	UptimeNs uint64
}

// Snapshot creates a point-in-time snapshot of metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{
		Timeouts:       m.Timeouts.Load(),
		InvalidChars:   m.InvalidChars.Load(),
		AccelOverwrite: m.AccelOverwrite.Load(),
		MagOverwrite:   m.MagOverwrite.Load(),
		DroppedBytes:   m.DroppedBytes.Load(),
		ReportCount:    m.ReportCount.Load(),
		ReportErrors:   m.ReportErrors.Load(),
	}

	if snap.ReportCount > 0 {
		snap.ErrorRate = float64(snap.ReportErrors) / float64(snap.ReportCount) * 100.0
	}

	totalLatencyNs := m.TotalLatencyNs.Load()
	opCount := m.OpCount.Load()
	if opCount > 0 {
		snap.AvgLatencyNs = totalLatencyNs / opCount
	}

	startTime := m.StartTime.Load()
	stopTime := m.StopTime.Load()
	if stopTime > 0 {
		snap.UptimeNs = uint64(stopTime - startTime)
	} else {
		snap.UptimeNs = uint64(time.Now().UnixNano() - startTime)
	}

	for i := 0; i < numLatencyBuckets; i++ {
		snap.LatencyHistogram[i] = m.LatencyBuckets[i].Load()
	}

	return snap
}

// Reset zeroes all counters. Useful for tests.
func (m *Metrics) Reset() {
	m.Timeouts.Store(0)
	m.InvalidChars.Store(0)
	m.AccelOverwrite.Store(0)
	m.MagOverwrite.Store(0)
	m.DroppedBytes.Store(0)
	m.ReportCount.Store(0)
	m.ReportErrors.Store(0)
	m.TotalLatencyNs.Store(0)
	m.OpCount.Store(0)
	for i := 0; i < numLatencyBuckets; i++ {
		m.LatencyBuckets[i].Store(0)
	}
	m.StartTime.Store(time.Now().UnixNano())
	m.StopTime.Store(0)
}

// Observer is the public pluggable metrics collection interface, mirrored
// from internal/interfaces.Observer so external callers don't need to
// import the internal package.
type Observer interface {
	ObserveTimeout()
	ObserveInvalidChar()
	ObserveOverwrite(queue string, n uint32)
	ObserveDroppedByte()
	ObserveReport(latencyNs uint64, success bool)
}

// NoOpObserver discards every observation.
type NoOpObserver struct{}

func (NoOpObserver) ObserveTimeout()                        {}
func (NoOpObserver) ObserveInvalidChar()                    {}
func (NoOpObserver) ObserveOverwrite(string, uint32)        {}
func (NoOpObserver) ObserveDroppedByte()                    {}
func (NoOpObserver) ObserveReport(uint64, bool)             {}

// MetricsObserver implements Observer on top of a *Metrics.
type MetricsObserver struct {
	metrics *Metrics
}

// NewMetricsObserver creates an observer that records into m.
func NewMetricsObserver(m *Metrics) *MetricsObserver {
	return &MetricsObserver{metrics: m}
}

func (o *MetricsObserver) ObserveTimeout()                 { o.metrics.RecordTimeout() }
func (o *MetricsObserver) ObserveInvalidChar()              { o.metrics.RecordInvalidChar() }
func (o *MetricsObserver) ObserveOverwrite(q string, n uint32) { o.metrics.RecordOverwrite(q, n) }
func (o *MetricsObserver) ObserveDroppedByte()               { o.metrics.RecordDroppedByte() }
func (o *MetricsObserver) ObserveReport(latencyNs uint64, success bool) {
	o.metrics.RecordReport(latencyNs, success)
}

var _ Observer = (*MetricsObserver)(nil)
var _ Observer = (*NoOpObserver)(nil)
