package pensel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetricsInitialState(t *testing.T) {
	m := NewMetrics()
	snap := m.Snapshot()
	assert.Zero(t, snap.ReportCount)
	assert.Zero(t, snap.Timeouts)
}

func TestMetricsRecordsCounters(t *testing.T) {
	m := NewMetrics()

	m.RecordTimeout()
	m.RecordTimeout()
	m.RecordInvalidChar()
	m.RecordOverwrite("accel", 4)
	m.RecordOverwrite("mag", 8)
	m.RecordDroppedByte()
	m.RecordReport(1_500_000, true)
	m.RecordReport(500_000, false)

	snap := m.Snapshot()
	assert.EqualValues(t, 2, snap.Timeouts)
	assert.EqualValues(t, 1, snap.InvalidChars)
	assert.EqualValues(t, 4, snap.AccelOverwrite)
	assert.EqualValues(t, 8, snap.MagOverwrite)
	assert.EqualValues(t, 1, snap.DroppedBytes)
	assert.EqualValues(t, 2, snap.ReportCount)
	assert.EqualValues(t, 1, snap.ReportErrors)
	assert.InDelta(t, 50.0, snap.ErrorRate, 0.1)
}

func TestMetricsReset(t *testing.T) {
	m := NewMetrics()
	m.RecordTimeout()
	m.RecordReport(1000, true)
	m.Reset()

	snap := m.Snapshot()
	assert.Zero(t, snap.Timeouts)
	assert.Zero(t, snap.ReportCount)
}

func TestMetricsObserverDelegatesToMetrics(t *testing.T) {
	m := NewMetrics()
	obs := NewMetricsObserver(m)

	obs.ObserveTimeout()
	obs.ObserveInvalidChar()
	obs.ObserveOverwrite("accel", 2)
	obs.ObserveDroppedByte()
	obs.ObserveReport(1000, true)

	snap := m.Snapshot()
	assert.EqualValues(t, 1, snap.Timeouts)
	assert.EqualValues(t, 1, snap.InvalidChars)
	assert.EqualValues(t, 2, snap.AccelOverwrite)
	assert.EqualValues(t, 1, snap.DroppedBytes)
	assert.EqualValues(t, 1, snap.ReportCount)
}

func TestNoOpObserverDoesNotPanic(t *testing.T) {
	var obs Observer = NoOpObserver{}
	obs.ObserveTimeout()
	obs.ObserveInvalidChar()
	obs.ObserveOverwrite("mag", 1)
	obs.ObserveDroppedByte()
	obs.ObserveReport(1, true)
}
