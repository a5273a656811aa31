package pensel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holmestyler/pensel/internal/config"
	"github.com/holmestyler/pensel/internal/sensor"
)

func newStepSystem(t *testing.T, port *MockPort, source *MockSource) *System {
	t.Helper()
	params := DefaultParams(port)
	params.Source = source
	sys, err := NewSystem(params)
	require.NoError(t, err)
	return sys
}

func TestNewSystemRequiresPort(t *testing.T) {
	_, err := NewSystem(Params{})
	assert.True(t, IsCode(err, InvalidArgsError))
}

func TestVersionRoundTripThroughSystem(t *testing.T) {
	port := NewMockPort()
	sys := newStepSystem(t, port, NewMockSource())

	port.Feed(0xBE, 0xEF, 0x30, 0x00)
	for i := 0; i < 6; i++ {
		sys.Step()
	}

	assert.Equal(t, []byte{0x00, 0x02, VersionMajor, VersionMinor}, port.Written())
}

func TestButtonReportReflectsDebouncedPanel(t *testing.T) {
	port := NewMockPort()
	sys := newStepSystem(t, port, NewMockSource())

	panel := sys.Buttons()
	panel.Periodic(0)
	panel.SetRawSwitch(2)
	panel.SetRawMainButton(true)
	panel.Periodic(40)

	port.Feed(0xBE, 0xEF, 0x33, 0x00)
	for i := 0; i < 6; i++ {
		sys.Step()
	}

	assert.Equal(t, []byte{0x00, 0x03, 0x02, 0x01, 0x00}, port.Written())
}

func TestStreamingTogglesComeFromConfig(t *testing.T) {
	port := NewMockPort()
	source := NewMockSource()

	params := DefaultParams(port)
	params.Source = source
	params.Config.Streaming = config.StreamingConfig{RawAccel: true}
	sys, err := NewSystem(params)
	require.NoError(t, err)

	source.QueueAccel(sensor.Packet{X: 1, Y: 2, Z: 3, Seq: 7, RateHz: 200})
	sys.Step()

	out := port.Written()
	require.NotEmpty(t, out)
	// Stream frame: <stream_id><len=10><payload>.
	assert.Len(t, out, 12)
	assert.EqualValues(t, 10, out[1])
}

func TestStartAppliesSensorConfigAndCalibrationFallback(t *testing.T) {
	port := NewMockPort()
	source := NewMockSource()

	cal := &stubCalibration{valid: false}

	params := DefaultParams(port)
	params.Source = source
	params.Calibration = cal
	params.Config.Sensor = config.SensorConfig{AccelODR: 5, MagODR: 6}
	sys, err := NewSystem(params)
	require.NoError(t, err)

	require.NoError(t, sys.Start(context.Background()))
	defer sys.Stop()

	cfg, calls := source.LastConfig()
	assert.Equal(t, 1, calls)
	assert.EqualValues(t, 5, cfg.AccelODR)
	assert.EqualValues(t, 6, cfg.MagODR)

	assert.True(t, cal.defaultsLoaded)
	assert.True(t, sys.Critical().Has(CriticalCalibrationInvalid))
}

func TestStartTwiceIsBusy(t *testing.T) {
	port := NewMockPort()
	sys := newStepSystem(t, port, NewMockSource())

	require.NoError(t, sys.Start(context.Background()))
	defer sys.Stop()

	err := sys.Start(context.Background())
	assert.True(t, IsCode(err, BusyError))
}

func TestCriticalErrorsBitfield(t *testing.T) {
	var c CriticalErrors
	assert.False(t, c.Has(CriticalWatchdogReset))

	c.Set(CriticalWatchdogReset)
	c.Set(CriticalCalibrationInvalid)
	assert.True(t, c.Has(CriticalWatchdogReset))
	assert.True(t, c.Has(CriticalCalibrationInvalid))
	assert.False(t, c.Has(CriticalConfigLoad))

	c.Clear()
	assert.Zero(t, c.Snapshot())
}

func TestFatalHandlerReleaseVariant(t *testing.T) {
	h := NewFatalHandler(nil, nil, false)

	done := make(chan struct{})
	go func() {
		h.Fatal(GenError, NewError("system.start", GenError, "boom"))
		close(done)
	}()

	<-h.Halted()
	h.Release()
	<-done
}

type stubCalibration struct {
	valid          bool
	loaded         bool
	defaultsLoaded bool
}

func (s *stubCalibration) LoadFromFlash() error {
	s.loaded = true
	return nil
}

func (s *stubCalibration) CheckValidity() error {
	if !s.valid {
		return NewError("calibration.check", GenError, "invalid blob")
	}
	return nil
}

func (s *stubCalibration) LoadDefaults() {
	s.defaultsLoaded = true
	s.valid = true
}
