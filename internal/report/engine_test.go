package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holmestyler/pensel/internal/sensor"
)

// bufPort is a minimal in-memory interfaces.Port double: inbound bytes are
// fed by the test, outbound bytes accumulate for assertion.
type bufPort struct {
	in  []byte
	pos int
	out []byte
}

func (p *bufPort) GetByte() (byte, error) {
	if p.pos >= len(p.in) {
		return 0, errEmpty
	}
	b := p.in[p.pos]
	p.pos++
	return b, nil
}

func (p *bufPort) PutByte(b byte) error {
	p.out = append(p.out, b)
	return nil
}

func (p *bufPort) DroppedPackets() uint8 { return 0 }

type errEmptyT struct{}

func (errEmptyT) Error() string { return "empty" }

var errEmpty = errEmptyT{}

func pumpUntilQuiet(e *Engine, port *bufPort, nowMs uint32, maxSteps int) {
	for i := 0; i < maxSteps && port.pos < len(port.in); i++ {
		e.Pump(nowMs)
	}
	// one extra pump to let a trailing zero-length report execute
	e.Pump(nowMs)
}

func newTestEngine(port *bufPort) *Engine {
	return NewEngine(Deps{
		Port:         port,
		Source:       sensor.NewSimulatedSource(4, 4, 1000, 1000, nil),
		VersionMajor: 1,
		VersionMinor: 2,
	})
}

func TestRoundTripVersion(t *testing.T) {
	port := &bufPort{in: []byte{0xBE, 0xEF, 0x30, 0x00}}
	e := newTestEngine(port)

	pumpUntilQuiet(e, port, 0, 10)

	assert.Equal(t, []byte{0x00, 0x02, 0x01, 0x02}, port.out)
}

func TestInvalidMagicThenValid(t *testing.T) {
	port := &bufPort{in: []byte{0x12, 0x34, 0xBE, 0xEF, 0x30, 0x00}}
	e := newTestEngine(port)

	pumpUntilQuiet(e, port, 0, 10)

	assert.EqualValues(t, 2, e.InvalidChars())
	assert.Equal(t, []byte{0x00, 0x02, 0x01, 0x02}, port.out)
}

func TestTimeoutResetsParser(t *testing.T) {
	port := &bufPort{in: []byte{0xBE, 0xEF, 0x22}}
	e := newTestEngine(port)

	e.Pump(0)  // 0xBE
	e.Pump(0)  // 0xEF
	e.Pump(0)  // report id 0x22, now waiting on ReadLen

	e.Pump(200) // stall past the 100ms timeout window
	assert.EqualValues(t, 1, e.Timeouts())
	assert.Equal(t, ReadMagic0, e.State())

	// The same engine then answers a fresh request normally.
	port.in = append(port.in, 0xBE, 0xEF, 0x30, 0x00)
	pumpUntilQuiet(e, port, 200, 10)
	assert.Equal(t, []byte{0x00, 0x02, 0x01, 0x02}, port.out)
}

func TestUnknownReport(t *testing.T) {
	port := &bufPort{in: []byte{0xBE, 0xEF, 0x77, 0x00}}
	e := newTestEngine(port)

	pumpUntilQuiet(e, port, 0, 10)

	assert.Equal(t, []byte{uint8(NoReportError), 0x00}, port.out)
}

func TestExecuteDoesNotConsumeNextFrameByte(t *testing.T) {
	// Two back-to-back zero-length version requests queued on the same
	// port. If Execute wrongly consumed a byte, the second frame's leading
	// 0xBE would be eaten and the magic scan would desync.
	port := &bufPort{in: []byte{0xBE, 0xEF, 0x30, 0x00, 0xBE, 0xEF, 0x30, 0x00}}
	e := newTestEngine(port)

	pumpUntilQuiet(e, port, 0, 20)

	assert.Equal(t, []byte{
		0x00, 0x02, 0x01, 0x02,
		0x00, 0x02, 0x01, 0x02,
	}, port.out)
}

// busyConfigSource rejects every Configure with a structured BusyError,
// standing in for a driver whose re-init found the peripheral in transit.
type busyConfigSource struct {
	*sensor.SimulatedSource
}

func (busyConfigSource) Configure(sensor.Config) error {
	return NewReportError("sensor.configure", 0x20, BusyError, "peripheral in transit")
}

func TestChangeConfigForwardsDriverRetcode(t *testing.T) {
	port := &bufPort{in: []byte{0xBE, 0xEF, 0x20, 0x04, 1, 2, 3, 4}}
	e := NewEngine(Deps{
		Port:   port,
		Source: busyConfigSource{sensor.NewSimulatedSource(4, 4, 1000, 1000, nil)},
	})

	pumpUntilQuiet(e, port, 0, 12)

	assert.Equal(t, []byte{uint8(BusyError), 0x00}, port.out)
}

func TestInvalidArgsOnWrongLen(t *testing.T) {
	port := &bufPort{in: []byte{0xBE, 0xEF, 0x22, 0x02, 0x00, 0x00}}
	e := newTestEngine(port)

	pumpUntilQuiet(e, port, 0, 10)

	require.NotEmpty(t, port.out)
	assert.Equal(t, uint8(InvalidArgsError), port.out[0])
}
