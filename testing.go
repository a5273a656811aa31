package pensel

import (
	"sync"

	"github.com/holmestyler/pensel/internal/interfaces"
	"github.com/holmestyler/pensel/internal/report"
	"github.com/holmestyler/pensel/internal/ringqueue"
	"github.com/holmestyler/pensel/internal/sensor"
	"github.com/holmestyler/pensel/internal/transport"
)

// MockPort provides a mock implementation of the serial byte I/O contract
// for testing. It tracks method calls for verification and can inject
// transmit failures to exercise the dropped-byte policy.
type MockPort struct {
	mu       sync.Mutex
	inbound  []byte
	outbound []byte
	dropped  uint8

	failPuts bool

	getCalls int
	putCalls int
}

// NewMockPort creates a new mock port with empty inbound and outbound
// buffers.
func NewMockPort() *MockPort {
	return &MockPort{}
}

// Feed queues bytes for the device side to consume via GetByte, as if a
// host had just transmitted them.
func (m *MockPort) Feed(b ...byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inbound = append(m.inbound, b...)
}

// GetByte implements the port contract: it pops the oldest fed byte, or
// returns transport.ErrEmpty when none is queued.
func (m *MockPort) GetByte() (byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.getCalls++
	if len(m.inbound) == 0 {
		return 0, transport.ErrEmpty
	}
	b := m.inbound[0]
	m.inbound = m.inbound[1:]
	return b, nil
}

// PutByte implements the port contract. When FailPuts has been set it
// fails every write and counts it against DroppedPackets, mirroring a
// saturated UART TX queue.
func (m *MockPort) PutByte(b byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.putCalls++
	if m.failPuts {
		if m.dropped < 0xFF {
			m.dropped++
		}
		return NewError("mockport.putByte", ComError, "outbound saturated")
	}
	m.outbound = append(m.outbound, b)
	return nil
}

// DroppedPackets implements the port contract.
func (m *MockPort) DroppedPackets() uint8 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dropped
}

// FailPuts makes every subsequent PutByte fail (true) or succeed (false).
func (m *MockPort) FailPuts(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failPuts = fail
}

// Written returns a copy of every byte successfully written so far.
func (m *MockPort) Written() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]byte, len(m.outbound))
	copy(out, m.outbound)
	return out
}

// DrainWritten returns the written bytes and clears the outbound buffer.
func (m *MockPort) DrainWritten() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.outbound
	m.outbound = nil
	return out
}

// CallCounts returns the number of times each port method has been called.
func (m *MockPort) CallCounts() map[string]int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return map[string]int{
		"get": m.getCalls,
		"put": m.putCalls,
	}
}

// Reset clears all buffers, counters, and failure injection.
func (m *MockPort) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inbound = nil
	m.outbound = nil
	m.dropped = 0
	m.failPuts = false
	m.getCalls = 0
	m.putCalls = 0
}

// MockSource provides a mock sensor packet source for testing: packets are
// queued explicitly by the test rather than produced by tickers, and every
// counter is settable.
type MockSource struct {
	mu    sync.Mutex
	accel []sensor.Packet
	mag   []sensor.Packet

	accelOverwrite   uint32
	magOverwrite     uint32
	accelHWOverwrite uint32
	magHWOverwrite   uint32

	lastConfig   sensor.Config
	configCalls  int
	configureErr error

	temp int16

	runCalls int
}

// NewMockSource creates an empty mock source.
func NewMockSource() *MockSource {
	return &MockSource{temp: 2500}
}

// QueueAccel appends packets to the accel queue.
func (m *MockSource) QueueAccel(pkts ...sensor.Packet) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accel = append(m.accel, pkts...)
}

// QueueMag appends packets to the mag queue.
func (m *MockSource) QueueMag(pkts ...sensor.Packet) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mag = append(m.mag, pkts...)
}

// Run implements sensor.Source; it only counts invocations, since there is
// no hardware FIFO to drain.
func (m *MockSource) Run() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runCalls++
}

// RunCalls returns how many times the dispatch loop has serviced the
// source.
func (m *MockSource) RunCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.runCalls
}

func (m *MockSource) AccelDataAvailable() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.accel) > 0
}

func (m *MockSource) MagDataAvailable() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.mag) > 0
}

func (m *MockSource) AccelGetPacket(pkt *sensor.Packet, peek bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.accel) == 0 {
		return ringqueue.ErrEmpty
	}
	*pkt = m.accel[0]
	if !peek {
		m.accel = m.accel[1:]
	}
	return nil
}

func (m *MockSource) MagGetPacket(pkt *sensor.Packet, peek bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.mag) == 0 {
		return ringqueue.ErrEmpty
	}
	*pkt = m.mag[0]
	if !peek {
		m.mag = m.mag[1:]
	}
	return nil
}

// SetOverwriteCounts sets the four counters report 0x24 returns.
func (m *MockSource) SetOverwriteCounts(accelPkt, magPkt, accelHW, magHW uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accelOverwrite = accelPkt
	m.magOverwrite = magPkt
	m.accelHWOverwrite = accelHW
	m.magHWOverwrite = magHW
}

func (m *MockSource) AccelPacketOverwriteCount() uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.accelOverwrite
}

func (m *MockSource) MagPacketOverwriteCount() uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.magOverwrite
}

func (m *MockSource) AccelHardwareOverwriteCount() uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.accelHWOverwrite
}

func (m *MockSource) MagHardwareOverwriteCount() uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.magHWOverwrite
}

// Configure implements sensor.Source, recording the config for assertion
// and returning any injected error.
func (m *MockSource) Configure(cfg sensor.Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.configCalls++
	if m.configureErr != nil {
		return m.configureErr
	}
	m.lastConfig = cfg
	return nil
}

// SetConfigureErr injects an error into subsequent Configure calls,
// exercising report 0x20's error forwarding.
func (m *MockSource) SetConfigureErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.configureErr = err
}

// LastConfig returns the most recently applied configuration and the call
// count.
func (m *MockSource) LastConfig() (sensor.Config, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastConfig, m.configCalls
}

// SetTemp sets the value Temp returns.
func (m *MockSource) SetTemp(t int16) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.temp = t
}

// Temp implements sensor.TempSource.
func (m *MockSource) Temp() (int16, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.temp, nil
}

// Reset clears all queues, counters, and injected errors.
func (m *MockSource) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accel = nil
	m.mag = nil
	m.accelOverwrite = 0
	m.magOverwrite = 0
	m.accelHWOverwrite = 0
	m.magHWOverwrite = 0
	m.lastConfig = sensor.Config{}
	m.configCalls = 0
	m.configureErr = nil
	m.runCalls = 0
}

// MockButtons provides a fixed button/switch state for report 0x33 tests.
type MockButtons struct {
	mu   sync.Mutex
	sw   uint8
	main uint8
	aux  uint8
}

// SetState sets the three bytes SwitchState returns.
func (m *MockButtons) SetState(sw, mainBtn, auxBtn uint8) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sw, m.main, m.aux = sw, mainBtn, auxBtn
}

// SwitchState implements report.ButtonSource.
func (m *MockButtons) SwitchState() (sw, mainBtn, auxBtn uint8) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sw, m.main, m.aux
}

// Compile-time interface checks
var (
	_ interfaces.Port     = (*MockPort)(nil)
	_ sensor.Source       = (*MockSource)(nil)
	_ sensor.TempSource   = (*MockSource)(nil)
	_ report.ButtonSource = (*MockButtons)(nil)
)
