package sensor

// Source is the polling contract the main dispatch loop drives each
// iteration. Run drains any internal hardware-FIFO
// representation into the ring buffers; implementations with no real
// hardware (SimulatedSource) may make it a no-op since their producer
// goroutines push directly.
type Source interface {
	Run()

	AccelDataAvailable() bool
	MagDataAvailable() bool

	AccelGetPacket(pkt *Packet, peek bool) error
	MagGetPacket(pkt *Packet, peek bool) error

	AccelPacketOverwriteCount() uint32
	MagPacketOverwriteCount() uint32

	AccelHardwareOverwriteCount() uint32
	MagHardwareOverwriteCount() uint32

	// Configure applies a new ODR/sensitivity selection, mirroring
	// LSM303DLHC_init in reports.c's 0x20 handler. Failures should be
	// returned as (or wrapped around) a structured report error so the
	// driver's retcode reaches the wire verbatim; unstructured errors
	// are reported as a generic failure.
	Configure(cfg Config) error
}

// Config is the wire payload of report 0x20: raw ODR and
// sensitivity selector bytes, passed through to the sensor driver
// uninterpreted by the report engine.
type Config struct {
	AccelODR         uint8
	AccelSensitivity uint8
	MagODR           uint8
	MagSensitivity   uint8
}

// TempSource is the optional die-temperature contract report 0x21 relies
// on. The original LSM303DLHC exposes this from the same package as the
// accel/mag FIFOs, so SimulatedSource implements it directly rather than
// splitting it into its own driver interface.
type TempSource interface {
	Temp() (int16, error)
}
