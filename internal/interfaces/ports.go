// Package interfaces provides internal interface definitions for the
// Pensel engine. These are separate from the public package to avoid
// import cycles between it and the component packages.
package interfaces

// Port is the serial byte I/O contract the report engine binds to.
// GetByte is non-blocking: Empty means no byte is currently available.
type Port interface {
	PutByte(b byte) error
	GetByte() (byte, error)
	// DroppedPackets reports the UART subsystem's outbound-drop counter.
	DroppedPackets() uint8
}

// CalibrationStore is the narrow contract the core relies on for the
// calibration blob; the persistence format is opaque to the core.
type CalibrationStore interface {
	LoadFromFlash() error
	CheckValidity() error
	LoadDefaults()
}

// Logger is the logging contract components are constructed with.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// Observer is the metrics collection contract. Implementations must be
// thread-safe: methods are called from the main dispatch loop's goroutine
// (the report engine and the loop's overwrite accounting) while other
// goroutines may read what they collect.
type Observer interface {
	ObserveTimeout()
	ObserveInvalidChar()
	ObserveOverwrite(queue string, n uint32)
	ObserveDroppedByte()
	ObserveReport(latencyNs uint64, success bool)
}
