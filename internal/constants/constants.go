// Package constants holds shared timing and sizing constants for the
// Pensel engine.
package constants

import "time"

// Report protocol timing, ported from RPT_TIMEOUT in reports.c.
const (
	// ReportTimeout is how long the parser waits for the next byte of an
	// in-progress frame before resetting to ReadMagic0.
	ReportTimeout = 100 * time.Millisecond

	// MaxPayloadLen is the largest payload a request or response frame may
	// carry (the length byte is a single octet).
	MaxPayloadLen = 255
)

// Tick service cadences, ported from HAL_IncTick in pensel_v1.c.
const (
	TickPeriod       = 1 * time.Millisecond
	DebouncePeriod   = 10 * time.Millisecond
	WatchdogKickSkew = 5 * time.Millisecond
	HeartbeatPeriod  = 1 * time.Second
)

// Default sensor output data rates, matching the LSM303DLHC_init call in
// pensel_v1.c (kAccelODR_200_Hz, kMagODR_220_Hz).
const (
	DefaultAccelODRHz = 200
	DefaultMagODRHz   = 220
)

// Default ring buffer depths, in packets. The firmware sizes these once at
// bring-up; there is no runtime growth.
const (
	DefaultAccelQueueDepth = 32
	DefaultMagQueueDepth   = 32
)

// Default serial link parameters.
const (
	DefaultBaudRate = 250000
)

// NormalizedFullScale is the integer frame raw packets are normalized into
// before being enqueued.
const NormalizedFullScale = 32767
