package pensel

import "github.com/holmestyler/pensel/internal/constants"

// Re-exported defaults for the public API.
const (
	ReportTimeout          = constants.ReportTimeout
	MaxPayloadLen          = constants.MaxPayloadLen
	TickPeriod             = constants.TickPeriod
	DebouncePeriod         = constants.DebouncePeriod
	WatchdogKickSkew       = constants.WatchdogKickSkew
	HeartbeatPeriod        = constants.HeartbeatPeriod
	DefaultAccelODRHz      = constants.DefaultAccelODRHz
	DefaultMagODRHz        = constants.DefaultMagODRHz
	DefaultAccelQueueDepth = constants.DefaultAccelQueueDepth
	DefaultMagQueueDepth   = constants.DefaultMagQueueDepth
	DefaultBaudRate        = constants.DefaultBaudRate
	NormalizedFullScale    = constants.NormalizedFullScale
)
