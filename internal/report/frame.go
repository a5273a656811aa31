package report

import "encoding/binary"

const (
	magic0 = 0xBE
	magic1 = 0xEF
)

// StreamIDSet holds the IDs the dispatch loop (internal/loop) tags
// server-initiated sensor stream frames with. The original firmware
// referenced these IDs without ever pinning values, so the assignment
// below is a placeholder wire agreement; host tooling is free to override
// by constructing its own StreamIDSet.
type StreamIDSet struct {
	RawAccel      uint8
	FilteredAccel uint8
	RawMag        uint8
	FilteredMag   uint8
}

// DefaultStreamIDs is the concrete assignment this port ships with.
var DefaultStreamIDs = StreamIDSet{
	RawAccel:      0xE0,
	FilteredAccel: 0xE1,
	RawMag:        0xE2,
	FilteredMag:   0xE3,
}

// putU32LE appends the little-endian encoding of v to out.
func putU32LE(out []byte, v uint32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return append(out, b[:]...)
}

func putI16LE(out []byte, v int16) []byte {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], uint16(v))
	return append(out, b[:]...)
}

// widenCounter16to32LE widens a saturating 16-bit counter to the 32-bit
// little-endian wire representation reports 0x10/0x11 use.
func widenCounter16to32LE(out []byte, v uint16) []byte {
	return putU32LE(out, uint32(v))
}
