// Package sensor implements the sensor packet source:
// interrupt-equivalent producers that normalize raw accelerometer and
// magnetometer samples into a common integer frame and push them into two
// ring buffers for the dispatch loop to drain.
package sensor

// Packet is the normalized raw sample carried through the ring buffers,
// matching the firmware's accel_norm_t/mag_norm_t: signed 16-bit axes plus a
// monotonically increasing frame index and the reading-rate identifier in
// effect when the sample was captured.
type Packet struct {
	X, Y, Z int16
	Seq     uint32
	RateHz  uint16
}
