// Package filter implements the direct-form FIR filter bank:
// a gravity low-pass filter and a movement band-pass filter over the
// accelerometer axes, and a north low-pass filter over the magnetometer
// axes. Grounded on
// firmware/modules/orientation/FIR_coefficients.h for the coefficient
// tables. No heap allocation happens after init: every AxisFilter's shift
// register is a fixed-size array allocated once by New and never grown.
package filter

// Cartesian is a three-axis float32 vector, the output type for
// gravity/movement/north vectors.
type Cartesian struct {
	X, Y, Z float32
}

// AxisFilter is a single-axis direct-form FIR filter with a fixed-length
// shift register. Push appends one new sample and returns the filtered
// output.
type AxisFilter struct {
	coeffs   []float32
	register []float32
	pos      int
}

// NewAxisFilter constructs a filter over the given coefficient table. The
// slice passed in is read, never retained for mutation, so callers may pass
// one of the package-level coefficient arrays directly.
func NewAxisFilter(coeffs []float32) *AxisFilter {
	return &AxisFilter{
		coeffs:   coeffs,
		register: make([]float32, len(coeffs)),
	}
}

// Push shifts sample into the register and returns the convolution of the
// register against the coefficient table.
func (f *AxisFilter) Push(sample float32) float32 {
	n := len(f.coeffs)
	// Shift register down one slot, oldest sample falls off the end. n is
	// small (15 or 16) so a plain copy beats a ring index here.
	copy(f.register[1:], f.register[:n-1])
	f.register[0] = sample

	var acc float32
	for i := 0; i < n; i++ {
		acc += f.register[i] * f.coeffs[i]
	}
	return acc
}

// Reset clears the shift register to zero, as at power-on.
func (f *AxisFilter) Reset() {
	for i := range f.register {
		f.register[i] = 0
	}
}

// AxisTriple holds one filter per cartesian axis, sharing a coefficient
// table.
type AxisTriple struct {
	X, Y, Z *AxisFilter
}

func newAxisTriple(coeffs []float32) AxisTriple {
	return AxisTriple{
		X: NewAxisFilter(coeffs),
		Y: NewAxisFilter(coeffs),
		Z: NewAxisFilter(coeffs),
	}
}

// Push feeds one raw sample per axis and returns the filtered vector.
func (t AxisTriple) Push(raw Cartesian) Cartesian {
	return Cartesian{
		X: t.X.Push(raw.X),
		Y: t.Y.Push(raw.Y),
		Z: t.Z.Push(raw.Z),
	}
}

// Bank is the full three-filter bank fed by the accelerometer and
// magnetometer axes.
type Bank struct {
	gravity  AxisTriple
	movement AxisTriple
	north    AxisTriple
}

// NewBank constructs a Bank with the fixed coefficient tables recovered
// from the original firmware.
func NewBank() *Bank {
	return &Bank{
		gravity:  newAxisTriple(GravityLPF[:]),
		movement: newAxisTriple(MovementBPF[:]),
		north:    newAxisTriple(NorthLPF[:]),
	}
}

// PushAccel feeds one raw accelerometer sample into both the gravity and
// movement filters, returning both outputs.
func (b *Bank) PushAccel(raw Cartesian) (gravity, movement Cartesian) {
	return b.gravity.Push(raw), b.movement.Push(raw)
}

// PushMag feeds one raw magnetometer sample into the north filter.
func (b *Bank) PushMag(raw Cartesian) Cartesian {
	return b.north.Push(raw)
}
