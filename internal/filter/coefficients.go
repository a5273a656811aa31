package filter

// Coefficient tables ported verbatim from
// firmware/modules/orientation/FIR_coefficients.h. Order here means
// "number of taps", matching the original's FIR_*_ORDER defines.

const (
	GravityOrder  = 16
	MovementOrder = 15
	NorthOrder    = 16
)

// GravityLPF is the low-pass filter used for gravity vector detection on
// the accelerometer axes.
var GravityLPF = [GravityOrder]float32{
	-0.00240944875944, -0.00416217525112, 0.009536485428, 0.0199709259953,
	-0.0379541806908, -0.0695728329288, 0.137360839193, 0.447230387014,
	0.447230387014, 0.137360839193, -0.0695728329288, -0.0379541806908,
	0.0199709259953, 0.009536485428, -0.00416217525112, -0.00240944875944,
}

// MovementBPF is the band-pass filter used for movement detection on the
// accelerometer axes. The firmware's movement.c never finished wiring this
// in (just a TODO stub); this port completes it since both the order and
// the coefficient table already exist in the original headers.
var MovementBPF = [MovementOrder]float32{
	-0.0047846698549, 4.54680087369e-19,
	0.0168247546099, 0.0427336721913,
	0.0456754563004, 0.0,
	-0.0701556742885, 0.939412922083,
	-0.0701556742885, 0.0,
	0.0456754563004, 0.0427336721913,
	0.0168247546099, 4.54680087369e-19,
	-0.0047846698549,
}

// NorthLPF is the low-pass filter used for north vector detection on the
// magnetometer axes.
var NorthLPF = [NorthOrder]float32{
	-0.00240944875944, -0.00416217525112, 0.009536485428, 0.0199709259953,
	-0.0379541806908, -0.0695728329288, 0.137360839193, 0.447230387014,
	0.447230387014, 0.137360839193, -0.0695728329288, -0.0379541806908,
	0.0199709259953, 0.009536485428, -0.00416217525112, -0.00240944875944,
}
