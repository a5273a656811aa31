package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAxisFilterImpulseResponseMatchesCoefficients(t *testing.T) {
	f := NewAxisFilter(GravityLPF[:])

	// Feed an impulse (1, 0, 0, ...) and read the impulse response back
	// out one tap at a time: for a direct-form FIR, out[k] == coeffs[k].
	got := make([]float32, GravityOrder)
	got[0] = f.Push(1)
	for i := 1; i < GravityOrder; i++ {
		got[i] = f.Push(0)
	}

	for i := 0; i < GravityOrder; i++ {
		assert.InDelta(t, GravityLPF[i], got[i], 1e-6)
	}
}

func TestAxisFilterResetClearsState(t *testing.T) {
	f := NewAxisFilter(GravityLPF[:])
	f.Push(1)
	f.Push(1)
	f.Reset()
	assert.EqualValues(t, 0, f.Push(0))
}

func TestBankPushAccelFeedsBothFilters(t *testing.T) {
	b := NewBank()
	gravity, movement := b.PushAccel(Cartesian{X: 1, Y: 0, Z: 0})
	assert.NotZero(t, gravity.X)
	assert.NotZero(t, movement.X)
}

func TestBankPushMagFeedsNorthFilter(t *testing.T) {
	b := NewBank()
	out := b.PushMag(Cartesian{X: 0, Y: 1, Z: 0})
	assert.NotZero(t, out.Y)
}
