package sensor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulatedSourceProducesAccelAndMag(t *testing.T) {
	src := NewSimulatedSource(8, 8, 1000, 1000, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src.Start(ctx)
	defer src.Stop()

	require.Eventually(t, func() bool {
		return src.AccelDataAvailable() && src.MagDataAvailable()
	}, time.Second, 5*time.Millisecond)

	var pkt Packet
	require.NoError(t, src.AccelGetPacket(&pkt, false))
	assert.NotZero(t, pkt.Seq)
	assert.EqualValues(t, 1000, pkt.RateHz)
}

func TestSimulatedSourcePeekDoesNotConsume(t *testing.T) {
	src := NewSimulatedSource(8, 8, 1000, 1000, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	src.Start(ctx)
	defer src.Stop()

	require.Eventually(t, func() bool { return src.AccelDataAvailable() }, time.Second, 5*time.Millisecond)

	var first, second Packet
	require.NoError(t, src.AccelGetPacket(&first, true))
	require.NoError(t, src.AccelGetPacket(&second, false))
	assert.Equal(t, first, second)
}

func TestSimulatedSourceRunIsNoOp(t *testing.T) {
	src := NewSimulatedSource(4, 4, 200, 220, nil)
	assert.NotPanics(t, src.Run)
}

func TestSimulatedSourceConfigure(t *testing.T) {
	src := NewSimulatedSource(4, 4, 200, 220, nil)
	require.NoError(t, src.Configure(Config{AccelODR: 3, MagODR: 5}))
	assert.EqualValues(t, 3, src.cfg.AccelODR)
}
