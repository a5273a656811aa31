package ringqueue

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	A uint16
	B uint16
}

func TestPushPopRoundTrip(t *testing.T) {
	q := New[sample](4)

	for i := uint16(0); i < 3; i++ {
		item := sample{A: i, B: i * 10}
		q.Push(&item)
	}
	require.EqualValues(t, 3, q.Len())

	var out sample
	require.NoError(t, q.Pop(&out, false))
	assert.Equal(t, sample{A: 0, B: 0}, out)
	assert.EqualValues(t, 2, q.Len())
}

func TestPeekDoesNotConsume(t *testing.T) {
	q := New[sample](4)
	item := sample{A: 7, B: 70}
	q.Push(&item)

	var first, second sample
	require.NoError(t, q.Pop(&first, true))
	require.NoError(t, q.Pop(&second, false))

	assert.Equal(t, item, first)
	assert.Equal(t, item, second)
	assert.EqualValues(t, 0, q.Len())
}

func TestPopEmptyReturnsErrEmpty(t *testing.T) {
	q := New[sample](2)
	var out sample
	assert.ErrorIs(t, q.Pop(&out, false), ErrEmpty)
}

// TestOverwriteCountsBytesNotItems exercises the preserved quirk: pushing
// one item past capacity advances OverwriteCount by sizeof(sample) (4
// bytes), not by 1.
func TestOverwriteCountsBytesNotItems(t *testing.T) {
	q := New[sample](4)
	for i := uint16(0); i < 4; i++ {
		item := sample{A: i}
		q.Push(&item)
	}
	assert.EqualValues(t, 0, q.OverwriteCount())

	overflow := sample{A: 99}
	q.Push(&overflow)

	assert.EqualValues(t, 4, q.OverwriteCount())
	assert.EqualValues(t, 4, q.Len())

	var out sample
	require.NoError(t, q.Pop(&out, false))
	assert.EqualValues(t, 1, out.A, "oldest item should have been dropped by the overwrite")
}

func TestOverflowByTwoBytesDropsOldestTwo(t *testing.T) {
	q := New[uint8](4)
	for b := uint8(1); b <= 6; b++ {
		v := b
		q.Push(&v)
	}

	assert.EqualValues(t, 2, q.OverwriteCount())

	got := make([]uint8, 4)
	require.NoError(t, q.PopN(got, false))
	assert.Equal(t, []uint8{3, 4, 5, 6}, got)
	assert.EqualValues(t, 0, q.Len())
}

func TestPeekNThenPopAll(t *testing.T) {
	q := New[uint8](4)
	for _, b := range []uint8{10, 20, 30} {
		v := b
		q.Push(&v)
	}

	peeked := make([]uint8, 2)
	require.NoError(t, q.PopN(peeked, true))
	assert.Equal(t, []uint8{10, 20}, peeked)
	assert.EqualValues(t, 3, q.Len())

	all := make([]uint8, 3)
	require.NoError(t, q.PopN(all, false))
	assert.Equal(t, []uint8{10, 20, 30}, all)
	assert.EqualValues(t, 0, q.Len())
}

func TestPopNMoreThanUnreadIsErrEmpty(t *testing.T) {
	q := New[uint8](4)
	v := uint8(1)
	q.Push(&v)

	dst := make([]uint8, 2)
	assert.ErrorIs(t, q.PopN(dst, false), ErrEmpty)
}

// TestConcurrentPushPopKeepsInvariants races a producer pushing past
// capacity against a consumer popping, then checks the accounting still
// balances: everything pushed was either popped or overwritten, and the
// overwrite counter moved in whole byte multiples of the item size.
func TestConcurrentPushPopKeepsInvariants(t *testing.T) {
	const (
		capacity = 8
		pushes   = 10000
	)
	q := New[uint32](capacity)

	var popped atomic.Uint32
	done := make(chan struct{})
	go func() {
		defer close(done)
		var v uint32
		for popped.Load() < pushes {
			if err := q.Pop(&v, false); err != nil {
				if q.OverwriteCount()/4+popped.Load()+q.Len() >= pushes {
					return
				}
				continue
			}
			popped.Add(1)
		}
	}()

	for i := uint32(0); i < pushes; i++ {
		v := i
		q.Push(&v)
	}
	<-done

	require.Zero(t, q.OverwriteCount()%4, "overwrites must advance in whole items")

	// Drain whatever the consumer left behind.
	var v uint32
	remaining := uint32(0)
	for q.Pop(&v, false) == nil {
		remaining++
	}

	overwrittenItems := q.OverwriteCount() / 4
	assert.EqualValues(t, pushes, popped.Load()+remaining+overwrittenItems)
	assert.Zero(t, q.Len())
}

func TestCapacity(t *testing.T) {
	q := New[sample](8)
	assert.EqualValues(t, 8, q.Capacity())
}
