package interval

import (
	"math/rand"
	"testing"

	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/require"
)

func TestSortedIterator(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for _, n := range []int{0, 1, 10, 100, 3000} {
		l := randomList(rng, n, 10000, 50)
		for i := 0; i < n/10; i++ {
			s := PosType(rng.Intn(10000))
			require.NoError(t, l.Add(s, s+5000, struct{}{}))
		}
		l.Construct(8)
		seen := map[int]bool{}
		prev := PosType(-1)
		it := NewSortedIterator(l)
		for it.Scan() {
			e := it.Entry()
			require.True(t, e.Start >= prev, "start %d after %d", e.Start, prev)
			require.False(t, seen[e.ID])
			seen[e.ID] = true
			prev = e.Start
		}
		require.Equal(t, l.Len(), len(seen))

		it.Reset()
		count := 0
		for it.Scan() {
			count++
		}
		expect.EQ(t, count, l.Len())

		count = 0
		for range l.Sorted() {
			count++
		}
		expect.EQ(t, count, l.Len())
	}
}

func TestSortedEarlyBreak(t *testing.T) {
	l := NewList[int](Opts{})
	assert.NoError(t, l.AddFromArrays([]PosType{30, 10, 20}, []PosType{31, 11, 21}, []int{3, 1, 2}))
	var got []int
	for e := range l.Sorted() {
		got = append(got, e.Value)
		if len(got) == 2 {
			break
		}
	}
	expect.EQ(t, got, []int{1, 2})
}

func TestSortedIteratorMutation(t *testing.T) {
	l := NewList[struct{}](Opts{})
	assert.NoError(t, l.AddFromArrays([]PosType{1, 2}, []PosType{3, 4}, nil))
	it := NewSortedIterator(l)
	assert.True(t, it.Scan())
	l.Deconstruct()
	require.Panics(t, func() { it.Scan() })
}
