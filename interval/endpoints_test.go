package interval

import (
	"math/rand"
	"testing"

	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

func TestNewEndpoints(t *testing.T) {
	l := listOf([]PosType{7, 5, 20, 17, 30}, []PosType{17, 15, 25, 20, 30})
	e := NewEndpoints(l)
	expect.EQ(t, e, Endpoints{5, 25})
	expect.EQ(t, e.Len(), 1)
	expect.EQ(t, e.CoveredLength(), 20)

	e = NewEndpoints(listOf([]PosType{5, 7, 20}, []PosType{15, 17, 25}))
	expect.EQ(t, e, Endpoints{5, 17, 20, 25})
	for pos, want := range map[PosType]bool{4: false, 5: true, 16: true, 17: false, 19: false, 20: true, 24: true, 25: false} {
		expect.EQ(t, e.Contains(pos), want, "pos %d", pos)
	}
}

func TestEndpointIndexSequential(t *testing.T) {
	rng := rand.New(rand.NewSource(10))
	l := randomList(rng, 200, 5000, 40)
	e := NewEndpoints(l)
	covered := coveredSet(l)
	ei := NewEndpointIndex(0, e)
	for pos := PosType(0); pos < 5100; pos++ {
		ei.Update(pos, e)
		expect.EQ(t, ei.Contained(), covered[pos], "pos %d", pos)
	}
	expect.True(t, ei.Finished(e))
}

func TestEndpointIndexAtMax(t *testing.T) {
	e := Endpoints{-1, 10, 20, PosTypeMax}
	expect.True(t, e.Contains(PosTypeMax-1))
	expect.False(t, e.Contains(PosTypeMax))
	ei := NewEndpointIndex(PosTypeMax, e)
	expect.True(t, ei.Finished(e))
	ei = NewEndpointIndex(0, e)
	ei.Update(PosTypeMax, e)
	expect.False(t, ei.Contained())
	expect.False(t, Endpoints{5, 10}.Contains(PosTypeMax))
}

func TestEndpointsOverlaps(t *testing.T) {
	e := Endpoints{5, 10, 20, 30}
	for _, tt := range []struct {
		start, end PosType
		want       bool
	}{
		{0, 5, false},
		{0, 6, true},
		{9, 20, true},
		{10, 20, false},
		{25, 26, true},
		{30, 100, false},
		{7, 7, false},
	} {
		expect.EQ(t, e.Overlaps(tt.start, tt.end), tt.want, "[%d, %d)", tt.start, tt.end)
	}
	expect.False(t, Endpoints(nil).Overlaps(0, 100))
}

func TestUnionScanner(t *testing.T) {
	e := Endpoints{5, 10, 20, 30}
	us := NewUnionScanner(e)
	next := func(limit PosType) [2]PosType {
		start, end, ok := us.Next(limit)
		assert.True(t, ok)
		return [2]PosType{start, end}
	}
	expect.EQ(t, next(25), [2]PosType{5, 10})
	expect.EQ(t, next(25), [2]PosType{20, 25})
	_, _, ok := us.Next(25)
	expect.False(t, ok)
	expect.EQ(t, us.Pos(), PosType(25))
	expect.EQ(t, next(100), [2]PosType{25, 30})
	_, _, ok = us.Next(100)
	expect.False(t, ok)
	expect.EQ(t, us.Pos(), PosType(PosTypeMax))

	_, _, ok = NewUnionScanner(nil).Next(PosTypeMax)
	expect.False(t, ok)
}
