package interval

import (
	"math/rand"
	"testing"

	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

func TestLengthFilter(t *testing.T) {
	l := listOf([]PosType{0, 10, 20}, []PosType{5, 12, 40})
	f := l.LengthFilter(Lengths{Min: 3, Max: 20})
	expect.EQ(t, f.IDs(), []int{0})
	f = l.LengthFilter(Lengths{Min: 2})
	expect.EQ(t, f.IDs(), []int{0, 1, 2})
}

func TestDownsample(t *testing.T) {
	l := randomList(rand.New(rand.NewSource(7)), 10000, 100000, 100)
	d := l.Downsample(rand.New(rand.NewSource(8)), 0.25)
	expect.True(t, d.Len() > 2000 && d.Len() < 3000)
	for _, e := range d.All() {
		orig, ok := l.Get(e.ID)
		assert.True(t, ok)
		expect.EQ(t, orig.Interval, e.Interval)
	}
	expect.EQ(t, l.Downsample(rand.New(rand.NewSource(8)), 0).Len(), 0)
	expect.EQ(t, l.Downsample(rand.New(rand.NewSource(8)), 1).Len(), l.Len())
}

func TestSimulate(t *testing.T) {
	l := listOf([]PosType{100, 150}, []PosType{120, 160})
	s := l.Simulate(rand.New(rand.NewSource(9)), 500)
	expect.EQ(t, s.Len(), 500)
	for i, e := range s.All() {
		expect.EQ(t, e.ID, i)
		expect.True(t, e.Start >= 100 && e.End <= 160)
		expect.True(t, e.Len() == 20 || e.Len() == 10)
	}
	expect.EQ(t, NewList[struct{}](Opts{}).Simulate(rand.New(rand.NewSource(9)), 5).Len(), 0)
}

func TestClosest(t *testing.T) {
	l := listOf([]PosType{0, 100, 48, 300}, []PosType{10, 110, 60, 305})
	c := l.Closest(50, 58, 2)
	expect.EQ(t, c.IDs(), []int{2, 0})
	expect.EQ(t, l.Closest(50, 58, 10).Len(), 4)
	expect.EQ(t, l.Closest(50, 58, 0).Len(), 0)
}

func TestExactMatches(t *testing.T) {
	a := listOf([]PosType{0, 10, 20, 7}, []PosType{5, 15, 25, 7})
	b := listOf([]PosType{10, 0, 20, 7}, []PosType{15, 6, 26, 7})
	expect.EQ(t, ExactMatches(a, b), []bool{false, true, false, true})
}
