package interval

import (
	"math/rand"
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

func TestCoverage(t *testing.T) {
	l := listOf([]PosType{2, 4, 5}, []PosType{6, 7, 5})
	origin, cov := l.Coverage(Lengths{})
	expect.EQ(t, origin, PosType(2))
	expect.EQ(t, cov, []int{1, 1, 2, 2, 1})

	_, cov = l.Coverage(Lengths{Min: 4})
	expect.EQ(t, cov, []int{1, 1, 1, 1, 0})

	expect.EQ(t, l.IntervalCoverage(0, 8), []int{0, 0, 1, 1, 2, 2, 1, 0})
	expect.EQ(t, l.IntervalCoverage(5, 6), []int{2})

	_, cov = NewList[struct{}](Opts{}).Coverage(Lengths{})
	expect.EQ(t, len(cov), 0)
}

func TestBinCoverage(t *testing.T) {
	l := listOf([]PosType{3, 12, 25}, []PosType{14, 13, 26})
	firstBin, bins, err := l.BinCoverage(10, Lengths{})
	assert.NoError(t, err)
	expect.EQ(t, firstBin, PosType(0))
	expect.EQ(t, bins, []int{7, 5, 1})

	firstBin, bins, err = l.BinNHits(10, Lengths{})
	assert.NoError(t, err)
	expect.EQ(t, firstBin, PosType(0))
	expect.EQ(t, bins, []int{1, 2, 1})

	_, _, err = l.BinCoverage(0, Lengths{})
	expect.True(t, errors.Is(errors.Invalid, err))
}

func TestBinCoverageTotals(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	l := randomList(rng, 400, 10000, 300)
	_, cov := l.Coverage(Lengths{})
	total := 0
	for _, c := range cov {
		total += c
	}
	_, bins, err := l.BinCoverage(97, Lengths{})
	assert.NoError(t, err)
	binTotal := 0
	for _, c := range bins {
		binTotal += c
	}
	expect.EQ(t, binTotal, total)
}

func TestWPS(t *testing.T) {
	// One interval [10, 30) with protection 4: [8, 12) and [28, 32) lose a
	// point, [12, 28) gains one.  The list spans [10, 30).
	l := listOf([]PosType{10}, []PosType{30})
	origin, wps := l.WPS(4, Lengths{})
	expect.EQ(t, origin, PosType(10))
	want := make([]int, 20)
	for i := range want {
		want[i] = 1
	}
	want[0], want[1], want[18], want[19] = -1, -1, -1, -1
	expect.EQ(t, wps, want)
}

func TestCoveredBases(t *testing.T) {
	l := listOf([]PosType{2, 4, 10}, []PosType{6, 7, 12})
	expect.EQ(t, l.CoveredBases(0, 20), 7)
	expect.EQ(t, l.CoveredBases(5, 11), 3)
	expect.EQ(t, l.CoveredBases(7, 10), 0)
	expect.EQ(t, l.CoveredBases(9, 9), 0)
}
