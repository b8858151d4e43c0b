package interval

import (
	"fmt"

	"github.com/grailbio/base/errors"
)

// Coverage returns the per-base depth of the intervals passing lens.
// cov[i] is the depth at position origin+i, where origin is First(); cov
// spans [First(), Last()).  An empty list yields a nil slice.
func (l *List[V]) Coverage(lens Lengths) (origin PosType, cov []int) {
	if l.Len() == 0 {
		return 0, nil
	}
	origin = l.first
	cov = make([]int, l.last-l.first)
	for i := range l.entries {
		e := &l.entries[i]
		if !lens.Match(e.Len()) {
			continue
		}
		for p := e.Start; p < e.End; p++ {
			cov[p-origin]++
		}
	}
	return origin, cov
}

// IntervalCoverage returns the depth at every position of [start, end);
// cov[i] is the depth at start+i.
func (l *List[V]) IntervalCoverage(start, end PosType) []int {
	if end < start {
		return nil
	}
	cov := make([]int, end-start)
	l.visit(start, end, func(t int) bool {
		e := &l.entries[t]
		s, x := e.Start, e.End
		if s < start {
			s = start
		}
		if x > end {
			x = end
		}
		for p := s; p < x; p++ {
			cov[p-start]++
		}
		return true
	})
	return cov
}

func checkBinSize(op string, binSize PosType) error {
	if binSize <= 0 {
		return errors.E(errors.Invalid, fmt.Sprintf("interval.%s: bin size %d", op, binSize))
	}
	return nil
}

// binRange returns the first bin of the list and the number of bins needed to
// cover [First(), Last()).
func (l *List[V]) binRange(binSize PosType) (firstBin PosType, nBins int) {
	if l.Len() == 0 {
		return 0, 0
	}
	firstBin = l.first / binSize
	lastBin := (l.last - 1) / binSize
	if l.last == 0 {
		lastBin = 0
	}
	return firstBin, int(lastBin-firstBin) + 1
}

// BinCoverage returns the number of covered bases per bin of width binSize.
// bins[i] is the sum over intervals passing lens of their overlap with
// [(firstBin+i)*binSize, (firstBin+i+1)*binSize).
func (l *List[V]) BinCoverage(binSize PosType, lens Lengths) (firstBin PosType, bins []int, err error) {
	if err = checkBinSize("BinCoverage", binSize); err != nil {
		return 0, nil, err
	}
	firstBin, n := l.binRange(binSize)
	bins = make([]int, n)
	for i := range l.entries {
		e := &l.entries[i]
		if !lens.Match(e.Len()) {
			continue
		}
		for b := e.Start / binSize; b*binSize < e.End; b++ {
			s, x := b*binSize, (b+1)*binSize
			if s < e.Start {
				s = e.Start
			}
			if x > e.End {
				x = e.End
			}
			bins[b-firstBin] += int(x - s)
		}
	}
	return firstBin, bins, nil
}

// BinNHits returns the number of intervals passing lens that touch each bin.
// An empty interval counts towards the bin holding its start.
func (l *List[V]) BinNHits(binSize PosType, lens Lengths) (firstBin PosType, bins []int, err error) {
	if err = checkBinSize("BinNHits", binSize); err != nil {
		return 0, nil, err
	}
	firstBin, n := l.binRange(binSize)
	bins = make([]int, n)
	for i := range l.entries {
		e := &l.entries[i]
		if !lens.Match(e.Len()) {
			continue
		}
		last := e.Start / binSize
		if e.End > e.Start {
			last = (e.End - 1) / binSize
		}
		for b := e.Start / binSize; b <= last; b++ {
			if int(b-firstBin) < len(bins) {
				bins[b-firstBin]++
			}
		}
	}
	return firstBin, bins, nil
}

// WPS returns the window protection score over [First(), Last()).  For each
// interval passing lens, positions within protection/2 of either end lose one
// point and the interior between those windows gains one.  wps[i] is the
// score at origin+i.
func (l *List[V]) WPS(protection PosType, lens Lengths) (origin PosType, wps []int) {
	if l.Len() == 0 {
		return 0, nil
	}
	half := protection / 2
	origin = l.first
	wps = make([]int, l.last-l.first)
	add := func(s, e PosType, d int) {
		for p := s; p < e; p++ {
			wps[p-origin] += d
		}
	}
	for i := range l.entries {
		e := &l.entries[i]
		if !lens.Match(e.Len()) {
			continue
		}
		headStart := max(l.first, e.Start-half)
		headEnd := min(e.Start+half, e.End)
		tailStart := max(headEnd, e.End-half)
		tailEnd := min(e.End+half, l.last)
		add(headStart, headEnd, -1)
		add(tailStart, tailEnd, -1)
		add(headEnd, tailStart, 1)
	}
	return origin, wps
}

// MidpointLengths returns a histogram h where h[m] counts intervals passing
// lens whose half-length (End-Start)/2 is m.
func (l *List[V]) MidpointLengths(lens Lengths) []int {
	h := make([]int, int(l.MaxLength()/2)+1)
	for i := range l.entries {
		if n := l.entries[i].Len(); lens.Match(n) {
			h[n/2]++
		}
	}
	return h
}

// CoveredBases returns the number of positions of [qs, qe) covered by at
// least one interval.
func (l *List[V]) CoveredBases(qs, qe PosType) int {
	if qe <= qs {
		return 0
	}
	l.ensureConstructed()
	n := 0
	for _, h := range coalescedHits(l, qs, qe) {
		n += int(min(h.end, qe) - max(h.start, qs))
	}
	return n
}
