package labeled

import (
	"encoding/binary"
	"math/rand"
	"sort"

	"blainsmith.com/go/seahash"
	farm "github.com/dgryski/go-farm"
	"github.com/grailbio/aiarray/interval"
	gunsafe "github.com/grailbio/base/unsafe"
)

// Coverage returns the per-base depth of label; see interval.List.Coverage.
// An unknown label yields a nil slice.
func (a *Array[V]) Coverage(label string, lens interval.Lengths) (origin interval.PosType, cov []int) {
	if l, ok := a.Label(label); ok {
		return l.Coverage(lens)
	}
	return 0, nil
}

// BinCoverage returns the covered bases per bin of label.
func (a *Array[V]) BinCoverage(label string, binSize interval.PosType, lens interval.Lengths) (firstBin interval.PosType, bins []int, err error) {
	l, ok := a.Label(label)
	if !ok {
		l = interval.NewList[V](interval.Opts{})
	}
	return l.BinCoverage(binSize, lens)
}

// BinNHits returns the number of intervals of label touching each bin.
func (a *Array[V]) BinNHits(label string, binSize interval.PosType, lens interval.Lengths) (firstBin interval.PosType, bins []int, err error) {
	l, ok := a.Label(label)
	if !ok {
		l = interval.NewList[V](interval.Opts{})
	}
	return l.BinNHits(binSize, lens)
}

// WPS returns the window protection score of label.
func (a *Array[V]) WPS(label string, protection interval.PosType, lens interval.Lengths) (origin interval.PosType, wps []int) {
	if l, ok := a.Label(label); ok {
		return l.WPS(protection, lens)
	}
	return 0, nil
}

// PercentCoverage returns, for every interval of a in Entries order, the
// fraction of its bases covered by other's intervals of the same label.
// Empty intervals get 0.
func (a *Array[V]) PercentCoverage(other *Array[V]) []float64 {
	other.ensureConstructed()
	out := make([]float64, 0, a.Len())
	for e := range a.Entries() {
		ref, ok := other.Label(e.Label)
		if !ok || e.Len() == 0 {
			out = append(out, 0)
			continue
		}
		out = append(out, float64(ref.CoveredBases(e.Start, e.End))/float64(e.Len()))
	}
	return out
}

// ExactMatches reports, for every interval of a in Entries order, whether
// other holds an interval with the same label, start and end.
func (a *Array[V]) ExactMatches(other *Array[V]) []bool {
	other.ensureConstructed()
	var out []bool
	for i, l := range a.lists {
		ref, ok := other.Label(a.names[i])
		if !ok {
			out = append(out, make([]bool, l.Len())...)
			continue
		}
		out = append(out, interval.ExactMatches(l, ref)...)
	}
	return out
}

// filter builds a new array by applying fn to every label's list.  IDs are
// preserved.
func (a *Array[V]) filter(fn func(l *interval.List[V]) *interval.List[V]) *Array[V] {
	out := New[V](a.opts)
	for i, l := range a.lists {
		if f := fn(l); f.Len() > 0 {
			out.adopt(a.names[i], f)
		}
	}
	return out
}

// LengthFilter returns the intervals whose length passes lens.
func (a *Array[V]) LengthFilter(lens interval.Lengths) *Array[V] {
	return a.filter(func(l *interval.List[V]) *interval.List[V] { return l.LengthFilter(lens) })
}

// Downsample keeps every interval independently with probability p.
func (a *Array[V]) Downsample(rng *rand.Rand, p float64) *Array[V] {
	return a.filter(func(l *interval.List[V]) *interval.List[V] { return l.Downsample(rng, p) })
}

// DownsampleBySeed keeps an interval when the farmhash of its (label, start,
// end) under seed falls below p.  Unlike Downsample, the decision depends only
// on the interval, so the same seed keeps the same intervals in every array.
func (a *Array[V]) DownsampleBySeed(seed uint64, p float64) *Array[V] {
	out := New[V](a.opts)
	if p <= 0 {
		return out
	}
	var buf []byte
	for e := range a.Entries() {
		buf = append(buf[:0], e.Label...)
		buf = binary.LittleEndian.AppendUint32(buf, uint32(e.Start))
		buf = binary.LittleEndian.AppendUint32(buf, uint32(e.End))
		if p >= 1 || float64(farm.Hash64WithSeed(buf, seed)>>11)/(1<<53) < p {
			out.push(e)
		}
	}
	return out
}

// Simulate returns, for every label, as many random intervals as the label
// holds, with lengths drawn from it and positions within its span.  The
// result is numbered 0, 1, ... in label order.
func (a *Array[V]) Simulate(rng *rand.Rand) *Array[V] {
	out := New[V](a.opts)
	for i, l := range a.lists {
		if l.Len() > 0 {
			out.adopt(a.names[i], l.Simulate(rng, l.Len()))
		}
	}
	out.resetIDs()
	return out
}

// Checksum returns a seahash fingerprint of the labeled intervals.  It
// depends on neither insertion order nor IDs nor values: labels are visited
// in name order and each label's intervals in (start, end) order.
func (a *Array[V]) Checksum() uint64 {
	h := seahash.New()
	names := a.Labels()
	sort.Strings(names)
	var buf [8]byte
	for _, name := range names {
		l, _ := a.Label(name)
		if l.Len() == 0 {
			continue
		}
		h.Write(gunsafe.StringToBytes(name))
		h.Write([]byte{0})
		ivs := make([][2]interval.PosType, 0, l.Len())
		for _, e := range l.All() {
			ivs = append(ivs, [2]interval.PosType{e.Start, e.End})
		}
		sort.Slice(ivs, func(i, j int) bool {
			if ivs[i][0] != ivs[j][0] {
				return ivs[i][0] < ivs[j][0]
			}
			return ivs[i][1] < ivs[j][1]
		})
		for _, iv := range ivs {
			binary.LittleEndian.PutUint32(buf[:4], uint32(iv[0]))
			binary.LittleEndian.PutUint32(buf[4:], uint32(iv[1]))
			h.Write(buf[:])
		}
	}
	return h.Sum64()
}
