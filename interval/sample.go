package interval

import (
	"math/rand"
	"sort"
)

// LengthFilter returns a copy of the entries whose length passes lens, IDs
// preserved.
func (l *List[V]) LengthFilter(lens Lengths) *List[V] {
	out := NewList[V](l.opts)
	for i := range l.entries {
		if lens.Match(l.entries[i].Len()) {
			out.push(l.entries[i])
		}
	}
	return out
}

// Downsample keeps each entry independently with probability p, IDs
// preserved.
func (l *List[V]) Downsample(rng *rand.Rand, p float64) *List[V] {
	out := NewList[V](l.opts)
	for i := range l.entries {
		if rng.Float64() < p {
			out.push(l.entries[i])
		}
	}
	return out
}

// Simulate returns n intervals whose lengths are drawn from l and whose
// starts are uniform over the positions that keep them inside
// [First(), Last()).  Simulated interval k gets ID k and the zero Value.
func (l *List[V]) Simulate(rng *rand.Rand, n int) *List[V] {
	out := NewList[V](l.opts)
	if l.Len() == 0 {
		return out
	}
	var zero V
	for k := 0; k < n; k++ {
		length := l.entries[rng.Intn(len(l.entries))].Len()
		span := int(l.last-length-l.first) + 1
		start := l.first
		if span > 1 {
			start += PosType(rng.Intn(span))
		}
		out.push(Entry[V]{Interval{start, start + length, k}, zero})
	}
	return out
}

// distance is the smaller of the start-to-start and end-to-end distances.
func distance(start, end PosType, iv Interval) PosType {
	ds, de := iv.Start-start, iv.End-end
	if ds < 0 {
		ds = -ds
	}
	if de < 0 {
		de = -de
	}
	return min(ds, de)
}

// Closest returns the k entries nearest to [start, end), nearest first,
// where an entry's distance is the smaller of its start-to-start and
// end-to-end distances.  Ties keep backing-array order.
func (l *List[V]) Closest(start, end PosType, k int) *List[V] {
	out := NewList[V](l.opts)
	if k <= 0 || l.Len() == 0 {
		return out
	}
	order := make([]int, len(l.entries))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return distance(start, end, l.entries[order[i]].Interval) < distance(start, end, l.entries[order[j]].Interval)
	})
	if k > len(order) {
		k = len(order)
	}
	for _, i := range order[:k] {
		out.push(l.entries[i])
	}
	return out
}

// ExactMatches reports, for every entry of a in backing-array order, whether
// b holds an interval with the same start and end.
func ExactMatches[V, W any](a *List[V], b *List[W]) []bool {
	b.ensureConstructed()
	match := make([]bool, len(a.entries))
	for i := range a.entries {
		q := a.entries[i]
		if q.Start == q.End {
			// Empty intervals only hit the maxE walk when something spans them.
			for j := range b.entries {
				if b.entries[j].Start == q.Start && b.entries[j].End == q.End {
					match[i] = true
					break
				}
			}
			continue
		}
		b.visit(q.Start, q.End, func(t int) bool {
			if b.entries[t].Start == q.Start && b.entries[t].End == q.End {
				match[i] = true
				return false
			}
			return true
		})
	}
	return match
}
