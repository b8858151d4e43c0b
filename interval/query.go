package interval

import (
	"fmt"
	"sort"

	"github.com/grailbio/base/errors"
)

// searchComponent returns the rightmost position t in [cs, ce) with
// entries[t].Start < qe, or cs-1 if there is none.
func (l *List[V]) searchComponent(cs, ce int, qe PosType) int {
	return cs + sort.Search(ce-cs, func(i int) bool { return l.entries[cs+i].Start >= qe }) - 1
}

// visit calls fn with the position of every entry overlapping [qs, qe),
// component by component, stopping as soon as fn returns false.  It returns
// false iff fn did.
func (l *List[V]) visit(qs, qe PosType, fn func(t int) bool) bool {
	l.ensureConstructed()
	for _, c := range l.comps {
		cs, ce := c.idx, c.idx+c.n
		if c.n <= linearScanLen {
			for t := cs; t < ce; t++ {
				if l.entries[t].Start < qe && l.entries[t].End > qs {
					if !fn(t) {
						return false
					}
				}
			}
			continue
		}
		// No entry at or before t can end past maxE[t], so the walk stops at
		// the first t whose maxE cannot reach qs.
		for t := l.searchComponent(cs, ce, qe); t >= cs && l.maxE[t] > qs; t-- {
			if l.entries[t].End > qs {
				if !fn(t) {
					return false
				}
			}
		}
	}
	return true
}

// visitLength is visit restricted to entries passing lens.
func (l *List[V]) visitLength(qs, qe PosType, lens Lengths, fn func(t int) bool) bool {
	return l.visit(qs, qe, func(t int) bool {
		if !lens.Match(l.entries[t].Len()) {
			return true
		}
		return fn(t)
	})
}

// Query returns a new list holding copies of every entry e with
// e.Start < qe && e.End > qs.  IDs and values are preserved; the order is
// unspecified.  The list constructs itself first if needed.
func (l *List[V]) Query(qs, qe PosType) *List[V] {
	return l.QueryLength(qs, qe, Lengths{})
}

// QueryLength is Query restricted to entries whose length passes lens.
func (l *List[V]) QueryLength(qs, qe PosType, lens Lengths) *List[V] {
	out := NewList[V](Opts{LeafSize: l.opts.LeafSize})
	l.visitLength(qs, qe, lens, func(t int) bool {
		out.push(l.entries[t])
		return true
	})
	return out
}

// NHits returns the number of entries overlapping [qs, qe).
func (l *List[V]) NHits(qs, qe PosType) int {
	return l.NHitsLength(qs, qe, Lengths{})
}

// NHitsLength is NHits restricted to entries whose length passes lens.
func (l *List[V]) NHitsLength(qs, qe PosType, lens Lengths) int {
	n := 0
	l.visitLength(qs, qe, lens, func(int) bool {
		n++
		return true
	})
	return n
}

// HasHit returns whether any entry overlaps [qs, qe).  It stops at the first
// hit.
func (l *List[V]) HasHit(qs, qe PosType) bool {
	return l.HasHitLength(qs, qe, Lengths{})
}

// HasHitLength is HasHit restricted to entries whose length passes lens.
func (l *List[V]) HasHitLength(qs, qe PosType, lens Lengths) bool {
	return !l.visitLength(qs, qe, lens, func(int) bool { return false })
}

// HitIDs returns the IDs of the entries overlapping [qs, qe).
func (l *List[V]) HitIDs(qs, qe PosType, lens Lengths) []int {
	var ids []int
	l.visitLength(qs, qe, lens, func(t int) bool {
		ids = append(ids, l.entries[t].ID)
		return true
	})
	return ids
}

// Pairs lists (query index, hit ID) matches of a batched query in parallel
// slices.
type Pairs struct {
	QueryIndex []int
	HitID      []int
}

// Len returns the number of matches.
func (p *Pairs) Len() int {
	return len(p.QueryIndex)
}

func (p *Pairs) add(q, id int) {
	p.QueryIndex = append(p.QueryIndex, q)
	p.HitID = append(p.HitID, id)
}

func checkArrays(op string, starts, ends []PosType) error {
	if len(starts) != len(ends) {
		return errors.E(errors.Invalid, fmt.Sprintf("interval.%s: %d starts but %d ends", op, len(starts), len(ends)))
	}
	return nil
}

// QueryArrays runs Query for every [starts[i], ends[i]) and concatenates the
// results.
func (l *List[V]) QueryArrays(starts, ends []PosType, lens Lengths) (*List[V], error) {
	if err := checkArrays("QueryArrays", starts, ends); err != nil {
		return nil, err
	}
	out := NewList[V](Opts{LeafSize: l.opts.LeafSize})
	for i := range starts {
		l.visitLength(starts[i], ends[i], lens, func(t int) bool {
			out.push(l.entries[t])
			return true
		})
	}
	return out, nil
}

// QueryIndexArrays returns a (i, hit ID) pair for every entry overlapping
// [starts[i], ends[i]).
func (l *List[V]) QueryIndexArrays(starts, ends []PosType, lens Lengths) (Pairs, error) {
	var p Pairs
	if err := checkArrays("QueryIndexArrays", starts, ends); err != nil {
		return p, err
	}
	for i := range starts {
		l.visitLength(starts[i], ends[i], lens, func(t int) bool {
			p.add(i, l.entries[t].ID)
			return true
		})
	}
	return p, nil
}

// NHitsArrays returns the hit count of every [starts[i], ends[i]).
func (l *List[V]) NHitsArrays(starts, ends []PosType, lens Lengths) ([]int, error) {
	if err := checkArrays("NHitsArrays", starts, ends); err != nil {
		return nil, err
	}
	nhits := make([]int, len(starts))
	for i := range starts {
		nhits[i] = l.NHitsLength(starts[i], ends[i], lens)
	}
	return nhits, nil
}

// HasHitArrays returns whether every [starts[i], ends[i]) has a hit.
func (l *List[V]) HasHitArrays(starts, ends []PosType, lens Lengths) ([]bool, error) {
	if err := checkArrays("HasHitArrays", starts, ends); err != nil {
		return nil, err
	}
	hasHit := make([]bool, len(starts))
	for i := range starts {
		hasHit[i] = l.HasHitLength(starts[i], ends[i], lens)
	}
	return hasHit, nil
}

// QueryList uses every entry of q as a query against l and concatenates the
// hits.
func QueryList[V, W any](l *List[V], q *List[W], lens Lengths) *List[V] {
	l.ensureConstructed()
	out := NewList[V](Opts{LeafSize: l.opts.LeafSize})
	for i := range q.entries {
		l.visitLength(q.entries[i].Start, q.entries[i].End, lens, func(t int) bool {
			out.push(l.entries[t])
			return true
		})
	}
	return out
}

// QueryIndexList is QueryList returning (query position in q, hit ID) pairs.
func QueryIndexList[V, W any](l *List[V], q *List[W], lens Lengths) Pairs {
	l.ensureConstructed()
	var p Pairs
	for i := range q.entries {
		l.visitLength(q.entries[i].Start, q.entries[i].End, lens, func(t int) bool {
			p.add(i, l.entries[t].ID)
			return true
		})
	}
	return p
}

// NHitsList returns, for every entry of q, the number of entries of l it
// overlaps.
func NHitsList[V, W any](l *List[V], q *List[W], lens Lengths) []int {
	l.ensureConstructed()
	nhits := make([]int, len(q.entries))
	for i := range q.entries {
		nhits[i] = l.NHitsLength(q.entries[i].Start, q.entries[i].End, lens)
	}
	return nhits
}

// HasHitList returns, for every entry of q, whether it overlaps any entry of
// l.
func HasHitList[V, W any](l *List[V], q *List[W], lens Lengths) []bool {
	l.ensureConstructed()
	hasHit := make([]bool, len(q.entries))
	for i := range q.entries {
		hasHit[i] = l.HasHitLength(q.entries[i].Start, q.entries[i].End, lens)
	}
	return hasHit
}
