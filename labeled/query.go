package labeled

import (
	"fmt"

	"github.com/grailbio/aiarray/interval"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
)

// list returns the list for name, constructing a first.  It returns nil for
// an unknown label.
func (a *Array[V]) list(name string) *interval.List[V] {
	i, ok := a.byName[name]
	if !ok {
		return nil
	}
	a.ensureConstructed()
	return a.lists[i]
}

// Query returns the intervals of label overlapping [qs, qe), IDs preserved.
// An unknown label yields an empty array.
func (a *Array[V]) Query(label string, qs, qe interval.PosType) *Array[V] {
	return a.QueryLength(label, qs, qe, interval.Lengths{})
}

// QueryLength is Query restricted to intervals whose length passes lens.
func (a *Array[V]) QueryLength(label string, qs, qe interval.PosType, lens interval.Lengths) *Array[V] {
	out := New[V](a.opts)
	if l := a.list(label); l != nil {
		if hits := l.QueryLength(qs, qe, lens); hits.Len() > 0 {
			out.adopt(label, hits)
		}
	}
	return out
}

// NHits returns the number of intervals of label overlapping [qs, qe).
func (a *Array[V]) NHits(label string, qs, qe interval.PosType) int {
	return a.NHitsLength(label, qs, qe, interval.Lengths{})
}

// NHitsLength is NHits restricted to intervals whose length passes lens.
func (a *Array[V]) NHitsLength(label string, qs, qe interval.PosType, lens interval.Lengths) int {
	if l := a.list(label); l != nil {
		return l.NHitsLength(qs, qe, lens)
	}
	return 0
}

// HasHit returns whether any interval of label overlaps [qs, qe).
func (a *Array[V]) HasHit(label string, qs, qe interval.PosType) bool {
	if l := a.list(label); l != nil {
		return l.HasHit(qs, qe)
	}
	return false
}

func checkArrays(op string, labels []string, starts, ends []interval.PosType) error {
	if len(labels) != len(starts) || len(starts) != len(ends) {
		return errors.E(errors.Invalid, fmt.Sprintf("labeled.%s: %d labels, %d starts, %d ends", op, len(labels), len(starts), len(ends)))
	}
	return nil
}

// QueryArrays runs QueryLength for every (labels[i], starts[i], ends[i]) and
// collects the hits.  An interval hit by several queries appears once per
// query.
func (a *Array[V]) QueryArrays(labels []string, starts, ends []interval.PosType, lens interval.Lengths) (*Array[V], error) {
	if err := checkArrays("QueryArrays", labels, starts, ends); err != nil {
		return nil, err
	}
	out := New[V](a.opts)
	for i := range labels {
		l := a.list(labels[i])
		if l == nil {
			continue
		}
		hits := l.QueryLength(starts[i], ends[i], lens)
		for _, e := range hits.All() {
			out.push(Labeled[V]{labels[i], e})
		}
	}
	return out, nil
}

// QueryIndexArrays returns a (query index, hit ID) pair for every match of
// (labels[i], starts[i], ends[i]).
func (a *Array[V]) QueryIndexArrays(labels []string, starts, ends []interval.PosType, lens interval.Lengths) (interval.Pairs, error) {
	var p interval.Pairs
	if err := checkArrays("QueryIndexArrays", labels, starts, ends); err != nil {
		return p, err
	}
	for i := range labels {
		l := a.list(labels[i])
		if l == nil {
			continue
		}
		for _, id := range l.HitIDs(starts[i], ends[i], lens) {
			p.QueryIndex = append(p.QueryIndex, i)
			p.HitID = append(p.HitID, id)
		}
	}
	return p, nil
}

// NHitsArrays returns the hit count of every query.
func (a *Array[V]) NHitsArrays(labels []string, starts, ends []interval.PosType, lens interval.Lengths) ([]int, error) {
	if err := checkArrays("NHitsArrays", labels, starts, ends); err != nil {
		return nil, err
	}
	nhits := make([]int, len(labels))
	for i := range labels {
		nhits[i] = a.NHitsLength(labels[i], starts[i], ends[i], lens)
	}
	return nhits, nil
}

// HasHitArrays returns whether every query has a hit.
func (a *Array[V]) HasHitArrays(labels []string, starts, ends []interval.PosType, lens interval.Lengths) ([]bool, error) {
	if err := checkArrays("HasHitArrays", labels, starts, ends); err != nil {
		return nil, err
	}
	hasHit := make([]bool, len(labels))
	for i := range labels {
		if l := a.list(labels[i]); l != nil {
			hasHit[i] = l.HasHitLength(starts[i], ends[i], lens)
		}
	}
	return hasHit, nil
}

// QueryArray uses every interval of q as a query against the same label of a
// and collects the hits.
func QueryArray[V, W any](a *Array[V], q *Array[W], lens interval.Lengths) *Array[V] {
	a.ensureConstructed()
	out := New[V](a.opts)
	for qi, name := range q.names {
		l := a.list(name)
		if l == nil {
			continue
		}
		hits := interval.QueryList(l, q.lists[qi], lens)
		for _, e := range hits.All() {
			out.push(Labeled[V]{name, e})
		}
	}
	return out
}

// QueryIndexArray is QueryArray returning (query ID, hit ID) pairs.
func QueryIndexArray[V, W any](a *Array[V], q *Array[W], lens interval.Lengths) interval.Pairs {
	a.ensureConstructed()
	var p interval.Pairs
	for qi, name := range q.names {
		l := a.list(name)
		if l == nil {
			continue
		}
		ql := q.lists[qi]
		lp := interval.QueryIndexList(l, ql, lens)
		for k := range lp.QueryIndex {
			qe, ok := ql.At(lp.QueryIndex[k])
			if !ok {
				log.Panicf("labeled.QueryIndexArray: query position %d of %d", lp.QueryIndex[k], ql.Len())
			}
			p.QueryIndex = append(p.QueryIndex, qe.ID)
			p.HitID = append(p.HitID, lp.HitID[k])
		}
	}
	return p
}

// NHitsArray returns, for every interval of q in Entries order, the number of
// intervals of a it overlaps.
func NHitsArray[V, W any](a *Array[V], q *Array[W], lens interval.Lengths) []int {
	a.ensureConstructed()
	var nhits []int
	for qi, name := range q.names {
		if l := a.list(name); l != nil {
			nhits = append(nhits, interval.NHitsList(l, q.lists[qi], lens)...)
		} else {
			nhits = append(nhits, make([]int, q.lists[qi].Len())...)
		}
	}
	return nhits
}
