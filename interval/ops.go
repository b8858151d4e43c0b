package interval

import (
	"github.com/grailbio/base/log"
)

// Merge returns the union of l's intervals with runs closer than gap joined:
// an interval extends the current run when the run's end is > its start-gap.
// The output is disjoint, sorted by start, numbered 0, 1, ... and left
// unconstructed.  Each run keeps the Value of its first interval.
func Merge[V any](l *List[V], gap PosType) *List[V] {
	out := NewList[V](Opts{LeafSize: l.opts.LeafSize})
	if l.Len() == 0 {
		return out
	}
	var (
		cur    Entry[V]
		active bool
	)
	it := NewSortedIterator(l)
	for it.Scan() {
		e := it.Entry()
		if active && cur.End > e.Start-gap {
			if e.End > cur.End {
				cur.End = e.End
			}
			continue
		}
		if active {
			cur.ID = out.nextID
			out.push(cur)
		}
		cur, active = e, true
	}
	cur.ID = out.nextID
	out.push(cur)
	log.Debug.Printf("interval.Merge: %d intervals into %d (gap %d)", l.Len(), out.Len(), gap)
	return out
}

// span is a coalesced stretch of reference hits.
type span struct {
	start, end PosType
}

// coalescedHits returns the hits of ref against [qs, qe) as sorted, disjoint
// spans.  Overlapping and touching hits are joined.
func coalescedHits[W any](ref *List[W], qs, qe PosType) []span {
	hits := ref.Query(qs, qe)
	if hits.Len() == 0 {
		return nil
	}
	hits.Construct(DefaultLeafSize)
	var spans []span
	for e := range hits.Sorted() {
		if n := len(spans); n > 0 && spans[n-1].end >= e.Start {
			if e.End > spans[n-1].end {
				spans[n-1].end = e.End
			}
			continue
		}
		spans = append(spans, span{e.Start, e.End})
	}
	return spans
}

// Subtract returns the parts of query's intervals not covered by any interval
// of ref.  Each piece keeps the ID and Value of the query interval it came
// from; a query interval without overlaps is copied unchanged.
func Subtract[V, W any](query *List[V], ref *List[W]) *List[V] {
	out := NewList[V](Opts{LeafSize: query.opts.LeafSize})
	ref.ensureConstructed()
	for i := range query.entries {
		q := query.entries[i]
		spans := coalescedHits(ref, q.Start, q.End)
		if len(spans) == 0 {
			out.push(q)
			continue
		}
		s := q.Start
		for _, h := range spans {
			if h.start > s {
				out.push(Entry[V]{Interval{s, h.start, q.ID}, q.Value})
			}
			if h.end > s {
				s = h.end
			}
			if s >= q.End {
				break
			}
		}
		if s < q.End {
			out.push(Entry[V]{Interval{s, q.End, q.ID}, q.Value})
		}
	}
	return out
}

// Common returns the intersections of a's intervals with the union of b's.
// Each piece keeps the ID and Value of the interval of a it came from.
func Common[V, W any](a *List[V], b *List[W]) *List[V] {
	out := NewList[V](Opts{LeafSize: a.opts.LeafSize})
	b.ensureConstructed()
	for i := range a.entries {
		q := a.entries[i]
		for _, h := range coalescedHits(b, q.Start, q.End) {
			s, e := h.start, h.end
			if q.Start > s {
				s = q.Start
			}
			if q.End < e {
				e = q.End
			}
			if s < e {
				out.push(Entry[V]{Interval{s, e, q.ID}, q.Value})
			}
		}
	}
	return out
}

// Union returns a's intervals followed by b's, renumbered 0, 1, ...  The
// result is unconstructed and may overlap itself; follow it with Merge for a
// disjoint union.
func Union[V any](a, b *List[V]) *List[V] {
	out := NewList[V](Opts{LeafSize: a.opts.LeafSize})
	out.entries = make([]Entry[V], 0, a.Len()+b.Len())
	for _, src := range []*List[V]{a, b} {
		for i := range src.entries {
			e := src.entries[i]
			e.ID = out.nextID
			out.push(e)
		}
	}
	return out
}
