package labeled

import (
	"github.com/grailbio/aiarray/interval"
)

// Merge merges every label separately (see interval.Merge) and renumbers the
// result 0, 1, ... in label order.
func (a *Array[V]) Merge(gap interval.PosType) *Array[V] {
	out := New[V](a.opts)
	for i, l := range a.lists {
		if l.Len() == 0 {
			continue
		}
		out.adopt(a.names[i], interval.Merge(l, gap))
	}
	out.resetIDs()
	return out
}

// Subtract removes the intervals of other from a, label by label.  Labels
// absent from other pass through unchanged.  Pieces keep the ID of the
// interval they came from.
func (a *Array[V]) Subtract(other *Array[V]) *Array[V] {
	out := New[V](a.opts)
	for i, l := range a.lists {
		if l.Len() == 0 {
			continue
		}
		ref := other.list(a.names[i])
		if ref == nil {
			out.adopt(a.names[i], l.Copy())
			continue
		}
		if d := interval.Subtract(l, ref); d.Len() > 0 {
			out.adopt(a.names[i], d)
		}
	}
	return out
}

// Common intersects a with other, label by label.  Labels absent from other
// are dropped.  Pieces keep the ID of the interval of a they came from.
func (a *Array[V]) Common(other *Array[V]) *Array[V] {
	out := New[V](a.opts)
	for i, l := range a.lists {
		ref := other.list(a.names[i])
		if ref == nil || l.Len() == 0 {
			continue
		}
		if c := interval.Common(l, ref); c.Len() > 0 {
			out.adopt(a.names[i], c)
		}
	}
	return out
}

// Union concatenates a and other label by label, a's labels first, and
// renumbers the result 0, 1, ... in label order.  Follow it with Merge for a
// disjoint union.
func (a *Array[V]) Union(other *Array[V]) *Array[V] {
	out := New[V](a.opts)
	empty := interval.NewList[V](interval.Opts{})
	for i, l := range a.lists {
		r, ok := other.Label(a.names[i])
		if !ok {
			r = empty
		}
		out.adopt(a.names[i], interval.Union(l, r))
	}
	for i, r := range other.lists {
		if _, ok := a.byName[other.names[i]]; ok {
			continue
		}
		out.adopt(other.names[i], interval.Union(empty, r))
	}
	out.resetIDs()
	return out
}
