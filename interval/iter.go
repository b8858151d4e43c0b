package interval

import (
	"iter"

	"github.com/biogo/store/llrb"
	"github.com/grailbio/base/log"
	"v.io/x/lib/vlog"
)

// compCursor is one component's position in a SortedIterator.
type compCursor[V any] struct {
	l    *List[V]
	comp int
	pos  int
	end  int
}

// Compare orders cursors by the start of their head entry, breaking ties by
// component index so that no two live cursors compare equal.
func (c *compCursor[V]) Compare(c1 llrb.Comparable) int {
	o := c1.(*compCursor[V])
	s0, s1 := c.l.entries[c.pos].Start, o.l.entries[o.pos].Start
	if s0 != s1 {
		if s0 < s1 {
			return -1
		}
		return 1
	}
	return c.comp - o.comp
}

// SortedIterator yields the entries of a constructed list in nondecreasing
// start order by merging its components.  Usage:
//   it := NewSortedIterator(l)
//   for it.Scan() {
//     e := it.Entry()
//   }
// The list must not be mutated while the iterator is live; doing so panics on
// the next Scan.
type SortedIterator[V any] struct {
	l       *List[V]
	gen     uint64
	cursors llrb.Tree
	cur     Entry[V]
}

// NewSortedIterator returns an iterator over l, constructing l first if
// needed.
func NewSortedIterator[V any](l *List[V]) *SortedIterator[V] {
	l.ensureConstructed()
	it := &SortedIterator[V]{l: l}
	it.Reset()
	return it
}

// Reset rewinds the iterator to the first entry.
func (it *SortedIterator[V]) Reset() {
	it.gen = it.l.gen
	it.cursors = llrb.Tree{}
	for i, c := range it.l.comps {
		it.cursors.Insert(&compCursor[V]{l: it.l, comp: i, pos: c.idx, end: c.idx + c.n})
	}
	vlog.VI(2).Infof("interval.SortedIterator: merging %d components", it.cursors.Len())
}

// Scan advances to the next entry.  It returns false when all entries have
// been visited.
func (it *SortedIterator[V]) Scan() bool {
	if it.gen != it.l.gen {
		log.Panicf("interval.SortedIterator: list mutated during iteration")
	}
	if it.cursors.Len() == 0 {
		return false
	}
	top := it.cursors.Min().(*compCursor[V])
	it.cursors.DeleteMin()
	it.cur = it.l.entries[top.pos]
	top.pos++
	if top.pos < top.end {
		it.cursors.Insert(top)
	}
	return true
}

// Entry returns the entry the last successful Scan stopped at.
func (it *SortedIterator[V]) Entry() Entry[V] {
	return it.cur
}

// Sorted returns the entries of l in nondecreasing start order.  Each call to
// the returned sequence starts over.
func (l *List[V]) Sorted() iter.Seq[Entry[V]] {
	return func(yield func(Entry[V]) bool) {
		it := NewSortedIterator(l)
		for it.Scan() {
			if !yield(it.Entry()) {
				return
			}
		}
	}
}
