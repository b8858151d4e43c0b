package interval

import (
	"fmt"
	"sort"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
)

// Construct freezes the list into queryable form.  It sorts the intervals by
// start, decomposes them into at most MaxComponents start-sorted components,
// and computes the running maximum end of each component.  leafSize <= 0
// selects DefaultLeafSize.
//
// Construct permutes the backing array: positions from before the call are
// meaningless afterwards, IDs are not.  Calling it on a constructed list
// rebuilds from scratch.
func (l *List[V]) Construct(leafSize int) {
	if leafSize <= 0 {
		leafSize = DefaultLeafSize
	}
	if leafSize < 2 {
		leafSize = 2
	}
	n := len(l.entries)
	l.comps = l.comps[:0]
	l.maxE = nil
	l.mutated()
	l.constructed = true
	if n == 0 {
		return
	}
	sort.Slice(l.entries, func(i, j int) bool { return l.entries[i].Start < l.entries[j].Start })

	minL := minComponentLen
	if leafSize > minL {
		minL = leafSize
	}
	if n <= minL {
		l.comps = append(l.comps, component{0, n})
	} else {
		l.decompose(leafSize, minL)
	}
	l.augment()
	log.Debug.Printf("interval.Construct: %d intervals, leaf size %d, %d components", n, leafSize, len(l.comps))
}

// decompose peels long-range intervals off the sorted list round by round.
// An interval covers its neighbourhood when fewer than half of its next
// leafSize+leafSize/2-1 successors end at or after it; such intervals are
// deferred to the next round, the rest form the current component.  The last
// window of every round is always kept so that each round makes progress.
func (l *List[V]) decompose(leafSize, minL int) {
	half := leafSize / 2
	window := leafSize + half
	n := len(l.entries)
	// in holds the current round's input, deferred collects what it rejects.
	// Retained entries are written back into l.entries from the front.
	in := make([]Entry[V], n)
	copy(in, l.entries)
	deferred := make([]Entry[V], 0, n)
	k := 0
	for len(l.comps) < MaxComponents && len(in) > minL {
		deferred = deferred[:0]
		compStart := k
		nKeep := len(in) - window
		if nKeep < 0 {
			nKeep = 0
		}
		for t := 0; t < nKeep; t++ {
			end := in[t].End
			nCover := 1
			for j := 1; j < window && nCover < half; j++ {
				if in[t+j].End >= end {
					nCover++
				}
			}
			if nCover < half {
				deferred = append(deferred, in[t])
			} else {
				l.entries[k] = in[t]
				k++
			}
		}
		k += copy(l.entries[k:], in[nKeep:])
		l.comps = append(l.comps, component{compStart, k - compStart})

		if len(deferred) <= minL || len(l.comps) == MaxComponents-2 {
			if len(deferred) > 0 {
				k += copy(l.entries[k:], deferred)
				l.comps = append(l.comps, component{k - len(deferred), len(deferred)})
			}
			break
		}
		in, deferred = deferred, in[:0]
	}
	if k != n {
		log.Panicf("interval.decompose: placed %d of %d intervals", k, n)
	}
}

// augment fills maxE for every component.
func (l *List[V]) augment() {
	l.maxE = make([]PosType, len(l.entries))
	for _, c := range l.comps {
		m := l.entries[c.idx].End
		for t := c.idx; t < c.idx+c.n; t++ {
			if e := l.entries[t].End; e > m {
				m = e
			}
			l.maxE[t] = m
		}
	}
}

// Deconstruct drops the components and reopens the list for Add.
func (l *List[V]) Deconstruct() {
	l.constructed = false
	l.comps = l.comps[:0]
	l.maxE = nil
	l.mutated()
}

// ensureConstructed constructs the list with its configured leaf size if
// a mutation has happened since the last Construct.
func (l *List[V]) ensureConstructed() {
	if !l.constructed {
		log.Debug.Printf("interval: implicit Construct of %d intervals", len(l.entries))
		l.Construct(l.opts.LeafSize)
	}
}

// Validate checks the invariants of a constructed list: the components
// partition the backing array, each is sorted by start, and maxE is the
// running maximum of End within each component.
func (l *List[V]) Validate() error {
	if !l.constructed {
		return errors.E(errors.Precondition, "interval.Validate: list is not constructed")
	}
	if len(l.comps) > MaxComponents {
		return errors.E(errors.Integrity, fmt.Sprintf("interval.Validate: %d components", len(l.comps)))
	}
	next := 0
	for ci, c := range l.comps {
		if c.idx != next || c.n <= 0 {
			return errors.E(errors.Integrity, fmt.Sprintf("interval.Validate: component %d at [%d, %d), expected start %d", ci, c.idx, c.idx+c.n, next))
		}
		m := l.entries[c.idx].End
		for t := c.idx; t < c.idx+c.n; t++ {
			if t > c.idx && l.entries[t].Start < l.entries[t-1].Start {
				return errors.E(errors.Integrity, fmt.Sprintf("interval.Validate: component %d unsorted at %d", ci, t))
			}
			if e := l.entries[t].End; e > m {
				m = e
			}
			if l.maxE[t] != m {
				return errors.E(errors.Integrity, fmt.Sprintf("interval.Validate: maxE[%d] = %d, want %d", t, l.maxE[t], m))
			}
		}
		next = c.idx + c.n
	}
	if next != len(l.entries) {
		return errors.E(errors.Integrity, fmt.Sprintf("interval.Validate: components cover %d of %d intervals", next, len(l.entries)))
	}
	return nil
}
