// Package labeled partitions intervals by a string label (typically a
// chromosome name) and keeps one interval.List per label.  IDs are global
// across labels and assigned in insertion order.
package labeled

import (
	"fmt"
	"iter"

	"github.com/grailbio/aiarray/interval"
	"github.com/grailbio/base/bitset"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
)

// Labeled is an interval together with the label it belongs to.
type Labeled[V any] struct {
	Label string
	interval.Entry[V]
}

func (e Labeled[V]) String() string {
	return e.Label + ":" + e.Interval.String()
}

// loc is the position of an entry: label index, then position in that
// label's backing array.
type loc struct {
	label, pos int
}

// Array holds labeled intervals.  Labels get dense indices in first-seen
// order.  The zero value is not usable; call New.
//
// Like interval.List, an Array is built by a series of Adds and frozen by
// Construct.  Unlike interval.List, Add is always allowed: it reopens the
// affected label, and the next query constructs it again.
type Array[V any] struct {
	opts   interval.Opts
	names  []string
	lists  []*interval.List[V]
	byName map[string]int

	nextID   int
	rejected int
	// constructed is true iff every label is constructed.
	constructed bool
	// idCache maps ID to location.  Valid only while constructed is true.
	idCache map[int]loc
}

// New returns an empty Array.  opts applies to every per-label list.
func New[V any](opts interval.Opts) *Array[V] {
	return &Array[V]{
		opts:   opts,
		byName: make(map[string]int),
	}
}

// labelIndex returns the index of name, creating the label if needed.
func (a *Array[V]) labelIndex(name string) int {
	if i, ok := a.byName[name]; ok {
		return i
	}
	i := len(a.names)
	a.names = append(a.names, name)
	// The per-label cap never binds before Add's global one; it guards adopt.
	a.lists = append(a.lists, interval.NewList[V](a.opts))
	a.byName[name] = i
	return i
}

func (a *Array[V]) invalidate() {
	a.constructed = false
	a.idCache = nil
}

// Add appends [start, end) to label under the next global ID.  Intervals
// with start < 0 or start > end are dropped and counted by Rejected.  An
// errors.Unavailable error is returned once opts.MaxIntervals is reached.
func (a *Array[V]) Add(start, end interval.PosType, label string, value V) error {
	if start < 0 || start > end {
		a.rejected++
		return nil
	}
	if a.opts.MaxIntervals > 0 && a.Len() >= a.opts.MaxIntervals {
		return errors.E(errors.Unavailable, fmt.Sprintf("labeled.Add: capacity of %d intervals exhausted", a.opts.MaxIntervals))
	}
	l := a.lists[a.labelIndex(label)]
	if l.IsConstructed() {
		l.Deconstruct()
	}
	if err := l.AddWithID(start, end, a.nextID, value); err != nil {
		return err
	}
	a.nextID++
	a.invalidate()
	return nil
}

// AddFromArrays adds (starts[i], ends[i], labels[i]) for every i.  values may
// be nil.
func (a *Array[V]) AddFromArrays(starts, ends []interval.PosType, labels []string, values []V) error {
	if len(starts) != len(ends) || len(starts) != len(labels) || (values != nil && len(values) != len(starts)) {
		return errors.E(errors.Invalid, fmt.Sprintf("labeled.AddFromArrays: mismatched lengths %d, %d, %d, %d", len(starts), len(ends), len(labels), len(values)))
	}
	var zero V
	for i := range starts {
		v := zero
		if values != nil {
			v = values[i]
		}
		if err := a.Add(starts[i], ends[i], labels[i], v); err != nil {
			return err
		}
	}
	return nil
}

// adopt installs l as the contents of label name, keeping l's IDs.  l's
// entries must not already be present in a.
func (a *Array[V]) adopt(name string, l *interval.List[V]) {
	i := a.labelIndex(name)
	dst := a.lists[i]
	if dst.Len() == 0 && !dst.IsConstructed() {
		a.lists[i] = l
	} else {
		if dst.IsConstructed() {
			dst.Deconstruct()
		}
		for _, e := range l.All() {
			if err := dst.AddWithID(e.Start, e.End, e.ID, e.Value); err != nil {
				log.Panicf("labeled.adopt: %v", err)
			}
		}
	}
	for _, e := range l.All() {
		if e.ID >= a.nextID {
			a.nextID = e.ID + 1
		}
	}
	a.invalidate()
}

// Construct constructs every label with the default leaf size.
func (a *Array[V]) Construct() {
	a.ConstructLeafSize(a.opts.LeafSize)
}

// ConstructLeafSize constructs every label with the given leaf size.
func (a *Array[V]) ConstructLeafSize(leafSize int) {
	for _, l := range a.lists {
		l.Construct(leafSize)
	}
	a.constructed = true
	a.idCache = nil
	log.Debug.Printf("labeled.Construct: %d intervals in %d labels", a.Len(), len(a.names))
}

// IsConstructed returns whether every label is constructed.
func (a *Array[V]) IsConstructed() bool {
	return a.constructed
}

func (a *Array[V]) ensureConstructed() {
	if a.constructed {
		return
	}
	for _, l := range a.lists {
		if !l.IsConstructed() {
			log.Debug.Printf("labeled: implicit Construct of %d intervals", l.Len())
			l.Construct(a.opts.LeafSize)
		}
	}
	a.constructed = true
	a.idCache = nil
}

// Len returns the total number of intervals.
func (a *Array[V]) Len() int {
	n := 0
	for _, l := range a.lists {
		n += l.Len()
	}
	return n
}

// Rejected returns the number of intervals Add dropped.
func (a *Array[V]) Rejected() int {
	return a.rejected
}

// Labels returns the label names in first-seen order.
func (a *Array[V]) Labels() []string {
	return append([]string(nil), a.names...)
}

// Label returns the list holding name's intervals.  The list is shared with
// a; mutating it through the interval API bypasses a's bookkeeping.
func (a *Array[V]) Label(name string) (*interval.List[V], bool) {
	i, ok := a.byName[name]
	if !ok {
		return nil, false
	}
	return a.lists[i], true
}

// Entries iterates over all intervals, label by label, each label in its
// backing-array order.
func (a *Array[V]) Entries() iter.Seq[Labeled[V]] {
	return func(yield func(Labeled[V]) bool) {
		for i, l := range a.lists {
			for _, e := range l.All() {
				if !yield(Labeled[V]{a.names[i], e}) {
					return
				}
			}
		}
	}
}

// SortedEntries iterates over all intervals, label by label in first-seen
// order, each label sorted by start.  It constructs a first.
func (a *Array[V]) SortedEntries() iter.Seq[Labeled[V]] {
	return func(yield func(Labeled[V]) bool) {
		a.ensureConstructed()
		for i, l := range a.lists {
			for e := range l.Sorted() {
				if !yield(Labeled[V]{a.names[i], e}) {
					return
				}
			}
		}
	}
}

// Starts returns the starts in Entries order.
func (a *Array[V]) Starts() []interval.PosType {
	out := make([]interval.PosType, 0, a.Len())
	for e := range a.Entries() {
		out = append(out, e.Start)
	}
	return out
}

// Ends returns the ends in Entries order.
func (a *Array[V]) Ends() []interval.PosType {
	out := make([]interval.PosType, 0, a.Len())
	for e := range a.Entries() {
		out = append(out, e.End)
	}
	return out
}

// IDs returns the IDs in Entries order.
func (a *Array[V]) IDs() []int {
	out := make([]int, 0, a.Len())
	for e := range a.Entries() {
		out = append(out, e.ID)
	}
	return out
}

// LabelNames returns the label of every interval in Entries order.
func (a *Array[V]) LabelNames() []string {
	out := make([]string, 0, a.Len())
	for e := range a.Entries() {
		out = append(out, e.Label)
	}
	return out
}

func (a *Array[V]) cacheIDs() {
	a.ensureConstructed()
	if a.idCache != nil {
		return
	}
	a.idCache = make(map[int]loc, a.Len())
	for li, l := range a.lists {
		for pos, e := range l.All() {
			if _, ok := a.idCache[e.ID]; !ok {
				a.idCache[e.ID] = loc{li, pos}
			}
		}
	}
}

// Get returns the interval with the given ID.
func (a *Array[V]) Get(id int) (Labeled[V], bool) {
	a.cacheIDs()
	c, ok := a.idCache[id]
	if !ok {
		return Labeled[V]{}, false
	}
	e, ok := a.lists[c.label].At(c.pos)
	if !ok {
		return Labeled[V]{}, false
	}
	return Labeled[V]{a.names[c.label], e}, true
}

// SliceIDs returns a new array holding the intervals with the given IDs, in
// the given order.  An unknown ID yields an errors.NotExist error.
func (a *Array[V]) SliceIDs(ids []int) (*Array[V], error) {
	out := New[V](a.opts)
	for _, id := range ids {
		e, ok := a.Get(id)
		if !ok {
			return nil, errors.E(errors.NotExist, fmt.Sprintf("labeled.SliceIDs: no interval with ID %d", id))
		}
		out.push(e)
	}
	return out, nil
}

// SliceRange returns SliceIDs of start, start+step, ... up to but excluding
// end.  step must be positive.
func (a *Array[V]) SliceRange(start, end, step int) (*Array[V], error) {
	if step <= 0 || start < 0 || end < start || end > a.nextID {
		return nil, errors.E(errors.Invalid, fmt.Sprintf("labeled.SliceRange: bad range [%d, %d) step %d over %d IDs", start, end, step, a.nextID))
	}
	ids := make([]int, 0, (end-start+step-1)/step)
	for id := start; id < end; id += step {
		ids = append(ids, id)
	}
	return a.SliceIDs(ids)
}

// SliceMask returns the intervals whose ID bit is set in mask, in Entries
// order.  mask must have room for every ID.
func (a *Array[V]) SliceMask(mask []uintptr) (*Array[V], error) {
	if len(mask)*bitset.BitsPerWord < a.nextID {
		return nil, errors.E(errors.Invalid, fmt.Sprintf("labeled.SliceMask: %d-word mask too short for %d IDs", len(mask), a.nextID))
	}
	out := New[V](a.opts)
	for e := range a.Entries() {
		if bitset.Test(mask, e.ID) {
			out.push(e)
		}
	}
	return out, nil
}

// push appends e under its own ID.
func (a *Array[V]) push(e Labeled[V]) {
	l := a.lists[a.labelIndex(e.Label)]
	if l.IsConstructed() {
		l.Deconstruct()
	}
	if err := l.AddWithID(e.Start, e.End, e.ID, e.Value); err != nil {
		log.Panicf("labeled: %v", err)
	}
	if e.ID >= a.nextID {
		a.nextID = e.ID + 1
	}
	a.invalidate()
}

// resetIDs renumbers all intervals 0, 1, ... in Entries order.
func (a *Array[V]) resetIDs() {
	shift := 0
	for _, l := range a.lists {
		l.ResetIDsShift(shift)
		shift += l.Len()
	}
	a.nextID = shift
	a.idCache = nil
}

// Copy returns an unconstructed deep copy of a.
func (a *Array[V]) Copy() *Array[V] {
	out := New[V](a.opts)
	for i, l := range a.lists {
		out.adopt(a.names[i], l.Copy())
	}
	out.rejected = a.rejected
	return out
}
