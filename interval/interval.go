package interval

import (
	"fmt"
	"iter"

	"github.com/grailbio/base/errors"
)

const (
	// DefaultLeafSize is the decomposition window used when Construct is
	// called with a nonpositive leaf size.
	DefaultLeafSize = 20
	// MaxComponents bounds the number of components Construct produces.
	MaxComponents = 10
	// minComponentLen is the smallest deferred remainder that still triggers
	// another peeling round.
	minComponentLen = 64
	// linearScanLen is the component length at or below which queries scan
	// instead of binary-searching.
	linearScanLen = 15
)

// Interval is a half-open [Start, End) range with a stable ID.
type Interval struct {
	Start PosType
	End   PosType
	// ID is assigned in insertion order.  It survives Construct, and only
	// changes through ResetIDs.
	ID int
}

// Len returns End - Start.
func (iv Interval) Len() PosType {
	return iv.End - iv.Start
}

// Overlaps returns whether iv intersects [qs, qe).
func (iv Interval) Overlaps(qs, qe PosType) bool {
	return iv.Start < qe && iv.End > qs
}

func (iv Interval) String() string {
	return fmt.Sprintf("[%d,%d)#%d", iv.Start, iv.End, iv.ID)
}

// Entry is an Interval together with a caller-defined payload.  Use
// V = struct{} when there is nothing to attach.
type Entry[V any] struct {
	Interval
	Value V
}

// Lengths restricts an operation to intervals whose length lies in
// [Min, Max).  Max <= 0 means no upper bound, so the zero value matches
// everything.
type Lengths struct {
	Min PosType
	Max PosType
}

// Match returns whether an interval of length n passes the filter.
func (f Lengths) Match(n PosType) bool {
	return n >= f.Min && (f.Max <= 0 || n < f.Max)
}

// Opts configures a List.
type Opts struct {
	// LeafSize is the decomposition window used when the list has to
	// construct itself implicitly (e.g. the first query after an Add).  <= 0
	// selects DefaultLeafSize.
	LeafSize int
	// MaxIntervals caps the number of intervals the list will hold; Add
	// returns an errors.Unavailable error beyond it.  0 means no cap.
	MaxIntervals int
}

// DefaultOpts is the zero configuration.
var DefaultOpts = Opts{}

// component is the range [idx, idx+n) of List.entries after Construct.
type component struct {
	idx, n int
}

// List is an Augmented Interval List.  It starts out as a plain append-only
// store; Construct turns it into a queryable index.
//
// A List is not safe for concurrent use.
type List[V any] struct {
	opts    Opts
	entries []Entry[V]
	// maxE[t] is the largest End among the entries of t's component at
	// positions <= t.  Only valid while constructed is true.
	maxE        []PosType
	comps       []component
	constructed bool

	first, last PosType
	nextID      int
	rejected    int

	// gen is bumped on every mutation, so that live iterators can detect
	// misuse.
	gen uint64
	// idIndex maps ID to position; built lazily by Get.
	idIndex map[int]int
}

// NewList creates an empty List.
func NewList[V any](opts Opts) *List[V] {
	return &List[V]{
		opts:  opts,
		first: PosTypeMax,
		last:  0,
	}
}

// Len returns the number of intervals.
func (l *List[V]) Len() int {
	return len(l.entries)
}

// First returns the smallest start added, or PosTypeMax if the list is
// empty.
func (l *List[V]) First() PosType {
	return l.first
}

// Last returns the largest end added, or 0 if the list is empty.
func (l *List[V]) Last() PosType {
	return l.last
}

// Rejected returns the number of intervals Add dropped for having
// start < 0 or start > end.
func (l *List[V]) Rejected() int {
	return l.rejected
}

// IsConstructed returns whether the list is currently queryable without an
// implicit Construct.
func (l *List[V]) IsConstructed() bool {
	return l.constructed
}

// NumComponents returns the number of components; 0 if not constructed.
func (l *List[V]) NumComponents() int {
	return len(l.comps)
}

func (l *List[V]) mutated() {
	l.gen++
	l.idIndex = nil
}

// Add appends [start, end) with the next ID.  Intervals with start < 0 or
// start > end are silently dropped (see Rejected).  Add fails on a
// constructed list; call Deconstruct first.
func (l *List[V]) Add(start, end PosType, value V) error {
	if err := l.checkAppend(); err != nil {
		return err
	}
	if start < 0 || start > end {
		l.rejected++
		return nil
	}
	l.push(Entry[V]{Interval{start, end, l.nextID}, value})
	return nil
}

// AddWithID is Add with an explicit ID.  Subsequent Adds continue numbering
// after the largest ID seen.
func (l *List[V]) AddWithID(start, end PosType, id int, value V) error {
	if err := l.checkAppend(); err != nil {
		return err
	}
	if start < 0 || start > end {
		l.rejected++
		return nil
	}
	l.push(Entry[V]{Interval{start, end, id}, value})
	return nil
}

// AddFromArrays appends starts[i], ends[i] for every i.  values may be nil,
// in which case every payload is the zero V.
func (l *List[V]) AddFromArrays(starts, ends []PosType, values []V) error {
	if len(starts) != len(ends) || (values != nil && len(values) != len(starts)) {
		return errors.E(errors.Invalid, fmt.Sprintf("interval.AddFromArrays: mismatched lengths %d, %d, %d", len(starts), len(ends), len(values)))
	}
	var zero V
	for i := range starts {
		v := zero
		if values != nil {
			v = values[i]
		}
		if err := l.Add(starts[i], ends[i], v); err != nil {
			return err
		}
	}
	return nil
}

func (l *List[V]) checkAppend() error {
	if l.constructed {
		return errors.E(errors.Precondition, "interval.List: append after Construct; call Deconstruct first")
	}
	if l.opts.MaxIntervals > 0 && len(l.entries) >= l.opts.MaxIntervals {
		return errors.E(errors.Unavailable, fmt.Sprintf("interval.List: capacity of %d intervals exhausted", l.opts.MaxIntervals))
	}
	return nil
}

// push appends e without validation.  Callers have already checked that the
// list is unconstructed.
func (l *List[V]) push(e Entry[V]) {
	l.entries = append(l.entries, e)
	if e.Start < l.first {
		l.first = e.Start
	}
	if e.End > l.last {
		l.last = e.End
	}
	if e.ID >= l.nextID {
		l.nextID = e.ID + 1
	}
	l.mutated()
}

// At returns the entry at position i of the backing array.  Positions are
// permuted by Construct.  ok is false if i is out of range.
func (l *List[V]) At(i int) (e Entry[V], ok bool) {
	if i < 0 || i >= len(l.entries) {
		return e, false
	}
	return l.entries[i], true
}

// Opts returns the options l was created with.
func (l *List[V]) Opts() Opts {
	return l.opts
}

// Get returns the entry with the given ID.  The id->position table is built
// on first use and dropped by the next mutation.  If several entries share
// an ID, the one at the lowest position wins.
func (l *List[V]) Get(id int) (Entry[V], bool) {
	if l.idIndex == nil {
		l.idIndex = make(map[int]int, len(l.entries))
		for pos := len(l.entries) - 1; pos >= 0; pos-- {
			l.idIndex[l.entries[pos].ID] = pos
		}
	}
	pos, ok := l.idIndex[id]
	if !ok {
		return Entry[V]{}, false
	}
	return l.entries[pos], true
}

// All iterates over (position, entry) in backing-array order.
func (l *List[V]) All() iter.Seq2[int, Entry[V]] {
	return func(yield func(int, Entry[V]) bool) {
		for i := range l.entries {
			if !yield(i, l.entries[i]) {
				return
			}
		}
	}
}

// Starts returns the starts in backing-array order.
func (l *List[V]) Starts() []PosType {
	out := make([]PosType, len(l.entries))
	for i := range l.entries {
		out[i] = l.entries[i].Start
	}
	return out
}

// Ends returns the ends in backing-array order.
func (l *List[V]) Ends() []PosType {
	out := make([]PosType, len(l.entries))
	for i := range l.entries {
		out[i] = l.entries[i].End
	}
	return out
}

// IDs returns the IDs in backing-array order.
func (l *List[V]) IDs() []int {
	out := make([]int, len(l.entries))
	for i := range l.entries {
		out[i] = l.entries[i].ID
	}
	return out
}

// ResetIDs renumbers every entry to its current position.
func (l *List[V]) ResetIDs() {
	l.ResetIDsShift(0)
}

// ResetIDsShift renumbers every entry to position+shift.  It does not
// disturb the constructed state.
func (l *List[V]) ResetIDsShift(shift int) {
	for i := range l.entries {
		l.entries[i].ID = i + shift
	}
	l.nextID = len(l.entries) + shift
	l.idIndex = nil
}

// Copy returns an unconstructed deep copy of l, preserving IDs.
func (l *List[V]) Copy() *List[V] {
	c := NewList[V](l.opts)
	c.entries = make([]Entry[V], 0, len(l.entries))
	for i := range l.entries {
		c.push(l.entries[i])
	}
	c.rejected = l.rejected
	return c
}

// Append adds every entry of other to l under fresh IDs.
func (l *List[V]) Append(other *List[V]) error {
	for i := range other.entries {
		e := other.entries[i]
		if err := l.Add(e.Start, e.End, e.Value); err != nil {
			return err
		}
	}
	return nil
}

// MaxLength returns the length of the longest interval, or 0.
func (l *List[V]) MaxLength() PosType {
	var m PosType
	for i := range l.entries {
		if n := l.entries[i].Len(); n > m {
			m = n
		}
	}
	return m
}

// LengthDistribution returns a histogram h where h[n] counts the intervals of
// length n.
func (l *List[V]) LengthDistribution() []int {
	h := make([]int, int(l.MaxLength())+1)
	for i := range l.entries {
		h[l.entries[i].Len()]++
	}
	return h
}
