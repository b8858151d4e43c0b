package interval

import (
	"math"
	"sort"
)

// PosType is the coordinate type.  int32 is wide enough for anything BAM can
// address.
type PosType int32

// PosTypeMax is the maximum value that can be represented by a PosType.
const PosTypeMax = math.MaxInt32

// Endpoints is a disjoint interval-union flattened into its sorted boundary
// positions: interval #k occupies [e[2k], e[2k+1]).  For example, the
// intervals [5, 15), [7, 17), [20, 25) become {5, 17, 20, 25}.
//
// A position pos is covered iff an odd number of endpoints are <= pos;
// EndpointIndex caches that count for sequential access.
type Endpoints []PosType

// NewEndpoints flattens the union of l's intervals.  Touching intervals are
// coalesced, and empty intervals are dropped.
func NewEndpoints[V any](l *List[V]) Endpoints {
	merged := Merge(l, 0)
	e := make(Endpoints, 0, 2*merged.Len())
	for _, m := range merged.All() {
		iv := m.Interval
		if iv.Start == iv.End {
			continue
		}
		if n := len(e); n > 0 && e[n-1] >= iv.Start {
			if iv.End > e[n-1] {
				e[n-1] = iv.End
			}
			continue
		}
		e = append(e, iv.Start, iv.End)
	}
	return e
}

// Contains returns whether pos is inside one of the intervals.
func (e Endpoints) Contains(pos PosType) bool {
	return NewEndpointIndex(pos, e).Contained()
}

// Len returns the number of disjoint intervals.
func (e Endpoints) Len() int {
	return len(e) / 2
}

// CoveredLength returns the number of positions covered.
func (e Endpoints) CoveredLength() int {
	total := 0
	for i := 0; i+1 < len(e); i += 2 {
		total += int(e[i+1] - e[i])
	}
	return total
}

// Overlaps returns whether [start, end) intersects one of the intervals.
func (e Endpoints) Overlaps(start, end PosType) bool {
	if end <= start {
		return false
	}
	idx := NewEndpointIndex(start, e)
	return idx.Contained() || (!idx.Finished(e) && e[idx] < end)
}

// EndpointIndex counts the endpoints at or below a position: for pos, it is
// the number of e[i] <= pos.  The position is covered iff the count is odd.
type EndpointIndex uint32

// NewEndpointIndex returns the index of pos in e.  Positions at or past
// PosTypeMax are never covered.
func NewEndpointIndex(pos PosType, e Endpoints) EndpointIndex {
	return EndpointIndex(sort.Search(len(e), func(i int) bool { return e[i] > pos }))
}

// Contained returns whether the position is inside an interval.
func (ei EndpointIndex) Contained() bool {
	return ei&1 != 0
}

// Finished returns whether the position is past all the intervals.
func (ei EndpointIndex) Finished(e Endpoints) bool {
	return int(ei) >= len(e)
}

// Update moves the index forward to pos, which must not be smaller than the
// position the index was last computed for.  The search gallops from the
// current index, so a scan over increasing positions costs amortized O(1)
// per step.
func (ei *EndpointIndex) Update(pos PosType, e Endpoints) {
	lo, step := int(*ei), 1
	hi := lo
	for hi < len(e) && e[hi] <= pos {
		lo = hi + 1
		hi += step
		step *= 2
	}
	if hi > len(e) {
		hi = len(e)
	}
	*ei = EndpointIndex(lo + sort.Search(hi-lo, func(i int) bool { return e[lo+i] > pos }))
}

// UnionScanner walks the covered stretches of an Endpoints in order:
//   us := NewUnionScanner(e)
//   for start, end, ok := us.Next(limit); ok; start, end, ok = us.Next(limit) {
//     // [start, end) is covered and end <= limit.
//   }
// A later Next with a larger limit resumes where the previous one stopped.
type UnionScanner struct {
	e Endpoints
	// next is the first position not yet returned; k is the index of the end
	// of the stretch holding it.
	next PosType
	k    int
}

// NewUnionScanner returns a UnionScanner positioned at the first interval.
func NewUnionScanner(e Endpoints) *UnionScanner {
	us := &UnionScanner{e: e, next: PosTypeMax, k: 1}
	if len(e) >= 2 {
		us.next = e[0]
	}
	return us
}

// Pos returns the next position to be visited, or PosTypeMax if there are
// none left.
func (us *UnionScanner) Pos() PosType {
	return us.next
}

// Next returns the next covered stretch below limit.  ok is false once every
// covered position below limit has been returned.
func (us *UnionScanner) Next(limit PosType) (start, end PosType, ok bool) {
	if us.next >= limit {
		return 0, 0, false
	}
	start, end = us.next, us.e[us.k]
	if end > limit {
		us.next = limit
		return start, limit, true
	}
	us.k += 2
	if us.k < len(us.e) {
		us.next = us.e[us.k-1]
	} else {
		us.next = PosTypeMax
	}
	return start, end, true
}
