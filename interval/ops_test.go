package interval

import (
	"math/rand"
	"testing"

	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/require"
)

func listOf(starts, ends []PosType) *List[struct{}] {
	l := NewList[struct{}](Opts{})
	if err := l.AddFromArrays(starts, ends, nil); err != nil {
		panic(err)
	}
	return l
}

// coveredSet returns the set of positions covered by l.
func coveredSet[V any](l *List[V]) map[PosType]bool {
	s := map[PosType]bool{}
	for _, e := range l.All() {
		for p := e.Start; p < e.End; p++ {
			s[p] = true
		}
	}
	return s
}

func TestMerge(t *testing.T) {
	l := listOf([]PosType{10, 1, 3, 20, 25}, []PosType{15, 4, 8, 22, 30})
	m := Merge(l, 0)
	expect.EQ(t, spans(m), [][2]PosType{{1, 8}, {10, 15}, {20, 22}, {25, 30}})
	expect.EQ(t, m.IDs(), []int{0, 1, 2, 3})
	expect.False(t, m.IsConstructed())

	// Touching intervals stay apart at gap 0 and join once gap > 0.
	expect.EQ(t, spans(Merge(listOf([]PosType{0, 5}, []PosType{5, 9}), 0)), [][2]PosType{{0, 5}, {5, 9}})
	expect.EQ(t, spans(Merge(listOf([]PosType{0, 5}, []PosType{5, 9}), 1)), [][2]PosType{{0, 9}})
	expect.EQ(t, spans(Merge(l, 4)), [][2]PosType{{1, 15}, {20, 30}})
}

func TestMergeValue(t *testing.T) {
	l := NewList[string](Opts{})
	assert.NoError(t, l.AddFromArrays([]PosType{5, 0, 20}, []PosType{12, 8, 22}, []string{"b", "a", "c"}))
	m := Merge(l, 0)
	e, ok := m.At(0)
	assert.True(t, ok)
	expect.EQ(t, e.Value, "a")
	expect.EQ(t, e.Interval, Interval{0, 12, 0})
	e, ok = m.At(1)
	assert.True(t, ok)
	expect.EQ(t, e.Value, "c")
}

func TestMergeProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	for iter := 0; iter < 20; iter++ {
		l := randomList(rng, 500, 5000, 60).LengthFilter(Lengths{Min: 1})
		m := Merge(l, 0)
		prevEnd := PosType(-1)
		for _, e := range m.All() {
			require.True(t, e.Start >= prevEnd, "[%d,%d) overlaps previous end %d", e.Start, e.End, prevEnd)
			prevEnd = e.End
		}
		require.Equal(t, coveredSet(l), coveredSet(m))
		require.Equal(t, spans(m), spans(Merge(m, 0)))
	}
}

func TestSubtract(t *testing.T) {
	q := NewList[string](Opts{})
	assert.NoError(t, q.AddFromArrays(
		[]PosType{0, 100, 200},
		[]PosType{50, 150, 250},
		[]string{"a", "b", "c"}))
	ref := listOf([]PosType{10, 15, 30, 100, 260}, []PosType{20, 25, 35, 150, 270})
	d := Subtract(q, ref)
	expect.EQ(t, spans(d), [][2]PosType{{0, 10}, {25, 30}, {35, 50}, {200, 250}})
	for _, e := range d.All() {
		if e.Start < 100 {
			expect.EQ(t, e.ID, 0)
			expect.EQ(t, e.Value, "a")
		} else {
			expect.EQ(t, e.ID, 2)
			expect.EQ(t, e.Value, "c")
		}
	}
	expect.EQ(t, Subtract(NewList[string](Opts{}), ref).Len(), 0)
}

func TestCommon(t *testing.T) {
	a := listOf([]PosType{0, 100, 200}, []PosType{50, 150, 250})
	b := listOf([]PosType{10, 15, 30, 140, 260}, []PosType{20, 25, 35, 160, 270})
	c := Common(a, b)
	expect.EQ(t, spans(c), [][2]PosType{{10, 25}, {30, 35}, {140, 150}})
	expect.EQ(t, Common(NewList[struct{}](Opts{}), b).Len(), 0)
}

func TestSetOpProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	for iter := 0; iter < 10; iter++ {
		a := randomList(rng, 300, 5000, 80).LengthFilter(Lengths{Min: 1})
		b := randomList(rng, 300, 5000, 80).LengthFilter(Lengths{Min: 1})

		require.Equal(t, 0, Subtract(a, a).Len())
		require.Equal(t, spans(Merge(a, 0)), spans(Merge(Common(a, a), 0)))

		ab, ba := Union(a, b), Union(b, a)
		require.Equal(t, a.Len()+b.Len(), ab.Len())
		require.Equal(t, spans(Merge(ab, 0)), spans(Merge(ba, 0)))

		// Subtract and Common split every position of a between them.
		ca, cb := coveredSet(a), coveredSet(b)
		sub, com := coveredSet(Subtract(a, b)), coveredSet(Common(a, b))
		for p := range ca {
			require.True(t, sub[p] != com[p], "position %d", p)
			require.Equal(t, cb[p], com[p], "position %d", p)
		}
		for p := range sub {
			require.True(t, ca[p])
		}
	}
}

func TestUnion(t *testing.T) {
	a := listOf([]PosType{0, 5}, []PosType{3, 8})
	b := listOf([]PosType{2}, []PosType{6})
	u := Union(a, b)
	expect.EQ(t, u.IDs(), []int{0, 1, 2})
	expect.False(t, u.IsConstructed())
	expect.EQ(t, spans(Merge(u, 0)), [][2]PosType{{0, 8}})
}
