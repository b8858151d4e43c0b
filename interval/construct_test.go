package interval

import (
	"math/rand"
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/require"
)

func TestConstructSingleComponent(t *testing.T) {
	l := randomList(rand.New(rand.NewSource(11)), 64, 1000, 500)
	l.Construct(20)
	assert.NoError(t, l.Validate())
	expect.EQ(t, l.NumComponents(), 1)

	// A large leaf size raises the single-component threshold with it.
	l = randomList(rand.New(rand.NewSource(11)), 150, 1000, 500)
	l.Construct(200)
	assert.NoError(t, l.Validate())
	expect.EQ(t, l.NumComponents(), 1)
}

func TestConstructDecomposes(t *testing.T) {
	// Short intervals with a sprinkling of long ones: the long ones cover their
	// neighbourhoods and get peeled into later components.
	l := NewList[struct{}](Opts{})
	for i := 0; i < 2000; i++ {
		s := PosType(i * 10)
		e := s + 5
		if i%7 == 0 {
			e = s + 100000
		}
		require.NoError(t, l.Add(s, e, struct{}{}))
	}
	l.Construct(10)
	assert.NoError(t, l.Validate())
	expect.True(t, l.NumComponents() > 1)
	expect.True(t, l.NumComponents() <= MaxComponents)
	for _, qs := range []PosType{0, 555, 7777, 19990, 50000} {
		expect.EQ(t, sortedIDs(l.HitIDs(qs, qs+30, Lengths{})), bruteForceIDs(l, qs, qs+30, Lengths{}))
	}
}

func TestConstructLeafSizes(t *testing.T) {
	rng := rand.New(rand.NewSource(12))
	for leafSize := -1; leafSize <= 200; leafSize += 13 {
		l := randomList(rng, 1000+rng.Intn(1000), 50000, 3000)
		l.Construct(leafSize)
		require.NoError(t, l.Validate(), "leaf size %d", leafSize)
		require.True(t, l.NumComponents() <= MaxComponents)
	}
}

func TestConstructIsRepeatable(t *testing.T) {
	l := randomList(rand.New(rand.NewSource(13)), 500, 5000, 1000)
	l.Construct(4)
	before := spans(l)
	l.Construct(30)
	assert.NoError(t, l.Validate())
	expect.EQ(t, spans(l), before)
}

func TestValidateUnconstructed(t *testing.T) {
	l := NewList[struct{}](Opts{})
	expect.True(t, errors.Is(errors.Precondition, l.Validate()))
}
