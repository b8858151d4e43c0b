package labeled

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/grailbio/aiarray/interval"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/hts/sam"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/require"
)

func newTestHeader(t *testing.T) *sam.Header {
	chr1, err := sam.NewReference("chr1", "", "", 1000, nil, nil)
	assert.NoError(t, err)
	chr2, err := sam.NewReference("chr2", "", "", 2000, nil, nil)
	assert.NoError(t, err)
	chr3, err := sam.NewReference("chr3", "", "", 3000, nil, nil)
	assert.NoError(t, err)
	header, err := sam.NewHeader(nil, []*sam.Reference{chr1, chr2, chr3})
	assert.NoError(t, err)
	return header
}

func TestMaskContains(t *testing.T) {
	a := arrayOf(t,
		span{"chr1", 10, 20}, span{"chr1", 15, 25}, span{"chr1", 25, 30},
		span{"chr1", 100, 110}, span{"chr2", 5, 6})
	m := NewMask(a, MaskOpts{SAMHeader: newTestHeader(t)})

	for _, tt := range []struct {
		label string
		pos   interval.PosType
		want  bool
	}{
		{"chr1", 9, false},
		{"chr1", 10, true},
		{"chr1", 29, true},
		{"chr1", 30, false},
		{"chr1", 105, true},
		{"chr1", 12, true},
		{"chr2", 5, true},
		{"chr2", 6, false},
		{"chr3", 5, false},
		{"chrX", 5, false},
		{"chr1", 109, true},
		{"chr1", interval.PosTypeMax, false},
	} {
		expect.EQ(t, m.ContainsByName(tt.label, tt.pos), tt.want, "%s:%d", tt.label, tt.pos)
	}

	// Sequential scans by ID, interleaved with lookups by name, agree with a
	// fresh mask queried at random.
	fresh := NewMask(a, MaskOpts{})
	for refID, name := range []string{"chr1", "chr2", "chr3"} {
		for pos := interval.PosType(0); pos < 120; pos++ {
			want := fresh.ContainsByName(name, pos)
			expect.EQ(t, m.ContainsByID(refID, pos), want, "%s:%d", name, pos)
			expect.EQ(t, m.ContainsByName(name, pos), want, "%s:%d", name, pos)
		}
	}
}

func TestMaskOutOfRange(t *testing.T) {
	a := arrayOf(t, span{"chr1", 10, 20})
	noHeader := NewMask(a, MaskOpts{})
	expect.False(t, noHeader.ContainsByID(0, 15))
	expect.False(t, noHeader.Intersects(0, 0, 0, 100))
	expect.True(t, noHeader.ContainsByName("chr1", 15))

	m := NewMask(a, MaskOpts{SAMHeader: newTestHeader(t)})
	expect.True(t, m.ContainsByID(0, 15))
	expect.False(t, m.ContainsByID(-1, 15))
	expect.False(t, m.ContainsByID(3, 15))
	expect.False(t, m.Intersects(-1, 0, 0, 100))
	expect.False(t, m.Intersects(0, 0, 3, 100))
	require.Panics(t, func() { m.Intersects(1, 0, 0, 100) })
}

func TestMaskInvert(t *testing.T) {
	a := arrayOf(t, span{"chr1", 10, 20})
	m := NewMask(a, MaskOpts{SAMHeader: newTestHeader(t), Invert: true})
	expect.True(t, m.ContainsByName("chr1", 0))
	expect.False(t, m.ContainsByName("chr1", 10))
	expect.True(t, m.ContainsByName("chr1", 20))
	expect.False(t, m.ContainsByName("chr1", interval.PosTypeMax))
	expect.True(t, m.ContainsByID(2, 500))
	expect.True(t, m.ContainsByName("chr3", 500))
	expect.False(t, m.ContainsByName("chrX", 500))
	expect.False(t, m.ContainsByID(0, 15))
}

func TestMaskIntersects(t *testing.T) {
	a := arrayOf(t, span{"chr1", 10, 20}, span{"chr3", 50, 60})
	m := NewMask(a, MaskOpts{SAMHeader: newTestHeader(t)})
	expect.True(t, m.Intersects(0, 0, 0, 11))
	expect.False(t, m.Intersects(0, 0, 0, 10))
	expect.True(t, m.Intersects(0, 19, 0, 25))
	expect.False(t, m.Intersects(0, 20, 0, 25))
	expect.True(t, m.Intersects(0, 30, 2, 51))
	expect.False(t, m.Intersects(0, 30, 2, 50))
	expect.True(t, m.Intersects(0, 0, 1, 0))
	require.Panics(t, func() { m.Intersects(0, 10, 0, 10) })

	expect.True(t, m.Overlaps("chr3", 59, 70))
	expect.False(t, m.Overlaps("chr3", 60, 70))
	expect.False(t, m.Overlaps("chr2", 0, 1000))
}

func TestReadGenome(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	ctx := vcontext.Background()
	path := filepath.Join(tmpdir, "hg.genome")
	assert.NoError(t, os.WriteFile(path, []byte("# name\tlength\nchr2\t2000\nchr1\t1000\n"), 0644))
	header, err := ReadGenome(ctx, path)
	assert.NoError(t, err)
	refs := header.Refs()
	assert.EQ(t, len(refs), 2)
	expect.EQ(t, refs[0].Name(), "chr2")
	expect.EQ(t, refs[1].ID(), 1)
	expect.EQ(t, refs[1].Len(), 1000)

	bad := filepath.Join(tmpdir, "bad.genome")
	assert.NoError(t, os.WriteFile(bad, []byte("chr1\t0\n"), 0644))
	_, err = ReadGenome(ctx, bad)
	expect.True(t, errors.Is(errors.Invalid, err))
}
