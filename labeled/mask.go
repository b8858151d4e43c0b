package labeled

import (
	"context"
	"io"

	"github.com/grailbio/aiarray/interval"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/hts/sam"
)

// MaskOpts defines behavior of NewMask.
type MaskOpts struct {
	// SAMHeader enables lookup by reference ID.
	SAMHeader *sam.Header
	// Invert causes the complement of the interval-union to be used.  The
	// complement runs from -1 to PosTypeMax on every label.  If SAMHeader is
	// provided, references in the header but absent from the array are fully
	// covered, by name as well as by ID.
	Invert bool
}

// Mask answers containment and overlap queries against the union of an
// Array's intervals.  It remembers the last label and position looked up, so
// that a scan of nondecreasing positions along one label costs amortized O(1)
// per query.
//
// A Mask is not safe for concurrent use.
type Mask struct {
	byName map[string]interval.Endpoints
	// byID is indexed by sam.Header reference ID; nil without a header.
	byID []interval.Endpoints

	// Lookup cursor.  curName is "" and curID is -1 when no label is cached.
	curName string
	curID   int
	curPos  interval.PosType
	curIdx  interval.EndpointIndex
}

func invert(e interval.Endpoints) interval.Endpoints {
	out := make(interval.Endpoints, 0, len(e)+2)
	out = append(out, -1)
	out = append(out, e...)
	return append(out, interval.PosTypeMax)
}

// NewMask builds a Mask from the merged intervals of a.
func NewMask[V any](a *Array[V], opts MaskOpts) *Mask {
	m := &Mask{
		byName: make(map[string]interval.Endpoints, len(a.names)),
		curID:  -1,
	}
	covered := 0
	for i, l := range a.lists {
		e := interval.NewEndpoints(l)
		covered += e.CoveredLength()
		if opts.Invert {
			e = invert(e)
		}
		m.byName[a.names[i]] = e
	}
	if opts.SAMHeader != nil {
		refs := opts.SAMHeader.Refs()
		m.byID = make([]interval.Endpoints, len(refs))
		for _, ref := range refs {
			e, ok := m.byName[ref.Name()]
			if !ok && opts.Invert {
				e = interval.Endpoints{-1, interval.PosTypeMax}
				m.byName[ref.Name()] = e
			}
			if id := ref.ID(); id >= 0 && id < len(m.byID) {
				m.byID[id] = e
			}
		}
	}
	log.Debug.Printf("labeled.NewMask: %d base(s) covered on %d label(s)", covered, len(a.names))
	return m
}

// seek returns whether pos is covered by e, reusing the cursor when e is the
// cached label and pos has not moved backwards.
func (m *Mask) seek(e interval.Endpoints, pos interval.PosType, cached bool) bool {
	if cached && pos >= m.curPos {
		m.curIdx.Update(pos, e)
	} else {
		m.curIdx = interval.NewEndpointIndex(pos, e)
	}
	m.curPos = pos
	return m.curIdx.Contained()
}

// ContainsByName returns whether the 0-based position pos of label is
// covered.  An unknown label covers nothing.
func (m *Mask) ContainsByName(label string, pos interval.PosType) bool {
	cached := m.curID < 0 && m.curName == label && m.curName != ""
	m.curName, m.curID = label, -1
	return m.seek(m.byName[label], pos, cached)
}

// ContainsByID returns whether the 0-based position pos of the reference
// with the given sam.Header ID is covered.  It returns false for an ID the
// header does not define, or when the Mask was built without a header.
func (m *Mask) ContainsByID(refID int, pos interval.PosType) bool {
	if refID < 0 || refID >= len(m.byID) {
		return false
	}
	cached := m.curID == refID
	m.curName, m.curID = "", refID
	return m.seek(m.byID[refID], pos, cached)
}

// Overlaps returns whether [start, end) on label intersects the mask.
func (m *Mask) Overlaps(label string, start, end interval.PosType) bool {
	return m.byName[label].Overlaps(start, end)
}

// Intersects returns whether the region running from startPos on reference
// startRefID up to limitPos on limitRefID, possibly spanning the references
// in between, intersects the mask.  References are sam.Header IDs; the result
// is false if either is undefined.  It panics if the region ends before it
// starts.
func (m *Mask) Intersects(startRefID int, startPos interval.PosType, limitRefID int, limitPos interval.PosType) bool {
	if startRefID > limitRefID {
		log.Panicf("labeled.Mask.Intersects: startRefID %d > limitRefID %d", startRefID, limitRefID)
	}
	if startRefID < 0 || limitRefID >= len(m.byID) {
		return false
	}
	if startRefID == limitRefID {
		if limitPos <= startPos {
			log.Panicf("labeled.Mask.Intersects: limitPos %d <= startPos %d", limitPos, startPos)
		}
		return m.byID[startRefID].Overlaps(startPos, limitPos)
	}
	if m.byID[startRefID].Overlaps(startPos, interval.PosTypeMax) {
		return true
	}
	for refID := startRefID + 1; refID < limitRefID; refID++ {
		if len(m.byID[refID]) > 0 {
			return true
		}
	}
	return m.byID[limitRefID].Overlaps(-1, limitPos)
}

type genomeRow struct {
	Name   string
	Length int64
}

// ReadGenome reads a two-column "name length" table, such as a bedtools
// genome file, into a sam.Header whose reference IDs follow line order.
func ReadGenome(ctx context.Context, path string) (header *sam.Header, err error) {
	var in file.File
	if in, err = file.Open(ctx, path); err != nil {
		return
	}
	defer file.CloseAndReport(ctx, in, &err)
	r := tsv.NewReader(in.Reader(ctx))
	r.Comment = '#'
	var refs []*sam.Reference
	for {
		var row genomeRow
		if err = r.Read(&row); err == io.EOF {
			break
		} else if err != nil {
			return nil, errors.E(errors.Invalid, "labeled.ReadGenome: "+path, err)
		}
		if row.Length <= 0 || row.Length > interval.PosTypeMax {
			return nil, errors.E(errors.Invalid, "labeled.ReadGenome: bad length for "+row.Name+" in "+path)
		}
		ref, rerr := sam.NewReference(row.Name, "", "", int(row.Length), nil, nil)
		if rerr != nil {
			return nil, errors.E(errors.Invalid, "labeled.ReadGenome: "+path, rerr)
		}
		refs = append(refs, ref)
	}
	return sam.NewHeader(nil, refs)
}
