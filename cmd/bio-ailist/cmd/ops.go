package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/grailbio/aiarray/interval"
	"github.com/grailbio/aiarray/labeled"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/hts/sam"
	"github.com/pkg/errors"
)

type inputOpts struct {
	oneBased bool
	leafSize int
	lens     interval.Lengths
}

// load reads a BED file and drops intervals outside opts.lens.
func load(ctx context.Context, path string, opts inputOpts) (*labeled.Array[string], error) {
	a, err := labeled.ReadBEDFromPath(ctx, path, labeled.BEDOpts{
		OneBasedInput: opts.oneBased,
		Interval:      interval.Opts{LeafSize: opts.leafSize},
	})
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	if opts.lens != (interval.Lengths{}) {
		a = a.LengthFilter(opts.lens)
	}
	a.ConstructLeafSize(opts.leafSize)
	return a, nil
}

func query(ctx context.Context, w io.Writer, path string, regions []string, count bool, opts inputOpts) error {
	a, err := load(ctx, path, opts)
	if err != nil {
		return err
	}
	out := tsv.NewWriter(w)
	for _, r := range regions {
		region, err := interval.ParseRegionString(r)
		if err != nil {
			return err
		}
		if count {
			out.WriteString(r)
			out.WriteInt64(int64(a.NHits(region.Label, region.Start, region.End)))
			if err := out.EndLine(); err != nil {
				return err
			}
			continue
		}
		if err := out.Flush(); err != nil {
			return err
		}
		if err := a.Query(region.Label, region.Start, region.End).WriteBED(w); err != nil {
			return err
		}
	}
	return out.Flush()
}

func merge(ctx context.Context, w io.Writer, path string, gap interval.PosType, opts inputOpts) error {
	a, err := load(ctx, path, opts)
	if err != nil {
		return err
	}
	m := a.Merge(gap)
	log.Debug.Printf("merge: %d interval(s) -> %d", a.Len(), m.Len())
	return m.WriteBED(w)
}

type setOp int

const (
	subtractOp setOp = iota
	intersectOp
	unionOp
)

func runSetOp(ctx context.Context, w io.Writer, op setOp, path0, path1 string, opts inputOpts) error {
	a, err := load(ctx, path0, opts)
	if err != nil {
		return err
	}
	b, err := load(ctx, path1, opts)
	if err != nil {
		return err
	}
	var result *labeled.Array[string]
	switch op {
	case subtractOp:
		result = a.Subtract(b)
	case intersectOp:
		result = a.Common(b)
	case unionOp:
		result = a.Union(b)
	default:
		log.Panicf("unknown set operation %d", op)
	}
	return result.WriteBED(w)
}

type coverageOpts struct {
	label   string
	binSize interval.PosType
	nhits   bool
	wps     interval.PosType
	// maskPath restricts per-base output to the positions covered by another
	// BED file, or to those outside it with invertMask.
	maskPath   string
	invertMask bool
}

// coverage prints one "label start end value" row per covered base, or per
// bin when binSize is set, or per position of the WPS track.
func coverage(ctx context.Context, w io.Writer, path string, opts coverageOpts, in inputOpts) error {
	if opts.binSize < 0 || opts.wps < 0 {
		return fmt.Errorf("coverage: -bin and -wps must be nonnegative")
	}
	if opts.binSize > 0 && opts.wps > 0 {
		return fmt.Errorf("coverage: -bin and -wps are mutually exclusive")
	}
	if opts.maskPath != "" && (opts.binSize > 0 || opts.wps > 0) {
		return fmt.Errorf("coverage: -mask only applies to per-base output")
	}
	a, err := load(ctx, path, in)
	if err != nil {
		return err
	}
	var mask *labeled.Mask
	if opts.maskPath != "" {
		m, err := load(ctx, opts.maskPath, inputOpts{oneBased: in.oneBased})
		if err != nil {
			return err
		}
		mask = labeled.NewMask(m, labeled.MaskOpts{Invert: opts.invertMask})
	}
	labels := a.Labels()
	if opts.label != "" {
		labels = []string{opts.label}
	}
	out := tsv.NewWriter(w)
	row := func(label string, start, end interval.PosType, v int) error {
		out.WriteString(label)
		out.WriteUint32(uint32(start))
		out.WriteUint32(uint32(end))
		out.WriteInt64(int64(v))
		return out.EndLine()
	}
	for _, label := range labels {
		switch {
		case opts.binSize > 0:
			var (
				firstBin interval.PosType
				values   []int
			)
			if opts.nhits {
				firstBin, values, err = a.BinNHits(label, opts.binSize, interval.Lengths{})
			} else {
				firstBin, values, err = a.BinCoverage(label, opts.binSize, interval.Lengths{})
			}
			if err != nil {
				return err
			}
			for i, v := range values {
				start := (firstBin + interval.PosType(i)) * opts.binSize
				if err := row(label, start, start+opts.binSize, v); err != nil {
					return err
				}
			}
		case opts.wps > 0:
			origin, values := a.WPS(label, opts.wps, interval.Lengths{})
			for i, v := range values {
				start := origin + interval.PosType(i)
				if err := row(label, start, start+1, v); err != nil {
					return err
				}
			}
		default:
			l, ok := a.Label(label)
			if !ok {
				continue
			}
			origin, depth := l.Coverage(interval.Lengths{})
			us := interval.NewUnionScanner(interval.NewEndpoints(l))
			for start, end, ok := us.Next(interval.PosTypeMax); ok; start, end, ok = us.Next(interval.PosTypeMax) {
				for pos := start; pos < end; pos++ {
					if mask != nil && !mask.ContainsByName(label, pos) {
						continue
					}
					if err := row(label, pos, pos+1, depth[pos-origin]); err != nil {
						return err
					}
				}
			}
		}
	}
	return out.Flush()
}

// filter prints the intervals of path that overlap the union of maskPath's
// intervals, or with invert, that overlap its complement.  With a genome
// file, intervals on labels absent from the genome are dropped.
func filter(ctx context.Context, w io.Writer, maskPath, path, genomePath string, invert bool, opts inputOpts) error {
	maskArray, err := load(ctx, maskPath, inputOpts{oneBased: opts.oneBased})
	if err != nil {
		return err
	}
	a, err := load(ctx, path, opts)
	if err != nil {
		return err
	}
	var header *sam.Header
	if genomePath != "" {
		if header, err = labeled.ReadGenome(ctx, genomePath); err != nil {
			return errors.Wrapf(err, "load %s", genomePath)
		}
	}
	mask := labeled.NewMask(maskArray, labeled.MaskOpts{SAMHeader: header, Invert: invert})
	refIDs := map[string]int{}
	if header != nil {
		for _, ref := range header.Refs() {
			refIDs[ref.Name()] = ref.ID()
		}
	}
	var (
		ids     []int
		dropped int
	)
	for e := range a.SortedEntries() {
		var hit bool
		switch {
		case header != nil:
			refID, ok := refIDs[e.Label]
			if !ok {
				dropped++
				continue
			}
			hit = e.Len() > 0 && mask.Intersects(refID, e.Start, refID, e.End)
		case invert:
			// The complement of an unmasked label is the whole label.
			if _, ok := maskArray.Label(e.Label); !ok {
				hit = e.Len() > 0
				break
			}
			hit = mask.Overlaps(e.Label, e.Start, e.End)
		default:
			hit = mask.Overlaps(e.Label, e.Start, e.End)
		}
		if hit {
			ids = append(ids, e.ID)
		}
	}
	if dropped > 0 {
		log.Printf("filter: dropped %d interval(s) on labels missing from %s", dropped, genomePath)
	}
	kept, err := a.SliceIDs(ids)
	if err != nil {
		return err
	}
	log.Debug.Printf("filter: kept %d of %d interval(s)", kept.Len(), a.Len())
	return kept.WriteBED(w)
}

func checksum(ctx context.Context, w io.Writer, paths []string, opts inputOpts) error {
	out := tsv.NewWriter(w)
	for _, path := range paths {
		a, err := load(ctx, path, opts)
		if err != nil {
			return err
		}
		out.WriteString(fmt.Sprintf("%016x", a.Checksum()))
		out.WriteString(path)
		if err := out.EndLine(); err != nil {
			return err
		}
	}
	return out.Flush()
}

func downsample(ctx context.Context, w io.Writer, path string, seed uint64, p float64, opts inputOpts) error {
	if p < 0 || p > 1 {
		return fmt.Errorf("downsample: fraction %v not in [0, 1]", p)
	}
	a, err := load(ctx, path, opts)
	if err != nil {
		return err
	}
	return a.DownsampleBySeed(seed, p).WriteBED(w)
}
