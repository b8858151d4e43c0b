package labeled

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/grailbio/aiarray/interval"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
	gunsafe "github.com/grailbio/base/unsafe"
	"github.com/klauspost/compress/gzip"
)

// BEDOpts defines behavior of ReadBED and ReadBEDFromPath.
type BEDOpts struct {
	// OneBasedInput interprets the BED interval boundaries as one-based [start,
	// end] instead of the usual zero-based [start, end).
	OneBasedInput bool
	// Interval configures the per-label lists of the returned array.
	Interval interval.Opts
}

// getTokens identifies up to the first len(tokens) tokens from curLine,
// returning the number of tokens saved.  Any (group of) characters <= ' ' is
// treated as a delimiter.
func getTokens(tokens [][]byte, curLine []byte) int {
	posEnd := 0
	lineLen := len(curLine)
	for tokenIdx := range tokens {
		pos := posEnd
		for ; pos != lineLen; pos++ {
			if curLine[pos] > ' ' {
				break
			}
		}
		if pos == lineLen {
			return tokenIdx
		}
		posEnd = pos
		for ; posEnd != lineLen; posEnd++ {
			if curLine[posEnd] <= ' ' {
				break
			}
		}
		tokens[tokenIdx] = curLine[pos:posEnd]
	}
	return len(tokens)
}

var (
	trackPrefix   = []byte("track")
	browserPrefix = []byte("browser")
)

func isHeaderLine(line []byte) bool {
	return bytes.HasPrefix(line, []byte{'#'}) || bytes.HasPrefix(line, trackPrefix) || bytes.HasPrefix(line, browserPrefix)
}

// ReadBED loads a BED file.  Only the first four columns are looked at: the
// label (chromosome), start and end, plus the optional name, which becomes the
// interval's value.  The input need not be sorted.  IDs follow line order.
func ReadBED(r io.Reader, opts BEDOpts) (*Array[string], error) {
	a := New[string](opts.Interval)
	var startSubtract int
	if opts.OneBasedInput {
		startSubtract++
	}
	// Scanner does not grow its buffer on its own; long name columns are
	// possible.
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	var tokens [4][]byte
	lineIdx := 0
	for scanner.Scan() {
		lineIdx++
		curLine := scanner.Bytes()
		nToken := getTokens(tokens[:], curLine)
		if nToken == 0 || isHeaderLine(tokens[0]) {
			continue
		}
		if nToken < 3 {
			return nil, errors.E(errors.Invalid, fmt.Sprintf("labeled.ReadBED: line %d has fewer tokens than expected", lineIdx))
		}
		parsedStart, err := strconv.Atoi(gunsafe.BytesToString(tokens[1]))
		if err != nil {
			return nil, errors.E(errors.Invalid, fmt.Sprintf("labeled.ReadBED: line %d", lineIdx), err)
		}
		parsedStart -= startSubtract
		if parsedStart < 0 {
			return nil, errors.E(errors.Invalid, fmt.Sprintf("labeled.ReadBED: negative start coordinate %s on line %d", tokens[1], lineIdx))
		}
		parsedEnd, err := strconv.Atoi(gunsafe.BytesToString(tokens[2]))
		if err != nil {
			return nil, errors.E(errors.Invalid, fmt.Sprintf("labeled.ReadBED: line %d", lineIdx), err)
		}
		if parsedEnd < parsedStart || parsedEnd >= interval.PosTypeMax {
			return nil, errors.E(errors.Invalid, fmt.Sprintf("labeled.ReadBED: invalid coordinate pair on line %d", lineIdx))
		}
		var name string
		if nToken == 4 {
			name = string(tokens[3])
		}
		// The label must be copied: it refers to bytes on curLine that the next
		// Scan overwrites.  Known labels are looked up without a copy.
		var label string
		if i, ok := a.byName[gunsafe.BytesToString(tokens[0])]; ok {
			label = a.names[i]
		} else {
			label = string(tokens[0])
		}
		if err := a.Add(interval.PosType(parsedStart), interval.PosType(parsedEnd), label, name); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	log.Printf("BED loaded, %d interval(s) on %d label(s).", a.Len(), len(a.names))
	return a, nil
}

// ReadBEDFromPath is a wrapper for ReadBED that takes a path instead of an
// io.Reader.  Gzipped input is recognized by its extension.
func ReadBEDFromPath(ctx context.Context, path string, opts BEDOpts) (a *Array[string], err error) {
	var infile file.File
	if infile, err = file.Open(ctx, path); err != nil {
		return
	}
	defer file.CloseAndReport(ctx, infile, &err)
	reader := io.Reader(infile.Reader(ctx))
	switch fileio.DetermineType(path) {
	case fileio.Gzip:
		var gz *gzip.Reader
		if gz, err = gzip.NewReader(reader); err != nil {
			return
		}
		defer func() {
			if cerr := gz.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		reader = gz
	}
	return ReadBED(reader, opts)
}

// WriteBED writes the intervals in SortedEntries order as BED.  The fourth
// column holds the value when V is string, the ID otherwise.
func (a *Array[V]) WriteBED(w io.Writer) error {
	out := tsv.NewWriter(w)
	for e := range a.SortedEntries() {
		out.WriteString(e.Label)
		out.WriteUint32(uint32(e.Start))
		out.WriteUint32(uint32(e.End))
		if s, ok := any(e.Value).(string); ok {
			if s != "" {
				out.WriteString(s)
			}
		} else {
			out.WriteUint32(uint32(e.ID))
		}
		if err := out.EndLine(); err != nil {
			return err
		}
	}
	return out.Flush()
}

// WriteBEDToPath is a wrapper for WriteBED that creates path.
func (a *Array[V]) WriteBEDToPath(ctx context.Context, path string) (err error) {
	var outfile file.File
	if outfile, err = file.Create(ctx, path); err != nil {
		return
	}
	defer file.CloseAndReport(ctx, outfile, &err)
	return a.WriteBED(outfile.Writer(ctx))
}
