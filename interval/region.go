package interval

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"
)

// Region is a single labeled interval with 0-based half-open coordinates.
type Region struct {
	Label string
	Start PosType
	End   PosType
}

func invalidRegion(format string, args ...interface{}) error {
	return errors.E(errors.Invalid, "interval.ParseRegionString: "+fmt.Sprintf(format, args...))
}

// ParseRegionString parses a region string of one of the forms
//   [label]:[1-based first pos]-[last pos]
//   [label]:[1-based pos]
//   [label]
// returning the label and 0-based interval boundaries.  The interval
// [0, PosTypeMax-1) is returned if there is no positional restriction.
func ParseRegionString(region string) (result Region, err error) {
	if len(region) == 0 {
		err = invalidRegion("empty region string")
		return
	}
	colonPos := strings.LastIndexByte(region, ':')
	if colonPos == -1 {
		result.Label = region
		result.End = PosTypeMax - 1
		return
	}
	if colonPos == 0 {
		err = invalidRegion("empty label in %s", region)
		return
	}
	result.Label = region[:colonPos]
	rangeStr := strings.Replace(region[colonPos+1:], ",", "", -1)
	dashPos := strings.IndexByte(rangeStr, '-')
	if dashPos == -1 {
		var pos1 int64
		if pos1, err = strconv.ParseInt(rangeStr, 10, 32); err != nil {
			err = invalidRegion("bad position in %s", region)
			return
		}
		if pos1 <= 0 {
			err = invalidRegion("position %s out of range", rangeStr)
			return
		}
		result.Start = PosType(pos1 - 1)
		result.End = PosType(pos1)
		return
	}
	start1Str, endStr := rangeStr[:dashPos], rangeStr[dashPos+1:]
	var start1, end0 int
	if start1, err = strconv.Atoi(start1Str); err != nil {
		err = invalidRegion("bad start in %s", region)
		return
	}
	if start1 <= 0 {
		err = invalidRegion("position %s out of range", start1Str)
		return
	}
	if end0, err = strconv.Atoi(endStr); err != nil {
		err = invalidRegion("bad end in %s", region)
		return
	}
	// end0 == PosTypeMax is refused so that Region.End+1 never overflows.
	if end0 < start1 || end0 >= PosTypeMax {
		err = invalidRegion("invalid range %s", rangeStr)
		return
	}
	result.Start = PosType(start1 - 1)
	result.End = PosType(end0)
	return
}
