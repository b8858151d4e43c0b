package interval

import (
	"math"
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/testutil/expect"
)

func TestParseRegionString(t *testing.T) {
	tests := []struct {
		region string
		label  string
		start  PosType
		end    PosType
	}{
		{
			"chr1:1-1000",
			"chr1",
			0,
			1000,
		},
		{
			"chr1:1,001-2,000",
			"chr1",
			1000,
			2000,
		},
		{
			"chr1:1000",
			"chr1",
			999,
			1000,
		},
		{
			"chr1",
			"chr1",
			0,
			math.MaxInt32 - 1,
		},
		{
			"HLA-A*01:01:01:01:5-6",
			"HLA-A*01:01:01:01",
			4,
			6,
		},
	}

	for _, tt := range tests {
		result, err := ParseRegionString(tt.region)
		expect.NoError(t, err)
		expect.EQ(t, result.Label, tt.label)
		expect.EQ(t, result.Start, tt.start)
		expect.EQ(t, result.End, tt.end)
	}
}

func TestParseRegionStringErrors(t *testing.T) {
	for _, region := range []string{"", ":1-5", "chr1:0", "chr1:x", "chr1:10-5", "chr1:0-5", "chr1:5-y"} {
		_, err := ParseRegionString(region)
		expect.True(t, errors.Is(errors.Invalid, err), "region %q", region)
	}
}
