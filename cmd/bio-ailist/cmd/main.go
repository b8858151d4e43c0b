package cmd

import (
	"fmt"
	"strings"

	"github.com/grailbio/aiarray/interval"
	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"v.io/x/lib/cmdline"
)

// commonFlags are shared by every subcommand that reads BED input.
type commonFlags struct {
	oneBased *bool
	leafSize *int
	minLen   *int
	maxLen   *int
}

func addCommonFlags(cmd *cmdline.Command) commonFlags {
	return commonFlags{
		oneBased: cmd.Flags.Bool("one-based", false, "Interpret BED boundaries as one-based [start, end]"),
		leafSize: cmd.Flags.Int("leaf-size", interval.DefaultLeafSize, "Decomposition window used when constructing the index"),
		minLen:   cmd.Flags.Int("min-len", 0, "Ignore intervals shorter than this"),
		maxLen:   cmd.Flags.Int("max-len", 0, "Ignore intervals of this length or longer; 0 means no limit"),
	}
}

func (f commonFlags) opts() inputOpts {
	return inputOpts{
		oneBased: *f.oneBased,
		leafSize: *f.leafSize,
		lens:     interval.Lengths{Min: interval.PosType(*f.minLen), Max: interval.PosType(*f.maxLen)},
	}
}

func newCmdQuery() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "query",
		Short:    "Print the intervals overlapping one or more regions",
		ArgsName: "path",
	}
	flags := addCommonFlags(cmd)
	regions := cmd.Flags.String("regions", "", `A comma-separated list of regions to query.
Each region is 'chr', 'chr:pos' or 'chr:begin-end', where [begin,end] is a
1-based, closed interval as in samtools.`)
	count := cmd.Flags.Bool("count", false, "Print the number of hits per region instead of the hits")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 1 {
			return fmt.Errorf("query takes one pathname argument, but got %v", argv)
		}
		if *regions == "" {
			return fmt.Errorf("query: -regions must be set")
		}
		return query(vcontext.Background(), env.Stdout, argv[0], strings.Split(*regions, ","), *count, flags.opts())
	})
	return cmd
}

func newCmdMerge() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "merge",
		Short:    "Merge overlapping intervals of a BED file",
		ArgsName: "path",
	}
	flags := addCommonFlags(cmd)
	gap := cmd.Flags.Int("gap", 0, "Also merge intervals separated by fewer than this many bases")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 1 {
			return fmt.Errorf("merge takes one pathname argument, but got %v", argv)
		}
		return merge(vcontext.Background(), env.Stdout, argv[0], interval.PosType(*gap), flags.opts())
	})
	return cmd
}

func newCmdSetOp(name, short string, op setOp) *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     name,
		Short:    short,
		ArgsName: "path0 path1",
	}
	flags := addCommonFlags(cmd)
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 2 {
			return fmt.Errorf("%s takes path0 path1, but got %v", name, argv)
		}
		return runSetOp(vcontext.Background(), env.Stdout, op, argv[0], argv[1], flags.opts())
	})
	return cmd
}

func newCmdCoverage() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "coverage",
		Short:    "Print per-base or per-bin coverage of a BED file",
		ArgsName: "path",
	}
	flags := addCommonFlags(cmd)
	label := cmd.Flags.String("label", "", "Restrict output to this label. By default, all labels are printed")
	binSize := cmd.Flags.Int("bin", 0, "Bin width; 0 prints per-base depth")
	nhits := cmd.Flags.Bool("nhits", false, "With -bin, count intervals per bin instead of covered bases")
	wps := cmd.Flags.Int("wps", 0, "Print the window protection score with this protection size instead of depth")
	maskPath := cmd.Flags.String("mask", "", "Only print per-base depth at positions covered by this BED file")
	invertMask := cmd.Flags.Bool("invert-mask", false, "With -mask, only print positions outside the mask instead")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 1 {
			return fmt.Errorf("coverage takes one pathname argument, but got %v", argv)
		}
		opts := coverageOpts{
			label:   *label,
			binSize: interval.PosType(*binSize),
			nhits:   *nhits,
			wps:     interval.PosType(*wps),

			maskPath:   *maskPath,
			invertMask: *invertMask,
		}
		return coverage(vcontext.Background(), env.Stdout, argv[0], opts, flags.opts())
	})
	return cmd
}

func newCmdFilter() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "filter",
		Short:    "Print the intervals of a BED file that overlap a mask BED file",
		ArgsName: "maskpath path",
	}
	flags := addCommonFlags(cmd)
	invert := cmd.Flags.Bool("invert", false, "Print the intervals that overlap the complement of the mask instead")
	genome := cmd.Flags.String("genome", "", `Optional two-column "name length" file listing the labels to keep.
Intervals on other labels are dropped.`)
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 2 {
			return fmt.Errorf("filter takes maskpath path, but got %v", argv)
		}
		return filter(vcontext.Background(), env.Stdout, argv[0], argv[1], *genome, *invert, flags.opts())
	})
	return cmd
}

func newCmdDownsample() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "downsample",
		Short:    "Keep a pseudo-random fraction of the intervals of a BED file",
		ArgsName: "path",
	}
	flags := addCommonFlags(cmd)
	fraction := cmd.Flags.Float64("fraction", 0.1, "Fraction of intervals to keep")
	seed := cmd.Flags.Uint64("seed", 0, `Hash seed. An interval is kept or dropped depending only on
its label, start, end and the seed, so runs over different files with the
same seed agree on their common intervals.`)
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 1 {
			return fmt.Errorf("downsample takes one pathname argument, but got %v", argv)
		}
		return downsample(vcontext.Background(), env.Stdout, argv[0], *seed, *fraction, flags.opts())
	})
	return cmd
}

func newCmdChecksum() *cmdline.Command {
	cmd := &cmdline.Command{
		Name: "checksum",
		Short: `Compute a fingerprint of one or more BED files.
The fingerprint depends only on the set of (label, start, end) triples, not on their order in the file`,
		ArgsName: "path...",
	}
	flags := addCommonFlags(cmd)
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) == 0 {
			return fmt.Errorf("checksum takes at least one path, but got none")
		}
		return checksum(vcontext.Background(), env.Stdout, argv, flags.opts())
	})
	return cmd
}

func Run() {
	log.Debug.Printf("bio-ailist starting")
	cmdline.HideGlobalFlagsExcept()
	cmdline.Main(
		&cmdline.Command{
			Name:     "bio-ailist",
			Short:    "Overlap queries and set operations on BED files",
			LookPath: false,
			Children: []*cmdline.Command{
				newCmdQuery(),
				newCmdMerge(),
				newCmdSetOp("subtract", "Print the parts of path0's intervals not covered by path1", subtractOp),
				newCmdSetOp("intersect", "Print the parts of path0's intervals covered by path1", intersectOp),
				newCmdSetOp("union", "Print the intervals of both files", unionOp),
				newCmdCoverage(),
				newCmdFilter(),
				newCmdDownsample(),
				newCmdChecksum(),
			},
		})
}
