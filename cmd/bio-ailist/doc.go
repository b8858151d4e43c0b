/*Command bio-ailist answers overlap queries and computes set operations
  on BED files using augmented interval lists.  Results are written to
  stdout as BED (or TSV for coverage).

  Usage:
    bio-ailist query -regions chr1:1000-2000 in.bed
    bio-ailist merge -gap 10 in.bed
    bio-ailist subtract a.bed b.bed
    bio-ailist intersect a.bed b.bed
    bio-ailist union a.bed b.bed.gz
    bio-ailist coverage -label chr1 -bin 1000 in.bed
    bio-ailist coverage -mask targets.bed in.bed
    bio-ailist filter -genome hg19.genome targets.bed in.bed
    bio-ailist downsample -fraction 0.01 -seed 42 in.bed
    bio-ailist checksum a.bed b.bed
*/
package main
