/*Package interval implements an Augmented Interval List (AIList): an
  in-memory index over half-open [start, end) integer intervals that answers
  overlap queries without a balanced tree.

  A List is filled with Add, then frozen with Construct.  Construction sorts
  the intervals by start and peels them into a small number of components,
  each internally start-sorted and augmented with a running maximum end.  A
  query binary-searches each component and walks backward only while the
  running maximum can still reach the query.

  Construct permutes the backing array, so positions are only meaningful
  between two mutations; use the stable Interval.ID to refer to an interval
  across construction.  SortedIterator recovers global start order when
  needed, and Merge/Subtract/Common/Union are sweeps built on it.

  It assumes every position fits in a PosType, which is currently defined as
  int32 since that's what BAM files are limited to.
*/
package interval
