// Package ordering persists the display order of records.
//
// A reorder request carries (id, position) pairs. Positions are normalized to 1..N in the
// requested order and written one record at a time. There is no transaction across
// items: a failure is reported per item in the BatchOutcome while the items already
// written keep their new positions. Replaying the same request writes the same values.
package ordering
