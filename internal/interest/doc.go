// Package interest turns per-month vote and discussion statistics into the
// coloured slices drawn inside a row's bar.
//
// Load reads the sparse statistics table and remembers the largest
// discussion post count seen in any row. Accumulate walks a row month by
// month and hands out integer slice widths, diffusing the fractional part of
// each month's pixel width into a running carry so the widths add up to the
// bar without drift.
package interest
