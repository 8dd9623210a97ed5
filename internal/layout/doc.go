// Package layout maps timeline sections onto the horizontal pixel grid.
//
// A Layout is built once per run from the ordered section list and the
// immutable Params. Each section receives a start pixel (where the previous
// section ended) and a pixels-per-month rate derived from the interval width
// and its months-per-anchor resolution. Every other pixel value in the
// pipeline, including bar widths, the now bar, nav cell positions and interest
// slices, is derived from PixelForDate so neighbouring features always meet
// without gaps.
//
// Errors are typed: DateOutOfRangeError affects a single date (callers skip
// the row that produced it), InvalidLayoutError means no timeline can be drawn
// at all.
package layout
