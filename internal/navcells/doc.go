// Package navcells plans the navigation strip shown above the timeline.
//
// In automatic mode Plan picks a bounded number of anchor dates spread
// evenly across the rendered width, pins the last cell to the final anchor,
// marks the cell covering now and decides whether each cell should link to
// the upper or lower copy of the date table. Manual cells from configuration
// bypass placement; Manual only checks the now marking and reports problems
// as ConfigWarning values instead of failing.
package navcells
