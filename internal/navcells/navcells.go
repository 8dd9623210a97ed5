package navcells

import (
	"fmt"
	"math"

	"longview/internal/layout"
	"longview/internal/lvdate"
)

// Location says which copy of the date table a cell links to.
type Location string

const (
	LocationTop    Location = "top"
	LocationBottom Location = "bottom"
)

// ParseLocation accepts "top" or "bottom"; the empty string yields "".
func ParseLocation(value string) (Location, error) {
	switch Location(value) {
	case LocationTop, LocationBottom, "":
		return Location(value), nil
	default:
		return "", fmt.Errorf("nav cell location %q must be top or bottom", value)
	}
}

// Cell is one clickable anchor in the navigation strip.
type Cell struct {
	Date     lvdate.Date
	Now      bool
	Location Location
}

// Span is the date range covered by one timeline row.
type Span struct {
	Start lvdate.Date
	End   lvdate.Date
}

// Options bounds automatic placement.
type Options struct {
	IdealPixelsPerCell int
	MinCells           int
	MaxCells           int
}

// DefaultOptions matches the stock navigation strip.
func DefaultOptions() Options {
	return Options{IdealPixelsPerCell: 500, MinCells: 2, MaxCells: 12}
}

func (o Options) normalized() Options {
	defaults := DefaultOptions()
	if o.IdealPixelsPerCell <= 0 {
		o.IdealPixelsPerCell = defaults.IdealPixelsPerCell
	}
	// One cell would be pinned to the final anchor and never cover now.
	if o.MinCells < 2 {
		o.MinCells = 2
	}
	if o.MaxCells < o.MinCells {
		o.MaxCells = o.MinCells
	}
	return o
}

// Plan is the finished navigation strip.
type Plan struct {
	Cells []Cell
	// Spacing is the pixel width of timeline each cell stands for.
	Spacing int
	// Warnings collects non-fatal problems with manually configured cells.
	Warnings []ConfigWarning
}

// NowCell returns the cell marked as now, if any.
func (p Plan) NowCell() (Cell, bool) {
	for _, cell := range p.Cells {
		if cell.Now {
			return cell, true
		}
	}
	return Cell{}, false
}

// Auto places cells automatically across the layout.
func Auto(l *layout.Layout, rows []Span, opts Options) (Plan, error) {
	if l == nil {
		return Plan{}, &layout.InvalidLayoutError{Reason: "no layout to plan navigation for"}
	}
	width := l.TotalWidth()
	if width <= 0 {
		return Plan{}, &layout.InvalidLayoutError{Reason: fmt.Sprintf("timeline width %d is not positive", width)}
	}
	opts = opts.normalized()

	target := min(max(width/opts.IdealPixelsPerCell, opts.MinCells), opts.MaxCells)
	spacing := width / target

	anchors := l.Anchors()
	dates, err := walkAnchors(l, anchors, spacing, target)
	if err != nil {
		return Plan{}, err
	}
	if len(dates) < opts.MinCells {
		dates = spreadAnchors(anchors, min(opts.MinCells, len(anchors)))
	}
	dates[len(dates)-1] = l.FinalAnchor()

	cells := make([]Cell, len(dates))
	for i, d := range dates {
		cells[i] = Cell{Date: d}
	}
	markNow(cells, l.Now())
	classify(cells, rows, l)

	return Plan{Cells: cells, Spacing: spacing}, nil
}

// walkAnchors emits the first anchor at or after each ideal boundary.
func walkAnchors(l *layout.Layout, anchors []lvdate.Date, spacing, target int) ([]lvdate.Date, error) {
	next := l.Params().LeftMargin
	dates := make([]lvdate.Date, 0, target)
	for _, anchor := range anchors {
		x, err := l.PixelForDate(anchor)
		if err != nil {
			return nil, err
		}
		if x < next {
			continue
		}
		dates = append(dates, anchor)
		if len(dates) == target {
			break
		}
		next += spacing
	}
	return dates, nil
}

// spreadAnchors picks n anchors evenly by index, always including the first
// and last.
func spreadAnchors(anchors []lvdate.Date, n int) []lvdate.Date {
	if n <= 1 {
		return []lvdate.Date{anchors[len(anchors)-1]}
	}
	out := make([]lvdate.Date, n)
	for k := range n {
		out[k] = anchors[k*(len(anchors)-1)/(n-1)]
	}
	return out
}

func markNow(cells []Cell, now lvdate.Date) {
	for i := len(cells) - 1; i >= 0; i-- {
		if !cells[i].Date.After(now) {
			cells[i].Now = true
			return
		}
	}
}

func classify(cells []Cell, rows []Span, l *layout.Layout) {
	resolution := l.Params().ResolutionMonths
	for i := range cells {
		if cells[i].Location != "" {
			continue
		}
		end := l.End()
		if i < len(cells)-1 {
			end = cells[i+1].Date.Add(-resolution)
		}
		cells[i].Location = Classify(rows, cells[i].Date, end)
	}
}

// Classify compares how many rows in the upper and lower halves of the row
// list overlap [start, end]. The midpoint row is counted, in the lower half,
// rather than left out. Overlap is inclusive: a row that only touches start
// or end counts. Ties go to the top.
func Classify(rows []Span, start, end lvdate.Date) Location {
	mid := len(rows) / 2
	top := countOverlapping(rows[:mid], start, end)
	bottom := countOverlapping(rows[mid:], start, end)
	if top >= bottom {
		return LocationTop
	}
	return LocationBottom
}

func countOverlapping(rows []Span, start, end lvdate.Date) int {
	n := 0
	for _, row := range rows {
		if !row.Start.After(end) && !row.End.Before(start) {
			n++
		}
	}
	return n
}

// NowMarkerOffset returns the X offset inside a cellWidth-wide nav image
// where the now marker is drawn.
func NowMarkerOffset(nowX, leftMargin, spacing, cellWidth int) int {
	if spacing <= 0 {
		return 0
	}
	position := float64((nowX-leftMargin)%spacing) / float64(spacing)
	if position < 0 {
		position++
	}
	return int(math.Floor(position * float64(cellWidth)))
}

// BottomPrefix marks anchors in the lower copy of the date table.
const BottomPrefix = "b"

// AnchorName is the HTML anchor a cell links to: the formatted date with
// "_" between year and month, prefixed for the lower date table.
func AnchorName(cell Cell, style lvdate.Style) string {
	name := cell.Date.Format(style.WithSeparator("_"))
	if cell.Location == LocationBottom {
		return BottomPrefix + name
	}
	return name
}
