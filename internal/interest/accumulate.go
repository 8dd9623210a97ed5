package interest

import (
	"math"

	"longview/internal/layout"
	"longview/internal/lvdate"
)

// Policy holds the colour defaults used when data is missing.
type Policy struct {
	// NoVoteRatio is the split used when a month has no votes at all.
	NoVoteRatio float64
	// MissingPostsRatio stands in for the relative discussion intensity
	// when a month has no post count.
	MissingPostsRatio float64
}

// DefaultPolicy splits empty months evenly and renders missing discussion
// data at half brightness.
func DefaultPolicy() Policy {
	return Policy{NoVoteRatio: 0.5, MissingPostsRatio: 0.5}
}

// NoRatio is the share of "no" votes, with fixed answers when either side is
// empty.
func (p Policy) NoRatio(rec Record) float64 {
	switch {
	case rec.No == 0 && rec.Yes == 0:
		return p.NoVoteRatio
	case rec.No == 0:
		return 0.0
	case rec.Yes == 0:
		return 1.0
	default:
		return float64(rec.No) / float64(rec.No+rec.Yes)
	}
}

// Brightness is one minus the month's discussion intensity relative to
// maxPosts.
func (p Policy) Brightness(rec Record, maxPosts int) float64 {
	var relative float64
	switch {
	case !rec.HasPosts:
		relative = p.MissingPostsRatio
	case rec.Posts == 0 || maxPosts <= 0:
		relative = 0
	default:
		relative = float64(rec.Posts) / float64(maxPosts)
	}
	return 1 - relative
}

// Slice is the rendering descriptor for one month of a bar.
type Slice struct {
	Month      lvdate.Date
	Width      int
	NoRatio    float64
	Brightness float64
	// NoData marks months without a record; they render as a flat colour.
	NoData bool
}

// Accumulate produces one slice per month from start through the earlier of
// end and now. Fractional pixels are carried from month to month; when the
// carry reaches a whole pixel the current slice absorbs it. When the last
// slice is the now month it also absorbs the difference between the rendered
// and virtual now bar widths, less the one pixel shared with the slice that
// follows.
func Accumulate(l *layout.Layout, table *Table, rowID string, start, end lvdate.Date, policy Policy) ([]Slice, error) {
	now := l.Now()
	last := lvdate.Min(now, end)
	if last.Before(start) {
		return nil, nil
	}

	nowCorrection := 0
	if last.Equal(now) {
		rendered, err := l.NowBarWidth()
		if err != nil {
			return nil, err
		}
		virtual, err := l.NowBarVirtualWidth()
		if err != nil {
			return nil, err
		}
		nowCorrection = int(math.Round(float64(rendered)-virtual)) - 1
	}

	slices := make([]Slice, 0, last.Sub(start)+1)
	carry := 0.0
	for month := start; !month.After(last); month = month.Add(1) {
		section, err := l.SectionFor(month)
		if err != nil {
			return nil, err
		}
		ppm := section.PixelsPerMonth
		fraction := ppm - math.Floor(ppm)
		if fraction < 0.5 {
			carry += fraction
		} else {
			carry -= 1 - fraction
		}

		padding := 0
		switch {
		case carry >= 1:
			padding = 1
			carry--
		case carry <= -1:
			padding = -1
			carry++
		}
		if month.Equal(last) {
			padding += nowCorrection
		}

		slice := Slice{Month: month, Width: int(math.Round(ppm)) + padding}
		if rec, ok := table.Lookup(rowID, month); ok {
			slice.NoRatio = policy.NoRatio(rec)
			slice.Brightness = policy.Brightness(rec, table.MaxPosts())
		} else {
			slice.NoData = true
			slice.NoRatio = 1
			slice.Brightness = 1
		}
		slices = append(slices, slice)
	}
	return slices, nil
}

// TotalWidth sums slice widths.
func TotalWidth(slices []Slice) int {
	total := 0
	for _, s := range slices {
		total += s.Width
	}
	return total
}
