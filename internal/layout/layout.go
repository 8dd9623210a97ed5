package layout

import (
	"fmt"
	"math"
	"strings"
	"time"

	"longview/internal/lvdate"
)

// Section is a contiguous span of the timeline drawn at one resolution.
type Section struct {
	Start           lvdate.Date
	End             lvdate.Date
	MonthsPerAnchor int
}

// PlacedSection is a Section annotated with its position on the pixel grid.
type PlacedSection struct {
	Section
	StartPixel     float64
	PixelsPerMonth float64
}

// Contains reports whether d falls inside the section, inclusive of both ends.
func (s PlacedSection) Contains(d lvdate.Date) bool {
	return !d.Before(s.Start) && !d.After(s.End)
}

// Params holds the global geometry settings. It is immutable once a Layout
// has been built from it.
type Params struct {
	LeftMargin       int
	IntervalPixels   int
	ResolutionMonths int
	MinBarWidth      int
	// NowBarWidth overrides the rendered now bar width when positive.
	NowBarWidth int
	Now         lvdate.Date
}

// Layout is the placed section list plus the parameters that produced it.
type Layout struct {
	params   Params
	sections []PlacedSection
	endPixel float64
}

// New places the sections on the pixel grid. Sections must be ordered and
// must not overlap.
func New(sections []Section, params Params) (*Layout, error) {
	if len(sections) == 0 {
		return nil, &InvalidLayoutError{Reason: "no timeline sections configured"}
	}
	if params.IntervalPixels <= 0 {
		return nil, &InvalidLayoutError{Reason: fmt.Sprintf("interval pixels must be positive (got %d)", params.IntervalPixels)}
	}
	if params.ResolutionMonths <= 0 {
		return nil, &InvalidLayoutError{Reason: fmt.Sprintf("resolution months must be positive (got %d)", params.ResolutionMonths)}
	}

	placed := make([]PlacedSection, 0, len(sections))
	interval := float64(params.IntervalPixels)
	pixel := float64(params.LeftMargin)
	for i, section := range sections {
		if section.MonthsPerAnchor <= 0 {
			return nil, &InvalidLayoutError{Reason: fmt.Sprintf("section %d: months per anchor must be positive (got %d)", i+1, section.MonthsPerAnchor)}
		}
		if section.End.Before(section.Start) {
			return nil, &InvalidLayoutError{Reason: fmt.Sprintf("section %d: end %s precedes start %s", i+1, section.End, section.Start)}
		}
		if i > 0 && !section.Start.After(sections[i-1].End) {
			return nil, &InvalidLayoutError{Reason: fmt.Sprintf("section %d: start %s overlaps previous section ending %s", i+1, section.Start, sections[i-1].End)}
		}
		mpa := float64(section.MonthsPerAnchor)
		placed = append(placed, PlacedSection{
			Section:        section,
			StartPixel:     pixel,
			PixelsPerMonth: interval / mpa,
		})
		span := float64(section.End.Sub(section.Start) + params.ResolutionMonths)
		pixel += span / mpa * interval
	}

	l := &Layout{params: params, sections: placed, endPixel: pixel}
	if l.TotalWidth() <= 0 {
		return nil, &InvalidLayoutError{Reason: fmt.Sprintf("computed timeline width %d is not positive", l.TotalWidth())}
	}
	return l, nil
}

// Params returns the parameters the layout was built with.
func (l *Layout) Params() Params { return l.params }

// Now returns the resolved now date.
func (l *Layout) Now() lvdate.Date { return l.params.Now }

// Sections returns a copy of the placed sections.
func (l *Layout) Sections() []PlacedSection {
	out := make([]PlacedSection, len(l.sections))
	copy(out, l.sections)
	return out
}

// Start is the first date on the timeline.
func (l *Layout) Start() lvdate.Date { return l.sections[0].Start }

// End is the last date on the timeline.
func (l *Layout) End() lvdate.Date { return l.sections[len(l.sections)-1].End }

// TotalWidth is the rendered width excluding the left margin.
func (l *Layout) TotalWidth() int {
	return int(math.Round(l.endPixel)) - l.params.LeftMargin
}

// SectionFor returns the section containing d.
func (l *Layout) SectionFor(d lvdate.Date) (PlacedSection, error) {
	for _, section := range l.sections {
		if section.Contains(d) {
			return section, nil
		}
	}
	return PlacedSection{}, &DateOutOfRangeError{Date: d}
}

// PixelForDate returns the absolute X coordinate where d begins.
func (l *Layout) PixelForDate(d lvdate.Date) (int, error) {
	section, err := l.SectionFor(d)
	if err != nil {
		return 0, err
	}
	return pixelIn(section, d), nil
}

func pixelIn(section PlacedSection, d lvdate.Date) int {
	return int(math.Round(section.StartPixel + float64(d.Sub(section.Start))*section.PixelsPerMonth))
}

// BarWidth returns the width of a bar spanning start through end, including
// one resolution unit at the end and never narrower than MinBarWidth.
func (l *Layout) BarWidth(start, end lvdate.Date) (int, error) {
	startX, err := l.PixelForDate(start)
	if err != nil {
		return 0, err
	}
	endSection, err := l.SectionFor(end)
	if err != nil {
		return 0, err
	}
	endX := pixelIn(endSection, end)
	width := float64(endX) + float64(l.params.ResolutionMonths)*endSection.PixelsPerMonth - float64(startX)
	return max(int(math.Round(width)), l.params.MinBarWidth), nil
}

// NowBarStart returns the X coordinate of the now bar.
func (l *Layout) NowBarStart() (int, error) {
	return l.PixelForDate(l.params.Now)
}

// NowBarVirtualWidth is the proportional width of the now bar before the
// minimum width or an override is applied.
func (l *Layout) NowBarVirtualWidth() (float64, error) {
	section, err := l.SectionFor(l.params.Now)
	if err != nil {
		return 0, err
	}
	return float64(l.params.ResolutionMonths) * section.PixelsPerMonth, nil
}

// NowBarWidth is the rendered now bar width.
func (l *Layout) NowBarWidth() (int, error) {
	if l.params.NowBarWidth > 0 {
		return l.params.NowBarWidth, nil
	}
	virtual, err := l.NowBarVirtualWidth()
	if err != nil {
		return 0, err
	}
	return max(l.params.MinBarWidth, int(math.Round(virtual))), nil
}

// FutureStart is the first pixel after the now bar.
func (l *Layout) FutureStart() (int, error) {
	start, err := l.NowBarStart()
	if err != nil {
		return 0, err
	}
	width, err := l.NowBarWidth()
	if err != nil {
		return 0, err
	}
	return start + width, nil
}

// ExtentWidth is the pixel width needed to draw the whole timeline from
// x=0, through the last resolution unit of the final section.
func (l *Layout) ExtentWidth() int {
	last := l.sections[len(l.sections)-1]
	return pixelIn(last, last.End) + int(math.Round(last.PixelsPerMonth*float64(l.params.ResolutionMonths)))
}

// Anchors lists every anchor date in timeline order.
func (l *Layout) Anchors() []lvdate.Date {
	var anchors []lvdate.Date
	for _, section := range l.sections {
		for d := section.Start; !d.After(section.End); d = d.Add(section.MonthsPerAnchor) {
			anchors = append(anchors, d)
		}
	}
	return anchors
}

// FinalAnchor is the last anchor date of the final section.
func (l *Layout) FinalAnchor() lvdate.Date {
	last := l.sections[len(l.sections)-1]
	steps := last.End.Sub(last.Start) / last.MonthsPerAnchor
	return last.Start.Add(steps * last.MonthsPerAnchor)
}

// ResolveNow returns the explicit date when one is configured, otherwise the
// current month rounded to the nearest multiple of resolution months.
func ResolveNow(explicit string, today time.Time, resolution int) (lvdate.Date, error) {
	if strings.TrimSpace(explicit) != "" {
		d, err := lvdate.Parse(explicit)
		if err != nil {
			return lvdate.Date{}, fmt.Errorf("now date: %w", err)
		}
		return d, nil
	}
	if resolution <= 0 {
		resolution = 1
	}
	current := lvdate.FromTime(today).Months()
	rounded := int(math.Round(float64(current)/float64(resolution))) * resolution
	return lvdate.FromMonths(rounded), nil
}

// OngoingSectionEnd is the end date used for a section configured as
// ongoing: two anchors past now.
func OngoingSectionEnd(now lvdate.Date, monthsPerAnchor int) lvdate.Date {
	return now.Add(2 * monthsPerAnchor)
}
