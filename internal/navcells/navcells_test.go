package navcells

import (
	"errors"
	"strings"
	"testing"

	"longview/internal/layout"
	"longview/internal/lvdate"
)

func month(n int) lvdate.Date { return lvdate.FromMonths(n) }

// monthlyLayout spans months 0..239 at 10px per month: 2400px wide.
func monthlyLayout(t *testing.T, now int) *layout.Layout {
	t.Helper()
	l, err := layout.New([]layout.Section{{Start: month(0), End: month(239), MonthsPerAnchor: 1}}, layout.Params{
		IntervalPixels:   10,
		ResolutionMonths: 1,
		MinBarWidth:      3,
		Now:              month(now),
	})
	if err != nil {
		t.Fatalf("layout.New: %v", err)
	}
	return l
}

func TestAutoPlacesCellsAtIdealBoundaries(t *testing.T) {
	l := monthlyLayout(t, 100)
	plan, err := Auto(l, nil, DefaultOptions())
	if err != nil {
		t.Fatalf("Auto: %v", err)
	}
	if plan.Spacing != 600 {
		t.Fatalf("Spacing = %d, want 600", plan.Spacing)
	}
	want := []int{0, 60, 120, 239}
	if len(plan.Cells) != len(want) {
		t.Fatalf("got %d cells, want %d", len(plan.Cells), len(want))
	}
	for i, cell := range plan.Cells {
		if cell.Date.Months() != want[i] {
			t.Fatalf("cell %d date = %d, want %d", i, cell.Date.Months(), want[i])
		}
		if cell.Now != (i == 1) {
			t.Fatalf("cell %d now = %v", i, cell.Now)
		}
		if cell.Location != LocationTop {
			t.Fatalf("cell %d location = %q with no rows", i, cell.Location)
		}
	}
	now, ok := plan.NowCell()
	if !ok || now.Date.Months() != 60 {
		t.Fatalf("NowCell = %v, %v", now, ok)
	}
}

func TestAutoHonoursBounds(t *testing.T) {
	for _, ideal := range []int{1, 50, 100, 199, 200, 333, 500, 800, 1200, 2400, 5000, 100000} {
		for _, now := range []int{0, 1, 59, 119, 200, 238, 239} {
			l := monthlyLayout(t, now)
			opts := Options{IdealPixelsPerCell: ideal, MinCells: 2, MaxCells: 12}
			plan, err := Auto(l, nil, opts)
			if err != nil {
				t.Fatalf("Auto(ideal=%d): %v", ideal, err)
			}
			if n := len(plan.Cells); n < opts.MinCells || n > opts.MaxCells {
				t.Fatalf("ideal=%d: %d cells outside [%d,%d]", ideal, n, opts.MinCells, opts.MaxCells)
			}
			last := plan.Cells[len(plan.Cells)-1]
			if !last.Date.Equal(l.FinalAnchor()) {
				t.Fatalf("ideal=%d: last cell %v, want final anchor %v", ideal, last.Date, l.FinalAnchor())
			}
			marked := 0
			for _, cell := range plan.Cells {
				if cell.Now {
					marked++
				}
			}
			if marked != 1 {
				t.Fatalf("ideal=%d now=%d: %d cells marked now", ideal, now, marked)
			}
			for i := 1; i < len(plan.Cells); i++ {
				if !plan.Cells[i].Date.After(plan.Cells[i-1].Date) {
					t.Fatalf("ideal=%d: cells out of order at %d", ideal, i)
				}
			}
		}
	}
}

func TestAutoWithCoarseAnchors(t *testing.T) {
	l, err := layout.New([]layout.Section{{Start: month(0), End: month(95), MonthsPerAnchor: 48}}, layout.Params{
		IntervalPixels:   10,
		ResolutionMonths: 1,
		MinBarWidth:      1,
		Now:              month(10),
	})
	if err != nil {
		t.Fatalf("layout.New: %v", err)
	}
	plan, err := Auto(l, nil, Options{IdealPixelsPerCell: 500, MinCells: 4, MaxCells: 12})
	if err != nil {
		t.Fatalf("Auto: %v", err)
	}
	if len(plan.Cells) != 2 {
		t.Fatalf("expected one cell per anchor, got %d", len(plan.Cells))
	}
	if plan.Cells[0].Date.Months() != 0 || plan.Cells[1].Date.Months() != 48 {
		t.Fatalf("cells = %v", plan.Cells)
	}
	if !plan.Cells[0].Now {
		t.Fatal("first cell should cover now")
	}
}

func TestAutoRejectsMissingLayout(t *testing.T) {
	_, err := Auto(nil, nil, DefaultOptions())
	var layoutErr *layout.InvalidLayoutError
	if !errors.As(err, &layoutErr) {
		t.Fatalf("expected InvalidLayoutError, got %v", err)
	}
}

func TestClassify(t *testing.T) {
	rows := []Span{
		{Start: month(0), End: month(5)},
		{Start: month(20), End: month(30)},
		{Start: month(3), End: month(8)},
		{Start: month(5), End: month(12)},
	}
	if got := Classify(rows, month(0), month(10)); got != LocationBottom {
		t.Fatalf("Classify = %q, want bottom", got)
	}
	if got := Classify(rows, month(20), month(25)); got != LocationTop {
		t.Fatalf("Classify = %q, want top", got)
	}
	if got := Classify(rows, month(100), month(110)); got != LocationTop {
		t.Fatalf("tie should favour top, got %q", got)
	}

	odd := []Span{
		{Start: month(50), End: month(60)},
		{Start: month(0), End: month(1)},
		{Start: month(40), End: month(41)},
	}
	if got := Classify(odd, month(0), month(2)); got != LocationBottom {
		t.Fatalf("midpoint row should count as lower half, got %q", got)
	}

	touching := []Span{
		{Start: month(50), End: month(60)},
		{Start: month(0), End: month(5)},
	}
	if got := Classify(touching, month(5), month(8)); got != LocationBottom {
		t.Fatalf("a row ending on the span start should overlap, got %q", got)
	}
}

func TestAutoClassifiesAgainstRows(t *testing.T) {
	l := monthlyLayout(t, 100)
	rows := []Span{
		{Start: month(200), End: month(239)},
		{Start: month(0), End: month(30)},
		{Start: month(10), End: month(50)},
	}
	plan, err := Auto(l, rows, DefaultOptions())
	if err != nil {
		t.Fatalf("Auto: %v", err)
	}
	if plan.Cells[0].Location != LocationBottom {
		t.Fatalf("first cell location = %q", plan.Cells[0].Location)
	}
	if plan.Cells[3].Location != LocationTop {
		t.Fatalf("last cell location = %q", plan.Cells[3].Location)
	}
}

func TestManual(t *testing.T) {
	l := monthlyLayout(t, 100)
	plan, err := Manual(l, nil, []Cell{
		{Date: month(0), Now: true, Location: LocationTop},
		{Date: month(120), Now: true},
		{Date: month(200), Location: LocationBottom},
	})
	if err != nil {
		t.Fatalf("Manual: %v", err)
	}
	if len(plan.Warnings) != 1 {
		t.Fatalf("warnings = %v", plan.Warnings)
	}
	if !plan.Cells[0].Now || plan.Cells[1].Now {
		t.Fatalf("only the first now cell should stay marked: %+v", plan.Cells)
	}
	if plan.Cells[1].Location != LocationTop || plan.Cells[2].Location != LocationBottom {
		t.Fatalf("locations = %q, %q", plan.Cells[1].Location, plan.Cells[2].Location)
	}
	if plan.Spacing != 800 {
		t.Fatalf("Spacing = %d", plan.Spacing)
	}

	plan, err = Manual(l, nil, []Cell{{Date: month(0)}, {Date: month(100)}})
	if err != nil {
		t.Fatalf("Manual: %v", err)
	}
	if len(plan.Warnings) != 1 {
		t.Fatalf("expected a warning for missing now cell, got %v", plan.Warnings)
	}
	if _, ok := plan.NowCell(); ok {
		t.Fatal("no cell should be marked now")
	}

}

func TestManualDropsCellsOutsideTimeline(t *testing.T) {
	l := monthlyLayout(t, 100)
	plan, err := Manual(l, nil, []Cell{
		{Date: month(0)},
		{Date: month(500), Now: true},
		{Date: month(100), Now: true},
	})
	if err != nil {
		t.Fatalf("out-of-range manual cells must not fail the run: %v", err)
	}
	if len(plan.Cells) != 2 || !plan.Cells[1].Date.Equal(month(100)) {
		t.Fatalf("cells = %+v", plan.Cells)
	}
	if len(plan.Warnings) != 1 || !strings.Contains(plan.Warnings[0].Reason, "outside the timeline") {
		t.Fatalf("warnings = %v", plan.Warnings)
	}
	if now, ok := plan.NowCell(); !ok || !now.Date.Equal(month(100)) {
		t.Fatalf("now cell = %+v, %v", now, ok)
	}

	plan, err = Manual(l, nil, []Cell{{Date: month(500), Now: true}})
	if err != nil {
		t.Fatalf("Manual: %v", err)
	}
	if len(plan.Cells) != 0 || len(plan.Warnings) != 2 {
		t.Fatalf("cells = %+v, warnings = %v", plan.Cells, plan.Warnings)
	}
}

func TestNowMarkerOffset(t *testing.T) {
	if got := NowMarkerOffset(1000, 0, 600, 25); got != 16 {
		t.Fatalf("NowMarkerOffset = %d, want 16", got)
	}
	if got := NowMarkerOffset(130, 10, 120, 25); got != 0 {
		t.Fatalf("boundary offset = %d, want 0", got)
	}
	if got := NowMarkerOffset(5, 0, 0, 25); got != 0 {
		t.Fatalf("zero spacing offset = %d", got)
	}
}

func TestAnchorName(t *testing.T) {
	style := lvdate.Style{FiveDigitYears: true, WithMonth: true}
	cell := Cell{Date: lvdate.MustParse("2004/6"), Location: LocationTop}
	if got := AnchorName(cell, style); got != "02004_6" {
		t.Fatalf("AnchorName = %q", got)
	}
	cell.Location = LocationBottom
	if got := AnchorName(cell, style); got != "b02004_6" {
		t.Fatalf("AnchorName = %q", got)
	}
	if got := AnchorName(cell, lvdate.DefaultStyle); got != "b02004" {
		t.Fatalf("years-only AnchorName = %q", got)
	}
}

func TestParseLocation(t *testing.T) {
	if loc, err := ParseLocation("bottom"); err != nil || loc != LocationBottom {
		t.Fatalf("ParseLocation = %q, %v", loc, err)
	}
	if _, err := ParseLocation("middle"); err == nil {
		t.Fatal("expected error for unknown location")
	}
}
