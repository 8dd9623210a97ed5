package layout

import (
	"errors"
	"testing"
	"time"

	"longview/internal/lvdate"
)

func month(n int) lvdate.Date { return lvdate.FromMonths(n) }

func twoSectionLayout(t *testing.T, now int) *Layout {
	t.Helper()
	l, err := New([]Section{
		{Start: month(0), End: month(23), MonthsPerAnchor: 1},
		{Start: month(24), End: month(47), MonthsPerAnchor: 3},
	}, Params{
		LeftMargin:       0,
		IntervalPixels:   10,
		ResolutionMonths: 1,
		MinBarWidth:      5,
		Now:              month(now),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return l
}

func TestPixelForDateSingleSection(t *testing.T) {
	l, err := New([]Section{{Start: month(0), End: month(24), MonthsPerAnchor: 1}}, Params{
		IntervalPixels:   10,
		ResolutionMonths: 1,
		MinBarWidth:      1,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	x, err := l.PixelForDate(month(12))
	if err != nil {
		t.Fatalf("PixelForDate: %v", err)
	}
	if x != 120 {
		t.Fatalf("PixelForDate(12) = %d, want 120", x)
	}
	if l.TotalWidth() != 250 {
		t.Fatalf("TotalWidth = %d, want 250", l.TotalWidth())
	}
}

func TestPixelForDateMonotonicAndContinuous(t *testing.T) {
	l := twoSectionLayout(t, 10)

	prev := -1
	for m := 0; m <= 47; m++ {
		x, err := l.PixelForDate(month(m))
		if err != nil {
			t.Fatalf("PixelForDate(%d): %v", m, err)
		}
		if x < prev {
			t.Fatalf("pixel decreased at month %d: %d < %d", m, x, prev)
		}
		prev = x
	}

	lastOfFirst, _ := l.PixelForDate(month(23))
	firstOfSecond, _ := l.PixelForDate(month(24))
	if lastOfFirst != 230 || firstOfSecond != 240 {
		t.Fatalf("boundary pixels = %d, %d; want 230, 240", lastOfFirst, firstOfSecond)
	}
	sections := l.Sections()
	if sections[1].StartPixel != 240 {
		t.Fatalf("second section start pixel = %v", sections[1].StartPixel)
	}
	if l.TotalWidth() != 320 {
		t.Fatalf("TotalWidth = %d, want 320", l.TotalWidth())
	}
}

func TestPixelForDateOutOfRange(t *testing.T) {
	l := twoSectionLayout(t, 10)
	_, err := l.PixelForDate(month(48))
	var rangeErr *DateOutOfRangeError
	if !errors.As(err, &rangeErr) {
		t.Fatalf("expected DateOutOfRangeError, got %v", err)
	}
	if rangeErr.Date.Months() != 48 {
		t.Fatalf("error carries date %d", rangeErr.Date.Months())
	}
	if _, err := l.BarWidth(month(-1), month(3)); !errors.As(err, &rangeErr) {
		t.Fatalf("BarWidth should fail for out-of-range start, got %v", err)
	}
}

func TestBarWidthRespectsMinimum(t *testing.T) {
	l := twoSectionLayout(t, 10)
	for start := 0; start <= 47; start++ {
		for end := start; end <= 47; end += 5 {
			w, err := l.BarWidth(month(start), month(end))
			if err != nil {
				t.Fatalf("BarWidth(%d,%d): %v", start, end, err)
			}
			if w < 5 {
				t.Fatalf("BarWidth(%d,%d) = %d below minimum", start, end, w)
			}
		}
	}
	if w, _ := l.BarWidth(month(0), month(0)); w != 10 {
		t.Fatalf("single month bar = %d, want 10", w)
	}
	if w, _ := l.BarWidth(month(24), month(24)); w != 5 {
		t.Fatalf("clamped bar = %d, want 5", w)
	}
	// A bar ending where the next one starts leaves no gap.
	w, _ := l.BarWidth(month(3), month(8))
	x3, _ := l.PixelForDate(month(3))
	x9, _ := l.PixelForDate(month(9))
	if x3+w != x9 {
		t.Fatalf("bar end %d does not meet next start %d", x3+w, x9)
	}
}

func TestNowBar(t *testing.T) {
	l := twoSectionLayout(t, 30)
	start, err := l.NowBarStart()
	if err != nil {
		t.Fatalf("NowBarStart: %v", err)
	}
	if start != 260 {
		t.Fatalf("NowBarStart = %d, want 260", start)
	}
	virtual, _ := l.NowBarVirtualWidth()
	if virtual < 3.33 || virtual > 3.34 {
		t.Fatalf("virtual width = %v", virtual)
	}
	width, _ := l.NowBarWidth()
	if width != 5 {
		t.Fatalf("NowBarWidth = %d, want minimum 5", width)
	}
	future, _ := l.FutureStart()
	if future != 265 {
		t.Fatalf("FutureStart = %d", future)
	}

	params := l.Params()
	params.NowBarWidth = 9
	overridden, err := New([]Section{{Start: month(0), End: month(47), MonthsPerAnchor: 1}}, params)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if w, _ := overridden.NowBarWidth(); w != 9 {
		t.Fatalf("override width = %d", w)
	}
}

func TestNewRejectsInvalidSections(t *testing.T) {
	params := Params{IntervalPixels: 10, ResolutionMonths: 1}
	cases := []struct {
		name     string
		sections []Section
		params   Params
	}{
		{name: "empty", sections: nil, params: params},
		{name: "zero interval", sections: []Section{{Start: month(0), End: month(1), MonthsPerAnchor: 1}}, params: Params{ResolutionMonths: 1}},
		{name: "zero months per anchor", sections: []Section{{Start: month(0), End: month(1), MonthsPerAnchor: 0}}, params: params},
		{name: "reversed", sections: []Section{{Start: month(5), End: month(1), MonthsPerAnchor: 1}}, params: params},
		{name: "overlap", sections: []Section{
			{Start: month(0), End: month(10), MonthsPerAnchor: 1},
			{Start: month(10), End: month(20), MonthsPerAnchor: 1},
		}, params: params},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.sections, tc.params)
			var layoutErr *InvalidLayoutError
			if !errors.As(err, &layoutErr) {
				t.Fatalf("expected InvalidLayoutError, got %v", err)
			}
		})
	}
}

func TestAnchors(t *testing.T) {
	l := twoSectionLayout(t, 10)
	anchors := l.Anchors()
	if len(anchors) != 24+8 {
		t.Fatalf("anchor count = %d", len(anchors))
	}
	if got := anchors[len(anchors)-1]; !got.Equal(l.FinalAnchor()) {
		t.Fatalf("last anchor %v != final anchor %v", got, l.FinalAnchor())
	}
	if l.FinalAnchor().Months() != 45 {
		t.Fatalf("final anchor = %d, want 45", l.FinalAnchor().Months())
	}
	if l.ExtentWidth() != 320 {
		t.Fatalf("ExtentWidth = %d", l.ExtentWidth())
	}
}

func TestResolveNow(t *testing.T) {
	today := time.Date(2026, time.October, 16, 0, 0, 0, 0, time.UTC)

	got, err := ResolveNow("", today, 1)
	if err != nil || got.Months() != 2026*12+9 {
		t.Fatalf("ResolveNow monthly = %v, %v", got, err)
	}
	got, _ = ResolveNow("", today, 12)
	if got.Months() != 2027*12 {
		t.Fatalf("ResolveNow yearly = %d, want %d", got.Months(), 2027*12)
	}
	got, err = ResolveNow("1999/4", today, 12)
	if err != nil || got.Months() != 1999*12+3 {
		t.Fatalf("explicit now = %v, %v", got, err)
	}
	if _, err := ResolveNow("soon", today, 1); !errors.Is(err, lvdate.ErrInvalidDate) {
		t.Fatalf("expected parse error, got %v", err)
	}
	if end := OngoingSectionEnd(month(100), 12); end.Months() != 124 {
		t.Fatalf("OngoingSectionEnd = %d", end.Months())
	}
}
