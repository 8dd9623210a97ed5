package interest

import (
	"errors"
	"math"
	"strings"
	"testing"

	"longview/internal/layout"
	"longview/internal/lvdate"
)

func month(n int) lvdate.Date { return lvdate.FromMonths(n) }

func newLayout(t *testing.T, interval, monthsPerAnchor, minBar, nowBar, now int) *layout.Layout {
	t.Helper()
	l, err := layout.New([]layout.Section{{Start: month(0), End: month(199), MonthsPerAnchor: monthsPerAnchor}}, layout.Params{
		IntervalPixels:   interval,
		ResolutionMonths: 1,
		MinBarWidth:      minBar,
		NowBarWidth:      nowBar,
		Now:              month(now),
	})
	if err != nil {
		t.Fatalf("layout.New: %v", err)
	}
	return l
}

func TestAccumulateHasNoDrift(t *testing.T) {
	// 21px per two-month anchor is 10.5px per month.
	l := newLayout(t, 21, 2, 1, 0, 150)
	slices, err := Accumulate(l, NewTable(), "row", month(0), month(36), DefaultPolicy())
	if err != nil {
		t.Fatalf("Accumulate: %v", err)
	}
	if len(slices) != 37 {
		t.Fatalf("got %d slices", len(slices))
	}
	want := int(math.Round(37 * 10.5))
	if got := TotalWidth(slices); got != want {
		t.Fatalf("slice widths sum to %d, want %d", got, want)
	}
}

func TestAccumulateCarryStaysBounded(t *testing.T) {
	cases := []struct {
		interval, mpa int
	}{
		{21, 2}, // 10.5
		{7, 4},  // 1.75
		{9, 4},  // 2.25
		{10, 1}, // 10
	}
	for _, tc := range cases {
		l := newLayout(t, tc.interval, tc.mpa, 1, 0, 190)
		ppm := float64(tc.interval) / float64(tc.mpa)
		for n := 1; n <= 40; n++ {
			slices, err := Accumulate(l, nil, "row", month(0), month(n-1), DefaultPolicy())
			if err != nil {
				t.Fatalf("Accumulate: %v", err)
			}
			exact := float64(n) * ppm
			if diff := math.Abs(float64(TotalWidth(slices)) - exact); diff >= 1 {
				t.Fatalf("ppm=%v n=%d: sum %d drifted %v from %v", ppm, n, TotalWidth(slices), diff, exact)
			}
		}
	}
}

func TestAccumulateNowCorrection(t *testing.T) {
	l := newLayout(t, 10, 1, 14, 0, 12)
	slices, err := Accumulate(l, nil, "row", month(0), month(20), DefaultPolicy())
	if err != nil {
		t.Fatalf("Accumulate: %v", err)
	}
	if len(slices) != 13 {
		t.Fatalf("slices should stop at now: got %d", len(slices))
	}
	for _, s := range slices[:12] {
		if s.Width != 10 {
			t.Fatalf("month %d width = %d", s.Month.Months(), s.Width)
		}
	}
	// rendered 14, virtual 10: 10 + (4 - 1)
	if got := slices[12].Width; got != 13 {
		t.Fatalf("now slice width = %d, want 13", got)
	}

	overridden := newLayout(t, 10, 1, 1, 10, 12)
	slices, _ = Accumulate(overridden, nil, "row", month(0), month(12), DefaultPolicy())
	if got := slices[12].Width; got != 9 {
		t.Fatalf("now slice width with equal widths = %d, want 9", got)
	}

	// Rows ending before now get no correction.
	slices, _ = Accumulate(l, nil, "row", month(0), month(5), DefaultPolicy())
	if got := slices[5].Width; got != 10 {
		t.Fatalf("past row last width = %d", got)
	}

	// Rows starting after now have no slices.
	slices, _ = Accumulate(l, nil, "row", month(20), month(30), DefaultPolicy())
	if len(slices) != 0 {
		t.Fatalf("future row slices = %d", len(slices))
	}
}

func TestAccumulateColours(t *testing.T) {
	table := NewTable()
	table.Set("r", month(0), Record{Yes: 3, No: 1, Posts: 5, HasPosts: true})
	table.Set("r", month(1), Record{Yes: 0, No: 0})
	table.Set("other", month(0), Record{Posts: 10, HasPosts: true})

	l := newLayout(t, 10, 1, 1, 0, 100)
	slices, err := Accumulate(l, table, "r", month(0), month(2), DefaultPolicy())
	if err != nil {
		t.Fatalf("Accumulate: %v", err)
	}
	if slices[0].NoRatio != 0.25 || slices[0].Brightness != 0.5 || slices[0].NoData {
		t.Fatalf("month 0 = %+v", slices[0])
	}
	if slices[1].NoRatio != 0.5 || slices[1].Brightness != 0.5 {
		t.Fatalf("month 1 = %+v", slices[1])
	}
	if !slices[2].NoData {
		t.Fatalf("month 2 should have no data: %+v", slices[2])
	}
}

func TestAccumulateOutOfRange(t *testing.T) {
	l := newLayout(t, 10, 1, 1, 0, 100)
	_, err := Accumulate(l, nil, "r", month(-5), month(3), DefaultPolicy())
	var rangeErr *layout.DateOutOfRangeError
	if !errors.As(err, &rangeErr) {
		t.Fatalf("expected DateOutOfRangeError, got %v", err)
	}
}

func TestNoRatio(t *testing.T) {
	p := DefaultPolicy()
	cases := []struct {
		yes, no int
		want    float64
	}{
		{0, 0, 0.5},
		{5, 0, 0.0},
		{0, 5, 1.0},
		{1, 3, 0.75},
	}
	for _, tc := range cases {
		if got := p.NoRatio(Record{Yes: tc.yes, No: tc.no}); got != tc.want {
			t.Fatalf("NoRatio(yes=%d,no=%d) = %v, want %v", tc.yes, tc.no, got, tc.want)
		}
	}
	custom := Policy{NoVoteRatio: 0.2, MissingPostsRatio: 0}
	if got := custom.NoRatio(Record{}); got != 0.2 {
		t.Fatalf("custom NoRatio = %v", got)
	}
	if got := custom.Brightness(Record{}, 10); got != 1 {
		t.Fatalf("custom Brightness = %v", got)
	}
}

func TestBrightness(t *testing.T) {
	p := DefaultPolicy()
	if got := p.Brightness(Record{Posts: 5, HasPosts: true}, 20); got != 0.75 {
		t.Fatalf("Brightness = %v", got)
	}
	if got := p.Brightness(Record{HasPosts: true}, 20); got != 1 {
		t.Fatalf("zero posts brightness = %v", got)
	}
	if got := p.Brightness(Record{}, 20); got != 0.5 {
		t.Fatalf("missing posts brightness = %v", got)
	}
}

func TestLoad(t *testing.T) {
	input := "1,2004/1,3,2,7\n1,2004/2,0,0\n2,2005,1,1,12\n"
	table, err := Load(strings.NewReader(input), "interest.csv")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if table.MaxPosts() != 12 {
		t.Fatalf("MaxPosts = %d", table.MaxPosts())
	}
	rec, ok := table.Lookup("1", lvdate.MustParse("2004/1"))
	if !ok || rec.Yes != 3 || rec.No != 2 || rec.Posts != 7 || !rec.HasPosts {
		t.Fatalf("record = %+v, %v", rec, ok)
	}
	rec, ok = table.Lookup("1", lvdate.MustParse("2004/2"))
	if !ok || rec.HasPosts {
		t.Fatalf("four-field record = %+v, %v", rec, ok)
	}
	if !table.Has("2") || table.Has("3") {
		t.Fatal("Has mismatch")
	}
	if ids := table.RowIDs(); len(ids) != 2 || ids[0] != "1" {
		t.Fatalf("RowIDs = %v", ids)
	}
}

func TestLoadRejectsMalformed(t *testing.T) {
	for _, input := range []string{
		"1,2004,3",
		"1,2004,3,2,1,9",
		"1,2004,x,2",
		"1,2004,3,-2",
		",2004,1,1",
		"1,someday,1,1",
	} {
		_, err := Load(strings.NewReader(input), "interest.csv")
		var recErr *RecordError
		if !errors.As(err, &recErr) {
			t.Fatalf("Load(%q): expected RecordError, got %v", input, err)
		}
	}
}

func TestNilTable(t *testing.T) {
	var table *Table
	if table.Has("x") || table.MaxPosts() != 0 || table.RowIDs() != nil {
		t.Fatal("nil table should be empty")
	}
	if _, ok := table.Lookup("x", month(0)); ok {
		t.Fatal("nil table lookup should miss")
	}
}
