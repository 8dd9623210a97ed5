package render

import (
	"image/color"

	"longview/internal/lvdate"
)

// Style is every visual setting the renderer needs. It is built once from
// configuration and never changed during a run.
type Style struct {
	Title    string
	Pretitle string

	BarHeight   int
	Color1      color.RGBA
	Color2      color.RGBA
	FutureColor color.RGBA
	NoColor     color.RGBA
	YesColor    color.RGBA
	NoDataColor color.RGBA
	Saturation  float64
	Diamond     Diamond
	NowBarOnTop bool

	NowBarColor  color.RGBA
	StippleColor color.RGBA

	NavCellWidth   int
	NavCellHeight  int
	TopFrameHeight int

	// Dates controls anchor names and axis labels. Popups always show
	// dates with a spaced, dotted era.
	Dates lvdate.Style
}

// DefaultStyle mirrors the stock configuration.
func DefaultStyle() Style {
	return Style{
		Title:          "Long View",
		BarHeight:      13,
		Color1:         MustParseHex("#cc9966"),
		Color2:         MustParseHex("#996633"),
		FutureColor:    MustParseHex("#dddddd"),
		NoColor:        MustParseHex("#cc3333"),
		YesColor:       MustParseHex("#3333cc"),
		NoDataColor:    MustParseHex("#cccccc"),
		Saturation:     0.7,
		Diamond:        DefaultDiamond,
		NowBarColor:    MustParseHex("#9999cc"),
		StippleColor:   MustParseHex("#999999"),
		NavCellWidth:   25,
		NavCellHeight:  20,
		TopFrameHeight: 95,
		Dates:          lvdate.DefaultStyle,
	}
}

// PageTitle is "pretitle [ title, start - end ]".
func (s Style) PageTitle(start, end lvdate.Date) string {
	return s.Pretitle + " [ " + s.Title + ", " + start.Format(s.Dates) + " - " + end.Format(s.Dates) + " ]"
}

// popupDateStyle renders popup dates with "B.C." eras.
func (s Style) popupDateStyle() lvdate.Style {
	style := s.Dates
	style.SpaceBeforeBC = true
	style.Periods = true
	return style
}

func (s Style) barColor(n int) color.RGBA {
	if n == 2 {
		return s.Color2
	}
	return s.Color1
}
