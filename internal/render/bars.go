package render

import (
	"fmt"
	"path/filepath"

	"longview/internal/dataset"
	"longview/internal/interest"
	"longview/internal/layout"
	"longview/internal/textutil"
)

// Area is one clickable region of a bar's image map.
type Area struct {
	Shape  string
	Node   string
	X1, Y1 int
	X2, Y2 int
}

// Bar is one rendered timeline row.
type Bar struct {
	NodeID string
	Link   string
	// Offset is the spacer width before the bar.
	Offset int
	Width  int
	Height int
	// Image is the file name under img-generated/.
	Image string
	Areas []Area

	img *SlicedImage
}

// Generated reports whether the bar has its own image.
func (b Bar) Generated() bool { return b.img != nil }

// SubitemNode is the popup id of the i-th subitem of row id: "7a", "7b", ...
func SubitemNode(rowID string, i int) string {
	return rowID + string(rune('a'+i))
}

// PlanBars lays out every row. Rows with subitems, interest data, or a
// right edge reaching the future get a generated image; the rest reuse the
// alternating colour swatches.
func PlanBars(l *layout.Layout, rows dataset.Rows, table *interest.Table, policy interest.Policy, style Style) ([]Bar, error) {
	futureStart, err := l.FutureStart()
	if err != nil {
		return nil, err
	}
	bars := make([]Bar, 0, len(rows))
	for i, row := range rows {
		colour := 1 + i%2
		start, err := l.PixelForDate(row.Start)
		if err != nil {
			return nil, fmt.Errorf("row %s: %w", row.ID, err)
		}
		width, err := l.BarWidth(row.Start, row.End)
		if err != nil {
			return nil, fmt.Errorf("row %s: %w", row.ID, err)
		}
		bar := Bar{
			NodeID: row.ID,
			Link:   row.Link,
			Offset: start,
			Width:  width,
			Height: style.BarHeight,
			Image:  SwatchFile(colour),
		}
		lastPixel := start + width - 1
		if len(row.Subitems) > 0 || table.Has(row.ID) || lastPixel >= futureStart {
			if err := drawBar(&bar, l, row, table, policy, style, colour, futureStart); err != nil {
				return nil, fmt.Errorf("row %s: %w", row.ID, err)
			}
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

func drawBar(bar *Bar, l *layout.Layout, row dataset.Row, table *interest.Table, policy interest.Policy, style Style, colour, futureStart int) error {
	img := NewSlicedImage(bar.Width, bar.Height, style.Diamond)

	futureX := -1
	if futureStart <= bar.Offset+bar.Width {
		futureX = max(futureStart-bar.Offset, 0)
	}

	if table.Has(row.ID) {
		slices, err := interest.Accumulate(l, table, row.ID, row.Start, row.End, policy)
		if err != nil {
			return err
		}
		for _, slice := range slices {
			img.AddSlice(interestSlice(slice, style))
		}
	} else {
		pastWidth := bar.Width
		if futureX >= 0 {
			pastWidth = futureX
		}
		img.AddSlice(Solid(pastWidth, style.barColor(colour)))
	}
	if futureX >= 0 {
		img.AddSlice(Solid(bar.Width-futureX, style.FutureColor))
	}

	for i, sub := range row.Subitems {
		x, err := l.PixelForDate(sub.Date)
		if err != nil {
			return fmt.Errorf("subitem %s: %w", sub.Date, err)
		}
		x1 := x - bar.Offset
		if x1 > bar.Width-style.Diamond.Width {
			x1 -= style.Diamond.Width
		}
		bar.Areas = append(bar.Areas, Area{
			Shape: "rect",
			Node:  SubitemNode(row.ID, i),
			X1:    x1,
			X2:    x1 + style.Diamond.Width,
			Y2:    bar.Height - 1,
		})
		img.DrawDiamond(x1)
	}
	if len(bar.Areas) > 0 {
		bar.Areas = append(bar.Areas, Area{Shape: "default", Node: row.ID, X2: bar.Width, Y2: bar.Height})
	}

	if style.NowBarOnTop {
		nowStart, err := l.NowBarStart()
		if err != nil {
			return err
		}
		nowWidth, err := l.NowBarWidth()
		if err != nil {
			return err
		}
		img.DrawFilledSlice(nowStart-bar.Offset, nowWidth, style.NowBarColor)
	}

	bar.img = img
	bar.Image = textutil.ImageName(row.ID) + ".png"
	return nil
}

func interestSlice(slice interest.Slice, style Style) SliceSpec {
	if slice.NoData {
		return Solid(slice.Width, style.NoDataColor)
	}
	return SliceSpec{
		Width:      slice.Width,
		LowerSize:  slice.NoRatio,
		Lower:      style.NoColor,
		Divider:    style.NoColor,
		Upper:      style.YesColor,
		Saturation: style.Saturation,
		Brightness: slice.Brightness,
	}
}

// WriteBarImages writes every generated bar image into dir.
func WriteBarImages(dir string, bars []Bar) error {
	for _, bar := range bars {
		if bar.img == nil {
			continue
		}
		if err := bar.img.WritePNG(filepath.Join(dir, bar.Image)); err != nil {
			return err
		}
	}
	return nil
}
