package render

import (
	"image"
	"image/color"
	"path/filepath"

	"longview/internal/layout"
)

// Image file names under img-generated/.
const (
	BackgroundFile = "timeline-bg.png"
	NowOnFile      = "nav-now-on.png"
	NowOffFile     = "nav-now-off.png"
	Key1File       = "key1.png"
	Key2File       = "key2.png"
)

var (
	lightDivider = color.RGBA{R: 0xdd, G: 0xdd, B: 0xdd, A: 0xff}
	darkDivider  = color.RGBA{R: 0xaa, G: 0xaa, B: 0xaa, A: 0xff}
	navStipple   = color.RGBA{R: 0x99, G: 0x99, B: 0x99, A: 0xff}
	navBorder    = color.RGBA{R: 0x00, G: 0x33, B: 0x66, A: 0xff}
	navNowBox    = color.RGBA{R: 0x66, G: 0x66, B: 0x66, A: 0xff}
)

const navNowBoxWidth = 4

// SwatchFile is the flat bar image for colour n (1 or 2).
func SwatchFile(n int) string {
	if n == 2 {
		return "color2.png"
	}
	return "color1.png"
}

// Swatch is a 1x1 image of c.
func Swatch(c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.SetRGBA(0, 0, c)
	return img
}

// BackgroundSpec sizes the repeating row background.
type BackgroundSpec struct {
	Width          int
	Height         int
	NowStart       int
	NowWidth       int
	DividerWidth   int
	IntervalPixels int
	NowColor       color.RGBA
	StippleColor   color.RGBA
}

// NewBackgroundSpec derives the background geometry from l.
func NewBackgroundSpec(l *layout.Layout, style Style) (BackgroundSpec, error) {
	nowStart, err := l.NowBarStart()
	if err != nil {
		return BackgroundSpec{}, err
	}
	nowWidth, err := l.NowBarWidth()
	if err != nil {
		return BackgroundSpec{}, err
	}
	p := l.Params()
	return BackgroundSpec{
		Width:          l.ExtentWidth(),
		Height:         style.BarHeight + 1,
		NowStart:       nowStart,
		NowWidth:       nowWidth,
		DividerWidth:   p.MinBarWidth,
		IntervalPixels: p.IntervalPixels,
		NowColor:       style.NowBarColor,
		StippleColor:   style.StippleColor,
	}, nil
}

// Background draws a dotted baseline, pairs of light and dark divider
// ticks every interval, the now box, and a stipple over the future.
// Undrawn pixels stay transparent.
func Background(spec BackgroundSpec) *image.RGBA {
	w, h := max(spec.Width, 1), max(spec.Height, 1)
	img := image.NewRGBA(image.Rect(0, 0, w, h))

	for x := 1; x < w; x += 2 {
		img.SetRGBA(x, h-1, lightDivider)
	}

	interval := max(spec.IntervalPixels, 1)
	dividers := func(start int, c color.RGBA) {
		for i := start; i <= w; i += interval {
			left := i - spec.DividerWidth/2
			right := left + spec.DividerWidth - 1
			fillRect(img, left, 0, left, h-1, c)
			fillRect(img, right, 0, right, h-1, c)
		}
	}
	dividers(spec.DividerWidth/2, lightDivider)
	dividers(interval/2+spec.DividerWidth/2, darkDivider)

	fillRect(img, spec.NowStart, 0, spec.NowStart+spec.NowWidth-1, h-1, spec.NowColor)

	for y := 0; y < h; y += 2 {
		for x := spec.NowStart + spec.NowWidth; x < w; x++ {
			if x%2 == 1 {
				img.SetRGBA(x, y, spec.StippleColor)
			}
		}
	}
	return img
}

// NowCell draws the "now" navigation image with the now box at offset.
// The on variant carries a border.
func NowCell(width, height, offset int, on bool) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 1; y <= height-2; y++ {
		for x := 1; x <= width-2; x++ {
			if (x+y)%2 == 0 {
				img.SetRGBA(x, y, navStipple)
			}
		}
	}
	fillRect(img, offset, 1, offset+navNowBoxWidth, height-2, navNowBox)
	if on {
		drawRectOutline(img, 1, 0, width-1, height-1, navBorder)
	}
	return img
}

func drawRectOutline(img *image.RGBA, x0, y0, x1, y1 int, c color.RGBA) {
	fillRect(img, x0, y0, x1, y0, c)
	fillRect(img, x0, y1, x1, y1, c)
	fillRect(img, x0, y0, x0, y1, c)
	fillRect(img, x1, y0, x1, y1, c)
}

// VoteKey is the twelve-step yes/no legend.
func VoteKey(style Style) *SlicedImage {
	key := NewSlicedImage(65, 12, style.Diamond)
	for i := 1; i <= 12; i++ {
		key.AddSlice(SliceSpec{
			Height:     12,
			Width:      5,
			LowerSize:  float64(i) / 12,
			Lower:      style.NoColor,
			Divider:    style.NoColor,
			Upper:      style.YesColor,
			Saturation: style.Saturation,
			Brightness: 0.5,
		})
	}
	return key
}

// IntensityKey is the five-step discussion intensity legend.
func IntensityKey(style Style) *SlicedImage {
	key := NewSlicedImage(10, 10, style.Diamond)
	for i := 1; i <= 5; i++ {
		key.AddSlice(SliceSpec{
			Height:     10,
			Width:      2,
			LowerSize:  0.6,
			Lower:      style.NoColor,
			Divider:    style.NoColor,
			Upper:      style.YesColor,
			Saturation: style.Saturation,
			Brightness: 1 - 0.2*float64(i),
		})
	}
	return key
}

// WriteStaticImages writes the background, swatches, keys and now nav
// cells into dir.
func WriteStaticImages(dir string, l *layout.Layout, style Style, nowOffset int) error {
	bg, err := NewBackgroundSpec(l, style)
	if err != nil {
		return err
	}
	images := []struct {
		name string
		img  image.Image
	}{
		{BackgroundFile, Background(bg)},
		{SwatchFile(1), Swatch(style.Color1)},
		{SwatchFile(2), Swatch(style.Color2)},
		{Key1File, VoteKey(style).Image()},
		{Key2File, IntensityKey(style).Image()},
		{NowOnFile, NowCell(style.NavCellWidth, style.NavCellHeight, nowOffset, true)},
		{NowOffFile, NowCell(style.NavCellWidth, style.NavCellHeight, nowOffset, false)},
	}
	for _, item := range images {
		if err := writePNG(filepath.Join(dir, item.name), item.img); err != nil {
			return err
		}
	}
	return nil
}
