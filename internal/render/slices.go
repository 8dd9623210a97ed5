package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"
	"sort"
)

// Diamond shapes the subitem markers drawn onto bars.
type Diamond struct {
	Width          int
	LeftMargin     int
	VerticalMargin int
}

// DefaultDiamond is the stock 7 pixel marker.
var DefaultDiamond = Diamond{Width: 7, LeftMargin: 2}

// SliceSpec is one vertical band of a sliced image. The band is split
// horizontally: the bottom LowerSize share is Lower, a one pixel Divider
// line sits above it, and the rest is Upper. All three colours are tinted by
// Saturation and Brightness.
type SliceSpec struct {
	// Height of the band; zero means the full image height.
	Height     int
	Width      int
	LowerSize  float64
	Lower      color.RGBA
	Divider    color.RGBA
	Upper      color.RGBA
	Saturation float64
	Brightness float64
}

// Solid is a single colour band.
func Solid(width int, c color.RGBA) SliceSpec {
	return SliceSpec{Width: width, LowerSize: 1, Lower: c, Divider: c, Upper: c, Saturation: 1, Brightness: 1}
}

// SlicedImage is a bar built from left-to-right bands.
type SlicedImage struct {
	img     *image.RGBA
	xOffset int
	diamond Diamond
}

// NewSlicedImage returns an empty width x height image.
func NewSlicedImage(width, height int, diamond Diamond) *SlicedImage {
	return &SlicedImage{
		img:     image.NewRGBA(image.Rect(0, 0, max(width, 1), max(height, 1))),
		diamond: diamond,
	}
}

// Image exposes the drawn pixels.
func (s *SlicedImage) Image() *image.RGBA { return s.img }

// Offset is the X coordinate where the next slice starts.
func (s *SlicedImage) Offset() int { return s.xOffset }

// AddSlice draws spec at the current offset and advances past it. Bands
// are filled inclusive of their right edge, so each band bleeds one column
// into the next until that one is drawn.
func (s *SlicedImage) AddSlice(spec SliceSpec) {
	height := spec.Height
	if height <= 0 {
		height = s.img.Bounds().Dy()
	}
	upperHeight := int(math.Round(float64(height) - float64(height)*spec.LowerSize))
	x0, x1 := s.xOffset, s.xOffset+spec.Width

	fillRect(s.img, x0, upperHeight+1, x1, height, Tint(spec.Lower, spec.Saturation, spec.Brightness))
	fillRect(s.img, x0, upperHeight, x1, upperHeight+1, Tint(spec.Divider, spec.Saturation, spec.Brightness))
	fillRect(s.img, x0, 0, x1, upperHeight, Tint(spec.Upper, spec.Saturation, spec.Brightness))

	s.xOffset += spec.Width
}

// DrawDiamond draws a white marker whose bounding box starts at x.
func (s *SlicedImage) DrawDiamond(x int) {
	h := s.img.Bounds().Dy()
	d := s.diamond
	mid := x + (d.Width+1)/2
	points := []image.Point{
		{X: mid, Y: h - 1 - d.VerticalMargin},
		{X: x + d.Width - 1, Y: (h - 1) / 2},
		{X: mid, Y: d.VerticalMargin},
		{X: x + d.LeftMargin, Y: h / 2},
	}
	fillPolygon(s.img, points, White)
}

// DrawFilledSlice paints width columns starting at x without moving the
// slice offset.
func (s *SlicedImage) DrawFilledSlice(x, width int, c color.RGBA) {
	fillRect(s.img, x, 0, x+width-1, s.img.Bounds().Dy(), c)
}

// Encode writes the image as PNG.
func (s *SlicedImage) Encode(w io.Writer) error {
	return png.Encode(w, s.img)
}

// WritePNG writes the image to path.
func (s *SlicedImage) WritePNG(path string) error {
	return writePNG(path, s.img)
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

// fillRect fills the rectangle with corners (x0,y0) and (x1,y1), both
// inclusive, clipped to the image.
func fillRect(img *image.RGBA, x0, y0, x1, y1 int, c color.RGBA) {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	r := image.Rect(x0, y0, x1+1, y1+1).Intersect(img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

// fillPolygon scan-fills a simple polygon, edges included.
func fillPolygon(img *image.RGBA, points []image.Point, c color.RGBA) {
	if len(points) < 3 {
		return
	}
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points[1:] {
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
	}
	xs := make([]int, 0, len(points))
	for y := minY; y <= maxY; y++ {
		xs = xs[:0]
		for i := range points {
			a, b := points[i], points[(i+1)%len(points)]
			if a.Y == b.Y {
				continue
			}
			if a.Y > b.Y {
				a, b = b, a
			}
			if y < a.Y || y > b.Y || (y == b.Y && y != maxY) {
				continue
			}
			x := float64(a.X) + float64(y-a.Y)*float64(b.X-a.X)/float64(b.Y-a.Y)
			xs = append(xs, int(math.Round(x)))
		}
		sort.Ints(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			fillRect(img, xs[i], y, xs[i+1], y, c)
		}
	}
}
