package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"io/fs"
	"os"
	"path/filepath"
)

var staticPalette = color.Palette{
	color.RGBA{},
	navStipple,
	navBorder,
	color.RGBA{R: 0x66, G: 0x66, B: 0x66, A: 0xff},
}

// staticImages are the fixed images the pages reference under img-static/.
// A prototype directory may supply its own; these fill the gaps.
var staticImages = map[string]func() *image.Paletted{
	"no.gif":           func() *image.Paletted { return newPaletted(1, 1) },
	"past-arrow.gif":   func() *image.Paletted { return arrow(pastArrowWidth, 13, false) },
	"future-arrow.gif": func() *image.Paletted { return arrow(futureArrowWidth, 13, true) },
	"nav-off.gif":      func() *image.Paletted { return navImage(false) },
	"nav-on.gif":       func() *image.Paletted { return navImage(true) },
	"longview-power.gif": func() *image.Paletted {
		img := newPaletted(89, 22)
		outlinePaletted(img, 0, 0, 88, 21, 3)
		return img
	},
}

func newPaletted(w, h int) *image.Paletted {
	return image.NewPaletted(image.Rect(0, 0, w, h), staticPalette)
}

func outlinePaletted(img *image.Paletted, x0, y0, x1, y1 int, index uint8) {
	for x := x0; x <= x1; x++ {
		img.SetColorIndex(x, y0, index)
		img.SetColorIndex(x, y1, index)
	}
	for y := y0; y <= y1; y++ {
		img.SetColorIndex(x0, y, index)
		img.SetColorIndex(x1, y, index)
	}
}

// arrow draws a horizontal shaft with a head at one end.
func arrow(w, h int, right bool) *image.Paletted {
	img := newPaletted(w, h)
	mid := h / 2
	for x := 0; x < w; x++ {
		img.SetColorIndex(x, mid, 3)
	}
	for d := 1; d <= mid; d++ {
		x := d
		if right {
			x = w - 1 - d
		}
		img.SetColorIndex(x, mid-d, 3)
		img.SetColorIndex(x, mid+d, 3)
	}
	return img
}

func navImage(on bool) *image.Paletted {
	img := newPaletted(25, 20)
	for y := 1; y <= 18; y++ {
		for x := 1; x <= 23; x++ {
			if (x+y)%2 == 0 {
				img.SetColorIndex(x, y, 1)
			}
		}
	}
	if on {
		outlinePaletted(img, 1, 0, 24, 19, 2)
	}
	return img
}

// WriteStaticAssets writes the built-in img-static/ images that dir does
// not already contain.
func WriteStaticAssets(dir string) error {
	staticDir := filepath.Join(dir, StaticDir)
	if err := os.MkdirAll(staticDir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", staticDir, err)
	}
	for name, draw := range staticImages {
		path := filepath.Join(staticDir, name)
		if _, err := os.Stat(path); err == nil {
			continue
		} else if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("stat %s: %w", path, err)
		}
		if err := writeGIF(path, draw()); err != nil {
			return err
		}
	}
	return nil
}

func writeGIF(path string, img *image.Paletted) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := gif.Encode(f, img, nil); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
