package render

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// White is the diamond and transparent-background colour.
var White = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

// ParseHex parses "#rrggbb" or "rrggbb".
func ParseHex(value string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(value), "#")
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("colour %q: want 6 hex digits", value)
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("colour %q: %w", value, err)
	}
	return color.RGBA{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n), A: 0xff}, nil
}

// MustParseHex is ParseHex for colour literals known to be valid.
func MustParseHex(value string) color.RGBA {
	c, err := ParseHex(value)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex formats c as "#rrggbb".
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Tint blends c toward a grey of the given brightness. saturation 1 keeps c;
// saturation 0 yields the grey.
func Tint(c color.RGBA, saturation, brightness float64) color.RGBA {
	adjust := func(component uint8) uint8 {
		v := math.Round(float64(component)*saturation + brightness*255*(1-saturation))
		return uint8(min(max(v, 0), 255))
	}
	return color.RGBA{R: adjust(c.R), G: adjust(c.G), B: adjust(c.B), A: 0xff}
}
