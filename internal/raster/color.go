package raster

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"MyLocalPaint/internal/state"
)

// ErrBadHex is returned by ParseHex for strings that are not #rgb, #rrggbb or #rrggbbaa.
var ErrBadHex = errors.New("invalid hex color")

// ParseHex parses a CSS-style hex color. The leading '#' is optional.
func ParseHex(s string) (color.NRGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(h) {
	case 3:
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]}) + "ff"
	case 6:
		h += "ff"
	case 8:
	default:
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrBadHex, s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrBadHex, s)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// Hex formats c as #rrggbb, or #rrggbbaa when it is not opaque.
func Hex(c color.NRGBA) string {
	if c.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// WithOpacity scales the alpha of c by opacity, which is clamped to [0,1].
func WithOpacity(c color.NRGBA, opacity float64) color.NRGBA {
	c.A = uint8(math.Round(float64(c.A) * state.Clamp01(opacity)))
	return c
}

// Premultiplied converts c to the premultiplied form stored in an *image.RGBA.
func Premultiplied(c color.NRGBA) color.RGBA {
	return color.RGBAModel.Convert(c).(color.RGBA)
}
