package appicon

import (
	"image/color"
	"strings"

	"github.com/mazznoer/csscolorparser"
)

// DefaultBackground is the background callers apply when the user does not
// choose one.
const DefaultBackground = "#FFF"

// NoBackground is the keyword that keeps icon corners transparent.
const NoBackground = "none"

// ParseBackground parses a CSS color (named, hex, rgb(), hsl()) into a
// background for Request.Background. It returns nil, meaning no background
// compositing, for the empty string, NoBackground and fully transparent
// colors.
//
// @example
// bg, err := ParseBackground("#1e90ff")
// bg, err := ParseBackground("white")
// bg, err := ParseBackground("none") // nil, nil
func ParseBackground(s string) (color.Color, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, NoBackground) {
		return nil, nil
	}

	c, err := csscolorparser.Parse(s)
	if err != nil {
		return nil, invalidArgument("background color %q: %v", s, err)
	}

	r, g, b, a := c.RGBA255()
	if a == 0 {
		return nil, nil
	}
	return color.NRGBA{R: r, G: g, B: b, A: a}, nil
}
