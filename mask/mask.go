// Package mask renders the rounded-rectangle alpha masks that clip app icons.
package mask

import (
	"bytes"
	"fmt"
	"image"
	"math"

	"github.com/pkg/errors"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// CornerRatio approximates Apple's historical icon corner-radius-to-size ratio.
const CornerRatio = 0.2237

// CornerRadius returns the corner radius in pixels for an icon of the given
// edge length.
//
// @example
// CornerRadius(1024) // 229
// CornerRadius(128)  // 29
func CornerRadius(size int) int {
	return int(math.Round(float64(size) * CornerRatio))
}

// SVG returns the document describing a size×size white rounded rectangle
// with the given corner radius.
func SVG(size, radius int) []byte {
	return []byte(fmt.Sprintf(
		`<svg viewBox="0 0 %[1]d %[1]d" width="%[1]d" height="%[1]d" xmlns="http://www.w3.org/2000/svg">`+
			`<rect x="0" y="0" width="%[1]d" height="%[1]d" rx="%[2]d" ry="%[2]d" fill="white"/>`+
			`</svg>`,
		size, radius))
}

// Render rasterizes the rounded-rectangle mask for a size×size icon onto a
// fully transparent canvas.
//
// Arguments:
// - size: The edge length of the mask in pixels.
//
// Returns:
// - The mask; inside the shape alpha is opaque, outside it is zero, and the
// curved edges are anti-aliased.
// - error if size is not positive or the SVG cannot be parsed.
//
// @example
// m, err := mask.Render(512)
//
//	if err != nil {
//	    return err
//	}
func Render(size int) (*image.RGBA, error) {
	if size <= 0 {
		return nil, errors.Errorf("invalid mask size: %d", size)
	}

	icon, err := oksvg.ReadIconStream(bytes.NewReader(SVG(size, CornerRadius(size))))
	if err != nil {
		return nil, errors.Wrap(err, "parse mask svg")
	}

	icon.SetTarget(0, 0, float64(size), float64(size))

	canvas := image.NewRGBA(image.Rect(0, 0, size, size))
	scanner := rasterx.NewScannerGV(size, size, canvas, canvas.Bounds())
	icon.Draw(rasterx.NewDasher(size, size, scanner), 1.0)

	return canvas, nil
}
