package images

import (
	"image"
	"image/color"

	"github.com/pkg/errors"
	"golang.org/x/image/draw"
)

// NewCanvas returns a width×height image filled with c.
func NewCanvas(width, height int, c color.Color) *image.NRGBA {
	canvas := image.NewNRGBA(image.Rect(0, 0, width, height))
	px := color.NRGBAModel.Convert(c).(color.NRGBA)
	for i := 0; i < len(canvas.Pix); i += 4 {
		canvas.Pix[i] = px.R
		canvas.Pix[i+1] = px.G
		canvas.Pix[i+2] = px.B
		canvas.Pix[i+3] = px.A
	}
	return canvas
}

// Clone copies img into a new NRGBA image with its origin at (0, 0). NRGBA
// sources are copied byte for byte so translucent colors survive unchanged.
func Clone(img image.Image) *image.NRGBA {
	bounds := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))

	if src, ok := img.(*image.NRGBA); ok {
		for y := 0; y < bounds.Dy(); y++ {
			off := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			copy(dst.Pix[y*dst.Stride:(y+1)*dst.Stride], src.Pix[off:off+bounds.Dx()*4])
		}
		return dst
	}

	draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Src)
	return dst
}

// DestinationIn keeps the color of every pixel in img and clamps its alpha to
// the alpha of the pixel at the same position in mask. Pixels where the mask
// is transparent become fully transparent.
//
// Arguments:
// - img: The image whose colors are kept.
// - mask: The alpha mask. Only its alpha channel is read.
//
// Returns:
// - A new image with the bounds of img, origin at (0, 0).
// - error if the two images differ in size.
//
// @example
// masked, err := images.DestinationIn(resized, roundedRect)
func DestinationIn(img, mask image.Image) (*image.NRGBA, error) {
	ib, mb := img.Bounds(), mask.Bounds()
	if ib.Dx() != mb.Dx() || ib.Dy() != mb.Dy() {
		return nil, errors.Errorf("mask size %dx%d does not match image size %dx%d",
			mb.Dx(), mb.Dy(), ib.Dx(), ib.Dy())
	}

	dst := Clone(img)

	for y := 0; y < ib.Dy(); y++ {
		row := dst.Pix[y*dst.Stride : y*dst.Stride+ib.Dx()*4]
		for x := 0; x < ib.Dx(); x++ {
			row[x*4+3] = min(row[x*4+3], alphaAt(mask, mb.Min.X+x, mb.Min.Y+y))
		}
	}

	return dst, nil
}

// Flatten composites img over an opaque canvas of background with the
// source-over rule.
//
// Arguments:
// - img: The foreground image.
// - background: The canvas color. Its alpha is forced to opaque.
//
// Returns:
// - A new, fully opaque image with the size of img.
func Flatten(img image.Image, background color.Color) *image.NRGBA {
	bg := color.NRGBAModel.Convert(background).(color.NRGBA)
	bg.A = 0xff

	bounds := img.Bounds()
	canvas := NewCanvas(bounds.Dx(), bounds.Dy(), bg)
	draw.Draw(canvas, canvas.Bounds(), img, bounds.Min, draw.Over)

	return canvas
}

// alphaAt returns the 8-bit alpha of m at (x, y).
func alphaAt(m image.Image, x, y int) uint8 {
	switch m := m.(type) {
	case *image.RGBA:
		return m.Pix[m.PixOffset(x, y)+3]
	case *image.NRGBA:
		return m.Pix[m.PixOffset(x, y)+3]
	case *image.Alpha:
		return m.Pix[m.PixOffset(x, y)]
	}
	_, _, _, a := m.At(x, y).RGBA()
	return uint8(a >> 8)
}
