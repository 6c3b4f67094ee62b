package images

import (
	"fmt"
	"image"
	"strings"

	"github.com/nfnt/resize"
	"github.com/pkg/errors"
	"golang.org/x/image/draw"
)

// ResampleFilter defines the resampling algorithm used for image scaling.
type ResampleFilter int

const (
	// NearestNeighborFilter uses nearest-neighbor interpolation (fastest, lowest quality).
	NearestNeighborFilter ResampleFilter = iota
	// BilinearFilter uses bilinear interpolation (fast, good quality).
	BilinearFilter
	// BicubicFilter uses bicubic interpolation (slower, better quality).
	BicubicFilter
	// MitchellNetravaliFilter uses Mitchell-Netravali cubic filter (balanced).
	MitchellNetravaliFilter
	// Lanczos2Filter uses Lanczos resampling with a=2.
	Lanczos2Filter
	// Lanczos3Filter uses Lanczos resampling with a=3 (slowest, best quality).
	Lanczos3Filter
)

// DefaultFilter is the filter used when none is configured.
const DefaultFilter = Lanczos3Filter

var filterNames = map[ResampleFilter]string{
	NearestNeighborFilter:   "nearest",
	BilinearFilter:          "bilinear",
	BicubicFilter:           "bicubic",
	MitchellNetravaliFilter: "mitchell",
	Lanczos2Filter:          "lanczos2",
	Lanczos3Filter:          "lanczos3",
}

var interpolations = map[ResampleFilter]resize.InterpolationFunction{
	NearestNeighborFilter:   resize.NearestNeighbor,
	BilinearFilter:          resize.Bilinear,
	BicubicFilter:           resize.Bicubic,
	MitchellNetravaliFilter: resize.MitchellNetravali,
	Lanczos2Filter:          resize.Lanczos2,
	Lanczos3Filter:          resize.Lanczos3,
}

// String returns the configuration name of the filter.
func (f ResampleFilter) String() string {
	if name, ok := filterNames[f]; ok {
		return name
	}
	return fmt.Sprintf("ResampleFilter(%d)", int(f))
}

// ParseFilter resolves a filter by its configuration name. An empty name
// yields DefaultFilter.
//
// Arguments:
// - name: One of nearest, bilinear, bicubic, mitchell, lanczos2, lanczos3.
//
// Returns:
// - The matching filter.
// - error if the name is unknown.
func ParseFilter(name string) (ResampleFilter, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return DefaultFilter, nil
	}
	for f, n := range filterNames {
		if n == name {
			return f, nil
		}
	}
	return DefaultFilter, errors.Errorf("unknown resample filter %q", name)
}

// subImager is implemented by every image type in the standard library.
type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

// CoverCrop returns the largest square centered in bounds. Scaling that
// square to size×size is the same as scaling the whole image to cover
// size×size and cropping the overflow evenly from both ends of the longer
// side.
func CoverCrop(bounds image.Rectangle) image.Rectangle {
	side := min(bounds.Dx(), bounds.Dy())
	minPt := bounds.Min.Add(image.Pt((bounds.Dx()-side)/2, (bounds.Dy()-side)/2))
	return image.Rectangle{Min: minPt, Max: minPt.Add(image.Pt(side, side))}
}

// ResizeCover scales img so that it fills a size×size square without
// distortion and center-crops whatever overflows on the longer side. The
// crop happens before scaling, so memory use follows the source and the
// output, never the scaled overflow.
//
// Arguments:
// - img: The source image.
// - size: The edge length of the output square in pixels.
// - filter: The resampling filter to use for interpolation.
//
// Returns:
// - A new size×size image; img is never modified.
// - error if size or the source bounds are empty.
//
// @example
// square, err := images.ResizeCover(src, 512, images.Lanczos3Filter)
func ResizeCover(img image.Image, size int, filter ResampleFilter) (*image.NRGBA, error) {
	if size <= 0 {
		return nil, errors.Errorf("invalid target size: %d", size)
	}

	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, errors.Errorf("invalid image dimensions: %dx%d", bounds.Dx(), bounds.Dy())
	}

	interp, ok := interpolations[filter]
	if !ok {
		return nil, errors.Errorf("unsupported resample filter: %s", filter)
	}

	square := cropSquare(img, CoverCrop(bounds))
	if square.Bounds().Dx() == size {
		return square, nil
	}

	scaled := resize.Resize(uint(size), uint(size), square, interp)
	if out, ok := scaled.(*image.NRGBA); ok && out.Rect.Min == (image.Point{}) {
		return out, nil
	}
	return Clone(scaled), nil
}

// cropSquare copies the part of img inside r into a new image with its origin
// at (0, 0).
func cropSquare(img image.Image, r image.Rectangle) *image.NRGBA {
	if sub, ok := img.(subImager); ok {
		return Clone(sub.SubImage(r))
	}

	dst := image.NewNRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(dst, dst.Bounds(), img, r.Min, draw.Src)
	return dst
}
