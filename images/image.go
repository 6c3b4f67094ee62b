// Package images - raster helpers for the icon pipeline: decoding, cover-fit
// resizing, alpha compositing and PNG encoding.
package images

import (
	"bytes"
	"image"
	"os"

	"github.com/pkg/errors"
)

// Image represents an encoded image with a format, data, width, and height.
type Image struct {
	// The format of the image.
	Format ImageFormat `json:"format" yaml:"format"`
	// The data of the image.
	Data []byte `json:"data" yaml:"data"`
	// The width of the image.
	Width int `json:"width" yaml:"width"`
	// The height of the image.
	Height int `json:"height" yaml:"height"`
}

// ImageFormat represents supported image formats.
type ImageFormat string

const (
	// FormatJPEG is the JPEG image format.
	FormatJPEG ImageFormat = "jpeg"
	// FormatPNG is the PNG image format.
	FormatPNG ImageFormat = "png"
	// FormatGIF is the GIF image format.
	FormatGIF ImageFormat = "gif"
	// FormatWebP is the WebP image format.
	FormatWebP ImageFormat = "webp"
	// FormatBMP is the BMP image format.
	FormatBMP ImageFormat = "bmp"
	// FormatTIFF is the TIFF image format.
	FormatTIFF ImageFormat = "tiff"
)

// Load reads the file at path and sniffs its format and dimensions without
// decoding the pixel data.
//
// Arguments:
// - path: The path of the image file.
//
// Returns:
// - The encoded image with its header metadata populated.
// - error if the file cannot be read or is not a supported image.
//
// @example
// img, err := images.Load("logo.png")
//
//	if err != nil {
//	    return err
//	}
func Load(path string) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return FromBytes(data)
}

// FromBytes wraps raw encoded bytes in an Image after reading the header.
//
// Arguments:
// - data: The encoded image bytes.
//
// Returns:
// - The encoded image with its header metadata populated.
// - error if the data is empty or the format is not recognized.
func FromBytes(data []byte) (*Image, error) {
	if len(data) == 0 {
		return nil, errors.New("image data is empty")
	}

	cfg, name, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "unrecognized image header")
	}

	return &Image{
		Format: ImageFormat(name),
		Data:   data,
		Width:  cfg.Width,
		Height: cfg.Height,
	}, nil
}
