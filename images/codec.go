package images

import (
	"bytes"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/chai2010/webp"
	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// pngEncoder encodes at maximum compression effort.
var pngEncoder = png.Encoder{CompressionLevel: png.BestCompression}

// Decode decodes the image data into an image.Image.
//
// Arguments:
// - img: The image to decode.
//
// Returns:
// - The decoded image.
// - error if decoding fails.
//
// @example
// decoded, err := images.Decode(img)
//
//	if err != nil {
//	    return nil, err
//	}
func Decode(img *Image) (image.Image, error) {
	if img == nil {
		return nil, errors.New("image is nil")
	}
	if len(img.Data) == 0 {
		return nil, errors.New("image data is empty")
	}

	reader := bytes.NewReader(img.Data)

	switch img.Format {
	case FormatJPEG:
		return jpeg.Decode(reader)
	case FormatPNG:
		return png.Decode(reader)
	case FormatWebP:
		return webp.Decode(reader)
	default:
		// Try auto-detection.
		decoded, _, err := image.Decode(reader)
		return decoded, err
	}
}

// DecodeFile loads and decodes the image at path.
func DecodeFile(path string) (image.Image, error) {
	img, err := Load(path)
	if err != nil {
		return nil, err
	}
	decoded, err := Decode(img)
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s image", img.Format)
	}
	return decoded, nil
}

// EncodePNG writes img to w as a PNG using best compression.
func EncodePNG(w io.Writer, img image.Image) error {
	return pngEncoder.Encode(w, img)
}
