package images

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// getStripedImage returns a width×height image whose left half is red and
// right half is blue.
func getStripedImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if x < width/2 {
				img.Set(x, y, color.RGBA{R: 255, A: 255})
			} else {
				img.Set(x, y, color.RGBA{B: 255, A: 255})
			}
		}
	}
	return img
}

func getPNGBytes(t *testing.T, img image.Image) []byte {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func getJPEGBytes(t *testing.T, img image.Image) []byte {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95}))
	return buf.Bytes()
}

func TestCoverCrop(t *testing.T) {
	tests := []struct {
		name   string
		bounds image.Rectangle
		want   image.Rectangle
	}{
		{"square", image.Rect(0, 0, 64, 64), image.Rect(0, 0, 64, 64)},
		{"landscape", image.Rect(0, 0, 400, 200), image.Rect(100, 0, 300, 200)},
		{"portrait", image.Rect(0, 0, 300, 600), image.Rect(0, 150, 300, 450)},
		{"odd overflow", image.Rect(0, 0, 5, 2), image.Rect(1, 0, 3, 2)},
		{"offset origin", image.Rect(10, 20, 50, 40), image.Rect(20, 20, 40, 40)},
		{"thin", image.Rect(0, 0, 1, 4096), image.Rect(0, 2047, 1, 2048)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CoverCrop(tt.bounds)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got.Dx(), got.Dy(), "crop must be square")
		})
	}
}

func TestResizeCover(t *testing.T) {
	for _, filter := range []ResampleFilter{
		NearestNeighborFilter, BilinearFilter, BicubicFilter,
		MitchellNetravaliFilter, Lanczos2Filter, Lanczos3Filter,
	} {
		t.Run(filter.String(), func(t *testing.T) {
			out, err := ResizeCover(getStripedImage(200, 100), 64, filter)
			require.NoError(t, err)
			assert.Equal(t, image.Rect(0, 0, 64, 64), out.Bounds())
		})
	}
}

// TestResizeCoverCentersCrop checks that overflow is cropped evenly: a
// landscape red|blue image keeps both halves around the center column.
func TestResizeCoverCentersCrop(t *testing.T) {
	out, err := ResizeCover(getStripedImage(400, 100), 100, NearestNeighborFilter)
	require.NoError(t, err)

	left := out.NRGBAAt(10, 50)
	right := out.NRGBAAt(89, 50)
	assert.Equal(t, uint8(255), left.R, "left of center should be red")
	assert.Equal(t, uint8(255), right.B, "right of center should be blue")
	assert.Equal(t, uint8(255), left.A)
	assert.Equal(t, uint8(255), right.A)
}

func TestResizeCoverDoesNotAlias(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 32, 32))
	out, err := ResizeCover(src, 32, Lanczos3Filter)
	require.NoError(t, err)

	out.Pix[0] = 42
	assert.Equal(t, uint8(0), src.Pix[0], "source must not be modified through the result")
}

// TestResizeCoverThinInput checks that a very narrow source is cropped before
// it is scaled, so memory stays close to the size of the output.
func TestResizeCoverThinInput(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 512))
	for i := 0; i < len(src.Pix); i += 4 {
		copy(src.Pix[i:i+4], []uint8{0, 128, 255, 255})
	}

	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)

	out, err := ResizeCover(src, 512, Lanczos3Filter)

	runtime.ReadMemStats(&after)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 512, 512), out.Bounds())
	assert.Equal(t, color.NRGBA{G: 128, B: 255, A: 255}, out.NRGBAAt(256, 256))

	allocated := after.TotalAlloc - before.TotalAlloc
	assert.Less(t, allocated, uint64(32<<20), "allocated %d bytes for a 1 MiB icon", allocated)
}

func TestResizeCoverErrors(t *testing.T) {
	_, err := ResizeCover(getStripedImage(10, 10), 0, Lanczos3Filter)
	assert.Error(t, err, "zero size should fail")

	_, err = ResizeCover(image.NewRGBA(image.Rect(0, 0, 0, 0)), 16, Lanczos3Filter)
	assert.Error(t, err, "empty source should fail")

	_, err = ResizeCover(getStripedImage(10, 10), 16, ResampleFilter(99))
	assert.Error(t, err, "unknown filter should fail")
}

func TestParseFilter(t *testing.T) {
	f, err := ParseFilter("")
	require.NoError(t, err)
	assert.Equal(t, DefaultFilter, f)

	f, err = ParseFilter(" Bicubic ")
	require.NoError(t, err)
	assert.Equal(t, BicubicFilter, f)

	_, err = ParseFilter("sinc")
	assert.Error(t, err)
}

func TestDecode(t *testing.T) {
	src := getStripedImage(40, 20)

	tests := []struct {
		name   string
		data   []byte
		format ImageFormat
	}{
		{"png", getPNGBytes(t, src), FormatPNG},
		{"jpeg", getJPEGBytes(t, src), FormatJPEG},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := FromBytes(tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.format, img.Format)
			assert.Equal(t, 40, img.Width)
			assert.Equal(t, 20, img.Height)

			decoded, err := Decode(img)
			require.NoError(t, err)
			assert.Equal(t, 40, decoded.Bounds().Dx())
			assert.Equal(t, 20, decoded.Bounds().Dy())
		})
	}
}

func TestDecodeInvalid(t *testing.T) {
	_, err := FromBytes(nil)
	assert.Error(t, err, "empty data should fail")

	_, err = FromBytes([]byte("not an image"))
	assert.Error(t, err, "garbage should fail")

	_, err = Decode(&Image{Format: FormatPNG, Data: []byte("\x89PNG\r\n\x1a\ntruncated")})
	assert.Error(t, err, "truncated png should fail")

	_, err = Decode(nil)
	assert.Error(t, err)
}

func TestEncodePNGRoundTrip(t *testing.T) {
	src := NewCanvas(8, 8, color.NRGBA{R: 10, G: 20, B: 30, A: 128})

	var buf bytes.Buffer
	require.NoError(t, EncodePNG(&buf, src))

	decoded, err := png.Decode(&buf)
	require.NoError(t, err)
	nrgba, ok := decoded.(*image.NRGBA)
	require.True(t, ok, "translucent png should decode as NRGBA")
	assert.Equal(t, color.NRGBA{R: 10, G: 20, B: 30, A: 128}, nrgba.NRGBAAt(3, 3))
}
