// Package imaging measures, fits, and re-encodes raster images for
// embedding in a document.
package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"math"
	"strings"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Sentinel errors for image handling.
var (
	ErrEmpty    = errors.New("empty image data")
	ErrDecode   = errors.New("cannot decode image")
	ErrZeroSize = errors.New("image has zero dimensions")
	ErrDataURL  = errors.New("malformed data URL")
)

// Decoder format names as registered with the image package.
const (
	FormatPNG  = "png"
	FormatJPEG = "jpeg"
	FormatGIF  = "gif"
	FormatBMP  = "bmp"
	FormatWebP = "webp"
	FormatTIFF = "tiff"
)

// Image is decoded-enough image data ready for embedding.
type Image struct {
	Data   []byte
	Format string
	Width  int
	Height int
}

// Measure returns the intrinsic pixel size and format of data without
// decoding the pixels.
func Measure(data []byte) (Image, error) {
	if len(data) == 0 {
		return Image{}, ErrEmpty
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Image{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return Image{}, ErrZeroSize
	}
	return Image{Data: data, Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}

// Embeddable reports whether format can be stored in a document unchanged.
func Embeddable(format string) bool {
	switch format {
	case FormatPNG, FormatJPEG, FormatGIF, FormatBMP:
		return true
	}
	return false
}

// Prepare measures data and re-encodes formats a word processor cannot
// display (WebP, TIFF) to PNG.
func Prepare(data []byte) (Image, error) {
	img, err := Measure(data)
	if err != nil {
		return Image{}, err
	}
	if Embeddable(img.Format) {
		return img, nil
	}

	decoded, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Image{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	out, err := encodePNG(decoded)
	if err != nil {
		return Image{}, err
	}
	return Image{Data: out, Format: FormatPNG, Width: img.Width, Height: img.Height}, nil
}

// Fit scales w x h down to fit within maxW x maxH, preserving the aspect
// ratio. Width is constrained first, then height. Images already inside
// the box are returned unchanged; non-positive bounds are ignored.
func Fit(w, h, maxW, maxH float64) (float64, float64) {
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	if maxW > 0 && w > maxW {
		h = h * maxW / w
		w = maxW
	}
	if maxH > 0 && h > maxH {
		w = w * maxH / h
		h = maxH
	}
	return w, h
}

// Downscale decodes data and, when it is wider than maxWidth pixels,
// resamples it to maxWidth with bilinear filtering. The result is PNG.
func Downscale(data []byte, maxWidth int) (Image, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Image{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	b := src.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return Image{}, ErrZeroSize
	}
	if maxWidth <= 0 || b.Dx() <= maxWidth {
		out, err := encodePNG(src)
		if err != nil {
			return Image{}, err
		}
		return Image{Data: out, Format: FormatPNG, Width: b.Dx(), Height: b.Dy()}, nil
	}

	h := int(math.Round(float64(b.Dy()) * float64(maxWidth) / float64(b.Dx())))
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, h))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	out, err := encodePNG(dst)
	if err != nil {
		return Image{}, err
	}
	return Image{Data: out, Format: FormatPNG, Width: maxWidth, Height: h}, nil
}

// Flatten composites data over an opaque background and returns PNG.
func Flatten(data []byte, bg color.Color) (Image, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Image{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	b := src.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return Image{}, ErrZeroSize
	}
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Over)
	out, err := encodePNG(dst)
	if err != nil {
		return Image{}, err
	}
	return Image{Data: out, Format: FormatPNG, Width: b.Dx(), Height: b.Dy()}, nil
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding png: %w", err)
	}
	return buf.Bytes(), nil
}

// IsDataURL reports whether src is an inline data: URL.
func IsDataURL(src string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(src)), "data:")
}

// DecodeDataURL returns the payload of a base64 image data URL such as
// "data:image/png;base64,....".
func DecodeDataURL(src string) ([]byte, error) {
	src = strings.TrimSpace(src)
	if !IsDataURL(src) {
		return nil, fmt.Errorf("%w: missing data: scheme", ErrDataURL)
	}
	header, payload, ok := strings.Cut(src[len("data:"):], ",")
	if !ok {
		return nil, fmt.Errorf("%w: missing payload", ErrDataURL)
	}
	header = strings.ToLower(header)
	if !strings.HasPrefix(header, "image/") || !strings.HasSuffix(header, ";base64") {
		return nil, fmt.Errorf("%w: want image/*;base64, got %q", ErrDataURL, header)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		// Some producers drop the padding.
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataURL, err)
	}
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	return data, nil
}
