package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func pngBytes(t *testing.T, img image.Image) []byte {
	t.Helper()

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode() error = %v", err)
	}
	return buf.Bytes()
}

func TestMeasure(t *testing.T) {
	t.Parallel()

	red := color.RGBA{R: 255, A: 255}
	var jpg, bm, tf bytes.Buffer
	if err := jpeg.Encode(&jpg, solid(30, 20, red), nil); err != nil {
		t.Fatal(err)
	}
	if err := bmp.Encode(&bm, solid(7, 9, red)); err != nil {
		t.Fatal(err)
	}
	if err := tiff.Encode(&tf, solid(5, 4, red), nil); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		data   []byte
		format string
		w, h   int
	}{
		{"png", pngBytes(t, solid(40, 10, red)), FormatPNG, 40, 10},
		{"jpeg", jpg.Bytes(), FormatJPEG, 30, 20},
		{"bmp", bm.Bytes(), FormatBMP, 7, 9},
		{"tiff", tf.Bytes(), FormatTIFF, 5, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Measure(tt.data)
			if err != nil {
				t.Fatalf("Measure() error = %v", err)
			}
			if got.Format != tt.format || got.Width != tt.w || got.Height != tt.h {
				t.Errorf("Measure() = %s %dx%d, want %s %dx%d", got.Format, got.Width, got.Height, tt.format, tt.w, tt.h)
			}
		})
	}
}

func TestMeasure_Errors(t *testing.T) {
	t.Parallel()

	if _, err := Measure(nil); !errors.Is(err, ErrEmpty) {
		t.Errorf("Measure(nil) error = %v, want ErrEmpty", err)
	}
	if _, err := Measure([]byte("not an image")); !errors.Is(err, ErrDecode) {
		t.Errorf("Measure(garbage) error = %v, want ErrDecode", err)
	}
}

func TestPrepare(t *testing.T) {
	t.Parallel()

	blue := color.RGBA{B: 255, A: 255}
	data := pngBytes(t, solid(3, 3, blue))
	got, err := Prepare(data)
	if err != nil {
		t.Fatalf("Prepare(png) error = %v", err)
	}
	if !bytes.Equal(got.Data, data) {
		t.Error("Prepare(png) re-encoded an embeddable image")
	}

	var tf bytes.Buffer
	if err := tiff.Encode(&tf, solid(6, 2, blue), nil); err != nil {
		t.Fatal(err)
	}
	got, err = Prepare(tf.Bytes())
	if err != nil {
		t.Fatalf("Prepare(tiff) error = %v", err)
	}
	if got.Format != FormatPNG || got.Width != 6 || got.Height != 2 {
		t.Errorf("Prepare(tiff) = %s %dx%d", got.Format, got.Width, got.Height)
	}
	if _, err := png.Decode(bytes.NewReader(got.Data)); err != nil {
		t.Errorf("Prepare(tiff) did not produce PNG: %v", err)
	}
}

func TestFit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		w, h       float64
		maxW, maxH float64
		wantW      float64
		wantH      float64
	}{
		{"inside", 100, 50, 491, 756, 100, 50},
		{"too wide", 982, 491, 491, 756, 491, 245.5},
		{"too tall", 100, 1512, 491, 756, 50, 756},
		{"wide then tall", 2000, 4000, 500, 800, 400, 800},
		{"zero", 0, 10, 100, 100, 0, 0},
		{"no bounds", 300, 200, 0, 0, 300, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w, h := Fit(tt.w, tt.h, tt.maxW, tt.maxH)
			if math.Abs(w-tt.wantW) > 1e-9 || math.Abs(h-tt.wantH) > 1e-9 {
				t.Errorf("Fit() = %v x %v, want %v x %v", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestFit_Bounds(t *testing.T) {
	t.Parallel()

	const maxW, maxH = 491.0, 756.0
	for w := 1.0; w < 5000; w *= 1.7 {
		for h := 1.0; h < 5000; h *= 1.9 {
			gw, gh := Fit(w, h, maxW, maxH)
			if gw > maxW+1e-9 || gh > maxH+1e-9 {
				t.Fatalf("Fit(%v, %v) = %v x %v exceeds bounds", w, h, gw, gh)
			}
			if math.Abs(gw/gh-w/h) > 1e-6*(w/h) {
				t.Fatalf("Fit(%v, %v) changed aspect ratio to %v", w, h, gw/gh)
			}
		}
	}
}

func TestDownscale(t *testing.T) {
	t.Parallel()

	data := pngBytes(t, solid(300, 150, color.Black))

	got, err := Downscale(data, 100)
	if err != nil {
		t.Fatalf("Downscale() error = %v", err)
	}
	if got.Width != 100 || got.Height != 50 {
		t.Errorf("Downscale() = %dx%d, want 100x50", got.Width, got.Height)
	}
	m, err := Measure(got.Data)
	if err != nil || m.Width != 100 || m.Height != 50 {
		t.Errorf("Measure(downscaled) = %+v, %v", m, err)
	}

	got, err = Downscale(data, 1000)
	if err != nil {
		t.Fatalf("Downscale(no-op) error = %v", err)
	}
	if got.Width != 300 {
		t.Errorf("Downscale() widened image to %d", got.Width)
	}
}

func TestFlatten(t *testing.T) {
	t.Parallel()

	transparent := image.NewRGBA(image.Rect(0, 0, 2, 2))
	got, err := Flatten(pngBytes(t, transparent), color.White)
	if err != nil {
		t.Fatalf("Flatten() error = %v", err)
	}
	img, err := png.Decode(bytes.NewReader(got.Data))
	if err != nil {
		t.Fatal(err)
	}
	r, g, b, a := img.At(1, 1).RGBA()
	if r != 0xffff || g != 0xffff || b != 0xffff || a != 0xffff {
		t.Errorf("pixel = %v %v %v %v, want opaque white", r, g, b, a)
	}
}

func TestDecodeDataURL(t *testing.T) {
	t.Parallel()

	payload := []byte{1, 2, 3, 4}
	enc := base64.StdEncoding.EncodeToString(payload)

	tests := []struct {
		name    string
		src     string
		want    []byte
		wantErr error
	}{
		{"png", "data:image/png;base64," + enc, payload, nil},
		{"upper case", "DATA:IMAGE/PNG;BASE64," + enc, payload, nil},
		{"unpadded", "data:image/png;base64," + base64.RawStdEncoding.EncodeToString([]byte{1, 2}), []byte{1, 2}, nil},
		{"not data", "https://example.com/a.png", nil, ErrDataURL},
		{"no comma", "data:image/png;base64", nil, ErrDataURL},
		{"not image", "data:text/plain;base64," + enc, nil, ErrDataURL},
		{"not base64 header", "data:image/svg+xml," + enc, nil, ErrDataURL},
		{"bad payload", "data:image/png;base64,!!!", nil, ErrDataURL},
		{"empty payload", "data:image/png;base64,", nil, ErrEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := DecodeDataURL(tt.src)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("DecodeDataURL() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeDataURL() error = %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("DecodeDataURL() = %v, want %v", got, tt.want)
			}
		})
	}
}
