// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"strconv"
	"testing"
)

// createTestImage creates a simple test image with the given dimensions.
func createTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, createTestImage(width, height)); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func TestProcess_PNG(t *testing.T) {
	p := NewProcessor(100)

	res, err := p.Process(bytes.NewReader(encodePNG(t, 40, 30)), "seedlings.png")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if res.Filename != "seedlings.png" || res.MimeType != MimeTypePNG {
		t.Errorf("got %q %q", res.Filename, res.MimeType)
	}
	if res.Width != 40 || res.Height != 30 {
		t.Errorf("size = %dx%d, want 40x30", res.Width, res.Height)
	}
	if _, err := png.Decode(bytes.NewReader(res.Data)); err != nil {
		t.Errorf("output is not a PNG: %v", err)
	}
}

func TestProcess_ScalesDownWideImages(t *testing.T) {
	p := NewProcessor(50)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, createTestImage(200, 100), nil); err != nil {
		t.Fatalf("jpeg.Encode: %v", err)
	}

	res, err := p.Process(&buf, "field day.jpeg")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if res.Width != 50 || res.Height != 25 {
		t.Errorf("size = %dx%d, want 50x25", res.Width, res.Height)
	}
	if res.Filename != "field day.jpg" || res.MimeType != MimeTypeJPEG {
		t.Errorf("got %q %q", res.Filename, res.MimeType)
	}

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(res.Data))
	if err != nil {
		t.Fatalf("output is not a JPEG: %v", err)
	}
	if cfg.Width != 50 {
		t.Errorf("encoded width = %d, want 50", cfg.Width)
	}
}

func TestProcess_GIFPassesThrough(t *testing.T) {
	p := NewProcessor(10)

	paletted := image.NewPaletted(image.Rect(0, 0, 30, 20), color.Palette{color.White, color.Black})
	var buf bytes.Buffer
	if err := gif.Encode(&buf, paletted, nil); err != nil {
		t.Fatalf("gif.Encode: %v", err)
	}
	original := bytes.Clone(buf.Bytes())

	res, err := p.Process(&buf, "wave.gif")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if !bytes.Equal(res.Data, original) {
		t.Error("GIF data should not be re-encoded")
	}
	if res.Width != 30 || res.Height != 20 || res.MimeType != MimeTypeGIF {
		t.Errorf("got %dx%d %q", res.Width, res.Height, res.MimeType)
	}
}

func TestProcess_Rejects(t *testing.T) {
	p := NewProcessor(0)
	if p.MaxWidth() != DefaultMaxWidth {
		t.Errorf("MaxWidth() = %d, want %d", p.MaxWidth(), DefaultMaxWidth)
	}

	tests := []struct {
		name string
		data []byte
	}{
		{"text", []byte("hello, world")},
		{"tiff", []byte{0x49, 0x49, 0x2A, 0x00, 0x08, 0x00, 0x00, 0x00}},
		{"empty", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Process(bytes.NewReader(tt.data), "upload.bin")
			if !errors.Is(err, ErrUnsupportedFormat) {
				t.Errorf("err = %v, want ErrUnsupportedFormat", err)
			}
		})
	}

	// Right magic bytes, broken body.
	_, err := p.Process(bytes.NewReader([]byte("\x89PNG\r\n\x1a\nbroken")), "broken.png")
	if err == nil || errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("err = %v, want a decode error", err)
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"jpeg magic bytes", []byte{0xFF, 0xD8, 0xFF, 0xE0}, "jpeg"},
		{"png magic bytes", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, "png"},
		{"gif magic bytes", []byte{0x47, 0x49, 0x46, 0x38, 0x39, 0x61}, "gif"},
		{"webp magic bytes", []byte("RIFF\x00\x00\x00\x00WEBPVP"), "webp"},
		{"unknown", []byte{0x00, 0x01, 0x02, 0x03}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectFormat(tt.data); got != tt.want {
				t.Errorf("detectFormat() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWithExtension(t *testing.T) {
	tests := []struct {
		filename string
		format   string
		want     string
	}{
		{"photo.webp", "jpeg", "photo.jpg"},
		{"photo.JPEG", "jpeg", "photo.jpg"},
		{"chart.png", "png", "chart.png"},
		{"noextension", "gif", "noextension.gif"},
		{"../../etc/passwd.png", "png", "passwd.png"},
		{"", "jpeg", "image.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := withExtension(tt.filename, tt.format); got != tt.want {
				t.Errorf("withExtension(%q, %q) = %q, want %q", tt.filename, tt.format, got, tt.want)
			}
		})
	}
}

func TestApplyOrientation(t *testing.T) {
	for orientation := 0; orientation <= 9; orientation++ {
		t.Run("orientation_"+strconv.Itoa(orientation), func(t *testing.T) {
			result := applyOrientation(createTestImage(20, 10), orientation)

			wantW, wantH := 20, 10
			if orientation >= 5 && orientation <= 8 {
				wantW, wantH = 10, 20
			}
			b := result.Bounds()
			if b.Dx() != wantW || b.Dy() != wantH {
				t.Errorf("size = %dx%d, want %dx%d", b.Dx(), b.Dy(), wantW, wantH)
			}
		})
	}
}

func TestReadExifOrientation_NoExif(t *testing.T) {
	if got := readExifOrientation(bytes.NewReader(encodePNG(t, 2, 2))); got != 1 {
		t.Errorf("readExifOrientation() = %d, want 1", got)
	}
}
