package sniff

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodedImage(t *testing.T, encode func(*bytes.Buffer, image.Image) error) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 32), G: uint8(y * 32), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, encode(&buf, img))
	return buf.Bytes()
}

func TestClassify_RealEncoders(t *testing.T) {
	jpegBytes := encodedImage(t, func(buf *bytes.Buffer, img image.Image) error {
		return jpeg.Encode(buf, img, nil)
	})
	pngBytes := encodedImage(t, func(buf *bytes.Buffer, img image.Image) error {
		return png.Encode(buf, img)
	})
	gifBytes := encodedImage(t, func(buf *bytes.Buffer, img image.Image) error {
		return gif.Encode(buf, img, nil)
	})

	tests := []struct {
		name string
		data []byte
		want Classification
	}{
		{"jpeg", jpegBytes, JPEG},
		{"png", pngBytes, PNG},
		{"gif", gifBytes, GIF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify(tt.data)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassify_WebP(t *testing.T) {
	// Minimal RIFF container header: signature, chunk size, WEBP form type.
	header := append([]byte("RIFF"), 0x24, 0x00, 0x00, 0x00)
	header = append(header, []byte("WEBP")...)

	got, err := Classify(append(header, make([]byte, 16)...))
	assert.NoError(t, err)
	assert.Equal(t, WebP, got)

	t.Run("riff without webp form type", func(t *testing.T) {
		avi := append([]byte("RIFF"), 0x24, 0x00, 0x00, 0x00)
		avi = append(avi, []byte("AVI ")...)
		got, err := Classify(avi)
		assert.NoError(t, err)
		assert.Equal(t, Unknown, got)
	})

	t.Run("riff shorter than form type offset", func(t *testing.T) {
		got, err := Classify([]byte("RIFF\x10\x00"))
		assert.NoError(t, err)
		assert.Equal(t, Unknown, got)
	})
}

func TestClassify_PDF(t *testing.T) {
	t.Run("valid with trailer", func(t *testing.T) {
		got, err := Classify([]byte("%PDF-1.7\nsome objects\n%%EOF\n"))
		assert.NoError(t, err)
		assert.Equal(t, PDF, got)
	})

	t.Run("eof marker is matched case-insensitively", func(t *testing.T) {
		got, err := Classify([]byte("%PDF-1.4\ncontent\n%%eof"))
		assert.NoError(t, err)
		assert.Equal(t, PDF, got)
	})

	t.Run("signature but no eof marker", func(t *testing.T) {
		_, err := Classify([]byte("%PDF-1.7\nabruptly cut off"))
		assert.ErrorIs(t, err, ErrTruncatedPDF)
	})

	t.Run("eof marker within trailing window", func(t *testing.T) {
		doc := "%PDF-1.5\n" + strings.Repeat("x", 4096) + "\n%%EOF\n" + strings.Repeat("y", 500)
		got, err := Classify([]byte(doc))
		assert.NoError(t, err)
		assert.Equal(t, PDF, got)
	})

	t.Run("eof marker pushed outside trailing window", func(t *testing.T) {
		doc := "%PDF-1.5\ncontent\n%%EOF\n" + strings.Repeat("z", pdfTrailerWindow+1)
		_, err := Classify([]byte(doc))
		assert.ErrorIs(t, err, ErrTruncatedPDF)
	})
}

func TestClassify_Unknown(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"single byte", []byte{0xFF}},
		{"two bytes of jpeg magic", []byte{0xFF, 0xD8}},
		{"plain text", []byte("hello world")},
		{"zip archive", []byte("PK\x03\x04rest of archive")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify(tt.data)
			assert.NoError(t, err)
			assert.Equal(t, Unknown, got)
		})
	}
}

func TestClassificationIsImage(t *testing.T) {
	assert.True(t, JPEG.IsImage())
	assert.True(t, PNG.IsImage())
	assert.True(t, GIF.IsImage())
	assert.True(t, WebP.IsImage())
	assert.False(t, PDF.IsImage())
	assert.False(t, Unknown.IsImage())
}

func TestClassificationMIMEType(t *testing.T) {
	assert.Equal(t, "image/jpeg", JPEG.MIMEType())
	assert.Equal(t, "image/png", PNG.MIMEType())
	assert.Equal(t, "image/gif", GIF.MIMEType())
	assert.Equal(t, "image/webp", WebP.MIMEType())
	assert.Equal(t, "application/pdf", PDF.MIMEType())
	assert.Equal(t, "application/octet-stream", Unknown.MIMEType())
}

func TestDetectMIME(t *testing.T) {
	pngBytes := encodedImage(t, func(buf *bytes.Buffer, img image.Image) error {
		return png.Encode(buf, img)
	})
	assert.Equal(t, "image/png", DetectMIME(pngBytes))
	assert.Equal(t, "text/plain; charset=utf-8", DetectMIME([]byte("just text")))
}
