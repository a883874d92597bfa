// Package sniff classifies upload content by its leading bytes. Client-
// declared filenames and content types are never consulted: a buffer is what
// its magic numbers say it is.
package sniff

import (
	"bytes"
	"errors"

	"github.com/gabriel-vasile/mimetype"
)

// Classification is the detected content kind of a buffer.
type Classification int

const (
	Unknown Classification = iota
	JPEG
	PNG
	GIF
	WebP
	PDF
)

// ErrTruncatedPDF is returned when a buffer opens with the PDF signature but
// its trailing window carries no EOF marker. Such a file is treated as
// truncated rather than as a PDF.
var ErrTruncatedPDF = errors.New("sniff: pdf signature present but no EOF marker in trailing window")

// pdfTrailerWindow is how far from the end of the buffer the EOF marker may
// sit. Real-world producers append updates after the marker, so it is rarely
// the literal last byte.
const pdfTrailerWindow = 1024

var (
	jpegMagic = []byte{0xFF, 0xD8, 0xFF}
	pngMagic  = []byte{0x89, 0x50, 0x4E, 0x47}
	gifMagic  = []byte("GIF")
	riffMagic = []byte("RIFF")
	webpMagic = []byte("WEBP")
	pdfMagic  = []byte("%PDF")
	eofMarker = []byte("%%eof")
)

// Classify inspects the buffer's magic numbers in a fixed order. Buffers
// shorter than any signature classify as Unknown; no check reads out of
// bounds. No pixel or document structure is decoded here: classification must
// run before any transcoding, which is undefined on misclassified bytes.
func Classify(b []byte) (Classification, error) {
	switch {
	case bytes.HasPrefix(b, jpegMagic):
		return JPEG, nil
	case bytes.HasPrefix(b, pngMagic):
		return PNG, nil
	case bytes.HasPrefix(b, gifMagic):
		return GIF, nil
	case isWebP(b):
		return WebP, nil
	case bytes.HasPrefix(b, pdfMagic):
		if !hasEOFMarker(b) {
			return Unknown, ErrTruncatedPDF
		}
		return PDF, nil
	}
	return Unknown, nil
}

// isWebP requires both the RIFF container signature and the WEBP form type at
// bytes 8-11.
func isWebP(b []byte) bool {
	return len(b) >= 12 && bytes.HasPrefix(b, riffMagic) && bytes.Equal(b[8:12], webpMagic)
}

// hasEOFMarker scans the last pdfTrailerWindow bytes for a case-insensitive
// %%EOF.
func hasEOFMarker(b []byte) bool {
	tail := b
	if len(tail) > pdfTrailerWindow {
		tail = tail[len(tail)-pdfTrailerWindow:]
	}
	return bytes.Contains(bytes.ToLower(tail), eofMarker)
}

// IsImage reports whether the classification is one of the supported raster
// image kinds.
func (c Classification) IsImage() bool {
	switch c {
	case JPEG, PNG, GIF, WebP:
		return true
	}
	return false
}

// MIMEType returns the canonical media type for the classification.
func (c Classification) MIMEType() string {
	switch c {
	case JPEG:
		return "image/jpeg"
	case PNG:
		return "image/png"
	case GIF:
		return "image/gif"
	case WebP:
		return "image/webp"
	case PDF:
		return "application/pdf"
	}
	return "application/octet-stream"
}

func (c Classification) String() string {
	switch c {
	case JPEG:
		return "jpeg"
	case PNG:
		return "png"
	case GIF:
		return "gif"
	case WebP:
		return "webp"
	case PDF:
		return "pdf"
	}
	return "unknown"
}

// DetectMIME reports the media type detected from content. It is used to
// describe rejected buffers in failure messages; classification itself never
// trusts it.
func DetectMIME(b []byte) string {
	return mimetype.Detect(b).String()
}
