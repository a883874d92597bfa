package multipart

import (
	"bytes"
	"errors"
	"iter"
	"strings"
)

// ErrNoBoundary is returned when a content type header carries no boundary
// parameter. Decoding cannot even begin without one.
var ErrNoBoundary = errors.New("multipart: no boundary parameter in content type")

// ExtractBoundary pulls the boundary token out of a
// "multipart/form-data; boundary=<token>" content type header.
func ExtractBoundary(contentType string) (string, error) {
	_, after, found := strings.Cut(contentType, "boundary=")
	if !found {
		return "", ErrNoBoundary
	}
	token := after
	if i := strings.IndexByte(token, ';'); i >= 0 {
		token = token[:i]
	}
	token = strings.Trim(strings.TrimSpace(token), `"`)
	if token == "" {
		return "", ErrNoBoundary
	}
	return token, nil
}

// Range is a half-open [Start, End) window into the body handed to Ranges.
type Range struct {
	Start int
	End   int
}

// Ranges yields the byte windows strictly between consecutive occurrences of
// the "--boundary" marker, in order. The sequence is pure: it never mutates
// body and carries no cursor state outside the iteration itself.
//
// The terminal boundary ("--boundary--") needs no special casing here: its
// leading bytes match the marker, so scanning stops at it and the trailing
// "--" remainder is never yielded as content.
func Ranges(body []byte, boundary string) iter.Seq[Range] {
	marker := append([]byte("--"), boundary...)
	return func(yield func(Range) bool) {
		start := bytes.Index(body, marker)
		if start < 0 {
			return
		}
		start += len(marker)
		for {
			rel := bytes.Index(body[start:], marker)
			if rel < 0 {
				return
			}
			end := start + rel
			if start < end && !yield(Range{Start: start, End: end}) {
				return
			}
			start = end + len(marker)
		}
	}
}
