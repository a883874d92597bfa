// Package multipart decodes multipart/form-data request bodies by hand.
//
// The decoder works on a fully buffered body: a linear scan splits it at
// boundary markers, each part's header block is parsed for its form-data
// disposition, and file parts are copied out so their content never aliases
// the request buffer. It intentionally does not implement nested multipart,
// transfer encodings, or RFC 2231 filename parameters.
package multipart

import (
	"errors"
	"fmt"
)

// Mode selects how the decoder treats malformed parts.
type Mode int

const (
	// ModeLenient drops malformed parts and keeps decoding, so one bad part
	// does not block files carried in the others. Callers needing at least
	// one file must check Form.Files afterwards.
	ModeLenient Mode = iota
	// ModeStrict aborts the whole decode on the first malformed part. A
	// well-formed part that simply carries no form-data disposition is not
	// malformed and is skipped in both modes.
	ModeStrict
)

// File is a decoded file part. Content is an owned copy; Size always equals
// len(Content).
type File struct {
	FieldName   string
	Filename    string
	ContentType string
	Content     []byte
	Size        int
}

// Form holds everything decoded from one request body.
type Form struct {
	Fields map[string]string
	Files  []File
}

// Decoder splits a raw body into named fields and named files. The zero value
// is a lenient decoder and is safe for concurrent use.
type Decoder struct {
	Mode Mode
}

// Decode splits body at the given boundary and parses every part. Parts with
// a filename become Files, the rest become UTF-8 Fields. Per-part failures
// are skipped or fatal depending on the decoder's Mode.
func (d Decoder) Decode(body []byte, boundary string) (*Form, error) {
	if boundary == "" {
		return nil, ErrNoBoundary
	}
	form := &Form{Fields: make(map[string]string)}
	for r := range Ranges(body, boundary) {
		header, content, err := splitPart(body[r.Start:r.End])
		if err != nil {
			if d.Mode == ModeStrict && !errors.Is(err, ErrNoDisposition) {
				return nil, fmt.Errorf("decode part at offset %d: %w", r.Start, err)
			}
			continue
		}
		if header.filename != "" {
			owned := make([]byte, len(content))
			copy(owned, content)
			form.Files = append(form.Files, File{
				FieldName:   header.name,
				Filename:    header.filename,
				ContentType: header.contentType,
				Content:     owned,
				Size:        len(owned),
			})
			continue
		}
		form.Fields[header.name] = string(content)
	}
	return form, nil
}

// DecodeRequest extracts the boundary token from the content type header and
// decodes body with it. A missing boundary is a hard failure before any
// scanning starts.
func (d Decoder) DecodeRequest(body []byte, contentType string) (*Form, error) {
	boundary, err := ExtractBoundary(contentType)
	if err != nil {
		return nil, err
	}
	return d.Decode(body, boundary)
}
