package multipart

import (
	"bytes"
	"errors"
	"regexp"
	"strings"
)

var (
	// ErrNoSeparator is returned for a part missing the double-CRLF sequence
	// between its header block and its content.
	ErrNoSeparator = errors.New("multipart: part has no header/content separator")
	// ErrNoDisposition is returned for a part whose header block has no
	// matchable form-data Content-Disposition line.
	ErrNoDisposition = errors.New("multipart: part has no form-data content disposition")
)

var (
	dispositionRe = regexp.MustCompile(`(?i)content-disposition:\s*form-data;\s*name="([^"]*)"(?:;\s*filename="([^"]*)")?`)
	contentTypeRe = regexp.MustCompile(`(?i)content-type:\s*([^\r\n]+)`)
)

var headerSeparator = []byte("\r\n\r\n")

// partHeader is the parsed header block of a single part.
type partHeader struct {
	name        string
	filename    string
	contentType string
}

// splitPart separates one raw part into its parsed header and its exact
// content bytes. The encoding inserts a CRLF between the content and the next
// boundary; that pair belongs to the framing, not the content, so it is
// stripped here. Skipping the trim would leave two spurious bytes on every
// decoded file.
func splitPart(raw []byte) (partHeader, []byte, error) {
	sep := bytes.Index(raw, headerSeparator)
	if sep < 0 {
		return partHeader{}, nil, ErrNoSeparator
	}
	head := string(raw[:sep])
	m := dispositionRe.FindStringSubmatch(head)
	if m == nil {
		return partHeader{}, nil, ErrNoDisposition
	}
	h := partHeader{name: m[1], filename: m[2]}
	if ct := contentTypeRe.FindStringSubmatch(head); ct != nil {
		h.contentType = strings.TrimSpace(ct[1])
	}
	content := bytes.TrimSuffix(raw[sep+len(headerSeparator):], []byte("\r\n"))
	return h, content, nil
}
