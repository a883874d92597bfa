// Package pdf analyzes and compresses PDF documents. Analysis extracts page
// count, document info, and a best-effort text preview; compression rewrites
// the document structure at a quality tier and optionally strips the info
// dictionary. Both operate on fully buffered bytes and hold no state between
// calls.
package pdf

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	ledongpdf "github.com/ledongthuc/pdf"
)

// previewRunes caps the extracted text preview.
const previewRunes = 200

// DocumentInfo carries the standard info dictionary fields.
type DocumentInfo struct {
	Title    string `json:"title,omitempty"`
	Author   string `json:"author,omitempty"`
	Subject  string `json:"subject,omitempty"`
	Keywords string `json:"keywords,omitempty"`
	Creator  string `json:"creator,omitempty"`
	Producer string `json:"producer,omitempty"`
}

// Metadata is the result of one Analyze call.
type Metadata struct {
	PageCount    int          `json:"pageCount"`
	HasText      bool         `json:"hasText"`
	TextLength   int          `json:"textLength"`
	TextPreview  string       `json:"textPreview"`
	DocumentInfo DocumentInfo `json:"documentInfo"`
	ExtractedAt  time.Time    `json:"extractedAt"`
}

// Analyze opens the document and extracts descriptive metadata. Text
// extraction is best-effort: a failure there leaves HasText false instead of
// aborting the call. An unreadable document is an error: the buffer passed
// signature checks but the parser rejected it.
func Analyze(b []byte) (*Metadata, error) {
	r, err := openReader(b)
	if err != nil {
		return nil, fmt.Errorf("pdf: open document: %w", err)
	}

	meta := &Metadata{
		PageCount:    r.NumPage(),
		DocumentInfo: documentInfo(r),
		ExtractedAt:  time.Now().UTC(),
	}

	if text, ok := plainText(r); ok {
		text = strings.TrimSpace(text)
		meta.HasText = text != ""
		meta.TextLength = utf8.RuneCountInString(text)
		meta.TextPreview = preview(text)
	}
	return meta, nil
}

// openReader fences the underlying parser, which panics on some malformed
// cross-reference tables.
func openReader(b []byte) (r *ledongpdf.Reader, err error) {
	defer func() {
		if p := recover(); p != nil {
			r, err = nil, fmt.Errorf("parser panic: %v", p)
		}
	}()
	return ledongpdf.NewReader(bytes.NewReader(b), int64(len(b)))
}

// documentInfo reads the trailer's Info dictionary. Fenced with recover for
// the same reason as openReader; a panic yields whatever was filled so far.
func documentInfo(r *ledongpdf.Reader) (info DocumentInfo) {
	defer func() { _ = recover() }()
	dict := r.Trailer().Key("Info")
	if dict.IsNull() {
		return
	}
	info.Title = dict.Key("Title").Text()
	info.Author = dict.Key("Author").Text()
	info.Subject = dict.Key("Subject").Text()
	info.Keywords = dict.Key("Keywords").Text()
	info.Creator = dict.Key("Creator").Text()
	info.Producer = dict.Key("Producer").Text()
	return
}

// plainText extracts the document's text, reporting ok=false on any failure.
func plainText(r *ledongpdf.Reader) (text string, ok bool) {
	defer func() {
		if recover() != nil {
			text, ok = "", false
		}
	}()
	rd, err := r.GetPlainText()
	if err != nil {
		return "", false
	}
	var sb strings.Builder
	if _, err := io.Copy(&sb, rd); err != nil {
		return "", false
	}
	return sb.String(), true
}

func preview(text string) string {
	if utf8.RuneCountInString(text) <= previewRunes {
		return text
	}
	return string([]rune(text)[:previewRunes])
}
