package pdf

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jung-kurt/gofpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildPDF synthesizes a real document so the parser and the rewriter are
// exercised against well-formed input rather than handcrafted byte strings.
func buildPDF(t *testing.T, pages int, title, author, body string) []byte {
	t.Helper()
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetTitle(title, true)
	doc.SetAuthor(author, true)
	doc.SetFont("Helvetica", "", 12)
	for i := 0; i < pages; i++ {
		doc.AddPage()
		doc.Cell(40, 10, body)
	}
	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))
	return buf.Bytes()
}

func TestAnalyze(t *testing.T) {
	b := buildPDF(t, 3, "Quarterly Report", "Finance Team", "revenue grew this quarter")

	meta, err := Analyze(b)
	require.NoError(t, err)

	assert.Equal(t, 3, meta.PageCount)
	assert.Equal(t, "Quarterly Report", meta.DocumentInfo.Title)
	assert.Equal(t, "Finance Team", meta.DocumentInfo.Author)
	assert.False(t, meta.ExtractedAt.IsZero())

	if meta.HasText {
		assert.Positive(t, meta.TextLength)
		assert.NotEmpty(t, meta.TextPreview)
	} else {
		assert.Zero(t, meta.TextLength)
		assert.Empty(t, meta.TextPreview)
	}
}

func TestAnalyze_Unparseable(t *testing.T) {
	_, err := Analyze([]byte("%PDF-1.7\nthis is not a real document\n%%EOF"))
	assert.Error(t, err)
}

func TestPreview(t *testing.T) {
	short := "fits entirely"
	assert.Equal(t, short, preview(short))

	long := strings.Repeat("é", previewRunes+50)
	got := preview(long)
	assert.Equal(t, previewRunes, len([]rune(got)))
	assert.Equal(t, strings.Repeat("é", previewRunes), got)
}

func TestCompress(t *testing.T) {
	b := buildPDF(t, 5, "Archive", "Ops", strings.Repeat("compressible text ", 40))

	res := Compress(b, DefaultCompressOptions())

	assert.False(t, res.Skipped)
	assert.Equal(t, len(b), res.OriginalSize)
	assert.Equal(t, len(res.Compressed), res.CompressedSize)
	assert.Equal(t, res.OriginalSize-res.CompressedSize, res.SavingsBytes)
	assert.InDelta(t, float64(res.CompressedSize)/float64(res.OriginalSize), res.CompressionRatio, 1e-9)
	assert.False(t, res.MetadataRemoved)

	// The rewritten document must still parse and keep its page count.
	meta, err := Analyze(res.Compressed)
	require.NoError(t, err)
	assert.Equal(t, 5, meta.PageCount)
}

func TestCompress_Tiers(t *testing.T) {
	b := buildPDF(t, 2, "Tiered", "Ops", "body text")

	for _, tier := range []Tier{TierLow, TierMedium, TierHigh} {
		t.Run(string(tier), func(t *testing.T) {
			res := Compress(b, CompressOptions{Quality: tier})
			assert.False(t, res.Skipped, "tier %s", tier)
			assert.NotEmpty(t, res.Compressed)

			_, err := Analyze(res.Compressed)
			assert.NoError(t, err)
		})
	}
}

func TestCompress_StripMetadata(t *testing.T) {
	b := buildPDF(t, 1, "Confidential Title", "Named Author", "body")

	res := Compress(b, CompressOptions{Quality: TierMedium, StripMetadata: true})
	require.False(t, res.Skipped)
	assert.True(t, res.MetadataRemoved)

	meta, err := Analyze(res.Compressed)
	require.NoError(t, err)
	assert.Empty(t, meta.DocumentInfo.Title)
	assert.Empty(t, meta.DocumentInfo.Author)
}

func TestCompress_GarbageFallsBackToOriginal(t *testing.T) {
	garbage := []byte("%PDF-1.7\nnot actually parseable\n%%EOF")

	res := Compress(garbage, DefaultCompressOptions())

	assert.True(t, res.Skipped)
	assert.NotEmpty(t, res.SkipReason)
	assert.Equal(t, garbage, res.Compressed)
	assert.Equal(t, len(garbage), res.OriginalSize)
	assert.Equal(t, len(garbage), res.CompressedSize)
	assert.EqualValues(t, 1, res.CompressionRatio)
	assert.Zero(t, res.SavingsBytes)
	assert.Zero(t, res.SavingsPercent)
	assert.False(t, res.MetadataRemoved)
}

func TestCompress_InvalidTierSkips(t *testing.T) {
	b := buildPDF(t, 1, "T", "A", "body")

	res := Compress(b, CompressOptions{Quality: Tier("extreme")})
	assert.True(t, res.Skipped)
	assert.Contains(t, res.SkipReason, "invalid options")
}

func TestCompressOptionsValidate(t *testing.T) {
	assert.NoError(t, DefaultCompressOptions().Validate())
	assert.NoError(t, CompressOptions{Quality: TierHigh}.Validate())
	assert.Error(t, CompressOptions{Quality: ""}.Validate())
	assert.Error(t, CompressOptions{Quality: "maximum"}.Validate())
}
