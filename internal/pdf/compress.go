package pdf

import (
	"bytes"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Tier selects how aggressively the rewrite packs objects.
type Tier string

const (
	TierLow    Tier = "low"
	TierMedium Tier = "medium"
	TierHigh   Tier = "high"
)

// CompressOptions control one Compress call.
type CompressOptions struct {
	Quality       Tier `validate:"oneof=low medium high"`
	StripMetadata bool
}

// DefaultCompressOptions returns the medium tier with metadata kept.
func DefaultCompressOptions() CompressOptions {
	return CompressOptions{Quality: TierMedium}
}

var validateOpts = validator.New()

// Validate checks the quality tier.
func (o CompressOptions) Validate() error {
	return validateOpts.Struct(o)
}

// CompressionResult reports one Compress call. When Skipped is true the
// original bytes came back unchanged with a ratio of 1 and zero savings.
type CompressionResult struct {
	OriginalSize     int
	CompressedSize   int
	CompressionRatio float64
	SavingsBytes     int
	SavingsPercent   float64
	Compressed       []byte
	// MetadataRemoved reports whether the info dictionary was actually
	// dropped, so a failed strip is visible instead of silently swallowed.
	MetadataRemoved bool
	Skipped         bool
	SkipReason      string
}

// Compress rewrites the document at the given tier. It is best-effort by
// contract: any structural failure returns the original bytes unchanged
// rather than an error, so the caller never loses the uploaded document
// because compression could not reduce it.
func Compress(b []byte, opts CompressOptions) *CompressionResult {
	out, metadataRemoved, err := rewrite(b, opts)
	if err != nil || len(out) == 0 {
		res := skippedResult(b)
		if err != nil {
			res.SkipReason = err.Error()
		}
		return res
	}

	ratio := float64(len(out)) / float64(len(b))
	return &CompressionResult{
		OriginalSize:     len(b),
		CompressedSize:   len(out),
		CompressionRatio: ratio,
		SavingsBytes:     len(b) - len(out),
		SavingsPercent:   (1 - ratio) * 100,
		Compressed:       out,
		MetadataRemoved:  metadataRemoved,
	}
}

func skippedResult(b []byte) *CompressionResult {
	return &CompressionResult{
		OriginalSize:     len(b),
		CompressedSize:   len(b),
		CompressionRatio: 1,
		Compressed:       b,
		Skipped:          true,
	}
}

// rewrite runs the read/validate/optimize/write cycle. The library panics on
// some malformed inputs; since compression must degrade instead of fail, a
// panic is converted to an error here.
func rewrite(b []byte, opts CompressOptions) (out []byte, metadataRemoved bool, err error) {
	defer func() {
		if p := recover(); p != nil {
			out, metadataRemoved, err = nil, false, fmt.Errorf("pdf: rewrite panic: %v", p)
		}
	}()

	if err := opts.Validate(); err != nil {
		return nil, false, fmt.Errorf("pdf: invalid options: %w", err)
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	applyTier(conf, opts.Quality)

	ctx, err := api.ReadContext(bytes.NewReader(b), conf)
	if err != nil {
		return nil, false, fmt.Errorf("pdf: read: %w", err)
	}
	if err := api.ValidateContext(ctx); err != nil {
		return nil, false, fmt.Errorf("pdf: validate: %w", err)
	}

	if opts.StripMetadata {
		// Dropping the trailer's Info reference removes Title, Author,
		// Subject, Keywords, Creator, Producer and both date fields at once.
		ctx.Info = nil
		metadataRemoved = true
	}

	if err := api.OptimizeContext(ctx); err != nil {
		return nil, false, fmt.Errorf("pdf: optimize: %w", err)
	}

	var buf bytes.Buffer
	if err := api.WriteContext(ctx, &buf); err != nil {
		return nil, false, fmt.Errorf("pdf: write: %w", err)
	}
	return buf.Bytes(), metadataRemoved, nil
}

// applyTier maps the quality tier onto the writer's stream packing knobs.
func applyTier(conf *model.Configuration, t Tier) {
	switch t {
	case TierHigh:
		conf.WriteObjectStream = true
		conf.WriteXRefStream = true
	case TierLow:
		conf.WriteObjectStream = false
		conf.WriteXRefStream = false
	default:
		conf.WriteObjectStream = true
		conf.WriteXRefStream = false
	}
}
