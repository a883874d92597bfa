// Package images turns one validated image buffer into a set of derivatives:
// a full-resolution WebP re-encode plus cover-fit resized variants, with
// compression statistics.
package images

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/go-playground/validator/v10"
	_ "golang.org/x/image/webp" // WebP decode support for image.Decode
	"golang.org/x/sync/errgroup"
)

// ErrUnsupportedImage is returned when the codec cannot decode the buffer.
// Signature sniffing upstream should make this rare, but signatures can be
// spoofed or borderline-valid, so the pipeline defends independently.
var ErrUnsupportedImage = errors.New("images: codec cannot decode buffer")

// DefaultQuality is the encode quality used when the caller does not choose
// one.
const DefaultQuality = 85

// Dimensions is a target box for a cover-fit resize.
type Dimensions struct {
	Width  int `validate:"gt=0"`
	Height int `validate:"gt=0"`
}

// Sizes names the derivative boxes produced by Process.
type Sizes struct {
	Thumbnail Dimensions
	Medium    Dimensions
	Large     Dimensions
}

// Options control one Process call. Quality is never clamped: out-of-range
// values are a validation failure.
type Options struct {
	Quality int `validate:"gte=1,lte=100"`
	Sizes   Sizes
}

// DefaultSizes returns the standard derivative boxes.
func DefaultSizes() Sizes {
	return Sizes{
		Thumbnail: Dimensions{Width: 200, Height: 200},
		Medium:    Dimensions{Width: 800, Height: 600},
		Large:     Dimensions{Width: 1600, Height: 1200},
	}
}

// DefaultOptions returns options with DefaultQuality and DefaultSizes.
func DefaultOptions() Options {
	return Options{Quality: DefaultQuality, Sizes: DefaultSizes()}
}

var validate = validator.New()

// Validate checks the quality range and size boxes.
func (o Options) Validate() error {
	return validate.Struct(o)
}

// Metadata describes the original image and the full-resolution re-encode.
type Metadata struct {
	OriginalSize   int `json:"originalSize"`
	CompressedSize int `json:"compressedSize"`
	Width          int `json:"width"`
	Height         int `json:"height"`
	// CompressionRatioPercent is round((original-compressed)/original*100).
	// Negative when the re-encode grew the image; that is reported, not
	// hidden.
	CompressionRatioPercent int `json:"compressionRatio"`
}

// DerivativeSet is the output of one Process call. Every derivative present
// is non-empty.
type DerivativeSet struct {
	Original  []byte
	WebP      []byte
	Thumbnail []byte
	Medium    []byte
	Large     []byte
	Metadata  Metadata
}

// Process decodes src, re-encodes it at full resolution, and produces the
// named resized variants. The variants have no data dependency on one another
// and are generated concurrently. Process holds no state between calls and is
// safe to invoke from many goroutines at once.
func Process(ctx context.Context, src []byte, opts Options) (*DerivativeSet, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("images: invalid options: %w", err)
	}

	img, err := imaging.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	bounds := img.Bounds()

	set := &DerivativeSet{
		Original: src,
		Metadata: Metadata{
			OriginalSize: len(src),
			Width:        bounds.Dx(),
			Height:       bounds.Dy(),
		},
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out, err := encodeWebP(gctx, img, opts.Quality)
		set.WebP = out
		return err
	})
	g.Go(resizeInto(gctx, &set.Thumbnail, img, opts.Sizes.Thumbnail, opts.Quality))
	g.Go(resizeInto(gctx, &set.Medium, img, opts.Sizes.Medium, opts.Quality))
	g.Go(resizeInto(gctx, &set.Large, img, opts.Sizes.Large, opts.Quality))
	if err := g.Wait(); err != nil {
		return nil, err
	}

	set.Metadata.CompressedSize = len(set.WebP)
	set.Metadata.CompressionRatioPercent = ratioPercent(len(src), len(set.WebP))
	return set, nil
}

// ratioPercent is the size saving of compressed relative to original, as a
// rounded percentage. It goes negative when compression grew the buffer.
func ratioPercent(original, compressed int) int {
	if original == 0 {
		return 0
	}
	return int(math.Round(float64(original-compressed) / float64(original) * 100))
}

// resizeInto returns a task producing one cover-fit variant: scale to fill
// the target box, crop the overflow, anchor center.
func resizeInto(ctx context.Context, dst *[]byte, img image.Image, dim Dimensions, quality int) func() error {
	return func() error {
		filled := imaging.Fill(img, dim.Width, dim.Height, imaging.Center, imaging.Lanczos)
		out, err := encodeWebP(ctx, filled, quality)
		if err != nil {
			return err
		}
		*dst = out
		return nil
	}
}

func encodeWebP(ctx context.Context, img image.Image, quality int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
		return nil, fmt.Errorf("images: webp encode: %w", err)
	}
	return buf.Bytes(), nil
}
