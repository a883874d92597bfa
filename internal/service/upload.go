package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"mediacore/internal/config"
	"mediacore/internal/images"
	"mediacore/internal/model"
	"mediacore/internal/multipart"
	"mediacore/internal/pdf"
	"mediacore/internal/sniff"
)

var (
	// ErrNoFiles means the body decoded cleanly but carried no file parts.
	ErrNoFiles = errors.New("no file parts in request body")
	// ErrInvalidOptions wraps option validation failures (e.g. quality out of
	// the 1-100 range). Values are never clamped.
	ErrInvalidOptions = errors.New("invalid processing options")
)

// ImageOptions select the image path. Quality 0 means "use the configured
// default"; any other out-of-range value is a validation failure.
type ImageOptions struct {
	Optimize bool
	Quality  int
}

// PDFOptions select the PDF path. An empty Quality tier means medium.
type PDFOptions struct {
	Compress      bool
	Quality       pdf.Tier
	StripMetadata bool
}

// UploadService is the media-ingestion core's entry point: it receives a raw
// request body plus its content type header and returns assembled results. It
// knows nothing about routes, rows, or envelopes beyond these shapes.
type UploadService interface {
	// ProcessImages decodes the body, classifies every file, and runs the
	// image derivative pipeline on the admitted ones. Per-file failures ride
	// alongside successes; only decode-level problems abort the call.
	ProcessImages(ctx context.Context, body []byte, contentType string, opts ImageOptions) (*model.ImageUploadResult, error)

	// ProcessPDFs does the same for PDF uploads: analysis always, structural
	// compression when requested.
	ProcessPDFs(ctx context.Context, body []byte, contentType string, opts PDFOptions) (*model.PDFUploadResult, error)
}

// uploadService is a stateless value over its configuration; concurrent calls
// share nothing mutable.
type uploadService struct {
	cfg     config.UploadConfig
	decoder multipart.Decoder
}

// NewUploadService constructs an UploadService from the upload configuration.
func NewUploadService(cfg config.UploadConfig) UploadService {
	mode := multipart.ModeLenient
	if cfg.StrictMultipart {
		mode = multipart.ModeStrict
	}
	return &uploadService{cfg: cfg, decoder: multipart.Decoder{Mode: mode}}
}

func (s *uploadService) ProcessImages(ctx context.Context, body []byte, contentType string, opts ImageOptions) (*model.ImageUploadResult, error) {
	imgOpts := images.Options{
		Quality: opts.Quality,
		Sizes:   s.sizes(),
	}
	if imgOpts.Quality == 0 {
		imgOpts.Quality = s.cfg.DefaultQuality
	}
	if err := imgOpts.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}

	form, err := s.decoder.DecodeRequest(body, contentType)
	if err != nil {
		return nil, err
	}
	if len(form.Files) == 0 {
		return nil, ErrNoFiles
	}

	res := &model.ImageUploadResult{Fields: form.Fields}
	for _, f := range form.Files {
		cls, failure := s.admitImage(f)
		if failure != nil {
			res.Failures = append(res.Failures, *failure)
			continue
		}
		if !opts.Optimize {
			res.Files = append(res.Files, assembleImageFile(f, cls))
			continue
		}
		set, err := images.Process(ctx, f.Content, imgOpts)
		if err != nil {
			res.Failures = append(res.Failures, fileFailure(f, model.ReasonTranscodeFailure,
				fmt.Sprintf("image codec rejected content: %v", err)))
			continue
		}
		res.Optimized = append(res.Optimized, assembleOptimizedImage(f, cls, set))
	}
	return res, nil
}

func (s *uploadService) ProcessPDFs(ctx context.Context, body []byte, contentType string, opts PDFOptions) (*model.PDFUploadResult, error) {
	compOpts := pdf.CompressOptions{
		Quality:       opts.Quality,
		StripMetadata: opts.StripMetadata,
	}
	if compOpts.Quality == "" {
		compOpts.Quality = pdf.TierMedium
	}
	if opts.Compress {
		if err := compOpts.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidOptions, err)
		}
	}

	form, err := s.decoder.DecodeRequest(body, contentType)
	if err != nil {
		return nil, err
	}
	if len(form.Files) == 0 {
		return nil, ErrNoFiles
	}

	res := &model.PDFUploadResult{Fields: form.Fields}
	for _, f := range form.Files {
		if failure := s.admitPDF(f); failure != nil {
			res.Failures = append(res.Failures, *failure)
			continue
		}

		// Analysis and compression are independent of each other and run
		// concurrently on the original bytes.
		var (
			meta *pdf.Metadata
			comp *pdf.CompressionResult
		)
		g, _ := errgroup.WithContext(ctx)
		g.Go(func() error {
			var aerr error
			meta, aerr = pdf.Analyze(f.Content)
			return aerr
		})
		if opts.Compress {
			g.Go(func() error {
				comp = pdf.Compress(f.Content, compOpts)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			res.Failures = append(res.Failures, fileFailure(f, model.ReasonTranscodeFailure,
				fmt.Sprintf("pdf parser rejected content: %v", err)))
			continue
		}
		res.Files = append(res.Files, assemblePDFFile(f, meta, comp, compOpts))
	}
	return res, nil
}

// admitImage classifies one decoded file and enforces the image allow-list
// and size ceiling. The ceiling check runs right after classification and
// before any transcoding so oversized input never burns codec time.
func (s *uploadService) admitImage(f multipart.File) (sniff.Classification, *model.FileFailure) {
	cls, err := sniff.Classify(f.Content)
	if errors.Is(err, sniff.ErrTruncatedPDF) {
		failure := fileFailure(f, model.ReasonTruncatedPDF, "pdf signature present but no EOF marker found")
		return cls, &failure
	}
	if !cls.IsImage() {
		failure := fileFailure(f, model.ReasonUnsupportedFileType,
			fmt.Sprintf("expected an image, content detected as %s", sniff.DetectMIME(f.Content)))
		return cls, &failure
	}
	if int64(f.Size) > s.cfg.MaxImageBytes {
		failure := fileFailure(f, model.ReasonFileTooLarge,
			fmt.Sprintf("image is %d bytes, ceiling is %d", f.Size, s.cfg.MaxImageBytes))
		return cls, &failure
	}
	return cls, nil
}

// admitPDF mirrors admitImage for the PDF path.
func (s *uploadService) admitPDF(f multipart.File) *model.FileFailure {
	cls, err := sniff.Classify(f.Content)
	if errors.Is(err, sniff.ErrTruncatedPDF) {
		failure := fileFailure(f, model.ReasonTruncatedPDF, "pdf signature present but no EOF marker found")
		return &failure
	}
	if cls != sniff.PDF {
		failure := fileFailure(f, model.ReasonUnsupportedFileType,
			fmt.Sprintf("expected a pdf, content detected as %s", sniff.DetectMIME(f.Content)))
		return &failure
	}
	if int64(f.Size) > s.cfg.MaxPDFBytes {
		failure := fileFailure(f, model.ReasonFileTooLarge,
			fmt.Sprintf("pdf is %d bytes, ceiling is %d", f.Size, s.cfg.MaxPDFBytes))
		return &failure
	}
	return nil
}

func (s *uploadService) sizes() images.Sizes {
	return images.Sizes{
		Thumbnail: images.Dimensions{Width: s.cfg.Thumbnail.Width, Height: s.cfg.Thumbnail.Height},
		Medium:    images.Dimensions{Width: s.cfg.Medium.Width, Height: s.cfg.Medium.Height},
		Large:     images.Dimensions{Width: s.cfg.Large.Width, Height: s.cfg.Large.Height},
	}
}

func fileFailure(f multipart.File, reason model.FailureReason, message string) model.FileFailure {
	return model.FileFailure{
		FieldName: f.FieldName,
		Filename:  f.Filename,
		Reason:    reason,
		Message:   message,
	}
}
