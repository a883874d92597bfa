package service

import (
	"encoding/base64"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"mediacore/internal/images"
	"mediacore/internal/model"
	"mediacore/internal/multipart"
	"mediacore/internal/pdf"
	"mediacore/internal/sniff"
)

// Response assembly: decoder and pipeline outputs are packaged here into the
// shapes the surrounding CRUD layer consumes. Stored filenames follow the
// upload convention of a fresh UUID plus the original extension.

func storedName(originalName, forcedExt string) string {
	ext := forcedExt
	if ext == "" {
		ext = filepath.Ext(originalName)
	}
	return uuid.New().String() + ext
}

func dataURL(mimeType string, b []byte) (data, url string) {
	data = base64.StdEncoding.EncodeToString(b)
	return data, fmt.Sprintf("data:%s;base64,%s", mimeType, data)
}

// assembleImageFile packages the simple path: the validated original itself,
// base64-encoded, with the sniffed media type (never the client's claim).
func assembleImageFile(f multipart.File, cls sniff.Classification) model.ImageFile {
	mime := cls.MIMEType()
	data, url := dataURL(mime, f.Content)
	return model.ImageFile{
		Filename:     storedName(f.Filename, ""),
		OriginalName: lo.Ternary(f.Filename != "", f.Filename, "upload.bin"),
		Size:         f.Size,
		MimeType:     mime,
		Data:         data,
		URL:          url,
	}
}

// assembleOptimizedImage packages the full derivative set.
func assembleOptimizedImage(f multipart.File, cls sniff.Classification, set *images.DerivativeSet) model.OptimizedImage {
	webpVariant := func(b []byte) *model.ImageVariant {
		if len(b) == 0 {
			return nil
		}
		data, _ := dataURL("image/webp", b)
		return &model.ImageVariant{Data: data, Size: len(b), MimeType: "image/webp"}
	}

	originalData, _ := dataURL(cls.MIMEType(), set.Original)

	optimized := model.OptimizedVariant{CompressionRatioPercent: set.Metadata.CompressionRatioPercent}
	if v := webpVariant(set.WebP); v != nil {
		optimized.ImageVariant = *v
	}

	return model.OptimizedImage{
		Filename:     storedName(f.Filename, ".webp"),
		OriginalName: lo.Ternary(f.Filename != "", f.Filename, "upload.bin"),
		Original: model.ImageVariant{
			Data:     originalData,
			Size:     set.Metadata.OriginalSize,
			MimeType: cls.MIMEType(),
			Width:    set.Metadata.Width,
			Height:   set.Metadata.Height,
		},
		Optimized: optimized,
		Sizes: model.ImageSizes{
			Thumbnail: webpVariant(set.Thumbnail),
			Medium:    webpVariant(set.Medium),
			Large:     webpVariant(set.Large),
		},
		Metadata: model.ImageMetadata{
			OriginalSize:            set.Metadata.OriginalSize,
			CompressedSize:          set.Metadata.CompressedSize,
			Width:                   set.Metadata.Width,
			Height:                  set.Metadata.Height,
			CompressionRatioPercent: set.Metadata.CompressionRatioPercent,
		},
	}
}

// assemblePDFFile packages analysis plus (optional) compression for one
// document. comp is nil when compression was not requested.
func assemblePDFFile(f multipart.File, meta *pdf.Metadata, comp *pdf.CompressionResult, opts pdf.CompressOptions) model.PDFFile {
	content := f.Content
	pdfMeta := model.PDFMetadata{
		Pages:          meta.PageCount,
		HasText:        meta.HasText,
		TextLength:     meta.TextLength,
		TextPreview:    meta.TextPreview,
		OriginalSize:   f.Size,
		CompressedSize: f.Size,
	}

	if comp != nil {
		content = comp.Compressed
		pdfMeta.Compressed = !comp.Skipped
		pdfMeta.CompressionQuality = string(opts.Quality)
		pdfMeta.MetadataRemoved = comp.MetadataRemoved
		pdfMeta.OriginalSize = comp.OriginalSize
		pdfMeta.CompressedSize = comp.CompressedSize
		pdfMeta.Savings = comp.SavingsBytes
		pdfMeta.SavingsPercentage = comp.SavingsPercent
	}

	data := base64.StdEncoding.EncodeToString(content)
	return model.PDFFile{
		Filename:     storedName(f.Filename, ".pdf"),
		OriginalName: lo.Ternary(f.Filename != "", f.Filename, "upload.pdf"),
		MimeType:     "application/pdf",
		Size:         len(content),
		OriginalSize: f.Size,
		Data:         data,
		DocumentInfo: model.PDFDocumentInfo{
			Title:    meta.DocumentInfo.Title,
			Author:   meta.DocumentInfo.Author,
			Subject:  meta.DocumentInfo.Subject,
			Keywords: meta.DocumentInfo.Keywords,
			Creator:  meta.DocumentInfo.Creator,
			Producer: meta.DocumentInfo.Producer,
		},
		Metadata: pdfMeta,
	}
}
