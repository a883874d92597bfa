// Package model contains the externally visible result structures handed to
// the surrounding CRUD layer. These are pure data shapes with no behavior.
package model

// FailureReason is the machine-readable cause of one file's rejection.
type FailureReason string

const (
	ReasonUnsupportedFileType FailureReason = "UNSUPPORTED_FILE_TYPE"
	ReasonFileTooLarge        FailureReason = "FILE_TOO_LARGE"
	ReasonTruncatedPDF        FailureReason = "TRUNCATED_PDF"
	ReasonTranscodeFailure    FailureReason = "TRANSCODE_FAILURE"
)

// FileFailure describes one rejected file. Failures ride alongside successes
// in the same response: one bad file never aborts the others.
type FileFailure struct {
	FieldName string        `json:"fieldName"`
	Filename  string        `json:"filename"`
	Reason    FailureReason `json:"reason"`
	Message   string        `json:"message"`
}

// ImageFile is the simple image result: the validated original passed through
// as base64 plus a ready-to-embed data URL.
type ImageFile struct {
	Filename     string `json:"filename"`
	OriginalName string `json:"originalName"`
	Size         int    `json:"size"`
	MimeType     string `json:"mimeType"`
	Data         string `json:"data"`
	URL          string `json:"url"`
}

// ImageVariant is one encoded rendition of an image.
type ImageVariant struct {
	Data     string `json:"data"`
	Size     int    `json:"size"`
	MimeType string `json:"mimeType"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
}

// OptimizedVariant is the full-resolution WebP re-encode with its ratio.
type OptimizedVariant struct {
	ImageVariant
	CompressionRatioPercent int `json:"compressionRatio"`
}

// ImageSizes holds the named resized variants.
type ImageSizes struct {
	Thumbnail *ImageVariant `json:"thumbnail,omitempty"`
	Medium    *ImageVariant `json:"medium,omitempty"`
	Large     *ImageVariant `json:"large,omitempty"`
}

// ImageMetadata summarizes the original image and its re-encode.
type ImageMetadata struct {
	OriginalSize            int `json:"originalSize"`
	CompressedSize          int `json:"compressedSize"`
	Width                   int `json:"width"`
	Height                  int `json:"height"`
	CompressionRatioPercent int `json:"compressionRatio"`
}

// OptimizedImage is the optimized-path image result.
type OptimizedImage struct {
	Filename     string           `json:"filename"`
	OriginalName string           `json:"originalName"`
	Original     ImageVariant     `json:"original"`
	Optimized    OptimizedVariant `json:"optimized"`
	Sizes        ImageSizes       `json:"sizes"`
	Metadata     ImageMetadata    `json:"metadata"`
}

// PDFDocumentInfo mirrors the document's info dictionary.
type PDFDocumentInfo struct {
	Title    string `json:"title,omitempty"`
	Author   string `json:"author,omitempty"`
	Subject  string `json:"subject,omitempty"`
	Keywords string `json:"keywords,omitempty"`
	Creator  string `json:"creator,omitempty"`
	Producer string `json:"producer,omitempty"`
}

// PDFMetadata carries analysis and compression statistics for one document.
// When compression fell back to the original bytes, Compressed stays false
// and the size fields report zero savings honestly.
type PDFMetadata struct {
	Pages              int     `json:"pages"`
	HasText            bool    `json:"hasText"`
	TextLength         int     `json:"textLength"`
	TextPreview        string  `json:"textPreview"`
	Compressed         bool    `json:"compressed"`
	CompressionQuality string  `json:"compressionQuality,omitempty"`
	MetadataRemoved    bool    `json:"metadataRemoved"`
	OriginalSize       int     `json:"originalSize"`
	CompressedSize     int     `json:"compressedSize"`
	Savings            int     `json:"savings"`
	SavingsPercentage  float64 `json:"savingsPercentage"`
}

// PDFFile is the PDF result shape.
type PDFFile struct {
	Filename     string          `json:"filename"`
	OriginalName string          `json:"originalName"`
	MimeType     string          `json:"mimeType"`
	Size         int             `json:"size"`
	OriginalSize int             `json:"originalSize"`
	Data         string          `json:"data"`
	DocumentInfo PDFDocumentInfo `json:"documentInfo"`
	Metadata     PDFMetadata     `json:"metadata"`
}

// ImageUploadResult is the response body for the image endpoints. Exactly one
// of Files or Optimized is populated depending on the requested path.
type ImageUploadResult struct {
	Fields    map[string]string `json:"fields,omitempty"`
	Files     []ImageFile       `json:"files,omitempty"`
	Optimized []OptimizedImage  `json:"optimized,omitempty"`
	Failures  []FileFailure     `json:"failures,omitempty"`
}

// PDFUploadResult is the response body for the PDF endpoint.
type PDFUploadResult struct {
	Fields   map[string]string `json:"fields,omitempty"`
	Files    []PDFFile         `json:"files,omitempty"`
	Failures []FileFailure     `json:"failures,omitempty"`
}
