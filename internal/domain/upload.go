package domain

import "time"

// UploadedFile stores metadata about one ingested spreadsheet.
// The actual file resides on disk under the upload directory; the
// registry entry is the source of truth for its existence.
type UploadedFile struct {
	ID          string    `json:"fileId"`      // Opaque identifier generated at registration
	FileName    string    `json:"filename"`    // Original filename provided by the client
	FilePath    string    `json:"-"`           // On-disk path - internal use
	ContentType string    `json:"contentType"` // Declared MIME type (e.g. "text/csv")
	Sheets      []string  `json:"sheets"`      // Sheet names in workbook order
	UploadedAt  time.Time `json:"uploadedAt"`
}

// Customization holds the free-text fields controlling generated slide
// content. Values equal to their sentinel defaults are treated as empty
// and replaced with descriptive placeholders at render time.
type Customization struct {
	PresentationTo string `json:"presentationTo"`
	MadeBy         string `json:"madeBy"`
}

// ArtifactPair describes one generated presentation document and its
// matching preview image.
type ArtifactPair struct {
	PresentationFile string // Stored pptx filename (with unique suffix)
	DownloadFilename string // Human-readable download name (no suffix)
	ImageFile        string // Stored png filename (with unique suffix)
}

// ClearResult reports the outcome of a clear-all sweep.
type ClearResult struct {
	DeletedFiles []string `json:"deleted_files"`
	Errors       []string `json:"errors"`
}
