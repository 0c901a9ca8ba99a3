package entity

import (
	"time"
)

// Upload status state machine: processing is the initial state, completed and
// failed are terminal. A terminal row is never rewritten back to processing.
const (
	UploadStatusProcessing = "processing"
	UploadStatusCompleted  = "completed"
	UploadStatusFailed     = "failed"
)

// Coarse document kind derived from the declared media type.
const (
	FileKindImage = "image"
	FileKindPDF   = "pdf"
)

// AllowedMediaTypes is the intake allow-list. The declared type is trusted as-is;
// file bytes are never sniffed.
var AllowedMediaTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
	"application/pdf": true,
}

// RosterUpload is one submitted roster document and the durable record of its
// extraction attempt.
type RosterUpload struct {
	ID           string
	UserID       string
	FileName     string
	FileKind     string
	Status       string
	Month        int
	Year         int
	ErrorMessage *string
	RawResponse  *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
