package entity

import (
	"time"
)

// Attempt outcomes mirror the terminal upload statuses.
const (
	AttemptOutcomeCompleted = "completed"
	AttemptOutcomeFailed    = "failed"
)

// ExtractionAttempt is the audit document archived for every extraction
// attempt, successful or not. One attempt per upload.
type ExtractionAttempt struct {
	UploadID      string                 `bson:"uploadId"`
	UserID        string                 `bson:"userId"`
	FileName      string                 `bson:"fileName"`
	FileKind      string                 `bson:"fileKind"`
	PromptVersion string                 `bson:"promptVersion"`
	Model         string                 `bson:"model,omitempty"`
	Outcome       string                 `bson:"outcome"`
	FailureStage  string                 `bson:"failureStage,omitempty"` // extraction | normalization | schema
	ErrorDetail   string                 `bson:"errorDetail,omitempty"`
	RawText       string                 `bson:"rawText,omitempty"`
	Payload       map[string]interface{} `bson:"payload,omitempty"`
	Violations    []FieldViolation       `bson:"violations,omitempty"`
	EntryErrors   []EntryError           `bson:"entryErrors,omitempty"`
	SavedCount    int                    `bson:"savedCount"`
	ElapsedMs     int64                  `bson:"elapsedMs"`
	CreatedAt     time.Time              `bson:"createdAt"`
}
