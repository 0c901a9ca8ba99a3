package repository

import (
	"context"

	"crewlog-service/internal/domain/entity"
)

// UploadRepository persists roster upload records and drives their status
// state machine. Terminal transitions must be guarded so a completed or
// failed row is never rewritten.
type UploadRepository interface {
	Create(ctx context.Context, upload *entity.RosterUpload) error
	GetByID(ctx context.Context, userID, uploadID string) (*entity.RosterUpload, error)
	MarkCompleted(ctx context.Context, uploadID string, month, year int, rawResponse string) error
	MarkFailed(ctx context.Context, uploadID string, message string, rawText *string) error
}
