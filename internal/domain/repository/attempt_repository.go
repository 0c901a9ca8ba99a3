package repository

import (
	"context"

	"crewlog-service/internal/domain/entity"
)

// AttemptRepository archives extraction attempts for audit and diagnosis.
// Archiving is best effort; callers log failures but never fail the request.
type AttemptRepository interface {
	Archive(ctx context.Context, attempt *entity.ExtractionAttempt) error
}
