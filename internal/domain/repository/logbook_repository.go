package repository

import (
	"context"

	"crewlog-service/internal/domain/entity"
)

// LogbookRepository owns the write path into logbook entries and their flight
// children. SaveEntry upserts on (user_id, entry_date) and, when the entry
// carries flights, replaces the children wholesale inside one transaction.
// It returns the id of the saved logbook entry.
type LogbookRepository interface {
	SaveEntry(ctx context.Context, entry *entity.LogbookEntry) (string, error)
	ListEntries(ctx context.Context, userID string, month, year int) ([]*entity.LogbookEntry, error)
}
