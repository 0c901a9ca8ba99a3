package usecase

import (
	"context"

	"crewlog-service/internal/domain/entity"
	"crewlog-service/internal/domain/repository"
	"crewlog-service/pkg/logger"
	"crewlog-service/pkg/utils"
)

// Reconciler owns the write path from a validated extraction result into the
// logbook. Entries are processed strictly in order and one entry's failure
// never blocks the rest of the roster from being saved.
type Reconciler struct {
	logbook repository.LogbookRepository
	logger  logger.Logger
}

func NewReconciler(logbook repository.LogbookRepository, logger logger.Logger) *Reconciler {
	return &Reconciler{logbook: logbook, logger: logger}
}

// Reconcile upserts one logbook entry per roster day and accumulates
// per-entry outcomes. It never returns an error; failures ride in the report.
func (r *Reconciler) Reconcile(ctx context.Context, userID, uploadID string, result *entity.RosterExtractionResult) *entity.ReconciliationReport {
	report := &entity.ReconciliationReport{
		SavedEntries: make([]entity.SavedEntry, 0, len(result.Entries)),
	}

	for _, re := range result.Entries {
		date, err := utils.ParseCalendarDate(re.Date)
		if err != nil {
			// Validation guarantees this upstream; guarded anyway so a bad
			// date degrades to one entry error.
			report.EntryErrors = append(report.EntryErrors, entity.EntryError{Date: re.Date, Message: err.Error()})
			continue
		}

		le := &entity.LogbookEntry{
			UserID:       userID,
			EntryDate:    date,
			ActivityType: re.ActivityType,
			CheckIn:      re.CheckIn,
			CheckOut:     re.CheckOut,
			Hotel:        re.Hotel,
			Notes:        re.Notes,
			Captain:      re.Captain,
			FirstOfficer: re.FirstOfficer,
			Purser:       re.Purser,
			Flights:      make([]entity.LogbookFlight, 0, len(re.Flights)),
		}
		for _, f := range re.Flights {
			le.Flights = append(le.Flights, entity.LogbookFlight{
				FlightNumber:         f.FlightNumber,
				AircraftType:         f.AircraftType,
				AircraftRegistration: f.AircraftRegistration,
				Origin:               f.Origin,
				Destination:          f.Destination,
				STD:                  f.STD,
				STA:                  f.STA,
				BlockHours:           f.BlockHours,
				IsNight:              f.IsNight,
				SortOrder:            f.SortOrder,
			})
		}

		entryID, err := r.logbook.SaveEntry(ctx, le)
		if err != nil {
			r.logger.Error("Failed to save logbook entry",
				"upload_id", uploadID, "user_id", userID, "date", re.Date, "error", err)
			report.EntryErrors = append(report.EntryErrors, entity.EntryError{Date: re.Date, Message: err.Error()})
			continue
		}

		report.SavedCount++
		report.SavedEntries = append(report.SavedEntries, entity.SavedEntry{Date: re.Date, LogbookEntryID: entryID})
	}

	return report
}
