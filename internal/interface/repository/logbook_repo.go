package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"crewlog-service/internal/domain/entity"
	"crewlog-service/internal/domain/repository"
)

// GormLogbookRepository implements the LogbookRepository interface
type GormLogbookRepository struct {
	db *gorm.DB
}

// NewGormLogbookRepository creates a new GORM logbook repository
func NewGormLogbookRepository(db *gorm.DB) repository.LogbookRepository {
	return &GormLogbookRepository{db: db}
}

// LogbookEntries GORM model; unique per (user_id, entry_date)
type LogbookEntries struct {
	ID           string    `gorm:"column:id;primaryKey"`
	UserID       string    `gorm:"column:user_id;uniqueIndex:idx_logbook_user_date"`
	EntryDate    time.Time `gorm:"column:entry_date;type:date;uniqueIndex:idx_logbook_user_date"`
	ActivityType string    `gorm:"column:activity_type;type:varchar(16)"`
	CheckIn      *string   `gorm:"column:check_in;type:varchar(5)"`
	CheckOut     *string   `gorm:"column:check_out;type:varchar(5)"`
	Hotel        *string   `gorm:"column:hotel"`
	Notes        *string   `gorm:"column:notes"`
	Captain      *string   `gorm:"column:captain"`
	FirstOfficer *string   `gorm:"column:first_officer"`
	Purser       *string   `gorm:"column:purser"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Flights []LogbookFlights `gorm:"foreignKey:EntryID"`
}

// TableName overrides the default table name
func (LogbookEntries) TableName() string {
	return "logbook_entries"
}

// LogbookFlights GORM model; children of LogbookEntries
type LogbookFlights struct {
	ID                   string   `gorm:"column:id;primaryKey"`
	EntryID              string   `gorm:"column:entry_id;index"`
	FlightNumber         *string  `gorm:"column:flight_number"`
	AircraftType         *string  `gorm:"column:aircraft_type"`
	AircraftRegistration *string  `gorm:"column:aircraft_registration"`
	Origin               string   `gorm:"column:origin;type:varchar(3)"`
	Destination          string   `gorm:"column:destination;type:varchar(3)"`
	STD                  *string  `gorm:"column:std;type:varchar(5)"`
	STA                  *string  `gorm:"column:sta;type:varchar(5)"`
	BlockHours           *float64 `gorm:"column:block_hours"`
	IsNight              bool     `gorm:"column:is_night"`
	SortOrder            int      `gorm:"column:sort_order"`
}

// TableName overrides the default table name
func (LogbookFlights) TableName() string {
	return "logbook_flights"
}

// SaveEntry upserts a logbook entry on (user_id, entry_date) and, when the
// entry carries flights, deletes the previous flight children and inserts the
// new set. The whole triplet runs in one transaction so a half-written entry
// cannot survive; transactions are never held across entries.
func (r *GormLogbookRepository) SaveEntry(ctx context.Context, e *entity.LogbookEntry) (string, error) {
	var entryID string

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := LogbookEntries{
			ID:           uuid.New().String(),
			UserID:       e.UserID,
			EntryDate:    e.EntryDate,
			ActivityType: e.ActivityType,
			CheckIn:      e.CheckIn,
			CheckOut:     e.CheckOut,
			Hotel:        e.Hotel,
			Notes:        e.Notes,
			Captain:      e.Captain,
			FirstOfficer: e.FirstOfficer,
			Purser:       e.Purser,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "entry_date"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"activity_type", "check_in", "check_out", "hotel", "notes",
				"captain", "first_officer", "purser", "updated_at",
			}),
		}).Create(&row).Error; err != nil {
			return err
		}

		// On conflict the generated id is not the persisted one; read it back.
		var saved LogbookEntries
		if err := tx.Select("id").
			Where("user_id = ? AND entry_date = ?", e.UserID, e.EntryDate).
			First(&saved).Error; err != nil {
			return err
		}
		entryID = saved.ID

		if len(e.Flights) == 0 {
			return nil
		}
		if err := tx.Where("entry_id = ?", entryID).Delete(&LogbookFlights{}).Error; err != nil {
			return err
		}
		rows := make([]LogbookFlights, 0, len(e.Flights))
		for _, f := range e.Flights {
			rows = append(rows, LogbookFlights{
				ID:                   uuid.New().String(),
				EntryID:              entryID,
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
		return tx.Create(&rows).Error
	})
	if err != nil {
		return "", err
	}
	return entryID, nil
}

// ListEntries returns one month of entries for a user, ordered by date, with
// flights preloaded in sort order.
func (r *GormLogbookRepository) ListEntries(ctx context.Context, userID string, month, year int) ([]*entity.LogbookEntry, error) {
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	var rows []LogbookEntries
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND entry_date >= ? AND entry_date < ?", userID, from, to).
		Preload("Flights", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Order("entry_date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	entries := make([]*entity.LogbookEntry, 0, len(rows))
	for i := range rows {
		entries = append(entries, toLogbookEntry(&rows[i]))
	}
	return entries, nil
}

func toLogbookEntry(row *LogbookEntries) *entity.LogbookEntry {
	e := &entity.LogbookEntry{
		ID:           row.ID,
		UserID:       row.UserID,
		EntryDate:    row.EntryDate,
		ActivityType: row.ActivityType,
		CheckIn:      row.CheckIn,
		CheckOut:     row.CheckOut,
		Hotel:        row.Hotel,
		Notes:        row.Notes,
		Captain:      row.Captain,
		FirstOfficer: row.FirstOfficer,
		Purser:       row.Purser,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
		Flights:      make([]entity.LogbookFlight, 0, len(row.Flights)),
	}
	for _, f := range row.Flights {
		e.Flights = append(e.Flights, entity.LogbookFlight{
			ID:                   f.ID,
			EntryID:              f.EntryID,
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
	return e
}
