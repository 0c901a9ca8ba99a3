package entity

import (
	"time"
)

// LogbookEntry is the durable duty record, unique per (user, entry date).
// Re-ingesting a date overwrites the scalar fields and wholly replaces the
// flight children; fields are never merged one by one.
type LogbookEntry struct {
	ID           string
	UserID       string
	EntryDate    time.Time
	ActivityType string
	CheckIn      *string
	CheckOut     *string
	Hotel        *string
	Notes        *string
	Captain      *string
	FirstOfficer *string
	Purser       *string
	Flights      []LogbookFlight
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// LogbookFlight is one persisted flight leg, owned by a LogbookEntry.
type LogbookFlight struct {
	ID                   string
	EntryID              string
	FlightNumber         *string
	AircraftType         *string
	AircraftRegistration *string
	Origin               string
	Destination          string
	STD                  *string
	STA                  *string
	BlockHours           *float64
	IsNight              bool
	SortOrder            int
}
