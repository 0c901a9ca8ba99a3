package entity

// Activity types a roster day can carry. The model is instructed to emit
// exactly one of these per day.
const (
	ActivityFlight   = "flight"
	ActivitySim      = "sim"
	ActivityGround   = "ground"
	ActivityStandby  = "standby"
	ActivityOff      = "off"
	ActivityVacation = "vacation"
	ActivityTraining = "training"
	ActivityMedical  = "medical"
	ActivityOther    = "other"
)

// ActivityTypes lists the closed enumeration in a stable order.
var ActivityTypes = []string{
	ActivityFlight, ActivitySim, ActivityGround, ActivityStandby,
	ActivityOff, ActivityVacation, ActivityTraining, ActivityMedical,
	ActivityOther,
}

// RosterExtractionResult is the fully validated output of one extraction
// attempt. It is ephemeral: consumed by the reconciler and archived on the
// upload row, never persisted as its own table.
type RosterExtractionResult struct {
	Month   int           `json:"month"`
	Year    int           `json:"year"`
	Entries []RosterEntry `json:"entries"`
}

// RosterEntry is one calendar day of duty, pre-persistence.
type RosterEntry struct {
	Date         string         `json:"date"` // YYYY-MM-DD
	ActivityType string         `json:"activity_type"`
	CheckIn      *string        `json:"check_in"` // HH:MM or null
	CheckOut     *string        `json:"check_out"`
	Hotel        *string        `json:"hotel"`
	Notes        *string        `json:"notes"`
	Captain      *string        `json:"captain"`
	FirstOfficer *string        `json:"first_officer"`
	Purser       *string        `json:"purser"`
	Flights      []RosterFlight `json:"flights"`
}

// RosterFlight is one flight leg within an entry. SortOrder is assigned from
// position in the source sequence, never taken from the model.
type RosterFlight struct {
	FlightNumber         *string  `json:"flight_number"`
	AircraftType         *string  `json:"aircraft_type"`
	AircraftRegistration *string  `json:"aircraft_registration"`
	Origin               string   `json:"origin"`      // 3-letter airport code
	Destination          string   `json:"destination"` // 3-letter airport code
	STD                  *string  `json:"std"` // HH:MM or null
	STA                  *string  `json:"sta"`
	BlockHours           *float64 `json:"block_hours"` // 0..24
	IsNight              bool     `json:"is_night"`
	SortOrder            int      `json:"-"`
}

// FieldViolation records one structurally invalid entry that was dropped from
// the batch during validation.
type FieldViolation struct {
	EntryIndex int    `json:"entry_index"`
	Field      string `json:"field,omitempty"`
	Message    string `json:"message"`
}

// EntryError records a datastore failure for one entry during reconciliation.
type EntryError struct {
	Date    string `json:"date"`
	Message string `json:"message"`
}

// SavedEntry is one successfully reconciled day.
type SavedEntry struct {
	Date           string `json:"date"`
	LogbookEntryID string `json:"logbook_entry_id"`
}

// ReconciliationReport accumulates per-entry outcomes for one extraction
// attempt. Entry failures never abort the batch, so a report can carry both
// saved entries and errors.
type ReconciliationReport struct {
	SavedCount   int          `json:"saved_count"`
	SavedEntries []SavedEntry `json:"saved_entries"`
	EntryErrors  []EntryError `json:"entry_errors,omitempty"`
}
