package usecase

import (
	"encoding/json"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"crewlog-service/internal/domain/entity"
	"crewlog-service/pkg/utils"
)

// Validator checks a candidate document against the roster contract.
// The envelope (month, year, entries) is validated whole-document; each entry
// is then validated independently, so one malformed day becomes a recorded
// FieldViolation instead of rejecting the upload.
type Validator struct {
	envelope *jsonschema.Schema
	entry    *jsonschema.Schema
}

func NewValidator() (*Validator, error) {
	envelope, err := compileSchema("roster-envelope.json", rosterEnvelopeSchema())
	if err != nil {
		return nil, err
	}
	entry, err := compileSchema("roster-entry.json", rosterEntrySchema())
	if err != nil {
		return nil, err
	}
	return &Validator{envelope: envelope, entry: entry}, nil
}

type rosterEnvelope struct {
	Month   int               `json:"month"`
	Year    int               `json:"year"`
	Entries []json.RawMessage `json:"entries"`
}

// Validate yields a typed extraction result plus the violations for any
// entries that were dropped. A non-nil error means the envelope itself did
// not match the contract and no entry-level data exists.
func (v *Validator) Validate(candidate []byte) (*entity.RosterExtractionResult, []entity.FieldViolation, error) {
	if err := validateJSON(v.envelope, candidate); err != nil {
		return nil, nil, &entity.SchemaError{RawText: string(candidate), Err: err}
	}

	var env rosterEnvelope
	if err := json.Unmarshal(candidate, &env); err != nil {
		return nil, nil, &entity.SchemaError{RawText: string(candidate), Err: err}
	}

	result := &entity.RosterExtractionResult{
		Month:   env.Month,
		Year:    env.Year,
		Entries: make([]entity.RosterEntry, 0, len(env.Entries)),
	}
	var violations []entity.FieldViolation

	for i, raw := range env.Entries {
		if err := validateJSON(v.entry, raw); err != nil {
			violations = append(violations, entity.FieldViolation{EntryIndex: i, Message: err.Error()})
			continue
		}
		var e entity.RosterEntry
		if err := json.Unmarshal(raw, &e); err != nil {
			violations = append(violations, entity.FieldViolation{EntryIndex: i, Message: err.Error()})
			continue
		}
		if _, err := utils.ParseCalendarDate(e.Date); err != nil {
			violations = append(violations, entity.FieldViolation{
				EntryIndex: i,
				Field:      "date",
				Message:    "not a valid calendar date: " + e.Date,
			})
			continue
		}
		// Sort order comes from source position, never from the model.
		for j := range e.Flights {
			e.Flights[j].SortOrder = j
		}
		result.Entries = append(result.Entries, e)
	}

	return result, violations, nil
}
