package usecase

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"crewlog-service/internal/domain/entity"
)

const (
	datePattern      = `^\d{4}-\d{2}-\d{2}$`
	timeOfDayPattern = `^([01][0-9]|2[0-3]):[0-5][0-9]$`
)

func nullableString() map[string]any {
	return map[string]any{"type": []any{"string", "null"}}
}

func nullableTimeOfDay() map[string]any {
	return map[string]any{"type": []any{"string", "null"}, "pattern": timeOfDayPattern}
}

// rosterEnvelopeSchema constrains the top-level document only. Entries are an
// opaque array here; each one is validated independently so a malformed day
// can be dropped without invalidating the whole upload.
func rosterEnvelopeSchema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []any{"month", "year", "entries"},
		"properties": map[string]any{
			"month":   map[string]any{"type": "integer", "minimum": 1, "maximum": 12},
			"year":    map[string]any{"type": "integer", "minimum": 2000, "maximum": 2100},
			"entries": map[string]any{"type": "array"},
		},
	}
}

func rosterFlightSchema() map[string]any {
	airportCode := map[string]any{"type": "string", "minLength": 3, "maxLength": 3}
	return map[string]any{
		"type":     "object",
		"required": []any{"origin", "destination"},
		"properties": map[string]any{
			"flight_number":         nullableString(),
			"aircraft_type":         nullableString(),
			"aircraft_registration": nullableString(),
			"origin":                airportCode,
			"destination":           airportCode,
			"std":                   nullableTimeOfDay(),
			"sta":                   nullableTimeOfDay(),
			"block_hours":           map[string]any{"type": []any{"number", "null"}, "minimum": 0, "maximum": 24},
			"is_night":              map[string]any{"type": []any{"boolean", "null"}},
		},
	}
}

func rosterEntrySchema() map[string]any {
	activities := make([]any, 0, len(entity.ActivityTypes))
	for _, a := range entity.ActivityTypes {
		activities = append(activities, a)
	}
	return map[string]any{
		"type":     "object",
		"required": []any{"date", "activity_type"},
		"properties": map[string]any{
			"date":          map[string]any{"type": "string", "pattern": datePattern},
			"activity_type": map[string]any{"type": "string", "enum": activities},
			"check_in":      nullableTimeOfDay(),
			"check_out":     nullableTimeOfDay(),
			"hotel":         nullableString(),
			"notes":         nullableString(),
			"captain":       nullableString(),
			"first_officer": nullableString(),
			"purser":        nullableString(),
			"flights": map[string]any{
				"type":  []any{"array", "null"},
				"items": rosterFlightSchema(),
			},
		},
	}
}

// fullRosterSchema is the complete document contract sent to the model inside
// the instruction text.
func fullRosterSchema() map[string]any {
	s := rosterEnvelopeSchema()
	props := s["properties"].(map[string]any)
	props["entries"] = map[string]any{"type": "array", "items": rosterEntrySchema()}
	return s
}

func compileSchema(name string, schemaMap map[string]any) (*jsonschema.Schema, error) {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

func validateJSON(schema *jsonschema.Schema, data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
