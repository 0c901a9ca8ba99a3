package usecase

import (
	"encoding/json"
	"strings"

	"crewlog-service/internal/domain/entity"
)

// PromptVersion identifies the instruction set archived with each extraction
// attempt. Bump it whenever the instruction text or schema changes.
const PromptVersion = "roster-extract/v3"

// BuildRosterInstructions produces the instruction set sent to the vision
// model: domain vocabulary, the required output schema, and interpretation
// rules. The output is fully deterministic so extraction quality is
// reproducible independent of the model call.
func BuildRosterInstructions() string {
	parts := []string{
		"You are a precise airline crew roster parser. Return ONLY JSON that matches the provided JSON Schema.",
		"The document is one crew member's duty roster: one row or block per calendar day, usually covering a single month.",
		"Every day gets exactly one entry with an activity_type from this vocabulary: " + strings.Join(entity.ActivityTypes, ", ") + ".",
		"Map duty codes to the vocabulary: FLT and DH mean flight; SIM, LOFT and OPC mean sim; SBY, RSV and RES mean standby; OFF, RDO and X mean off; LVE, VAC and AL mean vacation; TRG, GS and CBT mean training; MED means medical; anything else or unreadable means other.",
		"Use ISO-8601 dates (YYYY-MM-DD) and 24-hour local times (HH:MM).",
		"Airport codes are exactly the 3 characters printed on the roster; never expand or invent them.",
		"Days without flight legs must have an empty flights array.",
		"Use an explicit null for any field that is absent or unreadable; never guess values.",
		"Prefer partial extraction over refusal: emit every day you can read even if others are unclear.",
		"JSON Schema:\n" + mustJSON(fullRosterSchema()),
	}
	return strings.Join(parts, " ")
}

func mustJSON(v any) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}
