package usecase

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"crewlog-service/internal/domain/entity"
)

var languageTagRe = regexp.MustCompile(`^[A-Za-z]{1,10}$`)

// StripWrapping removes code-fence markers and language tags wrapping the
// model output. It deliberately does nothing more: truncated or otherwise
// broken JSON is not repaired here.
func StripWrapping(raw string) string {
	s := strings.TrimSpace(raw)
	i := strings.Index(s, "```")
	if i < 0 {
		return s
	}
	s = s[i+3:]
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		firstLine := strings.TrimSpace(s[:nl])
		if firstLine == "" || languageTagRe.MatchString(firstLine) {
			s = s[nl+1:]
		}
	}
	if j := strings.LastIndex(s, "```"); j >= 0 {
		s = s[:j]
	}
	return strings.TrimSpace(s)
}

// NormalizeModelOutput turns raw model text into a candidate JSON document.
// On failure it returns a NormalizationError carrying the stripped text so
// the caller can persist it for diagnosis.
func NormalizeModelOutput(raw string) ([]byte, *entity.NormalizationError) {
	stripped := StripWrapping(raw)
	var v any
	if err := json.Unmarshal([]byte(stripped), &v); err != nil {
		return nil, &entity.NormalizationError{RawText: stripped, Err: err}
	}
	if _, ok := v.(map[string]any); !ok {
		return nil, &entity.NormalizationError{
			RawText: stripped,
			Err:     errors.New("top-level JSON value is not an object"),
		}
	}
	return []byte(stripped), nil
}
