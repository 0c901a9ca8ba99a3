package entity

import (
	"errors"
	"fmt"
)

// ErrUnsupportedMediaType is returned at intake, before any upload row exists.
var ErrUnsupportedMediaType = errors.New("unsupported media type")

// PersistenceError wraps a datastore failure at the intake or status-tracking
// phase. It is fatal to the request.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// ExtractionCallError wraps a transport, timeout or quota failure from the
// vision model call. The upload ends up failed with a retry-suggesting message.
type ExtractionCallError struct {
	Err error
}

func (e *ExtractionCallError) Error() string {
	return fmt.Sprintf("extraction call failed: %v", e.Err)
}

func (e *ExtractionCallError) Unwrap() error { return e.Err }

// NormalizationError means the model responded but its output was not
// parseable JSON even after stripping wrapping artifacts. RawText carries the
// stripped-but-unparseable text so it can be persisted for diagnosis.
type NormalizationError struct {
	RawText string
	Err     error
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("model output is not valid JSON: %v", e.Err)
}

func (e *NormalizationError) Unwrap() error { return e.Err }

// SchemaError means the parsed payload did not match the roster envelope
// contract (month/year/entries). Per-entry defects are not SchemaErrors; they
// are absorbed as FieldViolations instead.
type SchemaError struct {
	RawText string
	Err     error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("extracted payload does not match the roster contract: %v", e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }
