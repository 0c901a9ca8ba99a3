package repository

import (
	"context"
)

// VisionRepository invokes the external vision-language model with one
// document and an instruction set, returning the model's raw text. The output
// carries no format guarantee; downstream stages must treat it as untrusted.
type VisionRepository interface {
	ExtractText(ctx context.Context, document []byte, mediaType string, instructions string) (string, error)
}
