package usecase

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripWrapping(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "fenced with language tag",
			in:   "```json\n{\"month\":5}\n```",
			want: `{"month":5}`,
		},
		{
			name: "fenced without language tag",
			in:   "```\n{\"month\":5}\n```",
			want: `{"month":5}`,
		},
		{
			name: "leading prose before fence",
			in:   "Sure, here's the data:\n```json\n{not valid\n```",
			want: "{not valid",
		},
		{
			name: "no fence at all",
			in:   "  {\"month\":5}  ",
			want: `{"month":5}`,
		},
		{
			name: "unterminated fence",
			in:   "```json\n{\"month\":5}",
			want: `{"month":5}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripWrapping(tt.in))
		})
	}
}

func TestNormalizeModelOutputFencedRoundTrip(t *testing.T) {
	raw := "```json\n{\"month\":5,\"year\":2024,\"entries\":[]}\n```"

	candidate, normErr := NormalizeModelOutput(raw)
	require.Nil(t, normErr)

	var got map[string]any
	require.NoError(t, json.Unmarshal(candidate, &got))

	var want map[string]any
	require.NoError(t, json.Unmarshal([]byte(`{"month":5,"year":2024,"entries":[]}`), &want))
	assert.Equal(t, want, got)
}

func TestNormalizeModelOutputInvalidJSON(t *testing.T) {
	raw := "Sure, here's the data:\n```json\n{not valid\n```"

	candidate, normErr := NormalizeModelOutput(raw)
	assert.Nil(t, candidate)
	require.NotNil(t, normErr)
	// The stripped text rides on the error so it can be persisted for diagnosis.
	assert.Equal(t, "{not valid", normErr.RawText)
	assert.Error(t, normErr.Err)
}

func TestNormalizeModelOutputNonObject(t *testing.T) {
	candidate, normErr := NormalizeModelOutput(`[1,2,3]`)
	assert.Nil(t, candidate)
	require.NotNil(t, normErr)
	assert.Contains(t, normErr.Err.Error(), "not an object")
}
