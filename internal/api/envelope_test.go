package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func marshalEnvelope(t *testing.T, v any) map[string]any {
	t.Helper()

	result, err := EnvelopeTransformer(nil, "200", v)
	require.NoError(t, err)

	raw, err := json.Marshal(result)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestEnvelopeTransformer_Success(t *testing.T) {
	out := marshalEnvelope(t, map[string]string{"id": "rec-123"})

	assert.Equal(t, float64(EnvelopeVersion), out["v"])
	assert.Equal(t, true, out["success"])
	assert.Contains(t, out, "data")
}

func TestEnvelopeTransformer_NilData(t *testing.T) {
	out := marshalEnvelope(t, nil)

	assert.Equal(t, float64(EnvelopeVersion), out["v"])
	assert.Equal(t, true, out["success"])
	assert.NotContains(t, out, "data")
}

func TestEnvelopeTransformer_SimpleError(t *testing.T) {
	out := marshalEnvelope(t, &APIError{Message: "record not found"})

	assert.Equal(t, false, out["success"])
	assert.Equal(t, "record not found", out["error"])
	assert.NotContains(t, out, "code")
}

func TestEnvelopeTransformer_DetailedError(t *testing.T) {
	out := marshalEnvelope(t, &APIError{
		Code:    "VALIDATION",
		Message: "validation failed",
		Details: map[string]string{"filename": "is required"},
	})

	assert.Equal(t, false, out["success"])
	assert.Equal(t, "VALIDATION", out["code"])
	assert.Equal(t, "validation failed", out["message"])
	assert.Contains(t, out, "details")
	assert.NotContains(t, out, "error")
}

// The version field must be named exactly "v"; clients decode it by name.
func TestEnvelopeTransformer_VersionFieldName(t *testing.T) {
	out := marshalEnvelope(t, nil)

	assert.Contains(t, out, "v")
	assert.NotContains(t, out, "version")
}
