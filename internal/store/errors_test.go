package store

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Message(t *testing.T) {
	assert.Equal(t, "record not found", ErrNotFound.Error())

	custom := ErrNotFound.WithMessage("record rec-abc not found")
	assert.Equal(t, "record rec-abc not found", custom.Error())
	assert.Equal(t, http.StatusNotFound, custom.HTTPCode())
}

func TestError_WithCause(t *testing.T) {
	cause := errors.New("disk full")
	err := ErrInvalidInput.WithCause(cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "disk full")
}

func TestError_WrapsAsSentinel(t *testing.T) {
	wrapped := fmt.Errorf("lookup: %w", ErrNotFound)

	var storeErr *Error
	require.True(t, errors.As(wrapped, &storeErr))
	assert.Equal(t, http.StatusNotFound, storeErr.HTTPCode())
}
