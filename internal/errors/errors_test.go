package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("text must not be empty", "text")

	require.NotNil(t, err)
	assert.Equal(t, "[VALIDATION_ERROR] text must not be empty", err.Error())
	assert.Equal(t, CategoryValidation, err.Category)
	assert.Equal(t, http.StatusBadRequest, err.HTTPStatus)
}

func TestNewExternalAPIError(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := NewExternalAPIError("model-api", cause)

	require.NotNil(t, err)
	assert.Equal(t, CategoryExternalAPI, err.Category)
	assert.Equal(t, http.StatusBadGateway, err.HTTPStatus)
	assert.ErrorIs(t, err, cause)
}

func TestToAppError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		category ErrorCategory
	}{
		{"network error string", fmt.Errorf("dial tcp: connection refused"), CategoryNetwork},
		{"timeout error string", fmt.Errorf("request timeout exceeded"), CategoryTimeout},
		{"context cancelled", context.Canceled, CategoryTimeout},
		{"context deadline", context.DeadlineExceeded, CategoryTimeout},
		{"unknown error", errors.New("something odd"), CategoryInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := ToAppError(tt.err)
			require.NotNil(t, appErr)
			assert.Equal(t, tt.category, appErr.Category)
		})
	}

	assert.Nil(t, ToAppError(nil))

	// Already-wrapped errors pass through unchanged.
	original := NewRateLimitError("10s")
	assert.Same(t, original, ToAppError(original))
}

func TestIsRetryableError(t *testing.T) {
	assert.True(t, IsRetryableError(NewNetworkError("down", nil)))
	assert.True(t, IsRetryableError(NewTimeoutError("slow", nil)))
	assert.True(t, IsRetryableError(NewExternalAPIError("model-api", nil)))
	assert.True(t, IsRetryableError(NewRateLimitError("1s")))
	assert.False(t, IsRetryableError(NewValidationError("bad input")))
	assert.False(t, IsRetryableError(NewConfigurationError("missing key", nil)))
}

func TestWrapError(t *testing.T) {
	base := errors.New("boom")
	wrapped := WrapError(base, "loading lexicon for %s", "en")

	require.Error(t, wrapped)
	assert.ErrorIs(t, wrapped, base)
	assert.Contains(t, wrapped.Error(), "loading lexicon for en")

	assert.NoError(t, WrapError(nil, "ignored"))
}
