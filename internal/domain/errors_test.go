package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelErrors_AreDistinct(t *testing.T) {
	sentinels := []error{
		ErrNotFound,
		ErrConflict,
		ErrValidation,
		ErrStorage,
		ErrGeneration,
		ErrDelivery,
		ErrUnavailable,
	}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j {
				assert.NotErrorIs(t, a, b,
					"sentinels should be distinct: %v vs %v", a, b)
			}
		}
	}
}

func TestNotFoundError(t *testing.T) {
	tests := []struct {
		name        string
		entity      string
		key         string
		expectedMsg string
	}{
		{
			name:        "with entity and key",
			entity:      "quote",
			key:         "february/28",
			expectedMsg: `quote with key "february/28" not found`,
		},
		{
			name:        "with entity only",
			entity:      "history",
			key:         "",
			expectedMsg: "history not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewNotFoundError(tt.entity, tt.key)

			require.Error(t, err)
			assert.Equal(t, tt.expectedMsg, err.Error())
			assert.True(t, IsNotFound(err))
		})
	}
}

func TestDuplicateDateError(t *testing.T) {
	date := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	err := NewDuplicateDateError(date)

	require.Error(t, err)
	assert.Equal(t, "history entry for 2025-03-14 already exists", err.Error())
	assert.True(t, IsConflict(err))
	assert.False(t, IsNotFound(err))

	var dupErr *DuplicateDateError
	require.ErrorAs(t, err, &dupErr)
	assert.Equal(t, date, dupErr.Date)
}

func TestStorageError_UnwrapsSentinelAndCause(t *testing.T) {
	cause := errors.New("disk full")
	err := NewStorageError("put", "history/quote_history.json", cause)

	assert.True(t, IsStorage(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "put")
	assert.Contains(t, err.Error(), "disk full")
}

func TestGenerationError_UnwrapsSentinelAndCause(t *testing.T) {
	cause := errors.New("deadline exceeded")
	err := NewGenerationError("call", cause)

	assert.True(t, IsGeneration(err))
	assert.ErrorIs(t, err, cause)
	assert.False(t, IsStorage(err))
}

func TestDeliveryError(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewDeliveryError("reader@example.com", cause)

	assert.True(t, IsDelivery(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "reader@example.com")
}

func TestValidationError(t *testing.T) {
	err := NewValidationErrorWithValue("month", "must be between 1 and 12", 13)

	require.Error(t, err)
	assert.True(t, IsValidation(err))

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "month", valErr.Field)
	assert.Equal(t, 13, valErr.Value)
}
