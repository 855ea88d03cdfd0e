package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelErrors_AreDistinct(t *testing.T) {
	sentinels := []error{
		ErrNotFound,
		ErrConflict,
		ErrValidation,
		ErrForbidden,
		ErrUnavailable,
		ErrUnauthenticated,
	}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j {
				assert.NotErrorIs(t, a, b, "sentinels should be distinct: %v vs %v", a, b)
			}
		}
	}
}

func TestNotFoundError(t *testing.T) {
	tests := []struct {
		name        string
		entity      string
		id          string
		expectedMsg string
	}{
		{"with id", "recipe", "42", "recipe 42 not found"},
		{"entity only", "subscription", "", "subscription not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewNotFoundError(tt.entity, tt.id)

			assert.Equal(t, tt.expectedMsg, err.Error())
			require.ErrorIs(t, err, ErrNotFound)

			var notFound *NotFoundError
			require.ErrorAs(t, err, &notFound)
			assert.Equal(t, tt.entity, notFound.Entity)
		})
	}
}

func TestConflictError(t *testing.T) {
	err := NewConflictError("tag", "already exists")
	assert.Equal(t, "tag already exists", err.Error())
	require.ErrorIs(t, err, ErrConflict)
}

func TestValidationError(t *testing.T) {
	err := NewValidationErrorWithValue("tags", MsgDuplicateTags, int64(3))
	assert.Equal(t, "validation failed for tags: duplicate tags", err.Error())

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "tags", validation.Field)
	assert.Equal(t, int64(3), validation.Value)

	assert.Equal(t, "validation failed: bad input", NewValidationError("", "bad input").Error())
}

func TestForbiddenError(t *testing.T) {
	err := NewForbiddenError("update recipe", "only the author may change it")
	assert.Equal(t, "only the author may change it", err.Error())
	assert.Equal(t, "not allowed to delete recipe", NewForbiddenError("delete recipe", "").Error())
	require.ErrorIs(t, err, ErrForbidden)
}

func TestUnavailableError(t *testing.T) {
	err := NewUnavailableError("database", "connection refused")
	assert.Equal(t, "database unavailable: connection refused", err.Error())
	assert.Equal(t, "image store unavailable", NewUnavailableError("image store", "").Error())
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestUnauthenticatedError(t *testing.T) {
	err := NewUnauthenticatedError("token has been revoked")
	assert.Equal(t, "token has been revoked", err.Error())
	assert.Equal(t, "authentication credentials were not provided", NewUnauthenticatedError("").Error())
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestIsHelpers(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		isFunc   func(error) bool
		expected bool
	}{
		{"IsNotFound typed", NewNotFoundError("recipe", "1"), IsNotFound, true},
		{"IsNotFound wrapped", fmt.Errorf("loading: %w", ErrNotFound), IsNotFound, true},
		{"IsNotFound other", ErrConflict, IsNotFound, false},
		{"IsNotFound nil", nil, IsNotFound, false},
		{"IsConflict typed", NewConflictError("tag", "slug taken"), IsConflict, true},
		{"IsValidation typed", NewValidationError("tags", MsgTagsRequired), IsValidation, true},
		{"IsValidation other", ErrForbidden, IsValidation, false},
		{"IsForbidden typed", NewForbiddenError("delete", ""), IsForbidden, true},
		{"IsUnavailable typed", NewUnavailableError("db", ""), IsUnavailable, true},
		{"IsUnauthenticated typed", NewUnauthenticatedError("expired"), IsUnauthenticated, true},
		{"IsUnauthenticated wrapped", fmt.Errorf("auth: %w", ErrUnauthenticated), IsUnauthenticated, true},
		{"IsUnauthenticated other", ErrForbidden, IsUnauthenticated, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.isFunc(tt.err))
		})
	}
}

func TestErrorWrappingChain(t *testing.T) {
	original := NewNotFoundError("ingredient", "7")
	wrapped := fmt.Errorf("layer2: %w", fmt.Errorf("layer1: %w", original))

	assert.True(t, IsNotFound(wrapped))

	var notFound *NotFoundError
	require.ErrorAs(t, wrapped, &notFound)
	assert.Equal(t, "7", notFound.ID)
}
