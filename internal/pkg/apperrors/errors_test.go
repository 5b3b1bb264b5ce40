package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainErrorsWrapClasses(t *testing.T) {
	assert.ErrorIs(t, ErrGroupNotFound, ErrResourceNotFound)
	assert.ErrorIs(t, ErrGroupCodeExists, ErrResourceAlreadyExists)
	assert.ErrorIs(t, ErrNoRole, ErrPermissionDenied)
	assert.ErrorIs(t, fmt.Errorf("loading: %w", ErrSubjectNotFound), ErrResourceNotFound)
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("grade value must be between %d and %d", 0, 100)
	assert.ErrorIs(t, err, ErrValidationFailed)
	assert.Equal(t, "grade value must be between 0 and 100", err.Error())
}

func TestIs(t *testing.T) {
	err := fmt.Errorf("wrap: %w", ErrConflict)
	assert.True(t, Is(err, ErrResourceNotFound, ErrConflict))
	assert.False(t, Is(err, ErrResourceNotFound, ErrPermissionDenied))
}

func TestPublicMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"custom", NewValidationError("start year must be between 0 and 99"), "start year must be between 0 and 99"},
		{"wrapped class", fmt.Errorf("%w: credits must be positive", ErrValidationFailed), "validation failed: credits must be positive"},
		{"domain", ErrGradeNotFound, "grade resource not found"},
		{"internal", errors.New("pq: connection reset"), "internal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PublicMessage(tt.err, "internal"))
		})
	}
}
