package apperr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOfUnwraps(t *testing.T) {
	err := NotFound("vehicle")
	assert.Equal(t, KindNotFound, KindOf(err))

	wrapped := errors.New("context: " + err.Error())
	assert.Equal(t, KindDatabaseError, KindOf(wrapped))
}

func TestValidationResultSuccess(t *testing.T) {
	empty := NewValidationResult(nil)
	assert.True(t, empty.Success)

	withErrs := NewValidationResult([]FieldError{{Field: "x", Error: "bad"}})
	assert.False(t, withErrs.Success)
	assert.Len(t, withErrs.Errors, 1)
}

func TestDatabaseErrorHidesInternal(t *testing.T) {
	internal := errors.New("pq: connection refused")
	err := Database(internal)
	assert.Equal(t, "error", err.Public)
	assert.ErrorIs(t, err, internal)
}
