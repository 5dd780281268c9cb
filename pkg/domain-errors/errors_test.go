package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasCodeThroughWrapping(t *testing.T) {
	base := New(CodeNotFound, "record missing")
	wrapped := fmt.Errorf("lookup customer: %w", base)

	assert.True(t, HasCode(wrapped, CodeNotFound))
	assert.False(t, HasCode(wrapped, CodeConflict))
	assert.Equal(t, CodeNotFound, CodeOf(wrapped))
}

func TestCodeOfPlainError(t *testing.T) {
	assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, CodeInternal, "store unavailable")

	require.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "store unavailable")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestViolationsCollectMultiple(t *testing.T) {
	var v Violations
	v.Add("amount", "must be greater than zero")
	v.Addf("date", "must not be more than %d years in the past", 10)

	err := v.Err()
	require.Error(t, err)
	assert.True(t, HasCode(err, CodeValidation))

	got := ViolationsOf(err)
	require.Len(t, got, 2)
	assert.Equal(t, "amount", got[0].Field)
	assert.Equal(t, "date", got[1].Field)
	assert.Contains(t, err.Error(), "amount: must be greater than zero")
}

func TestViolationsEmptyIsNil(t *testing.T) {
	var v Violations
	assert.True(t, v.Empty())
	assert.NoError(t, v.Err())
}
