package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "rolodex/pkg/domain-errors"
	"rolodex/pkg/testutil"
)

var t0 = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func TestNewLifecycleIsActive(t *testing.T) {
	l := NewLifecycle(t0)

	assert.False(t, l.IsDeleted())
	assert.Nil(t, l.DeletedAt)
	assert.Equal(t, t0, l.CreatedAt)
	assert.Equal(t, t0, l.ModifiedAt)
}

func TestSoftDeleteTransition(t *testing.T) {
	l := NewLifecycle(t0)
	later := t0.Add(time.Hour)

	require.NoError(t, l.SoftDelete(later))

	assert.True(t, l.IsDeleted())
	require.NotNil(t, l.DeletedAt)
	assert.Equal(t, later, *l.DeletedAt)
	assert.Equal(t, later, l.ModifiedAt)
	assert.Equal(t, t0, l.CreatedAt, "created_at never changes")
}

func TestSoftDeleteAlreadyDeleted(t *testing.T) {
	l := NewLifecycle(t0)
	require.NoError(t, l.SoftDelete(t0.Add(time.Hour)))

	before := l
	err := l.SoftDelete(t0.Add(2 * time.Hour))

	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	assert.Equal(t, before, l, "failed transition leaves state untouched")
}

func TestRestoreTransition(t *testing.T) {
	l := NewLifecycle(t0)
	require.NoError(t, l.SoftDelete(t0.Add(time.Hour)))

	restoredAt := t0.Add(2 * time.Hour)
	require.NoError(t, l.Restore(restoredAt))

	assert.False(t, l.IsDeleted())
	assert.Nil(t, l.DeletedAt)
	assert.Equal(t, restoredAt, l.ModifiedAt)
}

func TestRestoreNotDeleted(t *testing.T) {
	l := NewLifecycle(t0)

	before := l
	err := l.Restore(t0.Add(time.Hour))

	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	assert.Equal(t, before, l)
}

// Delete then restore yields a record indistinguishable from its pre-delete
// state except for a strictly later ModifiedAt.
func TestDeleteRestoreRoundTrip(t *testing.T) {
	l := NewLifecycle(t0)
	original := l

	testutil.Given(t, "an active record", func(t *testing.T) {
		require.False(t, l.IsDeleted())
	})
	testutil.When(t, "it is soft-deleted and then restored", func(t *testing.T) {
		require.NoError(t, l.SoftDelete(t0.Add(time.Hour)))
		require.NoError(t, l.Restore(t0.Add(2*time.Hour)))
	})
	testutil.Then(t, "it matches its pre-delete state apart from modified_at", func(t *testing.T) {
		assert.Equal(t, original.CreatedAt, l.CreatedAt)
		assert.Nil(t, l.DeletedAt)
		assert.True(t, l.ModifiedAt.After(original.ModifiedAt))
	})
}

func TestTouchLeavesDeletionStateAlone(t *testing.T) {
	l := NewLifecycle(t0)
	l.Touch(t0.Add(time.Minute))

	assert.Equal(t, t0.Add(time.Minute), l.ModifiedAt)
	assert.False(t, l.IsDeleted())

	require.NoError(t, l.SoftDelete(t0.Add(time.Hour)))
	deletedAt := *l.DeletedAt
	l.Touch(t0.Add(2 * time.Hour))
	assert.Equal(t, deletedAt, *l.DeletedAt)
}

// The deleted-iff-timestamp invariant holds after every operation by
// construction; exercise the full cycle anyway.
func TestDeletedMatchesTimestampEverywhere(t *testing.T) {
	l := NewLifecycle(t0)
	check := func() {
		assert.Equal(t, l.DeletedAt != nil, l.IsDeleted())
		assert.False(t, l.ModifiedAt.Before(l.CreatedAt))
	}

	check()
	l.Touch(t0.Add(time.Minute))
	check()
	require.NoError(t, l.SoftDelete(t0.Add(time.Hour)))
	check()
	require.NoError(t, l.Restore(t0.Add(2 * time.Hour)))
	check()
}

// A future CreatedAt with an unadjusted ModifiedAt breaks two independent
// rules; both must be reported together.
func TestCascadingTimestampViolations(t *testing.T) {
	l := Lifecycle{
		CreatedAt:  t0.Add(24 * time.Hour),
		ModifiedAt: t0,
	}

	var v dErrors.Violations
	l.validate(t0, &v)
	err := v.Err()

	require.Error(t, err)
	violations := dErrors.ViolationsOf(err)
	require.Len(t, violations, 2)
	assert.Equal(t, "created_at", violations[0].Field)
	assert.Equal(t, "modified_at", violations[1].Field)
}
