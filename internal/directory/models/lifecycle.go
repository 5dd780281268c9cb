package models

import (
	"time"

	dErrors "rolodex/pkg/domain-errors"
)

// Record kinds, used for cache keys, metrics labels, and audit events.
const (
	KindCustomer    = "customer"
	KindInvoice     = "invoice"
	KindPhoneNumber = "phone_number"
)

// Lifecycle carries the audit timestamps and soft-delete state shared by every
// record kind.
//
// Deletion state is held as a single nullable timestamp: DeletedAt == nil means
// active, DeletedAt != nil means soft-deleted. There is no separate boolean, so
// the "deleted flag set without a deletion time" state cannot be represented.
//
// Invariants:
//   - ModifiedAt never precedes CreatedAt
//   - CreatedAt is immutable after construction
//   - transitions: active ↔ soft-deleted only; no hard delete here
type Lifecycle struct {
	CreatedAt  time.Time  `json:"created_at"`
	ModifiedAt time.Time  `json:"modified_at"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty"`
}

// NewLifecycle returns the lifecycle of a freshly created record.
func NewLifecycle(now time.Time) Lifecycle {
	return Lifecycle{CreatedAt: now, ModifiedAt: now}
}

// IsDeleted reports whether the record is soft-deleted.
func (l Lifecycle) IsDeleted() bool {
	return l.DeletedAt != nil
}

// Touch marks a field edit. Deletion state is untouched.
func (l *Lifecycle) Touch(now time.Time) {
	l.ModifiedAt = now
}

// CanSoftDelete checks if the record can transition to soft-deleted.
// Use with ApplySoftDelete in Execute callbacks so stores can hold their lock
// across validate and mutate.
func (l Lifecycle) CanSoftDelete() error {
	if l.IsDeleted() {
		return dErrors.New(dErrors.CodeInvariantViolation, "record is already deleted")
	}
	return nil
}

// ApplySoftDelete transitions the record to soft-deleted.
// Call CanSoftDelete first to validate the transition.
func (l *Lifecycle) ApplySoftDelete(now time.Time) {
	l.DeletedAt = &now
	l.ModifiedAt = now
}

// SoftDelete validates and applies the transition in one call.
func (l *Lifecycle) SoftDelete(now time.Time) error {
	if err := l.CanSoftDelete(); err != nil {
		return err
	}
	l.ApplySoftDelete(now)
	return nil
}

// CanRestore checks if the record can transition back to active.
func (l Lifecycle) CanRestore() error {
	if !l.IsDeleted() {
		return dErrors.New(dErrors.CodeInvariantViolation, "record is not deleted")
	}
	return nil
}

// ApplyRestore transitions the record back to active.
// Call CanRestore first to validate the transition.
func (l *Lifecycle) ApplyRestore(now time.Time) {
	l.DeletedAt = nil
	l.ModifiedAt = now
}

// Restore validates and applies the transition in one call.
func (l *Lifecycle) Restore(now time.Time) error {
	if err := l.CanRestore(); err != nil {
		return err
	}
	l.ApplyRestore(now)
	return nil
}

// validate records every broken timestamp rule. Violations accumulate so a
// record with a future CreatedAt and a ModifiedAt behind it reports both.
func (l Lifecycle) validate(now time.Time, v *dErrors.Violations) {
	if l.CreatedAt.After(now) {
		v.Add("created_at", "must not be in the future")
	}
	if l.ModifiedAt.Before(l.CreatedAt) {
		v.Add("modified_at", "must not precede created_at")
	}
}
