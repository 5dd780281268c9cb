// Package store defines the types threaded through every persistence
// implementation: the soft-delete visibility predicate, pagination, and list
// filters. Concrete stores live in the per-kind subpackages with in-memory and
// PostgreSQL implementations side by side.
package store

import "github.com/google/uuid"

// Visibility is the read predicate for soft-deleted records. Every read path
// takes it explicitly so the default exclude rule lives in one place and the
// include-deleted override is a visible, auditable opt-in at the call site.
type Visibility int

const (
	// ActiveOnly excludes soft-deleted records. This is the default for
	// every read operation.
	ActiveOnly Visibility = iota
	// IncludeDeleted bypasses the soft-delete filter.
	IncludeDeleted
)

// Includes reports whether a record with the given deletion state is visible.
func (v Visibility) Includes(deleted bool) bool {
	return v == IncludeDeleted || !deleted
}

// Page is a limit/offset pagination request.
type Page struct {
	Number int
	Size   int
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Normalize clamps the page request to sane bounds.
func (p Page) Normalize() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Size < 1 {
		p.Size = defaultPageSize
	}
	if p.Size > maxPageSize {
		p.Size = maxPageSize
	}
	return p
}

// Offset is the number of records to skip.
func (p Page) Offset() int {
	p = p.Normalize()
	return (p.Number - 1) * p.Size
}

// Limit is the number of records per page.
func (p Page) Limit() int {
	return p.Normalize().Size
}

// CustomerFilter narrows customer listings.
type CustomerFilter struct {
	// Name matches as a case-insensitive substring when non-empty.
	Name string
}

// InvoiceFilter narrows invoice listings.
type InvoiceFilter struct {
	// CustomerID restricts to one owner when set (non-zero).
	CustomerID uuid.UUID
}

// PhoneFilter narrows telephone number listings.
type PhoneFilter struct {
	// CustomerID restricts to one owner when set (non-zero).
	CustomerID uuid.UUID
}
