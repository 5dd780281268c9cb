package models

import (
	"strings"
	"time"

	"github.com/google/uuid"

	dErrors "rolodex/pkg/domain-errors"
)

// Customer is the aggregate root of the directory. Invoices and telephone
// numbers hang off a customer through its ID; removing a customer for real
// (hard delete) cascades in the database schema, soft delete does not.
type Customer struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Lifecycle
}

// CustomerFields are the caller-editable domain fields. Lifecycle state and ID
// are never settable through field updates.
type CustomerFields struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// NewCustomer builds an active customer. Validate must be called before
// persisting.
func NewCustomer(id uuid.UUID, fields CustomerFields, now time.Time) *Customer {
	return &Customer{
		ID:        id,
		Name:      strings.TrimSpace(fields.Name),
		Email:     strings.TrimSpace(fields.Email),
		Lifecycle: NewLifecycle(now),
	}
}

// ApplyFields overwrites the domain fields and touches ModifiedAt.
func (c *Customer) ApplyFields(fields CustomerFields, now time.Time) {
	c.Name = strings.TrimSpace(fields.Name)
	c.Email = strings.TrimSpace(fields.Email)
	c.Touch(now)
}

// Validate checks every field rule and the lifecycle invariants, returning all
// broken rules together as a single validation error.
func (c *Customer) Validate(now time.Time, policy CorrelationPolicy) error {
	var v dErrors.Violations

	if c.Name == "" {
		v.Add("name", "is required")
	} else if len(c.Name) > 128 {
		v.Add("name", "must be 128 characters or less")
	}

	domain, ok := emailDomain(c.Email)
	switch {
	case c.Email == "":
		v.Add("email", "is required")
	case !ok:
		v.Add("email", "is not a valid address")
	case policy != nil && c.Name != "" && !policy.Correlated(c.Name, domain):
		v.Add("email", "domain does not match the customer name")
	}

	c.Lifecycle.validate(now, &v)
	return v.Err()
}

// emailDomain extracts the domain part of an address, reporting whether the
// address has a plausible local@domain shape.
func emailDomain(email string) (string, bool) {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return "", false
	}
	domain := email[at+1:]
	if !strings.Contains(domain, ".") || strings.ContainsAny(domain, " \t") {
		return "", false
	}
	return strings.ToLower(domain), true
}
