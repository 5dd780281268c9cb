package models

import (
	"strings"
	"time"

	"github.com/google/uuid"

	dErrors "rolodex/pkg/domain-errors"
)

// Invoice is a billing record owned by a customer.
//
// Amounts are integer cents; the HTTP layer converts to and from decimal
// strings at the boundary.
type Invoice struct {
	ID         uuid.UUID `json:"id"`
	CustomerID uuid.UUID `json:"customer_id"`
	Number     string    `json:"number"`
	Amount     int64     `json:"amount_cents"`
	Date       time.Time `json:"date"`
	Lifecycle
}

// InvoiceFields are the caller-editable domain fields.
type InvoiceFields struct {
	CustomerID uuid.UUID `json:"customer_id"`
	Number     string    `json:"number"`
	Amount     int64     `json:"amount_cents"`
	Date       time.Time `json:"date"`
}

// NewInvoice builds an active invoice. Validate must be called before persisting.
func NewInvoice(id uuid.UUID, fields InvoiceFields, now time.Time) *Invoice {
	return &Invoice{
		ID:         id,
		CustomerID: fields.CustomerID,
		Number:     strings.TrimSpace(fields.Number),
		Amount:     fields.Amount,
		Date:       fields.Date,
		Lifecycle:  NewLifecycle(now),
	}
}

// ApplyFields overwrites the domain fields and touches ModifiedAt.
func (i *Invoice) ApplyFields(fields InvoiceFields, now time.Time) {
	i.CustomerID = fields.CustomerID
	i.Number = strings.TrimSpace(fields.Number)
	i.Amount = fields.Amount
	i.Date = fields.Date
	i.Touch(now)
}

// Validate checks every field rule and the lifecycle invariants. The horizon
// bounds how far in the past an invoice may be dated.
func (i *Invoice) Validate(now time.Time, horizon time.Duration) error {
	var v dErrors.Violations

	if i.CustomerID == uuid.Nil {
		v.Add("customer_id", "is required")
	}
	if i.Number == "" {
		v.Add("number", "is required")
	}
	if i.Amount <= 0 {
		v.Add("amount_cents", "must be greater than zero")
	}
	switch {
	case i.Date.IsZero():
		v.Add("date", "is required")
	case i.Date.After(now):
		v.Add("date", "must not be in the future")
	case horizon > 0 && i.Date.Before(now.Add(-horizon)):
		v.Add("date", "is too far in the past")
	}

	i.Lifecycle.validate(now, &v)
	return v.Err()
}
