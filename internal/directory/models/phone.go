package models

import (
	"strings"
	"time"

	"github.com/google/uuid"

	dErrors "rolodex/pkg/domain-errors"
)

// PhoneCategory classifies a telephone number.
type PhoneCategory string

const (
	PhoneMobile PhoneCategory = "mobile"
	PhoneHome   PhoneCategory = "home"
	PhoneWork   PhoneCategory = "work"
	PhoneOther  PhoneCategory = "other"
)

// Valid reports whether the category is one of the known values.
func (c PhoneCategory) Valid() bool {
	switch c {
	case PhoneMobile, PhoneHome, PhoneWork, PhoneOther:
		return true
	}
	return false
}

// TelephoneNumber is a contact number owned by a customer.
type TelephoneNumber struct {
	ID         uuid.UUID     `json:"id"`
	CustomerID uuid.UUID     `json:"customer_id"`
	Category   PhoneCategory `json:"category"`
	Number     string        `json:"number"`
	Lifecycle
}

// PhoneFields are the caller-editable domain fields.
type PhoneFields struct {
	CustomerID uuid.UUID     `json:"customer_id"`
	Category   PhoneCategory `json:"category"`
	Number     string        `json:"number"`
}

// NewTelephoneNumber builds an active telephone number. Validate must be
// called before persisting.
func NewTelephoneNumber(id uuid.UUID, fields PhoneFields, now time.Time) *TelephoneNumber {
	return &TelephoneNumber{
		ID:         id,
		CustomerID: fields.CustomerID,
		Category:   fields.Category,
		Number:     strings.TrimSpace(fields.Number),
		Lifecycle:  NewLifecycle(now),
	}
}

// ApplyFields overwrites the domain fields and touches ModifiedAt.
func (t *TelephoneNumber) ApplyFields(fields PhoneFields, now time.Time) {
	t.CustomerID = fields.CustomerID
	t.Category = fields.Category
	t.Number = strings.TrimSpace(fields.Number)
	t.Touch(now)
}

// Validate checks every field rule and the lifecycle invariants.
//
// Two number rules apply: every number needs at least minDigits digits once
// punctuation is stripped, and mobile numbers must contain at least one digit.
// The second rule is subsumed by the first for any sane minDigits; both are
// kept because both are documented, independently tested behavior.
func (t *TelephoneNumber) Validate(now time.Time, minDigits int) error {
	var v dErrors.Violations

	if t.CustomerID == uuid.Nil {
		v.Add("customer_id", "is required")
	}
	if !t.Category.Valid() {
		v.Add("category", "must be one of mobile, home, work, other")
	}

	digits := digitCount(t.Number)
	switch {
	case t.Number == "":
		v.Add("number", "is required")
	case digits < minDigits:
		v.Addf("number", "must contain at least %d digits", minDigits)
	}
	if t.Category == PhoneMobile && t.Number != "" && digits == 0 {
		v.Add("number", "mobile numbers must contain at least one digit")
	}

	t.Lifecycle.validate(now, &v)
	return v.Err()
}

// digitCount counts digit characters, ignoring spaces, dashes, plus signs,
// dots, and parentheses.
func digitCount(number string) int {
	n := 0
	for _, r := range number {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}
