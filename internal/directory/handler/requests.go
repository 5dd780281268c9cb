package handler

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"rolodex/internal/directory/models"
	dErrors "rolodex/pkg/domain-errors"
)

type customerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (req customerRequest) fields() models.CustomerFields {
	return models.CustomerFields{Name: req.Name, Email: req.Email}
}

// invoiceRequest carries the amount as a decimal string ("1250.00"); the
// domain works in integer cents.
type invoiceRequest struct {
	CustomerID uuid.UUID `json:"customer_id"`
	Number     string    `json:"number"`
	Amount     string    `json:"amount"`
	Date       time.Time `json:"date"`
}

func (req invoiceRequest) fields() (models.InvoiceFields, error) {
	cents, err := parseAmount(req.Amount)
	if err != nil {
		return models.InvoiceFields{}, err
	}
	return models.InvoiceFields{
		CustomerID: req.CustomerID,
		Number:     req.Number,
		Amount:     cents,
		Date:       req.Date,
	}, nil
}

type phoneRequest struct {
	CustomerID uuid.UUID            `json:"customer_id"`
	Category   models.PhoneCategory `json:"category"`
	Number     string               `json:"number"`
}

func (req phoneRequest) fields() models.PhoneFields {
	return models.PhoneFields{
		CustomerID: req.CustomerID,
		Category:   req.Category,
		Number:     req.Number,
	}
}

// decodeBody parses the JSON request body into dst.
func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return dErrors.New(dErrors.CodeBadRequest, "invalid request body")
	}
	return nil
}

// parseAmount converts a decimal money string into cents. At most two
// fractional digits are accepted; anything else is a validation failure on the
// amount field.
func parseAmount(s string) (int64, error) {
	invalid := func() error {
		var v dErrors.Violations
		v.Add("amount", "must be a decimal number with at most two fractional digits")
		return v.Err()
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return 0, invalid()
	}
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	whole, frac, hasFrac := strings.Cut(s, ".")
	if whole == "" && frac == "" {
		return 0, invalid()
	}
	if whole == "" {
		whole = "0"
	}

	w, err := strconv.ParseUint(whole, 10, 63)
	if err != nil {
		return 0, invalid()
	}

	var f uint64
	if hasFrac {
		if frac == "" || len(frac) > 2 {
			return 0, invalid()
		}
		f, err = strconv.ParseUint(frac, 10, 63)
		if err != nil {
			return 0, invalid()
		}
		if len(frac) == 1 {
			f *= 10
		}
	}

	// The whole part must survive the cents conversion without wrapping.
	if w > (math.MaxInt64-99)/100 {
		return 0, invalid()
	}

	cents := int64(w)*100 + int64(f)
	if neg {
		cents = -cents
	}
	return cents, nil
}
