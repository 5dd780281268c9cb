package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"rolodex/internal/audit"
	"rolodex/internal/directory/models"
	"rolodex/internal/transport/http/shared"
)

type customerResponse struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Deleted    bool       `json:"deleted"`
	CreatedAt  time.Time  `json:"created_at"`
	ModifiedAt time.Time  `json:"modified_at"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty"`
}

func toCustomerResponse(c *models.Customer) customerResponse {
	return customerResponse{
		ID:         c.ID,
		Name:       c.Name,
		Email:      c.Email,
		Deleted:    c.IsDeleted(),
		CreatedAt:  c.CreatedAt,
		ModifiedAt: c.ModifiedAt,
		DeletedAt:  c.DeletedAt,
	}
}

type invoiceResponse struct {
	ID         uuid.UUID  `json:"id"`
	CustomerID uuid.UUID  `json:"customer_id"`
	Number     string     `json:"number"`
	Amount     string     `json:"amount"`
	Date       time.Time  `json:"date"`
	Deleted    bool       `json:"deleted"`
	CreatedAt  time.Time  `json:"created_at"`
	ModifiedAt time.Time  `json:"modified_at"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty"`
}

func toInvoiceResponse(inv *models.Invoice) invoiceResponse {
	return invoiceResponse{
		ID:         inv.ID,
		CustomerID: inv.CustomerID,
		Number:     inv.Number,
		Amount:     formatAmount(inv.Amount),
		Date:       inv.Date,
		Deleted:    inv.IsDeleted(),
		CreatedAt:  inv.CreatedAt,
		ModifiedAt: inv.ModifiedAt,
		DeletedAt:  inv.DeletedAt,
	}
}

type phoneResponse struct {
	ID         uuid.UUID            `json:"id"`
	CustomerID uuid.UUID            `json:"customer_id"`
	Category   models.PhoneCategory `json:"category"`
	Number     string               `json:"number"`
	Deleted    bool                 `json:"deleted"`
	CreatedAt  time.Time            `json:"created_at"`
	ModifiedAt time.Time            `json:"modified_at"`
	DeletedAt  *time.Time           `json:"deleted_at,omitempty"`
}

func toPhoneResponse(t *models.TelephoneNumber) phoneResponse {
	return phoneResponse{
		ID:         t.ID,
		CustomerID: t.CustomerID,
		Category:   t.Category,
		Number:     t.Number,
		Deleted:    t.IsDeleted(),
		CreatedAt:  t.CreatedAt,
		ModifiedAt: t.ModifiedAt,
		DeletedAt:  t.DeletedAt,
	}
}

// listResponse wraps a page of records with pagination metadata.
type listResponse[T any] struct {
	Data    []T `json:"data"`
	Total   int `json:"total"`
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
}

type balanceResponse struct {
	CustomerID uuid.UUID `json:"customer_id"`
	Balance    string    `json:"balance"`
}

// formatAmount renders cents as a decimal money string.
func formatAmount(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// auditTrail serves GET /{id}/audit for one record kind.
func (h *Handler) auditTrail(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			shared.WriteError(w, err)
			return
		}
		events, err := h.service.AuditTrail(r.Context(), kind, id)
		if err != nil {
			h.logger.ErrorContext(r.Context(), "audit trail lookup failed", "kind", kind, "record_id", id, "error", err)
			shared.WriteError(w, err)
			return
		}
		if events == nil {
			events = []audit.Event{}
		}
		shared.WriteJSON(w, http.StatusOK, listResponse[audit.Event]{
			Data:    events,
			Total:   len(events),
			Page:    1,
			PerPage: len(events),
		})
	}
}
