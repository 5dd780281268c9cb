// Package handler exposes the directory's record lifecycle over REST.
//
// Routes follow one scheme per record kind: POST / creates, GET / lists with
// include_deleted and pagination query parameters, GET /{id} reads, PUT /{id}
// updates fields, DELETE /{id} soft-deletes, POST /{id}/restore reactivates,
// and GET /{id}/audit returns the record's transition history.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"rolodex/internal/audit"
	"rolodex/internal/directory/models"
	"rolodex/internal/directory/store"
	dErrors "rolodex/pkg/domain-errors"
)

// Service is the directory surface the handlers depend on.
type Service interface {
	CreateCustomer(ctx context.Context, fields models.CustomerFields) (*models.Customer, error)
	GetCustomer(ctx context.Context, id uuid.UUID, includeDeleted bool) (*models.Customer, error)
	ListCustomers(ctx context.Context, includeDeleted bool, filter store.CustomerFilter, page store.Page) ([]*models.Customer, int, error)
	UpdateCustomer(ctx context.Context, id uuid.UUID, fields models.CustomerFields) (*models.Customer, error)
	SoftDeleteCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	RestoreCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	CustomerBalance(ctx context.Context, id uuid.UUID) (int64, error)

	CreateInvoice(ctx context.Context, fields models.InvoiceFields) (*models.Invoice, error)
	GetInvoice(ctx context.Context, id uuid.UUID, includeDeleted bool) (*models.Invoice, error)
	ListInvoices(ctx context.Context, includeDeleted bool, filter store.InvoiceFilter, page store.Page) ([]*models.Invoice, int, error)
	UpdateInvoice(ctx context.Context, id uuid.UUID, fields models.InvoiceFields) (*models.Invoice, error)
	SoftDeleteInvoice(ctx context.Context, id uuid.UUID) (*models.Invoice, error)
	RestoreInvoice(ctx context.Context, id uuid.UUID) (*models.Invoice, error)

	CreatePhoneNumber(ctx context.Context, fields models.PhoneFields) (*models.TelephoneNumber, error)
	GetPhoneNumber(ctx context.Context, id uuid.UUID, includeDeleted bool) (*models.TelephoneNumber, error)
	ListPhoneNumbers(ctx context.Context, includeDeleted bool, filter store.PhoneFilter, page store.Page) ([]*models.TelephoneNumber, int, error)
	UpdatePhoneNumber(ctx context.Context, id uuid.UUID, fields models.PhoneFields) (*models.TelephoneNumber, error)
	SoftDeletePhoneNumber(ctx context.Context, id uuid.UUID) (*models.TelephoneNumber, error)
	RestorePhoneNumber(ctx context.Context, id uuid.UUID) (*models.TelephoneNumber, error)

	AuditTrail(ctx context.Context, kind string, recordID uuid.UUID) ([]audit.Event, error)
}

// Handler handles the directory endpoints.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New creates a directory Handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the directory routes on the given router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/customers", func(r chi.Router) {
		r.Post("/", h.handleCreateCustomer)
		r.Get("/", h.handleListCustomers)
		r.Get("/{id}", h.handleGetCustomer)
		r.Put("/{id}", h.handleUpdateCustomer)
		r.Delete("/{id}", h.handleSoftDeleteCustomer)
		r.Post("/{id}/restore", h.handleRestoreCustomer)
		r.Get("/{id}/balance", h.handleCustomerBalance)
		r.Get("/{id}/audit", h.auditTrail(models.KindCustomer))
	})
	r.Route("/invoices", func(r chi.Router) {
		r.Post("/", h.handleCreateInvoice)
		r.Get("/", h.handleListInvoices)
		r.Get("/{id}", h.handleGetInvoice)
		r.Put("/{id}", h.handleUpdateInvoice)
		r.Delete("/{id}", h.handleSoftDeleteInvoice)
		r.Post("/{id}/restore", h.handleRestoreInvoice)
		r.Get("/{id}/audit", h.auditTrail(models.KindInvoice))
	})
	r.Route("/phone-numbers", func(r chi.Router) {
		r.Post("/", h.handleCreatePhoneNumber)
		r.Get("/", h.handleListPhoneNumbers)
		r.Get("/{id}", h.handleGetPhoneNumber)
		r.Put("/{id}", h.handleUpdatePhoneNumber)
		r.Delete("/{id}", h.handleSoftDeletePhoneNumber)
		r.Post("/{id}/restore", h.handleRestorePhoneNumber)
		r.Get("/{id}/audit", h.auditTrail(models.KindPhoneNumber))
	})
}

// pathID parses the {id} route parameter.
func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeBadRequest, "invalid record id")
	}
	return id, nil
}

// includeDeleted reads the soft-delete visibility override. Anything but an
// explicit "true" keeps the default active-only view.
func includeDeleted(r *http.Request) bool {
	return r.URL.Query().Get("include_deleted") == "true"
}

// pageParams reads page/per_page, leaving clamping to store.Page.Normalize.
func pageParams(r *http.Request) store.Page {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("per_page"))
	return store.Page{Number: page, Size: size}
}
