// Package service implements the record lifecycle operations for customers,
// invoices, and telephone numbers: create, read with explicit deleted-record
// visibility, field updates, soft delete, and restore.
//
// The layering contract: stores speak sentinel errors, this package translates
// them into coded domain errors, transport maps codes onto HTTP statuses.
// Lifecycle transitions run through the stores' Execute so validation and
// mutation happen under one lock.
package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"rolodex/internal/audit"
	"rolodex/internal/directory/models"
	"rolodex/internal/directory/store"
	"rolodex/internal/platform/config"
	"rolodex/internal/platform/metrics"
	dErrors "rolodex/pkg/domain-errors"
	"rolodex/pkg/platform/sentinel"
)

type CustomerStore interface {
	Create(ctx context.Context, c *models.Customer) error
	FindByID(ctx context.Context, id uuid.UUID, vis store.Visibility) (*models.Customer, error)
	List(ctx context.Context, vis store.Visibility, filter store.CustomerFilter, page store.Page) ([]*models.Customer, int, error)
	Update(ctx context.Context, c *models.Customer) error
	Execute(ctx context.Context, id uuid.UUID, validate func(*models.Customer) error, mutate func(*models.Customer)) (*models.Customer, error)
}

type InvoiceStore interface {
	Create(ctx context.Context, inv *models.Invoice) error
	FindByID(ctx context.Context, id uuid.UUID, vis store.Visibility) (*models.Invoice, error)
	List(ctx context.Context, vis store.Visibility, filter store.InvoiceFilter, page store.Page) ([]*models.Invoice, int, error)
	Update(ctx context.Context, inv *models.Invoice) error
	Execute(ctx context.Context, id uuid.UUID, validate func(*models.Invoice) error, mutate func(*models.Invoice)) (*models.Invoice, error)
	SumActiveByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error)
}

type PhoneStore interface {
	Create(ctx context.Context, t *models.TelephoneNumber) error
	FindByID(ctx context.Context, id uuid.UUID, vis store.Visibility) (*models.TelephoneNumber, error)
	List(ctx context.Context, vis store.Visibility, filter store.PhoneFilter, page store.Page) ([]*models.TelephoneNumber, int, error)
	Update(ctx context.Context, t *models.TelephoneNumber) error
	Execute(ctx context.Context, id uuid.UUID, validate func(*models.TelephoneNumber) error, mutate func(*models.TelephoneNumber)) (*models.TelephoneNumber, error)
}

//go:generate mockgen -destination=mocks/audit_publisher.go -package=mocks rolodex/internal/directory/service AuditPublisher
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
	List(ctx context.Context, kind string, recordID uuid.UUID) ([]audit.Event, error)
}

// Cache is the read cache in front of one record kind. Implementations must
// tolerate concurrent use; cache.RecordCache satisfies it.
type Cache[T any] interface {
	Get(ctx context.Context, id uuid.UUID) (*T, error)
	Set(ctx context.Context, id uuid.UUID, rec *T) error
	GetAll(ctx context.Context) ([]*T, error)
	SetAll(ctx context.Context, recs []*T) error
	Invalidate(ctx context.Context, id uuid.UUID) error
}

// Service orchestrates the directory's record lifecycles.
type Service struct {
	customers CustomerStore
	invoices  InvoiceStore
	phones    PhoneStore

	customerCache Cache[models.Customer]
	invoiceCache  Cache[models.Invoice]
	phoneCache    Cache[models.TelephoneNumber]

	policy     models.CorrelationPolicy
	validation config.ValidationConfig

	logger         *slog.Logger
	metrics        *metrics.Metrics
	auditPublisher AuditPublisher
	tracer         trace.Tracer
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithValidation(cfg config.ValidationConfig) Option {
	return func(s *Service) {
		s.validation = cfg
	}
}

// WithCorrelationPolicy overrides the name/email correlation rule. The default
// is models.DefaultCorrelation built from the validation config.
func WithCorrelationPolicy(policy models.CorrelationPolicy) Option {
	return func(s *Service) {
		s.policy = policy
	}
}

func WithCustomerCache(c Cache[models.Customer]) Option {
	return func(s *Service) {
		s.customerCache = c
	}
}

func WithInvoiceCache(c Cache[models.Invoice]) Option {
	return func(s *Service) {
		s.invoiceCache = c
	}
}

func WithPhoneCache(c Cache[models.TelephoneNumber]) Option {
	return func(s *Service) {
		s.phoneCache = c
	}
}

// New constructs a Service.
func New(customers CustomerStore, invoices InvoiceStore, phones PhoneStore, opts ...Option) *Service {
	s := &Service{
		customers: customers,
		invoices:  invoices,
		phones:    phones,
		logger:    slog.New(slog.DiscardHandler),
		validation: config.ValidationConfig{
			PhoneMinDigits: 8,
		},
		tracer: otel.Tracer("rolodex/directory"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.policy == nil {
		s.policy = models.DefaultCorrelation(s.validation.TestEmailDomains)
	}
	return s
}

// AuditTrail returns the recorded lifecycle events of one record, oldest first.
func (s *Service) AuditTrail(ctx context.Context, kind string, recordID uuid.UUID) ([]audit.Event, error) {
	if s.auditPublisher == nil {
		return nil, nil
	}
	events, err := s.auditPublisher.List(ctx, kind, recordID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load audit trail")
	}
	return events, nil
}

func visibility(includeDeleted bool) store.Visibility {
	if includeDeleted {
		return store.IncludeDeleted
	}
	return store.ActiveOnly
}

// lookupErr translates a store read failure into a coded error.
func lookupErr(err error, kind string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.Newf(dErrors.CodeNotFound, "%s not found", kind)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load "+kind)
}

// transitionErr translates an Execute failure. An invariant violation means the
// record exists but is in the wrong lifecycle state, which is a conflict from
// the caller's point of view.
func transitionErr(err error, kind string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.Newf(dErrors.CodeNotFound, "%s not found", kind)
	}
	var de *dErrors.Error
	if errors.As(err, &de) && de.Code == dErrors.CodeInvariantViolation {
		return dErrors.New(dErrors.CodeConflict, de.Message)
	}
	if errors.As(err, &de) {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update "+kind)
}

// emitAudit records a lifecycle event. The audit trail is part of the
// operation's contract: if the event cannot be recorded the operation fails.
func (s *Service) emitAudit(ctx context.Context, kind string, recordID uuid.UUID, action audit.Action) error {
	if s.auditPublisher == nil {
		return nil
	}
	event := audit.Event{Kind: kind, RecordID: recordID, Action: action}
	if err := s.auditPublisher.Emit(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "audit emit failed",
			"kind", kind, "record_id", recordID, "action", action, "error", err)
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record audit event")
	}
	return nil
}
