package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"rolodex/internal/audit"
	"rolodex/internal/directory/models"
	"rolodex/internal/directory/store"
	dErrors "rolodex/pkg/domain-errors"
	"rolodex/pkg/platform/sentinel"
	"rolodex/pkg/requestcontext"
)

// CreateInvoice validates and persists a new invoice. The owning customer must
// exist and be active.
func (s *Service) CreateInvoice(ctx context.Context, fields models.InvoiceFields) (*models.Invoice, error) {
	ctx, span := s.tracer.Start(ctx, "directory.CreateInvoice")
	defer span.End()

	now := requestcontext.Now(ctx)
	inv := models.NewInvoice(uuid.New(), fields, now)
	if err := inv.Validate(now, s.validation.InvoiceDateHorizon); err != nil {
		return nil, err
	}
	if err := s.requireActiveCustomer(ctx, inv.CustomerID); err != nil {
		return nil, err
	}

	if err := s.invoices.Create(ctx, inv); err != nil {
		switch {
		case errors.Is(err, sentinel.ErrAlreadyUsed):
			return nil, dErrors.New(dErrors.CodeConflict, "invoice number is already in use")
		case errors.Is(err, sentinel.ErrConflict):
			return nil, dErrors.New(dErrors.CodeConflict, "invoice already exists")
		case errors.Is(err, sentinel.ErrNotFound):
			return nil, dErrors.New(dErrors.CodeNotFound, "customer not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create invoice")
	}
	if err := s.invalidateInvoice(ctx, inv.ID); err != nil {
		return nil, err
	}

	if err := s.emitAudit(ctx, models.KindInvoice, inv.ID, audit.ActionCreated); err != nil {
		return nil, err
	}
	s.metrics.IncCreated(models.KindInvoice)
	s.logger.InfoContext(ctx, "invoice created", "invoice_id", inv.ID, "customer_id", inv.CustomerID)
	return inv, nil
}

// GetInvoice returns one invoice. Soft-deleted invoices are invisible unless
// includeDeleted is set.
func (s *Service) GetInvoice(ctx context.Context, id uuid.UUID, includeDeleted bool) (*models.Invoice, error) {
	ctx, span := s.tracer.Start(ctx, "directory.GetInvoice")
	defer span.End()

	if !includeDeleted && s.invoiceCache != nil {
		cached, err := s.invoiceCache.Get(ctx, id)
		if err != nil {
			s.logger.WarnContext(ctx, "invoice cache get failed", "invoice_id", id, "error", err)
		} else if cached != nil {
			s.metrics.IncCacheHit(models.KindInvoice)
			return cached, nil
		}
		s.metrics.IncCacheMiss(models.KindInvoice)
	}

	inv, err := s.invoices.FindByID(ctx, id, visibility(includeDeleted))
	if err != nil {
		return nil, lookupErr(err, "invoice")
	}
	if !includeDeleted && s.invoiceCache != nil {
		if err := s.invoiceCache.Set(ctx, id, inv); err != nil {
			s.logger.WarnContext(ctx, "invoice cache set failed", "invoice_id", id, "error", err)
		}
	}
	return inv, nil
}

// ListInvoices returns a page of invoices plus the total match count.
func (s *Service) ListInvoices(ctx context.Context, includeDeleted bool, filter store.InvoiceFilter, page store.Page) ([]*models.Invoice, int, error) {
	ctx, span := s.tracer.Start(ctx, "directory.ListInvoices")
	defer span.End()

	cacheable := !includeDeleted && filter.CustomerID == uuid.Nil && page.Offset() == 0 && s.invoiceCache != nil
	if cacheable {
		cached, err := s.invoiceCache.GetAll(ctx)
		if err != nil {
			s.logger.WarnContext(ctx, "invoice cache get failed", "error", err)
		} else if cached != nil && len(cached) <= page.Limit() {
			s.metrics.IncCacheHit(models.KindInvoice)
			return cached, len(cached), nil
		}
		s.metrics.IncCacheMiss(models.KindInvoice)
	}

	invoices, total, err := s.invoices.List(ctx, visibility(includeDeleted), filter, page)
	if err != nil {
		return nil, 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list invoices")
	}
	if cacheable && total <= page.Limit() {
		if err := s.invoiceCache.SetAll(ctx, invoices); err != nil {
			s.logger.WarnContext(ctx, "invoice cache set failed", "error", err)
		}
	}
	return invoices, total, nil
}

// UpdateInvoice overwrites the invoice's editable fields.
func (s *Service) UpdateInvoice(ctx context.Context, id uuid.UUID, fields models.InvoiceFields) (*models.Invoice, error) {
	ctx, span := s.tracer.Start(ctx, "directory.UpdateInvoice")
	defer span.End()

	now := requestcontext.Now(ctx)
	inv, err := s.invoices.FindByID(ctx, id, store.ActiveOnly)
	if err != nil {
		return nil, lookupErr(err, "invoice")
	}
	inv.ApplyFields(fields, now)
	if err := inv.Validate(now, s.validation.InvoiceDateHorizon); err != nil {
		return nil, err
	}
	if err := s.requireActiveCustomer(ctx, inv.CustomerID); err != nil {
		return nil, err
	}

	if err := s.invoices.Update(ctx, inv); err != nil {
		switch {
		case errors.Is(err, sentinel.ErrAlreadyUsed):
			return nil, dErrors.New(dErrors.CodeConflict, "invoice number is already in use")
		case errors.Is(err, sentinel.ErrNotFound):
			return nil, dErrors.New(dErrors.CodeNotFound, "invoice not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update invoice")
	}
	if err := s.invalidateInvoice(ctx, id); err != nil {
		return nil, err
	}

	if err := s.emitAudit(ctx, models.KindInvoice, id, audit.ActionUpdated); err != nil {
		return nil, err
	}
	s.metrics.IncUpdated(models.KindInvoice)
	s.logger.InfoContext(ctx, "invoice updated", "invoice_id", id)
	return inv, nil
}

// SoftDeleteInvoice transitions the invoice to soft-deleted.
func (s *Service) SoftDeleteInvoice(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	ctx, span := s.tracer.Start(ctx, "directory.SoftDeleteInvoice")
	defer span.End()

	now := requestcontext.Now(ctx)
	inv, err := s.invoices.Execute(ctx, id,
		func(inv *models.Invoice) error { return inv.CanSoftDelete() },
		func(inv *models.Invoice) { inv.ApplySoftDelete(now) },
	)
	if err != nil {
		return nil, transitionErr(err, "invoice")
	}
	if err := s.invalidateInvoice(ctx, id); err != nil {
		return nil, err
	}

	if err := s.emitAudit(ctx, models.KindInvoice, id, audit.ActionSoftDeleted); err != nil {
		return nil, err
	}
	s.metrics.IncSoftDeleted(models.KindInvoice)
	s.logger.InfoContext(ctx, "invoice soft-deleted", "invoice_id", id)
	return inv, nil
}

// RestoreInvoice transitions a soft-deleted invoice back to active.
func (s *Service) RestoreInvoice(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	ctx, span := s.tracer.Start(ctx, "directory.RestoreInvoice")
	defer span.End()

	now := requestcontext.Now(ctx)
	inv, err := s.invoices.Execute(ctx, id,
		func(inv *models.Invoice) error { return inv.CanRestore() },
		func(inv *models.Invoice) { inv.ApplyRestore(now) },
	)
	if err != nil {
		return nil, transitionErr(err, "invoice")
	}
	if err := s.invalidateInvoice(ctx, id); err != nil {
		return nil, err
	}

	if err := s.emitAudit(ctx, models.KindInvoice, id, audit.ActionRestored); err != nil {
		return nil, err
	}
	s.metrics.IncRestored(models.KindInvoice)
	s.logger.InfoContext(ctx, "invoice restored", "invoice_id", id)
	return inv, nil
}

// requireActiveCustomer checks the referenced owner exists and is not
// soft-deleted. The in-memory stores have no foreign keys, so the rule lives
// here rather than in persistence.
func (s *Service) requireActiveCustomer(ctx context.Context, customerID uuid.UUID) error {
	if _, err := s.customers.FindByID(ctx, customerID, store.ActiveOnly); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeBadRequest, "customer does not exist or is deleted")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load customer")
	}
	return nil
}

// invalidateInvoice drops the invoice's cache entries. Failure fails the
// mutation so a stale entry cannot outlive the transition it hides.
func (s *Service) invalidateInvoice(ctx context.Context, id uuid.UUID) error {
	if s.invoiceCache == nil {
		return nil
	}
	if err := s.invoiceCache.Invalidate(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "invoice cache invalidate failed", "invoice_id", id, "error", err)
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to invalidate invoice cache")
	}
	return nil
}
