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

// CreateCustomer validates and persists a new customer.
func (s *Service) CreateCustomer(ctx context.Context, fields models.CustomerFields) (*models.Customer, error) {
	ctx, span := s.tracer.Start(ctx, "directory.CreateCustomer")
	defer span.End()

	now := requestcontext.Now(ctx)
	c := models.NewCustomer(uuid.New(), fields, now)
	if err := c.Validate(now, s.policy); err != nil {
		return nil, err
	}

	if err := s.customers.Create(ctx, c); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "customer already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create customer")
	}
	if err := s.invalidateCustomer(ctx, c.ID); err != nil {
		return nil, err
	}

	if err := s.emitAudit(ctx, models.KindCustomer, c.ID, audit.ActionCreated); err != nil {
		return nil, err
	}
	s.metrics.IncCreated(models.KindCustomer)
	s.logger.InfoContext(ctx, "customer created", "customer_id", c.ID)
	return c, nil
}

// GetCustomer returns one customer. Soft-deleted customers are invisible
// unless includeDeleted is set.
func (s *Service) GetCustomer(ctx context.Context, id uuid.UUID, includeDeleted bool) (*models.Customer, error) {
	ctx, span := s.tracer.Start(ctx, "directory.GetCustomer")
	defer span.End()

	// Only default-visibility reads go through the cache; every entry in it
	// is an active record, written below after a store read.
	if !includeDeleted && s.customerCache != nil {
		cached, err := s.customerCache.Get(ctx, id)
		if err != nil {
			s.logger.WarnContext(ctx, "customer cache get failed", "customer_id", id, "error", err)
		} else if cached != nil {
			s.metrics.IncCacheHit(models.KindCustomer)
			return cached, nil
		}
		s.metrics.IncCacheMiss(models.KindCustomer)
	}

	c, err := s.customers.FindByID(ctx, id, visibility(includeDeleted))
	if err != nil {
		return nil, lookupErr(err, "customer")
	}
	if !includeDeleted && s.customerCache != nil {
		if err := s.customerCache.Set(ctx, id, c); err != nil {
			s.logger.WarnContext(ctx, "customer cache set failed", "customer_id", id, "error", err)
		}
	}
	return c, nil
}

// ListCustomers returns a page of customers plus the total match count.
func (s *Service) ListCustomers(ctx context.Context, includeDeleted bool, filter store.CustomerFilter, page store.Page) ([]*models.Customer, int, error) {
	ctx, span := s.tracer.Start(ctx, "directory.ListCustomers")
	defer span.End()

	// The unfiltered first page of active customers is the hot path; it is
	// cached whenever the full listing fits in one page, so a hit can report
	// the slice length as the total.
	cacheable := !includeDeleted && filter.Name == "" && page.Offset() == 0 && s.customerCache != nil
	if cacheable {
		cached, err := s.customerCache.GetAll(ctx)
		if err != nil {
			s.logger.WarnContext(ctx, "customer cache get failed", "error", err)
		} else if cached != nil && len(cached) <= page.Limit() {
			s.metrics.IncCacheHit(models.KindCustomer)
			return cached, len(cached), nil
		}
		s.metrics.IncCacheMiss(models.KindCustomer)
	}

	customers, total, err := s.customers.List(ctx, visibility(includeDeleted), filter, page)
	if err != nil {
		return nil, 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list customers")
	}
	if cacheable && total <= page.Limit() {
		if err := s.customerCache.SetAll(ctx, customers); err != nil {
			s.logger.WarnContext(ctx, "customer cache set failed", "error", err)
		}
	}
	return customers, total, nil
}

// UpdateCustomer overwrites the customer's editable fields. Soft-deleted
// customers are invisible here, so updating one reports not found.
func (s *Service) UpdateCustomer(ctx context.Context, id uuid.UUID, fields models.CustomerFields) (*models.Customer, error) {
	ctx, span := s.tracer.Start(ctx, "directory.UpdateCustomer")
	defer span.End()

	now := requestcontext.Now(ctx)
	c, err := s.customers.FindByID(ctx, id, store.ActiveOnly)
	if err != nil {
		return nil, lookupErr(err, "customer")
	}
	c.ApplyFields(fields, now)
	if err := c.Validate(now, s.policy); err != nil {
		return nil, err
	}

	if err := s.customers.Update(ctx, c); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "customer not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update customer")
	}
	if err := s.invalidateCustomer(ctx, id); err != nil {
		return nil, err
	}

	if err := s.emitAudit(ctx, models.KindCustomer, id, audit.ActionUpdated); err != nil {
		return nil, err
	}
	s.metrics.IncUpdated(models.KindCustomer)
	s.logger.InfoContext(ctx, "customer updated", "customer_id", id)
	return c, nil
}

// SoftDeleteCustomer transitions the customer to soft-deleted. Deleting an
// already-deleted customer is a conflict, an unknown ID is not found.
func (s *Service) SoftDeleteCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	ctx, span := s.tracer.Start(ctx, "directory.SoftDeleteCustomer")
	defer span.End()

	now := requestcontext.Now(ctx)
	c, err := s.customers.Execute(ctx, id,
		func(c *models.Customer) error { return c.CanSoftDelete() },
		func(c *models.Customer) { c.ApplySoftDelete(now) },
	)
	if err != nil {
		return nil, transitionErr(err, "customer")
	}
	if err := s.invalidateCustomer(ctx, id); err != nil {
		return nil, err
	}

	if err := s.emitAudit(ctx, models.KindCustomer, id, audit.ActionSoftDeleted); err != nil {
		return nil, err
	}
	s.metrics.IncSoftDeleted(models.KindCustomer)
	s.logger.InfoContext(ctx, "customer soft-deleted", "customer_id", id)
	return c, nil
}

// RestoreCustomer transitions a soft-deleted customer back to active.
func (s *Service) RestoreCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	ctx, span := s.tracer.Start(ctx, "directory.RestoreCustomer")
	defer span.End()

	now := requestcontext.Now(ctx)
	c, err := s.customers.Execute(ctx, id,
		func(c *models.Customer) error { return c.CanRestore() },
		func(c *models.Customer) { c.ApplyRestore(now) },
	)
	if err != nil {
		return nil, transitionErr(err, "customer")
	}
	if err := s.invalidateCustomer(ctx, id); err != nil {
		return nil, err
	}

	if err := s.emitAudit(ctx, models.KindCustomer, id, audit.ActionRestored); err != nil {
		return nil, err
	}
	s.metrics.IncRestored(models.KindCustomer)
	s.logger.InfoContext(ctx, "customer restored", "customer_id", id)
	return c, nil
}

// CustomerBalance sums the customer's active invoices in cents. Soft-deleted
// invoices never count toward the balance.
func (s *Service) CustomerBalance(ctx context.Context, id uuid.UUID) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "directory.CustomerBalance")
	defer span.End()

	if _, err := s.customers.FindByID(ctx, id, store.ActiveOnly); err != nil {
		return 0, lookupErr(err, "customer")
	}
	sum, err := s.invoices.SumActiveByCustomer(ctx, id)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to sum invoices")
	}
	return sum, nil
}

// invalidateCustomer drops the customer's cache entries. A stale entry could
// keep serving a soft-deleted customer as active until the TTL expires, so a
// failure here fails the mutation.
func (s *Service) invalidateCustomer(ctx context.Context, id uuid.UUID) error {
	if s.customerCache == nil {
		return nil
	}
	if err := s.customerCache.Invalidate(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "customer cache invalidate failed", "customer_id", id, "error", err)
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to invalidate customer cache")
	}
	return nil
}
