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

// CreatePhoneNumber validates and persists a new telephone number. The owning
// customer must exist and be active.
func (s *Service) CreatePhoneNumber(ctx context.Context, fields models.PhoneFields) (*models.TelephoneNumber, error) {
	ctx, span := s.tracer.Start(ctx, "directory.CreatePhoneNumber")
	defer span.End()

	now := requestcontext.Now(ctx)
	t := models.NewTelephoneNumber(uuid.New(), fields, now)
	if err := t.Validate(now, s.validation.PhoneMinDigits); err != nil {
		return nil, err
	}
	if err := s.requireActiveCustomer(ctx, t.CustomerID); err != nil {
		return nil, err
	}

	if err := s.phones.Create(ctx, t); err != nil {
		switch {
		case errors.Is(err, sentinel.ErrConflict):
			return nil, dErrors.New(dErrors.CodeConflict, "telephone number already exists")
		case errors.Is(err, sentinel.ErrNotFound):
			return nil, dErrors.New(dErrors.CodeNotFound, "customer not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create telephone number")
	}
	if err := s.invalidatePhone(ctx, t.ID); err != nil {
		return nil, err
	}

	if err := s.emitAudit(ctx, models.KindPhoneNumber, t.ID, audit.ActionCreated); err != nil {
		return nil, err
	}
	s.metrics.IncCreated(models.KindPhoneNumber)
	s.logger.InfoContext(ctx, "telephone number created", "phone_id", t.ID, "customer_id", t.CustomerID)
	return t, nil
}

// GetPhoneNumber returns one telephone number. Soft-deleted numbers are
// invisible unless includeDeleted is set.
func (s *Service) GetPhoneNumber(ctx context.Context, id uuid.UUID, includeDeleted bool) (*models.TelephoneNumber, error) {
	ctx, span := s.tracer.Start(ctx, "directory.GetPhoneNumber")
	defer span.End()

	if !includeDeleted && s.phoneCache != nil {
		cached, err := s.phoneCache.Get(ctx, id)
		if err != nil {
			s.logger.WarnContext(ctx, "phone cache get failed", "phone_id", id, "error", err)
		} else if cached != nil {
			s.metrics.IncCacheHit(models.KindPhoneNumber)
			return cached, nil
		}
		s.metrics.IncCacheMiss(models.KindPhoneNumber)
	}

	t, err := s.phones.FindByID(ctx, id, visibility(includeDeleted))
	if err != nil {
		return nil, lookupErr(err, "telephone number")
	}
	if !includeDeleted && s.phoneCache != nil {
		if err := s.phoneCache.Set(ctx, id, t); err != nil {
			s.logger.WarnContext(ctx, "phone cache set failed", "phone_id", id, "error", err)
		}
	}
	return t, nil
}

// ListPhoneNumbers returns a page of telephone numbers plus the total match count.
func (s *Service) ListPhoneNumbers(ctx context.Context, includeDeleted bool, filter store.PhoneFilter, page store.Page) ([]*models.TelephoneNumber, int, error) {
	ctx, span := s.tracer.Start(ctx, "directory.ListPhoneNumbers")
	defer span.End()

	cacheable := !includeDeleted && filter.CustomerID == uuid.Nil && page.Offset() == 0 && s.phoneCache != nil
	if cacheable {
		cached, err := s.phoneCache.GetAll(ctx)
		if err != nil {
			s.logger.WarnContext(ctx, "phone cache get failed", "error", err)
		} else if cached != nil && len(cached) <= page.Limit() {
			s.metrics.IncCacheHit(models.KindPhoneNumber)
			return cached, len(cached), nil
		}
		s.metrics.IncCacheMiss(models.KindPhoneNumber)
	}

	phones, total, err := s.phones.List(ctx, visibility(includeDeleted), filter, page)
	if err != nil {
		return nil, 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list telephone numbers")
	}
	if cacheable && total <= page.Limit() {
		if err := s.phoneCache.SetAll(ctx, phones); err != nil {
			s.logger.WarnContext(ctx, "phone cache set failed", "error", err)
		}
	}
	return phones, total, nil
}

// UpdatePhoneNumber overwrites the telephone number's editable fields.
func (s *Service) UpdatePhoneNumber(ctx context.Context, id uuid.UUID, fields models.PhoneFields) (*models.TelephoneNumber, error) {
	ctx, span := s.tracer.Start(ctx, "directory.UpdatePhoneNumber")
	defer span.End()

	now := requestcontext.Now(ctx)
	t, err := s.phones.FindByID(ctx, id, store.ActiveOnly)
	if err != nil {
		return nil, lookupErr(err, "telephone number")
	}
	t.ApplyFields(fields, now)
	if err := t.Validate(now, s.validation.PhoneMinDigits); err != nil {
		return nil, err
	}
	if err := s.requireActiveCustomer(ctx, t.CustomerID); err != nil {
		return nil, err
	}

	if err := s.phones.Update(ctx, t); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "telephone number not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update telephone number")
	}
	if err := s.invalidatePhone(ctx, id); err != nil {
		return nil, err
	}

	if err := s.emitAudit(ctx, models.KindPhoneNumber, id, audit.ActionUpdated); err != nil {
		return nil, err
	}
	s.metrics.IncUpdated(models.KindPhoneNumber)
	s.logger.InfoContext(ctx, "telephone number updated", "phone_id", id)
	return t, nil
}

// SoftDeletePhoneNumber transitions the telephone number to soft-deleted.
func (s *Service) SoftDeletePhoneNumber(ctx context.Context, id uuid.UUID) (*models.TelephoneNumber, error) {
	ctx, span := s.tracer.Start(ctx, "directory.SoftDeletePhoneNumber")
	defer span.End()

	now := requestcontext.Now(ctx)
	t, err := s.phones.Execute(ctx, id,
		func(t *models.TelephoneNumber) error { return t.CanSoftDelete() },
		func(t *models.TelephoneNumber) { t.ApplySoftDelete(now) },
	)
	if err != nil {
		return nil, transitionErr(err, "telephone number")
	}
	if err := s.invalidatePhone(ctx, id); err != nil {
		return nil, err
	}

	if err := s.emitAudit(ctx, models.KindPhoneNumber, id, audit.ActionSoftDeleted); err != nil {
		return nil, err
	}
	s.metrics.IncSoftDeleted(models.KindPhoneNumber)
	s.logger.InfoContext(ctx, "telephone number soft-deleted", "phone_id", id)
	return t, nil
}

// RestorePhoneNumber transitions a soft-deleted telephone number back to active.
func (s *Service) RestorePhoneNumber(ctx context.Context, id uuid.UUID) (*models.TelephoneNumber, error) {
	ctx, span := s.tracer.Start(ctx, "directory.RestorePhoneNumber")
	defer span.End()

	now := requestcontext.Now(ctx)
	t, err := s.phones.Execute(ctx, id,
		func(t *models.TelephoneNumber) error { return t.CanRestore() },
		func(t *models.TelephoneNumber) { t.ApplyRestore(now) },
	)
	if err != nil {
		return nil, transitionErr(err, "telephone number")
	}
	if err := s.invalidatePhone(ctx, id); err != nil {
		return nil, err
	}

	if err := s.emitAudit(ctx, models.KindPhoneNumber, id, audit.ActionRestored); err != nil {
		return nil, err
	}
	s.metrics.IncRestored(models.KindPhoneNumber)
	s.logger.InfoContext(ctx, "telephone number restored", "phone_id", id)
	return t, nil
}

// invalidatePhone drops the telephone number's cache entries. Failure fails
// the mutation so a stale entry cannot outlive the transition it hides.
func (s *Service) invalidatePhone(ctx context.Context, id uuid.UUID) error {
	if s.phoneCache == nil {
		return nil
	}
	if err := s.phoneCache.Invalidate(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "phone cache invalidate failed", "phone_id", id, "error", err)
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to invalidate phone cache")
	}
	return nil
}
