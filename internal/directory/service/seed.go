package service

import (
	"context"
	"fmt"

	"rolodex/internal/directory/models"
	"rolodex/pkg/requestcontext"
)

// SeedDemoData populates an empty directory with a small demo data set through
// the regular operations, so seeded records pass validation and show up in the
// audit trail. One invoice is soft-deleted to make the include_deleted and
// restore paths visible out of the box.
func (s *Service) SeedDemoData(ctx context.Context) error {
	now := requestcontext.Now(ctx)

	acme, err := s.CreateCustomer(ctx, models.CustomerFields{
		Name:  "Acme Corporation",
		Email: "billing@acme-corporation.com",
	})
	if err != nil {
		return fmt.Errorf("seed customer: %w", err)
	}
	globex, err := s.CreateCustomer(ctx, models.CustomerFields{
		Name:  "Globex",
		Email: "accounts@globex.example.com",
	})
	if err != nil {
		return fmt.Errorf("seed customer: %w", err)
	}

	if _, err := s.CreatePhoneNumber(ctx, models.PhoneFields{
		CustomerID: acme.ID,
		Category:   models.PhoneWork,
		Number:     "+1 (555) 010-2400",
	}); err != nil {
		return fmt.Errorf("seed phone: %w", err)
	}
	if _, err := s.CreatePhoneNumber(ctx, models.PhoneFields{
		CustomerID: globex.ID,
		Category:   models.PhoneMobile,
		Number:     "+44 7700 900123",
	}); err != nil {
		return fmt.Errorf("seed phone: %w", err)
	}

	if _, err := s.CreateInvoice(ctx, models.InvoiceFields{
		CustomerID: acme.ID,
		Number:     "INV-2026-0001",
		Amount:     125000,
		Date:       now.AddDate(0, -1, 0),
	}); err != nil {
		return fmt.Errorf("seed invoice: %w", err)
	}
	stale, err := s.CreateInvoice(ctx, models.InvoiceFields{
		CustomerID: acme.ID,
		Number:     "INV-2026-0002",
		Amount:     4999,
		Date:       now.AddDate(0, 0, -10),
	})
	if err != nil {
		return fmt.Errorf("seed invoice: %w", err)
	}
	if _, err := s.SoftDeleteInvoice(ctx, stale.ID); err != nil {
		return fmt.Errorf("seed invoice delete: %w", err)
	}
	if _, err := s.CreateInvoice(ctx, models.InvoiceFields{
		CustomerID: globex.ID,
		Number:     "INV-2026-0003",
		Amount:     78000,
		Date:       now.AddDate(0, 0, -3),
	}); err != nil {
		return fmt.Errorf("seed invoice: %w", err)
	}

	s.logger.InfoContext(ctx, "demo data seeded",
		"customers", 2, "invoices", 3, "phone_numbers", 2)
	return nil
}
