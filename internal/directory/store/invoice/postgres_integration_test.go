//go:build integration

package invoice_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"rolodex/internal/directory/models"
	"rolodex/internal/directory/store"
	"rolodex/internal/directory/store/customer"
	"rolodex/internal/directory/store/invoice"
	"rolodex/pkg/platform/sentinel"
	"rolodex/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres  *containers.PostgresContainer
	store     *invoice.PostgresStore
	customers *customer.PostgresStore
	owner     *models.Customer
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = invoice.NewPostgres(s.postgres.DB)
	s.customers = customer.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	ctx := context.Background()
	err := s.postgres.TruncateTables(ctx, "audit_events", "telephone_numbers", "invoices", "customers")
	s.Require().NoError(err)

	now := time.Now().UTC().Truncate(time.Microsecond)
	s.owner = models.NewCustomer(uuid.New(), models.CustomerFields{
		Name:  "Acme Corporation",
		Email: "billing@example.com",
	}, now)
	s.Require().NoError(s.customers.Create(ctx, s.owner))
}

func (s *PostgresStoreSuite) newInvoice(number string, amount int64) *models.Invoice {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return models.NewInvoice(uuid.New(), models.InvoiceFields{
		CustomerID: s.owner.ID,
		Number:     number,
		Amount:     amount,
		Date:       now.AddDate(0, -1, 0),
	}, now)
}

func (s *PostgresStoreSuite) TestNumberUniqueIgnoringCase() {
	ctx := context.Background()
	s.Require().NoError(s.store.Create(ctx, s.newInvoice("INV-100", 5000)))

	dup := s.newInvoice(strings.ToLower("INV-100"), 7000)
	s.ErrorIs(s.store.Create(ctx, dup), sentinel.ErrAlreadyUsed)
}

func (s *PostgresStoreSuite) TestUnknownOwnerIsNotFound() {
	ctx := context.Background()
	inv := s.newInvoice("INV-200", 5000)
	inv.CustomerID = uuid.New()
	s.ErrorIs(s.store.Create(ctx, inv), sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestSumActiveByCustomer() {
	ctx := context.Background()

	s.Require().NoError(s.store.Create(ctx, s.newInvoice("INV-300", 2000)))
	s.Require().NoError(s.store.Create(ctx, s.newInvoice("INV-301", 1500)))

	gone := s.newInvoice("INV-302", 9999)
	s.Require().NoError(s.store.Create(ctx, gone))
	now := time.Now().UTC().Truncate(time.Microsecond)
	_, err := s.store.Execute(ctx, gone.ID,
		func(inv *models.Invoice) error { return inv.CanSoftDelete() },
		func(inv *models.Invoice) { inv.ApplySoftDelete(now) },
	)
	s.Require().NoError(err)

	sum, err := s.store.SumActiveByCustomer(ctx, s.owner.ID)
	s.Require().NoError(err)
	s.Equal(int64(3500), sum)

	sum, err = s.store.SumActiveByCustomer(ctx, uuid.New())
	s.Require().NoError(err)
	s.Zero(sum)
}

func (s *PostgresStoreSuite) TestListFilterByOwner() {
	ctx := context.Background()
	s.Require().NoError(s.store.Create(ctx, s.newInvoice("INV-400", 1000)))
	s.Require().NoError(s.store.Create(ctx, s.newInvoice("INV-401", 1000)))

	_, total, err := s.store.List(ctx, store.ActiveOnly, store.InvoiceFilter{CustomerID: s.owner.ID}, store.Page{})
	s.Require().NoError(err)
	s.Equal(2, total)

	_, total, err = s.store.List(ctx, store.ActiveOnly, store.InvoiceFilter{CustomerID: uuid.New()}, store.Page{})
	s.Require().NoError(err)
	s.Zero(total)
}
