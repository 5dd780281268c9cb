//go:build integration

package phone_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"rolodex/internal/directory/models"
	"rolodex/internal/directory/store"
	"rolodex/internal/directory/store/customer"
	"rolodex/internal/directory/store/phone"
	"rolodex/pkg/platform/sentinel"
	"rolodex/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres  *containers.PostgresContainer
	store     *phone.PostgresStore
	customers *customer.PostgresStore

	owner *models.Customer
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
	s.store = phone.NewPostgres(s.postgres.DB)
	s.customers = customer.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	ctx := context.Background()
	err := s.postgres.TruncateTables(ctx, "audit_events", "telephone_numbers", "invoices", "customers")
	s.Require().NoError(err)

	now := time.Now().UTC().Truncate(time.Microsecond)
	s.owner = models.NewCustomer(uuid.New(), models.CustomerFields{
		Name:  "Acme Corporation",
		Email: "contact@example.com",
	}, now)
	s.Require().NoError(s.customers.Create(ctx, s.owner))
}

func (s *PostgresStoreSuite) newTestPhone(category models.PhoneCategory, number string) *models.TelephoneNumber {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return models.NewTelephoneNumber(uuid.New(), models.PhoneFields{
		CustomerID: s.owner.ID,
		Category:   category,
		Number:     number,
	}, now)
}

func (s *PostgresStoreSuite) TestVisibilityRoundTrip() {
	ctx := context.Background()
	p := s.newTestPhone(models.PhoneMobile, "+1 (555) 010-2400")
	s.Require().NoError(s.store.Create(ctx, p))

	found, err := s.store.FindByID(ctx, p.ID, store.ActiveOnly)
	s.Require().NoError(err)
	s.Equal(p.Number, found.Number)
	s.Equal(models.PhoneMobile, found.Category)
	s.False(found.IsDeleted())

	now := time.Now().UTC().Truncate(time.Microsecond)
	_, err = s.store.Execute(ctx, p.ID,
		func(p *models.TelephoneNumber) error { return p.CanSoftDelete() },
		func(p *models.TelephoneNumber) { p.ApplySoftDelete(now) },
	)
	s.Require().NoError(err)

	_, err = s.store.FindByID(ctx, p.ID, store.ActiveOnly)
	s.ErrorIs(err, sentinel.ErrNotFound)

	found, err = s.store.FindByID(ctx, p.ID, store.IncludeDeleted)
	s.Require().NoError(err)
	s.Require().NotNil(found.DeletedAt)
	s.WithinDuration(now, *found.DeletedAt, time.Millisecond)
}

func (s *PostgresStoreSuite) TestUnknownOwnerIsNotFound() {
	ctx := context.Background()
	p := s.newTestPhone(models.PhoneWork, "+1 (555) 010-2401")
	p.CustomerID = uuid.New()
	s.ErrorIs(s.store.Create(ctx, p), sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestListFilterByOwner() {
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	other := models.NewCustomer(uuid.New(), models.CustomerFields{
		Name:  "Globex",
		Email: "accounts@example.com",
	}, now)
	s.Require().NoError(s.customers.Create(ctx, other))

	mine := s.newTestPhone(models.PhoneWork, "+1 (555) 010-2402")
	s.Require().NoError(s.store.Create(ctx, mine))
	theirs := s.newTestPhone(models.PhoneWork, "+1 (555) 010-2403")
	theirs.CustomerID = other.ID
	s.Require().NoError(s.store.Create(ctx, theirs))

	all, total, err := s.store.List(ctx, store.ActiveOnly, store.PhoneFilter{}, store.Page{})
	s.Require().NoError(err)
	s.Equal(2, total)
	s.Len(all, 2)

	matched, total, err := s.store.List(ctx, store.ActiveOnly, store.PhoneFilter{CustomerID: s.owner.ID}, store.Page{})
	s.Require().NoError(err)
	s.Equal(1, total)
	s.Require().Len(matched, 1)
	s.Equal(mine.ID, matched[0].ID)
}

func (s *PostgresStoreSuite) TestRestoreThroughExecute() {
	ctx := context.Background()
	p := s.newTestPhone(models.PhoneMobile, "+1 (555) 010-2404")
	s.Require().NoError(s.store.Create(ctx, p))

	now := time.Now().UTC().Truncate(time.Microsecond)
	_, err := s.store.Execute(ctx, p.ID,
		func(p *models.TelephoneNumber) error { return p.CanSoftDelete() },
		func(p *models.TelephoneNumber) { p.ApplySoftDelete(now) },
	)
	s.Require().NoError(err)

	restored, err := s.store.Execute(ctx, p.ID,
		func(p *models.TelephoneNumber) error { return p.CanRestore() },
		func(p *models.TelephoneNumber) { p.ApplyRestore(now.Add(time.Second)) },
	)
	s.Require().NoError(err)
	s.Nil(restored.DeletedAt)

	found, err := s.store.FindByID(ctx, p.ID, store.ActiveOnly)
	s.Require().NoError(err)
	s.False(found.IsDeleted())
}

func (s *PostgresStoreSuite) TestUpdateUnknownIsNotFound() {
	ctx := context.Background()
	p := s.newTestPhone(models.PhoneWork, "+1 (555) 010-2405")
	s.ErrorIs(s.store.Update(ctx, p), sentinel.ErrNotFound)
}
