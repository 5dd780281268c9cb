//go:build integration

package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"rolodex/internal/directory/cache"
	"rolodex/internal/directory/models"
	"rolodex/pkg/testutil/containers"
)

type CacheSuite struct {
	suite.Suite
	redis *containers.RedisContainer
}

func TestCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(CacheSuite))
}

func (s *CacheSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
}

func (s *CacheSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *CacheSuite) newCustomer() *models.Customer {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return models.NewCustomer(uuid.New(), models.CustomerFields{
		Name:  "Acme Corporation",
		Email: "billing@example.com",
	}, now)
}

func (s *CacheSuite) TestSetGetRoundTrip() {
	ctx := context.Background()
	c := cache.New[models.Customer](s.redis.Client, models.KindCustomer, time.Minute)
	rec := s.newCustomer()

	miss, err := c.Get(ctx, rec.ID)
	s.Require().NoError(err)
	s.Nil(miss)

	s.Require().NoError(c.Set(ctx, rec.ID, rec))

	hit, err := c.Get(ctx, rec.ID)
	s.Require().NoError(err)
	s.Require().NotNil(hit)
	s.Equal(rec.ID, hit.ID)
	s.Equal(rec.Name, hit.Name)
	s.True(rec.CreatedAt.Equal(hit.CreatedAt))
}

func (s *CacheSuite) TestInvalidateDropsRecordAndListing() {
	ctx := context.Background()
	c := cache.New[models.Customer](s.redis.Client, models.KindCustomer, time.Minute)
	rec := s.newCustomer()

	s.Require().NoError(c.Set(ctx, rec.ID, rec))
	s.Require().NoError(c.SetAll(ctx, []*models.Customer{rec}))

	s.Require().NoError(c.Invalidate(ctx, rec.ID))

	hit, err := c.Get(ctx, rec.ID)
	s.Require().NoError(err)
	s.Nil(hit)

	all, err := c.GetAll(ctx)
	s.Require().NoError(err)
	s.Nil(all)
}

func (s *CacheSuite) TestEntriesExpire() {
	ctx := context.Background()
	c := cache.New[models.Customer](s.redis.Client, models.KindCustomer, 100*time.Millisecond)
	rec := s.newCustomer()

	s.Require().NoError(c.Set(ctx, rec.ID, rec))
	time.Sleep(200 * time.Millisecond)

	hit, err := c.Get(ctx, rec.ID)
	s.Require().NoError(err)
	s.Nil(hit)
}

func (s *CacheSuite) TestKindsDoNotCollide() {
	ctx := context.Background()
	customers := cache.New[models.Customer](s.redis.Client, models.KindCustomer, time.Minute)
	invoices := cache.New[models.Invoice](s.redis.Client, models.KindInvoice, time.Minute)
	rec := s.newCustomer()

	s.Require().NoError(customers.Set(ctx, rec.ID, rec))

	hit, err := invoices.Get(ctx, rec.ID)
	s.Require().NoError(err)
	s.Nil(hit)
}
