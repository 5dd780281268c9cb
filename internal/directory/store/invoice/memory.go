package invoice

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"rolodex/internal/directory/models"
	"rolodex/internal/directory/store"
	"rolodex/pkg/platform/sentinel"
)

// InMemory is a mutex-guarded map store for tests and local runs.
// Invoice numbers are unique, matching the database constraint.
type InMemory struct {
	mu       sync.RWMutex
	invoices map[uuid.UUID]models.Invoice
}

func NewInMemory() *InMemory {
	return &InMemory{invoices: make(map[uuid.UUID]models.Invoice)}
}

func (s *InMemory) Create(_ context.Context, inv *models.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.invoices[inv.ID]; exists {
		return sentinel.ErrConflict
	}
	for _, other := range s.invoices {
		if strings.EqualFold(other.Number, inv.Number) {
			return sentinel.ErrAlreadyUsed
		}
	}
	s.invoices[inv.ID] = *inv
	return nil
}

func (s *InMemory) FindByID(_ context.Context, id uuid.UUID, vis store.Visibility) (*models.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inv, ok := s.invoices[id]
	if !ok || !vis.Includes(inv.IsDeleted()) {
		return nil, sentinel.ErrNotFound
	}
	out := inv
	return &out, nil
}

func (s *InMemory) List(_ context.Context, vis store.Visibility, filter store.InvoiceFilter, page store.Page) ([]*models.Invoice, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]models.Invoice, 0, len(s.invoices))
	for _, inv := range s.invoices {
		if !vis.Includes(inv.IsDeleted()) {
			continue
		}
		if filter.CustomerID != uuid.Nil && inv.CustomerID != filter.CustomerID {
			continue
		}
		matched = append(matched, inv)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}
		return matched[i].ID.String() < matched[j].ID.String()
	})

	total := len(matched)
	out := make([]*models.Invoice, 0, page.Limit())
	for i := page.Offset(); i < total && len(out) < page.Limit(); i++ {
		inv := matched[i]
		out = append(out, &inv)
	}
	return out, total, nil
}

func (s *InMemory) Update(_ context.Context, inv *models.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.invoices[inv.ID]; !ok {
		return sentinel.ErrNotFound
	}
	for _, other := range s.invoices {
		if other.ID != inv.ID && strings.EqualFold(other.Number, inv.Number) {
			return sentinel.ErrAlreadyUsed
		}
	}
	s.invoices[inv.ID] = *inv
	return nil
}

// Execute runs validate-then-mutate while holding the store lock. The lookup
// always includes soft-deleted records.
func (s *InMemory) Execute(_ context.Context, id uuid.UUID, validate func(*models.Invoice) error, mutate func(*models.Invoice)) (*models.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, ok := s.invoices[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if err := validate(&inv); err != nil {
		return nil, err
	}
	mutate(&inv)
	s.invoices[id] = inv
	out := inv
	return &out, nil
}

// SumActiveByCustomer folds the balance over the customer's non-deleted invoices.
func (s *InMemory) SumActiveByCustomer(_ context.Context, customerID uuid.UUID) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var sum int64
	for _, inv := range s.invoices {
		if inv.CustomerID == customerID && !inv.IsDeleted() {
			sum += inv.Amount
		}
	}
	return sum, nil
}
