package customer

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
type InMemory struct {
	mu        sync.RWMutex
	customers map[uuid.UUID]models.Customer
}

func NewInMemory() *InMemory {
	return &InMemory{customers: make(map[uuid.UUID]models.Customer)}
}

func (s *InMemory) Create(_ context.Context, c *models.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.customers[c.ID]; exists {
		return sentinel.ErrConflict
	}
	s.customers[c.ID] = *c
	return nil
}

func (s *InMemory) FindByID(_ context.Context, id uuid.UUID, vis store.Visibility) (*models.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.customers[id]
	if !ok || !vis.Includes(c.IsDeleted()) {
		return nil, sentinel.ErrNotFound
	}
	out := c
	return &out, nil
}

func (s *InMemory) List(_ context.Context, vis store.Visibility, filter store.CustomerFilter, page store.Page) ([]*models.Customer, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]models.Customer, 0, len(s.customers))
	needle := strings.ToLower(filter.Name)
	for _, c := range s.customers {
		if !vis.Includes(c.IsDeleted()) {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(c.Name), needle) {
			continue
		}
		matched = append(matched, c)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}
		return matched[i].ID.String() < matched[j].ID.String()
	})

	total := len(matched)
	out := make([]*models.Customer, 0, page.Limit())
	for i := page.Offset(); i < total && len(out) < page.Limit(); i++ {
		c := matched[i]
		out = append(out, &c)
	}
	return out, total, nil
}

func (s *InMemory) Update(_ context.Context, c *models.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.customers[c.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.customers[c.ID] = *c
	return nil
}

// Execute runs validate-then-mutate while holding the store lock, so lifecycle
// transitions cannot interleave. The lookup always includes soft-deleted
// records; transition validation decides what states are acceptable.
func (s *InMemory) Execute(_ context.Context, id uuid.UUID, validate func(*models.Customer) error, mutate func(*models.Customer)) (*models.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.customers[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if err := validate(&c); err != nil {
		return nil, err
	}
	mutate(&c)
	s.customers[id] = c
	out := c
	return &out, nil
}
