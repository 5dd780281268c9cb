package phone

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"rolodex/internal/directory/models"
	"rolodex/internal/directory/store"
	"rolodex/pkg/platform/sentinel"
)

// InMemory is a mutex-guarded map store for tests and local runs.
type InMemory struct {
	mu     sync.RWMutex
	phones map[uuid.UUID]models.TelephoneNumber
}

func NewInMemory() *InMemory {
	return &InMemory{phones: make(map[uuid.UUID]models.TelephoneNumber)}
}

func (s *InMemory) Create(_ context.Context, p *models.TelephoneNumber) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.phones[p.ID]; exists {
		return sentinel.ErrConflict
	}
	s.phones[p.ID] = *p
	return nil
}

func (s *InMemory) FindByID(_ context.Context, id uuid.UUID, vis store.Visibility) (*models.TelephoneNumber, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.phones[id]
	if !ok || !vis.Includes(p.IsDeleted()) {
		return nil, sentinel.ErrNotFound
	}
	out := p
	return &out, nil
}

func (s *InMemory) List(_ context.Context, vis store.Visibility, filter store.PhoneFilter, page store.Page) ([]*models.TelephoneNumber, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]models.TelephoneNumber, 0, len(s.phones))
	for _, p := range s.phones {
		if !vis.Includes(p.IsDeleted()) {
			continue
		}
		if filter.CustomerID != uuid.Nil && p.CustomerID != filter.CustomerID {
			continue
		}
		matched = append(matched, p)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}
		return matched[i].ID.String() < matched[j].ID.String()
	})

	total := len(matched)
	out := make([]*models.TelephoneNumber, 0, page.Limit())
	for i := page.Offset(); i < total && len(out) < page.Limit(); i++ {
		p := matched[i]
		out = append(out, &p)
	}
	return out, total, nil
}

func (s *InMemory) Update(_ context.Context, p *models.TelephoneNumber) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.phones[p.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.phones[p.ID] = *p
	return nil
}

// Execute runs validate-then-mutate while holding the store lock. The lookup
// always includes soft-deleted records.
func (s *InMemory) Execute(_ context.Context, id uuid.UUID, validate func(*models.TelephoneNumber) error, mutate func(*models.TelephoneNumber)) (*models.TelephoneNumber, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.phones[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if err := validate(&p); err != nil {
		return nil, err
	}
	mutate(&p)
	s.phones[id] = p
	out := p
	return &out, nil
}
