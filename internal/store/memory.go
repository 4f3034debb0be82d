package store

import (
	"context"
	"sync"
	"time"

	"github.com/punchamoorthee/courtledger/internal/domain"
)

// MemoryStore is a process-local Store for tests and local runs.
type MemoryStore struct {
	mu           sync.Mutex
	customers    map[string]domain.Customer
	reservations map[string]domain.Reservation
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		customers:    make(map[string]domain.Customer),
		reservations: make(map[string]domain.Reservation),
	}
}

func (s *MemoryStore) Close() {}

func (s *MemoryStore) GetCustomer(_ context.Context, dni string) (*domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.customers[dni]
	if !ok {
		return nil, domain.ErrCustomerNotFound
	}
	return &c, nil
}

func (s *MemoryStore) PutCustomer(_ context.Context, c *domain.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers[c.DNI] = *c
	return nil
}

func (s *MemoryStore) UpdateCredits(_ context.Context, dni string, credits int64, lastLoad *time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.customers[dni]
	if !ok {
		return domain.ErrCustomerNotFound
	}
	c.Credits = credits
	if lastLoad != nil {
		c.LastLoad = *lastLoad
	}
	s.customers[dni] = c
	return nil
}

func (s *MemoryStore) PutReservation(_ context.Context, r *domain.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reservations[r.ID] = *r
	return nil
}

func (s *MemoryStore) GetReservation(_ context.Context, id string) (*domain.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reservations[id]
	if !ok {
		return nil, domain.ErrReservationNotFound
	}
	return &r, nil
}

// Reservations returns a snapshot of every stored reservation.
func (s *MemoryStore) Reservations() []domain.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Reservation, 0, len(s.reservations))
	for _, r := range s.reservations {
		out = append(out, r)
	}
	return out
}
