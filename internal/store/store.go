// Package store persists customers and reservations. Every backend offers
// the same three access patterns: exact-key lookup, unconditional put, and an
// attribute update of a customer's balance. There is no cross-key transaction.
package store

import (
	"context"
	"time"

	"github.com/punchamoorthee/courtledger/internal/domain"
)

// Store is implemented by the Postgres, Redis, and in-memory backends.
type Store interface {
	// GetCustomer returns domain.ErrCustomerNotFound when dni has no record.
	GetCustomer(ctx context.Context, dni string) (*domain.Customer, error)
	// PutCustomer writes c, replacing any existing record with the same DNI.
	PutCustomer(ctx context.Context, c *domain.Customer) error
	// UpdateCredits sets the balance of an existing customer, and its last
	// load time when lastLoad is non-nil.
	UpdateCredits(ctx context.Context, dni string, credits int64, lastLoad *time.Time) error
	PutReservation(ctx context.Context, r *domain.Reservation) error
	GetReservation(ctx context.Context, id string) (*domain.Reservation, error)
	Close()
}
