package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/punchamoorthee/courtledger/internal/clock"
	"github.com/punchamoorthee/courtledger/internal/domain"
	"github.com/punchamoorthee/courtledger/internal/events"
	"github.com/punchamoorthee/courtledger/internal/store"
)

type CreditService struct {
	store  store.Store
	clock  clock.Clock
	pub    events.Publisher
	logger *slog.Logger
}

func NewCreditService(s store.Store, c clock.Clock, pub events.Publisher, logger *slog.Logger) *CreditService {
	return &CreditService{store: s, clock: c, pub: pub, logger: logger}
}

// LoadResult describes a completed credit load.
type LoadResult struct {
	Customer *domain.Customer
	Previous int64
	Created  bool
}

// Balance returns the customer record, or domain.ErrCustomerNotFound.
func (s *CreditService) Balance(ctx context.Context, dni string) (*domain.Customer, error) {
	return s.store.GetCustomer(ctx, dni)
}

// Load adds amount to the customer's balance, creating the account on first load.
// The read and the write are separate store calls; concurrent loads can lose an update.
func (s *CreditService) Load(ctx context.Context, dni string, amount int64) (*LoadResult, error) {
	if amount < 0 {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidAmount, amount)
	}
	now := s.clock.Now()

	c, err := s.store.GetCustomer(ctx, dni)
	switch {
	case err == nil:
		if amount > math.MaxInt64-c.Credits {
			return nil, fmt.Errorf("%w: %d on a balance of %d overflows", domain.ErrInvalidAmount, amount, c.Credits)
		}
		prev := c.Credits
		c.Credits += amount
		c.LastLoad = now
		if err := s.store.UpdateCredits(ctx, dni, c.Credits, &now); err != nil {
			return nil, err
		}
		s.publish(ctx, c, amount, false)
		return &LoadResult{Customer: c, Previous: prev}, nil

	case errors.Is(err, domain.ErrCustomerNotFound):
		c = &domain.Customer{DNI: dni, Credits: amount, CreatedAt: now, LastLoad: now}
		if err := s.store.PutCustomer(ctx, c); err != nil {
			return nil, err
		}
		s.publish(ctx, c, amount, true)
		return &LoadResult{Customer: c, Created: true}, nil

	default:
		return nil, err
	}
}

func (s *CreditService) publish(ctx context.Context, c *domain.Customer, amount int64, created bool) {
	err := s.pub.Publish(ctx, events.RKCreditsLoaded, events.CreditsLoaded{
		CustomerDNI: c.DNI,
		Amount:      amount,
		Balance:     c.Credits,
		NewAccount:  created,
		At:          clock.Timestamp(s.clock),
	})
	if err != nil {
		s.logger.Warn("publish credits.loaded failed", "dni", c.DNI, "error", err)
	}
}
