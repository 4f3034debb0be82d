package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/punchamoorthee/courtledger/internal/clock"
	"github.com/punchamoorthee/courtledger/internal/domain"
	"github.com/punchamoorthee/courtledger/internal/events"
	"github.com/punchamoorthee/courtledger/internal/store"
)

// Ids carry 32 random bits, so a collision is rare but possible.
const maxIDAttempts = 5

type ReservationService struct {
	store  store.Store
	clock  clock.Clock
	prices *domain.PriceTable
	pub    events.Publisher
	logger *slog.Logger
	newID  func() string
}

func NewReservationService(s store.Store, c clock.Clock, prices *domain.PriceTable, pub events.Publisher, logger *slog.Logger) *ReservationService {
	return &ReservationService{
		store:  s,
		clock:  c,
		prices: prices,
		pub:    pub,
		logger: logger,
		newID:  domain.NewReservationID,
	}
}

// ReserveRequest is a fully collected booking.
type ReserveRequest struct {
	DNI       string
	CourtType string
	Date      string // YYYY-MM-DD
	Time      string // HH:MM
}

type ReserveResult struct {
	Reservation *domain.Reservation
	Balance     int64
}

// Reserve books a court and charges the customer.
//
// Errors: domain.ErrCustomerNotFound, *domain.InsufficientCreditsError (nothing
// written), or a store fault. The reservation is written before the debit, and
// the two writes are not atomic: a failed debit leaves a confirmed reservation
// with the balance untouched.
func (s *ReservationService) Reserve(ctx context.Context, req ReserveRequest) (*ReserveResult, error) {
	court := strings.ToLower(strings.TrimSpace(req.CourtType))

	c, err := s.store.GetCustomer(ctx, req.DNI)
	if err != nil {
		return nil, err
	}

	cost := s.prices.Cost(court)
	if c.Credits < cost {
		return nil, &domain.InsufficientCreditsError{Required: cost, Available: c.Credits}
	}

	id, err := s.freshID(ctx)
	if err != nil {
		return nil, err
	}

	r := &domain.Reservation{
		ID:          id,
		CustomerDNI: req.DNI,
		CourtType:   court,
		Date:        req.Date,
		Time:        req.Time,
		DateTime:    req.Date + " " + req.Time,
		Cost:        cost,
		Status:      domain.StatusConfirmed,
		CreatedAt:   s.clock.Now(),
	}
	if err := s.store.PutReservation(ctx, r); err != nil {
		return nil, err
	}

	balance := c.Credits - cost
	if err := s.store.UpdateCredits(ctx, req.DNI, balance, nil); err != nil {
		s.logger.Error("debit failed after reservation write",
			"reservation_id", r.ID, "dni", req.DNI, "cost", cost, "error", err)
		return nil, fmt.Errorf("debit for %s: %w", r.ID, err)
	}

	err = s.pub.Publish(ctx, events.RKReservationConfirmed, events.ReservationConfirmed{
		ReservationID: r.ID,
		CustomerDNI:   r.CustomerDNI,
		CourtType:     r.CourtType,
		DateTime:      r.DateTime,
		Cost:          r.Cost,
		Balance:       balance,
	})
	if err != nil {
		s.logger.Warn("publish reservation.confirmed failed", "reservation_id", r.ID, "error", err)
	}

	return &ReserveResult{Reservation: r, Balance: balance}, nil
}

// freshID draws ids until one is not already taken.
func (s *ReservationService) freshID(ctx context.Context) (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := s.newID()
		_, err := s.store.GetReservation(ctx, id)
		if errors.Is(err, domain.ErrReservationNotFound) {
			return id, nil
		}
		if err != nil {
			return "", fmt.Errorf("check reservation id %s: %w", id, err)
		}
		s.logger.Warn("reservation id collision", "reservation_id", id)
	}
	return "", fmt.Errorf("no free reservation id after %d attempts", maxIDAttempts)
}
