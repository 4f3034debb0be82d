package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/punchamoorthee/courtledger/internal/domain"
)

type PostgresStore struct {
	Db *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return &PostgresStore{Db: pool}, nil
}

func (s *PostgresStore) Close() {
	s.Db.Close()
}

// GetCustomer retrieves a customer by DNI.
func (s *PostgresStore) GetCustomer(ctx context.Context, dni string) (*domain.Customer, error) {
	var c domain.Customer
	err := s.Db.QueryRow(ctx,
		"SELECT customer_dni, credits, created_at, last_load FROM customers WHERE customer_dni = $1",
		dni).Scan(&c.DNI, &c.Credits, &c.CreatedAt, &c.LastLoad)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("customer lookup failed: %w", err)
	}
	return &c, nil
}

// PutCustomer inserts or overwrites a customer record.
func (s *PostgresStore) PutCustomer(ctx context.Context, c *domain.Customer) error {
	_, err := s.Db.Exec(ctx,
		`INSERT INTO customers (customer_dni, credits, created_at, last_load) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (customer_dni) DO UPDATE
		 SET credits = EXCLUDED.credits, created_at = EXCLUDED.created_at, last_load = EXCLUDED.last_load`,
		c.DNI, c.Credits, c.CreatedAt, c.LastLoad,
	)
	if err != nil {
		return fmt.Errorf("customer put failed: %w", err)
	}
	return nil
}

// UpdateCredits overwrites the balance; it does not add to it.
func (s *PostgresStore) UpdateCredits(ctx context.Context, dni string, credits int64, lastLoad *time.Time) error {
	tag, err := s.Db.Exec(ctx,
		"UPDATE customers SET credits = $2, last_load = COALESCE($3::timestamptz, last_load) WHERE customer_dni = $1",
		dni, credits, lastLoad,
	)
	if err != nil {
		return fmt.Errorf("credit update failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCustomerNotFound
	}
	return nil
}

// PutReservation inserts or overwrites a reservation record.
func (s *PostgresStore) PutReservation(ctx context.Context, r *domain.Reservation) error {
	_, err := s.Db.Exec(ctx,
		`INSERT INTO reservations
		 (reservation_id, customer_dni, court_type, reservation_date, reservation_time,
		  reservation_datetime, cost, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (reservation_id) DO UPDATE
		 SET customer_dni = EXCLUDED.customer_dni, court_type = EXCLUDED.court_type,
		     reservation_date = EXCLUDED.reservation_date, reservation_time = EXCLUDED.reservation_time,
		     reservation_datetime = EXCLUDED.reservation_datetime, cost = EXCLUDED.cost,
		     status = EXCLUDED.status, created_at = EXCLUDED.created_at`,
		r.ID, r.CustomerDNI, r.CourtType, r.Date, r.Time, r.DateTime, r.Cost, r.Status, r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("reservation put failed: %w", err)
	}
	return nil
}

// GetReservation retrieves reservation details.
func (s *PostgresStore) GetReservation(ctx context.Context, id string) (*domain.Reservation, error) {
	var r domain.Reservation
	err := s.Db.QueryRow(ctx,
		`SELECT reservation_id, customer_dni, court_type, reservation_date, reservation_time,
		        reservation_datetime, cost, status, created_at
		 FROM reservations WHERE reservation_id = $1`,
		id).Scan(&r.ID, &r.CustomerDNI, &r.CourtType, &r.Date, &r.Time, &r.DateTime, &r.Cost, &r.Status, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrReservationNotFound
		}
		return nil, fmt.Errorf("reservation lookup failed: %w", err)
	}
	return &r, nil
}
