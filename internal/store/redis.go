package store

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/punchamoorthee/courtledger/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	customerPrefix    = "customer:"
	reservationPrefix = "reservation:"
)

// RedisStore keeps each record in a hash: customer:<dni> and reservation:<id>.
type RedisStore struct {
	client *redis.Client
}

// RedisOptions mirrors the connection settings read from the environment.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	PoolSize int
}

func NewRedisStore(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
		PoolSize: opts.PoolSize,
	})
	if _, err := client.Ping(ctx).Result(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}
	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Close() {
	_ = s.client.Close()
}

func (s *RedisStore) GetCustomer(ctx context.Context, dni string) (*domain.Customer, error) {
	fields, err := s.client.HGetAll(ctx, customerPrefix+dni).Result()
	if err != nil {
		return nil, fmt.Errorf("customer lookup failed: %w", err)
	}
	if len(fields) == 0 {
		return nil, domain.ErrCustomerNotFound
	}

	c := &domain.Customer{DNI: dni}
	if c.Credits, err = parseInt(fields, "credits"); err != nil {
		return nil, err
	}
	if c.CreatedAt, err = parseTime(fields, "created_at"); err != nil {
		return nil, err
	}
	if c.LastLoad, err = parseTime(fields, "last_load"); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *RedisStore) PutCustomer(ctx context.Context, c *domain.Customer) error {
	err := s.client.HSet(ctx, customerPrefix+c.DNI, map[string]interface{}{
		"customer_dni": c.DNI,
		"credits":      c.Credits,
		"created_at":   c.CreatedAt.Format(time.RFC3339Nano),
		"last_load":    c.LastLoad.Format(time.RFC3339Nano),
	}).Err()
	if err != nil {
		return fmt.Errorf("customer put failed: %w", err)
	}
	return nil
}

func (s *RedisStore) UpdateCredits(ctx context.Context, dni string, credits int64, lastLoad *time.Time) error {
	key := customerPrefix + dni
	n, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("credit update failed: %w", err)
	}
	if n == 0 {
		return domain.ErrCustomerNotFound
	}

	values := map[string]interface{}{"credits": credits}
	if lastLoad != nil {
		values["last_load"] = lastLoad.Format(time.RFC3339Nano)
	}
	if err := s.client.HSet(ctx, key, values).Err(); err != nil {
		return fmt.Errorf("credit update failed: %w", err)
	}
	return nil
}

func (s *RedisStore) PutReservation(ctx context.Context, r *domain.Reservation) error {
	err := s.client.HSet(ctx, reservationPrefix+r.ID, map[string]interface{}{
		"reservation_id":       r.ID,
		"customer_dni":         r.CustomerDNI,
		"court_type":           r.CourtType,
		"reservation_date":     r.Date,
		"reservation_time":     r.Time,
		"reservation_datetime": r.DateTime,
		"cost":                 r.Cost,
		"status":               r.Status,
		"created_at":           r.CreatedAt.Format(time.RFC3339Nano),
	}).Err()
	if err != nil {
		return fmt.Errorf("reservation put failed: %w", err)
	}
	return nil
}

func (s *RedisStore) GetReservation(ctx context.Context, id string) (*domain.Reservation, error) {
	f, err := s.client.HGetAll(ctx, reservationPrefix+id).Result()
	if err != nil {
		return nil, fmt.Errorf("reservation lookup failed: %w", err)
	}
	if len(f) == 0 {
		return nil, domain.ErrReservationNotFound
	}

	r := &domain.Reservation{
		ID:          id,
		CustomerDNI: f["customer_dni"],
		CourtType:   f["court_type"],
		Date:        f["reservation_date"],
		Time:        f["reservation_time"],
		DateTime:    f["reservation_datetime"],
		Status:      f["status"],
	}
	if r.Cost, err = parseInt(f, "cost"); err != nil {
		return nil, err
	}
	if r.CreatedAt, err = parseTime(f, "created_at"); err != nil {
		return nil, err
	}
	return r, nil
}

func parseInt(fields map[string]string, name string) (int64, error) {
	raw, ok := fields[name]
	if !ok {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("field %s: %w", name, err)
	}
	return v, nil
}

func parseTime(fields map[string]string, name string) (time.Time, error) {
	raw, ok := fields[name]
	if !ok || raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("field %s: %w", name, err)
	}
	return t, nil
}
