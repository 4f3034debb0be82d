// Package events publishes ledger events for downstream consumers
// (notifications, reporting). Publishing is best effort.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Routing keys.
const (
	RKCreditsLoaded        = "credits.loaded"
	RKReservationConfirmed = "reservation.confirmed"
)

type CreditsLoaded struct {
	CustomerDNI string `json:"customer_dni"`
	Amount      int64  `json:"amount"`
	Balance     int64  `json:"balance"`
	NewAccount  bool   `json:"new_account"`
	At          string `json:"at"`
}

type ReservationConfirmed struct {
	ReservationID string `json:"reservation_id"`
	CustomerDNI   string `json:"customer_dni"`
	CourtType     string `json:"court_type"`
	DateTime      string `json:"reservation_datetime"`
	Cost          int64  `json:"cost"`
	Balance       int64  `json:"balance"`
}

type Publisher interface {
	Publish(ctx context.Context, key string, v any) error
	Close() error
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, string, any) error { return nil }
func (Nop) Close() error                               { return nil }

// AMQPPublisher sends JSON events to a durable topic exchange.
type AMQPPublisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

func NewAMQPPublisher(url, exchange string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &AMQPPublisher{conn: conn, ch: ch, exchange: exchange}, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return p.ch.PublishWithContext(ctx, p.exchange, key, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         b,
	})
}

func (p *AMQPPublisher) Close() error {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// New returns an AMQP publisher when url is set and Nop otherwise.
func New(url, exchange string) (Publisher, error) {
	if url == "" {
		return Nop{}, nil
	}
	p, err := NewAMQPPublisher(url, exchange)
	if err != nil {
		return nil, err
	}
	return p, nil
}
