package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// StatusConfirmed is the only status a reservation ever has.
const StatusConfirmed = "confirmed"

var (
	ErrCustomerNotFound    = errors.New("customer not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrInsufficientCredits = errors.New("insufficient credits")
	ErrInvalidAmount       = errors.New("invalid amount")
)

// Customer is a credit account keyed by national ID.
// Credits never go negative: debits are checked before they are written.
type Customer struct {
	DNI       string    `json:"customer_dni"`
	Credits   int64     `json:"credits"`
	CreatedAt time.Time `json:"created_at"`
	LastLoad  time.Time `json:"last_load"`
}

// Reservation is written once per successful booking and never changed.
type Reservation struct {
	ID          string    `json:"reservation_id"`
	CustomerDNI string    `json:"customer_dni"`
	CourtType   string    `json:"court_type"`
	Date        string    `json:"reservation_date"`
	Time        string    `json:"reservation_time"`
	DateTime    string    `json:"reservation_datetime"`
	Cost        int64     `json:"cost"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// InsufficientCreditsError reports how far short a customer is of a court's cost.
type InsufficientCreditsError struct {
	Required  int64
	Available int64
}

func (e *InsufficientCreditsError) Error() string {
	return fmt.Sprintf("insufficient credits: need %d, have %d", e.Required, e.Available)
}

func (e *InsufficientCreditsError) Unwrap() error { return ErrInsufficientCredits }

// Shortfall is how many more credits the customer needs.
func (e *InsufficientCreditsError) Shortfall() int64 {
	return e.Required - e.Available
}

// NewReservationID returns a short, human-readable reservation code such as RES-1A2B3C4D.
func NewReservationID() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "RES-" + strings.ToUpper(hex[:8])
}
