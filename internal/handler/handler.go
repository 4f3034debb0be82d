// Package handler implements the code hooks and contact-flow functions the
// conversational platform calls. Every handler returns a well-formed
// response; faults are logged and turned into user-facing messages.
package handler

import (
	"log/slog"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/punchamoorthee/courtledger/internal/clock"
	"github.com/punchamoorthee/courtledger/internal/lex"
	"github.com/punchamoorthee/courtledger/internal/service"
)

// Intent names.
const (
	LoadCreditsIntent  = "LoadCreditsIntent"
	ReserveCourtIntent = "ReserveCourtIntent"
)

// Slot names.
const (
	SlotCustomerDNI   = "sl_customer_dni"
	SlotAmount        = "sl_amount"
	SlotPaymentMethod = "slt_payment_methods"
	SlotConfirmation  = "sl_confirmation"
	SlotCourtType     = "slt_court_types"
	SlotDate          = "sl_date"
	SlotTime          = "sl_time"
)

// Dialog outcomes, used as metric labels.
const (
	outcomeDelegated = "delegated"
	outcomeCancelled = "cancelled"
	outcomeElicited  = "elicited"
	outcomeFulfilled = "fulfilled"
	outcomeRejected  = "rejected"
	outcomeError     = "error"
	outcomeFailed    = "failed"
)

var dialogOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "courtledger_dialog_outcomes_total",
	Help: "Dialog turns handled, labeled by intent and outcome",
}, []string{"intent", "outcome"})

var negations = map[string]bool{
	"no":        true,
	"nop":       true,
	"negativo":  true,
	"cancelar":  true,
	"cancelo":   true,
	"nunca":     true,
	"no quiero": true,
}

// isCancellation reports whether a confirmation answer means "no".
func isCancellation(answer string) bool {
	return negations[strings.ToLower(strings.TrimSpace(answer))]
}

type Handler struct {
	credits      *service.CreditService
	reservations *service.ReservationService
	clock        clock.Clock
	logger       *slog.Logger
}

func New(credits *service.CreditService, reservations *service.ReservationService, c clock.Clock, logger *slog.Logger) *Handler {
	return &Handler{credits: credits, reservations: reservations, clock: c, logger: logger}
}

func (h *Handler) finish(ev *lex.Event, outcome string, resp *lex.Response) *lex.Response {
	dialogOutcomes.WithLabelValues(ev.SessionState.Intent.Name, outcome).Inc()
	return resp
}
