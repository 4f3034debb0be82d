package handler

import (
	"context"
	"errors"

	"github.com/punchamoorthee/courtledger/internal/clock"
	"github.com/punchamoorthee/courtledger/internal/domain"
	"github.com/punchamoorthee/courtledger/internal/lex"
	"github.com/punchamoorthee/courtledger/internal/service"
)

// ReserveCourt handles ReserveCourtIntent.
func (h *Handler) ReserveCourt(ctx context.Context, ev *lex.Event) *lex.Response {
	intent := &ev.SessionState.Intent

	if _, ok := intent.Slots.Value(SlotCourtType); !ok {
		if court, found := InferCourtType(lex.Transcript(ev)); found {
			h.logger.Debug("court type inferred from transcript", "court", court)
			intent.SetSlot(SlotCourtType, court)
		}
	}

	switch ev.InvocationSource {
	case lex.DialogCodeHook:
		if answer, ok := intent.Slots.Value(SlotConfirmation); ok && isCancellation(answer) {
			h.logger.Info("reservation cancelled by caller")
			return h.finish(ev, outcomeCancelled, lex.Close(ev, lex.Fulfilled, msgReserveCancelled))
		}
		if resp := h.rejectPastSlot(ev); resp != nil {
			return resp
		}
		return h.finish(ev, outcomeDelegated, lex.Delegate(ev))

	case lex.FulfillmentCodeHook:
		if resp := h.rejectPastSlot(ev); resp != nil {
			return resp
		}
		return h.fulfillReservation(ctx, ev)

	default:
		h.logger.Warn("unknown invocation source", "source", ev.InvocationSource)
		return h.finish(ev, outcomeFailed, lex.Close(ev, lex.Failed, msgUnknownSource))
	}
}

// rejectPastSlot clears date and time and re-asks for the date when both are
// filled and do not lie strictly in the future. It returns nil otherwise.
func (h *Handler) rejectPastSlot(ev *lex.Event) *lex.Response {
	intent := &ev.SessionState.Intent
	date, okDate := intent.Slots.Value(SlotDate)
	hhmm, okTime := intent.Slots.Value(SlotTime)
	if !okDate || !okTime || clock.ReservationInFuture(h.clock, date, hhmm) {
		return nil
	}

	h.logger.Info("reservation slot in the past", "date", date, "time", hhmm, "now", clock.Timestamp(h.clock))
	msg := pastSlotMessage(h.clock, date, hhmm)
	intent.ClearSlot(SlotDate)
	intent.ClearSlot(SlotTime)
	return h.finish(ev, outcomeElicited, lex.ElicitSlot(ev, SlotDate, msg))
}

func (h *Handler) fulfillReservation(ctx context.Context, ev *lex.Event) *lex.Response {
	slots := ev.SessionState.Intent.Slots

	dni, ok := slots.Value(SlotCustomerDNI)
	if !ok {
		return h.finish(ev, outcomeRejected, lex.Close(ev, lex.Fulfilled, msgMissingDNI))
	}
	court, okCourt := slots.Value(SlotCourtType)
	date, okDate := slots.Value(SlotDate)
	hhmm, okTime := slots.Value(SlotTime)
	if !okCourt || !okDate || !okTime {
		return h.finish(ev, outcomeRejected, lex.Close(ev, lex.Fulfilled, msgMissingBooking))
	}

	res, err := h.reservations.Reserve(ctx, service.ReserveRequest{DNI: dni, CourtType: court, Date: date, Time: hhmm})

	var short *domain.InsufficientCreditsError
	switch {
	case err == nil:
		h.logger.Info("reservation confirmed", "reservation_id", res.Reservation.ID, "dni", dni,
			"court", res.Reservation.CourtType, "cost", res.Reservation.Cost, "balance", res.Balance)
		return h.finish(ev, outcomeFulfilled, lex.Close(ev, lex.Fulfilled, confirmedMessage(res)))

	case errors.Is(err, domain.ErrCustomerNotFound):
		h.logger.Info("reservation for unknown customer", "dni", dni)
		return h.finish(ev, outcomeRejected, lex.Close(ev, lex.Fulfilled, noAccountMessage(dni)))

	case errors.As(err, &short):
		h.logger.Info("reservation rejected for insufficient credits", "dni", dni,
			"required", short.Required, "available", short.Available)
		return h.finish(ev, outcomeRejected, lex.Close(ev, lex.Fulfilled, insufficientMessage(short)))

	default:
		h.logger.Error("reservation failed", "dni", dni, "court", court, "error", err)
		return h.finish(ev, outcomeError, lex.Close(ev, lex.Fulfilled, msgReserveError))
	}
}
