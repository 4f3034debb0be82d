package handler

import (
	"context"
	"strconv"
	"strings"

	"github.com/punchamoorthee/courtledger/internal/lex"
)

// LoadCredits handles LoadCreditsIntent.
func (h *Handler) LoadCredits(ctx context.Context, ev *lex.Event) *lex.Response {
	intent := &ev.SessionState.Intent

	if _, ok := intent.Slots.Value(SlotAmount); !ok {
		if amount, found := ExtractAmount(lex.Transcript(ev)); found {
			h.logger.Debug("amount pre-filled from transcript", "amount", amount)
			intent.SetSlot(SlotAmount, amount)
		}
	}

	switch ev.InvocationSource {
	case lex.DialogCodeHook:
		if answer, ok := intent.Slots.Value(SlotConfirmation); ok && isCancellation(answer) {
			h.logger.Info("credit load cancelled by caller")
			return h.finish(ev, outcomeCancelled, lex.Close(ev, lex.Fulfilled, msgLoadCancelled))
		}
		return h.finish(ev, outcomeDelegated, lex.Delegate(ev))

	case lex.FulfillmentCodeHook:
		return h.fulfillLoad(ctx, ev)

	default:
		h.logger.Warn("unknown invocation source", "source", ev.InvocationSource)
		return h.finish(ev, outcomeFailed, lex.Close(ev, lex.Failed, msgUnknownSource))
	}
}

func (h *Handler) fulfillLoad(ctx context.Context, ev *lex.Event) *lex.Response {
	slots := ev.SessionState.Intent.Slots

	dni, ok := slots.Value(SlotCustomerDNI)
	if !ok {
		return h.finish(ev, outcomeRejected, lex.Close(ev, lex.Fulfilled, msgMissingDNI))
	}
	rawAmount, ok := slots.Value(SlotAmount)
	if !ok {
		return h.finish(ev, outcomeRejected, lex.Close(ev, lex.Fulfilled, msgMissingAmount))
	}
	payment := slots.ValueOr(SlotPaymentMethod, paymentUnspecified)

	amount, err := strconv.ParseInt(strings.TrimSpace(rawAmount), 10, 64)
	if err != nil {
		h.logger.Warn("unparsable credit amount", "amount", rawAmount, "error", err)
		return h.finish(ev, outcomeError, lex.Close(ev, lex.Fulfilled, msgLoadError))
	}

	res, err := h.credits.Load(ctx, dni, amount)
	if err != nil {
		h.logger.Error("credit load failed", "dni", dni, "amount", amount, "error", err)
		return h.finish(ev, outcomeError, lex.Close(ev, lex.Fulfilled, msgLoadError))
	}

	h.logger.Info("credits loaded", "dni", dni, "amount", amount,
		"previous", res.Previous, "balance", res.Customer.Credits, "created", res.Created)
	return h.finish(ev, outcomeFulfilled, lex.Close(ev, lex.Fulfilled, loadedMessage(amount, res, payment)))
}
