package handler

import (
	"context"
	"fmt"

	"github.com/punchamoorthee/courtledger/internal/lex"
)

// Route dispatches a dialog event by intent name. It never panics: a fault in
// a handler becomes a Failed close.
func (h *Handler) Route(ctx context.Context, ev *lex.Event) (resp *lex.Response) {
	name := ev.SessionState.Intent.Name
	h.logger.Info("dialog event received", "intent", name, "source", ev.InvocationSource)

	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("handler panicked", "intent", name, "panic", r)
			resp = h.finish(ev, outcomeFailed, lex.Close(ev, lex.Failed, msgRouterError))
		}
	}()

	switch name {
	case LoadCreditsIntent:
		return h.LoadCredits(ctx, ev)
	case ReserveCourtIntent:
		return h.ReserveCourt(ctx, ev)
	default:
		h.logger.Warn("unknown intent", "intent", name)
		return h.finish(ev, outcomeFailed, lex.Close(ev, lex.Failed, fmt.Sprintf("Intent desconocido: %s", name)))
	}
}
