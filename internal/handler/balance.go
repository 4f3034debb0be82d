package handler

import (
	"context"
	"errors"
	"strconv"
	"strings"

	awsevents "github.com/aws/aws-lambda-go/events"
	"github.com/punchamoorthee/courtledger/internal/domain"
	"github.com/punchamoorthee/courtledger/internal/models"
)

// Balance answers a contact-flow balance query for Parameters.customer_dni.
func (h *Handler) Balance(ctx context.Context, ev *awsevents.ConnectEvent) *models.BalanceResponse {
	dni, ok := ev.Details.Parameters["customer_dni"]
	dni = strings.TrimSpace(dni)
	if !ok || dni == "" {
		h.logger.Warn("balance query without customer_dni")
		return &models.BalanceResponse{Error: errBalanceNoDNI, Message: msgBalanceNoDNI, Found: "false"}
	}

	c, err := h.credits.Balance(ctx, dni)
	switch {
	case err == nil:
		h.logger.Info("balance query", "dni", dni, "credits", c.Credits)
		return &models.BalanceResponse{
			Balance: strconv.FormatInt(c.Credits, 10),
			Found:   "true",
			Message: balanceMessage(c.Credits),
		}
	case errors.Is(err, domain.ErrCustomerNotFound):
		h.logger.Info("balance query for unknown customer", "dni", dni)
		return &models.BalanceResponse{Balance: "0", Found: "false", Message: balanceNotFoundMessage(dni)}
	default:
		h.logger.Error("balance query failed", "dni", dni, "error", err)
		return &models.BalanceResponse{Error: err.Error(), Message: msgBalanceFault, Found: "false"}
	}
}
