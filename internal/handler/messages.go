package handler

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/punchamoorthee/courtledger/internal/clock"
	"github.com/punchamoorthee/courtledger/internal/domain"
	"github.com/punchamoorthee/courtledger/internal/service"
)

const (
	msgLoadCancelled    = "Entendido, operación cancelada. ¿En qué más puedo ayudarte?"
	msgReserveCancelled = "Entendido, reserva cancelada. ¿En qué más puedo ayudarte?"
	msgLoadError        = "Ocurrió un error procesando la carga. Por favor intenta de nuevo."
	msgReserveError     = "Ocurrió un error procesando la reserva. Por favor intenta de nuevo."
	msgRouterError      = "Ocurrió un error procesando tu solicitud. Por favor intenta de nuevo."
	msgMissingDNI       = "Necesito tu DNI para continuar. ¿Cuál es tu número de DNI?"
	msgMissingAmount    = "Necesito saber cuántos créditos quieres cargar."
	msgMissingBooking   = "Me faltan datos de la reserva. Necesito tipo de cancha, fecha y hora."
	msgUnknownSource    = "No pude procesar este paso de la conversación."
	msgCashReminder     = "💡 Recuerda llevar efectivo."
	msgBalanceNoDNI     = "Por favor proporciona tu DNI."
	msgBalanceFault     = "Ocurrió un error consultando tu balance."
	errBalanceNoDNI     = "DNI no proporcionado"
	msgSummaryError     = "Error procesando summary"
	paymentUnspecified  = "no informado"
	loadCreditsHint     = `Puedes cargar más créditos diciendo "quiero cargar créditos".`
	firstLoadCreditHint = `Primero debes cargar créditos diciendo "quiero cargar créditos".`
)

func loadedMessage(amount int64, res *service.LoadResult, payment string) string {
	if res.Created {
		return fmt.Sprintf("✅ Cuenta creada y carga exitosa!\n"+
			"Bienvenido! Se creó tu cuenta con %d créditos.\n"+
			"Método de pago: %s", amount, payment)
	}
	msg := fmt.Sprintf("✅ Carga exitosa!\n"+
		"Se agregaron %d créditos a tu cuenta.\n"+
		"Créditos anteriores: %d\n"+
		"Nuevo saldo: %d créditos\n"+
		"Método de pago: %s", amount, res.Previous, res.Customer.Credits, payment)
	if strings.ToLower(strings.TrimSpace(payment)) == "efectivo" {
		msg += "\n" + msgCashReminder
	}
	return msg
}

func pastSlotMessage(c clock.Clock, date, hhmm string) string {
	return fmt.Sprintf("❌ Lo siento, ese horario (%s a las %s) ya pasó.\n"+
		"Hora actual: %s\n\n"+
		"Por favor elige una fecha futura. ¿Para qué fecha? Ejemplo: %s",
		clock.FormatDate(date), hhmm, clock.FormatNow(c), c.Now().AddDate(0, 0, 1).Format("02/01/2006"))
}

func noAccountMessage(dni string) string {
	return fmt.Sprintf("❌ No encontramos una cuenta con DNI %s.\n%s", dni, firstLoadCreditHint)
}

func insufficientMessage(e *domain.InsufficientCreditsError) string {
	return fmt.Sprintf("❌ Créditos insuficientes.\n"+
		"Necesitas: %d créditos\n"+
		"Tienes: %d créditos\n"+
		"Faltan: %d créditos\n\n%s", e.Required, e.Available, e.Shortfall(), loadCreditsHint)
}

func confirmedMessage(res *service.ReserveResult) string {
	r := res.Reservation
	return fmt.Sprintf("✅ ¡Reserva confirmada!\n\n"+
		"📋 Código: %s\n"+
		"🏟️ Cancha: %s\n"+
		"📅 Fecha: %s\n"+
		"🕐 Hora: %s\n"+
		"💰 Costo: %d créditos\n\n"+
		"Tu nuevo saldo: %d créditos\n\n"+
		"Recuerda llegar 10 minutos antes. ¡Que disfrutes tu partido!",
		r.ID, capitalize(r.CourtType), clock.FormatDate(r.Date), r.Time, r.Cost, res.Balance)
}

func balanceMessage(credits int64) string {
	return fmt.Sprintf("Tienes %d créditos disponibles.", credits)
}

func balanceNotFoundMessage(dni string) string {
	return fmt.Sprintf("No encontramos una cuenta con DNI %s. Primero debes cargar créditos.", dni)
}

// capitalize upper-cases the first letter and lower-cases the rest.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
