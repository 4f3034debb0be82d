package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	awsevents "github.com/aws/aws-lambda-go/events"
	"github.com/punchamoorthee/courtledger/internal/clock"
	"github.com/punchamoorthee/courtledger/internal/domain"
	"github.com/punchamoorthee/courtledger/internal/events"
	"github.com/punchamoorthee/courtledger/internal/lex"
	"github.com/punchamoorthee/courtledger/internal/models"
	"github.com/punchamoorthee/courtledger/internal/service"
	"github.com/punchamoorthee/courtledger/internal/store"
)

var (
	art     = time.FixedZone("ART", -3*60*60)
	testNow = time.Date(2025, 10, 20, 10, 0, 0, 0, art)
)

func newTestHandler(t *testing.T, s store.Store) *Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c := clock.Fixed(testNow)
	return New(
		service.NewCreditService(s, c, events.Nop{}, logger),
		service.NewReservationService(s, c, domain.DefaultPrices(), events.Nop{}, logger),
		c,
		logger,
	)
}

func dialogEvent(intent, source string, slots map[string]string) *lex.Event {
	ev := &lex.Event{InvocationSource: source}
	ev.SessionState.Intent.Name = intent
	ev.SessionState.Intent.Slots = lex.Slots{}
	for k, v := range slots {
		ev.SessionState.Intent.SetSlot(k, v)
	}
	return ev
}

func connectEvent(params map[string]string) *awsevents.ConnectEvent {
	return &awsevents.ConnectEvent{Details: awsevents.ConnectDetails{Parameters: params}}
}

func balanceEvent(dni string) *awsevents.ConnectEvent {
	return connectEvent(map[string]string{"customer_dni": dni})
}

func content(t *testing.T, resp *lex.Response) string {
	t.Helper()
	if len(resp.Messages) != 1 {
		t.Fatalf("expected one message, got %d", len(resp.Messages))
	}
	return resp.Messages[0].Content
}

func assertClose(t *testing.T, resp *lex.Response, state string) {
	t.Helper()
	if resp.SessionState.DialogAction.Type != lex.ActionClose {
		t.Fatalf("action = %q, want Close", resp.SessionState.DialogAction.Type)
	}
	if resp.SessionState.Intent.State != state {
		t.Fatalf("state = %q, want %q", resp.SessionState.Intent.State, state)
	}
}

func seeded(credits int64) store.Store {
	mem := store.NewMemoryStore()
	_ = mem.PutCustomer(context.Background(), &domain.Customer{DNI: "1", Credits: credits})
	return mem
}

// flakyStore fails every operation.
type flakyStore struct{ store.Store }

var errDown = errors.New("connection refused")

func (flakyStore) GetCustomer(context.Context, string) (*domain.Customer, error) { return nil, errDown }

func TestEndToEndScenario(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	h := newTestHandler(t, mem)

	resp := h.Route(ctx, dialogEvent(LoadCreditsIntent, lex.FulfillmentCodeHook, map[string]string{
		SlotCustomerDNI: "12345678", SlotAmount: "100", SlotPaymentMethod: "tarjeta",
	}))
	assertClose(t, resp, lex.Fulfilled)
	if !strings.Contains(content(t, resp), "Se creó tu cuenta con 100 créditos") {
		t.Fatalf("load message: %q", content(t, resp))
	}

	if b := h.Balance(ctx, balanceEvent("12345678")); b.Balance != "100" || b.Found != "true" {
		t.Fatalf("balance after load: %+v", b)
	}

	reserve := func(court string) *lex.Response {
		return h.Route(ctx, dialogEvent(ReserveCourtIntent, lex.FulfillmentCodeHook, map[string]string{
			SlotCustomerDNI: "12345678", SlotCourtType: court, SlotDate: "2025-10-30", SlotTime: "18:00",
		}))
	}

	resp = reserve("tenis")
	assertClose(t, resp, lex.Fulfilled)
	msg := content(t, resp)
	for _, want := range []string{"¡Reserva confirmada!", "Cancha: Tenis", "Fecha: 30/10/2025", "Hora: 18:00", "Costo: 30 créditos", "nuevo saldo: 70"} {
		if !strings.Contains(msg, want) {
			t.Errorf("confirmation missing %q: %q", want, msg)
		}
	}

	resp = reserve("fútbol")
	if !strings.Contains(content(t, resp), "nuevo saldo: 20") {
		t.Fatalf("second reservation: %q", content(t, resp))
	}

	resp = reserve("futbol")
	assertClose(t, resp, lex.Fulfilled)
	msg = content(t, resp)
	for _, want := range []string{"Créditos insuficientes", "Necesitas: 50", "Tienes: 20", "Faltan: 30"} {
		if !strings.Contains(msg, want) {
			t.Errorf("rejection missing %q: %q", want, msg)
		}
	}

	if b := h.Balance(ctx, balanceEvent("12345678")); b.Balance != "20" {
		t.Fatalf("final balance = %q", b.Balance)
	}
	rs := mem.Reservations()
	if len(rs) != 2 {
		t.Fatalf("reservations = %d, want 2", len(rs))
	}
	for _, r := range rs {
		if r.Status != domain.StatusConfirmed {
			t.Errorf("reservation %s status %q", r.ID, r.Status)
		}
	}
}

func TestBalance(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	_ = mem.PutCustomer(ctx, &domain.Customer{DNI: "1", Credits: 42})
	h := newTestHandler(t, mem)

	got := h.Balance(ctx, balanceEvent("1"))
	if *got != (models.BalanceResponse{Balance: "42", Found: "true", Message: "Tienes 42 créditos disponibles."}) {
		t.Errorf("existing: %+v", got)
	}

	got = h.Balance(ctx, balanceEvent("999"))
	if got.Balance != "0" || got.Found != "false" || got.Error != "" || !strings.Contains(got.Message, "999") {
		t.Errorf("unknown: %+v", got)
	}

	for _, ev := range []*awsevents.ConnectEvent{{}, balanceEvent(""), balanceEvent("   ")} {
		got = h.Balance(ctx, ev)
		if got.Error != "DNI no proporcionado" || got.Found != "false" || got.Message != "Por favor proporciona tu DNI." {
			t.Errorf("missing dni: %+v", got)
		}
	}

	got = newTestHandler(t, flakyStore{mem}).Balance(ctx, balanceEvent("1"))
	if got.Error != errDown.Error() || got.Found != "false" || got.Message != "Ocurrió un error consultando tu balance." {
		t.Errorf("fault: %+v", got)
	}
}

func TestCancellationShortCircuits(t *testing.T) {
	ctx := context.Background()
	tokens := []string{"no", "NO", " nop ", "Negativo", "cancelar", "cancelo", "nunca", "No Quiero"}

	for _, intent := range []string{LoadCreditsIntent, ReserveCourtIntent} {
		for _, tok := range tokens {
			h := newTestHandler(t, store.NewMemoryStore())
			ev := dialogEvent(intent, lex.DialogCodeHook, map[string]string{
				SlotConfirmation: tok,
				SlotCustomerDNI:  "1",
				SlotAmount:       "50",
				SlotDate:         "2020-01-01",
				SlotTime:         "10:00",
			})
			resp := h.Route(ctx, ev)
			assertClose(t, resp, lex.Fulfilled)
			if !strings.Contains(content(t, resp), "cancelada") {
				t.Errorf("%s/%q: %q", intent, tok, content(t, resp))
			}
		}
	}
}

func TestAffirmativeConfirmationDelegates(t *testing.T) {
	h := newTestHandler(t, store.NewMemoryStore())
	for _, ans := range []string{"si", "sí", "claro", "no sé"} {
		resp := h.LoadCredits(context.Background(), dialogEvent(LoadCreditsIntent, lex.DialogCodeHook, map[string]string{SlotConfirmation: ans}))
		if resp.SessionState.DialogAction.Type != lex.ActionDelegate {
			t.Errorf("%q: action %q", ans, resp.SessionState.DialogAction.Type)
		}
	}
}

func TestReservePastSlotIsElicited(t *testing.T) {
	h := newTestHandler(t, store.NewMemoryStore())

	for _, source := range []string{lex.DialogCodeHook, lex.FulfillmentCodeHook} {
		ev := dialogEvent(ReserveCourtIntent, source, map[string]string{
			SlotCustomerDNI: "1", SlotCourtType: "tenis", SlotDate: "2025-10-19", SlotTime: "09:00",
		})
		resp := h.ReserveCourt(context.Background(), ev)

		act := resp.SessionState.DialogAction
		if act.Type != lex.ActionElicitSlot || act.SlotToElicit != SlotDate {
			t.Fatalf("%s: action = %+v", source, act)
		}
		if resp.SessionState.Intent.State != lex.InProgress {
			t.Fatalf("%s: state = %q", source, resp.SessionState.Intent.State)
		}
		slots := resp.SessionState.Intent.Slots
		if _, ok := slots.Value(SlotDate); ok {
			t.Errorf("%s: date not cleared", source)
		}
		if _, ok := slots.Value(SlotTime); ok {
			t.Errorf("%s: time not cleared", source)
		}
		msg := content(t, resp)
		if !strings.Contains(msg, "19/10/2025 a las 09:00") || !strings.Contains(msg, "Hora actual: 20/10/2025 10:00") {
			t.Errorf("%s: message %q", source, msg)
		}
	}
}

func TestReserveCollectingDelegates(t *testing.T) {
	h := newTestHandler(t, store.NewMemoryStore())
	tests := map[string]map[string]string{
		"future slot": {SlotDate: "2025-10-20", SlotTime: "10:01"},
		"date only":   {SlotDate: "2020-01-01"},
		"nothing":     {},
	}
	for name, slots := range tests {
		resp := h.ReserveCourt(context.Background(), dialogEvent(ReserveCourtIntent, lex.DialogCodeHook, slots))
		if resp.SessionState.DialogAction.Type != lex.ActionDelegate {
			t.Errorf("%s: action %q", name, resp.SessionState.DialogAction.Type)
		}
	}
}

func TestReserveInfersCourtType(t *testing.T) {
	h := newTestHandler(t, store.NewMemoryStore())

	ev := dialogEvent(ReserveCourtIntent, lex.DialogCodeHook, nil)
	ev.InputTranscript = "Quiero una cancha de Pádel"
	resp := h.ReserveCourt(context.Background(), ev)
	if v, _ := resp.SessionState.Intent.Slots.Value(SlotCourtType); v != "padel" {
		t.Fatalf("inferred court = %q", v)
	}

	ev = dialogEvent(ReserveCourtIntent, lex.DialogCodeHook, map[string]string{SlotCourtType: "tenis"})
	ev.InputTranscript = "futbol"
	resp = h.ReserveCourt(context.Background(), ev)
	if v, _ := resp.SessionState.Intent.Slots.Value(SlotCourtType); v != "tenis" {
		t.Fatalf("existing court slot overwritten: %q", v)
	}
}

func TestReserveFulfillmentOutcomes(t *testing.T) {
	ctx := context.Background()
	slots := map[string]string{SlotCustomerDNI: "404", SlotCourtType: "tenis", SlotDate: "2025-10-30", SlotTime: "18:00"}

	resp := newTestHandler(t, store.NewMemoryStore()).ReserveCourt(ctx, dialogEvent(ReserveCourtIntent, lex.FulfillmentCodeHook, slots))
	assertClose(t, resp, lex.Fulfilled)
	if !strings.Contains(content(t, resp), "No encontramos una cuenta con DNI 404") {
		t.Errorf("unknown customer: %q", content(t, resp))
	}

	resp = newTestHandler(t, flakyStore{store.NewMemoryStore()}).ReserveCourt(ctx, dialogEvent(ReserveCourtIntent, lex.FulfillmentCodeHook, slots))
	assertClose(t, resp, lex.Fulfilled)
	if content(t, resp) != msgReserveError {
		t.Errorf("store fault: %q", content(t, resp))
	}

	resp = newTestHandler(t, store.NewMemoryStore()).ReserveCourt(ctx, dialogEvent(ReserveCourtIntent, lex.FulfillmentCodeHook, map[string]string{SlotCourtType: "tenis"}))
	if content(t, resp) != msgMissingDNI {
		t.Errorf("missing dni: %q", content(t, resp))
	}

	resp = newTestHandler(t, store.NewMemoryStore()).ReserveCourt(ctx, dialogEvent(ReserveCourtIntent, lex.FulfillmentCodeHook, map[string]string{SlotCustomerDNI: "1"}))
	if content(t, resp) != msgMissingBooking {
		t.Errorf("missing booking details: %q", content(t, resp))
	}
}

func TestReserveUnknownCategoryChargesDefault(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	_ = mem.PutCustomer(ctx, &domain.Customer{DNI: "1", Credits: 100})

	resp := newTestHandler(t, mem).ReserveCourt(ctx, dialogEvent(ReserveCourtIntent, lex.FulfillmentCodeHook, map[string]string{
		SlotCustomerDNI: "1", SlotCourtType: "Hockey", SlotDate: "2025-10-30", SlotTime: "18:00",
	}))
	if !strings.Contains(content(t, resp), "Costo: 50 créditos") {
		t.Fatalf("message: %q", content(t, resp))
	}
	c, _ := mem.GetCustomer(ctx, "1")
	if c.Credits != 50 {
		t.Fatalf("balance = %d", c.Credits)
	}
}

func TestLoadCreditsFulfillment(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	_ = mem.PutCustomer(ctx, &domain.Customer{DNI: "1", Credits: 30})
	h := newTestHandler(t, mem)

	resp := h.LoadCredits(ctx, dialogEvent(LoadCreditsIntent, lex.FulfillmentCodeHook, map[string]string{
		SlotCustomerDNI: "1", SlotAmount: " 20 ", SlotPaymentMethod: " Efectivo",
	}))
	assertClose(t, resp, lex.Fulfilled)
	msg := content(t, resp)
	for _, want := range []string{"Se agregaron 20 créditos", "Créditos anteriores: 30", "Nuevo saldo: 50 créditos", "Método de pago:  Efectivo", msgCashReminder} {
		if !strings.Contains(msg, want) {
			t.Errorf("missing %q in %q", want, msg)
		}
	}
	c, _ := mem.GetCustomer(ctx, "1")
	if c.Credits != 50 || !c.LastLoad.Equal(testNow) {
		t.Fatalf("customer = %+v", c)
	}

	resp = h.LoadCredits(ctx, dialogEvent(LoadCreditsIntent, lex.FulfillmentCodeHook, map[string]string{
		SlotCustomerDNI: "1", SlotAmount: "5", SlotPaymentMethod: "tarjeta",
	}))
	if strings.Contains(content(t, resp), msgCashReminder) {
		t.Error("cash reminder shown for card payment")
	}
}

func TestLoadCreditsFaults(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name  string
		s     store.Store
		slots map[string]string
		want  string
	}{
		{"bad amount", store.NewMemoryStore(), map[string]string{SlotCustomerDNI: "1", SlotAmount: "cien"}, msgLoadError},
		{"negative amount", store.NewMemoryStore(), map[string]string{SlotCustomerDNI: "1", SlotAmount: "-5"}, msgLoadError},
		{"overflowing amount", seeded(100), map[string]string{SlotCustomerDNI: "1", SlotAmount: "9223372036854775807"}, msgLoadError},
		{"store down", flakyStore{store.NewMemoryStore()}, map[string]string{SlotCustomerDNI: "1", SlotAmount: "10"}, msgLoadError},
		{"missing dni", store.NewMemoryStore(), map[string]string{SlotAmount: "10"}, msgMissingDNI},
		{"missing amount", store.NewMemoryStore(), map[string]string{SlotCustomerDNI: "1"}, msgMissingAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := newTestHandler(t, tt.s).LoadCredits(ctx, dialogEvent(LoadCreditsIntent, lex.FulfillmentCodeHook, tt.slots))
			assertClose(t, resp, lex.Fulfilled)
			if got := content(t, resp); got != tt.want {
				t.Errorf("message = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoadCreditsPrefillsAmount(t *testing.T) {
	h := newTestHandler(t, store.NewMemoryStore())

	ev := dialogEvent(LoadCreditsIntent, lex.DialogCodeHook, nil)
	ev.InputTranscript = "Quiero cargar 150 créditos"
	resp := h.LoadCredits(context.Background(), ev)
	if v, _ := resp.SessionState.Intent.Slots.Value(SlotAmount); v != "150" {
		t.Fatalf("pre-filled amount = %q", v)
	}

	ev = dialogEvent(LoadCreditsIntent, lex.DialogCodeHook, map[string]string{SlotAmount: "10"})
	ev.InputTranscript = "cargar 99"
	resp = h.LoadCredits(context.Background(), ev)
	if v, _ := resp.SessionState.Intent.Slots.Value(SlotAmount); v != "10" {
		t.Fatalf("existing amount overwritten: %q", v)
	}
}

func TestUnknownInvocationSource(t *testing.T) {
	h := newTestHandler(t, store.NewMemoryStore())
	for _, intent := range []string{LoadCreditsIntent, ReserveCourtIntent} {
		resp := h.Route(context.Background(), dialogEvent(intent, "SomethingElse", nil))
		assertClose(t, resp, lex.Failed)
	}
}

func TestRouter(t *testing.T) {
	h := newTestHandler(t, store.NewMemoryStore())

	resp := h.Route(context.Background(), dialogEvent("CheckWeatherIntent", lex.DialogCodeHook, nil))
	assertClose(t, resp, lex.Failed)
	if content(t, resp) != "Intent desconocido: CheckWeatherIntent" {
		t.Errorf("unknown intent message: %q", content(t, resp))
	}
	if resp.SessionState.Intent.Name != "CheckWeatherIntent" {
		t.Errorf("intent name = %q", resp.SessionState.Intent.Name)
	}

	resp = h.Route(context.Background(), dialogEvent(LoadCreditsIntent, lex.DialogCodeHook, nil))
	if resp.SessionState.DialogAction.Type != lex.ActionDelegate {
		t.Errorf("load credits not dispatched: %+v", resp.SessionState.DialogAction)
	}
}

func TestRouterRecoversFromPanic(t *testing.T) {
	h := &Handler{
		clock:  clock.Fixed(testNow),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	resp := h.Route(context.Background(), dialogEvent(LoadCreditsIntent, lex.FulfillmentCodeHook, map[string]string{
		SlotCustomerDNI: "1", SlotAmount: "10",
	}))
	assertClose(t, resp, lex.Failed)
	if content(t, resp) != msgRouterError {
		t.Errorf("message = %q", content(t, resp))
	}
}

func TestSummary(t *testing.T) {
	h := newTestHandler(t, store.NewMemoryStore())
	ev := connectEvent(map[string]string{
		"qicSummaryIn": "<SummaryItems><Item>El cliente quiere reservar cancha</Item><Item>DNI: 12345678</Item></SummaryItems>",
	})
	want := "- El cliente quiere reservar cancha.\n- DNI: 12345678."
	if got := h.Summary(context.Background(), ev).QicSummaryOut; got != want {
		t.Errorf("Summary = %q, want %q", got, want)
	}

	if got := h.Summary(context.Background(), &awsevents.ConnectEvent{}).QicSummaryOut; got != "Error procesando summary" {
		t.Errorf("missing input = %q", got)
	}
}
