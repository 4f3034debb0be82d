package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	awsevents "github.com/aws/aws-lambda-go/events"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/punchamoorthee/courtledger/internal/handler"
	"github.com/punchamoorthee/courtledger/internal/lex"
)

// Function names, also used as metric labels and route suffixes.
const (
	FnRouter       = "router"
	FnCheckBalance = "check-balance"
	FnTextParser   = "text-parser"
)

// Events are small; anything larger is rejected.
const maxBodyBytes = 1 << 20

// Metrics
var (
	httpReqTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "courtledger_http_requests_total",
		Help: "Total function invocations over HTTP",
	}, []string{"function", "status"})

	httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "courtledger_http_request_duration_seconds",
		Help:    "Function invocation latency",
		Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1},
	}, []string{"function"})
)

type Handler struct {
	fn     *handler.Handler
	logger *slog.Logger
}

func NewHandler(fn *handler.Handler, logger *slog.Logger) *Handler {
	return &Handler{fn: fn, logger: logger}
}

// NewRouter wires the function endpoints plus /health and /metrics.
func NewRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.Handler())
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	r.HandleFunc("/functions/"+FnRouter, h.Router).Methods("POST")
	r.HandleFunc("/functions/"+FnCheckBalance, h.CheckBalance).Methods("POST")
	r.HandleFunc("/functions/"+FnTextParser, h.TextParser).Methods("POST")
	return r
}

func (h *Handler) Router(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(httpLatency.WithLabelValues(FnRouter))
	defer timer.ObserveDuration()

	var ev lex.Event
	if !h.decode(w, r, &ev, FnRouter) {
		return
	}
	h.respondJSON(w, http.StatusOK, h.fn.Route(r.Context(), &ev), FnRouter)
}

func (h *Handler) CheckBalance(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(httpLatency.WithLabelValues(FnCheckBalance))
	defer timer.ObserveDuration()

	var ev awsevents.ConnectEvent
	if !h.decode(w, r, &ev, FnCheckBalance) {
		return
	}
	h.respondJSON(w, http.StatusOK, h.fn.Balance(r.Context(), &ev), FnCheckBalance)
}

func (h *Handler) TextParser(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(httpLatency.WithLabelValues(FnTextParser))
	defer timer.ObserveDuration()

	var ev awsevents.ConnectEvent
	if !h.decode(w, r, &ev, FnTextParser) {
		return
	}
	h.respondJSON(w, http.StatusOK, h.fn.Summary(r.Context(), &ev), FnTextParser)
}

// Helpers
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any, fn string) bool {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Unreadable body", fn)
		return false
	}
	if err := json.Unmarshal(body, v); err != nil {
		h.logger.Warn("malformed event", "function", fn, "error", err)
		h.respondError(w, http.StatusBadRequest, "Invalid JSON", fn)
		return false
	}
	return true
}

func (h *Handler) respondJSON(w http.ResponseWriter, code int, payload interface{}, fn string) {
	httpReqTotal.WithLabelValues(fn, strconv.Itoa(code)).Inc()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

func (h *Handler) respondError(w http.ResponseWriter, code int, msg, fn string) {
	h.respondJSON(w, code, map[string]string{"error": msg}, fn)
}
