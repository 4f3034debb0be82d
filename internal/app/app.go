// Package app assembles the store, services, and handlers from configuration.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/punchamoorthee/courtledger/internal/clock"
	"github.com/punchamoorthee/courtledger/internal/config"
	"github.com/punchamoorthee/courtledger/internal/domain"
	"github.com/punchamoorthee/courtledger/internal/events"
	"github.com/punchamoorthee/courtledger/internal/handler"
	"github.com/punchamoorthee/courtledger/internal/service"
	"github.com/punchamoorthee/courtledger/internal/store"
)

// NewLogger returns a JSON logger in production and a text logger elsewhere.
func NewLogger(cfg *config.Config) *slog.Logger {
	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stderr, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// App owns the long-lived resources behind the handlers.
type App struct {
	Handler *handler.Handler
	Store   store.Store
	pub     events.Publisher
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	loc, err := clock.LoadZone(cfg.Timezone)
	if err != nil {
		return nil, err
	}
	clk := clock.Real(loc)

	prices := domain.DefaultPrices()
	if cfg.PriceTableFile != "" {
		if prices, err = domain.LoadPriceTable(cfg.PriceTableFile); err != nil {
			return nil, err
		}
	}

	s, err := store.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.StoreBackend, err)
	}

	pub, err := events.New(cfg.RabbitURL, cfg.EventsExchange)
	if err != nil {
		s.Close()
		return nil, err
	}

	h := handler.New(
		service.NewCreditService(s, clk, pub, logger),
		service.NewReservationService(s, clk, prices, pub, logger),
		clk,
		logger,
	)
	return &App{Handler: h, Store: s, pub: pub}, nil
}

func (a *App) Close() {
	_ = a.pub.Close()
	a.Store.Close()
}
