// Command lambda serves one handler as an AWS Lambda function. FUNCTION
// selects which: router (dialog code hook), check-balance, or text-parser
// (contact-flow functions).
package main

import (
	"context"
	"log"
	_ "time/tzdata"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/punchamoorthee/courtledger/internal/api"
	"github.com/punchamoorthee/courtledger/internal/app"
	"github.com/punchamoorthee/courtledger/internal/config"
	"github.com/punchamoorthee/courtledger/internal/lex"
	"github.com/punchamoorthee/courtledger/internal/models"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger := app.NewLogger(cfg)

	a, err := app.New(context.Background(), cfg, logger)
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}
	h := a.Handler

	switch cfg.Function {
	case api.FnRouter:
		lambda.Start(func(ctx context.Context, ev lex.Event) (*lex.Response, error) {
			return h.Route(ctx, &ev), nil
		})
	case api.FnCheckBalance:
		lambda.Start(func(ctx context.Context, ev events.ConnectEvent) (*models.BalanceResponse, error) {
			return h.Balance(ctx, &ev), nil
		})
	case api.FnTextParser:
		lambda.Start(func(ctx context.Context, ev events.ConnectEvent) (*models.SummaryResponse, error) {
			return h.Summary(ctx, &ev), nil
		})
	default:
		log.Fatalf("unknown FUNCTION %q", cfg.Function)
	}
}
