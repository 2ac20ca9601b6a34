// Package main is the entry point for the Wolfram Alpha skill Lambda function.
package main

import (
	"context"
	"encoding/json"
	"log"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/pricofy/wolfram-skill/internal/config"
	"github.com/pricofy/wolfram-skill/internal/handler"
	"github.com/pricofy/wolfram-skill/internal/logging"
	"github.com/pricofy/wolfram-skill/internal/metrics"
	"github.com/pricofy/wolfram-skill/internal/router"
	"github.com/pricofy/wolfram-skill/internal/warmup"
)

const pushJob = "wolfram-skill"

type app struct {
	handler *handler.Handler
	warmer  *warmup.Warmer
	metrics *metrics.Metrics
	pushURL string
	log     *zap.Logger
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	var m *metrics.Metrics
	if cfg.PushgatewayURL != "" {
		m = metrics.New()
	}

	warmer, err := warmup.NewFromAWS(context.Background(), cfg.FunctionName, logger.Named("warmup"))
	if err != nil {
		logger.Warn("AWS config unavailable, warmup will not self-invoke", zap.Error(err))
		warmer = warmup.New(cfg.FunctionName, nil, logger.Named("warmup"))
	}

	a := &app{
		handler: handler.NewFromConfig(cfg, nil, m, logger),
		warmer:  warmer,
		metrics: m,
		pushURL: cfg.PushgatewayURL,
		log:     logger,
	}
	lambda.Start(a.handleRequest)
}

func (a *app) handleRequest(ctx context.Context, event json.RawMessage) (interface{}, error) {
	// Warmup detection (MUST be first - before any other processing)
	if ev, ok := warmup.Parse(event); ok {
		return a.warmer.Handle(ctx, ev), nil
	}

	defer a.push()

	outcome, err := a.handler.HandleRaw(ctx, event)
	if err != nil {
		return nil, err
	}

	// Session ended and unhandled types get no body.
	if outcome.Disposition != router.Replied {
		return nil, nil
	}
	return outcome.Response, nil
}

func (a *app) push() {
	if err := a.metrics.Push(a.pushURL, pushJob); err != nil {
		a.log.Warn("push metrics", zap.Error(err))
	}
}
