// Package handler provides the host-independent entry point for the skill.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"go.uber.org/zap"

	"github.com/pricofy/wolfram-skill/internal/config"
	"github.com/pricofy/wolfram-skill/internal/domain"
	"github.com/pricofy/wolfram-skill/internal/metrics"
	"github.com/pricofy/wolfram-skill/internal/resolver"
	"github.com/pricofy/wolfram-skill/internal/router"
	"github.com/pricofy/wolfram-skill/internal/wolfram"
)

// ErrMalformedEvent is returned for events that cannot be decoded or are
// missing required fields.
var ErrMalformedEvent = router.ErrMalformedEvent

// Router is the dispatch step the handler delegates to.
type Router interface {
	Route(ctx context.Context, event domain.Event) (router.Outcome, error)
}

// Handler decodes events, routes them and records the outcome.
type Handler struct {
	router  Router
	metrics *metrics.Metrics
	log     *zap.Logger
}

// New creates a Handler around r. m may be nil.
func New(r Router, m *metrics.Metrics, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{router: r, metrics: m, log: log}
}

// NewFromConfig wires the Wolfram client, resolver and router for cfg.
// httpClient may be nil.
func NewFromConfig(cfg *config.Config, httpClient *http.Client, m *metrics.Metrics, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	client := wolfram.NewClient(cfg.Wolfram(), httpClient, log.Named("wolfram"))
	res := resolver.New(client, m, log.Named("resolver"))
	r := router.New(cfg.SkillID, res, log.Named("router"))
	return New(r, m, log)
}

// HandleRaw decodes a JSON event and handles it.
func (h *Handler) HandleRaw(ctx context.Context, raw []byte) (router.Outcome, error) {
	var event domain.Event
	if err := json.Unmarshal(raw, &event); err != nil {
		h.metrics.RecordRequest("", metrics.OutcomeError)
		return router.Outcome{}, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	return h.Handle(ctx, event)
}

// Handle routes a decoded event and records the outcome.
func (h *Handler) Handle(ctx context.Context, event domain.Event) (router.Outcome, error) {
	log := h.log.With(zap.String("requestId", event.Request.RequestID))
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		log = log.With(zap.String("awsRequestId", lc.AwsRequestID))
	}

	requestType := domain.ParseRequestType(event.Request.Type).String()

	outcome, err := h.router.Route(ctx, event)
	if err != nil {
		h.metrics.RecordRequest(requestType, metrics.OutcomeError)
		log.Error("request failed", zap.String("type", event.Request.Type), zap.Error(err))
		return router.Outcome{}, err
	}

	h.metrics.RecordRequest(requestType, outcome.Disposition.String())
	log.Debug("request handled",
		zap.String("type", event.Request.Type),
		zap.Stringer("disposition", outcome.Disposition),
	)
	return outcome, nil
}

// StatusCode maps a handling error to the HTTP status an HTTP host should
// answer with.
func StatusCode(err error) int {
	var (
		authErr      *router.AuthorizationError
		intentErr    *router.UnrecognizedIntentError
		transportErr *wolfram.TransportError
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &authErr):
		return http.StatusForbidden
	case errors.Is(err, ErrMalformedEvent), errors.As(err, &intentErr):
		return http.StatusBadRequest
	case errors.As(err, &transportErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
