// Package router validates inbound voice events and dispatches them by
// request type and intent.
package router

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/pricofy/wolfram-skill/internal/domain"
	"github.com/pricofy/wolfram-skill/internal/resolver"
)

// Welcome response text.
const (
	WelcomeTitle    = "Welcome"
	WelcomeSpeech   = "Ask a question to Wolfram Alpha."
	WelcomeReprompt = "I didn't catch that. Ask a question for Wolfram Alpha."
)

// Disposition says what the host should send back.
type Disposition int

const (
	// Replied carries a response body.
	Replied Disposition = iota
	// Silent means the platform expects no body (session ended).
	Silent
	// Unhandled means the request type is outside the supported set.
	Unhandled
)

func (d Disposition) String() string {
	switch d {
	case Replied:
		return "replied"
	case Silent:
		return "silent"
	default:
		return "unhandled"
	}
}

// Outcome is the result of routing one event.
type Outcome struct {
	Disposition Disposition
	Response    *domain.Response
}

// AnswerResolver resolves wa_query intents.
type AnswerResolver interface {
	Resolve(ctx context.Context, intent *domain.Intent) (resolver.Answer, error)
}

// Router dispatches events for a single skill.
type Router struct {
	applicationID string
	resolver      AnswerResolver
	log           *zap.Logger
}

// New creates a Router that only accepts events for applicationID.
func New(applicationID string, r AnswerResolver, log *zap.Logger) *Router {
	if log == nil {
		log = zap.NewNop()
	}
	return &Router{
		applicationID: applicationID,
		resolver:      r,
		log:           log,
	}
}

// Route validates and dispatches one event.
func (r *Router) Route(ctx context.Context, event domain.Event) (Outcome, error) {
	appID := event.Session.Application.ApplicationID
	r.log.Debug("route event", zap.String("applicationId", appID))

	if appID != r.applicationID {
		return Outcome{}, &AuthorizationError{ApplicationID: appID}
	}

	// checked only after the application id matches
	if err := validateEvent(event); err != nil {
		return Outcome{}, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}

	if event.Session.New {
		r.onSessionStarted(event)
	}

	switch domain.ParseRequestType(event.Request.Type) {
	case domain.RequestTypeLaunch:
		return r.onLaunch(event), nil
	case domain.RequestTypeIntent:
		return r.onIntent(ctx, event)
	case domain.RequestTypeSessionEnded:
		return r.onSessionEnded(event), nil
	default:
		r.log.Warn("unhandled request type",
			zap.String("type", event.Request.Type),
			zap.String("requestId", event.Request.RequestID),
		)
		return Outcome{Disposition: Unhandled}, nil
	}
}

func (r *Router) onSessionStarted(event domain.Event) {
	r.log.Debug("session started",
		zap.String("requestId", event.Request.RequestID),
		zap.String("sessionId", event.Session.SessionID),
	)
}

func (r *Router) onLaunch(event domain.Event) Outcome {
	r.log.Debug("launch",
		zap.String("requestId", event.Request.RequestID),
		zap.String("sessionId", event.Session.SessionID),
	)
	return Outcome{
		Disposition: Replied,
		Response:    domain.NewResponse(WelcomeTitle, WelcomeSpeech, WelcomeReprompt, false),
	}
}

func (r *Router) onIntent(ctx context.Context, event domain.Event) (Outcome, error) {
	r.log.Debug("intent",
		zap.String("requestId", event.Request.RequestID),
		zap.String("sessionId", event.Session.SessionID),
	)

	intent := event.Request.Intent
	name := ""
	if intent != nil {
		name = intent.Name
	}

	switch domain.ParseIntentName(name) {
	case domain.IntentQuery:
		answer, err := r.resolver.Resolve(ctx, intent)
		if err != nil {
			return Outcome{}, fmt.Errorf("resolve %s: %w", name, err)
		}
		return Outcome{
			Disposition: Replied,
			Response:    domain.NewResponse(name, answer.Text, resolver.RepromptIntent, answer.ShouldEndSession),
		}, nil
	default:
		return Outcome{}, &UnrecognizedIntentError{Name: name}
	}
}

func (r *Router) onSessionEnded(event domain.Event) Outcome {
	r.log.Debug("session ended",
		zap.String("requestId", event.Request.RequestID),
		zap.String("sessionId", event.Session.SessionID),
		zap.String("reason", event.Request.Reason),
	)
	return Outcome{Disposition: Silent}
}

// validateEvent checks the event has the fields routing depends on.
func validateEvent(event domain.Event) error {
	if event.Request.Type == "" {
		return fmt.Errorf("request.type is required")
	}
	if event.Request.RequestID == "" {
		return fmt.Errorf("request.requestId is required")
	}
	return nil
}
