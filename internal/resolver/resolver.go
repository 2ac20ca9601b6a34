// Package resolver turns a spoken question into a single short answer using
// the Wolfram Alpha API.
package resolver

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pricofy/wolfram-skill/internal/domain"
	"github.com/pricofy/wolfram-skill/internal/metrics"
	"github.com/pricofy/wolfram-skill/internal/wolfram"
)

// Fixed prompts used when there is nothing to ask upstream.
const (
	PromptRetry    = "Try asking me a question you'd ask Wolfram Alpha."
	RepromptIntent = "I didn't catch that. Care to try again?"
)

// Querier is the upstream call the resolver depends on.
type Querier interface {
	Query(ctx context.Context, input string) (*wolfram.QueryResult, error)
}

// Answer is the outcome of resolving one question.
type Answer struct {
	Query            string
	Text             string
	PodTitle         string
	ShouldEndSession bool
}

// Resolver answers wa_query intents.
type Resolver struct {
	querier Querier
	metrics *metrics.Metrics
	log     *zap.Logger
}

// New creates a Resolver. m may be nil.
func New(q Querier, m *metrics.Metrics, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{querier: q, metrics: m, log: log}
}

// CorrectQuery undoes the speech recogniser hearing "pi" as "pie".
func CorrectQuery(q string) string {
	return strings.ReplaceAll(q, "pie", "pi")
}

// Resolve reads the query slot, asks upstream and extracts the answer.
// Upstream and extraction failures are returned as errors; a query with no
// usable pod is a normal answer with ShouldEndSession false.
func (r *Resolver) Resolve(ctx context.Context, intent *domain.Intent) (Answer, error) {
	raw := intent.SlotValue(domain.QuerySlot)
	if strings.TrimSpace(raw) == "" {
		return Answer{Text: PromptRetry}, nil
	}

	query := CorrectQuery(raw)
	r.log.Info("ask wolfram alpha", zap.String("query", query))

	start := time.Now()
	result, err := r.querier.Query(ctx, query)
	r.metrics.ObserveUpstream(time.Since(start), err)
	if err != nil {
		return Answer{}, fmt.Errorf("query %q: %w", query, err)
	}

	pod, ok := SelectPod(result.Pods)
	if !ok {
		r.metrics.RecordAnswer("")
		text := fmt.Sprintf("No results for %s", query)
		r.log.Info("wolfram alpha result", zap.String("query", query), zap.String("result", text))
		return Answer{Query: query, Text: text}, nil
	}

	text, err := ExtractAnswer(pod)
	if err != nil {
		return Answer{}, err
	}
	r.metrics.RecordAnswer(pod.Title)
	r.log.Info("wolfram alpha result",
		zap.String("query", query),
		zap.String("pod", pod.Title),
		zap.String("result", text),
	)

	return Answer{
		Query:            query,
		Text:             text,
		PodTitle:         pod.Title,
		ShouldEndSession: true,
	}, nil
}
