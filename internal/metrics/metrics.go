// Package metrics holds the Prometheus collectors for the skill.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

const namespace = "wolfram_skill"

// Outcome labels for RequestsTotal.
const (
	OutcomeReplied   = "replied"
	OutcomeSilent    = "silent"
	OutcomeUnhandled = "unhandled"
	OutcomeError     = "error"
)

// Metrics groups the skill's collectors.
type Metrics struct {
	Gatherer prometheus.Gatherer

	RequestsTotal    *prometheus.CounterVec
	AnswersTotal     *prometheus.CounterVec
	UpstreamDuration *prometheus.HistogramVec
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Gatherer: reg,
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Voice requests handled, by request type and outcome",
		}, []string{"type", "outcome"}),
		AnswersTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "answers_total",
			Help:      "Resolved queries, by the pod title that answered them",
		}, []string{"pod"}),
		UpstreamDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_duration_seconds",
			Help:      "Latency of Wolfram Alpha queries",
			Buckets:   prometheus.DefBuckets,
		}, []string{"status"}),
	}
}

// RecordRequest counts one handled request.
func (m *Metrics) RecordRequest(requestType, outcome string) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(requestType, outcome).Inc()
}

// RecordAnswer counts a resolved query. An empty title means no pod matched.
func (m *Metrics) RecordAnswer(podTitle string) {
	if m == nil {
		return
	}
	if podTitle == "" {
		podTitle = "none"
	}
	m.AnswersTotal.WithLabelValues(podTitle).Inc()
}

// ObserveUpstream records the latency of one upstream call.
func (m *Metrics) ObserveUpstream(d time.Duration, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.UpstreamDuration.WithLabelValues(status).Observe(d.Seconds())
}

// Push sends the current values to a Pushgateway. Used by hosts that are not
// scraped, such as Lambda.
func (m *Metrics) Push(url, job string) error {
	if m == nil || url == "" {
		return nil
	}
	return push.New(url, job).Gatherer(m.Gatherer).Push()
}
