// Package warmup answers scheduled keep-warm events so voice requests do not
// pay for Lambda cold starts.
package warmup

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	lambdasdk "github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"go.uber.org/zap"
)

const (
	// Source identifies warmup events from the scheduler.
	Source = "warmup"

	// Delay keeps this instance busy long enough for the self-invocations to
	// land on other instances.
	Delay = 75 * time.Millisecond
)

// Event is the scheduled warmup payload.
type Event struct {
	Source      string `json:"source"`
	Concurrency int    `json:"concurrency"`
}

// Response is returned for warmup invocations.
type Response struct {
	StatusCode int  `json:"statusCode"`
	Body       Body `json:"body"`
}

// Body reports how many instances were warmed.
type Body struct {
	Status          string `json:"status"`
	InstancesWarmed int    `json:"instancesWarmed"`
}

// Invoker is the subset of the Lambda API used for self-invocation.
type Invoker interface {
	Invoke(ctx context.Context, params *lambdasdk.InvokeInput, optFns ...func(*lambdasdk.Options)) (*lambdasdk.InvokeOutput, error)
}

// Warmer handles warmup events for one function.
type Warmer struct {
	functionName string
	invoker      Invoker
	delay        time.Duration
	log          *zap.Logger
}

// New creates a Warmer. invoker may be nil when self-invocation is not
// needed; see NewFromAWS.
func New(functionName string, invoker Invoker, log *zap.Logger) *Warmer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Warmer{functionName: functionName, invoker: invoker, delay: Delay, log: log}
}

// NewFromAWS creates a Warmer using the default AWS credential chain.
func NewFromAWS(ctx context.Context, functionName string, log *zap.Logger) (*Warmer, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}
	return New(functionName, lambdasdk.NewFromConfig(cfg), log), nil
}

// Parse reports whether raw is a warmup event.
func Parse(raw json.RawMessage) (*Event, bool) {
	var probe struct {
		Source      string   `json:"source"`
		Concurrency *float64 `json:"concurrency"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, false
	}
	if probe.Source != Source {
		return nil, false
	}

	ev := &Event{Source: probe.Source}
	if probe.Concurrency != nil && *probe.Concurrency > 0 {
		ev.Concurrency = int(*probe.Concurrency)
	}
	return ev, true
}

// Handle processes a warmup event, self-invoking Concurrency times.
func (w *Warmer) Handle(ctx context.Context, ev *Event) Response {
	warmed := 1

	if ev.Concurrency > 0 {
		if err := w.selfInvoke(ctx, ev.Concurrency); err != nil {
			w.log.Warn("warmup self-invoke failed", zap.Int("concurrency", ev.Concurrency), zap.Error(err))
		} else {
			warmed += ev.Concurrency
		}
	}

	time.Sleep(w.delay)

	return Response{
		StatusCode: 200,
		Body:       Body{Status: "warm", InstancesWarmed: warmed},
	}
}

// selfInvoke fires count asynchronous invocations of this function.
func (w *Warmer) selfInvoke(ctx context.Context, count int) error {
	if w.invoker == nil {
		return errors.New("no lambda invoker configured")
	}

	// concurrency=0 so children do not fan out again
	payload, err := json.Marshal(Event{Source: Source})
	if err != nil {
		return err
	}

	var (
		wg       sync.WaitGroup
		errMu    sync.Mutex
		firstErr error
	)
	for i := 0; i < count; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			_, err := w.invoker.Invoke(ctx, &lambdasdk.InvokeInput{
				FunctionName:   aws.String(w.functionName),
				InvocationType: types.InvocationTypeEvent,
				Payload:        payload,
			})
			if err != nil {
				errMu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				errMu.Unlock()
			}
		}()
	}

	wg.Wait()
	return firstErr
}
