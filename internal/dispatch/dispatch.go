// Package dispatch fans an evaluation prompt out to a set of models in
// parallel and collects every outcome. A model failing is data, not an
// abort: its error lands in the result map alongside the successes, and the
// run only errors out when no model can be dispatched or none succeed.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tribunal-ai/tribunal/internal/providers"
	"github.com/tribunal-ai/tribunal/internal/registry"
	"github.com/tribunal-ai/tribunal/internal/retry"
)

// defaultConcurrency bounds how many provider calls run at once.
const defaultConcurrency = 4

// Prompt is the evaluation prompt sent to every model.
type Prompt struct {
	System string
	User   string
}

// Result holds the per-model outcomes of one dispatch. A model name appears
// in exactly one of the two maps.
type Result struct {
	Responses map[string]*providers.Response
	Errors    map[string]error
	LatencyMs int64
}

// ModelFailure pairs a model name with the error that felled it.
type ModelFailure struct {
	Model string
	Err   error
}

// NoAvailableModelsError means every requested model was unknown or had no
// usable credentials, so nothing was dispatched.
type NoAvailableModelsError struct {
	Failures []ModelFailure
}

func (e *NoAvailableModelsError) Error() string {
	return fmt.Sprintf("no models available to dispatch (%s)", joinFailures(e.Failures))
}

// AllModelsFailedError means every dispatched model errored.
type AllModelsFailedError struct {
	Failures []ModelFailure
}

func (e *AllModelsFailedError) Error() string {
	return fmt.Sprintf("all models failed (%s)", joinFailures(e.Failures))
}

func joinFailures(failures []ModelFailure) string {
	parts := make([]string, 0, len(failures))
	for _, f := range failures {
		parts = append(parts, fmt.Sprintf("%s: %v", f.Model, f.Err))
	}
	return strings.Join(parts, "; ")
}

// Dispatcher sends prompts to providers with retries.
type Dispatcher struct {
	reg         *registry.Registry
	policy      retry.Policy
	factory     func(registry.Kind) (providers.Adapter, error)
	concurrency int
	log         *slog.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithRetryPolicy overrides the retry policy applied per model call.
func WithRetryPolicy(p retry.Policy) Option {
	return func(d *Dispatcher) { d.policy = p }
}

// WithAdapterFactory overrides how provider adapters are built. Tests use
// this to substitute mocks.
func WithAdapterFactory(f func(registry.Kind) (providers.Adapter, error)) Option {
	return func(d *Dispatcher) { d.factory = f }
}

// WithConcurrency bounds simultaneous provider calls.
func WithConcurrency(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.concurrency = n
		}
	}
}

// WithLogger sets the logger used for per-model progress.
func WithLogger(log *slog.Logger) Option {
	return func(d *Dispatcher) { d.log = log }
}

// New builds a Dispatcher over the given model registry.
func New(reg *registry.Registry, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		reg:         reg,
		policy:      retry.Default(providers.IsRetryable),
		factory:     providers.New,
		concurrency: defaultConcurrency,
		log:         slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch sends prompt to every named model concurrently and returns the
// collected responses and errors. It returns a non-nil error only when no
// model produced a response.
func (d *Dispatcher) Dispatch(ctx context.Context, modelNames []string, prompt Prompt) (*Result, error) {
	result := &Result{
		Responses: make(map[string]*providers.Response),
		Errors:    make(map[string]error),
	}

	// Partition before any network traffic: unknown models and providers
	// without credentials fail fast, the rest get dispatched.
	type dispatchable struct {
		name    string
		cfg     registry.ModelConfig
		adapter providers.Adapter
	}
	adapters := make(map[registry.Kind]providers.Adapter)
	var runnable []dispatchable

	for _, name := range modelNames {
		cfg, ok := d.reg.Lookup(name)
		if !ok {
			result.Errors[name] = &providers.InvalidModelError{Model: name}
			continue
		}
		adapter, ok := adapters[cfg.Kind]
		if !ok {
			var err error
			adapter, err = d.factory(cfg.Kind)
			if err != nil {
				result.Errors[name] = err
				continue
			}
			adapters[cfg.Kind] = adapter
		}
		if !adapter.Available() {
			result.Errors[name] = &providers.AuthenticationError{Kind: cfg.Kind}
			continue
		}
		runnable = append(runnable, dispatchable{name: name, cfg: cfg, adapter: adapter})
	}

	if len(runnable) == 0 {
		return result, &NoAvailableModelsError{Failures: sortedFailures(result.Errors)}
	}

	start := time.Now()
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.concurrency)
	for _, item := range runnable {
		g.Go(func() error {
			d.log.Debug("dispatching model", "model", item.name, "provider", string(item.cfg.Kind))

			resp, err := retry.Do(gctx, d.policy, func(ctx context.Context) (*providers.Response, error) {
				return item.adapter.Complete(ctx, &providers.Request{
					BackendModel: item.cfg.BackendModel,
					System:       prompt.System,
					Prompt:       prompt.User,
					MaxTokens:    item.cfg.MaxTokens,
					Temperature:  item.cfg.Temperature,
					Timeout:      item.cfg.Timeout,
				})
			})

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				d.log.Warn("model failed", "model", item.name, "error", err)
				result.Errors[item.name] = err
				return nil
			}
			d.log.Debug("model responded", "model", item.name, "latency_ms", resp.LatencyMs)
			result.Responses[item.name] = resp
			return nil
		})
	}
	_ = g.Wait() // workers never return errors, per-model failures are data

	result.LatencyMs = time.Since(start).Milliseconds()

	if len(result.Responses) == 0 {
		return result, &AllModelsFailedError{Failures: sortedFailures(result.Errors)}
	}
	return result, nil
}

func sortedFailures(errs map[string]error) []ModelFailure {
	failures := make([]ModelFailure, 0, len(errs))
	for model, err := range errs {
		failures = append(failures, ModelFailure{Model: model, Err: err})
	}
	sort.Slice(failures, func(i, j int) bool { return failures[i].Model < failures[j].Model })
	return failures
}
