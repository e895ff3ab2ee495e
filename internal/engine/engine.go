// Package engine orchestrates a full evaluation: validate the request,
// render the grading prompt, dispatch it to the judge models, normalize
// their verdicts, synthesize consensus, and assemble the final report.
package engine

import (
	"context"
	"crypto/rand"
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"text/template"
	"time"

	"github.com/go-viper/mapstructure/v2"

	"github.com/tribunal-ai/tribunal/internal/consensus"
	"github.com/tribunal-ai/tribunal/internal/dispatch"
	"github.com/tribunal-ai/tribunal/internal/gate"
	"github.com/tribunal-ai/tribunal/internal/models"
	"github.com/tribunal-ai/tribunal/internal/normalize"
	"github.com/tribunal-ai/tribunal/internal/registry"
)

//go:embed grading_prompt.md
var gradingPromptMD string

var gradingPrompt = template.Must(template.New("grading_prompt").Parse(gradingPromptMD))

// systemPrompt frames every judge call. The per-request content rides in the
// user prompt rendered from grading_prompt.md.
const systemPrompt = "You are a rigorous product analysis evaluator. You grade analysis packages " +
	"honestly, cite specifics, and always answer in the exact JSON format requested."

// fallbackTitle is used when the analysis package carries no recognizable
// title field.
const fallbackTitle = "Untitled Analysis"

// ValidationError reports malformed caller input. Raised before any network
// call and never retried.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid evaluation request: %v", e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func (e *ValidationError) Retryable() bool { return false }

// Engine runs evaluations end to end.
type Engine struct {
	reg        *registry.Registry
	dispatcher *dispatch.Dispatcher
	log        *slog.Logger
	now        func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithDispatcher substitutes the dispatcher. Tests use this to avoid the
// network.
func WithDispatcher(d *dispatch.Dispatcher) Option {
	return func(e *Engine) { e.dispatcher = d }
}

// WithLogger sets the base logger; Evaluate scopes it per evaluation id.
func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithClock overrides the timestamp source for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New builds an Engine over the given model registry.
func New(reg *registry.Registry, opts ...Option) *Engine {
	e := &Engine{
		reg: reg,
		log: slog.Default(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.dispatcher == nil {
		e.dispatcher = dispatch.New(reg, dispatch.WithLogger(e.log))
	}
	return e
}

// Evaluate grades the analysis package with every requested model and
// returns the assembled report. A partial success (some models failed)
// still yields a complete report; only zero successes is an error.
func (e *Engine) Evaluate(ctx context.Context, req *models.EvaluationRequest) (*models.FinalEvaluationReport, error) {
	if err := req.Validate(); err != nil {
		return nil, &ValidationError{Err: err}
	}

	id := newEvaluationID()
	log := e.log.With("evaluation_id", id)
	log.Info("starting evaluation", "models", req.Models)

	prompt, err := renderPrompt(req)
	if err != nil {
		return nil, fmt.Errorf("rendering grading prompt: %w", err)
	}

	result, err := e.dispatcher.Dispatch(ctx, req.Models, prompt)
	if err != nil {
		return nil, err
	}

	// Normalize in request order so consensus tie-breaking stays
	// deterministic regardless of response arrival order.
	var evals []*models.ModelEvaluation
	modelErrors := make(map[string]string, len(result.Errors))
	var failures []dispatch.ModelFailure
	for name, dispatchErr := range result.Errors {
		modelErrors[name] = dispatchErr.Error()
	}
	for _, name := range req.Models {
		resp, ok := result.Responses[name]
		if !ok {
			if dispatchErr, failed := result.Errors[name]; failed {
				failures = append(failures, dispatch.ModelFailure{Model: name, Err: dispatchErr})
			}
			continue
		}
		eval, normErr := normalize.Evaluation(name, resp)
		if normErr != nil {
			log.Warn("discarding malformed response", "model", name, "error", normErr)
			modelErrors[name] = normErr.Error()
			failures = append(failures, dispatch.ModelFailure{Model: name, Err: normErr})
			continue
		}
		evals = append(evals, eval)
	}

	if len(evals) == 0 {
		return nil, &dispatch.AllModelsFailedError{Failures: failures}
	}

	agg, err := consensus.Synthesize(evals)
	if err != nil {
		return nil, err
	}

	gates := gate.Evaluate(agg)
	label := gate.RecommendationFor(agg.Score, gates.Failed)
	recommendations := gate.BuildRecommendations(agg)

	report := &models.FinalEvaluationReport{
		EvaluationID:     id,
		Timestamp:        e.now().UTC(),
		ProductTitle:     analysisTitle(req.Analysis),
		Grade:            gate.GradeFor(agg.Score),
		Recommendation:   label,
		ModelEvaluations: dereference(evals),
		ModelErrors:      modelErrors,
		Consensus:        agg,
		Recommendations:  recommendations,
		NextSteps:        gate.NextSteps(label, recommendations),
		QualityGates:     gates,
		LatencyMs:        result.LatencyMs,
		TotalCostUSD:     totalCost(evals),
	}

	log.Info("evaluation complete",
		"score", agg.Score,
		"grade", report.Grade,
		"recommendation", string(label),
		"succeeded", len(evals),
		"failed", len(modelErrors))
	return report, nil
}

func newEvaluationID() string {
	var buf [8]byte
	_, _ = rand.Read(buf[:])
	return "eval-" + hex.EncodeToString(buf[:])
}

// promptData is the template context for grading_prompt.md. Weights are
// rendered as percentages.
type promptData struct {
	ExecutiveSummary string
	AnalysisJSON     string
	Weights          models.DimensionWeights
}

func renderPrompt(req *models.EvaluationRequest) (dispatch.Prompt, error) {
	analysisJSON, err := json.MarshalIndent(req.Analysis, "", "  ")
	if err != nil {
		return dispatch.Prompt{}, fmt.Errorf("encoding analysis package: %w", err)
	}

	w := req.EffectiveWeights()
	data := promptData{
		ExecutiveSummary: req.ExecutiveSummary,
		AnalysisJSON:     string(analysisJSON),
		Weights: models.DimensionWeights{
			ContentQuality:          w.ContentQuality * 100,
			MarketResearch:          w.MarketResearch * 100,
			StrategicSoundness:      w.StrategicSoundness * 100,
			ImplementationReadiness: w.ImplementationReadiness * 100,
		},
	}

	var rendered strings.Builder
	if err := gradingPrompt.Execute(&rendered, data); err != nil {
		return dispatch.Prompt{}, err
	}
	return dispatch.Prompt{System: systemPrompt, User: rendered.String()}, nil
}

// analysisTitle pulls a display title out of the arbitrary analysis payload.
func analysisTitle(analysis map[string]any) string {
	var meta struct {
		Title       string `mapstructure:"title"`
		ProductName string `mapstructure:"productName"`
		Name        string `mapstructure:"name"`
	}
	if err := mapstructure.Decode(analysis, &meta); err != nil {
		return fallbackTitle
	}
	for _, candidate := range []string{meta.Title, meta.ProductName, meta.Name} {
		if candidate != "" {
			return candidate
		}
	}
	return fallbackTitle
}

func dereference(evals []*models.ModelEvaluation) []models.ModelEvaluation {
	out := make([]models.ModelEvaluation, 0, len(evals))
	for _, ev := range evals {
		out = append(out, *ev)
	}
	return out
}

func totalCost(evals []*models.ModelEvaluation) float64 {
	var total float64
	for _, ev := range evals {
		total += ev.CostUSD
	}
	return total
}
