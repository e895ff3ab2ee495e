package models

import (
	"fmt"
	"math"
)

// DimensionWeights distributes grading emphasis across the four dimensions.
// Weights are fractions in [0,1] that should sum to roughly 1.0.
type DimensionWeights struct {
	ContentQuality          float64 `json:"contentQuality" yaml:"content_quality"`
	MarketResearch          float64 `json:"marketResearch" yaml:"market_research"`
	StrategicSoundness      float64 `json:"strategicSoundness" yaml:"strategic_soundness"`
	ImplementationReadiness float64 `json:"implementationReadiness" yaml:"implementation_readiness"`
}

// DefaultWeights returns the standard weighting used when the caller does not
// supply one.
func DefaultWeights() DimensionWeights {
	return DimensionWeights{
		ContentQuality:          0.30,
		MarketResearch:          0.25,
		StrategicSoundness:      0.25,
		ImplementationReadiness: 0.20,
	}
}

// Validate checks that every weight is a fraction and the total is close to 1.
func (w DimensionWeights) Validate() error {
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"contentQuality", w.ContentQuality},
		{"marketResearch", w.MarketResearch},
		{"strategicSoundness", w.StrategicSoundness},
		{"implementationReadiness", w.ImplementationReadiness},
	} {
		if f.value < 0 || f.value > 1 {
			return fmt.Errorf("weight %s must be in [0,1], got %g", f.name, f.value)
		}
	}

	total := w.ContentQuality + w.MarketResearch + w.StrategicSoundness + w.ImplementationReadiness
	if math.Abs(total-1.0) > 0.05 {
		return fmt.Errorf("weights must sum to 1.0, got %g", total)
	}
	return nil
}

// EvaluationRequest is the payload handed to the engine by the document
// generation pipeline: the analysis package to grade, the logical names of
// the models that should grade it, and optional dimension weights.
// Immutable once created.
type EvaluationRequest struct {
	// Analysis is the arbitrary structured document package. It must carry an
	// executive summary; everything else is passed through to the judges.
	Analysis map[string]any `json:"productAnalysisPackage"`

	// ExecutiveSummary is the required text summary of the analysis.
	ExecutiveSummary string `json:"executiveSummary"`

	// Models lists the logical model names to query (at least one).
	Models []string `json:"evaluationModels"`

	// Weights optionally overrides the default dimension weighting.
	Weights *DimensionWeights `json:"scoringWeights,omitempty"`
}

// Validate enforces the input contract before any network call is made.
func (r *EvaluationRequest) Validate() error {
	if len(r.Models) == 0 {
		return fmt.Errorf("evaluationModels must name at least one model")
	}
	for i, m := range r.Models {
		if m == "" {
			return fmt.Errorf("evaluationModels[%d] is empty", i)
		}
	}
	if r.ExecutiveSummary == "" {
		return fmt.Errorf("executiveSummary is required")
	}
	if r.Weights != nil {
		if err := r.Weights.Validate(); err != nil {
			return fmt.Errorf("scoringWeights: %w", err)
		}
	}
	return nil
}

// EffectiveWeights returns the caller's weights or the defaults.
func (r *EvaluationRequest) EffectiveWeights() DimensionWeights {
	if r.Weights != nil {
		return *r.Weights
	}
	return DefaultWeights()
}
