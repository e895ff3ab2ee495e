package models

import "time"

// RecommendationLabel is the final verdict tier for an evaluated analysis.
type RecommendationLabel string

const (
	RecommendProceedAggressively RecommendationLabel = "Proceed Aggressively"
	RecommendProceedWithCaution  RecommendationLabel = "Proceed with Caution"
	RecommendReviseSignificantly RecommendationLabel = "Revise Significantly"
	RecommendRestartAnalysis     RecommendationLabel = "Restart Analysis"
)

// Failing reports whether the label indicates the analysis should not ship
// as-is. Used by the CLI to pick an exit code.
func (l RecommendationLabel) Failing() bool {
	return l == RecommendReviseSignificantly || l == RecommendRestartAnalysis
}

// GateStatus buckets a quality gate outcome.
type GateStatus string

const (
	GatePassed  GateStatus = "passed"
	GateWarning GateStatus = "warning"
	GateFailed  GateStatus = "failed"
)

// GateResult is one quality-gate check against a fixed threshold.
type GateResult struct {
	Name      string     `json:"name"`
	Threshold float64    `json:"threshold"`
	Actual    float64    `json:"actual"`
	Status    GateStatus `json:"status"`
}

// GateReport is the full quality-gate breakdown.
type GateReport struct {
	Gates    []GateResult `json:"gates"`
	Passed   int          `json:"passed"`
	Warnings int          `json:"warnings"`
	Failed   int          `json:"failed"`
}

// ActionItem is one actionable recommendation attributed to the dimension
// whose improvement list produced it. Higher Priority means more urgent.
type ActionItem struct {
	Text      string    `json:"text"`
	Dimension Dimension `json:"dimension"`
	Priority  int       `json:"priority"`
}

// TieredRecommendations buckets actionable feedback by urgency.
type TieredRecommendations struct {
	Critical    []ActionItem `json:"critical"`
	Important   []ActionItem `json:"important"`
	Suggestions []ActionItem `json:"suggestions"`
}

// FinalEvaluationReport is the engine's single structured output. Created
// once per evaluation and never mutated afterwards.
type FinalEvaluationReport struct {
	EvaluationID string    `json:"evaluation_id"`
	Timestamp    time.Time `json:"timestamp"`
	ProductTitle string    `json:"product_title"`

	Grade          string              `json:"grade"`
	Recommendation RecommendationLabel `json:"recommendation"`

	// ModelEvaluations holds every successful model verdict; ModelErrors maps
	// the models that failed to their reasons. A partial-success evaluation
	// still yields a complete report.
	ModelEvaluations []ModelEvaluation `json:"model_evaluations"`
	ModelErrors      map[string]string `json:"model_errors,omitempty"`

	Consensus *ConsensusEvaluation `json:"consensus"`

	Recommendations TieredRecommendations `json:"recommendations"`
	NextSteps       []string              `json:"next_steps"`
	QualityGates    GateReport            `json:"quality_gates"`

	// LatencyMs is the dispatch wall clock: the slowest model, not the sum.
	LatencyMs int64 `json:"latency_ms"`

	// TotalCostUSD sums the per-model cost estimates for budgeting.
	TotalCostUSD float64 `json:"total_cost_usd"`
}
