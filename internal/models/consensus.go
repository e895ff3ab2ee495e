package models

// AggregatedDimension is the cross-model view of one dimension: the averaged
// score plus the de-duplicated, capped union of every model's observations.
type AggregatedDimension struct {
	Score        float64  `json:"score"`
	Strengths    []string `json:"strengths"`
	Weaknesses   []string `json:"weaknesses"`
	Improvements []string `json:"improvements"`
}

// Disagreement flags a dimension where per-model scores spread further apart
// than one full letter grade.
type Disagreement struct {
	Dimension Dimension `json:"dimension"`
	MinScore  float64   `json:"min_score"`
	MaxScore  float64   `json:"max_score"`
	Spread    float64   `json:"spread"`
}

// ModelStanding is one row of the ranked model comparison table.
type ModelStanding struct {
	ModelName    string  `json:"model_name"`
	Rank         int     `json:"rank"`
	OverallScore float64 `json:"overall_score"`

	// StandoutDimensions lists dimensions where this model scored strictly
	// highest and above 80.
	StandoutDimensions []Dimension `json:"standout_dimensions,omitempty"`

	// UniqueInsights lists improvement suggestions no other model's
	// suggestions textually overlap with.
	UniqueInsights []string `json:"unique_insights,omitempty"`
}

// ConsensusEvaluation combines N independent model verdicts into one
// aggregate view. It is derived, never constructed directly by callers, and
// requires at least one ModelEvaluation.
type ConsensusEvaluation struct {
	// Score is the mean of per-model overall scores, rounded.
	Score int `json:"score"`

	// Confidence is the mean of per-model self-reported confidences, rounded.
	Confidence int `json:"confidence"`

	// AgreementLevel is max(0, 100 - 2*sigma) over the overall scores.
	AgreementLevel float64 `json:"agreement_level"`

	BestModel  string `json:"best_model"`
	WorstModel string `json:"worst_model"`

	Dimensions        map[Dimension]AggregatedDimension `json:"dimensions"`
	DisagreementAreas []Disagreement                    `json:"disagreement_areas"`
	Comparison        []ModelStanding                   `json:"model_comparison"`
}
