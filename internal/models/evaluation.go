package models

// Dimension identifies one of the four fixed axes every model grades an
// analysis package on.
type Dimension string

const (
	DimensionContentQuality          Dimension = "contentQuality"
	DimensionMarketResearch          Dimension = "marketResearch"
	DimensionStrategicSoundness      Dimension = "strategicSoundness"
	DimensionImplementationReadiness Dimension = "implementationReadiness"
)

// PlaceholderReasoning stands in when a model scores a dimension without
// explaining itself.
const PlaceholderReasoning = "No reasoning provided"

// Dimensions returns the four axes in their canonical order. Aggregation and
// reporting iterate this slice so output ordering is deterministic.
func Dimensions() []Dimension {
	return []Dimension{
		DimensionContentQuality,
		DimensionMarketResearch,
		DimensionStrategicSoundness,
		DimensionImplementationReadiness,
	}
}

// DisplayName returns a human-readable label for the dimension.
func (d Dimension) DisplayName() string {
	switch d {
	case DimensionContentQuality:
		return "Content Quality"
	case DimensionMarketResearch:
		return "Market Research"
	case DimensionStrategicSoundness:
		return "Strategic Soundness"
	case DimensionImplementationReadiness:
		return "Implementation Readiness"
	default:
		return string(d)
	}
}

// DimensionScore is one graded axis from a single model. Score is always in
// [0,100] and the list fields are never nil once a response has been
// normalized.
type DimensionScore struct {
	Score        float64  `json:"score"`
	Reasoning    string   `json:"reasoning"`
	Strengths    []string `json:"strengths"`
	Weaknesses   []string `json:"weaknesses"`
	Improvements []string `json:"improvements"`
}

// TokenUsage reports token consumption for one provider call.
type TokenUsage struct {
	Input  int `json:"input"`
	Output int `json:"output"`
	Total  int `json:"total"`
}

// ModelEvaluation is one model's complete verdict on an analysis package.
// OverallScore and Confidence are both on a 0-100 scale. Immutable after
// normalization.
type ModelEvaluation struct {
	ModelName    string                       `json:"model_name"`
	OverallScore float64                      `json:"overall_score"`
	Confidence   float64                      `json:"confidence"`
	Dimensions   map[Dimension]DimensionScore `json:"dimensions"`
	Tokens       TokenUsage                   `json:"tokens"`
	LatencyMs    int64                        `json:"latency_ms"`
	CostUSD      float64                      `json:"cost_usd"`
}

// Dimension returns the named dimension, or a zero-score placeholder when
// the model never produced it.
func (m *ModelEvaluation) Dimension(d Dimension) DimensionScore {
	if ds, ok := m.Dimensions[d]; ok {
		return ds
	}
	return DimensionScore{
		Reasoning:    PlaceholderReasoning,
		Strengths:    []string{},
		Weaknesses:   []string{},
		Improvements: []string{},
	}
}
