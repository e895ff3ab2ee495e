package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDimensionsOrderIsStable(t *testing.T) {
	assert.Equal(t, []Dimension{
		DimensionContentQuality,
		DimensionMarketResearch,
		DimensionStrategicSoundness,
		DimensionImplementationReadiness,
	}, Dimensions())
}

func TestDimensionDisplayNames(t *testing.T) {
	assert.Equal(t, "Content Quality", DimensionContentQuality.DisplayName())
	assert.Equal(t, "Implementation Readiness", DimensionImplementationReadiness.DisplayName())
}

func TestModelEvaluationDimensionPlaceholder(t *testing.T) {
	ev := &ModelEvaluation{
		ModelName: "m",
		Dimensions: map[Dimension]DimensionScore{
			DimensionContentQuality: {Score: 80, Reasoning: "fine"},
		},
	}

	present := ev.Dimension(DimensionContentQuality)
	assert.Equal(t, 80.0, present.Score)

	missing := ev.Dimension(DimensionMarketResearch)
	assert.Zero(t, missing.Score)
	assert.NotEmpty(t, missing.Reasoning)
	assert.Empty(t, missing.Strengths)
}

func TestRecommendationFailing(t *testing.T) {
	assert.False(t, RecommendProceedAggressively.Failing())
	assert.False(t, RecommendProceedWithCaution.Failing())
	assert.True(t, RecommendReviseSignificantly.Failing())
	assert.True(t, RecommendRestartAnalysis.Failing())
}
