package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultWeightsSumToOne(t *testing.T) {
	require.NoError(t, DefaultWeights().Validate())
}

func TestWeightsValidate(t *testing.T) {
	valid := DimensionWeights{
		ContentQuality:          0.4,
		MarketResearch:          0.2,
		StrategicSoundness:      0.2,
		ImplementationReadiness: 0.2,
	}
	assert.NoError(t, valid.Validate())

	outOfRange := valid
	outOfRange.ContentQuality = 1.2
	assert.Error(t, outOfRange.Validate())

	negative := valid
	negative.MarketResearch = -0.1
	assert.Error(t, negative.Validate())

	badSum := DimensionWeights{
		ContentQuality:          0.5,
		MarketResearch:          0.5,
		StrategicSoundness:      0.5,
		ImplementationReadiness: 0.5,
	}
	assert.Error(t, badSum.Validate())

	// small drift from rounding is tolerated
	drifted := DimensionWeights{
		ContentQuality:          0.33,
		MarketResearch:          0.33,
		StrategicSoundness:      0.33,
		ImplementationReadiness: 0.03,
	}
	assert.NoError(t, drifted.Validate())
}

func validRequest() *EvaluationRequest {
	return &EvaluationRequest{
		Analysis:         map[string]any{"title": "Widget"},
		ExecutiveSummary: "A widget.",
		Models:           []string{"gpt-4o"},
	}
}

func TestRequestValidate(t *testing.T) {
	require.NoError(t, validRequest().Validate())

	noModels := validRequest()
	noModels.Models = nil
	assert.Error(t, noModels.Validate())

	emptyName := validRequest()
	emptyName.Models = []string{"gpt-4o", ""}
	assert.Error(t, emptyName.Validate())

	noSummary := validRequest()
	noSummary.ExecutiveSummary = ""
	assert.Error(t, noSummary.Validate())

	badWeights := validRequest()
	badWeights.Weights = &DimensionWeights{ContentQuality: 2}
	assert.Error(t, badWeights.Validate())
}

func TestEffectiveWeights(t *testing.T) {
	req := validRequest()
	assert.Equal(t, DefaultWeights(), req.EffectiveWeights())

	custom := &DimensionWeights{
		ContentQuality:          0.25,
		MarketResearch:          0.25,
		StrategicSoundness:      0.25,
		ImplementationReadiness: 0.25,
	}
	req.Weights = custom
	assert.Equal(t, *custom, req.EffectiveWeights())
}
