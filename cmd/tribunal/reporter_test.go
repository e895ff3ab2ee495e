package main

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tribunal-ai/tribunal/internal/models"
)

func sampleFinalReport() *models.FinalEvaluationReport {
	return &models.FinalEvaluationReport{
		EvaluationID:   "eval-123",
		Timestamp:      time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		ProductTitle:   "AcmePay Risk Dashboard",
		Grade:          "B+",
		Recommendation: models.RecommendProceedWithCaution,
		ModelEvaluations: []models.ModelEvaluation{
			{ModelName: "gpt-4o", OverallScore: 84, LatencyMs: 2100, CostUSD: 0.0132},
			{ModelName: "claude-3-opus", OverallScore: 78, LatencyMs: 3400, CostUSD: 0.0518},
		},
		ModelErrors: map[string]string{"gpt-4": "provider openai error (status 503): upstream down"},
		Consensus: &models.ConsensusEvaluation{
			Score:          81,
			Confidence:     85,
			AgreementLevel: 94,
			BestModel:      "gpt-4o",
			WorstModel:     "claude-3-opus",
			Dimensions: map[models.Dimension]models.AggregatedDimension{
				models.DimensionContentQuality:          {Score: 82.5},
				models.DimensionMarketResearch:          {Score: 74},
				models.DimensionStrategicSoundness:      {Score: 80},
				models.DimensionImplementationReadiness: {Score: 77},
			},
			DisagreementAreas: []models.Disagreement{
				{Dimension: models.DimensionMarketResearch, MinScore: 60, MaxScore: 88, Spread: 28},
			},
			Comparison: []models.ModelStanding{
				{ModelName: "gpt-4o", Rank: 1, OverallScore: 84},
				{ModelName: "claude-3-opus", Rank: 2, OverallScore: 78},
			},
		},
		Recommendations: models.TieredRecommendations{
			Important: []models.ActionItem{
				{Text: "Broaden the competitor set", Dimension: models.DimensionMarketResearch, Priority: 26},
			},
		},
		NextSteps: []string{"Address the flagged gaps before committing build resources"},
		QualityGates: models.GateReport{
			Gates: []models.GateResult{
				{Name: "Overall Score", Threshold: 70, Actual: 81, Status: models.GatePassed},
				{Name: "Market Research", Threshold: 70, Actual: 74, Status: models.GatePassed},
			},
			Passed: 2,
		},
		LatencyMs:    3400,
		TotalCostUSD: 0.065,
	}
}

func TestPrintReport(t *testing.T) {
	var buf strings.Builder
	PrintReport(&buf, sampleFinalReport())
	out := buf.String()

	assert.Contains(t, out, "AcmePay Risk Dashboard")
	assert.Contains(t, out, "Proceed with Caution")
	assert.Contains(t, out, "grade B+")
	assert.Contains(t, out, "81/100")
	assert.Contains(t, out, "gpt-4o *") // best model marker
	assert.Contains(t, out, "claude-3-opus")
	assert.Contains(t, out, "gpt-4")
	assert.Contains(t, out, "upstream down")
	assert.Contains(t, out, "Market Research")
	assert.Contains(t, out, "scores ranged 60-88")
	assert.Contains(t, out, "Broaden the competitor set")
	assert.Contains(t, out, "Next steps")
	assert.Contains(t, out, "$0.0650")
}

func TestPrintReportNoDisagreements(t *testing.T) {
	report := sampleFinalReport()
	report.Consensus.DisagreementAreas = nil

	var buf strings.Builder
	PrintReport(&buf, report)

	assert.NotContains(t, buf.String(), "Model disagreement")
}

func TestPadRight(t *testing.T) {
	assert.Equal(t, "ab   ", padRight("ab", 5))
	assert.Equal(t, "abcdef", padRight("abcdef", 5))
	// wide runes count by display width, not rune count
	assert.Equal(t, "評価 ", padRight("評価", 5))
}

func TestFormatCost(t *testing.T) {
	assert.Equal(t, "$0.0132", formatCost(0.0132))
	assert.Equal(t, "$0.0000", formatCost(0))
}
