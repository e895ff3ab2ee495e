// Package gate applies the fixed quality gates to a consensus evaluation
// and derives the recommendation tier, letter grade, and prioritized action
// items. Every function here is pure: same consensus in, same verdict out.
package gate

import (
	"sort"

	"github.com/tribunal-ai/tribunal/internal/models"
)

// warningBand is how far below a gate threshold still counts as a warning
// rather than a failure.
const warningBand = 10.0

// Bucket caps for tiered recommendations.
const (
	maxCritical    = 5
	maxImportant   = 8
	maxSuggestions = 10
)

// gateSpec is one fixed quality gate. The set and thresholds are design
// constants, not configuration.
type gateSpec struct {
	name      string
	threshold float64
	actual    func(c *models.ConsensusEvaluation) float64
}

func dimensionActual(d models.Dimension) func(c *models.ConsensusEvaluation) float64 {
	return func(c *models.ConsensusEvaluation) float64 {
		return c.Dimensions[d].Score
	}
}

var gates = []gateSpec{
	{"Overall Score", 70, func(c *models.ConsensusEvaluation) float64 { return float64(c.Score) }},
	{"Content Quality", 75, dimensionActual(models.DimensionContentQuality)},
	{"Market Research", 70, dimensionActual(models.DimensionMarketResearch)},
	{"Strategic Soundness", 75, dimensionActual(models.DimensionStrategicSoundness)},
	{"Implementation Readiness", 65, dimensionActual(models.DimensionImplementationReadiness)},
	{"Model Agreement", 70, func(c *models.ConsensusEvaluation) float64 { return c.AgreementLevel }},
}

// Evaluate runs every quality gate against the consensus.
func Evaluate(c *models.ConsensusEvaluation) models.GateReport {
	report := models.GateReport{Gates: make([]models.GateResult, 0, len(gates))}
	for _, g := range gates {
		actual := g.actual(c)
		status := models.GateFailed
		switch {
		case actual >= g.threshold:
			status = models.GatePassed
			report.Passed++
		case actual >= g.threshold-warningBand:
			status = models.GateWarning
			report.Warnings++
		default:
			report.Failed++
		}
		report.Gates = append(report.Gates, models.GateResult{
			Name:      g.name,
			Threshold: g.threshold,
			Actual:    actual,
			Status:    status,
		})
	}
	return report
}

// RecommendationFor maps a consensus score and failed-gate count to the
// final verdict tier.
func RecommendationFor(score int, failedGates int) models.RecommendationLabel {
	switch {
	case score >= 85 && failedGates == 0:
		return models.RecommendProceedAggressively
	case score >= 75 && failedGates <= 1:
		return models.RecommendProceedWithCaution
	case score >= 60:
		return models.RecommendReviseSignificantly
	default:
		return models.RecommendRestartAnalysis
	}
}

// GradeFor converts a consensus score to a letter grade.
func GradeFor(score int) string {
	switch {
	case score >= 95:
		return "A+"
	case score >= 90:
		return "A"
	case score >= 85:
		return "A-"
	case score >= 80:
		return "B+"
	case score >= 75:
		return "B"
	case score >= 70:
		return "B-"
	case score >= 65:
		return "C+"
	case score >= 60:
		return "C"
	default:
		return "F"
	}
}

// BuildRecommendations turns the aggregated per-dimension improvements into
// tiered action items. A dimension scoring below 60 escalates all of its
// suggestions to critical; 60-79 contributes its top three as important;
// 80 and above contributes its top two as polish suggestions. Priority
// rewards lower dimension scores and earlier list position.
func BuildRecommendations(c *models.ConsensusEvaluation) models.TieredRecommendations {
	var rec models.TieredRecommendations
	for _, dim := range models.Dimensions() {
		agg := c.Dimensions[dim]
		items := actionItems(dim, agg)
		switch {
		case agg.Score < 60:
			rec.Critical = append(rec.Critical, items...)
		case agg.Score < 80:
			rec.Important = append(rec.Important, top(items, 3)...)
		default:
			rec.Suggestions = append(rec.Suggestions, top(items, 2)...)
		}
	}

	sortByPriority(rec.Critical)
	sortByPriority(rec.Important)
	sortByPriority(rec.Suggestions)

	rec.Critical = top(rec.Critical, maxCritical)
	rec.Important = top(rec.Important, maxImportant)
	rec.Suggestions = top(rec.Suggestions, maxSuggestions)
	return rec
}

// actionItems converts one dimension's improvement list into prioritized
// items. Priority is (100 - dimension score) minus the list position, so a
// weaker dimension outranks a stronger one and earlier suggestions outrank
// later ones within the same dimension.
func actionItems(dim models.Dimension, agg models.AggregatedDimension) []models.ActionItem {
	items := make([]models.ActionItem, 0, len(agg.Improvements))
	for i, text := range agg.Improvements {
		items = append(items, models.ActionItem{
			Text:      text,
			Dimension: dim,
			Priority:  int(100-agg.Score) - i,
		})
	}
	return items
}

func top(items []models.ActionItem, n int) []models.ActionItem {
	if len(items) <= n {
		return items
	}
	return items[:n]
}

func sortByPriority(items []models.ActionItem) {
	sort.SliceStable(items, func(i, j int) bool { return items[i].Priority > items[j].Priority })
}

// NextSteps produces the narrative follow-up list for a verdict tier.
func NextSteps(label models.RecommendationLabel, rec models.TieredRecommendations) []string {
	switch label {
	case models.RecommendProceedAggressively:
		return []string{
			"Move forward with prototype development",
			"Validate pricing assumptions with early customers",
			"Line up the go-to-market plan",
		}
	case models.RecommendProceedWithCaution:
		steps := []string{"Address the flagged gaps before committing build resources"}
		for _, item := range top(rec.Important, 2) {
			steps = append(steps, item.Text)
		}
		return append(steps, "Re-evaluate after revisions")
	case models.RecommendReviseSignificantly:
		steps := []string{"Rework the weakest dimensions before proceeding"}
		for _, item := range top(rec.Critical, 3) {
			steps = append(steps, item.Text)
		}
		return append(steps, "Run a fresh evaluation once revised")
	default:
		return []string{
			"Revisit the core product thesis",
			"Rebuild the analysis from scratch with stronger evidence",
			"Re-run the full evaluation on the new analysis",
		}
	}
}
