// Package consensus combines independent model verdicts into one aggregate
// evaluation. The math is deliberately simple and auditable: arithmetic
// means, population standard deviation for the agreement level, and fixed
// thresholds for disagreement. No step introduces randomness, so the same
// evaluations always synthesize to the same consensus.
package consensus

import (
	"errors"
	"math"
	"sort"
	"strings"

	"github.com/tribunal-ai/tribunal/internal/models"
	"github.com/tribunal-ai/tribunal/internal/statistics"
)

// disagreementSpread is the score spread beyond which a dimension is flagged
// as contested. One full letter grade.
const disagreementSpread = 20.0

// List caps for the aggregated per-dimension view.
const (
	maxStrengths    = 5
	maxWeaknesses   = 5
	maxImprovements = 8
)

// standoutFloor is the minimum score for a dimension win to count as a
// standout signal.
const standoutFloor = 80.0

// uniquePrefixLen is how many leading characters of an improvement
// suggestion are compared when deciding whether another model already said
// the same thing. Crude, but it only feeds a narrative field.
const uniquePrefixLen = 20

// ErrNoEvaluations is returned when Synthesize is called with no input.
var ErrNoEvaluations = errors.New("consensus requires at least one model evaluation")

// Synthesize aggregates N model evaluations into a ConsensusEvaluation.
// Slice order is the encounter order used to break best/worst and ranking
// ties, so callers should pass a deterministic ordering.
func Synthesize(evals []*models.ModelEvaluation) (*models.ConsensusEvaluation, error) {
	if len(evals) == 0 {
		return nil, ErrNoEvaluations
	}

	overall := make([]float64, len(evals))
	confidences := make([]float64, len(evals))
	for i, ev := range evals {
		overall[i] = ev.OverallScore
		confidences[i] = ev.Confidence
	}

	sigma := statistics.PopStdDev(overall)
	agreement := math.Max(0, 100-2*sigma)

	best, worst := evals[0], evals[0]
	for _, ev := range evals[1:] {
		if ev.OverallScore > best.OverallScore {
			best = ev
		}
		if ev.OverallScore < worst.OverallScore {
			worst = ev
		}
	}

	return &models.ConsensusEvaluation{
		Score:             int(math.Round(statistics.Mean(overall))),
		Confidence:        int(math.Round(statistics.Mean(confidences))),
		AgreementLevel:    agreement,
		BestModel:         best.ModelName,
		WorstModel:        worst.ModelName,
		Dimensions:        aggregateDimensions(evals),
		DisagreementAreas: disagreements(evals),
		Comparison:        compareModels(evals),
	}, nil
}

// aggregateDimensions averages each dimension's scores and unions the
// observation lists, de-duplicated and capped.
func aggregateDimensions(evals []*models.ModelEvaluation) map[models.Dimension]models.AggregatedDimension {
	agg := make(map[models.Dimension]models.AggregatedDimension, len(models.Dimensions()))
	for _, dim := range models.Dimensions() {
		scores := make([]float64, 0, len(evals))
		var strengths, weaknesses, improvements []string
		for _, ev := range evals {
			ds := ev.Dimension(dim)
			scores = append(scores, ds.Score)
			strengths = append(strengths, ds.Strengths...)
			weaknesses = append(weaknesses, ds.Weaknesses...)
			improvements = append(improvements, ds.Improvements...)
		}
		agg[dim] = models.AggregatedDimension{
			Score:        statistics.Mean(scores),
			Strengths:    dedupe(strengths, maxStrengths),
			Weaknesses:   dedupe(weaknesses, maxWeaknesses),
			Improvements: dedupe(improvements, maxImprovements),
		}
	}
	return agg
}

// dedupe removes exact-string duplicates, preserving first-seen order, and
// caps the result.
func dedupe(items []string, limit int) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, limit)
	for _, item := range items {
		if _, dup := seen[item]; dup {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
		if len(out) == limit {
			break
		}
	}
	return out
}

// disagreements flags every dimension whose per-model score spread exceeds
// disagreementSpread, in canonical dimension order.
func disagreements(evals []*models.ModelEvaluation) []models.Disagreement {
	var flagged []models.Disagreement
	for _, dim := range models.Dimensions() {
		scores := make([]float64, 0, len(evals))
		for _, ev := range evals {
			scores = append(scores, ev.Dimension(dim).Score)
		}
		lo, hi := statistics.MinMax(scores)
		if hi-lo > disagreementSpread {
			flagged = append(flagged, models.Disagreement{
				Dimension: dim,
				MinScore:  lo,
				MaxScore:  hi,
				Spread:    hi - lo,
			})
		}
	}
	return flagged
}

// compareModels ranks models by overall score descending and annotates each
// with its standout dimensions and unique insights.
func compareModels(evals []*models.ModelEvaluation) []models.ModelStanding {
	ranked := make([]*models.ModelEvaluation, len(evals))
	copy(ranked, evals)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].OverallScore > ranked[j].OverallScore
	})

	standings := make([]models.ModelStanding, 0, len(ranked))
	for i, ev := range ranked {
		standings = append(standings, models.ModelStanding{
			ModelName:          ev.ModelName,
			Rank:               i + 1,
			OverallScore:       ev.OverallScore,
			StandoutDimensions: standoutDimensions(ev, evals),
			UniqueInsights:     uniqueInsights(ev, evals),
		})
	}
	return standings
}

// standoutDimensions lists dimensions where ev scored strictly highest among
// all models and above the standout floor.
func standoutDimensions(ev *models.ModelEvaluation, evals []*models.ModelEvaluation) []models.Dimension {
	var standout []models.Dimension
	for _, dim := range models.Dimensions() {
		score := ev.Dimension(dim).Score
		if score <= standoutFloor {
			continue
		}
		highest := true
		for _, other := range evals {
			if other == ev {
				continue
			}
			if other.Dimension(dim).Score >= score {
				highest = false
				break
			}
		}
		if highest {
			standout = append(standout, dim)
		}
	}
	return standout
}

// uniqueInsights returns ev's improvement suggestions that no other model's
// suggestions textually overlap with. Overlap means another suggestion
// contains the first uniquePrefixLen characters, case-insensitively.
func uniqueInsights(ev *models.ModelEvaluation, evals []*models.ModelEvaluation) []string {
	var others []string
	for _, other := range evals {
		if other == ev {
			continue
		}
		for _, dim := range models.Dimensions() {
			others = append(others, other.Dimension(dim).Improvements...)
		}
	}

	var unique []string
	for _, dim := range models.Dimensions() {
		for _, suggestion := range ev.Dimension(dim).Improvements {
			prefix := insightPrefix(suggestion)
			if prefix == "" {
				continue
			}
			overlaps := false
			for _, other := range others {
				if strings.Contains(strings.ToLower(other), prefix) {
					overlaps = true
					break
				}
			}
			if !overlaps {
				unique = append(unique, suggestion)
			}
		}
	}
	return unique
}

func insightPrefix(s string) string {
	lower := strings.ToLower(strings.TrimSpace(s))
	if len(lower) > uniquePrefixLen {
		return lower[:uniquePrefixLen]
	}
	return lower
}
