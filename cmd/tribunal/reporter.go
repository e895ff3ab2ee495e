package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/tribunal-ai/tribunal/internal/models"
)

// costPrinter formats dollar amounts with locale-aware grouping.
var costPrinter = message.NewPrinter(language.English)

// PrintReport renders the human-readable evaluation summary.
func PrintReport(w io.Writer, report *models.FinalEvaluationReport) {
	fmt.Fprintf(w, "\n=== Evaluation: %s ===\n\n", report.ProductTitle)
	fmt.Fprintf(w, "Verdict:    %s (grade %s)\n", report.Recommendation, report.Grade)
	fmt.Fprintf(w, "Score:      %d/100 (confidence %d, agreement %.0f)\n",
		report.Consensus.Score, report.Consensus.Confidence, report.Consensus.AgreementLevel)
	fmt.Fprintf(w, "Duration:   %dms\n", report.LatencyMs)
	fmt.Fprintf(w, "Est. cost:  %s\n", formatCost(report.TotalCostUSD))

	printModelTable(w, report)
	printDimensionTable(w, report)
	printGates(w, report)
	printDisagreements(w, report)
	printRecommendations(w, report)
	printNextSteps(w, report)
}

func printModelTable(w io.Writer, report *models.FinalEvaluationReport) {
	fmt.Fprintf(w, "\nModels\n")

	const nameWidth, scoreWidth, latencyWidth = 22, 8, 10
	fmt.Fprintf(w, "  %s %s %s %s\n",
		padRight("MODEL", nameWidth), padRight("SCORE", scoreWidth),
		padRight("LATENCY", latencyWidth), "COST")

	for _, standing := range report.Consensus.Comparison {
		var eval *models.ModelEvaluation
		for i := range report.ModelEvaluations {
			if report.ModelEvaluations[i].ModelName == standing.ModelName {
				eval = &report.ModelEvaluations[i]
			}
		}
		if eval == nil {
			continue
		}
		name := standing.ModelName
		if standing.ModelName == report.Consensus.BestModel && len(report.ModelEvaluations) > 1 {
			name += " *"
		}
		fmt.Fprintf(w, "  %s %s %s %s\n",
			padRight(name, nameWidth),
			padRight(fmt.Sprintf("%.0f", standing.OverallScore), scoreWidth),
			padRight(fmt.Sprintf("%dms", eval.LatencyMs), latencyWidth),
			formatCost(eval.CostUSD))
	}

	for model, reason := range report.ModelErrors {
		fmt.Fprintf(w, "  %s failed: %s\n", padRight(model, nameWidth), reason)
	}
}

func printDimensionTable(w io.Writer, report *models.FinalEvaluationReport) {
	fmt.Fprintf(w, "\nDimensions\n")

	const nameWidth = 26
	for _, dim := range models.Dimensions() {
		agg := report.Consensus.Dimensions[dim]
		fmt.Fprintf(w, "  %s %5.1f\n", padRight(dim.DisplayName(), nameWidth), agg.Score)
	}
}

func printGates(w io.Writer, report *models.FinalEvaluationReport) {
	fmt.Fprintf(w, "\nQuality gates: %d passed, %d warnings, %d failed\n",
		report.QualityGates.Passed, report.QualityGates.Warnings, report.QualityGates.Failed)

	const nameWidth = 26
	for _, g := range report.QualityGates.Gates {
		marker := "PASS"
		switch g.Status {
		case models.GateWarning:
			marker = "WARN"
		case models.GateFailed:
			marker = "FAIL"
		}
		fmt.Fprintf(w, "  [%s] %s %5.1f (threshold %.0f)\n",
			marker, padRight(g.Name, nameWidth), g.Actual, g.Threshold)
	}
}

func printDisagreements(w io.Writer, report *models.FinalEvaluationReport) {
	if len(report.Consensus.DisagreementAreas) == 0 {
		return
	}
	fmt.Fprintf(w, "\nModel disagreement\n")
	for _, d := range report.Consensus.DisagreementAreas {
		fmt.Fprintf(w, "  %s: scores ranged %.0f-%.0f (spread %.0f)\n",
			d.Dimension.DisplayName(), d.MinScore, d.MaxScore, d.Spread)
	}
}

func printRecommendations(w io.Writer, report *models.FinalEvaluationReport) {
	printBucket(w, "Critical", report.Recommendations.Critical)
	printBucket(w, "Important", report.Recommendations.Important)
	printBucket(w, "Suggestions", report.Recommendations.Suggestions)
}

func printBucket(w io.Writer, title string, items []models.ActionItem) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s\n", title)
	for _, item := range items {
		fmt.Fprintf(w, "  - %s (%s)\n", item.Text, item.Dimension.DisplayName())
	}
}

func printNextSteps(w io.Writer, report *models.FinalEvaluationReport) {
	if len(report.NextSteps) == 0 {
		return
	}
	fmt.Fprintf(w, "\nNext steps\n")
	for i, step := range report.NextSteps {
		fmt.Fprintf(w, "  %d. %s\n", i+1, step)
	}
}

// formatCost renders a dollar amount with sub-cent precision, since single
// calls routinely cost fractions of a cent.
func formatCost(usd float64) string {
	return costPrinter.Sprintf("$%.4f", usd)
}

// padRight pads s with spaces so its terminal display width reaches width.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}
