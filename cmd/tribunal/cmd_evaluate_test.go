package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tribunal-ai/tribunal/internal/models"
	"github.com/tribunal-ai/tribunal/internal/projectconfig"
)

func writePayload(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "analysis.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const fullPayload = `{
	"productAnalysisPackage": {"title": "Widget"},
	"executiveSummary": "A widget.",
	"evaluationModels": ["claude-3-opus"],
	"scoringWeights": {
		"contentQuality": 0.4,
		"marketResearch": 0.2,
		"strategicSoundness": 0.2,
		"implementationReadiness": 0.2
	}
}`

func TestLoadRequestUsesPayloadValues(t *testing.T) {
	path := writePayload(t, fullPayload)

	req, err := loadRequest(path, projectconfig.New(), &evaluateOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"claude-3-opus"}, req.Models)
	assert.Equal(t, "A widget.", req.ExecutiveSummary)
	require.NotNil(t, req.Weights)
	assert.Equal(t, 0.4, req.Weights.ContentQuality)
}

func TestLoadRequestFlagOverridesPayload(t *testing.T) {
	path := writePayload(t, fullPayload)

	req, err := loadRequest(path, projectconfig.New(), &evaluateOptions{modelNames: []string{"gpt-4o"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"gpt-4o"}, req.Models)
}

func TestLoadRequestFallsBackToConfig(t *testing.T) {
	path := writePayload(t, `{
		"productAnalysisPackage": {"title": "Widget"},
		"executiveSummary": "A widget."
	}`)

	cfg := projectconfig.New()
	cfg.Models = []string{"gpt-4o-mini"}
	cfg.Weights = &models.DimensionWeights{
		ContentQuality:          0.25,
		MarketResearch:          0.25,
		StrategicSoundness:      0.25,
		ImplementationReadiness: 0.25,
	}

	req, err := loadRequest(path, cfg, &evaluateOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"gpt-4o-mini"}, req.Models)
	assert.Equal(t, cfg.Weights, req.Weights)
}

func TestLoadRequestBadJSON(t *testing.T) {
	path := writePayload(t, "{not json")

	_, err := loadRequest(path, projectconfig.New(), &evaluateOptions{})
	require.Error(t, err)
}

func TestLoadRequestMissingFile(t *testing.T) {
	_, err := loadRequest(filepath.Join(t.TempDir(), "absent.json"), projectconfig.New(), &evaluateOptions{})
	require.Error(t, err)
}

func TestSaveReportCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "nested", "report.json")
	report := sampleFinalReport()

	require.NoError(t, saveReport(path, report))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded models.FinalEvaluationReport
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, report.EvaluationID, decoded.EvaluationID)
	assert.Equal(t, report.Consensus.Score, decoded.Consensus.Score)
}

func TestOpenCacheDisabled(t *testing.T) {
	cfg := projectconfig.New()

	c, err := openCache(cfg, &evaluateOptions{noCache: true})
	require.NoError(t, err)
	assert.Nil(t, c)

	disabled := false
	cfg.Cache.Enabled = &disabled
	c, err = openCache(cfg, &evaluateOptions{})
	require.NoError(t, err)
	assert.Nil(t, c)
}
