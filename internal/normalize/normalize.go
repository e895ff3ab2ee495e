// Package normalize turns a raw provider completion into a validated
// ModelEvaluation. The pipeline is extract, schema-check, coerce: JSON is
// pulled out of the prose, validated against an embedded schema, and then
// mapped onto the score model with out-of-range values clamped and sloppy
// dimension keys matched loosely. Anything unrecoverable surfaces as a
// MalformedResponseError so callers can record the failure per model instead
// of aborting the run.
package normalize

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/tribunal-ai/tribunal/internal/extract"
	"github.com/tribunal-ai/tribunal/internal/models"
	"github.com/tribunal-ai/tribunal/internal/providers"
	"github.com/tribunal-ai/tribunal/internal/statistics"
)

//go:embed evaluation.schema.json
var evaluationSchemaJSON string

// evaluationSchema is the compiled schema for model evaluation responses.
var evaluationSchema *jsonschema.Schema

func init() {
	evaluationSchema = mustCompileSchema(evaluationSchemaJSON, "evaluation.schema.json")
}

func mustCompileSchema(raw string, name string) *jsonschema.Schema {
	var schemaDoc any
	if err := json.Unmarshal([]byte(raw), &schemaDoc); err != nil {
		panic(fmt.Sprintf("failed to parse embedded %s: %v", name, err))
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, schemaDoc); err != nil {
		panic(fmt.Sprintf("failed to add %s resource: %v", name, err))
	}

	sch, err := compiler.Compile(name)
	if err != nil {
		panic(fmt.Sprintf("failed to compile %s: %v", name, err))
	}
	return sch
}

// MalformedResponseError reports a completion that could not be turned into
// a usable evaluation. It is not retryable: the model answered, it just
// answered badly, and asking again costs money for the same likely outcome.
type MalformedResponseError struct {
	Model  string
	Reason string
	Err    error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed response from %s: %s", e.Model, e.Reason)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

func (e *MalformedResponseError) Retryable() bool { return false }

// wireEvaluation mirrors the JSON shape models are prompted to produce.
type wireEvaluation struct {
	OverallScore float64                  `json:"overallScore"`
	Confidence   float64                  `json:"confidence"`
	Dimensions   map[string]wireDimension `json:"dimensions"`
}

type wireDimension struct {
	Score        float64   `json:"score"`
	Reasoning    string    `json:"reasoning"`
	Strengths    looseList `json:"strengths"`
	Weaknesses   looseList `json:"weaknesses"`
	Improvements looseList `json:"improvements"`
}

// looseList tolerates models emitting a string, null, or a mixed array where
// a string array was asked for. Non-string elements are dropped rather than
// failing the whole response.
type looseList []string

func (l *looseList) UnmarshalJSON(data []byte) error {
	var direct []string
	if err := json.Unmarshal(data, &direct); err == nil {
		*l = direct
		return nil
	}

	var mixed []any
	if err := json.Unmarshal(data, &mixed); err == nil {
		out := make([]string, 0, len(mixed))
		for _, item := range mixed {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, s)
			}
		}
		*l = out
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if strings.TrimSpace(single) != "" {
			*l = []string{single}
		} else {
			*l = nil
		}
		return nil
	}

	// null, a number, an object: treat as absent.
	*l = nil
	return nil
}

// Evaluation parses, validates, and clamps a provider completion into a
// ModelEvaluation for the named model.
func Evaluation(modelName string, resp *providers.Response) (*models.ModelEvaluation, error) {
	raw, err := extract.JSON(resp.Content)
	if err != nil {
		return nil, &MalformedResponseError{Model: modelName, Reason: "no JSON object in completion", Err: err}
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &MalformedResponseError{Model: modelName, Reason: "invalid JSON", Err: err}
	}
	if err := evaluationSchema.Validate(doc); err != nil {
		return nil, &MalformedResponseError{Model: modelName, Reason: "response missing required evaluation fields", Err: err}
	}

	var wire wireEvaluation
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, &MalformedResponseError{Model: modelName, Reason: "response shape mismatch", Err: err}
	}

	dims := make(map[models.Dimension]models.DimensionScore, len(wire.Dimensions))
	for key, wd := range wire.Dimensions {
		dim, ok := matchDimension(key)
		if !ok {
			continue // unknown dimension keys are noise, not errors
		}
		reasoning := strings.TrimSpace(wd.Reasoning)
		if reasoning == "" {
			reasoning = models.PlaceholderReasoning
		}
		dims[dim] = models.DimensionScore{
			Score:        statistics.Clamp(wd.Score, 0, 100),
			Reasoning:    reasoning,
			Strengths:    orEmpty(wd.Strengths),
			Weaknesses:   orEmpty(wd.Weaknesses),
			Improvements: orEmpty(wd.Improvements),
		}
	}
	if len(dims) == 0 {
		return nil, &MalformedResponseError{Model: modelName, Reason: "no recognizable scoring dimensions"}
	}

	return &models.ModelEvaluation{
		ModelName:    modelName,
		OverallScore: statistics.Clamp(wire.OverallScore, 0, 100),
		Confidence:   statistics.Clamp(wire.Confidence, 0, 100),
		Dimensions:   dims,
		Tokens:       resp.Tokens,
		LatencyMs:    resp.LatencyMs,
		CostUSD:      resp.CostUSD,
	}, nil
}

// orEmpty keeps absent or unusable lists serializing as [] rather than null.
func orEmpty(l looseList) []string {
	if l == nil {
		return []string{}
	}
	return l
}

// matchDimension maps a response key onto a known dimension, ignoring case,
// spaces, underscores, and hyphens ("content_quality", "Content Quality").
func matchDimension(key string) (models.Dimension, bool) {
	folded := foldKey(key)
	for _, dim := range models.Dimensions() {
		if foldKey(string(dim)) == folded {
			return dim, true
		}
	}
	return "", false
}

func foldKey(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case ' ', '_', '-':
			continue
		}
		b.WriteRune(r)
	}
	return strings.ToLower(b.String())
}
