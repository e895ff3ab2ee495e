package extract

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleObject = `{"overallScore": 82, "confidence": 90}`

func TestJSONFencedBlock(t *testing.T) {
	blob := "Here is my evaluation:\n\n```json\n" + sampleObject + "\n```\n\nLet me know if you need more detail."

	got, err := JSON(blob)
	require.NoError(t, err)
	require.JSONEq(t, sampleObject, string(got))
}

func TestJSONUntaggedFence(t *testing.T) {
	blob := "```\n" + sampleObject + "\n```"

	got, err := JSON(blob)
	require.NoError(t, err)
	require.JSONEq(t, sampleObject, string(got))
}

func TestJSONBareObject(t *testing.T) {
	got, err := JSON(sampleObject)
	require.NoError(t, err)
	require.JSONEq(t, sampleObject, string(got))
}

// A fenced object and the identical object embedded in prose must extract to
// the same bytes, so downstream parsing never depends on formatting.
func TestJSONFencedAndProseEquivalent(t *testing.T) {
	fromFence, err := JSON("```json\n" + sampleObject + "\n```")
	require.NoError(t, err)

	fromProse, err := JSON("My verdict follows. " + sampleObject + " That concludes the review.")
	require.NoError(t, err)

	require.Equal(t, string(fromFence), string(fromProse))
}

func TestJSONPrefersTaggedFence(t *testing.T) {
	blob := "```\n{\"wrong\": true}\n```\n\n```json\n" + sampleObject + "\n```"

	got, err := JSON(blob)
	require.NoError(t, err)
	require.JSONEq(t, sampleObject, string(got))
}

func TestJSONNestedBraces(t *testing.T) {
	blob := `The result {"dimensions": {"contentQuality": {"score": 80}}} is above.`

	got, err := JSON(blob)
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(got, &parsed))
	require.Contains(t, parsed, "dimensions")
}

func TestJSONBracesInsideStrings(t *testing.T) {
	blob := `{"reasoning": "uses {placeholders} heavily", "score": 70}`

	got, err := JSON(blob)
	require.NoError(t, err)
	require.JSONEq(t, blob, string(got))
}

func TestJSONNoObject(t *testing.T) {
	_, err := JSON("The model declined to answer in the requested format.")
	require.ErrorIs(t, err, ErrNoJSON)
}

func TestJSONUnbalanced(t *testing.T) {
	_, err := JSON(`{"overallScore": 82, "confidence":`)
	require.ErrorIs(t, err, ErrNoJSON)
}

func TestJSONEmpty(t *testing.T) {
	_, err := JSON("")
	require.ErrorIs(t, err, ErrNoJSON)
}
