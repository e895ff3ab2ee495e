package registry

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tribunal-ai/tribunal/internal/models"
)

func TestLookup_KnownModel(t *testing.T) {
	reg := Default()

	cfg, ok := reg.Lookup("claude-3-opus")
	require.True(t, ok)
	require.Equal(t, KindAnthropic, cfg.Kind)
	require.Equal(t, "claude-3-opus-20240229", cfg.BackendModel)
	if cfg.Timeout <= 0 {
		t.Errorf("expected positive timeout, got %v", cfg.Timeout)
	}
}

func TestLookup_UnknownModel(t *testing.T) {
	reg := Default()
	_, ok := reg.Lookup("palm-2")
	require.False(t, ok)
}

func TestNames_Sorted(t *testing.T) {
	names := Default().Names()
	require.NotEmpty(t, names)
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("names not sorted: %q before %q", names[i-1], names[i])
		}
	}
}

func TestKindAvailable_Credentials(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	require.False(t, KindOpenAI.Available())

	t.Setenv("OPENAI_API_KEY", "sk-test")
	require.True(t, KindOpenAI.Available())

	// Copilot authenticates via the logged-in user, so it is always available.
	require.True(t, KindCopilot.Available())
}

func TestEstimateCost_KnownModel(t *testing.T) {
	cost := EstimateCost("gpt-4o", models.TokenUsage{Input: 2000, Output: 1000, Total: 3000})
	// 2 * 0.0025 + 1 * 0.010
	require.InDelta(t, 0.015, cost, 1e-9)
}

func TestEstimateCost_UnknownModelUsesDefaultTier(t *testing.T) {
	cost := EstimateCost("some-new-model", models.TokenUsage{Input: 1000, Output: 1000, Total: 2000})
	require.InDelta(t, defaultPrice.InputPer1K+defaultPrice.OutputPer1K, cost, 1e-9)
}
