// Package registry holds the static model catalog: which logical model names
// exist, which provider backs each one, and how calls to it are shaped.
// The catalog is defined at process start and never mutated.
package registry

import (
	"os"
	"sort"
	"time"
)

// Kind identifies a provider backend. The set is closed: adding a provider
// means adding a Kind and an adapter variant, not editing dispatch logic.
type Kind string

const (
	KindOpenAI    Kind = "openai"
	KindAnthropic Kind = "anthropic"
	KindCopilot   Kind = "copilot"
)

// CredentialEnv returns the environment variable that must be set for the
// provider to be usable. Empty means the provider authenticates out of band
// (Copilot uses the logged-in user).
func (k Kind) CredentialEnv() string {
	switch k {
	case KindOpenAI:
		return "OPENAI_API_KEY"
	case KindAnthropic:
		return "ANTHROPIC_API_KEY"
	default:
		return ""
	}
}

// Available reports whether the provider's credentials are configured. A
// model backed by an unavailable provider is reported as unavailable rather
// than attempted.
func (k Kind) Available() bool {
	env := k.CredentialEnv()
	if env == "" {
		return true
	}
	return os.Getenv(env) != ""
}

// ModelConfig is the immutable descriptor for one logical model name.
type ModelConfig struct {
	Kind         Kind
	BackendModel string
	MaxTokens    int
	Temperature  float64
	Timeout      time.Duration
}

// Registry maps logical model names to their configuration.
type Registry struct {
	models map[string]ModelConfig
}

// Default returns the built-in catalog. Logical names are stable identifiers
// the caller uses; backend identifiers track the concrete model versions.
func Default() *Registry {
	return &Registry{models: map[string]ModelConfig{
		"gpt-4": {
			Kind:         KindOpenAI,
			BackendModel: "gpt-4-turbo",
			MaxTokens:    4096,
			Temperature:  0.3,
			Timeout:      60 * time.Second,
		},
		"gpt-4o": {
			Kind:         KindOpenAI,
			BackendModel: "gpt-4o",
			MaxTokens:    4096,
			Temperature:  0.3,
			Timeout:      45 * time.Second,
		},
		"gpt-4o-mini": {
			Kind:         KindOpenAI,
			BackendModel: "gpt-4o-mini",
			MaxTokens:    4096,
			Temperature:  0.3,
			Timeout:      30 * time.Second,
		},
		"claude-3-opus": {
			Kind:         KindAnthropic,
			BackendModel: "claude-3-opus-20240229",
			MaxTokens:    4096,
			Temperature:  0.3,
			Timeout:      60 * time.Second,
		},
		"claude-3-5-sonnet": {
			Kind:         KindAnthropic,
			BackendModel: "claude-3-5-sonnet-20241022",
			MaxTokens:    4096,
			Temperature:  0.3,
			Timeout:      45 * time.Second,
		},
		"claude-3-haiku": {
			Kind:         KindAnthropic,
			BackendModel: "claude-3-haiku-20240307",
			MaxTokens:    4096,
			Temperature:  0.3,
			Timeout:      30 * time.Second,
		},
		"copilot-sonnet": {
			Kind:         KindCopilot,
			BackendModel: "claude-sonnet-4",
			MaxTokens:    4096,
			Temperature:  0.3,
			Timeout:      90 * time.Second,
		},
	}}
}

// Lookup returns the configuration for a logical model name.
func (r *Registry) Lookup(name string) (ModelConfig, bool) {
	cfg, ok := r.models[name]
	return cfg, ok
}

// Names returns all logical model names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
