// Package projectconfig provides the ProjectConfig struct and loader for
// .tribunal.yaml project-level configuration files.
package projectconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/tribunal-ai/tribunal/internal/models"
)

// ConfigFileName is the project configuration file discovered by Load.
const ConfigFileName = ".tribunal.yaml"

// Default values for project configuration. These are the single source of
// truth — New() references them and no other code should duplicate them.
const (
	DefaultCacheDir  = ".tribunal-cache"
	DefaultOutputDir = "reports/"

	DefaultRetryMaxAttempts = 3
	DefaultRetryBaseDelayMs = 1500
)

// DefaultModels returns the judge panel used when neither the config file
// nor the command line names one.
func DefaultModels() []string {
	return []string{"gpt-4o", "claude-3-5-sonnet", "copilot-sonnet"}
}

// CacheConfig holds report cache settings.
type CacheConfig struct {
	Enabled *bool  `yaml:"enabled,omitempty"`
	Dir     string `yaml:"dir,omitempty"`
}

// RetryConfig holds provider retry settings.
type RetryConfig struct {
	MaxAttempts int `yaml:"max_attempts,omitempty"`
	BaseDelayMs int `yaml:"base_delay_ms,omitempty"`
}

// OutputConfig holds report output settings.
type OutputConfig struct {
	Dir string `yaml:"dir,omitempty"`
}

// ProjectConfig is the top-level configuration loaded from .tribunal.yaml.
type ProjectConfig struct {
	Models  []string                 `yaml:"models,omitempty"`
	Weights *models.DimensionWeights `yaml:"weights,omitempty"`
	Cache   CacheConfig              `yaml:"cache,omitempty"`
	Retry   RetryConfig              `yaml:"retry,omitempty"`
	Output  OutputConfig             `yaml:"output,omitempty"`
}

// New returns a ProjectConfig with all hard-coded defaults populated.
func New() *ProjectConfig {
	return &ProjectConfig{
		Models: DefaultModels(),
		Cache: CacheConfig{
			Enabled: boolPtr(true),
			Dir:     DefaultCacheDir,
		},
		Retry: RetryConfig{
			MaxAttempts: DefaultRetryMaxAttempts,
			BaseDelayMs: DefaultRetryBaseDelayMs,
		},
		Output: OutputConfig{
			Dir: DefaultOutputDir,
		},
	}
}

// Load finds .tribunal.yaml by walking up from startDir (max 10 levels),
// unmarshals it, and fills in missing fields with defaults.
// If no config file is found, returns defaults with a nil error.
// Real I/O errors (e.g. permission denied) are returned to the caller.
func Load(startDir string) (*ProjectConfig, error) {
	cfg := New()

	data, err := findConfigFile(startDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil // no file found → return defaults
		}
		return nil, fmt.Errorf("loading %s: %w", ConfigFileName, err)
	}

	var fileCfg ProjectConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", ConfigFileName, err)
	}

	if fileCfg.Weights != nil {
		if err := fileCfg.Weights.Validate(); err != nil {
			return nil, fmt.Errorf("%s: weights: %w", ConfigFileName, err)
		}
	}

	mergeConfig(cfg, &fileCfg)
	return cfg, nil
}

// Save writes the config to path as YAML.
func (c *ProjectConfig) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// CacheEnabled reports whether the report cache should be used.
func (c *ProjectConfig) CacheEnabled() bool {
	return c.Cache.Enabled != nil && *c.Cache.Enabled
}

// findConfigFile walks up from dir looking for .tribunal.yaml (max 10
// levels). Returns os.ErrNotExist if no config file is found. Propagates
// real I/O errors (e.g. permission denied) instead of silently swallowing
// them.
func findConfigFile(dir string) ([]byte, error) {
	// Convert to absolute path so filepath.Dir(".") walks correctly.
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path %q: %w", dir, err)
	}
	dir = absDir

	for i := 0; i < 10; i++ {
		p := filepath.Join(dir, ConfigFileName)
		data, err := os.ReadFile(p)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading %q: %w", p, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break // reached filesystem root
		}
		dir = parent
	}
	return nil, os.ErrNotExist
}

// mergeConfig overlays non-zero values from src onto dst.
func mergeConfig(dst, src *ProjectConfig) {
	if len(src.Models) > 0 {
		dst.Models = src.Models
	}
	if src.Weights != nil {
		dst.Weights = src.Weights
	}

	if src.Cache.Enabled != nil {
		dst.Cache.Enabled = src.Cache.Enabled
	}
	if src.Cache.Dir != "" {
		dst.Cache.Dir = src.Cache.Dir
	}

	if src.Retry.MaxAttempts != 0 {
		dst.Retry.MaxAttempts = src.Retry.MaxAttempts
	}
	if src.Retry.BaseDelayMs != 0 {
		dst.Retry.BaseDelayMs = src.Retry.BaseDelayMs
	}

	if src.Output.Dir != "" {
		dst.Output.Dir = src.Output.Dir
	}
}

func boolPtr(b bool) *bool {
	return &b
}
