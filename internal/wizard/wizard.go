// Package wizard implements the interactive project setup flow behind
// `tribunal init`.
package wizard

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/tribunal-ai/tribunal/internal/projectconfig"
	"github.com/tribunal-ai/tribunal/internal/registry"
)

// RunSetupWizard runs an interactive huh form and returns the resulting
// project configuration. The model list is drawn from the registry, with
// providers lacking credentials flagged but still selectable.
func RunSetupWizard(in io.Reader, out io.Writer, reg *registry.Registry) (*projectconfig.ProjectConfig, error) {
	cfg := projectconfig.New()

	var (
		selectedModels = append([]string(nil), cfg.Models...)
		cacheEnabled   = cfg.CacheEnabled()
		outputDir      = cfg.Output.Dir
	)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Evaluation models").
				Description("Which models should judge each analysis?").
				Options(modelOptions(reg)...).
				Value(&selectedModels).
				Validate(func(selected []string) error {
					if len(selected) == 0 {
						return fmt.Errorf("select at least one model")
					}
					return nil
				}),
			huh.NewConfirm().
				Title("Cache evaluation reports?").
				Description("Re-running an unchanged analysis reuses the cached verdict").
				Value(&cacheEnabled),
			huh.NewInput().
				Title("Report output directory").
				Placeholder(projectconfig.DefaultOutputDir).
				Value(&outputDir).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("output directory is required")
					}
					return nil
				}),
		),
	).
		WithInput(in).
		WithOutput(out)

	// Use accessible mode for non-TTY input (e.g., tests, piped input).
	if f, ok := in.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		form = form.WithAccessible(true)
	}

	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("wizard failed: %w", err)
	}

	cfg.Models = selectedModels
	enabled := cacheEnabled
	cfg.Cache.Enabled = &enabled
	cfg.Output.Dir = strings.TrimSpace(outputDir)
	return cfg, nil
}

// modelOptions builds the selectable model list, annotating models whose
// provider has no credentials configured.
func modelOptions(reg *registry.Registry) []huh.Option[string] {
	options := make([]huh.Option[string], 0)
	for _, name := range reg.Names() {
		cfg, ok := reg.Lookup(name)
		if !ok {
			continue
		}
		label := name
		if !cfg.Kind.Available() {
			label = fmt.Sprintf("%s (no %s set)", name, cfg.Kind.CredentialEnv())
		}
		options = append(options, huh.NewOption(label, name))
	}
	return options
}
