package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tribunal-ai/tribunal/internal/projectconfig"
	"github.com/tribunal-ai/tribunal/internal/registry"
	"github.com/tribunal-ai/tribunal/internal/wizard"
)

func newInitCommand() *cobra.Command {
	var interactive bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a .tribunal.yaml project configuration",
		Long: `Initialize a project configuration file with the judge panel, cache, and
output settings.

Use --interactive to pick models and settings through a guided wizard;
otherwise the built-in defaults are written.

If no directory is specified, the current directory is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return initCommandE(cmd, args, interactive)
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Run the guided setup wizard")

	return cmd
}

func initCommandE(cmd *cobra.Command, args []string, interactive bool) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, projectconfig.ConfigFileName)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}

	cfg := projectconfig.New()
	if interactive {
		var err error
		cfg, err = wizard.RunSetupWizard(cmd.InOrStdin(), cmd.OutOrStdout(), registry.Default())
		if err != nil {
			return err
		}
	}

	if err := cfg.Save(path); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path) //nolint:errcheck
	return nil
}
