package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tribunal-ai/tribunal/internal/registry"
)

func newModelsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List available judge models",
		Long: `List every logical model in the registry along with its provider,
credential status, and list pricing per 1K tokens.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runModels(cmd)
		},
	}
}

func runModels(cmd *cobra.Command) error {
	reg := registry.Default()
	out := cmd.OutOrStdout()

	const nameWidth, providerWidth, statusWidth, priceWidth = 20, 12, 24, 12
	fmt.Fprintf(out, "%s %s %s %s %s\n",
		padRight("MODEL", nameWidth),
		padRight("PROVIDER", providerWidth),
		padRight("STATUS", statusWidth),
		padRight("IN/1K", priceWidth),
		"OUT/1K")

	for _, name := range reg.Names() {
		cfg, ok := reg.Lookup(name)
		if !ok {
			continue
		}
		status := "available"
		if !cfg.Kind.Available() {
			status = fmt.Sprintf("needs %s", cfg.Kind.CredentialEnv())
		}
		price := registry.PriceFor(cfg.BackendModel)
		fmt.Fprintf(out, "%s %s %s %s %s\n",
			padRight(name, nameWidth),
			padRight(string(cfg.Kind), providerWidth),
			padRight(status, statusWidth),
			padRight(fmt.Sprintf("$%.5f", price.InputPer1K), priceWidth),
			fmt.Sprintf("$%.5f", price.OutputPer1K))
	}
	return nil
}
