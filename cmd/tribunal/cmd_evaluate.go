package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/tribunal-ai/tribunal/internal/cache"
	"github.com/tribunal-ai/tribunal/internal/dispatch"
	"github.com/tribunal-ai/tribunal/internal/engine"
	"github.com/tribunal-ai/tribunal/internal/models"
	"github.com/tribunal-ai/tribunal/internal/projectconfig"
	"github.com/tribunal-ai/tribunal/internal/providers"
	"github.com/tribunal-ai/tribunal/internal/registry"
	"github.com/tribunal-ai/tribunal/internal/retry"
	"github.com/tribunal-ai/tribunal/internal/spinner"
)

type evaluateOptions struct {
	modelNames []string
	outputPath string
	noCache    bool
	jsonOutput bool
}

func newEvaluateCommand() *cobra.Command {
	opts := &evaluateOptions{}

	cmd := &cobra.Command{
		Use:   "evaluate <analysis.json>",
		Short: "Grade an analysis package with a panel of models",
		Long: `Evaluate reads an analysis package from a JSON file, dispatches it to the
configured judge models, and prints the consensus verdict.

The input file follows the evaluation request contract:

  {
    "productAnalysisPackage": { ... arbitrary document fields ... },
    "executiveSummary": "...",
    "evaluationModels": ["gpt-4o", "claude-3-opus"],
    "scoringWeights": { "contentQuality": 0.3, ... }
  }

evaluationModels and scoringWeights may be omitted; the project config or
built-in defaults apply. The command exits 1 when the verdict is Revise
Significantly or Restart Analysis, and 2 on configuration or runtime errors.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvaluate(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringSliceVar(&opts.modelNames, "models", nil, "Judge models to use (overrides the request and config)")
	cmd.Flags().StringVarP(&opts.outputPath, "output", "o", "", "Write the full JSON report to this file")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "Skip the report cache")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Print the full JSON report instead of the summary")

	return cmd
}

func runEvaluate(cmd *cobra.Command, payloadPath string, opts *evaluateOptions) error {
	cfg, err := projectconfig.Load(".")
	if err != nil {
		return err
	}

	req, err := loadRequest(payloadPath, cfg, opts)
	if err != nil {
		return err
	}

	reportCache, err := openCache(cfg, opts)
	if err != nil {
		return err
	}

	var report *models.FinalEvaluationReport
	var cached bool
	key := ""
	if reportCache != nil {
		if key, err = cache.Key(req); err != nil {
			return err
		}
		report, cached = reportCache.Get(key)
	}

	if !cached {
		reg := registry.Default()
		e := engine.New(reg,
			engine.WithDispatcher(dispatch.New(reg,
				dispatch.WithRetryPolicy(retry.Policy{
					MaxAttempts: cfg.Retry.MaxAttempts,
					BaseDelay:   time.Duration(cfg.Retry.BaseDelayMs) * time.Millisecond,
					IsRetryable: providers.IsRetryable,
				}))),
			engine.WithLogger(slog.Default()))

		var stop func()
		if !opts.jsonOutput {
			stop = spinner.Start(cmd.ErrOrStderr(), fmt.Sprintf("Evaluating with %d models...", len(req.Models)))
		}
		report, err = e.Evaluate(cmd.Context(), req)
		if stop != nil {
			stop()
		}
		if err != nil {
			return err
		}

		if reportCache != nil {
			if err := reportCache.Put(key, report); err != nil {
				slog.Warn("failed to cache report", "error", err)
			}
		}
	}

	out := cmd.OutOrStdout()
	if opts.jsonOutput {
		if err := writeJSON(out, report); err != nil {
			return err
		}
	} else {
		if cached {
			fmt.Fprintln(out, "(cached result)")
		}
		PrintReport(out, report)
	}

	if opts.outputPath != "" {
		if err := saveReport(opts.outputPath, report); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nReport written to %s\n", opts.outputPath)
	}

	if report.Recommendation.Failing() {
		return &EvalFailureError{
			Message: fmt.Sprintf("verdict: %s (score %d, grade %s)",
				report.Recommendation, report.Consensus.Score, report.Grade),
		}
	}
	return nil
}

// loadRequest reads the request payload and applies config and flag
// overrides: flags beat the file, the file beats the project config.
func loadRequest(path string, cfg *projectconfig.ProjectConfig, opts *evaluateOptions) (*models.EvaluationRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var req models.EvaluationRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if len(opts.modelNames) > 0 {
		req.Models = opts.modelNames
	} else if len(req.Models) == 0 {
		req.Models = cfg.Models
	}
	if req.Weights == nil {
		req.Weights = cfg.Weights
	}
	return &req, nil
}

func openCache(cfg *projectconfig.ProjectConfig, opts *evaluateOptions) (*cache.Cache, error) {
	if opts.noCache || !cfg.CacheEnabled() {
		return nil, nil
	}
	return cache.New(cfg.Cache.Dir)
}

func saveReport(path string, report *models.FinalEvaluationReport) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	return writeJSON(f, report)
}

func writeJSON(w io.Writer, report *models.FinalEvaluationReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return nil
}
