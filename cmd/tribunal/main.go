package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Exit codes for different failure modes
const (
	ExitSuccess    = 0 // Evaluation passed
	ExitEvalFailed = 1 // Evaluation completed but the verdict is failing
	ExitError      = 2 // Configuration or runtime error
)

// EvalFailureError indicates the evaluation ran to completion but the
// consensus verdict says the analysis should not proceed as-is.
type EvalFailureError struct {
	Message string
}

func (e *EvalFailureError) Error() string {
	return e.Message
}

func main() {
	// Provider credentials are commonly kept in a local .env file.
	_ = godotenv.Load()

	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		var evalFailure *EvalFailureError
		if errors.As(err, &evalFailure) {
			os.Exit(ExitEvalFailed)
		}

		// All other errors are configuration/runtime errors
		os.Exit(ExitError)
	}
}
