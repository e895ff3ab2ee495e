package providers

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	copilot "github.com/github/copilot-sdk/go"
	"github.com/tribunal-ai/tribunal/internal/registry"
	"github.com/tribunal-ai/tribunal/internal/utils"
)

// CopilotAdapter grades through the Copilot SDK using the logged-in user's
// session. The SDK does not report token usage, so tokens and cost are
// estimated from text length.
type CopilotAdapter struct{}

func NewCopilotAdapter() *CopilotAdapter {
	return &CopilotAdapter{}
}

func (a *CopilotAdapter) Kind() registry.Kind { return registry.KindCopilot }

func (a *CopilotAdapter) Available() bool { return registry.KindCopilot.Available() }

func (a *CopilotAdapter) Complete(ctx context.Context, req *Request) (*Response, error) {
	client := copilot.NewClient(&copilot.ClientOptions{
		AutoStart:       utils.Ptr(true),
		AutoRestart:     utils.Ptr(true),
		UseLoggedInUser: utils.Ptr(true),
		LogLevel:        "error",
	})

	defer func() {
		if err := client.Stop(); err != nil {
			slog.ErrorContext(ctx, "error stopping copilot client", "error", err)
		}
	}()

	callCtx := ctx
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	start := time.Now()

	session, err := client.CreateSession(callCtx, &copilot.SessionConfig{
		Model:     req.BackendModel,
		Streaming: true,
	})
	if err != nil {
		return nil, &ProviderError{Kind: registry.KindCopilot, Message: fmt.Sprintf("creating session: %v", err), Transient: true}
	}

	session.On(utils.SessionToSlog)

	prompt := req.Prompt
	if req.System != "" {
		prompt = req.System + "\n\n" + req.Prompt
	}

	resp, err := session.SendAndWait(callCtx, copilot.MessageOptions{
		Prompt: prompt,
		Mode:   "enqueue",
	})
	if err != nil {
		return nil, &ProviderError{Kind: registry.KindCopilot, Message: fmt.Sprintf("sending prompt: %v", err), Transient: true}
	}

	if resp.Data.Content == nil || strings.TrimSpace(*resp.Data.Content) == "" {
		return nil, &EmptyResponseError{Kind: registry.KindCopilot, Model: req.BackendModel}
	}

	content := *resp.Data.Content
	tokens := estimateTokens(prompt, content)

	return &Response{
		Content:   content,
		Tokens:    tokens,
		LatencyMs: time.Since(start).Milliseconds(),
		CostUSD:   registry.EstimateCost(req.BackendModel, tokens),
	}, nil
}
