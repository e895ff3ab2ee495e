package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/tribunal-ai/tribunal/internal/registry"
)

const (
	anthropicBaseURL    = "https://api.anthropic.com/v1"
	anthropicAPIVersion = "2023-06-01"
)

// AnthropicAdapter speaks the Anthropic Messages API.
type AnthropicAdapter struct {
	baseURL string
	client  *http.Client
}

func NewAnthropicAdapter(client *http.Client) *AnthropicAdapter {
	return &AnthropicAdapter{baseURL: anthropicBaseURL, client: client}
}

func (a *AnthropicAdapter) Kind() registry.Kind { return registry.KindAnthropic }

func (a *AnthropicAdapter) Available() bool { return registry.KindAnthropic.Available() }

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequestBody struct {
	Model       string             `json:"model"`
	Messages    []anthropicMessage `json:"messages"`
	System      string             `json:"system,omitempty"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float64            `json:"temperature"`
}

type anthropicResponseBody struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func (a *AnthropicAdapter) Complete(ctx context.Context, req *Request) (*Response, error) {
	apiKey := os.Getenv(registry.KindAnthropic.CredentialEnv())
	if apiKey == "" {
		return nil, &AuthenticationError{Kind: registry.KindAnthropic}
	}

	// Anthropic requires max_tokens.
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}

	body := anthropicRequestBody{
		Model:       req.BackendModel,
		Messages:    []anthropicMessage{{Role: "user", Content: req.Prompt}},
		System:      req.System,
		MaxTokens:   maxTokens,
		Temperature: req.Temperature,
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal anthropic request: %w", err)
	}

	callCtx := ctx
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	httpReq, err := http.NewRequestWithContext(callCtx, http.MethodPost, a.baseURL+"/messages", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create anthropic request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", apiKey)
	httpReq.Header.Set("anthropic-version", anthropicAPIVersion)

	start := time.Now()
	httpResp, err := a.client.Do(httpReq)
	if err != nil {
		return nil, &ProviderError{Kind: registry.KindAnthropic, Message: err.Error(), Transient: true}
	}
	defer httpResp.Body.Close()

	respData, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &ProviderError{Kind: registry.KindAnthropic, Message: "reading response: " + err.Error(), Transient: true}
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, a.statusError(httpResp.StatusCode, respData, req.BackendModel)
	}

	var parsed anthropicResponseBody
	if err := json.Unmarshal(respData, &parsed); err != nil {
		return nil, &ProviderError{Kind: registry.KindAnthropic, Message: "unmarshal response: " + err.Error()}
	}

	var content string
	for _, block := range parsed.Content {
		if block.Type == "text" {
			content = block.Text
			break
		}
	}
	if strings.TrimSpace(content) == "" {
		return nil, &EmptyResponseError{Kind: registry.KindAnthropic, Model: req.BackendModel}
	}

	tokens := estimateTokens(req.System+req.Prompt, content)
	if parsed.Usage.InputTokens > 0 || parsed.Usage.OutputTokens > 0 {
		tokens.Input = parsed.Usage.InputTokens
		tokens.Output = parsed.Usage.OutputTokens
		tokens.Total = parsed.Usage.InputTokens + parsed.Usage.OutputTokens
	}

	return &Response{
		Content:   content,
		Tokens:    tokens,
		LatencyMs: time.Since(start).Milliseconds(),
		CostUSD:   registry.EstimateCost(req.BackendModel, tokens),
	}, nil
}

func (a *AnthropicAdapter) statusError(status int, body []byte, model string) error {
	var parsed anthropicResponseBody
	msg := strings.TrimSpace(string(body))
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error != nil {
		msg = parsed.Error.Message
		if parsed.Error.Type == "not_found_error" {
			return &InvalidModelError{Model: model}
		}
	}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &AuthenticationError{Kind: registry.KindAnthropic}
	case status == http.StatusNotFound:
		return &InvalidModelError{Model: model}
	case status == http.StatusTooManyRequests || status >= 500:
		return &ProviderError{Kind: registry.KindAnthropic, StatusCode: status, Message: msg, Transient: true}
	default:
		return &ProviderError{Kind: registry.KindAnthropic, StatusCode: status, Message: msg}
	}
}
