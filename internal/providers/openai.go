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

const openAIBaseURL = "https://api.openai.com/v1"

// OpenAIAdapter speaks the OpenAI chat completions API.
type OpenAIAdapter struct {
	baseURL string
	client  *http.Client
}

func NewOpenAIAdapter(client *http.Client) *OpenAIAdapter {
	return &OpenAIAdapter{baseURL: openAIBaseURL, client: client}
}

func (a *OpenAIAdapter) Kind() registry.Kind { return registry.KindOpenAI }

func (a *OpenAIAdapter) Available() bool { return registry.KindOpenAI.Available() }

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIRequestBody struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	Temperature float64         `json:"temperature"`
}

type openAIResponseBody struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

func (a *OpenAIAdapter) Complete(ctx context.Context, req *Request) (*Response, error) {
	apiKey := os.Getenv(registry.KindOpenAI.CredentialEnv())
	if apiKey == "" {
		return nil, &AuthenticationError{Kind: registry.KindOpenAI}
	}

	body := openAIRequestBody{
		Model: req.BackendModel,
		Messages: []openAIMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.Prompt},
		},
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal openai request: %w", err)
	}

	callCtx := ctx
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	httpReq, err := http.NewRequestWithContext(callCtx, http.MethodPost, a.baseURL+"/chat/completions", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create openai request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)

	start := time.Now()
	httpResp, err := a.client.Do(httpReq)
	if err != nil {
		return nil, &ProviderError{Kind: registry.KindOpenAI, Message: err.Error(), Transient: true}
	}
	defer httpResp.Body.Close()

	respData, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &ProviderError{Kind: registry.KindOpenAI, Message: "reading response: " + err.Error(), Transient: true}
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, a.statusError(httpResp.StatusCode, respData, req.BackendModel)
	}

	var parsed openAIResponseBody
	if err := json.Unmarshal(respData, &parsed); err != nil {
		return nil, &ProviderError{Kind: registry.KindOpenAI, Message: "unmarshal response: " + err.Error()}
	}

	if len(parsed.Choices) == 0 || strings.TrimSpace(parsed.Choices[0].Message.Content) == "" {
		return nil, &EmptyResponseError{Kind: registry.KindOpenAI, Model: req.BackendModel}
	}

	tokens := estimateTokens(req.System+req.Prompt, parsed.Choices[0].Message.Content)
	if parsed.Usage.TotalTokens > 0 {
		tokens.Input = parsed.Usage.PromptTokens
		tokens.Output = parsed.Usage.CompletionTokens
		tokens.Total = parsed.Usage.TotalTokens
	}

	return &Response{
		Content:   parsed.Choices[0].Message.Content,
		Tokens:    tokens,
		LatencyMs: time.Since(start).Milliseconds(),
		CostUSD:   registry.EstimateCost(req.BackendModel, tokens),
	}, nil
}

func (a *OpenAIAdapter) statusError(status int, body []byte, model string) error {
	var parsed openAIResponseBody
	msg := strings.TrimSpace(string(body))
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error != nil {
		msg = parsed.Error.Message
		if parsed.Error.Code == "model_not_found" {
			return &InvalidModelError{Model: model}
		}
	}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &AuthenticationError{Kind: registry.KindOpenAI}
	case status == http.StatusNotFound:
		return &InvalidModelError{Model: model}
	case status == http.StatusTooManyRequests || status >= 500:
		return &ProviderError{Kind: registry.KindOpenAI, StatusCode: status, Message: msg, Transient: true}
	default:
		return &ProviderError{Kind: registry.KindOpenAI, StatusCode: status, Message: msg}
	}
}
