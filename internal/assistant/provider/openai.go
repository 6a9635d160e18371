package provider

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	apperrors "github.com/launchfolio/launchfolio/internal/platform/errors"
	"github.com/launchfolio/launchfolio/internal/platform/timeouts"
)

// OpenAIConfig configures the OpenAI-style responses endpoint.
type OpenAIConfig struct {
	ResponsesURL string
	APIKey       string
	HTTPClient   *http.Client
}

type openAIInvoker struct {
	cfg OpenAIConfig
}

// NewOpenAIInvoker builds an invoker for an OpenAI-style responses endpoint.
func NewOpenAIInvoker(cfg OpenAIConfig) Invoker {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: timeouts.ProviderRequest}
	}
	if strings.TrimSpace(cfg.ResponsesURL) == "" {
		cfg.ResponsesURL = "https://api.openai.com/v1/responses"
	}
	return &openAIInvoker{cfg: cfg}
}

func (a *openAIInvoker) Invoke(ctx context.Context, input InvokeInput) (InvokeResult, error) {
	responsesURL := strings.TrimSpace(a.cfg.ResponsesURL)
	apiKey := strings.TrimSpace(a.cfg.APIKey)
	model := strings.TrimSpace(input.Model)
	prompt := strings.TrimSpace(input.Input)
	if apiKey == "" {
		return InvokeResult{}, fmt.Errorf("provider api key is required")
	}
	if model == "" {
		return InvokeResult{}, fmt.Errorf("model is required")
	}
	if prompt == "" {
		return InvokeResult{}, apperrors.New(apperrors.CodeAssistantEmptyPrompt, "input is required")
	}

	requestBody, err := json.Marshal(map[string]any{
		"model": model,
		"input": prompt,
	})
	if err != nil {
		return InvokeResult{}, fmt.Errorf("marshal invoke request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, responsesURL, bytes.NewReader(requestBody))
	if err != nil {
		return InvokeResult{}, fmt.Errorf("build invoke request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	// Credential material is sent only as an Authorization header and is
	// never echoed in errors or response payloads.
	req.Header.Set("Authorization", "Bearer "+apiKey)

	res, err := a.cfg.HTTPClient.Do(req)
	if err != nil {
		return InvokeResult{}, apperrors.Wrap(apperrors.CodeAssistantProviderFailure, "invoke request failed", err)
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return InvokeResult{}, mapProviderStatus(res)
	}

	var payload struct {
		OutputText string `json:"output_text"`
		Output     []struct {
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
		} `json:"output"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return InvokeResult{}, apperrors.Wrap(apperrors.CodeAssistantProviderFailure, "decode invoke response", err)
	}
	outputText := strings.TrimSpace(payload.OutputText)
	if outputText == "" {
		for _, item := range payload.Output {
			for _, content := range item.Content {
				if strings.TrimSpace(content.Text) != "" {
					outputText = strings.TrimSpace(content.Text)
					break
				}
			}
			if outputText != "" {
				break
			}
		}
	}
	if outputText == "" {
		return InvokeResult{}, apperrors.New(apperrors.CodeAssistantProviderFailure, "invoke response missing output text")
	}
	return InvokeResult{OutputText: outputText}, nil
}

// mapProviderStatus translates provider HTTP failures into coded errors.
// Error bodies are clipped so provider messages cannot flood logs.
func mapProviderStatus(res *http.Response) error {
	body, err := io.ReadAll(io.LimitReader(res.Body, 4096))
	if err != nil {
		return apperrors.New(apperrors.CodeAssistantProviderFailure, "read invoke error body")
	}
	detail := strings.TrimSpace(string(body))
	switch {
	case res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden:
		return apperrors.WithMetadata(
			apperrors.CodeAssistantProviderFailure,
			"provider rejected the credential",
			map[string]string{"Status": fmt.Sprintf("%d", res.StatusCode)},
		)
	case res.StatusCode == http.StatusTooManyRequests:
		return apperrors.New(apperrors.CodeRateLimited, "provider rate limit exceeded")
	default:
		return apperrors.WithMetadata(
			apperrors.CodeAssistantProviderFailure,
			fmt.Sprintf("invoke request status %d: %s", res.StatusCode, detail),
			map[string]string{"Status": fmt.Sprintf("%d", res.StatusCode)},
		)
	}
}
