package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nmilosev/evalgate/internal/apperr"
)

const openaiName = "openai"

type OpenAIOption func(*OpenAIClient)

type OpenAIClient struct {
	base   url.URL
	apiKey string
	http   *http.Client
}

func NewOpenAIClient(baseUrl, apiKey string, opts ...OpenAIOption) (*OpenAIClient, error) {
	base, err := url.Parse(strings.TrimRight(baseUrl, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse openai base url: %w", err)
	}

	client := &OpenAIClient{
		base:   *base,
		apiKey: apiKey,
		http: &http.Client{
			Timeout: defaultTimeout,
		},
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

func WithOpenAIHttpClient(httpClient *http.Client) OpenAIOption {
	return func(c *OpenAIClient) {
		c.http = httpClient
	}
}

type openaiRequest struct {
	Model       string          `json:"model"`
	Messages    []openaiMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
}

type openaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openaiResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int64 `json:"prompt_tokens"`
		CompletionTokens int64 `json:"completion_tokens"`
	} `json:"usage"`
}

func (c *OpenAIClient) Generate(ctx context.Context, model, prompt string) (*Result, error) {
	reqURL := c.base.JoinPath("/chat/completions")

	body, err := json.Marshal(openaiRequest{
		Model:       model,
		Messages:    []openaiMessage{{Role: "user", Content: prompt}},
		Temperature: 0.7,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal openai request: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL.String(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build openai request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	resp, err := c.http.Do(request)
	if err != nil {
		return nil, classifyTransportErr(openaiName, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	latencyMs := time.Since(start).Milliseconds()
	if err != nil {
		return nil, apperr.NewProviderWrap(apperr.ProviderUnreachable, openaiName, "read response", err)
	}

	slog.Debug("openai response", "model", model, "status", resp.StatusCode, "latency_ms", latencyMs)

	if resp.StatusCode != http.StatusOK {
		return nil, classifyStatus(openaiName, resp.StatusCode, truncateBody(respBody))
	}

	var parsed openaiResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, apperr.NewProviderWrap(apperr.ProviderMalformedResponse, openaiName, "unmarshal response", err)
	}
	if len(parsed.Choices) == 0 {
		return nil, apperr.NewProvider(apperr.ProviderMalformedResponse, openaiName, "no choices in response")
	}

	text := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if text == "" {
		return nil, apperr.NewProvider(apperr.ProviderMalformedResponse, openaiName, "empty text in response")
	}

	result := &Result{
		Text:      text,
		LatencyMs: latencyMs,
	}
	if parsed.Usage != nil {
		in, out := parsed.Usage.PromptTokens, parsed.Usage.CompletionTokens
		result.InputTokens = &in
		result.OutputTokens = &out
	}

	return result, nil
}
