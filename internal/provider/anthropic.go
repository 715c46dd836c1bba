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

const (
	anthropicName    = "anthropic"
	anthropicVersion = "2023-06-01"
	anthropicMaxTokens = 4096
)

type AnthropicOption func(*AnthropicClient)

type AnthropicClient struct {
	base   url.URL
	apiKey string
	http   *http.Client
}

func NewAnthropicClient(baseUrl, apiKey string, opts ...AnthropicOption) (*AnthropicClient, error) {
	base, err := url.Parse(strings.TrimRight(baseUrl, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse anthropic base url: %w", err)
	}

	client := &AnthropicClient{
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

func WithAnthropicHttpClient(httpClient *http.Client) AnthropicOption {
	return func(c *AnthropicClient) {
		c.http = httpClient
	}
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	Messages  []anthropicMessage `json:"messages"`
	MaxTokens int                `json:"max_tokens"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage *struct {
		InputTokens  int64 `json:"input_tokens"`
		OutputTokens int64 `json:"output_tokens"`
	} `json:"usage"`
}

func (c *AnthropicClient) Generate(ctx context.Context, model, prompt string) (*Result, error) {
	reqURL := c.base.JoinPath("/v1/messages")

	body, err := json.Marshal(anthropicRequest{
		Model:     model,
		Messages:  []anthropicMessage{{Role: "user", Content: prompt}},
		MaxTokens: anthropicMaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal anthropic request: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL.String(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build anthropic request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("x-api-key", c.apiKey)
	request.Header.Set("anthropic-version", anthropicVersion)

	start := time.Now()
	resp, err := c.http.Do(request)
	if err != nil {
		return nil, classifyTransportErr(anthropicName, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	latencyMs := time.Since(start).Milliseconds()
	if err != nil {
		return nil, apperr.NewProviderWrap(apperr.ProviderUnreachable, anthropicName, "read response", err)
	}

	slog.Debug("anthropic response", "model", model, "status", resp.StatusCode, "latency_ms", latencyMs)

	if resp.StatusCode != http.StatusOK {
		return nil, classifyStatus(anthropicName, resp.StatusCode, truncateBody(respBody))
	}

	var parsed anthropicResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, apperr.NewProviderWrap(apperr.ProviderMalformedResponse, anthropicName, "unmarshal response", err)
	}

	var text string
	for _, block := range parsed.Content {
		if block.Type == "text" {
			text = strings.TrimSpace(block.Text)
			break
		}
	}
	if text == "" {
		return nil, apperr.NewProvider(apperr.ProviderMalformedResponse, anthropicName, "no text content in response")
	}

	result := &Result{
		Text:      text,
		LatencyMs: latencyMs,
	}
	if parsed.Usage != nil {
		in, out := parsed.Usage.InputTokens, parsed.Usage.OutputTokens
		result.InputTokens = &in
		result.OutputTokens = &out
	}

	return result, nil
}
