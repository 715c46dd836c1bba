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

const ollamaName = "ollama"

type OllamaOption func(*OllamaClient)

type OllamaClient struct {
	base url.URL
	http *http.Client
}

func NewOllamaClient(baseUrl string, opts ...OllamaOption) (*OllamaClient, error) {
	base, err := url.Parse(strings.TrimRight(baseUrl, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse ollama base url: %w", err)
	}

	client := &OllamaClient{
		base: *base,
		http: &http.Client{
			Timeout: defaultTimeout,
		},
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

func WithOllamaHttpClient(httpClient *http.Client) OllamaOption {
	return func(c *OllamaClient) {
		c.http = httpClient
	}
}

type ollamaRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type ollamaResponse struct {
	Response        string `json:"response"`
	PromptEvalCount *int64 `json:"prompt_eval_count"`
	EvalCount       *int64 `json:"eval_count"`
}

func (c *OllamaClient) Generate(ctx context.Context, model, prompt string) (*Result, error) {
	reqURL := c.base.JoinPath("/api/generate")

	body, err := json.Marshal(ollamaRequest{
		Model:  model,
		Prompt: prompt,
		Stream: false,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal ollama request: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL.String(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build ollama request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(request)
	if err != nil {
		return nil, classifyTransportErr(ollamaName, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	latencyMs := time.Since(start).Milliseconds()
	if err != nil {
		return nil, apperr.NewProviderWrap(apperr.ProviderUnreachable, ollamaName, "read response", err)
	}

	slog.Debug("ollama response", "model", model, "status", resp.StatusCode, "latency_ms", latencyMs)

	if resp.StatusCode != http.StatusOK {
		return nil, classifyStatus(ollamaName, resp.StatusCode, truncateBody(respBody))
	}

	var parsed ollamaResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, apperr.NewProviderWrap(apperr.ProviderMalformedResponse, ollamaName, "unmarshal response", err)
	}

	text := strings.TrimSpace(parsed.Response)
	if text == "" {
		return nil, apperr.NewProvider(apperr.ProviderMalformedResponse, ollamaName, "empty text in response")
	}

	return &Result{
		Text:         text,
		InputTokens:  parsed.PromptEvalCount,
		OutputTokens: parsed.EvalCount,
		LatencyMs:    latencyMs,
	}, nil
}
