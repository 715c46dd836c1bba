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

const geminiName = "gemini"

type GeminiOption func(*GeminiClient)

type GeminiClient struct {
	base   url.URL
	apiKey string
	http   *http.Client
}

func NewGeminiClient(baseUrl, apiKey string, opts ...GeminiOption) (*GeminiClient, error) {
	base, err := url.Parse(strings.TrimRight(baseUrl, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse gemini base url: %w", err)
	}

	client := &GeminiClient{
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

func WithGeminiHttpClient(httpClient *http.Client) GeminiOption {
	return func(c *GeminiClient) {
		c.http = httpClient
	}
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	UsageMetadata *struct {
		PromptTokenCount     int64 `json:"promptTokenCount"`
		CandidatesTokenCount int64 `json:"candidatesTokenCount"`
	} `json:"usageMetadata"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *GeminiClient) Generate(ctx context.Context, model, prompt string) (*Result, error) {
	reqURL := c.base.JoinPath("/v1beta/models/" + model + ":generateContent")

	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal gemini request: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL.String(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build gemini request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("x-goog-api-key", c.apiKey)

	start := time.Now()
	resp, err := c.http.Do(request)
	if err != nil {
		return nil, classifyTransportErr(geminiName, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	latencyMs := time.Since(start).Milliseconds()
	if err != nil {
		return nil, apperr.NewProviderWrap(apperr.ProviderUnreachable, geminiName, "read response", err)
	}

	slog.Debug("gemini response", "model", model, "status", resp.StatusCode, "latency_ms", latencyMs)

	if resp.StatusCode != http.StatusOK {
		return nil, classifyStatus(geminiName, resp.StatusCode, truncateBody(respBody))
	}

	var parsed geminiResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, apperr.NewProviderWrap(apperr.ProviderMalformedResponse, geminiName, "unmarshal response", err)
	}
	if parsed.Error != nil {
		return nil, apperr.NewProvider(apperr.ProviderMalformedResponse, geminiName, "api error: "+parsed.Error.Message)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return nil, apperr.NewProvider(apperr.ProviderMalformedResponse, geminiName, "no candidates in response")
	}

	text := strings.TrimSpace(parsed.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return nil, apperr.NewProvider(apperr.ProviderMalformedResponse, geminiName, "empty text in response")
	}

	result := &Result{
		Text:      text,
		LatencyMs: latencyMs,
	}
	if parsed.UsageMetadata != nil {
		in, out := parsed.UsageMetadata.PromptTokenCount, parsed.UsageMetadata.CandidatesTokenCount
		result.InputTokens = &in
		result.OutputTokens = &out
	}

	return result, nil
}
