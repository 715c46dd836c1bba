package provider

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/nmilosev/evalgate/internal/apperr"
)

const defaultTimeout = 60 * time.Second

// Result is one completed generation. Latency covers the network call only,
// measured wall-clock around the request.
type Result struct {
	Text         string
	InputTokens  *int64
	OutputTokens *int64
	LatencyMs    int64
}

// Client generates text on one backend. Implementations differ only in wire
// format; the contract is provider-agnostic.
type Client interface {
	Generate(ctx context.Context, model, prompt string) (*Result, error)
}

// classifyTransportErr maps a transport-level failure onto the provider
// error taxonomy.
func classifyTransportErr(provider string, err error) *apperr.ProviderError {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperr.NewProviderWrap(apperr.ProviderTimeout, provider, "request timed out", err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return apperr.NewProviderWrap(apperr.ProviderTimeout, provider, "request timed out", err)
	}
	return apperr.NewProviderWrap(apperr.ProviderUnreachable, provider, "request failed", err)
}

// classifyStatus maps a non-2xx HTTP status onto the provider error taxonomy.
func classifyStatus(provider string, status int, body string) *apperr.ProviderError {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return apperr.NewProvider(apperr.ProviderUnauthorized, provider, "authentication rejected: "+body)
	case status == http.StatusTooManyRequests:
		return apperr.NewProvider(apperr.ProviderRateLimited, provider, "rate limited: "+body)
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return apperr.NewProvider(apperr.ProviderTimeout, provider, "upstream timeout: "+body)
	default:
		return apperr.NewProvider(apperr.ProviderUnreachable, provider, "unexpected status: "+body)
	}
}

func truncateBody(b []byte) string {
	const max = 512
	if len(b) > max {
		return string(b[:max]) + "..."
	}
	return string(b)
}
