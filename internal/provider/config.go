package provider

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nmilosev/evalgate/internal/domain"
)

const (
	defaultGeminiBase    = "https://generativelanguage.googleapis.com"
	defaultOpenAIBase    = "https://api.openai.com/v1"
	defaultAnthropicBase = "https://api.anthropic.com"
	defaultOllamaBase    = "http://localhost:11434"
)

type Endpoint struct {
	ApiBase string `yaml:"api_base"`
	ApiKey  string `yaml:"api_key"`
}

// Config describes every backend the registry can construct a client for.
// Loaded from the environment, optionally overridden by a YAML file pointed
// at by PROVIDERS_CONFIG.
type Config struct {
	DefaultProvider domain.Provider `yaml:"default_provider"`
	RequestTimeout  time.Duration   `yaml:"request_timeout"`

	Gemini    Endpoint `yaml:"gemini"`
	OpenAI    Endpoint `yaml:"openai"`
	Anthropic Endpoint `yaml:"anthropic"`
	Ollama    Endpoint `yaml:"ollama"`
}

func LoadConfigFromEnv() (*Config, error) {
	cfg := &Config{
		DefaultProvider: domain.DefaultProvider,
		Gemini: Endpoint{
			ApiBase: envOr("GEMINI_API_BASE", defaultGeminiBase),
			ApiKey:  os.Getenv("GEMINI_API_KEY"),
		},
		OpenAI: Endpoint{
			ApiBase: envOr("OPENAI_API_BASE", defaultOpenAIBase),
			ApiKey:  os.Getenv("OPENAI_API_KEY"),
		},
		Anthropic: Endpoint{
			ApiBase: envOr("ANTHROPIC_API_BASE", defaultAnthropicBase),
			ApiKey:  os.Getenv("ANTHROPIC_API_KEY"),
		},
		Ollama: Endpoint{
			ApiBase: envOr("OLLAMA_API_BASE", defaultOllamaBase),
		},
	}

	if dp := os.Getenv("DEFAULT_PROVIDER"); dp != "" {
		cfg.DefaultProvider = domain.Provider(dp)
	}

	if timeout := os.Getenv("PROVIDER_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid PROVIDER_TIMEOUT: %w", err)
		}
		cfg.RequestTimeout = d
	}

	if path := os.Getenv("PROVIDERS_CONFIG"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read providers config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse providers config: %w", err)
	}
	return nil
}

// BuildRegistry constructs one client per configured provider. Providers
// without credentials are skipped, not errors: a deployment may legitimately
// run with a subset of backends.
func (c *Config) BuildRegistry() (*Registry, error) {
	registry := NewRegistry(c.DefaultProvider)

	httpClient := &http.Client{Timeout: defaultTimeout}
	if c.RequestTimeout > 0 {
		httpClient.Timeout = c.RequestTimeout
	}

	if c.Gemini.ApiKey != "" {
		client, err := NewGeminiClient(c.Gemini.ApiBase, c.Gemini.ApiKey, WithGeminiHttpClient(httpClient))
		if err != nil {
			return nil, fmt.Errorf("gemini client: %w", err)
		}
		registry.Register(domain.ProviderGemini, client)
	}

	if c.OpenAI.ApiKey != "" {
		client, err := NewOpenAIClient(c.OpenAI.ApiBase, c.OpenAI.ApiKey, WithOpenAIHttpClient(httpClient))
		if err != nil {
			return nil, fmt.Errorf("openai client: %w", err)
		}
		registry.Register(domain.ProviderOpenAI, client)
	}

	if c.Anthropic.ApiKey != "" {
		client, err := NewAnthropicClient(c.Anthropic.ApiBase, c.Anthropic.ApiKey, WithAnthropicHttpClient(httpClient))
		if err != nil {
			return nil, fmt.Errorf("anthropic client: %w", err)
		}
		registry.Register(domain.ProviderAnthropic, client)
	}

	if c.Ollama.ApiBase != "" {
		client, err := NewOllamaClient(c.Ollama.ApiBase, WithOllamaHttpClient(httpClient))
		if err != nil {
			return nil, fmt.Errorf("ollama client: %w", err)
		}
		registry.Register(domain.ProviderOllama, client)
	}

	if len(registry.Providers()) == 0 {
		slog.Warn("No providers configured, every evaluation will fail to resolve")
	}

	return registry, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
