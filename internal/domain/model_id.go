package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Provider identifies a model backend.
type Provider string

const (
	ProviderGemini    Provider = "gemini"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderOllama    Provider = "ollama"
)

const DefaultProvider = ProviderGemini

// ModelIdentifier names a model on a specific provider. The wire format is
// "provider:model_name"; a bare model name belongs to the default provider.
type ModelIdentifier struct {
	Provider Provider
	Name     string
}

func ParseModelIdentifier(s string) (ModelIdentifier, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ModelIdentifier{}, fmt.Errorf("model identifier is empty")
	}

	provider := DefaultProvider
	name := s
	if idx := strings.Index(s, ":"); idx >= 0 {
		provider = Provider(strings.ToLower(strings.TrimSpace(s[:idx])))
		name = strings.TrimSpace(s[idx+1:])
	}

	if name == "" {
		return ModelIdentifier{}, fmt.Errorf("model identifier %q has no model name", s)
	}

	return ModelIdentifier{Provider: provider, Name: name}, nil
}

func (m ModelIdentifier) String() string {
	if m.Provider == "" {
		return m.Name
	}
	return string(m.Provider) + ":" + m.Name
}

func (m ModelIdentifier) IsZero() bool {
	return m.Name == ""
}

// MarshalJSON renders the identifier in its wire format.
func (m ModelIdentifier) MarshalJSON() ([]byte, error) {
	if m.IsZero() {
		return json.Marshal("")
	}
	return json.Marshal(m.String())
}

func (m *ModelIdentifier) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*m = ModelIdentifier{}
		return nil
	}
	parsed, err := ParseModelIdentifier(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
