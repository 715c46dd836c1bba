package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseModelIdentifier(t *testing.T) {
	tests := []struct {
		input    string
		provider Provider
		name     string
	}{
		{"gemini:gemini-2.0-flash", ProviderGemini, "gemini-2.0-flash"},
		{"openai:gpt-4o", ProviderOpenAI, "gpt-4o"},
		{"anthropic:claude-sonnet-4", ProviderAnthropic, "claude-sonnet-4"},
		{"ollama:llama3", ProviderOllama, "llama3"},
		{"gemini-2.0-flash", DefaultProvider, "gemini-2.0-flash"},
		{"OpenAI:gpt-4o", ProviderOpenAI, "gpt-4o"},
		{"  gemini : flash  ", ProviderGemini, "flash"},
		{"custom:some-model", Provider("custom"), "some-model"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			id, err := ParseModelIdentifier(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.provider, id.Provider)
			assert.Equal(t, tt.name, id.Name)
		})
	}
}

func TestParseModelIdentifier_ColonInModelName(t *testing.T) {
	// Only the first colon splits; the rest belongs to the model name.
	id, err := ParseModelIdentifier("ollama:llama3:8b")
	require.NoError(t, err)
	assert.Equal(t, ProviderOllama, id.Provider)
	assert.Equal(t, "llama3:8b", id.Name)
}

func TestParseModelIdentifier_Invalid(t *testing.T) {
	for _, input := range []string{"", "   ", "gemini:", "openai:   "} {
		_, err := ParseModelIdentifier(input)
		assert.Error(t, err, "input: %q", input)
	}
}

func TestModelIdentifier_String(t *testing.T) {
	id := ModelIdentifier{Provider: ProviderOpenAI, Name: "gpt-4o"}
	assert.Equal(t, "openai:gpt-4o", id.String())

	bare := ModelIdentifier{Name: "gpt-4o"}
	assert.Equal(t, "gpt-4o", bare.String())
}

func TestModelIdentifier_JSONRoundTrip(t *testing.T) {
	id := ModelIdentifier{Provider: ProviderAnthropic, Name: "claude-sonnet-4"}

	data, err := json.Marshal(id)
	require.NoError(t, err)
	assert.Equal(t, `"anthropic:claude-sonnet-4"`, string(data))

	var decoded ModelIdentifier
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, id, decoded)

	var zero ModelIdentifier
	require.NoError(t, json.Unmarshal([]byte(`""`), &zero))
	assert.True(t, zero.IsZero())
}

func TestEvalRequest_WantsJudge(t *testing.T) {
	judgeModel := ModelIdentifier{Provider: ProviderOpenAI, Name: "gpt-4o"}

	assert.True(t, EvalRequest{Expected: "x", JudgeModel: judgeModel}.WantsJudge())
	assert.False(t, EvalRequest{Expected: "x"}.WantsJudge())
	assert.False(t, EvalRequest{JudgeModel: judgeModel}.WantsJudge())
	assert.False(t, EvalRequest{}.WantsJudge())
}
