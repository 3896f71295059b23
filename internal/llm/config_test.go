package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, ProviderOpenAI, config.Provider)
	assert.Equal(t, "gpt-4o-mini", config.GetModel(TierStandard))
	assert.Equal(t, "gpt-4o", config.GetModel(TierAdvanced))
	assert.Zero(t, config.Temperature)
}

func TestConfigFor(t *testing.T) {
	assert.Equal(t, "gemini-2.5-flash", ConfigFor(ProviderGemini).GetModel(TierStandard))
	assert.Equal(t, ProviderOpenAI, ConfigFor("anything").Provider)
}

func TestParseProvider(t *testing.T) {
	assert.Equal(t, ProviderGemini, ParseProvider(" Gemini "))
	assert.Equal(t, ProviderOpenAI, ParseProvider("openai"))
	assert.Equal(t, ProviderOpenAI, ParseProvider(""))
}

func TestGetModel_Fallback(t *testing.T) {
	config := &Config{
		Provider: ProviderOpenAI,
		Models: map[ModelTier]string{
			TierLite: "fallback-model",
		},
	}

	assert.Equal(t, "fallback-model", config.GetModel("unknown"))
	assert.Equal(t, "", (&Config{Models: map[ModelTier]string{}}).GetModel(TierAdvanced))
}

func TestWithModel(t *testing.T) {
	config := DefaultConfig()
	newConfig := config.WithModel(TierStandard, "gpt-3.5-turbo")

	assert.Equal(t, "gpt-4o-mini", config.GetModel(TierStandard))
	assert.Equal(t, "gpt-3.5-turbo", newConfig.GetModel(TierStandard))
	assert.Equal(t, "gpt-4o", newConfig.GetModel(TierAdvanced))
}

func TestNewClient_MissingKey(t *testing.T) {
	_, err := NewClient(context.Background(), DefaultOpenAIConfig(), "")
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	_, err = NewClient(context.Background(), DefaultGeminiConfig(), "")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestNewClient_UnsupportedProvider(t *testing.T) {
	_, err := NewClient(context.Background(), &Config{Provider: "anthropic"}, "key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported")
}
