package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestGetLocalConfig_MissingFile(t *testing.T) {
	config, err := GetLocalConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.NoError(t, err)
	assert.Equal(t, LocalConfig{}, config)
}

func TestGetLocalConfig_Valid(t *testing.T) {
	path := writeConfigFile(t, `
default_model: gpt-4
custom_providers:
  - name: kimi
    provider_type: openai_compatible
    base_url: https://api.moonshot.ai/v1
    model_prefix: kimi
`)

	config, err := GetLocalConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4", config.DefaultModel)
	require.Len(t, config.CustomProviders, 1)
	assert.Equal(t, "kimi", config.CustomProviders[0].Name)
	assert.Equal(t, "openai_compatible", config.CustomProviders[0].ProviderType)
}

func TestGetLocalConfig_InvalidProviderType(t *testing.T) {
	path := writeConfigFile(t, `
custom_providers:
  - name: kimi
    provider_type: grpc
    base_url: https://api.moonshot.ai/v1
    model_prefix: kimi
`)

	_, err := GetLocalConfig(path)
	assert.ErrorContains(t, err, "invalid provider_type")
}

func TestGetLocalConfig_BuiltinNameCollision(t *testing.T) {
	path := writeConfigFile(t, `
custom_providers:
  - name: openai
    provider_type: openai_compatible
    base_url: https://example.com/v1
    model_prefix: gpt
`)

	_, err := GetLocalConfig(path)
	assert.ErrorContains(t, err, "collides with a builtin provider")
}
