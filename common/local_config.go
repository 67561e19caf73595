package common

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// ValidProviderTypes are the allowed provider types for custom providers.
// Custom providers must speak one of the wire protocols we already have an
// adapter for.
var ValidProviderTypes = []string{"openai_compatible"}

// BuiltinProviders are the providers that are built into the system
var BuiltinProviders = []string{"openai", "anthropic", "google", "deepseek"}

// CustomProviderConfig represents configuration for an additional
// OpenAI-compatible chat provider, routed by model id prefix.
type CustomProviderConfig struct {
	Name         string `koanf:"name"`
	ProviderType string `koanf:"provider_type"`
	BaseURL      string `koanf:"base_url"`
	ModelPrefix  string `koanf:"model_prefix"`
}

// Validate ensures the CustomProviderConfig is valid
func (c CustomProviderConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("name is required")
	}
	if c.ProviderType == "" {
		return fmt.Errorf("provider_type is required")
	}
	if !slices.Contains(ValidProviderTypes, c.ProviderType) {
		return fmt.Errorf("invalid provider_type: %s", c.ProviderType)
	}
	if slices.Contains(BuiltinProviders, c.Name) {
		return fmt.Errorf("custom provider name %s collides with a builtin provider", c.Name)
	}
	if c.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}
	if c.ModelPrefix == "" {
		return fmt.Errorf("model_prefix is required")
	}
	return nil
}

// LocalConfig represents the local configuration file structure
type LocalConfig struct {
	DefaultModel    string                 `koanf:"default_model,omitempty"`
	CustomProviders []CustomProviderConfig `koanf:"custom_providers,omitempty"`
}

// Validate ensures the LocalConfig is valid
func (c LocalConfig) Validate() error {
	for _, p := range c.CustomProviders {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("invalid custom provider %s: %w", p.Name, err)
		}
	}
	return nil
}

// GetLocalConfig loads the llmchat configuration from the given file path.
// If the config file doesn't exist, returns an empty config.
// The config file is expected to be in YAML format.
func GetLocalConfig(configPath string) (LocalConfig, error) {
	k := koanf.New(".")

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return LocalConfig{}, nil
	}

	if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
		return LocalConfig{}, fmt.Errorf("error loading config: %w", err)
	}

	var config LocalConfig
	if err := k.Unmarshal("", &config); err != nil {
		return LocalConfig{}, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return LocalConfig{}, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

// GetDefaultConfigPath returns the default path for the llmchat config file
func GetDefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "llmchat", "config.yaml")
}
