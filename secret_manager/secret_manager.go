package secret_manager

import (
	"fmt"
	"os"

	"github.com/zalando/go-keyring"
)

// SecretManager hands out provider credentials, most importantly the
// per-provider API keys (e.g. OPENAI_API_KEY, ANTHROPIC_API_KEY). Provider
// adapters never read credentials from anywhere else.
type SecretManager interface {
	GetSecret(secretName string) (string, error)
	SetSecret(secretName string, secret string) error
	DeleteSecret(secretName string) error
	GetType() SecretManagerType
}

type SecretManagerType string

const (
	EnvSecretManagerType       SecretManagerType = "env"
	MockSecretManagerType      SecretManagerType = "mock"
	KeyringSecretManagerType   SecretManagerType = "keyring"
	CompositeSecretManagerType SecretManagerType = "composite"
)

// EnvSecretManager reads secrets from environment variables, typically loaded
// from a .env file at startup.
type EnvSecretManager struct{}

func (e EnvSecretManager) SetSecret(secretName string, secret string) error {
	return fmt.Errorf("cannot set secrets in environment secret manager - secrets must be set as environment variables")
}

func (e EnvSecretManager) GetSecret(secretName string) (string, error) {
	secret := os.Getenv(secretName)
	if secret == "" {
		return "", fmt.Errorf("secret %s not found in environment", secretName)
	}
	return secret, nil
}

func (e EnvSecretManager) DeleteSecret(secretName string) error {
	return fmt.Errorf("cannot delete secrets in environment secret manager - secrets must be managed via environment variables")
}

func (e EnvSecretManager) GetType() SecretManagerType {
	return EnvSecretManagerType
}

type KeyringSecretManager struct{}

func (k KeyringSecretManager) SetSecret(secretName string, secret string) error {
	err := keyring.Set("llmchat", secretName, secret)
	if err != nil {
		return fmt.Errorf("error setting %s in keyring: %w", secretName, err)
	}
	return nil
}

func (k KeyringSecretManager) GetSecret(secretName string) (string, error) {
	secret, err := keyring.Get("llmchat", secretName)
	if err != nil {
		return "", fmt.Errorf("error retrieving %s from keyring: %w", secretName, err)
	}
	return secret, nil
}

func (k KeyringSecretManager) DeleteSecret(secretName string) error {
	err := keyring.Delete("llmchat", secretName)
	if err != nil {
		return fmt.Errorf("error deleting %s from keyring: %w", secretName, err)
	}
	return nil
}

func (k KeyringSecretManager) GetType() SecretManagerType {
	return KeyringSecretManagerType
}

type MockSecretManager struct {
	secrets map[string]string
}

func (m MockSecretManager) GetSecret(secretName string) (string, error) {
	if m.secrets == nil {
		return "fake secret", nil
	}
	if secret, ok := m.secrets[secretName]; ok {
		return secret, nil
	}
	return "fake secret", nil
}

func (m *MockSecretManager) SetSecret(secretName string, secret string) error {
	if m.secrets == nil {
		m.secrets = make(map[string]string)
	}
	m.secrets[secretName] = secret
	return nil
}

func (m *MockSecretManager) DeleteSecret(secretName string) error {
	if m.secrets != nil {
		delete(m.secrets, secretName)
	}
	return nil
}

func (m MockSecretManager) GetType() SecretManagerType {
	return MockSecretManagerType
}

// CompositeSecretManager tries each backend in order, returning the first
// secret found. Lets keyring-stored keys fall back to the environment.
type CompositeSecretManager struct {
	managers []SecretManager
}

func NewCompositeSecretManager(managers ...SecretManager) *CompositeSecretManager {
	return &CompositeSecretManager{managers: managers}
}

func (c CompositeSecretManager) GetSecret(secretName string) (string, error) {
	var lastErr error
	for _, m := range c.managers {
		secret, err := m.GetSecret(secretName)
		if err == nil {
			return secret, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("secret %s not found", secretName)
	}
	return "", lastErr
}

func (c CompositeSecretManager) SetSecret(secretName string, secret string) error {
	var lastErr error
	for _, m := range c.managers {
		if err := m.SetSecret(secretName, secret); err == nil {
			return nil
		} else {
			lastErr = err
		}
	}
	return lastErr
}

func (c CompositeSecretManager) DeleteSecret(secretName string) error {
	var lastErr error
	for _, m := range c.managers {
		if err := m.DeleteSecret(secretName); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

func (c CompositeSecretManager) GetType() SecretManagerType {
	return CompositeSecretManagerType
}
