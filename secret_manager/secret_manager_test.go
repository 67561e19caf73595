package secret_manager

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvSecretManager(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test-123")

	manager := EnvSecretManager{}
	secret, err := manager.GetSecret("OPENAI_API_KEY")
	require.NoError(t, err)
	assert.Equal(t, "sk-test-123", secret)

	_, err = manager.GetSecret("MISSING_API_KEY")
	assert.Error(t, err)

	assert.Error(t, manager.SetSecret("OPENAI_API_KEY", "x"))
	assert.Error(t, manager.DeleteSecret("OPENAI_API_KEY"))
}

func TestMockSecretManager(t *testing.T) {
	t.Parallel()

	manager := &MockSecretManager{}
	secret, err := manager.GetSecret("ANYTHING")
	require.NoError(t, err)
	assert.Equal(t, "fake secret", secret)

	require.NoError(t, manager.SetSecret("ANTHROPIC_API_KEY", "sk-ant"))
	secret, err = manager.GetSecret("ANTHROPIC_API_KEY")
	require.NoError(t, err)
	assert.Equal(t, "sk-ant", secret)
}

func TestCompositeSecretManager_FallsBack(t *testing.T) {
	t.Setenv("DEEPSEEK_API_KEY", "sk-deep")

	first := &MockSecretManager{secrets: map[string]string{}}
	// MockSecretManager returns "fake secret" for unknown names, so seed the
	// composite with env first to exercise ordering.
	composite := NewCompositeSecretManager(EnvSecretManager{}, first)

	secret, err := composite.GetSecret("DEEPSEEK_API_KEY")
	require.NoError(t, err)
	assert.Equal(t, "sk-deep", secret)

	secret, err = composite.GetSecret("NOT_IN_ENV")
	require.NoError(t, err)
	assert.Equal(t, "fake secret", secret)
}

func TestSecretManagerTypes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, EnvSecretManagerType, EnvSecretManager{}.GetType())
	assert.Equal(t, KeyringSecretManagerType, KeyringSecretManager{}.GetType())
	assert.Equal(t, MockSecretManagerType, MockSecretManager{}.GetType())
	assert.Equal(t, CompositeSecretManagerType, NewCompositeSecretManager(EnvSecretManager{}).GetType())
}
