package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"prompt-server/internal/config"
	"prompt-server/shared/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv сбрасывает переменные, которые могли прийти из окружения разработчика.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ENV", "PORT", "LOG_LEVEL", "LOG_ENCODING",
		"AI_CLIENT_TYPE", "AI_BASE_URL", "AI_MODEL", "AI_TIMEOUT",
		"GEMINI_API_KEY", "GOOGLE_API_KEY",
		"CORS_ALLOWED_ORIGINS", "STATIC_DIR", "METRICS_ENABLED",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	prev := utils.SecretsDir
	utils.SecretsDir = t.TempDir()
	t.Cleanup(func() { utils.SecretsDir = prev })
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, config.AIClientOpenAI, cfg.AIClientType)
	assert.Equal(t, "gemini-2.5-flash", cfg.AIModel)
	assert.Equal(t, 60*time.Second, cfg.AITimeout)
	assert.True(t, cfg.MetricsEnabled)
	assert.Empty(t, cfg.AIAPIKey, "missing key must not fail startup")
	assert.Empty(t, cfg.GetAllowedOrigins())
}

func TestLoadConfig_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8085")
	t.Setenv("AI_CLIENT_TYPE", "ollama")
	t.Setenv("AI_TIMEOUT", "5s")
	t.Setenv("GOOGLE_API_KEY", "google-key")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, ,http://b.test")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8085", cfg.Port)
	assert.Equal(t, config.AIClientOllama, cfg.AIClientType)
	assert.Equal(t, 5*time.Second, cfg.AITimeout)
	assert.Equal(t, "google-key", cfg.AIAPIKey)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.GetAllowedOrigins())
}

func TestLoadConfig_APIKeyPrecedence(t *testing.T) {
	clearEnv(t)
	require.NoError(t, os.WriteFile(filepath.Join(utils.SecretsDir, "gemini_api_key"), []byte("from-secret\n"), 0o600))

	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "from-secret", cfg.AIAPIKey)

	t.Setenv("GEMINI_API_KEY", "from-env")
	cfg, err = config.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.AIAPIKey)
}

func TestConfig_Validate(t *testing.T) {
	valid := config.Config{Port: "3000", AIClientType: "openai", AIModel: "m", AITimeout: time.Second}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(c *config.Config)
		errMsg string
	}{
		{"non numeric port", func(c *config.Config) { c.Port = "http" }, "invalid PORT"},
		{"port out of range", func(c *config.Config) { c.Port = "70000" }, "invalid PORT"},
		{"unknown client", func(c *config.Config) { c.AIClientType = "bard" }, "unknown AI_CLIENT_TYPE"},
		{"zero timeout", func(c *config.Config) { c.AITimeout = 0 }, "AI_TIMEOUT must be positive"},
		{"blank model", func(c *config.Config) { c.AIModel = " " }, "AI_MODEL must not be empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.errMsg)
		})
	}
}

func TestLoadConfig_InvalidDuration(t *testing.T) {
	clearEnv(t)
	t.Setenv("AI_TIMEOUT", "soon")

	_, err := config.LoadConfig()
	assert.Error(t, err)
}
