package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFromFile_Defaults(t *testing.T) {
	path := writeConfig(t, "app:\n  name: luuno-orchestrator\n")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, DefaultOllamaURL, cfg.Backend.OllamaURL)
	assert.Empty(t, cfg.Backend.BridgeURL)
	assert.Equal(t, 2, cfg.Backend.MaxCandidates)
	assert.Equal(t, 4, cfg.Backend.MaxConcurrent)
	assert.Equal(t, DefaultPreferredModels, cfg.Backend.PreferredModels)
	assert.Equal(t, "llama2:7b", cfg.Backend.FallbackModel)
	assert.Equal(t, DefaultBannedPhrases, cfg.Backend.BannedPhrases)
	assert.Equal(t, "LUUNO", cfg.Backend.IdentityMarker)
	assert.Equal(t, 100, cfg.Backend.MinContextLength)
	assert.Equal(t, 0.8, cfg.Backend.Options.Temperature)
	assert.Equal(t, 0.9, cfg.Backend.Options.TopP)
	assert.Equal(t, 40, cfg.Backend.Options.TopK)
	assert.Equal(t, 1000, cfg.Backend.Options.NumPredict)
	assert.Equal(t, 30*time.Second, cfg.Status.RefreshIntervalDuration())
	assert.Equal(t, cfg.Backend.CheckTimeout, cfg.Status.Timeout)
	assert.False(t, cfg.Cache.Redis.Enabled)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "luuno-orchestrator", cfg.Metrics.ServiceName)
}

func TestLoadFromFile_Values(t *testing.T) {
	path := writeConfig(t, `
backend:
  ollama_url: http://ollama:11434/
  bridge_url: http://bridge:3001
  max_candidates: 3
  preferred_models: [mistral, llama3]
  banned_phrases: ["as an ai"]
  options:
    temperature: 0.2
status:
  refresh_interval: 5000
cache:
  redis:
    enabled: true
    address: localhost:6379
    ttl: 2000
recommendation:
  registry_path: ./configs/templates.json
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "http://ollama:11434", cfg.Backend.OllamaURL)
	assert.Equal(t, "http://bridge:3001", cfg.Backend.BridgeURL)
	assert.Equal(t, 3, cfg.Backend.MaxCandidates)
	assert.Equal(t, []string{"mistral", "llama3"}, cfg.Backend.PreferredModels)
	assert.Equal(t, []string{"as an ai"}, cfg.Backend.BannedPhrases)
	assert.Equal(t, 0.2, cfg.Backend.Options.Temperature)
	assert.Equal(t, 5*time.Second, cfg.Status.RefreshIntervalDuration())
	assert.True(t, cfg.Cache.Redis.Enabled)
	assert.Equal(t, 2000, cfg.Cache.Redis.TTL)
	assert.Equal(t, "./configs/templates.json", cfg.Recommendation.RegistryPath)
}

func TestLoadFromFile_EnvOverride(t *testing.T) {
	t.Setenv("BACKEND_MAX_CANDIDATES", "5")
	t.Setenv("LOGGING_LEVEL", "debug")
	t.Setenv("OLLAMA_HOST_FOR_TEST", "http://gpu-box:11434")

	path := writeConfig(t, "backend:\n  ollama_url: ${OLLAMA_HOST_FOR_TEST}\n")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Backend.MaxCandidates)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "http://gpu-box:11434", cfg.Backend.OllamaURL)
}

func TestLoadFromFile_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{
			name:    "negative candidate cap",
			content: "backend:\n  max_candidates: -1\n",
			errMsg:  "backend.max_candidates",
		},
		{
			name:    "bad ollama url",
			content: "backend:\n  ollama_url: not-a-url\n",
			errMsg:  "backend.ollama_url",
		},
		{
			name:    "refresh too fast",
			content: "status:\n  refresh_interval: 10\n",
			errMsg:  "status.refresh_interval",
		},
		{
			name:    "redis enabled without address",
			content: "cache:\n  redis:\n    enabled: true\n",
			errMsg:  "cache.redis.address",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoadFromFile_Missing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, 1500*time.Millisecond, GetDuration(1500))
	assert.Equal(t, time.Duration(0), GetDuration(0))
}
