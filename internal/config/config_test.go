package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PREP_CONFIG_PATH", "")
	t.Setenv("PREP_BASE_URL", "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", cfg.API.BaseURL)
	assert.Equal(t, "/api/v1", cfg.API.Root)
	assert.Equal(t, "/health", cfg.API.HealthPath)
	assert.Equal(t, 3*time.Second, cfg.UI.ToastTTL)
	assert.Equal(t, 5*time.Second, cfg.UI.HealthRetry)
	assert.Equal(t, "dashboard", cfg.UI.StartPage)
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prep.yaml")
	data := `
api:
  base_url: http://backend:9000
  get_retries: 4
ui:
  start_page: problems
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	t.Setenv("PREP_LOG_LEVEL", "warn")
	t.Setenv("PREP_BASE_URL", "")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://backend:9000", cfg.API.BaseURL)
	assert.Equal(t, 4, cfg.API.GetRetries)
	assert.Equal(t, "problems", cfg.UI.StartPage)
	// Env wins over file
	assert.Equal(t, "warn", cfg.Log.Level)
	// Untouched fields keep defaults
	assert.Equal(t, "/api/v1", cfg.API.Root)
}

func TestLoad_EnvBaseURL(t *testing.T) {
	t.Setenv("PREP_CONFIG_PATH", "")
	t.Setenv("PREP_BASE_URL", "https://prep.example.com")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "https://prep.example.com", cfg.API.BaseURL)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config file")
}

func TestValidate(t *testing.T) {
	t.Run("relative base url", func(t *testing.T) {
		cfg := Default()
		cfg.API.BaseURL = "/api"
		assert.Error(t, cfg.Validate())
	})

	t.Run("empty root", func(t *testing.T) {
		cfg := Default()
		cfg.API.Root = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("zero timeout", func(t *testing.T) {
		cfg := Default()
		cfg.API.RequestTimeout = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("zero retry backoff", func(t *testing.T) {
		cfg := Default()
		cfg.API.RetryBackoff = 0
		assert.ErrorContains(t, cfg.Validate(), "retry_backoff")
	})

	t.Run("negative breaker interval", func(t *testing.T) {
		cfg := Default()
		cfg.API.Breaker.Interval = -time.Second
		assert.ErrorContains(t, cfg.Validate(), "breaker")
	})

	t.Run("zero breaker timeout", func(t *testing.T) {
		cfg := Default()
		cfg.API.Breaker.Timeout = 0
		assert.ErrorContains(t, cfg.Validate(), "breaker")
	})

	t.Run("failure ratio out of range", func(t *testing.T) {
		for _, r := range []float64{0, -0.5, 1.5} {
			cfg := Default()
			cfg.API.Breaker.FailureRatio = r
			assert.ErrorContains(t, cfg.Validate(), "failure_ratio", "ratio %v", r)
		}
	})

	t.Run("defaults are valid", func(t *testing.T) {
		assert.NoError(t, Default().Validate())
	})
}
