package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/h0rv/prep/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "prep.log")

	logger, err := New(config.LogConfig{Level: "debug", File: path, Format: "json"})
	require.NoError(t, err)

	logger.Info("hello")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
	assert.Contains(t, string(data), "prep")
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(config.LogConfig{Level: "loud", File: filepath.Join(t.TempDir(), "x.log")})
	assert.Error(t, err)
}
