package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 60*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 180*time.Second, cfg.WriteTimeout)
	assert.Equal(t, 15, cfg.MaxUploadMB)
	assert.Equal(t, "crewlog", cfg.MongoDB)
	assert.Equal(t, "gpt-4o-mini", cfg.VisionModel)
	assert.Equal(t, 120*time.Second, cfg.ExtractTimeout)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("MAX_UPLOAD_MB", "25")
	t.Setenv("VISION_MODEL", "gpt-4o")
	t.Setenv("VISION_TEMPERATURE", "0.2")
	t.Setenv("EXTRACT_TIMEOUT", "30")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 25, cfg.MaxUploadMB)
	assert.Equal(t, "gpt-4o", cfg.VisionModel)
	assert.InDelta(t, 0.2, cfg.VisionTemperature, 0.0001)
	assert.Equal(t, 30*time.Second, cfg.ExtractTimeout)
}

func TestGetEnvAsIntIgnoresGarbage(t *testing.T) {
	t.Setenv("MAX_UPLOAD_MB", "lots")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 15, cfg.MaxUploadMB)
}
