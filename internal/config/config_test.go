package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "release", cfg.Mode)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 64, cfg.SendBuffer)
	assert.Equal(t, 30*time.Minute, cfg.RoomIdleTTL)
	assert.Equal(t, time.Minute, cfg.ReapInterval)
	assert.Equal(t, 54*time.Second, cfg.PingPeriod)
	assert.Equal(t, 60*time.Second, cfg.PongWait)
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "config"), 0o755))
	yaml := []byte("mode: debug\nport: 9000\nroom_idle_ttl: 10m\nallowed_origins:\n  - http://a.example\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config", "config.test.yaml"), yaml, 0o644))
	t.Setenv("POINTING_SEND_BUFFER", "16")

	cfg, err := Load([]string{"--config-env", "test"})
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Mode)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, 10*time.Minute, cfg.RoomIdleTTL)
	assert.Equal(t, []string{"http://a.example"}, cfg.AllowedOrigins)
	assert.Equal(t, 16, cfg.SendBuffer)

	cfg, err = Load([]string{"--config-env", "test", "--port", "7000"})
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Port, "flag beats file")
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Setenv("POINTING_PONG_WAIT", "1s")
	_, err := Load(nil)
	assert.ErrorContains(t, err, "pong_wait")

	_, err = Load([]string{"--port", "-1"})
	assert.Error(t, err)

	_, err = Load([]string{"--bogus"})
	assert.Error(t, err)
}
