package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir switches to dir for the duration of the test and restores the
// original working directory afterwards (t.Chdir needs Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestLoadDefaults(t *testing.T) {
	// Run from a scratch dir so a stray voicesmith.yaml cannot interfere.
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Server.HealthPort)
	assert.True(t, cfg.Transports.HTTP.Enabled)
	assert.Equal(t, 8080, cfg.Transports.HTTP.Port)
	assert.False(t, cfg.Transports.GRPC.Enabled)
	assert.Equal(t, 50051, cfg.Transports.GRPC.Port)
	assert.Equal(t, "auto", cfg.Synth.Local.Engine)
	assert.Equal(t, "gtts-cli", cfg.Synth.Multilingual.Command)
	assert.Equal(t, 50, cfg.Synth.Multilingual.RequestsPerMinute)
	assert.False(t, cfg.Synth.Delegate.Enabled)
	assert.Equal(t, "http://localhost:5000", cfg.Synth.Delegate.Endpoint)
	assert.Equal(t, "uploads/voices", cfg.Samples.Root)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "voicesmith.yaml")
	content := `
transports:
  http:
    port: 9090
  grpc:
    enabled: true
synth:
  delegate:
    enabled: true
    endpoint: http://tts-worker:5000
samples:
  root: /var/lib/voicesmith/samples
logging:
  format: text
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Transports.HTTP.Port)
	assert.True(t, cfg.Transports.GRPC.Enabled)
	assert.True(t, cfg.Synth.Delegate.Enabled)
	assert.Equal(t, "http://tts-worker:5000", cfg.Synth.Delegate.Endpoint)
	assert.Equal(t, "/var/lib/voicesmith/samples", cfg.Samples.Root)
	assert.Equal(t, "text", cfg.Logging.Format)

	// Untouched keys keep their defaults.
	assert.Equal(t, 8081, cfg.Server.HealthPort)
	assert.Equal(t, "auto", cfg.Synth.Local.Engine)
}

func TestLoadEnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("VOICESMITH_TRANSPORTS_HTTP_PORT", "7070")
	t.Setenv("VOICESMITH_SYNTH_DELEGATE_ENDPOINT", "http://delegate:5000")
	t.Setenv("VOICESMITH_LOGGING_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Transports.HTTP.Port)
	assert.Equal(t, "http://delegate:5000", cfg.Synth.Delegate.Endpoint)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "voicesmith.yaml")
	require.NoError(t, os.WriteFile(path, []byte("transports: [not: a: map"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
