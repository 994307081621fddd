package gtranslate

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/nadzzz/voicesmith/internal/config"
	"github.com/nadzzz/voicesmith/internal/synth"
	"github.com/nadzzz/voicesmith/internal/voice"
)

func TestNewAppliesDefaults(t *testing.T) {
	b, err := New(config.GTranslateConfig{})
	require.NoError(t, err)

	assert.Equal(t, "gtts-cli", b.command)
	assert.NotEmpty(t, b.tempDir)
	assert.Equal(t, rate.Every(time.Minute/50), b.limiter.Limit())
}

func TestRenderRejectsEmptyText(t *testing.T) {
	b, err := New(config.GTranslateConfig{TempDir: t.TempDir()})
	require.NoError(t, err)

	_, err = b.Render(context.Background(), synth.RenderRequest{Language: "fr"})
	assert.ErrorIs(t, err, voice.ErrSynthesis)
	assert.Contains(t, err.Error(), "backend multilingual")
}

func TestRenderRejectsOversizedText(t *testing.T) {
	b, err := New(config.GTranslateConfig{TempDir: t.TempDir()})
	require.NoError(t, err)

	_, err = b.Render(context.Background(), synth.RenderRequest{
		Text:     strings.Repeat("a", maxTextLength+1),
		Language: "fr",
	})
	assert.ErrorIs(t, err, voice.ErrSynthesis)
	assert.Contains(t, err.Error(), "text too long")
}

func TestRenderHonoursContextCancellation(t *testing.T) {
	b, err := New(config.GTranslateConfig{TempDir: t.TempDir(), RequestsPerMinute: 1})
	require.NoError(t, err)

	// Burn the single burst token so the next call has to wait.
	require.NoError(t, b.limiter.Wait(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = b.Render(ctx, synth.RenderRequest{Text: "Bonjour", Language: "fr"})
	assert.ErrorIs(t, err, voice.ErrSynthesis)
	assert.Contains(t, err.Error(), "rate limit wait cancelled")
}
