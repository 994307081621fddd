// Package gtranslate implements the multilingual Backend on top of the
// gtts-cli tool (Google Translate's speech endpoint).
//
// The dispatch engine selects this backend whenever the requested language
// is not English — the local engines only carry English voices. Calls are
// rate-limited because the upstream endpoint blocks chatty clients.
package gtranslate

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/nadzzz/voicesmith/internal/config"
	"github.com/nadzzz/voicesmith/internal/synth"
	"github.com/nadzzz/voicesmith/internal/voice"
)

// maxTextLength is the upstream limit on a single synthesis call.
const maxTextLength = 5000

// Backend renders non-English text through gtts-cli.
type Backend struct {
	command string
	tempDir string
	limiter *rate.Limiter
}

// New creates a multilingual backend from config.
func New(cfg config.GTranslateConfig) (*Backend, error) {
	command := cfg.Command
	if command == "" {
		command = "gtts-cli"
	}

	tempDir := cfg.TempDir
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	if err := os.MkdirAll(tempDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating temp dir: %w", err)
	}

	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 50
	}

	return &Backend{
		command: command,
		tempDir: tempDir,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), 1),
	}, nil
}

// Name returns the backend identifier.
func (b *Backend) Name() string { return "multilingual" }

// Render synthesizes the request via gtts-cli into a per-request temp
// file, reads it back, and removes the artifact on every path.
func (b *Backend) Render(ctx context.Context, req synth.RenderRequest) ([]byte, error) {
	if req.Text == "" {
		return nil, voice.BackendError(voice.ErrSynthesis, b.Name(), fmt.Errorf("empty text"))
	}
	if len(req.Text) > maxTextLength {
		return nil, voice.BackendError(voice.ErrSynthesis, b.Name(),
			fmt.Errorf("text too long: %d characters (max %d)", len(req.Text), maxTextLength))
	}

	if err := b.limiter.Wait(ctx); err != nil {
		return nil, voice.BackendError(voice.ErrSynthesis, b.Name(),
			fmt.Errorf("rate limit wait cancelled: %w", err))
	}

	out := filepath.Join(b.tempDir, "tts_"+uuid.NewString()+".wav")
	defer os.Remove(out)

	args := []string{req.Text, "-l", req.Language, "-o", out}
	if req.Speed > 0 && req.Speed < 0.8 {
		// gtts only knows normal and slow; anything under 0.8x counts as slow.
		args = append(args, "--slow")
	}

	cmd := exec.CommandContext(ctx, b.command, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			err = fmt.Errorf("%w: %s", err, msg)
		}
		return nil, voice.BackendError(voice.ErrSynthesis, b.Name(), err)
	}

	audio, err := os.ReadFile(out)
	if err != nil {
		return nil, voice.BackendError(voice.ErrSynthesis, b.Name(),
			fmt.Errorf("engine produced no readable output: %w", err))
	}
	if len(audio) == 0 {
		return nil, voice.BackendError(voice.ErrSynthesis, b.Name(),
			fmt.Errorf("engine produced empty output"))
	}
	return audio, nil
}

// Close is a no-op — gtts-cli runs per-request.
func (b *Backend) Close() error { return nil }
