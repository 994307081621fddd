// Package local implements the multi-voice Backend on top of the speech
// engine shipped with the operating system.
//
// Engine selection is platform-conditional: SAPI (via PowerShell) on
// windows, the say command on darwin, eSpeak/eSpeak-NG elsewhere. The
// mapping from a voice descriptor to a concrete engine voice identity is
// internal to this package — the dispatch engine only ever sees the
// descriptor.
package local

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/nadzzz/voicesmith/internal/config"
	"github.com/nadzzz/voicesmith/internal/synth"
	"github.com/nadzzz/voicesmith/internal/voice"
)

// baseWordsPerMinute is the eSpeak/say default speaking rate that a speed
// multiplier of 1.0 maps onto.
const baseWordsPerMinute = 175

type engineKind string

const (
	engineESpeak engineKind = "espeak"
	engineSay    engineKind = "say"
	engineSAPI   engineKind = "sapi"
)

// Per-engine descriptor -> voice identity tables. Elderly descriptors reuse
// the adult identities; the age effect comes from the slower base rate.
var espeakVoices = map[voice.Descriptor]string{
	voice.VoiceMale:          "en+m3",
	voice.VoiceFemale:        "en+f3",
	voice.VoiceBabyBoy:       "en+m1",
	voice.VoiceBabyGirl:      "en+f5",
	voice.VoiceElderlyMale:   "en+m3",
	voice.VoiceElderlyFemale: "en+f3",
}

var sayVoices = map[voice.Descriptor]string{
	voice.VoiceMale:          "Daniel",
	voice.VoiceFemale:        "Samantha",
	voice.VoiceBabyBoy:       "Junior",
	voice.VoiceBabyGirl:      "Princess",
	voice.VoiceElderlyMale:   "Fred",
	voice.VoiceElderlyFemale: "Kathy",
}

var sapiVoices = map[voice.Descriptor]string{
	voice.VoiceMale:          "Microsoft David Desktop",
	voice.VoiceFemale:        "Microsoft Zira Desktop",
	voice.VoiceBabyBoy:       "Microsoft Zira Desktop",
	voice.VoiceBabyGirl:      "Microsoft Zira Desktop",
	voice.VoiceElderlyMale:   "Microsoft David Desktop",
	voice.VoiceElderlyFemale: "Microsoft Zira Desktop",
}

// Backend renders text through the platform speech engine.
type Backend struct {
	kind    engineKind
	binary  string
	tempDir string
	voices  map[voice.Descriptor]string
}

// New creates a local backend from config. With engine "auto" it picks the
// best engine for the current platform and verifies the binary is present.
func New(cfg config.LocalConfig) (*Backend, error) {
	kind := engineKind(cfg.Engine)
	if cfg.Engine == "" || cfg.Engine == "auto" {
		kind = bestEngineForPlatform()
	}

	binary, voices, err := resolveEngine(kind)
	if err != nil {
		return nil, err
	}

	// Caller overrides win over the built-in table.
	for k, v := range cfg.Voices {
		voices[voice.Descriptor(k)] = v
	}

	tempDir := cfg.TempDir
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	if err := os.MkdirAll(tempDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating temp dir: %w", err)
	}

	return &Backend{kind: kind, binary: binary, tempDir: tempDir, voices: voices}, nil
}

func bestEngineForPlatform() engineKind {
	switch runtime.GOOS {
	case "windows":
		return engineSAPI
	case "darwin":
		return engineSay
	default:
		return engineESpeak
	}
}

func resolveEngine(kind engineKind) (string, map[voice.Descriptor]string, error) {
	switch kind {
	case engineESpeak:
		for _, candidate := range []string{"espeak-ng", "espeak"} {
			if path, err := exec.LookPath(candidate); err == nil {
				return path, cloneVoices(espeakVoices), nil
			}
		}
		return "", nil, fmt.Errorf("eSpeak executable not found in PATH")
	case engineSay:
		path, err := exec.LookPath("say")
		if err != nil {
			return "", nil, fmt.Errorf("say not found: %w", err)
		}
		return path, cloneVoices(sayVoices), nil
	case engineSAPI:
		path, err := exec.LookPath("powershell")
		if err != nil {
			return "", nil, fmt.Errorf("powershell not found: %w", err)
		}
		return path, cloneVoices(sapiVoices), nil
	default:
		return "", nil, fmt.Errorf("unsupported local engine %q", kind)
	}
}

func cloneVoices(m map[voice.Descriptor]string) map[voice.Descriptor]string {
	out := make(map[voice.Descriptor]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Name returns the backend identifier.
func (b *Backend) Name() string { return "local" }

// Render synthesizes the request into a per-request temp WAV, reads it
// back, and removes the artifact on both the success and failure path.
func (b *Backend) Render(ctx context.Context, req synth.RenderRequest) ([]byte, error) {
	if req.Text == "" {
		return nil, voice.BackendError(voice.ErrSynthesis, b.Name(), fmt.Errorf("empty text"))
	}

	out := filepath.Join(b.tempDir, "tts_"+uuid.NewString()+".wav")
	defer os.Remove(out)

	cmd := b.command(ctx, req, out)
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

func (b *Backend) command(ctx context.Context, req synth.RenderRequest, out string) *exec.Cmd {
	voiceName := b.voices[req.Voice]
	speed := req.Speed
	if speed <= 0 {
		speed = 1.0
	}

	switch b.kind {
	case engineSay:
		return exec.CommandContext(ctx, b.binary,
			"-v", voiceName,
			"-r", strconv.Itoa(int(baseWordsPerMinute*speed)),
			"-o", out,
			"--data-format=LEI16@22050",
			req.Text)
	case engineSAPI:
		// SAPI rates run -10..10 with 0 as normal.
		rate := int(speed*10) - 10
		script := fmt.Sprintf(
			`Add-Type -AssemblyName System.Speech; `+
				`$synth = New-Object System.Speech.Synthesis.SpeechSynthesizer; `+
				`$synth.SelectVoice('%s'); `+
				`$synth.Rate = %d; `+
				`$synth.SetOutputToWaveFile('%s'); `+
				`$synth.Speak('%s'); `+
				`$synth.Dispose()`,
			psQuote(voiceName), rate, psQuote(out), psQuote(req.Text))
		return exec.CommandContext(ctx, b.binary, "-Command", script)
	default: // eSpeak
		return exec.CommandContext(ctx, b.binary,
			"-v", voiceName,
			"-s", strconv.Itoa(int(baseWordsPerMinute*speed)),
			"-w", out,
			req.Text)
	}
}

// psQuote escapes a value for a single-quoted PowerShell string.
func psQuote(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// Close is a no-op — the engine process is per-request.
func (b *Backend) Close() error { return nil }
