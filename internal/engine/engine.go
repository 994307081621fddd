// Package engine implements the voice synthesis dispatch engine.
//
// The engine receives a synthesis request from a transport, selects exactly
// one backend strategy, applies the style transform where it applies, and
// normalizes the heterogeneous failure modes of the backends into one
// typed result/error contract. Requests are one-shot: nothing persists
// between calls and in-flight requests share no mutable state.
//
// Selection runs in strict priority order: a referenced voice sample takes
// the cloning path, a non-English language takes the multilingual backend,
// everything else takes the local multi-voice backend. When a remote
// delegate is configured it absorbs the non-cloning traffic wholesale.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nadzzz/voicesmith/internal/style"
	"github.com/nadzzz/voicesmith/internal/synth"
	"github.com/nadzzz/voicesmith/internal/voice"
)

// mimeWAV is the content type of every synthesis result.
const mimeWAV = "audio/wav"

// previewLength is how much of the transformed text the result echoes back.
const previewLength = 50

// SampleResolver is the slice of the sample store the engine needs:
// metadata reads by id, never writes.
type SampleResolver interface {
	Load(sampleID string) (*voice.Sample, error)
}

// Engine routes synthesis requests to backends.
type Engine struct {
	local        synth.Backend
	multilingual synth.Backend
	delegate     synth.Backend // nil unless a delegate is configured
	samples      SampleResolver
}

// New creates an Engine. delegate may be nil; local, multilingual and
// samples must not be.
func New(local, multilingual, delegate synth.Backend, samples SampleResolver) *Engine {
	return &Engine{
		local:        local,
		multilingual: multilingual,
		delegate:     delegate,
		samples:      samples,
	}
}

// Synthesize processes one request end to end. On failure it returns a
// single error wrapping one of the voice sentinel kinds, annotated with
// the failing backend's identity; it never retries.
func (e *Engine) Synthesize(ctx context.Context, req *voice.SynthesisRequest) (*voice.SynthesisResult, error) {
	if req == nil || req.Text == "" {
		return nil, fmt.Errorf("%w: text is required", voice.ErrValidation)
	}

	start := time.Now()
	lang := req.EffectiveLanguage()
	descriptor := voice.NormalizeDescriptor(req.Voice)
	st := voice.NormalizeStyle(req.Style)

	logger := slog.With("language", lang, "voice", descriptor, "style", st)

	var (
		result *voice.SynthesisResult
		err    error
	)
	switch {
	case req.WantsCloning():
		result, err = e.synthesizeCloned(ctx, req, st, logger)
	case e.delegate != nil:
		result, err = e.synthesizeDelegated(ctx, req, lang, descriptor, st, logger)
	case lang != "en":
		result, err = e.synthesizeMultilingual(ctx, req, lang, descriptor, logger)
	default:
		result, err = e.synthesizeLocal(ctx, req, descriptor, st, logger)
	}
	if err != nil {
		return nil, err
	}

	logger.Info("synthesis complete", "duration", time.Since(start), "audio_bytes", len(result.Audio))
	return result, nil
}

// synthesizeCloned replays a neutral voice styled per the request and tags
// the result as derived from the uploaded sample. No acoustic model is
// trained — the sample only contributes its identity.
func (e *Engine) synthesizeCloned(ctx context.Context, req *voice.SynthesisRequest, st voice.Style, logger *slog.Logger) (*voice.SynthesisResult, error) {
	sample, err := e.samples.Load(req.SampleID)
	if err != nil {
		// No backend is invoked for an unknown sample.
		return nil, err
	}

	text := style.Rewrite(req.Text, st)
	speed := style.SpeedFor(1.0, st)

	logger.Debug("cloning path selected", "sample_id", sample.SampleID, "speed", speed)

	audio, err := e.local.Render(ctx, synth.RenderRequest{
		Text:     text,
		Language: "en",
		Voice:    voice.VoiceFemale, // neutral cloning base
		Speed:    speed,
	})
	if err != nil {
		logger.Error("cloning synthesis failed", "sample_id", sample.SampleID, "error", err)
		return nil, err
	}

	return &voice.SynthesisResult{
		Audio:       audio,
		ContentType: mimeWAV,
		Message:     fmt.Sprintf("Voice cloned from %s (%s style)", sample.DisplayName(), st),
		TextPreview: voice.TruncateText(text, previewLength),
		Language:    "en",
		Style:       string(st),
		Speed:       speed,
		Cloned:      true,
	}, nil
}

// synthesizeDelegated forwards the request verbatim — the delegate owns
// all text and speed transformation.
func (e *Engine) synthesizeDelegated(ctx context.Context, req *voice.SynthesisRequest, lang string, descriptor voice.Descriptor, st voice.Style, logger *slog.Logger) (*voice.SynthesisResult, error) {
	logger.Debug("delegate path selected")

	audio, err := e.delegate.Render(ctx, synth.RenderRequest{
		Text:     req.Text,
		Language: lang,
		Voice:    descriptor,
		Style:    st,
		SampleID: req.SampleID,
	})
	if err != nil {
		logger.Error("delegated synthesis failed", "error", err)
		return nil, err
	}

	return &voice.SynthesisResult{
		Audio:       audio,
		ContentType: mimeWAV,
		Message:     fmt.Sprintf("Voice generated with %s voice in %s", descriptor, lang),
		TextPreview: voice.TruncateText(req.Text, previewLength),
		Language:    lang,
		Voice:       string(descriptor),
		Style:       string(st),
	}, nil
}

// synthesizeMultilingual handles non-English text. The multilingual engine
// has no style or voice parameters, so the text goes through untransformed.
func (e *Engine) synthesizeMultilingual(ctx context.Context, req *voice.SynthesisRequest, lang string, descriptor voice.Descriptor, logger *slog.Logger) (*voice.SynthesisResult, error) {
	logger.Debug("multilingual path selected")

	audio, err := e.multilingual.Render(ctx, synth.RenderRequest{
		Text:     req.Text,
		Language: lang,
		Voice:    descriptor,
	})
	if err != nil {
		logger.Error("multilingual synthesis failed", "error", err)
		return nil, err
	}

	return &voice.SynthesisResult{
		Audio:       audio,
		ContentType: mimeWAV,
		Message:     fmt.Sprintf("Voice generated with %s voice in %s", descriptor, lang),
		TextPreview: voice.TruncateText(req.Text, previewLength),
		Language:    lang,
		Voice:       string(descriptor),
	}, nil
}

// synthesizeLocal handles English text on the local multi-voice engine:
// descriptor base speed first, style speed layered on top, styled text.
func (e *Engine) synthesizeLocal(ctx context.Context, req *voice.SynthesisRequest, descriptor voice.Descriptor, st voice.Style, logger *slog.Logger) (*voice.SynthesisResult, error) {
	text := style.Rewrite(req.Text, st)
	speed := style.SpeedFor(style.BaseSpeed(descriptor), st)

	logger.Debug("local path selected", "speed", speed)

	audio, err := e.local.Render(ctx, synth.RenderRequest{
		Text:     text,
		Language: "en",
		Voice:    descriptor,
		Speed:    speed,
	})
	if err != nil {
		logger.Error("local synthesis failed", "error", err)
		return nil, err
	}

	return &voice.SynthesisResult{
		Audio:       audio,
		ContentType: mimeWAV,
		Message:     fmt.Sprintf("Voice generated with %s voice (%s style)", descriptor, st),
		TextPreview: voice.TruncateText(text, previewLength),
		Language:    "en",
		Voice:       string(descriptor),
		Style:       string(st),
		Speed:       speed,
	}, nil
}
