// Package delegate implements the Backend that forwards synthesis to a
// sibling service over HTTP.
//
// The delegate owns all text and speed transformation itself, so requests
// are forwarded verbatim and the audio response comes back unchanged.
// Failures here are upstream failures — a distinct kind from local
// synthesis errors, so callers can tell whose synthesis broke.
package delegate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/nadzzz/voicesmith/internal/config"
	"github.com/nadzzz/voicesmith/internal/synth"
	"github.com/nadzzz/voicesmith/internal/voice"
)

// generatePayload is the delegate's synthesis request wire format.
type generatePayload struct {
	Text     string `json:"text"`
	Language string `json:"language"`
	Style    string `json:"voice_style,omitempty"`
	SampleID string `json:"voice_id,omitempty"`
}

// Backend forwards synthesis requests to a configured remote endpoint.
type Backend struct {
	endpoint string
	client   *http.Client
}

// New creates a delegate backend from config.
func New(cfg config.DelegateConfig) *Backend {
	client := &http.Client{}
	if cfg.TimeoutSeconds > 0 {
		client.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	return &Backend{
		endpoint: strings.TrimSuffix(cfg.Endpoint, "/"),
		client:   client,
	}
}

// Name returns the backend identifier.
func (b *Backend) Name() string { return "delegate" }

// Render forwards the full request to the delegate's /generate route and
// returns its audio response verbatim.
func (b *Backend) Render(ctx context.Context, req synth.RenderRequest) ([]byte, error) {
	payload, err := json.Marshal(generatePayload{
		Text:     req.Text,
		Language: req.Language,
		Style:    string(req.Style),
		SampleID: req.SampleID,
	})
	if err != nil {
		return nil, voice.BackendError(voice.ErrUpstream, b.Name(), fmt.Errorf("encoding request: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		b.endpoint+"/generate", bytes.NewReader(payload))
	if err != nil {
		return nil, voice.BackendError(voice.ErrUpstream, b.Name(), fmt.Errorf("creating request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")

	slog.Debug("delegate request", "endpoint", b.endpoint, "text_length", len(req.Text), "language", req.Language)

	resp, err := b.client.Do(httpReq)
	if err != nil {
		return nil, voice.BackendError(voice.ErrUpstream, b.Name(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, voice.BackendError(voice.ErrUpstream, b.Name(),
			fmt.Errorf("status %d: %s", resp.StatusCode, body))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, voice.BackendError(voice.ErrUpstream, b.Name(), fmt.Errorf("reading response: %w", err))
	}
	if len(audio) == 0 {
		return nil, voice.BackendError(voice.ErrUpstream, b.Name(), fmt.Errorf("empty audio response"))
	}
	return audio, nil
}

// Healthy probes the delegate's health route. Used by the readiness
// endpoint, never by the dispatch path.
func (b *Backend) Healthy(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.endpoint+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := b.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("delegate health status %d", resp.StatusCode)
	}
	return nil
}

// Close is a no-op — the HTTP client needs no explicit cleanup.
func (b *Backend) Close() error { return nil }
