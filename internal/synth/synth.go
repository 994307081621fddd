// Package synth defines the capability interface shared by all synthesis
// backends.
//
// A backend turns text plus resolved parameters into a complete audio
// buffer. The engine picks exactly one backend per request; backends never
// call each other. All implementations are safe for concurrent use —
// every render computes its own temporary output path, so in-flight
// requests cannot collide.
package synth

import (
	"context"

	"github.com/nadzzz/voicesmith/internal/voice"
)

// RenderRequest carries the resolved parameters for one render call.
// Text and Speed arrive already style-transformed on the paths where the
// engine applies styling; the delegate receives them untouched.
type RenderRequest struct {
	Text     string
	Language string
	Voice    voice.Descriptor
	Speed    float64

	// Style and SampleID are only meaningful to the delegate, which owns
	// its own style handling and cloning logic.
	Style    voice.Style
	SampleID string
}

// Backend renders text to an audio buffer.
type Backend interface {
	// Name returns the backend identifier used to annotate failures.
	Name() string

	// Render synthesizes the request into a complete audio buffer.
	// It may take non-trivial wall-clock time; cancellation flows in
	// through ctx. Temporary artifacts are cleaned up on every path.
	Render(ctx context.Context, req RenderRequest) ([]byte, error)

	// Close releases any resources held by the backend.
	Close() error
}
