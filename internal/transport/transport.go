// Package transport defines the interface for pluggable service transports.
//
// Each transport (HTTP, gRPC) exposes the same three inbound operations and
// registers itself with main. The engine doesn't care how requests arrive —
// transports only ever talk to the Service contract.
package transport

import (
	"context"

	"github.com/nadzzz/voicesmith/internal/voice"
)

// Service is the inbound surface a transport exposes: synthesis through the
// dispatch engine, plus the two sample-store operations that bypass it.
type Service interface {
	// Synthesize routes one request through the dispatch engine.
	Synthesize(ctx context.Context, req *voice.SynthesisRequest) (*voice.SynthesisResult, error)

	// SaveSample persists an uploaded audio sample for later cloning use.
	SaveSample(raw []byte, originalName string) (*voice.Sample, error)

	// ListSamples enumerates the stored voice samples.
	ListSamples() ([]*voice.Sample, error)
}

// Transport is the interface that every transport adapter must implement.
type Transport interface {
	// Name returns the transport identifier (e.g., "http", "grpc").
	Name() string

	// Listen starts accepting requests and serves them from svc.
	// It blocks until the context is cancelled.
	Listen(ctx context.Context, svc Service) error

	// Close gracefully shuts down the transport, draining in-flight work.
	Close() error
}
