// Voicesmith is a voice synthesis dispatch daemon. It accepts text plus
// voice parameters and routes each request to one synthesis strategy: a
// local multi-voice engine, a multilingual engine for non-English text, a
// cloning approximation built from an uploaded sample, or a remote
// delegate service. It also stores uploaded voice samples for cloning use.
//
// Usage:
//
//	voicesmith [flags]
//	voicesmith --config /path/to/voicesmith.yaml
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/nadzzz/voicesmith/internal/config"
	"github.com/nadzzz/voicesmith/internal/engine"
	"github.com/nadzzz/voicesmith/internal/health"
	"github.com/nadzzz/voicesmith/internal/samples"
	"github.com/nadzzz/voicesmith/internal/synth"
	"github.com/nadzzz/voicesmith/internal/synth/delegate"
	"github.com/nadzzz/voicesmith/internal/synth/gtranslate"
	"github.com/nadzzz/voicesmith/internal/synth/local"
	"github.com/nadzzz/voicesmith/internal/transport"
	grpctransport "github.com/nadzzz/voicesmith/internal/transport/grpc"
	httptransport "github.com/nadzzz/voicesmith/internal/transport/http"
	"github.com/nadzzz/voicesmith/internal/voice"
)

// version is set at build time via ldflags.
var version = "dev"

// service adapts the engine and the sample store to the transport contract.
// Synthesis goes through the dispatch engine; upload and listing hit the
// store directly.
type service struct {
	engine *engine.Engine
	store  *samples.Store
}

func (s *service) Synthesize(ctx context.Context, req *voice.SynthesisRequest) (*voice.SynthesisResult, error) {
	return s.engine.Synthesize(ctx, req)
}

func (s *service) SaveSample(raw []byte, originalName string) (*voice.Sample, error) {
	return s.store.Save(raw, originalName)
}

func (s *service) ListSamples() ([]*voice.Sample, error) {
	return s.store.List()
}

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configFile := flag.String("config", "", "path to config file (e.g. configs/voicesmith.local.yaml)")
	flag.Parse()

	if *showVersion {
		fmt.Printf("voicesmith %s\n", version)
		os.Exit(0)
	}

	// Load configuration.
	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging.
	config.SetupLogging(cfg.Logging)
	slog.Info("voicesmith starting", "version", version)

	// Create root context with signal handling for graceful shutdown.
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize the synthesis backends.
	localBackend, err := local.New(cfg.Synth.Local)
	if err != nil {
		slog.Error("failed to initialize local backend", "error", err)
		os.Exit(1)
	}
	defer localBackend.Close()

	multilingualBackend, err := gtranslate.New(cfg.Synth.Multilingual)
	if err != nil {
		slog.Error("failed to initialize multilingual backend", "error", err)
		os.Exit(1)
	}
	defer multilingualBackend.Close()

	backendNames := []string{localBackend.Name(), multilingualBackend.Name()}

	var delegateBackend *delegate.Backend
	var delegateSynth synth.Backend
	if cfg.Synth.Delegate.Enabled {
		delegateBackend = delegate.New(cfg.Synth.Delegate)
		delegateSynth = delegateBackend
		backendNames = append(backendNames, delegateBackend.Name())
		slog.Info("using remote delegate", "endpoint", cfg.Synth.Delegate.Endpoint)
		defer delegateBackend.Close()
	}

	// Sample store and dispatch engine.
	store := samples.New(cfg.Samples.Root)
	eng := engine.New(localBackend, multilingualBackend, delegateSynth, store)
	svc := &service{engine: eng, store: store}

	// Initialize enabled transports.
	var transports []transport.Transport

	if cfg.Transports.HTTP.Enabled {
		transports = append(transports, httptransport.New(cfg.Transports.HTTP.Port))
	}
	if cfg.Transports.GRPC.Enabled {
		transports = append(transports, grpctransport.New(cfg.Transports.GRPC.Port))
	}

	if len(transports) == 0 {
		slog.Error("no transports enabled — enable at least one in config")
		os.Exit(1)
	}

	// Start health check server.
	var prober health.Prober
	if delegateBackend != nil {
		prober = delegateBackend
	}
	healthServer := health.New(cfg.Server.HealthPort, backendNames, prober)
	go func() {
		if err := healthServer.ListenAndServe(ctx); err != nil {
			slog.Error("health server failed", "error", err)
		}
	}()

	// Start all transports.
	var wg sync.WaitGroup
	for _, t := range transports {
		wg.Add(1)
		go func(t transport.Transport) {
			defer wg.Done()
			slog.Info("starting transport", "name", t.Name())
			if err := t.Listen(ctx, svc); err != nil {
				slog.Error("transport failed", "name", t.Name(), "error", err)
			}
		}(t)
	}

	// Mark as ready once all transports are started.
	healthServer.SetReady(true)
	slog.Info("voicesmith ready",
		"transports", len(transports),
		"backends", backendNames,
		"health_port", cfg.Server.HealthPort)

	// Block until shutdown signal.
	<-ctx.Done()
	slog.Info("shutdown signal received, draining...")

	// Close all transports gracefully.
	for _, t := range transports {
		if err := t.Close(); err != nil {
			slog.Error("transport close error", "name", t.Name(), "error", err)
		}
	}

	wg.Wait()
	slog.Info("voicesmith stopped")
}
