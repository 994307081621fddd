// Package health provides a simple HTTP health check endpoint.
//
// Docker and Kubernetes use this endpoint to monitor the daemon's
// liveness. When the daemon is running and ready to accept requests,
// /healthz returns 200 OK along with the configured backend set.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"
)

// Prober reports whether an external collaborator (the remote delegate)
// is reachable. A nil Prober means the collaborator is not configured.
type Prober interface {
	Healthy(ctx context.Context) error
}

// Server is a lightweight HTTP server that exposes /healthz and /readyz.
type Server struct {
	port     int
	backends []string
	delegate Prober
	ready    atomic.Bool
	server   *http.Server
}

// New creates a new health check server reporting the given backend set.
func New(port int, backends []string, delegate Prober) *Server {
	return &Server{port: port, backends: backends, delegate: delegate}
}

// SetReady marks the daemon as ready to accept traffic.
func (s *Server) SetReady(ready bool) {
	s.ready.Store(ready)
}

func (s *Server) status(r *http.Request) (int, map[string]any) {
	if !s.ready.Load() {
		return http.StatusServiceUnavailable, map[string]any{"status": "not_ready"}
	}

	payload := map[string]any{
		"status":   "ok",
		"backends": s.backends,
	}
	if s.delegate != nil {
		probeCtx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.delegate.Healthy(probeCtx); err != nil {
			payload["delegate"] = "unreachable"
		} else {
			payload["delegate"] = "ok"
		}
	}
	return http.StatusOK, payload
}

// ListenAndServe starts the health check HTTP server.
// It blocks until the context is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	mux := http.NewServeMux()

	handle := func(w http.ResponseWriter, r *http.Request) {
		status, payload := s.status(r)
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(payload)
	}
	mux.HandleFunc("GET /healthz", handle)
	mux.HandleFunc("GET /readyz", handle)

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	slog.Info("health server listening", "port", s.port)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	if err := s.server.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("health server: %w", err)
	}
	return nil
}
