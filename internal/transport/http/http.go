// Package http implements the HTTP transport for voicesmith.
//
// It exposes the REST API used by the dashboard: synthesis, voice sample
// upload, and sample listing. Typed engine failures map onto distinct
// status codes so clients can tell a bad request from a missing sample
// from a broken delegate.
package http

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/nadzzz/voicesmith/docs"
	"github.com/nadzzz/voicesmith/internal/transport"
	"github.com/nadzzz/voicesmith/internal/voice"
)

// maxUploadBytes caps voice sample uploads.
const maxUploadBytes = 25 << 20 // 25 MB

// Transport implements transport.Transport over HTTP.
type Transport struct {
	port   int
	server *http.Server
}

// New creates a new HTTP transport on the given port.
func New(port int) *Transport {
	return &Transport{port: port}
}

// Name returns the transport identifier.
func (t *Transport) Name() string { return "http" }

// Listen starts the HTTP server and routes incoming requests to the service.
func (t *Transport) Listen(ctx context.Context, svc transport.Service) error {
	mux := http.NewServeMux()

	// POST /api/voice — synthesize text into audio.
	mux.HandleFunc("POST /api/voice", func(w http.ResponseWriter, r *http.Request) {
		t.handleSynthesize(w, r, svc)
	})

	// POST /api/train-voice — upload a voice sample for later cloning.
	mux.HandleFunc("POST /api/train-voice", func(w http.ResponseWriter, r *http.Request) {
		t.handleUpload(w, r, svc)
	})

	// GET /api/voices — list uploaded voice samples.
	mux.HandleFunc("GET /api/voices", func(w http.ResponseWriter, r *http.Request) {
		t.handleList(w, r, svc)
	})

	// Swagger UI — serves the generated OpenAPI docs.
	mux.Handle("GET /swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	t.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", t.port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("http transport listening", "port", t.port)

	go func() {
		<-ctx.Done()
		slog.Info("http transport shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = t.server.Shutdown(shutdownCtx)
	}()

	if err := t.server.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("http listen: %w", err)
	}
	return nil
}

// synthesizeResponse is the JSON envelope for a synthesis result. The raw
// audio rides along base64-encoded; clients that prefer the bare WAV bytes
// send Accept: audio/wav instead.
type synthesizeResponse struct {
	Success bool `json:"success"`
	*voice.SynthesisResult
	Audio string `json:"audio"`
}

// handleSynthesize processes a POST /api/voice request.
//
// @Summary     Synthesize speech from text
// @Description Routes the request to one synthesis strategy: voice cloning when voice_id
// @Description references an uploaded sample, the multilingual engine for non-English
// @Description text, the local multi-voice engine otherwise. The emotional style is
// @Description applied as a text rewrite plus a speech-rate adjustment.
// @Tags        voice
// @Accept      json
// @Produce     json
// @Produce     audio/wav
// @Param       request  body      voice.SynthesisRequest  true  "Synthesis request"
// @Success     200  {object}  synthesizeResponse  "Synthesized audio (raw WAV when Accept: audio/wav)"
// @Failure     400  {object}  map[string]string  "Missing or empty text"
// @Failure     404  {object}  map[string]string  "Referenced voice sample not found"
// @Failure     500  {object}  map[string]string  "Synthesis or storage failure"
// @Failure     502  {object}  map[string]string  "Remote delegate failure"
// @Router      /api/voice [post]
func (t *Transport) handleSynthesize(w http.ResponseWriter, r *http.Request, svc transport.Service) {
	var req voice.SynthesisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid json: %w", voice.ErrValidation, err))
		return
	}

	result, err := svc.Synthesize(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}

	if r.Header.Get("Accept") == "audio/wav" {
		w.Header().Set("Content-Type", result.ContentType)
		w.Header().Set("Content-Disposition", `attachment; filename="generated_voice.wav"`)
		_, _ = w.Write(result.Audio)
		return
	}

	writeJSON(w, http.StatusOK, synthesizeResponse{
		Success:         true,
		SynthesisResult: result,
		Audio:           base64.StdEncoding.EncodeToString(result.Audio),
	})
}

// handleUpload processes a POST /api/train-voice request.
//
// @Summary     Upload a voice sample
// @Description Accepts a multipart form with an "audio" file part and stores it,
// @Description with metadata, for later cloning use.
// @Tags        voice
// @Accept      multipart/form-data
// @Produce     json
// @Param       audio  formData  file  true  "Audio sample"
// @Success     200  {object}  map[string]any  "Stored sample metadata"
// @Failure     400  {object}  map[string]string  "No audio file provided"
// @Failure     500  {object}  map[string]string  "Storage failure"
// @Router      /api/train-voice [post]
func (t *Transport) handleUpload(w http.ResponseWriter, r *http.Request, svc transport.Service) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, fmt.Errorf("%w: parsing form: %w", voice.ErrValidation, err))
		return
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		writeError(w, fmt.Errorf("%w: no audio file provided", voice.ErrValidation))
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		writeError(w, fmt.Errorf("%w: reading upload: %w", voice.ErrStorage, err))
		return
	}

	sample, err := svc.SaveSample(raw, header.Filename)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"sampleId": sample.SampleID,
		"message":  "Voice sample uploaded and processed successfully",
		"metadata": sample,
	})
}

// sampleSummary is one row of the sample listing.
type sampleSummary struct {
	SampleID   string    `json:"sampleId"`
	Name       string    `json:"name"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// handleList processes a GET /api/voices request.
//
// @Summary     List uploaded voice samples
// @Description Enumerates the stored samples. An empty list is a valid response,
// @Description not an error.
// @Tags        voice
// @Produce     json
// @Success     200  {array}  sampleSummary
// @Failure     500  {object}  map[string]string  "Storage failure"
// @Router      /api/voices [get]
func (t *Transport) handleList(w http.ResponseWriter, r *http.Request, svc transport.Service) {
	allSamples, err := svc.ListSamples()
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]sampleSummary, 0, len(allSamples))
	for _, s := range allSamples {
		out = append(out, sampleSummary{
			SampleID:   s.SampleID,
			Name:       s.DisplayName(),
			UploadedAt: s.UploadedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// writeError maps the engine's typed failures onto HTTP status codes.
// Every kind stays distinguishable at the boundary.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, voice.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, voice.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, voice.ErrUpstream):
		status = http.StatusBadGateway
	}

	if status >= 500 {
		slog.Error("request failed", "status", status, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Close gracefully shuts down the HTTP server.
func (t *Transport) Close() error {
	if t.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return t.server.Shutdown(ctx)
	}
	return nil
}
