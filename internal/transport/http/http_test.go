package http

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nadzzz/voicesmith/internal/voice"
)

// fakeService plays back canned engine and store results.
type fakeService struct {
	result   *voice.SynthesisResult
	synthErr error

	sample  *voice.Sample
	saveErr error

	samples []*voice.Sample
	listErr error

	lastReq *voice.SynthesisRequest
}

func (f *fakeService) Synthesize(_ context.Context, req *voice.SynthesisRequest) (*voice.SynthesisResult, error) {
	f.lastReq = req
	if f.synthErr != nil {
		return nil, f.synthErr
	}
	return f.result, nil
}

func (f *fakeService) SaveSample(raw []byte, originalName string) (*voice.Sample, error) {
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	return f.sample, nil
}

func (f *fakeService) ListSamples() ([]*voice.Sample, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.samples, nil
}

func okResult() *voice.SynthesisResult {
	return &voice.SynthesisResult{
		Audio:       []byte("fake-wav"),
		ContentType: "audio/wav",
		Message:     "Voice generated with female voice (sad style)",
		TextPreview: "Hello... world... ",
		Language:    "en",
		Voice:       "female",
		Style:       "sad",
		Speed:       0.7,
	}
}

func TestHandleSynthesizeJSONEnvelope(t *testing.T) {
	svc := &fakeService{result: okResult()}
	tr := New(0)

	req := httptest.NewRequest(http.MethodPost, "/api/voice",
		strings.NewReader(`{"text":"Hello, world!","voice_type":"female","voice_style":"sad"}`))
	rec := httptest.NewRecorder()
	tr.handleSynthesize(rec, req, svc)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Text    string `json:"text"`
		Audio   string `json:"audio"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "Voice generated with female voice (sad style)", resp.Message)
	assert.Equal(t, "Hello... world... ", resp.Text)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("fake-wav")), resp.Audio)

	// The decoded request reached the service untouched.
	require.NotNil(t, svc.lastReq)
	assert.Equal(t, "Hello, world!", svc.lastReq.Text)
	assert.Equal(t, "sad", svc.lastReq.Style)
}

func TestHandleSynthesizeRawWAV(t *testing.T) {
	svc := &fakeService{result: okResult()}
	tr := New(0)

	req := httptest.NewRequest(http.MethodPost, "/api/voice", strings.NewReader(`{"text":"hi"}`))
	req.Header.Set("Accept", "audio/wav")
	rec := httptest.NewRecorder()
	tr.handleSynthesize(rec, req, svc)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "audio/wav", rec.Header().Get("Content-Type"))
	assert.Equal(t, []byte("fake-wav"), rec.Body.Bytes())
}

func TestHandleSynthesizeInvalidJSON(t *testing.T) {
	tr := New(0)

	req := httptest.NewRequest(http.MethodPost, "/api/voice", strings.NewReader("{broken"))
	rec := httptest.NewRecorder()
	tr.handleSynthesize(rec, req, &fakeService{})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleSynthesizeErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation maps to 400", fmt.Errorf("%w: text is required", voice.ErrValidation), http.StatusBadRequest},
		{"not found maps to 404", fmt.Errorf("%w: voice_9999", voice.ErrNotFound), http.StatusNotFound},
		{"synthesis maps to 500", voice.BackendError(voice.ErrSynthesis, "local", fmt.Errorf("crashed")), http.StatusInternalServerError},
		{"storage maps to 500", fmt.Errorf("%w: disk full", voice.ErrStorage), http.StatusInternalServerError},
		{"upstream maps to 502", voice.BackendError(voice.ErrUpstream, "delegate", fmt.Errorf("down")), http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := New(0)
			req := httptest.NewRequest(http.MethodPost, "/api/voice", strings.NewReader(`{"text":"hi"}`))
			rec := httptest.NewRecorder()
			tr.handleSynthesize(rec, req, &fakeService{synthErr: tt.err})

			assert.Equal(t, tt.status, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestHandleUpload(t *testing.T) {
	sample := &voice.Sample{
		SampleID:     "voice_abc",
		OriginalName: "clip.wav",
		UploadedAt:   time.Now().UTC(),
		Size:         9,
	}
	svc := &fakeService{sample: sample}
	tr := New(0)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("audio", "clip.wav")
	require.NoError(t, err)
	_, err = part.Write([]byte("wav bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/train-voice", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	tr.handleUpload(rec, req, svc)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "voice_abc", resp["sampleId"])
}

func TestHandleUploadWithoutFile(t *testing.T) {
	tr := New(0)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("note", "no file here"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/train-voice", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	tr.handleUpload(rec, req, &fakeService{})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleList(t *testing.T) {
	now := time.Now().UTC()
	svc := &fakeService{samples: []*voice.Sample{
		{SampleID: "voice_1", OriginalName: "a.wav", UploadedAt: now},
		{SampleID: "voice_2", UploadedAt: now}, // falls back to the id as name
	}}
	tr := New(0)

	req := httptest.NewRequest(http.MethodGet, "/api/voices", nil)
	rec := httptest.NewRecorder()
	tr.handleList(rec, req, svc)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.Equal(t, "a.wav", resp[0]["name"])
	assert.Equal(t, "voice_2", resp[1]["name"])
}

func TestHandleListEmpty(t *testing.T) {
	tr := New(0)

	req := httptest.NewRequest(http.MethodGet, "/api/voices", nil)
	rec := httptest.NewRecorder()
	tr.handleList(rec, req, &fakeService{})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}
