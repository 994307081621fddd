// Package samples manages the on-disk lifecycle of uploaded voice samples.
//
// Each sample lives in its own directory under the store root, holding the
// raw audio bytes and a metadata.json sidecar. The store owns this layout
// exclusively — the engine only ever reads metadata by sample id.
package samples

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/nadzzz/voicesmith/internal/voice"
)

const (
	metadataFile    = "metadata.json"
	defaultFileName = "voice-sample.wav"

	dirPerm  = 0o755
	filePerm = 0o644
)

// Store persists voice samples under a root directory.
type Store struct {
	root string
}

// New creates a store rooted at dir. The root is created lazily on the
// first save, so a fresh deployment can list an empty store immediately.
func New(dir string) *Store {
	return &Store{root: dir}
}

// newSampleID allocates a collision-resistant sample id. Timestamp-derived
// ids collide under concurrent uploads, so the unique part is a UUID.
func newSampleID() string {
	return "voice_" + uuid.NewString()
}

// Save writes raw audio bytes and a metadata record into a new exclusive
// sample directory and returns the resulting record.
func (s *Store) Save(raw []byte, originalName string) (*voice.Sample, error) {
	id := newSampleID()
	dir := filepath.Join(s.root, id)

	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return nil, fmt.Errorf("%w: creating %s: %w", voice.ErrStorage, dir, err)
	}

	name := originalName
	if name == "" {
		name = defaultFileName
	}
	// Uploaded names are untrusted; keep only the base name so a crafted
	// name can't escape the sample directory.
	name = filepath.Base(name)

	audioPath := filepath.Join(dir, name)
	if err := os.WriteFile(audioPath, raw, filePerm); err != nil {
		return nil, fmt.Errorf("%w: writing audio: %w", voice.ErrStorage, err)
	}

	sample := &voice.Sample{
		SampleID:     id,
		OriginalName: originalName,
		FilePath:     audioPath,
		UploadedAt:   time.Now().UTC(),
		Size:         int64(len(raw)),
	}

	meta, err := json.MarshalIndent(sample, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: encoding metadata: %w", voice.ErrStorage, err)
	}
	if err := os.WriteFile(filepath.Join(dir, metadataFile), meta, filePerm); err != nil {
		return nil, fmt.Errorf("%w: writing metadata: %w", voice.ErrStorage, err)
	}

	slog.Info("voice sample stored", "sample_id", id, "name", originalName, "bytes", len(raw))
	return sample, nil
}

// Load reads the metadata record for a sample id.
func (s *Store) Load(sampleID string) (*voice.Sample, error) {
	data, err := os.ReadFile(filepath.Join(s.root, sampleID, metadataFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", voice.ErrNotFound, sampleID)
		}
		return nil, fmt.Errorf("%w: reading metadata for %s: %w", voice.ErrStorage, sampleID, err)
	}

	var sample voice.Sample
	if err := json.Unmarshal(data, &sample); err != nil {
		return nil, fmt.Errorf("%w: metadata for %s is malformed: %w", voice.ErrStorage, sampleID, err)
	}
	return &sample, nil
}

// List enumerates every sample directory holding a valid metadata record.
// Directories with missing or malformed metadata are logged and skipped —
// one corrupt entry must never fail the whole listing. A missing store
// root yields an empty slice, not an error.
func (s *Store) List() ([]*voice.Sample, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []*voice.Sample{}, nil
		}
		return nil, fmt.Errorf("%w: reading store root: %w", voice.ErrStorage, err)
	}

	out := make([]*voice.Sample, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		sample, err := s.Load(entry.Name())
		if err != nil {
			slog.Warn("skipping unreadable voice sample", "dir", entry.Name(), "error", err)
			continue
		}
		out = append(out, sample)
	}
	return out, nil
}
