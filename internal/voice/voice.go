// Package voice defines the core data types flowing through the voicesmith pipeline.
package voice

import "time"

// Descriptor selects a coarse synthetic voice archetype. The concrete voice
// identity behind a descriptor is a backend concern (it depends on the
// operating environment), so only the archetype travels through the engine.
type Descriptor string

const (
	VoiceMale          Descriptor = "male"
	VoiceFemale        Descriptor = "female"
	VoiceBabyBoy       Descriptor = "baby_boy"
	VoiceBabyGirl      Descriptor = "baby_girl"
	VoiceElderlyMale   Descriptor = "elderly_male"
	VoiceElderlyFemale Descriptor = "elderly_female"
)

// NormalizeDescriptor maps a caller-supplied voice type to a known
// descriptor. Unknown or empty values fall back to the female voice,
// matching the default identity used by every deployment so far.
func NormalizeDescriptor(s string) Descriptor {
	switch Descriptor(s) {
	case VoiceMale, VoiceFemale, VoiceBabyBoy, VoiceBabyGirl,
		VoiceElderlyMale, VoiceElderlyFemale:
		return Descriptor(s)
	default:
		return VoiceFemale
	}
}

// Style is the requested emotional coloring, applied as a text rewrite plus
// a speech-rate adjustment before local rendering.
type Style string

const (
	StyleNeutral Style = "neutral"
	StyleHappy   Style = "happy"
	StyleSad     Style = "sad"
	StyleAngry   Style = "angry"
	StyleExcited Style = "excited"
	StyleCalm    Style = "calm"
)

// NormalizeStyle maps a caller-supplied style to a known one, defaulting
// to neutral rather than failing.
func NormalizeStyle(s string) Style {
	switch Style(s) {
	case StyleNeutral, StyleHappy, StyleSad, StyleAngry, StyleExcited, StyleCalm:
		return Style(s)
	default:
		return StyleNeutral
	}
}

// SampleIDDefault is the sentinel sample id meaning "no cloning requested".
const SampleIDDefault = "default"

// SynthesisRequest is one synthesis call as received from a transport.
type SynthesisRequest struct {
	// Text is the content to speak. Required.
	Text string `json:"text"`

	// Language is the ISO-639-1 code. Empty means "en".
	Language string `json:"language,omitempty"`

	// Voice is the requested voice archetype (e.g. "female", "elderly_male").
	Voice string `json:"voice_type,omitempty"`

	// Style is the requested emotional coloring (e.g. "happy", "sad").
	Style string `json:"voice_style,omitempty"`

	// SampleID references a previously uploaded voice sample. When set to
	// anything other than "" or "default", the request takes the cloning path.
	SampleID string `json:"voice_id,omitempty"`
}

// EffectiveLanguage returns the request language, defaulting to English.
func (r *SynthesisRequest) EffectiveLanguage() string {
	if r.Language == "" {
		return "en"
	}
	return r.Language
}

// WantsCloning reports whether the request references an uploaded sample.
func (r *SynthesisRequest) WantsCloning() bool {
	return r.SampleID != "" && r.SampleID != SampleIDDefault
}

// SynthesisResult is the outcome of one successful synthesis call.
// It is produced fresh per call and never cached.
type SynthesisResult struct {
	// Audio is the complete synthesized audio buffer.
	Audio []byte `json:"-"`

	// ContentType is always "audio/wav".
	ContentType string `json:"content_type"`

	// Message is a human-readable summary of what was produced.
	Message string `json:"message"`

	// TextPreview is the first 50 characters of the transformed text,
	// with a trailing ellipsis when truncated.
	TextPreview string `json:"text"`

	// Language, Voice, Style and Speed echo the resolved parameters.
	Language string  `json:"language"`
	Voice    string  `json:"voice_type,omitempty"`
	Style    string  `json:"voice_style,omitempty"`
	Speed    float64 `json:"applied_speed,omitempty"`

	// Cloned marks results produced on the cloning path.
	Cloned bool `json:"is_cloned,omitempty"`
}

// Sample is one uploaded voice sample plus its metadata. Immutable after
// creation; the sample store exclusively owns its on-disk representation.
type Sample struct {
	SampleID     string    `json:"sampleId"`
	OriginalName string    `json:"originalName"`
	FilePath     string    `json:"filePath"`
	UploadedAt   time.Time `json:"uploadedAt"`
	Size         int64     `json:"size"`
}

// DisplayName returns the name shown in sample listings.
func (s *Sample) DisplayName() string {
	if s.OriginalName != "" {
		return s.OriginalName
	}
	return s.SampleID
}

// TruncateText shortens text to max characters, appending "..." when
// anything was cut. Counts runes, not bytes, so multilingual previews
// don't split characters.
func TruncateText(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}
