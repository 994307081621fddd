// Package style implements the emotional style transform: a deterministic
// text rewrite plus a speech-rate adjustment keyed by the requested style.
//
// Both transforms are pure and stateless. The engine resolves the
// descriptor-implied base speed first, then layers the style multiplier on
// top; the text rewrite is independent of either.
package style

import (
	"regexp"

	"github.com/nadzzz/voicesmith/internal/voice"
)

var (
	sentenceEnd = regexp.MustCompile(`[.!?]\s*`)
	comma       = regexp.MustCompile(`,\s*`)
)

// Rewrite applies the style's punctuation rewrite to text.
//
//	angry          — terminators become "! ", commas normalized to ", "
//	happy, excited — terminators become "! ", commas untouched
//	sad            — terminators AND commas become "... "
//	calm           — terminators ". ", commas ", " (a normalization pass)
//	neutral        — identity
func Rewrite(text string, s voice.Style) string {
	switch s {
	case voice.StyleAngry:
		return comma.ReplaceAllString(sentenceEnd.ReplaceAllString(text, "! "), ", ")
	case voice.StyleHappy, voice.StyleExcited:
		return sentenceEnd.ReplaceAllString(text, "! ")
	case voice.StyleSad:
		return comma.ReplaceAllString(sentenceEnd.ReplaceAllString(text, "... "), "... ")
	case voice.StyleCalm:
		return comma.ReplaceAllString(sentenceEnd.ReplaceAllString(text, ". "), ", ")
	default:
		return text
	}
}

// SpeedFor layers the style's rate multiplier onto a base speed. Each
// style clamps at its own extreme end: a ceiling for the fast styles, a
// floor for the slow ones.
func SpeedFor(base float64, s voice.Style) float64 {
	switch s {
	case voice.StyleHappy, voice.StyleExcited:
		return min(base*1.3, 2.0)
	case voice.StyleAngry:
		return min(base*1.2, 1.8)
	case voice.StyleSad:
		return max(base*0.7, 0.4)
	case voice.StyleCalm:
		return max(base*0.85, 0.6)
	default:
		return base
	}
}

// BaseSpeed resolves the rate implied by the voice descriptor itself:
// baby voices speak faster, elderly voices slower, everything else at 1.0.
// This runs before SpeedFor in the engine's speed pipeline.
func BaseSpeed(d voice.Descriptor) float64 {
	switch d {
	case voice.VoiceBabyBoy, voice.VoiceBabyGirl:
		return 1.3
	case voice.VoiceElderlyMale, voice.VoiceElderlyFemale:
		return 0.8
	default:
		return 1.0
	}
}
