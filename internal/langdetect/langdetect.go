package langdetect

import (
	"strings"
	"sync"
	"unicode"

	lingua "github.com/pemistahl/lingua-go"
)

var (
	detectorOnce sync.Once
	detector     lingua.LanguageDetector
)

// Script classifies text as "ja" or "en" by character script alone.
// Any Hiragana, Katakana, or CJK ideograph makes the text Japanese.
func Script(text string) string {
	for _, r := range text {
		if isJapaneseRune(r) {
			return "ja"
		}
	}
	return "en"
}

// Detect classifies manuscript text as "ja", "en", or "unknown".
// Japanese script wins outright; Latin text is confirmed as English through
// lingua, so a French or German manuscript comes back "unknown" instead of
// being silently treated as English.
func Detect(text string) string {
	sample := strings.TrimSpace(text)
	if sample == "" {
		return "unknown"
	}

	hasLatin := false
	for _, r := range sample {
		if isJapaneseRune(r) {
			return "ja"
		}
		if unicode.Is(unicode.Latin, r) {
			hasLatin = true
		}
	}
	if !hasLatin {
		return "unknown"
	}

	code := DetectISO6391(sample)
	if code == "" || code == "en" {
		return "en"
	}
	return "unknown"
}

// DetectISO6391 returns a two-letter ISO 639-1 code, or "" when the sample
// is too short for a reliable call.
func DetectISO6391(text string) string {
	sample := strings.TrimSpace(text)
	if sample == "" {
		return ""
	}

	letterCount := 0
	for _, r := range sample {
		if unicode.IsLetter(r) {
			letterCount++
		}
	}
	if letterCount < 6 {
		return ""
	}

	language, exists := getDetector().DetectLanguageOf(sample)
	if !exists {
		return ""
	}

	code := strings.ToLower(language.IsoCode639_1().String())
	if len(code) != 2 {
		return ""
	}
	return code
}

func isJapaneseRune(r rune) bool {
	switch {
	case r >= 0x3040 && r <= 0x309F: // Hiragana
		return true
	case r >= 0x30A0 && r <= 0x30FF: // Katakana
		return true
	case r >= 0x4E00 && r <= 0x9FAF: // CJK ideographs
		return true
	}
	return false
}

func getDetector() lingua.LanguageDetector {
	detectorOnce.Do(func() {
		detector = lingua.NewLanguageDetectorBuilder().
			FromAllLanguages().
			WithPreloadedLanguageModels().
			Build()
	})
	return detector
}
