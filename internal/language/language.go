package language

import "strings"

// Auto asks the pipeline to detect the language from the transcript.
const Auto = "auto"

// Normalize lowercases a language selection and drops any region subtag,
// so "EN-us" and "en_US" both become "en". Returns an empty string for
// blank or malformed values.
func Normalize(raw string) string {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	if trimmed == "" {
		return ""
	}

	trimmed = strings.ReplaceAll(trimmed, "_", "-")
	if dash := strings.IndexByte(trimmed, '-'); dash >= 0 {
		trimmed = trimmed[:dash]
	}
	if trimmed == "" || !isAlphaLower(trimmed) {
		return ""
	}
	return trimmed
}

// IsAuto reports whether the selection requests automatic detection.
// An empty selection counts as automatic.
func IsAuto(raw string) bool {
	normalized := Normalize(raw)
	return normalized == "" || normalized == Auto
}

func isAlphaLower(value string) bool {
	for _, r := range value {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
