package generate

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	numberedLinePattern = regexp.MustCompile(`^\d+[.)]\s*(.+)$`)
	bulletLinePattern   = regexp.MustCompile(`^[-•]\s*(.+)$`)
)

// ParseTitles extracts exactly TitleCount titles from a raw model response.
// Upstream formatting is not contractually guaranteed, so three patterns are
// tried per line in order: numbered list, bullet list, then a bare-line
// fallback that skips heading-like lines ending with a colon. Pure function
// of its input.
func ParseTitles(raw string) ([]string, error) {
	titles := make([]string, 0, TitleCount)

	for _, line := range strings.Split(strings.TrimSpace(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if m := numberedLinePattern.FindStringSubmatch(line); m != nil {
			if title := strings.TrimSpace(m[1]); title != "" {
				titles = append(titles, title)
			}
			continue
		}
		if m := bulletLinePattern.FindStringSubmatch(line); m != nil {
			if title := strings.TrimSpace(m[1]); title != "" {
				titles = append(titles, title)
			}
			continue
		}

		if len(titles) < TitleCount && !strings.HasSuffix(line, ":") {
			titles = append(titles, line)
		}
	}

	if len(titles) != TitleCount {
		return nil, &MalformedResponseError{
			Kind:   KindTitles,
			Detail: fmt.Sprintf("expected %d titles, extracted %d", TitleCount, len(titles)),
		}
	}
	return titles, nil
}

// normalizeDescription trims the response and strips a single layer of
// wrapping double quotes when present on both ends.
func normalizeDescription(raw string) string {
	text := strings.TrimSpace(raw)
	if len(text) >= 2 && strings.HasPrefix(text, `"`) && strings.HasSuffix(text, `"`) {
		text = text[1 : len(text)-1]
	}
	return text
}

// checkLength enforces the per-kind character contract. Out-of-range output
// is never clamped; it becomes a ContractViolationError.
func checkLength(kind Kind, text string) error {
	var min, max int
	switch kind {
	case KindDescription:
		min, max = DescriptionMinChars, DescriptionMaxChars
	case KindBlogPost:
		min, max = BlogPostMinChars, BlogPostMaxChars
	default:
		return nil
	}

	length := utf8.RuneCountInString(text)
	if length < min || length > max {
		return &ContractViolationError{Kind: kind, Length: length, Min: min, Max: max}
	}
	return nil
}
