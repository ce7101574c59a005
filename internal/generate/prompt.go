package generate

import (
	"fmt"
	"strings"
)

// promptSections is the structured form of a generation prompt. Rendering
// keeps a fixed section order: intro, reference examples (optional),
// requirements, transcript. Examples always land immediately before the
// requirements block.
type promptSections struct {
	intro        string
	examples     []string
	exampleNote  string
	requirements []string
	transcript   string
}

func (p promptSections) render() string {
	var sb strings.Builder
	sb.WriteString(p.intro)
	sb.WriteString("\n")

	if len(p.examples) > 0 {
		sb.WriteString("\nReference examples (style guidance from past episodes):\n")
		for _, example := range p.examples {
			sb.WriteString("- ")
			sb.WriteString(example)
			sb.WriteString("\n")
		}
		if p.exampleNote != "" {
			sb.WriteString(p.exampleNote)
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\nRequirements:\n")
	for _, req := range p.requirements {
		sb.WriteString("- ")
		sb.WriteString(req)
		sb.WriteString("\n")
	}

	sb.WriteString("\nTranscript:\n")
	sb.WriteString(p.transcript)
	return sb.String()
}

func languageInstruction(lang string) string {
	switch lang {
	case "ja":
		return "in Japanese (日本語で)"
	case "en":
		return "in English"
	default:
		return "in " + lang
	}
}

func basePrompt(kind Kind, transcript, lang string) promptSections {
	instruction := languageInstruction(lang)

	switch kind {
	case KindTitles:
		return promptSections{
			intro: fmt.Sprintf("Generate %d attractive podcast episode titles %s from the transcript below.", TitleCount, instruction),
			requirements: []string{
				"Each title must catch a listener's interest",
				"Each title must accurately reflect the episode content",
				"Output the titles as a numbered list (1. 2. 3.)",
			},
			transcript: transcript,
		}
	case KindDescription:
		return promptSections{
			intro: fmt.Sprintf("Write a podcast episode description %s for the transcript below.", instruction),
			requirements: []string{
				fmt.Sprintf("Between %d and %d characters", DescriptionMinChars, DescriptionMaxChars),
				"Open with a hook, summarize the episode, close with a call to action",
				"Output the description text only, without surrounding quotes or commentary",
			},
			transcript: transcript,
		}
	case KindBlogPost:
		return promptSections{
			intro: fmt.Sprintf("Write a blog post %s based on the podcast transcript below.", instruction),
			requirements: []string{
				fmt.Sprintf("Between %d and %d characters", BlogPostMinChars, BlogPostMaxChars),
				"Markdown format with one top-level heading and section headings",
				"Readable as a standalone article, not a transcript dump",
			},
			transcript: transcript,
		}
	}

	return promptSections{transcript: transcript}
}

func styleNote(kind Kind) string {
	if kind == KindTitles {
		return "Match the tone and style of the reference titles above."
	}
	return "Match the tone and style of the reference examples above."
}

func systemPrompt(kind Kind) string {
	switch kind {
	case KindTitles:
		return "You are a helpful podcast title generator."
	case KindDescription:
		return "You are a helpful podcast description writer."
	case KindBlogPost:
		return "You are a helpful blog writer for podcast episodes."
	}
	return "You are a helpful podcast content assistant."
}

// truncateExample bounds one reference example to maxChars runes, marking
// the cut with an ellipsis.
func truncateExample(text string, maxChars int) string {
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}
	return string(runes[:maxChars]) + "…"
}
