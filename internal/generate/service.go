package generate

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"horse.fit/podscript/internal/langdetect"
	"horse.fit/podscript/internal/language"
	"horse.fit/podscript/internal/openaiapi"
)

const (
	// DefaultMaxTranscriptChars bounds the transcript fed into a prompt.
	DefaultMaxTranscriptChars = 8000

	generationTemperature = 0.7
	generationMaxAttempts = 2
)

// Completer is the gateway subset the engine needs.
type Completer interface {
	Complete(ctx context.Context, req openaiapi.CompletionRequest) (string, error)
}

// HistoryLookup supplies recent same-kind artifacts for style conditioning,
// most-recent-first. "No history" is an empty slice, not an error.
type HistoryLookup interface {
	Recent(kind Kind, limit int) ([]string, error)
}

// Options tune one generation call.
type Options struct {
	// Language is an explicit output language code. Empty or "auto" infers
	// ja/en from the transcript script.
	Language string
	// IncludeHistory splices recent artifacts into the prompt. Best effort:
	// a failing lookup degrades to the unconditioned prompt.
	IncludeHistory bool
}

// Service turns transcripts into validated artifacts.
type Service struct {
	completer          Completer
	history            HistoryLookup
	logger             zerolog.Logger
	maxTranscriptChars int
}

func NewService(completer Completer, history HistoryLookup, logger zerolog.Logger, maxTranscriptChars int) *Service {
	if maxTranscriptChars <= 0 {
		maxTranscriptChars = DefaultMaxTranscriptChars
	}
	return &Service{
		completer:          completer,
		history:            history,
		logger:             logger,
		maxTranscriptChars: maxTranscriptChars,
	}
}

// GenerateTitles produces exactly TitleCount episode title options.
func (s *Service) GenerateTitles(ctx context.Context, transcript string, opts Options) ([]string, error) {
	raw, err := s.generate(ctx, KindTitles, transcript, opts)
	if err != nil {
		return nil, err
	}
	return ParseTitles(raw)
}

// GenerateDescription produces an episode description within the
// description length contract.
func (s *Service) GenerateDescription(ctx context.Context, transcript string, opts Options) (string, error) {
	raw, err := s.generate(ctx, KindDescription, transcript, opts)
	if err != nil {
		return "", err
	}
	text := normalizeDescription(raw)
	if err := checkLength(KindDescription, text); err != nil {
		return "", err
	}
	return text, nil
}

// GenerateBlogPost produces a Markdown blog post within the blog-post
// length contract. The Markdown passes through untouched.
func (s *Service) GenerateBlogPost(ctx context.Context, transcript string, opts Options) (string, error) {
	raw, err := s.generate(ctx, KindBlogPost, transcript, opts)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(raw)
	if err := checkLength(KindBlogPost, text); err != nil {
		return "", err
	}
	return text, nil
}

func (s *Service) generate(ctx context.Context, kind Kind, transcript string, opts Options) (string, error) {
	if strings.TrimSpace(transcript) == "" {
		return "", ErrEmptyTranscript
	}
	if length := utf8.RuneCountInString(transcript); length > s.maxTranscriptChars {
		return "", &PromptTooLongError{Length: length, Limit: s.maxTranscriptChars}
	}

	lang := language.Normalize(opts.Language)
	if lang == "" || lang == language.Auto {
		lang = langdetect.Script(transcript)
	}

	prompt := s.buildPrompt(kind, transcript, lang, opts.IncludeHistory)

	raw, err := s.completer.Complete(ctx, openaiapi.CompletionRequest{
		System:      systemPrompt(kind),
		Prompt:      prompt,
		Temperature: generationTemperature,
		MaxTokens:   maxTokens(kind),
		MaxAttempts: generationMaxAttempts,
	})
	if err != nil {
		if openaiapi.IsTimeout(err) {
			return "", &GenerationTimeoutError{Kind: kind, Err: err}
		}
		return "", &GenerationError{Kind: kind, Err: err}
	}
	return raw, nil
}

func (s *Service) buildPrompt(kind Kind, transcript, lang string, includeHistory bool) string {
	sections := basePrompt(kind, transcript, lang)

	if includeHistory && s.history != nil {
		examples, err := s.history.Recent(kind, historyLimit(kind))
		if err != nil {
			s.logger.Warn().Err(err).Str("kind", string(kind)).Msg("history lookup failed, generating without style examples")
		} else if len(examples) > 0 {
			prepared := make([]string, 0, len(examples))
			for _, example := range examples {
				example = strings.TrimSpace(example)
				if example == "" {
					continue
				}
				if kind == KindBlogPost {
					example = truncateExample(example, blogExampleMaxChars)
				}
				prepared = append(prepared, example)
			}
			if len(prepared) > 0 {
				sections.examples = prepared
				sections.exampleNote = styleNote(kind)
			}
		}
	}

	return sections.render()
}
