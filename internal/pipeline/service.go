package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"horse.fit/podscript/internal/generate"
	"horse.fit/podscript/internal/history"
	"horse.fit/podscript/internal/langdetect"
	"horse.fit/podscript/internal/language"
)

var (
	// ErrNoKinds means the request selected no artifacts to generate.
	ErrNoKinds = errors.New("no artifact kinds requested")
	// ErrUnknownKind means the request named an artifact kind the engine
	// does not produce.
	ErrUnknownKind = errors.New("unknown artifact kind")
)

// Engine is the generation surface the orchestrator drives.
type Engine interface {
	GenerateTitles(ctx context.Context, transcript string, opts generate.Options) ([]string, error)
	GenerateDescription(ctx context.Context, transcript string, opts generate.Options) (string, error)
	GenerateBlogPost(ctx context.Context, transcript string, opts generate.Options) (string, error)
}

// Recorder persists completed runs.
type Recorder interface {
	Save(record history.Record) (string, error)
}

// Request describes one processing run over an already-extracted transcript.
type Request struct {
	Transcript string
	SourceFile string
	FileType   string
	// Language is the requested output language, or "auto" to infer it
	// from the transcript once for the whole run.
	Language string
	// Kinds selects the artifacts to generate. Empty means all kinds.
	Kinds []generate.Kind
}

// Result is the outcome of a fully successful run.
type Result struct {
	Titles      []string
	Description string
	BlogPost    string
	Language    string
	HistoryID   string
}

// Service runs the generation steps in a fixed order and records the
// outcome. A run is all-or-nothing: the first failure aborts it and
// nothing is persisted.
type Service struct {
	engine Engine
	store  Recorder
	logger zerolog.Logger
}

func NewService(engine Engine, store Recorder, logger zerolog.Logger) *Service {
	return &Service{engine: engine, store: store, logger: logger}
}

// Run generates the requested artifacts in order (titles, description,
// blog post) and saves one history record on success.
func (s *Service) Run(ctx context.Context, req Request) (*Result, error) {
	kinds := req.Kinds
	if len(kinds) == 0 {
		kinds = generate.AllKinds()
	}
	selected := map[generate.Kind]bool{}
	for _, kind := range kinds {
		if !kind.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
		}
		selected[kind] = true
	}
	if len(selected) == 0 {
		return nil, ErrNoKinds
	}

	if strings.TrimSpace(req.Transcript) == "" {
		return nil, generate.ErrEmptyTranscript
	}

	lang := language.Normalize(req.Language)
	if lang == "" || lang == language.Auto {
		lang = langdetect.Script(req.Transcript)
		s.logger.Debug().Str("language", lang).Msg("detected transcript language")
	}
	opts := generate.Options{Language: lang, IncludeHistory: true}

	result := &Result{Language: lang}
	for _, kind := range generate.AllKinds() {
		if !selected[kind] {
			continue
		}
		s.logger.Info().Str("kind", string(kind)).Msg("generating artifact")
		switch kind {
		case generate.KindTitles:
			titles, err := s.engine.GenerateTitles(ctx, req.Transcript, opts)
			if err != nil {
				return nil, err
			}
			result.Titles = titles
		case generate.KindDescription:
			description, err := s.engine.GenerateDescription(ctx, req.Transcript, opts)
			if err != nil {
				return nil, err
			}
			result.Description = description
		case generate.KindBlogPost:
			blogPost, err := s.engine.GenerateBlogPost(ctx, req.Transcript, opts)
			if err != nil {
				return nil, err
			}
			result.BlogPost = blogPost
		}
	}

	id, err := s.store.Save(history.Record{
		SourceFile:  req.SourceFile,
		FileType:    req.FileType,
		Language:    lang,
		Transcript:  req.Transcript,
		Titles:      result.Titles,
		Description: result.Description,
		BlogPost:    result.BlogPost,
	})
	if err != nil {
		return nil, &SaveError{Err: err}
	}
	result.HistoryID = id

	s.logger.Info().Str("history_id", id).Str("language", lang).Msg("processing run complete")
	return result, nil
}
