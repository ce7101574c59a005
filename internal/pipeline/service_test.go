package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"horse.fit/podscript/internal/generate"
	"horse.fit/podscript/internal/history"
	"horse.fit/podscript/internal/openaiapi"
)

type stubEngine struct {
	calls []generate.Kind

	titles      []string
	description string
	blogPost    string

	failKind generate.Kind
	failErr  error

	lastOpts generate.Options
}

func (e *stubEngine) GenerateTitles(_ context.Context, _ string, opts generate.Options) ([]string, error) {
	e.calls = append(e.calls, generate.KindTitles)
	e.lastOpts = opts
	if e.failKind == generate.KindTitles {
		return nil, e.failErr
	}
	return e.titles, nil
}

func (e *stubEngine) GenerateDescription(_ context.Context, _ string, opts generate.Options) (string, error) {
	e.calls = append(e.calls, generate.KindDescription)
	e.lastOpts = opts
	if e.failKind == generate.KindDescription {
		return "", e.failErr
	}
	return e.description, nil
}

func (e *stubEngine) GenerateBlogPost(_ context.Context, _ string, opts generate.Options) (string, error) {
	e.calls = append(e.calls, generate.KindBlogPost)
	e.lastOpts = opts
	if e.failKind == generate.KindBlogPost {
		return "", e.failErr
	}
	return e.blogPost, nil
}

type stubRecorder struct {
	saved   []history.Record
	saveErr error
}

func (r *stubRecorder) Save(record history.Record) (string, error) {
	if r.saveErr != nil {
		return "", r.saveErr
	}
	r.saved = append(r.saved, record)
	return "id-1", nil
}

func newTestEngine() *stubEngine {
	return &stubEngine{
		titles:      []string{"Title 1", "Title 2", "Title 3"},
		description: strings.Repeat("d", 250),
		blogPost:    strings.Repeat("b", 1200),
	}
}

func TestRunGeneratesAllKindsInOrder(t *testing.T) {
	t.Parallel()

	engine := newTestEngine()
	recorder := &stubRecorder{}
	service := NewService(engine, recorder, zerolog.Nop())

	result, err := service.Run(context.Background(), Request{
		Transcript: "an english transcript about technology",
		SourceFile: "episode.txt",
		FileType:   "text",
		Language:   "en",
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	wantOrder := []generate.Kind{generate.KindTitles, generate.KindDescription, generate.KindBlogPost}
	if len(engine.calls) != len(wantOrder) {
		t.Fatalf("engine received %d calls, want %d", len(engine.calls), len(wantOrder))
	}
	for i, kind := range wantOrder {
		if engine.calls[i] != kind {
			t.Errorf("call %d = %s, want %s", i, engine.calls[i], kind)
		}
	}

	if result.HistoryID != "id-1" {
		t.Errorf("HistoryID = %q, want id-1", result.HistoryID)
	}
	if len(result.Titles) != 3 || result.Description == "" || result.BlogPost == "" {
		t.Error("result is missing artifacts")
	}
}

func TestRunSavesCompleteRecord(t *testing.T) {
	t.Parallel()

	engine := newTestEngine()
	recorder := &stubRecorder{}
	service := NewService(engine, recorder, zerolog.Nop())

	if _, err := service.Run(context.Background(), Request{
		Transcript: "transcript",
		SourceFile: "episode.mp3",
		FileType:   "audio",
		Language:   "en",
	}); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if len(recorder.saved) != 1 {
		t.Fatalf("recorder holds %d records, want 1", len(recorder.saved))
	}
	record := recorder.saved[0]
	if record.SourceFile != "episode.mp3" || record.FileType != "audio" {
		t.Errorf("record metadata = %q/%q", record.SourceFile, record.FileType)
	}
	if record.Language != "en" {
		t.Errorf("record Language = %q, want en", record.Language)
	}
	if record.Transcript != "transcript" {
		t.Errorf("record Transcript = %q", record.Transcript)
	}
	if len(record.Titles) != 3 || record.Description == "" || record.BlogPost == "" {
		t.Error("record is missing artifacts")
	}
}

func TestRunFirstFailureAbortsAndSkipsSave(t *testing.T) {
	t.Parallel()

	engine := newTestEngine()
	engine.failKind = generate.KindDescription
	engine.failErr = &generate.ContractViolationError{
		Kind:   generate.KindDescription,
		Length: 150,
		Min:    generate.DescriptionMinChars,
		Max:    generate.DescriptionMaxChars,
	}
	recorder := &stubRecorder{}
	service := NewService(engine, recorder, zerolog.Nop())

	_, err := service.Run(context.Background(), Request{Transcript: "transcript", Language: "en"})
	var violation *generate.ContractViolationError
	if !errors.As(err, &violation) {
		t.Fatalf("Run error = %v, want ContractViolationError", err)
	}

	for _, kind := range engine.calls {
		if kind == generate.KindBlogPost {
			t.Error("blog post was generated after the description failed")
		}
	}
	if len(recorder.saved) != 0 {
		t.Error("record was saved despite a failed run")
	}
}

func TestRunSaveFailureFailsRun(t *testing.T) {
	t.Parallel()

	engine := newTestEngine()
	recorder := &stubRecorder{saveErr: errors.New("disk full")}
	service := NewService(engine, recorder, zerolog.Nop())

	_, err := service.Run(context.Background(), Request{Transcript: "transcript", Language: "en"})
	var saveErr *SaveError
	if !errors.As(err, &saveErr) {
		t.Fatalf("Run error = %v, want SaveError", err)
	}
	if !strings.Contains(err.Error(), "disk full") {
		t.Errorf("error message = %q, want the underlying cause", err.Error())
	}
}

func TestRunSubsetOfKinds(t *testing.T) {
	t.Parallel()

	engine := newTestEngine()
	recorder := &stubRecorder{}
	service := NewService(engine, recorder, zerolog.Nop())

	result, err := service.Run(context.Background(), Request{
		Transcript: "transcript",
		Language:   "en",
		Kinds:      []generate.Kind{generate.KindTitles},
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if len(engine.calls) != 1 || engine.calls[0] != generate.KindTitles {
		t.Errorf("engine calls = %v, want only titles", engine.calls)
	}
	if result.Description != "" || result.BlogPost != "" {
		t.Error("result holds artifacts outside the requested kinds")
	}
	if len(recorder.saved) != 1 {
		t.Fatal("record was not saved")
	}
	if recorder.saved[0].Description != "" {
		t.Error("record holds a description that was not generated")
	}
}

func TestRunUnknownKind(t *testing.T) {
	t.Parallel()

	service := NewService(newTestEngine(), &stubRecorder{}, zerolog.Nop())

	_, err := service.Run(context.Background(), Request{
		Transcript: "transcript",
		Kinds:      []generate.Kind{"poem"},
	})
	if !errors.Is(err, ErrUnknownKind) {
		t.Errorf("Run error = %v, want ErrUnknownKind", err)
	}
}

func TestRunEmptyTranscript(t *testing.T) {
	t.Parallel()

	engine := newTestEngine()
	service := NewService(engine, &stubRecorder{}, zerolog.Nop())

	_, err := service.Run(context.Background(), Request{Transcript: "   "})
	if !errors.Is(err, generate.ErrEmptyTranscript) {
		t.Errorf("Run error = %v, want ErrEmptyTranscript", err)
	}
	if len(engine.calls) != 0 {
		t.Error("engine was called for an empty transcript")
	}
}

func TestRunDetectsLanguageOnce(t *testing.T) {
	t.Parallel()

	engine := newTestEngine()
	recorder := &stubRecorder{}
	service := NewService(engine, recorder, zerolog.Nop())

	result, err := service.Run(context.Background(), Request{
		Transcript: "今日のエピソードではポッドキャストの作り方について話します",
		Language:   "auto",
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if result.Language != "ja" {
		t.Errorf("result Language = %q, want ja", result.Language)
	}
	if engine.lastOpts.Language != "ja" {
		t.Errorf("engine received language %q, want the detected ja", engine.lastOpts.Language)
	}
	if recorder.saved[0].Language != "ja" {
		t.Errorf("record Language = %q, want ja", recorder.saved[0].Language)
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want FailureKind
	}{
		{"empty transcript", generate.ErrEmptyTranscript, FailureValidation},
		{"too long", &generate.PromptTooLongError{Length: 9000, Limit: 8000}, FailureValidation},
		{"unknown kind", ErrUnknownKind, FailureValidation},
		{"timeout", &generate.GenerationTimeoutError{Kind: generate.KindTitles, Err: context.DeadlineExceeded}, FailureTransient},
		{"connection exhausted", &openaiapi.ConnectionError{Op: "chat_completion", Attempts: 3, Err: errors.New("refused")}, FailureTransient},
		{"malformed", &generate.MalformedResponseError{Kind: generate.KindTitles, Detail: "2 titles"}, FailureContract},
		{"contract", &generate.ContractViolationError{Kind: generate.KindDescription, Length: 100, Min: 200, Max: 400}, FailureContract},
		{"save failure", &SaveError{Err: errors.New("disk full")}, FailureInternal},
		{"unknown error", errors.New("boom"), FailureInternal},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := Classify(tc.err); got != tc.want {
				t.Errorf("Classify(%v) = %s, want %s", tc.err, got, tc.want)
			}
		})
	}
}
