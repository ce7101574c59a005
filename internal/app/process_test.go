package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"horse.fit/podscript/internal/manuscript"
)

func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestExtractTranscriptUnknownLanguageNeedsExplicitChoice(t *testing.T) {
	t.Parallel()

	svc := &services{manuscripts: manuscript.NewReader(zerolog.Nop(), 0)}
	path := writeTestFile(t, "episode.txt", "Сегодня мы поговорим о создании подкастов и нужных инструментах.")

	_, _, err := extractTranscript(context.Background(), svc, path, "auto")
	if !errors.Is(err, manuscript.ErrUnknownLanguage) {
		t.Fatalf("extractTranscript error = %v, want ErrUnknownLanguage", err)
	}
	if !isInputError(err) {
		t.Error("ErrUnknownLanguage is not classified as an input error")
	}
}

func TestExtractTranscriptUnknownLanguageWithExplicitChoice(t *testing.T) {
	t.Parallel()

	svc := &services{manuscripts: manuscript.NewReader(zerolog.Nop(), 0)}
	path := writeTestFile(t, "episode.txt", "Сегодня мы поговорим о создании подкастов и нужных инструментах.")

	text, fileType, err := extractTranscript(context.Background(), svc, path, "ru")
	if err != nil {
		t.Fatalf("extractTranscript returned error: %v", err)
	}
	if fileType != "text" || text == "" {
		t.Errorf("extractTranscript = %q/%q", text, fileType)
	}
}
