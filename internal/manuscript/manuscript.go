package manuscript

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"horse.fit/podscript/internal/langdetect"
	"horse.fit/podscript/internal/language"
)

// DefaultMaxFileSizeBytes bounds manuscript files the same way audio files
// are bounded.
const DefaultMaxFileSizeBytes = int64(10) << 20

// Reading speed assumptions for the time estimate.
const (
	englishWordsPerMinute  = 200
	japaneseCharsPerMinute = 400
)

var urlPattern = regexp.MustCompile(`https?://[^\s　]+`)

// UnsupportedFormatError means the manuscript file is not a .txt file.
type UnsupportedFormatError struct {
	Ext string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported manuscript format %q (supported: .txt)", e.Ext)
}

// FileSizeError means the manuscript exceeds the configured size limit.
type FileSizeError struct {
	Size  int64
	Limit int64
}

func (e *FileSizeError) Error() string {
	return fmt.Sprintf("manuscript too large: %d bytes (max: %d)", e.Size, e.Limit)
}

// ErrEmptyManuscript means the file held no text after cleaning.
var ErrEmptyManuscript = fmt.Errorf("manuscript is empty")

// ErrUnknownLanguage means automatic detection could not place the
// manuscript in a supported language, so the caller has to pick one.
var ErrUnknownLanguage = fmt.Errorf("manuscript language could not be detected; choose an output language explicitly")

// Metadata summarizes a cleaned manuscript.
type Metadata struct {
	Chars       int
	Lines       int
	Paragraphs  int
	ReadingTime time.Duration
}

// Manuscript is a cleaned transcript read from a text file.
type Manuscript struct {
	Text     string
	Language string
	Metadata Metadata
}

// Reader loads and normalizes manuscript text files.
type Reader struct {
	logger      zerolog.Logger
	maxFileSize int64
}

func NewReader(logger zerolog.Logger, maxFileSize int64) *Reader {
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSizeBytes
	}
	return &Reader{logger: logger, maxFileSize: maxFileSize}
}

// Read loads a .txt manuscript, cleans it, and detects its language.
func (r *Reader) Read(path string) (*Manuscript, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".txt" {
		return nil, &UnsupportedFormatError{Ext: ext}
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat manuscript: %w", err)
	}
	if info.Size() > r.maxFileSize {
		return nil, &FileSizeError{Size: info.Size(), Limit: r.maxFileSize}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manuscript: %w", err)
	}

	text := CleanText(string(raw))
	if text == "" {
		return nil, ErrEmptyManuscript
	}

	lang := langdetect.Detect(text)
	meta := computeMetadata(text, lang)
	r.logger.Debug().
		Str("file", filepath.Base(path)).
		Str("language", lang).
		Int("chars", meta.Chars).
		Msg("manuscript loaded")

	return &Manuscript{Text: text, Language: lang, Metadata: meta}, nil
}

// RequireLanguage enforces the language contract for an output selection:
// an automatic selection over a manuscript whose language came back
// "unknown" is rejected, an explicit selection always passes.
func (m *Manuscript) RequireLanguage(requested string) error {
	if !language.IsAuto(requested) {
		return nil
	}
	if m.Language == "unknown" {
		return ErrUnknownLanguage
	}
	return nil
}

// CleanText normalizes a raw manuscript: BOM strip, line-ending and
// full-width-space normalization, per-line whitespace collapse, URL
// scrubbing, and blank-line paragraph separation.
func CleanText(raw string) string {
	text := strings.TrimPrefix(raw, "\uFEFF")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.ReplaceAll(text, "　", " ")
	text = urlPattern.ReplaceAllString(text, "[URL]")

	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	blank := true
	for _, line := range lines {
		clean := strings.Join(strings.Fields(strings.TrimSpace(line)), " ")
		if clean == "" {
			if !blank {
				cleaned = append(cleaned, "")
			}
			blank = true
			continue
		}
		cleaned = append(cleaned, clean)
		blank = false
	}

	return strings.TrimSpace(strings.Join(cleaned, "\n"))
}

func computeMetadata(text, lang string) Metadata {
	lines := strings.Split(text, "\n")
	paragraphs := 0
	inParagraph := false
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			inParagraph = false
			continue
		}
		if !inParagraph {
			paragraphs++
			inParagraph = true
		}
	}

	chars := utf8.RuneCountInString(text)
	var minutes float64
	if lang == "ja" {
		minutes = float64(chars) / japaneseCharsPerMinute
	} else {
		minutes = float64(len(strings.Fields(text))) / englishWordsPerMinute
	}
	if minutes < 0 {
		minutes = 0
	}

	return Metadata{
		Chars:       chars,
		Lines:       len(lines),
		Paragraphs:  paragraphs,
		ReadingTime: time.Duration(minutes * float64(time.Minute)).Round(time.Second),
	}
}
