package audio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"horse.fit/podscript/internal/openaiapi"
)

// Defaults mirror the configuration defaults.
const (
	DefaultMaxFileSizeBytes = int64(1) << 30
	DefaultMaxDuration      = 120 * time.Minute
)

var supportedExtensions = map[string]bool{
	".mp3": true,
	".wav": true,
	".m4a": true,
}

// SupportedExtensions returns the accepted audio file extensions.
func SupportedExtensions() []string {
	return []string{".mp3", ".wav", ".m4a"}
}

// IsSupportedExtension reports whether ext (with leading dot) is accepted.
func IsSupportedExtension(ext string) bool {
	return supportedExtensions[strings.ToLower(ext)]
}

// Transcriber is the gateway subset the processor needs.
type Transcriber interface {
	Transcribe(ctx context.Context, req openaiapi.TranscriptionRequest) (string, error)
}

// Processor validates audio files and turns them into transcripts.
type Processor struct {
	gateway     Transcriber
	logger      zerolog.Logger
	maxFileSize int64
	maxDuration time.Duration
}

func NewProcessor(gateway Transcriber, logger zerolog.Logger, maxFileSize int64, maxDuration time.Duration) *Processor {
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSizeBytes
	}
	if maxDuration <= 0 {
		maxDuration = DefaultMaxDuration
	}
	return &Processor{
		gateway:     gateway,
		logger:      logger,
		maxFileSize: maxFileSize,
		maxDuration: maxDuration,
	}
}

// Validate checks extension, size, and (for WAV files) duration without
// touching the transcription API.
func (p *Processor) Validate(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if !supportedExtensions[ext] {
		return &UnsupportedFormatError{Ext: ext}
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat audio file: %w", err)
	}
	if info.Size() > p.maxFileSize {
		return &FileSizeError{Size: info.Size(), Limit: p.maxFileSize}
	}

	if ext == ".wav" {
		duration, err := wavDuration(path)
		if err != nil {
			// Probe failures are not fatal; the API rejects unreadable audio.
			p.logger.Warn().Err(err).Str("file", path).Msg("could not probe wav duration")
			return nil
		}
		if duration > p.maxDuration {
			return &DurationError{Duration: duration, Limit: p.maxDuration}
		}
	}
	return nil
}

// Transcribe validates the file and sends it to the transcription API.
// language follows the gateway's convention: empty or "auto" lets the API
// detect it.
func (p *Processor) Transcribe(ctx context.Context, path, language string) (string, error) {
	if err := p.Validate(path); err != nil {
		return "", err
	}

	p.logger.Info().Str("file", path).Msg("transcribing audio")
	text, err := p.gateway.Transcribe(ctx, openaiapi.TranscriptionRequest{
		FilePath: path,
		Language: language,
	})
	if err != nil {
		return "", fmt.Errorf("transcribe %s: %w", filepath.Base(path), err)
	}
	return text, nil
}
