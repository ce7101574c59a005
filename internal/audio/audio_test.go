package audio

import (
	"context"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"horse.fit/podscript/internal/openaiapi"
)

type stubTranscriber struct {
	requests []openaiapi.TranscriptionRequest
	text     string
	err      error
}

func (s *stubTranscriber) Transcribe(_ context.Context, req openaiapi.TranscriptionRequest) (string, error) {
	s.requests = append(s.requests, req)
	if s.err != nil {
		return "", s.err
	}
	return s.text, nil
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// writeWAV builds a canonical PCM WAV holding the given number of seconds
// at the given byte rate.
func writeWAV(t *testing.T, seconds int, byteRate uint32) string {
	t.Helper()

	dataSize := uint32(seconds) * byteRate
	data := make([]byte, dataSize)

	buf := make([]byte, 0, 44+len(data))
	buf = append(buf, "RIFF"...)
	buf = binary.LittleEndian.AppendUint32(buf, 36+dataSize)
	buf = append(buf, "WAVE"...)
	buf = append(buf, "fmt "...)
	buf = binary.LittleEndian.AppendUint32(buf, 16)
	buf = binary.LittleEndian.AppendUint16(buf, 1) // PCM
	buf = binary.LittleEndian.AppendUint16(buf, 1) // mono
	buf = binary.LittleEndian.AppendUint32(buf, byteRate)
	buf = binary.LittleEndian.AppendUint32(buf, byteRate)
	buf = binary.LittleEndian.AppendUint16(buf, 1)
	buf = binary.LittleEndian.AppendUint16(buf, 8)
	buf = append(buf, "data"...)
	buf = binary.LittleEndian.AppendUint32(buf, dataSize)
	buf = append(buf, data...)

	return writeFile(t, "episode.wav", buf)
}

func TestValidateRejectsUnsupportedExtension(t *testing.T) {
	t.Parallel()

	processor := NewProcessor(&stubTranscriber{}, zerolog.Nop(), 0, 0)
	path := writeFile(t, "episode.ogg", []byte("data"))

	err := processor.Validate(path)
	var unsupported *UnsupportedFormatError
	if !errors.As(err, &unsupported) {
		t.Fatalf("Validate error = %v, want UnsupportedFormatError", err)
	}
	if unsupported.Ext != ".ogg" {
		t.Errorf("Ext = %q, want .ogg", unsupported.Ext)
	}
}

func TestValidateRejectsOversizedFile(t *testing.T) {
	t.Parallel()

	processor := NewProcessor(&stubTranscriber{}, zerolog.Nop(), 10, 0)
	path := writeFile(t, "episode.mp3", make([]byte, 11))

	err := processor.Validate(path)
	var tooLarge *FileSizeError
	if !errors.As(err, &tooLarge) {
		t.Fatalf("Validate error = %v, want FileSizeError", err)
	}
	if tooLarge.Size != 11 || tooLarge.Limit != 10 {
		t.Errorf("FileSizeError = %+v", tooLarge)
	}
}

func TestValidateRejectsLongWAV(t *testing.T) {
	t.Parallel()

	processor := NewProcessor(&stubTranscriber{}, zerolog.Nop(), 0, time.Minute)
	path := writeWAV(t, 90, 1000)

	err := processor.Validate(path)
	var tooLong *DurationError
	if !errors.As(err, &tooLong) {
		t.Fatalf("Validate error = %v, want DurationError", err)
	}
	if tooLong.Duration != 90*time.Second {
		t.Errorf("Duration = %s, want 90s", tooLong.Duration)
	}
}

func TestValidateAcceptsShortWAV(t *testing.T) {
	t.Parallel()

	processor := NewProcessor(&stubTranscriber{}, zerolog.Nop(), 0, time.Minute)
	path := writeWAV(t, 30, 1000)

	if err := processor.Validate(path); err != nil {
		t.Errorf("Validate returned error: %v", err)
	}
}

func TestValidateSkipsDurationForNonWAV(t *testing.T) {
	t.Parallel()

	processor := NewProcessor(&stubTranscriber{}, zerolog.Nop(), 0, time.Nanosecond)
	path := writeFile(t, "episode.mp3", []byte("not probed"))

	if err := processor.Validate(path); err != nil {
		t.Errorf("Validate returned error: %v", err)
	}
}

func TestValidateToleratesBrokenWAVHeader(t *testing.T) {
	t.Parallel()

	processor := NewProcessor(&stubTranscriber{}, zerolog.Nop(), 0, time.Minute)
	path := writeFile(t, "episode.wav", []byte("not a riff header at all"))

	if err := processor.Validate(path); err != nil {
		t.Errorf("Validate returned error: %v, want nil for an unprobeable file", err)
	}
}

func TestTranscribeSendsFileToGateway(t *testing.T) {
	t.Parallel()

	gateway := &stubTranscriber{text: "the transcript"}
	processor := NewProcessor(gateway, zerolog.Nop(), 0, 0)
	path := writeFile(t, "episode.mp3", []byte("audio"))

	text, err := processor.Transcribe(context.Background(), path, "ja")
	if err != nil {
		t.Fatalf("Transcribe returned error: %v", err)
	}
	if text != "the transcript" {
		t.Errorf("text = %q", text)
	}
	if len(gateway.requests) != 1 {
		t.Fatalf("gateway received %d requests, want 1", len(gateway.requests))
	}
	req := gateway.requests[0]
	if req.FilePath != path {
		t.Errorf("FilePath = %q, want %q", req.FilePath, path)
	}
	if req.Language != "ja" {
		t.Errorf("Language = %q, want ja", req.Language)
	}
}

func TestTranscribeValidatesFirst(t *testing.T) {
	t.Parallel()

	gateway := &stubTranscriber{text: "unused"}
	processor := NewProcessor(gateway, zerolog.Nop(), 0, 0)
	path := writeFile(t, "episode.flac", []byte("audio"))

	_, err := processor.Transcribe(context.Background(), path, "")
	var unsupported *UnsupportedFormatError
	if !errors.As(err, &unsupported) {
		t.Fatalf("Transcribe error = %v, want UnsupportedFormatError", err)
	}
	if len(gateway.requests) != 0 {
		t.Error("gateway was called for an invalid file")
	}
}

func TestTranscribeWrapsGatewayError(t *testing.T) {
	t.Parallel()

	cause := &openaiapi.ConnectionError{Op: "transcription", Attempts: 3, Err: errors.New("refused")}
	gateway := &stubTranscriber{err: cause}
	processor := NewProcessor(gateway, zerolog.Nop(), 0, 0)
	path := writeFile(t, "episode.mp3", []byte("audio"))

	_, err := processor.Transcribe(context.Background(), path, "")
	var connection *openaiapi.ConnectionError
	if !errors.As(err, &connection) {
		t.Fatalf("Transcribe error = %v, want wrapped ConnectionError", err)
	}
}
