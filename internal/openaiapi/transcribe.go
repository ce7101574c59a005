package openaiapi

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/packages/param"

	"horse.fit/podscript/internal/language"
)

// DefaultTranscribeTimeout bounds a single transcription attempt. Audio
// uploads are slow compared to chat calls.
const DefaultTranscribeTimeout = 5 * time.Minute

type TranscriptionRequest struct {
	FilePath    string
	Language    string
	Prompt      string
	MaxAttempts int
	Timeout     time.Duration
}

// Transcribe runs a validated audio file through the transcription endpoint
// and returns the transcript text. The file is reopened per attempt so a
// retried upload starts from the beginning.
func (c *Client) Transcribe(ctx context.Context, req TranscriptionRequest) (string, error) {
	if c == nil {
		return "", fmt.Errorf("openai client is not initialized")
	}
	filePath := strings.TrimSpace(req.FilePath)
	if filePath == "" {
		return "", fmt.Errorf("audio file path is required")
	}

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = DefaultTranscribeTimeout
	}

	var transcript string
	callOpts := CallOptions{MaxAttempts: req.MaxAttempts, Timeout: timeout}
	err := c.invoke(ctx, "audio_transcription", callOpts, func(callCtx context.Context) error {
		file, err := os.Open(filePath)
		if err != nil {
			return err
		}
		defer file.Close()

		params := openai.AudioTranscriptionNewParams{
			File:           file,
			Model:          openai.AudioModel(c.whisperModel),
			ResponseFormat: openai.AudioResponseFormatJSON,
		}
		if lang := language.Normalize(req.Language); lang != "" && lang != language.Auto {
			params.Language = param.NewOpt(lang)
		}
		if prompt := strings.TrimSpace(req.Prompt); prompt != "" {
			params.Prompt = param.NewOpt(prompt)
		}

		resp, err := c.api.Audio.Transcriptions.New(callCtx, params)
		if err != nil {
			return err
		}
		text := strings.TrimSpace(resp.Text)
		if text == "" {
			return fmt.Errorf("transcription response is empty")
		}
		transcript = text
		return nil
	})
	if err != nil {
		return "", err
	}
	return transcript, nil
}
