package openaiapi

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/rs/zerolog"
)

const (
	// DefaultMaxAttempts is the attempt ceiling for one logical API call.
	DefaultMaxAttempts = 3
	// DefaultTimeout bounds a single attempt.
	DefaultTimeout = 30 * time.Second

	DefaultModel        = "gpt-4o-mini"
	DefaultWhisperModel = "whisper-1"

	baseRetryDelay = time.Second
)

type Config struct {
	APIKey       string
	BaseURL      string
	Model        string
	WhisperModel string
	Logger       zerolog.Logger
}

// Client owns the process-wide OpenAI handle. Every call, transcription and
// generation alike, goes through invoke and inherits the same retry contract.
type Client struct {
	api          openai.Client
	model        string
	whisperModel string
	logger       zerolog.Logger
	baseDelay    time.Duration
	sleep        func(time.Duration)
}

func NewClient(cfg Config) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	requestOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL := strings.TrimSpace(cfg.BaseURL); baseURL != "" {
		requestOpts = append(requestOpts, option.WithBaseURL(baseURL))
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}
	whisperModel := strings.TrimSpace(cfg.WhisperModel)
	if whisperModel == "" {
		whisperModel = DefaultWhisperModel
	}

	return &Client{
		api:          openai.NewClient(requestOpts...),
		model:        model,
		whisperModel: whisperModel,
		logger:       cfg.Logger,
		baseDelay:    baseRetryDelay,
		sleep:        time.Sleep,
	}, nil
}

// CallOptions tune one logical call. Zero values fall back to defaults.
type CallOptions struct {
	MaxAttempts int
	Timeout     time.Duration
}

// invoke runs fn up to the attempt ceiling. Connection-class failures and
// rate-limit signals share the exponential backoff schedule; after the last
// attempt the failure surfaces as a ConnectionError. Fatal errors propagate
// immediately without retry.
func (c *Client) invoke(ctx context.Context, op string, opts CallOptions, fn func(context.Context) error) error {
	maxAttempts := opts.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		err := fn(attemptCtx)
		cancel()
		if err == nil {
			return nil
		}

		kind := classify(err)
		if kind == kindFatal {
			return err
		}
		lastErr = err

		event := c.logger.Warn().
			Err(err).
			Str("op", op).
			Int("attempt", attempt+1).
			Int("max_attempts", maxAttempts).
			Bool("rate_limited", kind == kindRateLimit)
		if attempt+1 >= maxAttempts {
			event.Msg("api call failed, attempts exhausted")
			break
		}

		delay := c.baseDelay << attempt
		event.Dur("backoff", delay).Msg("api call failed, retrying")
		c.sleep(delay)
	}

	return &ConnectionError{Op: op, Attempts: maxAttempts, Err: lastErr}
}
