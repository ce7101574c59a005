package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"local"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	OpenAIAPIKey  string `envconfig:"OPENAI_API_KEY" required:"true"`
	OpenAIBaseURL string `envconfig:"OPENAI_BASE_URL" default:""`

	Model        string `envconfig:"PODSCRIPT_MODEL" default:"gpt-4o-mini"`
	WhisperModel string `envconfig:"PODSCRIPT_WHISPER_MODEL" default:"whisper-1"`

	DataDir      string `envconfig:"PODSCRIPT_DATA_DIR" default:"./data"`
	MaxHistories int    `envconfig:"PODSCRIPT_MAX_HISTORIES" default:"10"`

	MaxTranscriptChars int   `envconfig:"PODSCRIPT_MAX_TRANSCRIPT_CHARS" default:"8000"`
	MaxFileSizeBytes   int64 `envconfig:"MAX_FILE_SIZE" default:"1073741824"`
	MaxAudioMinutes    int   `envconfig:"MAX_AUDIO_DURATION" default:"120"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.OpenAIAPIKey) == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("PODSCRIPT_MODEL is required")
	}
	if strings.TrimSpace(c.WhisperModel) == "" {
		return fmt.Errorf("PODSCRIPT_WHISPER_MODEL is required")
	}
	if strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("PODSCRIPT_DATA_DIR is required")
	}
	if c.MaxHistories < 1 {
		return fmt.Errorf("PODSCRIPT_MAX_HISTORIES must be >= 1")
	}
	if c.MaxTranscriptChars < 1 {
		return fmt.Errorf("PODSCRIPT_MAX_TRANSCRIPT_CHARS must be >= 1")
	}
	if c.MaxFileSizeBytes < 1 {
		return fmt.Errorf("MAX_FILE_SIZE must be >= 1")
	}
	if c.MaxAudioMinutes < 1 {
		return fmt.Errorf("MAX_AUDIO_DURATION must be >= 1")
	}
	return nil
}
