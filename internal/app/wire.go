package app

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"horse.fit/podscript/internal/audio"
	"horse.fit/podscript/internal/cli"
	"horse.fit/podscript/internal/config"
	"horse.fit/podscript/internal/generate"
	"horse.fit/podscript/internal/history"
	"horse.fit/podscript/internal/logging"
	"horse.fit/podscript/internal/manuscript"
	"horse.fit/podscript/internal/openaiapi"
	"horse.fit/podscript/internal/pipeline"
)

// services bundles everything a command needs after bootstrap.
type services struct {
	cfg         *config.Config
	logger      zerolog.Logger
	store       *history.Store
	pipeline    *pipeline.Service
	audio       *audio.Processor
	manuscripts *manuscript.Reader
}

// bootstrap loads env + config and wires the full service graph. Commands
// that only touch the history store use bootstrapStore instead.
func bootstrap(envLoader *cli.EnvLoader) (*services, error) {
	cfg, logger, err := loadConfig(envLoader)
	if err != nil {
		return nil, err
	}

	store, err := history.NewStore(cfg.DataDir, cfg.MaxHistories, logger)
	if err != nil {
		return nil, fmt.Errorf("initialize history store: %w", err)
	}

	gateway, err := openaiapi.NewClient(openaiapi.Config{
		APIKey:       cfg.OpenAIAPIKey,
		BaseURL:      cfg.OpenAIBaseURL,
		Model:        cfg.Model,
		WhisperModel: cfg.WhisperModel,
		Logger:       logger,
	})
	if err != nil {
		return nil, fmt.Errorf("initialize api gateway: %w", err)
	}

	engine := generate.NewService(gateway, store, logger, cfg.MaxTranscriptChars)

	return &services{
		cfg:         cfg,
		logger:      logger,
		store:       store,
		pipeline:    pipeline.NewService(engine, store, logger),
		audio:       audio.NewProcessor(gateway, logger, cfg.MaxFileSizeBytes, time.Duration(cfg.MaxAudioMinutes)*time.Minute),
		manuscripts: manuscript.NewReader(logger, cfg.MaxFileSizeBytes),
	}, nil
}

func bootstrapStore(envLoader *cli.EnvLoader) (*history.Store, zerolog.Logger, error) {
	cfg, logger, err := loadConfig(envLoader)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	store, err := history.NewStore(cfg.DataDir, cfg.MaxHistories, logger)
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("initialize history store: %w", err)
	}
	return store, logger, nil
}

func loadConfig(envLoader *cli.EnvLoader) (*config.Config, zerolog.Logger, error) {
	if envLoader != nil {
		if _, err := envLoader.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("initialize logger: %w", err)
	}
	return cfg, logger, nil
}
