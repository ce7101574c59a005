package app

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"horse.fit/podscript/internal/cli"
	"horse.fit/podscript/internal/config"
	"horse.fit/podscript/internal/history"
	"horse.fit/podscript/internal/logging"
)

func runHealth(args []string) int {
	fs := flag.NewFlagSet("health", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if envLoader != nil {
		if _, err := envLoader.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration check failed: %v\n", err)
		return 1
	}

	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Logger check failed: %v\n", err)
		return 1
	}

	store, err := history.NewStore(cfg.DataDir, cfg.MaxHistories, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Data directory check failed: %v\n", err)
		return 1
	}
	records, err := store.All()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Data directory check failed: %v\n", err)
		return 1
	}

	fmt.Println("Configuration OK")
	fmt.Printf("Model: %s (transcription: %s)\n", cfg.Model, cfg.WhisperModel)
	fmt.Printf("Data directory: %s (%d saved run(s), limit %d)\n", cfg.DataDir, len(records), cfg.MaxHistories)
	return 0
}
