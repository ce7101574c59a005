package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"horse.fit/podscript/internal/audio"
	"horse.fit/podscript/internal/cli"
	"horse.fit/podscript/internal/generate"
	"horse.fit/podscript/internal/language"
	"horse.fit/podscript/internal/manuscript"
	"horse.fit/podscript/internal/pipeline"
)

func runProcess(args []string) int {
	fs := flag.NewFlagSet("process", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	lang := fs.String("language", language.Auto, "Output language (auto, en, ja, ...)")
	titles := fs.Bool("titles", false, "Generate episode titles")
	description := fs.Bool("description", false, "Generate an episode description")
	blog := fs.Bool("blog", false, "Generate a blog post")
	timeout := fs.Duration("timeout", 15*time.Minute, "Overall command timeout")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "process expects exactly one file argument")
		return 2
	}
	path := fs.Arg(0)

	var kinds []generate.Kind
	if *titles {
		kinds = append(kinds, generate.KindTitles)
	}
	if *description {
		kinds = append(kinds, generate.KindDescription)
	}
	if *blog {
		kinds = append(kinds, generate.KindBlogPost)
	}

	svc, err := bootstrap(envLoader)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		cancel()
	}()

	transcript, fileType, err := extractTranscript(ctx, svc, path, *lang)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		if pipeline.Classify(err) == pipeline.FailureValidation || isInputError(err) {
			return 2
		}
		return 1
	}

	result, err := svc.pipeline.Run(ctx, pipeline.Request{
		Transcript: transcript,
		SourceFile: filepath.Base(path),
		FileType:   fileType,
		Language:   *lang,
		Kinds:      kinds,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		if pipeline.Classify(err) == pipeline.FailureValidation {
			return 2
		}
		return 1
	}

	printResult(result)
	return 0
}

func extractTranscript(ctx context.Context, svc *services, path, lang string) (string, string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case ext == ".txt":
		m, err := svc.manuscripts.Read(path)
		if err != nil {
			return "", "", err
		}
		if err := m.RequireLanguage(lang); err != nil {
			return "", "", err
		}
		return m.Text, "text", nil
	case audio.IsSupportedExtension(ext):
		text, err := svc.audio.Transcribe(ctx, path, lang)
		if err != nil {
			return "", "", err
		}
		return text, "audio", nil
	default:
		return "", "", &audio.UnsupportedFormatError{Ext: ext}
	}
}

func isInputError(err error) bool {
	var (
		unsupportedAudio *audio.UnsupportedFormatError
		unsupportedText  *manuscript.UnsupportedFormatError
		audioSize        *audio.FileSizeError
		textSize         *manuscript.FileSizeError
		duration         *audio.DurationError
	)
	return errors.As(err, &unsupportedAudio) || errors.As(err, &unsupportedText) ||
		errors.As(err, &audioSize) || errors.As(err, &textSize) ||
		errors.As(err, &duration) ||
		errors.Is(err, manuscript.ErrEmptyManuscript) ||
		errors.Is(err, manuscript.ErrUnknownLanguage)
}

func printResult(result *pipeline.Result) {
	fmt.Printf("Language: %s\n", result.Language)
	fmt.Printf("History ID: %s\n", result.HistoryID)

	if len(result.Titles) > 0 {
		fmt.Println("\nTitles:")
		for i, title := range result.Titles {
			fmt.Printf("  %d. %s\n", i+1, title)
		}
	}
	if result.Description != "" {
		fmt.Println("\nDescription:")
		fmt.Println(result.Description)
	}
	if result.BlogPost != "" {
		fmt.Println("\nBlog post:")
		fmt.Println(result.BlogPost)
	}
}
