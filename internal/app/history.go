package app

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"horse.fit/podscript/internal/cli"
	"horse.fit/podscript/internal/history"
)

func runHistory(args []string) int {
	if len(args) == 0 {
		printHistoryUsage()
		return 2
	}

	switch strings.ToLower(strings.TrimSpace(args[0])) {
	case "help", "--help", "-h":
		printHistoryUsage()
		return 0
	case "list":
		return runHistoryList(args[1:])
	case "show":
		return runHistoryShow(args[1:])
	case "export":
		return runHistoryExport(args[1:])
	case "verify":
		return runHistoryVerify(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown history subcommand: %s\n\n", args[0])
		printHistoryUsage()
		return 2
	}
}

func printHistoryUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  podscript history list           List saved runs")
	fmt.Fprintln(os.Stderr, "  podscript history show <id>      Print one run as JSON")
	fmt.Fprintln(os.Stderr, "  podscript history export <path>  Write all runs into one JSON file")
	fmt.Fprintln(os.Stderr, "  podscript history verify         Check record files against the schema")
}

func runHistoryList(args []string) int {
	fs := flag.NewFlagSet("history list", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	store, _, err := bootstrapStore(envLoader)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	records, err := store.All()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to list history: %v\n", err)
		return 1
	}
	if len(records) == 0 {
		fmt.Println("No saved runs.")
		return 0
	}

	for _, record := range records {
		artifacts := make([]string, 0, 3)
		if len(record.Titles) > 0 {
			artifacts = append(artifacts, fmt.Sprintf("%d titles", len(record.Titles)))
		}
		if record.Description != "" {
			artifacts = append(artifacts, "description")
		}
		if record.BlogPost != "" {
			artifacts = append(artifacts, "blog post")
		}
		fmt.Printf("%s  %s  %s (%s, %s): %s\n",
			record.ID,
			record.Timestamp.Format("2006-01-02 15:04"),
			record.SourceFile,
			record.FileType,
			record.Language,
			strings.Join(artifacts, ", "))
	}
	return 0
}

func runHistoryShow(args []string) int {
	fs := flag.NewFlagSet("history show", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "history show expects exactly one record id")
		return 2
	}

	store, _, err := bootstrapStore(envLoader)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	record, err := store.Load(fs.Arg(0))
	if err != nil {
		if errors.Is(err, history.ErrNotFound) {
			fmt.Fprintf(os.Stderr, "No record with id %s\n", fs.Arg(0))
			return 2
		}
		fmt.Fprintf(os.Stderr, "Failed to load record: %v\n", err)
		return 1
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(record); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to encode record: %v\n", err)
		return 1
	}
	return 0
}

func runHistoryExport(args []string) int {
	fs := flag.NewFlagSet("history export", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "history export expects exactly one output path")
		return 2
	}

	store, _, err := bootstrapStore(envLoader)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if err := store.Export(fs.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to export history: %v\n", err)
		return 1
	}
	fmt.Printf("Exported history to %s\n", fs.Arg(0))
	return 0
}

func runHistoryVerify(args []string) int {
	fs := flag.NewFlagSet("history verify", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	store, _, err := bootstrapStore(envLoader)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	result, err := store.Verify()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to verify history: %v\n", err)
		return 1
	}

	fmt.Printf("Checked %d record file(s)\n", result.Checked)
	if result.OK() {
		fmt.Println("All records are valid.")
		return 0
	}
	for _, name := range result.InvalidFiles() {
		fmt.Fprintf(os.Stderr, "  %s: %s\n", name, result.Invalid[name])
	}
	return 1
}
