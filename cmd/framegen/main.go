// Package main is the entry point for the framegen pattern generator.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/quanterra/framegen/internal/app"
	"github.com/quanterra/framegen/internal/loader"
	"github.com/quanterra/framegen/internal/scan"
	"github.com/quanterra/framegen/internal/watch"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

type options struct {
	ConfigPath string
	TraceCell  int
	Dict       bool
	Load       bool
	Watch      bool
	LogLevel   string
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	log := newLogger(opts.LogLevel)

	// Load mode copies a prebuilt file into a buffer; it needs no
	// configuration file.
	if opts.Load {
		return runLoad(log)
	}

	application, err := app.New(opts.ConfigPath, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	switch {
	case opts.TraceCell >= 0:
		err = application.TraceCell(os.Stdout, opts.TraceCell)
	case opts.Dict:
		err = application.PrintDictionary(os.Stdout)
	case opts.Watch:
		err = runWatch(application, log)
	default:
		err = application.Generate()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func runLoad(log *slog.Logger) int {
	args := flag.Args()
	if len(args) != 3 {
		fmt.Fprintln(os.Stderr, "Error: -load needs <filename> <destination> <size_limit>")
		return 1
	}
	limit, err := scan.ParseScaled(args[2])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: bad size limit: %v\n", err)
		return 1
	}
	if err := loader.New(loader.WithLogger(log)).Load(args[0], args[1], limit); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func runWatch(application *app.App, log *slog.Logger) error {
	watcher, err := watch.New(application.WatchedFiles(), application.Generate, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("watching definition files", "files", application.WatchedFiles())
	if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func parseFlags() options {
	opts := options{}
	var showVersion bool

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file")
	flag.IntVar(&opts.TraceCell, "trace", -1, "Trace a cell of an existing output file instead of generating")
	flag.BoolVar(&opts.Dict, "dict", false, "Display the data dictionary instead of generating")
	flag.BoolVar(&opts.Load, "load", false, "Load a file into a buffer: -load <filename> <destination> <size_limit>")
	flag.BoolVar(&opts.Watch, "watch", false, "Regenerate the output whenever a definition file changes")
	flag.StringVar(&opts.LogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "framegen - sensor test-pattern generator\n\n")
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  framegen [-config <filename>]\n")
		fmt.Fprintf(os.Stderr, "  framegen -trace <cell_number>\n")
		fmt.Fprintf(os.Stderr, "  framegen -dict\n")
		fmt.Fprintf(os.Stderr, "  framegen -watch\n")
		fmt.Fprintf(os.Stderr, "  framegen -load <filename> <destination> <size_limit>\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nSizes may be decimal or hex, with optional K, M, or G suffixes.\n")
		fmt.Fprintf(os.Stderr, "Verilog-style underscores are allowed in hex values.\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("framegen %s (%s)\n", version, commit)
		os.Exit(0)
	}

	switch opts.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q\n", opts.LogLevel)
		os.Exit(2)
	}
	return opts
}

func newLogger(level string) *slog.Logger {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}
