// SPDX-License-Identifier: EPL-2.0

// Command audxtract converts the first audio track of a media file into a
// 16 kHz mono 16-bit PCM WAV file.
//
//	audxtract [-config file.yaml] [-metrics-textfile path] <src> <dst>
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ik5/audxtract"
	"github.com/ik5/audxtract/codec"
	"github.com/ik5/audxtract/config"
	"github.com/ik5/audxtract/extract"
	"github.com/ik5/audxtract/metrics"
)

const (
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("audxtract", flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to configuration file")
	textfile := fs.String("metrics-textfile", "", "Write Prometheus metrics to this file after the run")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: audxtract [flags] <src> <dst>\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return exitUsage
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return exitFailure
	}
	if *textfile != "" {
		cfg.Metrics.Textfile = *textfile
	}

	logger := initLogger(cfg.Logging)

	promReg := prometheus.NewRegistry()
	m := metrics.New(promReg)

	reg := audxtract.NewRegistry(codec.Options{
		InputSlots:       cfg.Extract.InputSlots,
		OutputSlots:      cfg.Extract.OutputSlots,
		InputBufferSize:  cfg.Extract.InputBufferSize,
		OutputBufferSize: cfg.Extract.OutputBufferSize,
	})

	e := extract.New(reg,
		extract.WithLogger(logger),
		extract.WithMetrics(m),
		extract.WithDequeueTimeout(cfg.Extract.DequeueTimeout()),
	)

	src, dst := fs.Arg(0), fs.Arg(1)
	ok := e.ExtractAudioToWav(src, dst)

	if cfg.Metrics.Textfile != "" {
		if err := prometheus.WriteToTextfile(cfg.Metrics.Textfile, promReg); err != nil {
			logger.Error("Failed to write metrics", slog.String("path", cfg.Metrics.Textfile), slog.String("error", err.Error()))
		}
	}

	if !ok {
		return exitFailure
	}

	logger.Info("Extraction finished", slog.String("src", src), slog.String("dst", dst))
	return 0
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// initLogger builds the logger from the logging section. Logs go to stderr
// so stdout stays clean.
func initLogger(cfg config.LoggingConfig) *slog.Logger {
	level := parseLevel(cfg.Level)
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	var logger *slog.Logger
	switch cfg.Format {
	case "json":
		logger = slog.New(slog.NewJSONHandler(os.Stderr, opts))
	case "stdr":
		// slog debug maps to logr V(4)
		if level <= slog.LevelDebug {
			stdr.SetVerbosity(4)
		}
		lr := stdr.New(log.New(os.Stderr, "", log.LstdFlags))
		logger = slog.New(logr.ToSlogHandler(lr))
	default:
		logger = slog.New(slog.NewTextHandler(os.Stderr, opts))
	}

	return logger
}
