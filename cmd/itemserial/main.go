// itemserial decodes, re-levels and inspects item serials against a part
// catalog, and converts catalog documents between formats.
//
// Usage:
//
//	itemserial [global flags] decode [--output table|json] [--fingerprint algo] [serial...]
//	itemserial [global flags] relevel --level N [--keep-seed] [serial...]
//	itemserial [global flags] catalog convert --in path --out path --to format [--compress none|zstd|lz4]
//
// Serials are given in BL3(<base64>) form. With no serial arguments they
// are read from stdin, one per line.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
)

// Output formats for decode.
const (
	outputTable = "table"
	outputJSON  = "json"
)

// exitError carries a process exit status.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }
func (e *exitError) ExitCode() int { return e.code }

// usageError reports bad invocation with exit status 2.
func usageError(format string, args ...any) error {
	return &exitError{code: 2, err: fmt.Errorf(format, args...)}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		var coder interface{ ExitCode() int }
		if errors.As(err, &coder) {
			os.Exit(coder.ExitCode())
		}
		os.Exit(1)
	}
}

// env is what every command receives.
type env struct {
	cfg    config
	logger *slog.Logger
	stdin  io.Reader
	stdout io.Writer
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var (
		configPath    string
		catalogPath   string
		catalogFormat string
		workers       int
		verbose       bool
	)

	flagSet := pflag.NewFlagSet("itemserial", pflag.ContinueOnError)
	flagSet.SetInterspersed(false)
	flagSet.SetOutput(stderr)
	flagSet.StringVar(&configPath, "config", "", "path to a TOML config file")
	flagSet.StringVar(&catalogPath, "catalog", "", "path to the part catalog document")
	flagSet.StringVar(&catalogFormat, "catalog-format", "json", "catalog document format: json, yaml, msgpack, xml, bson, cbor")
	flagSet.IntVar(&workers, "workers", 0, "concurrent workers (0 uses GOMAXPROCS)")
	flagSet.BoolVarP(&verbose, "verbose", "v", false, "log debug output")
	flagSet.Usage = func() { printUsage(stderr, flagSet) }

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return &exitError{code: 2, err: err}
	}

	cfg := defaultConfig()
	if configPath != "" {
		var err error
		if cfg, err = loadConfig(configPath, cfg); err != nil {
			return err
		}
	}
	if flagSet.Changed("catalog") {
		cfg.Catalog = catalogPath
	}
	if flagSet.Changed("catalog-format") {
		cfg.CatalogFormat = catalogFormat
	}
	if flagSet.Changed("workers") {
		cfg.Workers = workers
	}
	if err := cfg.validate(); err != nil {
		return usageError("%v", err)
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	e := &env{
		cfg:    cfg,
		logger: slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})),
		stdin:  stdin,
		stdout: stdout,
	}

	rest := flagSet.Args()
	if len(rest) == 0 {
		printUsage(stderr, flagSet)
		return usageError("missing command")
	}

	switch cmd, cmdArgs := rest[0], rest[1:]; cmd {
	case "decode":
		return decodeCmd(ctx, e, cmdArgs)
	case "relevel":
		return relevelCmd(ctx, e, cmdArgs)
	case "catalog":
		if len(cmdArgs) == 0 || cmdArgs[0] != "convert" {
			return usageError("usage: itemserial catalog convert --in path --out path --to format")
		}
		return catalogConvertCmd(ctx, e, cmdArgs[1:])
	case "help":
		printUsage(stdout, flagSet)
		return nil
	default:
		return usageError("unknown command %q", cmd)
	}
}

func printUsage(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprint(w, `itemserial decodes and re-levels item serials against a part catalog.

Usage:
  itemserial [flags] decode [--output table|json] [--fingerprint sha256|blake2b|blake3] [serial...]
  itemserial [flags] relevel --level N [--keep-seed] [serial...]
  itemserial [flags] catalog convert --in path --out path --to format [--compress none|zstd|lz4]

Serials are BL3(<base64>) strings. Without arguments they are read from
stdin, one per line.

Flags:
`)
	flagSet.SetOutput(w)
	flagSet.PrintDefaults()
}
