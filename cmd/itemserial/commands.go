package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/zoobzio/itemserial"
)

func decodeCmd(ctx context.Context, e *env, args []string) error {
	var output, fingerprint string

	flagSet := pflag.NewFlagSet("decode", pflag.ContinueOnError)
	flagSet.StringVarP(&output, "output", "o", e.cfg.Output, "output format: table or json")
	flagSet.StringVar(&fingerprint, "fingerprint", string(e.cfg.Fingerprint), "add a fingerprint column: sha256, blake2b or blake3")
	if err := flagSet.Parse(args); err != nil {
		return &exitError{code: 2, err: err}
	}
	if output != outputTable && output != outputJSON {
		return usageError("unknown output %q", output)
	}

	opts := []itemserial.ProcessorOption{itemserial.WithWorkers(e.cfg.Workers)}
	if fingerprint != "" {
		f, err := itemserial.FingerprinterFor(itemserial.FingerprintAlgo(fingerprint))
		if err != nil {
			return usageError("%v", err)
		}
		opts = append(opts, itemserial.WithFingerprinter(f))
	}

	proc, err := newProcessor(ctx, e, opts...)
	if err != nil {
		return err
	}
	texts, err := readSerials(e, flagSet.Args())
	if err != nil {
		return err
	}

	results := proc.DecodeText(ctx, texts)
	summaries := make([]itemserial.Summary, 0, len(results))
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			e.logger.Error("decode failed", "index", r.Index, "error", r.Err)
			continue
		}
		sum, err := itemserial.Summarize(r.Serial, nil)
		if err != nil {
			failed++
			e.logger.Error("summarize failed", "index", r.Index, "error", err)
			continue
		}
		sum.Fingerprint = r.Fingerprint
		if r.State == itemserial.StateUnsupported {
			e.logger.Warn("serial format newer than catalog", "index", r.Index, "version", sum.Version)
		}
		summaries = append(summaries, sum)
	}

	if output == outputJSON {
		codec, _ := codecFor("json")
		data, err := codec.Marshal(summaries)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(e.stdout, string(data)); err != nil {
			return err
		}
	} else if err := itemserial.WriteReport(e.stdout, summaries); err != nil {
		return err
	}

	return failures(failed, len(results))
}

func relevelCmd(ctx context.Context, e *env, args []string) error {
	var level int
	keepSeed := e.cfg.KeepSeed

	flagSet := pflag.NewFlagSet("relevel", pflag.ContinueOnError)
	flagSet.IntVar(&level, "level", -1, "new item level (required)")
	flagSet.BoolVar(&keepSeed, "keep-seed", keepSeed, "re-obfuscate with the original seed instead of seed 0")
	if err := flagSet.Parse(args); err != nil {
		return &exitError{code: 2, err: err}
	}
	if !flagSet.Changed("level") {
		return usageError("relevel requires --level")
	}
	if level < 0 || level > itemserial.MaxLevel {
		return usageError("--level %d not in [0, %d]", level, itemserial.MaxLevel)
	}

	proc, err := newProcessor(ctx, e, itemserial.WithWorkers(e.cfg.Workers), itemserial.WithReseal(keepSeed))
	if err != nil {
		return err
	}
	texts, err := readSerials(e, flagSet.Args())
	if err != nil {
		return err
	}

	failed := 0
	for _, r := range proc.Relevel(ctx, texts, level) {
		switch {
		case r.Err != nil:
			failed++
			e.logger.Error("relevel failed", "index", r.Index, "error", r.Err)
		case r.State == itemserial.StateUnsupported:
			e.logger.Warn("skipping serial newer than catalog", "index", r.Index)
		default:
			if _, err := fmt.Fprintln(e.stdout, r.Serial.Text()); err != nil {
				return err
			}
		}
	}
	return failures(failed, len(texts))
}

func catalogConvertCmd(ctx context.Context, e *env, args []string) error {
	var in, out, to, compress string

	flagSet := pflag.NewFlagSet("catalog convert", pflag.ContinueOnError)
	flagSet.StringVar(&in, "in", e.cfg.Catalog, "input catalog document (format from --catalog-format)")
	flagSet.StringVar(&out, "out", "", "output path")
	flagSet.StringVar(&to, "to", "", "output format: json, yaml, msgpack, xml, bson, cbor")
	flagSet.StringVar(&compress, "compress", string(itemserial.CompressionNone), "output compression: none, zstd, lz4")
	if err := flagSet.Parse(args); err != nil {
		return &exitError{code: 2, err: err}
	}
	if in == "" || out == "" || to == "" {
		return usageError("catalog convert requires --in, --out and --to")
	}

	compression, err := itemserial.ParseCompression(compress)
	if err != nil {
		return usageError("%v", err)
	}
	inCodec, err := codecFor(e.cfg.CatalogFormat)
	if err != nil {
		return usageError("%v", err)
	}
	outCodec, err := codecFor(to)
	if err != nil {
		return usageError("%v", err)
	}

	catalog, err := itemserial.ReadCatalogFile(ctx, in, inCodec)
	if err != nil {
		return err
	}
	data, err := itemserial.EncodeCatalog(catalog, outCodec, compression)
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}

	e.logger.Info("catalog converted",
		"in", in,
		"out", out,
		"format", to,
		"compression", compression,
		"categories", len(catalog.Categories()),
		"bytes", len(data),
	)
	return nil
}

func newProcessor(ctx context.Context, e *env, opts ...itemserial.ProcessorOption) (*itemserial.Processor, error) {
	if e.cfg.Catalog == "" {
		return nil, usageError("no catalog: set --catalog or catalog in the config file")
	}
	codec, err := codecFor(e.cfg.CatalogFormat)
	if err != nil {
		return nil, usageError("%v", err)
	}
	catalog, err := itemserial.ReadCatalogFile(ctx, e.cfg.Catalog, codec)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("catalog loaded", "path", e.cfg.Catalog, "max_version", catalog.MaxVersion())
	return itemserial.NewProcessor(catalog, opts...)
}

// readSerials returns args, or the non-blank lines of stdin when args is
// empty.
func readSerials(e *env, args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	var texts []string
	scanner := bufio.NewScanner(e.stdin)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			texts = append(texts, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read serials: %w", err)
	}
	return texts, nil
}

func failures(failed, total int) error {
	if failed == 0 {
		return nil
	}
	return &exitError{code: 1, err: fmt.Errorf("%d of %d serials failed", failed, total)}
}
