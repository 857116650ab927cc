package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/zoobzio/itemserial"
)

// config holds the settings shared by every command.
type config struct {
	Catalog       string
	CatalogFormat string
	Workers       int
	Output        string
	Fingerprint   itemserial.FingerprintAlgo
	KeepSeed      bool
}

func defaultConfig() config {
	return config{
		CatalogFormat: "json",
		Output:        outputTable,
	}
}

type fileConfig struct {
	Catalog       string `toml:"catalog"`
	CatalogFormat string `toml:"catalog_format"`
	Workers       int    `toml:"workers"`
	Output        string `toml:"output"`
	Fingerprint   string `toml:"fingerprint"`
	KeepSeed      bool   `toml:"keep_seed"`
}

// loadConfig applies the keys set in the TOML file at path on top of cfg.
func loadConfig(path string, cfg config) (config, error) {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return config{}, fmt.Errorf("load config: %w", err)
	}

	if meta.IsDefined("catalog") {
		cfg.Catalog = strings.TrimSpace(raw.Catalog)
	}

	if meta.IsDefined("catalog_format") {
		cfg.CatalogFormat = strings.ToLower(strings.TrimSpace(raw.CatalogFormat))
	}

	if meta.IsDefined("workers") {
		cfg.Workers = raw.Workers
	}

	if meta.IsDefined("output") {
		cfg.Output = strings.ToLower(strings.TrimSpace(raw.Output))
	}

	if meta.IsDefined("fingerprint") {
		cfg.Fingerprint = itemserial.FingerprintAlgo(strings.ToLower(strings.TrimSpace(raw.Fingerprint)))
	}

	if meta.IsDefined("keep_seed") {
		cfg.KeepSeed = raw.KeepSeed
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return config{}, fmt.Errorf("load config: unknown key %q", undecoded[0].String())
	}

	return cfg, cfg.validate()
}

func (c config) validate() error {
	if _, err := codecFor(c.CatalogFormat); err != nil {
		return err
	}
	if c.Output != outputTable && c.Output != outputJSON {
		return fmt.Errorf("unknown output %q (want %s or %s)", c.Output, outputTable, outputJSON)
	}
	if c.Fingerprint != "" && !itemserial.IsValidFingerprintAlgo(c.Fingerprint) {
		return fmt.Errorf("unknown fingerprint algorithm %q", c.Fingerprint)
	}
	return nil
}
