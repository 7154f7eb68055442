package main

import (
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

type scanConfig struct {
	// MinGap is the smallest expected delay between transaction starts.
	// Closer pairs are reported. Zero disables the check.
	MinGap time.Duration
	// WritesOnly keeps only write frames in the command history.
	WritesOnly bool
}

type fileConfig struct {
	MinGap     string `toml:"min_gap"`
	WritesOnly bool   `toml:"writes_only"`
}

func loadScanConfig(path string) (scanConfig, error) {
	var cfg scanConfig
	if path == "" {
		return cfg, nil
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return scanConfig{}, errors.Wrap(err, "load scan config")
	}

	if meta.IsDefined("min_gap") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.MinGap))
		if err != nil {
			return scanConfig{}, errors.Wrap(err, "parse min_gap")
		}
		cfg.MinGap = d
	}

	if meta.IsDefined("writes_only") {
		cfg.WritesOnly = raw.WritesOnly
	}

	return cfg, nil
}
