// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Reference ReferenceConfig `toml:"reference"`
	Analyze   AnalyzeConfig   `toml:"analyze"`
}

// ReferenceConfig overrides the English reference model.
type ReferenceConfig struct {
	Frequencies []float64 `toml:"frequencies"`
	EnglishIC   *float64  `toml:"english-ic"`
	MinSamples  *int      `toml:"min-samples"`
	Corpus      *string   `toml:"corpus"`
}

// AnalyzeConfig maps analysis-related settings.
type AnalyzeConfig struct {
	Workers *int    `toml:"workers"`
	Save    *bool   `toml:"save"`
	Format  *string `toml:"format"`
	Plot    *bool   `toml:"plot"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}

// EncodeReference renders a [reference] block for the config file.
func EncodeReference(ref ReferenceConfig) (string, error) {
	block := struct {
		Reference ReferenceConfig `toml:"reference"`
	}{Reference: ref}
	var buf strings.Builder
	if err := toml.NewEncoder(&buf).Encode(block); err != nil {
		return "", fmt.Errorf("failed to encode reference: %w", err)
	}
	return buf.String(), nil
}
