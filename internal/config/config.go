// Package config loads the ucmlint YAML configuration file and merges it
// with command-line settings.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/chromeos/adhd/devtools/ucmlint/diag"
)

// FileName is the configuration file looked up in the working directory
// when no --config flag is given.
const FileName = ".ucmlint.yaml"

// Formats are the accepted output formats. The first is the default.
var Formats = []string{"text", "compact", "json", "gerrit", "sarif"}

// Config is the content of a configuration file.
type Config struct {
	Format      string   `yaml:"format,omitempty"`
	Ignore      []string `yaml:"ignore,omitempty"`
	Only        []string `yaml:"only,omitempty"`
	Card        string   `yaml:"card,omitempty"` // overrides card name inference
	Concurrency int      `yaml:"concurrency,omitempty"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{Format: Formats[0]}
}

// Load reads and parses the file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes data strictly: unknown keys are errors. An empty document
// yields the zero Config.
func Parse(data []byte) (Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field values. Empty fields are valid.
func (c Config) Validate() error {
	if c.Format != "" && !slices.Contains(Formats, c.Format) {
		return fmt.Errorf("unknown format %q", c.Format)
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("concurrency must not be negative, got %d", c.Concurrency)
	}
	return nil
}

// Merge returns base with the non-empty fields of over applied on top.
// Scalars are replaced; Ignore and Only lists are concatenated.
func Merge(base, over Config) Config {
	out := base
	if over.Format != "" {
		out.Format = over.Format
	}
	if over.Card != "" {
		out.Card = over.Card
	}
	if over.Concurrency != 0 {
		out.Concurrency = over.Concurrency
	}
	out.Ignore = append(slices.Clip(base.Ignore), over.Ignore...)
	out.Only = append(slices.Clip(base.Only), over.Only...)
	return out
}

// Diag returns the diagnostic filter described by c.
func (c Config) Diag() diag.Config {
	return diag.Config{Ignore: c.Ignore, Only: c.Only}
}

// Marshal renders c as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(&c)
}
