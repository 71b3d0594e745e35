// Package config loads project defaults for the pascals CLI from a TOML or
// YAML file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"pascals/pkg/lexer"
)

// Format is the encoding of a config file.
type Format int

const (
	FormatTOML Format = iota
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	}
	return "unknown"
}

// Config holds CLI defaults. Command-line flags override every field.
type Config struct {
	Vocabulary string `toml:"vocabulary" yaml:"vocabulary"`
	OutputDir  string `toml:"output_dir" yaml:"output_dir"`
	Format     string `toml:"format" yaml:"format"` // table output: text, json or yaml
	Color      *bool  `toml:"color" yaml:"color"`
	Decorated  bool   `toml:"decorated" yaml:"decorated"` // print the decorated AST with the tables
	Validate   bool   `toml:"validate" yaml:"validate"`

	path string
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{Vocabulary: lexer.DefaultVocabulary, Format: "text"}
}

// Path is the file the config was loaded from, empty for defaults.
func (c *Config) Path() string { return c.path }

// UseColor reports whether styled output is enabled; unset means yes.
func (c *Config) UseColor() bool { return c.Color == nil || *c.Color }

// BaseNames are the file names Discover looks for, in order.
var BaseNames = []string{"pascals.toml", "pascals.yaml", "pascals.yml"}

// ErrNotFound is returned by Discover when no config file exists.
var ErrNotFound = errors.New("config file not found")

// Discover searches dir and then each parent directory for one of BaseNames.
func Discover(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		for _, name := range BaseNames {
			p := filepath.Join(dir, name)
			if info, err := os.Stat(p); err == nil && !info.IsDir() {
				return p, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNotFound
		}
		dir = parent
	}
}

// DetectFormat picks the format from the file extension; TOML is the default.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatTOML
}

// Load reads path over the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	c, err := Parse(data, DetectFormat(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	c.path = path
	return c, nil
}

// Parse decodes data over the defaults and validates the result.
func Parse(data []byte, f Format) (*Config, error) {
	c := Default()
	switch f {
	case FormatTOML:
		md, err := toml.Decode(string(data), c)
		if err != nil {
			return nil, fmt.Errorf("toml parse error: %w", err)
		}
		if keys := md.Undecoded(); len(keys) > 0 {
			return nil, fmt.Errorf("unknown config key %q", keys[0].String())
		}
	case FormatYAML:
		dec := yaml.NewDecoder(strings.NewReader(string(data)))
		dec.KnownFields(true)
		if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("yaml parse error: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format: %s", f)
	}
	return c, c.check()
}

// check reports unknown registers and formats.
func (c *Config) check() error {
	if _, err := lexer.Lookup(c.Vocabulary); err != nil {
		return err
	}
	switch c.Format {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("unknown format %q (want text, json or yaml)", c.Format)
	}
	return nil
}
