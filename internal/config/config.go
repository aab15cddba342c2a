// Package config loads the settings shared by cssfmt and the language
// server from .cssom.yaml, .cssom.yml or .cssom.json.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"bennypowers.dev/cssom/cssom"
	"bennypowers.dev/cssom/internal/log"
	"bennypowers.dev/cssom/parser"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/tidwall/jsonc"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// FileNames are the config file names Find looks for, in order.
var FileNames = []string{".cssom.yaml", ".cssom.yml", ".cssom.json"}

// ErrUnknownFormat is returned by Load for files that are neither YAML nor
// JSON.
var ErrUnknownFormat = errors.New("unknown config file format")

// ParserConfig mirrors parser.Options.
type ParserConfig struct {
	// AllowStarHack accepts `*zoom: 1` style declarations.
	AllowStarHack bool `yaml:"allowStarHack" json:"allowStarHack"`
	// MaxNestingDepth bounds blocks and functions; 0 uses the parser default.
	MaxNestingDepth int `yaml:"maxNestingDepth" json:"maxNestingDepth"`
}

// FormatConfig mirrors cssom.Format.
type FormatConfig struct {
	Indent                    string `yaml:"indent" json:"indent"`
	SingleLine                bool   `yaml:"singleLine" json:"singleLine"`
	PropertiesOnSeparateLines bool   `yaml:"propertiesOnSeparateLines" json:"propertiesOnSeparateLines"`
	RGBAsHex                  bool   `yaml:"rgbAsHex" json:"rgbAsHex"`
}

// Config is the tool configuration.
type Config struct {
	Parser     ParserConfig `yaml:"parser" json:"parser"`
	Formatting FormatConfig `yaml:"format" json:"format"`
	// Files are doublestar globs selecting the documents to process.
	Files []string `yaml:"files" json:"files"`
	// Exclude are doublestar globs removed from Files.
	Exclude []string `yaml:"exclude" json:"exclude"`
	// LogLevel is one of debug, info, warn or error.
	LogLevel string `yaml:"logLevel" json:"logLevel"`
}

// DefaultConfig returns the configuration used when no file is found.
func DefaultConfig() Config {
	return Config{
		Parser:     ParserConfig{MaxNestingDepth: parser.DefaultMaxNestingDepth},
		Formatting: FormatConfig{Indent: "  "},
		Files:      []string{"**/*.css"},
		Exclude:    []string{"**/node_modules/**"},
		LogLevel:   "info",
	}
}

// Validate reports settings no component can use.
func (c Config) Validate() error {
	if c.Parser.MaxNestingDepth < 0 {
		return fmt.Errorf("parser.maxNestingDepth must not be negative, got %d", c.Parser.MaxNestingDepth)
	}
	if strings.Trim(c.Formatting.Indent, " \t") != "" {
		return fmt.Errorf("format.indent must be spaces or tabs, got %q", c.Formatting.Indent)
	}
	for _, g := range append(append([]string{}, c.Files...), c.Exclude...) {
		if !doublestar.ValidatePattern(g) {
			return fmt.Errorf("invalid glob %q", g)
		}
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Parse decodes data on top of the defaults. ext selects the decoder:
// ".yaml" and ".yml" use YAML, ".json" and ".jsonc" accept JSON with
// comments.
func Parse(data []byte, ext string) (Config, error) {
	cfg := DefaultConfig()
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	case ".json", ".jsonc":
		if err := json.Unmarshal(jsonc.ToJSON(data), &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	default:
		return cfg, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}
	return cfg, cfg.Validate()
}

// Load reads the config file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: user-selected config file
	if err != nil {
		return DefaultConfig(), fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data, filepath.Ext(path))
}

// Find returns the first config file in dir or its parents.
func Find(dir string) (string, bool) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}
	for {
		for _, name := range FileNames {
			p := filepath.Join(dir, name)
			if info, err := os.Stat(p); err == nil && !info.IsDir() {
				return p, true
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// Resolve loads the config found from dir, or the defaults when there is
// none.
func Resolve(dir string) (cfg Config, path string, err error) {
	path, ok := Find(dir)
	if !ok {
		return DefaultConfig(), "", nil
	}
	cfg, err = Load(path)
	return cfg, path, err
}

// Merge overlays settings, a decoded JSON value such as LSP
// initializationOptions, on c.
func (c Config) Merge(settings any) (Config, error) {
	if settings == nil {
		return c, nil
	}
	data, err := json.Marshal(settings)
	if err != nil {
		return c, fmt.Errorf("failed to marshal settings: %w", err)
	}
	out := c
	if err := json.Unmarshal(data, &out); err != nil {
		return c, fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	if err := out.Validate(); err != nil {
		return c, err
	}
	return out, nil
}

// ParserOptions converts the parser section. logger may be nil.
func (c Config) ParserOptions(logger *zap.Logger) *parser.Options {
	opts := parser.DefaultOptions()
	opts.AllowStarHack = c.Parser.AllowStarHack
	if c.Parser.MaxNestingDepth > 0 {
		opts.MaxNestingDepth = c.Parser.MaxNestingDepth
	}
	opts.Logger = logger
	return &opts
}

// Format converts the format section.
func (c Config) Format() cssom.Format {
	f := cssom.DefaultFormat()
	if c.Formatting.Indent != "" {
		f.Indent = c.Formatting.Indent
	}
	f.SingleLine = c.Formatting.SingleLine
	f.PropertiesOnSeparateLines = c.Formatting.PropertiesOnSeparateLines
	f.RGBAsHex = c.Formatting.RGBAsHex
	return f
}

// Matches reports whether rel, a path relative to the config directory,
// is selected by Files and not removed by Exclude.
func (c Config) Matches(rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, g := range c.Exclude {
		if ok, _ := doublestar.Match(g, rel); ok {
			return false
		}
	}
	for _, g := range c.Files {
		if ok, _ := doublestar.Match(g, rel); ok {
			return true
		}
	}
	return false
}
