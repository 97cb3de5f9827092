// Package config loads the .hbs2jsx.yaml project file.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/gnolang/hbs2jsx"
)

const (
	DefaultPath      = ".hbs2jsx.yaml"
	DefaultExtension = ".jsx"
)

var defaultInclude = []string{"**/*.hbs", "**/*.handlebars"}

// Config represents the project configuration: compile options plus the
// template files to pick up and where to write results.
type Config struct {
	Name    string          `yaml:"name"`
	Options hbs2jsx.Options `yaml:"options"`
	// Include and Exclude are doublestar globs matched against
	// slash-separated paths relative to the processed directory.
	Include []string `yaml:"include,omitempty"`
	Exclude []string `yaml:"exclude,omitempty"`
	// Extension replaces the template extension in output file names.
	Extension string `yaml:"extension,omitempty"`
	// Concurrency caps parallel compilations; zero means one per CPU.
	Concurrency int `yaml:"concurrency,omitempty"`
}

func Default() Config {
	return Config{
		Name:      "hbs2jsx",
		Options:   hbs2jsx.Options{IsComponent: true},
		Include:   append([]string(nil), defaultInclude...),
		Extension: DefaultExtension,
	}
}

// Load reads the configuration file at path. A missing file yields the
// defaults; fields left out of the file keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Write stores cfg at path, replacing any existing file.
func Write(path string, cfg Config) error {
	d, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, d, 0o644)
}

func (c Config) Validate() error {
	for _, pattern := range append(append([]string(nil), c.Include...), c.Exclude...) {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid glob pattern %q", pattern)
		}
	}
	if c.Extension != "" && !strings.HasPrefix(c.Extension, ".") {
		return fmt.Errorf("extension %q must start with a dot", c.Extension)
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("concurrency must not be negative, got %d", c.Concurrency)
	}
	return nil
}

// Match reports whether the template at path, relative to the processed
// directory, is included and not excluded.
func (c Config) Match(path string) bool {
	path = filepath.ToSlash(filepath.Clean(path))

	include := c.Include
	if len(include) == 0 {
		include = defaultInclude
	}
	if !matchAny(include, path) {
		return false
	}
	return !matchAny(c.Exclude, path)
}

func matchAny(patterns []string, path string) bool {
	for _, pattern := range patterns {
		// patterns are validated on load
		if ok, _ := doublestar.Match(pattern, path); ok {
			return true
		}
	}
	return false
}

// OutputPath returns where the compiled form of the template at path goes.
func (c Config) OutputPath(path string) string {
	ext := c.Extension
	if ext == "" {
		ext = DefaultExtension
	}
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}
