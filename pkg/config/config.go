// Package config loads lessc settings from .lessc.yaml, .lessc.yml or
// .lessc.json files.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// FileNames are the config files Discover looks for, in order.
var FileNames = []string{".lessc.yaml", ".lessc.yml", ".lessc.json"}

// DefaultExtensions are the stylesheet extensions enumerated when a config
// does not name any.
var DefaultExtensions = []string{".less"}

// DefaultMaxFileSize is the largest stylesheet read during enumeration.
const DefaultMaxFileSize int64 = 10 * 1024 * 1024

// Config holds parser and enumeration settings. Pointer fields distinguish
// "not set" from false so flags and defaults can be layered.
type Config struct {
	Paths           []string `yaml:"paths" json:"paths"`
	Compress        bool     `yaml:"compress" json:"compress"`
	StrictImports   bool     `yaml:"strictImports" json:"strictImports"`
	DumpLineNumbers bool     `yaml:"dumpLineNumbers" json:"dumpLineNumbers"`
	ProcessImports  *bool    `yaml:"processImports" json:"processImports"`
	Extensions      []string `yaml:"extensions" json:"extensions"`
	MaxFileSize     int64    `yaml:"maxFileSize" json:"maxFileSize"`
	IncludeHidden   bool     `yaml:"includeHidden" json:"includeHidden"`

	// Dir is the directory the config was loaded from. Relative search
	// paths are resolved against it.
	Dir string `yaml:"-" json:"-"`
}

// Default returns the settings used when no config file exists.
func Default() *Config {
	return &Config{
		Extensions:  append([]string(nil), DefaultExtensions...),
		MaxFileSize: DefaultMaxFileSize,
	}
}

// ImportsEnabled reports whether @import statements should be followed.
func (c *Config) ImportsEnabled() bool {
	return c.ProcessImports == nil || *c.ProcessImports
}

// SearchPaths returns Paths with relative entries joined to Dir.
func (c *Config) SearchPaths() []string {
	out := make([]string, 0, len(c.Paths))
	for _, p := range c.Paths {
		if c.Dir != "" && !filepath.IsAbs(p) {
			p = filepath.Join(c.Dir, p)
		}
		out = append(out, p)
	}
	return out
}

// Parse decodes config data. format is "yaml" or "json"; JSON may contain
// comments and trailing commas.
func Parse(data []byte, format string) (*Config, error) {
	cfg := Default()
	switch format {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case "json":
		if err := json.Unmarshal(jsonc.ToJSON(data), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown config format %q", format)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads the config file at path. The format follows the extension.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg, err := Parse(data, strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Dir = filepath.Dir(path)
	return cfg, nil
}

// Discover returns the path of the first config file in dir, or "" when
// there is none.
func Discover(dir string) (string, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err == nil && !info.IsDir() {
			return path, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("failed to stat %s: %w", path, err)
		}
	}
	return "", nil
}

// LoadDir loads the config discovered in dir, or the defaults when there
// is none.
func LoadDir(dir string) (*Config, error) {
	path, err := Discover(dir)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

func (c *Config) normalize() error {
	if len(c.Extensions) == 0 {
		c.Extensions = append([]string(nil), DefaultExtensions...)
	}
	for i, ext := range c.Extensions {
		if ext == "" {
			return fmt.Errorf("empty extension in extensions")
		}
		if !strings.HasPrefix(ext, ".") {
			c.Extensions[i] = "." + ext
		}
	}
	if c.MaxFileSize < 0 {
		return fmt.Errorf("maxFileSize must not be negative, got %d", c.MaxFileSize)
	}
	if c.MaxFileSize == 0 {
		c.MaxFileSize = DefaultMaxFileSize
	}
	return nil
}
