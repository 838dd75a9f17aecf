// Package config loads and validates oop-viewer settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/scott-clare1/oop-viewer/internal/filter"
	"github.com/scott-clare1/oop-viewer/internal/lang"
)

// FileName is the config file looked up in the target directory.
const FileName = ".oopviewer.yaml"

// Parser names.
const (
	ParserHeuristic  = "heuristic"
	ParserTreeSitter = "tree-sitter"
)

// Output format names.
const (
	FormatTOON = "toon"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config holds run settings. All fields are optional in the YAML file.
type Config struct {
	// Language is the registered language to scan. Default: python.
	Language string `yaml:"language"`

	// Policy is the subgraph filter policy: descendants or direct.
	Policy string `yaml:"policy"`

	// Parser selects the per-file extractor: heuristic or tree-sitter.
	Parser string `yaml:"parser"`

	// Format is the output encoding: toon, dot or json.
	Format string `yaml:"format"`

	// Workers bounds parallel file processing. 0 uses GOMAXPROCS.
	Workers int `yaml:"workers"`

	// Exclude lists gitignore-style patterns skipped during discovery.
	// Default: DefaultExclude. An empty list walks every directory except
	// VCS metadata.
	Exclude []string `yaml:"exclude,omitempty"`

	// Gitignore honours the target's .gitignore / git ls-files.
	Gitignore bool `yaml:"gitignore"`

	// MaxFileSize skips files larger than this many bytes. 0 means unlimited.
	MaxFileSize int64 `yaml:"max_file_size"`
}

// DefaultExclude skips virtualenvs and caches.
var DefaultExclude = []string{
	"__pycache__/",
	"node_modules/",
	"venv/",
	".venv/",
	".tox/",
	"*.egg-info/",
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Language:  lang.Default,
		Exclude:   append([]string(nil), DefaultExclude...),
		Policy:    string(filter.Descendants),
		Parser:    ParserHeuristic,
		Format:    FormatTOON,
		Gitignore: true,
	}
}

// Load reads settings on top of Default.
//
// If path is non-empty the file must exist. Otherwise FileName is looked up
// in dir, and a missing file is not an error. Only returns an error if a
// file exists but cannot be read or parsed, or if the result is invalid.
func Load(path, dir string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		if dir == "" {
			return cfg, nil
		}
		path = filepath.Join(dir, FileName)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("reading %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every enumerated field.
func (c Config) Validate() error {
	if _, err := lang.Lookup(c.Language); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if _, err := filter.ParsePolicy(c.Policy); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	switch c.Parser {
	case ParserHeuristic, ParserTreeSitter:
	default:
		return fmt.Errorf("%w: unknown parser %q", ErrInvalid, c.Parser)
	}
	switch c.Format {
	case FormatTOON, FormatDOT, FormatJSON:
	default:
		return fmt.Errorf("%w: unknown format %q", ErrInvalid, c.Format)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must be >= 0, got %d", ErrInvalid, c.Workers)
	}
	if c.MaxFileSize < 0 {
		return fmt.Errorf("%w: max_file_size must be >= 0, got %d", ErrInvalid, c.MaxFileSize)
	}
	return nil
}

// Marshal renders c as YAML.
func Marshal(c Config) ([]byte, error) {
	return yaml.Marshal(c)
}
