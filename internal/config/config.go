package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/roboscan/roboscan/internal/types"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// ErrNotFound reports that no config file exists at the searched locations.
var ErrNotFound = errors.New("config not found")

// LocalNames lists project config file names in lookup order.
var LocalNames = []string{".roboscan.yml", ".roboscan.yaml", "roboscan.yml", "roboscan.yaml"}

// FileConfig mirrors roboscan.yml. A nil field was not set in the file.
type FileConfig struct {
	Include         *string `yaml:"include,omitempty"`
	Exclude         *string `yaml:"exclude,omitempty"`
	Extensions      *string `yaml:"extensions,omitempty"`
	MaxBytes        *int64  `yaml:"max_bytes,omitempty"`
	Threads         *int    `yaml:"threads,omitempty"`
	Enable          *string `yaml:"enable,omitempty"`
	Disable         *string `yaml:"disable,omitempty"`
	NoColor         *bool   `yaml:"no_color,omitempty"`
	DefaultExcludes *bool   `yaml:"default_excludes,omitempty"`
	FailOn          *string `yaml:"fail_on,omitempty"`

	HTMLReport *string `yaml:"html_report,omitempty"`
	JSONReport *string `yaml:"json_report,omitempty"`
	Audit      *bool   `yaml:"audit,omitempty"`
}

// Validate rejects values the scanner would otherwise misinterpret.
func (c FileConfig) Validate() error {
	if c.FailOn != nil && *c.FailOn != "" {
		if _, ok := types.ParseSeverity(*c.FailOn); !ok {
			return fmt.Errorf("fail_on: unknown severity %q", *c.FailOn)
		}
	}
	if c.Threads != nil && *c.Threads < 0 {
		return fmt.Errorf("threads: must not be negative")
	}
	if c.MaxBytes != nil && *c.MaxBytes < 0 {
		return fmt.Errorf("max_bytes: must not be negative")
	}
	return nil
}

// LoadFile decodes and validates the YAML file at path.
func LoadFile(fs afero.Fs, path string) (FileConfig, error) {
	var cfg FileConfig
	b, err := afero.ReadFile(fs, path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadLocal loads the first of LocalNames present in root.
func LoadLocal(fs afero.Fs, root string) (FileConfig, error) {
	for _, name := range LocalNames {
		p := filepath.Join(root, name)
		if ok, _ := afero.Exists(fs, p); ok {
			return LoadFile(fs, p)
		}
	}
	return FileConfig{}, ErrNotFound
}

// GlobalPath returns $XDG_CONFIG_HOME/roboscan/config.yml, falling back to
// ~/.config. It is empty when neither location can be determined.
func GlobalPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		if home, _ := os.UserHomeDir(); home != "" {
			base = filepath.Join(home, ".config")
		}
	}
	if base == "" {
		return ""
	}
	return filepath.Join(base, "roboscan", "config.yml")
}

// LoadGlobal loads the user-wide config from GlobalPath.
func LoadGlobal(fs afero.Fs) (FileConfig, error) {
	p := GlobalPath()
	if p == "" {
		return FileConfig{}, ErrNotFound
	}
	if ok, _ := afero.Exists(fs, p); !ok {
		return FileConfig{}, ErrNotFound
	}
	return LoadFile(fs, p)
}
