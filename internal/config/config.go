// Package config handles loading and saving user settings for gem.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/f3rmion/gematria/internal/errors"
	"github.com/f3rmion/gematria/internal/gematria"
)

// FileName is the settings file inside the config directory.
const FileName = "config.yaml"

// Config holds all user settings.
type Config struct {
	Database        string            `yaml:"database"`
	CiphersDir      string            `yaml:"ciphers_dir"`
	DefaultLanguage gematria.Language `yaml:"default_language"`
	DefaultMethods  []gematria.Method `yaml:"default_methods,omitempty"`
	Lexicons        []string          `yaml:"lexicons,omitempty"`
	Display         DisplayConfig     `yaml:"display"`
}

// DisplayConfig holds settings for terminal output.
type DisplayConfig struct {
	Format    string `yaml:"format"`     // plain, markdown or json
	BigLetter bool   `yaml:"big_letter"` // block-art letter in the TUI
	FontPath  string `yaml:"font_path,omitempty"`
}

// Default returns the settings written by `gem init`, rooted at dir.
func Default(dir string) *Config {
	return &Config{
		Database:        filepath.Join(dir, "gematria.db"),
		CiphersDir:      filepath.Join(dir, "ciphers"),
		DefaultLanguage: gematria.Hebrew,
		DefaultMethods:  []gematria.Method{gematria.HebrewStandard},
		Display: DisplayConfig{
			Format:    "plain",
			BigLetter: true,
		},
	}
}

// Load reads settings from path. Relative paths inside the file are resolved
// against the file's directory; missing fields take their defaults.
func Load(path string) (*Config, error) {
	dir := filepath.Dir(path)
	cfg := Default(dir)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading config file")
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "parsing config file")
	}

	cfg.Database = resolve(dir, cfg.Database)
	cfg.CiphersDir = resolve(dir, cfg.CiphersDir)
	for i, l := range cfg.Lexicons {
		cfg.Lexicons[i] = resolve(dir, l)
	}
	if cfg.Display.FontPath != "" {
		cfg.Display.FontPath = resolve(dir, cfg.Display.FontPath)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault reads settings from dir, falling back to defaults when the
// file does not exist.
func LoadOrDefault(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(dir), nil
	}
	return Load(path)
}

// Save writes settings to path.
func Save(path string, cfg *Config) error {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "marshaling config")
	}
	if err := os.WriteFile(path, out, 0644); err != nil {
		return errors.Wrap(err, "writing config file")
	}
	return nil
}

// Validate checks that languages, methods and formats are known.
func (c *Config) Validate() error {
	if _, err := gematria.ParseLanguage(string(c.DefaultLanguage)); err != nil {
		return errors.Wrap(err, "default_language")
	}
	for _, m := range c.DefaultMethods {
		if _, err := gematria.LookupMethod(m); err != nil {
			return errors.Wrap(err, "default_methods")
		}
	}
	switch c.Display.Format {
	case "", "plain", "markdown", "json":
	default:
		return errors.InvalidArgumentf("display.format: unknown format %q", c.Display.Format)
	}
	return nil
}

// GetConfigDir returns the default configuration directory.
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "gematria"), nil
}

// EnsureDir creates dir and its ciphers subdirectory.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(filepath.Join(dir, "ciphers"), 0755); err != nil {
		return errors.Wrap(err, "creating config directory")
	}
	return nil
}

func resolve(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}
