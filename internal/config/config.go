// Package config loads vmfkit.toml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileName is the manifest looked up from the working directory upwards.
const FileName = "vmfkit.toml"

type Config struct {
	Parse  ParseConfig  `toml:"parse"`
	Output OutputConfig `toml:"output"`
	Cache  CacheConfig  `toml:"cache"`

	// Path is the file the config was read from; empty for defaults.
	Path string `toml:"-"`
}

type ParseConfig struct {
	Jobs     int    `toml:"jobs"`      // 0 — по числу CPU
	Copy     bool   `toml:"copy"`      // отвязать результат от буфера
	MaxDepth int    `toml:"max_depth"` // 0 — значение по умолчанию
	Encoding string `toml:"encoding"`  // auto|utf8|windows-1252
}

type OutputConfig struct {
	Color          string `toml:"color"`  // auto|on|off
	Format         string `toml:"format"` // summary|json|tree
	MaxDiagnostics int    `toml:"max_diagnostics"`
}

type CacheConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

// Default returns the configuration used when no vmfkit.toml is found.
func Default() Config {
	return Config{
		Parse:  ParseConfig{Encoding: "auto"},
		Output: OutputConfig{Color: "auto", Format: "summary", MaxDiagnostics: 100},
	}
}

// Find walks from startDir to the filesystem root looking for vmfkit.toml.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover loads the explicit path when given, otherwise the nearest
// vmfkit.toml above startDir, otherwise Default.
func Discover(explicit, startDir string) (Config, error) {
	if explicit != "" {
		return Load(explicit)
	}
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Load decodes path over Default. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Path = path
	if cfg.Cache.Dir != "" && !filepath.IsAbs(cfg.Cache.Dir) {
		cfg.Cache.Dir = filepath.Join(filepath.Dir(path), cfg.Cache.Dir)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Parse.Jobs < 0 {
		return fmt.Errorf("[parse].jobs must not be negative")
	}
	if c.Parse.MaxDepth < 0 {
		return fmt.Errorf("[parse].max_depth must not be negative")
	}
	if c.Output.MaxDiagnostics < 0 {
		return fmt.Errorf("[output].max_diagnostics must not be negative")
	}
	if err := oneOf("[parse].encoding", c.Parse.Encoding, "auto", "utf8", "windows-1252"); err != nil {
		return err
	}
	if err := oneOf("[output].color", c.Output.Color, "auto", "on", "off"); err != nil {
		return err
	}
	return oneOf("[output].format", c.Output.Format, "summary", "json", "tree")
}

func oneOf(field, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("%s must be one of %s, got %q", field, strings.Join(allowed, "|"), value)
}
