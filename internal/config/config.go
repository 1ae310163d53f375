// Package config holds persistent fsmsim settings, stored as YAML in the
// user's home directory.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the config file name inside the home directory.
const FileName = ".fsmsim.yaml"

// Config holds persistent settings. Command line flags override them.
type Config struct {
	Width     int    `yaml:"width"`     // render width in pixels
	Height    int    `yaml:"height"`    // render height in pixels
	Format    string `yaml:"format"`    // "svg" or "png"
	Highlight string `yaml:"highlight"` // active state fill, #rrggbb
	Fired     string `yaml:"fired"`     // last fired edge, #rrggbb
	LastDir   string `yaml:"last_dir"`  // last directory a definition was loaded from
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	cwd, _ := os.Getwd()
	return Config{
		Width:     800,
		Height:    800,
		Format:    "svg",
		Highlight: "#ffd54f",
		Fired:     "#d84315",
		LastDir:   cwd,
	}
}

// Path returns the path to the config file
func Path() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return FileName
	}
	return filepath.Join(home, FileName)
}

// Load reads the config at path. A missing file yields the defaults; keys
// absent from the file keep their default values.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return DefaultConfig(), fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path.
func Save(path string, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	content := append([]byte("# fsmsim configuration\n"), data...)
	return os.WriteFile(path, content, 0644)
}

// Validate checks the values a user may have edited by hand.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid size %dx%d", c.Width, c.Height)
	}
	if c.Format != "svg" && c.Format != "png" {
		return fmt.Errorf("invalid format %q: want svg or png", c.Format)
	}
	if _, err := ParseColor(c.Highlight); err != nil {
		return fmt.Errorf("highlight: %w", err)
	}
	if _, err := ParseColor(c.Fired); err != nil {
		return fmt.Errorf("fired: %w", err)
	}
	return nil
}

// Keys lists the settable keys in display order.
var Keys = []string{"width", "height", "format", "highlight", "fired", "last_dir"}

// Set changes one setting by key, as used by "fsmsim config set".
func (c *Config) Set(key, value string) error {
	next := *c
	switch key {
	case "width", "height":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		if key == "width" {
			next.Width = n
		} else {
			next.Height = n
		}
	case "format":
		next.Format = strings.ToLower(value)
	case "highlight":
		next.Highlight = value
	case "fired":
		next.Fired = value
	case "last_dir":
		next.LastDir = value
	default:
		return fmt.Errorf("unknown key %q (valid: %s)", key, strings.Join(Keys, ", "))
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}

// Get returns one setting by key.
func (c Config) Get(key string) (string, error) {
	switch key {
	case "width":
		return strconv.Itoa(c.Width), nil
	case "height":
		return strconv.Itoa(c.Height), nil
	case "format":
		return c.Format, nil
	case "highlight":
		return c.Highlight, nil
	case "fired":
		return c.Fired, nil
	case "last_dir":
		return c.LastDir, nil
	}
	return "", fmt.Errorf("unknown key %q (valid: %s)", key, strings.Join(Keys, ", "))
}

// ParseColor parses a #rrggbb colour.
func ParseColor(s string) (color.RGBA, error) {
	if len(s) != 7 || s[0] != '#' {
		return color.RGBA{}, fmt.Errorf("invalid colour %q: want #rrggbb", s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid colour %q: want #rrggbb", s)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}
