// Package config provides configuration management for clearcrash.
//
// Configuration is stored in TOML at ~/.clearcrash.toml (or the file named
// by $CLEARCRASH_CONFIG) and covers:
//   - Output presentation (colour mode, marker set)
//   - Where and in which format crash reports are saved
//   - Extra frame denylist entries for third-party namespaces
//
// A missing file is not an error: Load returns Default() so the tool works
// without any configuration. Environment variables override file values.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"clearcrash/internal/frames"
	"clearcrash/internal/report"
	"clearcrash/pkg/terminal"
)

// Config holds user preferences.
type Config struct {
	Color     string `toml:"color"`
	Markers   string `toml:"markers"`
	ReportURL string `toml:"report_url"`
	Verbose   bool   `toml:"verbose"`
	Debug     bool   `toml:"debug"`

	Reports Reports `toml:"reports"`
	Frames  Frames  `toml:"frames"`

	// Unknown lists keys present in the file that Config does not define.
	Unknown []string `toml:"-"`
}

// Reports configures crash report persistence.
type Reports struct {
	Dir    string `toml:"dir"`
	Format string `toml:"format"`
	Save   bool   `toml:"save"`
}

// Frames extends the default frame denylist.
type Frames struct {
	Deny      []string `toml:"deny"`
	RulesFile string   `toml:"rules_file"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Color:     "auto",
		Markers:   "emoji",
		ReportURL: "https://github.com/RaulCatalinas/ClearCrash/issues",
		Reports: Reports{
			Dir:    filepath.Join(homeDir(), ".clearcrash", "crashes"),
			Format: "text",
		},
	}
}

// Path returns the configuration file location.
func Path() string {
	if p := os.Getenv("CLEARCRASH_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(homeDir(), ".clearcrash.toml")
}

func homeDir() string {
	home := os.Getenv("HOME")
	if home == "" {
		if wd, _ := os.Getwd(); wd != "" {
			return wd
		}
	}
	return home
}

// Load reads the configuration from Path and applies environment overrides.
func Load() (*Config, error) {
	return LoadFile(Path())
}

// LoadFile reads the configuration from path. A missing file yields the
// defaults; a malformed file is an error.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err == nil {
		for _, key := range meta.Undecoded() {
			cfg.Unknown = append(cfg.Unknown, key.String())
		}
	}

	cfg.applyEnv()
	cfg.Reports.Dir = expandHome(cfg.Reports.Dir)
	cfg.Frames.RulesFile = expandHome(cfg.Frames.RulesFile)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("CLEARCRASH_COLOR"); v != "" {
		c.Color = v
	}
	if v := os.Getenv("CLEARCRASH_MARKERS"); v != "" {
		c.Markers = v
	}
	if v := os.Getenv("CLEARCRASH_REPORT_DIR"); v != "" {
		c.Reports.Dir = v
	}
	if b, err := strconv.ParseBool(os.Getenv("CLEARCRASH_VERBOSE")); err == nil {
		c.Verbose = b
	}
	if b, err := strconv.ParseBool(os.Getenv("CLEARCRASH_DEBUG")); err == nil {
		c.Debug = b
	}
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	if _, err := terminal.ParseColorMode(c.Color); err != nil {
		return fmt.Errorf("color must be auto, always or never: %w", err)
	}
	switch c.Markers {
	case "emoji", "ascii":
	default:
		return fmt.Errorf("markers must be emoji or ascii, got %q", c.Markers)
	}
	if _, err := report.EncoderFor(c.Reports.Format); err != nil {
		return fmt.Errorf("reports.format: %w", err)
	}
	return nil
}

// Filter builds the frame filter: the default denylist, then Frames.Deny,
// then the rules file if one is configured.
func (c *Config) Filter() (*frames.Filter, error) {
	rules := frames.DefaultRules()
	if err := rules.AddPatterns(c.Frames.Deny...); err != nil {
		return nil, fmt.Errorf("frames.deny: %w", err)
	}
	if c.Frames.RulesFile != "" {
		if err := rules.LoadFromFile(c.Frames.RulesFile); err != nil {
			return nil, err
		}
	}
	return rules.Filter(), nil
}

// Save writes configuration to Path.
func Save(cfg *Config) error {
	return SaveFile(cfg, Path())
}

// SaveFile writes configuration to path.
func SaveFile(cfg *Config, path string) error {
	var sb strings.Builder
	if err := toml.NewEncoder(&sb).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(sb.String()), 0o644)
}

func expandHome(p string) string {
	if p == "~" {
		return homeDir()
	}
	if strings.HasPrefix(p, "~/") {
		return filepath.Join(homeDir(), p[2:])
	}
	return p
}
