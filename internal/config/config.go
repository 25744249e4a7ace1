// Package config holds runtime configuration for the OCR engines, the MCP
// server and the CLI.
//
// Values come from three layers, later ones winning: DefaultConfig, an
// optional JSON file (Load), and environment variables (ApplyEnv). Command
// line flags are applied on top by the caller.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/ironsheep/leptess/internal/imaging"
	"github.com/ironsheep/leptess/internal/ocr"
	"github.com/ironsheep/leptess/internal/tesseract"
)

// Environment variables read by ApplyEnv.
const (
	EnvTessdata       = "LEPTESS_TESSDATA"
	EnvTessdataPrefix = "TESSDATA_PREFIX"
	EnvLanguage       = "LEPTESS_LANG"
	EnvWorkers        = "LEPTESS_WORKERS"
	EnvDPI            = "LEPTESS_DPI"
	EnvLogLevel       = "LEPTESS_LOG_LEVEL"
)

// MaxWorkers caps the engine pool. Each engine holds its own copy of the
// language model in memory.
const MaxWorkers = 64

// Config holds runtime configuration.
type Config struct {
	// Tessdata is the traineddata directory. Empty uses Tesseract's default.
	Tessdata string `json:"tessdata"`

	// Language is the Tesseract language code, e.g. "eng" or "eng+deu".
	Language string `json:"language"`

	// DPI is assumed for images that record no resolution. Zero lets
	// Tesseract estimate it.
	DPI int `json:"dpi"`

	// PageSegMode is Tesseract's page segmentation mode, 1 to 13. Zero keeps
	// the engine default.
	PageSegMode int `json:"page_seg_mode"`

	// Workers is the number of pooled engines used by the server and batch
	// commands.
	Workers int `json:"workers"`

	// LogLevel is one of debug, info, warn or error.
	LogLevel string `json:"log_level"`

	// Preprocess enables image cleanup before recognition.
	Preprocess bool `json:"preprocess"`

	// Prepare tunes the cleanup when Preprocess is set.
	Prepare imaging.PrepareOptions `json:"prepare"`

	// Variables are extra Tesseract parameters, e.g.
	// {"tessedit_char_whitelist": "0123456789"}.
	Variables map[string]string `json:"variables,omitempty"`
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		Language: ocr.DefaultLanguage,
		Workers:  defaultWorkers(),
		LogLevel: "info",
		Prepare:  imaging.DefaultPrepareOptions(),
	}
}

func defaultWorkers() int {
	return min(runtime.NumCPU(), 4)
}

// Load reads configuration from the JSON file at path on top of the
// defaults. A missing file yields the defaults without error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from environment variables. LEPTESS_TESSDATA wins
// over TESSDATA_PREFIX. Malformed numbers are reported, not ignored.
func (c *Config) ApplyEnv() error {
	return c.applyEnv(os.Getenv)
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv(EnvTessdataPrefix); v != "" {
		c.Tessdata = v
	}
	if v := getenv(EnvTessdata); v != "" {
		c.Tessdata = v
	}
	if v := getenv(EnvLanguage); v != "" {
		c.Language = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
	if v := getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvWorkers, err)
		}
		c.Workers = n
	}
	if v := getenv(EnvDPI); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvDPI, err)
		}
		c.DPI = n
	}
	return nil
}

// Validate clamps soft limits to safe ranges and rejects values that cannot
// be fixed up.
func (c *Config) Validate() error {
	if c.Language == "" {
		c.Language = ocr.DefaultLanguage
	}
	if c.Workers < 1 {
		c.Workers = defaultWorkers()
	}
	if c.Workers > MaxWorkers {
		c.Workers = MaxWorkers
	}
	if c.DPI < 0 {
		c.DPI = 0
	}
	if c.DPI > 2400 {
		return fmt.Errorf("dpi %d out of range (0-2400)", c.DPI)
	}
	if c.PageSegMode < 0 || c.PageSegMode > 13 {
		return fmt.Errorf("page_seg_mode %d out of range (0-13)", c.PageSegMode)
	}
	switch c.LogLevel {
	case "":
		c.LogLevel = "info"
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	if c.Tessdata != "" {
		st, err := os.Stat(c.Tessdata)
		if err != nil {
			return fmt.Errorf("tessdata: %w", err)
		}
		if !st.IsDir() {
			return fmt.Errorf("tessdata %s is not a directory", c.Tessdata)
		}
	}
	return nil
}

// OCROptions converts the configuration into engine options.
func (c *Config) OCROptions() ocr.Options {
	opts := ocr.Options{
		Datapath:    c.Tessdata,
		Language:    c.Language,
		DPI:         c.DPI,
		PageSegMode: tesseract.PageSegMode(c.PageSegMode),
		Variables:   c.Variables,
	}
	if c.Preprocess {
		prep := c.Prepare
		opts.Prepare = &prep
	}
	return opts
}

// Save writes the configuration to path as indented JSON.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
