// Package config holds runtime configuration: defaults, the TOML config
// file, environment overrides, CLI flag binding, and validation.
//
// Precedence, lowest first: DefaultConfig, config file, .env file,
// process environment, command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// --- Enum types for validated string fields ---

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// DurationSource selects which file the watermark duration is read from.
type DurationSource string

const (
	// DurationFromInput probes the file being watermarked.
	DurationFromInput DurationSource = "input"
	// DurationFromTemp probes <input>.temp.mkv (default). The temp copy is
	// the metadata output in a chained run, otherwise a staged copy.
	DurationFromTemp DurationSource = "temp"
)

// Tools names the external executables.
type Tools struct {
	FFmpeg  string `toml:"ffmpeg"`  // Default: "ffmpeg". Deployments may use a renamed build.
	FFprobe string `toml:"ffprobe"` // Default: "ffprobe".
}

// Watermark configures the drawtext overlay.
type Watermark struct {
	FontFile     string         `toml:"font_file"`     // Default: "default.otf".
	DurationFrom DurationSource `toml:"duration_from"` // Default: "temp".
}

// Logging configures console and file logging.
type Logging struct {
	Verbose bool      `toml:"verbose"`
	Color   ColorMode `toml:"color"` // Default: "auto".
	File    string    `toml:"file"`  // Optional; appended as JSON lines.
}

// History configures the operation ledger.
type History struct {
	Path string `toml:"path"` // Empty disables recording.
}

// Config holds all runtime settings. It is populated by [DefaultConfig],
// then [Load], then [Flags.Apply], before being passed by pointer to
// packages that need it.
type Config struct {
	Tools     Tools     `toml:"tools"`
	Watermark Watermark `toml:"watermark"`
	Logging   Logging   `toml:"logging"`
	History   History   `toml:"history"`

	// Behavior.
	DryRun  bool `toml:"dry_run"`
	Threads int  `toml:"threads"` // 0 derives max(1, NumCPU/2).
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Tools: Tools{
			FFmpeg:  "ffmpeg",
			FFprobe: "ffprobe",
		},
		Watermark: Watermark{
			FontFile:     "default.otf",
			DurationFrom: DurationFromTemp,
		},
		Logging: Logging{
			Color: ColorAuto,
		},
		History: History{
			Path: defaultHistoryPath(),
		},
	}
}

// Validate checks enum fields and required values.
func (c *Config) Validate() error {
	switch c.Logging.Color {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return fmt.Errorf("invalid color mode %q (use 'auto', 'always' or 'never')", c.Logging.Color)
	}

	switch c.Watermark.DurationFrom {
	case DurationFromInput, DurationFromTemp:
		// valid
	default:
		return fmt.Errorf("invalid duration source %q (use 'input' or 'temp')", c.Watermark.DurationFrom)
	}

	if strings.TrimSpace(c.Tools.FFmpeg) == "" {
		return errors.New("tools.ffmpeg must not be empty")
	}
	if strings.TrimSpace(c.Tools.FFprobe) == "" {
		return errors.New("tools.ffprobe must not be empty")
	}
	if strings.TrimSpace(c.Watermark.FontFile) == "" {
		return errors.New("watermark.font_file must not be empty")
	}
	if c.Threads < 0 {
		return fmt.Errorf("threads must be >= 0 (got %d)", c.Threads)
	}
	return nil
}

// normalize expands ~ in path fields.
func (c *Config) normalize() error {
	for _, p := range []*string{&c.Logging.File, &c.History.Path} {
		expanded, err := expandPath(*p)
		if err != nil {
			return err
		}
		*p = expanded
	}
	c.Logging.Color = ColorMode(strings.ToLower(string(c.Logging.Color)))
	c.Watermark.DurationFrom = DurationSource(strings.ToLower(string(c.Watermark.DurationFrom)))
	return nil
}

func defaultHistoryPath() string {
	if base, ok := os.LookupEnv("XDG_DATA_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "naeonm", "history.db")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "share", "naeonm", "history.db")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	return filepath.Clean(pathValue), nil
}
