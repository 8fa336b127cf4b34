package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "NAEONM_"

// Load builds a Config from defaults, the config file, and the
// environment. An explicit path must exist; without one the default
// locations are tried and a missing file means defaults. It returns the
// file actually read, or "" when none was.
func Load(path string) (Config, string, error) {
	cfg := DefaultConfig()

	resolved, err := resolveConfigPath(path)
	if err != nil {
		return cfg, "", err
	}
	if resolved != "" {
		if err := decodeFile(resolved, &cfg); err != nil {
			return cfg, "", err
		}
	}

	dotenv, err := readDotenv(".env")
	if err != nil {
		return cfg, resolved, err
	}
	if err := applyEnv(&cfg, envLookup(dotenv)); err != nil {
		return cfg, resolved, err
	}

	if err := cfg.normalize(); err != nil {
		return cfg, resolved, err
	}
	return cfg, resolved, nil
}

func decodeFile(path string, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	decoder := toml.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func resolveConfigPath(path string) (string, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", err
		}
		if _, err := os.Stat(expanded); err != nil {
			return "", fmt.Errorf("stat config: %w", err)
		}
		return expanded, nil
	}

	candidates := []string{"naeonm.toml"}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append([]string{filepath.Join(home, ".config", "naeonm", "config.toml")}, candidates...)
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c, nil
		}
	}
	return "", nil
}

// readDotenv parses a .env file; a missing file yields no values.
func readDotenv(path string) (map[string]string, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return values, nil
}

// envLookup consults the process environment first, then .env values.
func envLookup(dotenv map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}
}

// applyEnv copies NAEONM_* overrides into cfg.
func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	boolean := func(name string, dst *bool) error {
		v, ok := lookup(EnvPrefix + name)
		if !ok {
			return nil
		}
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
		}
		*dst = b
		return nil
	}

	str("FFMPEG", &cfg.Tools.FFmpeg)
	str("FFPROBE", &cfg.Tools.FFprobe)
	str("FONT_FILE", &cfg.Watermark.FontFile)
	str("LOG_FILE", &cfg.Logging.File)
	str("HISTORY_PATH", &cfg.History.Path)

	if v, ok := lookup(EnvPrefix + "COLOR"); ok {
		cfg.Logging.Color = ColorMode(strings.TrimSpace(v))
	}
	if v, ok := lookup(EnvPrefix + "DURATION_FROM"); ok {
		cfg.Watermark.DurationFrom = DurationSource(strings.TrimSpace(v))
	}
	if v, ok := lookup(EnvPrefix + "THREADS"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%sTHREADS must be a whole number (got %q)", EnvPrefix, v)
		}
		cfg.Threads = n
	}
	if err := boolean("VERBOSE", &cfg.Logging.Verbose); err != nil {
		return err
	}
	return boolean("DRY_RUN", &cfg.DryRun)
}
