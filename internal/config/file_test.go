package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoad_ExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "naeonm.toml", `
dry_run = true
threads = 3

[tools]
ffmpeg = "xtra"

[watermark]
font_file = "/fonts/Roboto.ttf"
duration_from = "INPUT"

[logging]
color = "never"
file = "/var/log/naeonm.log"

[history]
path = ""
`)

	cfg, used, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if used != path {
		t.Errorf("used = %q, want %q", used, path)
	}
	if cfg.Tools.FFmpeg != "xtra" {
		t.Errorf("ffmpeg = %q", cfg.Tools.FFmpeg)
	}
	if cfg.Tools.FFprobe != "ffprobe" {
		t.Errorf("unset keys should keep defaults, ffprobe = %q", cfg.Tools.FFprobe)
	}
	if cfg.Watermark.FontFile != "/fonts/Roboto.ttf" || cfg.Watermark.DurationFrom != DurationFromInput {
		t.Errorf("watermark = %+v", cfg.Watermark)
	}
	if cfg.Logging.Color != ColorNever || cfg.Logging.File != "/var/log/naeonm.log" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
	if cfg.History.Path != "" {
		t.Errorf("history path = %q, want disabled", cfg.History.Path)
	}
	if !cfg.DryRun || cfg.Threads != 3 {
		t.Errorf("behavior = dry-run %v threads %d", cfg.DryRun, cfg.Threads)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err == nil {
		t.Fatal("expected error for missing explicit config")
	}
}

func TestLoad_UnknownKey(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.toml", "[tools]\nffmpag = \"x\"\n")
	_, _, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "parse config") {
		t.Errorf("got %v, want parse error", err)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "naeonm.toml", "[tools]\nffmpeg = \"xtra\"\n")
	t.Setenv("NAEONM_FFMPEG", "/opt/ffmpeg/bin/ffmpeg")
	t.Setenv("NAEONM_VERBOSE", "true")

	cfg, _, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Tools.FFmpeg != "/opt/ffmpeg/bin/ffmpeg" {
		t.Errorf("ffmpeg = %q, want env value", cfg.Tools.FFmpeg)
	}
	if !cfg.Logging.Verbose {
		t.Error("verbose not applied from env")
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"NAEONM_FFPROBE":       "ffprobe7",
		"NAEONM_FONT_FILE":     " /f.otf ",
		"NAEONM_COLOR":         "always",
		"NAEONM_DURATION_FROM": "input",
		"NAEONM_THREADS":       "2",
		"NAEONM_DRY_RUN":       "1",
		"NAEONM_HISTORY_PATH":  "/tmp/h.db",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := DefaultConfig()
	if err := applyEnv(&cfg, lookup); err != nil {
		t.Fatalf("applyEnv: %v", err)
	}
	if cfg.Tools.FFprobe != "ffprobe7" || cfg.Watermark.FontFile != "/f.otf" {
		t.Errorf("strings not applied: %+v %+v", cfg.Tools, cfg.Watermark)
	}
	if cfg.Logging.Color != ColorAlways || cfg.Watermark.DurationFrom != DurationFromInput {
		t.Errorf("enums not applied: %q %q", cfg.Logging.Color, cfg.Watermark.DurationFrom)
	}
	if cfg.Threads != 2 || !cfg.DryRun || cfg.History.Path != "/tmp/h.db" {
		t.Errorf("behavior not applied: %+v", cfg)
	}
}

func TestApplyEnv_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"threads", map[string]string{"NAEONM_THREADS": "many"}},
		{"verbose", map[string]string{"NAEONM_VERBOSE": "sometimes"}},
		{"dry run", map[string]string{"NAEONM_DRY_RUN": "maybe"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			lookup := func(k string) (string, bool) {
				v, ok := tt.env[k]
				return v, ok
			}
			if err := applyEnv(&cfg, lookup); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestReadDotenv(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, ".env", "NAEONM_FFMPEG=xtra\n# comment\nNAEONM_THREADS=4\n")

	values, err := readDotenv(path)
	if err != nil {
		t.Fatalf("readDotenv: %v", err)
	}
	if values["NAEONM_FFMPEG"] != "xtra" || values["NAEONM_THREADS"] != "4" {
		t.Errorf("values = %v", values)
	}

	missing, err := readDotenv(filepath.Join(dir, "none.env"))
	if err != nil || missing != nil {
		t.Errorf("missing file: %v, %v", missing, err)
	}
}

func TestEnvLookup_ProcessEnvWins(t *testing.T) {
	t.Setenv("NAEONM_FFPROBE", "from-process")
	lookup := envLookup(map[string]string{
		"NAEONM_FFPROBE": "from-dotenv",
		"NAEONM_FFMPEG":  "dotenv-only",
	})
	if v, _ := lookup("NAEONM_FFPROBE"); v != "from-process" {
		t.Errorf("NAEONM_FFPROBE = %q", v)
	}
	if v, _ := lookup("NAEONM_FFMPEG"); v != "dotenv-only" {
		t.Errorf("NAEONM_FFMPEG = %q", v)
	}
}
