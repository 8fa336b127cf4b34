package config

// This file binds the global command-line flags. Flags are parsed into a
// separate Flags value and copied onto Config only when the user actually
// set them, so file and environment values hold otherwise.

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// Flags captures the persistent command-line overrides.
type Flags struct {
	ConfigPath   string
	Verbose      bool
	DryRun       bool
	ForceColor   bool
	NoColor      bool
	LogFile      string
	FFmpeg       string
	FFprobe      string
	FontFile     string
	Threads      int
	HistoryPath  string
	DurationFrom DurationSource
}

// Register defines the flags on fs (typically a cobra PersistentFlags set).
func (f *Flags) Register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.ConfigPath, "config", "c", "", "Configuration file path")
	fs.BoolVarP(&f.Verbose, "verbose", "v", false, "Verbose output")
	fs.BoolVarP(&f.DryRun, "dry-run", "d", false, "Print planned commands; do not run ffmpeg")
	fs.BoolVar(&f.ForceColor, "color", false, "Force colored logs")
	fs.BoolVar(&f.NoColor, "no-color", false, "Disable colored logs")
	fs.StringVarP(&f.LogFile, "log", "l", "", "Append logs to file (JSON lines)")
	fs.StringVar(&f.FFmpeg, "ffmpeg", "", "ffmpeg executable (e.g. a renamed build)")
	fs.StringVar(&f.FFprobe, "ffprobe", "", "ffprobe executable")
	fs.StringVar(&f.FontFile, "font", "", "Font file for the watermark overlay")
	fs.IntVar(&f.Threads, "threads", 0, "ffmpeg -threads value (0 = half the CPUs)")
	fs.StringVar(&f.HistoryPath, "history-db", "", "Operation history database (empty string disables)")
	fs.Var(&durationSourceValue{&f.DurationFrom}, "duration-from", "Watermark duration source: input | temp")
}

// Apply copies every flag the user set on fs into cfg.
func (f *Flags) Apply(fs *pflag.FlagSet, cfg *Config) {
	if fs.Changed("verbose") {
		cfg.Logging.Verbose = f.Verbose
	}
	if fs.Changed("dry-run") {
		cfg.DryRun = f.DryRun
	}
	if fs.Changed("log") {
		cfg.Logging.File = f.LogFile
	}
	if fs.Changed("ffmpeg") {
		cfg.Tools.FFmpeg = f.FFmpeg
	}
	if fs.Changed("ffprobe") {
		cfg.Tools.FFprobe = f.FFprobe
	}
	if fs.Changed("font") {
		cfg.Watermark.FontFile = f.FontFile
	}
	if fs.Changed("threads") {
		cfg.Threads = f.Threads
	}
	if fs.Changed("history-db") {
		cfg.History.Path = f.HistoryPath
	}
	if fs.Changed("duration-from") {
		cfg.Watermark.DurationFrom = f.DurationFrom
	}
	// --no-color wins over --color.
	if f.NoColor {
		cfg.Logging.Color = ColorNever
	} else if f.ForceColor {
		cfg.Logging.Color = ColorAlways
	}
}

// pflag.Value adapter so the enum type can be used with fs.Var.

type durationSourceValue struct{ p *DurationSource }

func (d *durationSourceValue) String() string {
	if d.p == nil {
		return ""
	}
	return string(*d.p)
}

func (d *durationSourceValue) Set(s string) error {
	switch strings.ToLower(s) {
	case "input":
		*d.p = DurationFromInput
	case "temp":
		*d.p = DurationFromTemp
	default:
		return fmt.Errorf("invalid duration source %q (use 'input' or 'temp')", s)
	}
	return nil
}

func (d *durationSourceValue) Type() string { return "source" }
