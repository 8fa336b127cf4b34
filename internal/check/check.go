// Package check provides system diagnostics (the check command) and
// pre-run dependency validation (CheckDeps) for ffmpeg, ffprobe, the
// drawtext filter, and the watermark font.
package check

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/hkteamnoob/naeonm/internal/config"
	"github.com/hkteamnoob/naeonm/internal/proc"
)

// Sentinel errors returned by CheckDeps when a required tool or file is missing.
var (
	ErrFfmpegNotFound  = errors.New("ffmpeg not found on PATH")
	ErrFfprobeNotFound = errors.New("ffprobe not found on PATH")
	ErrFontNotFound    = errors.New("watermark font file not found")
)

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(string, ...interface{})
}

// Checker holds the probes used for diagnostics. The zero value is not
// usable; use New.
type Checker struct {
	cfg      *config.Config
	lookPath func(string) (string, error)
	run      proc.Func
	stat     func(string) (os.FileInfo, error)
}

// New returns a Checker backed by the real PATH, os/exec and filesystem.
func New(cfg *config.Config) *Checker {
	return &Checker{cfg: cfg, lookPath: exec.LookPath, run: proc.Exec, stat: os.Stat}
}

// RunCheck prints availability of ffmpeg, ffprobe, the drawtext filter and
// the watermark font. It is informational only and does not stop on failure.
func (c *Checker) RunCheck(ctx context.Context, log Logger) {
	log.Info("=== System Check ===")

	c.checkTool(ctx, log, c.cfg.Tools.FFmpeg)
	c.checkTool(ctx, log, c.cfg.Tools.FFprobe)
	c.checkDrawtext(ctx, log)
	c.checkFont(log)
}

// checkTool verifies a binary is on PATH and logs its version line.
func (c *Checker) checkTool(ctx context.Context, log Logger, name string) {
	path, err := c.lookPath(name)
	if err != nil {
		log.Error("%s not found", name)
		return
	}
	log.Debug("%s resolved to %s", name, path)
	res, err := c.run(ctx, proc.Command{Name: name, Args: []string{"-version"}})
	if err != nil {
		log.Warn("%s found but -version failed: %v", name, err)
		return
	}
	firstLine := strings.TrimSpace(string(res.Stdout))
	if idx := strings.Index(firstLine, "\n"); idx > 0 {
		firstLine = firstLine[:idx]
	}
	log.Success("%s: %s", name, firstLine)
}

// checkDrawtext looks for the drawtext filter in ffmpeg's filter list.
// Builds without libfreetype lack it and every watermark run would fail.
func (c *Checker) checkDrawtext(ctx context.Context, log Logger) {
	res, err := c.run(ctx, proc.Command{
		Name: c.cfg.Tools.FFmpeg,
		Args: []string{"-hide_banner", "-filters"},
	})
	if err != nil {
		log.Warn("Could not list filters: %v", err)
		return
	}
	for _, line := range strings.Split(string(res.Stdout), "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[1] == "drawtext" {
			log.Success("drawtext filter available")
			return
		}
	}
	log.Error("drawtext filter missing (ffmpeg built without libfreetype?)")
}

func (c *Checker) checkFont(log Logger) {
	font := c.cfg.Watermark.FontFile
	if _, err := c.stat(font); err != nil {
		log.Warn("Watermark font %s not found (only needed for watermark)", font)
		return
	}
	log.Success("Watermark font: %s", font)
}

// CheckDeps is the pre-run validation: ffmpeg and ffprobe must be on PATH,
// and when watermark is set the font file must exist. Returns a sentinel
// error (wrapped with the offending name) on failure.
func (c *Checker) CheckDeps(watermark bool) error {
	if _, err := c.lookPath(c.cfg.Tools.FFmpeg); err != nil {
		return fmt.Errorf("%w: %s", ErrFfmpegNotFound, c.cfg.Tools.FFmpeg)
	}
	if _, err := c.lookPath(c.cfg.Tools.FFprobe); err != nil {
		return fmt.Errorf("%w: %s", ErrFfprobeNotFound, c.cfg.Tools.FFprobe)
	}
	if watermark {
		if _, err := c.stat(c.cfg.Watermark.FontFile); err != nil {
			return fmt.Errorf("%w: %s", ErrFontNotFound, c.cfg.Watermark.FontFile)
		}
	}
	return nil
}
