package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/hkteamnoob/naeonm/internal/display"
	"github.com/hkteamnoob/naeonm/internal/probe"
)

// Operation is one per-file edit, typically a closure over a Runner method.
type Operation func(ctx context.Context, path string) error

// Run is the batch entry point. It expands targets (directories are
// discovered recursively), applies op to each file sequentially, and
// returns aggregate stats. Files with nothing to plan, or locked by another
// run, are counted as skipped.
func (r *Runner) Run(ctx context.Context, targets []string, op Operation) RunStats {
	var stats RunStats
	log := r.log

	files, err := ExpandTargets(targets)
	if err != nil {
		log.Error("File discovery failed: %v", err)
		stats.Failed++
		return stats
	}

	stats.Total = len(files)
	log.Info("Found %d files", stats.Total)

	for i, path := range files {
		if ctx.Err() != nil {
			log.Warn("Interrupted")
			break
		}
		stats.Current = i + 1
		r.processFile(ctx, path, op, &stats)
	}

	r.logSummary(&stats)
	return stats
}

func (r *Runner) processFile(ctx context.Context, path string, op Operation, stats *RunStats) {
	log := r.log
	log.Info("[%d/%d] %s", stats.Current, stats.Total, filepath.Base(path))

	fi, err := os.Stat(path)
	if err != nil {
		log.Error("File not found: %s", path)
		stats.Failed++
		return
	}

	err = op(ctx, path)
	switch {
	case err == nil:
		stats.Edited++
	case errors.Is(err, probe.ErrNoStreams):
		log.Warn("No streams to map, skipping")
		stats.Skipped++
		return
	case errors.Is(err, ErrBusy):
		log.Warn("Skip (busy): %v", err)
		stats.Skipped++
		return
	default:
		log.Error("%v", err)
		stats.Failed++
		return
	}

	stats.TotalInputBytes += fi.Size()
	if out, err := os.Stat(path); err == nil {
		stats.TotalOutputBytes += out.Size()
	}
}

func (r *Runner) logSummary(stats *RunStats) {
	log := r.log
	log.Info("==============================")
	log.Info("Done: %d edited, %d skipped, %d failed", stats.Edited, stats.Skipped, stats.Failed)
	log.Info("Summary report:")
	log.Info("  Total files processed: %d", stats.Current)

	if r.cfg.DryRun {
		log.Info("  Size change: n/a (dry run)")
		return
	}
	log.Info("  Size change: %s (input %s -> output %s)",
		display.FormatBytesWithSign(stats.SizeDelta()),
		display.FormatBytes(stats.TotalInputBytes),
		display.FormatBytes(stats.TotalOutputBytes))
}
