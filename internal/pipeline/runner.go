package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hkteamnoob/naeonm/internal/config"
	"github.com/hkteamnoob/naeonm/internal/display"
	"github.com/hkteamnoob/naeonm/internal/ffmpeg"
	"github.com/hkteamnoob/naeonm/internal/history"
	"github.com/hkteamnoob/naeonm/internal/logging"
	"github.com/hkteamnoob/naeonm/internal/planner"
	"github.com/hkteamnoob/naeonm/internal/probe"
	"github.com/hkteamnoob/naeonm/internal/proc"
)

// ErrAttachmentToolFailed reports that the attachment invocation failed.
// The original file is left untouched and the temp output is removed.
var ErrAttachmentToolFailed = errors.New("attachment tool failed")

// stderrTailLines is how much ffmpeg output is echoed on failure.
const stderrTailLines = 20

// Recorder persists one history entry. *history.Store satisfies it.
type Recorder interface {
	Record(ctx context.Context, e history.Entry) (history.Entry, error)
}

// Runner executes edit operations against files in place: each operation
// writes <input>.temp.mkv and, on success, renames it over the input.
type Runner struct {
	cfg     *config.Config
	log     *logging.Logger
	prober  *probe.Prober
	exec    *ffmpeg.Executor
	history Recorder
	style   planner.WatermarkStyle
}

// Option customises a Runner.
type Option func(*Runner)

// WithCommandRunner routes both ffprobe and ffmpeg through run.
func WithCommandRunner(run proc.Func) Option {
	return func(r *Runner) {
		r.prober = probe.NewProber(r.cfg.Tools.FFprobe, probe.WithRunner(run))
		r.exec = ffmpeg.NewExecutor(r.cfg.Tools.FFmpeg, ffmpeg.WithRunner(run), ffmpeg.WithThreads(r.cfg.Threads))
	}
}

// WithHistory records every operation to rec. A nil rec disables recording.
func WithHistory(rec Recorder) Option {
	return func(r *Runner) {
		r.history = rec
	}
}

// NewRunner wires the prober and executor from cfg.
func NewRunner(cfg *config.Config, log *logging.Logger, opts ...Option) *Runner {
	style := planner.DefaultWatermarkStyle()
	style.FontFile = cfg.Watermark.FontFile

	r := &Runner{
		cfg:    cfg,
		log:    log,
		prober: probe.NewProber(cfg.Tools.FFprobe),
		exec:   ffmpeg.NewExecutor(cfg.Tools.FFmpeg, ffmpeg.WithThreads(cfg.Threads)),
		style:  style,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Prober exposes the configured prober for read-only commands.
func (r *Runner) Prober() *probe.Prober { return r.prober }

// EditMetadata rewrites container and stream tags of input, using title as
// the title key and the per-stream title.
func (r *Runner) EditMetadata(ctx context.Context, input, title string) error {
	return r.editMetadata(ctx, input, title, nil)
}

// editMetadata runs the metadata step. When set, written sees the temp
// output after ffmpeg succeeded and before it replaces the input.
func (r *Runner) editMetadata(ctx context.Context, input, title string, written func(temp string)) error {
	return r.track(ctx, planner.KindMetadata, input, func(log *logging.Logger) error {
		streams, err := r.prober.Streams(ctx, input)
		if err != nil {
			return err
		}
		plan, ok := planner.PlanMetadata(input, streams, title)
		if !ok {
			return fmt.Errorf("%w: %s", probe.ErrNoStreams, input)
		}

		counts := probe.CountByType(streams)
		log.Info("Editing metadata: %d video, %d audio, %d subtitle, %d other",
			counts[probe.CodecVideo], counts[probe.CodecAudio],
			counts[probe.CodecSubtitle], counts[probe.CodecOther])
		return r.execute(ctx, log, plan, 0, written)
	})
}

// durationFunc resolves the media duration fed to the watermark scheduler.
type durationFunc func(ctx context.Context, log *logging.Logger, input string) (float64, error)

// Watermark re-encodes input with the scheduled drawtext overlay of key.
func (r *Runner) Watermark(ctx context.Context, input, key string) error {
	return r.watermark(ctx, input, key, r.watermarkDuration)
}

func (r *Runner) watermark(ctx context.Context, input, key string, durationOf durationFunc) error {
	return r.track(ctx, planner.KindWatermark, input, func(log *logging.Logger) error {
		duration, err := durationOf(ctx, log, input)
		if err != nil {
			return err
		}
		plan, err := planner.PlanWatermark(input, duration, key, r.style)
		if err != nil {
			return err
		}

		log.Info("Watermarking: %.1fs, %d segments", duration, len(planner.Segments(duration)))
		return r.execute(ctx, log, plan, duration, nil)
	})
}

// watermarkDuration probes the input, or in temp mode a copy staged at the
// temp path. The staged copy is removed before ffmpeg writes there. Dry runs
// never stage and read the input.
func (r *Runner) watermarkDuration(ctx context.Context, log *logging.Logger, input string) (float64, error) {
	if r.cfg.Watermark.DurationFrom != config.DurationFromTemp || r.cfg.DryRun {
		return r.prober.Duration(ctx, input)
	}
	temp := planner.TempPath(input)
	if err := stageTemp(input, temp); err != nil {
		return 0, fmt.Errorf("%w: stage %s: %w", probe.ErrDurationUnavailable, filepath.Base(temp), err)
	}
	defer removeTemp(temp)
	log.Debug("Reading duration from %s", filepath.Base(temp))
	return r.prober.Duration(ctx, temp)
}

// stageTemp places a copy of input at temp, hard-linking when the
// filesystem allows it. Any previous temp is replaced.
func stageTemp(input, temp string) error {
	if err := os.Remove(temp); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if err := os.Link(input, temp); err == nil {
		return nil
	}
	src, err := os.Open(input)
	if err != nil {
		return err
	}
	defer src.Close()
	dst, err := os.Create(temp)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		removeTemp(temp)
		return err
	}
	return dst.Close()
}

// Attach embeds attachment into input as a Matroska attachment. Tool
// failures are reported as ErrAttachmentToolFailed.
func (r *Runner) Attach(ctx context.Context, input, attachment string) error {
	return r.track(ctx, planner.KindAttachment, input, func(log *logging.Logger) error {
		if _, err := os.Stat(attachment); err != nil {
			return fmt.Errorf("attachment %s: %w", attachment, err)
		}
		plan := planner.PlanAttachment(input, attachment)

		log.Info("Adding photo attachment: %s (%s)", filepath.Base(attachment), planner.MimeType(attachment))
		if err := r.execute(ctx, log, plan, 0, nil); err != nil {
			if ctx.Err() != nil {
				return err
			}
			return fmt.Errorf("%w: %w", ErrAttachmentToolFailed, err)
		}
		if !r.cfg.DryRun {
			log.Success("Photo attachment added successfully")
		}
		return nil
	})
}

// Request selects the steps of a chained Process run. Empty fields skip
// their step.
type Request struct {
	Title        string
	WatermarkKey string
	Attachment   string
}

// Process runs metadata, watermark and attachment in that order. An
// attachment failure is logged and does not fail the chain. In temp mode a
// watermark following the metadata step takes its duration from the
// metadata output before that output replaces the input.
func (r *Runner) Process(ctx context.Context, input string, req Request) error {
	durationOf := r.watermarkDuration
	if req.Title != "" {
		var written func(string)
		if req.WatermarkKey != "" && r.cfg.Watermark.DurationFrom == config.DurationFromTemp {
			written = func(temp string) {
				d, err := r.prober.Duration(ctx, temp)
				durationOf = func(context.Context, *logging.Logger, string) (float64, error) {
					return d, err
				}
			}
		}
		if err := r.editMetadata(ctx, input, req.Title, written); err != nil {
			return err
		}
	}
	if req.WatermarkKey != "" {
		if err := r.watermark(ctx, input, req.WatermarkKey, durationOf); err != nil {
			return err
		}
	}
	if req.Attachment != "" {
		err := r.Attach(ctx, input, req.Attachment)
		if errors.Is(err, ErrAttachmentToolFailed) {
			r.log.Warn("Attachment failed, keeping file without it: %v", err)
			return nil
		}
		return err
	}
	return nil
}

// track holds the input lock around fn, tags its log lines with a job id,
// and records the outcome.
func (r *Runner) track(ctx context.Context, kind planner.Kind, input string, fn func(log *logging.Logger) error) error {
	id := history.NewID()
	log := r.log.With("job", id)
	start := time.Now()

	err := func() error {
		fl, err := lockInput(input)
		if err != nil {
			return err
		}
		defer unlockInput(fl)
		return fn(log)
	}()

	entry := history.Entry{
		ID:        id,
		Operation: kind.String(),
		InputPath: input,
		Status:    history.StatusOK,
		StartedAt: start,
		Elapsed:   time.Since(start),
	}
	switch {
	case err == nil && r.cfg.DryRun:
		entry.Status = history.StatusDryRun
	case errors.Is(err, probe.ErrNoStreams), errors.Is(err, ErrBusy):
		entry.Status = history.StatusSkipped
		entry.Detail = err.Error()
	case err != nil:
		entry.Status = history.StatusFailed
		entry.Detail = err.Error()
	}
	r.record(ctx, log, entry)
	return err
}

func (r *Runner) record(ctx context.Context, log *logging.Logger, e history.Entry) {
	if r.history == nil {
		return
	}
	// Cancellation must not lose the entry for the operation it interrupted.
	if _, err := r.history.Record(context.WithoutCancel(ctx), e); err != nil {
		log.Warn("History not recorded: %v", err)
	}
}

// execute runs plan and commits its output: rename over the input on
// success, remove the temp file on failure. The input is never modified
// unless the tool succeeded. written, when set, is called with the finished
// temp output just before the rename.
func (r *Runner) execute(ctx context.Context, log *logging.Logger, plan *planner.Plan, duration float64, written func(temp string)) error {
	args, err := r.exec.Command(plan)
	if err != nil {
		return err
	}

	if r.cfg.DryRun {
		log.Success("[DRY] Would run: %s", shellJoin(args))
		return nil
	}
	log.Debug("Command: %s", shellJoin(args))

	if _, err := os.Stat(plan.OutputPath); err == nil {
		log.Warn("Removing stale temp file: %s", filepath.Base(plan.OutputPath))
		if err := os.Remove(plan.OutputPath); err != nil {
			return fmt.Errorf("remove stale temp: %w", err)
		}
	}

	total := time.Duration(duration * float64(time.Second))
	start := time.Now()
	result := r.exec.Execute(ctx, plan, func(p ffmpeg.Progress) {
		if pct := p.Percent(total); pct >= 0 {
			log.Debug("  progress %.0f%% (time=%s speed=%s)", pct, p.OutTime.Round(time.Second), p.Speed)
			return
		}
		log.Debug("  progress time=%s size=%s", p.OutTime.Round(time.Second), display.FormatBytes(p.TotalSize))
	})

	if result.Err != nil {
		removeTemp(plan.OutputPath)
		if ctx.Err() != nil {
			log.Warn("Interrupted, temp output removed")
			return ctx.Err()
		}
		log.Error("%s failed (exit %d)", r.exec.Binary(), result.ExitCode)
		logStderr(log, result.Stderr)
		if hint := result.Issue.Hint(); hint != "" {
			log.Warn("Hint: %s", hint)
		}
		return fmt.Errorf("%s %s: %w", plan.Kind, filepath.Base(plan.InputPath), result.Err)
	}

	fi, err := os.Stat(plan.OutputPath)
	if err != nil {
		return fmt.Errorf("%s produced no output: %w", r.exec.Binary(), err)
	}
	if written != nil {
		written(plan.OutputPath)
	}
	if err := os.Rename(plan.OutputPath, plan.InputPath); err != nil {
		removeTemp(plan.OutputPath)
		return fmt.Errorf("replace original: %w", err)
	}
	log.Success("%s done in %s (%s)", display.Label(plan.Kind.String()),
		display.FormatElapsed(time.Since(start)), display.FormatBytes(fi.Size()))
	return nil
}

// removeTemp discards a partial output. A temp that cannot be removed is
// cleared as stale by the next run on the same input.
func removeTemp(path string) {
	_ = os.Remove(path)
}

func logStderr(log *logging.Logger, stderr string) {
	lines := proc.Tail(stderr, stderrTailLines)
	if len(lines) == 0 {
		return
	}
	log.Error("Last ffmpeg output:")
	for _, l := range lines {
		log.Error("  %s", l)
	}
}

// shellJoin renders args for display, single-quoting anything a shell
// would split or expand.
func shellJoin(args []string) string {
	quoted := make([]string, len(args))
	for i, a := range args {
		if a == "" || strings.ContainsAny(a, shellSpecial) {
			quoted[i] = "'" + strings.ReplaceAll(a, "'", `'\''`) + "'"
			continue
		}
		quoted[i] = a
	}
	return strings.Join(quoted, " ")
}

const shellSpecial = " \t\n'\"\\$`*?[]()&;|<>!#~{}"
