package ffmpeg

import (
	"context"
	"errors"

	"github.com/hkteamnoob/naeonm/internal/planner"
	"github.com/hkteamnoob/naeonm/internal/proc"
)

// ExecResult holds the outcome of a single ffmpeg invocation.
type ExecResult struct {
	Args     []string
	Stderr   string
	ExitCode int // -1 when the process never produced an exit status
	Issue    Issue
	Err      error
}

// Executor builds and runs ffmpeg commands for plans.
type Executor struct {
	binary  string
	threads int
	run     proc.Func
}

// ExecutorOption customises an Executor.
type ExecutorOption func(*Executor)

// WithRunner replaces the subprocess runner, mainly for tests.
func WithRunner(run proc.Func) ExecutorOption {
	return func(e *Executor) {
		if run != nil {
			e.run = run
		}
	}
}

// WithThreads overrides the -threads value; values below one fall back to
// DefaultThreads.
func WithThreads(n int) ExecutorOption {
	return func(e *Executor) {
		if n >= 1 {
			e.threads = n
		}
	}
}

// NewExecutor returns an Executor invoking binary ("ffmpeg", or a renamed
// build such as "xtra").
func NewExecutor(binary string, opts ...ExecutorOption) *Executor {
	if binary == "" {
		binary = "ffmpeg"
	}
	e := &Executor{binary: binary, threads: DefaultThreads(), run: proc.Exec}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Binary reports the configured executable.
func (e *Executor) Binary() string { return e.binary }

// Threads reports the -threads value used for metadata and watermark plans.
func (e *Executor) Threads() int { return e.threads }

// Command returns the argument vector Execute would run for plan.
func (e *Executor) Command(plan *planner.Plan) ([]string, error) {
	return Build(e.binary, plan, e.threads)
}

// Execute runs plan to completion. onProgress, when non-nil, receives each
// -progress block as ffmpeg reports it. Stderr is captured for diagnostics.
func (e *Executor) Execute(ctx context.Context, plan *planner.Plan, onProgress func(Progress)) ExecResult {
	args, err := e.Command(plan)
	if err != nil {
		return ExecResult{ExitCode: -1, Err: err}
	}

	cmd := proc.Command{Name: args[0], Args: args[1:]}
	if onProgress != nil {
		cmd.Stdout = newProgressWriter(onProgress)
	}

	res, err := e.run(ctx, cmd)
	result := ExecResult{
		Args:   args,
		Stderr: string(res.Stderr),
		Err:    err,
	}
	if err == nil {
		return result
	}

	result.ExitCode = -1
	var exitErr *proc.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.Code
		if result.Stderr == "" {
			result.Stderr = exitErr.Stderr
		}
	}
	result.Issue = Classify(result.Stderr)
	return result
}
