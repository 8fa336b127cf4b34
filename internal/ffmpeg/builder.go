package ffmpeg

import (
	"errors"
	"runtime"
	"strconv"

	"github.com/hkteamnoob/naeonm/internal/planner"
)

// ErrEmptyPlan is returned by Build for a nil plan or one with no body.
var ErrEmptyPlan = errors.New("empty command plan")

// Args is an append-only argument vector. Every value is its own element,
// so titles or languages containing spaces never split or merge tokens.
type Args struct {
	tokens []string
}

// NewArgs starts a vector with the executable name.
func NewArgs(tool string) *Args {
	a := &Args{tokens: make([]string, 0, 48)}
	a.tokens = append(a.tokens, tool)
	return a
}

// Add appends raw tokens.
func (a *Args) Add(tokens ...string) *Args {
	a.tokens = append(a.tokens, tokens...)
	return a
}

// Flag appends a flag and its value as two tokens.
func (a *Args) Flag(name, value string) *Args {
	a.tokens = append(a.tokens, name, value)
	return a
}

// Slice returns a copy of the accumulated tokens.
func (a *Args) Slice() []string {
	out := make([]string, len(a.tokens))
	copy(out, a.tokens)
	return out
}

// Build wraps plan in the invocation skeleton for its kind and returns the
// full argument vector, executable first.
//
// Metadata and watermark plans share the quiet, progress-reporting prefix
// and end with -threads and the temp output. Attachment plans use the
// overwrite skeleton with no thread hint.
func Build(tool string, plan *planner.Plan, threads int) ([]string, error) {
	if plan == nil || len(plan.Body) == 0 {
		return nil, ErrEmptyPlan
	}
	if threads < 1 {
		threads = 1
	}

	args := NewArgs(tool)

	if plan.Kind == planner.KindAttachment {
		// --- Preamble ---
		args.Add("-y")
		// --- Input ---
		args.Flag("-i", plan.InputPath)
		// --- Plan body ---
		args.Add(plan.Body...)
		// --- Output ---
		args.Add(plan.OutputPath)
		return args.Slice(), nil
	}

	// --- Preamble ---
	args.Add("-hide_banner").
		Flag("-loglevel", "error").
		Flag("-progress", "pipe:1")

	// --- Input ---
	args.Flag("-i", plan.InputPath)

	// --- Plan body ---
	args.Add(plan.Body...)

	// --- Threads and output ---
	args.Flag("-threads", strconv.Itoa(threads))
	args.Add(plan.OutputPath)

	return args.Slice(), nil
}

// ThreadCount returns half the given CPU count, never less than one.
func ThreadCount(cpus int) int {
	return max(1, cpus/2)
}

// DefaultThreads applies ThreadCount to this machine.
func DefaultThreads() int {
	return ThreadCount(runtime.NumCPU())
}
