// Package proc runs external tools as single blocking invocations and
// decodes their exit status into typed errors.
//
// Callers depend on [Func] rather than os/exec directly so tests can swap
// in a fake without a real ffmpeg or ffprobe on PATH.
package proc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Command describes one invocation. Stdout, when set, receives the child's
// standard output as it is produced in addition to the captured copy.
type Command struct {
	Name   string
	Args   []string
	Stdout io.Writer
}

// Result holds the captured output of a finished invocation.
type Result struct {
	Stdout []byte
	Stderr []byte
}

// Func runs a command to completion. Implementations return *ExitError when
// the process ran but exited non-zero.
type Func func(ctx context.Context, cmd Command) (Result, error)

// ExitError reports a non-zero exit from an external tool.
type ExitError struct {
	Name   string
	Code   int
	Stderr string
	Err    error
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s exited with status %d", e.Name, e.Code)
	if tail := strings.TrimSpace(e.Stderr); tail != "" {
		msg += ": " + lastLine(tail)
	}
	return msg
}

func (e *ExitError) Unwrap() error { return e.Err }

// Exec is the default Func backed by os/exec.
func Exec(ctx context.Context, c Command) (Result, error) {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)

	var stdout, stderr bytes.Buffer
	if c.Stdout != nil {
		cmd.Stdout = io.MultiWriter(&stdout, c.Stdout)
	} else {
		cmd.Stdout = &stdout
	}
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err == nil {
		return res, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return res, &ExitError{
			Name:   c.Name,
			Code:   exitErr.ExitCode(),
			Stderr: stderr.String(),
			Err:    err,
		}
	}
	// Binary missing, permission denied, or context cancelled before start.
	return res, fmt.Errorf("run %s: %w", c.Name, err)
}

// Tail returns the last n non-empty lines of output, oldest first.
func Tail(output string, n int) []string {
	output = strings.TrimSpace(output)
	if output == "" || n <= 0 {
		return nil
	}
	lines := strings.Split(output, "\n")
	kept := make([]string, 0, len(lines))
	for _, l := range lines {
		if l = strings.TrimRight(l, "\r"); strings.TrimSpace(l) != "" {
			kept = append(kept, l)
		}
	}
	if len(kept) > n {
		kept = kept[len(kept)-n:]
	}
	return kept
}

func lastLine(s string) string {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[i+1:])
	}
	return s
}
