package probe

import (
	"errors"
	"strings"
)

var (
	// ErrToolFailed matches any *ToolError via errors.Is.
	ErrToolFailed = errors.New("ffprobe failed")
	// ErrNoStreams means ffprobe succeeded but its output carried no streams key.
	ErrNoStreams = errors.New("no streams found in ffprobe output")
	// ErrDurationUnavailable means the container duration could not be read
	// as a positive number.
	ErrDurationUnavailable = errors.New("could not determine media duration")
)

// ToolError wraps a failed ffprobe invocation with its diagnostic output.
type ToolError struct {
	Path   string
	Stderr string
	Err    error
}

func (e *ToolError) Error() string {
	msg := "ffprobe " + e.Path
	if s := strings.TrimSpace(e.Stderr); s != "" {
		return msg + ": " + s
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg + ": failed"
}

func (e *ToolError) Unwrap() error { return e.Err }

func (e *ToolError) Is(target error) bool { return target == ErrToolFailed }
