package proc

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"
)

func TestTail(t *testing.T) {
	tests := []struct {
		name   string
		output string
		n      int
		want   []string
	}{
		{"empty", "", 5, nil},
		{"fewer lines than n", "a\nb", 5, []string{"a", "b"}},
		{"keeps last n", "a\nb\nc\nd", 2, []string{"c", "d"}},
		{"drops blank lines", "a\n\n  \nb\n", 5, []string{"a", "b"}},
		{"strips carriage returns", "a\r\nb\r\n", 5, []string{"a", "b"}},
		{"zero n", "a\nb", 0, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tail(tt.output, tt.n)
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("Tail(%q, %d) = %v, want %v", tt.output, tt.n, got, tt.want)
			}
		})
	}
}

func TestExitError_Message(t *testing.T) {
	err := &ExitError{Name: "ffprobe", Code: 1, Stderr: "first\nmovie.mkv: No such file or directory\n"}
	want := "ffprobe exited with status 1: movie.mkv: No such file or directory"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestExec_NonZeroExit(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	_, err := Exec(context.Background(), Command{
		Name: "sh",
		Args: []string{"-c", "echo boom >&2; exit 3"},
	})
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("got %v, want *ExitError", err)
	}
	if exitErr.Code != 3 {
		t.Errorf("Code = %d, want 3", exitErr.Code)
	}
	if strings.TrimSpace(exitErr.Stderr) != "boom" {
		t.Errorf("Stderr = %q, want %q", exitErr.Stderr, "boom")
	}
}

func TestExec_TeesStdout(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	var tee strings.Builder
	res, err := Exec(context.Background(), Command{
		Name:   "sh",
		Args:   []string{"-c", "printf 'progress=end\\n'"},
		Stdout: &tee,
	})
	if err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if string(res.Stdout) != "progress=end\n" || tee.String() != "progress=end\n" {
		t.Errorf("captured %q, tee %q", res.Stdout, tee.String())
	}
}

func TestExec_MissingBinary(t *testing.T) {
	_, err := Exec(context.Background(), Command{Name: "naeonm-no-such-binary"})
	if err == nil {
		t.Fatal("expected error for missing binary")
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		t.Errorf("missing binary should not be an ExitError: %v", err)
	}
}
