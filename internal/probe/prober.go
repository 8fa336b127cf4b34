package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/hkteamnoob/naeonm/internal/proc"
)

// Prober runs ffprobe against media files. The zero value is not usable;
// construct with [NewProber].
type Prober struct {
	binary string
	run    proc.Func
}

// Option customises a Prober.
type Option func(*Prober)

// WithRunner replaces the subprocess runner, mainly for tests.
func WithRunner(run proc.Func) Option {
	return func(p *Prober) {
		if run != nil {
			p.run = run
		}
	}
}

// NewProber returns a Prober invoking binary (typically "ffprobe").
func NewProber(binary string, opts ...Option) *Prober {
	if strings.TrimSpace(binary) == "" {
		binary = "ffprobe"
	}
	p := &Prober{binary: binary, run: proc.Exec}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Binary reports the ffprobe executable this Prober invokes.
func (p *Prober) Binary() string { return p.binary }

// Streams lists the streams of path in probe order. A non-zero ffprobe exit
// yields a *ToolError; output without a streams key yields ErrNoStreams.
// There are no retries.
func (p *Prober) Streams(ctx context.Context, path string) ([]StreamRecord, error) {
	res, err := p.run(ctx, proc.Command{
		Name: p.binary,
		Args: []string{
			"-hide_banner",
			"-loglevel", "error",
			"-print_format", "json",
			"-show_streams",
			path,
		},
	})
	if err != nil {
		return nil, &ToolError{Path: path, Stderr: string(res.Stderr), Err: err}
	}
	return ParseStreams(res.Stdout)
}

// Duration returns the container duration of path in seconds. Every failure
// mode, including a missing file, maps to ErrDurationUnavailable.
func (p *Prober) Duration(ctx context.Context, path string) (float64, error) {
	if _, err := os.Stat(path); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDurationUnavailable, err)
	}
	res, err := p.run(ctx, proc.Command{
		Name: p.binary,
		Args: []string{
			"-v", "error",
			"-show_entries", "format=duration",
			"-of", "default=noprint_wrappers=1:nokey=1",
			path,
		},
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDurationUnavailable, err)
	}
	return ParseDuration(res.Stdout)
}

// ParseStreams converts raw ffprobe -show_streams JSON into stream records.
// Exported for testing without a real ffprobe binary.
func ParseStreams(data []byte) ([]StreamRecord, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse ffprobe JSON: %w", err)
	}
	if raw.Streams == nil {
		return nil, ErrNoStreams
	}

	streams := make([]StreamRecord, 0, len(*raw.Streams))
	for i := range *raw.Streams {
		streams = append(streams, convertStream(&(*raw.Streams)[i]))
	}
	return streams, nil
}

// ParseDuration reads the bare number printed by the format=duration query.
func ParseDuration(out []byte) (float64, error) {
	s := strings.TrimSpace(string(out))
	d, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: non-numeric output %q", ErrDurationUnavailable, s)
	}
	if math.IsNaN(d) || math.IsInf(d, 0) || d <= 0 {
		return 0, fmt.Errorf("%w: invalid duration %q", ErrDurationUnavailable, s)
	}
	return d, nil
}

// --- ffprobe JSON wire types ---

type ffprobeOutput struct {
	// Pointer distinguishes a missing key from an empty array.
	Streams *[]ffprobeStream `json:"streams"`
}

type ffprobeStream struct {
	Index     int               `json:"index"`
	CodecName *string           `json:"codec_name"`
	CodecType string            `json:"codec_type"`
	Tags      map[string]string `json:"tags"`
}

func convertStream(s *ffprobeStream) StreamRecord {
	rec := StreamRecord{
		Index: s.Index,
		Type:  parseCodecType(s.CodecType),
		Codec: UnknownCodec,
	}
	if s.CodecName != nil {
		rec.Codec = *s.CodecName
	}
	if lang, ok := s.Tags["language"]; ok {
		rec.Language = lang
		rec.HasLanguage = true
	}
	return rec
}
