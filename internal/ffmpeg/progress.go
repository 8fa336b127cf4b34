package ffmpeg

import (
	"bytes"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Progress is one block of ffmpeg's -progress report.
type Progress struct {
	Frame     int64
	OutTime   time.Duration
	TotalSize int64
	Speed     string
	Done      bool // progress=end
}

// Percent estimates completion against a known total duration. It returns
// -1 when total is unknown.
func (p Progress) Percent(total time.Duration) float64 {
	if total <= 0 {
		return -1
	}
	if p.Done {
		return 100
	}
	pct := float64(p.OutTime) / float64(total) * 100
	return min(100, max(0, pct))
}

// ProgressParser accumulates key=value lines and emits a Progress at each
// progress=continue|end terminator.
type ProgressParser struct {
	cur Progress
}

// Feed consumes one line. It returns the completed block and true when the
// line terminates a block.
func (pp *ProgressParser) Feed(line string) (Progress, bool) {
	key, value, ok := strings.Cut(strings.TrimSpace(line), "=")
	if !ok {
		return Progress{}, false
	}
	value = strings.TrimSpace(value)

	switch key {
	case "frame":
		pp.cur.Frame, _ = strconv.ParseInt(value, 10, 64)
	case "out_time_us", "out_time_ms":
		// out_time_ms is microseconds as well, a long-standing ffmpeg quirk.
		if us, err := strconv.ParseInt(value, 10, 64); err == nil && us >= 0 {
			pp.cur.OutTime = time.Duration(us) * time.Microsecond
		}
	case "total_size":
		pp.cur.TotalSize, _ = strconv.ParseInt(value, 10, 64)
	case "speed":
		pp.cur.Speed = value
	case "progress":
		block := pp.cur
		block.Done = value == "end"
		pp.cur = Progress{}
		return block, true
	}
	return Progress{}, false
}

// progressWriter splits stdout into lines and hands completed blocks to fn.
type progressWriter struct {
	mu     sync.Mutex
	buf    bytes.Buffer
	parser ProgressParser
	fn     func(Progress)
}

func newProgressWriter(fn func(Progress)) *progressWriter {
	return &progressWriter{fn: fn}
}

func (w *progressWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf.Write(p)
	for {
		line, err := w.buf.ReadString('\n')
		if err != nil {
			// Partial line: keep it for the next write.
			w.buf.Reset()
			w.buf.WriteString(line)
			break
		}
		if block, ok := w.parser.Feed(line); ok && w.fn != nil {
			w.fn(block)
		}
	}
	return len(p), nil
}
