package planner

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/hkteamnoob/naeonm/internal/probe"
)

// Segment is a window [Start, End] in seconds during which the overlay is
// drawn.
type Segment struct {
	Start float64
	End   float64
}

// WatermarkStyle holds the fixed drawtext parameters.
type WatermarkStyle struct {
	FontFile  string
	FontSize  int
	FontColor string
	X, Y      int
}

// DefaultWatermarkStyle matches the overlay the bot has always produced.
func DefaultWatermarkStyle() WatermarkStyle {
	return WatermarkStyle{
		FontFile:  "default.otf",
		FontSize:  20,
		FontColor: "white",
		X:         10,
		Y:         10,
	}
}

// Segments schedules overlay windows for a clip of the given duration:
// the whole clip up to 10s, three 5s windows up to 20s, and three 10s
// windows (start, middle, end) beyond that.
func Segments(duration float64) []Segment {
	switch {
	case duration <= 10:
		return []Segment{{0, duration}}
	case duration <= 20:
		mid := duration / 2
		return []Segment{
			{0, 5},
			{mid - 2.5, mid + 2.5},
			{duration - 5, duration},
		}
	default:
		midStart := duration/2 - 5
		return []Segment{
			{0, 10},
			{midStart, midStart + 10},
			{math.Max(0, duration-10), duration},
		}
	}
}

// WatermarkFilter renders the comma-joined drawtext chain for key. A
// non-positive or non-finite duration yields probe.ErrDurationUnavailable.
func WatermarkFilter(duration float64, key string, style WatermarkStyle) (string, error) {
	if math.IsNaN(duration) || math.IsInf(duration, 0) || duration <= 0 {
		return "", fmt.Errorf("%w: %v", probe.ErrDurationUnavailable, duration)
	}

	text := escapeDrawtext(key)
	segments := Segments(duration)
	clauses := make([]string, 0, len(segments))
	for _, seg := range segments {
		clauses = append(clauses, fmt.Sprintf(
			"drawtext=text='%s':fontfile=%s:fontsize=%d:fontcolor=%s:x=%d:y=%d:enable='between(t,%s,%s)'",
			text, style.FontFile, style.FontSize, style.FontColor, style.X, style.Y,
			formatSeconds(seg.Start), formatSeconds(seg.End),
		))
	}
	return strings.Join(clauses, ","), nil
}

// PlanWatermark plans a re-encode of input with the scheduled overlay.
func PlanWatermark(input string, duration float64, key string, style WatermarkStyle) (*Plan, error) {
	chain, err := WatermarkFilter(duration, key, style)
	if err != nil {
		return nil, err
	}
	return &Plan{
		Kind:       KindWatermark,
		InputPath:  input,
		OutputPath: TempPath(input),
		Body:       []string{"-vf", chain},
	}, nil
}

// formatSeconds prints the shortest decimal form: 0, 5, 7.5.
func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ffmpeg unescapes the text option three times: the filtergraph parser
// strips quotes and backslashes, the option parser does it again and splits
// on ':', and drawtext expansion treats '\' and '%' specially.
var (
	expansionEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`)
	optionEscaper    = strings.NewReplacer(`\`, `\\`, `'`, `\'`, `:`, `\:`)
	quoteEscaper     = strings.NewReplacer(`'`, `'\''`)
)

// escapeDrawtext returns key ready to sit between the single quotes of the
// text option, so it reaches drawtext verbatim.
func escapeDrawtext(key string) string {
	return quoteEscaper.Replace(optionEscaper.Replace(expansionEscaper.Replace(key)))
}
