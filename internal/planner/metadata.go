package planner

import (
	"strconv"

	"github.com/hkteamnoob/naeonm/internal/probe"
)

// Container-level tags written on every metadata edit. The empty values
// overwrite whatever the source carried.
const (
	SiteTag      = "OFFICIAL_SITE=TELEGRAM/@FiLiMHOUSE"
	EncodedByTag = "Encoded by="
	NotesTag     = "NOTES="
)

// excludedSubtitleCodecs are dropped from the output entirely.
var excludedSubtitleCodecs = map[string]bool{
	"webvtt":           true,
	probe.UnknownCodec: true,
}

// PlanMetadata plans a metadata rewrite of input. It returns false when
// streams is empty; there is nothing to map in that case and no tokens are
// produced. The result is a pure function of its arguments.
func PlanMetadata(input string, streams []probe.StreamRecord, titleKey string) (*Plan, bool) {
	if len(streams) == 0 {
		return nil, false
	}

	body := []string{
		"-map_metadata", "-1",
		"-c", "copy",
		"-metadata", "title=" + titleKey,
		"-metadata", SiteTag,
		"-metadata", EncodedByTag,
		"-metadata", NotesTag,
	}

	f := streamFold{key: titleKey, tokens: body}
	for _, s := range streams {
		f = f.step(s)
	}

	return &Plan{
		Kind:       KindMetadata,
		InputPath:  input,
		OutputPath: TempPath(input),
		Body:       f.tokens,
	}, true
}

// streamFold is the accumulator threaded through the stream list. Each step
// returns a new value; counters only move on accepted streams.
type streamFold struct {
	key       string
	audio     int
	subtitle  int
	videoSeen bool
	tokens    []string
}

func (f streamFold) step(s probe.StreamRecord) streamFold {
	idx := strconv.Itoa(s.Index)

	switch s.Type {
	case probe.CodecVideo:
		// Only the first video stream is mapped; every video stream is
		// still tagged by its global index.
		if !f.videoSeen {
			f.tokens = append(f.tokens, "-map", "0:"+idx)
			f.videoSeen = true
		}
		f.tokens = appendStreamTags(f.tokens, "-metadata:s:v:"+idx, f.key, s)

	case probe.CodecAudio:
		f.tokens = append(f.tokens, "-map", "0:"+idx)
		f.tokens = appendStreamTags(f.tokens, "-metadata:s:a:"+strconv.Itoa(f.audio), f.key, s)
		f.audio++

	case probe.CodecSubtitle:
		if excludedSubtitleCodecs[s.Codec] {
			return f
		}
		f.tokens = append(f.tokens, "-map", "0:"+idx)
		f.tokens = appendStreamTags(f.tokens, "-metadata:s:s:"+strconv.Itoa(f.subtitle), f.key, s)
		f.subtitle++

	default:
		f.tokens = append(f.tokens, "-map", "0:"+idx)
	}
	return f
}

func appendStreamTags(tokens []string, specifier, key string, s probe.StreamRecord) []string {
	tokens = append(tokens, specifier, "title="+key)
	if s.HasLanguage {
		tokens = append(tokens, specifier, "language="+s.Language)
	}
	return tokens
}
