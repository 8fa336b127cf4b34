package probe

// CodecType classifies a stream the way the metadata planner addresses it.
type CodecType string

const (
	CodecVideo    CodecType = "video"
	CodecAudio    CodecType = "audio"
	CodecSubtitle CodecType = "subtitle"
	// CodecOther covers data, attachment, and any type ffprobe adds later.
	CodecOther CodecType = "other"
)

// UnknownCodec is substituted when ffprobe omits codec_name.
const UnknownCodec = "unknown"

// StreamRecord is one elementary stream as reported by ffprobe, in probe order.
type StreamRecord struct {
	Index       int
	Type        CodecType
	Codec       string
	Language    string
	HasLanguage bool // true iff ffprobe reported tags.language, even if empty
}

// parseCodecType folds ffprobe's codec_type into the four planner classes.
func parseCodecType(s string) CodecType {
	switch s {
	case "video":
		return CodecVideo
	case "audio":
		return CodecAudio
	case "subtitle":
		return CodecSubtitle
	default:
		return CodecOther
	}
}

// CountByType tallies streams per codec type.
func CountByType(streams []StreamRecord) map[CodecType]int {
	counts := make(map[CodecType]int, 4)
	for _, s := range streams {
		counts[s.Type]++
	}
	return counts
}
