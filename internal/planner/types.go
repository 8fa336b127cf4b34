package planner

// Kind identifies which command skeleton a Plan is built into.
type Kind int

const (
	KindMetadata Kind = iota
	KindWatermark
	KindAttachment
)

func (k Kind) String() string {
	switch k {
	case KindMetadata:
		return "metadata"
	case KindWatermark:
		return "watermark"
	case KindAttachment:
		return "attachment"
	default:
		return "unknown"
	}
}

// Plan is the pure result of planning one edit. Body holds the
// plan-specific tokens in order; the ffmpeg package wraps them in the
// invocation prefix and output path. Plans are built once and not mutated.
type Plan struct {
	Kind       Kind
	InputPath  string
	OutputPath string
	Body       []string
}

// Tokens returns a copy of the plan body so callers cannot alias it.
func (p *Plan) Tokens() []string {
	out := make([]string, len(p.Body))
	copy(out, p.Body)
	return out
}
