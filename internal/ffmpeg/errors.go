package ffmpeg

import "regexp"

// Issue is a known ffmpeg failure class recognised from stderr. It only
// drives the hint logged next to the diagnostic; nothing is retried.
type Issue int

const (
	IssueNone Issue = iota
	IssueAttachment
	IssueSubtitle
	IssueFont
	IssueMuxQueue
	IssueTimestamp
	IssueMissingInput
)

// Pre-compiled regexes for classifying stderr, checked in declaration order.
var (
	reAttachmentIssue = regexp.MustCompile(
		`Attachment stream \d+ has no (filename|mimetype) tag|` +
			`Could not open attachment file`)

	reSubtitleIssue = regexp.MustCompile(
		`(?i)Subtitle codec .* is not supported|` +
			`Could not find tag for codec .* in stream .*subtitle|` +
			`Subtitle encoding currently only possible from text to text or bitmap to bitmap`)

	reFontIssue = regexp.MustCompile(
		`(?i)Cannot find a valid font|Could not load font|Cannot load font`)

	reMuxQueueOverflow = regexp.MustCompile(
		`Too many packets buffered for output stream`)

	reTimestampIssue = regexp.MustCompile(
		`(?i)Non-monotonous DTS|non monotonically increasing dts|` +
			`pts has no value|Timestamps are unset`)

	reMissingInput = regexp.MustCompile(
		`No such file or directory|Invalid data found when processing input`)
)

var issueChecks = []struct {
	re    *regexp.Regexp
	issue Issue
}{
	{reAttachmentIssue, IssueAttachment},
	{reSubtitleIssue, IssueSubtitle},
	{reFontIssue, IssueFont},
	{reMuxQueueOverflow, IssueMuxQueue},
	{reTimestampIssue, IssueTimestamp},
	{reMissingInput, IssueMissingInput},
}

// Classify returns the first recognised issue in stderr.
func Classify(stderr string) Issue {
	for _, c := range issueChecks {
		if c.re.MatchString(stderr) {
			return c.issue
		}
	}
	return IssueNone
}

// Hint is a one-line operator hint for the issue, empty for IssueNone.
func (i Issue) Hint() string {
	switch i {
	case IssueAttachment:
		return "attachment could not be read or tagged; check the attachment path"
	case IssueSubtitle:
		return "a subtitle stream cannot be stream-copied into Matroska"
	case IssueFont:
		return "drawtext font not found; set watermark.font_file"
	case IssueMuxQueue:
		return "mux queue overflow; the source interleaving is unusual"
	case IssueTimestamp:
		return "source timestamps are broken"
	case IssueMissingInput:
		return "input missing or unreadable"
	default:
		return ""
	}
}
