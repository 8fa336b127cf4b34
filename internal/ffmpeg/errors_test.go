package ffmpeg

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		stderr string
		want   Issue
	}{
		{"clean", "", IssueNone},
		{"attachment tag", "[matroska @ 0x55] Attachment stream 2 has no mimetype tag and it does not end in .ttf", IssueAttachment},
		{"attachment open", "Could not open attachment file /tmp/x.jpg", IssueAttachment},
		{"subtitle", "Subtitle codec 94213 is not supported.", IssueSubtitle},
		{"font", "[Parsed_drawtext_0 @ 0x1] Cannot find a valid font for the family Sans", IssueFont},
		{"mux queue", "Too many packets buffered for output stream 0:1.", IssueMuxQueue},
		{"timestamps", "Non-monotonous DTS in output stream 0:1", IssueTimestamp},
		{"missing input", "/dl/x.mkv: No such file or directory", IssueMissingInput},
		{"unrecognised", "Conversion failed!", IssueNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.stderr); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.stderr, got, tt.want)
			}
		})
	}
}

func TestIssueHint(t *testing.T) {
	if IssueNone.Hint() != "" {
		t.Error("IssueNone should have no hint")
	}
	for _, i := range []Issue{IssueAttachment, IssueSubtitle, IssueFont, IssueMuxQueue, IssueTimestamp, IssueMissingInput} {
		if i.Hint() == "" {
			t.Errorf("Issue %d has no hint", i)
		}
	}
}
