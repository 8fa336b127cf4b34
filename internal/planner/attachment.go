package planner

import (
	"path/filepath"
	"strings"
)

const defaultMimeType = "application/octet-stream"

var attachmentMimeTypes = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
}

// MimeType infers the attachment MIME type from the text after the last
// dot of the file name, case-insensitively. A name without a dot is
// matched as a whole.
func MimeType(path string) string {
	name := filepath.Base(path)
	ext := name
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		ext = name[i+1:]
	}
	if mime, ok := attachmentMimeTypes[strings.ToLower(ext)]; ok {
		return mime
	}
	return defaultMimeType
}

// PlanAttachment plans embedding attachment into input as an attachment
// stream while copying every existing stream unchanged.
func PlanAttachment(input, attachment string) *Plan {
	return &Plan{
		Kind:       KindAttachment,
		InputPath:  input,
		OutputPath: TempPath(input),
		Body: []string{
			"-attach", attachment,
			"-metadata:s:t", "mimetype=" + MimeType(attachment),
			"-c", "copy",
			"-map", "0",
		},
	}
}
