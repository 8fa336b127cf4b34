// Command naeonm edits media files in place with ffmpeg: it rewrites
// container and stream metadata, burns in a scheduled text watermark, and
// embeds cover-image attachments.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// version and commit are injected at build time via -ldflags.
var (
	version = "1.0.0"
	commit  = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	app := &application{}
	defer app.close()

	cmd := newRootCommand(app)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		switch {
		case errors.Is(err, errReported), errors.Is(err, context.Canceled):
			// Already logged.
		case app.log != nil:
			app.log.Error("%v", err)
		default:
			fmt.Fprintf(os.Stderr, "naeonm: %v\n", err)
		}
		return 1
	}
	return 0
}
