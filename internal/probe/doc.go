// Package probe wraps ffprobe: it lists the streams of a media file as
// typed [StreamRecord] values and reads container duration for the
// watermark scheduler.
//
// Parsing is split from invocation so the JSON contract can be tested
// without ffprobe installed ([ParseStreams], [ParseDuration]).
package probe
