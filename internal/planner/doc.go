// Package planner turns probe results into ffmpeg argument plans.
//
// Every function here is pure: no I/O, no shared state, identical inputs
// give identical plans. Three plan kinds exist:
//   - metadata: strip global tags, write title/site tags, map and tag streams
//     with per-type indices (metadata.go)
//   - watermark: drawtext overlay scheduled into duration-dependent windows
//     (watermark.go)
//   - attachment: embed an image or other file as an attachment stream
//     (attachment.go)
//
// The ffmpeg package wraps a [Plan] in its invocation prefix.
package planner
