// Package pipeline runs edit operations against media files in place.
//
// Every operation follows the same sequence: take the per-input lock,
// probe, plan, build the ffmpeg command, run it into <input>.temp.mkv,
// then rename the temp over the input on success or remove it on failure.
// The input is only ever replaced by a complete, successful output.
//
// Batch mode (Runner.Run) expands directory targets with Discover and
// reports aggregate RunStats. Each operation is recorded to the history
// ledger when one is configured.
package pipeline
