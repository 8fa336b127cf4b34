// Package ffmpeg turns planner.Plan values into ffmpeg argument vectors and
// runs them.
//
// Build is the only place a command line is assembled; it accumulates
// tokens through the append-only [Args] builder. The [Executor] runs a
// built command once (there are no retries), streams -progress output into
// [Progress] events, and classifies stderr into an [Issue] so failures carry
// an actionable hint.
package ffmpeg
