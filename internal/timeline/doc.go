// Package timeline converts saved automation logs into replayable entries.
//
// # Offsets
//
// Each kept line receives a simulated offset from the start of the file:
//
//   - Lines with an embedded HH:MM:SS.mmm time are placed relative to the
//     first timed line. Any single forward jump is capped at MaxGap (250ms)
//     so long idle periods do not stall replay, and backward jumps (midnight
//     rollover, out-of-order writers) hold the previous offset.
//   - Lines without a time advance by FallbackStep (30ms) so they still show
//     up visibly during replay.
//   - Files with no timed lines at all and more than CompactThreshold lines
//     are re-spaced at CompactStep (10ms).
//
// Lines beginning with '#' are metadata written by the recorder and are
// skipped, as are empty lines.
//
// # Error Handling
//
// Load returns nil, nil for a missing file, matching how the replay engine
// treats an absent log: it simply stays stopped. Other I/O errors are
// returned wrapped.
package timeline
