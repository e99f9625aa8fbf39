// Package logline turns single automation log lines into structured data.
//
// Every function here is pure: the same line always yields the same result,
// and timestamps are supplied by the caller.
//
//   - Classify maps a line to one of seven categories. An explicit cat=N token
//     wins; otherwise keyword rules are tried in a fixed order.
//   - ParseEvent decodes taps and swipes. Recognized forms are tried in order
//     and the first form present in the line decides the outcome.
//   - ParseMarker decodes "ATX_STREAM MARKER" lines carrying key=value tokens.
//   - ParseScreenSize recognizes projection start, size change, and content
//     resize announcements.
//
// Unrecognized or malformed lines are never errors; they simply produce no
// result.
package logline
