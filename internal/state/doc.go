// Package state holds the in-memory picture of what is currently on screen.
//
// # Overview
//
// Sink stores the active events (taps and swipes), the active stream markers
// keyed by ID, and the current device resolution. The renderer reads a
// Snapshot; the session tick is the only writer.
//
// # Eviction
//
// Entries expire by age relative to the time passed to Prune (or, for
// AddEvent, the new event's own timestamp):
//
//   - Markers live for Policy.MarkerTTL (300ms).
//   - Events whose category is in Policy.ShortTTLCategories live for
//     Policy.ShortTTL (300ms); all other events live for Policy.EventTTL (12s).
//   - At most Policy.MaxEvents (600) events are kept; the oldest go first.
//
// The default short-TTL set contains all seven categories, so the 12s window
// only applies when a configuration narrows that set.
//
// # Concurrency Model
//
// Sink has no lock. Live sources never touch it directly; they push raw lines
// into a queue that the single session tick drains. Keeping one mutator makes
// replay deterministic and lets seek rebuild the exact state continuous play
// would have produced.
//
// # Redraw Tracking
//
// Every mutation that changes what would be drawn sets a dirty flag. The
// renderer clears it with MarkClean after drawing. SetScreenSize only flags a
// change when the size actually differs.
package state
