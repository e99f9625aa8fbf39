// Package session hosts the per-tick update of tapscope.
//
// A Session owns the state sink, the replay engine, the live queue, and the
// capture side (auto-save recorder and snapshot buffer). Tick is the only
// place state changes: it steps a pending seek, feeds due replay entries,
// evicts expired events and markers, and drains whatever the live sources
// queued since the last tick.
//
// Live lines are stamped with the session clock. Replayed lines are stamped
// with a fixed epoch plus their timeline offset, and eviction during replay
// runs against simulated time. That is what lets a seek rebuild the exact
// state continuous playback would have reached.
package session
