// Package replay plays a recorded timeline back in simulated time.
//
// The Engine keeps an anchor pair (simulated offset, wall-clock instant) and
// derives the current simulated time as
//
//	anchorSim + (now - anchorReal) / speed
//
// Every control that changes the rate or freezes time re-anchors first, so
// simulated time never jumps.
//
// Seeking clears the sink and replays every entry at or before the target
// in bounded batches, one batch per Tick, so a large file never stalls the
// UI. Because the rebuild feeds exactly the prefix continuous play would have
// fed, both paths leave the sink in the same state.
package replay
