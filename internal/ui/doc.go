// Package ui draws tapscope's terminal interface with Bubble Tea.
//
// The screen is a phone frame fitted to the device's aspect ratio, with
// taps, swipes, and stream markers drawn in their category colors. Around it
// sit the legend, a status line, the replay progress bar, an optional pane
// of recent log lines, and a footer that shows key help, notices, or an
// input prompt.
//
// # Event Flow
//
//  1. Run builds the Model and starts the program in the alt screen.
//  2. Every tick calls session.Tick, the only place sink state changes, and
//     rebuilds the cached canvas when the sink is dirty or events are fading.
//  3. Source completion, replay reloads, warnings from the logger, and
//     context cancellation arrive as messages from blocking commands.
//  4. Keys drive the replay engine and session directly; they run on the
//     same goroutine as the tick, so no locking is needed.
//
// # Drawing
//
// Terminal cells are about twice as tall as wide, so device pixels map to
// cells with a vertical factor of 1/CellAspect. A tap is a dot inside a ring
// whose radius grows as the event ages; a swipe is a stroked line from an
// origin dot to an arrow head; a marker is its category digit followed by
// its ID.
package ui
