// Package ingest collects raw log lines from live sources.
//
// Every Source runs on its own goroutine and only ever calls Queue.Push.
// The session drains the queue once per tick, so nothing downstream of the
// queue needs a lock. Three sources exist:
//
//   - ReaderSource: stdin or any io.Reader.
//   - ADBSource: `adb [-s serial] logcat -v time <tags>`.
//   - FollowSource: a growing file, followed across rotation.
//
// ProbeScreenSize asks a connected device for its resolution so the canvas
// starts at the right aspect ratio before any geometry line arrives.
package ingest
