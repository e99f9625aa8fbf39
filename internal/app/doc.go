// Package app is the composition root for tapscope.
//
// # Overview
//
// Run loads configuration, layers the command-line options on top, opens
// the log file, and then wires the live source or replay file, the session,
// and the Bubble Tea UI together.
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │ Initialize everything
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()          Read ~/.config/tapscope/config.toml
//	       ├─────> newLogger()            logrus to log_file + notice hook
//	       ├─────> ProbeScreenSize()      adb shell wm size (adb input only)
//	       ├─────> capture.OpenRecorder() Auto-save file (live only)
//	       ├─────> session.New()          Sink + replay engine + queue
//	       ├─────> StartSource()          stdin / adb / follow goroutine
//	       │   or  LoadReplay()           + WatchReplay() with -watch
//	       └─────> ui.Run()               TUI (blocks)
//
//	Live source goroutine          UI tick (every 30ms)
//	┌──────────────────────┐      ┌───────────────────────────┐
//	│ Source.Run()         │      │ session.Tick()            │
//	│  └─> Queue.Push()  ──┼─────>│  ├─> replay step / seek   │
//	└──────────────────────┘      │  ├─> prune expired        │
//	                              │  └─> Queue.Drain()        │
//	                              └───────────────────────────┘
//
// # Error Handling
//
// Fatal errors (returned from Run): config parse failures, bad flag values,
// and an unusable log file. Everything else is logged and the program keeps
// running: a failed device probe falls back to the default screen, a failed
// auto-save open disables saving, and a live source that exits is reported
// on the status line.
package app
