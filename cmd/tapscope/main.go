package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/five82/tapscope/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	var opts app.Options
	flag.StringVar(&opts.ConfigPath, "config", "", "config file path (default ~/.config/tapscope/config.toml)")
	flag.StringVar(&opts.PrefsPath, "prefs", "", "preferences file path (default ~/.config/tapscope/prefs.toml)")
	flag.BoolVar(&opts.Stdin, "stdin", false, "read live log lines from stdin")
	flag.BoolVar(&opts.ADB, "adb", false, "read live log lines from adb logcat (the default)")
	flag.StringVar(&opts.Serial, "serial", "", "adb device serial")
	flag.StringVar(&opts.Tags, "tags", "", "logcat filter specs, space separated")
	flag.StringVar(&opts.Follow, "follow", "", "follow a growing log file")
	flag.StringVar(&opts.Replay, "replay", "", "replay a saved log file instead of reading live")
	flag.BoolVar(&opts.Watch, "watch", false, "reload the replay file when it changes")
	flag.StringVar(&opts.Speed, "speed", "", "replay slow-down factor, 1 to 10 (e.g. 3 or 3x)")
	flag.StringVar(&opts.SaveLog, "save-log", "", `auto-save file for live lines, or "auto"`)
	flag.StringVar(&opts.SaveLog, "save", "", "alias for -save-log")
	flag.BoolVar(&opts.NoSave, "no-save", false, "do not auto-save live lines")
	flag.StringVar(&opts.LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	flag.Parse()

	if flag.NArg() > 0 && opts.Replay == "" {
		opts.Replay = flag.Arg(0)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "tapscope: %v\n", err)
		return 1
	}
	return 0
}
