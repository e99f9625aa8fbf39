package app

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/five82/tapscope/internal/capture"
	"github.com/five82/tapscope/internal/clock"
	"github.com/five82/tapscope/internal/config"
	"github.com/five82/tapscope/internal/ingest"
	"github.com/five82/tapscope/internal/logline"
	"github.com/five82/tapscope/internal/prefs"
	"github.com/five82/tapscope/internal/session"
	"github.com/five82/tapscope/internal/ui"
)

// Run boots tapscope and blocks until the UI exits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := opts.apply(&cfg); err != nil {
		return err
	}

	log, logFile, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logFile.Close()

	notices := make(chan ui.Notice, 16)
	log.AddHook(&noticeHook{notices: notices})

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	userPrefs := prefs.Load(prefsPath)
	speed := cfg.Speed
	if opts.Speed == "" && userPrefs.Speed > 0 {
		speed = userPrefs.Speed
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	clk := clock.NewReal()
	queue := ingest.NewQueue()
	live := !opts.Replaying()

	var recorder *capture.Recorder
	if live {
		recorder = openRecorder(cfg, opts.Input(), clk, log)
	}

	sess := session.New(session.Options{
		Policy:      cfg.Policy,
		Screen:      initialScreen(ctx, cfg, opts, log),
		Clock:       clk,
		Queue:       queue,
		Recorder:    recorder,
		BufferLines: cfg.BufferLines,
		SeekBatch:   cfg.SeekBatch,
		Logger:      log,
	})
	defer func() {
		if err := sess.Close(); err != nil {
			log.WithError(err).Warn("close auto-save")
		}
	}()
	sess.Engine().SetSpeed(speed)

	var (
		sourceName string
		sourceDone <-chan error
		reloads    <-chan struct{}
	)
	if live {
		src := newSource(opts, cfg, log)
		sourceName = src.Name()
		sourceDone = StartSource(ctx, src, queue, log)
	} else {
		_ = sess.LoadReplay(opts.Replay)
		if opts.Watch {
			reloads, err = WatchReplay(ctx, opts.Replay, log)
			if err != nil {
				log.WithError(err).Warn("replay watch disabled")
			}
		}
	}

	log.WithFields(logrus.Fields{
		"mode":      sess.Mode(),
		"source":    sourceName,
		"save_path": sess.SavePath(),
	}).Info("tapscope started")

	return ui.Run(ui.Options{
		Context:     ctx,
		Session:     sess,
		Tick:        cfg.Tick,
		ThemeName:   userPrefs.Theme,
		ShowMarkers: userPrefs.ShowMarkers,
		PrefsPath:   prefsPath,
		SnapshotDir: cfg.SaveDir,
		Source:      sourceName,
		SourceDone:  sourceDone,
		Reloads:     reloads,
		Notices:     notices,
		Logger:      log,
	})
}

// initialScreen probes the device when reading from adb, falling back to
// the default resolution.
func initialScreen(ctx context.Context, cfg config.Config, opts Options, log logrus.FieldLogger) logline.ScreenSize {
	if opts.Replaying() || opts.Input() != InputADB {
		return logline.DefaultScreen
	}
	size, err := ingest.ProbeScreenSize(ctx, cfg.ADBPath, cfg.Serial)
	if err != nil {
		log.WithError(err).Debug("device size probe failed")
		return logline.DefaultScreen
	}
	return size
}

// openRecorder starts the auto-save file. Failure only disables saving.
func openRecorder(cfg config.Config, input Input, clk clock.Clock, log logrus.FieldLogger) *capture.Recorder {
	now := clk.Now()
	path := cfg.SavePath(now)
	if path == "" {
		return nil
	}
	hdr := capture.Header{StartedAt: now, Mode: string(input), Serial: cfg.Serial, Tags: cfg.Tags}
	rec, err := capture.OpenRecorder(path, hdr, clk, log)
	if err != nil {
		log.WithError(err).WithField("path", path).Warn("auto-save disabled")
		return nil
	}
	return rec
}
