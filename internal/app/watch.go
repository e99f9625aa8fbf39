package app

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

const watchDebounce = 250 * time.Millisecond

// WatchReplay reports changes to path on the returned channel, coalescing
// bursts of writes. The directory is watched so that editors which replace
// the file are still seen. Watching stops when ctx is done.
func WatchReplay(ctx context.Context, path string, log logrus.FieldLogger) (<-chan struct{}, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve replay path: %w", err)
	}
	target := filepath.Clean(abs)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch replay: %w", err)
	}
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch replay dir: %w", err)
	}

	reloads := make(chan struct{}, 1)
	go func() {
		defer watcher.Close()
		watchLoop(ctx, watcher, target, watchDebounce, reloads, log)
	}()
	return reloads, nil
}

func watchLoop(ctx context.Context, watcher *fsnotify.Watcher, target string, window time.Duration, reloads chan<- struct{}, log logrus.FieldLogger) {
	var (
		timer   *time.Timer
		timerCh <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(window)
				timerCh = timer.C
			} else {
				timer.Reset(window)
			}
		case <-timerCh:
			timer = nil
			timerCh = nil
			select {
			case reloads <- struct{}{}:
			default:
			}
			log.WithField("path", target).Debug("replay file changed")
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.WithError(err).Warn("replay watcher error")
		}
	}
}
