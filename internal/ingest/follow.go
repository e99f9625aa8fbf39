package ingest

import (
	"context"
	"fmt"
	"io"

	"github.com/hpcloud/tail"
	"github.com/sirupsen/logrus"
)

// FollowSource tails a growing log file, like `tail -F`. Lines already in
// the file are skipped unless FromStart is set.
type FollowSource struct {
	Path      string
	FromStart bool
	// Poll watches by polling instead of inotify, for network filesystems.
	Poll   bool
	Logger logrus.FieldLogger
}

func (s *FollowSource) Name() string { return "follow" }

func (s *FollowSource) config() tail.Config {
	cfg := tail.Config{
		Follow: true,
		ReOpen: true,
		Poll:   s.Poll,
		Logger: tail.DiscardingLogger,
	}
	if !s.FromStart {
		cfg.Location = &tail.SeekInfo{Offset: 0, Whence: io.SeekEnd}
	}
	return cfg
}

// Run pushes appended lines until ctx is cancelled. Per-line read errors
// are logged and skipped.
func (s *FollowSource) Run(ctx context.Context, q *Queue) error {
	t, err := tail.TailFile(s.Path, s.config())
	if err != nil {
		return fmt.Errorf("follow %s: %w", s.Path, err)
	}
	defer t.Cleanup()
	defer func() { _ = t.Stop() }()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-t.Lines:
			if !ok {
				if err := t.Err(); err != nil {
					return fmt.Errorf("follow %s: %w", s.Path, err)
				}
				return nil
			}
			if line.Err != nil {
				if s.Logger != nil {
					s.Logger.WithError(line.Err).WithField("path", s.Path).Warn("follow read failed")
				}
				continue
			}
			q.Push(cleanLine(line.Text))
		}
	}
}
