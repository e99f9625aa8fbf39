package app

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/five82/tapscope/internal/config"
	"github.com/five82/tapscope/internal/ingest"
)

func newSource(opts Options, cfg config.Config, log logrus.FieldLogger) ingest.Source {
	switch opts.Input() {
	case InputFollow:
		return &ingest.FollowSource{Path: opts.Follow, Logger: log}
	case InputStdin:
		return ingest.NewStdinSource()
	default:
		return &ingest.ADBSource{Path: cfg.ADBPath, Serial: cfg.Serial, Tags: cfg.Tags, Logger: log}
	}
}

// StartSource runs src on its own goroutine and returns immediately. The
// returned channel receives the source's result once it stops.
func StartSource(ctx context.Context, src ingest.Source, q *ingest.Queue, log logrus.FieldLogger) <-chan error {
	done := make(chan error, 1)
	go func() {
		err := src.Run(ctx, q)
		entry := log.WithField("source", src.Name())
		if err != nil {
			entry.WithError(err).Error("live source stopped")
		} else {
			entry.Info("live source finished")
		}
		done <- err
	}()
	return done
}
