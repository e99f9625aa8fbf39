package app

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/five82/tapscope/internal/config"
	"github.com/five82/tapscope/internal/ui"
)

// newLogger writes to cfg.LogFile because the TUI owns the terminal.
func newLogger(cfg config.Config) (*logrus.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	log := logrus.New()
	log.SetOutput(file)
	log.SetLevel(cfg.LogLevel)
	log.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	return log, file, nil
}

// noticeHook forwards warnings and errors to the status line.
type noticeHook struct {
	notices chan<- ui.Notice
}

func (h *noticeHook) Levels() []logrus.Level {
	return []logrus.Level{logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel, logrus.WarnLevel}
}

func (h *noticeHook) Fire(entry *logrus.Entry) error {
	msg := entry.Message
	if err, ok := entry.Data[logrus.ErrorKey].(error); ok {
		msg = fmt.Sprintf("%s: %v", msg, err)
	}
	select {
	case h.notices <- ui.Notice{Level: entry.Level, Message: msg, Time: entry.Time}:
	default:
		// UI is behind; the entry is still in the log file.
	}
	return nil
}
