package capture

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/five82/tapscope/internal/clock"
)

// Flush policy for the auto-save file.
const (
	FlushLines    = 200
	FlushInterval = 500 * time.Millisecond
)

// AutoSaveSetting selects a timestamped file under the save directory.
const AutoSaveSetting = "auto"

const headerTimeLayout = "2006-01-02 15:04:05"

// Header is written once at the top of every auto-save file.
type Header struct {
	StartedAt time.Time
	Mode      string
	Serial    string
	Tags      []string
}

func (h Header) lines() []string {
	out := []string{
		"# started_at=" + h.StartedAt.Format(headerTimeLayout),
		"# mode=" + h.Mode,
	}
	if h.Serial != "" {
		out = append(out, "# serial="+h.Serial)
	}
	out = append(out, "# tags="+strings.Join(h.Tags, " "))
	return out
}

// AutoPath returns the default auto-save path for a session started at now.
func AutoPath(dir string, now time.Time) string {
	return filepath.Join(dir, "atx_log_"+now.Format("20060102_150405")+".txt")
}

// ResolveSavePath turns the save_log setting into a file path. An empty
// setting disables saving.
func ResolveSavePath(setting, dir string, now time.Time) string {
	setting = strings.TrimSpace(setting)
	switch {
	case setting == "":
		return ""
	case strings.EqualFold(setting, AutoSaveSetting):
		return AutoPath(dir, now)
	default:
		return setting
	}
}

// Recorder appends every live line to a file. Write errors are logged and
// swallowed so ingestion never stops because of the disk. A Recorder is
// driven from one goroutine.
type Recorder struct {
	path      string
	file      *os.File
	w         *bufio.Writer
	clock     clock.Clock
	log       logrus.FieldLogger
	pending   int
	lastFlush time.Time
	failing   bool
}

// OpenRecorder opens path for appending, creating parent directories, and
// writes the header.
func OpenRecorder(path string, hdr Header, clk clock.Clock, log logrus.FieldLogger) (*Recorder, error) {
	if clk == nil {
		clk = clock.NewReal()
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create save dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open save file: %w", err)
	}
	r := &Recorder{
		path:      path,
		file:      file,
		w:         bufio.NewWriter(file),
		clock:     clk,
		log:       log.WithField("path", path),
		lastFlush: clk.Now(),
	}
	for _, line := range hdr.lines() {
		r.w.WriteString(line + "\n")
	}
	r.w.WriteString("\n")
	if err := r.Flush(); err != nil {
		_ = file.Close()
		return nil, err
	}
	return r, nil
}

// Path returns the file being written.
func (r *Recorder) Path() string { return r.path }

// Write appends line and flushes once FlushLines lines are pending or
// FlushInterval has passed since the last flush.
func (r *Recorder) Write(line string) {
	if _, err := r.w.WriteString(line + "\n"); err != nil {
		r.report(err)
		return
	}
	r.pending++
	if r.pending >= FlushLines || r.clock.Since(r.lastFlush) >= FlushInterval {
		if err := r.Flush(); err != nil {
			r.report(err)
		}
	}
}

// Pending returns the number of lines written since the last flush.
func (r *Recorder) Pending() int { return r.pending }

// Flush forces buffered lines to disk.
func (r *Recorder) Flush() error {
	r.pending = 0
	r.lastFlush = r.clock.Now()
	if err := r.w.Flush(); err != nil {
		return fmt.Errorf("flush save file: %w", err)
	}
	if r.failing {
		r.failing = false
		r.log.Info("auto-save recovered")
	}
	return nil
}

// Close flushes and closes the file.
func (r *Recorder) Close() error {
	flushErr := r.Flush()
	if err := r.file.Close(); err != nil {
		return fmt.Errorf("close save file: %w", err)
	}
	return flushErr
}

// report logs the first failure of a streak only.
func (r *Recorder) report(err error) {
	if r.failing {
		return
	}
	r.failing = true
	r.log.WithError(err).Warn("auto-save write failed")
}
