package ingest

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// Source produces raw log lines into a Queue until its input ends or ctx is
// cancelled.
type Source interface {
	Name() string
	Run(ctx context.Context, q *Queue) error
}

// ReaderSource reads newline-separated lines from R.
type ReaderSource struct {
	Label string
	R     io.Reader
}

// NewStdinSource reads lines piped into the process.
func NewStdinSource() *ReaderSource {
	return &ReaderSource{Label: "stdin", R: os.Stdin}
}

func (s *ReaderSource) Name() string {
	if s.Label == "" {
		return "reader"
	}
	return s.Label
}

// Run blocks until R is exhausted. A blocked read is not interrupted by ctx;
// cancellation is observed between lines.
func (s *ReaderSource) Run(ctx context.Context, q *Queue) error {
	if err := scanInto(ctx, s.R, q); err != nil {
		return fmt.Errorf("read %s: %w", s.Name(), err)
	}
	return nil
}

func scanInto(ctx context.Context, r io.Reader, q *Queue) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		q.Push(cleanLine(scanner.Text()))
	}
	return scanner.Err()
}

// cleanLine drops the trailing carriage return adb emits on some hosts and
// replaces invalid UTF-8.
func cleanLine(line string) string {
	return strings.ToValidUTF8(strings.TrimRight(line, "\r"), "")
}
