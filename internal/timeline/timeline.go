package timeline

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	// MaxGap caps the offset delta between two timed lines.
	MaxGap = 250 * time.Millisecond
	// FallbackStep advances lines that carry no timestamp.
	FallbackStep = 30 * time.Millisecond
	// CompactStep replaces FallbackStep for large files with no timestamps.
	CompactStep = 10 * time.Millisecond
	// CompactThreshold is the entry count above which CompactStep applies.
	CompactThreshold = 8000
)

// Entry is one replayable line and its simulated offset from the start.
type Entry struct {
	Offset time.Duration
	Line   string
}

var reTimeOfDay = regexp.MustCompile(`\b(\d{2}):(\d{2}):(\d{2})\.(\d{3})\b`)

// Load reads a saved log file into replay entries. A missing file yields an
// empty timeline and no error.
func Load(path string) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open replay: %w", err)
	}
	defer file.Close()

	entries, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("read replay: %w", err)
	}
	return entries, nil
}

// Parse builds entries from r. Comment lines (leading '#') and empty lines
// are skipped. Offsets are non-decreasing.
func Parse(r io.Reader) ([]Entry, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		entries []Entry
		origin  time.Duration
		hasTime bool
		last    time.Duration
	)
	for scanner.Scan() {
		line := strings.ToValidUTF8(scanner.Text(), "")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		tod, ok := ParseTimeOfDay(line)
		if !ok {
			last += FallbackStep
			entries = append(entries, Entry{Offset: last, Line: line})
			continue
		}
		if !hasTime {
			origin = tod
			hasTime = true
		}
		last = compress(tod-origin, last)
		entries = append(entries, Entry{Offset: last, Line: line})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if !hasTime && len(entries) > CompactThreshold {
		for i := range entries {
			entries[i].Offset = time.Duration(i+1) * CompactStep
		}
	}
	return entries, nil
}

// compress keeps offsets monotonic and limits any single jump to MaxGap.
func compress(raw, prev time.Duration) time.Duration {
	if raw < prev {
		return prev
	}
	if raw > prev+MaxGap {
		return prev + MaxGap
	}
	return raw
}

// ParseTimeOfDay extracts an HH:MM:SS.mmm time of day as an offset from
// midnight. Dates are ignored.
func ParseTimeOfDay(line string) (time.Duration, bool) {
	m := reTimeOfDay.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	var parts [4]int
	for i := range parts {
		v, err := strconv.Atoi(m[i+1])
		if err != nil {
			return 0, false
		}
		parts[i] = v
	}
	return time.Duration(parts[0])*time.Hour +
		time.Duration(parts[1])*time.Minute +
		time.Duration(parts[2])*time.Second +
		time.Duration(parts[3])*time.Millisecond, true
}

// Duration returns the offset of the last entry.
func Duration(entries []Entry) time.Duration {
	if len(entries) == 0 {
		return 0
	}
	return entries[len(entries)-1].Offset
}

// CountThrough returns the number of entries whose offset is <= t.
func CountThrough(entries []Entry, t time.Duration) int {
	return sort.Search(len(entries), func(i int) bool {
		return entries[i].Offset > t
	})
}
