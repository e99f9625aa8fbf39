package ui

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// formatClock renders d as mm:ss, truncating fractions. Minutes keep
// counting past an hour.
func formatClock(d time.Duration) string {
	s := max(0, int(d/time.Second))
	return fmt.Sprintf("%02d:%02d", s/60, s%60)
}

// formatSpeed renders a slow-down factor the way it is typed, e.g. "3x".
func formatSpeed(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64) + "x"
}

// formatWindow renders a keep window compactly: "300ms", "12s", "2m".
func formatWindow(d time.Duration) string {
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return strconv.FormatFloat(d.Seconds(), 'f', -1, 64) + "s"
	default:
		return humanizeDuration(d)
	}
}

func humanizeDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return "now"
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	default:
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
}

func orientation(landscape bool) string {
	if landscape {
		return "landscape"
	}
	return "portrait"
}

func truncateMiddle(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 || value == "" {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	keep := limit - 1 // room for ellipsis rune
	prefix := keep / 2
	suffix := keep - prefix
	return string(runes[:prefix]) + "…" + string(runes[len(runes)-suffix:])
}

var errBadSeek = errors.New("expected mm:ss, seconds, or a duration like 1m30s")

// parseSeekTarget accepts "90", "90.5", "1:30", "01:30.250", or any
// time.ParseDuration form.
func parseSeekTarget(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errBadSeek
	}
	if mins, secs, ok := strings.Cut(s, ":"); ok {
		m, err := strconv.Atoi(mins)
		if err != nil || m < 0 {
			return 0, errBadSeek
		}
		sec, err := strconv.ParseFloat(secs, 64)
		if err != nil || !(sec >= 0 && sec < 60) {
			return 0, errBadSeek
		}
		return time.Duration(m)*time.Minute + time.Duration(sec*float64(time.Second)), nil
	}
	if sec, err := strconv.ParseFloat(s, 64); err == nil {
		if sec < 0 || math.IsNaN(sec) || math.IsInf(sec, 0) {
			return 0, errBadSeek
		}
		return time.Duration(sec * float64(time.Second)), nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return 0, errBadSeek
	}
	return d, nil
}
