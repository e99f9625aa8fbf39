package logline

import (
	"regexp"
	"strconv"
	"time"
)

// MarkerKeyword is the literal that identifies a stream marker line.
const MarkerKeyword = "ATX_STREAM MARKER"

// Marker is a transient point decoded from structured key=value tokens.
type Marker struct {
	ID        int
	Kind      string
	Category  Category
	Position  Point
	Timestamp time.Time
}

var (
	reMarker   = regexp.MustCompile(`\bATX_STREAM\s+MARKER\b`)
	reKeyValue = regexp.MustCompile(`(\b[a-zA-Z_][a-zA-Z0-9_]*\b)=([^\s]+)`)
)

// ParseMarker decodes a marker line. idx must be nonzero and xPx/yPx
// non-negative; any non-numeric required or category value discards the
// whole marker. A missing or non-positive cat falls back to Classify.
func ParseMarker(line string, at time.Time) (Marker, bool) {
	if !reMarker.MatchString(line) {
		return Marker{}, false
	}
	kv := make(map[string]string)
	for _, m := range reKeyValue.FindAllStringSubmatch(line, -1) {
		kv[m[1]] = m[2]
	}

	id, ok := intToken(kv, "idx", 0)
	if !ok {
		return Marker{}, false
	}
	cat, ok := intToken(kv, "cat", 0)
	if !ok {
		return Marker{}, false
	}
	x, ok := intToken(kv, "xPx", -1)
	if !ok {
		return Marker{}, false
	}
	y, ok := intToken(kv, "yPx", -1)
	if !ok {
		return Marker{}, false
	}
	if id == 0 || x < 0 || y < 0 {
		return Marker{}, false
	}

	category := Category(cat)
	if cat <= 0 {
		category = Classify(line)
	}
	return Marker{
		ID:        id,
		Kind:      kv["kind"],
		Category:  category,
		Position:  Point{X: x, Y: y},
		Timestamp: at,
	}, true
}

func intToken(kv map[string]string, key string, fallback int) (int, bool) {
	raw, ok := kv[key]
	if !ok {
		return fallback, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}
