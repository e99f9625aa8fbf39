package logline

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Kind distinguishes taps from swipes.
type Kind string

const (
	KindTap   Kind = "tap"
	KindSwipe Kind = "swipe"
)

// Point is a position in device pixels.
type Point struct {
	X int
	Y int
}

// Event is a tap or swipe decoded from a log line. Destination is set only
// for swipes.
type Event struct {
	Timestamp   time.Time
	Kind        Kind
	Origin      Point
	Destination *Point
	Category    Category
	Color       string
}

var (
	reSwipeFromTo = regexp.MustCompile(`\bswipe\b.*from=\((\d+),(\d+)\)\s+to=\((\d+),(\d+)\)`)
	reSwipeCall   = regexp.MustCompile(`\bswipe\((\d+),(\d+)->(\d+),(\d+)\)`)
	reFromPointTo = regexp.MustCompile(`\bfrom=(Point\([^)]+\)|\(\d+,\d+\))\s+to=(Point\([^)]+\)|\(\d+,\d+\))`)
	rePointObject = regexp.MustCompile(`Point\((?:x=)?(\d+),\s*(?:y=)?(\d+)\)`)
	reTap         = regexp.MustCompile(`\btap\((\d+),(\d+)\)`)
	reClick       = regexp.MustCompile(`\bclick\((\d+),(\d+)\)`)
)

// eventMatcher reports matched=true when its textual form is present in the
// line, even if the coordinates then fail to decode.
type eventMatcher func(line string) (origin Point, dest *Point, matched bool, ok bool)

// eventMatchers run in order; the first one that matches decides the result.
var eventMatchers = []eventMatcher{
	matchSwipeGroups(reSwipeFromTo),
	matchSwipeGroups(reSwipeCall),
	matchFromPointTo,
	matchTapGroups(reTap),
	matchTapGroups(reClick),
}

func matchSwipeGroups(re *regexp.Regexp) eventMatcher {
	return func(line string) (Point, *Point, bool, bool) {
		m := re.FindStringSubmatch(line)
		if m == nil {
			return Point{}, nil, false, false
		}
		from, ok := atoiPair(m[1], m[2])
		if !ok {
			return Point{}, nil, true, false
		}
		to, ok := atoiPair(m[3], m[4])
		if !ok {
			return Point{}, nil, true, false
		}
		return from, &to, true, true
	}
}

func matchTapGroups(re *regexp.Regexp) eventMatcher {
	return func(line string) (Point, *Point, bool, bool) {
		m := re.FindStringSubmatch(line)
		if m == nil {
			return Point{}, nil, false, false
		}
		p, ok := atoiPair(m[1], m[2])
		return p, nil, true, ok
	}
}

func matchFromPointTo(line string) (Point, *Point, bool, bool) {
	m := reFromPointTo.FindStringSubmatch(line)
	if m == nil {
		return Point{}, nil, false, false
	}
	from, ok := parsePointToken(m[1])
	if !ok {
		return Point{}, nil, true, false
	}
	to, ok := parsePointToken(m[2])
	if !ok {
		return Point{}, nil, true, false
	}
	return from, &to, true, true
}

// parsePointToken accepts "(x,y)" or "Point(x, y)" / "Point(x=1, y=2)".
func parsePointToken(tok string) (Point, bool) {
	tok = strings.TrimSpace(tok)
	if strings.HasPrefix(tok, "(") && strings.HasSuffix(tok, ")") {
		parts := strings.Split(tok[1:len(tok)-1], ",")
		if len(parts) == 2 {
			return atoiPair(strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]))
		}
	}
	if m := rePointObject.FindStringSubmatch(tok); m != nil {
		return atoiPair(m[1], m[2])
	}
	return Point{}, false
}

func atoiPair(xs, ys string) (Point, bool) {
	x, err := strconv.Atoi(xs)
	if err != nil {
		return Point{}, false
	}
	y, err := strconv.Atoi(ys)
	if err != nil {
		return Point{}, false
	}
	return Point{X: x, Y: y}, true
}

// ParseEvent extracts a tap or swipe from line, stamped with at. The
// category and color come from Classify.
func ParseEvent(line string, at time.Time) (Event, bool) {
	for _, match := range eventMatchers {
		origin, dest, matched, ok := match(line)
		if !matched {
			continue
		}
		if !ok {
			return Event{}, false
		}
		cat := Classify(line)
		ev := Event{
			Timestamp:   at,
			Kind:        KindTap,
			Origin:      origin,
			Destination: dest,
			Category:    cat,
			Color:       cat.Color(),
		}
		if dest != nil {
			ev.Kind = KindSwipe
		}
		return ev, true
	}
	return Event{}, false
}
