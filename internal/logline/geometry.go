package logline

import (
	"regexp"
	"strconv"
)

// DefaultScreen is used until a geometry line or a device probe says
// otherwise.
var DefaultScreen = ScreenSize{Width: 1080, Height: 2400}

// ScreenSize is the device resolution in pixels.
type ScreenSize struct {
	Width  int
	Height int
}

// IsLandscape reports whether the screen is at least as wide as it is tall.
func (s ScreenSize) IsLandscape() bool {
	return s.Width >= s.Height
}

// Clamp raises both dimensions to a minimum of 1.
func (s ScreenSize) Clamp() ScreenSize {
	if s.Width < 1 {
		s.Width = 1
	}
	if s.Height < 1 {
		s.Height = 1
	}
	return s
}

var geometryPatterns = []*regexp.Regexp{
	regexp.MustCompile(`startProjection\s+screen=(\d+)x(\d+)`),
	regexp.MustCompile(`Screen size changed\s+\d+\s*x\s*\d+\s*->\s*(\d+)\s*x\s*(\d+)`),
	regexp.MustCompile(`Captured content resized to\s+(\d+)x(\d+)`),
}

// ParseScreenSize returns the resolution announced by line, if any. The
// first matching pattern wins.
func ParseScreenSize(line string) (ScreenSize, bool) {
	for _, re := range geometryPatterns {
		m := re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		w, errW := strconv.Atoi(m[1])
		h, errH := strconv.Atoi(m[2])
		if errW != nil || errH != nil {
			return ScreenSize{}, false
		}
		return ScreenSize{Width: w, Height: h}.Clamp(), true
	}
	return ScreenSize{}, false
}
