package state

import (
	"slices"
	"time"

	"github.com/samber/lo"

	"github.com/five82/tapscope/internal/logline"
)

// Policy controls eviction.
type Policy struct {
	EventTTL           time.Duration
	ShortTTL           time.Duration
	ShortTTLCategories []logline.Category
	MarkerTTL          time.Duration
	MaxEvents          int
}

// DefaultPolicy returns the stock eviction policy. Every category is in the
// short-TTL set, so ordinary events also vanish after 300ms.
func DefaultPolicy() Policy {
	return Policy{
		EventTTL:           12 * time.Second,
		ShortTTL:           300 * time.Millisecond,
		ShortTTLCategories: logline.Categories(),
		MarkerTTL:          300 * time.Millisecond,
		MaxEvents:          600,
	}
}

// Snapshot is a copy of the sink contents for rendering.
type Snapshot struct {
	Screen  logline.ScreenSize
	Events  []logline.Event
	Markers []logline.Marker // ordered by ID
}

// Sink holds the active events, markers, and screen size. It is owned by a
// single goroutine and is not safe for concurrent use.
type Sink struct {
	policy  Policy
	short   map[logline.Category]bool
	screen  logline.ScreenSize
	events  []logline.Event
	markers map[int]logline.Marker
	dirty   bool
}

// NewSink creates an empty sink. Zero policy fields fall back to
// DefaultPolicy values.
func NewSink(policy Policy, screen logline.ScreenSize) *Sink {
	def := DefaultPolicy()
	if policy.EventTTL <= 0 {
		policy.EventTTL = def.EventTTL
	}
	if policy.ShortTTL <= 0 {
		policy.ShortTTL = def.ShortTTL
	}
	if policy.ShortTTLCategories == nil {
		policy.ShortTTLCategories = def.ShortTTLCategories
	}
	if policy.MarkerTTL <= 0 {
		policy.MarkerTTL = def.MarkerTTL
	}
	if policy.MaxEvents <= 0 {
		policy.MaxEvents = def.MaxEvents
	}
	return &Sink{
		policy:  policy,
		short:   lo.SliceToMap(policy.ShortTTLCategories, func(c logline.Category) (logline.Category, bool) { return c, true }),
		screen:  screen.Clamp(),
		markers: make(map[int]logline.Marker),
		dirty:   true,
	}
}

// Policy returns the effective eviction policy.
func (s *Sink) Policy() Policy {
	return s.policy
}

// EventTTL returns how long an event of category c stays visible.
func (s *Sink) EventTTL(c logline.Category) time.Duration {
	if s.short[c] {
		return s.policy.ShortTTL
	}
	return s.policy.EventTTL
}

// AddEvent records ev and evicts relative to its timestamp.
func (s *Sink) AddEvent(ev logline.Event) {
	s.events = append(s.events, ev)
	s.pruneEvents(ev.Timestamp)
	s.dirty = true
}

// AddOrReplaceMarker stores m under its ID, replacing any previous marker
// with the same ID.
func (s *Sink) AddOrReplaceMarker(m logline.Marker) {
	s.markers[m.ID] = m
	s.dirty = true
}

// SetScreenSize updates the screen and reports whether it changed.
func (s *Sink) SetScreenSize(size logline.ScreenSize) bool {
	size = size.Clamp()
	if size == s.screen {
		return false
	}
	s.screen = size
	s.dirty = true
	return true
}

// Screen returns the current screen size.
func (s *Sink) Screen() logline.ScreenSize {
	return s.screen
}

// Prune evicts expired markers and events as of now and reports whether
// anything was removed. Calling it again with the same now is a no-op.
func (s *Sink) Prune(now time.Time) bool {
	removed := s.pruneMarkers(now)
	if s.pruneEvents(now) {
		removed = true
	}
	if removed {
		s.dirty = true
	}
	return removed
}

func (s *Sink) pruneMarkers(now time.Time) bool {
	if len(s.markers) == 0 {
		return false
	}
	before := len(s.markers)
	s.markers = lo.OmitBy(s.markers, func(_ int, m logline.Marker) bool {
		return now.Sub(m.Timestamp) > s.policy.MarkerTTL
	})
	return len(s.markers) != before
}

func (s *Sink) pruneEvents(now time.Time) bool {
	before := len(s.events)
	kept := lo.Filter(s.events, func(ev logline.Event, _ int) bool {
		return now.Sub(ev.Timestamp) <= s.EventTTL(ev.Category)
	})
	if over := len(kept) - s.policy.MaxEvents; over > 0 {
		kept = kept[over:]
	}
	s.events = kept
	return len(s.events) != before
}

// ClearEvents drops all events.
func (s *Sink) ClearEvents() {
	s.events = nil
	s.dirty = true
}

// ClearMarkers drops all markers.
func (s *Sink) ClearMarkers() {
	clear(s.markers)
	s.dirty = true
}

// Reset drops events and markers. The screen size is kept.
func (s *Sink) Reset() {
	s.ClearEvents()
	s.ClearMarkers()
}

// Len returns the number of active events and markers.
func (s *Sink) Len() (events, markers int) {
	return len(s.events), len(s.markers)
}

// Dirty reports whether the contents changed since the last MarkClean.
func (s *Sink) Dirty() bool {
	return s.dirty
}

// MarkClean clears the dirty flag after a redraw.
func (s *Sink) MarkClean() {
	s.dirty = false
}

// Snapshot returns a copy of the current contents.
func (s *Sink) Snapshot() Snapshot {
	markers := lo.Values(s.markers)
	slices.SortFunc(markers, func(a, b logline.Marker) int {
		return a.ID - b.ID
	})
	return Snapshot{
		Screen:  s.screen,
		Events:  slices.Clone(s.events),
		Markers: markers,
	}
}
