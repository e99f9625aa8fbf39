package state

import (
	"testing"
	"time"

	"github.com/five82/tapscope/internal/logline"
)

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func tapAt(at time.Time, cat logline.Category, x int) logline.Event {
	return logline.Event{Timestamp: at, Kind: logline.KindTap, Origin: logline.Point{X: x}, Category: cat, Color: cat.Color()}
}

func TestSink_MarkerTTLBoundary(t *testing.T) {
	s := NewSink(DefaultPolicy(), logline.DefaultScreen)
	s.AddOrReplaceMarker(logline.Marker{ID: 1, Timestamp: epoch})

	if s.Prune(epoch.Add(299 * time.Millisecond)) {
		t.Fatalf("Prune at 299ms removed something")
	}
	if _, markers := s.Len(); markers != 1 {
		t.Fatalf("markers = %d after 299ms, want 1", markers)
	}
	if !s.Prune(epoch.Add(301 * time.Millisecond)) {
		t.Fatalf("Prune at 301ms removed nothing")
	}
	if _, markers := s.Len(); markers != 0 {
		t.Fatalf("markers = %d after 301ms, want 0", markers)
	}
}

func TestSink_MarkerReplacedByID(t *testing.T) {
	s := NewSink(DefaultPolicy(), logline.DefaultScreen)
	s.AddOrReplaceMarker(logline.Marker{ID: 7, Position: logline.Point{X: 1, Y: 1}, Timestamp: epoch})
	s.AddOrReplaceMarker(logline.Marker{ID: 7, Position: logline.Point{X: 5, Y: 5}, Timestamp: epoch.Add(100 * time.Millisecond)})

	snap := s.Snapshot()
	if len(snap.Markers) != 1 {
		t.Fatalf("markers = %d, want 1", len(snap.Markers))
	}
	if snap.Markers[0].Position != (logline.Point{X: 5, Y: 5}) {
		t.Fatalf("marker position = %+v, want {5 5}", snap.Markers[0].Position)
	}
	// The replacement restarts the TTL.
	s.Prune(epoch.Add(350 * time.Millisecond))
	if _, markers := s.Len(); markers != 1 {
		t.Fatalf("replaced marker evicted early")
	}
}

func TestSink_EventTTLByCategory(t *testing.T) {
	policy := DefaultPolicy()
	policy.ShortTTLCategories = []logline.Category{logline.CategorySwipe}
	s := NewSink(policy, logline.DefaultScreen)

	s.AddEvent(tapAt(epoch, logline.CategorySequence, 1))
	s.AddEvent(tapAt(epoch, logline.CategorySwipe, 2))

	s.Prune(epoch.Add(time.Second))
	snap := s.Snapshot()
	if len(snap.Events) != 1 || snap.Events[0].Category != logline.CategorySequence {
		t.Fatalf("events after 1s = %+v, want only the sequence tap", snap.Events)
	}

	s.Prune(epoch.Add(12*time.Second + time.Millisecond))
	if events, _ := s.Len(); events != 0 {
		t.Fatalf("events after 12s = %d, want 0", events)
	}
}

func TestSink_DefaultPolicyShortensEveryCategory(t *testing.T) {
	s := NewSink(DefaultPolicy(), logline.DefaultScreen)
	for _, c := range logline.Categories() {
		if got := s.EventTTL(c); got != 300*time.Millisecond {
			t.Fatalf("EventTTL(%d) = %v, want 300ms", c, got)
		}
	}
}

func TestSink_EventCap(t *testing.T) {
	policy := DefaultPolicy()
	policy.MaxEvents = 3
	s := NewSink(policy, logline.DefaultScreen)
	for i := 0; i < 5; i++ {
		s.AddEvent(tapAt(epoch, logline.CategorySequence, i))
	}
	snap := s.Snapshot()
	if len(snap.Events) != 3 {
		t.Fatalf("events = %d, want 3", len(snap.Events))
	}
	if snap.Events[0].Origin.X != 2 || snap.Events[2].Origin.X != 4 {
		t.Fatalf("cap kept %+v, want the newest three", snap.Events)
	}
}

func TestSink_PruneIsIdempotent(t *testing.T) {
	s := NewSink(DefaultPolicy(), logline.DefaultScreen)
	s.AddEvent(tapAt(epoch, logline.CategorySequence, 1))
	s.AddEvent(tapAt(epoch.Add(200*time.Millisecond), logline.CategorySequence, 2))
	s.AddOrReplaceMarker(logline.Marker{ID: 1, Timestamp: epoch})

	now := epoch.Add(400 * time.Millisecond)
	s.Prune(now)
	first := s.Snapshot()
	s.MarkClean()
	if s.Prune(now) {
		t.Fatalf("second Prune removed something")
	}
	if s.Dirty() {
		t.Fatalf("second Prune marked the sink dirty")
	}
	second := s.Snapshot()
	if len(first.Events) != len(second.Events) || len(first.Markers) != len(second.Markers) {
		t.Fatalf("snapshots differ: %+v vs %+v", first, second)
	}
	if len(second.Events) != 1 || second.Events[0].Origin.X != 2 {
		t.Fatalf("events = %+v, want the tap at 200ms", second.Events)
	}
}

func TestSink_SetScreenSizeOnlyFlagsChanges(t *testing.T) {
	s := NewSink(DefaultPolicy(), logline.ScreenSize{Width: 1080, Height: 2400})
	s.MarkClean()

	if s.SetScreenSize(logline.ScreenSize{Width: 1080, Height: 2400}) {
		t.Fatalf("SetScreenSize reported a change for the same size")
	}
	if s.Dirty() {
		t.Fatalf("unchanged size marked the sink dirty")
	}
	if !s.SetScreenSize(logline.ScreenSize{Width: 2400, Height: 1080}) {
		t.Fatalf("SetScreenSize did not report a change")
	}
	if !s.Dirty() || !s.Screen().IsLandscape() {
		t.Fatalf("screen = %+v dirty=%v, want landscape and dirty", s.Screen(), s.Dirty())
	}
}

func TestSink_SnapshotIsACopy(t *testing.T) {
	s := NewSink(DefaultPolicy(), logline.DefaultScreen)
	s.AddEvent(tapAt(epoch, logline.CategorySequence, 1))
	snap := s.Snapshot()
	snap.Events[0].Origin.X = 999

	if got := s.Snapshot().Events[0].Origin.X; got != 1 {
		t.Fatalf("Snapshot shares storage; got x=%d want 1", got)
	}
}

func TestSink_ResetKeepsScreen(t *testing.T) {
	s := NewSink(DefaultPolicy(), logline.ScreenSize{Width: 720, Height: 1600})
	s.AddEvent(tapAt(epoch, logline.CategorySequence, 1))
	s.AddOrReplaceMarker(logline.Marker{ID: 2, Timestamp: epoch})
	s.Reset()

	events, markers := s.Len()
	if events != 0 || markers != 0 {
		t.Fatalf("Len() = %d, %d after Reset, want 0, 0", events, markers)
	}
	if s.Screen() != (logline.ScreenSize{Width: 720, Height: 1600}) {
		t.Fatalf("Reset changed screen to %+v", s.Screen())
	}
}
