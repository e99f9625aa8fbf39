package logline

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

var at = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Category
	}{
		{"explicit category wins", "cat=5 image_module swipe", CategoryDirectionModule},
		{"explicit out of range ignored", "cat=9 image_module", CategoryImageModule},
		{"explicit zero ignored", "cat=0 swipe", CategorySwipe},
		{"two digit token ignored", "cat=55 swipe", CategorySwipe},
		{"image before color", "image_module then color_module", CategoryImageModule},
		{"color module", "run color_module idx=2", CategoryColorModule},
		{"module word", "module idx=3 dir=up", CategoryDirectionModule},
		{"module inside word", "submodule loaded", CategorySequence},
		{"solo verify", "soloVerify passed", CategorySolo},
		{"solo item", "solo_item tap(1,1)", CategorySolo},
		{"swipe keyword", "swipe(1,2->3,4)", CategorySwipe},
		{"independent", "independent step", CategoryIndependent},
		{"independent korean", "독립 실행", CategoryIndependent},
		{"default", "tap(12,34)", CategorySequence},
		{"empty", "", CategorySequence},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.line); got != tt.want {
				t.Fatalf("Classify(%q) = %d, want %d", tt.line, got, tt.want)
			}
		})
	}
}

func TestCategoryColorAndName(t *testing.T) {
	if got := CategorySwipe.Color(); got != "#06b6d4" {
		t.Fatalf("Color() = %q, want #06b6d4", got)
	}
	if got := Category(42).Color(); got != CategorySequence.Color() {
		t.Fatalf("out-of-range Color() = %q, want sequence color", got)
	}
	if got := CategoryImageModule.Label(); got != "7.image-module" {
		t.Fatalf("Label() = %q, want 7.image-module", got)
	}
	if got := len(Categories()); got != 7 {
		t.Fatalf("len(Categories()) = %d, want 7", got)
	}
	seen := map[string]bool{}
	for _, c := range Categories() {
		if seen[c.Color()] {
			t.Fatalf("duplicate color %s", c.Color())
		}
		seen[c.Color()] = true
	}
}

func TestParseEvent(t *testing.T) {
	tests := []struct {
		name string
		line string
		want *Event
	}{
		{
			name: "tap",
			line: "01-02 10:00:00.000 I/Svc: tap(12,34)",
			want: &Event{Kind: KindTap, Origin: Point{12, 34}, Category: CategorySequence, Color: "#ef4444"},
		},
		{
			name: "click",
			line: "exec click(5,6)",
			want: &Event{Kind: KindTap, Origin: Point{5, 6}, Category: CategorySequence, Color: "#ef4444"},
		},
		{
			name: "tap with explicit category",
			line: "cat=5 tap(1,1)",
			want: &Event{Kind: KindTap, Origin: Point{1, 1}, Category: CategoryDirectionModule, Color: "#3b82f6"},
		},
		{
			name: "swipe from to",
			line: "swipe dur=300 from=(1,2) to=(3,4)",
			want: &Event{Kind: KindSwipe, Origin: Point{1, 2}, Destination: &Point{3, 4}, Category: CategorySwipe, Color: "#06b6d4"},
		},
		{
			name: "swipe call",
			line: "swipe(10,10->20,20)",
			want: &Event{Kind: KindSwipe, Origin: Point{10, 10}, Destination: &Point{20, 20}, Category: CategorySwipe, Color: "#06b6d4"},
		},
		{
			name: "point objects",
			line: "chain step from=Point(x=1, y=2) to=Point(3, 4)",
			want: &Event{Kind: KindSwipe, Origin: Point{1, 2}, Destination: &Point{3, 4}, Category: CategorySequence, Color: "#ef4444"},
		},
		{
			name: "mixed point forms",
			line: "image_module from=(7,8) to=Point(9, 10)",
			want: &Event{Kind: KindSwipe, Origin: Point{7, 8}, Destination: &Point{9, 10}, Category: CategoryImageModule, Color: "#a855f7"},
		},
		{
			name: "swipe beats tap",
			line: "swipe(1,2->3,4) tap(9,9)",
			want: &Event{Kind: KindSwipe, Origin: Point{1, 2}, Destination: &Point{3, 4}, Category: CategorySwipe, Color: "#06b6d4"},
		},
		{
			name: "matched family with bad point does not fall through",
			line: "from=Point(a) to=(1,2) tap(5,5)",
			want: nil,
		},
		{
			name: "overflowing coordinate",
			line: "tap(99999999999999999999,1)",
			want: nil,
		},
		{
			name: "no event",
			line: "startProjection screen=1080x2400",
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseEvent(tt.line, at)
			if tt.want == nil {
				if ok {
					t.Fatalf("ParseEvent(%q) = %+v, want no event", tt.line, got)
				}
				return
			}
			if !ok {
				t.Fatalf("ParseEvent(%q) returned no event", tt.line)
			}
			want := *tt.want
			want.Timestamp = at
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("ParseEvent(%q) mismatch (-want +got):\n%s", tt.line, diff)
			}
		})
	}
}

func TestParseMarker(t *testing.T) {
	tests := []struct {
		name string
		line string
		want *Marker
	}{
		{
			name: "full marker",
			line: "I/ScreenCaptureService: ATX_STREAM MARKER idx=3 kind=tap cat=6 xPx=10 yPx=20",
			want: &Marker{ID: 3, Kind: "tap", Category: CategoryColorModule, Position: Point{10, 20}},
		},
		{
			name: "category falls back to line",
			line: "ATX_STREAM MARKER idx=4 kind=swipe xPx=0 yPx=0",
			want: &Marker{ID: 4, Kind: "swipe", Category: CategorySwipe, Position: Point{0, 0}},
		},
		{
			name: "zero category falls back",
			line: "ATX_STREAM  MARKER idx=5 cat=0 xPx=1 yPx=2 image_module",
			want: &Marker{ID: 5, Category: CategoryImageModule, Position: Point{1, 2}},
		},
		{"missing keyword", "MARKER idx=3 xPx=1 yPx=1", nil},
		{"missing idx", "ATX_STREAM MARKER xPx=1 yPx=1", nil},
		{"zero idx", "ATX_STREAM MARKER idx=0 xPx=1 yPx=1", nil},
		{"missing x", "ATX_STREAM MARKER idx=1 yPx=1", nil},
		{"negative y", "ATX_STREAM MARKER idx=1 xPx=1 yPx=-4", nil},
		{"non-numeric idx", "ATX_STREAM MARKER idx=abc xPx=1 yPx=1", nil},
		{"non-numeric cat", "ATX_STREAM MARKER idx=1 cat=x xPx=1 yPx=1", nil},
		{"non-numeric x", "ATX_STREAM MARKER idx=1 xPx=1.5 yPx=1", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseMarker(tt.line, at)
			if tt.want == nil {
				if ok {
					t.Fatalf("ParseMarker(%q) = %+v, want none", tt.line, got)
				}
				return
			}
			if !ok {
				t.Fatalf("ParseMarker(%q) returned none", tt.line)
			}
			want := *tt.want
			want.Timestamp = at
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("ParseMarker(%q) mismatch (-want +got):\n%s", tt.line, diff)
			}
		})
	}
}

func TestParseScreenSize(t *testing.T) {
	tests := []struct {
		name string
		line string
		want ScreenSize
		ok   bool
	}{
		{"projection", "startProjection screen=1080x2400 dpi=420", ScreenSize{1080, 2400}, true},
		{"changed", "Screen size changed 1080 x 2400 -> 2400 x 1080", ScreenSize{2400, 1080}, true},
		{"resized", "Captured content resized to 720x1600", ScreenSize{720, 1600}, true},
		{"clamped", "startProjection screen=0x0", ScreenSize{1, 1}, true},
		{"none", "tap(1,2)", ScreenSize{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseScreenSize(tt.line)
			if ok != tt.ok || got != tt.want {
				t.Fatalf("ParseScreenSize(%q) = %+v, %v; want %+v, %v", tt.line, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestScreenSizeOrientation(t *testing.T) {
	if (ScreenSize{1080, 2400}).IsLandscape() {
		t.Fatalf("portrait screen reported landscape")
	}
	if !(ScreenSize{1000, 1000}).IsLandscape() {
		t.Fatalf("square screen should count as landscape")
	}
	if got := (ScreenSize{-5, 10}).Clamp(); got != (ScreenSize{1, 10}) {
		t.Fatalf("Clamp() = %+v, want {1 10}", got)
	}
}
