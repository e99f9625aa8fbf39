package ui

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/five82/tapscope/internal/replay"
)

func TestThemeNames(t *testing.T) {
	want := []string{"Nightfox", "Kanagawa", "Slate"}
	if diff := cmp.Diff(want, ThemeNames()); diff != "" {
		t.Fatalf("ThemeNames() mismatch (-want +got):\n%s", diff)
	}
}

func TestNextTheme(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Nightfox", "Kanagawa"},
		{"Kanagawa", "Slate"},
		{"Slate", "Nightfox"},
		{"Unknown", "Nightfox"},
	}
	for _, tc := range cases {
		if got := NextTheme(tc.in); got != tc.want {
			t.Fatalf("NextTheme(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestGetTheme(t *testing.T) {
	for _, name := range ThemeNames() {
		if got := GetTheme(name).Name; got != name {
			t.Fatalf("GetTheme(%q).Name = %q", name, got)
		}
	}
	if got := GetTheme("Dracula").Name; got != "Nightfox" {
		t.Fatalf("GetTheme(unknown).Name = %q, want Nightfox (fallback)", got)
	}
}

func TestThemesDefineEveryColor(t *testing.T) {
	for _, name := range ThemeNames() {
		th := GetTheme(name)
		colors := map[string]string{
			"Background": th.Background, "Surface": th.Surface, "SurfaceAlt": th.SurfaceAlt,
			"Frame": th.Frame, "FrameGlass": th.FrameGlass,
			"Text": th.Text, "Muted": th.Muted, "Faint": th.Faint, "Accent": th.Accent,
			"Success": th.Success, "Warning": th.Warning, "Danger": th.Danger, "Info": th.Info,
		}
		for field, v := range colors {
			if v == "" {
				t.Fatalf("theme %s: %s is empty", name, field)
			}
		}
	}
}

func TestStateStyle_DistinguishesStates(t *testing.T) {
	styles := GetTheme("Slate").Styles()
	playing := styles.StateStyle(replay.Playing).GetBackground()
	paused := styles.StateStyle(replay.Paused).GetBackground()
	if playing == paused {
		t.Fatalf("playing and paused badges share background %v", playing)
	}
}
