package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"

	"github.com/five82/tapscope/internal/logline"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.ADBPath != defaultADBPath {
		t.Fatalf("ADBPath = %q, want %q", cfg.ADBPath, defaultADBPath)
	}
	if cfg.Tick != 30*time.Millisecond || cfg.SeekBatch != 4000 || cfg.Speed != 1 {
		t.Fatalf("tick=%v batch=%d speed=%v, want 30ms 4000 1", cfg.Tick, cfg.SeekBatch, cfg.Speed)
	}
	if cfg.SaveLog != "auto" {
		t.Fatalf("SaveLog = %q, want auto", cfg.SaveLog)
	}
	wantSaveDir, err := expandPath(defaultSaveDir)
	if err != nil {
		t.Fatalf("expandPath(defaultSaveDir) returned error: %v", err)
	}
	if cfg.SaveDir != wantSaveDir {
		t.Fatalf("SaveDir = %q, want %q", cfg.SaveDir, wantSaveDir)
	}
	if len(cfg.Policy.ShortTTLCategories) != 7 || cfg.Policy.MaxEvents != 600 {
		t.Fatalf("Policy = %+v, want stock policy", cfg.Policy)
	}
	if diff := cmp.Diff([]string{"ScreenCaptureService:I", "AutoClickAccessibilityService:I", "*:S"}, cfg.Tags); diff != "" {
		t.Fatalf("Tags mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := writeConfig(t, `
adb_path = "  /opt/platform-tools/adb  "
serial = " emulator-5554 "
tags = "ScreenCaptureService:D   *:S"
save_dir = "~/captures"
log_level = "debug"
tick_ms = 16
seek_batch = 500
speed = 2.5
event_ttl_ms = 5000
short_ttl_ms = 150
marker_ttl_ms = 400
max_events = 50
buffer_lines = 1000
short_ttl_categories = [3, 3, 5]
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.ADBPath != "/opt/platform-tools/adb" || cfg.Serial != "emulator-5554" {
		t.Fatalf("ADBPath=%q Serial=%q", cfg.ADBPath, cfg.Serial)
	}
	if diff := cmp.Diff([]string{"ScreenCaptureService:D", "*:S"}, cfg.Tags); diff != "" {
		t.Fatalf("Tags mismatch (-want +got):\n%s", diff)
	}
	if cfg.SaveDir != filepath.Join(home, "captures") {
		t.Fatalf("SaveDir = %q, want it under HOME", cfg.SaveDir)
	}
	if cfg.LogLevel != logrus.DebugLevel {
		t.Fatalf("LogLevel = %v, want debug", cfg.LogLevel)
	}
	if cfg.Tick != 16*time.Millisecond || cfg.SeekBatch != 500 || cfg.Speed != 2.5 || cfg.BufferLines != 1000 {
		t.Fatalf("tick=%v batch=%d speed=%v buffer=%d", cfg.Tick, cfg.SeekBatch, cfg.Speed, cfg.BufferLines)
	}
	p := cfg.Policy
	if p.EventTTL != 5*time.Second || p.ShortTTL != 150*time.Millisecond || p.MarkerTTL != 400*time.Millisecond || p.MaxEvents != 50 {
		t.Fatalf("Policy = %+v", p)
	}
	if diff := cmp.Diff([]logline.Category{logline.CategorySwipe, logline.CategoryDirectionModule}, p.ShortTTLCategories); diff != "" {
		t.Fatalf("ShortTTLCategories mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load(writeConfig(t, `
adb_path = "   "
tags = ""
tick_ms = 0
log_file = ""
`))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	def := Default()
	if cfg.ADBPath != def.ADBPath || cfg.Tick != def.Tick || cfg.LogFile != def.LogFile {
		t.Fatalf("cfg = %+v, want defaults", cfg)
	}
	if diff := cmp.Diff(def.Tags, cfg.Tags); diff != "" {
		t.Fatalf("Tags mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_SaveLogSettings(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	now := time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC)

	tests := []struct {
		name string
		body string
		want string
	}{
		{"unset keeps auto", ``, filepath.Join(home, "logs", "atx_log_20250203_040506.txt")},
		{"explicit auto", `save_log = "AUTO"`, filepath.Join(home, "logs", "atx_log_20250203_040506.txt")},
		{"empty disables", `save_log = ""`, ""},
		{"explicit path", `save_log = "~/mine.txt"`, filepath.Join(home, "mine.txt")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, "save_dir = \"~/logs\"\n"+tt.body))
			if err != nil {
				t.Fatalf("Load returned error: %v", err)
			}
			if got := cfg.SavePath(now); got != tt.want {
				t.Fatalf("SavePath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoad_EmptyShortTTLSetDisablesShortTTL(t *testing.T) {
	cfg, err := Load(writeConfig(t, `short_ttl_categories = []`))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Policy.ShortTTLCategories == nil || len(cfg.Policy.ShortTTLCategories) != 0 {
		t.Fatalf("ShortTTLCategories = %#v, want empty non-nil", cfg.Policy.ShortTTLCategories)
	}
}

func TestLoad_InvalidValuesFail(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"toml", `adb_path = [`, "parse config"},
		{"category", `short_ttl_categories = [0, 8]`, "short_ttl_categories"},
		{"log level", `log_level = "loud"`, "log_level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil {
				t.Fatalf("Load returned nil error, want error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Load error = %q, want it to mention %q", err.Error(), tt.want)
			}
		})
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := ExpandPath("~/a/b")
	if err != nil {
		t.Fatalf("ExpandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("ExpandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}
