package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/five82/tapscope/internal/logline"
)

func TestQueue_DrainKeepsOrder(t *testing.T) {
	q := NewQueue()
	if got := q.Drain(); got != nil {
		t.Fatalf("Drain() on empty queue = %v, want nil", got)
	}
	q.Push("a")
	q.Push("b")
	q.Push("c")
	if q.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", q.Len())
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, q.Drain()); diff != "" {
		t.Fatalf("Drain() mismatch (-want +got):\n%s", diff)
	}
	if q.Len() != 0 {
		t.Fatalf("Len() after Drain = %d, want 0", q.Len())
	}
}

func TestQueue_ConcurrentPush(t *testing.T) {
	q := NewQueue()
	const producers, perProducer = 8, 500

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Push(fmt.Sprintf("%d:%d", p, i))
			}
		}(p)
	}
	wg.Wait()

	lines := q.Drain()
	if len(lines) != producers*perProducer {
		t.Fatalf("drained %d lines, want %d", len(lines), producers*perProducer)
	}
	// Each producer's lines stay in its own push order.
	next := make(map[string]int)
	for _, line := range lines {
		producer, idx, _ := strings.Cut(line, ":")
		if want := fmt.Sprint(next[producer]); idx != want {
			t.Fatalf("producer %s: got index %s, want %s", producer, idx, want)
		}
		next[producer]++
	}
}

func TestReaderSource_PushesEveryLine(t *testing.T) {
	q := NewQueue()
	src := &ReaderSource{Label: "test", R: strings.NewReader("tap(1,2)\r\n\nswipe(1,2,3,4)\nbad\xffbyte\n")}
	if err := src.Run(context.Background(), q); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	want := []string{"tap(1,2)", "", "swipe(1,2,3,4)", "badbyte"}
	if diff := cmp.Diff(want, q.Drain()); diff != "" {
		t.Fatalf("lines mismatch (-want +got):\n%s", diff)
	}
}

func TestADBSource_Args(t *testing.T) {
	tests := []struct {
		name string
		src  ADBSource
		want []string
	}{
		{
			name: "defaults",
			src:  ADBSource{},
			want: []string{"logcat", "-v", "time", "ScreenCaptureService:I", "AutoClickAccessibilityService:I", "*:S"},
		},
		{
			name: "serial and tags",
			src:  ADBSource{Serial: "emulator-5554", Tags: []string{"Foo:D", "*:S"}},
			want: []string{"-s", "emulator-5554", "logcat", "-v", "time", "Foo:D", "*:S"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, tt.src.Args()); diff != "" {
				t.Fatalf("Args() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func fakeADB(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script stand-in needs a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "adb")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatalf("write fake adb: %v", err)
	}
	return path
}

func TestADBSource_RunStreamsOutput(t *testing.T) {
	bin := fakeADB(t, "echo \"args: $*\"\necho 'tap(5,6)'\necho 'oops' >&2\n")
	q := NewQueue()
	src := &ADBSource{Path: bin, Serial: "abc"}
	if err := src.Run(context.Background(), q); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	lines := q.Drain()
	if len(lines) != 3 {
		t.Fatalf("lines = %q, want 3 entries", lines)
	}
	if lines[0] != "args: -s abc logcat -v time ScreenCaptureService:I AutoClickAccessibilityService:I *:S" {
		t.Fatalf("first line = %q", lines[0])
	}
}

func TestADBSource_RunReportsExitStatus(t *testing.T) {
	bin := fakeADB(t, "echo 'error: no devices/emulators found'\nexit 1\n")
	q := NewQueue()
	err := (&ADBSource{Path: bin}).Run(context.Background(), q)
	if err == nil || !strings.Contains(err.Error(), "adb logcat exited") {
		t.Fatalf("Run() error = %v, want exit error", err)
	}
	if q.Len() != 1 {
		t.Fatalf("queued %d lines, want the error message", q.Len())
	}
}

func TestADBSource_MissingBinary(t *testing.T) {
	err := (&ADBSource{Path: filepath.Join(t.TempDir(), "nope")}).Run(context.Background(), NewQueue())
	if err == nil || !strings.Contains(err.Error(), "start adb logcat") {
		t.Fatalf("Run() error = %v, want start error", err)
	}
}

func TestParseWMSize(t *testing.T) {
	tests := []struct {
		name string
		out  string
		want logline.ScreenSize
		ok   bool
	}{
		{"physical", "Physical size: 1080x2400\n", logline.ScreenSize{Width: 1080, Height: 2400}, true},
		{"physical wins", "Physical size: 1080x2400\nOverride size: 720x1600\n", logline.ScreenSize{Width: 1080, Height: 2400}, true},
		{"override only", "Override size: 720 x 1600", logline.ScreenSize{Width: 720, Height: 1600}, true},
		{"garbage", "error: device offline", logline.ScreenSize{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseWMSize(tt.out)
			if ok != tt.ok || got != tt.want {
				t.Fatalf("ParseWMSize() = %+v, %v; want %+v, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestProbeScreenSize(t *testing.T) {
	bin := fakeADB(t, "echo 'Physical size: 1440x3200'\n")
	got, err := ProbeScreenSize(context.Background(), bin, "")
	if err != nil {
		t.Fatalf("ProbeScreenSize() error = %v", err)
	}
	if got != (logline.ScreenSize{Width: 1440, Height: 3200}) {
		t.Fatalf("ProbeScreenSize() = %+v", got)
	}
}

func TestFollowSource_ReadsAppendedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "live.txt")
	if err := os.WriteFile(path, []byte("tap(1,1)\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	q := NewQueue()
	done := make(chan error, 1)
	go func() {
		done <- (&FollowSource{Path: path, FromStart: true, Poll: true}).Run(ctx, q)
	}()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open for append: %v", err)
	}
	if _, err := f.WriteString("tap(2,2)\n"); err != nil {
		t.Fatalf("append: %v", err)
	}
	_ = f.Close()

	var got []string
	deadline := time.Now().Add(5 * time.Second)
	for len(got) < 2 && time.Now().Before(deadline) {
		got = append(got, q.Drain()...)
		time.Sleep(20 * time.Millisecond)
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if diff := cmp.Diff([]string{"tap(1,1)", "tap(2,2)"}, got); diff != "" {
		t.Fatalf("followed lines mismatch (-want +got):\n%s", diff)
	}
}
