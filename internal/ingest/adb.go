package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/five82/tapscope/internal/logline"
)

// DefaultTags limits logcat to the two services that emit gesture logs.
var DefaultTags = []string{"ScreenCaptureService:I", "AutoClickAccessibilityService:I", "*:S"}

const probeTimeout = 5 * time.Second

// ADBSource streams `adb logcat -v time` output. Stderr is merged into the
// stream so device errors show up next to the log lines.
type ADBSource struct {
	Path   string
	Serial string
	Tags   []string
	Logger logrus.FieldLogger
}

func (s *ADBSource) Name() string { return "adb" }

// Args returns the logcat command line without the binary.
func (s *ADBSource) Args() []string {
	args := deviceArgs(s.Serial)
	args = append(args, "logcat", "-v", "time")
	if len(s.Tags) > 0 {
		return append(args, s.Tags...)
	}
	return append(args, DefaultTags...)
}

// Run starts adb and pushes every output line until the process exits or
// ctx is cancelled. Cancellation is not an error.
func (s *ADBSource) Run(ctx context.Context, q *Queue) error {
	cmd := exec.CommandContext(ctx, adbBinary(s.Path), s.Args()...)
	pr, pw := io.Pipe()
	cmd.Stdout = pw
	cmd.Stderr = pw
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start adb logcat: %w", err)
	}
	if s.Logger != nil {
		s.Logger.WithField("args", strings.Join(s.Args(), " ")).Info("adb logcat started")
	}

	waitErr := make(chan error, 1)
	go func() {
		err := cmd.Wait()
		_ = pw.Close()
		waitErr <- err
	}()

	scanErr := scanInto(ctx, pr, q)
	_ = pr.Close()
	err := <-waitErr
	if ctx.Err() != nil {
		return nil
	}
	if scanErr != nil && !errors.Is(scanErr, io.ErrClosedPipe) {
		return fmt.Errorf("read adb logcat: %w", scanErr)
	}
	if err != nil {
		return fmt.Errorf("adb logcat exited: %w", err)
	}
	return nil
}

var (
	rePhysicalSize = regexp.MustCompile(`Physical size:\s*(\d+)\s*x\s*(\d+)`)
	reOverrideSize = regexp.MustCompile(`Override size:\s*(\d+)\s*x\s*(\d+)`)
)

// ProbeScreenSize asks the device for its resolution with `adb shell wm size`.
func ProbeScreenSize(ctx context.Context, adbPath, serial string) (logline.ScreenSize, error) {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	args := append(deviceArgs(serial), "shell", "wm", "size")
	out, err := exec.CommandContext(ctx, adbBinary(adbPath), args...).CombinedOutput()
	if err != nil {
		return logline.ScreenSize{}, fmt.Errorf("adb wm size: %w", err)
	}
	size, ok := ParseWMSize(string(out))
	if !ok {
		return logline.ScreenSize{}, fmt.Errorf("adb wm size: unrecognized output %q", strings.TrimSpace(string(out)))
	}
	return size, nil
}

// ParseWMSize extracts the physical size from `wm size` output, falling back
// to the override size.
func ParseWMSize(out string) (logline.ScreenSize, bool) {
	m := rePhysicalSize.FindStringSubmatch(out)
	if m == nil {
		m = reOverrideSize.FindStringSubmatch(out)
	}
	if m == nil {
		return logline.ScreenSize{}, false
	}
	w, errW := strconv.Atoi(m[1])
	h, errH := strconv.Atoi(m[2])
	if errW != nil || errH != nil {
		return logline.ScreenSize{}, false
	}
	return logline.ScreenSize{Width: w, Height: h}.Clamp(), true
}

func deviceArgs(serial string) []string {
	if serial = strings.TrimSpace(serial); serial != "" {
		return []string{"-s", serial}
	}
	return nil
}

func adbBinary(path string) string {
	if strings.TrimSpace(path) == "" {
		return "adb"
	}
	return path
}
