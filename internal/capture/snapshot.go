package capture

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/five82/tapscope/internal/logline"
)

// SnapshotInfo is the metadata written above a snapshot's lines.
type SnapshotInfo struct {
	SavedAt      time.Time
	Screen       logline.ScreenSize
	Mode         string // "live" or "replay"
	ReplayFile   string
	Speed        float64
	ReplayPos    int
	ReplayLen    int
	AutoSavePath string
	Dropped      int
	Kept         int
}

func (s SnapshotInfo) header() []string {
	out := []string{
		"# snapshot_saved_at=" + s.SavedAt.Format(headerTimeLayout),
		fmt.Sprintf("# screen=%dx%d", s.Screen.Width, s.Screen.Height),
		"# mode=" + s.Mode,
	}
	if s.ReplayFile != "" {
		out = append(out,
			"# replay_file="+s.ReplayFile,
			"# speed="+strconv.FormatFloat(s.Speed, 'g', -1, 64)+"x",
			fmt.Sprintf("# replay_pos=%d/%d", s.ReplayPos, s.ReplayLen),
		)
	}
	if s.AutoSavePath != "" {
		out = append(out, "# auto_save_path="+s.AutoSavePath)
	}
	if s.Dropped > 0 {
		out = append(out, fmt.Sprintf("# NOTE: buffer_dropped_lines=%d (kept_last=%d)", s.Dropped, s.Kept))
	}
	return out
}

// SnapshotPath returns the default snapshot file name for now under dir,
// at millisecond resolution. If that file already exists a numeric suffix
// is added so earlier snapshots are never replaced.
func SnapshotPath(dir string, now time.Time) string {
	stem := fmt.Sprintf("atx_snapshot_%s_%03d", now.Format("20060102_150405"), now.Nanosecond()/int(time.Millisecond))
	path := filepath.Join(dir, stem+".txt")
	for n := 2; ; n++ {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return path
		}
		path = filepath.Join(dir, stem+"_"+strconv.Itoa(n)+".txt")
	}
}

// WriteSnapshot writes the header, a blank line, then lines to path,
// replacing any existing file. The result loads back as a replay.
func WriteSnapshot(path string, info SnapshotInfo, lines []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	w := bufio.NewWriter(file)
	for _, line := range info.header() {
		w.WriteString(line + "\n")
	}
	w.WriteString("\n")
	for _, line := range lines {
		w.WriteString(line + "\n")
	}
	if err := w.Flush(); err != nil {
		_ = file.Close()
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}
	return nil
}
