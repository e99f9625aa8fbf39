package app

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/five82/tapscope/internal/config"
)

// Options carry command-line choices. Zero values defer to the config file.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses ~/.config/tapscope/prefs.toml

	Stdin  bool
	ADB    bool
	Follow string
	Replay string
	Watch  bool

	Serial   string
	Tags     string
	Speed    string // "3" or "3x"; empty keeps prefs/config
	SaveLog  string
	NoSave   bool
	LogLevel string
}

// Input names the live source.
type Input string

const (
	InputADB    Input = "adb"
	InputStdin  Input = "stdin"
	InputFollow Input = "follow"
)

// Input picks the live source: a followed file first, then stdin, then adb.
func (o Options) Input() Input {
	switch {
	case strings.TrimSpace(o.Follow) != "":
		return InputFollow
	case o.Stdin:
		return InputStdin
	default:
		return InputADB
	}
}

func (o Options) liveInputs() int {
	n := 0
	for _, set := range []bool{o.ADB, o.Stdin, strings.TrimSpace(o.Follow) != ""} {
		if set {
			n++
		}
	}
	return n
}

// Replaying reports whether a replay file was requested, in which case no
// live source is started.
func (o Options) Replaying() bool {
	return strings.TrimSpace(o.Replay) != ""
}

// ParseSpeed accepts a slow-down factor written as "3" or "3x".
func ParseSpeed(s string) (float64, error) {
	trimmed := strings.TrimSpace(s)
	trimmed = strings.TrimSuffix(strings.TrimSuffix(trimmed, "x"), "X")
	v, err := strconv.ParseFloat(strings.TrimSpace(trimmed), 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid speed %q: want a factor like 2 or 2x", s)
	}
	return v, nil
}

// apply layers the command-line overrides onto cfg.
func (o Options) apply(cfg *config.Config) error {
	if o.liveInputs() > 1 {
		return fmt.Errorf("choose one live source: -adb, -stdin, or -follow")
	}
	if v := strings.TrimSpace(o.Serial); v != "" {
		cfg.Serial = v
	}
	if tags := strings.Fields(o.Tags); len(tags) > 0 {
		cfg.Tags = tags
	}
	if strings.TrimSpace(o.SaveLog) != "" {
		cfg.SaveLog = config.ExpandSaveLog(o.SaveLog)
	}
	if o.NoSave {
		cfg.SaveLog = ""
	}
	if v := strings.TrimSpace(o.LogLevel); v != "" {
		level, err := logrus.ParseLevel(v)
		if err != nil {
			return fmt.Errorf("log level: %w", err)
		}
		cfg.LogLevel = level
	}
	if strings.TrimSpace(o.Speed) != "" {
		speed, err := ParseSpeed(o.Speed)
		if err != nil {
			return err
		}
		cfg.Speed = speed
	}
	return nil
}
