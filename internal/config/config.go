package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/five82/tapscope/internal/capture"
	"github.com/five82/tapscope/internal/ingest"
	"github.com/five82/tapscope/internal/logline"
	"github.com/five82/tapscope/internal/replay"
	"github.com/five82/tapscope/internal/state"
)

// Config holds every tunable tapscope reads at startup.
type Config struct {
	ADBPath     string
	Serial      string
	Tags        []string
	SaveDir     string
	SaveLog     string // "auto", a file path, or "" to disable
	LogFile     string
	LogLevel    logrus.Level
	Tick        time.Duration
	SeekBatch   int
	Speed       float64
	BufferLines int
	Policy      state.Policy
}

const (
	defaultConfigPath = "~/.config/tapscope/config.toml"
	defaultSaveDir    = "~/.local/share/tapscope/logs"
	defaultLogFile    = "~/.local/share/tapscope/tapscope.log"
	defaultADBPath    = "adb"
	defaultTick       = 30 * time.Millisecond
)

// DefaultPath returns the config path used when none is given.
func DefaultPath() string {
	return defaultConfigPath
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		ADBPath:     defaultADBPath,
		Tags:        append([]string(nil), ingest.DefaultTags...),
		SaveDir:     mustExpand(defaultSaveDir),
		SaveLog:     capture.AutoSaveSetting,
		LogFile:     mustExpand(defaultLogFile),
		LogLevel:    logrus.InfoLevel,
		Tick:        defaultTick,
		SeekBatch:   replay.DefaultSeekBatch,
		Speed:       replay.MinSpeed,
		BufferLines: capture.DefaultBufferLines,
		Policy:      state.DefaultPolicy(),
	}
}

type rawConfig struct {
	ADBPath            string  `toml:"adb_path"`
	Serial             string  `toml:"serial"`
	Tags               string  `toml:"tags"`
	SaveDir            string  `toml:"save_dir"`
	SaveLog            *string `toml:"save_log"`
	LogFile            string  `toml:"log_file"`
	LogLevel           string  `toml:"log_level"`
	TickMS             int     `toml:"tick_ms"`
	SeekBatch          int     `toml:"seek_batch"`
	Speed              float64 `toml:"speed"`
	ShortTTLCategories *[]int  `toml:"short_ttl_categories"`
	EventTTLMS         int     `toml:"event_ttl_ms"`
	ShortTTLMS         int     `toml:"short_ttl_ms"`
	MarkerTTLMS        int     `toml:"marker_ttl_ms"`
	MaxEvents          int     `toml:"max_events"`
	BufferLines        int     `toml:"buffer_lines"`
}

// Load locates and parses the tapscope config, falling back to defaults when
// the file or individual fields are missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := raw.apply(&cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", resolved, err)
	}
	return cfg, nil
}

func (raw rawConfig) apply(cfg *Config) error {
	if v := strings.TrimSpace(raw.ADBPath); v != "" {
		cfg.ADBPath = v
	}
	cfg.Serial = strings.TrimSpace(raw.Serial)
	if tags := strings.Fields(raw.Tags); len(tags) > 0 {
		cfg.Tags = tags
	}
	if v := strings.TrimSpace(raw.SaveDir); v != "" {
		cfg.SaveDir = mustExpand(v)
	}
	if raw.SaveLog != nil {
		cfg.SaveLog = ExpandSaveLog(*raw.SaveLog)
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		level, err := logrus.ParseLevel(v)
		if err != nil {
			return fmt.Errorf("log_level: %w", err)
		}
		cfg.LogLevel = level
	}
	if raw.TickMS > 0 {
		cfg.Tick = time.Duration(raw.TickMS) * time.Millisecond
	}
	if raw.SeekBatch > 0 {
		cfg.SeekBatch = raw.SeekBatch
	}
	if raw.Speed > 0 {
		cfg.Speed = raw.Speed
	}
	if raw.BufferLines > 0 {
		cfg.BufferLines = raw.BufferLines
	}

	if raw.EventTTLMS > 0 {
		cfg.Policy.EventTTL = time.Duration(raw.EventTTLMS) * time.Millisecond
	}
	if raw.ShortTTLMS > 0 {
		cfg.Policy.ShortTTL = time.Duration(raw.ShortTTLMS) * time.Millisecond
	}
	if raw.MarkerTTLMS > 0 {
		cfg.Policy.MarkerTTL = time.Duration(raw.MarkerTTLMS) * time.Millisecond
	}
	if raw.MaxEvents > 0 {
		cfg.Policy.MaxEvents = raw.MaxEvents
	}
	if raw.ShortTTLCategories != nil {
		cats, err := parseCategories(*raw.ShortTTLCategories)
		if err != nil {
			return fmt.Errorf("short_ttl_categories: %w", err)
		}
		cfg.Policy.ShortTTLCategories = cats
	}
	return nil
}

func parseCategories(values []int) ([]logline.Category, error) {
	cats := lo.Map(values, func(v int, _ int) logline.Category { return logline.Category(v) })
	if bad, found := lo.Find(cats, func(c logline.Category) bool { return !c.Valid() }); found {
		return nil, fmt.Errorf("category %d out of range %d..%d", bad, logline.MinCategory, logline.MaxCategory)
	}
	return lo.Uniq(cats), nil
}

// ExpandSaveLog normalizes a save_log value: "auto" and "" pass through,
// anything else is treated as a path.
func ExpandSaveLog(v string) string {
	v = strings.TrimSpace(v)
	if v == "" || strings.EqualFold(v, capture.AutoSaveSetting) {
		return strings.ToLower(v)
	}
	return mustExpand(v)
}

// SavePath resolves the auto-save file for a session started at now. It
// returns "" when saving is disabled.
func (c Config) SavePath(now time.Time) string {
	dir := c.SaveDir
	if strings.TrimSpace(dir) == "" {
		dir = mustExpand(defaultSaveDir)
	}
	return capture.ResolveSavePath(c.SaveLog, dir, now)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath resolves a leading ~ and makes path absolute.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
