package session

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/five82/tapscope/internal/capture"
	"github.com/five82/tapscope/internal/clock"
	"github.com/five82/tapscope/internal/ingest"
	"github.com/five82/tapscope/internal/logline"
	"github.com/five82/tapscope/internal/replay"
	"github.com/five82/tapscope/internal/state"
)

// Mode says where the drawn state comes from.
type Mode string

const (
	ModeLive   Mode = "live"
	ModeReplay Mode = "replay"
)

// RecentLines is how many processed lines RecentLines can return.
const RecentLines = 500

// replayEpoch anchors replay offsets on the time axis. Any fixed instant
// works; it only has to be the same for every feed.
var replayEpoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// Options configure a Session. Zero values fall back to defaults.
type Options struct {
	Policy      state.Policy
	Screen      logline.ScreenSize
	Clock       clock.Clock
	Queue       *ingest.Queue
	Recorder    *capture.Recorder
	BufferLines int
	SeekBatch   int
	Logger      logrus.FieldLogger
}

// Session owns the sink and is its only mutator. Every method must be
// called from the goroutine that runs Tick.
type Session struct {
	clock    clock.Clock
	sink     *state.Sink
	engine   *replay.Engine
	queue    *ingest.Queue
	recorder *capture.Recorder
	buffer   *capture.Buffer
	recent   *capture.Buffer
	log      logrus.FieldLogger
	received int
}

// New wires a session. The replay engine starts stopped, so the session is
// live until LoadReplay succeeds.
func New(opts Options) *Session {
	if opts.Clock == nil {
		opts.Clock = clock.NewReal()
	}
	if opts.Queue == nil {
		opts.Queue = ingest.NewQueue()
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.Screen == (logline.ScreenSize{}) {
		opts.Screen = logline.DefaultScreen
	}
	s := &Session{
		clock:    opts.Clock,
		sink:     state.NewSink(opts.Policy, opts.Screen),
		queue:    opts.Queue,
		recorder: opts.Recorder,
		buffer:   capture.NewBuffer(opts.BufferLines),
		recent:   capture.NewBuffer(RecentLines),
		log:      opts.Logger,
	}
	s.engine = replay.New(replayFeed{s}, opts.Clock, opts.SeekBatch)
	return s
}

// replayFeed adapts the session to replay.Sink. Replayed lines are stamped
// on the simulated time axis and skip the recorder and snapshot buffer.
type replayFeed struct{ s *Session }

func (f replayFeed) Reset() {
	f.s.sink.Reset()
	f.s.recent.Reset()
}

func (f replayFeed) Feed(line string, offset time.Duration) {
	f.s.recent.Append(line)
	f.s.apply(line, replayEpoch.Add(offset))
}

// Mode reports whether a replay is loaded.
func (s *Session) Mode() Mode {
	if s.engine.Len() > 0 {
		return ModeReplay
	}
	return ModeLive
}

// Engine exposes the replay controls.
func (s *Session) Engine() *replay.Engine { return s.engine }

// Sink exposes the drawn state for reading.
func (s *Session) Sink() *state.Sink { return s.sink }

// Queue returns the queue live sources push into.
func (s *Session) Queue() *ingest.Queue { return s.queue }

// Now returns the time events are aged against: simulated time while
// replaying, the session clock otherwise.
func (s *Session) Now() time.Time {
	if s.Mode() == ModeReplay {
		return replayEpoch.Add(s.engine.SimTime())
	}
	return s.clock.Now()
}

// Received returns the number of live lines processed.
func (s *Session) Received() int { return s.received }

// SavePath returns the auto-save file, or "" when saving is off.
func (s *Session) SavePath() string {
	if s.recorder == nil {
		return ""
	}
	return s.recorder.Path()
}

// RecentLines returns up to n of the most recently processed lines.
func (s *Session) RecentLines(n int) []string { return s.recent.Tail(n) }

// Process handles one live line: it is recorded, buffered for snapshots,
// and drawn. While a replay is loaded live lines are kept but not drawn.
func (s *Session) Process(line string) {
	s.received++
	if s.recorder != nil {
		s.recorder.Write(line)
	}
	s.buffer.Append(line)
	if s.Mode() == ModeReplay {
		return
	}
	s.recent.Append(line)
	s.apply(line, s.clock.Now())
}

// apply runs the marker, geometry, and event parsers in that order.
func (s *Session) apply(line string, at time.Time) {
	if m, ok := logline.ParseMarker(line, at); ok {
		s.sink.AddOrReplaceMarker(m)
	}
	if size, ok := logline.ParseScreenSize(line); ok {
		if s.sink.SetScreenSize(size) {
			s.log.WithField("screen", fmt.Sprintf("%dx%d", size.Width, size.Height)).Debug("screen size changed")
		}
	}
	if ev, ok := logline.ParseEvent(line, at); ok {
		s.sink.AddEvent(ev)
	}
}

// Tick advances the session by one scheduler tick: it steps any seek,
// feeds due replay entries, prunes expired state, then drains the live
// queue. It reports whether the view needs a redraw.
func (s *Session) Tick() bool {
	s.engine.Tick()
	s.sink.Prune(s.Now())
	for _, line := range s.queue.Drain() {
		s.Process(line)
	}
	switch s.engine.State() {
	case replay.Playing, replay.Seeking:
		return true
	}
	return s.sink.Dirty()
}

// LoadReplay switches to replaying path. A missing or empty file leaves the
// session live.
func (s *Session) LoadReplay(path string) error {
	err := s.engine.Load(path)
	if err != nil {
		s.log.WithError(err).WithField("path", path).Warn("replay load failed")
		return err
	}
	if s.engine.Len() == 0 {
		s.log.WithField("path", path).Warn("replay file missing or empty")
		return nil
	}
	s.log.WithFields(logrus.Fields{
		"path":     path,
		"entries":  s.engine.Len(),
		"duration": s.engine.Duration(),
	}).Info("replay loaded")
	return nil
}

// ReloadReplay re-reads the loaded file and seeks back to where playback
// was, keeping it paused if it was paused.
func (s *Session) ReloadReplay() error {
	path := s.engine.Path()
	if path == "" {
		return nil
	}
	at := s.engine.SimTime()
	if target, ok := s.engine.SeekTarget(); ok {
		at = target
	}
	wasPlaying := s.engine.Resuming()
	if err := s.engine.Load(path); err != nil {
		s.log.WithError(err).WithField("path", path).Warn("replay reload failed")
		return err
	}
	if !wasPlaying {
		s.engine.Pause()
	}
	s.engine.BeginSeek(at)
	s.log.WithFields(logrus.Fields{"path": path, "entries": s.engine.Len(), "at": at}).Info("replay reloaded")
	return nil
}

// CloseReplay unloads the replay and returns to live mode.
func (s *Session) CloseReplay() {
	if s.engine.Len() == 0 {
		return
	}
	s.engine.LoadEntries("", nil)
}

// ClearEvents drops the drawn taps and swipes.
func (s *Session) ClearEvents() { s.sink.ClearEvents() }

// ClearMarkers drops the drawn markers.
func (s *Session) ClearMarkers() { s.sink.ClearMarkers() }

// SnapshotInfo describes the current session for a snapshot header.
func (s *Session) SnapshotInfo() capture.SnapshotInfo {
	info := capture.SnapshotInfo{
		SavedAt:      s.clock.Now(),
		Screen:       s.sink.Screen(),
		Mode:         string(s.Mode()),
		AutoSavePath: s.SavePath(),
		Dropped:      s.buffer.Dropped(),
		Kept:         s.buffer.Cap(),
	}
	if s.Mode() == ModeReplay {
		info.ReplayFile = s.engine.Path()
		info.Speed = s.engine.Speed()
		info.ReplayPos = s.engine.Position()
		info.ReplayLen = s.engine.Len()
	}
	return info
}

// SaveSnapshot writes every buffered live line to path with a metadata
// header.
func (s *Session) SaveSnapshot(path string) error {
	if err := capture.WriteSnapshot(path, s.SnapshotInfo(), s.buffer.Lines()); err != nil {
		s.log.WithError(err).WithField("path", path).Warn("snapshot failed")
		return err
	}
	s.log.WithFields(logrus.Fields{"path": path, "lines": s.buffer.Len()}).Info("snapshot saved")
	return nil
}

// Close flushes and closes the auto-save file.
func (s *Session) Close() error {
	if s.recorder == nil {
		return nil
	}
	return s.recorder.Close()
}
