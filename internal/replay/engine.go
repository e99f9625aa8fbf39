package replay

import (
	"math"
	"time"

	"github.com/five82/tapscope/internal/clock"
	"github.com/five82/tapscope/internal/timeline"
)

// Speed bounds. The factor only slows playback down: 2 means half speed.
const (
	MinSpeed = 1.0
	MaxSpeed = 10.0
)

// DefaultSeekBatch is the number of entries a seek rebuild replays per tick.
const DefaultSeekBatch = 4000

// State is the engine's playback state.
type State int

const (
	Stopped State = iota
	Paused
	Playing
	Seeking
)

func (s State) String() string {
	switch s {
	case Paused:
		return "PAUSE"
	case Playing:
		return "RUN"
	case Seeking:
		return "SEEK"
	default:
		return "STOP"
	}
}

// Sink receives replayed lines. Reset is called whenever previously fed
// state must be discarded (load, restart, seek).
type Sink interface {
	Reset()
	Feed(line string, offset time.Duration)
}

type seekJob struct {
	target    time.Duration
	targetPos int
	cursor    int
	resume    bool
}

// Engine replays a timeline against a Sink. It is driven by Tick from a
// single goroutine and is not safe for concurrent use.
type Engine struct {
	clock clock.Clock
	sink  Sink
	batch int

	path    string
	entries []timeline.Entry
	total   time.Duration

	pos        int
	running    bool
	speed      float64
	anchorSim  time.Duration
	anchorReal time.Time
	seek       *seekJob
}

// New creates a stopped engine. A non-positive seekBatch uses
// DefaultSeekBatch.
func New(sink Sink, clk clock.Clock, seekBatch int) *Engine {
	if clk == nil {
		clk = clock.NewReal()
	}
	if seekBatch <= 0 {
		seekBatch = DefaultSeekBatch
	}
	return &Engine{
		clock: clk,
		sink:  sink,
		batch: seekBatch,
		speed: MinSpeed,
	}
}

// Load reads path and starts playing it. A missing file leaves the engine
// stopped; other read errors are returned and also leave it stopped.
func (e *Engine) Load(path string) error {
	entries, err := timeline.Load(path)
	e.LoadEntries(path, entries)
	return err
}

// LoadEntries installs an already parsed timeline. Playback starts
// immediately when entries is non-empty.
func (e *Engine) LoadEntries(path string, entries []timeline.Entry) {
	e.path = path
	e.entries = entries
	e.total = timeline.Duration(entries)
	e.pos = 0
	e.seek = nil
	e.anchorSim = 0
	e.anchorReal = e.clock.Now()
	e.running = len(entries) > 0
	e.sink.Reset()
}

// State reports the current playback state.
func (e *Engine) State() State {
	switch {
	case len(e.entries) == 0:
		return Stopped
	case e.seek != nil:
		return Seeking
	case e.running:
		return Playing
	default:
		return Paused
	}
}

// Path returns the loaded file path, if any.
func (e *Engine) Path() string { return e.path }

// Len returns the number of loaded entries.
func (e *Engine) Len() int { return len(e.entries) }

// Position returns the number of entries fed so far.
func (e *Engine) Position() int { return e.pos }

// Duration returns the offset of the last entry.
func (e *Engine) Duration() time.Duration { return e.total }

// Speed returns the slow-down factor.
func (e *Engine) Speed() float64 { return e.speed }

// SimTime returns the current simulated time.
func (e *Engine) SimTime() time.Duration {
	if !e.running {
		return e.anchorSim
	}
	elapsed := e.clock.Since(e.anchorReal)
	return e.anchorSim + time.Duration(float64(elapsed)/e.speed)
}

// SeekTarget returns the pending seek target while a rebuild is running.
func (e *Engine) SeekTarget() (time.Duration, bool) {
	if e.seek == nil {
		return 0, false
	}
	return e.seek.target, true
}

// Resuming reports whether playback runs now or will run once the pending
// seek completes.
func (e *Engine) Resuming() bool {
	if e.seek != nil {
		return e.seek.resume
	}
	return e.running
}

func (e *Engine) anchor() {
	e.anchorSim = e.SimTime()
	e.anchorReal = e.clock.Now()
}

// Play resumes playback. At the end of the timeline it restarts from the
// beginning. During a seek it only records that playback should resume.
func (e *Engine) Play() {
	if len(e.entries) == 0 {
		return
	}
	if e.seek != nil {
		e.seek.resume = true
		return
	}
	if e.running {
		return
	}
	if e.pos >= len(e.entries) {
		e.Restart()
		return
	}
	e.anchorReal = e.clock.Now()
	e.running = true
}

// Pause freezes simulated time at the current instant.
func (e *Engine) Pause() {
	if e.seek != nil {
		e.seek.resume = false
		return
	}
	if !e.running {
		return
	}
	e.anchor()
	e.running = false
}

// Toggle switches between playing and paused.
func (e *Engine) Toggle() {
	if e.Resuming() {
		e.Pause()
	} else {
		e.Play()
	}
}

// Restart clears fed state and plays from the beginning.
func (e *Engine) Restart() {
	if len(e.entries) == 0 {
		return
	}
	e.seek = nil
	e.pos = 0
	e.anchorSim = 0
	e.anchorReal = e.clock.Now()
	e.running = true
	e.sink.Reset()
}

// SetSpeed sets the slow-down factor, clamped to [MinSpeed, MaxSpeed]. The
// clock is re-anchored first so simulated time does not jump.
func (e *Engine) SetSpeed(factor float64) {
	if math.IsNaN(factor) || factor < MinSpeed {
		factor = MinSpeed
	}
	if factor > MaxSpeed {
		factor = MaxSpeed
	}
	if e.running {
		e.anchor()
	}
	e.speed = factor
}

// BeginSeek starts rebuilding state up to target. Fed state is cleared and
// every entry at or before target is replayed in batches by StepSeek or
// Tick. A seek issued while another is running replaces it, keeping the
// original intent to resume playback.
func (e *Engine) BeginSeek(target time.Duration) {
	if len(e.entries) == 0 {
		return
	}
	target = max(0, min(target, e.total))
	resume := e.running
	if e.seek != nil {
		resume = e.seek.resume
	}
	e.running = false
	e.anchorSim = target
	e.pos = 0
	e.sink.Reset()
	e.seek = &seekJob{
		target:    target,
		targetPos: timeline.CountThrough(e.entries, target),
		resume:    resume,
	}
}

// StepSeek replays at most budget entries of the pending seek and reports
// whether the seek is complete. A non-positive budget uses the engine's
// batch size.
func (e *Engine) StepSeek(budget int) bool {
	job := e.seek
	if job == nil {
		return true
	}
	if budget <= 0 {
		budget = e.batch
	}
	end := min(job.targetPos, job.cursor+budget)
	for job.cursor < end {
		entry := e.entries[job.cursor]
		job.cursor++
		e.sink.Feed(entry.Line, entry.Offset)
	}
	e.pos = job.cursor
	if job.cursor < job.targetPos {
		return false
	}
	e.seek = nil
	e.pos = job.targetPos
	e.anchorSim = job.target
	e.anchorReal = e.clock.Now()
	e.running = job.resume
	return true
}

// SeekComplete reports whether no seek rebuild is pending.
func (e *Engine) SeekComplete() bool {
	return e.seek == nil
}

// Tick advances the engine by one scheduler tick: it steps a pending seek,
// then feeds every entry that is due at the current simulated time. Reaching
// the end pauses playback.
func (e *Engine) Tick() {
	if e.seek != nil && !e.StepSeek(e.batch) {
		return
	}
	if !e.running {
		return
	}
	sim := e.SimTime()
	for e.pos < len(e.entries) && e.entries[e.pos].Offset <= sim {
		entry := e.entries[e.pos]
		e.pos++
		e.sink.Feed(entry.Line, entry.Offset)
	}
	if e.pos >= len(e.entries) {
		e.anchorSim = min(sim, e.total)
		e.running = false
	}
}
