package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/five82/tapscope/internal/capture"
	"github.com/five82/tapscope/internal/prefs"
	"github.com/five82/tapscope/internal/session"
)

// Notice is a short message shown in the footer.
type Notice struct {
	Level   logrus.Level
	Message string
	Time    time.Time
}

// Options configures the UI.
type Options struct {
	Context     context.Context
	Session     *session.Session
	Tick        time.Duration
	ThemeName   string
	ShowMarkers bool
	PrefsPath   string
	SnapshotDir string

	// Source names the live input; "stdin" makes the UI read keys from the
	// terminal instead.
	Source     string
	SourceDone <-chan error
	Reloads    <-chan struct{}
	Notices    <-chan Notice
	Logger     logrus.FieldLogger
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx         context.Context
	session     *session.Session
	log         logrus.FieldLogger
	tick        time.Duration
	prefsPath   string
	snapshotDir string

	// Inputs
	source      string
	sourceDone  <-chan error
	sourceEnded bool
	sourceErr   error
	reloads     <-chan struct{}
	notices     <-chan Notice

	// UI state
	theme       Theme
	keys        keyMap
	help        help.Model
	progress    progress.Model
	input       textinput.Model
	prompt      promptKind
	recent      viewport.Model
	width       int
	height      int
	ready       bool
	showHelp    bool
	showMarkers bool
	showRecent  bool

	// Render state
	canvas string
	notice Notice
	now    time.Time
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	tick := opts.Tick
	if tick <= 0 {
		tick = DefaultTick
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = prefs.Default().Theme
	}

	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	sess := opts.Session
	if sess == nil {
		sess = session.New(session.Options{Logger: log})
	}

	m := Model{
		ctx:         ctx,
		session:     sess,
		log:         log,
		tick:        tick,
		prefsPath:   opts.PrefsPath,
		snapshotDir: opts.SnapshotDir,
		source:      opts.Source,
		sourceDone:  opts.SourceDone,
		reloads:     opts.Reloads,
		notices:     opts.Notices,
		keys:        DefaultKeyMap(),
		help:        help.New(),
		input:       newPromptInput(),
		showMarkers: opts.ShowMarkers,
		showRecent:  true,
		now:         time.Now(),
	}
	m.setTheme(GetTheme(themeName))
	return m
}

// setTheme applies t to every themed component.
func (m *Model) setTheme(t Theme) {
	m.theme = t
	styles := t.Styles()
	m.help.Styles.ShortKey = styles.AccentText
	m.help.Styles.ShortDesc = styles.MutedText
	m.help.Styles.ShortSeparator = styles.FaintText
	m.help.Styles.FullKey = styles.AccentText
	m.help.Styles.FullDesc = styles.MutedText
	m.help.Styles.FullSeparator = styles.FaintText

	width := m.progress.Width
	m.progress = progress.New(
		progress.WithSolidFill(t.Accent),
		progress.WithoutPercentage(),
	)
	m.progress.EmptyColor = t.SurfaceAlt
	if width > 0 {
		m.progress.Width = width
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tickCmd(m.tick),
		waitSourceCmd(m.sourceDone),
		waitReloadCmd(m.reloads),
		waitNoticeCmd(m.notices),
		waitContextCmd(m.ctx),
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layout()
		m.redraw()
		return m, nil

	case tickMsg:
		return m.handleTick(time.Time(msg))

	case sourceDoneMsg:
		m.sourceEnded = true
		m.sourceErr = msg.err
		if msg.err != nil {
			m.setNotice(logrus.ErrorLevel, fmt.Sprintf("%s stopped: %v", m.source, msg.err))
		} else {
			m.setNotice(logrus.InfoLevel, m.source+" finished")
		}
		return m, nil

	case reloadMsg:
		_ = m.session.ReloadReplay()
		m.redraw()
		return m, waitReloadCmd(m.reloads)

	case noticeMsg:
		m.notice = Notice(msg)
		return m, waitNoticeCmd(m.notices)

	case ctxDoneMsg:
		return m, tea.Quit
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	// Show help overlay if active
	if m.showHelp {
		return m.renderHelp()
	}

	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Any key closes help
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.prompt != promptNone {
		return m.handlePromptKey(msg)
	}

	eng := m.session.Engine()
	replaying := m.session.Mode() == session.ModeReplay

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.setTheme(GetTheme(NextTheme(m.theme.Name)))
		m.savePrefs()

	case key.Matches(msg, m.keys.PlayPause):
		eng.Toggle()

	case key.Matches(msg, m.keys.Restart):
		eng.Restart()

	case key.Matches(msg, m.keys.Slower):
		eng.SetSpeed(eng.Speed() + 1)
		m.savePrefs()

	case key.Matches(msg, m.keys.Faster):
		eng.SetSpeed(eng.Speed() - 1)
		m.savePrefs()

	case key.Matches(msg, m.keys.SeekBack):
		if replaying {
			eng.BeginSeek(m.seekBase() - SeekStep)
		}

	case key.Matches(msg, m.keys.SeekFwd):
		if replaying {
			eng.BeginSeek(m.seekBase() + SeekStep)
		}

	case key.Matches(msg, m.keys.SeekTo):
		if replaying {
			return m, m.openPrompt(promptSeek, formatClock(m.seekBase()))
		}

	case key.Matches(msg, m.keys.Open):
		return m, m.openPrompt(promptOpen, eng.Path())

	case key.Matches(msg, m.keys.Close):
		m.session.CloseReplay()

	case key.Matches(msg, m.keys.ClearEvents):
		m.session.ClearEvents()

	case key.Matches(msg, m.keys.ClearMarkers):
		m.session.ClearMarkers()

	case key.Matches(msg, m.keys.ToggleMarkers):
		m.showMarkers = !m.showMarkers
		m.savePrefs()

	case key.Matches(msg, m.keys.ToggleRecent):
		m.showRecent = !m.showRecent
		m.layout()

	case key.Matches(msg, m.keys.Snapshot):
		m.saveSnapshot(capture.SnapshotPath(m.snapshotDir, time.Now()))

	case key.Matches(msg, m.keys.SnapshotAs):
		return m, m.openPrompt(promptSave, capture.SnapshotPath(m.snapshotDir, time.Now()))

	default:
		return m, nil
	}

	m.redraw()
	return m, nil
}

// seekBase is where relative seeks start: a pending seek target, otherwise
// the current simulated time.
func (m Model) seekBase() time.Duration {
	eng := m.session.Engine()
	if target, ok := eng.SeekTarget(); ok {
		return target
	}
	return eng.SimTime()
}

// handleTick runs one scheduler step and redraws when something changed.
func (m Model) handleTick(t time.Time) (tea.Model, tea.Cmd) {
	m.now = t
	changed := m.session.Tick()
	if events, _ := m.session.Sink().Len(); changed || events > 0 {
		m.redraw()
	}
	return m, tickCmd(m.tick)
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	p := prefs.Prefs{
		Theme:       m.theme.Name,
		ShowMarkers: m.showMarkers,
		Speed:       m.session.Engine().Speed(),
	}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.log.WithError(err).Debug("save prefs")
	}
}

func (m *Model) saveSnapshot(path string) {
	if err := m.session.SaveSnapshot(path); err != nil {
		m.setNotice(logrus.WarnLevel, "snapshot failed: "+err.Error())
		return
	}
	m.setNotice(logrus.InfoLevel, "snapshot saved: "+path)
}

func (m *Model) setNotice(level logrus.Level, msg string) {
	m.notice = Notice{Level: level, Message: msg, Time: time.Now()}
}

// canvasRows is the height left for the phone canvas.
func (m Model) canvasRows() int {
	rows := m.height - chromeRows
	if m.recentVisible() {
		rows -= RecentPaneRows
	}
	return max(0, rows)
}

func (m Model) recentVisible() bool {
	return m.showRecent && m.height >= LayoutRecentMinHeight
}

// layout sizes the sub-components after a resize or toggle.
func (m *Model) layout() {
	m.help.Width = m.width
	m.progress.Width = max(10, m.width/2)
	m.input.Width = max(10, m.width-30)
	m.recent = viewport.New(m.width, RecentPaneRows)
}

// redraw rebuilds the cached canvas and recent-lines pane, then marks the
// sink clean.
func (m *Model) redraw() {
	if !m.ready {
		return
	}
	sink := m.session.Sink()
	rows := m.canvasRows()
	if rows >= MinCanvasRows {
		m.canvas = drawCanvas(scene{
			snap:        sink.Snapshot(),
			now:         m.session.Now(),
			ttl:         sink.EventTTL,
			showMarkers: m.showMarkers,
		}, m.width, rows, m.theme)
	} else {
		m.canvas = strings.Repeat("\n", max(0, rows-1))
	}
	sink.MarkClean()

	if m.recentVisible() {
		m.recent.SetContent(renderRecent(m.session.RecentLines(session.RecentLines), m.width))
		m.recent.GotoBottom()
	}
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	styles := m.theme.Styles()
	parts := []string{
		m.bar(renderLegend(styles.WithBackground(m.theme.Surface))),
		m.canvas,
		m.renderStatus(),
		m.renderProgress(),
	}
	if m.recentVisible() {
		parts = append(parts, m.recent.View())
	}
	parts = append(parts, m.renderFooter())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// Messages

type tickMsg time.Time

type sourceDoneMsg struct{ err error }

type reloadMsg struct{}

type noticeMsg Notice

type ctxDoneMsg struct{}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func waitSourceCmd(ch <-chan error) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		return sourceDoneMsg{err: <-ch}
	}
}

func waitReloadCmd(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return reloadMsg{}
	}
}

func waitNoticeCmd(ch <-chan Notice) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		n, ok := <-ch
		if !ok {
			return nil
		}
		return noticeMsg(n)
	}
}

func waitContextCmd(ctx context.Context) tea.Cmd {
	if ctx.Done() == nil {
		return nil
	}
	return func() tea.Msg {
		<-ctx.Done()
		return ctxDoneMsg{}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	progOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if opts.Source == "stdin" {
		progOpts = append(progOpts, tea.WithInputTTY())
	}
	p := tea.NewProgram(m, progOpts...)
	_, err := p.Run()
	return err
}
