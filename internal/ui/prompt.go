package ui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/five82/tapscope/internal/config"
)

// promptKind is the question the footer input is asking.
type promptKind int

const (
	promptNone promptKind = iota
	promptSeek
	promptOpen
	promptSave
)

func (k promptKind) label() string {
	switch k {
	case promptSeek:
		return "seek to"
	case promptOpen:
		return "open replay"
	case promptSave:
		return "save snapshot as"
	default:
		return ""
	}
}

func (k promptKind) placeholder() string {
	switch k {
	case promptSeek:
		return "mm:ss or seconds"
	default:
		return "path"
	}
}

func newPromptInput() textinput.Model {
	ti := textinput.New()
	ti.CharLimit = 512
	ti.Prompt = "› "
	return ti
}

// openPrompt shows the footer input pre-filled with value.
func (m *Model) openPrompt(kind promptKind, value string) tea.Cmd {
	m.prompt = kind
	m.input.Reset()
	m.input.Placeholder = kind.placeholder()
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *Model) closePrompt() {
	m.prompt = promptNone
	m.input.Blur()
}

// handlePromptKey routes keys to the open prompt.
func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.closePrompt()
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		kind, value := m.prompt, m.input.Value()
		m.closePrompt()
		m.submitPrompt(kind, value)
		m.redraw()
		return m, nil
	case msg.String() == "ctrl+c":
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) submitPrompt(kind promptKind, value string) {
	switch kind {
	case promptSeek:
		target, err := parseSeekTarget(value)
		if err != nil {
			m.setNotice(logrus.WarnLevel, "seek: "+err.Error())
			return
		}
		m.session.Engine().BeginSeek(target)

	case promptOpen:
		path, err := config.ExpandPath(value)
		if err != nil || path == "" {
			m.setNotice(logrus.WarnLevel, "open: no path")
			return
		}
		if err := m.session.LoadReplay(path); err != nil {
			m.setNotice(logrus.WarnLevel, "open: "+err.Error())
			return
		}
		if m.session.Engine().Len() == 0 {
			m.setNotice(logrus.WarnLevel, "open: nothing to replay in "+path)
		}

	case promptSave:
		path, err := config.ExpandPath(value)
		if err != nil || path == "" {
			m.setNotice(logrus.WarnLevel, "snapshot: no path")
			return
		}
		m.saveSnapshot(path)
	}
}

// seekPreview is the target the seek prompt would jump to, if it parses.
func (m Model) seekPreview() (string, bool) {
	if m.prompt != promptSeek {
		return "", false
	}
	target, err := parseSeekTarget(m.input.Value())
	if err != nil {
		return "", false
	}
	total := m.session.Engine().Duration()
	return formatClock(min(target, total)), true
}
