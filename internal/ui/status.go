package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/sirupsen/logrus"

	"github.com/five82/tapscope/internal/logline"
	"github.com/five82/tapscope/internal/replay"
	"github.com/five82/tapscope/internal/session"
)

// statusFields lists the status line entries in display order.
func (m Model) statusFields() []string {
	sink := m.session.Sink()
	screen := sink.Screen()
	events, markers := sink.Len()
	policy := sink.Policy()

	fields := []string{
		fmt.Sprintf("screen=%dx%d (%s)", screen.Width, screen.Height, orientation(screen.IsLandscape())),
		fmt.Sprintf("events=%d", events),
		fmt.Sprintf("markers=%d", markers),
		"keep=" + formatWindow(policy.EventTTL),
	}
	if n := len(policy.ShortTTLCategories); n > 0 {
		fields = append(fields, fmt.Sprintf("short=%s×%d", formatWindow(policy.ShortTTL), n))
	}
	if path := m.session.SavePath(); path != "" {
		fields = append(fields, "save="+truncateMiddle(path, 40))
	}
	if m.session.Mode() == session.ModeReplay {
		eng := m.session.Engine()
		fields = append(fields,
			"replay="+filepath.Base(eng.Path()),
			"slow="+formatSpeed(eng.Speed()),
			fmt.Sprintf("pos=%d/%d", eng.Position(), eng.Len()),
			fmt.Sprintf("t=%.1fs", eng.SimTime().Seconds()),
		)
	}
	if !m.showMarkers {
		fields = append(fields, "markers hidden")
	}
	return fields
}

// renderStatus renders the state badge and the status fields.
func (m Model) renderStatus() string {
	styles := m.theme.Styles()
	badge := m.stateBadge(styles)
	line := styles.WithBackground(m.theme.Surface).MutedText.Render(strings.Join(m.statusFields(), "   "))
	return m.bar(badge + " " + line)
}

// bar renders one full-width line, cutting content that does not fit.
func (m Model) bar(content string) string {
	content = ansi.Truncate(content, max(0, m.width-2), "…")
	return m.theme.Styles().Bar.Width(m.width).Render(content)
}

func (m Model) stateBadge(styles Styles) string {
	if m.session.Mode() == session.ModeReplay {
		st := m.session.Engine().State()
		return styles.StateStyle(st).Render(st.String())
	}
	label := "LIVE"
	if m.sourceEnded {
		label = "ENDED"
	}
	style := styles.StateStyle(replay.Playing)
	if m.sourceEnded {
		style = styles.StateStyle(replay.Stopped)
	}
	return style.Render(label)
}

// renderProgress renders the replay position bar, or the live source
// summary when no replay is loaded.
func (m Model) renderProgress() string {
	styles := m.theme.Styles()
	if m.session.Mode() != session.ModeReplay {
		src := m.source
		if src == "" {
			src = "none"
		}
		text := fmt.Sprintf("source=%s   received=%d", src, m.session.Received())
		if m.sourceErr != nil {
			text += "   " + styles.DangerText.Render(m.sourceErr.Error())
		}
		return m.bar(text)
	}

	eng := m.session.Engine()
	total := eng.Duration()
	cur := eng.SimTime()
	if target, ok := eng.SeekTarget(); ok {
		cur = target
	}
	cur = max(0, min(cur, total))

	percent := 1.0
	if total > 0 {
		percent = float64(cur) / float64(total)
	}
	text := fmt.Sprintf("%s / %s   (slow %s)", formatClock(cur), formatClock(total), formatSpeed(eng.Speed()))
	if eng.State() == replay.Seeking {
		text += fmt.Sprintf("   seeking %d/%d", eng.Position(), eng.Len())
	}
	if preview, ok := m.seekPreview(); ok {
		text += "   → " + preview
	}
	return m.bar(m.progress.ViewAs(percent) + "  " + text)
}

// renderFooter shows the open prompt, a fresh notice, or the key help.
func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	if m.prompt != promptNone {
		return styles.Prompt.Width(m.width).Render(m.prompt.label() + " " + m.input.View())
	}
	if m.notice.Message != "" && m.now.Sub(m.notice.Time) < NoticeTTL {
		style := styles.InfoText
		switch {
		case m.notice.Level <= logrus.ErrorLevel:
			style = styles.DangerText
		case m.notice.Level == logrus.WarnLevel:
			style = styles.WarningText
		}
		return m.bar(style.Render(m.notice.Message))
	}
	return lipgloss.NewStyle().Padding(0, 1).Render(m.help.View(m.keys))
}

// renderRecent prefixes each line with its category color.
func renderRecent(lines []string, width int) string {
	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		c := logline.Classify(line)
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color(c.Color())).Render("▌")
		b.WriteString(dot)
		b.WriteByte(' ')
		b.WriteString(truncateMiddle(line, max(1, width-3)))
	}
	return b.String()
}
