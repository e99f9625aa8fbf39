package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Escape     key.Binding

	// Replay
	PlayPause key.Binding
	Restart   key.Binding
	Slower    key.Binding
	Faster    key.Binding
	SeekBack  key.Binding
	SeekFwd   key.Binding
	SeekTo    key.Binding
	Open      key.Binding
	Close     key.Binding

	// Canvas
	ClearEvents   key.Binding
	ClearMarkers  key.Binding
	ToggleMarkers key.Binding
	ToggleRecent  key.Binding

	// Capture
	Snapshot   key.Binding
	SnapshotAs key.Binding

	// Prompt
	Confirm key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("h/?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Cancel"),
		),

		PlayPause: key.NewBinding(
			key.WithKeys(" ", "p"),
			key.WithHelp("space", "Play/pause"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Restart"),
		),
		Slower: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "Slower"),
		),
		Faster: key.NewBinding(
			key.WithKeys("-", "_"),
			key.WithHelp("-", "Faster"),
		),
		SeekBack: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "Back 5s"),
		),
		SeekFwd: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "Forward 5s"),
		),
		SeekTo: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "Seek to"),
		),
		Open: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "Open replay"),
		),
		Close: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Back to live"),
		),

		ClearEvents: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Clear events"),
		),
		ClearMarkers: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "Clear markers"),
		),
		ToggleMarkers: key.NewBinding(
			key.WithKeys("M"),
			key.WithHelp("M", "Show markers"),
		),
		ToggleRecent: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "Recent lines"),
		),

		Snapshot: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Snapshot"),
		),
		SnapshotAs: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "Snapshot as"),
		),

		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Confirm"),
		),
	}
}

// ShortHelp returns key bindings for the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PlayPause, k.SeekBack, k.SeekFwd, k.Slower, k.Faster, k.Snapshot, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PlayPause, k.Restart, k.Slower, k.Faster},
		{k.SeekBack, k.SeekFwd, k.SeekTo},
		{k.Open, k.Close, k.Snapshot, k.SnapshotAs},
		{k.ClearEvents, k.ClearMarkers, k.ToggleMarkers, k.ToggleRecent},
		{k.CycleTheme, k.Help, k.Quit},
	}
}
