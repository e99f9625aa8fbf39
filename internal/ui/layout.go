package ui

import "time"

// Canvas geometry.
const (
	// CanvasMargin is the number of cells kept free around the phone frame.
	CanvasMargin = 1

	// CellAspect is how much taller a terminal cell is than it is wide.
	CellAspect = 2.0

	// MinCanvasRows is the smallest canvas that is still drawn.
	MinCanvasRows = 6
)

// Chrome heights.
const (
	// chromeRows counts the legend, status, progress, and footer lines.
	chromeRows = 4

	// RecentPaneRows is the height of the recent-lines pane when shown.
	RecentPaneRows = 6

	// LayoutRecentMinHeight is the terminal height below which the
	// recent-lines pane is hidden.
	LayoutRecentMinHeight = 30
)

// Tap ripple, in cells.
const (
	tapRadius    = 1
	rippleGrowth = 2
	minAlpha     = 0.15
)

// Off-screen clipping, in cells.
const (
	offscreenPad    = 8
	maxLinePrealloc = 1024
)

// Timing constants.
const (
	// SeekStep is how far the arrow keys move the replay.
	SeekStep = 5 * time.Second

	// NoticeTTL is how long a warning stays in the footer.
	NoticeTTL = 5 * time.Second

	// DefaultTick is the scheduler tick when none is configured.
	DefaultTick = 30 * time.Millisecond
)
