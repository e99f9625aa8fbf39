package ui

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/tapscope/internal/logline"
	"github.com/five82/tapscope/internal/state"
)

// cell is one terminal character on the canvas. A zero rune is blank.
type cell struct {
	ch    rune
	color string
	bold  bool
	faint bool
}

// grid is a fixed-size character canvas. Writes outside it are dropped.
type grid struct {
	w, h  int
	cells []cell
}

func newGrid(w, h int) *grid {
	w, h = max(0, w), max(0, h)
	return &grid{w: w, h: h, cells: make([]cell, w*h)}
}

func (g *grid) inside(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.w && y < g.h
}

func (g *grid) put(x, y int, c cell) {
	if g.inside(x, y) {
		g.cells[y*g.w+x] = c
	}
}

func (g *grid) at(x, y int) cell {
	if !g.inside(x, y) {
		return cell{}
	}
	return g.cells[y*g.w+x]
}

func (g *grid) text(x, y int, s string, c cell) {
	for i, r := range []rune(s) {
		c.ch = r
		g.put(x+i, y, c)
	}
}

// render turns the grid into styled lines, one style per run of equal
// cells.
func (g *grid) render() string {
	var b strings.Builder
	for y := 0; y < g.h; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		row := g.cells[y*g.w : (y+1)*g.w]
		for start := 0; start < len(row); {
			end := start + 1
			for end < len(row) && sameStyle(row[end], row[start]) {
				end++
			}
			b.WriteString(renderRun(row[start:end]))
			start = end
		}
	}
	return b.String()
}

func sameStyle(a, b cell) bool {
	if a.ch == 0 || b.ch == 0 {
		return a.ch == b.ch
	}
	return a.color == b.color && a.bold == b.bold && a.faint == b.faint
}

func renderRun(run []cell) string {
	if run[0].ch == 0 {
		return strings.Repeat(" ", len(run))
	}
	var b strings.Builder
	for _, c := range run {
		b.WriteRune(c.ch)
	}
	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color(run[0].color)).
		Bold(run[0].bold).
		Faint(run[0].faint)
	return style.Render(b.String())
}

// transform maps device pixels onto the cells inside the phone frame.
type transform struct {
	scale  float64 // cells per device pixel, horizontally
	ox, oy int     // top-left interior cell
	w, h   int     // interior size in cells
}

// fitScreen centers the largest frame with the screen's aspect ratio that
// fits in cols x rows, leaving CanvasMargin plus the border on every side.
func fitScreen(screen logline.ScreenSize, cols, rows int) transform {
	screen = screen.Clamp()
	availW := float64(max(1, cols-2*CanvasMargin-2))
	availH := float64(max(1, rows-2*CanvasMargin-2))
	s := min(availW/float64(screen.Width), availH*CellAspect/float64(screen.Height))
	w := max(1, int(math.Round(float64(screen.Width)*s)))
	h := max(1, int(math.Round(float64(screen.Height)*s/CellAspect)))
	return transform{
		scale: s,
		ox:    (cols - w) / 2,
		oy:    (rows - h) / 2,
		w:     w,
		h:     h,
	}
}

// toCell maps p to a cell. Points far off the screen are pinned to a band
// one frame wide around it, so strokes toward them keep their direction
// without walking millions of cells.
func (t transform) toCell(p logline.Point) (int, int) {
	fx := float64(p.X) * t.scale
	fy := float64(p.Y) * t.scale / CellAspect
	x := t.ox + int(math.Max(-float64(t.w+offscreenPad), math.Min(fx, float64(2*t.w+offscreenPad))))
	y := t.oy + int(math.Max(-float64(t.h+offscreenPad), math.Min(fy, float64(2*t.h+offscreenPad))))
	return x, y
}

// alphaFor is the visual strength of an event of the given age. It fades
// linearly over ttl and never drops below minAlpha.
func alphaFor(age, ttl time.Duration) float64 {
	ttl = max(ttl, 50*time.Millisecond)
	a := 1 - float64(age)/float64(ttl)
	return max(minAlpha, min(1, a))
}

// rippleRadius grows the tap ring as the event fades.
func rippleRadius(alpha float64) int {
	return tapRadius + int(math.Round(rippleGrowth*(1-alpha)))
}

type cellPos struct{ X, Y int }

// linePoints returns the cells from (x0,y0) to (x1,y1) inclusive
// (Bresenham).
func linePoints(x0, y0, x1, y1 int) []cellPos {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	pts := make([]cellPos, 0, min(max(dx, -dy)+1, maxLinePrealloc))
	e := dx + dy
	for {
		pts = append(pts, cellPos{x0, y0})
		if x0 == x1 && y0 == y1 {
			return pts
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// octant buckets a cell-space direction into eight compass steps, starting
// at east and turning clockwise (y grows downwards).
func octant(dx, dy int) int {
	angle := math.Atan2(float64(dy)*CellAspect, float64(dx))
	return (int(math.Round(angle/(math.Pi/4)))%8 + 8) % 8
}

var arrowRunes = [8]rune{'→', '↘', '↓', '↙', '←', '↖', '↑', '↗'}
var strokeRunes = [8]rune{'─', '╲', '│', '╱', '─', '╲', '│', '╱'}

func arrowRune(dx, dy int) rune {
	if dx == 0 && dy == 0 {
		return '•'
	}
	return arrowRunes[octant(dx, dy)]
}

func strokeRune(dx, dy int) rune {
	if dx == 0 && dy == 0 {
		return '·'
	}
	return strokeRunes[octant(dx, dy)]
}

// ring draws a circle of radius r rows, stretched horizontally by
// CellAspect so it looks round.
func (g *grid) ring(cx, cy, r int, c cell) {
	steps := 16 * max(1, r)
	for i := range steps {
		theta := 2 * math.Pi * float64(i) / float64(steps)
		x := cx + int(math.Round(float64(r)*CellAspect*math.Cos(theta)))
		y := cy + int(math.Round(float64(r)*math.Sin(theta)))
		g.put(x, y, c)
	}
}

// scene is everything one canvas frame needs.
type scene struct {
	snap        state.Snapshot
	now         time.Time
	ttl         func(logline.Category) time.Duration
	showMarkers bool
}

// drawCanvas renders the phone frame and its contents into cols x rows.
func drawCanvas(sc scene, cols, rows int, th Theme) string {
	g := newGrid(cols, rows)
	if cols <= 2 || rows <= 2 {
		return g.render()
	}
	tf := fitScreen(sc.snap.Screen, cols, rows)
	drawFrame(g, tf, th)
	for _, ev := range sc.snap.Events {
		drawEvent(g, tf, ev, sc.now, sc.ttl(ev.Category))
	}
	if sc.showMarkers {
		for _, m := range sc.snap.Markers {
			drawMarker(g, tf, m, th)
		}
	}
	return g.render()
}

func drawFrame(g *grid, tf transform, th Theme) {
	border := cell{color: th.Frame}
	x0, y0 := tf.ox-1, tf.oy-1
	x1, y1 := tf.ox+tf.w, tf.oy+tf.h
	for x := x0 + 1; x < x1; x++ {
		border.ch = '─'
		g.put(x, y0, border)
		g.put(x, y1, border)
	}
	for y := y0 + 1; y < y1; y++ {
		border.ch = '│'
		g.put(x0, y, border)
		g.put(x1, y, border)
	}
	for _, corner := range []struct {
		x, y int
		ch   rune
	}{{x0, y0, '╭'}, {x1, y0, '╮'}, {x0, y1, '╰'}, {x1, y1, '╯'}} {
		border.ch = corner.ch
		g.put(corner.x, corner.y, border)
	}

	glass := cell{ch: '·', color: th.FrameGlass}
	for y := tf.oy + 1; y < tf.oy+tf.h; y += 3 {
		for x := tf.ox + 2; x < tf.ox+tf.w; x += 6 {
			g.put(x, y, glass)
		}
	}
}

func drawEvent(g *grid, tf transform, ev logline.Event, now time.Time, ttl time.Duration) {
	alpha := alphaFor(now.Sub(ev.Timestamp), ttl)
	pen := cell{color: ev.Color, faint: alpha < 0.5}
	if pen.color == "" {
		pen.color = ev.Category.Color()
	}
	cx, cy := tf.toCell(ev.Origin)

	if ev.Kind == logline.KindTap {
		pen.ch = '○'
		g.ring(cx, cy, rippleRadius(alpha), pen)
		pen.ch = '●'
		pen.bold = true
		g.put(cx, cy, pen)
		return
	}
	if ev.Destination == nil {
		return
	}
	ex, ey := tf.toCell(*ev.Destination)
	dx, dy := ex-cx, ey-cy
	pts := linePoints(cx, cy, ex, ey)
	pen.ch = strokeRune(dx, dy)
	if len(pts) > 2 {
		for _, p := range pts[1 : len(pts)-1] {
			g.put(p.X, p.Y, pen)
		}
	}
	pen.bold = true
	pen.ch = arrowRune(dx, dy)
	g.put(ex, ey, pen)
	if len(pts) > 1 {
		pen.ch = '●'
		g.put(cx, cy, pen)
	}
}

func drawMarker(g *grid, tf transform, m logline.Marker, th Theme) {
	x, y := tf.toCell(m.Position)
	color := m.Category.Color()
	g.put(x-1, y, cell{ch: '(', color: color})
	g.put(x, y, cell{ch: rune('0' + int(m.Category)%10), color: color, bold: true})
	g.put(x+1, y, cell{ch: ')', color: color})
	g.text(x+3, y, strconv.Itoa(m.ID), cell{color: th.Muted})
}

// renderLegend lists the categories in their colors.
func renderLegend(styles Styles) string {
	parts := make([]string, 0, int(logline.MaxCategory))
	for _, c := range logline.Categories() {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color(c.Color())).Bold(true).Render("●")
		parts = append(parts, dot+" "+styles.Text.Render(c.Label()))
	}
	return strings.Join(parts, "  ")
}
