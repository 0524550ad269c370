package ui

import (
	"time"

	"github.com/nissyi-gh/gantt/internal/calendar"
	"github.com/nissyi-gh/gantt/internal/drag"
	"github.com/nissyi-gh/gantt/internal/model"
	"github.com/nissyi-gh/gantt/internal/timeline"
)

// Pixels covered by one terminal cell. Both divide the view's pixels per day
// or are a whole number of days.
const (
	cellPixelsMonth = timeline.PixelsPerDayMonth / 2
	cellPixelsYear  = timeline.PixelsPerDayYear * 3
)

func cellScale(mode timeline.ViewMode) int {
	if mode == timeline.ViewMonth {
		return cellPixelsMonth
	}
	return cellPixelsYear
}

// grid maps terminal coordinates onto the timeline's pixel space.
type grid struct {
	cfg     timeline.Config
	scale   int // pixels per cell
	originX int // screen column of chart cell 0 before scrolling
	originY int // screen row of task row 0 before scrolling
	scroll  int // first visible cell
	rowOff  int // first visible task row
	cells   int // visible cells
	rows    int // visible task rows
}

func newGrid(cfg timeline.Config, originX, originY, cells, rows int) grid {
	return grid{
		cfg:     cfg,
		scale:   cellScale(cfg.Mode),
		originX: originX,
		originY: originY,
		cells:   max(cells, 1),
		rows:    max(rows, 1),
	}
}

// totalCells is the width of the whole window in cells.
func (g grid) totalCells() int {
	return (g.cfg.TotalWidth + g.scale - 1) / g.scale
}

// maxScroll is the largest useful scroll offset.
func (g grid) maxScroll() int {
	return max(0, g.totalCells()-g.cells)
}

// cellAt returns the chart cell under screen column x, unbounded.
func (g grid) cellAt(x int) int {
	return x - g.originX + g.scroll
}

// inChart reports whether screen column x is over a visible chart cell.
func (g grid) inChart(x int) bool {
	c := x - g.originX
	return c >= 0 && c < g.cells && g.cellAt(x) < g.totalCells()
}

// pixelAt returns the centre pixel of the day under screen column x. Crossing
// a day boundary in either direction moves it by exactly one day. Columns
// outside the chart still map, so a drag can continue past either edge.
func (g grid) pixelAt(x int) int {
	ppd := g.cfg.PixelsPerDay
	px := g.cellAt(x)*g.scale + g.scale/2
	day := px / ppd
	if px < 0 && px%ppd != 0 {
		day--
	}
	return day*ppd + ppd/2
}

// rowAt returns the task row under screen row y.
func (g grid) rowAt(y, count int) (int, bool) {
	r := y - g.originY
	if r < 0 || r >= g.rows {
		return 0, false
	}
	r += g.rowOff
	if r >= count {
		return 0, false
	}
	return r, true
}

// cellOf returns the cell holding pixel x.
func (g grid) cellOf(x int) int {
	if x < 0 {
		return (x - g.scale + 1) / g.scale
	}
	return x / g.scale
}

// dateOfCell returns the first day covered by cell c.
func (g grid) dateOfCell(c int) time.Time {
	return g.cfg.DateAt(c * g.scale)
}

// scrollTo returns the scroll offset that keeps cell c visible.
func (g grid) scrollTo(c int) int {
	s := g.scroll
	if c < s {
		s = c
	}
	if c >= s+g.cells {
		s = c - g.cells + 1
	}
	return max(0, min(s, g.maxScroll()))
}

// span is the run of cells a visible bar occupies.
type span struct {
	first, last int
	handles     bool // resize handles are drawn and hit-testable
	left, right bool // handle allowed on this edge
	bar         timeline.Bar
	pos         timeline.Position
}

// minHandleCells is the narrowest bar that keeps a body between its handles.
const minHandleCells = 3

func (g grid) spanOf(task model.Task, row int) (span, bool) {
	pos := timeline.TaskPosition(task, g.cfg, row, 1)
	bar, ok := pos.Clip(g.cfg.TotalWidth)
	if !ok {
		return span{}, false
	}
	s := span{
		first: g.cellOf(bar.Left),
		last:  g.cellOf(bar.Left + bar.Width - 1),
		bar:   bar,
		pos:   pos,
	}
	s.handles = s.last-s.first+1 >= minHandleCells
	s.left = s.handles && !bar.ClippedLeft
	s.right = s.handles && !bar.ClippedRight
	return s, true
}

// hitKind names the drag target under cell c of a task's row, or drag.None.
func (g grid) hitKind(task model.Task, row, c int) drag.Kind {
	s, ok := g.spanOf(task, row)
	if !ok || c < s.first || c > s.last {
		return drag.None
	}
	switch {
	case c == s.first && s.left:
		return drag.LeftHandle
	case c == s.last && s.right:
		return drag.RightHandle
	}
	return drag.Move
}

// todayCell returns the cell holding now, if it is inside the window.
func (g grid) todayCell(now time.Time) (int, bool) {
	d := calendar.DaysBetween(g.cfg.StartDate, now)
	if d < 0 || d >= g.cfg.Days() {
		return 0, false
	}
	return g.cellOf(d * g.cfg.PixelsPerDay), true
}
