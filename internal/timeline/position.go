package timeline

import (
	"github.com/nissyi-gh/gantt/internal/calendar"
	"github.com/nissyi-gh/gantt/internal/model"
)

// DefaultRowHeight is the height of one task row in pixels.
const DefaultRowHeight = 50

// Position is a task's rectangle in timeline pixel space. It may extend past
// either end of the window.
type Position struct {
	Left  int
	Width int
	Top   int
}

// Right returns the pixel just past the bar.
func (p Position) Right() int { return p.Left + p.Width }

// TaskPosition places task on row rowIndex. Tasks are laid out one per row in
// list order; nothing is clamped here.
func TaskPosition(task model.Task, cfg Config, rowIndex, rowHeight int) Position {
	start := calendar.DateOf(task.StartDate)
	end := calendar.DateOf(task.EndDate)

	daysFromStart := calendar.DaysBetween(cfg.StartDate, start)
	duration := calendar.DaysBetween(start, end) + 1
	if duration < 1 {
		duration = 1
	}

	return Position{
		Left:  daysFromStart * cfg.PixelsPerDay,
		Width: duration * cfg.PixelsPerDay,
		Top:   rowIndex * rowHeight,
	}
}

// Bar is the visible part of a Position after clipping to the window.
type Bar struct {
	Left         int
	Width        int
	Top          int
	ClippedLeft  bool
	ClippedRight bool
}

// Clip cuts p to [0, totalWidth]. ok is false when nothing is visible, in
// which case the task must not be drawn. Resize handles belong only on edges
// that are not clipped.
func (p Position) Clip(totalWidth int) (bar Bar, ok bool) {
	left := max(0, p.Left)
	right := min(p.Right(), totalWidth)
	if right-left <= 0 {
		return Bar{}, false
	}
	return Bar{
		Left:         left,
		Width:        right - left,
		Top:          p.Top,
		ClippedLeft:  p.Left < 0,
		ClippedRight: p.Right() > totalWidth,
	}, true
}

// ProgressWidth returns how much of the visible bar the progress fill covers.
// The fill is measured against the full task width and then clipped like the
// bar itself.
func ProgressWidth(p Position, bar Bar, percent int) int {
	filled := p.Width * percent / 100
	hidden := max(0, -p.Left)
	return max(0, min(filled-hidden, bar.Width))
}
