package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/nissyi-gh/gantt/internal/calendar"
	"github.com/nissyi-gh/gantt/internal/drag"
	"github.com/nissyi-gh/gantt/internal/model"
	"github.com/nissyi-gh/gantt/internal/timeline"
)

type cellKind int

const (
	cellEmpty cellKind = iota
	cellWeekend
	cellToday
	cellBar
	cellProgress
	cellHandle
	cellHandleActive
)

// cell is one terminal cell of a chart row. r == 0 marks the second half of a
// wide rune and is skipped when drawing.
type cell struct {
	r    rune
	kind cellKind
}

var (
	weekendStyle = lipgloss.NewStyle().Background(lipgloss.Color("236"))
	todayStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	cursorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("170")).Bold(true)
	blockedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// background returns the empty cells of a row: weekend shading in month view
// and the today marker.
func (g grid) background(now time.Time) []cell {
	cells := make([]cell, g.cells)
	today, hasToday := g.todayCell(now)
	total := g.totalCells()
	for i := range cells {
		c := g.scroll + i
		cells[i] = cell{r: ' '}
		if c >= total {
			continue
		}
		if g.cfg.Mode == timeline.ViewMonth && calendar.IsWeekend(g.dateOfCell(c)) {
			cells[i].kind = cellWeekend
		}
		if hasToday && c == today {
			cells[i] = cell{r: '│', kind: cellToday}
		}
	}
	return cells
}

// rowCells lays out one task row over the visible cells.
func (g grid) rowCells(task model.Task, row int, now time.Time, status drag.Status) []cell {
	cells := g.background(now)
	s, ok := g.spanOf(task, row)
	if !ok {
		return cells
	}

	fill := -1
	if pw := timeline.ProgressWidth(s.pos, s.bar, task.Progress()); pw > 0 {
		fill = s.bar.Left + pw
	}
	dragging := status.IsDragging && status.TaskID == task.ID

	bodyFirst, bodyLast := s.first, s.last
	for c := s.first; c <= s.last; c++ {
		i := c - g.scroll
		if i < 0 || i >= len(cells) {
			continue
		}
		kind := cellBar
		if c*g.scale+g.scale/2 < fill {
			kind = cellProgress
		}
		cells[i] = cell{r: ' ', kind: kind}

		switch {
		case c == s.first && s.left:
			cells[i] = cell{r: '▐', kind: cellHandle}
			if dragging && status.ActiveKind == drag.LeftHandle {
				cells[i].kind = cellHandleActive
			}
		case c == s.last && s.right:
			cells[i] = cell{r: '▌', kind: cellHandle}
			if dragging && status.ActiveKind == drag.RightHandle {
				cells[i].kind = cellHandleActive
			}
		}
	}
	if s.left {
		bodyFirst++
	}
	if s.right {
		bodyLast--
	}

	label := task.Name
	if task.Blocked {
		label = "! " + label
	}
	c := bodyFirst
	for _, r := range label {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if c+w-1 > bodyLast {
			break
		}
		for k := 0; k < w; k++ {
			if i := c + k - g.scroll; i >= 0 && i < len(cells) {
				cells[i].r = r
				if k > 0 {
					cells[i].r = 0
				}
			}
		}
		c += w
	}
	return cells
}

// headerCells returns the column labels over the visible cells.
func (g grid) headerCells() []rune {
	line := make([]rune, g.cells)
	for i := range line {
		line[i] = ' '
	}
	for _, col := range g.cfg.Columns {
		i := g.cellOf(col.Left) - g.scroll
		for _, r := range col.Label {
			if i >= 0 && i < len(line) {
				line[i] = r
			}
			i++
		}
	}
	return line
}

// drawCells renders a row with the bar colours of fill.
func drawCells(cells []cell, fill model.Fill) string {
	styles := map[cellKind]lipgloss.Style{
		cellEmpty:        lipgloss.NewStyle(),
		cellWeekend:      weekendStyle,
		cellToday:        todayStyle,
		cellBar:          lipgloss.NewStyle().Background(lipgloss.Color(fill.Background)).Foreground(lipgloss.Color("#1e293b")),
		cellProgress:     lipgloss.NewStyle().Background(lipgloss.Color(fill.Progress)).Foreground(lipgloss.Color("#ffffff")),
		cellHandle:       lipgloss.NewStyle().Background(lipgloss.Color(fill.Background)).Foreground(lipgloss.Color(fill.Border)),
		cellHandleActive: lipgloss.NewStyle().Background(lipgloss.Color(fill.Border)).Foreground(lipgloss.Color("#ffffff")),
	}

	var sb strings.Builder
	var run []rune
	kind := cellEmpty
	flush := func() {
		if len(run) > 0 {
			sb.WriteString(styles[kind].Render(string(run)))
			run = run[:0]
		}
	}
	for _, c := range cells {
		if c.r == 0 {
			continue
		}
		if c.kind != kind {
			flush()
			kind = c.kind
		}
		run = append(run, c.r)
	}
	flush()
	return sb.String()
}

// plain returns the runes of cells without styling.
func plain(cells []cell) string {
	var sb strings.Builder
	for _, c := range cells {
		if c.r != 0 {
			sb.WriteRune(c.r)
		}
	}
	return sb.String()
}
