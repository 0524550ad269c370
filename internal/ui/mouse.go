package ui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nissyi-gh/gantt/internal/calendar"
	"github.com/nissyi-gh/gantt/internal/drag"
	"github.com/nissyi-gh/gantt/internal/logging"
	"github.com/nissyi-gh/gantt/internal/model"
)

// updateDragging owns all input while a gesture is active. Only a pointer
// release ends it; keys other than ctrl+c are dropped.
func (m Model) updateDragging(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.MouseMsg:
		return m.updateMouse(msg)
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Model) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	g := m.layout()
	if m.drag.Status().IsDragging {
		switch msg.Action {
		case tea.MouseActionMotion:
			m.drag.OnPointerMove(float64(g.pixelAt(msg.X)))
			m.applyDrag()
		case tea.MouseActionRelease:
			return m.pointerUp()
		}
		return m, m.capture.take()
	}

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.moveCursor(-1)
	case msg.Button == tea.MouseButtonWheelDown:
		m.moveCursor(1)
	case msg.Button == tea.MouseButtonWheelLeft:
		m.scroll = max(0, g.scroll-1)
	case msg.Button == tea.MouseButtonWheelRight:
		m.scroll = min(g.maxScroll(), g.scroll+1)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.pointerDown(g, msg.X, msg.Y)
	case msg.Action == tea.MouseActionRelease:
		return m.pointerUp()
	}
	return m, m.capture.take()
}

// pointerDown selects the row under the pointer and starts a gesture when the
// press lands on a bar.
func (m *Model) pointerDown(g grid, x, y int) {
	row, ok := g.rowAt(y, len(m.tasks))
	if !ok {
		return
	}
	m.cursor = row
	if !g.inChart(x) {
		return
	}

	task := m.tasks[row]
	px, ppd := float64(g.pixelAt(x)), g.cfg.PixelsPerDay
	var started bool
	switch g.hitKind(task, row, g.cellAt(x)) {
	case drag.LeftHandle:
		started = m.drag.OnLeftHandleDown(task, px, ppd)
	case drag.RightHandle:
		started = m.drag.OnRightHandleDown(task, px, ppd)
	case drag.Move:
		started = m.drag.OnBarDown(task, px, ppd)
	default:
		return
	}
	if !started && task.Blocked {
		m.flash = fmt.Sprintf("%q is blocked", task.Name)
	}
}

// applyDrag swaps the latest emitted task into the list.
func (m *Model) applyDrag() {
	if !m.sink.ok {
		return
	}
	m.tasks = model.ReplaceTask(m.tasks, m.sink.task)
	m.sink.ok = false
}

// pointerUp ends the gesture and writes the final dates once.
func (m Model) pointerUp() (tea.Model, tea.Cmd) {
	task, changed := m.drag.OnPointerUp()
	cmd := m.capture.take()
	if !changed {
		return m, cmd
	}

	start := time.Now()
	if err := m.store.UpdateDates(task.ID, task.StartDate, task.EndDate); err != nil {
		m.err = err
		return m, tea.Batch(cmd, m.loadTasks)
	}
	logging.LogDuration(m.logger, "persist dates", start)
	m.logger.Info("task rescheduled",
		"task_id", task.ID,
		"start", calendar.FormatISO(task.StartDate),
		"end", calendar.FormatISO(task.EndDate),
	)
	return m, cmd
}
