package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/nissyi-gh/gantt/internal/calendar"
	"github.com/nissyi-gh/gantt/internal/model"
)

// newTaskDays is the length of a task created from the chart.
const newTaskDays = 7

// updateName handles the single-line input for new tasks and subtasks.
func (m Model) updateName(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			name := strings.TrimSpace(m.input.Value())
			state := m.state
			m.state = stateChart
			m.input.Blur()
			if name == "" {
				return m, nil
			}
			if state == stateSubtask {
				return m.addSubtask(name)
			}
			return m.addTask(name)
		case "esc":
			m.state = stateChart
			m.input.Blur()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) addTask(name string) (tea.Model, tea.Cmd) {
	today := calendar.DateOf(m.now())
	task, err := m.store.Add(model.New(name, today, calendar.AddDays(today, newTaskDays)))
	if err != nil {
		m.err = err
		return m, nil
	}
	m.logger.Info("task added", "task_id", task.ID, "name", task.Name)
	m.err = nil
	m.cursor = len(m.tasks)
	m.jumpTo(today)
	return m, m.loadTasks
}

func (m Model) addSubtask(name string) (tea.Model, tea.Cmd) {
	task, ok := m.selected()
	if !ok {
		return m, nil
	}
	if _, err := m.store.AddSubtask(task.ID, name); err != nil {
		m.err = err
		return m, nil
	}
	m.err = nil
	return m, m.loadTasks
}

// updateDates edits start and end with two date inputs. Tab past the last
// field of one moves to the other.
func (m Model) updateDates(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			return m.saveDates()
		case "esc":
			m.state = stateChart
			m.start.Blur()
			m.end.Blur()
			return m, nil
		case "tab", "right":
			if !m.onEnd && m.start.atEnd() {
				m.onEnd = true
				m.start.Blur()
				cmd := m.end.Focus()
				return m, cmd
			}
		case "shift+tab", "left":
			if m.onEnd && m.end.atStart() {
				m.onEnd = false
				m.end.Blur()
				cmd := m.start.focusField(len(m.start.fields) - 1)
				return m, cmd
			}
		}
	}

	var cmd tea.Cmd
	if m.onEnd {
		m.end, cmd = m.end.Update(msg)
	} else {
		m.start, cmd = m.start.Update(msg)
	}
	return m, cmd
}

func (m Model) saveDates() (tea.Model, tea.Cmd) {
	task, ok := m.selected()
	if !ok {
		m.state = stateChart
		return m, nil
	}
	start, err := m.start.Date(task.StartDate)
	if err != nil {
		m.err = err
		return m, nil
	}
	end, err := m.end.Date(start)
	if err != nil {
		m.err = err
		return m, nil
	}
	if err := m.store.Update(task.WithDates(start, end)); err != nil {
		m.err = err
		return m, nil
	}
	m.err = nil
	m.state = stateChart
	return m, m.loadTasks
}

// fillPicker lists every other task, marking the ones task already waits for.
func (m *Model) fillPicker(task model.Task) {
	var items []list.Item
	for _, t := range m.tasks {
		if t.ID == task.ID {
			continue
		}
		items = append(items, TaskItem{Task: t, Linked: task.DependsOnID(t.ID)})
	}
	m.picker.Title = "Depends on: " + task.Name
	m.picker.ResetFilter()
	m.picker.SetItems(items)
	m.picker.Select(0)
}

// updateLink toggles dependencies of the selected task. A link that would
// close a cycle is refused by the store.
func (m Model) updateLink(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && !m.picker.SettingFilter() {
		switch keyMsg.String() {
		case "esc":
			m.state = stateChart
			return m, m.loadTasks
		case "enter", " ", "x":
			task, ok := m.selected()
			item, hasItem := m.picker.SelectedItem().(TaskItem)
			if !ok || !hasItem {
				return m, nil
			}
			var err error
			if item.Linked {
				err = m.store.RemoveDependency(task.ID, item.Task.ID)
			} else {
				err = m.store.AddDependency(task.ID, item.Task.ID)
			}
			if err != nil {
				m.err = err
				return m, nil
			}
			m.err = nil
			updated, err := m.store.GetByID(task.ID)
			if err != nil {
				m.err = err
				return m, nil
			}
			m.tasks = model.ReplaceTask(m.tasks, updated)
			idx := m.picker.Index()
			m.fillPicker(updated)
			m.picker.Select(idx)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return m, cmd
}

func (m Model) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "y":
			if task, ok := m.selected(); ok {
				if err := m.store.Delete(task.ID); err != nil {
					m.err = err
				} else {
					m.tasks = model.RemoveTask(m.tasks, task.ID)
					m.cursor = max(0, min(m.cursor, len(m.tasks)-1))
					m.logger.Info("task deleted", "task_id", task.ID)
				}
			}
			m.state = stateChart
			return m, m.loadTasks
		case "n", "esc":
			m.state = stateChart
			return m, nil
		}
	}
	return m, nil
}

// statsPresets are the ranges the stats view cycles through.
var statsPresets = []string{"month", "quarter", "year", "all", "week"}

// updateOverlay handles the read-only board and stats views.
func (m Model) updateOverlay(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case "esc", "B", "S":
		m.state = stateChart
	case "q", "ctrl+c":
		return m, tea.Quit
	case "tab":
		if m.state == stateStats {
			m.statsPreset = (m.statsPreset + 1) % len(statsPresets)
		}
	}
	return m, nil
}
