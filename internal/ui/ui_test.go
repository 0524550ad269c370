package ui

import (
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nissyi-gh/gantt/internal/calendar"
	"github.com/nissyi-gh/gantt/internal/model"
	"github.com/nissyi-gh/gantt/internal/store"
	"github.com/nissyi-gh/gantt/internal/timeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// With a 120x30 window the chart starts at column 25 and row 3, two cells
// per day in month view.
const (
	chartX = padX + nameWidth + 1
	chartY = padY + headerLines
)

type fixture struct {
	store *store.TaskStore
	model Model
}

func newFixture(t *testing.T, tasks ...model.Task) *fixture {
	t.Helper()
	s, err := store.NewTaskStore(filepath.Join(t.TempDir(), "ui.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	for _, task := range tasks {
		_, err := s.Add(task)
		require.NoError(t, err)
	}

	now := calendar.MustParseISO("2024-02-14")
	f := &fixture{store: s, model: NewModel(s, Options{
		Now:        func() time.Time { return now },
		ExportPath: filepath.Join(t.TempDir(), "out.svg"),
	})}
	f.send(t, tea.WindowSizeMsg{Width: 120, Height: 30})
	f.send(t, f.model.loadTasks())
	return f
}

// send delivers msg and then any follow-up load, as the runtime would.
func (f *fixture) send(t *testing.T, msg tea.Msg) tea.Cmd {
	t.Helper()
	next, cmd := f.model.Update(msg)
	f.model = next.(Model)
	return cmd
}

func (f *fixture) reload(t *testing.T) {
	t.Helper()
	f.send(t, f.model.loadTasks())
}

func (f *fixture) keys(t *testing.T, s string) {
	t.Helper()
	f.send(t, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func mouse(x, y int, action tea.MouseAction, button tea.MouseButton) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: action, Button: button}
}

func feb(name, start, end string) model.Task {
	return model.New(name, calendar.MustParseISO(start), calendar.MustParseISO(end))
}

func TestModel_DragRightHandlePersistsOnRelease(t *testing.T) {
	task := feb("Build", "2024-02-03", "2024-02-05")
	f := newFixture(t, task)

	// right handle is cell 9
	cmd := f.send(t, mouse(chartX+9, chartY, tea.MouseActionPress, tea.MouseButtonLeft))
	assert.NotNil(t, cmd, "capture switches to all-motion")
	assert.True(t, f.model.drag.Status().IsDragging)

	f.send(t, mouse(chartX+13, chartY, tea.MouseActionMotion, tea.MouseButtonLeft))
	assert.Equal(t, calendar.MustParseISO("2024-02-07"), f.model.tasks[0].EndDate)

	stored, err := f.store.GetByID(task.ID)
	require.NoError(t, err)
	assert.Equal(t, calendar.MustParseISO("2024-02-05"), stored.EndDate, "not written until release")

	cmd = f.send(t, mouse(chartX+13, chartY, tea.MouseActionRelease, tea.MouseButtonNone))
	assert.NotNil(t, cmd, "capture released")
	assert.False(t, f.model.drag.Status().IsDragging)

	stored, err = f.store.GetByID(task.ID)
	require.NoError(t, err)
	assert.Equal(t, calendar.MustParseISO("2024-02-03"), stored.StartDate)
	assert.Equal(t, calendar.MustParseISO("2024-02-07"), stored.EndDate)
}

func TestModel_DragBodyMovesTask(t *testing.T) {
	task := feb("Build", "2024-02-03", "2024-02-05")
	f := newFixture(t, task)

	f.send(t, mouse(chartX+6, chartY, tea.MouseActionPress, tea.MouseButtonLeft))
	// past the left edge of the chart
	f.send(t, mouse(chartX-4, chartY, tea.MouseActionMotion, tea.MouseButtonLeft))
	f.send(t, mouse(chartX-4, chartY, tea.MouseActionRelease, tea.MouseButtonNone))

	stored, err := f.store.GetByID(task.ID)
	require.NoError(t, err)
	assert.Equal(t, calendar.MustParseISO("2024-01-29"), stored.StartDate)
	assert.Equal(t, calendar.MustParseISO("2024-01-31"), stored.EndDate)
}

func TestModel_KeysDuringDragAreIgnored(t *testing.T) {
	task := feb("Build", "2024-02-03", "2024-02-05")
	f := newFixture(t, task)

	f.send(t, mouse(chartX+6, chartY, tea.MouseActionPress, tea.MouseButtonLeft))
	f.send(t, mouse(chartX+10, chartY, tea.MouseActionMotion, tea.MouseButtonLeft))
	require.Equal(t, calendar.MustParseISO("2024-02-05"), f.model.tasks[0].StartDate)

	for _, k := range []string{"a", "e", "D", "d", "B", "S"} {
		f.keys(t, k)
		assert.Equal(t, stateChart, f.model.state, "key %q", k)
	}

	cmd := f.send(t, mouse(chartX+10, chartY, tea.MouseActionRelease, tea.MouseButtonNone))
	assert.NotNil(t, cmd, "capture released")
	assert.False(t, f.model.drag.Status().IsDragging)

	stored, err := f.store.GetByID(task.ID)
	require.NoError(t, err)
	assert.Equal(t, calendar.MustParseISO("2024-02-05"), stored.StartDate)
	assert.Equal(t, calendar.MustParseISO("2024-02-07"), stored.EndDate)
}

func TestModel_ViewKeysDuringDragKeepGeometry(t *testing.T) {
	task := feb("Build", "2024-02-03", "2024-02-05")
	f := newFixture(t, task)

	f.send(t, mouse(chartX+6, chartY, tea.MouseActionPress, tea.MouseButtonLeft))
	for _, k := range []string{"y", "l", "]", "J"} {
		f.keys(t, k)
	}
	f.send(t, mouse(chartX+8, chartY, tea.MouseActionMotion, tea.MouseButtonLeft))
	f.send(t, mouse(chartX+8, chartY, tea.MouseActionRelease, tea.MouseButtonNone))

	assert.Equal(t, timeline.ViewMonth, f.model.mode)
	assert.Equal(t, 0, f.model.scroll)

	stored, err := f.store.GetByID(task.ID)
	require.NoError(t, err)
	assert.Equal(t, calendar.MustParseISO("2024-02-04"), stored.StartDate)
	assert.Equal(t, calendar.MustParseISO("2024-02-06"), stored.EndDate)
}

func TestModel_BlockedTaskDoesNotDrag(t *testing.T) {
	task := feb("Build", "2024-02-03", "2024-02-05")
	task.Blocked = true
	f := newFixture(t, task)

	f.send(t, mouse(chartX+6, chartY, tea.MouseActionPress, tea.MouseButtonLeft))
	assert.False(t, f.model.drag.Status().IsDragging)
	assert.Contains(t, f.model.flash, "is blocked")

	f.send(t, mouse(chartX+20, chartY, tea.MouseActionMotion, tea.MouseButtonLeft))
	f.send(t, mouse(chartX+20, chartY, tea.MouseActionRelease, tea.MouseButtonNone))
	stored, err := f.store.GetByID(task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.StartDate, stored.StartDate)
}

func TestModel_PressSelectsRow(t *testing.T) {
	f := newFixture(t, feb("A", "2024-02-03", "2024-02-05"), feb("B", "2024-02-10", "2024-02-12"))

	f.send(t, mouse(5, chartY+1, tea.MouseActionPress, tea.MouseButtonLeft))
	assert.Equal(t, 1, f.model.cursor)
	assert.False(t, f.model.drag.Status().IsDragging)
}

func TestModel_ToggleBlocked(t *testing.T) {
	task := feb("Build", "2024-02-03", "2024-02-05")
	f := newFixture(t, task)

	f.keys(t, "b")
	f.reload(t)

	assert.True(t, f.model.tasks[0].Blocked)
	assert.Contains(t, f.model.View(), "! Build")
}

func TestModel_AddTask(t *testing.T) {
	f := newFixture(t)

	f.keys(t, "a")
	assert.Equal(t, stateAdd, f.model.state)
	f.keys(t, "Design")
	f.send(t, tea.KeyMsg{Type: tea.KeyEnter})
	f.reload(t)

	require.Len(t, f.model.tasks, 1)
	got := f.model.tasks[0]
	assert.Equal(t, "Design", got.Name)
	assert.Equal(t, calendar.MustParseISO("2024-02-14"), got.StartDate)
	assert.Equal(t, calendar.MustParseISO("2024-02-21"), got.EndDate)
}

func TestModel_CheckNextSubtask(t *testing.T) {
	task := feb("Build", "2024-02-03", "2024-02-05")
	task.Subtasks = []model.Subtask{model.NewSubtask("one"), model.NewSubtask("two")}
	f := newFixture(t, task)

	f.keys(t, "x")
	f.reload(t)
	assert.Equal(t, 50, f.model.tasks[0].Progress())

	f.keys(t, "x")
	f.reload(t)
	f.keys(t, "x")
	assert.Equal(t, "no open subtasks", f.model.flash)
}

func TestModel_EditDates(t *testing.T) {
	task := feb("Build", "2024-02-03", "2024-02-05")
	task.Subtasks = []model.Subtask{model.NewSubtask("one")}
	f := newFixture(t, task)

	f.keys(t, "e")
	require.Equal(t, stateDates, f.model.state)
	f.model.end.fields[2].SetValue("20")
	f.send(t, tea.KeyMsg{Type: tea.KeyEnter})
	f.reload(t)

	assert.Equal(t, stateChart, f.model.state)
	assert.Equal(t, calendar.MustParseISO("2024-02-20"), f.model.tasks[0].EndDate)
	assert.Len(t, f.model.tasks[0].Subtasks, 1, "checklist kept")
}

func TestModel_EditDatesRejectsInvertedRange(t *testing.T) {
	task := feb("Build", "2024-02-03", "2024-02-05")
	f := newFixture(t, task)

	f.keys(t, "e")
	f.model.end.fields[2].SetValue("01")
	f.send(t, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, stateDates, f.model.state)
	assert.ErrorIs(t, f.model.err, store.ErrInvalidRange)
}

func TestModel_LinkDependency(t *testing.T) {
	a := feb("A", "2024-02-01", "2024-02-02")
	b := feb("B", "2024-02-05", "2024-02-06")
	f := newFixture(t, a, b)

	f.keys(t, "j")
	f.keys(t, "D")
	require.Equal(t, stateLink, f.model.state)
	f.send(t, tea.KeyMsg{Type: tea.KeyEnter})
	f.send(t, tea.KeyMsg{Type: tea.KeyEsc})
	f.reload(t)

	assert.Equal(t, []string{a.ID}, f.model.tasks[1].DependsOn)
	assert.Contains(t, f.model.View(), "waits for: A (curve)")

	// the reverse edge would close a cycle
	f.keys(t, "k")
	f.keys(t, "D")
	f.send(t, tea.KeyMsg{Type: tea.KeyEnter})
	assert.ErrorIs(t, f.model.err, model.ErrDependencyCycle)
}

func TestModel_DeleteConfirm(t *testing.T) {
	f := newFixture(t, feb("A", "2024-02-01", "2024-02-02"))

	f.keys(t, "d")
	f.keys(t, "n")
	f.reload(t)
	assert.Len(t, f.model.tasks, 1)

	f.keys(t, "d")
	f.keys(t, "y")
	f.reload(t)
	assert.Empty(t, f.model.tasks)
}

func TestModel_Navigation(t *testing.T) {
	f := newFixture(t)

	assert.Contains(t, f.model.View(), "February 2024")
	f.keys(t, "]")
	assert.Contains(t, f.model.View(), "March 2024")
	f.keys(t, "y")
	assert.Contains(t, f.model.View(), "2024 [year]")
	f.keys(t, "[")
	assert.Contains(t, f.model.View(), "2023 [year]")
	f.keys(t, "t")
	f.keys(t, "m")
	assert.Contains(t, f.model.View(), "February 2024")
}

func TestModel_MoveRow(t *testing.T) {
	f := newFixture(t, feb("A", "2024-02-01", "2024-02-02"), feb("B", "2024-02-05", "2024-02-06"))

	f.keys(t, "J")
	f.reload(t)

	assert.Equal(t, "B", f.model.tasks[0].Name)
	assert.Equal(t, "A", f.model.tasks[1].Name)
	assert.Equal(t, 1, f.model.cursor)
}

func TestModel_OverlayViews(t *testing.T) {
	task := feb("Build", "2024-02-10", "2024-02-16")
	task.Subtasks = []model.Subtask{{Name: "one", Completed: true}, {Name: "two"}}
	f := newFixture(t, task)

	f.keys(t, "B")
	assert.Contains(t, f.model.View(), "In Progress (1)")
	f.send(t, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, stateChart, f.model.state)

	f.keys(t, "S")
	view := f.model.View()
	assert.Contains(t, view, "Stats: month")
	assert.Contains(t, view, "due 2 days from now")
}

func TestModel_ExportSVG(t *testing.T) {
	f := newFixture(t, feb("Build", "2024-02-03", "2024-02-05"))

	f.keys(t, "E")

	require.NoError(t, f.model.err)
	assert.FileExists(t, f.model.exportPath)
	assert.Contains(t, f.model.flash, "exported")
}

func TestModel_DetailStatus(t *testing.T) {
	tests := []struct {
		name string
		task model.Task
		want string
	}{
		{"active", feb("Build", "2024-02-10", "2024-02-20"), "in progress"},
		{"upcoming", feb("Ship", "2024-02-20", "2024-02-22"), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.task)
			detail := f.model.renderDetail(f.model.layout().cfg)
			assert.Contains(t, detail, "2024-02")
			if tt.want == "" {
				assert.NotContains(t, detail, "in progress")
				return
			}
			assert.Contains(t, detail, tt.want)
		})
	}
}
