package ui

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/nissyi-gh/gantt/internal/calendar"
	"github.com/nissyi-gh/gantt/internal/drag"
	"github.com/nissyi-gh/gantt/internal/importer"
	"github.com/nissyi-gh/gantt/internal/logging"
	"github.com/nissyi-gh/gantt/internal/model"
	"github.com/nissyi-gh/gantt/internal/prompt"
	"github.com/nissyi-gh/gantt/internal/render"
	"github.com/nissyi-gh/gantt/internal/store"
	"github.com/nissyi-gh/gantt/internal/timeline"
)

type appState int

const (
	stateChart appState = iota
	stateAdd
	stateSubtask
	stateDates
	stateLink
	stateConfirm
	stateBoard
	stateStats
)

var (
	appStyle     = lipgloss.NewStyle().Padding(padY, padX)
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("170")).Bold(true)
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	confirmStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
)

// Screen layout around the chart.
const (
	padY        = 1
	padX        = 2
	nameWidth   = 22
	headerLines = 2 // title, column labels
	footerLines = 4 // blank, detail, help, error
)

type keyMap struct {
	Up, Down       key.Binding
	MoveUp         key.Binding
	MoveDown       key.Binding
	ScrollLeft     key.Binding
	ScrollRight    key.Binding
	Prev, Next     key.Binding
	Today          key.Binding
	Month, Year    key.Binding
	Add            key.Binding
	Subtask        key.Binding
	Check          key.Binding
	Dates          key.Binding
	Block          key.Binding
	Link           key.Binding
	Delete         key.Binding
	Board, Stats   key.Binding
	CopyYAML       key.Binding
	CopyPrompt     key.Binding
	CopyPlanPrompt key.Binding
	Export         key.Binding
	Quit           key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up:             key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k", "up")),
		Down:           key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j", "down")),
		MoveUp:         key.NewBinding(key.WithKeys("K"), key.WithHelp("K", "move up")),
		MoveDown:       key.NewBinding(key.WithKeys("J"), key.WithHelp("J", "move down")),
		ScrollLeft:     key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "scroll")),
		ScrollRight:    key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "scroll")),
		Prev:           key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev")),
		Next:           key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next")),
		Today:          key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "today")),
		Month:          key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "month")),
		Year:           key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "year")),
		Add:            key.NewBinding(key.WithKeys("a", "n"), key.WithHelp("a/n", "add")),
		Subtask:        key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "subtask")),
		Check:          key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "check")),
		Dates:          key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "dates")),
		Block:          key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "block")),
		Link:           key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "depends on")),
		Delete:         key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Board:          key.NewBinding(key.WithKeys("B"), key.WithHelp("B", "board")),
		Stats:          key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "stats")),
		CopyYAML:       key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy yaml")),
		CopyPrompt:     key.NewBinding(key.WithKeys("P"), key.WithHelp("P", "task prompt")),
		CopyPlanPrompt: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "plan prompt")),
		Export:         key.NewBinding(key.WithKeys("E"), key.WithHelp("E", "export svg")),
		Quit:           key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Dates, k.Link, k.Month, k.Year, k.Prev, k.Next, k.Board, k.Stats, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.MoveUp, k.MoveDown, k.ScrollLeft, k.ScrollRight},
		{k.Prev, k.Next, k.Today, k.Month, k.Year},
		{k.Add, k.Subtask, k.Check, k.Dates, k.Block, k.Link, k.Delete},
		{k.Board, k.Stats, k.CopyYAML, k.CopyPrompt, k.CopyPlanPrompt, k.Export, k.Quit},
	}
}

// Options configures a Model.
type Options struct {
	View       timeline.ViewMode
	RowHeight  int
	Render     render.Options
	ExportPath string
	Logger     *slog.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// dragSink receives the machine's updates; the Model applies them after each
// pointer event.
type dragSink struct {
	task model.Task
	ok   bool
}

// Model is the top-level BubbleTea model for the Gantt TUI.
type Model struct {
	state  appState
	store  *store.TaskStore
	logger *slog.Logger
	now    func() time.Time

	tasks  []model.Task
	cursor int
	mode   timeline.ViewMode
	ref    time.Time
	scroll int
	rowOff int
	width  int
	height int

	rowHeight  int
	renderOpts render.Options
	exportPath string

	drag    *drag.Machine
	capture *mouseCapture
	sink    *dragSink

	input       textinput.Model
	start       dateInput
	end         dateInput
	onEnd       bool
	picker      list.Model
	statsPreset int

	keys  keyMap
	help  help.Model
	flash string
	err   error
}

type tasksLoadedMsg []model.Task
type errMsg struct{ error }

// NewModel creates a new TUI model.
func NewModel(s *store.TaskStore, opts Options) Model {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.View == "" {
		opts.View = timeline.ViewMonth
	}
	if opts.RowHeight <= 0 {
		opts.RowHeight = timeline.DefaultRowHeight
	}
	if opts.ExportPath == "" {
		opts.ExportPath = "gantt.svg"
	}
	if opts.Render.Layout.RowHeight == 0 {
		opts.Render = render.DefaultOptions()
	}

	ti := textinput.New()
	ti.CharLimit = 256

	delegate := list.NewDefaultDelegate()
	picker := list.New(nil, delegate, 0, 0)
	picker.Styles.Title = titleStyle
	picker.SetFilteringEnabled(true)
	picker.SetStatusBarItemName("task", "tasks")

	sink := &dragSink{}
	capture := &mouseCapture{}
	machine := drag.NewMachine(func(t model.Task) {
		sink.task, sink.ok = t, true
	}, capture, opts.Logger)

	return Model{
		state:      stateChart,
		store:      s,
		logger:     opts.Logger,
		now:        opts.Now,
		mode:       opts.View,
		ref:        calendar.DateOf(opts.Now()),
		rowHeight:  opts.RowHeight,
		renderOpts: opts.Render,
		exportPath: opts.ExportPath,
		drag:       machine,
		capture:    capture,
		sink:       sink,
		input:      ti,
		start:      newDateInput("start"),
		end:        newDateInput("end"),
		picker:     picker,
		keys:       newKeyMap(),
		help:       help.New(),
	}
}

func (m Model) Init() tea.Cmd {
	return m.loadTasks
}

func (m Model) loadTasks() tea.Msg {
	tasks, err := m.store.List()
	if err != nil {
		return errMsg{err}
	}
	return tasksLoadedMsg(tasks)
}

// selected returns the task under the cursor.
func (m Model) selected() (model.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.tasks) {
		return model.Task{}, false
	}
	return m.tasks[m.cursor], true
}

// layout maps the current window size and scroll position onto the chart.
func (m Model) layout() grid {
	cfg := timeline.Build(m.ref, m.mode)
	cells := m.width - 2*padX - nameWidth - 1
	rows := m.height - 2*padY - headerLines - footerLines
	g := newGrid(cfg, padX+nameWidth+1, padY+headerLines, cells, rows)
	g.scroll = max(0, min(m.scroll, g.maxScroll()))
	g.rowOff = m.rowOff
	return g
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		h, v := appStyle.GetFrameSize()
		m.picker.SetSize((msg.Width-h)*60/100, msg.Height-v-2)
		m.help.Width = msg.Width - h
		m.follow()
		return m, nil

	case tasksLoadedMsg:
		m.tasks = []model.Task(msg)
		m.cursor = max(0, min(m.cursor, len(m.tasks)-1))
		m.follow()
		return m, nil

	case errMsg:
		m.err = msg.error
		return m, nil
	}

	if m.drag.Status().IsDragging {
		return m.updateDragging(msg)
	}

	switch m.state {
	case stateChart:
		return m.updateChart(msg)
	case stateAdd, stateSubtask:
		return m.updateName(msg)
	case stateDates:
		return m.updateDates(msg)
	case stateLink:
		return m.updateLink(msg)
	case stateConfirm:
		return m.updateConfirm(msg)
	case stateBoard, stateStats:
		return m.updateOverlay(msg)
	}

	return m, nil
}

// follow scrolls rows so the cursor stays visible.
func (m *Model) follow() {
	g := m.layout()
	if m.cursor < m.rowOff {
		m.rowOff = m.cursor
	}
	if m.cursor >= m.rowOff+g.rows {
		m.rowOff = m.cursor - g.rows + 1
	}
	m.rowOff = max(0, m.rowOff)
}

func (m *Model) moveCursor(delta int) {
	if len(m.tasks) == 0 {
		return
	}
	m.cursor = max(0, min(m.cursor+delta, len(m.tasks)-1))
	m.follow()
}

// jumpTo moves the window so day d is visible.
func (m *Model) jumpTo(d time.Time) {
	m.ref = calendar.DateOf(d)
	g := m.layout()
	g.scroll = 0
	m.scroll = g.scrollTo(g.cellOf(g.cfg.OffsetOf(m.ref)))
}

func (m Model) updateChart(msg tea.Msg) (tea.Model, tea.Cmd) {
	if mouse, ok := msg.(tea.MouseMsg); ok {
		return m.updateMouse(mouse)
	}
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	m.flash = ""
	g := m.layout()
	task, hasTask := m.selected()

	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(keyMsg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(keyMsg, m.keys.ScrollLeft):
		m.scroll = max(0, g.scroll-max(1, g.cells/4))
	case key.Matches(keyMsg, m.keys.ScrollRight):
		m.scroll = min(g.maxScroll(), g.scroll+max(1, g.cells/4))
	case key.Matches(keyMsg, m.keys.Prev):
		m.ref = timeline.Navigate(m.ref, m.mode, -1)
		m.scroll = 0
	case key.Matches(keyMsg, m.keys.Next):
		m.ref = timeline.Navigate(m.ref, m.mode, 1)
		m.scroll = 0
	case key.Matches(keyMsg, m.keys.Today):
		m.jumpTo(m.now())
	case key.Matches(keyMsg, m.keys.Month):
		m.mode = timeline.ViewMonth
		m.jumpTo(m.ref)
	case key.Matches(keyMsg, m.keys.Year):
		m.mode = timeline.ViewYear
		m.jumpTo(m.ref)
	case key.Matches(keyMsg, m.keys.Add):
		m.state = stateAdd
		m.input.Reset()
		m.input.Placeholder = "Task name..."
		cmd := m.input.Focus()
		return m, cmd
	case key.Matches(keyMsg, m.keys.Board):
		m.state = stateBoard
	case key.Matches(keyMsg, m.keys.Stats):
		m.state = stateStats
	case key.Matches(keyMsg, m.keys.CopyPlanPrompt):
		m.copy("plan prompt", prompt.GenerateNew())
	case key.Matches(keyMsg, m.keys.Export):
		m.exportSVG(g)
	}
	if !hasTask {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.MoveUp), key.Matches(keyMsg, m.keys.MoveDown):
		offset := 1
		if key.Matches(keyMsg, m.keys.MoveUp) {
			offset = -1
		}
		if err := m.store.Move(task.ID, offset); err != nil {
			m.err = err
			return m, nil
		}
		m.moveCursor(offset)
		return m, m.loadTasks
	case key.Matches(keyMsg, m.keys.Subtask):
		m.state = stateSubtask
		m.input.Reset()
		m.input.Placeholder = "Subtask name..."
		cmd := m.input.Focus()
		return m, cmd
	case key.Matches(keyMsg, m.keys.Check):
		for _, st := range task.Subtasks {
			if !st.Completed {
				if err := m.store.ToggleSubtask(st.ID); err != nil {
					m.err = err
					return m, nil
				}
				return m, m.loadTasks
			}
		}
		m.flash = "no open subtasks"
	case key.Matches(keyMsg, m.keys.Dates):
		m.state = stateDates
		m.start.SetDate(task.StartDate)
		m.end.SetDate(task.EndDate)
		m.onEnd = false
		m.end.Blur()
		cmd := m.start.Focus()
		return m, cmd
	case key.Matches(keyMsg, m.keys.Block):
		if err := m.store.SetBlocked(task.ID, !task.Blocked); err != nil {
			m.err = err
			return m, nil
		}
		return m, m.loadTasks
	case key.Matches(keyMsg, m.keys.Link):
		m.state = stateLink
		m.fillPicker(task)
	case key.Matches(keyMsg, m.keys.Delete):
		m.state = stateConfirm
	case key.Matches(keyMsg, m.keys.CopyYAML):
		out, err := importer.Export([]model.Task{task})
		if err != nil {
			m.err = err
			return m, nil
		}
		m.copy("task yaml", string(out))
	case key.Matches(keyMsg, m.keys.CopyPrompt):
		m.copy("task prompt", prompt.GenerateFromTask(task, m.tasks))
	}
	return m, nil
}

func (m *Model) copy(what, text string) {
	if err := clipboard.WriteAll(text); err != nil {
		m.err = fmt.Errorf("copy %s: %w", what, err)
		return
	}
	m.flash = "copied " + what
}

func (m *Model) exportSVG(g grid) {
	start := time.Now()
	f, err := os.Create(m.exportPath)
	if err != nil {
		m.err = fmt.Errorf("export svg: %w", err)
		return
	}
	opts := m.renderOpts
	opts.Today = m.now()
	if err := render.SVG(f, m.tasks, g.cfg, opts); err != nil {
		f.Close()
		m.err = fmt.Errorf("export svg: %w", err)
		return
	}
	if err := f.Close(); err != nil {
		m.err = fmt.Errorf("export svg: %w", err)
		return
	}
	logging.LogDuration(m.logger, "export svg", start)
	m.flash = "exported " + m.exportPath
}
