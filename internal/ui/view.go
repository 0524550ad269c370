package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
	"github.com/nissyi-gh/gantt/internal/board"
	"github.com/nissyi-gh/gantt/internal/calendar"
	"github.com/nissyi-gh/gantt/internal/model"
	"github.com/nissyi-gh/gantt/internal/route"
	"github.com/nissyi-gh/gantt/internal/stats"
	"github.com/nissyi-gh/gantt/internal/timeline"
)

var (
	columnStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("241"))
	sectionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	chainStyle   = lipgloss.NewStyle().
			Padding(1, 2).
			BorderLeft(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("241"))
)

func (m Model) View() string {
	var errView string
	if m.err != nil {
		errView = "\n" + errorStyle.Render("Error: "+m.err.Error())
	}

	switch m.state {
	case stateAdd, stateSubtask:
		header := "New Task"
		if m.state == stateSubtask {
			task, _ := m.selected()
			header = "New Subtask for " + task.Name
		}
		return appStyle.Render(
			titleStyle.Render(header) + "\n\n" +
				m.input.View() + "\n\n" +
				statusStyle.Render("enter: save • esc: cancel") +
				errView,
		)
	case stateDates:
		task, _ := m.selected()
		return appStyle.Render(
			titleStyle.Render("Dates: "+task.Name) + "\n\n" +
				m.start.View() + "\n" +
				m.end.View() + "\n\n" +
				statusStyle.Render("tab/→: next field • enter: save • esc: cancel") +
				errView,
		)
	case stateLink:
		task, _ := m.selected()
		content := lipgloss.JoinHorizontal(lipgloss.Top, m.picker.View(), chainStyle.Render(RenderChain(m.tasks, task.ID)))
		return appStyle.Render(
			content + "\n" +
				statusStyle.Render("enter: toggle • /: filter • esc: done") +
				errView,
		)
	case stateConfirm:
		task, _ := m.selected()
		msg := task.Name
		if n := len(task.Subtasks); n > 0 {
			msg = fmt.Sprintf("%s\n  (%d subtasks are deleted too)", task.Name, n)
		}
		return appStyle.Render(
			confirmStyle.Render("Delete Task?") + "\n\n" +
				"  " + msg + "\n\n" +
				statusStyle.Render("y: delete • n/esc: cancel") +
				errView,
		)
	case stateBoard:
		h, _ := appStyle.GetFrameSize()
		return appStyle.Render(
			titleStyle.Render("Board") + "\n\n" +
				RenderBoard(board.Group(m.tasks), m.width-h) + "\n" +
				statusStyle.Render("esc: back"),
		)
	case stateStats:
		now := m.now()
		name := statsPresets[m.statsPreset]
		from, to, err := stats.Preset(name, now)
		if err != nil {
			return appStyle.Render(errorStyle.Render(err.Error()))
		}
		return appStyle.Render(
			titleStyle.Render("Stats: "+name) + "\n\n" +
				RenderStats(stats.Compute(m.tasks, from, to, now), now) + "\n" +
				statusStyle.Render("tab: range • esc: back"),
		)
	}
	return appStyle.Render(m.renderChart() + errView)
}

func (m Model) renderChart() string {
	g := m.layout()
	now := m.now()
	status := m.drag.Status()

	var b strings.Builder
	b.WriteString(titleStyle.Render("gantt") + "  " + timeline.HeaderLabel(m.ref, m.mode) +
		statusStyle.Render(" ["+string(m.mode)+"]") + "\n")
	b.WriteString(strings.Repeat(" ", nameWidth+1) + headerStyle.Render(string(g.headerCells())) + "\n")

	for i := range g.rows {
		r := g.rowOff + i
		if r >= len(m.tasks) {
			b.WriteString("\n")
			continue
		}
		task := m.tasks[r]
		b.WriteString(nameCell(task, r == m.cursor) + " ")
		b.WriteString(drawCells(g.rowCells(task, r, now, status), task.Fill()) + "\n")
	}

	b.WriteString("\n" + m.renderDetail(g.cfg) + "\n")
	b.WriteString(m.help.View(m.keys))
	if m.flash != "" {
		b.WriteString("\n" + statusStyle.Render(m.flash))
	}
	return b.String()
}

// nameCell is the fixed-width name column of a row.
func nameCell(task model.Task, selected bool) string {
	prefix := "  "
	if selected {
		prefix = "> "
	}
	name := task.Name
	if task.Blocked {
		name = "! " + name
	}
	name = runewidth.FillRight(runewidth.Truncate(name, nameWidth-2, "…"), nameWidth-2)
	switch {
	case selected:
		return cursorStyle.Render(prefix + name)
	case task.Blocked:
		return blockedStyle.Render(prefix + name)
	}
	return prefix + name
}

// renderDetail summarises the selected task and the arrows entering it.
func (m Model) renderDetail(cfg timeline.Config) string {
	task, ok := m.selected()
	if !ok {
		return statusStyle.Render("no tasks yet, press a to add one")
	}

	line := fmt.Sprintf("%s  %s → %s (%s)  %d%%",
		task.Name,
		calendar.FormatISO(task.StartDate),
		calendar.FormatISO(task.EndDate),
		dayCount(task.Duration()),
		task.Progress(),
	)
	switch {
	case task.Blocked:
		line += "  " + blockedStyle.Render("blocked")
	case task.IsComplete():
		line += "  " + statusStyle.Render("done")
	case task.IsActive(m.now()):
		line += "  " + todayStyle.Render("in progress")
	}

	names := make(map[string]string, len(m.tasks))
	for _, t := range m.tasks {
		names[t.ID] = t.Name
	}
	var waits []string
	for _, a := range route.Arrows(m.tasks, cfg, route.DefaultOptions(m.rowHeight)) {
		if a.ToID == task.ID {
			waits = append(waits, fmt.Sprintf("%s (%s)", names[a.FromID], a.Shape))
		}
	}
	if len(waits) > 0 {
		line += statusStyle.Render("  waits for: " + strings.Join(waits, ", "))
	}
	return line
}

// RenderChain draws everything rootID waits for as a tree.
func RenderChain(tasks []model.Task, rootID string) string {
	lines := BuildChain(tasks, rootID)
	if len(lines) == 0 {
		return ""
	}
	out := make([]string, 0, len(lines))
	for i, l := range lines {
		text := l.Prefix + l.Task.Name
		switch {
		case i == 0:
			text = sectionStyle.Render(text)
		case l.Repeat:
			text += errorStyle.Render(" (cycle)")
		case l.Task.IsComplete():
			text += statusStyle.Render(" ✓")
		}
		out = append(out, text)
	}
	return strings.Join(out, "\n")
}

func dayCount(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}

// RenderBoard lays the columns side by side within width.
func RenderBoard(cols []board.Column, width int) string {
	colWidth := max(20, width/len(cols)-4)
	var rendered []string
	for _, col := range cols {
		lines := []string{sectionStyle.Render(fmt.Sprintf("%s (%d)", col.Status, len(col.Tasks)))}
		for _, t := range col.Tasks {
			name := runewidth.Truncate(t.Name, colWidth-6, "…")
			fill := t.Fill()
			swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(fill.Border)).Render("■")
			lines = append(lines, fmt.Sprintf("%s %s %3d%%", swatch, name, t.Progress()))
		}
		rendered = append(rendered, columnStyle.Width(colWidth).Render(strings.Join(lines, "\n")))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

// RenderStats formats a summary. Deadlines are relative to now.
func RenderStats(s stats.Summary, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s → %s\n\n", calendar.FormatISO(s.From), calendar.FormatISO(s.To))
	if s.Total == 0 {
		b.WriteString(statusStyle.Render("no tasks in range") + "\n")
		return b.String()
	}

	fmt.Fprintf(&b, "tasks      %d (%d done, %d in progress, %d not started)\n",
		s.Total, s.Completed, s.InProgress, s.NotStarted)
	fmt.Fprintf(&b, "subtasks   %d/%d done\n", s.CompletedSubtasks, s.Subtasks)
	fmt.Fprintf(&b, "progress   %d%% on average\n", s.AverageProgress)
	fmt.Fprintf(&b, "duration   %s on average\n", dayCount(s.AverageDuration))

	b.WriteString("\n" + sectionStyle.Render("By colour") + "\n")
	for _, c := range s.ByColor {
		fmt.Fprintf(&b, "  %-8s %d\n", c.Key, c.Count)
	}

	writeList := func(title string, tasks []model.Task, detail func(model.Task) string) {
		if len(tasks) == 0 {
			return
		}
		b.WriteString("\n" + sectionStyle.Render(title) + "\n")
		for _, t := range tasks {
			fmt.Fprintf(&b, "  %s  %s\n", t.Name, statusStyle.Render(detail(t)))
		}
	}
	today := calendar.DateOf(now)
	deadline := func(t model.Task) string {
		if calendar.IsSameDay(t.EndDate, today) {
			return "due today"
		}
		return "due " + humanize.RelTime(t.EndDate, today, "ago", "from now")
	}
	writeList("Most subtasks", s.MostSubtasks, func(t model.Task) string {
		return humanize.Comma(int64(len(t.Subtasks))) + " subtasks"
	})
	writeList("Longest", s.Longest, func(t model.Task) string { return dayCount(t.Duration()) })
	writeList("Due soon", s.DueSoon, deadline)
	writeList("Overdue", s.Overdue, deadline)
	return b.String()
}
