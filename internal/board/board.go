// Package board groups tasks into Kanban columns by progress.
package board

import "github.com/nissyi-gh/gantt/internal/model"

// Status is a Kanban column.
type Status int

const (
	ToDo Status = iota
	InProgress
	Completed
)

func (s Status) String() string {
	switch s {
	case InProgress:
		return "In Progress"
	case Completed:
		return "Completed"
	}
	return "To Do"
}

// Column holds the tasks of one status in chart order.
type Column struct {
	Status Status
	Tasks  []model.Task
}

// StatusOf classifies a task by subtask progress.
func StatusOf(t model.Task) Status {
	switch p := t.Progress(); {
	case p >= 100:
		return Completed
	case p > 0:
		return InProgress
	}
	return ToDo
}

// Group always returns the three columns, possibly empty.
func Group(tasks []model.Task) []Column {
	cols := []Column{{Status: ToDo}, {Status: InProgress}, {Status: Completed}}
	for _, t := range tasks {
		s := StatusOf(t)
		cols[s].Tasks = append(cols[s].Tasks, t)
	}
	return cols
}
