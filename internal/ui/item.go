package ui

import (
	"fmt"

	"github.com/nissyi-gh/gantt/internal/calendar"
	"github.com/nissyi-gh/gantt/internal/model"
)

// TaskItem wraps model.Task to satisfy the list.DefaultItem interface in the
// dependency picker.
type TaskItem struct {
	Task model.Task
	// Linked marks tasks the task being edited already waits for.
	Linked bool
}

func (i TaskItem) Title() string {
	check := "[ ]"
	if i.Linked {
		check = "[x]"
	}
	blocked := ""
	if i.Task.Blocked {
		blocked = "! "
	}
	return fmt.Sprintf("%s %s%s", check, blocked, i.Task.Name)
}

func (i TaskItem) Description() string {
	return fmt.Sprintf("%s → %s", calendar.FormatShort(i.Task.StartDate), calendar.FormatShort(i.Task.EndDate))
}

func (i TaskItem) FilterValue() string {
	return i.Task.Name
}
