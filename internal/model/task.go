package model

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/nissyi-gh/gantt/internal/calendar"
)

// Subtask is a checklist item inside a task. Subtasks drive the progress fill.
type Subtask struct {
	ID        string
	Name      string
	Completed bool
	Comment   string
}

// Task is one row of the chart.
type Task struct {
	ID          string
	Name        string
	StartDate   time.Time
	EndDate     time.Time
	Color       Color
	CustomColor string
	DependsOn   []string
	Blocked     bool
	Subtasks    []Subtask
}

// New creates a task with a fresh id. Dates are normalized to midnight and an
// inverted range is clamped to a single day at start.
func New(name string, start, end time.Time) Task {
	start, end = calendar.DateOf(start), calendar.DateOf(end)
	if end.Before(start) {
		end = start
	}
	return Task{
		ID:        uuid.NewString(),
		Name:      name,
		StartDate: start,
		EndDate:   end,
		Color:     ColorBlue,
	}
}

// NewSubtask creates an open subtask with a fresh id.
func NewSubtask(name string) Subtask {
	return Subtask{ID: uuid.NewString(), Name: name}
}

// Clone returns a deep copy.
func (t Task) Clone() Task {
	c := t
	if t.DependsOn != nil {
		c.DependsOn = append([]string(nil), t.DependsOn...)
	}
	if t.Subtasks != nil {
		c.Subtasks = append([]Subtask(nil), t.Subtasks...)
	}
	return c
}

// WithDates returns a copy of t with the given dates and the same id.
func (t Task) WithDates(start, end time.Time) Task {
	c := t.Clone()
	c.StartDate = start
	c.EndDate = end
	return c
}

// Progress returns the percentage of completed subtasks, 0 when there are none.
func (t Task) Progress() int {
	if len(t.Subtasks) == 0 {
		return 0
	}
	done := 0
	for _, s := range t.Subtasks {
		if s.Completed {
			done++
		}
	}
	return int(math.Round(float64(done) / float64(len(t.Subtasks)) * 100))
}

// IsComplete returns true when every subtask is done.
func (t Task) IsComplete() bool {
	return t.Progress() == 100
}

// Duration returns the inclusive day count of the task.
func (t Task) Duration() int {
	return calendar.DaysBetween(t.StartDate, t.EndDate) + 1
}

// DependsOnID reports whether id is one of t's upstream tasks.
func (t Task) DependsOnID(id string) bool {
	for _, dep := range t.DependsOn {
		if dep == id {
			return true
		}
	}
	return false
}

// IsOverdue returns true if the task ended before today and is not complete.
func (t Task) IsOverdue(now time.Time) bool {
	if t.IsComplete() {
		return false
	}
	return calendar.DaysBetween(now, t.EndDate) < 0
}

// IsDueSoon returns true if the task ends within the next days days
// (today included) and is not complete.
func (t Task) IsDueSoon(now time.Time, days int) bool {
	if t.IsComplete() {
		return false
	}
	left := calendar.DaysBetween(now, t.EndDate)
	return left >= 0 && left <= days
}

// IsActive returns true if the task spans now.
func (t Task) IsActive(now time.Time) bool {
	return calendar.DaysBetween(t.StartDate, now) >= 0 && calendar.DaysBetween(now, t.EndDate) >= 0
}
