package model

import (
	"testing"
	"time"

	"github.com/nissyi-gh/gantt/internal/calendar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time { return calendar.MustParseISO(s) }

func TestNew(t *testing.T) {
	start := time.Date(2024, time.March, 4, 15, 0, 0, 0, time.Local)
	task := New("Design", start, day("2024-03-08"))

	assert.NotEmpty(t, task.ID)
	assert.Equal(t, "Design", task.Name)
	assert.Equal(t, day("2024-03-04"), task.StartDate)
	assert.Equal(t, ColorBlue, task.Color)
	assert.Equal(t, 5, task.Duration())
}

func TestNew_ClampsInvertedRange(t *testing.T) {
	task := New("Backwards", day("2024-03-10"), day("2024-03-01"))

	assert.Equal(t, task.StartDate, task.EndDate)
	assert.Equal(t, 1, task.Duration())
}

func TestProgress(t *testing.T) {
	tests := []struct {
		name     string
		subtasks []Subtask
		want     int
	}{
		{"none", nil, 0},
		{"one of three", []Subtask{{Completed: true}, {}, {}}, 33},
		{"two of three", []Subtask{{Completed: true}, {Completed: true}, {}}, 67},
		{"all", []Subtask{{Completed: true}, {Completed: true}}, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := Task{Subtasks: tt.subtasks}
			assert.Equal(t, tt.want, task.Progress())
		})
	}
}

func TestWithDates_DoesNotAlias(t *testing.T) {
	orig := New("A", day("2024-01-01"), day("2024-01-03"))
	orig.DependsOn = []string{"x"}

	moved := orig.WithDates(day("2024-01-05"), day("2024-01-07"))
	moved.DependsOn[0] = "y"

	assert.Equal(t, orig.ID, moved.ID)
	assert.Equal(t, "x", orig.DependsOn[0])
	assert.Equal(t, day("2024-01-01"), orig.StartDate)
}

func TestDeadlines(t *testing.T) {
	now := time.Date(2024, time.May, 10, 12, 0, 0, 0, time.Local)
	past := New("past", day("2024-05-01"), day("2024-05-09"))
	soon := New("soon", day("2024-05-01"), day("2024-05-14"))
	done := past
	done.Subtasks = []Subtask{{Completed: true}}

	assert.True(t, past.IsOverdue(now))
	assert.False(t, done.IsOverdue(now))
	assert.True(t, soon.IsDueSoon(now, 7))
	assert.False(t, soon.IsDueSoon(now, 3))
	assert.True(t, soon.IsActive(now))
	assert.False(t, past.IsActive(now))
}

func TestFill(t *testing.T) {
	task := Task{Color: ColorGreen}
	assert.Equal(t, palette[ColorGreen], task.Fill())

	task.CustomColor = "#000000"
	fill := task.Fill()
	assert.Equal(t, "#000000", fill.Progress)
	assert.Equal(t, "#d8d8d8", fill.Background)

	task.CustomColor = "nope"
	assert.Equal(t, palette[ColorGreen], task.Fill())
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor(" Teal ")
	require.NoError(t, err)
	assert.Equal(t, ColorTeal, c)

	_, err = ParseColor("mauve")
	assert.Error(t, err)
}
