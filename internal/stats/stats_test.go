package stats

import (
	"testing"

	"github.com/nissyi-gh/gantt/internal/calendar"
	"github.com/nissyi-gh/gantt/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mk(id, start, end string, done, total int) model.Task {
	t := model.Task{
		ID:        id,
		Name:      id,
		StartDate: calendar.MustParseISO(start),
		EndDate:   calendar.MustParseISO(end),
		Color:     model.ColorBlue,
	}
	for i := 0; i < total; i++ {
		t.Subtasks = append(t.Subtasks, model.Subtask{Completed: i < done})
	}
	return t
}

func names(tasks []model.Task) []string {
	var out []string
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func TestCompute(t *testing.T) {
	now := calendar.MustParseISO("2024-06-10")
	green := mk("green", "2024-06-01", "2024-06-03", 1, 2)
	green.Color = model.ColorGreen
	custom := mk("custom", "2024-06-12", "2024-06-15", 0, 0)
	custom.CustomColor = "#123456"

	tasks := []model.Task{
		mk("outside", "2024-01-01", "2024-01-31", 0, 0),
		green,
		mk("done", "2024-05-25", "2024-06-05", 3, 3),
		mk("late", "2024-06-01", "2024-06-09", 0, 1),
		mk("soon", "2024-06-08", "2024-06-17", 1, 4),
		custom,
	}

	s := Compute(tasks, calendar.MustParseISO("2024-06-01"), calendar.MustParseISO("2024-06-30"), now)

	assert.Equal(t, []string{"green", "done", "late", "soon", "custom"}, names(s.Tasks))
	assert.Equal(t, 5, s.Total)
	assert.Equal(t, 1, s.Completed)
	assert.Equal(t, 2, s.InProgress)
	assert.Equal(t, 2, s.NotStarted)
	assert.Equal(t, 10, s.Subtasks)
	assert.Equal(t, 5, s.CompletedSubtasks)
	// (50 + 100 + 0 + 25 + 0) / 5
	assert.Equal(t, 35, s.AverageProgress)
	// (3 + 12 + 9 + 10 + 4) / 5
	assert.Equal(t, 8, s.AverageDuration)

	assert.Equal(t, []ColorCount{{"blue", 3}, {"#123456", 1}, {"green", 1}}, s.ByColor)
	assert.Equal(t, []string{"soon", "done", "green", "late", "custom"}, names(s.MostSubtasks))
	assert.Equal(t, []string{"done", "soon", "late", "custom", "green"}, names(s.Longest))

	assert.Equal(t, []string{"green", "late"}, names(s.Overdue))
	assert.Equal(t, []string{"custom", "soon"}, names(s.DueSoon))
}

func TestCompute_Empty(t *testing.T) {
	s := Compute(nil, calendar.MustParseISO("2024-06-01"), calendar.MustParseISO("2024-06-30"),
		calendar.MustParseISO("2024-06-10"))

	assert.Zero(t, s.Total)
	assert.Zero(t, s.AverageProgress)
	assert.Empty(t, s.ByColor)
}

func TestCompute_TopIsCapped(t *testing.T) {
	var tasks []model.Task
	for i := 0; i < 8; i++ {
		tasks = append(tasks, mk(string(rune('a'+i)), "2024-06-01", "2024-06-02", 0, i))
	}

	s := Compute(tasks, calendar.MustParseISO("2024-06-01"), calendar.MustParseISO("2024-06-30"),
		calendar.MustParseISO("2024-06-01"))

	require.Len(t, s.MostSubtasks, TopN)
	assert.Equal(t, "h", s.MostSubtasks[0].ID)
	assert.Len(t, s.Longest, TopN)
}

func TestPreset(t *testing.T) {
	now := calendar.MustParseISO("2024-03-31")

	tests := []struct {
		name string
		from string
	}{
		{"week", "2024-03-24"},
		{"month", "2024-03-02"},
		{"quarter", "2023-12-31"},
		{"year", "2023-03-31"},
		{"all", "2020-01-01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to, err := Preset(tt.name, now)
			require.NoError(t, err)
			assert.Equal(t, tt.from, calendar.FormatISO(from))
			assert.Equal(t, "2024-03-31", calendar.FormatISO(to))
		})
	}

	_, _, err := Preset("decade", now)
	assert.Error(t, err)
}
