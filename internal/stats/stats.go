// Package stats aggregates the chart over a date range for the statistics view.
package stats

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/nissyi-gh/gantt/internal/calendar"
	"github.com/nissyi-gh/gantt/internal/model"
)

const (
	// TopN is the length of the ranked lists.
	TopN = 5
	// DeadlineWindow is how many days ahead counts as an upcoming deadline.
	DeadlineWindow = 7
)

// ColorCount is how many tasks share a colour key.
type ColorCount struct {
	Key   string
	Count int
}

// Summary is the statistics of the tasks overlapping a range.
type Summary struct {
	From, To time.Time
	Tasks    []model.Task

	Total      int
	Completed  int
	InProgress int
	NotStarted int

	Subtasks          int
	CompletedSubtasks int
	AverageProgress   int
	AverageDuration   int

	ByColor      []ColorCount
	MostSubtasks []model.Task
	Longest      []model.Task
	DueSoon      []model.Task
	Overdue      []model.Task
}

// Compute builds the summary of tasks overlapping [from, to]. now anchors the
// deadline lists.
func Compute(tasks []model.Task, from, to, now time.Time) Summary {
	s := Summary{From: calendar.DateOf(from), To: calendar.DateOf(to)}
	for _, t := range tasks {
		if calendar.DaysBetween(t.StartDate, s.To) >= 0 && calendar.DaysBetween(s.From, t.EndDate) >= 0 {
			s.Tasks = append(s.Tasks, t)
		}
	}
	s.Total = len(s.Tasks)
	if s.Total == 0 {
		return s
	}

	colors := map[string]int{}
	progress, duration := 0, 0
	for _, t := range s.Tasks {
		p := t.Progress()
		switch {
		case p == 100:
			s.Completed++
		case p > 0:
			s.InProgress++
		default:
			s.NotStarted++
		}
		progress += p
		duration += t.Duration()

		s.Subtasks += len(t.Subtasks)
		for _, st := range t.Subtasks {
			if st.Completed {
				s.CompletedSubtasks++
			}
		}
		colors[t.ColorKey()]++

		if t.IsOverdue(now) {
			s.Overdue = append(s.Overdue, t)
		} else if t.IsDueSoon(now, DeadlineWindow) {
			s.DueSoon = append(s.DueSoon, t)
		}
	}
	s.AverageProgress = int(math.Round(float64(progress) / float64(s.Total)))
	s.AverageDuration = int(math.Round(float64(duration) / float64(s.Total)))

	for k, n := range colors {
		s.ByColor = append(s.ByColor, ColorCount{Key: k, Count: n})
	}
	slices.SortFunc(s.ByColor, func(a, b ColorCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Key, b.Key)
	})

	s.MostSubtasks = top(s.Tasks, func(a, b model.Task) int {
		return cmp.Compare(len(b.Subtasks), len(a.Subtasks))
	})
	s.Longest = top(s.Tasks, func(a, b model.Task) int {
		return cmp.Compare(b.Duration(), a.Duration())
	})
	slices.SortStableFunc(s.DueSoon, func(a, b model.Task) int {
		return a.EndDate.Compare(b.EndDate)
	})
	return s
}

func top(tasks []model.Task, less func(a, b model.Task) int) []model.Task {
	sorted := slices.Clone(tasks)
	slices.SortStableFunc(sorted, less)
	return sorted[:min(TopN, len(sorted))]
}

// Preset returns the range ending at now for a named preset: week, month,
// quarter, year or all.
func Preset(name string, now time.Time) (from, to time.Time, err error) {
	to = calendar.DateOf(now)
	switch name {
	case "week":
		from = calendar.AddDays(to, -7)
	case "month":
		from = calendar.AddMonths(to, -1)
	case "quarter":
		from = calendar.AddMonths(to, -3)
	case "year":
		from = calendar.AddMonths(to, -12)
	case "all":
		from = time.Date(2020, time.January, 1, 0, 0, 0, 0, to.Location())
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("unknown range preset %q", name)
	}
	return from, to, nil
}
