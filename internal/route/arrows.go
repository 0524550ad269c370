package route

import (
	"github.com/nissyi-gh/gantt/internal/model"
	"github.com/nissyi-gh/gantt/internal/timeline"
)

// Arrowhead marker geometry, attached at the end of every path and oriented
// along its final tangent.
const (
	MarkerID     = "arrowhead"
	MarkerWidth  = 10
	MarkerHeight = 7
)

// Arrow is one drawn dependency edge.
type Arrow struct {
	ID     string
	FromID string
	ToID   string
	Shape  Shape
	Path   string
}

// Arrows routes every dependency of every task. Rows follow list order. Edges
// pointing at a task that is not in the list, and self edges, are skipped.
// Cycles simply produce arrows in both directions.
func Arrows(tasks []model.Task, cfg timeline.Config, opts Options) []Arrow {
	rows := make(map[string]int, len(tasks))
	for i, t := range tasks {
		rows[t.ID] = i
	}

	var out []Arrow
	for i, task := range tasks {
		for _, depID := range task.DependsOn {
			j, ok := rows[depID]
			if !ok || depID == task.ID {
				continue
			}
			from := RectOf(timeline.TaskPosition(tasks[j], cfg, j, opts.RowHeight))
			to := RectOf(timeline.TaskPosition(task, cfg, i, opts.RowHeight))
			a, b := Anchors(from, to, opts)
			out = append(out, Arrow{
				ID:     depID + "-" + task.ID,
				FromID: depID,
				ToID:   task.ID,
				Shape:  Classify(a, b, opts),
				Path:   Path(from, to, opts),
			})
		}
	}
	return out
}
