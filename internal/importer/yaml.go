package importer

import (
	"errors"
	"fmt"

	"github.com/nissyi-gh/gantt/internal/calendar"
	"github.com/nissyi-gh/gantt/internal/model"
	"github.com/nissyi-gh/gantt/internal/store"
	"gopkg.in/yaml.v3"
)

// YAMLSubtask represents a checklist item in the YAML input.
type YAMLSubtask struct {
	Name    string `yaml:"name"`
	Done    bool   `yaml:"done,omitempty"`
	Comment string `yaml:"comment,omitempty"`
}

// YAMLTask represents a single task in the YAML input.
type YAMLTask struct {
	Name        string        `yaml:"name"`
	Start       string        `yaml:"start"`
	End         string        `yaml:"end,omitempty"`
	Color       string        `yaml:"color,omitempty"`
	CustomColor string        `yaml:"custom_color,omitempty"`
	Blocked     bool          `yaml:"blocked,omitempty"`
	DependsOn   []string      `yaml:"depends_on,omitempty"`
	Subtasks    []YAMLSubtask `yaml:"subtasks,omitempty"`
}

// YAMLInput represents the root structure of the YAML input.
type YAMLInput struct {
	Tasks []YAMLTask `yaml:"tasks"`
}

// Import parses a YAML string and creates tasks in the store. depends_on
// entries name other tasks, either from the same document or already stored.
// Returns the number of tasks created.
func Import(s *store.TaskStore, yamlStr string) (int, error) {
	var input YAMLInput
	if err := yaml.Unmarshal([]byte(yamlStr), &input); err != nil {
		return 0, fmt.Errorf("YAML parse error: %w", err)
	}

	if len(input.Tasks) == 0 {
		return 0, errors.New("no tasks found in YAML")
	}

	tasks := make([]model.Task, 0, len(input.Tasks))
	for _, yt := range input.Tasks {
		t, err := toTask(yt)
		if err != nil {
			return 0, err
		}
		tasks = append(tasks, t)
	}

	existing, err := s.List()
	if err != nil {
		return 0, err
	}
	byName := make(map[string]string, len(existing)+len(tasks))
	for _, t := range existing {
		byName[t.Name] = t.ID
	}

	count := 0
	for i, t := range tasks {
		added, err := s.Add(t)
		if err != nil {
			return count, fmt.Errorf("add task %q: %w", t.Name, err)
		}
		tasks[i] = added
		byName[added.Name] = added.ID
		count++
	}

	for i, yt := range input.Tasks {
		for _, dep := range yt.DependsOn {
			depID, ok := byName[dep]
			if !ok {
				return count, fmt.Errorf("task %q depends on unknown task %q", yt.Name, dep)
			}
			if err := s.AddDependency(tasks[i].ID, depID); err != nil {
				return count, fmt.Errorf("link %q to %q: %w", yt.Name, dep, err)
			}
		}
	}
	return count, nil
}

func toTask(yt YAMLTask) (model.Task, error) {
	if yt.Name == "" {
		return model.Task{}, errors.New("task name is required")
	}
	if yt.Start == "" {
		return model.Task{}, fmt.Errorf("task %q: start date is required", yt.Name)
	}
	start, err := calendar.ParseISO(yt.Start)
	if err != nil {
		return model.Task{}, fmt.Errorf("task %q: %w", yt.Name, err)
	}
	end := start
	if yt.End != "" {
		if end, err = calendar.ParseISO(yt.End); err != nil {
			return model.Task{}, fmt.Errorf("task %q: %w", yt.Name, err)
		}
		if end.Before(start) {
			return model.Task{}, fmt.Errorf("task %q: end %s is before start %s", yt.Name, yt.End, yt.Start)
		}
	}

	t := model.New(yt.Name, start, end)
	if yt.Color != "" {
		if t.Color, err = model.ParseColor(yt.Color); err != nil {
			return model.Task{}, fmt.Errorf("task %q: %w", yt.Name, err)
		}
	}
	if yt.CustomColor != "" {
		if !model.ValidHex(yt.CustomColor) {
			return model.Task{}, fmt.Errorf("task %q: custom_color %q is not #rrggbb", yt.Name, yt.CustomColor)
		}
		t.CustomColor = yt.CustomColor
	}
	t.Blocked = yt.Blocked
	for _, ys := range yt.Subtasks {
		if ys.Name == "" {
			return model.Task{}, fmt.Errorf("task %q: subtask name is required", yt.Name)
		}
		st := model.NewSubtask(ys.Name)
		st.Completed = ys.Done
		st.Comment = ys.Comment
		t.Subtasks = append(t.Subtasks, st)
	}
	return t, nil
}

// Export writes tasks in the format Import reads. Dependencies on tasks
// outside the list are dropped.
func Export(tasks []model.Task) ([]byte, error) {
	names := make(map[string]string, len(tasks))
	for _, t := range tasks {
		names[t.ID] = t.Name
	}

	out := YAMLInput{Tasks: make([]YAMLTask, 0, len(tasks))}
	for _, t := range tasks {
		yt := YAMLTask{
			Name:        t.Name,
			Start:       calendar.FormatISO(t.StartDate),
			End:         calendar.FormatISO(t.EndDate),
			Color:       string(t.Color),
			CustomColor: t.CustomColor,
			Blocked:     t.Blocked,
		}
		for _, dep := range t.DependsOn {
			if name, ok := names[dep]; ok {
				yt.DependsOn = append(yt.DependsOn, name)
			}
		}
		for _, st := range t.Subtasks {
			yt.Subtasks = append(yt.Subtasks, YAMLSubtask{Name: st.Name, Done: st.Completed, Comment: st.Comment})
		}
		out.Tasks = append(out.Tasks, yt)
	}

	data, err := yaml.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("marshal tasks: %w", err)
	}
	return data, nil
}
