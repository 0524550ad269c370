package prompt

import (
	"fmt"
	"strings"

	"github.com/nissyi-gh/gantt/internal/calendar"
	"github.com/nissyi-gh/gantt/internal/model"
)

var yamlFormat = `Reply with a YAML code block in the following format and nothing else.

` + "```yaml" + `
tasks:
  - name: "Task name"
    start: "YYYY-MM-DD"
    end: "YYYY-MM-DD"
    color: "blue"
    depends_on:
      - "Name of an earlier task"
    subtasks:
      - name: "Checklist item"
` + "```" + `

Fields:
- name: (required) task name, unique within the plan
- start: (required) first day of the task (YYYY-MM-DD)
- end: (optional) last day of the task, inclusive; defaults to start
- color: (optional) one of ` + colorList + `
- depends_on: (optional) names of tasks that must finish before this one starts
- subtasks: (optional) checklist items; their completion drives the progress bar`

var colorList = func() string {
	names := make([]string, len(model.Colors))
	for i, c := range model.Colors {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}()

// GenerateNew returns a prompt for planning a project from scratch.
func GenerateNew() string {
	return fmt.Sprintf(`You are a project planning assistant.
Break the user's goal into tasks of a sensible size, schedule them on a calendar
and record which tasks have to finish before others can start.

%s
`, yamlFormat)
}

// GenerateFromTask returns a prompt for breaking down an existing task.
// all is the current chart, used to name the task's neighbours.
func GenerateFromTask(task model.Task, all []model.Task) string {
	var sb strings.Builder

	sb.WriteString("You are a project planning assistant.\n")
	sb.WriteString("Break the task below into smaller tasks scheduled inside its date range.\n\n")

	sb.WriteString("## Task\n")
	sb.WriteString(fmt.Sprintf("- Name: %s\n", task.Name))
	sb.WriteString(fmt.Sprintf("- Dates: %s to %s (%s)\n",
		calendar.FormatISO(task.StartDate), calendar.FormatISO(task.EndDate), days(task.Duration())))
	if task.Blocked {
		sb.WriteString("- Status: blocked\n")
	}

	byID := make(map[string]model.Task, len(all))
	for _, t := range all {
		byID[t.ID] = t
	}
	var deps []string
	for _, id := range task.DependsOn {
		if dep, ok := byID[id]; ok {
			deps = append(deps, fmt.Sprintf("%s (ends %s)", dep.Name, calendar.FormatISO(dep.EndDate)))
		}
	}
	if len(deps) > 0 {
		sb.WriteString(fmt.Sprintf("- Waits for: %s\n", strings.Join(deps, ", ")))
	}

	if len(task.Subtasks) > 0 {
		sb.WriteString("\n## Existing checklist\n")
		for _, st := range task.Subtasks {
			status := "open"
			if st.Completed {
				status = "done"
			}
			sb.WriteString(fmt.Sprintf("- %s (%s)\n", st.Name, status))
		}
		sb.WriteString("\nTake the existing checklist into account and cover what is still missing.\n")
	}

	sb.WriteString("\n")
	sb.WriteString(yamlFormat)
	sb.WriteString("\n")

	return sb.String()
}

func days(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
