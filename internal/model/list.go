package model

import "errors"

// ErrDependencyCycle is returned when a dependency edge would close a loop.
var ErrDependencyCycle = errors.New("dependency cycle")

// IndexOf returns the row index of id, or -1.
func IndexOf(tasks []Task, id string) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// ReplaceTask swaps in t for the task with the same id.
func ReplaceTask(tasks []Task, t Task) []Task {
	out := make([]Task, len(tasks))
	for i, cur := range tasks {
		if cur.ID == t.ID {
			out[i] = t
		} else {
			out[i] = cur
		}
	}
	return out
}

// RemoveTask drops the task with the given id and sweeps that id out of every
// remaining DependsOn list, so no dangling edge survives a delete.
func RemoveTask(tasks []Task, id string) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if t.ID == id {
			continue
		}
		if t.DependsOnID(id) {
			t = t.Clone()
			deps := t.DependsOn[:0]
			for _, dep := range t.DependsOn {
				if dep != id {
					deps = append(deps, dep)
				}
			}
			t.DependsOn = deps
		}
		out = append(out, t)
	}
	return out
}

// FindCycle returns the ids of one dependency cycle in list order of discovery,
// or nil when the graph is acyclic. Dangling ids are ignored.
func FindCycle(tasks []Task) []string {
	byID := make(map[string]Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}

	const (
		unseen = iota
		onPath
		done
	)
	state := make(map[string]int, len(tasks))
	var path []string

	var dfs func(id string) []string
	dfs = func(id string) []string {
		state[id] = onPath
		path = append(path, id)
		for _, dep := range byID[id].DependsOn {
			if _, ok := byID[dep]; !ok {
				continue
			}
			switch state[dep] {
			case onPath:
				for i, p := range path {
					if p == dep {
						return append([]string(nil), path[i:]...)
					}
				}
			case unseen:
				if cycle := dfs(dep); cycle != nil {
					return cycle
				}
			}
		}
		path = path[:len(path)-1]
		state[id] = done
		return nil
	}

	for _, t := range tasks {
		if state[t.ID] == unseen {
			if cycle := dfs(t.ID); cycle != nil {
				return cycle
			}
		}
	}
	return nil
}

// WouldCycle reports whether adding the edge taskID -> dependsOnID creates a
// cycle (including a self edge).
func WouldCycle(tasks []Task, taskID, dependsOnID string) bool {
	if taskID == dependsOnID {
		return true
	}
	idx := IndexOf(tasks, taskID)
	if idx < 0 {
		return false
	}
	trial := append([]Task(nil), tasks...)
	t := trial[idx].Clone()
	t.DependsOn = append(t.DependsOn, dependsOnID)
	trial[idx] = t
	return FindCycle(trial) != nil
}
