package ui

import "github.com/nissyi-gh/gantt/internal/model"

// ChainLine is one row of a dependency chain with its tree-drawing prefix.
type ChainLine struct {
	Task   model.Task
	Prefix string
	// Repeat is set when the task already appeared higher up the same branch,
	// which only happens with a cycle. Its own dependencies are not expanded.
	Repeat bool
}

// BuildChain lists everything rootID waits for, directly or transitively,
// as a tree with drawing prefixes (├─, └─, │). The root itself is the first
// line. Dangling ids are skipped.
func BuildChain(tasks []model.Task, rootID string) []ChainLine {
	byID := make(map[string]model.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}
	root, ok := byID[rootID]
	if !ok {
		return nil
	}

	var lines []ChainLine
	onBranch := map[string]bool{}
	var dfs func(task model.Task, ancestors []bool)
	dfs = func(task model.Task, ancestors []bool) {
		depth := len(ancestors)
		var prefix string
		if depth > 0 {
			for _, hasSibling := range ancestors[:depth-1] {
				if hasSibling {
					prefix += " │  "
				} else {
					prefix += "    "
				}
			}
			if ancestors[depth-1] {
				prefix += " ├─ "
			} else {
				prefix += " └─ "
			}
		}

		if onBranch[task.ID] {
			lines = append(lines, ChainLine{Task: task, Prefix: prefix, Repeat: true})
			return
		}
		lines = append(lines, ChainLine{Task: task, Prefix: prefix})

		var deps []model.Task
		for _, id := range task.DependsOn {
			if dep, ok := byID[id]; ok {
				deps = append(deps, dep)
			}
		}
		onBranch[task.ID] = true
		for idx, dep := range deps {
			isLast := idx == len(deps)-1
			dfs(dep, append(append([]bool(nil), ancestors...), !isLast))
		}
		onBranch[task.ID] = false
	}

	dfs(root, nil)
	return lines
}
