package ui

import (
	"testing"

	"github.com/nissyi-gh/gantt/internal/model"
	"github.com/stretchr/testify/assert"
)

func chainText(lines []ChainLine) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Prefix + l.Task.Name
	}
	return out
}

func TestBuildChain(t *testing.T) {
	tasks := []model.Task{
		{ID: "a", Name: "A"},
		{ID: "b", Name: "B", DependsOn: []string{"a"}},
		{ID: "c", Name: "C", DependsOn: []string{"a", "b", "gone"}},
	}

	lines := BuildChain(tasks, "c")

	assert.Equal(t, []string{
		"C",
		" ├─ A",
		" └─ B",
		"     └─ A",
	}, chainText(lines))
}

func TestBuildChain_Cycle(t *testing.T) {
	tasks := []model.Task{
		{ID: "x", Name: "X", DependsOn: []string{"y"}},
		{ID: "y", Name: "Y", DependsOn: []string{"x"}},
	}

	lines := BuildChain(tasks, "x")

	assert.Equal(t, []string{"X", " └─ Y", "     └─ X"}, chainText(lines))
	assert.True(t, lines[2].Repeat)
	assert.False(t, lines[1].Repeat)
}

func TestBuildChain_UnknownRoot(t *testing.T) {
	assert.Nil(t, BuildChain([]model.Task{{ID: "a"}}, "missing"))
}

func TestRenderChain(t *testing.T) {
	tasks := []model.Task{
		{ID: "a", Name: "A", Subtasks: []model.Subtask{{Completed: true}}},
		{ID: "b", Name: "B", DependsOn: []string{"a"}},
	}

	out := RenderChain(tasks, "b")

	assert.Contains(t, out, "B")
	assert.Contains(t, out, " └─ A ✓")
	assert.Empty(t, RenderChain(tasks, "missing"))
}
