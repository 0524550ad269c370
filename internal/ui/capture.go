package ui

import tea "github.com/charmbracelet/bubbletea"

// mouseCapture switches the terminal to all-motion reporting for the length
// of a drag, so motion keeps arriving wherever the pointer goes, and back to
// cell motion afterwards. The switch is queued as a command for the next
// Update return.
type mouseCapture struct {
	pending  tea.Cmd
	captured bool
}

func (c *mouseCapture) Acquire() {
	c.captured = true
	c.pending = tea.EnableMouseAllMotion
}

func (c *mouseCapture) Release() {
	c.captured = false
	c.pending = tea.EnableMouseCellMotion
}

// take returns and clears the queued command.
func (c *mouseCapture) take() tea.Cmd {
	cmd := c.pending
	c.pending = nil
	return cmd
}
