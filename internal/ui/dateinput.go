package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/nissyi-gh/gantt/internal/calendar"
)

var errDayRequired = errors.New("day is required")

// dateInput edits one calendar date as three digit fields. Empty year and
// month fall back to the reference date.
type dateInput struct {
	label  string
	fields [3]textinput.Model // YYYY, MM, DD
	focus  int
}

func newDateInput(label string) dateInput {
	placeholders := [3]string{"YYYY", "MM", "DD"}
	charLimits := [3]int{4, 2, 2}

	var fields [3]textinput.Model
	for i := range fields {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = charLimits[i]
		ti.Width = charLimits[i] + 2
		ti.Prompt = ""
		ti.Validate = func(s string) error {
			for _, r := range s {
				if !unicode.IsDigit(r) {
					return fmt.Errorf("digits only")
				}
			}
			return nil
		}
		fields[i] = ti
	}

	return dateInput{label: label, fields: fields}
}

func (d *dateInput) Focus() tea.Cmd {
	return d.focusField(0)
}

func (d *dateInput) Blur() {
	for i := range d.fields {
		d.fields[i].Blur()
	}
}

func (d *dateInput) SetDate(t time.Time) {
	parts := strings.SplitN(calendar.FormatISO(t), "-", 3)
	for i := range d.fields {
		d.fields[i].SetValue(parts[i])
	}
}

// Date parses the fields, filling a blank year or month from ref.
func (d *dateInput) Date(ref time.Time) (time.Time, error) {
	yyyy := strings.TrimSpace(d.fields[0].Value())
	mm := strings.TrimSpace(d.fields[1].Value())
	dd := strings.TrimSpace(d.fields[2].Value())

	if yyyy == "" {
		yyyy = fmt.Sprintf("%04d", ref.Year())
	}
	if mm == "" {
		mm = fmt.Sprintf("%02d", int(ref.Month()))
	}
	if dd == "" {
		return time.Time{}, fmt.Errorf("%s: %w", d.label, errDayRequired)
	}

	s := fmt.Sprintf("%s-%s-%s", yyyy, padLeft(mm, 2), padLeft(dd, 2))
	t, err := calendar.ParseISO(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", d.label, err)
	}
	return t, nil
}

func padLeft(s string, length int) string {
	for len(s) < length {
		s = "0" + s
	}
	return s
}

func (d *dateInput) IsEmpty() bool {
	return d.fields[0].Value() == "" && d.fields[1].Value() == "" && d.fields[2].Value() == ""
}

func (d *dateInput) focusField(idx int) tea.Cmd {
	d.focus = idx
	var cmds []tea.Cmd
	for i := range d.fields {
		if i == idx {
			cmds = append(cmds, d.fields[i].Focus())
		} else {
			d.fields[i].Blur()
		}
	}
	return tea.Batch(cmds...)
}

// atEnd reports whether focus is on the day field.
func (d dateInput) atEnd() bool { return d.focus == len(d.fields)-1 }

// atStart reports whether focus is on the year field.
func (d dateInput) atStart() bool { return d.focus == 0 }

func (d dateInput) Update(msg tea.Msg) (dateInput, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "tab", "right":
			if !d.atEnd() {
				cmd := d.focusField(d.focus + 1)
				return d, cmd
			}
			return d, nil
		case "shift+tab", "left":
			if !d.atStart() {
				cmd := d.focusField(d.focus - 1)
				return d, cmd
			}
			return d, nil
		}
	}

	var cmd tea.Cmd
	d.fields[d.focus], cmd = d.fields[d.focus].Update(msg)
	return d, cmd
}

func (d dateInput) View() string {
	return fmt.Sprintf("%-6s%s-%s-%s", d.label, d.fields[0].View(), d.fields[1].View(), d.fields[2].View())
}
