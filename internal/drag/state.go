// Package drag turns pointer gestures on a task bar into rescheduled dates.
//
// The transition functions in this file are pure: every move is derived from
// the snapshot taken when the gesture began, never from the previous move, so
// rounding cannot accumulate over a long drag. Machine wraps them with the
// pointer capture and the update callback.
package drag

import (
	"math"

	"github.com/nissyi-gh/gantt/internal/calendar"
	"github.com/nissyi-gh/gantt/internal/model"
)

// Kind is the hit target a gesture started on.
type Kind int

const (
	None Kind = iota
	LeftHandle
	RightHandle
	Move
)

func (k Kind) String() string {
	switch k {
	case LeftHandle:
		return "left-handle"
	case RightHandle:
		return "right-handle"
	case Move:
		return "move"
	}
	return "none"
}

// State is either idle (Kind == None) or one active gesture.
type State struct {
	Kind Kind
	// Snapshot is the task as it was when the gesture began.
	Snapshot     model.Task
	StartX       float64
	PixelsPerDay int
}

// Dragging reports whether a gesture is active.
func (s State) Dragging() bool { return s.Kind != None }

// Begin starts a gesture. It is refused while another gesture is active, for
// blocked tasks, and without a usable scale.
func Begin(s State, kind Kind, task model.Task, x float64, pixelsPerDay int) (State, bool) {
	if s.Dragging() || kind == None || task.Blocked || pixelsPerDay <= 0 {
		return s, false
	}
	return State{
		Kind:         kind,
		Snapshot:     task.Clone(),
		StartX:       x,
		PixelsPerDay: pixelsPerDay,
	}, true
}

// DeltaDays converts a pixel offset to whole days, rounding halves up.
func DeltaDays(dx float64, pixelsPerDay int) int {
	return int(math.Floor(dx/float64(pixelsPerDay) + 0.5))
}

// Step computes the task for pointer position x. ok is false when idle or
// when the pointer has not moved a whole day from where it started.
func Step(s State, x float64) (task model.Task, ok bool) {
	if !s.Dragging() {
		return model.Task{}, false
	}
	delta := DeltaDays(x-s.StartX, s.PixelsPerDay)
	if delta == 0 {
		return model.Task{}, false
	}

	orig := s.Snapshot
	start, end := orig.StartDate, orig.EndDate
	switch s.Kind {
	case LeftHandle:
		start = calendar.AddDays(orig.StartDate, delta)
		if calendar.DaysBetween(start, end) <= 0 {
			start = calendar.AddDays(end, -1)
		}
	case RightHandle:
		end = calendar.AddDays(orig.EndDate, delta)
		if calendar.DaysBetween(start, end) <= 0 {
			end = calendar.AddDays(start, 1)
		}
	case Move:
		start = calendar.AddDays(orig.StartDate, delta)
		end = calendar.AddDays(orig.EndDate, delta)
	}
	return orig.WithDates(start, end), true
}

// End returns the idle state.
func End(State) State { return State{} }
