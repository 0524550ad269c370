package drag

import (
	"log/slog"

	"github.com/nissyi-gh/gantt/internal/model"
)

// Capture routes every pointer event to the machine for the length of one
// gesture, wherever the pointer is. Acquire is called on idle -> dragging and
// Release on the single path back to idle.
type Capture interface {
	Acquire()
	Release()
}

// UpdateFunc receives the rescheduled task on every qualifying move.
type UpdateFunc func(model.Task)

// Status is what a renderer needs to highlight the active handle.
type Status struct {
	IsDragging bool
	ActiveKind Kind
	TaskID     string
}

// Machine is the gesture controller. Only one gesture exists at a time.
type Machine struct {
	state    State
	onUpdate UpdateFunc
	capture  Capture
	logger   *slog.Logger

	last    model.Task
	emitted bool
}

type noCapture struct{}

func (noCapture) Acquire() {}
func (noCapture) Release() {}

// NewMachine builds an idle machine. capture and logger may be nil.
func NewMachine(onUpdate UpdateFunc, capture Capture, logger *slog.Logger) *Machine {
	if capture == nil {
		capture = noCapture{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Machine{onUpdate: onUpdate, capture: capture, logger: logger}
}

// OnLeftHandleDown starts resizing the start date.
func (m *Machine) OnLeftHandleDown(task model.Task, x float64, pixelsPerDay int) bool {
	return m.begin(LeftHandle, task, x, pixelsPerDay)
}

// OnRightHandleDown starts resizing the end date.
func (m *Machine) OnRightHandleDown(task model.Task, x float64, pixelsPerDay int) bool {
	return m.begin(RightHandle, task, x, pixelsPerDay)
}

// OnBarDown starts moving the whole task.
func (m *Machine) OnBarDown(task model.Task, x float64, pixelsPerDay int) bool {
	return m.begin(Move, task, x, pixelsPerDay)
}

func (m *Machine) begin(kind Kind, task model.Task, x float64, pixelsPerDay int) bool {
	next, ok := Begin(m.state, kind, task, x, pixelsPerDay)
	if !ok {
		m.logger.Debug("drag refused",
			"task_id", task.ID,
			"kind", kind.String(),
			"blocked", task.Blocked,
			"active", m.state.Kind.String(),
		)
		return false
	}
	m.state = next
	m.emitted = false
	m.capture.Acquire()
	m.logger.Debug("drag started", "task_id", task.ID, "kind", kind.String(), "x", x)
	return true
}

// OnPointerMove reports whether an update was emitted.
func (m *Machine) OnPointerMove(x float64) bool {
	task, ok := Step(m.state, x)
	if !ok {
		return false
	}
	m.last = task
	m.emitted = true
	if m.onUpdate != nil {
		m.onUpdate(task)
	}
	return true
}

// OnPointerUp ends the gesture. It returns the last emitted task, if any, so
// the caller can persist the result once.
func (m *Machine) OnPointerUp() (model.Task, bool) {
	if !m.state.Dragging() {
		return model.Task{}, false
	}
	m.logger.Debug("drag finished",
		"task_id", m.state.Snapshot.ID,
		"kind", m.state.Kind.String(),
		"changed", m.emitted,
	)
	m.state = End(m.state)
	m.capture.Release()

	last, emitted := m.last, m.emitted
	m.last, m.emitted = model.Task{}, false
	return last, emitted
}

// Status returns the current gesture for display.
func (m *Machine) Status() Status {
	return Status{
		IsDragging: m.state.Dragging(),
		ActiveKind: m.state.Kind,
		TaskID:     m.state.Snapshot.ID,
	}
}
