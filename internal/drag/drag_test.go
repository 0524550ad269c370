package drag

import (
	"testing"

	"github.com/nissyi-gh/gantt/internal/calendar"
	"github.com/nissyi-gh/gantt/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ppd = 40

func task(start, end string) model.Task {
	return model.Task{
		ID:        "t1",
		Name:      "Design",
		StartDate: calendar.MustParseISO(start),
		EndDate:   calendar.MustParseISO(end),
		DependsOn: []string{"t0"},
	}
}

type recorder struct {
	acquired, released int
}

func (r *recorder) Acquire() { r.acquired++ }
func (r *recorder) Release() { r.released++ }

func TestDeltaDays(t *testing.T) {
	tests := []struct {
		dx   float64
		ppd  int
		want int
	}{
		{0, 40, 0},
		{19, 40, 0},
		{20, 40, 1},
		{59, 40, 1},
		{60, 40, 2},
		{-19, 40, 0},
		{-20, 40, 0},
		{-21, 40, -1},
		{-60, 40, -1},
		{4, 3, 1},
		{-2, 3, -1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DeltaDays(tt.dx, tt.ppd), "dx=%v ppd=%d", tt.dx, tt.ppd)
	}
}

func TestStep_LeftHandleClampsBeforeEnd(t *testing.T) {
	s, ok := Begin(State{}, LeftHandle, task("2024-01-10", "2024-01-12"), 100, ppd)
	require.True(t, ok)

	got, ok := Step(s, 100+5*ppd)
	require.True(t, ok)

	assert.Equal(t, calendar.MustParseISO("2024-01-11"), got.StartDate)
	assert.Equal(t, calendar.MustParseISO("2024-01-12"), got.EndDate)
}

func TestStep_LeftHandleExtendsBackwards(t *testing.T) {
	s, _ := Begin(State{}, LeftHandle, task("2024-01-10", "2024-01-12"), 100, ppd)

	got, ok := Step(s, 100-3*ppd)
	require.True(t, ok)

	assert.Equal(t, calendar.MustParseISO("2024-01-07"), got.StartDate)
	assert.Equal(t, calendar.MustParseISO("2024-01-12"), got.EndDate)
}

func TestStep_RightHandleClampsAfterStart(t *testing.T) {
	s, _ := Begin(State{}, RightHandle, task("2024-01-10", "2024-01-12"), 500, ppd)

	got, ok := Step(s, 500-10*ppd)
	require.True(t, ok)

	assert.Equal(t, calendar.MustParseISO("2024-01-10"), got.StartDate)
	assert.Equal(t, calendar.MustParseISO("2024-01-11"), got.EndDate)

	got, ok = Step(s, 500+2*ppd)
	require.True(t, ok)
	assert.Equal(t, calendar.MustParseISO("2024-01-14"), got.EndDate)
}

func TestStep_MovePreservesDuration(t *testing.T) {
	orig := task("2024-01-10", "2024-01-12")
	s, _ := Begin(State{}, Move, orig, 0, ppd)

	got, ok := Step(s, 10*ppd)
	require.True(t, ok)

	assert.Equal(t, calendar.MustParseISO("2024-01-20"), got.StartDate)
	assert.Equal(t, calendar.MustParseISO("2024-01-22"), got.EndDate)
	assert.Equal(t, orig.Duration(), got.Duration())
	assert.Equal(t, orig.ID, got.ID)
	assert.Equal(t, orig.DependsOn, got.DependsOn)
}

func TestStep_MoveAcrossMonthBoundary(t *testing.T) {
	s, _ := Begin(State{}, Move, task("2024-02-27", "2024-03-01"), 0, 3)

	got, ok := Step(s, 3*3)
	require.True(t, ok)

	assert.Equal(t, calendar.MustParseISO("2024-03-01"), got.StartDate)
	assert.Equal(t, calendar.MustParseISO("2024-03-04"), got.EndDate)
}

func TestStep_ZeroDeltaEmitsNothing(t *testing.T) {
	s, _ := Begin(State{}, Move, task("2024-01-10", "2024-01-12"), 100, ppd)

	_, ok := Step(s, 119)
	assert.False(t, ok)

	_, ok = Step(State{}, 400)
	assert.False(t, ok)
}

func TestStep_SnapshotRelative(t *testing.T) {
	s, _ := Begin(State{}, Move, task("2024-01-10", "2024-01-12"), 0, ppd)

	// many sub-day moves must land exactly where one big move lands
	var last model.Task
	for x := 1.0; x <= 7*ppd; x += 7 {
		if got, ok := Step(s, x); ok {
			last = got
		}
	}
	direct, ok := Step(s, 7*ppd)
	require.True(t, ok)

	assert.Equal(t, calendar.MustParseISO("2024-01-17"), direct.StartDate)
	assert.Equal(t, direct.StartDate, last.StartDate)
	assert.Equal(t, direct.EndDate, last.EndDate)
	// the snapshot itself is untouched
	assert.Equal(t, calendar.MustParseISO("2024-01-10"), s.Snapshot.StartDate)
}

func TestStep_NeverInverts(t *testing.T) {
	orig := task("2024-03-10", "2024-03-14")
	for _, kind := range []Kind{LeftHandle, RightHandle, Move} {
		s, ok := Begin(State{}, kind, orig, 0, ppd)
		require.True(t, ok)
		for x := -2000.0; x <= 2000; x += 13 {
			got, ok := Step(s, x)
			if !ok {
				continue
			}
			assert.True(t, got.StartDate.Before(got.EndDate), "%s at %v: %s..%s",
				kind, x, calendar.FormatISO(got.StartDate), calendar.FormatISO(got.EndDate))
		}
	}
}

func TestBegin_Refusals(t *testing.T) {
	blocked := task("2024-01-10", "2024-01-12")
	blocked.Blocked = true

	s, ok := Begin(State{}, RightHandle, blocked, 0, ppd)
	assert.False(t, ok)
	assert.False(t, s.Dragging())

	_, ok = Begin(State{}, None, task("2024-01-10", "2024-01-12"), 0, ppd)
	assert.False(t, ok)

	_, ok = Begin(State{}, Move, task("2024-01-10", "2024-01-12"), 0, 0)
	assert.False(t, ok)

	active, ok := Begin(State{}, Move, task("2024-01-10", "2024-01-12"), 0, ppd)
	require.True(t, ok)
	other := task("2024-02-01", "2024-02-02")
	other.ID = "t2"
	again, ok := Begin(active, LeftHandle, other, 50, ppd)
	assert.False(t, ok)
	assert.Equal(t, active.Snapshot.ID, again.Snapshot.ID)
	assert.Equal(t, Move, again.Kind)
}

func TestBegin_SnapshotIsDetached(t *testing.T) {
	orig := task("2024-01-10", "2024-01-12")
	s, _ := Begin(State{}, Move, orig, 0, ppd)

	orig.DependsOn[0] = "changed"

	assert.Equal(t, "t0", s.Snapshot.DependsOn[0])
}

func TestMachine_BlockedTaskNeverEmits(t *testing.T) {
	var updates []model.Task
	rec := &recorder{}
	m := NewMachine(func(t model.Task) { updates = append(updates, t) }, rec, nil)

	blocked := task("2024-01-10", "2024-01-12")
	blocked.Blocked = true

	assert.False(t, m.OnRightHandleDown(blocked, 0, ppd))
	assert.False(t, m.OnPointerMove(200))
	assert.False(t, m.OnPointerMove(400))
	_, changed := m.OnPointerUp()

	assert.False(t, changed)
	assert.Empty(t, updates)
	assert.Equal(t, Status{}, m.Status())
	assert.Zero(t, rec.acquired)
	assert.Zero(t, rec.released)
}

func TestMachine_Gesture(t *testing.T) {
	var updates []model.Task
	rec := &recorder{}
	m := NewMachine(func(t model.Task) { updates = append(updates, t) }, rec, nil)

	require.True(t, m.OnBarDown(task("2024-01-10", "2024-01-12"), 100, ppd))
	assert.Equal(t, Status{IsDragging: true, ActiveKind: Move, TaskID: "t1"}, m.Status())
	assert.Equal(t, 1, rec.acquired)

	assert.False(t, m.OnPointerMove(110))
	assert.True(t, m.OnPointerMove(140))
	assert.True(t, m.OnPointerMove(180))

	// a second gesture is ignored while the first is active
	assert.False(t, m.OnLeftHandleDown(task("2024-05-01", "2024-05-03"), 0, ppd))
	assert.Equal(t, 1, rec.acquired)

	final, changed := m.OnPointerUp()
	require.True(t, changed)
	assert.Equal(t, calendar.MustParseISO("2024-01-12"), final.StartDate)
	assert.Equal(t, calendar.MustParseISO("2024-01-14"), final.EndDate)
	require.Len(t, updates, 2)
	assert.Equal(t, final, updates[1])

	assert.False(t, m.Status().IsDragging)
	assert.Equal(t, 1, rec.released)

	// pointer-up while idle is a no-op
	_, changed = m.OnPointerUp()
	assert.False(t, changed)
	assert.Equal(t, 1, rec.released)
}

func TestMachine_ReturnToOriginEmitsNothingNew(t *testing.T) {
	var updates []model.Task
	m := NewMachine(func(t model.Task) { updates = append(updates, t) }, nil, nil)

	require.True(t, m.OnRightHandleDown(task("2024-01-10", "2024-01-12"), 0, ppd))
	assert.True(t, m.OnPointerMove(2*ppd))
	assert.False(t, m.OnPointerMove(0))

	final, changed := m.OnPointerUp()
	require.True(t, changed)
	assert.Len(t, updates, 1)
	assert.Equal(t, calendar.MustParseISO("2024-01-14"), final.EndDate)
}

func TestMachine_ReleaseWithoutMoveReportsNoChange(t *testing.T) {
	m := NewMachine(nil, nil, nil)

	require.True(t, m.OnLeftHandleDown(task("2024-01-10", "2024-01-12"), 0, ppd))
	_, changed := m.OnPointerUp()
	assert.False(t, changed)

	// the machine is reusable for the next gesture
	require.True(t, m.OnRightHandleDown(task("2024-01-10", "2024-01-12"), 0, ppd))
	assert.Equal(t, RightHandle, m.Status().ActiveKind)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "left-handle", LeftHandle.String())
	assert.Equal(t, "right-handle", RightHandle.String())
	assert.Equal(t, "move", Move.String())
	assert.Equal(t, "none", None.String())
}
