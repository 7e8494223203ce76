package controller

// MotionExecutor drives a set of axes from their current positions to
// commanded relative targets.
//
// All targets are registered up-front, but by default the axes run to
// completion one after the other (X fully finishes before Y starts
// stepping). That ordering is what the established hosts were built
// against; Interleave in the machine config switches to genuinely
// simultaneous stepping as an explicit opt-in.
type MotionExecutor struct {
	interleave bool

	axes   []*Axis
	active int
}

// NewMotionExecutor creates an executor.
func NewMotionExecutor(interleave bool) *MotionExecutor {
	return &MotionExecutor{interleave: interleave}
}

// Begin registers the per-axis step deltas as pending targets. A zero
// delta leaves that axis a no-op (its distance-to-go is already zero).
func (m *MotionExecutor) Begin(axes []*Axis, deltas []int64) {
	m.axes = axes
	m.active = 0
	for i, axis := range axes {
		axis.Stepper.Move(deltas[i])
	}
}

// Tick advances the move by one scheduler quantum. Returns true while
// any axis still has distance to go.
func (m *MotionExecutor) Tick() bool {
	if m.interleave {
		busy := false
		for _, axis := range m.axes {
			if axis.Stepper.Run() {
				busy = true
			}
		}
		return busy
	}

	for m.active < len(m.axes) {
		if m.axes[m.active].Stepper.Run() {
			return true
		}
		m.active++
	}
	return false
}

// Execute runs a relative move on all axes to completion.
func (m *MotionExecutor) Execute(axes []*Axis, deltas []int64) {
	m.Begin(axes, deltas)
	for m.Tick() {
	}
}
