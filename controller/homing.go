package controller

import (
	"errors"

	"chessmate/core"
)

// ErrHomingTimeout is returned when a bounded homing run expires before
// the sequence finishes, which in practice means the limit switch never
// triggered.
var ErrHomingTimeout = errors.New("homing: limit switch never triggered")

type homingPhase int

const (
	phaseIdle homingPhase = iota
	phaseSeek
	phaseSettleAfterSeek
	phaseBackoff
	phaseSettleAfterBackoff
	phaseReapproach
	phaseOffset
	phaseDone
)

// HomingSequencer drives one axis through the homing protocol: a fast
// seek into the limit switch, a short back-off, a slow re-approach to
// tighten the zero, then the fixed working-range offset.
//
// The sequencer is a Tick-based state machine. Tick advances by one
// scheduler quantum (at most one motor step plus phase bookkeeping), so
// the production loop runs it to completion while tests drive it against
// a SimClock.
type HomingSequencer struct {
	axis   *Axis
	clock  core.Clock
	status func(string)

	phase    homingPhase
	resumeAt int64 // settle-delay deadline, micros
}

// NewHomingSequencer creates a sequencer for one axis. status receives
// the human-readable phase lines; it may be nil.
func NewHomingSequencer(axis *Axis, clock core.Clock, status func(string)) *HomingSequencer {
	if status == nil {
		status = func(string) {}
	}
	return &HomingSequencer{
		axis:   axis,
		clock:  clock,
		status: status,
	}
}

// Start arms the sequencer: fast profile, large target toward the switch.
func (h *HomingSequencer) Start() {
	h.status("Homing " + h.axis.Name + "...")
	h.axis.applySeekProfile()
	h.axis.Stepper.Move(int64(h.axis.Cfg.HomeDir) * h.axis.Cfg.SeekTravelSteps)
	h.phase = phaseSeek
}

// Done reports whether the sequence has reached its terminal phase.
func (h *HomingSequencer) Done() bool {
	return h.phase == phaseDone
}

// Tick advances the sequence by one quantum. Returns true while the
// sequence is still in progress.
func (h *HomingSequencer) Tick() bool {
	switch h.phase {
	case phaseSeek:
		// Step toward the switch until it fires or the oversized
		// target is exhausted. The trigger is the authoritative zero
		// event: stop abruptly, no deceleration.
		if h.axis.Switch.Triggered() || !h.axis.Stepper.Run() {
			h.axis.Stepper.SetCurrentPosition(0)
			h.startSettle()
			h.phase = phaseSettleAfterSeek
		}

	case phaseSettleAfterSeek:
		if h.settled() {
			// Retreat a few steps so the slow re-approach has room.
			h.axis.Stepper.Move(-int64(h.axis.Cfg.HomeDir) * h.axis.Cfg.BackoffSteps)
			h.phase = phaseBackoff
		}

	case phaseBackoff:
		// Full deceleration honored this time.
		if !h.axis.Stepper.Run() {
			h.startSettle()
			h.phase = phaseSettleAfterBackoff
		}

	case phaseSettleAfterBackoff:
		if h.settled() {
			// Creep back in. The slow approach shrinks the position
			// error left by the high-speed stop, which has loop
			// latency between switch trigger and target cancel.
			h.axis.applyCreepProfile()
			h.axis.Stepper.Move(int64(h.axis.Cfg.HomeDir) * h.axis.Cfg.ReapproachSteps)
			h.phase = phaseReapproach
		}

	case phaseReapproach:
		if h.axis.Switch.Triggered() || !h.axis.Stepper.Run() {
			// Tightened zero.
			h.axis.Stepper.SetCurrentPosition(0)
			h.status("Axis homed")
			h.axis.applyRunProfile()
			h.axis.Stepper.Move(-int64(h.axis.Cfg.HomeDir) * h.axis.Cfg.HomeOffsetSteps)
			h.phase = phaseOffset
		}

	case phaseOffset:
		if !h.axis.Stepper.Run() {
			h.status("Axis offset set")
			h.phase = phaseDone
		}
	}

	return h.phase != phaseDone
}

// Home runs the full sequence to completion. timeoutMillis bounds the
// wall-clock time spent, 0 meaning wait forever; on expiry the axis is
// left where it stopped and ErrHomingTimeout is returned.
func (h *HomingSequencer) Home(timeoutMillis int) error {
	h.Start()
	var deadline int64
	if timeoutMillis > 0 {
		deadline = h.clock.Micros() + int64(timeoutMillis)*1000
	}
	for h.Tick() {
		if deadline != 0 && h.clock.Micros() > deadline {
			h.axis.Stepper.SetCurrentPosition(h.axis.Stepper.CurrentPosition())
			return ErrHomingTimeout
		}
	}
	return nil
}

func (h *HomingSequencer) startSettle() {
	h.resumeAt = h.clock.Micros() + int64(h.axis.Cfg.SettleMillis)*1000
}

func (h *HomingSequencer) settled() bool {
	return h.clock.Micros() >= h.resumeAt
}
