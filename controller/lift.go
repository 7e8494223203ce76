package controller

import "chessmate/core"

// ServoDriver commands the lift servo's angle. The rp2040 target backs
// it with a PWM servo driver; tests and the simulator record angles.
type ServoDriver interface {
	SetAngle(degrees int) error
}

// LiftStep is one entry of an open-loop lift ramp: command the angle,
// then hold for the delay.
type LiftStep struct {
	Angle       int
	DelayMillis int
}

// Lift raises and lowers the piece gripper through timed angle ramps.
// There is no position feedback; completion is purely elapsed time.
type Lift struct {
	servo ServoDriver
	clock core.Clock
	cfg   LiftConfig
}

// NewLift creates the lift actuator.
func NewLift(servo ServoDriver, clock core.Clock, cfg LiftConfig) *Lift {
	return &Lift{servo: servo, clock: clock, cfg: cfg}
}

// Raise sweeps the gripper up (lowered angle to raised angle).
func (l *Lift) Raise() error {
	return l.run(RampSchedule(l.cfg.LoweredAngle, l.cfg.RaisedAngle, l.cfg.StepDegrees, l.cfg.StepDelayMillis))
}

// Lower sweeps the gripper down (raised angle to lowered angle).
func (l *Lift) Lower() error {
	return l.run(RampSchedule(l.cfg.RaisedAngle, l.cfg.LoweredAngle, l.cfg.StepDegrees, l.cfg.StepDelayMillis))
}

func (l *Lift) run(schedule []LiftStep) error {
	for _, step := range schedule {
		if err := l.servo.SetAngle(step.Angle); err != nil {
			return err
		}
		l.clock.Sleep(step.DelayMillis)
	}
	return nil
}

// RampSchedule builds the angle schedule from one endpoint to the other,
// inclusive on both ends, one stepDegrees move per delayMillis. Keeping
// the ramp as data rather than a loop makes it independently testable
// and swappable for a feedback-driven version later.
func RampSchedule(from, to, stepDegrees, delayMillis int) []LiftStep {
	if stepDegrees <= 0 {
		stepDegrees = 1
	}

	var schedule []LiftStep
	if from <= to {
		for angle := from; angle <= to; angle += stepDegrees {
			schedule = append(schedule, LiftStep{Angle: angle, DelayMillis: delayMillis})
		}
	} else {
		for angle := from; angle >= to; angle -= stepDegrees {
			schedule = append(schedule, LiftStep{Angle: angle, DelayMillis: delayMillis})
		}
	}
	return schedule
}
