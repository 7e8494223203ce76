package core

import "math"

// Stepper drives one motor through a trapezoidal velocity profile.
//
// Positions are dead-reckoned step counts relative to whatever zero was
// last established with SetCurrentPosition; there is no feedback. Run
// advances the profile by at most one step per call, so callers own the
// pacing: the production loop calls it until DistanceToGo reaches zero,
// tests call it a fixed number of times against a SimClock.
type Stepper struct {
	driver StepDriver
	clock  Clock

	position int64
	target   int64

	maxSpeed float64 // steps/s
	accel    float64 // steps/s^2

	speed        float64 // signed instantaneous speed, steps/s
	stepInterval int64   // micros between steps; 0 = idle
	lastStepTime int64

	// Profile bookkeeping. n counts steps taken since the last speed
	// change (negative while decelerating), cn is the current step
	// interval, c0 the interval of the first step from standstill and
	// cmin the interval at cruise speed.
	n    int64
	c0   float64
	cn   float64
	cmin float64

	dirForward bool
}

// NewStepper creates a stepper on the given step driver. Speed and
// acceleration limits start at 1 step/s and 1 step/s^2; callers are
// expected to set real limits before commanding motion.
func NewStepper(driver StepDriver, clock Clock) *Stepper {
	s := &Stepper{
		driver:   driver,
		clock:    clock,
		maxSpeed: 1.0,
		cmin:     1e6,
	}
	s.SetAcceleration(1.0)
	return s
}

// SetMaxSpeed sets the cruise speed limit in steps per second.
func (s *Stepper) SetMaxSpeed(speed float64) {
	if speed < 0 {
		speed = -speed
	}
	if speed == 0 || speed == s.maxSpeed {
		return
	}
	s.maxSpeed = speed
	s.cmin = 1e6 / speed

	// Recompute where in the ramp we are if a move is in flight.
	if s.n > 0 {
		s.n = int64(s.speed * s.speed / (2.0 * s.accel))
		s.computeNewSpeed()
	}
}

// SetAcceleration sets the acceleration limit in steps per second squared.
func (s *Stepper) SetAcceleration(accel float64) {
	if accel < 0 {
		accel = -accel
	}
	if accel == 0 || accel == s.accel {
		return
	}
	if s.accel != 0 {
		s.n = int64(float64(s.n) * (s.accel / accel))
	}
	// First-step interval per Austin's stepper algorithm, with the
	// standard 0.676 correction for the discrete approximation.
	s.c0 = 0.676 * math.Sqrt(2.0/accel) * 1e6
	s.accel = accel
	s.computeNewSpeed()
}

// MaxSpeed returns the configured cruise speed limit.
func (s *Stepper) MaxSpeed() float64 {
	return s.maxSpeed
}

// Acceleration returns the configured acceleration limit.
func (s *Stepper) Acceleration() float64 {
	return s.accel
}

// MoveTo sets an absolute target position in steps.
func (s *Stepper) MoveTo(target int64) {
	if s.target != target {
		s.target = target
		s.computeNewSpeed()
	}
}

// Move sets a target relative to the current position in steps.
func (s *Stepper) Move(relative int64) {
	s.MoveTo(s.position + relative)
}

// DistanceToGo returns the signed number of steps remaining to the target.
func (s *Stepper) DistanceToGo() int64 {
	return s.target - s.position
}

// TargetPosition returns the current target in steps.
func (s *Stepper) TargetPosition() int64 {
	return s.target
}

// CurrentPosition returns the dead-reckoned position in steps.
func (s *Stepper) CurrentPosition() int64 {
	return s.position
}

// SetCurrentPosition redefines the present physical location as the given
// step count and cancels any pending target. The stop is abrupt: no
// deceleration is applied, which is exactly what homing wants when the
// limit switch fires.
func (s *Stepper) SetCurrentPosition(position int64) {
	s.position = position
	s.target = position
	s.n = 0
	s.stepInterval = 0
	s.speed = 0
}

// IsRunning reports whether a move is still in flight.
func (s *Stepper) IsRunning() bool {
	return s.speed != 0 || s.target != s.position
}

// Run advances the profile by one scheduler quantum: it emits at most one
// step if one is due, then recomputes the speed. Returns true while the
// motor still has work to do.
func (s *Stepper) Run() bool {
	if s.runSpeed() {
		s.computeNewSpeed()
	}
	return s.IsRunning()
}

// runSpeed emits a step if the current interval has elapsed.
func (s *Stepper) runSpeed() bool {
	if s.stepInterval == 0 {
		return false
	}
	now := s.clock.Micros()
	if now-s.lastStepTime < s.stepInterval {
		return false
	}
	if s.dirForward {
		s.position++
	} else {
		s.position--
	}
	s.driver.Step()
	s.lastStepTime = now
	return true
}

// computeNewSpeed recalculates the step interval after a step, a target
// change or a limit change.
func (s *Stepper) computeNewSpeed() {
	distanceTo := s.target - s.position
	stepsToStop := int64(s.speed * s.speed / (2.0 * s.accel))

	if distanceTo == 0 && stepsToStop <= 1 {
		// At the target and essentially stopped.
		s.stepInterval = 0
		s.speed = 0
		s.n = 0
		return
	}

	if distanceTo > 0 {
		if s.n > 0 {
			// Accelerating or cruising: start braking if we are
			// inside the stopping distance or moving the wrong way.
			if stepsToStop >= distanceTo || !s.dirForward {
				s.n = -stepsToStop
			}
		} else if s.n < 0 {
			// Braking: resume accelerating if there is room again.
			if stepsToStop < distanceTo && s.dirForward {
				s.n = -s.n
			}
		}
	} else if distanceTo < 0 {
		if s.n > 0 {
			if stepsToStop >= -distanceTo || s.dirForward {
				s.n = -stepsToStop
			}
		} else if s.n < 0 {
			if stepsToStop < -distanceTo && !s.dirForward {
				s.n = -s.n
			}
		}
	}

	if s.n == 0 {
		// First step from standstill.
		s.cn = s.c0
		s.dirForward = distanceTo > 0
		s.driver.SetDirection(s.dirForward)
	} else {
		s.cn = s.cn - (2.0*s.cn)/(4.0*float64(s.n)+1.0)
		if s.cn < s.cmin {
			s.cn = s.cmin
		}
	}
	s.n++

	s.stepInterval = int64(s.cn)
	s.speed = 1e6 / s.cn
	if !s.dirForward {
		s.speed = -s.speed
	}
}
