package core

import "time"

// Clock is the time source for motion and sequencing code.
// Abstracting it keeps the control loop deterministic under test:
// production code uses the system clock, tests drive a SimClock.
type Clock interface {
	// Micros returns monotonic elapsed time in microseconds
	Micros() int64

	// Sleep blocks for the given number of milliseconds
	Sleep(ms int)
}

type systemClock struct {
	start time.Time
}

// NewSystemClock returns a Clock backed by the runtime's monotonic clock.
// Works both on the host and under TinyGo (time-since-boot).
func NewSystemClock() Clock {
	return &systemClock{start: time.Now()}
}

func (c *systemClock) Micros() int64 {
	return time.Since(c.start).Microseconds()
}

func (c *systemClock) Sleep(ms int) {
	time.Sleep(time.Duration(ms) * time.Millisecond)
}

// SimClock is a manually advanced clock for tests and the host simulator.
// Every Micros call advances time by AutoAdvance microseconds, so
// run-to-completion loops make progress without real delays.
type SimClock struct {
	Now         int64
	AutoAdvance int64
}

func (c *SimClock) Micros() int64 {
	c.Now += c.AutoAdvance
	return c.Now
}

func (c *SimClock) Sleep(ms int) {
	c.Now += int64(ms) * 1000
}
