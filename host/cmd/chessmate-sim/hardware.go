package main

import "chessmate/core"

// benchAxis is a simulated linear drive. It implements core.StepDriver
// and tracks the carriage position in bench frame: steps away from the
// limit switch, 0 or less meaning the switch is pressed.
type benchAxis struct {
	name string
	pos  int64
	dir  bool
}

func newBenchAxis(name string, startPos int64) *benchAxis {
	return &benchAxis{name: name, pos: startPos}
}

func (a *benchAxis) Init(stepPin, dirPin core.GPIOPin) error {
	return nil
}

func (a *benchAxis) Step() {
	if a.dir {
		a.pos++
	} else {
		a.pos--
	}
}

func (a *benchAxis) SetDirection(dir bool) {
	a.dir = dir
}

func (a *benchAxis) Stop() {}

func (a *benchAxis) Name() string {
	return "bench:" + a.name
}

func (a *benchAxis) switchPressed() bool {
	return a.pos <= 0
}

// benchGPIO is a GPIODriver whose limit-switch inputs follow the bench
// axes; every other pin is a plain latch.
type benchGPIO struct {
	levels   map[core.GPIOPin]bool
	switches map[core.GPIOPin]*benchAxis
}

func newBenchGPIO() *benchGPIO {
	return &benchGPIO{
		levels:   make(map[core.GPIOPin]bool),
		switches: make(map[core.GPIOPin]*benchAxis),
	}
}

// bindSwitch ties an input pin to an axis's virtual limit switch.
func (g *benchGPIO) bindSwitch(pin core.GPIOPin, axis *benchAxis) {
	g.switches[pin] = axis
}

func (g *benchGPIO) ConfigureOutput(pin core.GPIOPin) error {
	return nil
}

func (g *benchGPIO) ConfigureInputPullUp(pin core.GPIOPin) error {
	return nil
}

func (g *benchGPIO) SetPin(pin core.GPIOPin, value bool) error {
	g.levels[pin] = value
	return nil
}

func (g *benchGPIO) ReadPin(pin core.GPIOPin) bool {
	if axis, ok := g.switches[pin]; ok {
		return !axis.switchPressed() // active low
	}
	return g.levels[pin]
}

// benchServo records the commanded lift angle.
type benchServo struct {
	angle int
}

func (s *benchServo) SetAngle(degrees int) error {
	s.angle = degrees
	return nil
}
