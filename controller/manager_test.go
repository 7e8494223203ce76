package controller_test

import (
	"strings"
	"testing"

	"chessmate/controller"
	"chessmate/controller/config"
	"chessmate/core"
)

// benchStepDriver is a step backend that tracks a simulated carriage
// position instead of toggling pins.
type benchStepDriver struct {
	pos int64
	dir bool
}

func (d *benchStepDriver) Init(stepPin, dirPin core.GPIOPin) error { return nil }
func (d *benchStepDriver) SetDirection(dir bool)                   { d.dir = dir }
func (d *benchStepDriver) Stop()                                   {}
func (d *benchStepDriver) Name() string                            { return "bench" }

func (d *benchStepDriver) Step() {
	if d.dir {
		d.pos++
	} else {
		d.pos--
	}
}

// benchGPIO satisfies the GPIO HAL. Input pins can be bound to a
// closure; unbound inputs idle high (pull-up, switch released).
type benchGPIO struct {
	levels map[core.GPIOPin]bool
	binds  map[core.GPIOPin]func() bool
}

func newBenchGPIO() *benchGPIO {
	return &benchGPIO{
		levels: make(map[core.GPIOPin]bool),
		binds:  make(map[core.GPIOPin]func() bool),
	}
}

func (g *benchGPIO) ConfigureOutput(pin core.GPIOPin) error      { return nil }
func (g *benchGPIO) ConfigureInputPullUp(pin core.GPIOPin) error { return nil }

func (g *benchGPIO) SetPin(pin core.GPIOPin, high bool) error {
	g.levels[pin] = high
	return nil
}

func (g *benchGPIO) ReadPin(pin core.GPIOPin) bool {
	if pressed, ok := g.binds[pin]; ok {
		return !pressed() // active low
	}
	return true
}

// bench wires a manager to simulated hardware. The limit switches press
// while the corresponding carriage position is at or below zero.
type bench struct {
	mgr    *controller.Manager
	clock  *core.SimClock
	servo  *benchServo
	driveX *benchStepDriver
	driveY *benchStepDriver
}

type benchServo struct {
	angles []int
}

func (s *benchServo) SetAngle(degrees int) error {
	s.angles = append(s.angles, degrees)
	return nil
}

func newBench(t *testing.T, startX, startY int64, withSwitches bool) *bench {
	t.Helper()

	cfg := config.DefaultGantryConfig()
	clock := &core.SimClock{AutoAdvance: 50}
	gpio := newBenchGPIO()
	servo := &benchServo{}

	var drives []*benchStepDriver
	factory := func(core.GPIODriver) core.StepDriver {
		d := &benchStepDriver{}
		drives = append(drives, d)
		return d
	}

	mgr := controller.NewManager(cfg, clock)
	if err := mgr.Initialize(gpio, servo, factory); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if len(drives) != 2 {
		t.Fatalf("factory built %d drives, want 2", len(drives))
	}

	driveX, driveY := drives[0], drives[1]
	driveX.pos = startX
	driveY.pos = startY
	if withSwitches {
		gpio.binds[core.GPIOPin(cfg.X.SwitchPin)] = func() bool { return driveX.pos <= 0 }
		gpio.binds[core.GPIOPin(cfg.Y.SwitchPin)] = func() bool { return driveY.pos <= 0 }
	}

	return &bench{mgr: mgr, clock: clock, servo: servo, driveX: driveX, driveY: driveY}
}

// feed pushes a full command line, terminator included, through the
// byte interface and returns everything the firmware wrote back.
func (b *bench) feed(line string) string {
	for i := 0; i < len(line); i++ {
		b.mgr.ProcessByte(line[i])
	}
	b.mgr.ProcessByte('\n')
	return string(b.mgr.GetOutput())
}

func TestStartPrintsBanner(t *testing.T) {
	b := newBench(t, 0, 0, true)
	if err := b.mgr.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if got := string(b.mgr.GetOutput()); got != "Ready for commands\n" {
		t.Errorf("banner = %q", got)
	}
}

func TestHomeCommandTranscript(t *testing.T) {
	b := newBench(t, 1800, 2600, true)

	want := strings.Join([]string{
		"Homing X...",
		"Axis homed",
		"Axis offset set",
		"Homing Y...",
		"Axis homed",
		"Axis offset set",
		"All axes homed and offsets set!",
		"Done!",
	}, "\n") + "\n"
	if got := b.feed("home"); got != want {
		t.Errorf("home transcript:\ngot  %q\nwant %q", got, want)
	}

	if got := b.mgr.AxisX().Stepper.CurrentPosition(); got != 500 {
		t.Errorf("X position after homing = %d, want 500", got)
	}
	if got := b.mgr.AxisY().Stepper.CurrentPosition(); got != 1500 {
		t.Errorf("Y position after homing = %d, want 1500", got)
	}
}

func TestMoveCommandScalesUnitsToSteps(t *testing.T) {
	b := newBench(t, 0, 0, false)

	got := b.feed("X:2 Y:-1")
	want := "Moving X: 2 units, Y: -1 units...\nDone!\n"
	if got != want {
		t.Errorf("move output = %q, want %q", got, want)
	}

	if b.driveX.pos != 2*575 {
		t.Errorf("X moved %d steps, want %d", b.driveX.pos, 2*575)
	}
	if b.driveY.pos != -1155 {
		t.Errorf("Y moved %d steps, want %d", b.driveY.pos, -1155)
	}
}

func TestMoveCommandToleratesSpacedFields(t *testing.T) {
	// The long-standing host writes "X: 1 Y: 1".
	b := newBench(t, 0, 0, false)

	got := b.feed("X: 1 Y: 1")
	want := "Moving X: 1 units, Y: 1 units...\nDone!\n"
	if got != want {
		t.Errorf("move output = %q, want %q", got, want)
	}
	if b.driveX.pos != 575 || b.driveY.pos != 1155 {
		t.Errorf("bench positions = (%d, %d), want (575, 1155)", b.driveX.pos, b.driveY.pos)
	}
}

func TestUnknownLineStillAcknowledged(t *testing.T) {
	b := newBench(t, 0, 0, true)

	if got := b.feed("PROMOTE:Q"); got != "Done!\n" {
		t.Errorf("unknown line output = %q, want %q", got, "Done!\n")
	}
	if b.driveX.pos != 0 || b.driveY.pos != 0 {
		t.Errorf("unknown line moved the gantry: (%d, %d)", b.driveX.pos, b.driveY.pos)
	}
}

func TestEmptyLineProducesNoOutput(t *testing.T) {
	b := newBench(t, 0, 0, true)

	b.mgr.ProcessByte('\n')
	b.mgr.ProcessByte('\r')
	if got := b.mgr.GetOutput(); got != nil {
		t.Errorf("empty lines produced output %q", got)
	}
}

func TestRaiseCommandSweepsServo(t *testing.T) {
	b := newBench(t, 0, 0, true)

	if got := b.feed("raise"); got != "Raising Servo...\nDone!\n" {
		t.Errorf("raise output = %q", got)
	}
	if len(b.servo.angles) != 121 {
		t.Fatalf("servo commanded %d times, want 121", len(b.servo.angles))
	}
	if first, last := b.servo.angles[0], b.servo.angles[120]; first != 180 || last != 60 {
		t.Errorf("raise sweep endpoints = (%d, %d), want (180, 60)", first, last)
	}

	if got := b.feed("lower"); got != "Lowering Servo...\nDone!\n" {
		t.Errorf("lower output = %q", got)
	}
	if last := b.servo.angles[len(b.servo.angles)-1]; last != 180 {
		t.Errorf("final angle after lower = %d, want 180", last)
	}
}

func TestHomingTimeoutKeepsControllerResponsive(t *testing.T) {
	// No switch bindings: the limit switches never press.
	b := newBench(t, 1000, 1000, false)
	b.mgr.SetHomingTimeout(500)

	if got := b.feed("home"); got != "Homing X...\nDone!\n" {
		t.Errorf("timed-out home output = %q", got)
	}
	if b.mgr.AxisX().Stepper.IsRunning() {
		t.Errorf("X still running after homing timeout")
	}

	// The controller must keep serving commands afterwards.
	if got := b.feed("X:1 Y:0"); got != "Moving X: 1 units, Y: 0 units...\nDone!\n" {
		t.Errorf("post-timeout move output = %q", got)
	}
}
