package controller

import (
	"errors"
	"testing"

	"chessmate/core"
)

// benchDrive simulates a carriage: it implements core.StepDriver and
// tracks the physical position in steps from the limit switch (0 or
// less = switch pressed).
type benchDrive struct {
	pos int64
	dir bool

	// step log shared across axes for ordering assertions
	log  *[]stepEvent
	clk  *core.SimClock
	name string
}

type stepEvent struct {
	axis string
	time int64
}

func (d *benchDrive) Init(stepPin, dirPin core.GPIOPin) error { return nil }
func (d *benchDrive) SetDirection(dir bool)                   { d.dir = dir }
func (d *benchDrive) Stop()                                   {}
func (d *benchDrive) Name() string                            { return "bench" }

func (d *benchDrive) Step() {
	if d.dir {
		d.pos++
	} else {
		d.pos--
	}
	if d.log != nil {
		*d.log = append(*d.log, stepEvent{axis: d.name, time: d.clk.Now})
	}
}

func testAxisConfig() AxisConfig {
	return AxisConfig{
		StepsPerUnit:    575,
		MaxSpeed:        1000,
		Accel:           500,
		HomeDir:         -1,
		HomeOffsetSteps: 500,
		SeekSpeed:       800,
		SeekAccel:       1000,
		CreepSpeed:      100,
		CreepAccel:      1000,
		SeekTravelSteps: 100000,
		BackoffSteps:    10,
		ReapproachSteps: 20,
		SettleMillis:    50,
	}
}

// newBenchAxis builds an axis whose limit switch fires when the bench
// position reaches 0.
func newBenchAxis(name string, cfg AxisConfig, clock core.Clock, startPos int64) (*Axis, *benchDrive) {
	drive := &benchDrive{pos: startPos, name: name}
	sw := core.SwitchFunc(func() bool { return drive.pos <= 0 })
	axis := NewAxis(name, cfg, core.NewStepper(drive, clock), sw)
	return axis, drive
}

func TestHomingEstablishesOffsetOrigin(t *testing.T) {
	clock := &core.SimClock{AutoAdvance: 50}
	axis, drive := newBenchAxis("X", testAxisConfig(), clock, 1800)

	var status []string
	seq := NewHomingSequencer(axis, clock, func(s string) { status = append(status, s) })

	if err := seq.Home(0); err != nil {
		t.Fatalf("Home: %v", err)
	}

	if got := axis.Stepper.CurrentPosition(); got != 500 {
		t.Errorf("logical position = %d, want 500", got)
	}
	// The bench position should sit at the offset, give or take the
	// couple of steps of trigger-detection latency.
	if drive.pos < 495 || drive.pos > 505 {
		t.Errorf("bench position = %d, want ~500", drive.pos)
	}

	want := []string{"Homing X...", "Axis homed", "Axis offset set"}
	if len(status) != len(want) {
		t.Fatalf("status lines = %q, want %q", status, want)
	}
	for i := range want {
		if status[i] != want[i] {
			t.Errorf("status[%d] = %q, want %q", i, status[i], want[i])
		}
	}
}

func TestHomingIsIdempotent(t *testing.T) {
	clock := &core.SimClock{AutoAdvance: 50}
	axis, drive := newBenchAxis("X", testAxisConfig(), clock, 1200)

	if err := NewHomingSequencer(axis, clock, nil).Home(0); err != nil {
		t.Fatalf("first Home: %v", err)
	}
	firstBenchPos := drive.pos

	// Wander off, then home again: the origin must be a pure function
	// of the switch position, not of prior motion.
	axis.Stepper.Move(700)
	for axis.Stepper.Run() {
	}

	if err := NewHomingSequencer(axis, clock, nil).Home(0); err != nil {
		t.Fatalf("second Home: %v", err)
	}

	if diff := drive.pos - firstBenchPos; diff < -2 || diff > 2 {
		t.Errorf("bench position drifted by %d steps between homings", diff)
	}
	if got := axis.Stepper.CurrentPosition(); got != 500 {
		t.Errorf("logical position = %d, want 500", got)
	}
}

func TestHomingTimeout(t *testing.T) {
	clock := &core.SimClock{AutoAdvance: 50}
	cfg := testAxisConfig()

	drive := &benchDrive{pos: 1000}
	// Switch never triggers: broken wiring.
	sw := core.SwitchFunc(func() bool { return false })
	axis := NewAxis("X", cfg, core.NewStepper(drive, clock), sw)

	err := NewHomingSequencer(axis, clock, nil).Home(1000)
	if !errors.Is(err, ErrHomingTimeout) {
		t.Fatalf("Home = %v, want ErrHomingTimeout", err)
	}
	if axis.Stepper.IsRunning() {
		t.Error("stepper still has a pending target after timeout")
	}
}
