package controller

import "chessmate/core"

// Axis bundles one drive's stepper, limit switch and configuration.
// It lives for the whole process; only the homing sequencer and the
// motion executor mutate its position.
type Axis struct {
	Name    string
	Cfg     AxisConfig
	Stepper *core.Stepper
	Switch  core.SwitchReader
}

// NewAxis wires an axis and applies its normal motion profile.
func NewAxis(name string, cfg AxisConfig, stepper *core.Stepper, sw core.SwitchReader) *Axis {
	a := &Axis{
		Name:    name,
		Cfg:     cfg,
		Stepper: stepper,
		Switch:  sw,
	}
	a.applyRunProfile()
	return a
}

// StepsForUnits converts a signed board-move magnitude into a signed step
// count. Pure scaling, no bounds checking: over-travel is the host's
// responsibility.
func (a *Axis) StepsForUnits(units int64) int64 {
	return units * a.Cfg.StepsPerUnit
}

// applyRunProfile restores the full-speed profile used for normal moves.
func (a *Axis) applyRunProfile() {
	a.Stepper.SetMaxSpeed(a.Cfg.MaxSpeed)
	a.Stepper.SetAcceleration(a.Cfg.Accel)
}

// applySeekProfile selects the fast first-approach homing profile.
func (a *Axis) applySeekProfile() {
	a.Stepper.SetMaxSpeed(a.Cfg.SeekSpeed)
	a.Stepper.SetAcceleration(a.Cfg.SeekAccel)
}

// applyCreepProfile selects the slow re-approach homing profile.
func (a *Axis) applyCreepProfile() {
	a.Stepper.SetMaxSpeed(a.Cfg.CreepSpeed)
	a.Stepper.SetAcceleration(a.Cfg.CreepAccel)
}
