package config

import (
	"encoding/json"

	"chessmate/controller"
)

// LoadConfig parses a JSON configuration blob and returns a MachineConfig
func LoadConfig(jsonData []byte) (*controller.MachineConfig, error) {
	var cfg controller.MachineConfig

	err := json.Unmarshal(jsonData, &cfg)
	if err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	return &cfg, nil
}

// applyDefaults fills in missing configuration values with sensible defaults
func applyDefaults(cfg *controller.MachineConfig) {
	applyAxisDefaults(&cfg.X)
	applyAxisDefaults(&cfg.Y)

	if cfg.Lift.RaisedAngle == 0 && cfg.Lift.LoweredAngle == 0 {
		cfg.Lift.RaisedAngle = 60
		cfg.Lift.LoweredAngle = 180
	}
	if cfg.Lift.StepDegrees == 0 {
		cfg.Lift.StepDegrees = 1
	}
	if cfg.Lift.StepDelayMillis == 0 {
		cfg.Lift.StepDelayMillis = 15
	}
}

func applyAxisDefaults(axis *controller.AxisConfig) {
	if axis.MaxSpeed == 0 {
		axis.MaxSpeed = 1000.0
	}
	if axis.Accel == 0 {
		axis.Accel = 500.0
	}
	if axis.HomeDir == 0 {
		axis.HomeDir = -1
	}
	if axis.SeekSpeed == 0 {
		axis.SeekSpeed = 800.0
	}
	if axis.SeekAccel == 0 {
		axis.SeekAccel = 1000.0
	}
	if axis.CreepSpeed == 0 {
		axis.CreepSpeed = 100.0
	}
	if axis.CreepAccel == 0 {
		axis.CreepAccel = 1000.0
	}
	if axis.SeekTravelSteps == 0 {
		axis.SeekTravelSteps = 100000
	}
	if axis.BackoffSteps == 0 {
		axis.BackoffSteps = 10
	}
	if axis.ReapproachSteps == 0 {
		axis.ReapproachSteps = 20
	}
	if axis.SettleMillis == 0 {
		axis.SettleMillis = 50
	}
}

// DefaultGantryConfig returns the compiled-in configuration for the
// two-axis chess gantry. Pin numbers follow the rp2040 carrier wiring.
func DefaultGantryConfig() *controller.MachineConfig {
	cfg := &controller.MachineConfig{
		X: controller.AxisConfig{
			StepPin:         2,
			DirPin:          3,
			SwitchPin:       10,
			StepsPerUnit:    575,
			HomeOffsetSteps: 500,
		},
		Y: controller.AxisConfig{
			StepPin:         4,
			DirPin:          5,
			SwitchPin:       11,
			StepsPerUnit:    1155,
			HomeOffsetSteps: 1500,
		},
		Lift: controller.LiftConfig{
			Pin: 9,
		},
		ModeSelectPins: []uint32{6, 7, 8},
	}
	applyDefaults(cfg)
	return cfg
}
