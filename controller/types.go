package controller

// AxisConfig describes one linear drive of the gantry.
type AxisConfig struct {
	StepPin      uint32 `json:"step_pin"`
	DirPin       uint32 `json:"dir_pin"`
	SwitchPin    uint32 `json:"switch_pin"`    // limit switch input, pulled up, active low
	InvertSwitch bool   `json:"invert_switch"` // flip the switch reading

	StepsPerUnit int64 `json:"steps_per_unit"` // board-move units to steps

	MaxSpeed float64 `json:"max_speed"` // cruise speed for normal moves (steps/s)
	Accel    float64 `json:"accel"`     // acceleration for normal moves (steps/s^2)

	// Homing profile
	HomeDir         int     `json:"home_dir"` // -1 or +1, direction toward the switch
	HomeOffsetSteps int64   `json:"home_offset_steps"`
	SeekSpeed       float64 `json:"seek_speed"`  // first fast approach
	SeekAccel       float64 `json:"seek_accel"`
	CreepSpeed      float64 `json:"creep_speed"` // slow re-approach
	CreepAccel      float64 `json:"creep_accel"`
	SeekTravelSteps int64   `json:"seek_travel_steps"` // very large seek target
	BackoffSteps    int64   `json:"backoff_steps"`
	ReapproachSteps int64   `json:"reapproach_steps"`
	SettleMillis    int     `json:"settle_millis"`
}

// LiftConfig describes the piece-lift servo.
type LiftConfig struct {
	Pin             uint32 `json:"pin"`
	RaisedAngle     int    `json:"raised_angle"`  // gripper up
	LoweredAngle    int    `json:"lowered_angle"` // gripper down
	StepDegrees     int    `json:"step_degrees"`
	StepDelayMillis int    `json:"step_delay_millis"`
}

// MachineConfig is the complete gantry configuration. It is fixed at
// build time: targets compile in DefaultGantryConfig, optionally
// overridden by an embedded JSON blob.
type MachineConfig struct {
	X    AxisConfig `json:"x"`
	Y    AxisConfig `json:"y"`
	Lift LiftConfig `json:"lift"`

	// Microstepping mode-select outputs, driven once at startup to a
	// fixed all-high pattern (sixteenth-step on A4988 class drivers).
	ModeSelectPins []uint32 `json:"mode_select_pins"`

	// Interleave runs both axes of a combined move simultaneously
	// instead of X-then-Y. Off by default to match the established
	// host expectations.
	Interleave bool `json:"interleave"`
}

// CommandKind classifies one input line.
type CommandKind int

const (
	CmdUnknown CommandKind = iota
	CmdHome
	CmdRaise
	CmdLower
	CmdMove
)

func (k CommandKind) String() string {
	switch k {
	case CmdHome:
		return "home"
	case CmdRaise:
		return "raise"
	case CmdLower:
		return "lower"
	case CmdMove:
		return "move"
	default:
		return "unknown"
	}
}

// Command is one parsed input line. It lives only for the duration of
// a single dispatch.
type Command struct {
	Raw  string
	Kind CommandKind

	// Move operands in board units; absent fields stay 0.
	UnitsX int64
	UnitsY int64
}
