package controller

import (
	"errors"
	"strings"

	"chessmate/core"
)

// StepDriverFactory builds the step-pulse backend for one axis. Targets
// substitute hardware-accelerated backends; nil picks the portable GPIO
// implementation.
type StepDriverFactory func(gpio core.GPIODriver) core.StepDriver

// Manager owns the whole controller: both axes, the lift and the
// command plumbing. It is strictly single-threaded: one goroutine feeds
// bytes in, and every command runs to completion before the next line is
// looked at, so an in-flight command exclusively owns the hardware.
type Manager struct {
	cfg    *MachineConfig
	clock  core.Clock
	parser *Parser

	axisX    *Axis
	axisY    *Axis
	lift     *Lift
	executor *MotionExecutor

	// Homing watchdog in milliseconds; 0 disables it and a dead limit
	// switch then hangs the control loop.
	homingTimeoutMillis int

	inputBuffer  []byte
	outputBuffer []byte

	initialized bool
}

// NewManager creates a manager for the given configuration.
func NewManager(cfg *MachineConfig, clock core.Clock) *Manager {
	return &Manager{
		cfg:                 cfg,
		clock:               clock,
		parser:              NewParser(),
		homingTimeoutMillis: 300000, // 5 minutes per axis
		inputBuffer:         make([]byte, 0, 64),
		outputBuffer:        make([]byte, 0, 256),
	}
}

// SetHomingTimeout overrides the per-axis homing watchdog. Zero disables
// it entirely.
func (m *Manager) SetHomingTimeout(ms int) {
	m.homingTimeoutMillis = ms
}

// Initialize wires the hardware: microstepping mode pins, both axes and
// the lift servo.
func (m *Manager) Initialize(gpio core.GPIODriver, servo ServoDriver, newDriver StepDriverFactory) error {
	if m.initialized {
		return errors.New("already initialized")
	}
	if newDriver == nil {
		newDriver = func(g core.GPIODriver) core.StepDriver {
			return core.NewGPIOStepDriver(g)
		}
	}

	// Fixed microstepping pattern: all mode-select lines high
	// (sixteenth-step on A4988 class drivers). Driven once, never
	// changed at runtime.
	for _, pin := range m.cfg.ModeSelectPins {
		if err := gpio.ConfigureOutput(core.GPIOPin(pin)); err != nil {
			return err
		}
		if err := gpio.SetPin(core.GPIOPin(pin), true); err != nil {
			return err
		}
	}

	axisX, err := m.buildAxis("X", m.cfg.X, gpio, newDriver)
	if err != nil {
		return err
	}
	axisY, err := m.buildAxis("Y", m.cfg.Y, gpio, newDriver)
	if err != nil {
		return err
	}

	m.axisX = axisX
	m.axisY = axisY
	m.lift = NewLift(servo, m.clock, m.cfg.Lift)
	m.executor = NewMotionExecutor(m.cfg.Interleave)
	m.initialized = true
	return nil
}

func (m *Manager) buildAxis(name string, cfg AxisConfig, gpio core.GPIODriver, newDriver StepDriverFactory) (*Axis, error) {
	driver := newDriver(gpio)
	if err := driver.Init(core.GPIOPin(cfg.StepPin), core.GPIOPin(cfg.DirPin)); err != nil {
		return nil, err
	}
	sw, err := core.NewSwitch(gpio, core.GPIOPin(cfg.SwitchPin), cfg.InvertSwitch)
	if err != nil {
		return nil, err
	}
	return NewAxis(name, cfg, core.NewStepper(driver, m.clock), sw), nil
}

// AxisX returns the X axis.
func (m *Manager) AxisX() *Axis { return m.axisX }

// AxisY returns the Y axis.
func (m *Manager) AxisY() *Axis { return m.axisY }

// Start emits the startup banner.
func (m *Manager) Start() error {
	if !m.initialized {
		return errors.New("manager not initialized")
	}
	m.SendResponse("Ready for commands\n")
	return nil
}

// ProcessByte consumes one byte of serial input. On a line terminator
// the accumulated line is dispatched; every nonempty line is answered
// with exactly one "Done!" once dispatch returns, recognized or not.
// Empty lines produce no output at all.
func (m *Manager) ProcessByte(b byte) {
	if b != '\n' && b != '\r' {
		m.inputBuffer = append(m.inputBuffer, b)
		return
	}

	line := string(m.inputBuffer)
	m.inputBuffer = m.inputBuffer[:0]

	trimmed := strings.TrimSpace(line)
	if len(trimmed) == 0 {
		return
	}

	if err := m.ProcessLine(trimmed); err != nil {
		// No error channel on the wire: the host infers failure
		// from missing status lines within its own timeout.
		core.DebugPrintln("dispatch: " + err.Error())
	}
	m.SendResponse("Done!\n")
}

// ProcessLine classifies and dispatches a single command line, blocking
// until the action has run to completion.
func (m *Manager) ProcessLine(line string) error {
	if !m.initialized {
		return errors.New("manager not initialized")
	}

	cmd := m.parser.ParseLine(line)

	switch cmd.Kind {
	case CmdHome:
		return m.homeAll()

	case CmdRaise:
		m.SendResponse("Raising Servo...\n")
		return m.lift.Raise()

	case CmdLower:
		m.SendResponse("Lowering Servo...\n")
		return m.lift.Lower()

	case CmdMove:
		m.SendResponse("Moving X: " + core.Itoa(cmd.UnitsX) +
			" units, Y: " + core.Itoa(cmd.UnitsY) + " units...\n")
		deltas := []int64{
			m.axisX.StepsForUnits(cmd.UnitsX),
			m.axisY.StepsForUnits(cmd.UnitsY),
		}
		m.executor.Execute([]*Axis{m.axisX, m.axisY}, deltas)
		return nil
	}

	// Unrecognized lines fall through silently.
	return nil
}

// homeAll homes X fully, then Y. There is no interleaving between axes
// during homing.
func (m *Manager) homeAll() error {
	for _, axis := range []*Axis{m.axisX, m.axisY} {
		seq := NewHomingSequencer(axis, m.clock, m.statusLine)
		if err := seq.Home(m.homingTimeoutMillis); err != nil {
			return err
		}
	}
	m.SendResponse("All axes homed and offsets set!\n")
	return nil
}

func (m *Manager) statusLine(s string) {
	m.SendResponse(s + "\n")
}

// SendResponse queues a line of output for the host.
func (m *Manager) SendResponse(response string) {
	m.outputBuffer = append(m.outputBuffer, []byte(response)...)
}

// GetOutput returns any pending output and clears the buffer.
func (m *Manager) GetOutput() []byte {
	if len(m.outputBuffer) == 0 {
		return nil
	}

	output := make([]byte, len(m.outputBuffer))
	copy(output, m.outputBuffer)
	m.outputBuffer = m.outputBuffer[:0]
	return output
}
