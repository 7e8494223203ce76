package core

// SwitchReader reports the state of a binary trigger sensor. The homing
// code only ever polls it from the single control goroutine.
type SwitchReader interface {
	// Triggered returns true while the switch is pressed
	Triggered() bool
}

// SwitchFunc adapts a plain closure to a SwitchReader, for simulated or
// derived switches.
type SwitchFunc func() bool

func (f SwitchFunc) Triggered() bool {
	return f()
}

// Switch is a limit switch read through the GPIO HAL. The input is
// configured with the internal pull-up, so the idle line reads high and
// a pressed switch pulls it low.
type Switch struct {
	gpio   GPIODriver
	pin    GPIOPin
	invert bool
}

// NewSwitch configures pin as a pulled-up input and returns the reader.
func NewSwitch(gpio GPIODriver, pin GPIOPin, invert bool) (*Switch, error) {
	if err := gpio.ConfigureInputPullUp(pin); err != nil {
		return nil, err
	}
	return &Switch{gpio: gpio, pin: pin, invert: invert}, nil
}

func (s *Switch) Triggered() bool {
	triggered := !s.gpio.ReadPin(s.pin) // active low
	if s.invert {
		triggered = !triggered
	}
	return triggered
}
