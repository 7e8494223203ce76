package core

// StepDriver defines the hardware abstraction for step pulse generation.
// Implementations can use plain GPIO toggling, RP2040 PIO, or a recorder
// in tests.
type StepDriver interface {
	// Init initializes the stepper hardware
	// stepPin: GPIO pin for step pulses
	// dirPin: GPIO pin for direction signal
	Init(stepPin, dirPin GPIOPin) error

	// Step generates a single step pulse
	// Must handle pulse width timing internally
	Step()

	// SetDirection sets the direction output
	// dir: true = toward positive positions, false = toward negative
	SetDirection(dir bool)

	// Stop immediately halts stepping
	Stop()

	// Name returns the backend implementation name
	Name() string
}

// GPIOStepDriver is the portable StepDriver built on the GPIO HAL.
// Pulse width comes from the two writes back to back, which is enough
// for A4988/DRV8825 class drivers at the step rates this machine uses.
type GPIOStepDriver struct {
	gpio    GPIODriver
	stepPin GPIOPin
	dirPin  GPIOPin
}

// NewGPIOStepDriver creates a GPIO-based step driver.
func NewGPIOStepDriver(gpio GPIODriver) *GPIOStepDriver {
	return &GPIOStepDriver{gpio: gpio}
}

func (d *GPIOStepDriver) Init(stepPin, dirPin GPIOPin) error {
	d.stepPin = stepPin
	d.dirPin = dirPin

	if err := d.gpio.ConfigureOutput(stepPin); err != nil {
		return err
	}
	if err := d.gpio.ConfigureOutput(dirPin); err != nil {
		return err
	}

	d.gpio.SetPin(stepPin, false)
	d.gpio.SetPin(dirPin, false)
	return nil
}

func (d *GPIOStepDriver) Step() {
	d.gpio.SetPin(d.stepPin, true)
	d.gpio.SetPin(d.stepPin, false)
}

func (d *GPIOStepDriver) SetDirection(dir bool) {
	d.gpio.SetPin(d.dirPin, dir)
}

func (d *GPIOStepDriver) Stop() {}

func (d *GPIOStepDriver) Name() string {
	return "GPIO"
}
