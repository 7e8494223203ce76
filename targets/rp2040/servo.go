//go:build rp2040

package main

import (
	"machine"

	"tinygo.org/x/drivers/servo"
)

// liftServo adapts the drivers servo to controller.ServoDriver.
// The lift signal pin (GPIO9) sits on PWM slice 4 channel B.
type liftServo struct {
	servo servo.Servo
}

func newLiftServo(pin machine.Pin) (*liftServo, error) {
	s, err := servo.New(machine.PWM4, pin)
	if err != nil {
		return nil, err
	}
	return &liftServo{servo: s}, nil
}

func (l *liftServo) SetAngle(degrees int) error {
	return l.servo.SetAngle(degrees)
}
