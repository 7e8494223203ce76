//go:build rp2040

package main

import (
	"machine"
	"time"

	"chessmate/controller"
	"chessmate/controller/config"
	"chessmate/core"
)

func main() {
	// Give USB CDC a moment to enumerate before the banner goes out.
	time.Sleep(500 * time.Millisecond)

	cfg := config.DefaultGantryConfig()

	gpio := NewRPGPIODriver()
	core.SetDebugWriter(func(s string) {
		machine.Serial.Write([]byte(s + "\n"))
	})

	lift, err := newLiftServo(machine.Pin(cfg.Lift.Pin))
	if err != nil {
		core.SetDebugEnabled(true)
		core.DebugPrintln("servo init failed: " + err.Error())
		return
	}

	mgr := controller.NewManager(cfg, core.NewSystemClock())
	if err := mgr.Initialize(gpio, lift, newTargetStepDriver); err != nil {
		core.SetDebugEnabled(true)
		core.DebugPrintln("init failed: " + err.Error())
		return
	}

	mgr.Start()
	flushOutput(mgr)

	// Single-threaded control loop: block on serial input, run each
	// command to completion, write the acks, repeat. Nothing is
	// serviced while a command is in flight.
	for {
		b, err := machine.Serial.ReadByte()
		if err != nil {
			time.Sleep(time.Millisecond)
			continue
		}
		mgr.ProcessByte(b)
		flushOutput(mgr)
	}
}

func flushOutput(mgr *controller.Manager) {
	if out := mgr.GetOutput(); out != nil {
		machine.Serial.Write(out)
	}
}
