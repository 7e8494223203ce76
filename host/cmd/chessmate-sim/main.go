package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"chessmate/controller"
	"chessmate/controller/config"
	"chessmate/core"
)

var verbose = flag.Bool("verbose", false, "Print bench state after each command")

// chessmate-sim runs the full controller against a simulated gantry on
// stdin/stdout, so command sequences from the host planner can be
// rehearsed without hardware. Time is simulated: homing and moves
// complete instantly.
func main() {
	flag.Parse()

	cfg := config.DefaultGantryConfig()

	// 20 simulated microseconds pass per clock poll, so the
	// run-to-completion loops finish in a few thousand iterations.
	clock := &core.SimClock{AutoAdvance: 20}

	benchX := newBenchAxis("X", 1800)
	benchY := newBenchAxis("Y", 2600)

	gpio := newBenchGPIO()
	gpio.bindSwitch(core.GPIOPin(cfg.X.SwitchPin), benchX)
	gpio.bindSwitch(core.GPIOPin(cfg.Y.SwitchPin), benchY)

	servo := &benchServo{angle: cfg.Lift.LoweredAngle}

	// Axes are built in X, Y order.
	benches := []*benchAxis{benchX, benchY}
	next := 0
	factory := func(core.GPIODriver) core.StepDriver {
		bench := benches[next]
		next++
		return bench
	}

	mgr := controller.NewManager(cfg, clock)
	if err := mgr.Initialize(gpio, servo, factory); err != nil {
		fmt.Fprintf(os.Stderr, "Error: init failed: %v\n", err)
		os.Exit(1)
	}

	mgr.Start()
	flush(mgr)

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		for _, b := range scanner.Bytes() {
			mgr.ProcessByte(b)
		}
		mgr.ProcessByte('\n')
		flush(mgr)

		if *verbose {
			fmt.Fprintf(os.Stderr, "[sim] posX=%d posY=%d benchX=%d benchY=%d servo=%d\n",
				mgr.AxisX().Stepper.CurrentPosition(),
				mgr.AxisY().Stepper.CurrentPosition(),
				benchX.pos, benchY.pos, servo.angle)
		}
	}
}

func flush(mgr *controller.Manager) {
	if out := mgr.GetOutput(); out != nil {
		os.Stdout.Write(out)
	}
}
