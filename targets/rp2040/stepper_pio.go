//go:build rp2040

package main

// PIO step-pulse backend using the tinygo-org/pio package. The PIO state
// machine times the pulse train in hardware, so step edges stay clean
// even while the control loop is busy computing the velocity profile.

import (
	"machine"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"

	"chessmate/core"
)

// PIO program for step pulse generation
// Command word format:
//
//	Bits 0-15:  pulse count (number of steps to generate)
//	Bits 16-23: delay cycles (inter-pulse spacing)
//	Bit 31:     direction (0=forward, 1=reverse)
//
// Program flow:
//  1. Pull 32-bit command from FIFO
//  2. Extract pulse count into X register
//  3. Extract delay cycles into Y register
//  4. Set direction pin
//  5. Generate X pulses with Y cycle delays between them
func buildStepperProgram() []uint16 {
	asm := rp2pio.AssemblerV0{SidesetBits: 0}
	return []uint16{
		// .wrap_target
		asm.Pull(false, true).Encode(),          // 0: pull block
		asm.Out(rp2pio.OutDestX, 16).Encode(),   // 1: out x, 16 (pulse count)
		asm.Out(rp2pio.OutDestY, 8).Encode(),    // 2: out y, 8 (delay cycles)
		asm.Out(rp2pio.OutDestPins, 1).Encode(), // 3: out pins, 1 (direction)
		// step_loop:
		asm.Set(rp2pio.SetDestPins, 1).Delay(7).Encode(), // 4: set pins, 1 [7]
		asm.Set(rp2pio.SetDestPins, 0).Encode(),          // 5: set pins, 0
		// delay_loop:
		asm.Jmp(6, rp2pio.JmpYNZeroDec).Encode(), // 6: jmp y--, 6
		asm.Jmp(4, rp2pio.JmpXNZeroDec).Encode(), // 7: jmp x--, 4
		// .wrap
	}
}

const stepperPIOOrigin = 0 // Load at offset 0 for correct jump addresses

// PIOStepDriver implements core.StepDriver on an RP2040 PIO state machine.
type PIOStepDriver struct {
	pio       *rp2pio.PIO
	sm        rp2pio.StateMachine
	pioNum    uint8
	smNum     uint8
	stepPin   machine.Pin
	dirPin    machine.Pin
	direction bool
	offset    uint8
}

// NewPIOStepDriver creates a PIO-based step driver.
// pioNum: 0 for PIO0, 1 for PIO1; smNum: 0-3 for state machine number.
func NewPIOStepDriver(pioNum, smNum uint8) *PIOStepDriver {
	pioHW := rp2pio.PIO0
	if pioNum != 0 {
		pioHW = rp2pio.PIO1
	}

	return &PIOStepDriver{
		pio:    pioHW,
		sm:     pioHW.StateMachine(smNum),
		pioNum: pioNum,
		smNum:  smNum,
	}
}

// Init loads the PIO program and claims the state machine.
func (d *PIOStepDriver) Init(stepPin, dirPin core.GPIOPin) error {
	d.stepPin = machine.Pin(stepPin)
	d.dirPin = machine.Pin(dirPin)

	// Claim the state machine before touching its registers.
	d.sm.TryClaim()

	program := buildStepperProgram()
	offset, err := d.pio.AddProgram(program, stepperPIOOrigin)
	if err != nil {
		return err
	}
	d.offset = offset

	// Hand the pins to the PIO block.
	d.stepPin.Configure(machine.PinConfig{Mode: d.pio.PinMode()})
	d.dirPin.Configure(machine.PinConfig{Mode: d.pio.PinMode()})

	cfg := rp2pio.DefaultStateMachineConfig()

	// SET pins drive the step pulse, OUT pins carry the direction bit.
	cfg.SetSetPins(d.stepPin, 1)
	cfg.SetOutPins(d.dirPin, 1)

	// Shift right, autopull disabled (the program pulls explicitly).
	cfg.SetOutShift(true, false, 32)

	// Wrap around the 8-instruction program.
	cfg.SetWrap(offset+uint8(len(program))-1, offset)

	cfg.SetClkDivIntFrac(1000, 0)

	d.sm.Init(offset, cfg)

	// Pin directions must be set after Init.
	d.sm.SetPindirsConsecutive(d.stepPin, 1, true)
	d.sm.SetPindirsConsecutive(d.dirPin, 1, true)

	d.sm.SetPinsConsecutive(d.stepPin, 1, false)
	d.sm.SetPinsConsecutive(d.dirPin, 1, false)

	d.sm.SetEnabled(true)

	return nil
}

// Step queues a single step pulse to the PIO.
func (d *PIOStepDriver) Step() {
	// count=1, delay=1, current direction
	cmd := uint32(1) | (1 << 16)
	if d.direction {
		cmd |= (1 << 31)
	}

	for d.sm.IsTxFIFOFull() {
		// Busy wait - should be very brief
	}
	d.sm.TxPut(cmd)
}

// SetDirection latches the direction bit for subsequent pulses.
func (d *PIOStepDriver) SetDirection(dir bool) {
	d.direction = dir
}

// Stop halts and restarts the state machine, discarding queued pulses.
func (d *PIOStepDriver) Stop() {
	d.sm.SetEnabled(false)
	d.sm.ClearFIFOs()
	d.sm.Restart()
	d.sm.SetEnabled(true)
}

// Name returns the backend name with its block/state-machine slot.
func (d *PIOStepDriver) Name() string {
	return "PIO" + core.Utoa(uint32(d.pioNum)) + "/SM" + core.Utoa(uint32(d.smNum))
}

// PIO state machine allocation. RP2040 has 2 PIO blocks with 4 state
// machines each; axes grab them round-robin.
var (
	pioAllocations [2][4]bool
	nextPIONum     uint8
	nextSMNum      uint8
)

// allocatePIO allocates a PIO state machine.
// Returns (pioNum, smNum, ok).
func allocatePIO() (uint8, uint8, bool) {
	for i := 0; i < 8; i++ { // 2 PIO x 4 SM
		pioNum := nextPIONum
		smNum := nextSMNum

		nextSMNum++
		if nextSMNum >= 4 {
			nextSMNum = 0
			nextPIONum = (nextPIONum + 1) % 2
		}

		if !pioAllocations[pioNum][smNum] {
			pioAllocations[pioNum][smNum] = true
			return pioNum, smNum, true
		}
	}

	return 0, 0, false
}

// newTargetStepDriver is the StepDriverFactory for this target: PIO when
// a state machine is free, plain GPIO otherwise.
func newTargetStepDriver(gpio core.GPIODriver) core.StepDriver {
	if pioNum, smNum, ok := allocatePIO(); ok {
		return NewPIOStepDriver(pioNum, smNum)
	}
	return core.NewGPIOStepDriver(gpio)
}
