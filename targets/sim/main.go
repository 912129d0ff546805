// Simulated actuator device. A virtual carriage rides the step/direction
// pins of an in-memory GPIO model with a hard-stop at zero; the command
// protocol runs over stdin/stdout so a supervisor (or a person) can drive it
// without hardware.
package main

import (
	"bufio"
	"flag"
	"log"
	"math"
	"os"

	"linaxis/core"
	"linaxis/device"
)

var (
	configPath = flag.String("config", "", "JSON device config path (default: built-in wiring)")
	startMm    = flag.Float64("start", 10.0, "carriage distance from the hard-stop at power-on (mm)")
	fast       = flag.Bool("fast", false, "skip step dwell delays")
)

func main() {
	flag.Parse()

	cfg := device.DefaultConfig()
	if *configPath != "" {
		data, err := os.ReadFile(*configPath)
		if err != nil {
			log.Fatalf("read config: %v", err)
		}
		cfg, err = device.LoadConfig(data)
		if err != nil {
			log.Fatalf("parse config: %v", err)
		}
	}
	if *fast {
		cfg.Delay = func(uint32) {}
	}

	rig := newRig(cfg, int64(math.Round(*startMm/cfg.ResolutionMm)))

	mgr, err := device.NewManager(cfg, rig, os.Stdout)
	if err != nil {
		log.Fatalf("init device: %v", err)
	}
	rig.monitor = mgr.Monitor()

	in := bufio.NewReader(os.Stdin)
	for {
		b, err := in.ReadByte()
		if err != nil {
			return
		}
		mgr.ProcessByte(b)
	}
}

// rig is the physical model behind the GPIO pins: a carriage at some step
// count above the hard-stop, moved by rising edges on the step pin.
type rig struct {
	cfg     *device.Config
	monitor *core.ContactMonitor

	levels map[core.GPIOPin]bool

	// carriageSteps is the true physical distance from the hard-stop, which
	// the firmware does not get to see directly.
	carriageSteps int64
}

func newRig(cfg *device.Config, startSteps int64) *rig {
	return &rig{
		cfg:           cfg,
		levels:        make(map[core.GPIOPin]bool),
		carriageSteps: startSteps,
	}
}

func (r *rig) ConfigureOutput(pin core.GPIOPin) error {
	r.levels[pin] = false
	return nil
}

func (r *rig) ConfigureInputPullUp(pin core.GPIOPin) error {
	r.levels[pin] = true
	return nil
}

func (r *rig) SetPin(pin core.GPIOPin, value bool) error {
	prev := r.levels[pin]
	r.levels[pin] = value
	if pin == core.GPIOPin(r.cfg.StepPin) && value && !prev {
		r.onStepEdge()
	}
	return nil
}

func (r *rig) ReadPin(pin core.GPIOPin) bool {
	if pin == core.GPIOPin(r.cfg.ContactPin) {
		asserted := r.carriageSteps <= 0
		return asserted == r.cfg.ContactTriggerHigh
	}
	return r.levels[pin]
}

func (r *rig) onStepEdge() {
	enabled := r.levels[core.GPIOPin(r.cfg.EnablePin)] == r.cfg.InvertEnable
	if !enabled {
		return
	}

	if r.levels[core.GPIOPin(r.cfg.DirPin)] {
		r.carriageSteps++
		return
	}

	// The hard-stop absorbs further toward-stop steps; the first arrival
	// fires the falling-edge contact event.
	if r.carriageSteps > 0 {
		r.carriageSteps--
		if r.carriageSteps == 0 && r.monitor != nil {
			r.monitor.OnEdge()
		}
	}
}
