//go:build linux

// Raspberry Pi actuator device. Drives a step/dir/enable stepper driver and
// a hard-stop contact switch through the Pi's GPIO header; the command
// protocol runs over stdin/stdout so the supervisor can attach through a
// serial console or SSH pipe.
package main

import (
	"bufio"
	"flag"
	"log"
	"os"
	"time"

	"github.com/stianeikeland/go-rpio/v4"

	"linaxis/core"
	"linaxis/device"
)

// edgePollInterval is how often the latched hardware edge detector is
// drained into the contact monitor.
const edgePollInterval = time.Millisecond

var configPath = flag.String("config", "", "JSON device config path (default: built-in wiring)")

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

	if err := rpio.Open(); err != nil {
		log.Fatalf("open gpio: %v", err)
	}
	defer rpio.Close()

	mgr, err := device.NewManager(cfg, gpioDriver{}, os.Stdout)
	if err != nil {
		log.Fatalf("init device: %v", err)
	}

	go watchContactEdges(cfg, mgr.Monitor())

	in := bufio.NewReader(os.Stdin)
	for {
		b, err := in.ReadByte()
		if err != nil {
			return
		}
		mgr.ProcessByte(b)
	}
}

// watchContactEdges drains the BCM2835 edge detector into the contact
// monitor. The hardware latches edges between polls, so events are not lost
// to the polling cadence.
func watchContactEdges(cfg *device.Config, monitor *core.ContactMonitor) {
	pin := rpio.Pin(cfg.ContactPin)
	edge := rpio.FallEdge
	if cfg.ContactTriggerHigh {
		edge = rpio.RiseEdge
	}
	pin.Detect(edge)
	defer pin.Detect(rpio.NoEdge)

	for range time.Tick(edgePollInterval) {
		if pin.EdgeDetected() {
			monitor.OnEdge()
		}
	}
}

// gpioDriver implements the core GPIO HAL on go-rpio.
type gpioDriver struct{}

func (gpioDriver) ConfigureOutput(pin core.GPIOPin) error {
	p := rpio.Pin(pin)
	p.Output()
	p.Low()
	return nil
}

func (gpioDriver) ConfigureInputPullUp(pin core.GPIOPin) error {
	p := rpio.Pin(pin)
	p.Input()
	p.PullUp()
	return nil
}

func (gpioDriver) SetPin(pin core.GPIOPin, value bool) error {
	if value {
		rpio.Pin(pin).High()
	} else {
		rpio.Pin(pin).Low()
	}
	return nil
}

func (gpioDriver) ReadPin(pin core.GPIOPin) bool {
	return rpio.Pin(pin).Read() == rpio.High
}
