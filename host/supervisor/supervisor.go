// Package supervisor implements the host-side controller for the actuator
// device. It owns the serial link, tracks the device's reported position,
// and runs a small state machine (Rest, Calibration, Manual Control, Target
// Distance) that mirrors what the device is currently doing. Terminal status
// lines and device errors return the supervisor to Rest.
package supervisor

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"linaxis/host/serial"
	"linaxis/protocol"
)

// State is the supervisor's view of the device.
type State string

const (
	StateRest           State = "Rest"
	StateCalibration    State = "Calibration"
	StateManualControl  State = "Manual Control"
	StateTargetDistance State = "Target Distance"
)

// Callbacks are optional observer hooks. They are invoked from the reader
// goroutine and must not call back into the Supervisor synchronously.
type Callbacks struct {
	OnState      func(State)
	OnPosition   func(mm float64)
	OnWarning    func(name string)
	OnError      func(name string)
	OnDisconnect func()
}

// Supervisor drives one actuator device over a serial port.
type Supervisor struct {
	port serial.Port
	cb   Callbacks
	log  *logrus.Entry

	mu            sync.Mutex
	state         State
	positionMm    float64
	positionKnown bool

	done chan struct{}
}

// New wraps an open port. Call Start to launch the reader loop.
func New(port serial.Port, cb Callbacks) *Supervisor {
	return &Supervisor{
		port:  port,
		cb:    cb,
		log:   logrus.WithField("component", "supervisor"),
		state: StateRest,
		done:  make(chan struct{}),
	}
}

// Start launches the background reader loop.
func (s *Supervisor) Start() {
	go s.readLoop()
}

// Close closes the port and waits for the reader loop to drain.
func (s *Supervisor) Close() error {
	err := s.port.Close()
	<-s.done
	return errors.Wrap(err, "close port")
}

// State returns the current supervisor state.
func (s *Supervisor) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Position returns the last reported device position and whether one has
// been reported since connecting.
func (s *Supervisor) Position() (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.positionMm, s.positionKnown
}

// Calibrate asks the device to home against its hard-stop.
func (s *Supervisor) Calibrate() error {
	return s.begin(StateCalibration, "CALIBRATE")
}

// MoveTo asks the device to move to an absolute position in millimeters.
func (s *Supervisor) MoveTo(mm float64) error {
	return s.begin(StateTargetDistance, fmt.Sprintf("TARGET:%.6f", mm))
}

// ManualMode takes exclusive jog control of the device.
func (s *Supervisor) ManualMode() error {
	return s.begin(StateManualControl, "MANUAL:READY")
}

// JogCW jogs one batch away from the hard-stop. Requires manual mode.
func (s *Supervisor) JogCW() error {
	return s.jog("MANUAL:CW")
}

// JogCCW jogs one batch toward the hard-stop. Requires manual mode.
func (s *Supervisor) JogCCW() error {
	return s.jog("MANUAL:CCW")
}

// JogStop queries the device position without moving. Valid in any state.
func (s *Supervisor) JogStop() error {
	return s.send("MANUAL:STOP")
}

// Rest returns the device to its de-energized rest state. Leaving manual
// control releases the jog gate first.
func (s *Supervisor) Rest() error {
	s.mu.Lock()
	inManual := s.state == StateManualControl
	s.mu.Unlock()

	if inManual {
		if err := s.send("MANUAL:COMPLETE"); err != nil {
			return err
		}
	}
	s.setState(StateRest)
	return s.send("REST")
}

// begin transitions Rest → next and sends the command that starts the
// corresponding device sequence.
func (s *Supervisor) begin(next State, cmd string) error {
	s.mu.Lock()
	if s.state != StateRest {
		state := s.state
		s.mu.Unlock()
		return errors.Errorf("cannot enter %s while in %s", next, state)
	}
	s.mu.Unlock()

	s.setState(next)
	return s.send(cmd)
}

func (s *Supervisor) jog(cmd string) error {
	s.mu.Lock()
	ok := s.state == StateManualControl
	s.mu.Unlock()
	if !ok {
		return errors.New("not in manual control")
	}
	return s.send(cmd)
}

func (s *Supervisor) send(cmd string) error {
	s.log.WithField("command", cmd).Debug("sending")
	_, err := io.WriteString(s.port, cmd+"\n")
	return errors.Wrapf(err, "send %q", cmd)
}

func (s *Supervisor) setState(next State) {
	s.mu.Lock()
	if s.state == next {
		s.mu.Unlock()
		return
	}
	s.state = next
	s.mu.Unlock()

	s.log.WithField("state", next).Info("state changed")
	if s.cb.OnState != nil {
		s.cb.OnState(next)
	}
}

// toRest mirrors the device returning control: any terminal status or device
// error drops the supervisor back to Rest and parks the device.
func (s *Supervisor) toRest() {
	s.mu.Lock()
	atRest := s.state == StateRest
	s.mu.Unlock()
	if atRest {
		return
	}

	s.setState(StateRest)
	if err := s.send("REST"); err != nil {
		s.log.WithError(err).Warn("failed to park device")
	}
}

func (s *Supervisor) readLoop() {
	defer close(s.done)

	scanner := bufio.NewScanner(s.port)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		s.handleResponse(protocol.ParseResponse(line))
	}

	if err := scanner.Err(); err != nil {
		s.log.WithError(err).Debug("reader loop ended")
	}
	if s.cb.OnDisconnect != nil {
		s.cb.OnDisconnect()
	}
}

func (s *Supervisor) handleResponse(resp protocol.Response) {
	switch resp.Kind {
	case protocol.RespPosition:
		s.mu.Lock()
		s.positionMm = resp.Position
		s.positionKnown = true
		s.mu.Unlock()
		if s.cb.OnPosition != nil {
			s.cb.OnPosition(resp.Position)
		}

	case protocol.RespPositionUnknown:
		s.mu.Lock()
		s.positionKnown = false
		s.mu.Unlock()

	case protocol.RespStatus:
		s.log.WithField("status", resp.Name).Debug("device status")
		switch resp.Name {
		case protocol.StatusCalibrationComplete,
			protocol.StatusCalibrationTimeout,
			protocol.StatusTargetComplete,
			protocol.StatusManualComplete:
			s.toRest()
		}

	case protocol.RespError:
		s.log.WithField("error", resp.Name).Warn("device error")
		s.toRest()
		if s.cb.OnError != nil {
			s.cb.OnError(resp.Name)
		}

	case protocol.RespWarning:
		s.log.WithField("warning", resp.Name).Warn("device warning")
		if s.cb.OnWarning != nil {
			s.cb.OnWarning(resp.Name)
		}

	default:
		s.log.WithField("line", resp.Raw).Debug("device output")
	}
}
