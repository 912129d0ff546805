// Single-axis linear actuator control.
// The axis is driven open-loop from a hard-stop zero reference: calibration
// finds the hard-stop, every later position is a signed step count away from
// it, converted to millimeters only for reporting.
package core

import (
	"errors"
	"math"
)

// Sentinel errors returned by motion sequences. None of them leave the axis
// in an inconsistent state; the supervisor decides whether to re-issue.
var (
	// ErrNotCalibrated rejects position-dependent sequences before homing.
	ErrNotCalibrated = errors.New("axis not calibrated")

	// ErrAlreadyInContact is informational: calibration completes trivially,
	// a toward-stop jog is refused before any pulse.
	ErrAlreadyInContact = errors.New("hard-stop contact already asserted")

	// ErrUnexpectedContact reports a mid-move safety trip. Remaining steps
	// were abandoned; the tracked position matches the pulses issued.
	ErrUnexpectedContact = errors.New("unexpected hard-stop contact during move")

	// ErrCalibrationTimeout means the hard-stop was not reached within the
	// configured travel limit. The axis stays uncalibrated.
	ErrCalibrationTimeout = errors.New("hard-stop not reached within travel limit")
)

// Direction of travel along the axis.
type Direction int

const (
	// TowardStop moves toward the hard-stop (decreasing position, CCW).
	TowardStop Direction = iota
	// AwayFromStop moves away from the hard-stop (increasing position, CW).
	AwayFromStop
)

func (d Direction) String() string {
	if d == TowardStop {
		return "toward-stop"
	}
	return "away-from-stop"
}

// Reporter receives the axis's protocol output: position reports, status
// lines and error/warning lines. Sequences call it synchronously from the
// step loop, so implementations must not block for long.
type Reporter interface {
	Position(mm float64)
	PositionUnknown()
	Status(name string)
	Error(name string)
	Warning(name string)
}

// Config holds the wiring and geometry of one axis.
type Config struct {
	StepPin   GPIOPin
	DirPin    GPIOPin
	EnablePin GPIOPin

	// ResolutionMm is the linear travel per step pulse.
	ResolutionMm float64

	// StepDelayMicros is the dwell for each half of a step pulse.
	StepDelayMicros uint32

	// SettleMicros is the delay between asserting direction/enable and the
	// first pulse of a sequence.
	SettleMicros uint32

	// StepsPerJog is the batch size of one manual jog command.
	StepsPerJog int

	// MaxTravelMm bounds calibration homing travel.
	MaxTravelMm float64

	// InvertEnable flips the enable line polarity. Default polarity is
	// active-low, as on A4988/DRV8825 class drivers.
	InvertEnable bool

	// Delay overrides the dwell primitive. Nil selects BusyDelay.
	Delay DelayFunc
}

// Axis is the process-wide axis state. It is mutated only by the sequence
// that currently owns it; sequences never run concurrently.
type Axis struct {
	gpio    GPIODriver
	monitor *ContactMonitor
	report  Reporter
	cfg     Config
	delay   DelayFunc

	positionMm float64
	calibrated bool
	jogMode    bool
}

// NewAxis configures the output pins and returns an axis with the driver
// disabled and position unknown.
func NewAxis(gpio GPIODriver, monitor *ContactMonitor, report Reporter, cfg Config) (*Axis, error) {
	if cfg.ResolutionMm <= 0 {
		return nil, errors.New("axis: resolution must be positive")
	}
	if cfg.StepsPerJog <= 0 {
		return nil, errors.New("axis: steps per jog must be positive")
	}
	if cfg.MaxTravelMm <= 0 {
		return nil, errors.New("axis: max travel must be positive")
	}
	for _, pin := range []GPIOPin{cfg.StepPin, cfg.DirPin, cfg.EnablePin} {
		if err := gpio.ConfigureOutput(pin); err != nil {
			return nil, err
		}
	}

	a := &Axis{
		gpio:    gpio,
		monitor: monitor,
		report:  report,
		cfg:     cfg,
		delay:   cfg.Delay,
	}
	if a.delay == nil {
		a.delay = BusyDelay
	}
	a.disableDriver()
	return a, nil
}

// Position returns the tracked position in millimeters and whether it is
// known (false until calibration succeeds).
func (a *Axis) Position() (float64, bool) {
	return a.positionMm, a.calibrated
}

// Calibrated reports whether the hard-stop zero reference is established.
func (a *Axis) Calibrated() bool {
	return a.calibrated
}

// SetJogMode sets the manual-control gate. The gate is supervisor-owned: it
// is never touched by error paths or other sequences.
func (a *Axis) SetJogMode(active bool) {
	a.jogMode = active
}

// JogMode reports the manual-control gate.
func (a *Axis) JogMode() bool {
	return a.jogMode
}

// ReportPosition emits the current position without moving.
func (a *Axis) ReportPosition() {
	if !a.calibrated {
		a.report.PositionUnknown()
		return
	}
	a.report.Position(a.positionMm)
}

// stepIndex quantizes a millimeter position onto the step grid,
// round-to-nearest. Differencing two step indices keeps move arithmetic
// exact in step units.
func (a *Axis) stepIndex(mm float64) int64 {
	return int64(math.Round(mm / a.cfg.ResolutionMm))
}

// maxTravelSteps is the homing travel bound: full configured travel plus a
// 10% margin for an axis parked slightly past nominal.
func (a *Axis) maxTravelSteps() int64 {
	return int64(math.Round(a.cfg.MaxTravelMm/a.cfg.ResolutionMm)) * 11 / 10
}

func (a *Axis) setDirection(d Direction) {
	// Direction line high drives away from the hard-stop.
	a.gpio.SetPin(a.cfg.DirPin, d == AwayFromStop)
}

func (a *Axis) enableDriver() {
	a.gpio.SetPin(a.cfg.EnablePin, a.cfg.InvertEnable)
}

func (a *Axis) disableDriver() {
	a.gpio.SetPin(a.cfg.EnablePin, !a.cfg.InvertEnable)
}
