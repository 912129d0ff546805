// Package device wires the motion core to the line-oriented command
// transport. The Manager is the device-side dispatcher: it owns one axis,
// parses incoming command lines and runs exactly one sequence at a time to
// completion. Bytes arriving during a sequence are simply not read until the
// sequence returns.
package device

import (
	"errors"
	"io"

	"linaxis/core"
	"linaxis/protocol"
)

// maxLineLen bounds command line accumulation in ProcessByte.
const maxLineLen = 128

// Manager dispatches commands onto a single axis.
type Manager struct {
	axis    *core.Axis
	monitor *core.ContactMonitor
	out     *protocol.Writer
	lineBuf []byte
}

// NewManager builds the contact monitor and axis from cfg on top of the
// given GPIO driver, reporting on out.
func NewManager(cfg *Config, gpio core.GPIODriver, out io.Writer) (*Manager, error) {
	w := protocol.NewWriter(out)

	monitor, err := core.NewContactMonitor(gpio, core.GPIOPin(cfg.ContactPin), cfg.ContactTriggerHigh)
	if err != nil {
		return nil, err
	}

	axis, err := core.NewAxis(gpio, monitor, w, core.Config{
		StepPin:         core.GPIOPin(cfg.StepPin),
		DirPin:          core.GPIOPin(cfg.DirPin),
		EnablePin:       core.GPIOPin(cfg.EnablePin),
		ResolutionMm:    cfg.ResolutionMm,
		StepDelayMicros: cfg.StepDelayMicros,
		SettleMicros:    cfg.SettleMicros,
		StepsPerJog:     cfg.StepsPerJog,
		MaxTravelMm:     cfg.MaxTravelMm,
		InvertEnable:    cfg.InvertEnable,
		Delay:           cfg.Delay,
	})
	if err != nil {
		return nil, err
	}

	return &Manager{
		axis:    axis,
		monitor: monitor,
		out:     w,
		lineBuf: make([]byte, 0, maxLineLen),
	}, nil
}

// Monitor exposes the contact monitor so the platform can wire its edge
// source (hardware interrupt or polling goroutine) to OnEdge.
func (m *Manager) Monitor() *core.ContactMonitor {
	return m.monitor
}

// Axis exposes the axis for inspection.
func (m *Manager) Axis() *core.Axis {
	return m.axis
}

// ProcessLine handles one complete command line. It blocks until the
// dispatched sequence finishes.
func (m *Manager) ProcessLine(line string) {
	cmd := protocol.ParseCommand(line)

	switch cmd.Kind {
	case protocol.KindCalibrate:
		// AlreadyInContact and CalibrationTimeout are fully reported by the
		// sequence itself; neither needs an extra line here.
		m.axis.Calibrate()

	case protocol.KindTarget:
		m.reportIfNotCalibrated(m.axis.MoveTo(cmd.TargetMm))

	case protocol.KindManualReady:
		m.axis.SetJogMode(true)

	case protocol.KindManualComplete:
		m.axis.SetJogMode(false)
		m.out.Status(protocol.StatusManualComplete)

	case protocol.KindManualCW:
		if m.axis.JogMode() {
			m.reportIfNotCalibrated(m.axis.Jog(core.AwayFromStop))
		}

	case protocol.KindManualCCW:
		if m.axis.JogMode() {
			m.reportIfNotCalibrated(m.axis.Jog(core.TowardStop))
		}

	case protocol.KindManualStop:
		m.axis.ReportPosition()

	case protocol.KindRest:
		m.axis.Rest()

	default:
		if cmd.Raw != "" {
			m.out.UnknownCommand(cmd.Raw)
		}
	}
}

// ProcessByte accumulates serial input a byte at a time and dispatches on
// line endings. Overlong lines are truncated to maxLineLen.
func (m *Manager) ProcessByte(b byte) {
	if b == '\n' || b == '\r' {
		if len(m.lineBuf) > 0 {
			line := string(m.lineBuf)
			m.lineBuf = m.lineBuf[:0]
			m.ProcessLine(line)
		}
		return
	}
	if len(m.lineBuf) < maxLineLen {
		m.lineBuf = append(m.lineBuf, b)
	}
}

func (m *Manager) reportIfNotCalibrated(err error) {
	if errors.Is(err, core.ErrNotCalibrated) {
		m.out.Error(protocol.ErrorNotCalibrated)
	}
}
