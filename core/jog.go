package core

import "linaxis/protocol"

// Jog performs one fixed batch of StepsPerJog pulses in the given direction.
// The manual-control gate is the dispatcher's concern; Jog assumes the caller
// already checked it.
//
// Toward the hard-stop the batch is guarded twice: contact at entry refuses
// the whole batch with ErrAlreadyInContact, and the live sensor is re-sampled
// before every pulse so the batch stops early, without error, the instant
// contact appears. Away from the hard-stop no contact is possible and the
// batch runs unconditionally.
func (a *Axis) Jog(dir Direction) error {
	if !a.calibrated {
		return ErrNotCalibrated
	}

	if dir == TowardStop {
		if a.monitor.TakeEdge() || a.monitor.Peek() {
			a.report.Warning(protocol.WarningAlreadyInContact)
			return ErrAlreadyInContact
		}
	} else {
		a.monitor.TakeEdge()
	}

	increment := a.cfg.ResolutionMm
	if dir == TowardStop {
		increment = -increment
	}

	a.setDirection(dir)
	a.enableDriver()
	a.delay(a.cfg.SettleMicros)

	for issued := 0; issued < a.cfg.StepsPerJog; issued++ {
		if dir == TowardStop && (a.monitor.TakeEdge() || a.monitor.Peek()) {
			a.report.Warning(protocol.WarningContact)
			break
		}
		a.pulseOnce()
		a.positionMm += increment
	}
	return nil
}
