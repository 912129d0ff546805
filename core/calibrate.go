package core

import "linaxis/protocol"

// Calibrate homes the axis against the hard-stop and zeroes the position
// reference. It is the only way the axis becomes calibrated and the only way
// position gains an absolute meaning; re-invocation re-zeroes regardless of
// prior state, discarding any previous relative tracking.
//
// Returns ErrAlreadyInContact (informational, calibration still succeeded)
// when the sensor already read in-contact at entry, or
// ErrCalibrationTimeout when the travel bound was exhausted without contact.
func (a *Axis) Calibrate() error {
	a.report.Status(protocol.StatusCalibrationStart)

	a.setDirection(TowardStop)
	a.enableDriver()

	// Discard any stale edge from before this sequence owned the axis.
	a.monitor.TakeEdge()

	if a.monitor.Peek() {
		a.finishCalibration()
		return ErrAlreadyInContact
	}

	a.delay(a.cfg.SettleMicros)

	limit := a.maxTravelSteps()
	for issued := int64(0); ; issued++ {
		if a.monitor.TakeEdge() || a.monitor.Peek() {
			break
		}
		if issued >= limit {
			a.disableDriver()
			a.report.Status(protocol.StatusCalibrationTimeout)
			return ErrCalibrationTimeout
		}
		a.pulseOnce()
	}

	a.finishCalibration()
	return nil
}

func (a *Axis) finishCalibration() {
	a.positionMm = 0
	a.calibrated = true
	a.disableDriver()
	a.report.Position(0)
	a.report.Status(protocol.StatusCalibrationComplete)
}
