package core

import (
	"math"

	"linaxis/protocol"
)

// progressInterval is the step cadence of mid-move position reports. It is a
// reporting cadence only and has no effect on control decisions.
const progressInterval = 100

// stepPlan is the per-move conversion of a requested millimeter target into
// exact step arithmetic.
type stepPlan struct {
	targetStepIndex int64
	snappedTargetMm float64
	// stepsToMove is the signed delta from the current quantized position.
	// Positive moves away from the hard-stop.
	stepsToMove int64
}

// planMove quantizes both the requested target and the current position onto
// the step grid before differencing. Repeated moves to the same nominal
// target therefore converge instead of accumulating rounding error.
func (a *Axis) planMove(targetMm float64) stepPlan {
	idx := int64(math.Round(targetMm / a.cfg.ResolutionMm))
	return stepPlan{
		targetStepIndex: idx,
		snappedTargetMm: float64(idx) * a.cfg.ResolutionMm,
		stepsToMove:     idx - a.stepIndex(a.positionMm),
	}
}

// MoveTo runs an absolute move to targetMm. It fails with ErrNotCalibrated
// before any side effect if the axis has no zero reference.
//
// Position is updated after every pulse, so an aborted move is at most one
// step stale. While moving toward the hard-stop the live sensor level is
// checked before each pulse; contact aborts the remaining steps with
// ErrUnexpectedContact, leaving the axis consistent and trackable.
func (a *Axis) MoveTo(targetMm float64) error {
	if !a.calibrated {
		return ErrNotCalibrated
	}

	plan := a.planMove(targetMm)
	if plan.stepsToMove == 0 {
		a.report.Position(a.positionMm)
		a.report.Status(protocol.StatusTargetComplete)
		return nil
	}

	dir := AwayFromStop
	increment := a.cfg.ResolutionMm
	if plan.stepsToMove < 0 {
		dir = TowardStop
		increment = -increment
	}

	a.monitor.TakeEdge()
	a.setDirection(dir)
	a.enableDriver()
	a.delay(a.cfg.SettleMicros)

	total := plan.stepsToMove
	if total < 0 {
		total = -total
	}
	for issued := int64(0); issued < total; issued++ {
		// Checked before the pulse: no pulse is ever issued after contact
		// toward the hard-stop is detected. The live level, not just the
		// latch, catches contact even if the edge was missed.
		if dir == TowardStop && (a.monitor.TakeEdge() || a.monitor.Peek()) {
			a.report.Position(a.positionMm)
			a.report.Error(protocol.ErrorUnexpectedContact)
			return ErrUnexpectedContact
		}

		a.pulseOnce()
		a.positionMm += increment

		if (issued+1)%progressInterval == 0 {
			a.report.Position(a.positionMm)
		}
	}

	a.report.Position(a.positionMm)
	a.report.Status(protocol.StatusTargetComplete)
	return nil
}
