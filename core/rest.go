package core

// Rest de-energizes the driver (dropping holding torque) and reports the
// current position. It is a power state, not a position reset: calibration
// and tracked position survive.
func (a *Axis) Rest() {
	a.disableDriver()
	a.ReportPosition()
}
