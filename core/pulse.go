package core

// pulseOnce emits exactly one mechanical step: step line high for the
// configured dwell, then low for the same dwell. The symmetric busy-wait is
// what gives deterministic step timing; callers must not alter it. The pulse
// is not preemptible and advances the actuator in whatever direction the
// direction line currently encodes.
func (a *Axis) pulseOnce() {
	a.gpio.SetPin(a.cfg.StepPin, true)
	a.delay(a.cfg.StepDelayMicros)
	a.gpio.SetPin(a.cfg.StepPin, false)
	a.delay(a.cfg.StepDelayMicros)
}
