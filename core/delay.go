package core

import "time"

// DelayFunc blocks the caller for the given number of microseconds.
// It is the timing primitive behind step pulse dwell and settling delays.
type DelayFunc func(micros uint32)

// BusyDelay spins until the deadline instead of sleeping. Step-rate accuracy
// therefore does not depend on the host's minimum sleep granularity, only on
// clock read resolution.
func BusyDelay(micros uint32) {
	deadline := time.Now().Add(time.Duration(micros) * time.Microsecond)
	for time.Now().Before(deadline) {
	}
}
