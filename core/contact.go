// Hard-stop contact sensing.
// The edge source (hardware interrupt or a polling goroutine) latches contact
// events asynchronously; motion sequences combine the latch with live pin
// reads to decide whether to abort.
package core

import "sync/atomic"

// ContactMonitor owns the shared contact flag. The edge handler only ever
// calls OnEdge; everything else runs on the single sequence thread.
//
// Peek reads the live pin level and never touches the latch. TakeEdge clears
// the latch on read and answers "was there an edge since the last check".
// Safety checks inside step loops must use Peek, because the latch may have
// been consumed by an earlier checkpoint.
type ContactMonitor struct {
	gpio GPIODriver
	pin  GPIOPin

	// Pin level that means "in contact". A normally-open switch to ground
	// with a pull-up reads low on contact, so this is typically false.
	triggerHigh bool

	latch atomic.Bool
}

// NewContactMonitor configures the sensor pin as a pulled-up input and
// returns a monitor for it.
func NewContactMonitor(gpio GPIODriver, pin GPIOPin, triggerHigh bool) (*ContactMonitor, error) {
	if err := gpio.ConfigureInputPullUp(pin); err != nil {
		return nil, err
	}
	return &ContactMonitor{gpio: gpio, pin: pin, triggerHigh: triggerHigh}, nil
}

// OnEdge latches a contact event. Safe to call from an interrupt handler or
// any goroutine; it performs a single atomic store and nothing else.
func (m *ContactMonitor) OnEdge() {
	m.latch.Store(true)
}

// TakeEdge reports whether an edge was latched since the last call, clearing
// the latch.
func (m *ContactMonitor) TakeEdge() bool {
	return m.latch.Swap(false)
}

// Peek samples the live sensor level. It does not consume the latch.
func (m *ContactMonitor) Peek() bool {
	return m.gpio.ReadPin(m.pin) == m.triggerHigh
}
