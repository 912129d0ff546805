// Package serial provides the supervisor's serial link to the actuator
// device. The Port abstraction keeps the supervisor testable against
// in-memory pipes while real deployments use a native port.
package serial

import "io"

// Port is a byte stream to the device.
type Port interface {
	io.ReadWriteCloser
}

// Config holds serial port configuration.
type Config struct {
	// Device path (e.g. "/dev/ttyACM0", "COM3")
	Device string

	// Baud rate. The actuator firmware talks at 9600.
	Baud int
}

// DefaultConfig returns the configuration the actuator firmware expects.
func DefaultConfig(device string) *Config {
	return &Config{
		Device: device,
		Baud:   9600,
	}
}
