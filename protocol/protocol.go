// Package protocol implements the line-oriented text protocol spoken between
// the actuator device and its supervisor. Commands travel one per line toward
// the device; the device answers with POSITION:, STATUS:, ERROR: and
// WARNING: lines. Both sides of the wire live here so the device formats
// exactly what the supervisor parses.
package protocol

// Line prefixes, device to supervisor.
const (
	positionPrefix = "POSITION:"
	statusPrefix   = "STATUS:"
	errorPrefix    = "ERROR:"
	warningPrefix  = "WARNING:"
	unknownPrefix  = "Unknown command: "
)

// Status names.
const (
	StatusCalibrationStart    = "CALIBRATION_START"
	StatusCalibrationComplete = "CALIBRATION_COMPLETE"
	StatusCalibrationTimeout  = "CALIBRATION_TIMEOUT"
	StatusTargetComplete      = "TARGET_COMPLETE"
	StatusManualComplete      = "MANUAL_COMPLETE"
)

// Error names.
const (
	ErrorNotCalibrated     = "NOT_CALIBRATED"
	ErrorUnexpectedContact = "UNEXPECTED_CONTACT"
)

// Warning names.
const (
	WarningAlreadyInContact = "ALREADY_IN_CONTACT"
	WarningContact          = "CONTACT"
)

// PositionUnknownText is reported in place of a number before calibration
// establishes a zero reference.
const PositionUnknownText = "UNKNOWN"
