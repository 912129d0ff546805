package protocol

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Writer formats device responses onto an output stream, one line each.
// Write failures are swallowed: the device has no way to report a broken
// reporting channel over that same channel.
type Writer struct {
	w io.Writer
}

// NewWriter returns a response writer on w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Position reports a position in millimeters with 6 decimal digits.
func (w *Writer) Position(mm float64) {
	fmt.Fprintf(w.w, "%s%.6f\n", positionPrefix, mm)
}

// PositionUnknown reports that no zero reference exists yet.
func (w *Writer) PositionUnknown() {
	fmt.Fprintf(w.w, "%s%s\n", positionPrefix, PositionUnknownText)
}

// Status reports a status line by name.
func (w *Writer) Status(name string) {
	fmt.Fprintf(w.w, "%s%s\n", statusPrefix, name)
}

// Error reports an error line by name.
func (w *Writer) Error(name string) {
	fmt.Fprintf(w.w, "%s%s\n", errorPrefix, name)
}

// Warning reports a warning line by name.
func (w *Writer) Warning(name string) {
	fmt.Fprintf(w.w, "%s%s\n", warningPrefix, name)
}

// UnknownCommand echoes an unrecognized command line.
func (w *Writer) UnknownCommand(raw string) {
	fmt.Fprintf(w.w, "%s%s\n", unknownPrefix, raw)
}

// ResponseKind identifies a parsed device response line.
type ResponseKind int

const (
	RespOther ResponseKind = iota
	RespPosition
	RespPositionUnknown
	RespStatus
	RespError
	RespWarning
)

// Response is one parsed line from the device. Name carries the status,
// error or warning name; Position carries the millimeter value for
// RespPosition lines.
type Response struct {
	Kind     ResponseKind
	Position float64
	Name     string
	Raw      string
}

// ParseResponse parses a single device output line. Lines that match no
// known prefix, including unknown-command echoes, come back as RespOther.
func ParseResponse(line string) Response {
	raw := strings.TrimSpace(line)
	resp := Response{Kind: RespOther, Raw: raw}

	switch {
	case strings.HasPrefix(raw, positionPrefix):
		arg := raw[len(positionPrefix):]
		if arg == PositionUnknownText {
			resp.Kind = RespPositionUnknown
			return resp
		}
		mm, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return resp
		}
		resp.Kind = RespPosition
		resp.Position = mm
	case strings.HasPrefix(raw, statusPrefix):
		resp.Kind = RespStatus
		resp.Name = raw[len(statusPrefix):]
	case strings.HasPrefix(raw, errorPrefix):
		resp.Kind = RespError
		resp.Name = raw[len(errorPrefix):]
	case strings.HasPrefix(raw, warningPrefix):
		resp.Kind = RespWarning
		resp.Name = raw[len(warningPrefix):]
	}
	return resp
}
