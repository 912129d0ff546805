package protocol

import (
	"strconv"
	"strings"
)

// CommandKind identifies a parsed supervisor command.
type CommandKind int

const (
	KindUnknown CommandKind = iota
	KindCalibrate
	KindTarget
	KindManualReady
	KindManualComplete
	KindManualCW
	KindManualCCW
	KindManualStop
	KindRest
)

// Command is one parsed line from the supervisor. Raw preserves the trimmed
// input for unknown-command echoes.
type Command struct {
	Kind     CommandKind
	TargetMm float64
	Raw      string
}

// ParseCommand parses a single command line. Commands are case-sensitive and
// trimmed of surrounding whitespace; anything unrecognized, including a
// TARGET with a malformed number, comes back as KindUnknown.
func ParseCommand(line string) Command {
	raw := strings.TrimSpace(line)
	cmd := Command{Kind: KindUnknown, Raw: raw}

	switch raw {
	case "CALIBRATE":
		cmd.Kind = KindCalibrate
		return cmd
	case "MANUAL:READY":
		cmd.Kind = KindManualReady
		return cmd
	case "MANUAL:COMPLETE":
		cmd.Kind = KindManualComplete
		return cmd
	case "MANUAL:CW":
		cmd.Kind = KindManualCW
		return cmd
	case "MANUAL:CCW":
		cmd.Kind = KindManualCCW
		return cmd
	case "MANUAL:STOP":
		cmd.Kind = KindManualStop
		return cmd
	case "REST":
		cmd.Kind = KindRest
		return cmd
	}

	if arg, ok := strings.CutPrefix(raw, "TARGET:"); ok {
		mm, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return cmd
		}
		cmd.Kind = KindTarget
		cmd.TargetMm = mm
	}
	return cmd
}
