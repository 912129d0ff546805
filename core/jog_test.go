package core

import "testing"

func TestJogNotCalibrated(t *testing.T) {
	axis, pins, _ := newTestAxis(t, 10)

	for _, dir := range []Direction{TowardStop, AwayFromStop} {
		if err := axis.Jog(dir); err != ErrNotCalibrated {
			t.Fatalf("Jog(%v) = %v, want ErrNotCalibrated", dir, err)
		}
	}
	if len(pins.pulses) != 0 {
		t.Fatalf("uncalibrated jog issued %d pulses", len(pins.pulses))
	}
}

func TestJogAwayRunsFullBatch(t *testing.T) {
	axis, pins, _ := newTestAxis(t, 0)
	axis.Calibrate()

	if err := axis.Jog(AwayFromStop); err != nil {
		t.Fatalf("Jog: %v", err)
	}
	if got := pins.pulseCount(AwayFromStop); got != testStepsPerJog {
		t.Fatalf("issued %d pulses, want %d", got, testStepsPerJog)
	}
	wantPosition(t, axis, float64(testStepsPerJog)*testResolution)
}

func TestJogTowardRefusedInContact(t *testing.T) {
	axis, pins, rec := newTestAxis(t, 0)
	axis.Calibrate()
	rec.lines = nil

	err := axis.Jog(TowardStop)
	if err != ErrAlreadyInContact {
		t.Fatalf("Jog = %v, want ErrAlreadyInContact", err)
	}
	if len(pins.pulses) != 0 {
		t.Fatalf("refused jog issued %d pulses", len(pins.pulses))
	}
	if !rec.contains("WARNING:ALREADY_IN_CONTACT") {
		t.Fatalf("missing warning in %v", rec.lines)
	}
}

func TestJogTowardStopsBatchEarlyOnContact(t *testing.T) {
	axis, pins, rec := newTestAxis(t, 0)
	axis.Calibrate()
	if err := axis.Jog(AwayFromStop); err != nil {
		t.Fatalf("outbound jog: %v", err)
	}

	// Drop the carriage to 10 steps above the stop while tracking says 25:
	// the toward batch must apply exactly 10 steps and stop without error.
	*pins.carriage = 10
	towardBefore := pins.pulseCount(TowardStop)
	rec.lines = nil

	if err := axis.Jog(TowardStop); err != nil {
		t.Fatalf("toward jog escalated: %v", err)
	}
	if got := pins.pulseCount(TowardStop) - towardBefore; got != 10 {
		t.Fatalf("issued %d toward pulses, want 10", got)
	}
	if !rec.contains("WARNING:CONTACT") {
		t.Fatalf("missing early-stop warning in %v", rec.lines)
	}
	// Tracked position moved by exactly the pulses issued.
	wantPosition(t, axis, float64(testStepsPerJog-10)*testResolution)
}

func TestJogTowardFullBatchClearOfStop(t *testing.T) {
	axis, pins, _ := newTestAxis(t, 0)
	axis.Calibrate()
	axis.MoveTo(2.0)
	towardBefore := pins.pulseCount(TowardStop)

	if err := axis.Jog(TowardStop); err != nil {
		t.Fatalf("Jog: %v", err)
	}
	if got := pins.pulseCount(TowardStop) - towardBefore; got != testStepsPerJog {
		t.Fatalf("issued %d toward pulses, want %d", got, testStepsPerJog)
	}
	wantPosition(t, axis, 2.0-float64(testStepsPerJog)*testResolution)
}
