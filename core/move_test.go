package core

import (
	"math"
	"testing"
)

func TestMoveToNotCalibrated(t *testing.T) {
	axis, pins, _ := newTestAxis(t, 10)

	err := axis.MoveTo(3.0)
	if err != ErrNotCalibrated {
		t.Fatalf("MoveTo = %v, want ErrNotCalibrated", err)
	}
	if len(pins.pulses) != 0 {
		t.Fatalf("uncalibrated move issued %d pulses", len(pins.pulses))
	}
	if _, known := axis.Position(); known {
		t.Fatal("position became known without calibration")
	}
}

func TestMoveToQuantizesRoundToNearest(t *testing.T) {
	axis, pins, _ := newTestAxis(t, 0)
	axis.Calibrate()

	// 0.123mm at 0.01mm/step snaps to step 12, not 13.
	if err := axis.MoveTo(0.123); err != nil {
		t.Fatalf("MoveTo: %v", err)
	}
	if got := pins.pulseCount(AwayFromStop); got != 12 {
		t.Fatalf("issued %d away pulses, want 12", got)
	}
	wantPosition(t, axis, 0.12)
}

func TestMoveToConvergesOnRepeatedTarget(t *testing.T) {
	axis, pins, rec := newTestAxis(t, 0)
	axis.Calibrate()

	if err := axis.MoveTo(0.123); err != nil {
		t.Fatalf("first MoveTo: %v", err)
	}
	issued := len(pins.pulses)
	rec.lines = nil

	// The same nominal target lands on the same grid point: zero steps.
	if err := axis.MoveTo(0.123); err != nil {
		t.Fatalf("second MoveTo: %v", err)
	}
	if got := len(pins.pulses); got != issued {
		t.Fatalf("repeat move issued %d extra pulses", got-issued)
	}
	want := []string{"POSITION:0.120000", "STATUS:TARGET_COMPLETE"}
	if len(rec.lines) != len(want) {
		t.Fatalf("repeat move reported %v, want %v", rec.lines, want)
	}
	for i, line := range want {
		if rec.lines[i] != line {
			t.Fatalf("repeat move reported %v, want %v", rec.lines, want)
		}
	}
}

func TestMoveToSelectsDirectionFromSign(t *testing.T) {
	axis, pins, _ := newTestAxis(t, 0)
	axis.Calibrate()

	if err := axis.MoveTo(0.5); err != nil {
		t.Fatalf("MoveTo out: %v", err)
	}
	if got := pins.pulseCount(AwayFromStop); got != 50 {
		t.Fatalf("outbound move: %d away pulses, want 50", got)
	}

	if err := axis.MoveTo(0.2); err != nil {
		t.Fatalf("MoveTo back: %v", err)
	}
	if got := pins.pulseCount(TowardStop); got != 30 {
		t.Fatalf("inbound move: %d toward pulses, want 30", got)
	}
	wantPosition(t, axis, 0.2)
}

func TestMoveToProgressCadence(t *testing.T) {
	axis, _, rec := newTestAxis(t, 0)
	axis.Calibrate()
	rec.lines = nil

	// 250 steps: progress at 100 and 200, then the final report.
	if err := axis.MoveTo(2.5); err != nil {
		t.Fatalf("MoveTo: %v", err)
	}

	var positions int
	for _, line := range rec.lines {
		if line != "STATUS:TARGET_COMPLETE" {
			positions++
		}
	}
	if positions != 3 {
		t.Fatalf("got %d position reports, want 3: %v", positions, rec.lines)
	}
	if rec.lines[len(rec.lines)-1] != "STATUS:TARGET_COMPLETE" {
		t.Fatalf("move must end with completion status: %v", rec.lines)
	}
}

func TestMoveToAbortsOnContactTowardStop(t *testing.T) {
	axis, pins, rec := newTestAxis(t, 0)
	axis.Calibrate()
	if err := axis.MoveTo(2.0); err != nil {
		t.Fatalf("outbound MoveTo: %v", err)
	}
	towardBefore := pins.pulseCount(TowardStop)
	rec.lines = nil

	// Target past the hard-stop: contact trips after 200 of 250 steps.
	err := axis.MoveTo(-0.5)
	if err != ErrUnexpectedContact {
		t.Fatalf("MoveTo = %v, want ErrUnexpectedContact", err)
	}

	if got := pins.pulseCount(TowardStop) - towardBefore; got != 200 {
		t.Fatalf("issued %d toward pulses after contact, want exactly 200", got)
	}
	got, known := axis.Position()
	if !known || math.Abs(got) > 1e-9 {
		t.Fatalf("position = %v (known=%v), want 0 at the hard-stop", got, known)
	}

	last := rec.lines[len(rec.lines)-1]
	if last != "ERROR:UNEXPECTED_CONTACT" {
		t.Fatalf("move must end with the contact error, got %v", rec.lines)
	}
}

func TestMoveToRecoversAfterAbort(t *testing.T) {
	axis, _, _ := newTestAxis(t, 0)
	axis.Calibrate()
	axis.MoveTo(2.0)
	axis.MoveTo(-0.5) // trips at the hard-stop

	// The abort left tracking valid: a normal move still lands exactly.
	if err := axis.MoveTo(1.0); err != nil {
		t.Fatalf("MoveTo after abort: %v", err)
	}
	wantPosition(t, axis, 1.0)
}
