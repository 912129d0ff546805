package supervisor

import (
	"bufio"
	"net"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func TestMain(m *testing.M) {
	logrus.SetLevel(logrus.ErrorLevel)
	os.Exit(m.Run())
}

// fakeDevice scripts the device side of the wire. Responses to one command
// are written as a single chunk so the supervisor's reader can drain them
// before the fake blocks on the next command.
type fakeDevice struct {
	conn    net.Conn
	scripts map[string]string

	mu       sync.Mutex
	received []string
}

func newFakeDevice(conn net.Conn, scripts map[string]string) *fakeDevice {
	d := &fakeDevice{conn: conn, scripts: scripts}
	go d.run()
	return d
}

func (d *fakeDevice) run() {
	scanner := bufio.NewScanner(d.conn)
	for scanner.Scan() {
		cmd := scanner.Text()
		d.mu.Lock()
		d.received = append(d.received, cmd)
		d.mu.Unlock()

		if resp, ok := d.scripts[cmd]; ok && resp != "" {
			d.conn.Write([]byte(resp))
		}
	}
}

func (d *fakeDevice) sawCommand(cmd string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, c := range d.received {
		if c == cmd {
			return true
		}
	}
	return false
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func newHarness(t *testing.T, scripts map[string]string) (*Supervisor, *fakeDevice, chan State) {
	t.Helper()

	devConn, hostConn := net.Pipe()
	dev := newFakeDevice(devConn, scripts)

	states := make(chan State, 16)
	sup := New(hostConn, Callbacks{
		OnState: func(s State) { states <- s },
	})
	sup.Start()
	t.Cleanup(func() {
		sup.Close()
		devConn.Close()
	})
	return sup, dev, states
}

func wantState(t *testing.T, states chan State, want State) {
	t.Helper()
	select {
	case got := <-states:
		if got != want {
			t.Fatalf("state = %s, want %s", got, want)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for state %s", want)
	}
}

func TestCalibrateFlow(t *testing.T) {
	sup, dev, states := newHarness(t, map[string]string{
		"CALIBRATE": "STATUS:CALIBRATION_START\nPOSITION:0.000000\nSTATUS:CALIBRATION_COMPLETE\n",
		"REST":      "POSITION:0.000000\n",
	})

	if err := sup.Calibrate(); err != nil {
		t.Fatalf("Calibrate: %v", err)
	}
	wantState(t, states, StateCalibration)

	// The terminal status drops the supervisor back to Rest and parks the
	// device.
	wantState(t, states, StateRest)
	waitFor(t, "REST command", func() bool { return dev.sawCommand("REST") })

	mm, known := sup.Position()
	if !known || mm != 0 {
		t.Fatalf("position = %v (known=%v), want 0", mm, known)
	}
}

func TestTargetFlow(t *testing.T) {
	sup, dev, states := newHarness(t, map[string]string{
		"TARGET:5.000000": "POSITION:5.000000\nSTATUS:TARGET_COMPLETE\n",
		"REST":            "POSITION:5.000000\n",
	})

	if err := sup.MoveTo(5); err != nil {
		t.Fatalf("MoveTo: %v", err)
	}
	wantState(t, states, StateTargetDistance)
	wantState(t, states, StateRest)
	waitFor(t, "tracked position", func() bool {
		mm, known := sup.Position()
		return known && mm == 5
	})
	if !dev.sawCommand("TARGET:5.000000") {
		t.Fatal("target command not sent with 6-digit precision")
	}
}

func TestBusyRefusal(t *testing.T) {
	// The device never answers, so the supervisor stays in Calibration.
	sup, _, states := newHarness(t, nil)

	if err := sup.Calibrate(); err != nil {
		t.Fatalf("Calibrate: %v", err)
	}
	wantState(t, states, StateCalibration)

	if err := sup.MoveTo(1); err == nil {
		t.Fatal("MoveTo accepted while calibrating")
	}
	if err := sup.ManualMode(); err == nil {
		t.Fatal("ManualMode accepted while calibrating")
	}
}

func TestDeviceErrorReturnsToRest(t *testing.T) {
	errs := make(chan string, 1)

	devConn, hostConn := net.Pipe()
	dev := newFakeDevice(devConn, map[string]string{
		"TARGET:3.000000": "ERROR:NOT_CALIBRATED\n",
	})

	states := make(chan State, 16)
	sup := New(hostConn, Callbacks{
		OnState: func(s State) { states <- s },
		OnError: func(name string) { errs <- name },
	})
	sup.Start()
	t.Cleanup(func() {
		sup.Close()
		devConn.Close()
	})

	if err := sup.MoveTo(3); err != nil {
		t.Fatalf("MoveTo: %v", err)
	}
	wantState(t, states, StateTargetDistance)
	wantState(t, states, StateRest)

	select {
	case name := <-errs:
		if name != "NOT_CALIBRATED" {
			t.Fatalf("error callback got %q", name)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("error callback never fired")
	}
	waitFor(t, "REST command", func() bool { return dev.sawCommand("REST") })
}

func TestManualFlow(t *testing.T) {
	sup, dev, states := newHarness(t, map[string]string{
		"MANUAL:COMPLETE": "STATUS:MANUAL_COMPLETE\n",
		"REST":            "POSITION:1.000000\n",
	})

	if err := sup.JogCW(); err == nil {
		t.Fatal("jog accepted outside manual control")
	}

	if err := sup.ManualMode(); err != nil {
		t.Fatalf("ManualMode: %v", err)
	}
	wantState(t, states, StateManualControl)

	if err := sup.JogCW(); err != nil {
		t.Fatalf("JogCW: %v", err)
	}
	if err := sup.JogCCW(); err != nil {
		t.Fatalf("JogCCW: %v", err)
	}
	waitFor(t, "jog commands", func() bool {
		return dev.sawCommand("MANUAL:CW") && dev.sawCommand("MANUAL:CCW")
	})

	// Leaving manual control releases the gate before parking.
	if err := sup.Rest(); err != nil {
		t.Fatalf("Rest: %v", err)
	}
	wantState(t, states, StateRest)
	waitFor(t, "gate release", func() bool {
		return dev.sawCommand("MANUAL:COMPLETE") && dev.sawCommand("REST")
	})
}
