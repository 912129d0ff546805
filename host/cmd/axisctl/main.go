package main

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"linaxis/host/serial"
	"linaxis/host/supervisor"
)

var (
	device  string
	baud    int
	verbose bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logrus.Fatal(err)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "axisctl",
		Short:        "Control a single-axis linear actuator over its serial protocol",
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
	}

	cmd.PersistentFlags().StringVarP(&device, "device", "d", "/dev/ttyACM0", "serial device path")
	cmd.PersistentFlags().IntVarP(&baud, "baud", "b", 9600, "baud rate")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(
		newConsoleCmd(),
		newStatusCmd(),
		newDaemonCmd(),
	)
	return cmd
}

// connect opens the serial link and starts a supervisor on it.
func connect(cb supervisor.Callbacks) (*supervisor.Supervisor, error) {
	port, err := serial.Open(&serial.Config{Device: device, Baud: baud})
	if err != nil {
		return nil, err
	}

	// Opening the port resets Arduino-class devices; give the firmware time
	// to come back up before talking to it.
	time.Sleep(2 * time.Second)

	sup := supervisor.New(port, cb)
	sup.Start()
	return sup, nil
}
