package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"linaxis/host/supervisor"
)

func newConsoleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "console",
		Short: "Interactive console to the actuator",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runConsole()
		},
	}
}

func runConsole() error {
	sup, err := connect(supervisor.Callbacks{
		OnState: func(state supervisor.State) {
			color.Green("state: %s", state)
		},
		OnPosition: func(mm float64) {
			color.Cyan("position: %.6f mm", mm)
		},
		OnWarning: func(name string) {
			color.Yellow("warning: %s", name)
		},
		OnError: func(name string) {
			color.Red("error: %s", name)
		},
	})
	if err != nil {
		return err
	}
	defer sup.Close()

	fmt.Printf("Connected to %s. Type 'help' for commands, 'quit' to exit.\n", device)
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		var cmdErr error

		switch parts[0] {
		case "quit", "exit", "q":
			return nil

		case "help", "?":
			printConsoleHelp()

		case "calibrate":
			cmdErr = sup.Calibrate()

		case "target":
			if len(parts) != 2 {
				color.Red("usage: target <mm>")
				continue
			}
			mm, err := strconv.ParseFloat(parts[1], 64)
			if err != nil {
				color.Red("bad target %q", parts[1])
				continue
			}
			cmdErr = sup.MoveTo(mm)

		case "manual":
			cmdErr = sup.ManualMode()

		case "cw":
			cmdErr = sup.JogCW()

		case "ccw":
			cmdErr = sup.JogCCW()

		case "stop":
			cmdErr = sup.JogStop()

		case "rest":
			cmdErr = sup.Rest()

		case "status":
			if mm, ok := sup.Position(); ok {
				fmt.Printf("%s, position %.6f mm\n", sup.State(), mm)
			} else {
				fmt.Printf("%s, position unknown\n", sup.State())
			}

		default:
			color.Red("unknown command %q (try 'help')", parts[0])
		}

		if cmdErr != nil {
			color.Red("%v", cmdErr)
		}
	}
}

func printConsoleHelp() {
	fmt.Println(`Commands:
  calibrate     home against the hard-stop and zero the axis
  target <mm>   move to an absolute position
  manual        enter manual jog mode
  cw            jog away from the hard-stop (manual mode)
  ccw           jog toward the hard-stop (manual mode)
  stop          query position without moving
  rest          de-energize the driver
  status        show supervisor state and last position
  quit          exit`)
}
