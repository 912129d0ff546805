package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"linaxis/host/supervisor"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Query the actuator position without moving it",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runStatus()
		},
	}
}

func runStatus() error {
	reported := make(chan float64, 1)
	sup, err := connect(supervisor.Callbacks{
		OnPosition: func(mm float64) {
			select {
			case reported <- mm:
			default:
			}
		},
	})
	if err != nil {
		return err
	}
	defer sup.Close()

	if err := sup.JogStop(); err != nil {
		return err
	}

	select {
	case mm := <-reported:
		fmt.Printf("position: %.6f mm\n", mm)
	case <-time.After(3 * time.Second):
		// A POSITION:UNKNOWN reply never fires OnPosition.
		fmt.Println("position: unknown (axis not calibrated)")
	}
	return nil
}
