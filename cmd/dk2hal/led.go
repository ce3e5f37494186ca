//go:build linux

package main

import (
	"strconv"
	"time"

	errorsGo "github.com/go-errors/errors"
	"github.com/spf13/cobra"

	"github.com/hqnguyen/dk2hal"
	"github.com/hqnguyen/dk2hal/led"
)

func init() { rootCmd.AddCommand(ledCmd) }

var ledCmd = &cobra.Command{
	Use:   `led [pattern]`,
	Short: "set or cycle the user LEDs",
	Long:  `set the user LEDs to a 4-bit pattern, or cycle a walking pattern when no argument is given`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		run(func() error { return ledDemo(args) })
	},
}

var ledCycles int

func init() {
	ledCmd.Flags().IntVar(&ledCycles, `cycles`, 3, `walking pattern repetitions`)
}

func ledDemo(args []string) error {
	h := dk2hal.New(dk2hal.WithLogger(logger()))
	if err := h.Init(); err != nil {
		return err
	}
	defer func() { _ = h.Deinit() }()

	if len(args) == 1 {
		pattern, err := strconv.ParseUint(args[0], 0, 8)
		if err != nil || pattern > 0x0F {
			return errorsGo.New(`pattern must be 0..15 (0x0..0xF)`)
		}
		return h.LEDs().SetPattern(uint8(pattern))
	}

	for cycle := 0; cycle < ledCycles; cycle++ {
		for i := led.ID(0); i < led.Count; i++ {
			if err := h.LEDs().SetPattern(1 << i); err != nil {
				return err
			}
			time.Sleep(200 * time.Millisecond)
		}
	}
	return h.LEDs().SetPattern(0)
}
