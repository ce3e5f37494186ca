//go:build linux

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hqnguyen/dk2hal"
	"github.com/hqnguyen/dk2hal/led"
)

func init() { rootCmd.AddCommand(infoCmd) }

var infoCmd = &cobra.Command{
	Use:   `info`,
	Short: "print board support information",
	Long:  `print the library version and the state of each peripheral`,
	Run: func(cmd *cobra.Command, args []string) {
		run(info)
	},
}

func info() error {
	fmt.Println(`dk2hal version`, dk2hal.Version)

	h := dk2hal.New(dk2hal.WithLogger(logger()))
	if err := h.Init(); err != nil {
		return err
	}
	defer func() { _ = h.Deinit() }()

	for i := led.ID(0); i < led.Count; i++ {
		on, err := h.LEDs().Get(i)
		if err != nil {
			fmt.Printf("led %d: unavailable (%v)\n", i, err)
			continue
		}
		state := `off`
		if on {
			state = `on`
		}
		fmt.Printf("led %d: %s\n", i, state)
	}

	if fb, err := h.Display(); err != nil {
		fmt.Println(`display: unavailable:`, err)
	} else {
		mode := fb.Mode()
		info, _ := fb.Info()
		fmt.Printf("display: %dx%d@%d (%s), pitch %d\n",
			info.Width, info.Height, mode.Refresh, mode.Name, info.Pitch)
	}

	if _, err := h.Touch(); err != nil {
		fmt.Println(`touch: unavailable:`, err)
	} else {
		fmt.Println(`touch: ready`)
	}
	return nil
}
