//go:build linux

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hqnguyen/dk2hal"
	"github.com/hqnguyen/dk2hal/display"
)

func init() { rootCmd.AddCommand(lcdCmd) }

var lcdCmd = &cobra.Command{
	Use:   `lcd`,
	Short: "draw a test pattern on the panel",
	Long:  `draw a test pattern on the panel and hold it for a few seconds`,
	Run: func(cmd *cobra.Command, args []string) {
		run(lcdDemo)
	},
}

var lcdHold time.Duration

func init() {
	lcdCmd.Flags().DurationVar(&lcdHold, `hold`, 5*time.Second, `how long to keep the pattern up`)
}

func lcdDemo() error {
	h := dk2hal.New(dk2hal.WithLogger(logger()))
	if err := h.Init(); err != nil {
		return err
	}
	defer func() { _ = h.Deinit() }()

	fb, err := h.Display()
	if err != nil {
		return err
	}
	info, err := fb.Info()
	if err != nil {
		return err
	}
	mode := fb.Mode()
	fmt.Printf("mode %s %dx%d@%d, pitch %d\n",
		mode.Name, info.Width, info.Height, mode.Refresh, info.Pitch)

	if err := fb.Clear(display.ColorBlack); err != nil {
		return err
	}

	// horizontal color bands over the top half
	bands := []display.Color{
		display.ColorWhite, display.ColorYellow, display.ColorCyan,
		display.ColorGreen, display.ColorMagenta, display.ColorRed,
		display.ColorBlue, display.ColorBlack,
	}
	bandH := info.Height / 2 / len(bands)
	for i, c := range bands {
		rect := display.Rect{X: 0, Y: i * bandH, Width: info.Width, Height: bandH}
		if err := fb.DrawRectangle(rect, c, true); err != nil {
			return err
		}
	}

	// centered filled square with an outline frame on the bottom half
	side := info.Width / 3
	rect := display.Rect{
		X:      (info.Width - side) / 2,
		Y:      info.Height/2 + (info.Height/2-side)/2,
		Width:  side,
		Height: side,
	}
	if err := fb.DrawRectangle(rect, display.ColorRed, true); err != nil {
		return err
	}
	frame := display.Rect{X: rect.X - 4, Y: rect.Y - 4, Width: side + 8, Height: side + 8}
	if err := fb.DrawRectangle(frame, display.ColorWhite, false); err != nil {
		return err
	}

	time.Sleep(lcdHold)
	return nil
}
