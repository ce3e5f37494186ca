//go:build linux

package main

import (
	"errors"
	"fmt"
	"image"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fogleman/gg"
	"github.com/spf13/cobra"

	"github.com/hqnguyen/dk2hal"
	"github.com/hqnguyen/dk2hal/display"
	"github.com/hqnguyen/dk2hal/halerr"
	"github.com/hqnguyen/dk2hal/touch"
)

func init() { rootCmd.AddCommand(touchCmd) }

var touchCmd = &cobra.Command{
	Use:   `touch`,
	Short: "trace touch input",
	Long:  `poll the touchscreen, print every contact, and paint markers on the panel`,
	Run: func(cmd *cobra.Command, args []string) {
		run(touchDemo)
	},
}

var touchFor time.Duration

func init() {
	touchCmd.Flags().DurationVar(&touchFor, `for`, 30*time.Second, `how long to trace`)
}

// one marker color per tracked slot
var slotColors = [][3]float64{
	{1, 0.2, 0.2},
	{0.2, 0.8, 1},
}

func touchDemo() error {
	h := dk2hal.New(dk2hal.WithLogger(logger()))
	if err := h.Init(); err != nil {
		return err
	}
	defer func() { _ = h.Deinit() }()

	tc, err := h.Touch()
	if err != nil {
		return err
	}

	// markers are optional; tracing still works without a panel
	var ctx *gg.Context
	fb, err := h.Display()
	if err == nil {
		if info, err := fb.Info(); err == nil {
			_ = fb.Clear(display.ColorBlack)
			ctx = gg.NewContext(info.Width, info.Height)
			ctx.SetRGB(0, 0, 0)
			ctx.Clear()
		}
	} else {
		fmt.Fprintln(os.Stderr, `no display, tracing to stdout only:`, err)
		fb = nil
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()
	deadline := time.After(touchFor)

	for {
		select {
		case <-sig:
			return nil
		case <-deadline:
			return nil
		case <-ticker.C:
		}

		snap, err := tc.Read()
		if errors.Is(err, halerr.ErrNoData) {
			continue
		}
		if err != nil {
			return err
		}
		for i, p := range snap.Points {
			if !p.Valid && p.Event == touch.EventNone {
				continue
			}
			fmt.Printf("t=%dms slot=%d id=%d event=%s x=%d y=%d pressure=%d\n",
				snap.Timestamp, i, p.ID, p.Event, p.X, p.Y, p.Pressure)
			if ctx != nil && p.Valid {
				c := slotColors[i%len(slotColors)]
				ctx.SetRGB(c[0], c[1], c[2])
				ctx.DrawCircle(float64(p.X), float64(p.Y), 6)
				ctx.Fill()
				blit(fb, ctx.Image(), int(p.X)-8, int(p.Y)-8, int(p.X)+8, int(p.Y)+8)
			}
		}
	}
}

// blit copies a clamped region of img onto the framebuffer.
func blit(fb *display.Framebuffer, img image.Image, x0, y0, x1, y1 int) {
	b := img.Bounds()
	if x0 < b.Min.X {
		x0 = b.Min.X
	}
	if y0 < b.Min.Y {
		y0 = b.Min.Y
	}
	if x1 > b.Max.X {
		x1 = b.Max.X
	}
	if y1 > b.Max.Y {
		y1 = b.Max.Y
	}
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			r, g, bl, a := img.At(x, y).RGBA()
			packed := display.Color(a>>8)<<24 | display.Color(r>>8)<<16 |
				display.Color(g>>8)<<8 | display.Color(bl>>8)
			_ = fb.SetPixel(x, y, packed)
		}
	}
}
