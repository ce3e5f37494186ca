//go:build linux

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hqnguyen/dk2hal"
	"github.com/hqnguyen/dk2hal/ui"
)

func init() { rootCmd.AddCommand(barsCmd) }

var barsCmd = &cobra.Command{
	Use:   `bars`,
	Short: "show system load bars on the panel",
	Long:  `sample cpu, memory, and temperature and render them as bars on the panel`,
	Run: func(cmd *cobra.Command, args []string) {
		run(barsDemo)
	},
}

var barsInterval time.Duration

func init() {
	barsCmd.Flags().DurationVar(&barsInterval, `interval`, time.Second, `sampling interval`)
}

func barsDemo() error {
	h := dk2hal.New(dk2hal.WithLogger(logger()))
	if err := h.Init(); err != nil {
		return err
	}
	defer func() { _ = h.Deinit() }()

	fb, err := h.Display()
	if err != nil {
		return err
	}
	screen, err := ui.New(fb, ui.WithLogger(logger()))
	if err != nil {
		return err
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	ticker := time.NewTicker(barsInterval)
	defer ticker.Stop()

	// prime the cpu counter so the first rendered sample is a real delta
	_, _ = ui.Sample()

	for {
		select {
		case <-sig:
			return nil
		case <-ticker.C:
		}
		st, err := screen.ShowStats()
		if err != nil {
			return err
		}
		fmt.Printf("cpu %5.1f%%  mem %5.1f%%  temp %5.1fC\n", st.CPU, st.Mem, st.Temp)
	}
}
