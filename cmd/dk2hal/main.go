//go:build linux

package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/go-errors/errors"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Short:        "dk2hal exercises the board peripherals",
	Long:         "dk2hal exercises the board peripherals",
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
		os.Exit(1)
	},
}

func init() {
	cobra.EnablePrefixMatching = true
	rootCmd.PersistentFlags().BoolVar(&debug, `debug`, false, `debug errors`)
	rootCmd.PersistentFlags().BoolVar(&verbose, `verbose`, false, `log driver activity`)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var (
	debug   bool
	verbose bool
)

func logger() *slog.Logger {
	if !verbose {
		return nil
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func run(fn func() error) {
	var err error
	if fn == nil {
		err = errors.New(`nil function`)
	}
	err = fn()
	if err != nil {
		if stackFramer, ok := err.(interface{ ErrorStack() string }); debug && ok {
			fmt.Println(stackFramer.ErrorStack())
		} else {
			log.Fatal(err)
		}
	}
}
