//go:build linux

// Package dk2hal is the board support layer for the DK2-class single-board
// device: user LEDs over sysfs, the panel framebuffer over a DRM dumb
// buffer, and the capacitive touchscreen over evdev. Each subsystem is an
// independent driver; this package ties them together behind one handle
// with shared lifecycle and logging.
//
// LEDs and buttons initialize eagerly with the HAL. The display and touch
// drivers hold kernel resources (a mapped scanout buffer, an exclusive-ish
// event fd), so they initialize lazily on first use and are torn down by
// Deinit if they were ever brought up.
package dk2hal

import (
	"log/slog"

	"github.com/hqnguyen/dk2hal/button"
	"github.com/hqnguyen/dk2hal/display"
	"github.com/hqnguyen/dk2hal/internal/errors"
	"github.com/hqnguyen/dk2hal/internal/logx"
	"github.com/hqnguyen/dk2hal/led"
	"github.com/hqnguyen/dk2hal/touch"
)

// Version of the board support layer.
const Version = `1.0.0`

// HAL owns the subsystem drivers. Create with New, bring up with Init.
type HAL struct {
	logger *slog.Logger

	leds    *led.Driver
	buttons *button.Driver
	tc      *touch.Device
	fb      *display.Framebuffer

	initialized bool
}

type Option func(*HAL)

// WithLogger sets the logger shared by all subsystem drivers.
func WithLogger(l *slog.Logger) Option {
	return func(h *HAL) { h.logger = l }
}

func New(opts ...Option) *HAL {
	h := &HAL{}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	h.leds = led.New(led.WithLogger(h.logger))
	h.buttons = button.New(button.WithLogger(h.logger))
	return h
}

// Init brings up the eager subsystems, LEDs first. Idempotent.
func (h *HAL) Init() error {
	if h == nil {
		return errors.NilReceiver()
	}
	if h.initialized {
		return nil
	}
	if err := h.leds.Init(); err != nil {
		return err
	}
	if err := h.buttons.Init(); err != nil {
		_ = h.leds.Deinit()
		return err
	}
	h.initialized = true
	logx.Info(`hal initialized`, h.logger, `version`, Version)
	return nil
}

// Deinit tears down every subsystem that was brought up, in reverse order
// of initialization. Idempotent; the first error is returned but teardown
// continues past it.
func (h *HAL) Deinit() error {
	if h == nil {
		return errors.NilReceiver()
	}
	if !h.initialized {
		return nil
	}
	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if h.tc != nil {
		keep(h.tc.Deinit())
		h.tc = nil
	}
	if h.fb != nil {
		keep(h.fb.Deinit())
		h.fb = nil
	}
	keep(h.buttons.Deinit())
	keep(h.leds.Deinit())
	h.initialized = false
	return firstErr
}

// Version reports the board support layer version.
func (h *HAL) Version() string { return Version }

// IsInitialized reports whether Init has succeeded.
func (h *HAL) IsInitialized() bool { return h != nil && h.initialized }

// LEDs returns the LED driver. Valid after Init.
func (h *HAL) LEDs() *led.Driver { return h.leds }

// Buttons returns the button driver. Valid after Init.
func (h *HAL) Buttons() *button.Driver { return h.buttons }

// Touch returns the touch driver, initializing it on first call.
func (h *HAL) Touch() (*touch.Device, error) {
	if h == nil {
		return nil, errors.NilReceiver()
	}
	if h.tc != nil {
		return h.tc, nil
	}
	tc := touch.New(touch.WithLogger(h.logger))
	if err := tc.Init(); err != nil {
		return nil, err
	}
	h.tc = tc
	return tc, nil
}

// Display returns the framebuffer, initializing it on first call.
func (h *HAL) Display() (*display.Framebuffer, error) {
	if h == nil {
		return nil, errors.NilReceiver()
	}
	if h.fb != nil {
		return h.fb, nil
	}
	fb := display.New(display.WithLogger(h.logger))
	if err := fb.Init(); err != nil {
		return nil, err
	}
	h.fb = fb
	return fb, nil
}
