// Package button is the placeholder driver for the board's two user
// buttons. The inputs are not wired up yet, so every read reports released.
package button

import (
	"log/slog"

	"github.com/hqnguyen/dk2hal/halerr"
	"github.com/hqnguyen/dk2hal/internal/errors"
	"github.com/hqnguyen/dk2hal/internal/logx"
)

// ID identifies a user button.
type ID int

const (
	User1 ID = iota
	User2

	Count = 2
)

type Driver struct {
	initialized bool
	logger      *slog.Logger
}

type Option func(*Driver)

func WithLogger(l *slog.Logger) Option {
	return func(d *Driver) { d.logger = l }
}

func New(opts ...Option) *Driver {
	d := &Driver{}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Init always succeeds. Idempotent.
func (d *Driver) Init() error {
	if d == nil {
		return errors.NilReceiver()
	}
	d.initialized = true
	logx.Info(`button subsystem initialized (placeholder)`, d.logger)
	return nil
}

// Deinit always succeeds. Idempotent.
func (d *Driver) Deinit() error {
	if d == nil {
		return nil
	}
	d.initialized = false
	return nil
}

// State reports the button as released until the inputs are wired up.
func (d *Driver) State(b ID) (pressed bool, err error) {
	if d == nil {
		return false, errors.NilReceiver()
	}
	if !d.initialized {
		return false, errors.New(halerr.ErrNotInitialized)
	}
	if b < 0 || b >= Count {
		return false, errors.New(halerr.ErrInvalidParam)
	}
	return false, nil
}
