// Package led drives the board's four user LEDs through the sysfs LED class
// brightness attribute files.
//
// The kernel file is authoritative: Get always re-reads it and Toggle is a
// read-modify-write on top of Get. The in-process cache only mirrors the last
// observed state. There is no internal locking; two concurrent Toggles can
// lose an update (last write wins), callers needing atomicity must serialize
// externally.
package led

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/hqnguyen/dk2hal/halerr"
	"github.com/hqnguyen/dk2hal/internal/errors"
	"github.com/hqnguyen/dk2hal/internal/logx"
)

// ID identifies one of the board's user LEDs.
type ID int

const (
	Green ID = iota // LD5
	Red             // LD6
	Orange          // LD7
	Blue            // LD8

	Count = 4
)

// DefaultPaths are the brightness files of the STM32MP157F-DK2 user LEDs.
var DefaultPaths = [Count]string{
	`/sys/class/leds/green:usr0/brightness`,
	`/sys/class/leds/red:usr1/brightness`,
	`/sys/class/leds/orange:usr2/brightness`,
	`/sys/class/leds/blue:usr3/brightness`,
}

// Driver is a handle over the LED sysfs files. The zero value is unusable,
// construct with New and call Init before any other operation.
type Driver struct {
	paths       [Count]string
	cache       [Count]bool
	initialized bool
	logger      *slog.Logger
}

type Option func(*Driver)

// WithPaths overrides the brightness file per LED index.
func WithPaths(paths [Count]string) Option {
	return func(d *Driver) { d.paths = paths }
}

func WithLogger(l *slog.Logger) Option {
	return func(d *Driver) { d.logger = l }
}

func New(opts ...Option) *Driver {
	d := &Driver{paths: DefaultPaths}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Init prepares the driver. Missing brightness files are logged but not
// fatal, matching boards where only a subset of LEDs is wired. Idempotent.
func (d *Driver) Init() error {
	if d == nil {
		return errors.NilReceiver()
	}
	if d.initialized {
		return nil
	}
	for i, path := range d.paths {
		if _, err := os.Stat(path); err != nil {
			logx.Warn(`led path not available`, d.logger, `led`, i, `path`, path)
		}
	}
	d.cache = [Count]bool{}
	d.initialized = true
	logx.Info(`led subsystem initialized`, d.logger)
	return nil
}

// Deinit turns all LEDs off (best effort) and releases the driver.
// Idempotent, a no-op when not initialized.
func (d *Driver) Deinit() error {
	if d == nil || !d.initialized {
		return nil
	}
	for i := ID(0); i < Count; i++ {
		_ = d.Set(i, false)
	}
	d.initialized = false
	logx.Info(`led subsystem deinitialized`, d.logger)
	return nil
}

// Set writes the LED state and refreshes the cache on success.
func (d *Driver) Set(led ID, on bool) error {
	if d == nil {
		return errors.NilReceiver()
	}
	if !d.initialized {
		return errors.New(halerr.ErrNotInitialized)
	}
	if led < 0 || led >= Count {
		return errors.New(halerr.ErrInvalidParam)
	}
	value := `0`
	if on {
		value = `1`
	}
	if err := os.WriteFile(d.paths[led], []byte(value), 0o644); err != nil {
		return errors.Kind(halerr.ErrGeneric, err)
	}
	d.cache[led] = on
	logx.Debug(`led set`, d.logger, `led`, int(led), `on`, on)
	return nil
}

// Get re-reads the kernel's brightness file; any value above zero is ON.
func (d *Driver) Get(led ID) (bool, error) {
	if d == nil {
		return false, errors.NilReceiver()
	}
	if !d.initialized {
		return false, errors.New(halerr.ErrNotInitialized)
	}
	if led < 0 || led >= Count {
		return false, errors.New(halerr.ErrInvalidParam)
	}
	raw, err := os.ReadFile(d.paths[led])
	if err != nil {
		return false, errors.Kind(halerr.ErrGeneric, err)
	}
	brightness, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil {
		return false, errors.Kind(halerr.ErrGeneric, err)
	}
	on := brightness > 0
	d.cache[led] = on
	return on, nil
}

// Toggle inverts the LED relative to the kernel's current view.
func (d *Driver) Toggle(led ID) error {
	on, err := d.Get(led)
	if err != nil {
		return err
	}
	return d.Set(led, !on)
}

// SetPattern applies the low four bits of pattern, bit i driving LED i in
// ascending order. The first failing LED aborts the walk and its error is
// returned.
func (d *Driver) SetPattern(pattern uint8) error {
	if d == nil {
		return errors.NilReceiver()
	}
	if !d.initialized {
		return errors.New(halerr.ErrNotInitialized)
	}
	logx.Debug(`led pattern`, d.logger, `pattern`, pattern)
	for i := ID(0); i < Count; i++ {
		if err := d.Set(i, pattern&(1<<uint(i)) != 0); err != nil {
			return err
		}
	}
	return nil
}
