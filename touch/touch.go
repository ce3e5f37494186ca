//go:build linux

// Package touch reads the board's capacitive touch panel through the Linux
// input event interface.
//
// The driver drains raw evdev records from a non-blocking file descriptor
// and feeds them through the kernel multi-touch slot protocol: per-slot
// press/release via tracking ids, coordinates scaled from the reported
// device range onto the logical panel, and a snapshot committed atomically
// at each SYN_REPORT. Readers only ever observe committed frames.
//
// The driver is single-threaded by contract. Callers are expected to poll
// Read on a fixed interval (~20ms works well); the fd is non-blocking so a
// drain never stalls the caller.
package touch

import (
	"log/slog"

	"github.com/hqnguyen/dk2hal/internal/consts"
)

// MaxPoints is the number of simultaneous contacts the panel tracks.
const MaxPoints = 2

// Event classifies what happened to a contact in its most recent frame.
type Event uint8

const (
	EventNone Event = iota
	EventPress
	EventRelease
	EventMove
)

func (e Event) String() string {
	switch e {
	case EventPress:
		return `press`
	case EventRelease:
		return `release`
	case EventMove:
		return `move`
	default:
		return `none`
	}
}

// Point is the state of one multi-touch slot.
type Point struct {
	X        uint16
	Y        uint16
	ID       uint8
	Event    Event
	Pressure uint8
	Valid    bool
}

// Snapshot is the touch state as of the last committed reporting frame.
// Count always equals the number of Valid points. A released slot keeps
// EventRelease in later frames until the slot is reused, so liveness is
// judged by Valid and Count, not by Event.
type Snapshot struct {
	Points    [MaxPoints]Point
	Count     uint8
	Timestamp uint64 // milliseconds
}

// Device is a handle on the touch input device. Construct with New, call
// Init before any read.
type Device struct {
	fd      int
	path    string
	pattern string
	maxDevs int
	hints   []string
	panelW  int
	panelH  int
	logger  *slog.Logger

	rangeX axisRange
	rangeY axisRange

	st          machine
	initialized bool
}

type axisRange struct {
	min int32
	max int32
}

type Option func(*Device)

// WithDevicePattern sets the printf-style candidate node pattern
// (default /dev/input/event%d) and the number of nodes scanned.
func WithDevicePattern(pattern string, max int) Option {
	return func(d *Device) {
		if pattern != `` {
			d.pattern = pattern
		}
		if max > 0 {
			d.maxDevs = max
		}
	}
}

// WithNameHints sets the substrings matched (case-insensitively) against
// the device name during discovery.
func WithNameHints(hints ...string) Option {
	return func(d *Device) { d.hints = hints }
}

// WithPanelSize overrides the logical coordinate space coordinates are
// scaled into.
func WithPanelSize(w, h int) Option {
	return func(d *Device) {
		if w > 0 && h > 0 {
			d.panelW, d.panelH = w, h
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(d *Device) { d.logger = l }
}

func New(opts ...Option) *Device {
	d := &Device{
		fd:      -1,
		pattern: consts.InputEventPattern,
		maxDevs: consts.InputEventMax,
		hints:   []string{`ft6236`, `touchscreen`, `touch`},
		panelW:  consts.PanelWidth,
		panelH:  consts.PanelHeight,
		rangeX:  axisRange{0, 4095},
		rangeY:  axisRange{0, 4095},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	d.st.reset()
	return d
}

// Calibrate is a no-op: the panel's controller needs no software
// calibration.
func (d *Device) Calibrate() error { return nil }
