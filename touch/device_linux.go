//go:build linux

package touch

import (
	"fmt"
	"strings"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/hqnguyen/dk2hal/halerr"
	"github.com/hqnguyen/dk2hal/internal/errors"
	"github.com/hqnguyen/dk2hal/internal/logx"
)

// Init discovers and opens the touch input device. Candidates must
// advertise absolute X and Y axes; among those, a device whose name matches
// one of the configured hints wins, otherwise the first match is used.
// Idempotent.
func (d *Device) Init() error {
	if d == nil {
		return errors.NilReceiver()
	}
	if d.initialized {
		return nil
	}

	fd, path, err := d.findDevice()
	if err != nil {
		return err
	}
	d.fd = fd
	d.path = path

	// The fd is opened O_NONBLOCK so the drain loop in Read never blocks;
	// query the axis ranges for coordinate scaling, falling back to the
	// controller's 12-bit default when the ioctl is not supported.
	d.rangeX = d.queryAxisRange(absMTPositionX, absX)
	d.rangeY = d.queryAxisRange(absMTPositionY, absY)

	d.st.reset()
	d.initialized = true
	logx.Info(`touch subsystem initialized`, d.logger,
		`path`, d.path, `range_x`, fmt.Sprintf("%d..%d", d.rangeX.min, d.rangeX.max),
		`range_y`, fmt.Sprintf("%d..%d", d.rangeY.min, d.rangeY.max))
	return nil
}

// Deinit closes the device and clears the snapshot. Idempotent.
func (d *Device) Deinit() error {
	if d == nil || !d.initialized {
		return nil
	}
	if d.fd >= 0 {
		_ = unix.Close(d.fd)
		d.fd = -1
	}
	d.st.reset()
	d.initialized = false
	logx.Info(`touch subsystem deinitialized`, d.logger)
	return nil
}

// Read drains all pending kernel events and returns a copy of the latest
// committed snapshot. halerr.ErrNoData means the drain succeeded but no new
// frame was committed; it is not a fault.
func (d *Device) Read() (Snapshot, error) {
	if d == nil {
		return Snapshot{}, errors.NilReceiver()
	}
	if !d.initialized || d.fd < 0 {
		return Snapshot{}, errors.New(halerr.ErrNotInitialized)
	}

	const evSize = int(unsafe.Sizeof(inputEvent{}))
	buf := make([]byte, 64*evSize)
	committed := false

	for {
		n, err := unix.Read(d.fd, buf)
		if err != nil {
			if err == unix.EAGAIN || err == unix.EWOULDBLOCK || err == unix.EINTR {
				break
			}
			return d.st.committed, errors.Kind(halerr.ErrGeneric, err)
		}
		if n < evSize {
			break
		}
		events := unsafe.Slice((*inputEvent)(unsafe.Pointer(&buf[0])), n/evSize)
		for _, ev := range events {
			if d.st.apply(ev, d.rangeX, d.rangeY, d.panelW, d.panelH) {
				committed = true
			}
		}
	}

	if !committed {
		return d.st.committed, errors.New(halerr.ErrNoData)
	}
	return d.st.committed, nil
}

// IsTouched drains pending events and reports whether any contact is down.
func (d *Device) IsTouched() bool {
	if d == nil || !d.initialized {
		return false
	}
	snap, _ := d.Read()
	return snap.Count > 0
}

// GetPoint is the single-touch convenience accessor: coordinates of the
// first valid contact, or halerr.ErrNoData when none is down.
func (d *Device) GetPoint() (x, y uint16, err error) {
	if d == nil {
		return 0, 0, errors.NilReceiver()
	}
	if !d.initialized {
		return 0, 0, errors.New(halerr.ErrNotInitialized)
	}
	snap, err := d.Read()
	if err != nil && !errors.Is(err, halerr.ErrNoData) {
		return 0, 0, err
	}
	if snap.Count > 0 && snap.Points[0].Valid {
		return snap.Points[0].X, snap.Points[0].Y, nil
	}
	return 0, 0, errors.New(halerr.ErrNoData)
}

func (d *Device) findDevice() (fd int, path string, err error) {
	fallbackFD := -1
	fallbackPath := ``

	for i := 0; i < d.maxDevs; i++ {
		candidate := fmt.Sprintf(d.pattern, i)
		cfd, err := unix.Open(candidate, unix.O_RDONLY|unix.O_NONBLOCK, 0)
		if err != nil {
			continue
		}
		if !d.hasAbsAxes(cfd) {
			_ = unix.Close(cfd)
			continue
		}
		name, _ := ioctlName(cfd)
		logx.Debug(`absolute-axis input device found`, d.logger, `path`, candidate, `name`, name)
		if d.nameMatches(name) {
			if fallbackFD >= 0 {
				_ = unix.Close(fallbackFD)
			}
			logx.Info(`touch controller matched by name`, d.logger, `path`, candidate, `name`, name)
			return cfd, candidate, nil
		}
		if fallbackFD < 0 {
			fallbackFD = cfd
			fallbackPath = candidate
		} else {
			_ = unix.Close(cfd)
		}
	}

	if fallbackFD >= 0 {
		logx.Warn(`no name match, using first absolute-axis device`, d.logger, `path`, fallbackPath)
		return fallbackFD, fallbackPath, nil
	}
	return -1, ``, errors.New(halerr.ErrNoDevice)
}

// hasAbsAxes reports whether the device advertises EV_ABS with both X and Y
// axes (plain or multi-touch).
func (d *Device) hasAbsAxes(fd int) bool {
	evBits, err := ioctlEventBits(fd, 0, evMax)
	if err != nil || !hasBit(evBits, evAbs) {
		return false
	}
	absBits, err := ioctlEventBits(fd, evAbs, absMax)
	if err != nil {
		return false
	}
	hasX := hasBit(absBits, absX) || hasBit(absBits, absMTPositionX)
	hasY := hasBit(absBits, absY) || hasBit(absBits, absMTPositionY)
	return hasX && hasY
}

func (d *Device) nameMatches(name string) bool {
	if name == `` {
		return false
	}
	lower := strings.ToLower(name)
	for _, hint := range d.hints {
		if hint != `` && strings.Contains(lower, strings.ToLower(hint)) {
			return true
		}
	}
	return false
}

// queryAxisRange queries the absolute-axis limits, preferring the multi-touch
// axis and falling back to 0..4095 when the device does not report one.
func (d *Device) queryAxisRange(mtAxis, axis int) axisRange {
	for _, a := range []int{mtAxis, axis} {
		if info, err := ioctlAbsInfo(d.fd, a); err == nil && info.Maximum > info.Minimum {
			return axisRange{min: info.Minimum, max: info.Maximum}
		}
	}
	return axisRange{min: 0, max: 4095}
}
