//go:build linux

package display

import (
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/hqnguyen/dk2hal/halerr"
	"github.com/hqnguyen/dk2hal/internal/errors"
	"github.com/hqnguyen/dk2hal/internal/logx"
)

// fallbackMode is the panel's native timing, used when the connector reports
// no usable mode (headless boots, early panel bring-up).
func (fb *Framebuffer) fallbackMode() drmModeInfo {
	m := drmModeInfo{
		Clock:      29700,
		HDisplay:   uint16(fb.panelW),
		HSyncStart: 578,
		HSyncEnd:   610,
		HTotal:     708,
		VDisplay:   uint16(fb.panelH),
		VSyncStart: 815,
		VSyncEnd:   825,
		VTotal:     839,
		VRefresh:   50,
	}
	copy(m.Name[:], `panel-fallback`)
	return m
}

func modeFromKernel(m drmModeInfo) Mode {
	name := m.Name[:]
	for i, b := range name {
		if b == 0 {
			name = name[:i]
			break
		}
	}
	return Mode{
		Width:      int(m.HDisplay),
		Height:     int(m.VDisplay),
		Refresh:    int(m.VRefresh),
		Clock:      int(m.Clock),
		HSyncStart: int(m.HSyncStart),
		HSyncEnd:   int(m.HSyncEnd),
		HTotal:     int(m.HTotal),
		VSyncStart: int(m.VSyncStart),
		VSyncEnd:   int(m.VSyncEnd),
		VTotal:     int(m.VTotal),
		Name:       string(name),
	}
}

// Init opens the DRM device, negotiates a mode, allocates and maps a dumb
// buffer, and attempts a mode-set. Failure to attach the buffer to a CRTC is
// logged but not fatal; the mapped buffer remains drawable either way.
// Calling Init on an initialized framebuffer is a no-op.
func (fb *Framebuffer) Init() error {
	if fb == nil {
		return errors.NilReceiver()
	}
	if fb.initialized {
		return nil
	}

	fd, err := unix.Open(fb.card, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return errors.Kind(halerr.ErrDeviceOpen, err)
	}
	fb.fd = fd

	// A failed or empty resource query is fatal; only the per-connector
	// mode negotiation below may degrade to the fallback timing.
	connectors, crtcs, err := drmResources(fb.fd)
	if err != nil {
		fb.teardown()
		return err
	}

	kmode, connectorID, crtcID := fb.pickMode(connectors, crtcs)
	fb.connectorID = connectorID
	fb.crtcID = crtcID

	create := drmModeCreateDumb{
		Width:  uint32(kmode.HDisplay),
		Height: uint32(kmode.VDisplay),
		BPP:    32,
	}
	if err := drmIoctl(fb.fd, drmIoctlModeCreateDumb, unsafe.Pointer(&create)); err != nil {
		fb.teardown()
		return errors.Kind(halerr.ErrAlloc, err)
	}
	fb.handle = create.Handle
	fb.size = create.Size

	fbCmd := drmModeFBCmd{
		Width:  create.Width,
		Height: create.Height,
		Pitch:  create.Pitch,
		BPP:    32,
		Depth:  24,
		Handle: create.Handle,
	}
	if err := drmIoctl(fb.fd, drmIoctlModeAddFB, unsafe.Pointer(&fbCmd)); err != nil {
		logx.Warn(`framebuffer object creation failed, drawing offscreen only`, fb.logger, `error`, err)
	} else {
		fb.fbID = fbCmd.FBID
	}

	mapReq := drmModeMapDumb{Handle: create.Handle}
	if err := drmIoctl(fb.fd, drmIoctlModeMapDumb, unsafe.Pointer(&mapReq)); err != nil {
		fb.teardown()
		return errors.Kind(halerr.ErrMap, err)
	}
	mem, err := unix.Mmap(fb.fd, int64(mapReq.Offset), int(create.Size),
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		fb.teardown()
		return errors.Kind(halerr.ErrMap, err)
	}
	fb.mem = mem
	fb.pix = unsafe.Slice((*uint32)(unsafe.Pointer(&mem[0])), create.Size/4)
	fb.width = int(create.Width)
	fb.height = int(create.Height)
	fb.stride = int(create.Pitch / 4)
	fb.mode = modeFromKernel(kmode)

	if fb.fbID != 0 && fb.crtcID != 0 {
		crtc := drmModeCRTC{
			SetConnectorsPtr: uint64(uintptr(unsafe.Pointer(&fb.connectorID))),
			CountConnectors:  1,
			CRTCID:           fb.crtcID,
			FBID:             fb.fbID,
			ModeValid:        1,
			Mode:             kmode,
		}
		if err := drmIoctl(fb.fd, drmIoctlModeSetCRTC, unsafe.Pointer(&crtc)); err != nil {
			logx.Warn(`mode-set failed, panel will not scan out`, fb.logger, `error`, err)
		}
	}

	fb.initialized = true

	// visible smoke test so bring-up failures are obvious on the panel
	_ = fb.Clear(ColorRed)

	logx.Info(`display initialized`, fb.logger,
		`mode`, fb.mode.Name,
		`width`, fb.width, `height`, fb.height,
		`pitch`, fb.stride*4, `connector`, fb.connectorID, `crtc`, fb.crtcID)
	return nil
}

// pickMode scans connectors for the first connected one with a mode list and
// returns its preferred (first) mode. Negotiation failures degrade to the
// panel's fallback timing rather than aborting.
func (fb *Framebuffer) pickMode(connectors, crtcs []uint32) (kmode drmModeInfo, connectorID, crtcID uint32) {
	kmode = fb.fallbackMode()

	if len(crtcs) > 0 {
		crtcID = crtcs[0]
	}

	for _, id := range connectors {
		connected, modes, err := drmConnector(fb.fd, id)
		if err != nil {
			logx.Debug(`connector query failed`, fb.logger, `connector`, id, `error`, err)
			continue
		}
		if connected && len(modes) > 0 {
			return modes[0], id, crtcID
		}
		if connectorID == 0 {
			connectorID = id
			if len(modes) > 0 {
				kmode = modes[0]
			}
		}
	}
	if connectorID == 0 && len(connectors) > 0 {
		connectorID = connectors[0]
	}
	logx.Warn(`no connected display found, using fallback mode`, fb.logger,
		`connector`, connectorID)
	return kmode, connectorID, crtcID
}

// Deinit blanks the panel and releases all kernel objects. Safe to call on
// an uninitialized or already deinitialized framebuffer.
func (fb *Framebuffer) Deinit() error {
	if fb == nil {
		return errors.NilReceiver()
	}
	if !fb.initialized && fb.fd < 0 {
		return nil
	}
	if fb.initialized {
		_ = fb.Clear(ColorBlack)
	}
	fb.teardown()
	return nil
}

// teardown releases whatever Init managed to acquire, in reverse order.
func (fb *Framebuffer) teardown() {
	if fb.mem != nil {
		_ = unix.Munmap(fb.mem)
		fb.mem = nil
		fb.pix = nil
	}
	if fb.fd >= 0 {
		if fb.fbID != 0 {
			id := fb.fbID
			_ = drmIoctl(fb.fd, drmIoctlModeRmFB, unsafe.Pointer(&id))
			fb.fbID = 0
		}
		if fb.handle != 0 {
			destroy := drmModeDestroyDumb{Handle: fb.handle}
			_ = drmIoctl(fb.fd, drmIoctlModeDestroyDumb, unsafe.Pointer(&destroy))
			fb.handle = 0
		}
		_ = unix.Close(fb.fd)
		fb.fd = -1
	}
	fb.width, fb.height, fb.stride = 0, 0, 0
	fb.size = 0
	fb.connectorID, fb.crtcID = 0, 0
	fb.mode = Mode{}
	fb.initialized = false
}
