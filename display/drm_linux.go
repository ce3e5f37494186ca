//go:build linux

package display

import (
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/hqnguyen/dk2hal/halerr"
	"github.com/hqnguyen/dk2hal/internal/errors"
)

// Fixed-layout mode-setting structs shared with the kernel. Field order and
// widths must match include/uapi/drm/drm_mode.h exactly; pointers cross the
// ABI as uint64 regardless of word size.

const drmDisplayModeLen = 32

type drmModeCardRes struct {
	FBIDPtr         uint64
	CRTCIDPtr       uint64
	ConnectorIDPtr  uint64
	EncoderIDPtr    uint64
	CountFBs        uint32
	CountCRTCs      uint32
	CountConnectors uint32
	CountEncoders   uint32
	MinWidth        uint32
	MaxWidth        uint32
	MinHeight       uint32
	MaxHeight       uint32
}

type drmModeInfo struct {
	Clock      uint32
	HDisplay   uint16
	HSyncStart uint16
	HSyncEnd   uint16
	HTotal     uint16
	HSkew      uint16
	VDisplay   uint16
	VSyncStart uint16
	VSyncEnd   uint16
	VTotal     uint16
	VScan      uint16
	VRefresh   uint32
	Flags      uint32
	Type       uint32
	Name       [drmDisplayModeLen]byte
}

type drmModeGetConnector struct {
	EncodersPtr     uint64
	ModesPtr        uint64
	PropsPtr        uint64
	PropValuesPtr   uint64
	CountModes      uint32
	CountProps      uint32
	CountEncoders   uint32
	EncoderID       uint32
	ConnectorID     uint32
	ConnectorType   uint32
	ConnectorTypeID uint32
	Connection      uint32
	MMWidth         uint32
	MMHeight        uint32
	Subpixel        uint32
	Pad             uint32
}

type drmModeCRTC struct {
	SetConnectorsPtr uint64
	CountConnectors  uint32
	CRTCID           uint32
	FBID             uint32
	X                uint32
	Y                uint32
	GammaSize        uint32
	ModeValid        uint32
	Mode             drmModeInfo
}

type drmModeCreateDumb struct {
	Height uint32
	Width  uint32
	BPP    uint32
	Flags  uint32
	Handle uint32
	Pitch  uint32
	Size   uint64
}

type drmModeMapDumb struct {
	Handle uint32
	Pad    uint32
	Offset uint64
}

type drmModeDestroyDumb struct {
	Handle uint32
}

type drmModeFBCmd struct {
	FBID   uint32
	Width  uint32
	Height uint32
	Pitch  uint32
	BPP    uint32
	Depth  uint32
	Handle uint32
}

// connection status as reported in drmModeGetConnector.Connection
const drmModeConnected = 1

// iowr encodes a read-write ioctl request in the DRM 'd' group.
func iowr(nr, size uintptr) uintptr {
	const (
		iocWrite = 1
		iocRead  = 2
	)
	return (iocRead|iocWrite)<<30 | size<<16 | 'd'<<8 | nr
}

var (
	drmIoctlModeGetResources = iowr(0xA0, unsafe.Sizeof(drmModeCardRes{}))
	drmIoctlModeSetCRTC      = iowr(0xA2, unsafe.Sizeof(drmModeCRTC{}))
	drmIoctlModeGetConnector = iowr(0xA7, unsafe.Sizeof(drmModeGetConnector{}))
	drmIoctlModeAddFB        = iowr(0xAE, unsafe.Sizeof(drmModeFBCmd{}))
	drmIoctlModeRmFB         = iowr(0xAF, unsafe.Sizeof(uint32(0)))
	drmIoctlModeCreateDumb   = iowr(0xB2, unsafe.Sizeof(drmModeCreateDumb{}))
	drmIoctlModeMapDumb      = iowr(0xB3, unsafe.Sizeof(drmModeMapDumb{}))
	drmIoctlModeDestroyDumb  = iowr(0xB4, unsafe.Sizeof(drmModeDestroyDumb{}))
)

func drmIoctl(fd int, req uintptr, arg unsafe.Pointer) error {
	for {
		_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, uintptr(arg))
		if errno == 0 {
			return nil
		}
		if errno == unix.EINTR || errno == unix.EAGAIN {
			continue
		}
		return errno
	}
}

func slicePtr[T any](s []T) uint64 {
	if len(s) == 0 {
		return 0
	}
	return uint64(uintptr(unsafe.Pointer(&s[0])))
}

// drmResources fetches the card's connector and CRTC ID lists with the usual
// two-phase dance: first call learns the counts, second fills the arrays.
func drmResources(fd int) (connectors, crtcs []uint32, err error) {
	var res drmModeCardRes
	if err := drmIoctl(fd, drmIoctlModeGetResources, unsafe.Pointer(&res)); err != nil {
		return nil, nil, errors.Kind(halerr.ErrGeneric, err)
	}
	if res.CountConnectors == 0 || res.CountCRTCs == 0 {
		return nil, nil, errors.Kind(halerr.ErrGeneric, errors.Errorf(`no connectors or crtcs on card`))
	}
	connectors = make([]uint32, res.CountConnectors)
	crtcs = make([]uint32, res.CountCRTCs)
	res = drmModeCardRes{
		ConnectorIDPtr:  slicePtr(connectors),
		CRTCIDPtr:       slicePtr(crtcs),
		CountConnectors: uint32(len(connectors)),
		CountCRTCs:      uint32(len(crtcs)),
	}
	if err := drmIoctl(fd, drmIoctlModeGetResources, unsafe.Pointer(&res)); err != nil {
		return nil, nil, errors.Kind(halerr.ErrGeneric, err)
	}
	if int(res.CountConnectors) < len(connectors) {
		connectors = connectors[:res.CountConnectors]
	}
	if int(res.CountCRTCs) < len(crtcs) {
		crtcs = crtcs[:res.CountCRTCs]
	}
	return connectors, crtcs, nil
}

// drmConnector fetches one connector's status and mode list, same two-phase
// pattern as drmResources.
func drmConnector(fd int, id uint32) (connected bool, modes []drmModeInfo, err error) {
	conn := drmModeGetConnector{ConnectorID: id}
	if err := drmIoctl(fd, drmIoctlModeGetConnector, unsafe.Pointer(&conn)); err != nil {
		return false, nil, errors.Kind(halerr.ErrGeneric, err)
	}
	connected = conn.Connection == drmModeConnected
	if conn.CountModes == 0 {
		return connected, nil, nil
	}
	modes = make([]drmModeInfo, conn.CountModes)
	conn = drmModeGetConnector{
		ConnectorID: id,
		ModesPtr:    slicePtr(modes),
		CountModes:  uint32(len(modes)),
	}
	if err := drmIoctl(fd, drmIoctlModeGetConnector, unsafe.Pointer(&conn)); err != nil {
		return false, nil, errors.Kind(halerr.ErrGeneric, err)
	}
	if int(conn.CountModes) < len(modes) {
		modes = modes[:conn.CountModes]
	}
	return conn.Connection == drmModeConnected, modes, nil
}
