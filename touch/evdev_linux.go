//go:build linux

package touch

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// Linux input event ABI. Field order and sizes follow
// struct input_event / struct input_absinfo from linux/input.h exactly.

type inputEvent struct {
	Time  unix.Timeval
	Type  uint16
	Code  uint16
	Value int32
}

type absInfo struct {
	Value      int32
	Minimum    int32
	Maximum    int32
	Fuzz       int32
	Flat       int32
	Resolution int32
}

const (
	evSyn = 0x00
	evAbs = 0x03

	synReport = 0x00

	absX        = 0x00
	absY        = 0x01
	absPressure = 0x18

	absMTSlot       = 0x2f
	absMTPositionX  = 0x35
	absMTPositionY  = 0x36
	absMTTrackingID = 0x39
	absMTPressure   = 0x3a

	evMax  = 0x1f
	absMax = 0x3f
)

// ioctl request encoding from linux/ioctl.h.
const (
	iocNRBits   = 8
	iocTypeBits = 8
	iocSizeBits = 14

	iocNRShift   = 0
	iocTypeShift = iocNRShift + iocNRBits
	iocSizeShift = iocTypeShift + iocTypeBits
	iocDirShift  = iocSizeShift + iocSizeBits

	iocRead = 2
)

func ioc(dir, typ, nr, size uintptr) uintptr {
	return dir<<iocDirShift | typ<<iocTypeShift | nr<<iocNRShift | size<<iocSizeShift
}

func eviocgName(size int) uintptr { return ioc(iocRead, 'E', 0x06, uintptr(size)) }

// eviocgBit queries the capability bitmap: ev == 0 asks for the supported
// event types, otherwise for the codes of event type ev.
func eviocgBit(ev, size int) uintptr { return ioc(iocRead, 'E', 0x20+uintptr(ev), uintptr(size)) }

func eviocgAbs(axis int) uintptr {
	return ioc(iocRead, 'E', 0x40+uintptr(axis), unsafe.Sizeof(absInfo{}))
}

func ioctlName(fd int) (string, error) {
	buf := make([]byte, 256)
	if err := ioctlPtr(fd, eviocgName(len(buf)), unsafe.Pointer(&buf[0])); err != nil {
		return ``, err
	}
	n := 0
	for n < len(buf) && buf[n] != 0 {
		n++
	}
	return string(buf[:n]), nil
}

func ioctlEventBits(fd, ev, maxBit int) ([]byte, error) {
	buf := make([]byte, maxBit/8+1)
	if err := ioctlPtr(fd, eviocgBit(ev, len(buf)), unsafe.Pointer(&buf[0])); err != nil {
		return nil, err
	}
	return buf, nil
}

func ioctlAbsInfo(fd, axis int) (absInfo, error) {
	var info absInfo
	if err := ioctlPtr(fd, eviocgAbs(axis), unsafe.Pointer(&info)); err != nil {
		return absInfo{}, err
	}
	return info, nil
}

func ioctlPtr(fd int, req uintptr, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}

func hasBit(bits []byte, bit int) bool {
	if bit/8 >= len(bits) {
		return false
	}
	return bits[bit/8]&(1<<(uint(bit)%8)) != 0
}
