// Package halerr defines the closed set of error kinds shared by all HAL
// subsystems. Driver operations wrap the underlying cause (errno, parse
// failure, ...) around one of these sentinels, so callers discriminate with
// errors.Is while the chain keeps the origin.
package halerr

import "errors"

var (
	ErrGeneric        = errors.New(`hal: error`)
	ErrInvalidParam   = errors.New(`hal: invalid parameter`)
	ErrNotSupported   = errors.New(`hal: not supported`)
	ErrTimeout        = errors.New(`hal: timeout`)
	ErrBusy           = errors.New(`hal: busy`)
	ErrNotInitialized = errors.New(`hal: not initialized`)

	// ErrNoData is not a fault: the operation succeeded but produced
	// nothing new. Touch reads return it when a drain commits no frame.
	ErrNoData = errors.New(`hal: no data`)

	// ErrNoDevice is returned when device discovery finds no candidate.
	ErrNoDevice = errors.New(`hal: no device found`)

	// Framebuffer lifecycle kinds.
	ErrDeviceOpen = errors.New(`hal: cannot open device`)
	ErrAlloc      = errors.New(`hal: buffer allocation failed`)
	ErrMap        = errors.New(`hal: buffer mapping failed`)
)
