// Package display drives the board's panel through a DRM dumb buffer: a
// kernel-allocated, CPU-addressable pixel buffer mapped straight into the
// process, with no GPU acceleration involved.
//
// Initialization negotiates a connector and mode best-effort and degrades
// gracefully: an undetected display falls back to the panel's hardcoded
// mode, and a missing framebuffer object or failed CRTC mode-set only means
// nothing shows on a physical screen while the mapped buffer stays fully
// usable. Drawing is plain synchronous memory writes; there is no internal
// locking, multi-threaded callers must serialize externally.
//
// All bounds checks and pixel indexing use the dimensions and pitch of the
// allocated buffer, which on the reference panel equal the logical 480x800.
package display

import (
	"log/slog"

	"github.com/hqnguyen/dk2hal/halerr"
	"github.com/hqnguyen/dk2hal/internal/consts"
	"github.com/hqnguyen/dk2hal/internal/errors"
)

// Color is a 32-bit packed ARGB8888 value.
type Color uint32

// Convenience colors; any raw value is accepted.
const (
	ColorBlack   Color = 0xFF000000
	ColorWhite   Color = 0xFFFFFFFF
	ColorRed     Color = 0xFFFF0000
	ColorGreen   Color = 0xFF00FF00
	ColorBlue    Color = 0xFF0000FF
	ColorYellow  Color = 0xFFFFFF00
	ColorCyan    Color = 0xFF00FFFF
	ColorMagenta Color = 0xFFFF00FF
)

// Rect is a drawing rectangle in pixel coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Mode is the display mode negotiated at initialization, immutable for the
// life of the framebuffer.
type Mode struct {
	Width      int
	Height     int
	Refresh    int // Hz
	Clock      int // kHz pixel clock
	HSyncStart int
	HSyncEnd   int
	HTotal     int
	VSyncStart int
	VSyncEnd   int
	VTotal     int
	Name       string
}

// Info describes the allocated buffer.
type Info struct {
	Width  int
	Height int
	BPP    int
	Pitch  int // bytes per row
}

// Framebuffer is the handle on the mapped dumb buffer. Construct with New;
// no drawing call is valid before a successful Init or after Deinit.
type Framebuffer struct {
	card   string
	panelW int
	panelH int
	logger *slog.Logger

	// kernel state
	fd          int
	handle      uint32
	fbID        uint32
	connectorID uint32
	crtcID      uint32
	mem         []byte
	size        uint64

	// drawing state
	pix         []uint32
	width       int
	height      int
	stride      int // pixels per row, from the kernel-reported pitch
	mode        Mode
	initialized bool
}

type Option func(*Framebuffer)

// WithCardPath overrides the DRM device node (default /dev/dri/card0).
func WithCardPath(path string) Option {
	return func(fb *Framebuffer) {
		if path != `` {
			fb.card = path
		}
	}
}

// WithPanelSize overrides the fallback mode dimensions used when no display
// can be negotiated.
func WithPanelSize(w, h int) Option {
	return func(fb *Framebuffer) {
		if w > 0 && h > 0 {
			fb.panelW, fb.panelH = w, h
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(fb *Framebuffer) { fb.logger = l }
}

func New(opts ...Option) *Framebuffer {
	fb := &Framebuffer{
		card:   consts.DRMCardPath,
		panelW: consts.PanelWidth,
		panelH: consts.PanelHeight,
		fd:     -1,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(fb)
		}
	}
	return fb
}

// NewMemory returns an initialized framebuffer backed by ordinary memory
// instead of a mapped dumb buffer. Drawing works as usual but nothing ever
// reaches a panel. Useful for offscreen rendering and tests.
func NewMemory(w, h int) (*Framebuffer, error) {
	if w <= 0 || h <= 0 {
		return nil, errors.New(halerr.ErrInvalidParam)
	}
	return &Framebuffer{
		fd:          -1,
		pix:         make([]uint32, w*h),
		width:       w,
		height:      h,
		stride:      w,
		mode:        Mode{Width: w, Height: h, Name: `memory`},
		initialized: true,
	}, nil
}

// Mode returns the negotiated display mode.
func (fb *Framebuffer) Mode() Mode { return fb.mode }

// Info returns the allocated buffer's geometry.
func (fb *Framebuffer) Info() (Info, error) {
	if fb == nil {
		return Info{}, errors.NilReceiver()
	}
	if !fb.initialized {
		return Info{}, errors.New(halerr.ErrNotInitialized)
	}
	return Info{
		Width:  fb.width,
		Height: fb.height,
		BPP:    consts.PanelBPP,
		Pitch:  fb.stride * 4,
	}, nil
}

// IsInitialized reports whether the buffer is mapped and drawable.
func (fb *Framebuffer) IsInitialized() bool { return fb != nil && fb.initialized }

// Clear fills the whole buffer, padding included, with the given color.
func (fb *Framebuffer) Clear(c Color) error {
	if fb == nil {
		return errors.NilReceiver()
	}
	if !fb.initialized || fb.pix == nil {
		return errors.New(halerr.ErrNotInitialized)
	}
	for i := range fb.pix {
		fb.pix[i] = uint32(c)
	}
	return nil
}

// SetPixel writes one pixel, bounds-checked against the buffer dimensions.
func (fb *Framebuffer) SetPixel(x, y int, c Color) error {
	if fb == nil {
		return errors.NilReceiver()
	}
	if !fb.initialized || fb.pix == nil {
		return errors.New(halerr.ErrNotInitialized)
	}
	if x < 0 || y < 0 || x >= fb.width || y >= fb.height {
		return errors.New(halerr.ErrInvalidParam)
	}
	fb.pix[y*fb.stride+x] = uint32(c)
	return nil
}

// Pixel reads one pixel back. Mostly useful for verification; the buffer is
// not double-buffered, so this reads exactly what the panel scans out.
func (fb *Framebuffer) Pixel(x, y int) (Color, error) {
	if fb == nil {
		return 0, errors.NilReceiver()
	}
	if !fb.initialized || fb.pix == nil {
		return 0, errors.New(halerr.ErrNotInitialized)
	}
	if x < 0 || y < 0 || x >= fb.width || y >= fb.height {
		return 0, errors.New(halerr.ErrInvalidParam)
	}
	return Color(fb.pix[y*fb.stride+x]), nil
}

// DrawRectangle draws rect clamped to the buffer. A filled rectangle covers
// every interior pixel; an outline only the four edges of the clamped
// region.
func (fb *Framebuffer) DrawRectangle(rect Rect, c Color, filled bool) error {
	if fb == nil {
		return errors.NilReceiver()
	}
	if !fb.initialized || fb.pix == nil {
		return errors.New(halerr.ErrNotInitialized)
	}
	if rect.X < 0 || rect.Y < 0 || rect.X >= fb.width || rect.Y >= fb.height ||
		rect.Width < 0 || rect.Height < 0 {
		return errors.New(halerr.ErrInvalidParam)
	}

	endX := rect.X + rect.Width
	if endX > fb.width {
		endX = fb.width
	}
	endY := rect.Y + rect.Height
	if endY > fb.height {
		endY = fb.height
	}
	if endX <= rect.X || endY <= rect.Y {
		return nil
	}

	if filled {
		for y := rect.Y; y < endY; y++ {
			row := fb.pix[y*fb.stride : y*fb.stride+endX]
			for x := rect.X; x < endX; x++ {
				row[x] = uint32(c)
			}
		}
		return nil
	}

	for x := rect.X; x < endX; x++ {
		fb.pix[rect.Y*fb.stride+x] = uint32(c)
		fb.pix[(endY-1)*fb.stride+x] = uint32(c)
	}
	for y := rect.Y; y < endY; y++ {
		fb.pix[y*fb.stride+rect.X] = uint32(c)
		fb.pix[y*fb.stride+(endX-1)] = uint32(c)
	}
	return nil
}
