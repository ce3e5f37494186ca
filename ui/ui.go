// Package ui renders a minimal status view directly into the framebuffer.
// No toolkit, no compositor: labels come from a fixed bitmap font and the
// rest is rectangles. Meant for bring-up screens and headless diagnostics.
package ui

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/hqnguyen/dk2hal/display"
	"github.com/hqnguyen/dk2hal/halerr"
	"github.com/hqnguyen/dk2hal/internal/errors"
)

const (
	colorBackground display.Color = 0xFF101010
	colorFrame      display.Color = display.ColorWhite
	colorText       display.Color = display.ColorWhite
)

// Screen draws onto an initialized framebuffer.
type Screen struct {
	fb     *display.Framebuffer
	logger *slog.Logger
	width  int
	height int
}

type Option func(*Screen)

func WithLogger(l *slog.Logger) Option {
	return func(s *Screen) { s.logger = l }
}

// New wraps an initialized framebuffer.
func New(fb *display.Framebuffer, opts ...Option) (*Screen, error) {
	if fb == nil {
		return nil, errors.NilParam()
	}
	info, err := fb.Info()
	if err != nil {
		return nil, err
	}
	s := &Screen{fb: fb, width: info.Width, height: info.Height}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Info returns the underlying buffer's geometry.
func (s *Screen) Info() (display.Info, error) {
	if s == nil {
		return display.Info{}, errors.NilReceiver()
	}
	return s.fb.Info()
}

// Clear fills the screen with the default background.
func (s *Screen) Clear() error {
	if s == nil {
		return errors.NilReceiver()
	}
	return s.fb.Clear(colorBackground)
}

// fbImage adapts the framebuffer to draw.Image for the font rasterizer.
type fbImage struct {
	fb *display.Framebuffer
	w  int
	h  int
}

func (p *fbImage) ColorModel() color.Model { return color.RGBAModel }

func (p *fbImage) Bounds() image.Rectangle { return image.Rect(0, 0, p.w, p.h) }

func (p *fbImage) At(x, y int) color.Color {
	c, err := p.fb.Pixel(x, y)
	if err != nil {
		return color.RGBA{}
	}
	return color.RGBA{
		A: uint8(c >> 24),
		R: uint8(c >> 16),
		G: uint8(c >> 8),
		B: uint8(c),
	}
}

func (p *fbImage) Set(x, y int, c color.Color) {
	r, g, b, a := c.RGBA()
	packed := display.Color(a>>8)<<24 | display.Color(r>>8)<<16 |
		display.Color(g>>8)<<8 | display.Color(b>>8)
	_ = p.fb.SetPixel(x, y, packed)
}

// Label draws text with its baseline at (x, y) in the 7x13 bitmap font.
// Glyphs falling outside the screen are clipped pixel by pixel.
func (s *Screen) Label(x, y int, text string, c display.Color) error {
	if s == nil {
		return errors.NilReceiver()
	}
	if !s.fb.IsInitialized() {
		return errors.New(halerr.ErrNotInitialized)
	}
	src := image.NewUniform(color.RGBA{
		A: uint8(c >> 24),
		R: uint8(c >> 16),
		G: uint8(c >> 8),
		B: uint8(c),
	})
	d := font.Drawer{
		Dst:  &fbImage{fb: s.fb, w: s.width, h: s.height},
		Src:  src,
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
	return nil
}

// FillRect is a convenience passthrough to the framebuffer.
func (s *Screen) FillRect(r display.Rect, c display.Color) error {
	if s == nil {
		return errors.NilReceiver()
	}
	return s.fb.DrawRectangle(r, c, true)
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// Bars3 clears the screen and draws three labeled horizontal bars for CPU
// load, memory use, and temperature. Values are percentages and are clamped
// to 0..100 before drawing.
func (s *Screen) Bars3(cpu, mem, temp float64) error {
	if s == nil {
		return errors.NilReceiver()
	}
	if err := s.Clear(); err != nil {
		return err
	}

	bars := []struct {
		label string
		value float64
		color display.Color
	}{
		{`CPU`, clampPercent(cpu), display.ColorRed},
		{`MEM`, clampPercent(mem), display.ColorGreen},
		{`TMP`, clampPercent(temp), display.ColorBlue},
	}

	margin := s.width / 10
	barW := s.width - 2*margin
	barH := s.height / 16
	if barH < 8 {
		barH = 8
	}
	gap := barH
	block := barH + gap + 16
	top := (s.height - len(bars)*block + gap) / 2
	if top < 16 {
		top = 16
	}

	for i, b := range bars {
		y := top + i*block
		if err := s.Label(margin, y, fmt.Sprintf(`%s %3.0f%%`, b.label, b.value), colorText); err != nil {
			return err
		}
		frame := display.Rect{X: margin, Y: y + 6, Width: barW, Height: barH}
		if err := s.fb.DrawRectangle(frame, colorFrame, false); err != nil {
			return err
		}
		fillW := int(float64(barW-4) * b.value / 100)
		if fillW <= 0 {
			continue
		}
		fill := display.Rect{X: margin + 2, Y: y + 8, Width: fillW, Height: barH - 4}
		if err := s.fb.DrawRectangle(fill, b.color, true); err != nil {
			return err
		}
	}
	return nil
}
