package display

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hqnguyen/dk2hal/halerr"
)

// testFB builds a drawable framebuffer around an in-memory buffer, skipping
// kernel initialization entirely.
func testFB(w, h, stride int) *Framebuffer {
	return &Framebuffer{
		pix:         make([]uint32, stride*h),
		width:       w,
		height:      h,
		stride:      stride,
		initialized: true,
	}
}

func TestClearThenFilledRectangle(t *testing.T) {
	fb := testFB(480, 800, 480)
	require.NoError(t, fb.Clear(ColorBlack))
	require.NoError(t, fb.DrawRectangle(Rect{X: 10, Y: 10, Width: 5, Height: 5}, ColorRed, true))

	c, err := fb.Pixel(12, 12)
	require.NoError(t, err)
	assert.Equal(t, ColorRed, c)

	c, err = fb.Pixel(0, 0)
	require.NoError(t, err)
	assert.Equal(t, ColorBlack, c)

	// first pixel past the rectangle on either axis stays untouched
	c, err = fb.Pixel(15, 12)
	require.NoError(t, err)
	assert.Equal(t, ColorBlack, c)
	c, err = fb.Pixel(12, 15)
	require.NoError(t, err)
	assert.Equal(t, ColorBlack, c)
}

func TestOutlineLeavesInterior(t *testing.T) {
	fb := testFB(64, 64, 64)
	require.NoError(t, fb.Clear(ColorBlack))
	require.NoError(t, fb.DrawRectangle(Rect{X: 4, Y: 4, Width: 8, Height: 8}, ColorWhite, false))

	for _, p := range [][2]int{{4, 4}, {11, 4}, {4, 11}, {11, 11}, {7, 4}, {4, 7}} {
		c, err := fb.Pixel(p[0], p[1])
		require.NoError(t, err)
		assert.Equal(t, ColorWhite, c, `edge pixel (%d,%d)`, p[0], p[1])
	}
	c, err := fb.Pixel(7, 7)
	require.NoError(t, err)
	assert.Equal(t, ColorBlack, c)
}

func TestSetPixelChangesExactlyOnePixel(t *testing.T) {
	fb := testFB(32, 32, 32)
	require.NoError(t, fb.Clear(ColorBlack))
	require.NoError(t, fb.SetPixel(5, 9, ColorGreen))

	changed := 0
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			c, err := fb.Pixel(x, y)
			require.NoError(t, err)
			if c != ColorBlack {
				changed++
				assert.Equal(t, 5, x)
				assert.Equal(t, 9, y)
				assert.Equal(t, ColorGreen, c)
			}
		}
	}
	assert.Equal(t, 1, changed)
}

func TestRectangleClampedToBuffer(t *testing.T) {
	fb := testFB(16, 16, 16)
	require.NoError(t, fb.Clear(ColorBlack))
	require.NoError(t, fb.DrawRectangle(Rect{X: 12, Y: 12, Width: 100, Height: 100}, ColorBlue, true))

	c, err := fb.Pixel(15, 15)
	require.NoError(t, err)
	assert.Equal(t, ColorBlue, c)
	c, err = fb.Pixel(11, 11)
	require.NoError(t, err)
	assert.Equal(t, ColorBlack, c)
}

func TestRectangleOriginOutOfBounds(t *testing.T) {
	fb := testFB(16, 16, 16)
	err := fb.DrawRectangle(Rect{X: 16, Y: 0, Width: 2, Height: 2}, ColorRed, true)
	assert.ErrorIs(t, err, halerr.ErrInvalidParam)
	err = fb.DrawRectangle(Rect{X: 0, Y: -1, Width: 2, Height: 2}, ColorRed, true)
	assert.ErrorIs(t, err, halerr.ErrInvalidParam)
}

func TestZeroSizedRectangleIsNoop(t *testing.T) {
	fb := testFB(8, 8, 8)
	require.NoError(t, fb.Clear(ColorBlack))
	require.NoError(t, fb.DrawRectangle(Rect{X: 2, Y: 2, Width: 0, Height: 4}, ColorRed, true))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			c, err := fb.Pixel(x, y)
			require.NoError(t, err)
			assert.Equal(t, ColorBlack, c)
		}
	}
}

func TestSetPixelBounds(t *testing.T) {
	fb := testFB(8, 8, 8)
	assert.ErrorIs(t, fb.SetPixel(-1, 0, ColorRed), halerr.ErrInvalidParam)
	assert.ErrorIs(t, fb.SetPixel(0, 8, ColorRed), halerr.ErrInvalidParam)
	assert.NoError(t, fb.SetPixel(7, 7, ColorRed))
}

func TestPaddedStrideIndexing(t *testing.T) {
	// pitch wider than the visible row; padding must not alias row pixels
	fb := testFB(10, 4, 16)
	require.NoError(t, fb.SetPixel(9, 1, ColorWhite))
	assert.Equal(t, uint32(ColorWhite), fb.pix[1*16+9])
	assert.Equal(t, uint32(0), fb.pix[1*16+10])

	c, err := fb.Pixel(9, 2)
	require.NoError(t, err)
	assert.Equal(t, Color(0), c)
}

func TestUninitializedDrawing(t *testing.T) {
	fb := New()
	assert.ErrorIs(t, fb.Clear(ColorBlack), halerr.ErrNotInitialized)
	assert.ErrorIs(t, fb.SetPixel(0, 0, ColorRed), halerr.ErrNotInitialized)
	assert.ErrorIs(t, fb.DrawRectangle(Rect{Width: 1, Height: 1}, ColorRed, true), halerr.ErrNotInitialized)
	_, err := fb.Info()
	assert.ErrorIs(t, err, halerr.ErrNotInitialized)
}

func TestInfoReportsBufferGeometry(t *testing.T) {
	fb := testFB(480, 800, 512)
	info, err := fb.Info()
	require.NoError(t, err)
	assert.Equal(t, 480, info.Width)
	assert.Equal(t, 800, info.Height)
	assert.Equal(t, 32, info.BPP)
	assert.Equal(t, 512*4, info.Pitch)
}
