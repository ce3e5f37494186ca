//go:build linux

package dk2hal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hqnguyen/dk2hal/button"
	"github.com/hqnguyen/dk2hal/led"
)

func TestVersion(t *testing.T) {
	assert.Equal(t, `1.0.0`, Version)
	assert.Equal(t, Version, New().Version())
}

func TestInitDeinitLifecycle(t *testing.T) {
	h := New()
	assert.False(t, h.IsInitialized())

	require.NoError(t, h.Init())
	assert.True(t, h.IsInitialized())

	// idempotent
	require.NoError(t, h.Init())
	assert.True(t, h.IsInitialized())

	require.NoError(t, h.Deinit())
	assert.False(t, h.IsInitialized())
	require.NoError(t, h.Deinit())
}

func TestSubsystemAccessors(t *testing.T) {
	h := New()
	require.NoError(t, h.Init())
	defer func() { _ = h.Deinit() }()

	require.NotNil(t, h.LEDs())
	require.NotNil(t, h.Buttons())

	// buttons are placeholders; both report released
	for b := button.ID(0); b < button.Count; b++ {
		pressed, err := h.Buttons().State(b)
		require.NoError(t, err)
		assert.False(t, pressed)
	}

	// LED driver is live after Init
	_, err := h.LEDs().Get(led.Count)
	assert.Error(t, err)
}

func TestNilReceiver(t *testing.T) {
	var h *HAL
	assert.Error(t, h.Init())
	assert.Error(t, h.Deinit())
	assert.False(t, h.IsInitialized())
	_, err := h.Touch()
	assert.Error(t, err)
	_, err = h.Display()
	assert.Error(t, err)
}
