package button

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hqnguyen/dk2hal/halerr"
)

func TestLifecycle(t *testing.T) {
	d := New()
	require.NoError(t, d.Init())
	require.NoError(t, d.Init())
	require.NoError(t, d.Deinit())
	require.NoError(t, d.Deinit())
}

func TestStateAlwaysReleased(t *testing.T) {
	d := New()
	require.NoError(t, d.Init())
	for b := ID(0); b < Count; b++ {
		pressed, err := d.State(b)
		require.NoError(t, err)
		assert.False(t, pressed)
	}
}

func TestStateInvalidID(t *testing.T) {
	d := New()
	require.NoError(t, d.Init())
	_, err := d.State(Count)
	assert.ErrorIs(t, err, halerr.ErrInvalidParam)
	_, err = d.State(ID(255))
	assert.ErrorIs(t, err, halerr.ErrInvalidParam)
}

func TestStateNotInitialized(t *testing.T) {
	d := New()
	_, err := d.State(User1)
	assert.ErrorIs(t, err, halerr.ErrNotInitialized)
}
