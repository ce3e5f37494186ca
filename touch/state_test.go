//go:build linux

package touch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang.org/x/sys/unix"
)

var (
	testRange  = axisRange{min: 0, max: 4095}
	testPanelW = 480
	testPanelH = 800
)

func abs(code uint16, value int32) inputEvent {
	return inputEvent{Type: evAbs, Code: code, Value: value}
}

func syn(sec, usec int64) inputEvent {
	tv := unix.NsecToTimeval(sec*1e9 + usec*1e3)
	return inputEvent{Time: tv, Type: evSyn, Code: synReport}
}

func feed(t *testing.T, m *machine, evs ...inputEvent) (frames int) {
	t.Helper()
	for _, ev := range evs {
		if m.apply(ev, testRange, testRange, testPanelW, testPanelH) {
			frames++
		}
	}
	return frames
}

func TestPressFrameMidPanel(t *testing.T) {
	var m machine
	frames := feed(t, &m,
		abs(absMTSlot, 0),
		abs(absMTTrackingID, 5),
		abs(absMTPositionX, 2048),
		abs(absMTPositionY, 2048),
		syn(10, 500_000),
	)
	require.Equal(t, 1, frames)

	snap := m.committed
	assert.EqualValues(t, 1, snap.Count)
	pt := snap.Points[0]
	assert.True(t, pt.Valid)
	assert.Equal(t, EventPress, pt.Event)
	// 2048 of a 0..4095 range lands mid panel
	assert.InDelta(t, testPanelW/2, int(pt.X), 2)
	assert.InDelta(t, testPanelH/2, int(pt.Y), 2)
	assert.EqualValues(t, 10_500, snap.Timestamp)
}

func TestMoveAfterPressFrame(t *testing.T) {
	var m machine
	feed(t, &m,
		abs(absMTSlot, 0),
		abs(absMTTrackingID, 7),
		abs(absMTPositionX, 1000),
		abs(absMTPositionY, 1000),
		syn(1, 0),
	)
	require.Equal(t, EventPress, m.committed.Points[0].Event)

	feed(t, &m,
		abs(absMTPositionX, 1200),
		syn(1, 20_000),
	)
	pt := m.committed.Points[0]
	assert.Equal(t, EventMove, pt.Event)
	assert.True(t, pt.Valid)
}

func TestReleaseClearsSlot(t *testing.T) {
	var m machine
	feed(t, &m,
		abs(absMTSlot, 0),
		abs(absMTTrackingID, 3),
		abs(absMTPositionX, 100),
		abs(absMTPositionY, 100),
		syn(1, 0),
		abs(absMTTrackingID, -1),
		syn(1, 30_000),
	)
	snap := m.committed
	assert.EqualValues(t, 0, snap.Count)
	assert.False(t, snap.Points[0].Valid)
	assert.Equal(t, EventRelease, snap.Points[0].Event)
}

func TestReleaseEventPersistsUntilSlotReuse(t *testing.T) {
	var m machine
	feed(t, &m,
		abs(absMTSlot, 0),
		abs(absMTTrackingID, 3),
		syn(1, 0),
		abs(absMTTrackingID, -1),
		syn(1, 20_000),
		// empty frames keep reporting the stale release marker
		syn(1, 40_000),
	)
	snap := m.committed
	assert.EqualValues(t, 0, snap.Count)
	assert.False(t, snap.Points[0].Valid)
	assert.Equal(t, EventRelease, snap.Points[0].Event)

	// reusing the slot replaces the marker with a fresh press
	feed(t, &m,
		abs(absMTSlot, 0),
		abs(absMTTrackingID, 7),
		syn(1, 60_000),
	)
	snap = m.committed
	assert.EqualValues(t, 1, snap.Count)
	assert.True(t, snap.Points[0].Valid)
	assert.Equal(t, EventPress, snap.Points[0].Event)
}

func TestTwoContacts(t *testing.T) {
	var m machine
	feed(t, &m,
		abs(absMTSlot, 0),
		abs(absMTTrackingID, 1),
		abs(absMTPositionX, 0),
		abs(absMTPositionY, 0),
		abs(absMTSlot, 1),
		abs(absMTTrackingID, 2),
		abs(absMTPositionX, 4095),
		abs(absMTPositionY, 4095),
		syn(2, 0),
	)
	snap := m.committed
	assert.EqualValues(t, 2, snap.Count)
	assert.EqualValues(t, 0, snap.Points[0].X)
	assert.EqualValues(t, testPanelW-1, snap.Points[1].X)
	assert.EqualValues(t, testPanelH-1, snap.Points[1].Y)
	assert.EqualValues(t, 0, snap.Points[0].ID)
	assert.EqualValues(t, 1, snap.Points[1].ID)
}

func TestOutOfRangeSlotEventsAreDropped(t *testing.T) {
	var m machine
	feed(t, &m,
		abs(absMTSlot, 0),
		abs(absMTTrackingID, 1),
		abs(absMTPositionX, 500),
		abs(absMTPositionY, 500),
		// a third contact: the panel only tracks two, its events must not
		// bleed into slot 0
		abs(absMTSlot, 2),
		abs(absMTTrackingID, 9),
		abs(absMTPositionX, 4000),
		abs(absMTPositionY, 4000),
		syn(3, 0),
	)
	snap := m.committed
	assert.EqualValues(t, 1, snap.Count)
	pt := snap.Points[0]
	assert.Equal(t, scale(500, 0, 4095, testPanelW), pt.X)
	assert.Equal(t, EventPress, pt.Event)

	// selecting a valid slot again resumes processing
	feed(t, &m,
		abs(absMTSlot, 0),
		abs(absMTPositionX, 600),
		syn(3, 20_000),
	)
	assert.Equal(t, EventMove, m.committed.Points[0].Event)
}

func TestCountMatchesValidPointsAtEveryCommit(t *testing.T) {
	var m machine
	evs := []inputEvent{
		abs(absMTSlot, 0), abs(absMTTrackingID, 1), abs(absMTPositionX, 10), abs(absMTPositionY, 10), syn(1, 0),
		abs(absMTSlot, 1), abs(absMTTrackingID, 2), abs(absMTPositionX, 20), abs(absMTPositionY, 20), syn(1, 10_000),
		abs(absMTSlot, 0), abs(absMTTrackingID, -1), syn(1, 20_000),
		abs(absMTSlot, 1), abs(absMTTrackingID, -1), syn(1, 30_000),
	}
	for _, ev := range evs {
		if m.apply(ev, testRange, testRange, testPanelW, testPanelH) {
			var valid uint8
			for _, pt := range m.committed.Points {
				if pt.Valid {
					valid++
				}
			}
			assert.Equal(t, valid, m.committed.Count)
		}
	}
	assert.EqualValues(t, 0, m.committed.Count)
}

func TestNoCommitWithoutSyncMarker(t *testing.T) {
	var m machine
	frames := feed(t, &m,
		abs(absMTSlot, 0),
		abs(absMTTrackingID, 1),
		abs(absMTPositionX, 100),
	)
	assert.Equal(t, 0, frames)
	assert.False(t, m.haveFrame)
	// the uncommitted press is not visible in the snapshot
	assert.EqualValues(t, 0, m.committed.Count)
}

func TestPressureClamped(t *testing.T) {
	var m machine
	feed(t, &m,
		abs(absMTSlot, 0),
		abs(absMTTrackingID, 1),
		abs(absMTPressure, 5000),
		syn(1, 0),
	)
	assert.EqualValues(t, 255, m.committed.Points[0].Pressure)

	feed(t, &m,
		abs(absMTPressure, -3),
		syn(1, 10_000),
	)
	assert.EqualValues(t, 0, m.committed.Points[0].Pressure)
}

func TestScale(t *testing.T) {
	assert.EqualValues(t, 0, scale(0, 0, 4095, 480))
	assert.EqualValues(t, 479, scale(4095, 0, 4095, 480))
	assert.EqualValues(t, 479, scale(9999, 0, 4095, 480)) // clamped
	assert.EqualValues(t, 0, scale(-5, 0, 4095, 480))     // clamped
	assert.EqualValues(t, 0, scale(100, 0, 0, 480))       // degenerate range
}
