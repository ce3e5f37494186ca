//go:build linux

package touch

// machine is the multi-touch slot state machine. It mutates a working point
// set as absolute-axis events arrive and commits a snapshot only at the
// synchronization marker, so a partial frame is never observable.
type machine struct {
	working [MaxPoints]Point
	// pressed marks slots whose Press happened inside the current frame;
	// coordinate updates in the same frame do not demote it to Move.
	pressed [MaxPoints]bool

	slot     int
	dropSlot bool // current slot out of range: drop its events entirely

	committed Snapshot
	haveFrame bool
}

func (m *machine) reset() {
	*m = machine{}
}

// scale maps a device-range value onto [0, out-1], clamping first.
func scale(v, min, max int32, out int) uint16 {
	if out <= 1 || max <= min {
		return 0
	}
	if v < min {
		v = min
	}
	if v > max {
		v = max
	}
	return uint16(int64(v-min) * int64(out-1) / int64(max-min))
}

// apply feeds one kernel event through the machine and reports whether a
// frame was committed.
func (m *machine) apply(ev inputEvent, rx, ry axisRange, panelW, panelH int) bool {
	switch ev.Type {
	case evSyn:
		if ev.Code != synReport {
			return false
		}
		m.commit(ev)
		return true

	case evAbs:
		m.applyAbs(ev, rx, ry, panelW, panelH)
	}
	return false
}

func (m *machine) applyAbs(ev inputEvent, rx, ry axisRange, panelW, panelH int) {
	if ev.Code == absMTSlot {
		// Extra slots beyond capacity are dropped, not merged into slot 0.
		if ev.Value < 0 || ev.Value >= MaxPoints {
			m.dropSlot = true
			return
		}
		m.slot = int(ev.Value)
		m.dropSlot = false
		return
	}
	if m.dropSlot {
		return
	}
	pt := &m.working[m.slot]

	switch ev.Code {
	case absMTTrackingID:
		if ev.Value < 0 {
			pt.Valid = false
			pt.Event = EventRelease
			m.pressed[m.slot] = false
		} else {
			pt.Valid = true
			pt.ID = uint8(m.slot)
			pt.Event = EventPress
			m.pressed[m.slot] = true
		}

	case absMTPositionX, absX:
		pt.X = scale(ev.Value, rx.min, rx.max, panelW)
		if pt.Valid && !m.pressed[m.slot] {
			pt.Event = EventMove
		}

	case absMTPositionY, absY:
		pt.Y = scale(ev.Value, ry.min, ry.max, panelH)
		if pt.Valid && !m.pressed[m.slot] {
			pt.Event = EventMove
		}

	case absMTPressure, absPressure:
		v := ev.Value
		if v < 0 {
			v = 0
		}
		if v > 255 {
			v = 255
		}
		pt.Pressure = uint8(v)
	}
}

// commit recomputes the valid-point count, stamps the frame, and publishes
// the snapshot.
func (m *machine) commit(ev inputEvent) {
	var snap Snapshot
	snap.Points = m.working
	for i := range m.working {
		if m.working[i].Valid {
			snap.Count++
		}
	}
	snap.Timestamp = uint64(ev.Time.Sec)*1000 + uint64(ev.Time.Usec)/1000
	m.committed = snap
	m.haveFrame = true
	m.pressed = [MaxPoints]bool{}
}
