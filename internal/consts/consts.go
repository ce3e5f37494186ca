package consts

// Logical panel geometry of the board's DSI display. The touch coordinate
// space is declared congruent with these.
const (
	PanelWidth  = 480
	PanelHeight = 800
	PanelBPP    = 32
)

// Default kernel device nodes.
const (
	DRMCardPath       = `/dev/dri/card0`
	InputEventPattern = `/dev/input/event%d`
	InputEventMax     = 8
)

const LibraryName = `dk2hal`
