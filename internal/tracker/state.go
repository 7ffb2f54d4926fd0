package tracker

// State is a step of the workout creation flow.
type State int

const (
	AwaitingPosition State = iota
	AwaitingMapClick
	FormOpen
	Idle
	// PositionUnavailable is terminal. The map is never initialized.
	PositionUnavailable
)

func (s State) String() string {
	switch s {
	case AwaitingPosition:
		return "awaiting_position"
	case AwaitingMapClick:
		return "awaiting_map_click"
	case FormOpen:
		return "form_open"
	case Idle:
		return "idle"
	case PositionUnavailable:
		return "position_unavailable"
	}
	return "unknown"
}

// MarshalText lets State appear by name in JSON.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// mapReady reports whether the map has been initialized in s.
func (s State) mapReady() bool {
	return s == AwaitingMapClick || s == FormOpen || s == Idle
}
