package gateway

type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateIdentifying
	StateReady
	StateClosing
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateIdentifying:
		return "identifying"
	case StateReady:
		return "ready"
	case StateClosing:
		return "closing"
	default:
		return "unknown"
	}
}

type transition struct {
	from State
	to   State
}
