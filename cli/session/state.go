package session

// State is the lifecycle state of the manager's current session.
type State int

const (
	// StateIdle means no session exists and a Join will be accepted.
	StateIdle State = iota

	// StateConnecting means the real-time handshake is in flight.
	StateConnecting

	// StateOpen means the handshake completed and messages are relayed.
	StateOpen

	// StateClosing means teardown was initiated for the session.
	StateClosing

	// StateClosed is terminal for a session. The manager reports Idle again
	// once a session reaches it.
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Info is a read-only snapshot of the current session.
type Info struct {
	ID     string
	RoomID string
	UserID string
	State  State
}
