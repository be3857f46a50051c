package session

// Observer receives the events of the manager's current session. Callbacks
// run on the session's own goroutine, outside the manager lock, so an
// observer may call back into the manager.
type Observer interface {
	// OnOpen is called once the handshake for roomID completed.
	OnOpen(roomID string)
	// OnMessage is called for every inbound frame, in arrival order.
	OnMessage(text string)
	// OnClosed is called when the remote side closed the connection.
	OnClosed(reason error)
	// OnError is called when the handshake or the connection failed.
	OnError(err error)
}

type nopObserver struct{}

func (nopObserver) OnOpen(string)    {}
func (nopObserver) OnMessage(string) {}
func (nopObserver) OnClosed(error)   {}
func (nopObserver) OnError(error)    {}
