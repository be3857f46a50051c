package domain

import (
	"fmt"
	"time"
)

type EventType int

const (
	EventJoin EventType = iota
	EventMessage
)

func (t EventType) String() string {
	switch t {
	case EventJoin:
		return "join"
	case EventMessage:
		return "message"
	default:
		return "unknown"
	}
}

// Event is one broadcast to a room.
type Event struct {
	Type      EventType
	RoomID    int64
	UserID    int64
	Message   string
	Timestamp time.Time
}

func NewJoinEvent(roomID, userID int64) Event {
	return Event{
		Type:      EventJoin,
		RoomID:    roomID,
		UserID:    userID,
		Timestamp: time.Now(),
	}
}

func NewMessageEvent(roomID, userID int64, message string) Event {
	return Event{
		Type:      EventMessage,
		RoomID:    roomID,
		UserID:    userID,
		Message:   message,
		Timestamp: time.Now(),
	}
}

func (e Event) IsValid() bool {
	switch e.Type {
	case EventJoin:
		return e.RoomID != 0 && e.UserID != 0
	case EventMessage:
		return e.RoomID != 0 && e.UserID != 0 && e.Message != ""
	default:
		return false
	}
}

// Text is the frame sent to every client of the room.
func (e Event) Text() string {
	switch e.Type {
	case EventJoin:
		return fmt.Sprintf("User %d joined room %d and is online", e.UserID, e.RoomID)
	default:
		return fmt.Sprintf("User %d: %s", e.UserID, e.Message)
	}
}

func (e Event) String() string {
	return e.Type.String() + ": " + e.Text()
}
