package session

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyJoined is returned by Join while another session exists.
	ErrAlreadyJoined = errors.New("already joined a room")
	// ErrInvalidTarget is returned by Join when the room or user id is empty.
	ErrInvalidTarget = errors.New("room id and user id are required")
)

// ConnectionError reports a failed handshake or a transport failure of an
// established session.
type ConnectionError struct {
	Op     string
	RoomID string
	UserID string
	Err    error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("%s room %s as user %s: %v", e.Op, e.RoomID, e.UserID, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// RemoteClosedError reports an orderly close initiated by the remote side.
type RemoteClosedError struct {
	Code   int
	Reason string
}

func (e *RemoteClosedError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("connection closed by remote (code %d)", e.Code)
	}
	return fmt.Sprintf("connection closed by remote (code %d): %s", e.Code, e.Reason)
}
