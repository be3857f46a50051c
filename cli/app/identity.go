package app

import (
	"errors"
	"strconv"
)

var (
	ErrNotSignedIn     = errors.New("not signed in")
	ErrAlreadySignedIn = errors.New("already signed in")
	ErrInvalidInput    = errors.New("invalid input")
)

// Identity is the signed-in user.
type Identity struct {
	UserID   int64
	Username string
}

func (i Identity) userKey() string {
	return strconv.FormatInt(i.UserID, 10)
}

// Status is a point-in-time view of the controller.
type Status struct {
	Identity Identity
	SignedIn bool
	RoomID   int64
	RoomName string
	State    string
}
