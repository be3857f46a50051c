package app

import (
	"context"

	"github.com/ponyo877/roomchat/cli/directory"
	"github.com/ponyo877/roomchat/cli/session"
)

// Directory is the subset of *directory.Client the controller calls.
type Directory interface {
	SignUp(ctx context.Context, username, password string) (directory.User, error)
	SignIn(ctx context.Context, username, password string) (int64, error)
	SignOut(ctx context.Context, userID int64) error
	GetUser(ctx context.Context, userID int64) (directory.User, []directory.Room, error)
	ListRooms(ctx context.Context) ([]directory.Room, error)
	ListJoinedRooms(ctx context.Context, userID int64) ([]directory.Room, error)
	CreateRoom(ctx context.Context, name string, userID int64) (directory.Room, error)
	JoinRoom(ctx context.Context, roomID, userID int64) error
	DeleteRoom(ctx context.Context, roomID int64) error
}

// Sessions is the subset of *session.Manager the controller calls.
type Sessions interface {
	Join(roomID, userID string) error
	Leave() error
	Send(text string) error
	State() session.State
	Current() (session.Info, bool)
	SetObserver(o session.Observer)
}

// Display renders what the controller reports. Methods may be called from
// the session goroutine.
type Display interface {
	ShowMessage(text string)
	ShowNotice(text string)
	ShowError(err error)
	RoomEntered(room directory.Room)
	RoomLeft(room directory.Room)
}

var (
	_ Directory        = (*directory.Client)(nil)
	_ Sessions         = (*session.Manager)(nil)
	_ session.Observer = (*Controller)(nil)
)
