package usecase

import (
	"context"
	"time"

	"github.com/ponyo877/roomchat/server/domain"
)

type Repository interface {
	// User
	CreateUser(ctx context.Context, user domain.User) (domain.User, error)
	GetUser(ctx context.Context, id int64) (domain.User, error)
	GetUserByName(ctx context.Context, username string) (domain.User, error)
	SetPresence(ctx context.Context, userID int64, status domain.Presence, at time.Time) error
	TouchUser(ctx context.Context, userID int64, at time.Time) error
	MarkAway(ctx context.Context, idleSince time.Time) (int64, error)

	// Room
	GetRoom(ctx context.Context, id int64) (domain.Room, error)
	ListRooms(ctx context.Context) ([]domain.Room, error)
	ListRoomsByUser(ctx context.Context, userID int64) ([]domain.Room, error)
	CreateRoom(ctx context.Context, name string, creatorID int64) (domain.Room, error)
	DeleteRoom(ctx context.Context, id int64) error

	// Membership
	AddMember(ctx context.Context, userID, roomID int64) error
}
