package adaptor

import (
	"context"

	"github.com/ponyo877/roomchat/server/domain"
)

type Usecase interface {
	SignUp(ctx context.Context, username, password string) (domain.User, error)
	SignIn(ctx context.Context, username, password string) (domain.User, error)
	SignOut(ctx context.Context, userID int64) error
	GetUser(ctx context.Context, userID int64) (domain.User, []domain.Room, error)
	ListRooms(ctx context.Context) ([]domain.Room, error)
	CreateRoom(ctx context.Context, name string, userID int64) (domain.Room, error)
	JoinRoom(ctx context.Context, userID, roomID int64) error
	DeleteRoom(ctx context.Context, roomID int64) error
}

type ChatUsecase interface {
	Connect(ctx context.Context, roomID, userID int64, remote string) (*domain.Client, error)
	Message(ctx context.Context, client *domain.Client, text string) error
	Disconnect(ctx context.Context, client *domain.Client) error
}
