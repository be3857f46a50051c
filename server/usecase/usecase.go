package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/ponyo877/roomchat/server/adaptor"
	"github.com/ponyo877/roomchat/server/domain"
)

type Usecase struct {
	repo     Repository
	hashCost int
	now      func() time.Time
}

func NewUsecase(repo Repository, hashCost int) adaptor.Usecase {
	if hashCost < bcrypt.MinCost || hashCost > bcrypt.MaxCost {
		hashCost = bcrypt.DefaultCost
	}
	return &Usecase{
		repo:     repo,
		hashCost: hashCost,
		now:      time.Now,
	}
}

func (u *Usecase) SignUp(ctx context.Context, username, password string) (domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return domain.User{}, fmt.Errorf("username and password are required: %w", domain.ErrInvalidArgument)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), u.hashCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("error hashing password: %w", err)
	}
	user, err := u.repo.CreateUser(ctx, domain.NewUser(username, string(hash), u.now()))
	if err != nil {
		return domain.User{}, fmt.Errorf("error creating user: %w", err)
	}
	return user, nil
}

// SignIn checks the password. Unknown users and wrong passwords are not told
// apart.
func (u *Usecase) SignIn(ctx context.Context, username, password string) (domain.User, error) {
	user, err := u.repo.GetUserByName(ctx, strings.TrimSpace(username))
	if errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, domain.ErrInvalidCredentials
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("error getting user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.User{}, domain.ErrInvalidCredentials
	}
	return user, nil
}

func (u *Usecase) SignOut(ctx context.Context, userID int64) error {
	if err := u.repo.SetPresence(ctx, userID, domain.PresenceOffline, u.now()); err != nil {
		return fmt.Errorf("error signing out: %w", err)
	}
	return nil
}

func (u *Usecase) GetUser(ctx context.Context, userID int64) (domain.User, []domain.Room, error) {
	user, err := u.repo.GetUser(ctx, userID)
	if err != nil {
		return domain.User{}, nil, fmt.Errorf("error getting user: %w", err)
	}
	rooms, err := u.repo.ListRoomsByUser(ctx, userID)
	if err != nil {
		return domain.User{}, nil, fmt.Errorf("error listing rooms of user: %w", err)
	}
	return user, rooms, nil
}

func (u *Usecase) ListRooms(ctx context.Context) ([]domain.Room, error) {
	rooms, err := u.repo.ListRooms(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing rooms: %w", err)
	}
	return rooms, nil
}

func (u *Usecase) CreateRoom(ctx context.Context, name string, userID int64) (domain.Room, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Room{}, fmt.Errorf("room name is required: %w", domain.ErrInvalidArgument)
	}
	room, err := u.repo.CreateRoom(ctx, name, userID)
	if err != nil {
		return domain.Room{}, fmt.Errorf("error creating room: %w", err)
	}
	return room, nil
}

func (u *Usecase) JoinRoom(ctx context.Context, userID, roomID int64) error {
	if err := u.repo.AddMember(ctx, userID, roomID); err != nil {
		return fmt.Errorf("error joining room: %w", err)
	}
	return nil
}

func (u *Usecase) DeleteRoom(ctx context.Context, roomID int64) error {
	if err := u.repo.DeleteRoom(ctx, roomID); err != nil {
		return fmt.Errorf("error deleting room: %w", err)
	}
	return nil
}
