package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ponyo877/roomchat/server/adaptor"
	"github.com/ponyo877/roomchat/server/domain"
)

const clientBuffer = 64

// ChatUsecase connects websocket clients to the hub and keeps presence in
// step with their activity.
type ChatUsecase struct {
	repo   Repository
	hub    domain.Hub
	logger zerolog.Logger
	now    func() time.Time
}

func NewChatUsecase(repo Repository, hub domain.Hub, logger zerolog.Logger) adaptor.ChatUsecase {
	return &ChatUsecase{
		repo:   repo,
		hub:    hub,
		logger: logger.With().Str("module", "usecase.chat").Logger(),
		now:    time.Now,
	}
}

// Connect registers a client for the room, marks the user online and
// announces the arrival to everyone in the room, the new client included.
func (u *ChatUsecase) Connect(ctx context.Context, roomID, userID int64, remote string) (*domain.Client, error) {
	if _, err := u.repo.GetRoom(ctx, roomID); err != nil {
		return nil, fmt.Errorf("error getting room %d: %w", roomID, err)
	}
	if _, err := u.repo.GetUser(ctx, userID); err != nil {
		return nil, fmt.Errorf("error getting user %d: %w", userID, err)
	}

	client := domain.NewClient(roomID, userID, remote, clientBuffer)
	if err := u.hub.Join(client); err != nil {
		return nil, fmt.Errorf("error joining hub: %w", err)
	}
	if err := u.repo.SetPresence(ctx, userID, domain.PresenceOnline, u.now()); err != nil {
		u.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to mark user online")
	}
	if ev := domain.NewJoinEvent(roomID, userID); u.hub.Broadcast(ev) != nil {
		u.logger.Warn().Stringer("event", ev).Msg("join notice dropped")
	}
	u.logger.Info().Str("client", client.ID).Int64("room_id", roomID).Int64("user_id", userID).Str("remote", remote).Msg("client connected")
	return client, nil
}

// Message relays one inbound frame to the client's room. Blank frames are
// ignored.
func (u *ChatUsecase) Message(ctx context.Context, client *domain.Client, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if err := u.repo.TouchUser(ctx, client.UserID, u.now()); err != nil {
		u.logger.Error().Err(err).Int64("user_id", client.UserID).Msg("failed to record activity")
	}
	ev := domain.NewMessageEvent(client.RoomID, client.UserID, text)
	if err := u.hub.Broadcast(ev); err != nil {
		u.logger.Debug().Err(err).Stringer("event", ev).Msg("broadcast failed")
		return fmt.Errorf("error broadcasting message: %w", err)
	}
	return nil
}

func (u *ChatUsecase) Disconnect(ctx context.Context, client *domain.Client) error {
	if err := u.hub.Leave(client.ID); err != nil {
		u.logger.Debug().Err(err).Str("client", client.ID).Msg("client already gone")
	}
	if err := u.repo.SetPresence(ctx, client.UserID, domain.PresenceOffline, u.now()); err != nil {
		return fmt.Errorf("error marking user offline: %w", err)
	}
	u.logger.Info().Str("client", client.ID).Int64("room_id", client.RoomID).Int64("user_id", client.UserID).Msg("client disconnected")
	return nil
}
