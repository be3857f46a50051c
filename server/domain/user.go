package domain

import "time"

type Presence string

const (
	PresenceOnline  Presence = "online"
	PresenceAway    Presence = "away"
	PresenceOffline Presence = "offline"
)

type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Status       Presence
	LastSeen     time.Time
	CreatedAt    time.Time
}

func NewUser(username, passwordHash string, now time.Time) User {
	return User{
		Username:     username,
		PasswordHash: passwordHash,
		Status:       PresenceOffline,
		LastSeen:     now,
		CreatedAt:    now,
	}
}
