package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/ponyo877/roomchat/server/domain"
)

// fakeRepository keeps everything in maps; only the behavior the usecases
// depend on is modeled.
type fakeRepository struct {
	mu       sync.Mutex
	users    map[int64]domain.User
	rooms    map[int64]domain.Room
	members  map[[2]int64]bool
	nextID   int64
	awayFrom time.Time
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		users:   make(map[int64]domain.User),
		rooms:   make(map[int64]domain.Room),
		members: make(map[[2]int64]bool),
	}
}

func (f *fakeRepository) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeRepository) CreateUser(_ context.Context, user domain.User) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == user.Username {
			return domain.User{}, domain.ErrAlreadyExists
		}
	}
	user.ID = f.id()
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeRepository) GetUser(_ context.Context, id int64) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

func (f *fakeRepository) GetUserByName(_ context.Context, username string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

func (f *fakeRepository) SetPresence(_ context.Context, userID int64, status domain.Presence, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return domain.ErrNotFound
	}
	u.Status, u.LastSeen = status, at
	f.users[userID] = u
	return nil
}

func (f *fakeRepository) TouchUser(_ context.Context, userID int64, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if ok && u.Status != domain.PresenceOffline {
		u.Status, u.LastSeen = domain.PresenceOnline, at
		f.users[userID] = u
	}
	return nil
}

func (f *fakeRepository) MarkAway(_ context.Context, idleSince time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.awayFrom = idleSince
	var n int64
	for id, u := range f.users {
		if u.Status == domain.PresenceOnline && u.LastSeen.Before(idleSince) {
			u.Status = domain.PresenceAway
			f.users[id] = u
			n++
		}
	}
	return n, nil
}

func (f *fakeRepository) GetRoom(_ context.Context, id int64) (domain.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rooms[id]
	if !ok {
		return domain.Room{}, domain.ErrNotFound
	}
	return r, nil
}

func (f *fakeRepository) ListRooms(_ context.Context) ([]domain.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rooms := []domain.Room{}
	for id := int64(1); id <= f.nextID; id++ {
		if r, ok := f.rooms[id]; ok {
			rooms = append(rooms, r)
		}
	}
	return rooms, nil
}

func (f *fakeRepository) ListRoomsByUser(_ context.Context, userID int64) ([]domain.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rooms := []domain.Room{}
	for id := int64(1); id <= f.nextID; id++ {
		if r, ok := f.rooms[id]; ok && f.members[[2]int64{userID, id}] {
			rooms = append(rooms, r)
		}
	}
	return rooms, nil
}

func (f *fakeRepository) CreateRoom(_ context.Context, name string, creatorID int64) (domain.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rooms {
		if r.Name == name {
			return domain.Room{}, domain.ErrAlreadyExists
		}
	}
	if _, ok := f.users[creatorID]; !ok {
		return domain.Room{}, domain.ErrNotFound
	}
	r := domain.Room{ID: f.id(), Name: name}
	f.rooms[r.ID] = r
	f.members[[2]int64{creatorID, r.ID}] = true
	return r, nil
}

func (f *fakeRepository) DeleteRoom(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rooms[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.rooms, id)
	for k := range f.members {
		if k[1] == id {
			delete(f.members, k)
		}
	}
	return nil
}

func (f *fakeRepository) AddMember(_ context.Context, userID, roomID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rooms[roomID]; !ok {
		return domain.ErrNotFound
	}
	if _, ok := f.users[userID]; !ok {
		return domain.ErrNotFound
	}
	k := [2]int64{userID, roomID}
	if f.members[k] {
		return domain.ErrAlreadyMember
	}
	f.members[k] = true
	return nil
}
