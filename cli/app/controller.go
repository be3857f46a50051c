// Package app holds the signed-in identity and turns user intents into
// directory and session calls.
package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ponyo877/roomchat/cli/directory"
	"github.com/ponyo877/roomchat/cli/session"
)

type Option func(*Controller)

func WithLogger(l zerolog.Logger) Option {
	return func(c *Controller) { c.logger = l.With().Str("module", "app").Logger() }
}

// WithIdentity restores a previously signed-in user.
func WithIdentity(id Identity) Option {
	return func(c *Controller) { c.identity = &id }
}

type Controller struct {
	dir     Directory
	sess    Sessions
	display Display
	logger  zerolog.Logger

	mu       sync.Mutex
	identity *Identity
	room     *directory.Room
	entered  bool
}

// NewController registers the controller as the observer of sess.
func NewController(dir Directory, sess Sessions, display Display, opts ...Option) *Controller {
	c := &Controller{
		dir:     dir,
		sess:    sess,
		display: display,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	sess.SetObserver(c)
	return c
}

func (c *Controller) SignUp(ctx context.Context, username, password string) (directory.User, error) {
	if err := validCredentials(username, password); err != nil {
		return directory.User{}, err
	}
	u, err := c.dir.SignUp(ctx, username, password)
	if err != nil {
		return directory.User{}, fmt.Errorf("sign up: %w", err)
	}
	return u, nil
}

// SignIn sets the identity only when the directory accepts the credentials.
func (c *Controller) SignIn(ctx context.Context, username, password string) (Identity, error) {
	if err := validCredentials(username, password); err != nil {
		return Identity{}, err
	}
	if id, ok := c.Identity(); ok {
		return id, fmt.Errorf("sign in as %s: %w", username, ErrAlreadySignedIn)
	}
	userID, err := c.dir.SignIn(ctx, username, password)
	if err != nil {
		return Identity{}, fmt.Errorf("sign in: %w", err)
	}
	id := Identity{UserID: userID, Username: username}
	c.mu.Lock()
	c.identity = &id
	c.mu.Unlock()
	c.logger.Info().Int64("user_id", userID).Str("username", username).Msg("signed in")
	return id, nil
}

// SignOut leaves the current room, then tells the directory. The identity is
// cleared even if the directory call fails.
func (c *Controller) SignOut(ctx context.Context) error {
	id, ok := c.Identity()
	if !ok {
		return ErrNotSignedIn
	}
	if err := c.LeaveRoom(); err != nil {
		c.logger.Warn().Err(err).Msg("leave on sign out")
	}
	err := c.dir.SignOut(ctx, id.UserID)

	c.mu.Lock()
	c.identity = nil
	c.mu.Unlock()
	if err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	c.logger.Info().Int64("user_id", id.UserID).Msg("signed out")
	return nil
}

func (c *Controller) Identity() (Identity, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.identity == nil {
		return Identity{}, false
	}
	return *c.identity, true
}

// SetDisplay redirects subsequent reports to d.
func (c *Controller) SetDisplay(d Display) {
	c.mu.Lock()
	c.display = d
	c.mu.Unlock()
}

// Profile fetches the signed-in user's directory record.
func (c *Controller) Profile(ctx context.Context) (directory.User, error) {
	id, err := c.requireIdentity()
	if err != nil {
		return directory.User{}, err
	}
	u, _, err := c.dir.GetUser(ctx, id.UserID)
	if err != nil {
		return directory.User{}, fmt.Errorf("get user %d: %w", id.UserID, err)
	}
	return u, nil
}

func (c *Controller) Status() Status {
	st := Status{State: c.sess.State().String()}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.identity != nil {
		st.Identity = *c.identity
		st.SignedIn = true
	}
	if c.room != nil {
		st.RoomID = c.room.ID
		st.RoomName = c.room.Name
	}
	return st
}

func (c *Controller) Rooms(ctx context.Context) ([]directory.Room, error) {
	if _, err := c.requireIdentity(); err != nil {
		return nil, err
	}
	rooms, err := c.dir.ListRooms(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return rooms, nil
}

func (c *Controller) JoinedRooms(ctx context.Context) ([]directory.Room, error) {
	id, err := c.requireIdentity()
	if err != nil {
		return nil, err
	}
	rooms, err := c.dir.ListJoinedRooms(ctx, id.UserID)
	if err != nil {
		return nil, fmt.Errorf("list joined rooms: %w", err)
	}
	return rooms, nil
}

func (c *Controller) CreateRoom(ctx context.Context, name string) (directory.Room, error) {
	id, err := c.requireIdentity()
	if err != nil {
		return directory.Room{}, err
	}
	if strings.TrimSpace(name) == "" {
		return directory.Room{}, fmt.Errorf("room name: %w", ErrInvalidInput)
	}
	room, err := c.dir.CreateRoom(ctx, name, id.UserID)
	if err != nil {
		return directory.Room{}, fmt.Errorf("create room %q: %w", name, err)
	}
	return room, nil
}

// JoinRoom records membership. It does not open a session; see Enter.
func (c *Controller) JoinRoom(ctx context.Context, roomID int64) error {
	id, err := c.requireIdentity()
	if err != nil {
		return err
	}
	if err := c.dir.JoinRoom(ctx, roomID, id.UserID); err != nil {
		return fmt.Errorf("join room %d: %w", roomID, err)
	}
	return nil
}

// DeleteRoom leaves the room first when it is the current one.
func (c *Controller) DeleteRoom(ctx context.Context, roomID int64) error {
	if _, err := c.requireIdentity(); err != nil {
		return err
	}
	c.mu.Lock()
	inside := c.room != nil && c.room.ID == roomID
	c.mu.Unlock()
	if inside {
		if err := c.LeaveRoom(); err != nil {
			c.logger.Warn().Err(err).Int64("room_id", roomID).Msg("leave before delete")
		}
	}
	if err := c.dir.DeleteRoom(ctx, roomID); err != nil {
		return fmt.Errorf("delete room %d: %w", roomID, err)
	}
	return nil
}

// Enter opens the real-time session for roomID. The room is reported to the
// display once the handshake completes.
func (c *Controller) Enter(roomID int64, roomName string) error {
	id, err := c.requireIdentity()
	if err != nil {
		return err
	}
	if roomName == "" {
		roomName = strconv.FormatInt(roomID, 10)
	}
	// record before Join so OnOpen finds it
	c.mu.Lock()
	prev, prevEntered := c.room, c.entered
	c.room = &directory.Room{ID: roomID, Name: roomName}
	c.entered = false
	c.mu.Unlock()

	if err := c.sess.Join(strconv.FormatInt(roomID, 10), id.userKey()); err != nil {
		c.mu.Lock()
		c.room, c.entered = prev, prevEntered
		c.mu.Unlock()
		return fmt.Errorf("enter %s: %w", roomName, err)
	}
	return nil
}

// LeaveRoom closes the session. The session does not report a local leave,
// so the display is told here.
func (c *Controller) LeaveRoom() error {
	err := c.sess.Leave()
	if room, entered := c.clearRoom(); room != nil && entered {
		c.screen().RoomLeft(*room)
	}
	return err
}

func (c *Controller) Say(text string) error {
	return c.sess.Send(text)
}

func (c *Controller) OnOpen(roomID string) {
	c.mu.Lock()
	room := c.room
	if room != nil && strconv.FormatInt(room.ID, 10) == roomID {
		c.entered = true
	} else {
		room = nil
	}
	c.mu.Unlock()
	if room == nil {
		c.logger.Warn().Str("room", roomID).Msg("open for unknown room")
		return
	}
	c.screen().RoomEntered(*room)
}

func (c *Controller) OnMessage(text string) {
	c.screen().ShowMessage(text)
}

func (c *Controller) OnClosed(reason error) {
	d := c.screen()
	room, entered := c.clearRoom()
	if room != nil && entered {
		d.RoomLeft(*room)
	}
	var rc *session.RemoteClosedError
	if errors.As(reason, &rc) && rc.Reason != "" {
		d.ShowNotice("connection closed by server: " + rc.Reason)
		return
	}
	d.ShowNotice("connection closed by server")
}

func (c *Controller) OnError(err error) {
	d := c.screen()
	room, entered := c.clearRoom()
	if room != nil && entered {
		d.RoomLeft(*room)
	}
	d.ShowError(err)
}

func (c *Controller) screen() Display {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.display
}

func (c *Controller) clearRoom() (*directory.Room, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	room, entered := c.room, c.entered
	c.room, c.entered = nil, false
	return room, entered
}

func (c *Controller) requireIdentity() (Identity, error) {
	id, ok := c.Identity()
	if !ok {
		return Identity{}, ErrNotSignedIn
	}
	return id, nil
}

func validCredentials(username, password string) error {
	if strings.TrimSpace(username) == "" || password == "" {
		return fmt.Errorf("username and password are required: %w", ErrInvalidInput)
	}
	return nil
}
