// Package directory is a request/response client for the chat directory
// service: accounts, the room list and room membership.
package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultTimeout = 10 * time.Second
	opJoinRoom     = "join room"
)

type Room struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Status   string `json:"status"`
	LastSeen string `json:"last_seen"`
}

type Client struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l.With().Str("module", "directory").Logger() }
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type envelope[T any] struct {
	Status string `json:"status"`
	Data   T      `json:"data"`
}

type userData struct {
	User User `json:"user"`
}

type userWithRooms struct {
	User      User   `json:"user"`
	ChatRooms []Room `json:"chat_rooms"`
}

func (c *Client) SignUp(ctx context.Context, username, password string) (User, error) {
	var res envelope[userData]
	if err := c.do(ctx, "signup", http.MethodPost, "/api/auth/signup", credentials{username, password}, &res); err != nil {
		return User{}, err
	}
	return res.Data.User, nil
}

// SignIn returns the user id for valid credentials.
func (c *Client) SignIn(ctx context.Context, username, password string) (int64, error) {
	var res struct {
		UserID int64 `json:"user_id"`
	}
	if err := c.do(ctx, "signin", http.MethodPost, "/api/auth/signin", credentials{username, password}, &res); err != nil {
		return 0, err
	}
	return res.UserID, nil
}

func (c *Client) SignOut(ctx context.Context, userID int64) error {
	return c.do(ctx, "signout", http.MethodPost, "/api/auth/signout/"+strconv.FormatInt(userID, 10), nil, nil)
}

func (c *Client) GetUser(ctx context.Context, userID int64) (User, []Room, error) {
	var res envelope[userWithRooms]
	if err := c.do(ctx, "get user", http.MethodGet, "/api/users/"+strconv.FormatInt(userID, 10), nil, &res); err != nil {
		return User{}, nil, err
	}
	return res.Data.User, nonNil(res.Data.ChatRooms), nil
}

func (c *Client) ListJoinedRooms(ctx context.Context, userID int64) ([]Room, error) {
	_, rooms, err := c.GetUser(ctx, userID)
	return rooms, err
}

func (c *Client) ListRooms(ctx context.Context) ([]Room, error) {
	var rooms []Room
	if err := c.do(ctx, "list rooms", http.MethodGet, "/api/chat_rooms", nil, &rooms); err != nil {
		return nil, err
	}
	return nonNil(rooms), nil
}

func (c *Client) CreateRoom(ctx context.Context, name string, userID int64) (Room, error) {
	req := struct {
		Name   string `json:"name"`
		UserID int64  `json:"user_id"`
	}{name, userID}
	var room Room
	if err := c.do(ctx, "create room", http.MethodPost, "/api/chat_rooms", req, &room); err != nil {
		return Room{}, err
	}
	return room, nil
}

// JoinRoom records membership of userID in roomID. An existing membership is
// reported as ErrAlreadyMember.
func (c *Client) JoinRoom(ctx context.Context, roomID, userID int64) error {
	req := struct {
		RoomID int64 `json:"room_id"`
		UserID int64 `json:"user_id"`
	}{roomID, userID}
	return c.do(ctx, opJoinRoom, http.MethodPost, "/api/chat_rooms/join", req, nil)
}

func (c *Client) DeleteRoom(ctx context.Context, roomID int64) error {
	return c.do(ctx, "delete room", http.MethodDelete, "/api/chat_rooms/"+strconv.FormatInt(roomID, 10), nil, nil)
}

func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("op", op).Msg("request failed")
		return &DirectoryError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &DirectoryError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}
	c.logger.Debug().Str("op", op).Int("status", resp.StatusCode).Msg("response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &DirectoryError{Op: op, StatusCode: resp.StatusCode, Message: errorMessage(resp, raw)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &DirectoryError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// errorMessage prefers a JSON message field, then a plain-text body, then the
// status text.
func errorMessage(resp *http.Response, raw []byte) string {
	var body struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &body) == nil && body.Message != "" {
		return body.Message
	}
	if text := strings.TrimSpace(string(raw)); text != "" && !strings.HasPrefix(text, "{") {
		return text
	}
	return http.StatusText(resp.StatusCode)
}

func nonNil(rooms []Room) []Room {
	if rooms == nil {
		return []Room{}
	}
	return rooms
}
