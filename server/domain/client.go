package domain

import (
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Client is one real-time connection of a user to a room. The hub delivers
// frames through Frames until Close.
type Client struct {
	ID       string
	RoomID   int64
	UserID   int64
	Remote   string
	JoinedAt time.Time

	send chan string

	mu     sync.RWMutex
	closed bool
}

func NewClient(roomID, userID int64, remote string, buffer int) *Client {
	return &Client{
		ID:       uuid.NewString(),
		RoomID:   roomID,
		UserID:   userID,
		Remote:   remote,
		JoinedAt: time.Now(),
		send:     make(chan string, buffer),
	}
}

func (c *Client) Frames() <-chan string {
	return c.send
}

// TrySend queues text without blocking.
func (c *Client) TrySend(text string) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrClientClosed
	}
	select {
	case c.send <- text:
		return nil
	default:
		return ErrBackpressure
	}
}

// Close ends delivery; Frames is closed once. Safe to call repeatedly.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

func (c *Client) String() string {
	return "user " + strconv.FormatInt(c.UserID, 10) + "@room " + strconv.FormatInt(c.RoomID, 10) + " (" + c.ID + ")"
}
