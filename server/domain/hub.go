package domain

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

const ringSize = 256

// Hub tracks the clients connected to each room and fans room events out to
// them. Events of one room reach every client in the order they were
// broadcast.
type Hub interface {
	Join(client *Client) error
	Leave(clientID string) error
	Broadcast(event Event) error
	Clients(roomID int64) []*Client
	Stats() HubStats
	Close()
}

type HubStats struct {
	ActiveClients int
	ActiveRooms   int
	TotalEvents   int64
	DroppedFrames int64
	Uptime        time.Duration
}

type hubImpl struct {
	mu        sync.RWMutex
	rooms     map[int64]*roomHub
	clients   map[string]*Client
	closed    bool
	startTime time.Time

	totalEvents   atomic.Int64
	droppedFrames atomic.Int64
}

type roomHub struct {
	mu        sync.RWMutex
	id        int64
	clients   map[string]*Client
	broadcast chan Event
	hub       *hubImpl
}

func NewHub() Hub {
	return &hubImpl{
		rooms:     make(map[int64]*roomHub),
		clients:   make(map[string]*Client),
		startTime: time.Now(),
	}
}

func newRoomHub(id int64, hub *hubImpl) *roomHub {
	r := &roomHub{
		id:        id,
		clients:   make(map[string]*Client),
		broadcast: make(chan Event, ringSize),
		hub:       hub,
	}
	go r.fanout()
	return r
}

func (r *roomHub) fanout() {
	for event := range r.broadcast {
		text := event.Text()
		r.mu.RLock()
		for _, c := range r.clients {
			if err := c.TrySend(text); err != nil {
				r.hub.droppedFrames.Add(1)
			}
		}
		r.mu.RUnlock()
	}
}

func (h *hubImpl) Join(client *Client) error {
	if client == nil || client.RoomID == 0 || client.UserID == 0 {
		return ErrInvalidArgument
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrHubClosed
	}
	if _, exists := h.clients[client.ID]; exists {
		return fmt.Errorf("client %s: %w", client.ID, ErrAlreadyExists)
	}

	room, exists := h.rooms[client.RoomID]
	if !exists {
		room = newRoomHub(client.RoomID, h)
		h.rooms[client.RoomID] = room
	}
	room.mu.Lock()
	room.clients[client.ID] = client
	room.mu.Unlock()

	h.clients[client.ID] = client
	return nil
}

// Leave detaches the client and closes its frame channel. The room is dropped
// once it has no clients left.
func (h *hubImpl) Leave(clientID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	client, exists := h.clients[clientID]
	if !exists {
		return fmt.Errorf("client %s: %w", clientID, ErrNotFound)
	}
	delete(h.clients, clientID)
	client.Close()

	if room, ok := h.rooms[client.RoomID]; ok {
		room.mu.Lock()
		delete(room.clients, clientID)
		remaining := len(room.clients)
		room.mu.Unlock()

		if remaining == 0 {
			close(room.broadcast)
			delete(h.rooms, client.RoomID)
		}
	}
	return nil
}

// Broadcast queues the event for its room without blocking. A room nobody is
// connected to is not an error; the event is dropped.
func (h *hubImpl) Broadcast(event Event) error {
	if !event.IsValid() {
		return ErrInvalidArgument
	}
	// the read lock keeps Leave from closing the channel during the send
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return ErrHubClosed
	}
	room, exists := h.rooms[event.RoomID]
	if !exists {
		return nil
	}
	select {
	case room.broadcast <- event:
		h.totalEvents.Add(1)
		return nil
	default:
		return fmt.Errorf("room %d: %w", event.RoomID, ErrBackpressure)
	}
}

func (h *hubImpl) Clients(roomID int64) []*Client {
	h.mu.RLock()
	room, exists := h.rooms[roomID]
	h.mu.RUnlock()
	if !exists {
		return []*Client{}
	}

	room.mu.RLock()
	defer room.mu.RUnlock()
	clients := make([]*Client, 0, len(room.clients))
	for _, c := range room.clients {
		clients = append(clients, c)
	}
	return clients
}

func (h *hubImpl) Stats() HubStats {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return HubStats{
		ActiveClients: len(h.clients),
		ActiveRooms:   len(h.rooms),
		TotalEvents:   h.totalEvents.Load(),
		DroppedFrames: h.droppedFrames.Load(),
		Uptime:        time.Since(h.startTime),
	}
}

// Close disconnects every client and refuses further joins.
func (h *hubImpl) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, room := range h.rooms {
		room.mu.Lock()
		for _, c := range room.clients {
			c.Close()
		}
		room.clients = make(map[string]*Client)
		room.mu.Unlock()
		close(room.broadcast)
		delete(h.rooms, id)
	}
	h.clients = make(map[string]*Client)
}
