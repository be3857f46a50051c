// Package session owns the single real-time connection of the chat client.
//
// A Manager holds at most one session at a time. Join starts the handshake
// in the background, Leave tears the session down from any state, and every
// event of a session is tagged with the session's generation so that events
// of a torn-down connection never reach the observer of a newer one.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
)

type Option func(*Manager)

// WithObserver registers the observer at construction time.
func WithObserver(o Observer) Option {
	return func(m *Manager) {
		if o == nil {
			o = nopObserver{}
		}
		m.observer = o
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(m *Manager) { m.logger = l.With().Str("module", "session").Logger() }
}

type Manager struct {
	dialer Dialer
	target TargetFunc
	logger zerolog.Logger

	mu       sync.Mutex
	observer Observer
	current  *session
	last     *session
}

// session is one Join..Leave lifetime. id is its generation tag.
type session struct {
	id     ulid.ULID
	roomID string
	userID string
	target string
	cancel context.CancelFunc

	// guarded by Manager.mu
	state State
	conn  Transport

	writeMu sync.Mutex

	// held while an event of this session is being delivered
	deliverMu sync.Mutex

	// the session before this one; its deliveries finish before ours start
	prev *session
}

func NewManager(dialer Dialer, target TargetFunc, opts ...Option) *Manager {
	m := &Manager{
		dialer:   dialer,
		target:   target,
		logger:   zerolog.Nop(),
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SetObserver replaces the registered observer. A nil observer discards events.
func (m *Manager) SetObserver(o Observer) {
	if o == nil {
		o = nopObserver{}
	}
	m.mu.Lock()
	m.observer = o
	m.mu.Unlock()
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return StateIdle
	}
	return m.current.state
}

// Current returns a snapshot of the active session, if any.
func (m *Manager) Current() (Info, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.current
	if s == nil {
		return Info{State: StateIdle}, false
	}
	return Info{ID: s.id.String(), RoomID: s.roomID, UserID: s.userID, State: s.state}, true
}

// Join starts a session for roomID as userID. It fails with ErrAlreadyJoined
// while any session exists and never replaces or queues it. The handshake
// outcome is reported to the observer.
func (m *Manager) Join(roomID, userID string) error {
	if strings.TrimSpace(roomID) == "" || strings.TrimSpace(userID) == "" {
		return ErrInvalidTarget
	}

	m.mu.Lock()
	if cur := m.current; cur != nil {
		m.mu.Unlock()
		m.logger.Warn().Str("room", roomID).Str("active_room", cur.roomID).Msg("join rejected")
		return fmt.Errorf("join room %s: %w", roomID, ErrAlreadyJoined)
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &session{
		id:     ulid.Make(),
		roomID: roomID,
		userID: userID,
		target: m.target(roomID, userID),
		cancel: cancel,
		state:  StateConnecting,
		prev:   m.last,
	}
	m.current = s
	m.last = s
	m.mu.Unlock()

	m.logger.Info().Str("sid", s.id.String()).Str("room", roomID).Str("user", userID).Msg("connecting")
	go m.run(ctx, s)
	return nil
}

// Send writes text verbatim as one frame. Blank text, or no open session,
// makes it a no-op.
func (m *Manager) Send(text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	m.mu.Lock()
	s := m.current
	if s == nil || s.state != StateOpen {
		m.mu.Unlock()
		return nil
	}
	conn := s.conn
	m.mu.Unlock()

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	// Leave closes under writeMu; re-check so a torn-down session is not written to.
	if !m.isCurrent(s) {
		return nil
	}
	if err := conn.Write(text); err != nil {
		m.logger.Error().Err(err).Str("sid", s.id.String()).Msg("write failed")
		return &ConnectionError{Op: "send", RoomID: s.roomID, UserID: s.userID, Err: err}
	}
	return nil
}

// Leave tears down the current session from any state. It is a no-op without
// a session. The manager is Idle when Leave returns, even if closing the
// connection failed; that error is returned for reporting only.
func (m *Manager) Leave() error {
	m.mu.Lock()
	s := m.current
	if s == nil {
		m.mu.Unlock()
		return nil
	}
	m.current = nil
	s.state = StateClosing
	conn := s.conn
	m.mu.Unlock()

	s.cancel()
	m.logger.Info().Str("sid", s.id.String()).Str("room", s.roomID).Msg("leaving")
	if conn == nil {
		// handshake in flight; run closes whatever the dial returns
		return nil
	}

	s.writeMu.Lock()
	err := conn.Close(CloseNormal, "leave")
	s.writeMu.Unlock()

	m.mu.Lock()
	s.state = StateClosed
	m.mu.Unlock()
	if err != nil {
		m.logger.Warn().Err(err).Str("sid", s.id.String()).Msg("close handshake failed")
		return fmt.Errorf("leave room %s: %w", s.roomID, err)
	}
	return nil
}

// run drives one session: dial, then read until the connection ends. All
// observer calls for s happen here under s.deliverMu, so they are ordered,
// and none of them starts before the previous session's last delivery ended.
func (m *Manager) run(ctx context.Context, s *session) {
	defer s.cancel()

	conn, err := m.dialer.Dial(ctx, s.target)
	s.awaitPrevious()
	if err != nil {
		s.deliverMu.Lock()
		defer s.deliverMu.Unlock()
		if obs, ok := m.release(s); ok {
			m.logger.Error().Err(err).Str("sid", s.id.String()).Msg("handshake failed")
			obs.OnError(&ConnectionError{Op: "connect", RoomID: s.roomID, UserID: s.userID, Err: err})
		}
		return
	}

	if !m.deliverOpen(s, conn) {
		m.logger.Debug().Str("sid", s.id.String()).Msg("discarding connection of a left session")
		_ = conn.Close(CloseNormal, "leave")
		return
	}

	for {
		text, err := conn.Read()
		if err != nil {
			m.finish(s, conn, err)
			return
		}
		if !m.deliverMessage(s, text) {
			return
		}
	}
}

func (m *Manager) deliverOpen(s *session, conn Transport) bool {
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()
	obs, ok := m.open(s, conn)
	if !ok {
		return false
	}
	m.logger.Info().Str("sid", s.id.String()).Str("room", s.roomID).Msg("open")
	obs.OnOpen(s.roomID)
	return true
}

func (m *Manager) deliverMessage(s *session, text string) bool {
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()
	obs, ok := m.observerFor(s)
	if !ok {
		return false
	}
	obs.OnMessage(text)
	return true
}

// awaitPrevious blocks until the previous session has no delivery in flight.
// Once s is current the previous session cannot start another one.
func (s *session) awaitPrevious() {
	if s.prev == nil {
		return
	}
	s.prev.deliverMu.Lock()
	s.prev.deliverMu.Unlock()
	s.prev = nil
}

func (m *Manager) finish(s *session, conn Transport, err error) {
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()
	obs, ok := m.release(s)
	if !ok {
		// Leave already closed it
		return
	}
	_ = conn.Close(CloseNormal, "")

	var rc *RemoteClosedError
	if errors.As(err, &rc) {
		m.logger.Info().Str("sid", s.id.String()).Int("code", rc.Code).Msg("closed by remote")
		obs.OnClosed(rc)
		return
	}
	m.logger.Error().Err(err).Str("sid", s.id.String()).Msg("connection lost")
	obs.OnError(&ConnectionError{Op: "read", RoomID: s.roomID, UserID: s.userID, Err: err})
}

func (m *Manager) open(s *session, conn Transport) (Observer, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.owns(s) {
		return nil, false
	}
	s.conn = conn
	s.state = StateOpen
	return m.observer, true
}

// release drops s if it is still current and returns the observer to notify.
func (m *Manager) release(s *session) (Observer, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.owns(s) {
		return nil, false
	}
	m.current = nil
	s.state = StateClosed
	return m.observer, true
}

func (m *Manager) observerFor(s *session) (Observer, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.owns(s) {
		return nil, false
	}
	return m.observer, true
}

func (m *Manager) isCurrent(s *session) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.owns(s)
}

// owns compares generations; callers hold m.mu.
func (m *Manager) owns(s *session) bool {
	return m.current != nil && m.current.id == s.id
}
