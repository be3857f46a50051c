package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// CloseNormal is the close code sent when a session is left.
	CloseNormal = websocket.CloseNormalClosure

	defaultWriteTimeout = 5 * time.Second
)

// Transport is the I/O boundary of one real-time connection. Each call to
// Read returns exactly one inbound text frame.
type Transport interface {
	Read() (string, error)
	Write(text string) error
	Close(code int, reason string) error
}

// Dialer opens a Transport to the given real-time URL.
type Dialer interface {
	Dial(ctx context.Context, target string) (Transport, error)
}

// TargetFunc builds the real-time URL of a session.
type TargetFunc func(roomID, userID string) string

// PathTarget addresses sessions as <base>/ws/{roomID}/{userID}.
func PathTarget(base string) TargetFunc {
	base = strings.TrimRight(base, "/")
	return func(roomID, userID string) string {
		return base + "/ws/" + url.PathEscape(roomID) + "/" + url.PathEscape(userID)
	}
}

// WebsocketDialer dials sessions over gorilla/websocket.
type WebsocketDialer struct {
	Dialer       *websocket.Dialer
	Header       http.Header
	WriteTimeout time.Duration
	ReadLimit    int64
}

func (d WebsocketDialer) Dial(ctx context.Context, target string) (Transport, error) {
	dialer := d.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	conn, resp, err := dialer.DialContext(ctx, target, d.Header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial %s: %s: %w", target, resp.Status, err)
		}
		return nil, fmt.Errorf("dial %s: %w", target, err)
	}
	if d.ReadLimit > 0 {
		conn.SetReadLimit(d.ReadLimit)
	}
	timeout := d.WriteTimeout
	if timeout <= 0 {
		timeout = defaultWriteTimeout
	}
	return &wsTransport{conn: conn, writeTimeout: timeout}, nil
}

type wsTransport struct {
	conn         *websocket.Conn
	writeTimeout time.Duration

	mu sync.Mutex // gorilla allows one concurrent writer
}

func (t *wsTransport) Read() (string, error) {
	for {
		typ, data, err := t.conn.ReadMessage()
		if err != nil {
			var ce *websocket.CloseError
			if errors.As(err, &ce) && (ce.Code == websocket.CloseNormalClosure || ce.Code == websocket.CloseGoingAway) {
				return "", &RemoteClosedError{Code: ce.Code, Reason: ce.Text}
			}
			return "", err
		}
		// one application message per text frame; anything else is not part of the channel
		if typ == websocket.TextMessage {
			return string(data), nil
		}
	}
}

func (t *wsTransport) Write(text string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.conn.SetWriteDeadline(time.Now().Add(t.writeTimeout)); err != nil {
		return fmt.Errorf("set write deadline: %w", err)
	}
	return t.conn.WriteMessage(websocket.TextMessage, []byte(text))
}

func (t *wsTransport) Close(code int, reason string) error {
	t.mu.Lock()
	werr := t.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(code, reason),
		time.Now().Add(t.writeTimeout))
	t.mu.Unlock()
	if errors.Is(werr, websocket.ErrCloseSent) {
		werr = nil
	}
	return errors.Join(werr, t.conn.Close())
}
