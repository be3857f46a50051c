package session

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// relayServer echoes every text frame back as "User {userID}: {text}" and
// closes normally when it receives "/quit".
func relayServer(t *testing.T) (*httptest.Server, chan string) {
	t.Helper()
	paths := make(chan string, 4)
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/ws/") {
			http.NotFound(w, r)
			return
		}
		paths <- r.URL.Path
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		userID := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if string(data) == "/quit" {
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"))
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, []byte("User "+userID+": "+string(data))); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	return srv, paths
}

func wsURL(httpURL string) string {
	return "ws" + strings.TrimPrefix(httpURL, "http")
}

func TestWebsocketSessionRelaysMessages(t *testing.T) {
	srv, paths := relayServer(t)
	obs := newRecordingObserver()
	m := NewManager(WebsocketDialer{WriteTimeout: time.Second}, PathTarget(wsURL(srv.URL)), WithObserver(obs))
	t.Cleanup(func() { _ = m.Leave() })

	if err := m.Join("42", "7"); err != nil {
		t.Fatalf("Join error = %v", err)
	}
	obs.expect(t, "open")
	if got := <-paths; got != "/ws/42/7" {
		t.Errorf("path = %q, want /ws/42/7", got)
	}

	for _, text := range []string{"hello", "  spaced  "} {
		if err := m.Send(text); err != nil {
			t.Fatalf("Send(%q) error = %v", text, err)
		}
	}
	if ev := obs.expect(t, "message"); ev.text != "User 7: hello" {
		t.Errorf("message = %q, want %q", ev.text, "User 7: hello")
	}
	if ev := obs.expect(t, "message"); ev.text != "User 7:   spaced  " {
		t.Errorf("message = %q, want verbatim relay", ev.text)
	}

	if err := m.Leave(); err != nil {
		t.Fatalf("Leave error = %v", err)
	}
	obs.expectNone(t, 50*time.Millisecond)
}

func TestWebsocketSessionRemoteClose(t *testing.T) {
	srv, _ := relayServer(t)
	obs := newRecordingObserver()
	m := NewManager(WebsocketDialer{}, PathTarget(wsURL(srv.URL)), WithObserver(obs))

	if err := m.Join("42", "7"); err != nil {
		t.Fatalf("Join error = %v", err)
	}
	obs.expect(t, "open")
	if err := m.Send("/quit"); err != nil {
		t.Fatalf("Send error = %v", err)
	}
	ev := obs.expect(t, "closed")
	var rc *RemoteClosedError
	if !errors.As(ev.err, &rc) {
		t.Fatalf("OnClosed reason = %v, want *RemoteClosedError", ev.err)
	}
	if rc.Code != websocket.CloseNormalClosure || rc.Reason != "bye" {
		t.Errorf("RemoteClosedError = %+v", rc)
	}
	if got := m.State(); got != StateIdle {
		t.Errorf("state = %s, want idle", got)
	}
}

func TestWebsocketHandshakeRejected(t *testing.T) {
	srv, _ := relayServer(t)
	obs := newRecordingObserver()
	m := NewManager(WebsocketDialer{}, func(roomID, userID string) string {
		return wsURL(srv.URL) + "/nowhere/" + roomID
	}, WithObserver(obs))

	if err := m.Join("9", "3"); err != nil {
		t.Fatalf("Join error = %v", err)
	}
	ev := obs.expect(t, "error")
	var ce *ConnectionError
	if !errors.As(ev.err, &ce) || ce.Op != "connect" {
		t.Fatalf("OnError = %v, want connect *ConnectionError", ev.err)
	}
	if !errors.Is(ev.err, websocket.ErrBadHandshake) {
		t.Errorf("OnError = %v, want wrapped ErrBadHandshake", ev.err)
	}
	if got := m.State(); got != StateIdle {
		t.Errorf("state = %s, want idle", got)
	}
}
