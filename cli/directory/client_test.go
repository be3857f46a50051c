package directory

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

type recordedRequest struct {
	Method string
	Path   string
	Body   map[string]any
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *[]recordedRequest) {
	t.Helper()
	var reqs []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{Method: r.Method, Path: r.URL.Path}
		if b, _ := io.ReadAll(r.Body); len(b) > 0 {
			_ = json.Unmarshal(b, &rec.Body)
		}
		reqs = append(reqs, rec)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return NewClient(srv.URL + "/"), &reqs
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestListRooms(t *testing.T) {
	c, reqs := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []Room{{ID: 1, Name: "general"}, {ID: 2, Name: "random"}})
	})

	rooms, err := c.ListRooms(context.Background())
	if err != nil {
		t.Fatalf("ListRooms error = %v", err)
	}
	if len(rooms) != 2 || rooms[0].Name != "general" || rooms[1].ID != 2 {
		t.Errorf("rooms = %+v", rooms)
	}
	if got := (*reqs)[0]; got.Method != http.MethodGet || got.Path != "/api/chat_rooms" {
		t.Errorf("request = %s %s", got.Method, got.Path)
	}
}

func TestListRoomsEmpty(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("null"))
	})
	rooms, err := c.ListRooms(context.Background())
	if err != nil {
		t.Fatalf("ListRooms error = %v", err)
	}
	if rooms == nil || len(rooms) != 0 {
		t.Errorf("rooms = %#v, want empty slice", rooms)
	}
}

func TestSignIn(t *testing.T) {
	c, reqs := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"user_id": 7})
	})

	id, err := c.SignIn(context.Background(), "alice", "secret")
	if err != nil {
		t.Fatalf("SignIn error = %v", err)
	}
	if id != 7 {
		t.Errorf("user id = %d, want 7", id)
	}
	got := (*reqs)[0]
	if got.Path != "/api/auth/signin" || got.Body["username"] != "alice" || got.Body["password"] != "secret" {
		t.Errorf("request = %+v", got)
	}
}

func TestSignUp(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status": "success",
			"data": map[string]any{"user": map[string]any{
				"id": 3, "username": "bob", "status": "offline", "last_seen": "2026-01-01T00:00:00Z",
			}},
		})
	})
	u, err := c.SignUp(context.Background(), "bob", "pw")
	if err != nil {
		t.Fatalf("SignUp error = %v", err)
	}
	if u.ID != 3 || u.Username != "bob" || u.Status != "offline" {
		t.Errorf("user = %+v", u)
	}
}

func TestCreateAndJoinRoom(t *testing.T) {
	c, reqs := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/chat_rooms":
			writeJSON(w, http.StatusOK, Room{ID: 9, Name: "ops"})
		case "/api/chat_rooms/join":
			writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
		default:
			http.NotFound(w, r)
		}
	})
	ctx := context.Background()

	room, err := c.CreateRoom(ctx, "ops", 7)
	if err != nil {
		t.Fatalf("CreateRoom error = %v", err)
	}
	if room.ID != 9 || room.Name != "ops" {
		t.Errorf("room = %+v", room)
	}
	if err := c.JoinRoom(ctx, 9, 3); err != nil {
		t.Fatalf("JoinRoom error = %v", err)
	}

	create, join := (*reqs)[0], (*reqs)[1]
	if create.Body["name"] != "ops" || create.Body["user_id"] != float64(7) {
		t.Errorf("create body = %v", create.Body)
	}
	if join.Body["room_id"] != float64(9) || join.Body["user_id"] != float64(3) {
		t.Errorf("join body = %v", join.Body)
	}
}

func TestListJoinedRooms(t *testing.T) {
	c, reqs := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status": "success",
			"data": map[string]any{
				"user":       map[string]any{"id": 7, "username": "alice", "status": "online"},
				"chat_rooms": []Room{{ID: 42, Name: "general"}},
			},
		})
	})
	rooms, err := c.ListJoinedRooms(context.Background(), 7)
	if err != nil {
		t.Fatalf("ListJoinedRooms error = %v", err)
	}
	if len(rooms) != 1 || rooms[0].ID != 42 {
		t.Errorf("rooms = %+v", rooms)
	}
	if got := (*reqs)[0].Path; got != "/api/users/7" {
		t.Errorf("path = %q, want /api/users/7", got)
	}
}

func TestErrorResponses(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		call        func(*Client) error
		wantIs      error
		wantMessage string
	}{
		{
			name:   "bad credentials plain text",
			status: http.StatusUnauthorized,
			body:   "Invalid credentials",
			call: func(c *Client) error {
				_, err := c.SignIn(context.Background(), "alice", "wrong")
				return err
			},
			wantIs:      ErrUnauthorized,
			wantMessage: "Invalid credentials",
		},
		{
			name:   "already a member",
			status: http.StatusConflict,
			body:   `{"status":"fail","message":"already a member of this room"}`,
			call: func(c *Client) error {
				return c.JoinRoom(context.Background(), 1, 2)
			},
			wantIs:      ErrAlreadyMember,
			wantMessage: "already a member of this room",
		},
		{
			name:   "duplicate room",
			status: http.StatusConflict,
			body:   `{"status":"fail","message":"Chat room already exists"}`,
			call: func(c *Client) error {
				_, err := c.CreateRoom(context.Background(), "general", 2)
				return err
			},
			wantIs:      ErrAlreadyExists,
			wantMessage: "Chat room already exists",
		},
		{
			name:   "unknown user empty body",
			status: http.StatusNotFound,
			call: func(c *Client) error {
				_, err := c.ListJoinedRooms(context.Background(), 99)
				return err
			},
			wantIs:      ErrNotFound,
			wantMessage: "Not Found",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			err := tt.call(c)
			var de *DirectoryError
			if !errors.As(err, &de) {
				t.Fatalf("error = %v, want *DirectoryError", err)
			}
			if !errors.Is(err, tt.wantIs) {
				t.Errorf("errors.Is(%v, %v) = false", err, tt.wantIs)
			}
			if de.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", de.Message, tt.wantMessage)
			}
			if de.Transport() {
				t.Error("Transport() = true for a server response")
			}
		})
	}
}

func TestJoinConflictIsNotAlreadyExists(t *testing.T) {
	err := &DirectoryError{Op: opJoinRoom, StatusCode: http.StatusConflict}
	if errors.Is(err, ErrAlreadyExists) {
		t.Error("join conflict matched ErrAlreadyExists")
	}
	if !errors.Is(err, ErrAlreadyMember) {
		t.Error("join conflict did not match ErrAlreadyMember")
	}
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url).ListRooms(context.Background())
	var de *DirectoryError
	if !errors.As(err, &de) {
		t.Fatalf("error = %v, want *DirectoryError", err)
	}
	if !de.Transport() {
		t.Errorf("Transport() = false for %v", err)
	}
	if errors.Is(err, ErrAlreadyMember) {
		t.Error("transport failure matched ErrAlreadyMember")
	}
}

func TestMalformedResponse(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>"))
	})
	_, err := c.ListRooms(context.Background())
	var de *DirectoryError
	if !errors.As(err, &de) || de.Err == nil {
		t.Fatalf("error = %v, want decode *DirectoryError", err)
	}
}

func TestLocalFailureIsNotTransport(t *testing.T) {
	c, reqs := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	err := c.do(context.Background(), "create room", http.MethodPost, "/api/chat_rooms", map[string]any{"name": make(chan int)}, nil)
	if err == nil {
		t.Fatal("do() error = nil, want encode error")
	}
	var de *DirectoryError
	if errors.As(err, &de) {
		t.Errorf("encode failure = %#v, want a plain error", de)
	}
	if len(*reqs) != 0 {
		t.Errorf("requests = %d, want 0", len(*reqs))
	}
}

func TestTransportClassification(t *testing.T) {
	tests := []struct {
		name string
		err  *DirectoryError
		want bool
	}{
		{"dial failure", &DirectoryError{Op: "list rooms", Err: errors.New("connection refused")}, true},
		{"status", &DirectoryError{Op: "list rooms", StatusCode: http.StatusNotFound}, false},
		{"decode", &DirectoryError{Op: "list rooms", StatusCode: http.StatusOK, Err: errors.New("bad json")}, false},
		{"empty", &DirectoryError{Op: "list rooms"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Transport(); got != tt.want {
				t.Errorf("Transport() = %v, want %v", got, tt.want)
			}
		})
	}
}
