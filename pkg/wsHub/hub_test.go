package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Temutjin2k/running-app/pkg/logger"
)

// pair dials a throwaway server and returns the server side wrapped in Conn
// together with the client side.
func pair(t *testing.T, id uuid.UUID) (*Conn, *websocket.Conn) {
	t.Helper()

	upgrader := websocket.Upgrader{}
	serverSide := make(chan *websocket.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		serverSide <- c
	}))
	t.Cleanup(srv.Close)

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	select {
	case c := <-serverSide:
		return NewConn(context.Background(), id, c), client
	case <-time.After(2 * time.Second):
		t.Fatal("server side never connected")
		return nil, nil
	}
}

func TestHub_SendTo(t *testing.T) {
	hub := NewConnHub(logger.Discard())
	id := uuid.New()
	conn, client := pair(t, id)

	if err := hub.Add(conn); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := hub.SendTo(id, map[string]string{"type": "session_saved"}); err != nil {
		t.Fatalf("SendTo: %v", err)
	}

	_ = client.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := client.ReadMessage()
	if err != nil {
		t.Fatalf("client read: %v", err)
	}
	if !strings.Contains(string(data), `"session_saved"`) {
		t.Fatalf("unexpected frame %s", data)
	}

	if err := hub.SendTo(uuid.New(), "x"); err != ErrConnIsNotFound {
		t.Fatalf("SendTo unknown = %v, want ErrConnIsNotFound", err)
	}
}

func TestHub_AddReplacesAndRemoveKeepsNewer(t *testing.T) {
	hub := NewConnHub(logger.Discard())
	id := uuid.New()

	older, _ := pair(t, id)
	newer, _ := pair(t, id)

	_ = hub.Add(older)
	_ = hub.Add(newer)

	select {
	case <-older.Done():
	default:
		t.Fatal("replaced connection must be closed")
	}

	// the older handler exiting must not unregister the newer connection
	hub.Remove(older)

	got, err := hub.GetConn(id)
	if err != nil || got != newer {
		t.Fatalf("GetConn = %v, %v; want newer connection", got, err)
	}
	if hub.Len() != 1 {
		t.Fatalf("Len = %d, want 1", hub.Len())
	}

	hub.Close()
	if hub.Len() != 0 {
		t.Fatalf("Len after Close = %d", hub.Len())
	}
}

func TestHub_AddNil(t *testing.T) {
	if err := NewConnHub(logger.Discard()).Add(nil); err != ErrEmptyConn {
		t.Fatalf("err = %v, want ErrEmptyConn", err)
	}
}
