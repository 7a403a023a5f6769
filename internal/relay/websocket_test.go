package relay

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

func newEventServer(t *testing.T, events []Event) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		for _, ev := range events {
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		}

		// Hold the connection open until the client goes away.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
}

func wsAddr(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestWebSocketDeliversEvents(t *testing.T) {
	srv := newEventServer(t, []Event{
		{Type: EventMessage, CommunityID: "c1", ChannelID: "general", UserID: "u1", Text: "hello"},
	})
	defer srv.Close()

	ws := NewWebSocket(wsAddr(srv), 1, 10*time.Millisecond, zap.NewNop())

	received := make(chan *Event, 1)
	unsubscribe := ws.OnEvent(func(event *Event) {
		select {
		case received <- event:
		default:
		}
	})
	defer unsubscribe()

	if err := ws.Connect(context.Background()); err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer ws.Disconnect()

	select {
	case event := <-received:
		if event.CommunityID != "c1" || event.Text != "hello" {
			t.Fatalf("unexpected event: %+v", event)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}

	if !ws.IsConnected() {
		t.Fatal("expected connected state after successful dial")
	}
}

func TestWebSocketDisconnectIsSafeFromMultipleGoroutines(t *testing.T) {
	srv := newEventServer(t, nil)
	defer srv.Close()

	ws := NewWebSocket(wsAddr(srv), 1, 10*time.Millisecond, zap.NewNop())
	if err := ws.Connect(context.Background()); err != nil {
		t.Fatalf("connect: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = ws.Disconnect()
		}()
	}
	wg.Wait()

	if got := ws.GetState(); got != WSStateDisconnected {
		t.Fatalf("expected disconnected state, got %v", got)
	}
}

func TestWebSocketDoesNotReconnectAfterDisconnect(t *testing.T) {
	srv := newEventServer(t, nil)
	defer srv.Close()

	ws := NewWebSocket(wsAddr(srv), 5, 5*time.Millisecond, zap.NewNop())
	if err := ws.Connect(context.Background()); err != nil {
		t.Fatalf("connect: %v", err)
	}

	if err := ws.Disconnect(); err != nil {
		t.Fatalf("disconnect: %v", err)
	}

	// Give any stray reconnect attempt time to fire.
	time.Sleep(50 * time.Millisecond)

	if got := ws.GetState(); got != WSStateDisconnected {
		t.Fatalf("expected to stay disconnected, got %v", got)
	}
}
