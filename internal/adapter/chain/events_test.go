package chain

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"nhooyr.io/websocket"

	"github.com/seu-repo/voxwallet/internal/ports"
)

func wsURL(httpURL string) string {
	return strings.Replace(httpURL, "http", "ws", 1)
}

func waitForEvent(t *testing.T, ch <-chan ports.TxEvent) ports.TxEvent {
	t.Helper()
	select {
	case event := <-ch:
		return event
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for an event")
		return ports.TxEvent{}
	}
}

// eventServer upgrades each connection, writes the given frames and then
// blocks until the client goes away.
func eventServer(frames [][]byte) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "")

		ctx := r.Context()
		for _, frame := range frames {
			if err := conn.Write(ctx, websocket.MessageText, frame); err != nil {
				return
			}
		}

		// Read blocks until the client sends its close frame.
		conn.Read(ctx)
	}))
}

func TestEventStream_DispatchesEvents(t *testing.T) {
	// Arrange
	confirmed, _ := json.Marshal(ports.TxEvent{Hash: "0xaaa", Status: "confirmed"})
	failed, _ := json.Marshal(ports.TxEvent{Hash: "0xbbb", Status: "failed", Reason: "out of gas"})
	server := eventServer([][]byte{confirmed, failed})
	defer server.Close()

	received := make(chan ports.TxEvent, 16)
	stream := NewEventStream(wsURL(server.URL), "", func(ctx context.Context, event ports.TxEvent) {
		received <- event
	}, newTestLogger())

	// Act
	stream.Start()
	defer stream.Close()

	// Assert
	first := waitForEvent(t, received)
	if first.Hash != "0xaaa" || first.Status != "confirmed" {
		t.Errorf("unexpected first event: %+v", first)
	}
	second := waitForEvent(t, received)
	if second.Hash != "0xbbb" || second.Reason != "out of gas" {
		t.Errorf("unexpected second event: %+v", second)
	}
}

func TestEventStream_SkipsMalformedFrames(t *testing.T) {
	// Arrange
	valid, _ := json.Marshal(ports.TxEvent{Hash: "0xccc", Status: "confirmed"})
	server := eventServer([][]byte{
		[]byte("not json"),
		[]byte(`{"hash":"","status":"confirmed"}`),
		valid,
	})
	defer server.Close()

	received := make(chan ports.TxEvent, 16)
	stream := NewEventStream(wsURL(server.URL), "", func(ctx context.Context, event ports.TxEvent) {
		received <- event
	}, newTestLogger())

	// Act
	stream.Start()
	defer stream.Close()

	// Assert
	event := waitForEvent(t, received)
	if event.Hash != "0xccc" {
		t.Errorf("expected only the valid event, got %+v", event)
	}
}

func TestEventStream_RedialsAfterDrop(t *testing.T) {
	// Arrange
	var accepts atomic.Int32
	event, _ := json.Marshal(ports.TxEvent{Hash: "0xddd", Status: "confirmed"})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}

		// Drop the first connection immediately; serve the second.
		if accepts.Add(1) == 1 {
			conn.Close(websocket.StatusInternalError, "going away")
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "")

		ctx := r.Context()
		if err := conn.Write(ctx, websocket.MessageText, event); err != nil {
			return
		}
		conn.Read(ctx)
	}))
	defer server.Close()

	received := make(chan ports.TxEvent, 16)
	stream := NewEventStream(wsURL(server.URL), "", func(ctx context.Context, event ports.TxEvent) {
		received <- event
	}, newTestLogger())

	// Act
	stream.Start()
	defer stream.Close()

	// Assert
	got := waitForEvent(t, received)
	if got.Hash != "0xddd" {
		t.Errorf("unexpected event after redial: %+v", got)
	}
	if accepts.Load() < 2 {
		t.Errorf("expected at least two dials, got %d", accepts.Load())
	}
}
