package query

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestFeedBroadcast(t *testing.T) {
	feed := NewFeed()
	go feed.Run()
	defer feed.Shutdown()

	conn := &Connection{AdminID: uuid.New(), Send: make(chan []byte, sendBufferSize)}
	feed.register <- conn

	waitFor(t, func() bool { return feed.ConnectionCount() == 1 })

	q := &Query{ID: uuid.New(), Status: StatusProcessing, Type: TypeOSINT}
	feed.Broadcast(EventQueryStarted, q)

	select {
	case data := <-conn.Send:
		var event Event
		if err := json.Unmarshal(data, &event); err != nil {
			t.Fatalf("bad event payload: %v", err)
		}
		if event.Type != EventQueryStarted {
			t.Fatalf("expected %q, got %q", EventQueryStarted, event.Type)
		}
		if event.Query.ID != q.ID {
			t.Fatal("wrong query in event")
		}
	case <-time.After(time.Second):
		t.Fatal("no event received")
	}

	feed.unregister <- conn
	waitFor(t, func() bool { return feed.ConnectionCount() == 0 })
}

func TestFeedSkipsFullBuffers(t *testing.T) {
	feed := NewFeed()
	go feed.Run()
	defer feed.Shutdown()

	conn := &Connection{AdminID: uuid.New(), Send: make(chan []byte)} // unbuffered, never read
	feed.register <- conn
	waitFor(t, func() bool { return feed.ConnectionCount() == 1 })

	// Must not block even though nobody reads the connection.
	done := make(chan struct{})
	go func() {
		feed.Broadcast(EventQueryCompleted, &Query{ID: uuid.New()})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broadcast blocked on a slow consumer")
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}
