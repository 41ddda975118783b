package query

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// EventType for live feed messages
type EventType string

const (
	EventQueryStarted   EventType = "query.started"
	EventQueryCompleted EventType = "query.completed"
)

// Event is one live feed message pushed to connected admin dashboards.
type Event struct {
	Type  EventType `json:"type"`
	Query *Query    `json:"query"`
}

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 32
)

// Connection represents one admin dashboard on the live feed.
type Connection struct {
	AdminID uuid.UUID
	Conn    *websocket.Conn
	Send    chan []byte
}

// Feed fans query lifecycle events out to every connected admin.
type Feed struct {
	connections map[*Connection]bool
	mu          sync.RWMutex

	register   chan *Connection
	unregister chan *Connection

	ctx    context.Context
	cancel context.CancelFunc
}

func NewFeed() *Feed {
	ctx, cancel := context.WithCancel(context.Background())
	return &Feed{
		connections: make(map[*Connection]bool),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Run starts the feed loop (call in goroutine)
func (f *Feed) Run() {
	for {
		select {
		case <-f.ctx.Done():
			return

		case conn := <-f.register:
			f.mu.Lock()
			f.connections[conn] = true
			f.mu.Unlock()
			log.Debug().Str("admin_id", conn.AdminID.String()).Msg("admin joined live feed")

		case conn := <-f.unregister:
			f.mu.Lock()
			if _, ok := f.connections[conn]; ok {
				delete(f.connections, conn)
				close(conn.Send)
			}
			f.mu.Unlock()
			log.Debug().Str("admin_id", conn.AdminID.String()).Msg("admin left live feed")
		}
	}
}

// Broadcast pushes an event to every connected dashboard. Slow consumers
// with a full buffer are skipped.
func (f *Feed) Broadcast(eventType EventType, q *Query) {
	data, err := json.Marshal(Event{Type: eventType, Query: q})
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal live feed event")
		return
	}

	f.mu.RLock()
	defer f.mu.RUnlock()
	for conn := range f.connections {
		select {
		case conn.Send <- data:
		default:
			log.Warn().Str("admin_id", conn.AdminID.String()).Msg("live feed send buffer full")
		}
	}
}

// ConnectionCount returns the number of connected dashboards.
func (f *Feed) ConnectionCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.connections)
}

// Shutdown stops the feed loop.
func (f *Feed) Shutdown() {
	f.cancel()
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser dashboards connect cross-origin; auth happens via the admin
	// token before the upgrade.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWS upgrades the request and attaches it to the feed.
func (f *Feed) ServeWS(w http.ResponseWriter, r *http.Request, adminID uuid.UUID) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	conn := &Connection{
		AdminID: adminID,
		Conn:    ws,
		Send:    make(chan []byte, sendBufferSize),
	}
	f.register <- conn

	go conn.writePump()
	go conn.readPump(f)
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump drains the connection. The feed is one-way; client messages are
// discarded, but the read loop notices closes and pong replies.
func (c *Connection) readPump(f *Feed) {
	defer func() {
		f.unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(512)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			return
		}
	}
}
