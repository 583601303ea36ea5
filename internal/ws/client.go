package ws

import (
	"context"
	"time"

	"github.com/google/uuid"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

// Client is one authenticated connection. A user may hold several clients at
// once (multi-device); presence is counted per user, not per connection.
type Client struct {
	ID       uuid.UUID
	UserID   uint
	Username string
	Send     chan Event

	conn   *websocket.Conn
	ctx    context.Context
	cancel context.CancelFunc
}

func NewClient(userID uint, username string, conn *websocket.Conn) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		ID:       uuid.New(),
		UserID:   userID,
		Username: username,
		Send:     make(chan Event, 64),
		conn:     conn,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// trySend enqueues without blocking; a slow client drops events rather than
// stalling the fan-out.
func (c *Client) trySend(ev Event) {
	select {
	case c.Send <- ev:
	default:
	}
}

func (c *Client) sendError(msg string) {
	c.trySend(Event{Type: EventError, Data: ErrorData{Error: msg}})
}

// WriteLoop drains the send channel onto the connection. Run as a goroutine
// by the websocket handler.
func (c *Client) WriteLoop() {
	for {
		select {
		case <-c.ctx.Done():
			return
		case ev := <-c.Send:
			writeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			_ = wsjson.Write(writeCtx, c.conn, ev)
			cancel()
		}
	}
}

// KeepAlive pings the peer so proxies don't reap idle connections.
func (c *Client) KeepAlive() {
	ticker := time.NewTicker(25 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			_ = c.conn.Ping(pingCtx)
			cancel()
		}
	}
}

func (c *Client) close() {
	c.cancel()
	if c.conn != nil {
		_ = c.conn.Close(websocket.StatusNormalClosure, "bye")
	}
}
