package hub

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Dayavats/samvaad/internal/config"
	"github.com/Dayavats/samvaad/internal/domain"
	"github.com/Dayavats/samvaad/pkg/log"
)

// Send queue outcomes.
const (
	sendQueued = iota
	sendFull
	sendClosed
)

// Client is one live WebSocket channel. Writes go through the buffered
// Send queue drained by WritePump. All queueing goes through trySend,
// which checks the closed flag under sendMu, so a send never races the
// close in closeSend.
type Client struct {
	ID      string
	Hub     *Hub
	Conn    *websocket.Conn
	Send    chan []byte
	Session *domain.Session
	config  config.WebSocketConfig

	sendMu sync.Mutex
	closed bool
}

// NewClient creates a client for an upgraded connection.
func NewClient(id string, hub *Hub, conn *websocket.Conn, cfg config.WebSocketConfig) *Client {
	return &Client{
		ID:      id,
		Hub:     hub,
		Conn:    conn,
		Send:    make(chan []byte, 256),
		Session: domain.NewSession(id),
		config:  cfg,
	}
}

// ReadPump reads frames off the connection and hands them to handler.
// It owns teardown: when the read loop exits the channel is
// unregistered and the connection closed.
func (c *Client) ReadPump(handler func(*Client, []byte)) {
	defer func() {
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(c.config.MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				l := log.L()
				l.Warn().Err(err).Str(log.FieldChannelID, c.ID).Msg("websocket read error")
			}
			break
		}

		c.Session.Touch()
		handler(c, message)
	}
}

// WritePump drains the Send queue onto the connection and keeps the
// connection alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(c.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// trySend queues a payload unless the queue is full or already closed.
func (c *Client) trySend(data []byte) int {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if c.closed {
		return sendClosed
	}
	select {
	case c.Send <- data:
		return sendQueued
	default:
		return sendFull
	}
}

// closeSend closes the send queue so WritePump drains out. Idempotent;
// after it returns trySend rejects every payload.
func (c *Client) closeSend() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.Send)
	}
}

// SendJSON queues a JSON payload on the channel, best-effort: a full
// queue or an evicted channel drops the payload rather than blocking
// or panicking the caller.
func (c *Client) SendJSON(message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	c.trySend(data)
	return nil
}
