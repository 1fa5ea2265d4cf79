package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

// connWrapper serializes writes. gorilla/websocket permits at most one
// concurrent writer per connection.
type connWrapper struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func newConnWrapper(conn *websocket.Conn) *connWrapper {
	return &connWrapper{conn: conn}
}

func (c *connWrapper) WriteJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(v)
}

func (c *connWrapper) WriteControl(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.conn.WriteControl(messageType, data, time.Now().Add(writeWait))
}

func (c *connWrapper) Close() error {
	return c.conn.Close()
}
