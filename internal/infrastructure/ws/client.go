package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
)

type Client struct {
	conn      *connWrapper
	Message   chan *WSMessage
	Done      chan struct{}
	closeOnce sync.Once
	ID        string
	RoomID    string
}

func NewClient(conn *websocket.Conn, id, roomID string) *Client {
	return &Client{
		conn:    newConnWrapper(conn),
		Message: make(chan *WSMessage, 64), // buffered to avoid dead-locks on slow clients
		Done:    make(chan struct{}),
		ID:      id,
		RoomID:  roomID,
	}
}

// Send queues a message without blocking. Slow consumers that fill the
// buffer are disconnected rather than stalling the publisher.
func (c *Client) Send(msg *WSMessage) {
	select {
	case c.Message <- msg:
	default:
		c.CloseSend()
	}
}

func (c *Client) CloseSend() {
	c.closeOnce.Do(func() {
		close(c.Done)
	})
}

// ReadPump drains the connection so close frames and pongs are
// processed. Inbound data frames are ignored, the feed is one-way.
func (c *Client) ReadPump() {
	defer func() {
		c.CloseSend()
		_ = c.conn.Close()
	}()

	_ = c.conn.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.conn.SetPongHandler(func(string) error {
		return c.conn.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case <-c.Done:
			// Done and a queued message can be ready at once; flush the
			// queue so the terminal frame is never lost to the close.
			for {
				select {
				case msg := <-c.Message:
					if err := c.conn.WriteJSON(msg); err != nil {
						return
					}
				default:
					_ = c.conn.WriteControl(websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
					return
				}
			}

		case msg := <-c.Message:
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}

		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
