package websocket

import (
	"context"
	"time"

	ws "github.com/coder/websocket"
)

const (
	sendBufferSize = 16
	pingInterval   = 30 * time.Second
	writeTimeout   = 5 * time.Second
)

// Client is one write-only sync connection. Browsers never send anything
// meaningful upstream; they just listen for change messages and re-fetch.
type Client struct {
	hub  *Hub
	conn *ws.Conn
	send chan []byte
}

func NewClient(hub *Hub, conn *ws.Conn) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}
}

// Run serves the connection until it drops, then unregisters. CloseRead
// discards inbound frames and cancels the context when the peer goes away,
// so a single select loop covers writes, pings and teardown.
func (c *Client) Run(ctx context.Context) {
	c.hub.Register(c)
	defer c.hub.Unregister(c)

	ctx = c.conn.CloseRead(ctx)

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			if c.write(ctx, msg) != nil {
				return
			}
		case <-ticker.C:
			if c.conn.Ping(ctx) != nil {
				return
			}
		case <-ctx.Done():
			c.conn.Close(ws.StatusNormalClosure, "")
			return
		}
	}
}

// write pushes one frame with a bounded deadline so a stalled reader cannot
// wedge the loop until the next ping.
func (c *Client) write(ctx context.Context, msg []byte) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return c.conn.Write(ctx, ws.MessageText, msg)
}
