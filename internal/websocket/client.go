package websocket

import (
	"context"
	"time"

	ws "github.com/coder/websocket"
)

const (
	sendBufferSize = 16
	pingInterval   = 30 * time.Second
	writeTimeout   = 10 * time.Second
	// Pages never send anything but control frames.
	readLimit = 512
)

// Client is one browser tab watching one calendar.
type Client struct {
	hub        *Hub
	conn       *ws.Conn
	calendarID int64
	send       chan []byte
}

func NewClient(hub *Hub, conn *ws.Conn, calendarID int64) *Client {
	conn.SetReadLimit(readLimit)
	return &Client{
		hub:        hub,
		conn:       conn,
		calendarID: calendarID,
		send:       make(chan []byte, sendBufferSize),
	}
}

// Run joins the calendar's room and blocks until the tab goes away or ctx
// ends. On ctx end the tab is told the server is going away.
func (c *Client) Run(ctx context.Context) {
	c.hub.Register(c)
	defer c.hub.Unregister(c)

	// Cancelling a read tears the connection down, so reads only stop once
	// the connection is closed below.
	readCtx, stopRead := context.WithCancel(context.WithoutCancel(ctx))
	defer stopRead()
	loopCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.readLoop(readCtx)
		cancel()
	}()

	err := c.writeLoop(loopCtx)
	switch {
	case ctx.Err() != nil:
		c.conn.Close(ws.StatusGoingAway, "server shutting down")
	case err != nil:
		c.conn.CloseNow()
	}
	<-done
}

// readLoop discards frames until the connection closes.
func (c *Client) readLoop(ctx context.Context) {
	for {
		if _, _, err := c.conn.Read(ctx); err != nil {
			return
		}
	}
}

// writeLoop forwards room messages and keeps the connection alive. It
// returns ctx's error when ctx ends first.
func (c *Client) writeLoop(ctx context.Context) error {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return nil
			}
			if err := c.write(ctx, msg); err != nil {
				return err
			}
		case <-ticker.C:
			pctx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := c.conn.Ping(pctx)
			cancel()
			if err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (c *Client) write(ctx context.Context, msg []byte) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return c.conn.Write(ctx, ws.MessageText, msg)
}
