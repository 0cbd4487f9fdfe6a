package server

import (
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
)

// Conn is a bidirectional transport handle carrying UTF-8 text frames. A
// connection is owned by exactly one engine at a time: by the join channel
// before admission and by the player record afterwards. Close must be
// idempotent.
type Conn interface {
	// ReadText blocks for the next text frame. Any transport error,
	// including receipt of a non-text frame, ends the connection's
	// useful life and is returned here.
	ReadText() (string, error)
	// WriteText sends one text frame. Failures may be ignored by the
	// caller; delivery is best-effort.
	WriteText(text string) error
	Close() error
}

// WSConn adapts a gorilla websocket connection to Conn.
type WSConn struct {
	ws   *websocket.Conn
	once sync.Once
}

// NewWSConn wraps an upgraded websocket connection.
func NewWSConn(ws *websocket.Conn) *WSConn {
	return &WSConn{ws: ws}
}

// ReadText returns the next text frame. Binary frames are a protocol
// violation: the connection is closed and an error returned.
func (c *WSConn) ReadText() (string, error) {
	messageType, data, err := c.ws.ReadMessage()
	if err != nil {
		return "", err
	}
	if messageType != websocket.TextMessage {
		c.Close()
		return "", fmt.Errorf("non-text frame received")
	}
	return string(data), nil
}

// WriteText sends one text frame.
func (c *WSConn) WriteText(text string) error {
	return c.ws.WriteMessage(websocket.TextMessage, []byte(text))
}

// Close closes the underlying connection. Safe to call more than once.
func (c *WSConn) Close() error {
	c.once.Do(func() { c.ws.Close() })
	return nil
}
