package server

import (
	"time"

	"github.com/gorilla/websocket"
)

const wsWriteWait = 10 * time.Second

// wsConn adapts a WebSocket connection to MessageConn. WebSocket frames
// already carry message boundaries, so no extra framing layer is involved.
type wsConn struct {
	c *websocket.Conn
}

// NewWSConn wraps an upgraded WebSocket connection so it can join the
// session alongside raw TCP clients.
func NewWSConn(c *websocket.Conn) MessageConn {
	c.SetReadLimit(64 * 1024)
	return &wsConn{c: c}
}

func (w *wsConn) ReadMessage() ([]byte, error) {
	_, payload, err := w.c.ReadMessage()
	return payload, err
}

func (w *wsConn) WriteMessage(payload []byte) error {
	_ = w.c.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return w.c.WriteMessage(websocket.TextMessage, payload)
}

// SetReadDeadline is a no-op: an expired deadline poisons a gorilla
// connection for good, so ws readers block until Close unblocks them
// instead of polling.
func (w *wsConn) SetReadDeadline(time.Time) error {
	return nil
}

func (w *wsConn) RemoteAddr() string {
	return w.c.RemoteAddr().String()
}

func (w *wsConn) Close() error {
	return w.c.Close()
}
