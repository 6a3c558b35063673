package server

import (
	"io"
	"sync"
	"time"

	"roguedeck/internal/logger"
)

const sendBuffer = 64

// client is one attached connection: a reader pump feeding the server's
// serialized dispatch path, and a writer pump draining the send channel.
// slot is -1 until the connection's join is accepted.
type client struct {
	srv  *Server
	conn MessageConn
	slot int

	send      chan []byte
	closeOnce sync.Once
}

func newClient(srv *Server, conn MessageConn) *client {
	return &client{
		srv:  srv,
		conn: conn,
		slot: -1,
		send: make(chan []byte, sendBuffer),
	}
}

// readPump blocks on the connection with a bounded deadline so shutdown and
// disconnects are observed promptly. Every parsed frame goes through the
// server's single dispatch path; the pump never touches session state.
func (c *client) readPump() {
	defer c.srv.removeClient(c)

	for {
		_ = c.conn.SetReadDeadline(time.Now().Add(c.srv.readTimeout))

		frame, err := c.conn.ReadMessage()
		if err != nil {
			if isTimeout(err) {
				select {
				case <-c.srv.done:
					return
				default:
					continue
				}
			}
			if err != io.EOF {
				logger.Debug("connection read ended", "addr", c.conn.RemoteAddr(), "err", err)
			}
			return
		}

		c.srv.dispatch(c, frame)
	}
}

// writePump drains the send channel. The channel is closed exactly once via
// shutdownSend, which ends the pump and closes the connection.
func (c *client) writePump() {
	defer c.conn.Close()

	for payload := range c.send {
		if err := c.conn.WriteMessage(payload); err != nil {
			logger.Debug("connection write failed", "addr", c.conn.RemoteAddr(), "err", err)
			return
		}
	}
}

// trySend queues a payload without blocking. A connection too slow to drain
// its buffer is dropped rather than allowed to stall the arbitrator.
func (c *client) trySend(payload []byte) {
	select {
	case c.send <- payload:
	default:
		logger.Warn("send buffer full, dropping connection", "addr", c.conn.RemoteAddr())
		c.shutdownSend()
	}
}

func (c *client) shutdownSend() {
	c.closeOnce.Do(func() { close(c.send) })
}
