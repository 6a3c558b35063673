package server

import (
	"errors"
	"net"
	"time"

	"roguedeck/internal/protocol"
)

// MessageConn is a transport that delivers whole messages. The framed TCP
// connection and the WebSocket bridge both satisfy it, so the session logic
// never sees which transport a player arrived on.
type MessageConn interface {
	// ReadMessage blocks until one message arrives or the read deadline
	// passes. A deadline expiry must be retryable.
	ReadMessage() ([]byte, error)
	WriteMessage(payload []byte) error
	SetReadDeadline(t time.Time) error
	RemoteAddr() string
	Close() error
}

// tcpConn frames a raw TCP stream with the protocol frame layer.
type tcpConn struct {
	c  net.Conn
	fr *protocol.FrameReader
}

func newTCPConn(c net.Conn) *tcpConn {
	return &tcpConn{c: c, fr: protocol.NewFrameReader(c)}
}

func (t *tcpConn) ReadMessage() ([]byte, error) {
	return t.fr.ReadFrame()
}

func (t *tcpConn) WriteMessage(payload []byte) error {
	return protocol.WriteFrame(t.c, payload)
}

func (t *tcpConn) SetReadDeadline(deadline time.Time) error {
	return t.c.SetReadDeadline(deadline)
}

func (t *tcpConn) RemoteAddr() string {
	return t.c.RemoteAddr().String()
}

func (t *tcpConn) Close() error {
	return t.c.Close()
}

// isTimeout reports whether err is a retryable read-deadline expiry.
func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
