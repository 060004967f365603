package remote

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/arbor/pkg/protocol"
)

// Conn is the part of *websocket.Conn used by this package.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	SetReadLimit(limit int64)
	Close() error
}

var _ Conn = (*websocket.Conn)(nil)

// ErrClosed is returned when writing to a closed endpoint.
var ErrClosed = errors.New("remote: connection closed")

// endpoint serializes frame writes on a Conn.
type endpoint struct {
	conn    Conn
	timeout time.Duration

	mu     sync.Mutex
	closed bool
	sent   uint64
}

func (e *endpoint) send(f *protocol.Frame) error {
	data := f.Encode()

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	if e.timeout > 0 {
		e.conn.SetWriteDeadline(time.Now().Add(e.timeout))
	}
	if err := e.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
		return err
	}
	e.sent += uint64(len(data))
	return nil
}

// close sends a normal close message and closes the connection. It is
// safe to call more than once.
func (e *endpoint) close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	if wc, ok := e.conn.(*websocket.Conn); ok {
		wc.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
	}
	return e.conn.Close()
}

func (e *endpoint) isClosed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closed
}

func (e *endpoint) bytesSent() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sent
}

// expectedClose reports whether err ends a read loop without being worth
// reporting.
func expectedClose(err error, closedLocally bool) bool {
	if closedLocally {
		return true
	}
	return websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway)
}
