package remote

import (
	"errors"
	"sync"
	"time"
)

// pipeConn is one end of an in-memory message pipe.
type pipeConn struct {
	in  <-chan []byte
	out chan<- []byte

	mu       sync.Mutex
	closed   chan struct{}
	once     sync.Once
	writes   int
	writeErr error
}

var errPipeClosed = errors.New("pipe closed")

// newPipe returns two connected ends.
func newPipe() (*pipeConn, *pipeConn) {
	ab := make(chan []byte, 64)
	ba := make(chan []byte, 64)
	a := &pipeConn{in: ba, out: ab, closed: make(chan struct{})}
	b := &pipeConn{in: ab, out: ba, closed: make(chan struct{})}
	return a, b
}

func (c *pipeConn) ReadMessage() (int, []byte, error) {
	select {
	case msg := <-c.in:
		return 2, msg, nil
	case <-c.closed:
		return 0, nil, errPipeClosed
	}
}

func (c *pipeConn) WriteMessage(_ int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.writeErr != nil {
		return c.writeErr
	}
	c.writes++
	c.out <- append([]byte(nil), data...)
	return nil
}

func (c *pipeConn) SetWriteDeadline(time.Time) error { return nil }

func (c *pipeConn) SetReadLimit(int64) {}

func (c *pipeConn) Close() error {
	c.once.Do(func() { close(c.closed) })
	return nil
}

func (c *pipeConn) failWrites(err error) {
	c.mu.Lock()
	c.writeErr = err
	c.mu.Unlock()
}
