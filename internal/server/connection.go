package server

import (
	"net"
)

func (c *Connection) setState(s ConnState) {
	c.state.Store(int32(s))
}

// GetState returns the connection's current lifecycle state.
func (c *Connection) GetState() ConnState {
	return ConnState(c.state.Load())
}

// Close terminates the underlying socket. Safe to call more than once and
// from multiple goroutines; only the first call takes effect.
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.setState(StateClosed)
		c.cancel()
		err = c.conn.Close()
	})
	return err
}

// RemoteAddr returns the address of the connected peer.
func (c *Connection) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}

// LocalAddr returns the server-side address of the connection.
func (c *Connection) LocalAddr() net.Addr {
	return c.conn.LocalAddr()
}
