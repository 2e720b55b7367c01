package transport

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
)

// WSConn is a WebSocket connection to a pub/sub endpoint.
//
// A WSConn is reusable: after a disconnect, Connect may be called again
// to open a fresh connection. Each connection gets its own read loop and
// reports its disconnect exactly once.
type WSConn struct {
	config Config

	mu      sync.Mutex
	conn    *websocket.Conn
	state   ConnectionState
	handler Handler

	// closeOnce guards disconnect reporting for the current connection.
	closeOnce *sync.Once

	writeMu sync.Mutex
}

// NewWSConn creates a new WebSocket connection for the given config.
// The connection is not opened until Connect is called.
func NewWSConn(config Config) *WSConn {
	return &WSConn{
		config: config.withDefaults(),
		state:  StateDisconnected,
	}
}

// Connect opens the WebSocket connection and binds the event handler.
// OnConnected fires before Connect returns.
func (c *WSConn) Connect(ctx context.Context, handler Handler) error {
	c.mu.Lock()
	if c.state != StateDisconnected {
		c.mu.Unlock()
		return ErrAlreadyConnected
	}
	c.state = StateConnecting
	c.mu.Unlock()

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.ConnectTimeout)
		defer cancel()
	}

	dialer := websocket.Dialer{HandshakeTimeout: c.config.ConnectTimeout}
	conn, resp, err := dialer.DialContext(ctx, c.config.URL, c.config.Header)
	if err != nil {
		c.mu.Lock()
		c.state = StateDisconnected
		c.mu.Unlock()
		if resp != nil {
			return fmt.Errorf("dial %s failed (HTTP %d): %w", c.config.URL, resp.StatusCode, err)
		}
		return fmt.Errorf("dial %s failed: %w", c.config.URL, err)
	}
	conn.SetReadLimit(c.config.MaxMessageSize)

	c.mu.Lock()
	c.conn = conn
	c.handler = handler
	c.state = StateConnected
	c.closeOnce = &sync.Once{}
	c.mu.Unlock()

	go c.readLoop(conn, handler, c.closeOnce)

	handler.OnConnected()
	return nil
}

// Send writes one outbound text frame.
func (c *WSConn) Send(data []byte) error {
	c.mu.Lock()
	conn := c.conn
	state := c.state
	c.mu.Unlock()

	if state != StateConnected || conn == nil {
		return ErrNotConnected
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("write failed: %w", err)
	}
	return nil
}

// Close tears the connection down. The bound handler still receives its
// OnDisconnected callback, delivered from the read loop.
func (c *WSConn) Close() error {
	c.mu.Lock()
	if c.state == StateDisconnected || c.conn == nil {
		c.mu.Unlock()
		return nil
	}
	conn := c.conn
	c.state = StateClosing
	c.mu.Unlock()

	// Best effort: tell the peer before dropping the socket.
	c.writeMu.Lock()
	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	c.writeMu.Unlock()

	return conn.Close()
}

// State returns the current connection state.
func (c *WSConn) State() ConnectionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// readLoop delivers inbound frames until the connection ends, then
// reports the disconnect once.
func (c *WSConn) readLoop(conn *websocket.Conn, handler Handler, once *sync.Once) {
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			reason, code := closeInfo(err, c.closing())
			if !isExpectedClose(err) && !c.closing() {
				handler.OnTransportError(fmt.Errorf("read failed: %w", err))
			}
			c.finish(conn, handler, once, reason, code)
			return
		}

		// The protocol is text-only; other frame types are ignored.
		if msgType == websocket.TextMessage {
			handler.OnTextMessage(data)
		}
	}
}

// closing reports whether a local Close is in progress.
func (c *WSConn) closing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == StateClosing
}

// finish resets connection state and fires OnDisconnected exactly once.
func (c *WSConn) finish(conn *websocket.Conn, handler Handler, once *sync.Once, reason string, code uint16) {
	once.Do(func() {
		_ = conn.Close()

		c.mu.Lock()
		if c.conn == conn {
			c.conn = nil
			c.handler = nil
			c.state = StateDisconnected
		}
		c.mu.Unlock()

		handler.OnDisconnected(reason, code)
	})
}

// closeInfo extracts a reason and code from a read error.
func closeInfo(err error, localClose bool) (string, uint16) {
	var ce *websocket.CloseError
	if errors.As(err, &ce) {
		reason := ce.Text
		if reason == "" {
			reason = "connection closed by server"
		}
		return reason, uint16(ce.Code)
	}
	if localClose {
		return "connection closed", uint16(websocket.CloseNormalClosure)
	}
	return err.Error(), uint16(websocket.CloseAbnormalClosure)
}

// isExpectedClose reports whether the read error is an ordinary close
// rather than a transport failure.
func isExpectedClose(err error) bool {
	return websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseNoStatusReceived,
	)
}
