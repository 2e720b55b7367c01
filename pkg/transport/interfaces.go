package transport

import "context"

// Handler receives transport events. All callbacks are invoked from the
// connection's read loop (or the Connect/Close caller), one at a time and
// in order; implementations must not block for long.
type Handler interface {
	// OnConnected is called once the connection is established.
	OnConnected()

	// OnDisconnected is called exactly once when the connection ends,
	// with the close reason and close code.
	OnDisconnected(reason string, code uint16)

	// OnTextMessage delivers one inbound text frame.
	OnTextMessage(payload []byte)

	// OnTransportError reports a transport-level error. The connection
	// may still be usable; a fatal error is followed by OnDisconnected.
	OnTransportError(err error)
}

// Connection represents a client-side connection to a pub/sub endpoint.
// Implemented by WSConn.
type Connection interface {
	// Connect opens the connection and binds the event handler.
	Connect(ctx context.Context, handler Handler) error

	// Send writes one outbound text frame. Safe for concurrent use.
	Send(data []byte) error

	// Close tears the connection down.
	Close() error

	// State returns the current connection state.
	State() ConnectionState
}

// Compile-time interface satisfaction check.
var _ Connection = (*WSConn)(nil)
