package transport

import (
	"errors"
	"net/http"
	"time"
)

// Connection states.
type ConnectionState int

const (
	// StateDisconnected indicates no connection.
	StateDisconnected ConnectionState = iota

	// StateConnecting indicates connection in progress.
	StateConnecting

	// StateConnected indicates an active connection.
	StateConnected

	// StateClosing indicates close in progress.
	StateClosing
)

// String returns the connection state name.
func (s ConnectionState) String() string {
	switch s {
	case StateDisconnected:
		return "DISCONNECTED"
	case StateConnecting:
		return "CONNECTING"
	case StateConnected:
		return "CONNECTED"
	case StateClosing:
		return "CLOSING"
	default:
		return "UNKNOWN"
	}
}

// Connection errors.
var (
	ErrNotConnected     = errors.New("not connected")
	ErrAlreadyConnected = errors.New("already connected")
	ErrConnectionClosed = errors.New("connection closed")
)

// Defaults for Config.
const (
	// DefaultMaxMessageSize bounds inbound frames. Account data buffers
	// can run large, so this is generous.
	DefaultMaxMessageSize int64 = 1 << 20

	// DefaultConnectTimeout bounds the WebSocket handshake.
	DefaultConnectTimeout = 30 * time.Second
)

// Config configures a WebSocket connection.
type Config struct {
	// URL is the ws:// or wss:// endpoint of the node.
	URL string

	// ConnectTimeout bounds the handshake (default: 30s).
	ConnectTimeout time.Duration

	// MaxMessageSize is the maximum inbound frame size (default: 1MB).
	MaxMessageSize int64

	// Header is sent with the handshake request (e.g. auth tokens).
	Header http.Header
}

// withDefaults returns the config with zero values filled in.
func (c Config) withDefaults() Config {
	if c.ConnectTimeout == 0 {
		c.ConnectTimeout = DefaultConnectTimeout
	}
	if c.MaxMessageSize == 0 {
		c.MaxMessageSize = DefaultMaxMessageSize
	}
	return c
}
