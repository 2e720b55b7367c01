package pubsub

import (
	"errors"
	"fmt"

	"github.com/solwatch/solwatch-go/pkg/wire"
)

// Client errors.
var (
	// ErrDisconnected is returned when an operation requires an active
	// connection and there is none.
	ErrDisconnected = errors.New("not connected")

	// ErrAlreadyStarted is returned by Start when the client is running.
	ErrAlreadyStarted = errors.New("client already started")
)

// SerializationError reports a failure to encode an outbound request.
type SerializationError struct {
	Method wire.Method
	Err    error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("failed to serialize %s request: %v", e.Method, e.Err)
}

func (e *SerializationError) Unwrap() error {
	return e.Err
}

// DeserializationError reports an inbound payload that could not be
// decoded or classified. It is surfaced via OnError; the connection
// stays up.
type DeserializationError struct {
	Err error
}

func (e *DeserializationError) Error() string {
	return fmt.Sprintf("failed to deserialize inbound message: %v", e.Err)
}

func (e *DeserializationError) Unwrap() error {
	return e.Err
}

// TransportError reports a socket-level failure.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s failed: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
