// Package transport provides the socket transport the pub/sub client runs on.
//
// The transport layer handles:
//   - WebSocket connections to the node's pub/sub endpoint
//   - Ordered delivery of inbound text frames to a Handler
//   - Write serialization for outbound frames
//   - Connection state management and disconnect reporting
//
// # Protocol Stack
//
//	┌────────────────────────────────┐
//	│     JSON text messages         │
//	├────────────────────────────────┤
//	│        WebSocket               │
//	├────────────────────────────────┤
//	│        TCP (or TLS)            │
//	└────────────────────────────────┘
//
// The protocol core consumes the Connection and Handler interfaces only;
// WSConn is the production implementation. Inbound frames are delivered
// one at a time from a single read loop, so a Handler observes messages
// strictly in arrival order.
//
// # Lifecycle
//
// A disconnect, whether initiated locally via Close or by the peer, is
// reported to the Handler exactly once per connection with the close
// reason and code. The transport never reconnects on its own; that policy
// belongs to the caller.
package transport
