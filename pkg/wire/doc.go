// Package wire defines the JSON wire format for the node's pub/sub protocol.
//
// The protocol is JSON-RPC-shaped over text frames. There are three message
// families:
//   - Request: client to node (subscribe/unsubscribe calls, correlated by a
//     client-generated string id)
//   - Confirmation: node to client (reply to a request; a numeric result
//     confirms a subscribe, a boolean result acknowledges an unsubscribe)
//   - Notification: node to client (unsolicited push tied to a numeric
//     subscription handle, identified by its method name)
//
// # Method enumeration
//
// The node dispatches on a runtime method string. This package models the
// finite method set as typed enumerations (Method, StreamKind) so that
// routing switches are total and a new stream kind cannot be silently
// dropped.
//
// # Classification
//
// DecodeInbound is the single entry point for inbound payloads. It decides
// exactly once whether a payload is a notification or a confirmation, and
// decodes the confirmation result with one discriminated pass over its JSON
// type. Unrecognized notification methods are dropped, not errors; every
// other decode failure is reported to the caller.
package wire
