// Package pubsub implements the subscription client for a node's
// WebSocket pub/sub endpoint.
//
// The Client maintains one persistent connection, sends subscribe and
// unsubscribe requests and routes everything the node pushes back to a
// Consumer the application provides.
//
// # Correlation
//
// Every outbound request carries a client-generated string id (a UUID).
// The node replies with a confirmation correlated by that id; a subscribe
// confirmation carries the server-assigned numeric subscription handle
// that all later notifications on the stream reference. The client tracks
// three tables: subscribe requests awaiting their handle, unsubscribe
// requests awaiting their acknowledgment, and the active handle set.
// All three are cleared when the connection drops; handles never survive
// a reconnect.
//
// # Delivery
//
// Subscribe and unsubscribe calls are fire and forget: they return the
// request id immediately, the handle arrives later via OnSubscribed.
// Consumer callbacks run synchronously on the connection's read loop, in
// transport delivery order. Notifications referring to handles the client
// no longer (or never) tracked are still forwarded; stale data is the
// consumer's call to drop.
//
// # Errors
//
// Outbound failures are returned from the call that caused them. Inbound
// failures (malformed payloads, unexpected reply shapes) are reported via
// OnError and do not terminate the connection.
package pubsub
