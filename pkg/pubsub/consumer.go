package pubsub

import "github.com/solwatch/solwatch-go/pkg/wire"

// Consumer receives connection lifecycle events, subscription
// confirmations and stream notifications. All callbacks are invoked
// synchronously from the connection's read loop, one at a time and in
// delivery order; implementations must not block for long.
//
// The consumer is bound by Start and released by Stop. A nil consumer is
// allowed; events are then dropped.
type Consumer interface {
	// OnConnected is called once the connection is established.
	OnConnected()

	// OnDisconnected is called exactly once when the connection ends.
	// All subscription state is gone at this point.
	OnDisconnected(reason string, code uint16)

	// OnSubscribed reports the server-assigned handle for an earlier
	// subscribe call, correlated by its request id.
	OnSubscribed(subscription uint64, requestID string)

	// OnUnsubscribed acknowledges an earlier unsubscribe call.
	OnUnsubscribed(requestID string, success bool)

	// OnAccountNotification delivers an account stream push.
	OnAccountNotification(n *wire.AccountNotification)

	// OnProgramNotification delivers a program stream push.
	OnProgramNotification(n *wire.ProgramNotification)

	// OnSignatureNotification delivers a signature stream push.
	OnSignatureNotification(n *wire.SignatureNotification)

	// OnLogsNotification delivers a logs stream push.
	OnLogsNotification(n *wire.LogsNotification)

	// OnError reports a non-fatal inbound processing error.
	OnError(err error)
}
