package pubsub

import (
	"sync"

	"github.com/solwatch/solwatch-go/pkg/wire"
)

// pendingUnsub records an unsubscribe awaiting its acknowledgment.
type pendingUnsub struct {
	subscription uint64
	kind         wire.StreamKind
}

// correlator tracks the subscription state of one connection epoch:
// subscribe requests awaiting their handle, unsubscribe requests awaiting
// their acknowledgment, and the active handle set. A single mutex guards
// all three tables so confirmations observe a consistent view.
type correlator struct {
	mu sync.Mutex

	pendingSubs   map[string]wire.StreamKind
	pendingUnsubs map[string]pendingUnsub
	active        map[uint64]wire.StreamKind
}

func newCorrelator() *correlator {
	return &correlator{
		pendingSubs:   make(map[string]wire.StreamKind),
		pendingUnsubs: make(map[string]pendingUnsub),
		active:        make(map[uint64]wire.StreamKind),
	}
}

// trackSubscribe records an outbound subscribe awaiting confirmation.
func (c *correlator) trackSubscribe(requestID string, kind wire.StreamKind) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pendingSubs[requestID] = kind
}

// trackUnsubscribe records an outbound unsubscribe awaiting acknowledgment.
func (c *correlator) trackUnsubscribe(requestID string, subscription uint64, kind wire.StreamKind) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pendingUnsubs[requestID] = pendingUnsub{subscription: subscription, kind: kind}
}

// forget drops a pending entry after a send failure, so the id of a
// request that never went out cannot correlate with anything.
func (c *correlator) forget(requestID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pendingSubs, requestID)
	delete(c.pendingUnsubs, requestID)
}

// confirmSubscribe moves a pending subscribe into the active set.
// Returns false if the request id is not a pending subscribe.
func (c *correlator) confirmSubscribe(requestID string, subscription uint64) (wire.StreamKind, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	kind, ok := c.pendingSubs[requestID]
	if !ok {
		return 0, false
	}
	delete(c.pendingSubs, requestID)
	c.active[subscription] = kind
	return kind, true
}

// confirmUnsubscribe resolves a pending unsubscribe. On success the
// handle leaves the active set; on failure the subscription stays live.
// Returns false if the request id is not a pending unsubscribe.
func (c *correlator) confirmUnsubscribe(requestID string, success bool) (pendingUnsub, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.pendingUnsubs[requestID]
	if !ok {
		return pendingUnsub{}, false
	}
	delete(c.pendingUnsubs, requestID)
	if success {
		delete(c.active, p.subscription)
	}
	return p, true
}

// activeKind reports the stream kind of an active handle.
func (c *correlator) activeKind(subscription uint64) (wire.StreamKind, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	kind, ok := c.active[subscription]
	return kind, ok
}

// activeSubscriptions returns a snapshot of the active handle set.
func (c *correlator) activeSubscriptions() map[uint64]wire.StreamKind {
	c.mu.Lock()
	defer c.mu.Unlock()

	snapshot := make(map[uint64]wire.StreamKind, len(c.active))
	for handle, kind := range c.active {
		snapshot[handle] = kind
	}
	return snapshot
}

// pendingCount reports requests still awaiting a reply.
func (c *correlator) pendingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pendingSubs) + len(c.pendingUnsubs)
}

// reset clears all state. Called on disconnect; server handles are only
// meaningful within the connection that assigned them.
func (c *correlator) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pendingSubs = make(map[string]wire.StreamKind)
	c.pendingUnsubs = make(map[string]pendingUnsub)
	c.active = make(map[uint64]wire.StreamKind)
}
