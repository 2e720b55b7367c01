package pubsub

import (
	"sync"

	"github.com/solwatch/solwatch-go/pkg/wire"
)

// dispatcher fans events out to the bound consumer. It tolerates a nil
// consumer so the client never has to check before forwarding.
type dispatcher struct {
	mu       sync.RWMutex
	consumer Consumer
}

// bind installs the consumer for the next connection epoch.
func (d *dispatcher) bind(consumer Consumer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.consumer = consumer
}

// release drops the consumer. Events after release are discarded.
func (d *dispatcher) release() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.consumer = nil
}

func (d *dispatcher) get() Consumer {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.consumer
}

func (d *dispatcher) connected() {
	if c := d.get(); c != nil {
		c.OnConnected()
	}
}

func (d *dispatcher) disconnected(reason string, code uint16) {
	if c := d.get(); c != nil {
		c.OnDisconnected(reason, code)
	}
}

func (d *dispatcher) subscribed(subscription uint64, requestID string) {
	if c := d.get(); c != nil {
		c.OnSubscribed(subscription, requestID)
	}
}

func (d *dispatcher) unsubscribed(requestID string, success bool) {
	if c := d.get(); c != nil {
		c.OnUnsubscribed(requestID, success)
	}
}

func (d *dispatcher) notification(msg wire.Inbound) {
	c := d.get()
	if c == nil {
		return
	}
	switch n := msg.(type) {
	case *wire.AccountNotification:
		c.OnAccountNotification(n)
	case *wire.ProgramNotification:
		c.OnProgramNotification(n)
	case *wire.SignatureNotification:
		c.OnSignatureNotification(n)
	case *wire.LogsNotification:
		c.OnLogsNotification(n)
	}
}

func (d *dispatcher) failure(err error) {
	if c := d.get(); c != nil {
		c.OnError(err)
	}
}
