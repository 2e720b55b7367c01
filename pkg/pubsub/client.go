package pubsub

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	plog "github.com/solwatch/solwatch-go/pkg/log"
	"github.com/solwatch/solwatch-go/pkg/transport"
	"github.com/solwatch/solwatch-go/pkg/wire"
)

// Client is the subscription client facade. It owns one connection to a
// node's pub/sub endpoint, issues subscribe/unsubscribe requests and
// routes inbound traffic to the bound Consumer.
//
// A Client can be started again after Stop or after a server-side
// disconnect; each connection is a fresh epoch with its own request id
// space and an empty subscription set.
type Client struct {
	config Config
	conn   transport.Connection

	correlate *correlator
	dispatch  dispatcher

	mu       sync.Mutex
	logger   plog.Logger
	ownedLog *plog.FileLogger
	connID   string
}

// New creates a client connecting to the configured endpoint.
func New(config Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	conn := transport.NewWSConn(transport.Config{
		URL:            config.Endpoint,
		ConnectTimeout: config.ConnectTimeout.Std(),
		MaxMessageSize: config.MaxMessageSize,
	})
	return NewWithConnection(config, conn), nil
}

// NewWithConnection creates a client over an existing connection.
// Useful for tests and custom transports.
func NewWithConnection(config Config, conn transport.Connection) *Client {
	return &Client{
		config:    config,
		conn:      conn,
		correlate: newCorrelator(),
		logger:    plog.NoopLogger{},
	}
}

// SetLogger installs a protocol event logger. Must be called before
// Start. Pass nil to disable logging.
func (c *Client) SetLogger(logger plog.Logger) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if logger == nil {
		logger = plog.NoopLogger{}
	}
	c.logger = logger
}

// Start binds the consumer and opens the connection. The consumer's
// OnConnected fires before Start returns. A nil consumer is allowed;
// events are then dropped.
func (c *Client) Start(ctx context.Context, consumer Consumer) error {
	c.mu.Lock()
	if c.conn.State() != transport.StateDisconnected {
		c.mu.Unlock()
		return ErrAlreadyStarted
	}

	c.connID = uuid.NewString()
	if c.config.ProtocolLogPath != "" && c.ownedLog == nil {
		fileLog, err := plog.NewFileLogger(c.config.ProtocolLogPath)
		if err != nil {
			c.mu.Unlock()
			return fmt.Errorf("failed to open protocol log: %w", err)
		}
		c.ownedLog = fileLog
		if _, isNoop := c.logger.(plog.NoopLogger); isNoop {
			c.logger = fileLog
		} else {
			c.logger = plog.NewMultiLogger(c.logger, fileLog)
		}
	}
	c.mu.Unlock()

	c.dispatch.bind(consumer)

	if err := c.conn.Connect(ctx, c); err != nil {
		c.dispatch.release()
		return &TransportError{Op: "connect", Err: err}
	}
	return nil
}

// Stop closes the connection and releases the consumer binding. A
// disconnect event still in flight when the binding is released is
// dropped; the consumer asked for the teardown and does not need it.
func (c *Client) Stop() error {
	err := c.conn.Close()
	c.dispatch.release()

	c.mu.Lock()
	if c.ownedLog != nil {
		_ = c.ownedLog.Close()
		c.ownedLog = nil
		c.logger = plog.NoopLogger{}
	}
	c.mu.Unlock()
	return err
}

// State returns the connection state.
func (c *Client) State() transport.ConnectionState {
	return c.conn.State()
}

// ActiveSubscriptions returns a snapshot of the live handle set.
func (c *Client) ActiveSubscriptions() map[uint64]wire.StreamKind {
	return c.correlate.activeSubscriptions()
}

// PendingRequests reports how many requests still await a reply.
func (c *Client) PendingRequests() int {
	return c.correlate.pendingCount()
}

// SubscribeAccount subscribes to state changes of one account.
func (c *Client) SubscribeAccount(pubkey string) (string, error) {
	return c.subscribe(wire.StreamAccount, pubkey)
}

// UnsubscribeAccount cancels an account subscription by handle.
func (c *Client) UnsubscribeAccount(subscription uint64) (string, error) {
	return c.unsubscribe(wire.StreamAccount, subscription)
}

// SubscribeProgram subscribes to changes of all accounts owned by a
// program.
func (c *Client) SubscribeProgram(pubkey string) (string, error) {
	return c.subscribe(wire.StreamProgram, pubkey)
}

// UnsubscribeProgram cancels a program subscription by handle.
func (c *Client) UnsubscribeProgram(subscription uint64) (string, error) {
	return c.unsubscribe(wire.StreamProgram, subscription)
}

// SubscribeSignature subscribes to the processing status of one
// transaction signature. The node drops the subscription itself once
// the signature is resolved.
func (c *Client) SubscribeSignature(signature string) (string, error) {
	return c.subscribe(wire.StreamSignature, signature)
}

// UnsubscribeSignature cancels a signature subscription by handle.
func (c *Client) UnsubscribeSignature(subscription uint64) (string, error) {
	return c.unsubscribe(wire.StreamSignature, subscription)
}

// SubscribeLogsMentions subscribes to log output of transactions that
// mention the given address.
func (c *Client) SubscribeLogsMentions(pubkey string) (string, error) {
	return c.subscribe(wire.StreamLogs, wire.MentionsFilter{Mentions: []string{pubkey}})
}

// SubscribeLogsAll subscribes to log output of every transaction.
func (c *Client) SubscribeLogsAll() (string, error) {
	return c.subscribe(wire.StreamLogs, wire.LogsFilterAll)
}

// UnsubscribeLogs cancels a logs subscription by handle.
func (c *Client) UnsubscribeLogs(subscription uint64) (string, error) {
	return c.unsubscribe(wire.StreamLogs, subscription)
}

// subscribe builds, tracks and sends one subscribe request, returning
// its request id. The confirmation arrives later via OnSubscribed.
func (c *Client) subscribe(kind wire.StreamKind, target any) (string, error) {
	req := &wire.Request{
		ID:     uuid.NewString(),
		Method: kind.SubscribeMethod(),
		Params: []any{target, wire.DefaultConfigFor(kind)},
	}

	c.correlate.trackSubscribe(req.ID, kind)
	if err := c.send(req); err != nil {
		c.correlate.forget(req.ID)
		return "", err
	}
	return req.ID, nil
}

// unsubscribe builds, tracks and sends one unsubscribe request. The
// target handle is remembered so the acknowledgment can be matched back
// to it.
func (c *Client) unsubscribe(kind wire.StreamKind, subscription uint64) (string, error) {
	req := &wire.Request{
		ID:     uuid.NewString(),
		Method: kind.UnsubscribeMethod(),
		Params: []any{subscription},
	}

	c.correlate.trackUnsubscribe(req.ID, subscription, kind)
	if err := c.send(req); err != nil {
		c.correlate.forget(req.ID)
		return "", err
	}
	return req.ID, nil
}

// send serializes and writes one request to the transport.
func (c *Client) send(req *wire.Request) error {
	if c.conn.State() != transport.StateConnected {
		return ErrDisconnected
	}

	data, err := wire.EncodeRequest(req)
	if err != nil {
		return &SerializationError{Method: req.Method, Err: err}
	}

	if err := c.conn.Send(data); err != nil {
		return &TransportError{Op: "send", Err: err}
	}

	c.logEvent(plog.Event{
		Direction: plog.DirectionOut,
		Layer:     plog.LayerWire,
		Category:  plog.CategoryMessage,
		Message: &plog.MessageEvent{
			Type:      plog.MessageTypeRequest,
			RequestID: req.ID,
			Method:    string(req.Method),
		},
	})
	return nil
}

// OnConnected implements transport.Handler.
func (c *Client) OnConnected() {
	c.logEvent(plog.Event{
		Direction: plog.DirectionIn,
		Layer:     plog.LayerTransport,
		Category:  plog.CategoryState,
		StateChange: &plog.StateChangeEvent{
			OldState: transport.StateConnecting.String(),
			NewState: transport.StateConnected.String(),
		},
	})
	c.dispatch.connected()
}

// OnDisconnected implements transport.Handler. All subscription state is
// discarded; server handles do not survive the connection that assigned
// them.
func (c *Client) OnDisconnected(reason string, code uint16) {
	c.correlate.reset()

	c.logEvent(plog.Event{
		Direction: plog.DirectionIn,
		Layer:     plog.LayerTransport,
		Category:  plog.CategoryState,
		StateChange: &plog.StateChangeEvent{
			OldState: transport.StateConnected.String(),
			NewState: transport.StateDisconnected.String(),
			Reason:   reason,
			Code:     code,
		},
	})
	c.dispatch.disconnected(reason, code)
}

// OnTransportError implements transport.Handler.
func (c *Client) OnTransportError(err error) {
	wrapped := &TransportError{Op: "read", Err: err}
	c.logError(plog.LayerTransport, wrapped, "read loop")
	c.dispatch.failure(wrapped)
}

// OnTextMessage implements transport.Handler. One inbound frame is
// classified and routed; a frame that cannot be decoded is reported via
// OnError and the connection stays up.
func (c *Client) OnTextMessage(payload []byte) {
	msg, err := wire.DecodeInbound(payload)
	if err != nil {
		wrapped := &DeserializationError{Err: err}
		c.logError(plog.LayerWire, wrapped, "decode inbound")
		c.dispatch.failure(wrapped)
		return
	}
	if msg == nil {
		// Push for a stream kind outside the enumeration. Dropped.
		return
	}

	switch m := msg.(type) {
	case *wire.SubscriptionConfirmation:
		c.handleSubscribed(m)
	case *wire.UnsubscriptionConfirmation:
		c.handleUnsubscribed(m)
	default:
		c.handleNotification(msg)
	}
}

func (c *Client) handleSubscribed(m *wire.SubscriptionConfirmation) {
	if _, ok := c.correlate.confirmSubscribe(m.RequestID, m.Subscription); !ok {
		err := fmt.Errorf("subscription confirmation for unknown request id %q", m.RequestID)
		c.logError(plog.LayerClient, err, "correlate confirmation")
		c.dispatch.failure(err)
		return
	}

	c.logEvent(plog.Event{
		Direction: plog.DirectionIn,
		Layer:     plog.LayerWire,
		Category:  plog.CategoryMessage,
		Message: &plog.MessageEvent{
			Type:           plog.MessageTypeConfirmation,
			RequestID:      m.RequestID,
			SubscriptionID: &m.Subscription,
		},
	})
	c.dispatch.subscribed(m.Subscription, m.RequestID)
}

func (c *Client) handleUnsubscribed(m *wire.UnsubscriptionConfirmation) {
	if _, ok := c.correlate.confirmUnsubscribe(m.RequestID, m.Success); !ok {
		err := fmt.Errorf("unsubscription confirmation for unknown request id %q", m.RequestID)
		c.logError(plog.LayerClient, err, "correlate confirmation")
		c.dispatch.failure(err)
		return
	}

	c.logEvent(plog.Event{
		Direction: plog.DirectionIn,
		Layer:     plog.LayerWire,
		Category:  plog.CategoryMessage,
		Message: &plog.MessageEvent{
			Type:      plog.MessageTypeConfirmation,
			RequestID: m.RequestID,
			Success:   &m.Success,
		},
	})
	c.dispatch.unsubscribed(m.RequestID, m.Success)
}

// handleNotification forwards a push to the consumer. A handle missing
// from the active set is forwarded anyway; pushes can race ahead of the
// confirmation or trail an unsubscribe.
func (c *Client) handleNotification(msg wire.Inbound) {
	if handle, ok := wire.Handle(msg); ok {
		kind, _ := c.correlate.activeKind(handle)
		c.logEvent(plog.Event{
			Direction: plog.DirectionIn,
			Layer:     plog.LayerWire,
			Category:  plog.CategoryMessage,
			Message: &plog.MessageEvent{
				Type:           plog.MessageTypeNotification,
				Method:         kind.NotificationMethod(),
				SubscriptionID: &handle,
				Slot:           notificationSlot(msg),
			},
		})
	}
	c.dispatch.notification(msg)
}

func notificationSlot(msg wire.Inbound) uint64 {
	switch m := msg.(type) {
	case *wire.AccountNotification:
		return m.Slot
	case *wire.ProgramNotification:
		return m.Slot
	case *wire.SignatureNotification:
		return m.Slot
	case *wire.LogsNotification:
		return m.Slot
	default:
		return 0
	}
}

func (c *Client) logEvent(event plog.Event) {
	c.mu.Lock()
	logger := c.logger
	connID := c.connID
	c.mu.Unlock()

	event.Timestamp = time.Now().UTC()
	event.ConnectionID = connID
	event.Endpoint = c.config.Endpoint
	logger.Log(event)
}

func (c *Client) logError(layer plog.Layer, err error, context string) {
	c.logEvent(plog.Event{
		Direction: plog.DirectionIn,
		Layer:     layer,
		Category:  plog.CategoryError,
		Error: &plog.ErrorEventData{
			Layer:   layer,
			Message: err.Error(),
			Context: context,
		},
	})
}

// Compile-time interface satisfaction check.
var _ transport.Handler = (*Client)(nil)
