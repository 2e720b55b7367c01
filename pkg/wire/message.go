package wire

import (
	"encoding/base64"
	"fmt"
)

// Request represents an outbound subscribe or unsubscribe call.
//
// JSON encoding:
//
//	{
//	  "id": "<client-generated string>",
//	  "method": "accountSubscribe",
//	  "params": ["Pubkey", {"commitment":"recent","encoding":"base64"}]
//	}
//
// A Request is immutable once built; the id is never reused while the
// request is still awaiting its confirmation.
type Request struct {
	ID     string `json:"id"`
	Method Method `json:"method"`
	Params []any  `json:"params"`
}

// Validate checks if the request is well formed.
func (r *Request) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("request id must not be empty")
	}
	if !r.Method.IsValid() {
		return fmt.Errorf("invalid method: %q", r.Method)
	}
	return nil
}

// Inbound is the union of classified inbound messages. Exactly one of the
// concrete types below is produced per payload.
type Inbound interface {
	inbound()
}

// SubscriptionConfirmation is the node's reply to a subscribe request.
// It carries the server-assigned subscription handle, valid only for the
// lifetime of the current connection.
type SubscriptionConfirmation struct {
	RequestID    string
	Subscription uint64
}

func (*SubscriptionConfirmation) inbound() {}

// UnsubscriptionConfirmation is the node's reply to an unsubscribe request.
type UnsubscriptionConfirmation struct {
	RequestID string
	Success   bool
}

func (*UnsubscriptionConfirmation) inbound() {}

// SlotContext carries the slot a notification's data was observed at.
type SlotContext struct {
	Slot uint64 `json:"slot"`
}

// AccountInfo is the account state carried by account and program streams.
// Data is the two-element [payload, encoding] form the node produces for
// base64-encoded buffers.
type AccountInfo struct {
	Lamports   uint64   `json:"lamports"`
	Owner      string   `json:"owner"`
	Data       []string `json:"data"`
	Executable bool     `json:"executable"`
	RentEpoch  uint64   `json:"rentEpoch"`
}

// DataBytes decodes the base64 account data buffer.
func (a *AccountInfo) DataBytes() ([]byte, error) {
	if len(a.Data) == 0 {
		return nil, nil
	}
	buf, err := base64.StdEncoding.DecodeString(a.Data[0])
	if err != nil {
		return nil, fmt.Errorf("account data is not valid base64: %w", err)
	}
	return buf, nil
}

// ProgramAccount pairs an owned account with its address.
type ProgramAccount struct {
	Pubkey  string      `json:"pubkey"`
	Account AccountInfo `json:"account"`
}

// SignatureResult reports the processing outcome for a watched signature.
// Err is nil on success and carries the node's error object otherwise.
type SignatureResult struct {
	Err any `json:"err"`
}

// LogsResult carries the log output of one transaction.
type LogsResult struct {
	Signature string   `json:"signature"`
	Err       any      `json:"err"`
	Logs      []string `json:"logs"`
}

// LogsFilterAll is the logs subscribe filter selecting every transaction.
const LogsFilterAll = "all"

// MentionsFilter is the logs subscribe filter selecting transactions that
// mention any of the listed addresses.
type MentionsFilter struct {
	Mentions []string `json:"mentions"`
}

// AccountNotification is a push on an account stream.
type AccountNotification struct {
	Subscription uint64
	Slot         uint64
	Account      AccountInfo
}

func (*AccountNotification) inbound() {}

// ProgramNotification is a push on a program stream.
type ProgramNotification struct {
	Subscription uint64
	Slot         uint64
	Account      ProgramAccount
}

func (*ProgramNotification) inbound() {}

// SignatureNotification is a push on a signature stream.
type SignatureNotification struct {
	Subscription uint64
	Slot         uint64
	Result       SignatureResult
}

func (*SignatureNotification) inbound() {}

// LogsNotification is a push on a logs stream.
type LogsNotification struct {
	Subscription uint64
	Slot         uint64
	Logs         LogsResult
}

func (*LogsNotification) inbound() {}

// Handle returns the subscription handle an inbound notification refers
// to, or false for confirmations.
func Handle(msg Inbound) (uint64, bool) {
	switch m := msg.(type) {
	case *AccountNotification:
		return m.Subscription, true
	case *ProgramNotification:
		return m.Subscription, true
	case *SignatureNotification:
		return m.Subscription, true
	case *LogsNotification:
		return m.Subscription, true
	default:
		return 0, false
	}
}
