package wire

import (
	"encoding/json"
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

// codec is the JSON configuration for wire messages. Map keys are sorted
// so encoded requests are deterministic.
var codec = jsoniter.Config{
	EscapeHTML:             false,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
}.Froze()

// Marshal encodes a value to JSON bytes.
func Marshal(v any) ([]byte, error) {
	return codec.Marshal(v)
}

// Unmarshal decodes JSON bytes into a value.
func Unmarshal(data []byte, v any) error {
	return codec.Unmarshal(data, v)
}

// EncodeRequest encodes a request message to JSON bytes.
func EncodeRequest(req *Request) ([]byte, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	return Marshal(req)
}

// DecodeRequest decodes JSON bytes into a request message.
func DecodeRequest(data []byte) (*Request, error) {
	var req Request
	if err := Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to decode request: %w", err)
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	return &req, nil
}

// inboundEnvelope is the loose shape every inbound payload is parsed into
// before classification. A notification carries a method and params; a
// confirmation carries an id and a result.
type inboundEnvelope struct {
	ID     string          `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params"`
	Result json.RawMessage `json:"result"`
}

// notificationParams is the params object of a push message.
type notificationParams[T any] struct {
	Subscription uint64 `json:"subscription"`
	Result       struct {
		Context SlotContext `json:"context"`
		Value   T           `json:"value"`
	} `json:"result"`
}

// DecodeInbound classifies and decodes one inbound payload.
//
// It returns exactly one of:
//   - a typed Notification for a recognized push method,
//   - a SubscriptionConfirmation or UnsubscriptionConfirmation for a reply
//     correlated by id,
//   - (nil, nil) for a push whose method is outside the known enumeration
//     (unknown streams are dropped, not treated as fatal),
//   - (nil, err) when the payload cannot be parsed or satisfies no shape.
//
// A confirmation's result is decoded with a single discriminated pass over
// its JSON type: a number confirms a subscribe, a boolean acknowledges an
// unsubscribe. A payload is never dispatched as both.
func DecodeInbound(data []byte) (Inbound, error) {
	var env inboundEnvelope
	if err := Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("malformed payload: %w", err)
	}

	if env.Method != "" {
		kind, ok := StreamForNotification(env.Method)
		if !ok {
			return nil, nil
		}
		return decodeNotification(kind, env.Params)
	}

	if env.ID == "" || len(env.Result) == 0 {
		return nil, fmt.Errorf("payload is neither a notification nor a confirmation")
	}
	return decodeConfirmation(env.ID, env.Result)
}

// decodeNotification decodes the typed params of a recognized push method.
func decodeNotification(kind StreamKind, params json.RawMessage) (Inbound, error) {
	if len(params) == 0 {
		return nil, fmt.Errorf("%s notification without params", kind)
	}

	switch kind {
	case StreamAccount:
		var p notificationParams[AccountInfo]
		if err := Unmarshal(params, &p); err != nil {
			return nil, fmt.Errorf("failed to decode %s notification: %w", kind, err)
		}
		return &AccountNotification{
			Subscription: p.Subscription,
			Slot:         p.Result.Context.Slot,
			Account:      p.Result.Value,
		}, nil

	case StreamProgram:
		var p notificationParams[ProgramAccount]
		if err := Unmarshal(params, &p); err != nil {
			return nil, fmt.Errorf("failed to decode %s notification: %w", kind, err)
		}
		return &ProgramNotification{
			Subscription: p.Subscription,
			Slot:         p.Result.Context.Slot,
			Account:      p.Result.Value,
		}, nil

	case StreamSignature:
		var p notificationParams[SignatureResult]
		if err := Unmarshal(params, &p); err != nil {
			return nil, fmt.Errorf("failed to decode %s notification: %w", kind, err)
		}
		return &SignatureNotification{
			Subscription: p.Subscription,
			Slot:         p.Result.Context.Slot,
			Result:       p.Result.Value,
		}, nil

	case StreamLogs:
		var p notificationParams[LogsResult]
		if err := Unmarshal(params, &p); err != nil {
			return nil, fmt.Errorf("failed to decode %s notification: %w", kind, err)
		}
		return &LogsNotification{
			Subscription: p.Subscription,
			Slot:         p.Result.Context.Slot,
			Logs:         p.Result.Value,
		}, nil

	default:
		return nil, fmt.Errorf("unhandled stream kind %d", kind)
	}
}

// decodeConfirmation decodes a reply's result by its concrete JSON type.
func decodeConfirmation(id string, result json.RawMessage) (Inbound, error) {
	switch discriminate(result) {
	case resultNumber:
		var handle uint64
		if err := Unmarshal(result, &handle); err != nil {
			return nil, fmt.Errorf("failed to decode subscription handle: %w", err)
		}
		return &SubscriptionConfirmation{RequestID: id, Subscription: handle}, nil

	case resultBool:
		var success bool
		if err := Unmarshal(result, &success); err != nil {
			return nil, fmt.Errorf("failed to decode unsubscribe acknowledgment: %w", err)
		}
		return &UnsubscriptionConfirmation{RequestID: id, Success: success}, nil

	default:
		return nil, fmt.Errorf("confirmation result has unexpected type: %s", result)
	}
}

// resultType is the JSON type of a confirmation result.
type resultType uint8

const (
	resultOther resultType = iota
	resultNumber
	resultBool
)

// discriminate inspects the first significant byte of a raw JSON value.
func discriminate(raw json.RawMessage) resultType {
	for _, b := range raw {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		case 't', 'f':
			return resultBool
		default:
			if b == '-' || (b >= '0' && b <= '9') {
				return resultNumber
			}
			return resultOther
		}
	}
	return resultOther
}
