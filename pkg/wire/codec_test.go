package wire

import (
	"strings"
	"testing"
)

func TestRequestRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		req  Request
	}{
		{
			name: "account subscribe",
			req: Request{
				ID:     "req-1",
				Method: MethodAccountSubscribe,
				Params: []any{"Pubkey1", DefaultConfigFor(StreamAccount)},
			},
		},
		{
			name: "program subscribe",
			req: Request{
				ID:     "req-2",
				Method: MethodProgramSubscribe,
				Params: []any{"Program1", DefaultConfigFor(StreamProgram)},
			},
		},
		{
			name: "logs subscribe all",
			req: Request{
				ID:     "req-3",
				Method: MethodLogsSubscribe,
				Params: []any{"all", DefaultConfigFor(StreamLogs)},
			},
		},
		{
			name: "account unsubscribe",
			req: Request{
				ID:     "req-4",
				Method: MethodAccountUnsubscribe,
				Params: []any{uint64(12345)},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := EncodeRequest(&tt.req)
			if err != nil {
				t.Fatalf("EncodeRequest failed: %v", err)
			}

			decoded, err := DecodeRequest(data)
			if err != nil {
				t.Fatalf("DecodeRequest failed: %v", err)
			}

			if decoded.ID != tt.req.ID {
				t.Errorf("ID = %q, want %q", decoded.ID, tt.req.ID)
			}
			if decoded.Method != tt.req.Method {
				t.Errorf("Method = %q, want %q", decoded.Method, tt.req.Method)
			}
			if len(decoded.Params) != len(tt.req.Params) {
				t.Errorf("len(Params) = %d, want %d", len(decoded.Params), len(tt.req.Params))
			}
		})
	}
}

func TestEncodeRequestWireShape(t *testing.T) {
	req := Request{
		ID:     "3821d965-e5e0-4b93-9f6d-2a77a2d0f347",
		Method: MethodAccountSubscribe,
		Params: []any{"Pubkey1", DefaultConfigFor(StreamAccount)},
	}

	data, err := EncodeRequest(&req)
	if err != nil {
		t.Fatalf("EncodeRequest failed: %v", err)
	}

	want := `{"id":"3821d965-e5e0-4b93-9f6d-2a77a2d0f347","method":"accountSubscribe","params":["Pubkey1",{"commitment":"recent","encoding":"base64"}]}`
	if string(data) != want {
		t.Errorf("wire payload = %s, want %s", data, want)
	}
}

func TestEncodeRequestInvalid(t *testing.T) {
	t.Run("EmptyID", func(t *testing.T) {
		req := Request{Method: MethodAccountSubscribe}
		if _, err := EncodeRequest(&req); err == nil {
			t.Error("expected error for empty id")
		}
	})

	t.Run("UnknownMethod", func(t *testing.T) {
		req := Request{ID: "x", Method: Method("blockSubscribe")}
		if _, err := EncodeRequest(&req); err == nil {
			t.Error("expected error for unknown method")
		}
	})
}

func TestDecodeInboundConfirmations(t *testing.T) {
	t.Run("Subscription", func(t *testing.T) {
		msg, err := DecodeInbound([]byte(`{"id":"abc","result":12345}`))
		if err != nil {
			t.Fatalf("DecodeInbound failed: %v", err)
		}

		conf, ok := msg.(*SubscriptionConfirmation)
		if !ok {
			t.Fatalf("expected SubscriptionConfirmation, got %T", msg)
		}
		if conf.RequestID != "abc" {
			t.Errorf("RequestID = %q, want abc", conf.RequestID)
		}
		if conf.Subscription != 12345 {
			t.Errorf("Subscription = %d, want 12345", conf.Subscription)
		}
	})

	t.Run("Unsubscription", func(t *testing.T) {
		msg, err := DecodeInbound([]byte(`{"id":"abc","result":true}`))
		if err != nil {
			t.Fatalf("DecodeInbound failed: %v", err)
		}

		conf, ok := msg.(*UnsubscriptionConfirmation)
		if !ok {
			t.Fatalf("expected UnsubscriptionConfirmation, got %T", msg)
		}
		if !conf.Success {
			t.Error("Success = false, want true")
		}
	})

	t.Run("UnsubscriptionFailed", func(t *testing.T) {
		msg, err := DecodeInbound([]byte(`{"id":"abc","result":false}`))
		if err != nil {
			t.Fatalf("DecodeInbound failed: %v", err)
		}

		conf := msg.(*UnsubscriptionConfirmation)
		if conf.Success {
			t.Error("Success = true, want false")
		}
	})

	// A confirmation result has exactly one concrete JSON type, so a
	// payload classifies as a subscription confirmation or an unsubscribe
	// acknowledgment, never both. This replaces the historical behavior
	// where both decodings were attempted independently and a single
	// payload could fire both events.
	t.Run("SingleDispatch", func(t *testing.T) {
		msg, err := DecodeInbound([]byte(`{"id":"abc","result":1}`))
		if err != nil {
			t.Fatalf("DecodeInbound failed: %v", err)
		}
		if _, ok := msg.(*SubscriptionConfirmation); !ok {
			t.Fatalf("numeric result must classify as SubscriptionConfirmation, got %T", msg)
		}
	})

	t.Run("UnexpectedResultType", func(t *testing.T) {
		_, err := DecodeInbound([]byte(`{"id":"abc","result":"nope"}`))
		if err == nil {
			t.Error("expected error for string result")
		}
	})
}

func TestDecodeInboundNotifications(t *testing.T) {
	t.Run("Account", func(t *testing.T) {
		payload := `{
			"method": "accountNotification",
			"params": {
				"subscription": 12345,
				"result": {
					"context": {"slot": 5199307},
					"value": {
						"lamports": 33594,
						"owner": "11111111111111111111111111111111",
						"data": ["dGVzdCBkYXRh", "base64"],
						"executable": false,
						"rentEpoch": 635
					}
				}
			}
		}`

		msg, err := DecodeInbound([]byte(payload))
		if err != nil {
			t.Fatalf("DecodeInbound failed: %v", err)
		}

		notif, ok := msg.(*AccountNotification)
		if !ok {
			t.Fatalf("expected AccountNotification, got %T", msg)
		}
		if notif.Subscription != 12345 {
			t.Errorf("Subscription = %d, want 12345", notif.Subscription)
		}
		if notif.Slot != 5199307 {
			t.Errorf("Slot = %d, want 5199307", notif.Slot)
		}
		if notif.Account.Lamports != 33594 {
			t.Errorf("Lamports = %d, want 33594", notif.Account.Lamports)
		}

		buf, err := notif.Account.DataBytes()
		if err != nil {
			t.Fatalf("DataBytes failed: %v", err)
		}
		if string(buf) != "test data" {
			t.Errorf("data = %q, want %q", buf, "test data")
		}
	})

	t.Run("Program", func(t *testing.T) {
		payload := `{
			"method": "programNotification",
			"params": {
				"subscription": 7,
				"result": {
					"context": {"slot": 100},
					"value": {
						"pubkey": "AccountPubkey1",
						"account": {"lamports": 500, "owner": "ProgramOwner"}
					}
				}
			}
		}`

		msg, err := DecodeInbound([]byte(payload))
		if err != nil {
			t.Fatalf("DecodeInbound failed: %v", err)
		}

		notif := msg.(*ProgramNotification)
		if notif.Account.Pubkey != "AccountPubkey1" {
			t.Errorf("Pubkey = %q, want AccountPubkey1", notif.Account.Pubkey)
		}
		if notif.Account.Account.Lamports != 500 {
			t.Errorf("Lamports = %d, want 500", notif.Account.Account.Lamports)
		}
	})

	t.Run("Signature", func(t *testing.T) {
		payload := `{
			"method": "signatureNotification",
			"params": {
				"subscription": 8,
				"result": {"context": {"slot": 200}, "value": {"err": null}}
			}
		}`

		msg, err := DecodeInbound([]byte(payload))
		if err != nil {
			t.Fatalf("DecodeInbound failed: %v", err)
		}

		notif := msg.(*SignatureNotification)
		if notif.Result.Err != nil {
			t.Errorf("Err = %v, want nil", notif.Result.Err)
		}
	})

	t.Run("Logs", func(t *testing.T) {
		payload := `{
			"method": "logsNotification",
			"params": {
				"subscription": 9,
				"result": {
					"context": {"slot": 300},
					"value": {
						"signature": "Sig1",
						"err": null,
						"logs": ["Program log: hello", "Program log: done"]
					}
				}
			}
		}`

		msg, err := DecodeInbound([]byte(payload))
		if err != nil {
			t.Fatalf("DecodeInbound failed: %v", err)
		}

		notif := msg.(*LogsNotification)
		if notif.Logs.Signature != "Sig1" {
			t.Errorf("Signature = %q, want Sig1", notif.Logs.Signature)
		}
		if len(notif.Logs.Logs) != 2 {
			t.Errorf("len(Logs) = %d, want 2", len(notif.Logs.Logs))
		}
	})

	t.Run("UnknownMethodDropped", func(t *testing.T) {
		msg, err := DecodeInbound([]byte(`{"method":"slotNotification","params":{"subscription":1,"result":5}}`))
		if err != nil {
			t.Fatalf("unknown push method must not be an error, got %v", err)
		}
		if msg != nil {
			t.Errorf("unknown push method must be dropped, got %T", msg)
		}
	})

	t.Run("MissingParams", func(t *testing.T) {
		if _, err := DecodeInbound([]byte(`{"method":"accountNotification"}`)); err == nil {
			t.Error("expected error for notification without params")
		}
	})
}

func TestDecodeInboundMalformed(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{name: "not json", payload: "this is not json"},
		{name: "truncated", payload: `{"id":"abc","result`},
		{name: "empty object", payload: `{}`},
		{name: "id without result", payload: `{"id":"abc"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := DecodeInbound([]byte(tt.payload))
			if err == nil {
				t.Errorf("expected error, got %T", msg)
			}
		})
	}
}

func TestDecodeInboundErrorMentionsShape(t *testing.T) {
	_, err := DecodeInbound([]byte(`{"foo":1}`))
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "neither a notification nor a confirmation") {
		t.Errorf("unexpected error text: %v", err)
	}
}
