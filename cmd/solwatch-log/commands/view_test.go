package commands

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/solwatch/solwatch-go/pkg/log"
)

func writeCapture(t *testing.T, events []log.Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.slog")
	logger, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	return path
}

func sampleEvents() []log.Event {
	base := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	sub := uint64(42)
	ok := true
	return []log.Event{
		{
			Timestamp:    base,
			ConnectionID: "11111111-aaaa-bbbb-cccc-000000000001",
			Direction:    log.DirectionOut,
			Layer:        log.LayerWire,
			Category:     log.CategoryMessage,
			Endpoint:     "ws://node.test:8900",
			Message: &log.MessageEvent{
				Type:      log.MessageTypeRequest,
				RequestID: "req-1",
				Method:    "accountSubscribe",
			},
		},
		{
			Timestamp:    base.Add(time.Second),
			ConnectionID: "11111111-aaaa-bbbb-cccc-000000000001",
			Direction:    log.DirectionIn,
			Layer:        log.LayerWire,
			Category:     log.CategoryMessage,
			Message: &log.MessageEvent{
				Type:           log.MessageTypeConfirmation,
				RequestID:      "req-1",
				SubscriptionID: &sub,
				Success:        &ok,
			},
		},
		{
			Timestamp:    base.Add(2 * time.Second),
			ConnectionID: "11111111-aaaa-bbbb-cccc-000000000001",
			Direction:    log.DirectionIn,
			Layer:        log.LayerWire,
			Category:     log.CategoryMessage,
			Message: &log.MessageEvent{
				Type:           log.MessageTypeNotification,
				Method:         "accountNotification",
				SubscriptionID: &sub,
				Slot:           100,
			},
		},
		{
			Timestamp:    base.Add(3 * time.Second),
			ConnectionID: "11111111-aaaa-bbbb-cccc-000000000001",
			Direction:    log.DirectionIn,
			Layer:        log.LayerTransport,
			Category:     log.CategoryState,
			StateChange: &log.StateChangeEvent{
				OldState: "CONNECTED",
				NewState: "DISCONNECTED",
				Reason:   "going away",
				Code:     1001,
			},
		},
		{
			Timestamp:    base.Add(4 * time.Second),
			ConnectionID: "22222222-aaaa-bbbb-cccc-000000000002",
			Direction:    log.DirectionIn,
			Layer:        log.LayerWire,
			Category:     log.CategoryError,
			Error: &log.ErrorEventData{
				Layer:   log.LayerWire,
				Message: "malformed payload",
				Context: "decode inbound",
			},
		},
	}
}

func TestRunView(t *testing.T) {
	path := writeCapture(t, sampleEvents())

	var buf bytes.Buffer
	if err := RunView(path, ViewFilter{}, &buf); err != nil {
		t.Fatalf("RunView failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"[conn:11111111]",
		"OUT WIRE REQUEST",
		"RequestID: req-1",
		"Method: accountSubscribe",
		"IN  WIRE CONFIRMATION",
		"Subscription: 42",
		"IN  WIRE NOTIFICATION",
		"Slot: 100",
		"CONNECTED -> DISCONNECTED",
		"Reason: going away",
		"Code: 1001",
		"Message: malformed payload",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
}

func TestRunViewFiltered(t *testing.T) {
	path := writeCapture(t, sampleEvents())

	layer := log.LayerTransport
	var buf bytes.Buffer
	if err := RunView(path, ViewFilter{Layer: &layer}, &buf); err != nil {
		t.Fatalf("RunView failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "State") {
		t.Errorf("transport view missing state event:\n%s", out)
	}
	if strings.Contains(out, "REQUEST") {
		t.Errorf("transport view should not contain wire requests:\n%s", out)
	}
}

func TestRunViewMissingFile(t *testing.T) {
	if err := RunView(filepath.Join(t.TempDir(), "missing.slog"), ViewFilter{}, &bytes.Buffer{}); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestParseFlags(t *testing.T) {
	t.Run("Layer", func(t *testing.T) {
		for input, want := range map[string]log.Layer{
			"transport": log.LayerTransport,
			"WIRE":      log.LayerWire,
			"Client":    log.LayerClient,
		} {
			got, err := ParseLayerFlag(input)
			if err != nil || got != want {
				t.Errorf("ParseLayerFlag(%q) = %v, %v", input, got, err)
			}
		}
		if _, err := ParseLayerFlag("service"); err == nil {
			t.Error("expected error for unknown layer")
		}
	})

	t.Run("Direction", func(t *testing.T) {
		if d, err := ParseDirectionFlag("out"); err != nil || d != log.DirectionOut {
			t.Errorf("ParseDirectionFlag(out) = %v, %v", d, err)
		}
		if _, err := ParseDirectionFlag("sideways"); err == nil {
			t.Error("expected error for unknown direction")
		}
	})

	t.Run("Category", func(t *testing.T) {
		if c, err := ParseCategoryFlag("error"); err != nil || c != log.CategoryError {
			t.Errorf("ParseCategoryFlag(error) = %v, %v", c, err)
		}
		if _, err := ParseCategoryFlag("frame"); err == nil {
			t.Error("expected error for unknown category")
		}
	})
}
