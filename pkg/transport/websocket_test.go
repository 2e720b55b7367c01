package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// recordingHandler captures transport events for assertions.
type recordingHandler struct {
	mu           sync.Mutex
	connected    int
	disconnected int
	reason       string
	code         uint16
	messages     [][]byte
	errs         []error

	gotMessage    chan struct{}
	gotDisconnect chan struct{}
}

func newRecordingHandler() *recordingHandler {
	return &recordingHandler{
		gotMessage:    make(chan struct{}, 16),
		gotDisconnect: make(chan struct{}, 1),
	}
}

func (h *recordingHandler) OnConnected() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.connected++
}

func (h *recordingHandler) OnDisconnected(reason string, code uint16) {
	h.mu.Lock()
	h.disconnected++
	h.reason = reason
	h.code = code
	h.mu.Unlock()
	select {
	case h.gotDisconnect <- struct{}{}:
	default:
	}
}

func (h *recordingHandler) OnTextMessage(payload []byte) {
	h.mu.Lock()
	h.messages = append(h.messages, append([]byte(nil), payload...))
	h.mu.Unlock()
	select {
	case h.gotMessage <- struct{}{}:
	default:
	}
}

func (h *recordingHandler) OnTransportError(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.errs = append(h.errs, err)
}

// echoServer upgrades incoming connections and echoes text frames back.
// Frames sent to the server are also forwarded on received.
func echoServer(t *testing.T) (wsURL string, received chan []byte, cleanup func()) {
	t.Helper()

	received = make(chan []byte, 16)
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			msgType, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			received <- data
			if err := conn.WriteMessage(msgType, data); err != nil {
				return
			}
		}
	}))

	return "ws" + strings.TrimPrefix(srv.URL, "http"), received, srv.Close
}

func TestWSConnConnectSendReceive(t *testing.T) {
	wsURL, received, cleanup := echoServer(t)
	defer cleanup()

	conn := NewWSConn(Config{URL: wsURL})
	handler := newRecordingHandler()

	if err := conn.Connect(context.Background(), handler); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer conn.Close()

	if conn.State() != StateConnected {
		t.Errorf("State() = %s, want CONNECTED", conn.State())
	}
	if handler.connected != 1 {
		t.Errorf("connected = %d, want 1", handler.connected)
	}

	if err := conn.Send([]byte(`{"id":"1"}`)); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	select {
	case data := <-received:
		if string(data) != `{"id":"1"}` {
			t.Errorf("server received %s", data)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server did not receive frame")
	}

	// The echo comes back as a text frame.
	select {
	case <-handler.gotMessage:
	case <-time.After(2 * time.Second):
		t.Fatal("handler did not receive echoed frame")
	}

	handler.mu.Lock()
	defer handler.mu.Unlock()
	if len(handler.messages) != 1 || string(handler.messages[0]) != `{"id":"1"}` {
		t.Errorf("messages = %q", handler.messages)
	}
}

func TestWSConnSendNotConnected(t *testing.T) {
	conn := NewWSConn(Config{URL: "ws://127.0.0.1:1"})
	if err := conn.Send([]byte("x")); err != ErrNotConnected {
		t.Errorf("Send = %v, want ErrNotConnected", err)
	}
}

func TestWSConnConnectTwice(t *testing.T) {
	wsURL, _, cleanup := echoServer(t)
	defer cleanup()

	conn := NewWSConn(Config{URL: wsURL})
	handler := newRecordingHandler()

	if err := conn.Connect(context.Background(), handler); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer conn.Close()

	if err := conn.Connect(context.Background(), handler); err != ErrAlreadyConnected {
		t.Errorf("second Connect = %v, want ErrAlreadyConnected", err)
	}
}

func TestWSConnCloseReportsDisconnectOnce(t *testing.T) {
	wsURL, _, cleanup := echoServer(t)
	defer cleanup()

	conn := NewWSConn(Config{URL: wsURL})
	handler := newRecordingHandler()

	if err := conn.Connect(context.Background(), handler); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	if err := conn.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	_ = conn.Close() // second close is a no-op

	select {
	case <-handler.gotDisconnect:
	case <-time.After(2 * time.Second):
		t.Fatal("OnDisconnected not delivered")
	}

	// Give a duplicate report a chance to show up.
	time.Sleep(50 * time.Millisecond)

	handler.mu.Lock()
	defer handler.mu.Unlock()
	if handler.disconnected != 1 {
		t.Errorf("disconnected = %d, want 1", handler.disconnected)
	}
	if conn.State() != StateDisconnected {
		t.Errorf("State() = %s, want DISCONNECTED", conn.State())
	}
}

func TestWSConnServerClose(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "maintenance"))
		conn.Close()
	}))
	defer srv.Close()

	conn := NewWSConn(Config{URL: "ws" + strings.TrimPrefix(srv.URL, "http")})
	handler := newRecordingHandler()

	if err := conn.Connect(context.Background(), handler); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	select {
	case <-handler.gotDisconnect:
	case <-time.After(2 * time.Second):
		t.Fatal("OnDisconnected not delivered")
	}

	handler.mu.Lock()
	defer handler.mu.Unlock()
	if handler.code != uint16(websocket.CloseGoingAway) {
		t.Errorf("code = %d, want %d", handler.code, websocket.CloseGoingAway)
	}
	if handler.reason != "maintenance" {
		t.Errorf("reason = %q, want maintenance", handler.reason)
	}
}

func TestWSConnReconnectAfterDisconnect(t *testing.T) {
	wsURL, _, cleanup := echoServer(t)
	defer cleanup()

	conn := NewWSConn(Config{URL: wsURL})

	first := newRecordingHandler()
	if err := conn.Connect(context.Background(), first); err != nil {
		t.Fatalf("first Connect failed: %v", err)
	}
	if err := conn.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	<-first.gotDisconnect

	second := newRecordingHandler()
	if err := conn.Connect(context.Background(), second); err != nil {
		t.Fatalf("second Connect failed: %v", err)
	}
	defer conn.Close()

	if second.connected != 1 {
		t.Errorf("connected = %d, want 1", second.connected)
	}
}

func TestConnectionStateString(t *testing.T) {
	states := map[ConnectionState]string{
		StateDisconnected:    "DISCONNECTED",
		StateConnecting:      "CONNECTING",
		StateConnected:       "CONNECTED",
		StateClosing:         "CLOSING",
		ConnectionState(255): "UNKNOWN",
	}
	for state, want := range states {
		if state.String() != want {
			t.Errorf("%d.String() = %s, want %s", state, state.String(), want)
		}
	}
}
