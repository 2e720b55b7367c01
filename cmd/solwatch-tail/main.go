// Command solwatch-tail connects to a node's pub/sub endpoint, subscribes
// to the requested streams and prints every notification as it arrives.
//
// Usage:
//
//	go run ./cmd/solwatch-tail -endpoint ws://localhost:8900 -logs all
//	go run ./cmd/solwatch-tail -config solwatch.yaml -account <pubkey>
//
// The process runs until interrupted. Subscriptions do not survive a
// disconnect; this tool exits when the connection drops rather than
// reconnecting.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/solwatch/solwatch-go/pkg/pubsub"
	"github.com/solwatch/solwatch-go/pkg/wire"
)

func main() {
	log.SetFlags(log.Ltime | log.Lmicroseconds)

	var (
		configPath = flag.String("config", "", "yaml config file")
		endpoint   = flag.String("endpoint", "", "ws:// or wss:// pub/sub endpoint (overrides config)")
		account    = flag.String("account", "", "subscribe to state changes of this account")
		program    = flag.String("program", "", "subscribe to accounts owned by this program")
		signature  = flag.String("signature", "", "subscribe to the status of this transaction signature")
		logsAll    = flag.Bool("logs", false, "subscribe to log output of every transaction")
		mentions   = flag.String("mentions", "", "subscribe to log output mentioning this address")
		capture    = flag.String("capture", "", "write a CBOR protocol capture to this file")
	)
	flag.Parse()

	config := pubsub.DefaultConfig()
	if *configPath != "" {
		loaded, err := pubsub.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		config = loaded
	}
	if *endpoint != "" {
		config.Endpoint = *endpoint
	}
	if *capture != "" {
		config.ProtocolLogPath = *capture
	}
	if config.Endpoint == "" {
		log.Fatal("No endpoint given (use -endpoint or -config)")
	}

	client, err := pubsub.New(config)
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}

	done := make(chan struct{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := client.Start(ctx, &printer{done: done}); err != nil {
		log.Fatalf("Failed to connect to %s: %v", config.Endpoint, err)
	}
	log.Printf("Connected to %s", config.Endpoint)

	subscribed := false
	subscribe := func(name, target string, fn func(string) (string, error)) {
		if target == "" {
			return
		}
		requestID, err := fn(target)
		if err != nil {
			log.Fatalf("Failed to subscribe %s %s: %v", name, target, err)
		}
		log.Printf("Requested %s subscription for %s (request %s)", name, target, requestID)
		subscribed = true
	}

	subscribe("account", *account, client.SubscribeAccount)
	subscribe("program", *program, client.SubscribeProgram)
	subscribe("signature", *signature, client.SubscribeSignature)
	subscribe("logs-mentions", *mentions, client.SubscribeLogsMentions)
	if *logsAll {
		requestID, err := client.SubscribeLogsAll()
		if err != nil {
			log.Fatalf("Failed to subscribe logs: %v", err)
		}
		log.Printf("Requested logs subscription for all transactions (request %s)", requestID)
		subscribed = true
	}
	if !subscribed {
		log.Fatal("Nothing to watch (use -account, -program, -signature, -mentions or -logs)")
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		log.Println("Shutting down...")
		if err := client.Stop(); err != nil {
			log.Printf("Error stopping client: %v", err)
		}
	case <-done:
		os.Exit(1)
	}
}

// printer writes every event to the process log.
type printer struct {
	done chan struct{}
}

func (p *printer) OnConnected() {}

func (p *printer) OnDisconnected(reason string, code uint16) {
	log.Printf("Disconnected (code %d): %s", code, reason)
	close(p.done)
}

func (p *printer) OnSubscribed(subscription uint64, requestID string) {
	log.Printf("Subscribed: handle %d (request %s)", subscription, requestID)
}

func (p *printer) OnUnsubscribed(requestID string, success bool) {
	log.Printf("Unsubscribed: request %s success=%v", requestID, success)
}

func (p *printer) OnAccountNotification(n *wire.AccountNotification) {
	log.Printf("[account %d] slot=%d lamports=%d owner=%s", n.Subscription, n.Slot, n.Account.Lamports, n.Account.Owner)
}

func (p *printer) OnProgramNotification(n *wire.ProgramNotification) {
	log.Printf("[program %d] slot=%d account=%s lamports=%d", n.Subscription, n.Slot, n.Account.Pubkey, n.Account.Account.Lamports)
}

func (p *printer) OnSignatureNotification(n *wire.SignatureNotification) {
	if n.Result.Err != nil {
		log.Printf("[signature %d] slot=%d failed: %v", n.Subscription, n.Slot, n.Result.Err)
		return
	}
	log.Printf("[signature %d] slot=%d confirmed", n.Subscription, n.Slot)
}

func (p *printer) OnLogsNotification(n *wire.LogsNotification) {
	log.Printf("[logs %d] slot=%d signature=%s (%d lines)", n.Subscription, n.Slot, n.Logs.Signature, len(n.Logs.Logs))
	for _, line := range n.Logs.Logs {
		log.Printf("    %s", line)
	}
}

func (p *printer) OnError(err error) {
	log.Printf("Error: %v", err)
}
