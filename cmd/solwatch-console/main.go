// Command solwatch-console is an interactive client for a node's pub/sub
// endpoint. It connects, then takes subscribe/unsubscribe commands from a
// readline prompt while notifications stream in between them.
//
// Usage:
//
//	go run ./cmd/solwatch-console -endpoint ws://localhost:8900
//	go run ./cmd/solwatch-console -config solwatch.yaml
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/solwatch/solwatch-go/cmd/solwatch-console/console"
	"github.com/solwatch/solwatch-go/pkg/pubsub"
	"github.com/solwatch/solwatch-go/pkg/wire"
)

func main() {
	log.SetFlags(log.Ltime | log.Lmicroseconds)

	var (
		configPath = flag.String("config", "", "yaml config file")
		endpoint   = flag.String("endpoint", "", "ws:// or wss:// pub/sub endpoint (overrides config)")
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

	ui, err := console.New(client)
	if err != nil {
		log.Fatalf("Failed to create console: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := client.Start(ctx, &events{out: ui, cancel: cancel}); err != nil {
		log.Fatalf("Failed to connect to %s: %v", config.Endpoint, err)
	}
	fmt.Fprintf(ui.Stdout(), "Connected to %s\n", config.Endpoint)

	ui.Run(ctx, cancel)

	if err := client.Stop(); err != nil {
		log.Printf("Error stopping client: %v", err)
	}
	os.Exit(0)
}

// events routes client callbacks to the console's coordinated stdout.
type events struct {
	out    *console.Console
	cancel context.CancelFunc
}

func (e *events) OnConnected() {}

func (e *events) OnDisconnected(reason string, code uint16) {
	fmt.Fprintf(e.out.Stdout(), "Disconnected (code %d): %s\n", code, reason)
	e.cancel()
}

func (e *events) OnSubscribed(subscription uint64, requestID string) {
	fmt.Fprintf(e.out.Stdout(), "Subscribed: handle %d (request %s)\n", subscription, requestID)
}

func (e *events) OnUnsubscribed(requestID string, success bool) {
	fmt.Fprintf(e.out.Stdout(), "Unsubscribed: request %s success=%v\n", requestID, success)
}

func (e *events) OnAccountNotification(n *wire.AccountNotification) {
	fmt.Fprintf(e.out.Stdout(), "[account %d] slot=%d lamports=%d owner=%s\n",
		n.Subscription, n.Slot, n.Account.Lamports, n.Account.Owner)
}

func (e *events) OnProgramNotification(n *wire.ProgramNotification) {
	fmt.Fprintf(e.out.Stdout(), "[program %d] slot=%d account=%s lamports=%d\n",
		n.Subscription, n.Slot, n.Account.Pubkey, n.Account.Account.Lamports)
}

func (e *events) OnSignatureNotification(n *wire.SignatureNotification) {
	status := "confirmed"
	if n.Result.Err != nil {
		status = fmt.Sprintf("failed: %v", n.Result.Err)
	}
	fmt.Fprintf(e.out.Stdout(), "[signature %d] slot=%d %s\n", n.Subscription, n.Slot, status)
}

func (e *events) OnLogsNotification(n *wire.LogsNotification) {
	fmt.Fprintf(e.out.Stdout(), "[logs %d] slot=%d signature=%s\n", n.Subscription, n.Slot, n.Logs.Signature)
	for _, line := range n.Logs.Logs {
		fmt.Fprintf(e.out.Stdout(), "    %s\n", line)
	}
}

func (e *events) OnError(err error) {
	fmt.Fprintf(e.out.Stdout(), "Error: %v\n", err)
}
