// Package console provides the interactive command-line interface for
// solwatch-console.
package console

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/solwatch/solwatch-go/pkg/pubsub"
	"github.com/solwatch/solwatch-go/pkg/wire"
)

// Console handles interactive mode for solwatch-console.
type Console struct {
	client *pubsub.Client
	rl     *readline.Instance
}

// New creates a new interactive console around a client.
func New(client *pubsub.Client) (*Console, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "solwatch> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	return &Console{client: client, rl: rl}, nil
}

// Stdout returns a writer that properly coordinates with the readline
// input. Notification output goes through this so it doesn't clobber the
// prompt.
func (c *Console) Stdout() io.Writer {
	return c.rl.Stdout()
}

// Run starts the interactive command loop.
func (c *Console) Run(ctx context.Context, cancel context.CancelFunc) {
	defer c.rl.Close()

	c.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := c.rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(c.rl.Stdout(), "Exiting...")
			cancel()
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			c.printHelp()

		case "account", "a":
			c.cmdSubscribe(args, "account", c.client.SubscribeAccount)

		case "program", "p":
			c.cmdSubscribe(args, "program", c.client.SubscribeProgram)

		case "sig", "s":
			c.cmdSubscribe(args, "signature", c.client.SubscribeSignature)

		case "logs", "l":
			c.cmdLogs(args)

		case "unsub", "u":
			c.cmdUnsub(args)

		case "status":
			c.cmdStatus()

		case "quit", "exit", "q":
			fmt.Fprintln(c.rl.Stdout(), "Exiting...")
			cancel()
			return

		default:
			fmt.Fprintf(c.rl.Stdout(), "Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}
}

func (c *Console) printHelp() {
	fmt.Fprintln(c.rl.Stdout(), `
Solwatch Commands:
  Subscribe:
    account <pubkey>   - Watch state changes of one account
    program <pubkey>   - Watch accounts owned by a program
    sig <signature>    - Watch a transaction signature
    logs all           - Watch log output of every transaction
    logs <pubkey>      - Watch log output mentioning an address

  Manage:
    unsub <handle>     - Cancel a subscription by its handle
    status             - Show connection state and live subscriptions

  Other:
    help               - Show this help
    quit               - Exit`)
}

func (c *Console) cmdSubscribe(args []string, name string, fn func(string) (string, error)) {
	if len(args) != 1 {
		fmt.Fprintf(c.rl.Stdout(), "Usage: %s <target>\n", name)
		return
	}
	requestID, err := fn(args[0])
	if err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Failed: %v\n", err)
		return
	}
	fmt.Fprintf(c.rl.Stdout(), "Requested %s subscription (request %s)\n", name, requestID)
}

func (c *Console) cmdLogs(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(c.rl.Stdout(), "Usage: logs all | logs <pubkey>")
		return
	}

	var (
		requestID string
		err       error
	)
	if args[0] == "all" {
		requestID, err = c.client.SubscribeLogsAll()
	} else {
		requestID, err = c.client.SubscribeLogsMentions(args[0])
	}
	if err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Failed: %v\n", err)
		return
	}
	fmt.Fprintf(c.rl.Stdout(), "Requested logs subscription (request %s)\n", requestID)
}

func (c *Console) cmdUnsub(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(c.rl.Stdout(), "Usage: unsub <handle>")
		return
	}
	handle, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Invalid handle: %s\n", args[0])
		return
	}

	kind, ok := c.client.ActiveSubscriptions()[handle]
	if !ok {
		fmt.Fprintf(c.rl.Stdout(), "No live subscription with handle %d\n", handle)
		return
	}

	var requestID string
	switch kind {
	case wire.StreamAccount:
		requestID, err = c.client.UnsubscribeAccount(handle)
	case wire.StreamProgram:
		requestID, err = c.client.UnsubscribeProgram(handle)
	case wire.StreamSignature:
		requestID, err = c.client.UnsubscribeSignature(handle)
	case wire.StreamLogs:
		requestID, err = c.client.UnsubscribeLogs(handle)
	}
	if err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Failed: %v\n", err)
		return
	}
	fmt.Fprintf(c.rl.Stdout(), "Requested unsubscribe of handle %d (request %s)\n", handle, requestID)
}

func (c *Console) cmdStatus() {
	fmt.Fprintf(c.rl.Stdout(), "Connection: %s\n", c.client.State())
	fmt.Fprintf(c.rl.Stdout(), "Pending requests: %d\n", c.client.PendingRequests())

	active := c.client.ActiveSubscriptions()
	if len(active) == 0 {
		fmt.Fprintln(c.rl.Stdout(), "No live subscriptions")
		return
	}

	handles := make([]uint64, 0, len(active))
	for handle := range active {
		handles = append(handles, handle)
	}
	sort.Slice(handles, func(i, j int) bool { return handles[i] < handles[j] })

	fmt.Fprintf(c.rl.Stdout(), "Live subscriptions (%d):\n", len(handles))
	for _, handle := range handles {
		fmt.Fprintf(c.rl.Stdout(), "  %d  %s\n", handle, active[handle])
	}
}
