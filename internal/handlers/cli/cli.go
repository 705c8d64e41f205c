package cli

import (
	"context"
	"io"
	"os"

	"github.com/urfave/cli/v3"
)

// Run initializes and executes the nodeprobe CLI application.
//
// It registers one command per query operation:
//
//   - `chain-id`: Prints the chain identifier of the connected network.
//   - `block-number`: Prints the latest block height.
//   - `code`: Prints the bytecode stored at an address.
//   - `tx`: Prints a transaction looked up by hash.
//   - `replay-tx`: Replays a transaction and prints the requested traces.
//   - `replay-block`: Replays every transaction in a block.
//   - `logs`: Prints log records matching a filter.
//
// Every command dials the endpoint from the --endpoint flag (defaulting to
// NODEPROBE_ENDPOINT), performs a single query, and prints the result as JSON
// on stdout.
func Run(ctx context.Context, cfg Config) error {
	return newApp(cfg, os.Stdout).Run(ctx, os.Args)
}

// newApp assembles the command tree. Results are written to out, which tests
// replace with a buffer.
func newApp(cfg Config, out io.Writer) *cli.Command {
	return &cli.Command{
		EnableShellCompletion: true,
		Name:                  "nodeprobe",
		Description:           "Command-line interface for querying Ethereum-compatible nodes over HTTP, WebSocket, or IPC.",
		Usage:                 "nodeprobe [command] [flags]",
		Commands: []*cli.Command{
			chainIDCommand(cfg, out),
			blockNumberCommand(cfg, out),
			codeCommand(cfg, out),
			transactionCommand(cfg, out),
			replayTransactionCommand(cfg, out),
			replayBlockCommand(cfg, out),
			logsCommand(cfg, out),
		},
	}
}

// endpointFlag is shared by every command. The configured endpoint (from the
// environment) acts as the default; the flag overrides it per invocation.
func endpointFlag(cfg Config) *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "endpoint",
		Usage: "Node endpoint: a URL for HTTP/WebSocket or a filesystem path for IPC",
		Value: cfg.Endpoint,
	}
}
