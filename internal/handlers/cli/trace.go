package cli

import (
	"context"
	"io"

	"github.com/gabapcia/nodeprobe/internal/ethnode"

	"github.com/urfave/cli/v3"
)

// traceTypesFlag selects which trace kinds the node should produce. Values
// are validated against the closed set before any connection is made.
func traceTypesFlag() *cli.StringSliceFlag {
	return &cli.StringSliceFlag{
		Name:  "trace-type",
		Usage: "Trace kind to request (trace, vmTrace, stateDiff); repeatable",
		Value: []string{string(ethnode.TraceTypeTrace)},
	}
}

// parseTraceTypes validates the raw --trace-type values.
func parseTraceTypes(raw []string) ([]ethnode.TraceType, error) {
	traceTypes := make([]ethnode.TraceType, len(raw))
	for i, s := range raw {
		t, err := ethnode.ParseTraceType(s)
		if err != nil {
			return nil, err
		}
		traceTypes[i] = t
	}
	return traceTypes, nil
}

// replayTransactionCommand returns a CLI command that replays a single
// transaction and prints the requested traces.
//
// Usage example:
//
//	nodeprobe replay-tx --hash 0xabc... --trace-type trace --trace-type stateDiff
func replayTransactionCommand(cfg Config, out io.Writer) *cli.Command {
	return &cli.Command{
		Name:        "replay-tx",
		Description: "Re-executes a transaction on the node and prints the resulting traces. The node must support the parity tracing API.",
		Usage:       "Prints the structured trace result as JSON.",
		Flags: []cli.Flag{
			endpointFlag(cfg),
			&cli.StringFlag{
				Name:     "hash",
				Usage:    "Hash of the transaction to replay",
				Required: true,
			},
			traceTypesFlag(),
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			traceTypes, err := parseTraceTypes(c.StringSlice("trace-type"))
			if err != nil {
				return err
			}

			client, err := dial(ctx, cfg, c.String("endpoint"))
			if err != nil {
				return err
			}
			defer client.Close()

			results, err := client.ReplayTransaction(ctx, c.String("hash"), traceTypes)
			if err != nil {
				return err
			}

			return writeJSON(out, results)
		},
	}
}

// replayBlockCommand returns a CLI command that replays every transaction in
// a block and prints one trace result per transaction.
func replayBlockCommand(cfg Config, out io.Writer) *cli.Command {
	return &cli.Command{
		Name:        "replay-block",
		Description: "Re-executes every transaction in a block and prints the resulting traces, paired with their transaction hashes.",
		Usage:       "Prints the list of trace results as JSON.",
		Flags: []cli.Flag{
			endpointFlag(cfg),
			&cli.Uint64Flag{
				Name:     "number",
				Usage:    "Height of the block to replay",
				Required: true,
			},
			traceTypesFlag(),
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			traceTypes, err := parseTraceTypes(c.StringSlice("trace-type"))
			if err != nil {
				return err
			}

			client, err := dial(ctx, cfg, c.String("endpoint"))
			if err != nil {
				return err
			}
			defer client.Close()

			results, err := client.ReplayBlockTransactions(ctx, c.Uint64("number"), traceTypes)
			if err != nil {
				return err
			}

			return writeJSON(out, results)
		},
	}
}
