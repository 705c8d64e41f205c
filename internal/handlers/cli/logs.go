package cli

import (
	"context"
	"fmt"
	"io"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/urfave/cli/v3"
)

// logsCommand returns a CLI command that fetches log records matching a
// filter. Addresses and topics are repeatable; each --topic value constrains
// the next topic position.
//
// Usage example:
//
//	nodeprobe logs --from 100 --to 200 --address 0xdead... --topic 0xddf2...
func logsCommand(cfg Config, out io.Writer) *cli.Command {
	return &cli.Command{
		Name:        "logs",
		Description: "Fetches log records matching a block range, contract addresses, and topics.",
		Usage:       "Prints the matching logs as a JSON array.",
		Flags: []cli.Flag{
			endpointFlag(cfg),
			&cli.Uint64Flag{
				Name:  "from",
				Usage: "First block of the range (inclusive)",
			},
			&cli.Uint64Flag{
				Name:  "to",
				Usage: "Last block of the range (inclusive); defaults to the latest block",
			},
			&cli.StringSliceFlag{
				Name:  "address",
				Usage: "Contract address to match; repeatable",
			},
			&cli.StringSliceFlag{
				Name:  "topic",
				Usage: "Topic hash for the next topic position; repeatable",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			query, err := buildFilterQuery(c)
			if err != nil {
				return err
			}

			client, err := dial(ctx, cfg, c.String("endpoint"))
			if err != nil {
				return err
			}
			defer client.Close()

			logs, err := client.FilterLogs(ctx, query)
			if err != nil {
				return err
			}

			return writeJSON(out, logs)
		},
	}
}

// buildFilterQuery translates the logs command flags into a filter query.
func buildFilterQuery(c *cli.Command) (ethereum.FilterQuery, error) {
	var query ethereum.FilterQuery

	if c.IsSet("from") {
		query.FromBlock = new(big.Int).SetUint64(c.Uint64("from"))
	}
	if c.IsSet("to") {
		query.ToBlock = new(big.Int).SetUint64(c.Uint64("to"))
	}

	for _, address := range c.StringSlice("address") {
		if !common.IsHexAddress(address) {
			return ethereum.FilterQuery{}, fmt.Errorf("invalid address %q", address)
		}
		query.Addresses = append(query.Addresses, common.HexToAddress(address))
	}

	for _, topic := range c.StringSlice("topic") {
		var hash common.Hash
		if err := hash.UnmarshalText([]byte(topic)); err != nil {
			return ethereum.FilterQuery{}, fmt.Errorf("invalid topic %q: %w", topic, err)
		}
		query.Topics = append(query.Topics, []common.Hash{hash})
	}

	return query, nil
}
