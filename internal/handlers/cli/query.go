package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/urfave/cli/v3"
)

// chainIDCommand returns a CLI command that prints the chain identifier of
// the network behind the endpoint.
//
// Usage example:
//
//	nodeprobe chain-id --endpoint http://localhost:8545
func chainIDCommand(cfg Config, out io.Writer) *cli.Command {
	return &cli.Command{
		Name:        "chain-id",
		Description: "Fetches the chain identifier of the connected network.",
		Usage:       "Prints the chain id as a decimal string.",
		Flags:       []cli.Flag{endpointFlag(cfg)},
		Action: func(ctx context.Context, c *cli.Command) error {
			client, err := dial(ctx, cfg, c.String("endpoint"))
			if err != nil {
				return err
			}
			defer client.Close()

			chainID, err := client.ChainID(ctx)
			if err != nil {
				return err
			}

			return writeJSON(out, map[string]string{"chainId": chainID.String()})
		},
	}
}

// blockNumberCommand returns a CLI command that prints the latest block height.
func blockNumberCommand(cfg Config, out io.Writer) *cli.Command {
	return &cli.Command{
		Name:        "block-number",
		Description: "Fetches the height of the most recent block.",
		Usage:       "Prints the latest block number.",
		Flags:       []cli.Flag{endpointFlag(cfg)},
		Action: func(ctx context.Context, c *cli.Command) error {
			client, err := dial(ctx, cfg, c.String("endpoint"))
			if err != nil {
				return err
			}
			defer client.Close()

			number, err := client.BlockNumber(ctx)
			if err != nil {
				return err
			}

			return writeJSON(out, map[string]uint64{"blockNumber": number})
		},
	}
}

// codeCommand returns a CLI command that prints the bytecode stored at an
// address. Accounts without code print "0x".
func codeCommand(cfg Config, out io.Writer) *cli.Command {
	return &cli.Command{
		Name:        "code",
		Description: "Fetches the bytecode stored at an address in the latest block.",
		Usage:       "Prints the contract bytecode as a hex string.",
		Flags: []cli.Flag{
			endpointFlag(cfg),
			&cli.StringFlag{
				Name:     "address",
				Usage:    "Account address to inspect",
				Required: true,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			address := c.String("address")
			if !common.IsHexAddress(address) {
				return fmt.Errorf("invalid address %q", address)
			}

			client, err := dial(ctx, cfg, c.String("endpoint"))
			if err != nil {
				return err
			}
			defer client.Close()

			code, err := client.CodeAt(ctx, common.HexToAddress(address))
			if err != nil {
				return err
			}

			return writeJSON(out, map[string]hexutil.Bytes{"code": code})
		},
	}
}

// transactionCommand returns a CLI command that looks a transaction up by
// hash. Unknown transactions print null.
func transactionCommand(cfg Config, out io.Writer) *cli.Command {
	return &cli.Command{
		Name:        "tx",
		Description: "Fetches a transaction by its hash.",
		Usage:       "Prints the transaction as JSON, or null when the node does not know it.",
		Flags: []cli.Flag{
			endpointFlag(cfg),
			&cli.StringFlag{
				Name:     "hash",
				Usage:    "Transaction hash to look up",
				Required: true,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			var hash common.Hash
			if err := hash.UnmarshalText([]byte(c.String("hash"))); err != nil {
				return fmt.Errorf("invalid transaction hash: %w", err)
			}

			client, err := dial(ctx, cfg, c.String("endpoint"))
			if err != nil {
				return err
			}
			defer client.Close()

			tx, err := client.TransactionByHash(ctx, hash)
			if err != nil {
				return err
			}

			return writeJSON(out, tx)
		},
	}
}
