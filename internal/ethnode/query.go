package ethnode

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rpc"
)

// ChainID fetches the chain identifier of the connected network.
func (c *Client) ChainID(ctx context.Context) (*big.Int, error) {
	var result hexutil.Big
	if err := c.conn.CallContext(ctx, &result, "eth_chainId"); err != nil {
		return nil, upstream(err)
	}

	return (*big.Int)(&result), nil
}

// BlockNumber fetches the height of the most recent block.
func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	var result hexutil.Uint64
	if err := c.conn.CallContext(ctx, &result, "eth_blockNumber"); err != nil {
		return 0, upstream(err)
	}

	return uint64(result), nil
}

// CodeAt fetches the bytecode stored at address in the latest block. Accounts
// without code yield an empty slice, not an error.
func (c *Client) CodeAt(ctx context.Context, address common.Address) ([]byte, error) {
	var result hexutil.Bytes
	if err := c.conn.CallContext(ctx, &result, "eth_getCode", address, "latest"); err != nil {
		return nil, upstream(err)
	}

	return result, nil
}

// TransactionByHash fetches the transaction with the given hash. It returns
// (nil, nil) when the node does not know the transaction: absence is not an
// error at this layer.
func (c *Client) TransactionByHash(ctx context.Context, hash common.Hash) (*types.Transaction, error) {
	var tx *types.Transaction
	if err := c.conn.CallContext(ctx, &tx, "eth_getTransactionByHash", hash); err != nil {
		return nil, upstream(err)
	}

	return tx, nil
}

// FilterLogs fetches all log records matching the given filter query.
func (c *Client) FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
	arg, err := toFilterArg(q)
	if err != nil {
		return nil, err
	}

	var result []types.Log
	if err := c.conn.CallContext(ctx, &result, "eth_getLogs", arg); err != nil {
		return nil, upstream(err)
	}

	return result, nil
}

// toBlockNumArg encodes a block number for the JSON-RPC wire format. A nil
// number means "latest"; negative values map to the named block tags.
func toBlockNumArg(number *big.Int) string {
	if number == nil {
		return "latest"
	}
	if number.Sign() >= 0 {
		return hexutil.EncodeBig(number)
	}
	return rpc.BlockNumber(number.Int64()).String()
}

// toFilterArg converts a FilterQuery into the parameter object expected by
// eth_getLogs. BlockHash and FromBlock/ToBlock are mutually exclusive.
func toFilterArg(q ethereum.FilterQuery) (any, error) {
	arg := map[string]any{"address": q.Addresses, "topics": q.Topics}
	if q.BlockHash != nil {
		if q.FromBlock != nil || q.ToBlock != nil {
			return nil, errors.New("cannot specify both BlockHash and FromBlock/ToBlock")
		}
		arg["blockHash"] = *q.BlockHash
	} else {
		if q.FromBlock == nil {
			arg["fromBlock"] = "0x0"
		} else {
			arg["fromBlock"] = toBlockNumArg(q.FromBlock)
		}
		arg["toBlock"] = toBlockNumArg(q.ToBlock)
	}
	return arg, nil
}
