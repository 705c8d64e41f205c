package ethnode

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// TraceType selects which kind of trace the node should produce when
// replaying a transaction. The set is closed; nodes reject anything else.
type TraceType string

const (
	// TraceTypeTrace requests the call-level execution trace.
	TraceTypeTrace TraceType = "trace"

	// TraceTypeVMTrace requests the full per-opcode VM trace.
	TraceTypeVMTrace TraceType = "vmTrace"

	// TraceTypeStateDiff requests the state changes caused by the execution.
	TraceTypeStateDiff TraceType = "stateDiff"
)

// ParseTraceType validates a user-supplied trace type name and returns the
// corresponding TraceType.
func ParseTraceType(s string) (TraceType, error) {
	switch t := TraceType(s); t {
	case TraceTypeTrace, TraceTypeVMTrace, TraceTypeStateDiff:
		return t, nil
	default:
		return "", fmt.Errorf("unknown trace type %q", s)
	}
}

type (
	// TraceAction describes what a single trace entry did. The populated
	// fields depend on the entry type: calls carry from/to/input, creates
	// carry init code, self-destructs carry the refund address, and reward
	// entries carry the author.
	TraceAction struct {
		CallType      string          `json:"callType,omitempty"`
		From          *common.Address `json:"from,omitempty"`
		To            *common.Address `json:"to,omitempty"`
		Gas           *hexutil.Uint64 `json:"gas,omitempty"`
		Input         hexutil.Bytes   `json:"input,omitempty"`
		Init          hexutil.Bytes   `json:"init,omitempty"`
		Value         *hexutil.Big    `json:"value,omitempty"`
		Address       *common.Address `json:"address,omitempty"`
		RefundAddress *common.Address `json:"refundAddress,omitempty"`
		Balance       *hexutil.Big    `json:"balance,omitempty"`
		Author        *common.Address `json:"author,omitempty"`
		RewardType    string          `json:"rewardType,omitempty"`
	}

	// TraceOutput holds the outcome of a successful trace entry. Calls carry
	// gas used and output data; creates carry the deployed address and code.
	TraceOutput struct {
		GasUsed *hexutil.Uint64 `json:"gasUsed,omitempty"`
		Output  hexutil.Bytes   `json:"output,omitempty"`
		Address *common.Address `json:"address,omitempty"`
		Code    hexutil.Bytes   `json:"code,omitempty"`
	}

	// TransactionTrace is a single entry of the call-level execution trace.
	// Exactly one of Result or Error is set.
	TransactionTrace struct {
		Type         string       `json:"type"`
		Action       TraceAction  `json:"action"`
		Result       *TraceOutput `json:"result,omitempty"`
		Error        string       `json:"error,omitempty"`
		Subtraces    int          `json:"subtraces"`
		TraceAddress []int        `json:"traceAddress"`
	}

	// TraceResults is the structured result of replaying one transaction.
	// VMTrace and StateDiff are kept raw: their shapes are large, node
	// specific, and only present when the matching TraceType was requested.
	TraceResults struct {
		Output    hexutil.Bytes      `json:"output"`
		Trace     []TransactionTrace `json:"trace"`
		VMTrace   json.RawMessage    `json:"vmTrace,omitempty"`
		StateDiff json.RawMessage    `json:"stateDiff,omitempty"`
	}

	// TraceResultsWithTransactionHash pairs a replay result with the hash of
	// the transaction it belongs to, as returned for whole-block replays.
	TraceResultsWithTransactionHash struct {
		TraceResults
		TransactionHash common.Hash `json:"transactionHash"`
	}
)

// ReplayTransaction re-executes the transaction identified by txHash and
// returns the requested traces. The hash string is parsed before any network
// I/O happens; a malformed hash fails with ErrInvalidHash. The node must
// support the parity tracing API.
func (c *Client) ReplayTransaction(ctx context.Context, txHash string, traceTypes []TraceType) (*TraceResults, error) {
	var hash common.Hash
	if err := hash.UnmarshalText([]byte(txHash)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidHash, err)
	}

	var result TraceResults
	if err := c.conn.CallContext(ctx, &result, "trace_replayTransaction", hash, traceTypes); err != nil {
		return nil, upstream(err)
	}

	return &result, nil
}

// ReplayBlockTransactions re-executes every transaction in the block at the
// given height and returns the requested traces, one entry per transaction.
func (c *Client) ReplayBlockTransactions(ctx context.Context, blockNumber uint64, traceTypes []TraceType) ([]TraceResultsWithTransactionHash, error) {
	var result []TraceResultsWithTransactionHash
	if err := c.conn.CallContext(ctx, &result, "trace_replayBlockTransactions", hexutil.Uint64(blockNumber), traceTypes); err != nil {
		return nil, upstream(err)
	}

	return result, nil
}
