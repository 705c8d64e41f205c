package ethnode

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTraceResults() TraceResults {
	gasUsed := hexutil.Uint64(21000)
	from := common.HexToAddress("0x000000000000000000000000000000000000cafe")
	to := common.HexToAddress("0x000000000000000000000000000000000000beef")

	return TraceResults{
		Output: hexutil.Bytes{0x2a},
		Trace: []TransactionTrace{
			{
				Type: "call",
				Action: TraceAction{
					CallType: "call",
					From:     &from,
					To:       &to,
					Gas:      &gasUsed,
					Value:    (*hexutil.Big)(common.Big1),
				},
				Result:       &TraceOutput{GasUsed: &gasUsed, Output: hexutil.Bytes{0x2a}},
				TraceAddress: []int{},
			},
		},
	}
}

func TestParseTraceType(t *testing.T) {
	t.Run("accepts every member of the closed set", func(t *testing.T) {
		for _, s := range []string{"trace", "vmTrace", "stateDiff"} {
			got, err := ParseTraceType(s)
			require.NoError(t, err)
			assert.Equal(t, TraceType(s), got)
		}
	})

	t.Run("rejects anything else", func(t *testing.T) {
		_, err := ParseTraceType("fullTrace")
		assert.Error(t, err)
	})
}

func TestClient_ReplayTransaction(t *testing.T) {
	results := testTraceResults()

	connectAll(t, &ethService{}, &traceService{results: results}, func(t *testing.T, c *Client) {
		got, err := c.ReplayTransaction(t.Context(), common.HexToHash("0x01").Hex(), []TraceType{TraceTypeTrace})
		require.NoError(t, err)
		require.NotNil(t, got)

		assert.Equal(t, results.Output, got.Output)
		require.Len(t, got.Trace, 1)
		assert.Equal(t, "call", got.Trace[0].Type)
		assert.Equal(t, results.Trace[0].Action.From, got.Trace[0].Action.From)
		require.NotNil(t, got.Trace[0].Result)
		assert.Equal(t, results.Trace[0].Result.GasUsed, got.Trace[0].Result.GasUsed)
	})
}

func TestClient_ReplayTransactionRejectsMalformedHash(t *testing.T) {
	// HTTP construction is lazy, so no server is needed: the hash must be
	// rejected before any network round-trip is attempted.
	c, err := Connect(t.Context(), "http://127.0.0.1:1")
	require.NoError(t, err)
	defer c.Close()

	for _, malformed := range []string{"", "nothex", "0x1234", "0xzz"} {
		_, err := c.ReplayTransaction(t.Context(), malformed, []TraceType{TraceTypeTrace})
		assert.ErrorIs(t, err, ErrInvalidHash, "input %q", malformed)
	}
}

func TestClient_ReplayBlockTransactions(t *testing.T) {
	results := testTraceResults()

	connectAll(t, &ethService{}, &traceService{results: results}, func(t *testing.T, c *Client) {
		got, err := c.ReplayBlockTransactions(t.Context(), testBlockNumber, []TraceType{TraceTypeTrace, TraceTypeStateDiff})
		require.NoError(t, err)
		require.Len(t, got, 2)

		assert.Equal(t, common.HexToHash("0x01"), got[0].TransactionHash)
		assert.Equal(t, common.HexToHash("0x02"), got[1].TransactionHash)
		assert.Equal(t, results.Output, got[0].Output)
	})
}

func TestClient_TraceErrorsPropagate(t *testing.T) {
	trace := &traceService{err: errNodeUnhappy}

	srv := newTestServer(t, &ethService{}, trace)
	c, err := Connect(t.Context(), serveHTTP(t, srv))
	require.NoError(t, err)
	defer c.Close()

	_, err = c.ReplayTransaction(t.Context(), common.HexToHash("0x01").Hex(), []TraceType{TraceTypeTrace})
	assert.ErrorIs(t, err, ErrUpstream)
	assert.Contains(t, err.Error(), errNodeUnhappy.Error())

	_, err = c.ReplayBlockTransactions(t.Context(), 1, nil)
	assert.ErrorIs(t, err, ErrUpstream)
	assert.Contains(t, err.Error(), errNodeUnhappy.Error())
}
