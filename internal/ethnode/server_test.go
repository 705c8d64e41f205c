package ethnode

import (
	"errors"
	"math/big"
	"net"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/stretchr/testify/require"
)

// Fixtures shared by the transport equivalence tests.
var (
	testChainID     = big.NewInt(1337)
	testBlockNumber = uint64(0x1b4)

	contractAddr = common.HexToAddress("0x5fbdb2315678afecb367f032d93f642f64180aa3")
	emptyAddr    = common.HexToAddress("0x000000000000000000000000000000000000dead")
	contractCode = hexutil.MustDecode("0x6080604052600080fd")
)

// newTestTransaction returns a deterministic signed transaction for the
// eth_getTransactionByHash fixtures.
func newTestTransaction(t *testing.T) *types.Transaction {
	t.Helper()

	key, err := crypto.HexToECDSA("b71c71a67e1177ad4e901695e1b4b9ee17ae16c6668d313eac2f96dbcda3f291")
	require.NoError(t, err)

	to := common.HexToAddress("0x000000000000000000000000000000000000beef")
	return types.MustSignNewTx(key, types.LatestSignerForChainID(testChainID), &types.LegacyTx{
		Nonce:    1,
		To:       &to,
		Value:    big.NewInt(10),
		Gas:      21000,
		GasPrice: big.NewInt(1),
	})
}

// ethService implements the subset of the "eth" namespace the client queries,
// backed by fixed fixtures. When err is set, every method fails with it so
// error propagation can be exercised uniformly.
type ethService struct {
	tx   *types.Transaction
	logs []types.Log
	err  error
}

func (s *ethService) ChainId() (*hexutil.Big, error) {
	if s.err != nil {
		return nil, s.err
	}
	return (*hexutil.Big)(testChainID), nil
}

func (s *ethService) BlockNumber() (hexutil.Uint64, error) {
	if s.err != nil {
		return 0, s.err
	}
	return hexutil.Uint64(testBlockNumber), nil
}

func (s *ethService) GetCode(address common.Address, block string) (hexutil.Bytes, error) {
	if s.err != nil {
		return nil, s.err
	}
	if address == contractAddr {
		return contractCode, nil
	}
	return hexutil.Bytes{}, nil
}

func (s *ethService) GetTransactionByHash(hash common.Hash) (*types.Transaction, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.tx != nil && s.tx.Hash() == hash {
		return s.tx, nil
	}
	return nil, nil
}

func (s *ethService) GetLogs(q map[string]any) ([]types.Log, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.logs, nil
}

// traceService implements the parity "trace" namespace with canned replies.
type traceService struct {
	results TraceResults
	err     error
}

func (s *traceService) ReplayTransaction(hash common.Hash, traceTypes []string) (*TraceResults, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &s.results, nil
}

func (s *traceService) ReplayBlockTransactions(number hexutil.Uint64, traceTypes []string) ([]TraceResultsWithTransactionHash, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []TraceResultsWithTransactionHash{
		{TraceResults: s.results, TransactionHash: common.HexToHash("0x01")},
		{TraceResults: s.results, TransactionHash: common.HexToHash("0x02")},
	}, nil
}

// newTestServer builds an in-process go-ethereum rpc.Server exposing the
// given services under the eth and trace namespaces.
func newTestServer(t *testing.T, eth *ethService, trace *traceService) *rpc.Server {
	t.Helper()

	srv := rpc.NewServer()
	require.NoError(t, srv.RegisterName("eth", eth))
	if trace != nil {
		require.NoError(t, srv.RegisterName("trace", trace))
	}
	t.Cleanup(srv.Stop)

	return srv
}

// serveHTTP exposes the rpc server over HTTP and returns its endpoint.
func serveHTTP(t *testing.T, srv *rpc.Server) string {
	t.Helper()

	hs := httptest.NewServer(srv)
	t.Cleanup(hs.Close)

	return hs.URL
}

// serveWebsocket exposes the rpc server over WebSocket. The returned endpoint
// uses the ws scheme, so the substring sniffing in Connect picks the
// WebSocket transport.
func serveWebsocket(t *testing.T, srv *rpc.Server) string {
	t.Helper()

	hs := httptest.NewServer(srv.WebsocketHandler([]string{"*"}))
	t.Cleanup(hs.Close)

	return "ws" + strings.TrimPrefix(hs.URL, "http")
}

// serveIPC exposes the rpc server on a unix socket and returns its path. The
// caller's test name must not contain the http or ws substrings, since the
// socket lives under t.TempDir and the path doubles as the endpoint.
func serveIPC(t *testing.T, srv *rpc.Server) string {
	t.Helper()

	socket := filepath.Join(t.TempDir(), "node.sock")
	l, err := net.Listen("unix", socket)
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })

	go srv.ServeListener(l)

	return socket
}

// errNodeUnhappy is the upstream failure injected through the mock services.
var errNodeUnhappy = errors.New("node exploded")
