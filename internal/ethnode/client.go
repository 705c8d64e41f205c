// Package ethnode provides a multi-transport client for Ethereum-compatible
// nodes. A single Connect call inspects the endpoint string, picks one of the
// HTTP, WebSocket, or IPC transports, and exposes a uniform set of read-only
// JSON-RPC queries regardless of which transport backs the connection.
//
// All message encoding, connection management, and per-transport multiplexing
// is delegated to go-ethereum's rpc.Client; this package adds nothing on top
// of it beyond transport selection and a stable error taxonomy.
package ethnode

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ethereum/go-ethereum/rpc"
)

var (
	// ErrMissingEndpoint indicates that Connect was called with an empty endpoint string.
	ErrMissingEndpoint = errors.New("no rpc endpoint provided")

	// ErrInvalidURL indicates that an endpoint selected for the HTTP transport
	// could not be parsed as a URL.
	ErrInvalidURL = errors.New("invalid http endpoint")

	// ErrTransportUnavailable indicates that the WebSocket or IPC handshake failed.
	ErrTransportUnavailable = errors.New("transport unavailable")

	// ErrInvalidHash indicates that a string argument expected to hold a
	// transaction hash could not be parsed into one.
	ErrInvalidHash = errors.New("invalid transaction hash")

	// ErrUpstream wraps any error surfaced by the underlying rpc.Client during
	// a query. The original error is preserved in the chain and can be reached
	// with errors.Is / errors.As.
	ErrUpstream = errors.New("upstream rpc error")
)

// Transport identifies which of the three supported transports backs a Client.
type Transport int

const (
	// TransportHTTP is the request/response HTTP transport.
	TransportHTTP Transport = iota

	// TransportWebsocket is the persistent WebSocket transport.
	TransportWebsocket

	// TransportIPC is the local unix socket / named pipe transport.
	TransportIPC
)

// String returns a human-readable name for the transport.
func (t Transport) String() string {
	switch t {
	case TransportHTTP:
		return "http"
	case TransportWebsocket:
		return "websocket"
	case TransportIPC:
		return "ipc"
	default:
		return "unknown"
	}
}

// config holds optional settings applied during Connect.
type config struct {
	httpClient *http.Client // HTTP client used by the HTTP transport
	wsOrigin   string       // Origin header sent during the WebSocket handshake
}

// Option configures a Connect call.
type Option func(*config)

// WithHTTPClient sets the *http.Client used when the HTTP transport is
// selected. Timeouts and retry behavior of HTTP-backed connections are
// governed entirely by this client. Ignored for the other transports.
func WithHTTPClient(c *http.Client) Option {
	return func(cfg *config) {
		cfg.httpClient = c
	}
}

// WithWebsocketOrigin sets the Origin header sent during the WebSocket
// handshake. Ignored for the other transports.
func WithWebsocketOrigin(origin string) Option {
	return func(cfg *config) {
		cfg.wsOrigin = origin
	}
}

// Client is a transport-bound connection to an Ethereum-compatible node.
// The transport is fixed at construction and never changes. A Client holds no
// mutable state and is safe for concurrent use; the underlying rpc.Client
// already supports concurrent callers on every transport.
type Client struct {
	transport Transport   // which transport was selected for this connection
	conn      *rpc.Client // the single owned connection handle
}

// Connect establishes a connection to the node at endpoint and returns a
// Client bound to exactly one transport. Selection is a case-insensitive
// substring match evaluated in fixed order:
//
//  1. If the endpoint contains "http", the HTTP transport is selected. The
//     endpoint must parse as a URL (ErrInvalidURL otherwise); construction is
//     synchronous and performs no network I/O.
//  2. Otherwise, if it contains "ws", the WebSocket transport is selected. The
//     handshake runs immediately and fails with ErrTransportUnavailable if the
//     node is unreachable.
//  3. Anything else is treated as an IPC socket path and dialed immediately,
//     with the same failure mode as WebSocket.
//
// The ordering means an endpoint containing both substrings (for example
// "https://node.example/ws-proxy") resolves to HTTP. An empty endpoint fails
// with ErrMissingEndpoint.
func Connect(ctx context.Context, endpoint string, opts ...Option) (*Client, error) {
	if endpoint == "" {
		return nil, ErrMissingEndpoint
	}

	cfg := config{httpClient: new(http.Client)}
	for _, opt := range opts {
		opt(&cfg)
	}

	lowered := strings.ToLower(endpoint)
	switch {
	case strings.Contains(lowered, "http"):
		if _, err := url.Parse(endpoint); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
		}

		conn, err := rpc.DialHTTPWithClient(endpoint, cfg.httpClient)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
		}

		return &Client{transport: TransportHTTP, conn: conn}, nil

	case strings.Contains(lowered, "ws"):
		conn, err := rpc.DialWebsocket(ctx, endpoint, cfg.wsOrigin)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTransportUnavailable, err)
		}

		return &Client{transport: TransportWebsocket, conn: conn}, nil

	default:
		conn, err := rpc.DialIPC(ctx, endpoint)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTransportUnavailable, err)
		}

		return &Client{transport: TransportIPC, conn: conn}, nil
	}
}

// Transport reports which transport was selected at construction.
func (c *Client) Transport() Transport {
	return c.transport
}

// Close releases the underlying connection. The Client must not be used
// afterwards.
func (c *Client) Close() {
	c.conn.Close()
}

// upstream wraps an error returned by the rpc.Client so callers can match on
// ErrUpstream while still reaching the original cause through the chain.
func upstream(err error) error {
	return fmt.Errorf("%w: %w", ErrUpstream, err)
}
