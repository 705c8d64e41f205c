package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/gabapcia/nodeprobe/internal/ethnode"
	"github.com/gabapcia/nodeprobe/internal/pkg/logger"
	"github.com/gabapcia/nodeprobe/internal/pkg/resilience/retry"
	transporthttp "github.com/gabapcia/nodeprobe/internal/pkg/transport/http"

	"github.com/google/uuid"
)

// dial connects to the node at endpoint, retrying transient handshake
// failures with the configured backoff. Configuration errors (empty endpoint,
// unparseable URL) are permanent and surface immediately. The HTTP transport
// is backed by a retrying http.Client so request-level resilience lives in
// the transport, not in the query facade.
func dial(ctx context.Context, cfg Config, endpoint string) (*ethnode.Client, error) {
	httpClient := transporthttp.NewClient(
		transporthttp.WithTimeout(cfg.HTTPTimeout),
		transporthttp.WithRetryMax(cfg.HTTPRetryMax),
	).StandardClient()

	r := retry.New(
		retry.WithAttempts(cfg.DialAttempts),
		retry.WithDelay(cfg.DialDelay),
	)

	runID := uuid.NewString()
	logger.Debug(ctx, "connecting to node", "run_id", runID, "endpoint", endpoint)

	var client *ethnode.Client
	err := r.Execute(ctx, func() error {
		c, err := ethnode.Connect(ctx, endpoint, ethnode.WithHTTPClient(httpClient))
		if err != nil {
			if errors.Is(err, ethnode.ErrMissingEndpoint) || errors.Is(err, ethnode.ErrInvalidURL) {
				return retry.Unrecoverable(err)
			}
			logger.Warn(ctx, "connection attempt failed", "run_id", runID, "error", err)
			return err
		}

		client = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "connected to node",
		"run_id", runID,
		"endpoint", endpoint,
		"transport", client.Transport().String(),
	)

	return client, nil
}

// writeJSON renders v as indented JSON followed by a newline.
func writeJSON(out io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(out, string(data))
	return err
}
