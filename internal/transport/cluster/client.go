// Package cluster is the HTTP client for the upstream spatial clustering
// service, the single outbound dependency of the map gateway.
package cluster

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/citypulse/eventmap/internal/domain"
	"github.com/citypulse/eventmap/internal/metrics"
)

const (
	defaultRadiusMeters = 1000
	defaultTimeout      = 10 * time.Second
)

// Config holds the clustering service client settings.
type Config struct {
	URL          string
	RadiusMeters int
	Timeout      time.Duration
	Logger       *zap.Logger
}

// Client calls the clustering service. Every call carries its own timeout;
// a slow upstream cancels only the request that is waiting on it.
type Client struct {
	httpClient *http.Client
	url        string
	radius     int
	timeout    time.Duration
	logger     *zap.Logger
}

// New creates a clustering service client.
func New(cfg *Config) *Client {
	radius := cfg.RadiusMeters
	if radius <= 0 {
		radius = defaultRadiusMeters
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		httpClient: &http.Client{},
		url:        cfg.URL,
		radius:     radius,
		timeout:    timeout,
		logger:     logger,
	}
}

type clusterRequest struct {
	RadiusInMeters int `json:"radiusInMeters"`
}

// FetchClusters requests clustered events and returns the decoded JSON
// payload. Connection failures, timeouts, non-2xx statuses, and undecodable
// bodies all wrap domain.ErrUpstreamUnavailable, tagged with the concrete
// cause for logs and metrics.
func (c *Client) FetchClusters(ctx context.Context) (any, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(clusterRequest{RadiusInMeters: c.radius})
	if err != nil {
		return nil, fmt.Errorf("marshal cluster request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, c.fail(domain.CauseConnect, err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.fail(classifyTransportError(err), err)
	}
	defer func() { _ = resp.Body.Close() }()

	metrics.UpstreamRequestDuration.Observe(time.Since(start).Seconds())

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, c.fail(domain.CauseStatus, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var payload any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, c.fail(domain.CauseDecode, fmt.Errorf("decode response body: %w", err))
	}

	metrics.UpstreamRequestsTotal.WithLabelValues("success").Inc()
	return payload, nil
}

// Ping checks upstream reachability for health reporting. Any HTTP response
// counts as reachable; only transport-level failures are errors.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.url, nil)
	if err != nil {
		return fmt.Errorf("build ping request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ping clustering service: %w", err)
	}
	_ = resp.Body.Close()
	return nil
}

func (c *Client) fail(cause string, err error) error {
	metrics.UpstreamRequestsTotal.WithLabelValues(cause).Inc()
	c.logger.Warn("clustering service call failed",
		zap.String("cause", cause),
		zap.Error(err),
	)
	return domain.NewUpstreamError(cause, err)
}

func classifyTransportError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.CauseTimeout
	}
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return domain.CauseTimeout
	}
	return domain.CauseConnect
}
