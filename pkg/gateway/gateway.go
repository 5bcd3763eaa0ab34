package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tracklet/tracklet/pkg/apierr"
	"github.com/tracklet/tracklet/pkg/config"
	"github.com/tracklet/tracklet/pkg/log"
	"github.com/tracklet/tracklet/pkg/metrics"
	"github.com/tracklet/tracklet/pkg/types"
)

const defaultTimeout = 10 * time.Second

// Client executes authenticated HTTP operations against the remote
// time-tracking server and maps transport and HTTP errors into the
// typed taxonomy in pkg/apierr.
//
// The client owns no persistent state beyond the profile it was built
// with and the identity returned by the last successful connect.
type Client struct {
	profile    types.Profile
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger

	mu        sync.RWMutex
	connected bool
	user      *types.User
	version   *types.VersionInfo
	srvConfig *types.ServerConfig
}

// NewClient validates the profile structurally and builds a client.
// No network traffic happens until Connect.
func NewClient(profile types.Profile) (*Client, error) {
	if err := config.ValidateProfile(&profile); err != nil {
		return nil, err
	}
	return &Client{
		profile: profile,
		baseURL: strings.TrimRight(profile.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: log.WithComponent("gateway"),
	}, nil
}

// WithTimeout overrides the per-request timeout
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.httpClient.Timeout = timeout
	return c
}

// Connect performs the three connect-time probes in order: version,
// config, identity. Any probe failure aborts the connect and surfaces a
// ConnectionError carrying the failing stage.
func (c *Client) Connect(ctx context.Context) error {
	var version types.VersionInfo
	if err := c.do(ctx, http.MethodGet, "/api/version", nil, nil, &version); err != nil {
		return &apierr.ConnectionError{Stage: apierr.StageVersion, Err: err}
	}

	var srvConfig types.ServerConfig
	if err := c.do(ctx, http.MethodGet, "/api/config", nil, nil, &srvConfig); err != nil {
		return &apierr.ConnectionError{Stage: apierr.StageConfig, Err: err}
	}

	var user types.User
	if err := c.do(ctx, http.MethodGet, "/api/users/me", nil, nil, &user); err != nil {
		return &apierr.ConnectionError{Stage: apierr.StageIdentity, Err: err}
	}

	c.mu.Lock()
	c.connected = true
	c.version = &version
	c.srvConfig = &srvConfig
	c.user = &user
	c.mu.Unlock()

	c.logger.Info().
		Str("server_version", version.Version).
		Str("user", user.Username).
		Msg("connected")
	return nil
}

// Disconnect drops the connected flag and cached identity
func (c *Client) Disconnect() {
	c.mu.Lock()
	c.connected = false
	c.user = nil
	c.version = nil
	c.srvConfig = nil
	c.mu.Unlock()
}

// IsConnected reports whether the last Connect succeeded
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// User returns the identity from the last successful connect, nil if
// not connected
func (c *Client) User() *types.User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.user
}

// Version returns the server version from the last successful connect
func (c *Client) Version() *types.VersionInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}

// apiErrorBody is the error payload shape the server returns on non-2xx
type apiErrorBody struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// do executes one request. Exactly one authentication header is set
// depending on the profile's auth type. A nil out skips body decoding;
// 204 and zero-length bodies decode to the zero value.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	switch c.profile.AuthType {
	case types.AuthTypeToken:
		req.Header.Set("Authorization", "Bearer "+c.profile.Token)
	case types.AuthTypeLegacy:
		req.SetBasicAuth(c.profile.Username, c.profile.Secret)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.APIRequestsTotal.WithLabelValues(method, "0").Inc()
		c.logger.Debug().Str("request_id", requestID).Str("path", path).Err(err).Msg("transport failure")
		// Code 0 marks transport-level failures (timeout, DNS, refused)
		return &apierr.APIError{Code: 0, Message: "network failure", Details: err.Error()}
	}
	defer resp.Body.Close()

	metrics.APIRequestsTotal.WithLabelValues(method, fmt.Sprintf("%d", resp.StatusCode)).Inc()
	metrics.APIRequestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &apierr.APIError{Code: 0, Message: "failed to read response", Details: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &apierr.APIError{
			Code:    resp.StatusCode,
			Message: http.StatusText(resp.StatusCode),
		}
		// Best effort: a malformed error body must not turn into a
		// parse failure.
		var parsed apiErrorBody
		if len(data) > 0 && json.Unmarshal(data, &parsed) == nil && parsed.Message != "" {
			apiErr.Message = parsed.Message
			apiErr.Details = parsed.Details
		}
		c.logger.Debug().
			Str("request_id", requestID).
			Str("path", path).
			Int("status", resp.StatusCode).
			Msg("api error")
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
