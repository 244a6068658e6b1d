// Package backend is the REST client for the dashboard API.
package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"broadcaster/internal/domain"
	"broadcaster/internal/metrics"
	"broadcaster/internal/ports"
)

// API paths.
const (
	PathTemplates = "/api/whatsapp/templates"
	PathBroadcast = "/api/whatsapp/broadcast"
	PathHistory   = "/api/whatsapp/history"
)

// Config holds backend client configuration.
type Config struct {
	BaseURL string        // e.g. "https://app.example.com"
	Timeout time.Duration // HTTP timeout
}

// Client implements ports.Backend over HTTP. Every request carries the
// bearer token of the injected session provider.
type Client struct {
	config     Config
	httpClient *http.Client
	sessions   ports.SessionProvider
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// NewClient creates a backend client. m may be nil.
func NewClient(config Config, sessions ports.SessionProvider, m *metrics.Metrics, logger *slog.Logger) *Client {
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		sessions: sessions,
		metrics:  m,
		logger:   logger,
	}
}

// errorBody is the backend's error envelope.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ListTemplates returns the user's WhatsApp templates.
func (c *Client) ListTemplates(ctx context.Context) ([]domain.MessageTemplate, error) {
	var templates []domain.MessageTemplate
	if err := c.getJSON(ctx, "templates", PathTemplates, &templates); err != nil {
		return nil, err
	}
	return templates, nil
}

// ListHistory returns past broadcasts.
func (c *Client) ListHistory(ctx context.Context) ([]domain.BroadcastHistoryEntry, error) {
	var entries []domain.BroadcastHistoryEntry
	if err := c.getJSON(ctx, "history", PathHistory, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint, path string, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}

	body, err := c.do(req, endpoint)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("unmarshal %s response: %w", endpoint, err)
	}
	return nil
}

// newRequest builds an authenticated request. A missing session fails
// here, before any network I/O.
func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	sess, err := c.sessions.Session(ctx)
	if err != nil {
		return nil, err
	}
	if !sess.Valid() {
		return nil, domain.ErrNoSession
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+sess.AccessToken)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// do sends req and returns the body of a 2xx response. Other statuses
// become *domain.APIError carrying the backend's error string.
func (c *Client) do(req *http.Request, endpoint string) ([]byte, error) {
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveBackend(endpoint, 0, time.Since(start))
		return nil, fmt.Errorf("send %s request: %w", endpoint, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Warn("failed to close response body", "error", closeErr)
		}
	}()

	c.metrics.ObserveBackend(endpoint, resp.StatusCode, time.Since(start))

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", endpoint, err)
	}

	c.logger.Debug("backend response",
		"endpoint", endpoint,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &domain.APIError{Op: endpoint, StatusCode: resp.StatusCode}
		var eb errorBody
		if err := json.Unmarshal(respBody, &eb); err == nil {
			apiErr.Message = eb.Error
			if apiErr.Message == "" {
				apiErr.Message = eb.Message
			}
		}
		return nil, apiErr
	}

	return respBody, nil
}
