// Package shadow is an HTTP client for a device data plane that exposes
// thing shadows as JSON documents:
//
//	GET  {endpoint}/things/{id}/shadow   -> {"state":{"reported":{...},"desired":{...}}}
//	POST {endpoint}/things/{id}/shadow   <- {"state":{"desired":{...}}}
package shadow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aretw0/kitchen/internal/logging"
	"github.com/aretw0/kitchen/pkg/domain"
)

// DefaultTimeout bounds a single shadow call.
const DefaultTimeout = 5 * time.Second

// maxBody caps how much of a shadow document is read.
const maxBody = 1 << 20

// Document is the wire shape of a shadow.
type Document struct {
	State State `json:"state"`
}

// State holds the two halves of a shadow.
type State struct {
	Reported *domain.ReportedState `json:"reported,omitempty"`
	Desired  *domain.DesiredState  `json:"desired,omitempty"`
}

// Client implements ports.DeviceShadow over HTTP.
type Client struct {
	endpoint string
	http     *http.Client
	token    string
	logger   *slog.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.http = c
	}
}

// WithToken sends "Authorization: Bearer <token>" on every call.
func WithToken(token string) Option {
	return func(cl *Client) {
		cl.token = token
	}
}

// WithLogger sets the client logger.
func WithLogger(logger *slog.Logger) Option {
	return func(cl *Client) {
		cl.logger = logger
	}
}

// New creates a client for the data-plane endpoint, e.g. "https://iot.example.com".
func New(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		http:     &http.Client{Timeout: DefaultTimeout},
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) url(deviceID string) string {
	return c.endpoint + "/things/" + url.PathEscape(deviceID) + "/shadow"
}

// GetReported fetches the shadow and returns its reported half.
// A shadow without a reported half yields an empty snapshot.
func (c *Client) GetReported(ctx context.Context, deviceID string) (*domain.ReportedState, error) {
	var doc Document
	if err := c.do(ctx, http.MethodGet, deviceID, nil, &doc); err != nil {
		return nil, err
	}
	if doc.State.Reported == nil {
		return &domain.ReportedState{}, nil
	}
	return doc.State.Reported, nil
}

// SetDesired posts a desired-state update.
func (c *Client) SetDesired(ctx context.Context, deviceID string, desired *domain.DesiredState) error {
	body, err := json.Marshal(Document{State: State{Desired: desired}})
	if err != nil {
		return fmt.Errorf("failed to marshal desired state: %w", err)
	}
	return c.do(ctx, http.MethodPost, deviceID, body, nil)
}

func (c *Client) do(ctx context.Context, method, deviceID string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.url(deviceID), reader)
	if err != nil {
		return fmt.Errorf("failed to build shadow request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("shadow %s %q: %w: %w", method, deviceID, domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return fmt.Errorf("shadow %s %q: %w: %w", method, deviceID, domain.ErrTransport, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("shadow %q: %w", deviceID, domain.ErrDeviceNotFound)
	case resp.StatusCode >= 300:
		c.logger.Warn("shadow call rejected", "method", method, "device_id", deviceID, "status", resp.StatusCode)
		return fmt.Errorf("shadow %s %q: %w: status %d", method, deviceID, domain.ErrTransport, resp.StatusCode)
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("shadow %q: malformed document: %w: %w", deviceID, domain.ErrTransport, err)
	}
	return nil
}
