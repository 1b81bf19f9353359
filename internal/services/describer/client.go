package describer

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultHTTPTimeout = 60 * time.Second
	retryDelay         = 2 * time.Second
)

// Config captures the runtime settings required to talk to the describer.
type Config struct {
	BaseURL        string
	APIKey         string
	TimeoutSeconds int
}

// Client wraps the scene-description HTTP API.
type Client struct {
	cfg        Config
	httpClient *http.Client
	sleeper    func(time.Duration)
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithSleeper overrides how the retry sleep is performed (useful for tests).
func WithSleeper(sleeper func(time.Duration)) Option {
	return func(c *Client) {
		c.sleeper = sleeper
	}
}

// NewClient constructs a describer client using the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			BaseURL:        strings.TrimSpace(cfg.BaseURL),
			APIKey:         strings.TrimSpace(cfg.APIKey),
			TimeoutSeconds: cfg.TimeoutSeconds,
		},
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return client
}

// Configured reports whether a service endpoint is set.
func (c *Client) Configured() bool {
	return c != nil && c.cfg.BaseURL != ""
}

type describeRequest struct {
	Image string `json:"image_b64"`
}

type describeResponse struct {
	Description string `json:"description"`
	Error       string `json:"error,omitempty"`
}

// Describe submits photo bytes and returns the short scene description. One
// retry is attempted for server-side failures; everything else surfaces to
// the caller, which falls back to a deterministic description.
func (c *Client) Describe(ctx context.Context, image []byte) (string, error) {
	if !c.Configured() {
		return "", errors.New("describer: base url required")
	}
	if len(image) == 0 {
		return "", errors.New("describer: image bytes required")
	}

	payload, err := json.Marshal(describeRequest{
		Image: base64.StdEncoding.EncodeToString(image),
	})
	if err != nil {
		return "", fmt.Errorf("describer request: encode body: %w", err)
	}

	text, err := c.sendOnce(ctx, payload)
	if err == nil {
		return text, nil
	}
	var statusErr *httpStatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode < http.StatusInternalServerError {
		return "", err
	}
	if err := c.sleep(ctx, retryDelay); err != nil {
		return "", err
	}
	return c.sendOnce(ctx, payload)
}

type httpStatusError struct {
	StatusCode int
	Body       string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("describer request: http %d: %s", e.StatusCode, strings.TrimSpace(e.Body))
}

func (c *Client) sendOnce(ctx context.Context, payload []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("describer request: new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("describer request: http error: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("describer request: read body: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return "", &httpStatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var decoded describeResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", fmt.Errorf("describer request: decode response: %w", err)
	}
	if decoded.Error != "" {
		return "", fmt.Errorf("describer request: api error: %s", strings.TrimSpace(decoded.Error))
	}

	text := strings.TrimSpace(decoded.Description)
	if text == "" {
		return "", errors.New("describer request: empty description")
	}
	return text, nil
}

func (c *Client) sleep(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	if c != nil && c.sleeper != nil {
		c.sleeper(delay)
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
