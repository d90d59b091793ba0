package pushgate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

// ErrDeviceUnknown indicates the gateway has no registration for the handle.
var ErrDeviceUnknown = errors.New("device not registered")

// TooManyRequestsError represents a rate limiting signal from the gateway.
type TooManyRequestsError struct {
	RetryAfter time.Duration
}

func (e TooManyRequestsError) Error() string {
	return fmt.Sprintf("too many requests, retry after %s", e.RetryAfter)
}

// Notification is one push message addressed to a courier device.
type Notification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Tag   string `json:"tag,omitempty"`
}

// Client exposes operations against the push gateway.
type Client interface {
	DeviceRegistered(ctx context.Context, handle string) (bool, error)
	Notify(ctx context.Context, handle string, n Notification) error
}

// HTTPClient implements Client via the gateway's HTTP API.
type HTTPClient struct {
	rest   *resty.Client
	logger *slog.Logger
}

type deviceResponse struct {
	Handle     string `json:"handle"`
	Registered bool   `json:"registered"`
}

// NewHTTPClient creates a gateway client with default timeout.
func NewHTTPClient(baseURL string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse pushgate url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("pushgate url must be absolute")
	}
	rest := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second).
		SetHeader("Accept", "application/json")
	return &HTTPClient{rest: rest, logger: logger}, nil
}

// DeviceRegistered queries the gateway for the device registration state.
// An unknown handle is a regular false, not an error.
func (c *HTTPClient) DeviceRegistered(ctx context.Context, handle string) (bool, error) {
	if handle == "" {
		return false, nil
	}

	var data deviceResponse
	resp, err := c.rest.R().
		SetContext(ctx).
		SetResult(&data).
		SetPathParam("handle", handle).
		Get("/api/devices/{handle}")
	if err != nil {
		return false, err
	}

	switch resp.StatusCode() {
	case http.StatusOK:
		return data.Registered, nil
	case http.StatusNotFound:
		return false, nil
	case http.StatusTooManyRequests:
		return false, TooManyRequestsError{RetryAfter: parseRetryAfter(resp.Header().Get("Retry-After"))}
	default:
		c.logger.Error("pushgate device lookup failed",
			slog.Int("status", resp.StatusCode()),
			slog.String("body", string(resp.Body())))
		return false, fmt.Errorf("pushgate error: %s", resp.Status())
	}
}

// Notify delivers one notification to the device behind the handle.
func (c *HTTPClient) Notify(ctx context.Context, handle string, n Notification) error {
	if handle == "" {
		return ErrDeviceUnknown
	}

	resp, err := c.rest.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"handle":       handle,
			"notification": n,
		}).
		Post("/api/notify")
	if err != nil {
		return err
	}

	switch resp.StatusCode() {
	case http.StatusOK, http.StatusAccepted:
		return nil
	case http.StatusNotFound:
		return ErrDeviceUnknown
	case http.StatusTooManyRequests:
		return TooManyRequestsError{RetryAfter: parseRetryAfter(resp.Header().Get("Retry-After"))}
	default:
		c.logger.Error("pushgate notify failed",
			slog.Int("status", resp.StatusCode()),
			slog.String("body", string(resp.Body())))
		return fmt.Errorf("pushgate error: %s", resp.Status())
	}
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 5 * time.Second
	}
	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		return time.Until(t)
	}
	return 5 * time.Second
}
