// Package client talks to the order backend over HTTP and websocket. It
// satisfies the catalog, feed and submission collaborator interfaces.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"orderbuilder/internal/catalog"
	"orderbuilder/internal/feed"
	"orderbuilder/internal/models"
	"orderbuilder/internal/submission"
)

const defaultTimeout = 10 * time.Second

var (
	_ catalog.Source       = (*Client)(nil)
	_ feed.Source          = (*Client)(nil)
	_ submission.Submitter = (*Client)(nil)
)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API request failed with status code %d: %s", e.Code, e.Body)
}

// Client handles API requests to the order backend
type Client struct {
	httpClient *http.Client
	dialer     *websocket.Dialer
	BaseURL    string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
			c.dialer.HandshakeTimeout = d
		}
	}
}

// New creates a client for the backend at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: defaultTimeout,
		},
		BaseURL: strings.TrimRight(baseURL, "/"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type ingredientsResponse struct {
	Success bool                 `json:"success"`
	Data    []models.CatalogItem `json:"data"`
}

type feedResponse struct {
	Success bool `json:"success"`
	models.FeedSnapshot
}

type createOrderResponse struct {
	Success bool   `json:"success"`
	Name    string `json:"name"`
	Order   struct {
		Number int `json:"number"`
	} `json:"order"`
}

// Health checks if the API is up and running
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

// FetchCatalog retrieves every catalog item.
func (c *Client) FetchCatalog(ctx context.Context) ([]models.CatalogItem, error) {
	var resp ingredientsResponse
	if err := c.do(ctx, http.MethodGet, "/api/ingredients", nil, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, errors.New("catalog request was not successful")
	}
	return resp.Data, nil
}

// FetchFeed retrieves the latest feed snapshot.
func (c *Client) FetchFeed(ctx context.Context) (models.FeedSnapshot, error) {
	var resp feedResponse
	if err := c.do(ctx, http.MethodGet, "/api/orders/all", nil, &resp); err != nil {
		return models.FeedSnapshot{}, err
	}
	if !resp.Success {
		return models.FeedSnapshot{}, errors.New("feed request was not successful")
	}
	return resp.FeedSnapshot, nil
}

// SubmitOrder places an order for ingredientIDs.
func (c *Client) SubmitOrder(ctx context.Context, ingredientIDs []string) (models.OrderConfirmation, error) {
	body := map[string][]string{"ingredients": ingredientIDs}
	var resp createOrderResponse
	if err := c.do(ctx, http.MethodPost, "/api/orders", body, &resp); err != nil {
		return models.OrderConfirmation{}, err
	}
	if !resp.Success {
		return models.OrderConfirmation{}, errors.New("order request was not successful")
	}
	return models.OrderConfirmation{Name: resp.Name, Number: resp.Order.Number}, nil
}

// SubscribeFeed streams feed snapshots to fn until ctx is done or the
// connection drops. Cancelling ctx is not an error.
func (c *Client) SubscribeFeed(ctx context.Context, fn func(models.FeedSnapshot)) error {
	wsURL, err := c.websocketURL("/api/orders/ws")
	if err != nil {
		return err
	}

	conn, _, err := c.dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("dial feed: %w", err)
	}
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			conn.Close()
		case <-done:
		}
	}()

	for {
		var msg feedResponse
		if err := conn.ReadJSON(&msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("read feed: %w", err)
		}
		fn(msg.FeedSnapshot)
	}
}

func (c *Client) websocketURL(path string) (string, error) {
	u, err := url.Parse(c.BaseURL + path)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	return u.String(), nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{Code: resp.StatusCode, Body: errorMessage(data)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// errorMessage extracts the "error" field of a JSON error body, falling back
// to the raw body.
func errorMessage(data []byte) string {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err == nil && body.Error != "" {
		return body.Error
	}
	return strings.TrimSpace(string(data))
}
