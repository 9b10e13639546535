package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/utafrali/storefront-session/internal/domain"
	apperrors "github.com/utafrali/storefront-session/pkg/errors"
)

// HTTPDoer executes HTTP requests. Both httpclient.Client and
// httpclient.CircuitBreakerClient satisfy this.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Client implements Gateway against the storefront REST API.
type Client struct {
	baseURL    string
	httpClient HTTPDoer
	logger     *slog.Logger
}

// NewClient creates a gateway client for the storefront API at baseURL.
func NewClient(baseURL string, httpClient HTTPDoer, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

// userRecord is the wire shape of the storefront user endpoint. The
// liked_products field has shipped as an integer array, a comma-delimited
// string, and not at all; it is kept raw here and normalized before the
// record leaves this package.
type userRecord struct {
	ID            int64           `json:"id"`
	Email         string          `json:"email"`
	Admin         int             `json:"admin"`
	LikedProducts json.RawMessage `json:"liked_products"`
}

// FetchUser retrieves the user record with its liked products normalized.
func (c *Client) FetchUser(ctx context.Context, userID int64) (*User, error) {
	url := fmt.Sprintf("%s/api/users/%d", c.baseURL, userID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create fetch user request: %w", err)
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, c.transportError("fetch user", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError("fetch user", resp.StatusCode)
	}

	var record userRecord
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		return nil, c.transportError("decode user response", err)
	}

	return &User{
		ID:            record.ID,
		Email:         record.Email,
		Admin:         record.Admin != 0,
		LikedProducts: domain.ParseProductIDs(string(record.LikedProducts)),
	}, nil
}

// LikeProduct marks the product as liked for the user and returns the
// server's post-mutation liked set.
func (c *Client) LikeProduct(ctx context.Context, userID, productID int64) ([]int64, error) {
	return c.toggle(ctx, "like", userID, productID)
}

// UnlikeProduct removes the product from the user's liked set and returns
// the server's post-mutation liked set.
func (c *Client) UnlikeProduct(ctx context.Context, userID, productID int64) ([]int64, error) {
	return c.toggle(ctx, "unlike", userID, productID)
}

func (c *Client) toggle(ctx context.Context, verb string, userID, productID int64) ([]int64, error) {
	url := fmt.Sprintf("%s/api/users/%d/%s/%d", c.baseURL, userID, verb, productID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", verb, err)
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, c.transportError(verb+" product", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError(verb+" product", resp.StatusCode)
	}

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, c.transportError("decode "+verb+" response", err)
	}

	return domain.ParseProductIDs(string(raw)), nil
}

// CreateOrder submits the order and returns the created record.
func (c *Client) CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	body, err := json.Marshal(order)
	if err != nil {
		return nil, fmt.Errorf("marshal order: %w", err)
	}

	url := c.baseURL + "/api/orders"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, c.transportError("create order", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, c.statusError("create order", resp.StatusCode)
	}

	var created domain.Order
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, c.transportError("decode order response", err)
	}

	return &created, nil
}

// transportError wraps a network-level failure as a generic transport error.
// The session engine only distinguishes success from failure.
func (c *Client) transportError(op string, err error) error {
	c.logger.Warn("storefront api call failed",
		slog.String("op", op),
		slog.String("error", err.Error()),
	)
	return &apperrors.AppError{
		Code:    "SERVICE_UNAVAILABLE",
		Message: fmt.Sprintf("storefront api: %s failed", op),
		Status:  http.StatusServiceUnavailable,
		Err:     fmt.Errorf("%w: %s: %v", apperrors.ErrUnavailable, op, err),
	}
}

// statusError wraps a non-success HTTP status. Error bodies are deliberately
// not interpreted.
func (c *Client) statusError(op string, status int) error {
	c.logger.Warn("storefront api returned non-success status",
		slog.String("op", op),
		slog.Int("status", status),
	)
	return apperrors.Unavailable(fmt.Sprintf("storefront api: %s returned status %d", op, status))
}
