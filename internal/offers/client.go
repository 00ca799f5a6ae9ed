// Package offers wraps the remote offers source: product registration and
// offer retrieval over HTTP with a bearer credential. The catalog must stay
// available when the remote side is not, so every transport error, non-2xx
// status and malformed payload is collapsed into "no data this cycle" and
// never propagates to an HTTP caller.
package offers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"product-aggregator/internal/model"
	"product-aggregator/prometheus"

	"go.uber.org/zap"
)

// Snapshot mirrors the remote wire shape of one offer.
type Snapshot struct {
	ID           uint  `json:"id"`
	Price        int64 `json:"price"`
	ItemsInStock int64 `json:"items_in_stock"`
}

// Client talks to the remote offers source.
type Client struct {
	baseURL string
	// token is written once by EnsureToken before any concurrent caller
	// starts, then only read.
	token      string
	httpClient *http.Client
	log        *zap.Logger
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

// NewClient creates a remote offers source client. A non-empty token skips
// self-provisioning; the timeout bounds every outbound call so a hung remote
// cannot stall a tick or a creation request.
func NewClient(baseURL, token string, timeout time.Duration, log *zap.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// EnsureToken provisions the access token once via the remote auth endpoint.
// It is a no-op when a token is already held. Call it from the composition
// root before the server or scheduler starts.
func (c *Client) EnsureToken(ctx context.Context) error {
	if c.token != "" {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		prometheus.RecordRemoteCall("auth", false)
		return fmt.Errorf("auth request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		prometheus.RecordRemoteCall("auth", false)
		return fmt.Errorf("auth returned status %d", resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		prometheus.RecordRemoteCall("auth", false)
		return fmt.Errorf("failed to parse auth response: %w", err)
	}
	if tr.AccessToken == "" {
		prometheus.RecordRemoteCall("auth", false)
		return fmt.Errorf("auth response carried no access token")
	}

	c.token = tr.AccessToken
	prometheus.RecordRemoteCall("auth", true)
	c.log.Info("Access token provisioned from offers source")
	return nil
}

// Register announces a product to the remote offers source. Only an explicit
// 201 counts as success; the caller logs any error and proceeds, since the
// product must exist locally to retry registration later.
func (c *Client) Register(ctx context.Context, product model.Product) error {
	body, err := json.Marshal(product)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/products/register", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Bearer", c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		prometheus.RecordRemoteCall("register", false)
		return fmt.Errorf("registration request failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusCreated {
		prometheus.RecordRemoteCall("register", false)
		return fmt.Errorf("registration returned status %d", resp.StatusCode)
	}

	prometheus.RecordRemoteCall("register", true)
	c.log.Info("Product registered with offers source",
		zap.Uint("product_id", product.ID),
		zap.String("name", product.Name))
	return nil
}

// FetchOffers retrieves the current offer snapshot for a product. It returns
// nil on any failure, which callers must read as "skip this refresh cycle",
// never as a deletion signal.
func (c *Client) FetchOffers(ctx context.Context, productID uint) []Snapshot {
	url := fmt.Sprintf("%s/products/%d/offers", c.baseURL, productID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		c.log.Error("Failed to build offers request", zap.Uint("product_id", productID), zap.Error(err))
		return nil
	}
	req.Header.Set("Bearer", c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		prometheus.RecordRemoteCall("fetch_offers", false)
		c.log.Warn("Offers source unavailable",
			zap.Uint("product_id", productID),
			zap.Error(err))
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		prometheus.RecordRemoteCall("fetch_offers", false)
		c.log.Warn("Offers fetch returned non-success status",
			zap.Uint("product_id", productID),
			zap.Int("status", resp.StatusCode))
		return nil
	}

	var snapshots []Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snapshots); err != nil {
		prometheus.RecordRemoteCall("fetch_offers", false)
		c.log.Warn("Failed to parse offers response",
			zap.Uint("product_id", productID),
			zap.Error(err))
		return nil
	}

	prometheus.RecordRemoteCall("fetch_offers", true)
	return snapshots
}
