package remotefarmers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"cropline/internal/app/ports"
	"cropline/internal/domain/farm"
)

const (
	operatorIDHeader  = "X-Operator-ID"
	operatorKeyHeader = "X-Operator-Key"

	defaultTimeout = 10 * time.Second
)

// Client fetches farmer snapshots from a central registry over HTTP. Field
// offices point this at the head-office instance and run their simulations
// against its farmer records. Any failure is fine to surface as-is: the
// session manager falls back to the default farmer on error.
type Client struct {
	BaseURL     string
	OperatorID  string
	OperatorKey string
	HTTP        *http.Client
}

func (c Client) FetchFarmer(ctx context.Context, farmerID string) (farm.Farmer, error) {
	url := strings.TrimRight(c.BaseURL, "/") + "/api/farmers/" + farmerID
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return farm.Farmer{}, fmt.Errorf("build registry request: %w", err)
	}
	if c.OperatorID != "" {
		req.Header.Set(operatorIDHeader, c.OperatorID)
		req.Header.Set(operatorKeyHeader, c.OperatorKey)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return farm.Farmer{}, fmt.Errorf("fetch farmer %s: %w", farmerID, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return farm.Farmer{}, ports.ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return farm.Farmer{}, fmt.Errorf("farmer registry returned status %d", resp.StatusCode)
	}

	var payload struct {
		Farmer farm.Farmer `json:"farmer"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return farm.Farmer{}, fmt.Errorf("decode farmer %s: %w", farmerID, err)
	}
	if payload.Farmer.ID == "" {
		return farm.Farmer{}, fmt.Errorf("farmer registry returned empty record for %s", farmerID)
	}
	return payload.Farmer, nil
}

// ListFarmers pulls the registry directory. The endpoint is operator-gated,
// so callers without credentials get the server's auth error back.
func (c Client) ListFarmers(ctx context.Context, limit int) ([]farm.Farmer, error) {
	url := strings.TrimRight(c.BaseURL, "/") + "/api/farmers"
	if limit > 0 {
		url += fmt.Sprintf("?limit=%d", limit)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build registry request: %w", err)
	}
	if c.OperatorID != "" {
		req.Header.Set(operatorIDHeader, c.OperatorID)
		req.Header.Set(operatorKeyHeader, c.OperatorKey)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("list farmers: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("farmer registry returned status %d", resp.StatusCode)
	}

	var payload struct {
		Farmers []farm.Farmer `json:"farmers"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode farmer list: %w", err)
	}
	return payload.Farmers, nil
}

func (c Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return &http.Client{Timeout: defaultTimeout}
}
