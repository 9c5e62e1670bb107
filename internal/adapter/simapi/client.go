// Package simapi is the HTTP client for the simulation endpoints. The
// terminal client drives sessions through it; the watch stream rides a
// websocket carrying the same view payloads the REST endpoints return.
package simapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"cropline/internal/app/ports"
	"cropline/internal/app/simview"
	"cropline/internal/domain/sim"
)

const defaultTimeout = 10 * time.Second

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// APIError is the decoded {error:{code,message}} body the server returns on
// failures.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s (%s)", e.Message, e.Code)
	}
	return fmt.Sprintf("server returned status %d", e.Status)
}

func (c Client) Start(ctx context.Context, farmerID string) (simview.View, error) {
	body := map[string]string{}
	if farmerID != "" {
		body["farmer_id"] = farmerID
	}
	return c.viewRequest(ctx, http.MethodPost, "/api/sim/sessions", body)
}

func (c Client) View(ctx context.Context, sessionID string) (simview.View, error) {
	return c.viewRequest(ctx, http.MethodGet, "/api/sim/sessions/"+sessionID, nil)
}

func (c Client) Input(ctx context.Context, sessionID string, in sim.Input) (simview.View, error) {
	return c.viewRequest(ctx, http.MethodPost, "/api/sim/sessions/"+sessionID+"/input", in)
}

func (c Client) Reset(ctx context.Context, sessionID string) (simview.View, error) {
	return c.viewRequest(ctx, http.MethodPost, "/api/sim/sessions/"+sessionID+"/reset", nil)
}

func (c Client) Close(ctx context.Context, sessionID string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, "/api/sim/sessions/"+sessionID, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("close session %s: %w", sessionID, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		return decodeError(resp)
	}
	return nil
}

func (c Client) viewRequest(ctx context.Context, method, path string, body any) (simview.View, error) {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return simview.View{}, err
	}
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return simview.View{}, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return simview.View{}, decodeError(resp)
	}
	var view simview.View
	if err := json.NewDecoder(resp.Body).Decode(&view); err != nil {
		return simview.View{}, fmt.Errorf("decode view: %w", err)
	}
	return view, nil
}

func (c Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(c.BaseURL, "/")+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (c Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return &http.Client{Timeout: defaultTimeout}
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		apiErr.Code = body.Error.Code
		apiErr.Message = body.Error.Message
	}
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ports.ErrNotFound, apiErr.Error())
	}
	return apiErr
}
