// Package hass provides a read-only client for the Home Assistant REST API and
// adapts it to the domain.CatalogProvider interface.
package hass

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// State is a Home Assistant entity state as returned by /api/states.
type State struct {
	EntityID   string         `json:"entity_id"`
	State      string         `json:"state"`
	Attributes map[string]any `json:"attributes"`
}

// APIClient is a thin client for the Home Assistant REST API.
type APIClient struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewAPIClient creates a new client authenticated with a long-lived access token.
func NewAPIClient(baseURL string, token string, httpClient *http.Client) APIClient {
	return APIClient{
		baseURL: baseURL,
		token:   token,
		http:    httpClient,
	}
}

// States calls GET /api/states and returns every entity state.
func (c APIClient) States(ctx context.Context) ([]State, error) {
	var states []State
	if err := c.getJSON(ctx, "/api/states", &states); err != nil {
		return nil, err
	}
	return states, nil
}

// State calls GET /api/states/<entityID> and returns a single entity state.
func (c APIClient) State(ctx context.Context, entityID string) (State, error) {
	var state State
	if err := c.getJSON(ctx, "/api/states/"+entityID, &state); err != nil {
		return State{}, err
	}
	return state, nil
}

func (c APIClient) getJSON(ctx context.Context, path string, out any) error {
	endpoint, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("http do: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("non-2xx response: %s: %s", resp.Status, string(respBody))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}
