package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/habedi/q2launch/launcher"
)

// Client submits commands to a running launcher.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// NewClient targets the launcher listening on addr.
func NewClient(addr string) *Client {
	return &Client{
		BaseURL: "http://" + addr,
		HTTP:    &http.Client{Timeout: RequestTimeout},
	}
}

// Send posts command and returns the id assigned by the launcher.
func (c *Client) Send(ctx context.Context, command string) (string, error) {
	body, err := json.Marshal(CommandRequest{Command: command})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/commands", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("launcher not reachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		var e errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return "", fmt.Errorf("launcher rejected command (%s): %s", resp.Status, e.Error)
	}
	var out CommandResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("invalid response: %w", err)
	}
	return out.ID, nil
}

// State fetches the launcher's current snapshot.
func (c *Client) State(ctx context.Context) (launcher.Snapshot, error) {
	var snap launcher.Snapshot
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/state", http.NoBody)
	if err != nil {
		return snap, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return snap, fmt.Errorf("launcher not reachable: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return snap, fmt.Errorf("unexpected status %s", resp.Status)
	}
	err = json.NewDecoder(resp.Body).Decode(&snap)
	return snap, err
}
