// Package rooms is the thin request/response boundary for room lifecycle:
// create and join. Everything after a successful join happens on the
// channel.
package rooms

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

var ErrRoomNotFound = errors.New("room not found")

// Room is the created-room descriptor returned by the server.
type Room struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
	HostID string `json:"host_id"`
}

// Client calls the server's room endpoints.
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) SetTimeout(timeout time.Duration) {
	c.client.Timeout = timeout
}

// CreateRoom creates a room and returns its descriptor.
func (c *Client) CreateRoom(name string) (*Room, error) {
	payload, err := json.Marshal(map[string]string{"name": name})
	if err != nil {
		return nil, fmt.Errorf("marshal create request: %w", err)
	}
	body, err := c.post("/api/rooms", payload)
	if err != nil {
		return nil, err
	}
	var resp struct {
		Success bool   `json:"success"`
		Room    Room   `json:"room"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode create response: %w", err)
	}
	if !resp.Success || resp.Room.ID == "" {
		return nil, fmt.Errorf("create room rejected: %s", resp.Error)
	}
	return &resp.Room, nil
}

// JoinRoom verifies the room exists and admits the caller. A 404 maps to
// ErrRoomNotFound so callers can show a usable message.
func (c *Client) JoinRoom(roomID string) error {
	_, err := c.post("/api/rooms/"+roomID+"/users", nil)
	return err
}

func (c *Client) post(endpoint string, payload []byte) ([]byte, error) {
	req, err := http.NewRequest(http.MethodPost, c.baseURL+endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrRoomNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%s returned status %d: %s", endpoint, resp.StatusCode, string(body))
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return body, nil
}
