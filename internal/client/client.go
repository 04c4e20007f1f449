package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/lk16/holothello/internal/models"
	"github.com/lk16/holothello/internal/ws"
)

// ErrRejected is returned when the server rejected a request.
var ErrRejected = errors.New("request rejected by server")

// response mirrors ws.Outgoing with the data left undecoded.
type response struct {
	ID    int             `json:"id"`
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

// Client talks to the websocket play channel of the server.
type Client struct {
	conn *websocket.Conn

	mu     sync.Mutex
	nextID int
}

// wsURL turns a http(s) server URL into the URL of the websocket endpoint.
func wsURL(serverURL string) string {
	url := strings.TrimSuffix(serverURL, "/")

	switch {
	case strings.HasPrefix(url, "https://"):
		url = "wss://" + strings.TrimPrefix(url, "https://")
	case strings.HasPrefix(url, "http://"):
		url = "ws://" + strings.TrimPrefix(url, "http://")
	}

	return url + "/ws"
}

// Dial connects to the server, authenticating with token.
func Dial(ctx context.Context, serverURL, token string) (*Client, error) {
	header := http.Header{}
	header.Set("X-Token", token)

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL(serverURL), header)
	if resp != nil && resp.Body != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("error connecting to %s: %w", serverURL, err)
	}

	return &Client{conn: conn}, nil
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// request sends one request and waits for its answer.
func (c *Client) request(event string, data any) (models.SessionResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++

	raw, err := json.Marshal(data)
	if err != nil {
		return models.SessionResponse{}, fmt.Errorf("error marshaling %s request: %w", event, err)
	}

	req := ws.Incoming{Event: event, ID: c.nextID, Data: raw}
	if err = c.conn.WriteJSON(req); err != nil {
		return models.SessionResponse{}, fmt.Errorf("error sending %s request: %w", event, err)
	}

	var resp response
	if err = c.conn.ReadJSON(&resp); err != nil {
		return models.SessionResponse{}, fmt.Errorf("error reading %s response: %w", event, err)
	}

	slog.Debug("ws response", "event", event, "id", resp.ID, "error", resp.Error)

	if resp.ID != req.ID {
		return models.SessionResponse{}, fmt.Errorf("response id %d does not match request id %d", resp.ID, req.ID)
	}

	if resp.Error != "" {
		return models.SessionResponse{}, fmt.Errorf("%w: %s", ErrRejected, resp.Error)
	}

	var session models.SessionResponse
	if err = json.Unmarshal(resp.Data, &session); err != nil {
		return models.SessionResponse{}, fmt.Errorf("error unmarshaling %s response: %w", event, err)
	}

	return session, nil
}

// Create starts a new session.
func (c *Client) Create(req models.CreateSessionRequest) (models.SessionResponse, error) {
	return c.request(ws.CreateEvent, req)
}

// Place places a disc.
func (c *Client) Place(sessionID string, req models.PlacementRequest) (models.SessionResponse, error) {
	return c.request(ws.PlaceEvent, ws.PlaceRequest{SessionID: sessionID, PlacementRequest: req})
}

// UseSkill uses a skill.
func (c *Client) UseSkill(sessionID string, req models.SkillRequest) (models.SessionResponse, error) {
	return c.request(ws.SkillEvent, ws.SkillRequest{SessionID: sessionID, SkillRequest: req})
}

// Snapshot returns the current state of a session.
func (c *Client) Snapshot(sessionID string) (models.SessionResponse, error) {
	return c.request(ws.SnapshotEvent, ws.SnapshotRequest{SessionID: sessionID})
}
