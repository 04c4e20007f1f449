package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/lk16/holothello/internal/models"
	"github.com/lk16/holothello/internal/sessions"
)

const (
	requestTimeout = 2 * time.Second
)

type Handler struct {
	manager *sessions.Manager
	ws      *websocket.Conn
}

// NewHandler creates a new Handler.
func NewHandler(ws *websocket.Conn, manager *sessions.Manager) *Handler {
	return &Handler{manager: manager, ws: ws}
}

func (h *Handler) readMessage() (*Incoming, error) {
	var req Incoming

	msgType, msg, err := h.ws.ReadMessage()
	if err != nil {
		return nil, fmt.Errorf("ws read error: %w", err)
	}

	slog.Debug("read ws message", "msgType", msgType, "msg", msg)

	if msgType != websocket.TextMessage {
		return nil, fmt.Errorf("unexpected message type: %d", msgType)
	}

	if err = json.Unmarshal(msg, &req); err != nil {
		return nil, fmt.Errorf("unmarshal error: %w", err)
	}

	return &req, nil
}

func (h *Handler) writeMessage(outgoing *Outgoing) error {
	msg, err := json.Marshal(outgoing)
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}

	slog.Debug("write ws message", "msg", string(msg))

	if err = h.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
		return fmt.Errorf("write error: %w", err)
	}

	return nil
}

// handleMessage handles one request. Rejected game actions are answered with
// an error message, malformed requests return an error and close the connection.
func (h *Handler) handleMessage(req *Incoming) (*Outgoing, error) {
	if req.Event == "" {
		return nil, errors.New("event field is either empty or missing")
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	var resp models.SessionResponse
	var err error

	switch req.Event {
	case CreateEvent:
		var reqData models.CreateSessionRequest
		if err = json.Unmarshal(req.Data, &reqData); err != nil {
			return nil, fmt.Errorf("ws create request unmarshal error: %w", err)
		}
		resp, err = h.manager.Create(ctx, reqData)
	case PlaceEvent:
		var reqData PlaceRequest
		if err = json.Unmarshal(req.Data, &reqData); err != nil {
			return nil, fmt.Errorf("ws place request unmarshal error: %w", err)
		}
		resp, err = h.manager.Place(ctx, reqData.SessionID, reqData.PlacementRequest)
	case SkillEvent:
		var reqData SkillRequest
		if err = json.Unmarshal(req.Data, &reqData); err != nil {
			return nil, fmt.Errorf("ws skill request unmarshal error: %w", err)
		}
		resp, err = h.manager.UseSkill(ctx, reqData.SessionID, reqData.SkillRequest)
	case SnapshotEvent:
		var reqData SnapshotRequest
		if err = json.Unmarshal(req.Data, &reqData); err != nil {
			return nil, fmt.Errorf("ws snapshot request unmarshal error: %w", err)
		}
		resp, err = h.manager.Get(ctx, reqData.SessionID)
	default:
		return nil, fmt.Errorf("unknown event: %s", req.Event)
	}

	if err != nil {
		slog.Debug("ws request rejected", "event", req.Event, "id", req.ID, "error", err)
		return &Outgoing{ID: req.ID, Error: err.Error()}, nil
	}

	return &Outgoing{ID: req.ID, Data: resp}, nil
}

// Handle handles the websocket connection.
func (h *Handler) Handle() error {
	for {
		req, err := h.readMessage()
		if err != nil {
			return fmt.Errorf("ws read error: %w", err)
		}

		respData, err := h.handleMessage(req)
		if err != nil {
			return fmt.Errorf("ws handle error: %w", err)
		}

		if err = h.writeMessage(respData); err != nil {
			return fmt.Errorf("ws write error: %w", err)
		}
	}
}
