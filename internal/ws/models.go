package ws

import (
	"encoding/json"

	"github.com/lk16/holothello/internal/models"
)

const (
	CreateEvent   = "create"
	PlaceEvent    = "place"
	SkillEvent    = "skill"
	SnapshotEvent = "snapshot"
)

type Incoming struct {
	Event string          `json:"event"`
	ID    int             `json:"id"`
	Data  json.RawMessage `json:"data"`
}

type Outgoing struct {
	ID    int    `json:"id"`
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

type PlaceRequest struct {
	SessionID string `json:"session_id"`
	models.PlacementRequest
}

type SkillRequest struct {
	SessionID string `json:"session_id"`
	models.SkillRequest
}

type SnapshotRequest struct {
	SessionID string `json:"session_id"`
}
