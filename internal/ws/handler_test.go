package ws

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/lk16/holothello/internal/models"
	"github.com/lk16/holothello/internal/othello"
	"github.com/lk16/holothello/internal/sessions"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()

	manager := sessions.NewManager(sessions.Options{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	t.Cleanup(manager.Close)

	return NewHandler(nil, manager)
}

func incoming(t *testing.T, event string, id int, data any) *Incoming {
	t.Helper()

	raw, err := json.Marshal(data)
	require.NoError(t, err)

	return &Incoming{Event: event, ID: id, Data: raw}
}

func sessionResponse(t *testing.T, out *Outgoing) models.SessionResponse {
	t.Helper()

	require.Empty(t, out.Error)

	resp, ok := out.Data.(models.SessionResponse)
	require.True(t, ok)
	return resp
}

func TestHandleMessage_Game(t *testing.T) {
	h := newTestHandler(t)

	out, err := h.handleMessage(incoming(t, CreateEvent, 1, models.CreateSessionRequest{
		Mode:           models.PlayerVsPlayer,
		BlackCharacter: "kestrel",
		WhiteCharacter: "ryuu",
	}))
	require.NoError(t, err)
	require.Equal(t, 1, out.ID)
	created := sessionResponse(t, out)

	out, err = h.handleMessage(incoming(t, PlaceEvent, 2, PlaceRequest{
		SessionID:        created.ID,
		PlacementRequest: models.PlacementRequest{Side: "black", X: 2, Y: 3},
	}))
	require.NoError(t, err)
	require.Equal(t, 2, out.ID)
	placed := sessionResponse(t, out)
	require.Len(t, placed.Events, 1)
	require.Equal(t, othello.White, placed.Snapshot.ToMove)

	out, err = h.handleMessage(incoming(t, SkillEvent, 3, SkillRequest{
		SessionID:    created.ID,
		SkillRequest: models.SkillRequest{Side: "white", Slot: 0},
	}))
	require.NoError(t, err)
	skilled := sessionResponse(t, out)
	require.Equal(t, models.SkillEvent, skilled.Events[0].Kind)

	out, err = h.handleMessage(incoming(t, SnapshotEvent, 4, SnapshotRequest{SessionID: created.ID}))
	require.NoError(t, err)
	require.Equal(t, skilled.Snapshot, sessionResponse(t, out).Snapshot)
}

func TestHandleMessage_RejectedActionIsAnswered(t *testing.T) {
	h := newTestHandler(t)

	out, err := h.handleMessage(incoming(t, SnapshotEvent, 7, SnapshotRequest{SessionID: "missing"}))
	require.NoError(t, err)
	require.Equal(t, 7, out.ID)
	require.Contains(t, out.Error, "session not found")
	require.Nil(t, out.Data)
}

func TestHandleMessage_Malformed(t *testing.T) {
	h := newTestHandler(t)

	_, err := h.handleMessage(&Incoming{ID: 1})
	require.Error(t, err)

	_, err = h.handleMessage(incoming(t, "resign", 1, nil))
	require.Error(t, err)

	_, err = h.handleMessage(&Incoming{Event: PlaceEvent, ID: 1, Data: json.RawMessage(`"nope"`)})
	require.Error(t, err)
}
