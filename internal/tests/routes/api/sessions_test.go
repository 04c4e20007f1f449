package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/lk16/holothello/internal/characters"
	"github.com/lk16/holothello/internal/game"
	"github.com/lk16/holothello/internal/models"
	"github.com/lk16/holothello/internal/othello"
	"github.com/lk16/holothello/internal/sessions"
	"github.com/lk16/holothello/internal/tests"
	"github.com/stretchr/testify/require"
)

// doRequest sends a request with the test token and returns status and body.
func doRequest(t *testing.T, app *fiber.App, method, path string, payload any) (int, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, path, body)
	require.NoError(t, err)

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Token", tests.TestToken)

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, respBody
}

func createSession(t *testing.T, app *fiber.App, req models.CreateSessionRequest) models.SessionResponse {
	t.Helper()

	status, body := doRequest(t, app, http.MethodPost, "/api/sessions", req)
	require.Equal(t, http.StatusCreated, status, string(body))

	var resp models.SessionResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	return resp
}

func pvp() models.CreateSessionRequest {
	return models.CreateSessionRequest{
		Mode:           models.PlayerVsPlayer,
		BlackCharacter: "aurora",
		WhiteCharacter: "mochi",
	}
}

func TestSessionsNoAuth(t *testing.T) {
	app, _ := tests.NewApp(t)

	req, err := http.NewRequest(http.MethodGet, "/api/sessions/abc", nil)
	require.NoError(t, err)

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer resp.Body.Close()

	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSessionsBasicAuth(t *testing.T) {
	app, _ := tests.NewApp(t)

	req, err := http.NewRequest(http.MethodGet, "/api/characters", nil)
	require.NoError(t, err)
	req.SetBasicAuth(tests.TestUsername, tests.TestPassword)

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCreateSession(t *testing.T) {
	app, _ := tests.NewApp(t)

	resp := createSession(t, app, pvp())

	require.NotEmpty(t, resp.ID)
	require.Equal(t, models.PlayerVsPlayer, resp.Mode)
	require.Equal(t, othello.Black, resp.Snapshot.ToMove)
	require.Equal(t, 2, resp.Snapshot.Black.Discs)
	require.Len(t, resp.Snapshot.LegalMoves, 4)
	require.Empty(t, resp.Events)

	status, body := doRequest(t, app, http.MethodGet, "/api/sessions/"+resp.ID, nil)
	require.Equal(t, http.StatusOK, status)

	var got models.SessionResponse
	require.NoError(t, json.Unmarshal(body, &got))
	require.Equal(t, resp.Snapshot, got.Snapshot)
}

func TestCreateSessionErrors(t *testing.T) {
	app, _ := tests.NewApp(t)

	tests := []struct {
		name           string
		payload        any
		wantStatusCode int
	}{
		{"noBody", nil, http.StatusBadRequest},
		{"unknownMode", models.CreateSessionRequest{Mode: "solo", BlackCharacter: "aurora", WhiteCharacter: "mochi"}, http.StatusBadRequest},
		{"unknownCharacter", models.CreateSessionRequest{Mode: models.PlayerVsPlayer, BlackCharacter: "aurora", WhiteCharacter: "nobody"}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := doRequest(t, app, http.MethodPost, "/api/sessions", tt.payload)
			require.Equal(t, tt.wantStatusCode, status)

			var errResp map[string]string
			require.NoError(t, json.Unmarshal(body, &errResp))
			require.NotEmpty(t, errResp["error"])
		})
	}
}

func TestPlaceDisc(t *testing.T) {
	app, _ := tests.NewApp(t)
	session := createSession(t, app, pvp())
	path := "/api/sessions/" + session.ID + "/placements"

	status, body := doRequest(t, app, http.MethodPost, path, models.PlacementRequest{Side: "black", X: 2, Y: 3})
	require.Equal(t, http.StatusOK, status, string(body))

	var resp models.SessionResponse
	require.NoError(t, json.Unmarshal(body, &resp))

	require.Len(t, resp.Events, 1)
	event := resp.Events[0]
	require.Equal(t, models.PlacementEvent, event.Kind)
	require.Equal(t, []othello.Coord{{X: 3, Y: 3}}, event.Placement.Event.Flipped)
	require.Equal(t, 1, event.Placement.Damage)
	require.Equal(t, othello.White, resp.Snapshot.ToMove)

	tests := []struct {
		name           string
		payload        models.PlacementRequest
		wantStatusCode int
	}{
		{"wrongTurn", models.PlacementRequest{Side: "black", X: 2, Y: 2}, http.StatusUnprocessableEntity},
		{"noFlips", models.PlacementRequest{Side: "white", X: 0, Y: 0}, http.StatusUnprocessableEntity},
		{"offBoard", models.PlacementRequest{Side: "white", X: 9, Y: 0}, http.StatusUnprocessableEntity},
		{"invalidSide", models.PlacementRequest{Side: "green", X: 2, Y: 2}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := doRequest(t, app, http.MethodPost, path, tt.payload)
			require.Equal(t, tt.wantStatusCode, status)
		})
	}
}

func TestUseSkill(t *testing.T) {
	app, _ := tests.NewApp(t)
	session := createSession(t, app, pvp())
	path := "/api/sessions/" + session.ID + "/skills"

	status, body := doRequest(t, app, http.MethodPost, path, models.SkillRequest{Side: "black", Slot: 2})
	require.Equal(t, http.StatusOK, status, string(body))

	var resp models.SessionResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	require.Equal(t, models.SkillEvent, resp.Events[0].Kind)
	require.Equal(t, 2500, resp.Events[0].Skill.Damage)
	require.Equal(t, 7500, resp.Snapshot.White.HP.Current)

	// Ultimates can be used once per session
	status, _ = doRequest(t, app, http.MethodPost, path, models.SkillRequest{Side: "black", Slot: 2})
	require.Equal(t, http.StatusUnprocessableEntity, status)

	status, _ = doRequest(t, app, http.MethodPost, path, models.SkillRequest{Side: "black", Slot: 5})
	require.Equal(t, http.StatusUnprocessableEntity, status)
}

func TestEndedSessionRejectsActions(t *testing.T) {
	app, results := tests.NewApp(t, func(opts *sessions.Options) {
		opts.MaxHP = 1000
	})
	session := createSession(t, app, pvp())

	// The ultimate of aurora deals more damage than white has HP
	status, body := doRequest(t, app, http.MethodPost, "/api/sessions/"+session.ID+"/skills", models.SkillRequest{Side: "black", Slot: 2})
	require.Equal(t, http.StatusOK, status)

	var resp models.SessionResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	require.True(t, resp.Snapshot.Terminal)
	require.Equal(t, game.HPDepleted, resp.Snapshot.Reason)
	require.Equal(t, othello.Black, resp.Snapshot.Winner)

	status, _ = doRequest(t, app, http.MethodPost, "/api/sessions/"+session.ID+"/placements", models.PlacementRequest{Side: "black", X: 2, Y: 3})
	require.Equal(t, http.StatusConflict, status)

	status, _ = doRequest(t, app, http.MethodPost, "/api/sessions/"+session.ID+"/skills", models.SkillRequest{Side: "black", Slot: 0})
	require.Equal(t, http.StatusConflict, status)

	status, body = doRequest(t, app, http.MethodGet, "/api/results", nil)
	require.Equal(t, http.StatusOK, status)

	var games []models.GameResult
	require.NoError(t, json.Unmarshal(body, &games))
	require.Len(t, games, 1)
	require.Equal(t, session.ID, games[0].ID)
	require.Equal(t, "black", games[0].Winner)
	require.Equal(t, string(game.HPDepleted), games[0].Reason)

	stats, err := results.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, stats.BlackWins)
}

func TestComputerSidesCannotBeControlled(t *testing.T) {
	app, _ := tests.NewApp(t)

	req := pvp()
	req.Mode = models.CPUVsCPU
	session := createSession(t, app, req)
	require.True(t, session.Snapshot.Terminal)

	status, _ := doRequest(t, app, http.MethodPost, "/api/sessions/"+session.ID+"/skills", models.SkillRequest{Side: "black", Slot: 0})
	require.Equal(t, http.StatusBadRequest, status)
}

func TestDeleteSession(t *testing.T) {
	app, _ := tests.NewApp(t)
	session := createSession(t, app, pvp())

	status, _ := doRequest(t, app, http.MethodDelete, "/api/sessions/"+session.ID, nil)
	require.Equal(t, http.StatusNoContent, status)

	status, _ = doRequest(t, app, http.MethodGet, "/api/sessions/"+session.ID, nil)
	require.Equal(t, http.StatusNotFound, status)

	status, _ = doRequest(t, app, http.MethodDelete, "/api/sessions/"+session.ID, nil)
	require.Equal(t, http.StatusNotFound, status)
}

func TestGetCharacters(t *testing.T) {
	app, _ := tests.NewApp(t)

	status, body := doRequest(t, app, http.MethodGet, "/api/characters", nil)
	require.Equal(t, http.StatusOK, status)

	var list []characters.Character
	require.NoError(t, json.Unmarshal(body, &list))
	require.Equal(t, characters.Default().List(), list)
}
