package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lk16/holothello/internal/game"
	"github.com/lk16/holothello/internal/models"
	"github.com/lk16/holothello/internal/services"
	"github.com/stretchr/testify/require"
)

// newTestServices connects to the test databases, skipping the test when they are not configured.
func newTestServices(t *testing.T, postgres bool) *services.Services {
	t.Helper()

	redisURL := os.Getenv("HOLOTHELLO_TEST_REDIS_URL")
	if redisURL == "" {
		t.Skip("HOLOTHELLO_TEST_REDIS_URL is not set")
	}

	redisConn, err := services.InitRedis(redisURL)
	require.NoError(t, err)

	s := &services.Services{Redis: redisConn}

	if postgres {
		postgresURL := os.Getenv("HOLOTHELLO_TEST_POSTGRES_URL")
		if postgresURL == "" {
			require.NoError(t, redisConn.Close())
			t.Skip("HOLOTHELLO_TEST_POSTGRES_URL is not set")
		}

		s.Postgres, err = services.InitPostgres(postgresURL)
		require.NoError(t, err)
	}

	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})

	return s
}

func TestParseResultStats(t *testing.T) {
	stats, err := parseResultStats(map[string]string{
		"games":              "4",
		"black":              "2",
		"white":              "1",
		"draw":               "1",
		"moves":              "200",
		"winner_hp":          "900",
		"reason:hp_depleted": "1",
		"reason:board_full":  "3",
	})
	require.NoError(t, err)

	require.Equal(t, 4, stats.Games)
	require.Equal(t, 2, stats.BlackWins)
	require.Equal(t, 1, stats.WhiteWins)
	require.Equal(t, 1, stats.Draws)
	require.InDelta(t, 50.0, stats.AvgMoves, 1e-9)
	require.InDelta(t, 300.0, stats.AvgWinnerHP, 1e-9)
	require.Equal(t, []models.ReasonCount{
		{Reason: "board_full", Count: 3},
		{Reason: "hp_depleted", Count: 1},
	}, stats.ByReason)
}

func TestParseResultStatsEmpty(t *testing.T) {
	stats, err := parseResultStats(map[string]string{})
	require.NoError(t, err)
	require.Equal(t, 0, stats.Games)
	require.NotNil(t, stats.ByReason)
}

func TestParseResultStatsInvalid(t *testing.T) {
	_, err := parseResultStats(map[string]string{"games": "many"})
	require.Error(t, err)
}

func TestClampResultLimit(t *testing.T) {
	require.Equal(t, DefaultResultLimit, ClampResultLimit(0))
	require.Equal(t, DefaultResultLimit, ClampResultLimit(-3))
	require.Equal(t, 7, ClampResultLimit(7))
	require.Equal(t, MaxResultLimit, ClampResultLimit(MaxResultLimit+1))
}

func TestSessionRepository(t *testing.T) {
	s := newTestServices(t, false)
	repo := NewSessionRepositoryFromServices(s, time.Minute)
	ctx := context.Background()

	session, err := game.NewSession(game.Config{})
	require.NoError(t, err)

	record := models.SessionRecord{
		ID:         uuid.New().String(),
		Mode:       models.PlayerVsPlayer,
		Characters: models.Characters{Black: "aurora", White: "mochi"},
		State:      session.State(),
		CreatedAt:  time.Now().UTC().Truncate(time.Second),
	}
	record.UpdatedAt = record.CreatedAt

	require.NoError(t, repo.SaveSession(ctx, record))

	loaded, err := repo.LoadSession(ctx, record.ID)
	require.NoError(t, err)
	require.Equal(t, record.ID, loaded.ID)
	require.Equal(t, record.State, loaded.State)
	require.True(t, record.CreatedAt.Equal(loaded.CreatedAt))

	ids, err := repo.ListSessionIDs(ctx)
	require.NoError(t, err)
	require.Contains(t, ids, record.ID)

	ttl, err := s.Redis.TTL(ctx, sessionKey(record.ID)).Result()
	require.NoError(t, err)
	require.Greater(t, ttl, time.Duration(0))

	require.NoError(t, repo.DeleteSession(ctx, record.ID))

	_, err = repo.LoadSession(ctx, record.ID)
	require.ErrorIs(t, err, ErrSessionNotFound)

	// Deleting twice is fine
	require.NoError(t, repo.DeleteSession(ctx, record.ID))
}

func TestResultRepository(t *testing.T) {
	s := newTestServices(t, true)
	repo := NewResultRepositoryFromServices(s)
	ctx := context.Background()

	require.NoError(t, repo.EnsureSchema(ctx))
	require.NoError(t, s.Redis.Del(ctx, resultStatsKey).Err())

	before, err := repo.Stats(ctx)
	require.NoError(t, err)

	result := models.GameResult{
		ID:             uuid.New().String(),
		Mode:           string(models.CPUVsCPU),
		BlackCharacter: "aurora",
		WhiteCharacter: "mochi",
		Winner:         "black",
		Reason:         string(game.BoardFull),
		BlackDiscs:     40,
		WhiteDiscs:     24,
		BlackHP:        800,
		WhiteHP:        300,
		Moves:          models.Moves{"c4", "e3", "f6"},
		FinishedAt:     time.Now().UTC().Truncate(time.Millisecond),
	}

	require.NoError(t, repo.SaveResult(ctx, result))

	// Saving again does not count the game twice
	require.NoError(t, repo.SaveResult(ctx, result))

	after, err := repo.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, before.Games+1, after.Games)
	require.Equal(t, before.BlackWins+1, after.BlackWins)

	recent, err := repo.RecentResults(ctx, MaxResultLimit)
	require.NoError(t, err)

	var found *models.GameResult
	for i := range recent {
		if recent[i].ID == result.ID {
			found = &recent[i]
		}
	}
	require.NotNil(t, found)
	require.Equal(t, result.Moves, found.Moves)
	require.Equal(t, result.BlackHP, found.BlackHP)
	require.True(t, result.FinishedAt.Equal(found.FinishedAt))

	// Stats are rebuilt from Postgres when the Redis counters are gone
	require.NoError(t, s.Redis.Del(ctx, resultStatsKey).Err())

	rebuilt, err := repo.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, after.Games, rebuilt.Games)
}
