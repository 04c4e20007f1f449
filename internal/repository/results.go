package repository

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/lib/pq"
	"github.com/lk16/holothello/internal/models"
	"github.com/lk16/holothello/internal/services"
)

const (
	resultStatsKey     = "result_stats"
	reasonFieldPrefix  = "reason:"
	DefaultResultLimit = 20
	MaxResultLimit     = 500
)

const resultsSchema = `
	CREATE TABLE IF NOT EXISTS game_results (
		id              TEXT PRIMARY KEY,
		mode            TEXT NOT NULL,
		black_character TEXT NOT NULL,
		white_character TEXT NOT NULL,
		winner          TEXT NOT NULL,
		reason          TEXT NOT NULL,
		black_discs     INTEGER NOT NULL,
		white_discs     INTEGER NOT NULL,
		black_hp        INTEGER NOT NULL,
		white_hp        INTEGER NOT NULL,
		moves           TEXT[] NOT NULL,
		finished_at     TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS game_results_finished_at ON game_results (finished_at DESC);
`

// ResultRepository handles database operations for finished games.
type ResultRepository struct {
	services *services.Services
}

// NewResultRepositoryFromServices creates a new ResultRepository.
func NewResultRepositoryFromServices(services *services.Services) *ResultRepository {
	return &ResultRepository{
		services: services,
	}
}

// EnsureSchema creates the results table if it does not exist.
func (repo *ResultRepository) EnsureSchema(ctx context.Context) error {
	if _, err := repo.services.Postgres.ExecContext(ctx, resultsSchema); err != nil {
		return fmt.Errorf("error creating results schema: %w", err)
	}
	return nil
}

// SaveResult stores a finished game. Saving the same game twice has no effect.
func (repo *ResultRepository) SaveResult(ctx context.Context, result models.GameResult) error {
	pgConn := repo.services.Postgres

	query := `
		INSERT INTO game_results (
			id, mode, black_character, white_character, winner, reason,
			black_discs, white_discs, black_hp, white_hp, moves, finished_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO NOTHING
	`

	res, err := pgConn.ExecContext(ctx, query,
		result.ID,
		result.Mode,
		result.BlackCharacter,
		result.WhiteCharacter,
		result.Winner,
		result.Reason,
		result.BlackDiscs,
		result.WhiteDiscs,
		result.BlackHP,
		result.WhiteHP,
		pq.Array([]string(result.Moves)),
		result.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("error saving result: %w", err)
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error saving result: %w", err)
	}

	if inserted == 0 {
		return nil
	}

	redisConn := repo.services.Redis

	// Update Redis in a single pipeline
	pipe := redisConn.Pipeline()
	pipe.HIncrBy(ctx, resultStatsKey, "games", 1)
	pipe.HIncrBy(ctx, resultStatsKey, result.Winner, 1)
	pipe.HIncrBy(ctx, resultStatsKey, reasonFieldPrefix+result.Reason, 1)
	pipe.HIncrBy(ctx, resultStatsKey, "moves", int64(len(result.Moves)))
	pipe.HIncrBy(ctx, resultStatsKey, "winner_hp", int64(winnerHP(result)))
	_, err = pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("error updating Redis stats: %w", err)
	}

	return nil
}

// winnerHP returns the remaining HP of the winner, 0 for a draw.
func winnerHP(result models.GameResult) int {
	switch result.Winner {
	case "black":
		return result.BlackHP
	case "white":
		return result.WhiteHP
	default:
		return 0
	}
}

// RecentResults returns the most recently finished games first.
func (repo *ResultRepository) RecentResults(ctx context.Context, limit int) ([]models.GameResult, error) {
	pgConn := repo.services.Postgres

	query := `
		SELECT id, mode, black_character, white_character, winner, reason,
			black_discs, white_discs, black_hp, white_hp, moves, finished_at
		FROM game_results
		ORDER BY finished_at DESC
		LIMIT $1
	`

	results := make([]models.GameResult, 0)

	if err := pgConn.SelectContext(ctx, &results, query, ClampResultLimit(limit)); err != nil {
		return nil, fmt.Errorf("error loading results: %w", err)
	}

	return results, nil
}

// ClampResultLimit returns a limit between 1 and MaxResultLimit, DefaultResultLimit if unset.
func ClampResultLimit(limit int) int {
	if limit <= 0 {
		return DefaultResultLimit
	}
	if limit > MaxResultLimit {
		return MaxResultLimit
	}
	return limit
}

func (repo *ResultRepository) buildInitialStats(ctx context.Context) error {
	pgConn := repo.services.Postgres
	redisConn := repo.services.Redis

	query := `
		SELECT winner, reason, count(*) AS count,
			COALESCE(sum(cardinality(moves)), 0) AS moves,
			COALESCE(sum(CASE winner WHEN 'black' THEN black_hp WHEN 'white' THEN white_hp ELSE 0 END), 0) AS winner_hp
		FROM game_results
		GROUP BY winner, reason
	`

	type statRow struct {
		Winner   string `db:"winner"`
		Reason   string `db:"reason"`
		Count    int    `db:"count"`
		Moves    int    `db:"moves"`
		WinnerHP int    `db:"winner_hp"`
	}

	var rows []statRow
	err := pgConn.SelectContext(ctx, &rows, query)
	if err != nil {
		return fmt.Errorf("error loading result stats: %w", err)
	}

	if len(rows) == 0 {
		return nil
	}

	statsMap := make(map[string]int)
	for _, row := range rows {
		statsMap["games"] += row.Count
		statsMap[row.Winner] += row.Count
		statsMap[reasonFieldPrefix+row.Reason] += row.Count
		statsMap["moves"] += row.Moves
		statsMap["winner_hp"] += row.WinnerHP
	}

	values := make(map[string]interface{}, len(statsMap))
	for key, value := range statsMap {
		values[key] = value
	}

	// Store in Redis hash
	err = redisConn.HSet(ctx, resultStatsKey, values).Err()
	if err != nil {
		return fmt.Errorf("error storing result stats in Redis: %w", err)
	}

	return nil
}

// Stats returns statistics about all finished games. The counters live in
// Redis and are rebuilt from Postgres when they are missing.
func (repo *ResultRepository) Stats(ctx context.Context) (models.ResultStats, error) {
	redisConn := repo.services.Redis

	stats, err := redisConn.HGetAll(ctx, resultStatsKey).Result()
	if err != nil {
		return models.ResultStats{}, fmt.Errorf("error getting result stats from Redis: %w", err)
	}

	if len(stats) == 0 {
		err = repo.buildInitialStats(ctx)
		if err != nil {
			return models.ResultStats{}, fmt.Errorf("error building initial result stats: %w", err)
		}

		// Try reading from Redis again after building stats
		stats, err = redisConn.HGetAll(ctx, resultStatsKey).Result()
		if err != nil {
			return models.ResultStats{}, fmt.Errorf("error getting result stats from Redis after build: %w", err)
		}
	}

	return parseResultStats(stats)
}

// parseResultStats converts the Redis stats hash into ResultStats.
func parseResultStats(stats map[string]string) (models.ResultStats, error) {
	counts := make(map[string]int, len(stats))
	for key, value := range stats {
		count, err := strconv.Atoi(value)
		if err != nil {
			return models.ResultStats{}, fmt.Errorf("error parsing result stats value of %s: %w", key, err)
		}
		counts[key] = count
	}

	result := models.ResultStats{
		Games:     counts["games"],
		BlackWins: counts["black"],
		WhiteWins: counts["white"],
		Draws:     counts["draw"],
		ByReason:  make([]models.ReasonCount, 0),
	}

	for key, count := range counts {
		if reason, ok := strings.CutPrefix(key, reasonFieldPrefix); ok {
			result.ByReason = append(result.ByReason, models.ReasonCount{Reason: reason, Count: count})
		}
	}

	sort.Slice(result.ByReason, func(i, j int) bool {
		return result.ByReason[i].Reason < result.ByReason[j].Reason
	})

	if result.Games > 0 {
		result.AvgMoves = float64(counts["moves"]) / float64(result.Games)
	}

	if wins := result.BlackWins + result.WhiteWins; wins > 0 {
		result.AvgWinnerHP = float64(counts["winner_hp"]) / float64(wins)
	}

	return result, nil
}
