package tests

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/lk16/holothello/internal"
	"github.com/lk16/holothello/internal/config"
	"github.com/lk16/holothello/internal/models"
	"github.com/lk16/holothello/internal/sessions"
)

const (
	TestToken    = "test-token"
	TestUsername = "test-user"
	TestPassword = "test-pass"
)

// MemoryResults keeps finished games in memory. It serves as the result
// store of the session manager and as the result reader of the routes.
type MemoryResults struct {
	mu      sync.Mutex
	results []models.GameResult
}

// SaveResult implements sessions.ResultStore.
func (r *MemoryResults) SaveResult(_ context.Context, result models.GameResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.results = append(r.results, result)
	return nil
}

// RecentResults returns the results, the most recent first.
func (r *MemoryResults) RecentResults(_ context.Context, limit int) ([]models.GameResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	recent := make([]models.GameResult, 0, len(r.results))
	for i := len(r.results) - 1; i >= 0 && (limit <= 0 || len(recent) < limit); i-- {
		recent = append(recent, r.results[i])
	}
	return recent, nil
}

// Stats counts games and winners.
func (r *MemoryResults) Stats(_ context.Context) (models.ResultStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats := models.ResultStats{Games: len(r.results), ByReason: make([]models.ReasonCount, 0)}
	for _, result := range r.results {
		switch result.Winner {
		case "black":
			stats.BlackWins++
		case "white":
			stats.WhiteWins++
		default:
			stats.Draws++
		}
	}
	return stats, nil
}

// NewApp creates an app backed by memory only stores. Options of the session manager can be adjusted with opts.
func NewApp(t *testing.T, opts ...func(*sessions.Options)) (*fiber.App, *MemoryResults) {
	t.Helper()

	results := &MemoryResults{}

	managerOpts := sessions.Options{
		Results: results,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&managerOpts)
	}

	manager := sessions.NewManager(managerOpts)
	t.Cleanup(manager.Close)

	cfg := &config.ServerConfig{
		BasicAuthUsername: TestUsername,
		BasicAuthPassword: TestPassword,
		Token:             TestToken,
	}

	app := internal.BuildApp(cfg, internal.Dependencies{
		Manager: manager,
		Results: results,
	})

	return app, results
}
