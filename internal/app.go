package internal

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/lk16/holothello/internal/characters"
	"github.com/lk16/holothello/internal/config"
	"github.com/lk16/holothello/internal/game"
	"github.com/lk16/holothello/internal/middleware"
	"github.com/lk16/holothello/internal/repository"
	"github.com/lk16/holothello/internal/routes"
	"github.com/lk16/holothello/internal/routes/api"
	"github.com/lk16/holothello/internal/services"
	"github.com/lk16/holothello/internal/sessions"
)

const (
	defaultConcurrency  = 256 * 1024 // Maximum number of concurrent connections per worker
	defaultReadTimeout  = 10 * time.Second
	defaultWriteTimeout = 10 * time.Second
	defaultIdleTimeout  = 5 * time.Second
	defaultBodyLimit    = 1024 * 1024 // 1MB
	schemaTimeout       = 10 * time.Second
	restoreTimeout      = 30 * time.Second
)

// Dependencies are used by the route handlers.
type Dependencies struct {
	Manager *sessions.Manager
	Results api.ResultReader
}

// BuildApp creates the Fiber app with all middleware and routes.
func BuildApp(cfg *config.ServerConfig, deps Dependencies) *fiber.App {
	// Sessions and their idle drainers live in the memory of one Manager, so the
	// server always runs as a single process.
	app := fiber.New(fiber.Config{
		Concurrency:  defaultConcurrency,
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
		IdleTimeout:  defaultIdleTimeout,
		BodyLimit:    defaultBodyLimit,
	})

	// Setup session manager, result store and config in Fiber app
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("manager", deps.Manager)
		c.Locals("results", deps.Results)
		c.Locals("config", cfg)
		return c.Next()
	})

	// Add logging middleware
	app.Use(middleware.Logging())

	// Setup all routes
	routes.SetupRoutes(app)

	return app
}

// SetupApp loads the configuration, connects to Redis and Postgres and
// creates the app. The returned function releases all resources.
func SetupApp() (*fiber.App, *config.ServerConfig, func()) {
	// Load configuration
	cfg := config.LoadServerConfig()

	catalog, err := characters.Load(cfg.CharactersFile)
	if err != nil {
		slog.Error("Failed to load characters", "error", err)
		os.Exit(1)
	}

	// Initialize services
	services, err := services.InitServices(cfg)
	if err != nil {
		slog.Error("Failed to initialize services", "error", err)
		os.Exit(1)
	}

	results := repository.NewResultRepositoryFromServices(services)

	ctx, cancel := context.WithTimeout(context.Background(), schemaTimeout)
	defer cancel()

	if err = results.EnsureSchema(ctx); err != nil {
		slog.Error("Failed to create database schema", "error", err)
		os.Exit(1)
	}

	manager := sessions.NewManager(sessions.Options{
		Catalog:   catalog,
		Snapshots: repository.NewSessionRepositoryFromServices(services, cfg.SessionTTL),
		Results:   results,
		Rules: game.Rules{
			AllowSkillsOffTurn:  cfg.AllowSkillsOffTurn,
			MaxSkillUsesPerTurn: cfg.MaxSkillUsesPerTurn,
		},
		IdleDrain:    cfg.IdleDrain,
		IdleInterval: cfg.IdleInterval,
	})

	if cfg.IdleDrain {
		restoreCtx, restoreCancel := context.WithTimeout(context.Background(), restoreTimeout)
		defer restoreCancel()

		if _, err = manager.Restore(restoreCtx); err != nil {
			slog.Error("Failed to restore sessions", "error", err)
		}
	}

	app := BuildApp(cfg, Dependencies{
		Manager: manager,
		Results: results,
	})

	cleanup := func() {
		manager.Close()

		if err := services.Close(); err != nil {
			slog.Error("Failed to close services", "error", err)
		}
	}

	return app, cfg, cleanup
}
